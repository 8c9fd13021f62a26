// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package rank

import "math"

// Link scores an evidence vector against every answer-sentence vector by
// dot product and flags the sentences scoring above mean + 1 standard
// deviation of those scores.
func Link(evidence []float32, answerSentences [][]float32) (scores []float64, relevant []bool) {
	scores = make([]float64, len(answerSentences))
	for i, v := range answerSentences {
		scores[i] = Dot(evidence, v)
	}
	return scores, RelevanceMask(scores)
}

// RelevanceMask flags the scores strictly greater than mean + population
// standard deviation. The threshold adapts to each score vector.
func RelevanceMask(scores []float64) []bool {
	mask := make([]bool, len(scores))
	if len(scores) == 0 {
		return mask
	}
	mean, std := MeanStd(scores)
	threshold := mean + std
	for i, s := range scores {
		mask[i] = s > threshold
	}
	return mask
}

// MeanStd returns the mean and population standard deviation of values.
func MeanStd(values []float64) (mean, std float64) {
	if len(values) == 0 {
		return 0, 0
	}
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))
	var variance float64
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(values))
	return mean, math.Sqrt(variance)
}
