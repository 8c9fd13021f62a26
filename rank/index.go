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

import (
	"cmp"
	"slices"
	"sync"

	"github.com/poiesic/querygraph/core"
)

// DefaultResolution is the number of similarity buckets.
const DefaultResolution = 10000

// Index is a fixed-resolution histogram of evidence keyed by similarity.
// Items are bucketed by floor(similarity * resolution); reading the buckets
// from the top approximates a full sort in linear time.
//
// Index is safe for concurrent use.
type Index struct {
	mu         sync.Mutex
	resolution int
	buckets    [][]*core.Evidence
	count      int
}

// NewIndex creates an index with the given number of buckets.
// A resolution below 1 falls back to DefaultResolution.
func NewIndex(resolution int) *Index {
	if resolution < 1 {
		resolution = DefaultResolution
	}
	return &Index{
		resolution: resolution,
		buckets:    make([][]*core.Evidence, resolution),
	}
}

// Bucket returns the bucket for a similarity score. Scores are clamped to
// [0,1] and a score of exactly 1 lands in the top bucket.
func Bucket(similarity float64, resolution int) int {
	s := clamp(similarity, 0, 1)
	b := int(s * float64(resolution))
	if b >= resolution {
		b = resolution - 1
	}
	return b
}

// Add inserts items into the index. Each item's similarity is clamped to [0,1].
func (ix *Index) Add(items ...*core.Evidence) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	for _, item := range items {
		if item == nil {
			continue
		}
		item.Similarity = clamp(item.Similarity, 0, 1)
		b := Bucket(item.Similarity, ix.resolution)
		ix.buckets[b] = append(ix.buckets[b], item)
		ix.count++
	}
}

// Len returns the number of items in the index.
func (ix *Index) Len() int {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return ix.count
}

// TopK returns the min(k, Len()) most similar items, highest first.
// Items sharing a bucket are ordered by exact similarity, then URL, then
// position, so identical input always yields identical output.
func (ix *Index) TopK(k int) []*core.Evidence {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	k = min(max(k, 0), ix.count)
	out := make([]*core.Evidence, 0, k)
	for b := ix.resolution - 1; b >= 0 && len(out) < k; b-- {
		bucket := ix.buckets[b]
		if len(bucket) == 0 {
			continue
		}
		sorted := slices.Clone(bucket)
		slices.SortStableFunc(sorted, compareEvidence)
		for _, item := range sorted {
			if len(out) == k {
				break
			}
			out = append(out, item)
		}
	}
	return out
}

// TopK ranks items with a fresh index of the given resolution.
func TopK(items []*core.Evidence, k, resolution int) []*core.Evidence {
	ix := NewIndex(resolution)
	ix.Add(items...)
	return ix.TopK(k)
}

func compareEvidence(a, b *core.Evidence) int {
	if c := cmp.Compare(b.Similarity, a.Similarity); c != 0 {
		return c
	}
	if c := cmp.Compare(a.URL, b.URL); c != 0 {
		return c
	}
	return cmp.Compare(a.Position, b.Position)
}
