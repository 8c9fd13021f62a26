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

package core

import (
	"fmt"
	"strings"
)

// ValidateQuery validates query text before a research run.
func ValidateQuery(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyQuery
	}
	return nil
}

// ValidateEvidence validates an Evidence item according to domain rules.
//
// Validation rules:
//   - URL must not be empty
//   - Similarity must lie in [0,1]
//
// NOT validated (populated by later stages):
//   - Relevance and Relevant (empty until linking runs)
//   - Relation (empty unless classification runs)
func ValidateEvidence(e *Evidence) error {
	if e == nil {
		return fmt.Errorf("%w: evidence is nil", ErrInvalidEvidence)
	}
	if e.URL == "" {
		return fmt.Errorf("%w: %w", ErrInvalidEvidence, ErrEmptyURL)
	}
	if e.Similarity < 0 || e.Similarity > 1 {
		return fmt.Errorf("%w: %w: %f", ErrInvalidEvidence, ErrSimilarityOutOfRange, e.Similarity)
	}
	return nil
}

// ValidateReport validates a Report before it is archived.
func ValidateReport(r *Report) error {
	if r == nil {
		return fmt.Errorf("%w: report is nil", ErrInvalidReport)
	}
	if r.ID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidReport, ErrEmptyReportID)
	}
	if err := ValidateQuery(r.Query); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidReport, err)
	}
	for _, e := range r.Evidence {
		if err := ValidateEvidence(e); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidReport, err)
		}
	}
	return nil
}
