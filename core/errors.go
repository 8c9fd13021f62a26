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

import "errors"

// Domain validation errors
var (
	// ErrInvalidReport indicates a Report failed validation.
	ErrInvalidReport = errors.New("invalid report")

	// ErrInvalidEvidence indicates an Evidence item failed validation.
	ErrInvalidEvidence = errors.New("invalid evidence")

	// ErrEmptyQuery indicates the query text is empty.
	ErrEmptyQuery = errors.New("query cannot be empty")

	// ErrEmptyReportID indicates a report has no ID.
	ErrEmptyReportID = errors.New("report ID cannot be empty")

	// ErrSimilarityOutOfRange indicates a similarity score outside [0,1].
	ErrSimilarityOutOfRange = errors.New("similarity must be within [0,1]")

	// ErrEmptyURL indicates an evidence item without a source URL.
	ErrEmptyURL = errors.New("evidence URL cannot be empty")
)
