package core

import (
	"errors"
	"testing"
)

func TestValidateQuery(t *testing.T) {
	if err := ValidateQuery("is the moon made of cheese?"); err != nil {
		t.Errorf("ValidateQuery() unexpected error: %v", err)
	}
	if err := ValidateQuery("   "); !errors.Is(err, ErrEmptyQuery) {
		t.Errorf("ValidateQuery() error = %v, want %v", err, ErrEmptyQuery)
	}
}

func TestValidateEvidence(t *testing.T) {
	tests := []struct {
		name     string
		evidence *Evidence
		wantErr  error
	}{
		{
			name:     "valid evidence",
			evidence: &Evidence{URL: "https://example.com", Similarity: 0.5},
			wantErr:  nil,
		},
		{
			name:     "similarity at upper bound",
			evidence: &Evidence{URL: "https://example.com", Similarity: 1},
			wantErr:  nil,
		},
		{
			name:     "nil evidence",
			evidence: nil,
			wantErr:  ErrInvalidEvidence,
		},
		{
			name:     "missing URL",
			evidence: &Evidence{Similarity: 0.5},
			wantErr:  ErrEmptyURL,
		},
		{
			name:     "negative similarity",
			evidence: &Evidence{URL: "https://example.com", Similarity: -0.1},
			wantErr:  ErrSimilarityOutOfRange,
		},
		{
			name:     "similarity above one",
			evidence: &Evidence{URL: "https://example.com", Similarity: 1.01},
			wantErr:  ErrSimilarityOutOfRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEvidence(tt.evidence)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateEvidence() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateEvidence() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateReport(t *testing.T) {
	valid := &Report{
		ID:    "run-1",
		Query: "cats",
		Evidence: []*Evidence{
			{URL: "https://example.com", Similarity: 0.9},
		},
	}
	if err := ValidateReport(valid); err != nil {
		t.Errorf("ValidateReport() unexpected error: %v", err)
	}

	if err := ValidateReport(nil); !errors.Is(err, ErrInvalidReport) {
		t.Errorf("ValidateReport(nil) error = %v, want %v", err, ErrInvalidReport)
	}

	noID := &Report{Query: "cats"}
	if err := ValidateReport(noID); !errors.Is(err, ErrEmptyReportID) {
		t.Errorf("ValidateReport() error = %v, want %v", err, ErrEmptyReportID)
	}

	noQuery := &Report{ID: "run-1"}
	if err := ValidateReport(noQuery); !errors.Is(err, ErrEmptyQuery) {
		t.Errorf("ValidateReport() error = %v, want %v", err, ErrEmptyQuery)
	}

	badEvidence := &Report{ID: "run-1", Query: "cats", Evidence: []*Evidence{{Similarity: 0.2}}}
	if err := ValidateReport(badEvidence); !errors.Is(err, ErrEmptyURL) {
		t.Errorf("ValidateReport() error = %v, want %v", err, ErrEmptyURL)
	}
}
