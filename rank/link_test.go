package rank

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRelevanceMask(t *testing.T) {
	tests := []struct {
		name   string
		scores []float64
		want   []bool
	}{
		{"outlier", []float64{1, 2, 3, 4, 100}, []bool{false, false, false, false, true}},
		{"uniform", []float64{2, 2, 2}, []bool{false, false, false}},
		{"single", []float64{5}, []bool{false}},
		{"empty", nil, []bool{}},
		{"two high", []float64{0, 0, 0, 0, 10, 10}, []bool{false, false, false, false, true, true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RelevanceMask(tt.scores))
		})
	}
}

func TestMeanStd(t *testing.T) {
	mean, std := MeanStd([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	assert.InDelta(t, 5.0, mean, 1e-9)
	assert.InDelta(t, 2.0, std, 1e-9)

	mean, std = MeanStd(nil)
	assert.Zero(t, mean)
	assert.Zero(t, std)
}

func TestLink(t *testing.T) {
	evidence := []float32{1, 0, 0}
	answer := [][]float32{
		{0, 1, 0},
		{0, 0, 1},
		{1, 0, 0},
		{0, 1, 1},
	}
	scores, relevant := Link(evidence, answer)
	assert.Equal(t, []float64{0, 0, 1, 0}, scores)
	assert.Equal(t, []bool{false, false, true, false}, relevant)

	scores, relevant = Link(evidence, nil)
	assert.Empty(t, scores)
	assert.Empty(t, relevant)
}
