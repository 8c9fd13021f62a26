package ai

import "github.com/poiesic/querygraph/core"

// Relations lists the labels a RelationClassifier may return.
var Relations = []core.Relation{
	core.RelationEntailment,
	core.RelationContradiction,
	core.RelationNeutral,
}

// ParseRelation maps a model's label to a Relation. Matching ignores case
// and surrounding whitespace; ok is false for unknown labels.
func ParseRelation(label string) (core.Relation, bool) {
	label = normalizeLabel(label)
	for _, r := range Relations {
		if string(r) == label {
			return r, true
		}
	}
	return core.RelationNone, false
}
