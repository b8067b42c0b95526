package entity

// GapVerdict is the reasoning collaborator's assessment of how complete the
// extracted primary content is.
type GapVerdict struct {
	ConfidenceScore    int      `json:"confidence_score"`
	HasGaps            bool     `json:"has_gaps"`
	GapsFound          []string `json:"gaps_found"`
	RecommendedQueries []string `json:"recommended_queries"`
	Reasoning          string   `json:"reasoning"`
}

// Normalize clamps the confidence score to [1,10] and derives the trigger
// flag from it: has_gaps holds exactly when the score falls below the
// threshold, whatever the collaborator claimed.
func (v *GapVerdict) Normalize(threshold int) {
	if v.ConfidenceScore < 1 {
		v.ConfidenceScore = 1
	}
	if v.ConfidenceScore > 10 {
		v.ConfidenceScore = 10
	}
	v.HasGaps = v.ConfidenceScore < threshold
}

// MaxUncertaintyVerdict is the verdict substituted for a malformed or absent
// collaborator response: fail toward supplementing, never toward omitting.
func MaxUncertaintyVerdict(reason string) *GapVerdict {
	return &GapVerdict{
		ConfidenceScore: 1,
		HasGaps:         true,
		Reasoning:       reason,
	}
}
