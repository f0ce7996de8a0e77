package entity

// Analysis is the raw outcome reported by an analysis collaborator.
type Analysis struct {
	SkinType        SkinType `json:"skin_type"`
	ConfidenceScore float64  `json:"confidence_score"`
	AgeEstimate     int      `json:"age_estimate"`
	Score           *Score   `json:"score,omitempty"`
}

// AnalysisResult is what the workflow shows after a finished analysis.
type AnalysisResult struct {
	SkinType        SkinType  `json:"skin_type"`
	ConfidenceScore float64   `json:"confidence_score"`
	AgeEstimate     *int      `json:"age_estimate,omitempty"`
	SkinConcerns    []string  `json:"skin_concerns"`
	Recommendations []Product `json:"recommendations"`
	Score           *Score    `json:"score,omitempty"`
}

func (r *AnalysisResult) Clone() *AnalysisResult {
	if r == nil {
		return nil
	}
	c := *r
	if r.AgeEstimate != nil {
		age := *r.AgeEstimate
		c.AgeEstimate = &age
	}
	c.Score = r.Score.Clone()
	c.SkinConcerns = append([]string(nil), r.SkinConcerns...)
	c.Recommendations = make([]Product, 0, len(r.Recommendations))
	for _, p := range r.Recommendations {
		c.Recommendations = append(c.Recommendations, p.Clone())
	}
	return &c
}
