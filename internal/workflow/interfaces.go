package workflow

import (
	"context"

	"BeautyGenius/entity"
)

// StepID identifies one screen of the wizard.
type StepID string

const (
	StepWelcome                StepID = "welcome"
	StepImageUpload            StepID = "image_upload"
	StepAgeInput               StepID = "age_input"
	StepSkinAnalysis           StepID = "skin_analysis"
	StepAnalysisResult         StepID = "analysis_result"
	StepSkincareRecommendation StepID = "skincare_recommendation"
)

// Steps is the canonical forward order.
var Steps = []StepID{
	StepWelcome,
	StepImageUpload,
	StepAgeInput,
	StepSkinAnalysis,
	StepAnalysisResult,
	StepSkincareRecommendation,
}

// Index returns the position of s in Steps, or -1.
func (s StepID) Index() int {
	for i, step := range Steps {
		if step == s {
			return i
		}
	}
	return -1
}

// Status is the lifecycle of the upload and analysis, independent of the step shown.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusUploading Status = "uploading"
	StatusUploaded  Status = "uploaded"
	StatusAnalyzing Status = "analyzing"
	StatusComplete  Status = "complete"
	StatusError     Status = "error"
)

// Analyzer inspects an uploaded image. Implementations may block for as long
// as they like but should honour ctx cancellation.
type Analyzer interface {
	Analyze(ctx context.Context, image *entity.Image) (entity.Analysis, error)
}

// Recommender turns a finished analysis into concerns and products to show.
type Recommender interface {
	Recommend(ctx context.Context, analysis entity.Analysis, age int) ([]string, []entity.Product, error)
}

// Listener receives every committed snapshot, in version order.
type Listener func(Snapshot)
