package workflow

import (
	"BeautyGenius/entity"
)

const (
	MinAge     = 18
	MaxAge     = 100
	DefaultAge = 25

	MaxProgress = 100
)

// State is the single mutable record behind a workflow.
type State struct {
	CurrentStep    StepID                 `json:"current_step"`
	Image          *entity.Image          `json:"image"`
	UserAge        int                    `json:"user_age"`
	SkinType       entity.SkinType        `json:"skin_type"`
	Status         Status                 `json:"analysis_status"`
	UploadProgress int                    `json:"upload_progress"`
	Result         *entity.AnalysisResult `json:"analysis_result"`
}

// Snapshot is a read-only copy of State handed to readers. Version grows with
// every committed mutation.
type Snapshot struct {
	State
	ID      string `json:"id"`
	Version uint64 `json:"version"`
}

// InitialState returns the values a workflow starts with and returns to on reset.
func InitialState() State {
	return State{
		CurrentStep:    StepWelcome,
		Image:          nil,
		UserAge:        DefaultAge,
		SkinType:       entity.SkinNormal,
		Status:         StatusIdle,
		UploadProgress: 0,
		Result:         nil,
	}
}

// Clone copies s so the copy can leave the controller's lock. Image bytes are
// shared; they are never written after upload.
func (s State) Clone() State {
	c := s
	if s.Image != nil {
		img := *s.Image
		c.Image = &img
	}
	c.Result = s.Result.Clone()
	return c
}

// ClampAge forces age into [MinAge, MaxAge].
func ClampAge(age int) int {
	if age < MinAge {
		return MinAge
	}
	if age > MaxAge {
		return MaxAge
	}
	return age
}

func clampProgress(p int) int {
	if p < 0 {
		return 0
	}
	if p > MaxProgress {
		return MaxProgress
	}
	return p
}

// nextStep returns the step after s, or s itself at the end.
func nextStep(s StepID) StepID {
	i := s.Index()
	if i < 0 || i >= len(Steps)-1 {
		return s
	}
	return Steps[i+1]
}

// previousStep returns the step before s. Going back never lands on the
// analysis-in-progress step; it jumps to the step before it instead.
func previousStep(s StepID) StepID {
	i := s.Index()
	if i <= 0 {
		return s
	}
	target := i - 1
	if Steps[target] == StepSkinAnalysis && target > 0 {
		target--
	}
	return Steps[target]
}
