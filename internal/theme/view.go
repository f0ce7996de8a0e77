package theme

import (
	"math"

	"BeautyGenius/entity"
	"BeautyGenius/internal/workflow"
)

type View struct {
	WorkflowID     string           `json:"workflow_id"`
	Version        uint64           `json:"version"`
	Theme          string           `json:"theme"`
	Language       string           `json:"language"`
	Step           workflow.StepID  `json:"step"`
	StepIndex      int              `json:"step_index"`
	StepTotal      int              `json:"step_total"`
	StepLabel      string           `json:"step_label"`
	Steps          []StepView       `json:"steps"`
	CanGoBack      bool             `json:"can_go_back"`
	CanAdvance     bool             `json:"can_advance"`
	Age            AgeView          `json:"age"`
	SkinType       SkinTypeInfo     `json:"skin_type"`
	SkinTypes      []SkinTypeOption `json:"skin_types"`
	Status         workflow.Status  `json:"status"`
	StatusMessage  string           `json:"status_message,omitempty"`
	UploadProgress int              `json:"upload_progress"`
	Image          *ImageView       `json:"image,omitempty"`
	Result         *ResultView      `json:"result,omitempty"`
}

type StepView struct {
	ID      workflow.StepID `json:"id"`
	Label   string          `json:"label"`
	Done    bool            `json:"done"`
	Current bool            `json:"current"`
}

type AgeView struct {
	Value       int  `json:"value"`
	Min         int  `json:"min"`
	Max         int  `json:"max"`
	CanDecrease bool `json:"can_decrease"`
	CanIncrease bool `json:"can_increase"`
}

type SkinTypeOption struct {
	Type        entity.SkinType `json:"type"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Selected    bool            `json:"selected"`
}

type ImageView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	URL         string `json:"url,omitempty"`
}

type ResultView struct {
	SkinTypeInfo
	ConfidencePercent int              `json:"confidence_percent"`
	AgeEstimate       *int             `json:"age_estimate,omitempty"`
	Concerns          []string         `json:"concerns"`
	Products          []entity.Product `json:"products"`
	Score             *ScoreView       `json:"score,omitempty"`
}

type ScoreView struct {
	Overall      int                 `json:"overall"`
	Band         entity.ScoreBand    `json:"band"`
	Label        string              `json:"label"`
	Categories   []ScoreCategoryView `json:"categories"`
	Emotion      entity.Emotion      `json:"emotion"`
	EmotionIcon  string              `json:"emotion_icon"`
	EstimatedAge int                 `json:"estimated_age"`
	Tips         []string            `json:"tips"`
}

type ScoreCategoryView struct {
	Category entity.ScoreCategory `json:"category"`
	CategoryInfo
	Score int              `json:"score"`
	Band  entity.ScoreBand `json:"band"`
	Label string           `json:"label"`
}

var emotionIcons = map[entity.Emotion]string{
	entity.EmotionBeaming: "😄",
	entity.EmotionSmiling: "😊",
	entity.EmotionSlight:  "🙂",
	entity.EmotionNeutral: "😐",
}

// Render describes snap in the words of t.
func Render(t Theme, snap workflow.Snapshot) View {
	s := snap.State
	current := s.CurrentStep.Index()

	v := View{
		WorkflowID:     snap.ID,
		Version:        snap.Version,
		Theme:          t.Name(),
		Language:       t.Tag().String(),
		Step:           s.CurrentStep,
		StepIndex:      current,
		StepTotal:      len(workflow.Steps),
		StepLabel:      t.StepLabel(s.CurrentStep),
		Steps:          make([]StepView, 0, len(workflow.Steps)),
		CanGoBack:      current > 0,
		CanAdvance:     workflow.AdvanceAllowed(s),
		Status:         s.Status,
		StatusMessage:  t.StatusMessage(s.Status),
		UploadProgress: s.UploadProgress,
		Age: AgeView{
			Value:       s.UserAge,
			Min:         workflow.MinAge,
			Max:         workflow.MaxAge,
			CanDecrease: s.UserAge > workflow.MinAge,
			CanIncrease: s.UserAge < workflow.MaxAge,
		},
		SkinType:  t.SkinType(s.SkinType),
		SkinTypes: make([]SkinTypeOption, 0, len(entity.SkinTypes)),
	}

	for i, step := range workflow.Steps {
		v.Steps = append(v.Steps, StepView{
			ID:      step,
			Label:   t.StepLabel(step),
			Done:    i < current,
			Current: i == current,
		})
	}

	for _, st := range entity.SkinTypes {
		info := t.SkinType(st)
		v.SkinTypes = append(v.SkinTypes, SkinTypeOption{
			Type:        st,
			Title:       info.Title,
			Description: info.Description,
			Selected:    st == s.SkinType,
		})
	}

	if s.Image != nil {
		v.Image = &ImageView{
			ID:          s.Image.ID,
			Name:        s.Image.Name,
			ContentType: s.Image.ContentType,
			Size:        s.Image.Size,
		}
	}

	if r := s.Result; r != nil {
		v.Result = &ResultView{
			SkinTypeInfo:      t.SkinType(r.SkinType),
			ConfidencePercent: int(math.Round(r.ConfidenceScore * 100)),
			AgeEstimate:       r.AgeEstimate,
			Concerns:          append([]string{}, r.SkinConcerns...),
			Products:          append([]entity.Product{}, r.Recommendations...),
			Score:             renderScore(t, r.Score),
		}
	}

	return v
}

func renderScore(t Theme, score *entity.Score) *ScoreView {
	if score == nil {
		return nil
	}
	band := entity.BandOf(score.Overall)
	emotion := score.Emotion()
	v := &ScoreView{
		Overall:      score.Overall,
		Band:         band,
		Label:        t.ScoreLabel(band),
		Categories:   make([]ScoreCategoryView, 0, len(entity.Categories)),
		Emotion:      emotion,
		EmotionIcon:  emotionIcons[emotion],
		EstimatedAge: score.EstimatedAge(),
		Tips:         t.ScoreTips(),
	}
	for _, category := range entity.Categories {
		value := score.Categories.Get(category)
		categoryBand := entity.BandOf(value)
		v.Categories = append(v.Categories, ScoreCategoryView{
			Category:     category,
			CategoryInfo: t.ScoreCategory(category),
			Score:        value,
			Band:         categoryBand,
			Label:        t.ScoreLabel(categoryBand),
		})
	}
	return v
}
