package entity

const MaxScore = 100

// Score rates the face in an image. Every value lies in [0, MaxScore].
type Score struct {
	Overall    int             `json:"overall"`
	Categories ScoreCategories `json:"categories"`
}

type ScoreCategories struct {
	Symmetry    int `json:"symmetry"`
	Proportion  int `json:"proportion"`
	SkinQuality int `json:"skin_quality"`
	Expression  int `json:"expression"`
}

// ScoreCategory names one of the four rated aspects.
type ScoreCategory string

const (
	CategorySymmetry    ScoreCategory = "symmetry"
	CategoryProportion  ScoreCategory = "proportion"
	CategorySkinQuality ScoreCategory = "skin_quality"
	CategoryExpression  ScoreCategory = "expression"
)

// Categories in display order.
var Categories = []ScoreCategory{
	CategorySymmetry,
	CategoryProportion,
	CategorySkinQuality,
	CategoryExpression,
}

func (c ScoreCategories) Get(category ScoreCategory) int {
	switch category {
	case CategorySymmetry:
		return c.Symmetry
	case CategoryProportion:
		return c.Proportion
	case CategorySkinQuality:
		return c.SkinQuality
	case CategoryExpression:
		return c.Expression
	}
	return 0
}

func (s *Score) Valid() bool {
	if s == nil {
		return false
	}
	if !inScoreRange(s.Overall) {
		return false
	}
	for _, category := range Categories {
		if !inScoreRange(s.Categories.Get(category)) {
			return false
		}
	}
	return true
}

func (s *Score) Clone() *Score {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

// EstimatedAge derives an apparent age from the overall score: a perfect
// score reads as 20, every 10 points below adds three years.
func (s *Score) EstimatedAge() int {
	return 20 + (MaxScore-s.Overall)*3/10
}

func (s *Score) Emotion() Emotion {
	return EmotionOf(s.Categories.Expression)
}

func inScoreRange(v int) bool {
	return v >= 0 && v <= MaxScore
}

// ScoreBand buckets a score for labelling.
type ScoreBand string

const (
	BandExcellent ScoreBand = "excellent"
	BandGood      ScoreBand = "good"
	BandAverage   ScoreBand = "average"
	BandFair      ScoreBand = "fair"
	BandPoor      ScoreBand = "poor"
)

var ScoreBands = []ScoreBand{BandExcellent, BandGood, BandAverage, BandFair, BandPoor}

func BandOf(score int) ScoreBand {
	switch {
	case score >= 90:
		return BandExcellent
	case score >= 80:
		return BandGood
	case score >= 70:
		return BandAverage
	case score >= 60:
		return BandFair
	default:
		return BandPoor
	}
}

// Emotion is the mood read from the expression score.
type Emotion string

const (
	EmotionBeaming Emotion = "beaming"
	EmotionSmiling Emotion = "smiling"
	EmotionSlight  Emotion = "slight_smile"
	EmotionNeutral Emotion = "neutral"
)

var Emotions = []Emotion{EmotionBeaming, EmotionSmiling, EmotionSlight, EmotionNeutral}

func EmotionOf(expression int) Emotion {
	switch {
	case expression >= 85:
		return EmotionBeaming
	case expression >= 75:
		return EmotionSmiling
	case expression >= 65:
		return EmotionSlight
	default:
		return EmotionNeutral
	}
}
