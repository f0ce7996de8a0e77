package theme

import (
	"strings"

	"golang.org/x/text/language"

	"BeautyGenius/entity"
	"BeautyGenius/internal/workflow"
)

// Theme supplies the texts a front end shows for one workflow. Themes never
// change state, they only describe it.
type Theme interface {
	Name() string
	Tag() language.Tag
	StepLabel(step workflow.StepID) string
	SkinType(skinType entity.SkinType) SkinTypeInfo
	StatusMessage(status workflow.Status) string
	ScoreLabel(band entity.ScoreBand) string
	ScoreCategory(category entity.ScoreCategory) CategoryInfo
	ScoreTips() []string
}

type SkinTypeInfo struct {
	Type        entity.SkinType `json:"type"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Icon        string          `json:"icon"`
	Tips        []string        `json:"tips"`
}

type CategoryInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// table is a Theme backed by lookup maps.
type table struct {
	name        string
	tag         language.Tag
	steps       map[workflow.StepID]string
	skinTypes   map[entity.SkinType]SkinTypeInfo
	statuses    map[workflow.Status]string
	scoreLabels map[entity.ScoreBand]string
	categories  map[entity.ScoreCategory]CategoryInfo
	scoreTips   []string
}

func (t *table) Name() string {
	return t.name
}

func (t *table) Tag() language.Tag {
	return t.tag
}

func (t *table) StepLabel(step workflow.StepID) string {
	if label, ok := t.steps[step]; ok {
		return label
	}
	return string(step)
}

// SkinType returns the texts for skinType, or for the normal type when unknown.
func (t *table) SkinType(skinType entity.SkinType) SkinTypeInfo {
	info, ok := t.skinTypes[skinType]
	if !ok {
		info = t.skinTypes[entity.SkinNormal]
	}
	info.Tips = append([]string(nil), info.Tips...)
	return info
}

func (t *table) StatusMessage(status workflow.Status) string {
	return t.statuses[status]
}

func (t *table) ScoreLabel(band entity.ScoreBand) string {
	return t.scoreLabels[band]
}

// ScoreCategory returns the name and description of category, falling back
// to the raw key for the name.
func (t *table) ScoreCategory(category entity.ScoreCategory) CategoryInfo {
	if info, ok := t.categories[category]; ok {
		return info
	}
	return CategoryInfo{Name: string(category)}
}

func (t *table) ScoreTips() []string {
	return append([]string(nil), t.scoreTips...)
}

const (
	Classic = "classic"
	Sakura  = "sakura"
)

// ordered lists the built-in themes; the first one is the fallback.
var ordered = []Theme{classic, sakura}

var matcher = language.NewMatcher(tags())

func tags() []language.Tag {
	out := make([]language.Tag, 0, len(ordered))
	for _, t := range ordered {
		out = append(out, t.Tag())
	}
	return out
}

// Names lists the built-in theme names.
func Names() []string {
	out := make([]string, 0, len(ordered))
	for _, t := range ordered {
		out = append(out, t.Name())
	}
	return out
}

// Lookup finds a theme by name, ignoring case.
func Lookup(name string) (Theme, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, t := range ordered {
		if t.Name() == name {
			return t, true
		}
	}
	return nil, false
}

// Select picks the theme named name. Without a usable name it matches the
// Accept-Language header against the themes' languages, and finally falls
// back to the theme named fallback, or the first built-in one.
func Select(name, acceptLanguage, fallback string) Theme {
	if t, ok := Lookup(name); ok {
		return t
	}
	if acceptLanguage != "" {
		prefs, _, err := language.ParseAcceptLanguage(acceptLanguage)
		if err == nil && len(prefs) > 0 {
			_, idx, conf := matcher.Match(prefs...)
			if conf != language.No {
				return ordered[idx]
			}
		}
	}
	if t, ok := Lookup(fallback); ok {
		return t
	}
	return ordered[0]
}
