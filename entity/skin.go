package entity

import "fmt"

type SkinType string

const (
	SkinNormal      SkinType = "normal"
	SkinDry         SkinType = "dry"
	SkinOily        SkinType = "oily"
	SkinCombination SkinType = "combination"
	SkinSensitive   SkinType = "sensitive"
)

var SkinTypes = []SkinType{SkinNormal, SkinDry, SkinOily, SkinCombination, SkinSensitive}

func (s SkinType) Valid() bool {
	for _, t := range SkinTypes {
		if t == s {
			return true
		}
	}
	return false
}

func ParseSkinType(v string) (SkinType, error) {
	s := SkinType(v)
	if !s.Valid() {
		return "", fmt.Errorf("unknown skin type: %q", v)
	}
	return s, nil
}
