package entity

// Product is a catalog entry offered as a skincare recommendation.
type Product struct {
	ID          string   `json:"id" bson:"id"`
	Name        string   `json:"name" bson:"name"`
	Description string   `json:"description" bson:"description"`
	ImageURL    string   `json:"image_url" bson:"image_url"`
	Price       float64  `json:"price" bson:"price"`
	Category    string   `json:"category" bson:"category"`
	Benefits    []string `json:"benefits" bson:"benefits"`
	SkinTypes   []string `json:"skin_types,omitempty" bson:"skin_types"`
}

// Suits reports whether the product is meant for the skin type. Products
// without skin types suit everyone.
func (p Product) Suits(skinType SkinType) bool {
	if len(p.SkinTypes) == 0 {
		return true
	}
	for _, t := range p.SkinTypes {
		if SkinType(t) == skinType {
			return true
		}
	}
	return false
}

// Clone returns a copy that shares no slices with p.
func (p Product) Clone() Product {
	c := p
	c.Benefits = append([]string(nil), p.Benefits...)
	c.SkinTypes = append([]string(nil), p.SkinTypes...)
	return c
}
