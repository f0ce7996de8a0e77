package catalog

import "BeautyGenius/entity"

const placeholderImage = "/placeholder-product.jpg"

var defaultProducts = []entity.Product{
	{
		ID:          "1",
		Name:        "Hydrating Serum",
		Description: "Boost skin moisture",
		ImageURL:    placeholderImage,
		Price:       45,
		Category:    "Serum",
		Benefits:    []string{"Hydration", "Plumping", "Anti-aging"},
	},
	{
		ID:          "2",
		Name:        "Gentle Cleanser",
		Description: "Daily cleansing foam",
		ImageURL:    placeholderImage,
		Price:       25,
		Category:    "Cleanser",
		Benefits:    []string{"Gentle", "Effective", "Non-drying"},
	},
	{
		ID:          "3",
		Name:        "Rich Repair Cream",
		Description: "Nourishing night cream for tight, flaky skin",
		ImageURL:    placeholderImage,
		Price:       52,
		Category:    "Moisturizer",
		Benefits:    []string{"Barrier repair", "Long-lasting moisture"},
		SkinTypes:   []string{string(entity.SkinDry), string(entity.SkinSensitive)},
	},
	{
		ID:          "4",
		Name:        "Clarifying Gel Wash",
		Description: "Oil-free gel cleanser with salicylic acid",
		ImageURL:    placeholderImage,
		Price:       22,
		Category:    "Cleanser",
		Benefits:    []string{"Oil control", "Pore refining"},
		SkinTypes:   []string{string(entity.SkinOily), string(entity.SkinCombination)},
	},
	{
		ID:          "5",
		Name:        "Balancing Lotion",
		Description: "Lightweight moisturizer for the T-zone and cheeks alike",
		ImageURL:    placeholderImage,
		Price:       38,
		Category:    "Moisturizer",
		Benefits:    []string{"Balance", "Light hydration"},
		SkinTypes:   []string{string(entity.SkinCombination), string(entity.SkinNormal)},
	},
	{
		ID:          "6",
		Name:        "Calming Fragrance-Free Fluid",
		Description: "Minimal formula for reactive skin",
		ImageURL:    placeholderImage,
		Price:       41,
		Category:    "Moisturizer",
		Benefits:    []string{"Soothing", "Hypoallergenic"},
		SkinTypes:   []string{string(entity.SkinSensitive)},
	},
}

var defaultConcerns = map[entity.SkinType][]string{
	entity.SkinNormal:      {"Uneven skin tone"},
	entity.SkinDry:         {"Dehydration lines", "Flaky patches"},
	entity.SkinOily:        {"Enlarged pores on nose", "Shine in the T-zone"},
	entity.SkinCombination: {"Enlarged pores on nose", "Dry cheeks"},
	entity.SkinSensitive:   {"Redness", "Reactivity to fragrance"},
}

// concerns added by age band, lower bound inclusive
var ageConcerns = []struct {
	from     int
	concerns []string
}{
	{30, []string{"Fine lines around eyes"}},
	{45, []string{"Loss of firmness"}},
}
