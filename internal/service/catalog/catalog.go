package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"BeautyGenius/entity"
	"BeautyGenius/internal/lib/sl"
)

const DefaultLimit = 3

// Repository is an optional external source of products.
type Repository interface {
	GetProducts(ctx context.Context) ([]entity.Product, error)
}

// Catalog is the static product and concern reference data behind recommendations.
type Catalog struct {
	repo     Repository
	products []entity.Product
	concerns map[entity.SkinType][]string
	limit    int
	log      *slog.Logger
}

func New(log *slog.Logger) *Catalog {
	return &Catalog{
		products: defaultProducts,
		concerns: defaultConcerns,
		limit:    DefaultLimit,
		log:      log.With(sl.Module("catalog")),
	}
}

// SetRepository makes the catalog read products from repo, falling back to
// the built-in list when repo has none.
func (c *Catalog) SetRepository(repo Repository) {
	c.repo = repo
}

func (c *Catalog) SetLimit(limit int) {
	if limit > 0 {
		c.limit = limit
	}
}

// Products returns a copy of every product in the catalog.
func (c *Catalog) Products(ctx context.Context) ([]entity.Product, error) {
	products := c.products
	if c.repo != nil {
		stored, err := c.repo.GetProducts(ctx)
		if err != nil {
			return nil, fmt.Errorf("load products: %w", err)
		}
		if len(stored) > 0 {
			products = stored
		} else {
			c.log.Debug("repository has no products, using defaults")
		}
	}

	out := make([]entity.Product, 0, len(products))
	for _, p := range products {
		out = append(out, p.Clone())
	}
	return out, nil
}

// Recommend returns the concerns for the skin type and age, and up to limit
// products suited to the skin type.
func (c *Catalog) Recommend(ctx context.Context, analysis entity.Analysis, age int) ([]string, []entity.Product, error) {
	products, err := c.Products(ctx)
	if err != nil {
		return nil, nil, err
	}

	// specific products first, then the ones that suit everybody
	specific := make([]entity.Product, 0)
	general := make([]entity.Product, 0)
	for _, p := range products {
		if !p.Suits(analysis.SkinType) {
			continue
		}
		if len(p.SkinTypes) == 0 {
			general = append(general, p)
		} else {
			specific = append(specific, p)
		}
	}
	picked := append(specific, general...)
	if len(picked) > c.limit {
		picked = picked[:c.limit]
	}

	return c.Concerns(analysis.SkinType, age), picked, nil
}

// Concerns lists the typical concerns of a skin type at an age.
func (c *Catalog) Concerns(skinType entity.SkinType, age int) []string {
	concerns := append([]string{}, c.concerns[skinType]...)
	for _, band := range ageConcerns {
		if age >= band.from {
			concerns = append(concerns, band.concerns...)
		}
	}
	return concerns
}

// Defaults returns a copy of the built-in product list.
func Defaults() []entity.Product {
	out := make([]entity.Product, 0, len(defaultProducts))
	for _, p := range defaultProducts {
		out = append(out, p.Clone())
	}
	return out
}
