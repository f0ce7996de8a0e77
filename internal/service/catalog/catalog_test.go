package catalog

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"BeautyGenius/entity"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetProducts(ctx context.Context) ([]entity.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Product), args.Error(1)
}

func newCatalog() *Catalog {
	return New(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRecommendPrefersSpecificProducts(t *testing.T) {
	c := newCatalog()

	concerns, products, err := c.Recommend(context.Background(), entity.Analysis{SkinType: entity.SkinOily}, 25)
	require.NoError(t, err)

	assert.Equal(t, []string{"Enlarged pores on nose", "Shine in the T-zone"}, concerns)
	require.Len(t, products, DefaultLimit)
	assert.Equal(t, "Clarifying Gel Wash", products[0].Name)
	for _, p := range products {
		assert.True(t, p.Suits(entity.SkinOily), p.Name)
	}
}

func TestRecommendEverySkinTypeGetsProducts(t *testing.T) {
	c := newCatalog()
	for _, st := range entity.SkinTypes {
		concerns, products, err := c.Recommend(context.Background(), entity.Analysis{SkinType: st}, 25)
		require.NoError(t, err)
		assert.NotEmpty(t, concerns, st)
		assert.NotEmpty(t, products, st)
	}
}

func TestConcernsGrowWithAge(t *testing.T) {
	c := newCatalog()

	assert.Equal(t, []string{"Uneven skin tone"}, c.Concerns(entity.SkinNormal, 22))
	assert.Equal(t, []string{"Uneven skin tone", "Fine lines around eyes"}, c.Concerns(entity.SkinNormal, 30))
	assert.Equal(t, []string{"Uneven skin tone", "Fine lines around eyes", "Loss of firmness"}, c.Concerns(entity.SkinNormal, 60))
}

func TestRecommendRespectsLimit(t *testing.T) {
	c := newCatalog()
	c.SetLimit(1)

	_, products, err := c.Recommend(context.Background(), entity.Analysis{SkinType: entity.SkinSensitive}, 25)
	require.NoError(t, err)
	assert.Len(t, products, 1)
}

func TestProductsFromRepository(t *testing.T) {
	repo := new(MockRepository)
	stored := []entity.Product{{ID: "x", Name: "Stored Toner", Benefits: []string{"Fresh"}}}
	repo.On("GetProducts", mock.Anything).Return(stored, nil)

	c := newCatalog()
	c.SetRepository(repo)

	products, err := c.Products(context.Background())
	require.NoError(t, err)
	assert.Equal(t, stored, products)

	products[0].Benefits[0] = "changed"
	assert.Equal(t, "Fresh", stored[0].Benefits[0])
	repo.AssertExpectations(t)
}

func TestProductsFallBackWhenRepositoryEmpty(t *testing.T) {
	repo := new(MockRepository)
	repo.On("GetProducts", mock.Anything).Return([]entity.Product{}, nil)

	c := newCatalog()
	c.SetRepository(repo)

	products, err := c.Products(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, len(defaultProducts))
}

func TestRecommendRepositoryError(t *testing.T) {
	repo := new(MockRepository)
	repo.On("GetProducts", mock.Anything).Return(nil, errors.New("connection refused"))

	c := newCatalog()
	c.SetRepository(repo)

	_, _, err := c.Recommend(context.Background(), entity.Analysis{SkinType: entity.SkinDry}, 30)
	assert.Error(t, err)
}
