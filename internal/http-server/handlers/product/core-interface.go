package product

import (
	"context"

	"BeautyGenius/entity"
)

type Core interface {
	Products(ctx context.Context) ([]entity.Product, error)
}
