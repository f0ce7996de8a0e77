package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"BeautyGenius/entity"
)

// GetProducts returns the stored catalog sorted by id.
func (m *MongoDB) GetProducts(ctx context.Context) ([]entity.Product, error) {
	connection, err := m.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer m.disconnect(ctx, connection)

	collection := connection.Database(m.database).Collection(productsCollection)

	opts := options.Find().SetSort(bson.D{{Key: "id", Value: 1}})
	cursor, err := collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongodb find products: %w", err)
	}
	defer cursor.Close(ctx)

	var products []entity.Product
	if err = cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("mongodb decode products: %w", err)
	}

	return products, nil
}

// UpsertProducts writes products keyed by their id.
func (m *MongoDB) UpsertProducts(ctx context.Context, products []entity.Product) (int, error) {
	if len(products) == 0 {
		return 0, nil
	}
	connection, err := m.connect(ctx)
	if err != nil {
		return 0, err
	}
	defer m.disconnect(ctx, connection)

	collection := connection.Database(m.database).Collection(productsCollection)

	models := make([]mongo.WriteModel, 0, len(products))
	for _, p := range products {
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.D{{Key: "id", Value: p.ID}}).
			SetReplacement(p).
			SetUpsert(true))
	}

	res, err := collection.BulkWrite(ctx, models)
	if err != nil {
		return 0, fmt.Errorf("mongodb upsert products: %w", err)
	}

	return int(res.UpsertedCount + res.ModifiedCount), nil
}
