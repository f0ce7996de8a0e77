package repository

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"BeautyGenius/internal/config"
	"BeautyGenius/internal/lib/sl"
)

const (
	productsCollection = "products"
)

type MongoDB struct {
	clientOptions *options.ClientOptions
	database      string
	log           *slog.Logger
}

// NewMongoClient returns nil when mongo is disabled in the config.
func NewMongoClient(conf *config.Config, logger *slog.Logger) (*MongoDB, error) {
	if !conf.Mongo.Enabled {
		return nil, nil
	}
	if conf.Mongo.Database == "" {
		return nil, fmt.Errorf("mongodb database name is empty")
	}
	connectionUri := fmt.Sprintf("mongodb://%s:%s", conf.Mongo.Host, conf.Mongo.Port)
	clientOptions := options.Client().ApplyURI(connectionUri)
	if conf.Mongo.User != "" {
		clientOptions.SetAuth(options.Credential{
			Username:   conf.Mongo.User,
			Password:   conf.Mongo.Password,
			AuthSource: conf.Mongo.Database,
		})
	}
	client := &MongoDB{
		clientOptions: clientOptions,
		database:      conf.Mongo.Database,
		log: logger.With(
			sl.Module("mongodb"),
			slog.String("host", conf.Mongo.Host),
			sl.Secret("password", conf.Mongo.Password),
		),
	}
	return client, nil
}

func (m *MongoDB) connect(ctx context.Context) (*mongo.Client, error) {
	connection, err := mongo.Connect(ctx, m.clientOptions)
	if err != nil {
		return nil, fmt.Errorf("mongodb connect error: %w", err)
	}
	return connection, nil
}

func (m *MongoDB) disconnect(ctx context.Context, connection *mongo.Client) {
	if err := connection.Disconnect(ctx); err != nil {
		m.log.Debug("mongodb disconnect", sl.Err(err))
	}
}

// Ping checks that the server is reachable.
func (m *MongoDB) Ping(ctx context.Context) error {
	connection, err := m.connect(ctx)
	if err != nil {
		return err
	}
	defer m.disconnect(ctx, connection)

	if err = connection.Ping(ctx, nil); err != nil {
		return fmt.Errorf("mongodb ping: %w", err)
	}
	return nil
}
