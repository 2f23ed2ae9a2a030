package config

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const databaseName = "carebridge"

type MongoDBConfig struct {
	URI string
}

func NewMongoDBConfig() (*MongoDBConfig, error) {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		return nil, fmt.Errorf("MONGO_URI not set")
	}
	return &MongoDBConfig{URI: uri}, nil
}

type MongoDBClient struct {
	Client   *mongo.Client
	Database *mongo.Database
	logger   *zap.SugaredLogger
}

func NewMongoDBClient(lc fx.Lifecycle, config *MongoDBConfig, logger *zap.SugaredLogger) (*MongoDBClient, *mongo.Database, error) {
	clientOptions := options.Client().ApplyURI(config.URI)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	logger.Info("Connected to MongoDB")

	db := client.Database(databaseName)
	mc := &MongoDBClient{Client: client, Database: db, logger: logger}

	lc.Append(fx.Hook{
		OnStart: func(startCtx context.Context) error {
			return mc.createIndexes(startCtx)
		},
		OnStop: func(stopCtx context.Context) error {
			logger.Info("Closing MongoDB connection ...")
			return client.Disconnect(stopCtx)
		},
	})
	return mc, db, nil
}

// createIndexes sets up the indexes the queries below depend on. Unique email
// keeps one account per address; the cycle_profiles user_id index backs the
// per-user lookups the reminder run performs.
func (c *MongoDBClient) createIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := c.Database.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.M{"email": 1},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create unique email index: %w", err)
	}

	_, err = c.Database.Collection("cycle_profiles").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.M{"user_id": 1},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create cycle profile index: %w", err)
	}

	c.logger.Info("MongoDB indexes created")
	return nil
}

func (c *MongoDBClient) GetCollection(collectionName string) *mongo.Collection {
	return c.Client.Database(databaseName).Collection(collectionName)
}
