package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// DB wraps the shared MongoDB client. It is created once at startup and
// handed to the repositories; nothing reaches for it through globals.
type DB struct {
	client *mongo.Client
	db     *mongo.Database
}

func Connect(ctx context.Context, url, name string) (*DB, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(url))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &DB{client: client, db: client.Database(name)}, nil
}

func (d *DB) Close(ctx context.Context) error {
	return d.client.Disconnect(ctx)
}

func (d *DB) IsAlive(ctx context.Context) bool {
	return d.client.Ping(ctx, readpref.Primary()) == nil
}

func (d *DB) NbUsers(ctx context.Context) (int64, error) {
	return d.db.Collection("users").CountDocuments(ctx, bson.M{})
}

func (d *DB) NbFiles(ctx context.Context) (int64, error) {
	return d.db.Collection("files").CountDocuments(ctx, bson.M{})
}
