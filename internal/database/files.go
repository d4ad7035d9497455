package database

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"filevault-backend/internal/models"
)

// PageSize is the fixed listing page size.
const PageSize = 20

type FileRepository struct {
	col *mongo.Collection
}

func NewFileRepository(db *DB) *FileRepository {
	return &FileRepository{col: db.db.Collection("files")}
}

func (r *FileRepository) Insert(ctx context.Context, file *models.File) (primitive.ObjectID, error) {
	res, err := r.col.InsertOne(ctx, file)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("failed to insert file: %w", err)
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

func (r *FileRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.File, error) {
	var file models.File
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&file); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNoDocument
		}
		return nil, fmt.Errorf("failed to get file by id: %w", err)
	}
	return &file, nil
}

// List returns one fixed-size page of an owner's files under a parent.
// Ordering is whatever the store yields, insertion order in practice;
// no sort key is imposed.
func (r *FileRepository) List(ctx context.Context, ownerID, parentID primitive.ObjectID, page int64) ([]*models.File, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"userId": ownerID, "parentId": parentID}}},
		{{Key: "$skip", Value: page * PageSize}},
		{{Key: "$limit", Value: PageSize}},
	}

	cursor, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	defer cursor.Close(ctx)

	files := make([]*models.File, 0, PageSize)
	if err := cursor.All(ctx, &files); err != nil {
		return nil, fmt.Errorf("failed to decode file listing: %w", err)
	}
	return files, nil
}

func (r *FileRepository) SetPublic(ctx context.Context, id primitive.ObjectID, isPublic bool) error {
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"isPublic": isPublic}})
	if err != nil {
		return fmt.Errorf("failed to update file: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNoDocument
	}
	return nil
}
