package repository

import (
	"context"
	"errors"

	repo "sales-assistant/internal/domain/interfaces/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoRepository[T any] struct {
	mongo *mongo.Database
}

func NewMongoRepository[T any](mongo *mongo.Database) *MongoRepository[T] {
	return &MongoRepository[T]{mongo: mongo}
}

func (r *MongoRepository[T]) Create(ctx context.Context, collectionName string, entity T) (T, error) {
	collection := r.mongo.Collection(collectionName)
	_, err := collection.InsertOne(ctx, entity)
	return entity, err
}

func (r *MongoRepository[T]) Update(ctx context.Context, collectionName string, conversationID string, entity T) (T, error) {
	collection := r.mongo.Collection(collectionName)
	filter := bson.M{"conversation_id": conversationID}

	// Upsert so the first save of a conversation creates its document.
	update := bson.M{
		"$set": entity,
	}

	_, err := collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return entity, err
}

func (r *MongoRepository[T]) Delete(ctx context.Context, collectionName string, conversationID string) error {
	collection := r.mongo.Collection(collectionName)
	filter := bson.M{"conversation_id": conversationID}
	result, err := collection.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *MongoRepository[T]) FindByConversationID(ctx context.Context, collectionName string, conversationID string) (T, error) {
	var entity T
	collection := r.mongo.Collection(collectionName)
	filter := bson.M{"conversation_id": conversationID}
	err := collection.FindOne(ctx, filter).Decode(&entity)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return entity, repo.ErrNotFound
	}
	return entity, err
}

func (r *MongoRepository[T]) FindAll(ctx context.Context, collectionName string) ([]T, error) {
	collection := r.mongo.Collection(collectionName)
	cursor, err := collection.Find(ctx, bson.D{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entities []T
	for cursor.Next(ctx) {
		var entity T
		if err := cursor.Decode(&entity); err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, cursor.Err()
}
