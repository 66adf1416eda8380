package storage

import (
	"context"
	"fmt"

	"recipe-box/internal/core/recipe"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// IngredientRepository is the MongoDB implementation of recipe.IngredientStore.
type IngredientRepository struct {
	coll *mongo.Collection
}

// NewIngredientRepository creates an ingredient registry repository.
func NewIngredientRepository(db *mongo.Database) *IngredientRepository {
	return &IngredientRepository{coll: db.Collection(collIngredients)}
}

// EnsureIndexes creates the unique slug index the registry relies on.
func (r *IngredientRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "slug", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create ingredient indexes: %w", err)
	}
	return nil
}

// FindBySlug returns the registry entry for a slug, or (nil, nil).
func (r *IngredientRepository) FindBySlug(ctx context.Context, slug string) (*recipe.IngredientEntry, error) {
	var entry recipe.IngredientEntry
	err := r.coll.FindOne(ctx, bson.M{"slug": slug}).Decode(&entry)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find ingredient: %w", err)
	}
	return &entry, nil
}

// Insert stores a new registry entry.
func (r *IngredientRepository) Insert(ctx context.Context, e *recipe.IngredientEntry) error {
	if _, err := r.coll.InsertOne(ctx, e); err != nil {
		return fmt.Errorf("insert ingredient: %w", err)
	}
	return nil
}

// List returns registry entries sorted by title.
func (r *IngredientRepository) List(ctx context.Context, limit int) ([]recipe.IngredientEntry, error) {
	if limit <= 0 {
		limit = 1000
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "title", Value: 1}}).
		SetLimit(int64(limit))

	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list ingredients: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []recipe.IngredientEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("decode ingredients: %w", err)
	}
	return entries, nil
}
