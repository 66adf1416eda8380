package storage

import (
	"context"
	"fmt"
	"regexp"

	"recipe-box/internal/core/recipe"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RecipeRepository is the MongoDB implementation of recipe.Store.
type RecipeRepository struct {
	coll *mongo.Collection
}

// NewRecipeRepository creates a recipe repository.
func NewRecipeRepository(db *mongo.Database) *RecipeRepository {
	return &RecipeRepository{coll: db.Collection(collRecipes)}
}

// EnsureIndexes creates the indexes recipe lookups rely on.
func (r *RecipeRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "title", Value: 1}}},
		{Keys: bson.D{{Key: "slug", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("create recipe indexes: %w", err)
	}
	return nil
}

// Insert stores a new recipe.
func (r *RecipeRepository) Insert(ctx context.Context, rec *recipe.Recipe) error {
	if _, err := r.coll.InsertOne(ctx, rec); err != nil {
		return fmt.Errorf("insert recipe: %w", err)
	}
	return nil
}

// GetByID returns a recipe by id, or (nil, nil) when it does not exist.
func (r *RecipeRepository) GetByID(ctx context.Context, id string) (*recipe.Recipe, error) {
	var rec recipe.Recipe
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&rec)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find recipe: %w", err)
	}
	return &rec, nil
}

// List returns a page of published recipes, newest first, optionally
// filtered by a case-insensitive title search.
func (r *RecipeRepository) List(ctx context.Context, q recipe.ListQuery) ([]recipe.Recipe, error) {
	query := bson.M{"status": recipe.StatusPublish}
	if q.Search != "" {
		query["title"] = bson.M{"$regex": regexp.QuoteMeta(q.Search), "$options": "i"}
	}

	perPage := q.PerPage
	if perPage <= 0 {
		perPage = 10
	}
	page := q.Page
	if page <= 0 {
		page = 1
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * perPage)).
		SetLimit(int64(perPage))

	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	defer cursor.Close(ctx)

	var recipes []recipe.Recipe
	if err := cursor.All(ctx, &recipes); err != nil {
		return nil, fmt.Errorf("decode recipes: %w", err)
	}
	return recipes, nil
}

// SearchByTitle performs a case-insensitive substring search on titles,
// newest first. The duplicate detector takes the first result.
func (r *RecipeRepository) SearchByTitle(ctx context.Context, title string, limit int) ([]recipe.Recipe, error) {
	if limit <= 0 {
		limit = 1
	}

	query := bson.M{
		"title":  bson.M{"$regex": regexp.QuoteMeta(title), "$options": "i"},
		"status": recipe.StatusPublish,
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("search recipes: %w", err)
	}
	defer cursor.Close(ctx)

	var recipes []recipe.Recipe
	if err := cursor.All(ctx, &recipes); err != nil {
		return nil, fmt.Errorf("decode recipes: %w", err)
	}
	return recipes, nil
}

// ExistsByTitle reports whether a recipe with this exact title already
// exists, ignoring case. The import pipeline checks this before creating.
func (r *RecipeRepository) ExistsByTitle(ctx context.Context, title string) (bool, error) {
	query := bson.M{
		"title": bson.M{"$regex": "^" + regexp.QuoteMeta(title) + "$", "$options": "i"},
	}
	count, err := r.coll.CountDocuments(ctx, query, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count recipes: %w", err)
	}
	return count > 0, nil
}
