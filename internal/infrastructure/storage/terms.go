package storage

import (
	"context"
	"fmt"

	"recipe-box/internal/core/recipe"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TermRepository is the MongoDB implementation of recipe.TermStore.
type TermRepository struct {
	coll *mongo.Collection
}

// NewTermRepository creates a taxonomy term repository.
func NewTermRepository(db *mongo.Database) *TermRepository {
	return &TermRepository{coll: db.Collection(collTerms)}
}

// EnsureIndexes enforces term uniqueness by (taxonomy, slug).
func (r *TermRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "taxonomy", Value: 1},
			{Key: "slug", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create term indexes: %w", err)
	}
	return nil
}

// FindBySlug returns the term for (taxonomy, slug), or (nil, nil).
func (r *TermRepository) FindBySlug(ctx context.Context, taxonomy, slug string) (*recipe.Term, error) {
	var term recipe.Term
	err := r.coll.FindOne(ctx, bson.M{"taxonomy": taxonomy, "slug": slug}).Decode(&term)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find term: %w", err)
	}
	return &term, nil
}

// GetByIDs returns the terms for the given ids, preserving the id order
// where possible. Missing ids are skipped.
func (r *TermRepository) GetByIDs(ctx context.Context, ids []string) ([]recipe.Term, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	cursor, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("find terms: %w", err)
	}
	defer cursor.Close(ctx)

	var terms []recipe.Term
	if err := cursor.All(ctx, &terms); err != nil {
		return nil, fmt.Errorf("decode terms: %w", err)
	}

	byID := make(map[string]recipe.Term, len(terms))
	for _, t := range terms {
		byID[t.ID] = t
	}
	ordered := make([]recipe.Term, 0, len(terms))
	for _, id := range ids {
		if t, ok := byID[id]; ok {
			ordered = append(ordered, t)
		}
	}
	return ordered, nil
}

// Insert stores a new term.
func (r *TermRepository) Insert(ctx context.Context, t *recipe.Term) error {
	if _, err := r.coll.InsertOne(ctx, t); err != nil {
		return fmt.Errorf("insert term: %w", err)
	}
	return nil
}
