package recipe

import (
	"context"
	"fmt"

	"recipe-box/internal/pkg/common"

	"go.uber.org/zap"
)

// ListQuery selects a page of recipes, optionally filtered by a title search.
type ListQuery struct {
	Search  string
	Page    int
	PerPage int
}

// Store is the recipe persistence interface. Find operations return
// (nil, nil) when nothing matches.
type Store interface {
	Insert(ctx context.Context, r *Recipe) error
	GetByID(ctx context.Context, id string) (*Recipe, error)
	List(ctx context.Context, q ListQuery) ([]Recipe, error)
	// SearchByTitle is a case-insensitive substring search, newest first.
	SearchByTitle(ctx context.Context, title string, limit int) ([]Recipe, error)
	ExistsByTitle(ctx context.Context, title string) (bool, error)
}

// IngredientStore persists the ingredient registry.
type IngredientStore interface {
	FindBySlug(ctx context.Context, slug string) (*IngredientEntry, error)
	Insert(ctx context.Context, e *IngredientEntry) error
	List(ctx context.Context, limit int) ([]IngredientEntry, error)
}

// TermStore persists taxonomy terms. Terms are unique by (taxonomy, slug).
type TermStore interface {
	FindBySlug(ctx context.Context, taxonomy, slug string) (*Term, error)
	GetByIDs(ctx context.Context, ids []string) ([]Term, error)
	Insert(ctx context.Context, t *Term) error
}

// Service reads locally stored recipes and renders them into their public
// view-context shape.
type Service struct {
	store       Store
	terms       TermStore
	ingredients IngredientStore
}

// NewService creates a recipe service.
func NewService(store Store, terms TermStore, ingredients IngredientStore) *Service {
	return &Service{
		store:       store,
		terms:       terms,
		ingredients: ingredients,
	}
}

// List returns a page of recipe views.
func (s *Service) List(ctx context.Context, q ListQuery) ([]View, error) {
	if q.PerPage <= 0 {
		q.PerPage = 10
	}
	if q.Page <= 0 {
		q.Page = 1
	}

	recipes, err := s.store.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}

	views := make([]View, 0, len(recipes))
	for i := range recipes {
		v, err := s.Render(ctx, &recipes[i])
		if err != nil {
			return nil, err
		}
		views = append(views, *v)
	}
	return views, nil
}

// Get returns a single recipe view, or (nil, nil) when the id is unknown.
func (s *Service) Get(ctx context.Context, id string) (*View, error) {
	r, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get recipe: %w", err)
	}
	if r == nil {
		return nil, nil
	}
	return s.Render(ctx, r)
}

// Autosuggest returns the distinct ingredient names from the registry,
// for use in editor autocompletion.
func (s *Service) Autosuggest(ctx context.Context, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 1000
	}
	entries, err := s.ingredients.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list ingredients: %w", err)
	}

	seen := make(map[string]struct{}, len(entries))
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if _, ok := seen[e.Title]; ok {
			continue
		}
		seen[e.Title] = struct{}{}
		names = append(names, e.Title)
	}
	return names, nil
}

// Render produces the view-context shape of a recipe, resolving term id
// sets into embedded term data. The total time is always derivable, so an
// unset total renders as prep + cook.
func (s *Service) Render(ctx context.Context, r *Recipe) (*View, error) {
	v := &View{
		ID:          r.ID,
		Date:        r.CreatedAt,
		Slug:        r.Slug,
		Title:       RenderedText{Rendered: r.Title},
		Content:     RenderedText{Rendered: r.Content},
		PreheatTemp: r.Preheat,
		Ingredients: r.Ingredients,
		Servings:    r.Servings,
		Steps:       r.Steps,
		CookTimes: CookTimes{
			PrepTime:  r.PrepTime,
			CookTime:  r.CookTime,
			TotalTime: r.EffectiveTotalTime(),
		},
	}

	for _, taxonomy := range Taxonomies {
		ids := r.TermIDs(taxonomy)
		data := []TermData{}
		if len(ids) > 0 {
			terms, err := s.terms.GetByIDs(ctx, ids)
			if err != nil {
				return nil, fmt.Errorf("resolve %s terms: %w", taxonomy, err)
			}
			if len(terms) < len(ids) {
				common.LogWarn("recipe references missing terms",
					zap.String("recipe_id", r.ID),
					zap.String("taxonomy", taxonomy),
					zap.Int("expected", len(ids)),
					zap.Int("found", len(terms)),
				)
			}
			for _, t := range terms {
				data = append(data, t.Data())
			}
		}
		switch taxonomy {
		case TaxonomyCategory:
			v.Categories = data
		case TaxonomyMealType:
			v.MealTypes = data
		case TaxonomyCuisine:
			v.Cuisines = data
		}
	}

	return v, nil
}
