package recipe

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStore struct {
	recipes []Recipe
}

func (s *stubStore) Insert(ctx context.Context, r *Recipe) error {
	s.recipes = append(s.recipes, *r)
	return nil
}

func (s *stubStore) GetByID(ctx context.Context, id string) (*Recipe, error) {
	for i := range s.recipes {
		if s.recipes[i].ID == id {
			r := s.recipes[i]
			return &r, nil
		}
	}
	return nil, nil
}

func (s *stubStore) List(ctx context.Context, q ListQuery) ([]Recipe, error) {
	out := []Recipe{}
	for _, r := range s.recipes {
		if q.Search != "" && !strings.Contains(strings.ToLower(r.Title), strings.ToLower(q.Search)) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *stubStore) SearchByTitle(ctx context.Context, title string, limit int) ([]Recipe, error) {
	out := []Recipe{}
	for _, r := range s.recipes {
		if strings.Contains(strings.ToLower(r.Title), strings.ToLower(title)) {
			out = append(out, r)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (s *stubStore) ExistsByTitle(ctx context.Context, title string) (bool, error) {
	for _, r := range s.recipes {
		if strings.EqualFold(r.Title, title) {
			return true, nil
		}
	}
	return false, nil
}

type stubTermStore struct {
	terms map[string]Term
}

func (s *stubTermStore) FindBySlug(ctx context.Context, taxonomy, slug string) (*Term, error) {
	for _, t := range s.terms {
		if t.Taxonomy == taxonomy && t.Slug == slug {
			term := t
			return &term, nil
		}
	}
	return nil, nil
}

func (s *stubTermStore) GetByIDs(ctx context.Context, ids []string) ([]Term, error) {
	out := []Term{}
	for _, id := range ids {
		if t, ok := s.terms[id]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *stubTermStore) Insert(ctx context.Context, t *Term) error {
	if s.terms == nil {
		s.terms = make(map[string]Term)
	}
	s.terms[t.ID] = *t
	return nil
}

type stubIngredientStore struct {
	entries []IngredientEntry
}

func (s *stubIngredientStore) FindBySlug(ctx context.Context, slug string) (*IngredientEntry, error) {
	for i := range s.entries {
		if s.entries[i].Slug == slug {
			e := s.entries[i]
			return &e, nil
		}
	}
	return nil, nil
}

func (s *stubIngredientStore) Insert(ctx context.Context, e *IngredientEntry) error {
	s.entries = append(s.entries, *e)
	return nil
}

func (s *stubIngredientStore) List(ctx context.Context, limit int) ([]IngredientEntry, error) {
	if limit > 0 && limit < len(s.entries) {
		return s.entries[:limit], nil
	}
	return s.entries, nil
}

func TestServiceRender(t *testing.T) {
	terms := &stubTermStore{terms: map[string]Term{
		"t1": {ID: "t1", Taxonomy: TaxonomyCategory, Name: "Dinner", Slug: "dinner"},
		"t2": {ID: "t2", Taxonomy: TaxonomyCuisine, Name: "French", Slug: "french"},
	}}
	svc := NewService(&stubStore{}, terms, &stubIngredientStore{})

	servings := "4"
	r := &Recipe{
		ID:          "r1",
		Title:       "Coq au Vin",
		Slug:        "coq-au-vin",
		Content:     "<p>Classic.</p>",
		Status:      StatusPublish,
		Servings:    &servings,
		PrepTime:    NewMinutes(20),
		CookTime:    NewMinutes(15),
		CategoryIDs: []string{"t1"},
		CuisineIDs:  []string{"t2", "missing"},
		CreatedAt:   time.Now(),
	}

	v, err := svc.Render(context.Background(), r)
	require.NoError(t, err)

	assert.Equal(t, "r1", v.ID)
	assert.Equal(t, "Coq au Vin", v.Title.Rendered)
	assert.Equal(t, NewMinutes(35), v.CookTimes.TotalTime)
	assert.Equal(t, []TermData{{Name: "Dinner", Slug: "dinner"}}, v.Categories)
	// Dangling term ids are dropped, not errors.
	assert.Equal(t, []TermData{{Name: "French", Slug: "french"}}, v.Cuisines)
	assert.Empty(t, v.MealTypes)
}

func TestServiceGetUnknown(t *testing.T) {
	svc := NewService(&stubStore{}, &stubTermStore{}, &stubIngredientStore{})

	v, err := svc.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestServiceAutosuggest(t *testing.T) {
	ingredients := &stubIngredientStore{entries: []IngredientEntry{
		{ID: "1", Title: "Butter", Slug: "butter"},
		{ID: "2", Title: "Flour", Slug: "flour"},
		{ID: "3", Title: "Butter", Slug: "butter-2"},
	}}
	svc := NewService(&stubStore{}, &stubTermStore{}, ingredients)

	names, err := svc.Autosuggest(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"Butter", "Flour"}, names)
}
