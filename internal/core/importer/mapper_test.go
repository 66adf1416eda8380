package importer

import (
	"context"
	"testing"

	"recipe-box/internal/core/recipe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func remoteForImport() *recipe.RemoteRecipe {
	return &recipe.RemoteRecipe{
		ID:       "12",
		Title:    recipe.RenderedText{Rendered: "  Garlic Bread  "},
		Slug:     "garlic-bread",
		Content:  recipe.RenderedText{Rendered: "<p>Crusty.</p>"},
		Servings: strPtr("2"),
		Preheat:  &recipe.PreheatTemp{Temp: "400", Unit: recipe.UnitFahrenheit},
		CookTimes: recipe.CookTimes{
			PrepTime: recipe.NewMinutes(10),
			CookTime: recipe.NewMinutes(12),
		},
		Ingredients: []recipe.IngredientLine{
			{Product: "<b>Garlic</b>", Quantity: "4", Unit: "cloves"},
			{Product: "Butter", Quantity: " 100 ", Unit: "g", Notes: "softened"},
			{Product: "garlic!", Quantity: "1", Unit: "tsp", Notes: "extra"},
		},
		Steps: []recipe.InstructionGroup{
			{Title: "Prep", Steps: []string{"Mince the garlic.", "Mix with butter."}},
			{Title: "Bake", Steps: []string{"Bake until golden."}},
		},
		Categories: []recipe.TermData{{Name: "Sides", Slug: "sides"}},
		Cuisines:   []recipe.TermData{{Name: "Italian American"}},
	}
}

func TestMapAndStore(t *testing.T) {
	recipes := &fakeRecipeStore{}
	ingredients := &fakeIngredientStore{}
	terms := &fakeTermStore{terms: []recipe.Term{
		{ID: "term-sides", Taxonomy: recipe.TaxonomyCategory, Name: "Sides", Slug: "sides"},
	}}
	m := NewMapper(recipes, ingredients, terms)

	id, err := m.MapAndStore(context.Background(), remoteForImport())
	require.NoError(t, err)
	require.NotEmpty(t, id)

	require.Len(t, recipes.recipes, 1)
	stored := recipes.recipes[0]

	assert.Equal(t, id, stored.ID)
	assert.Equal(t, "12", stored.RemoteID)
	assert.Equal(t, "Garlic Bread", stored.Title)
	assert.Equal(t, "garlic-bread", stored.Slug)
	assert.Equal(t, recipe.StatusPublish, stored.Status)
	require.NotNil(t, stored.Servings)
	assert.Equal(t, "2", *stored.Servings)
	require.NotNil(t, stored.Preheat)
	assert.Equal(t, "400", stored.Preheat.Temp)
	assert.Equal(t, recipe.NewMinutes(10), stored.PrepTime)
	assert.Equal(t, recipe.NewMinutes(12), stored.CookTime)
	assert.Equal(t, recipe.Minutes{}, stored.TotalTime)

	// Ingredient fields are sanitized; step text is carried verbatim in order.
	require.Len(t, stored.Ingredients, 3)
	assert.Equal(t, "&lt;b&gt;Garlic&lt;/b&gt;", stored.Ingredients[0].Product)
	assert.Equal(t, "100", stored.Ingredients[1].Quantity)
	assert.Equal(t, "softened", stored.Ingredients[1].Notes)
	require.Len(t, stored.Steps, 2)
	assert.Equal(t, "Prep", stored.Steps[0].Title)
	assert.Equal(t, []string{"Mince the garlic.", "Mix with butter."}, stored.Steps[0].Steps)

	// The existing category term is reused, the cuisine term created with a
	// slug derived from its name.
	assert.Equal(t, []string{"term-sides"}, stored.CategoryIDs)
	require.Len(t, stored.CuisineIDs, 1)
	require.Len(t, terms.terms, 2)
	created := terms.terms[1]
	assert.Equal(t, recipe.TaxonomyCuisine, created.Taxonomy)
	assert.Equal(t, "italian-american", created.Slug)
	assert.Equal(t, stored.CuisineIDs[0], created.ID)
}

func TestMapAndStoreSkipsExistingTitle(t *testing.T) {
	recipes := &fakeRecipeStore{recipes: []recipe.Recipe{{ID: "r1", Title: "Garlic Bread"}}}
	m := NewMapper(recipes, &fakeIngredientStore{}, &fakeTermStore{})

	id, err := m.MapAndStore(context.Background(), remoteForImport())
	require.NoError(t, err)
	assert.Empty(t, id)
	assert.Len(t, recipes.recipes, 1)
}

func TestMapAndStoreIngredientRegistry(t *testing.T) {
	ingredients := &fakeIngredientStore{entries: []recipe.IngredientEntry{
		{ID: "i1", Title: "Butter", Slug: "butter"},
	}}
	m := NewMapper(&fakeRecipeStore{}, ingredients, &fakeTermStore{})

	_, err := m.MapAndStore(context.Background(), remoteForImport())
	require.NoError(t, err)

	// "Butter" already exists and is reused. Registration happens after
	// sanitization, so the marked-up garlic and the plain one slugify to
	// different keys and each distinct slug gets one entry.
	slugs := []string{}
	for _, e := range ingredients.entries {
		slugs = append(slugs, e.Slug)
	}
	assert.Contains(t, slugs, "butter")
	assert.Contains(t, slugs, "garlic")
	assert.Len(t, ingredients.entries, 3)
}

func TestMapAndStoreSlugFallback(t *testing.T) {
	recipes := &fakeRecipeStore{}
	m := NewMapper(recipes, &fakeIngredientStore{}, &fakeTermStore{})

	r := remoteForImport()
	r.Title = recipe.RenderedText{Rendered: "Herb Focaccia"}
	r.Slug = ""

	_, err := m.MapAndStore(context.Background(), r)
	require.NoError(t, err)
	require.Len(t, recipes.recipes, 1)
	assert.Equal(t, "herb-focaccia", recipes.recipes[0].Slug)
}
