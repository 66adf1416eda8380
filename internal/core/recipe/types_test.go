package recipe

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMinutesUnmarshal(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Minutes
	}{
		{"number", `20`, NewMinutes(20)},
		{"numeric string", `"15"`, NewMinutes(15)},
		{"zero", `0`, NewMinutes(0)},
		{"empty string", `""`, Minutes{}},
		{"null", `null`, Minutes{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m Minutes
			require.NoError(t, json.Unmarshal([]byte(tt.input), &m))
			assert.Equal(t, tt.want, m)
		})
	}

	var m Minutes
	assert.Error(t, json.Unmarshal([]byte(`"soon"`), &m))
}

func TestMinutesMarshal(t *testing.T) {
	b, err := json.Marshal(NewMinutes(35))
	require.NoError(t, err)
	assert.Equal(t, `35`, string(b))

	b, err = json.Marshal(Minutes{})
	require.NoError(t, err)
	assert.Equal(t, `""`, string(b))
}

func TestEffectiveTotalTime(t *testing.T) {
	t.Run("explicit total wins", func(t *testing.T) {
		r := Recipe{
			PrepTime:  NewMinutes(20),
			CookTime:  NewMinutes(15),
			TotalTime: NewMinutes(60),
		}
		assert.Equal(t, NewMinutes(60), r.EffectiveTotalTime())
	})

	t.Run("derived from prep and cook", func(t *testing.T) {
		r := Recipe{
			PrepTime: NewMinutes(20),
			CookTime: NewMinutes(15),
		}
		assert.Equal(t, NewMinutes(35), r.EffectiveTotalTime())
	})

	t.Run("cook only", func(t *testing.T) {
		r := Recipe{CookTime: NewMinutes(45)}
		assert.Equal(t, NewMinutes(45), r.EffectiveTotalTime())
	})

	t.Run("nothing set renders unset", func(t *testing.T) {
		r := Recipe{}
		assert.Equal(t, Minutes{}, r.EffectiveTotalTime())
	})
}

func TestRemoteRecipeIDUnmarshal(t *testing.T) {
	var id RemoteRecipeID
	require.NoError(t, json.Unmarshal([]byte(`42`), &id))
	assert.Equal(t, RemoteRecipeID("42"), id)

	require.NoError(t, json.Unmarshal([]byte(`"a1b2c3"`), &id))
	assert.Equal(t, RemoteRecipeID("a1b2c3"), id)
}

func TestRemoteRecipeDecode(t *testing.T) {
	payload := `{
		"id": 7,
		"title": {"rendered": "Beef Stew"},
		"slug": "beef-stew",
		"content": {"rendered": "<p>Hearty.</p>"},
		"servings": "4",
		"preheat_temp": {"temp": "350", "unit": "fahrenheit"},
		"cook_times": {"prep_time": "20", "cook_time": 90, "total_time": ""},
		"ingredients": [
			{"product": "Beef", "quantity": "2", "unit": "lb", "notes": "cubed"}
		],
		"steps": [
			{"title": "Stew", "steps": ["Brown the beef.", "Simmer."]}
		],
		"recipe_categories": [{"name": "Dinner", "slug": "dinner", "description": ""}]
	}`

	var r RemoteRecipe
	require.NoError(t, json.Unmarshal([]byte(payload), &r))

	assert.Equal(t, RemoteRecipeID("7"), r.ID)
	assert.Equal(t, "Beef Stew", r.Title.Rendered)
	assert.Equal(t, NewMinutes(20), r.CookTimes.PrepTime)
	assert.Equal(t, NewMinutes(90), r.CookTimes.CookTime)
	assert.Equal(t, Minutes{}, r.CookTimes.TotalTime)
	require.NotNil(t, r.Servings)
	assert.Equal(t, "4", *r.Servings)
	require.Len(t, r.Steps, 1)
	assert.Equal(t, []string{"Brown the beef.", "Simmer."}, r.Steps[0].Steps)
	assert.Equal(t, []TermData{{Name: "Dinner", Slug: "dinner"}}, r.Terms(TaxonomyCategory))
	assert.Empty(t, r.Terms(TaxonomyCuisine))
}

func TestTermSetAccessors(t *testing.T) {
	var r Recipe
	r.SetTermIDs(TaxonomyMealType, []string{"a", "b"})
	assert.Equal(t, []string{"a", "b"}, r.TermIDs(TaxonomyMealType))
	assert.Nil(t, r.TermIDs(TaxonomyCategory))
}
