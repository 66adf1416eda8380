package recipe

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Recipe post status. Imported recipes are published immediately.
const StatusPublish = "publish"

// The three recipe taxonomies.
const (
	TaxonomyCategory = "recipe_category"
	TaxonomyMealType = "meal_type"
	TaxonomyCuisine  = "recipe_cuisine"
)

// Taxonomies lists every recipe taxonomy in a stable order.
var Taxonomies = []string{TaxonomyCategory, TaxonomyMealType, TaxonomyCuisine}

// Preheat temperature units. Stored as-is; imports do not validate the unit.
const (
	UnitFahrenheit = "fahrenheit"
	UnitCelsius    = "celsius"
)

// Minutes is an optional duration in whole minutes. Remote sites serialize
// unset times as empty strings, so decoding tolerates numbers, numeric
// strings and "". An unset value encodes back to "".
type Minutes struct {
	Value int  `bson:"value"`
	Set   bool `bson:"set"`
}

// NewMinutes returns a set Minutes value.
func NewMinutes(v int) Minutes {
	return Minutes{Value: v, Set: true}
}

func (m Minutes) MarshalJSON() ([]byte, error) {
	if !m.Set {
		return []byte(`""`), nil
	}
	return []byte(strconv.Itoa(m.Value)), nil
}

func (m *Minutes) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*m = Minutes{}
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if s == "" {
			*m = Minutes{}
			return nil
		}
		v, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("invalid minutes value %q", s)
		}
		*m = Minutes{Value: v, Set: true}
		return nil
	}
	var v int
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*m = Minutes{Value: v, Set: true}
	return nil
}

// RenderedText matches the {"rendered": "..."} wrapper that title and
// content fields use on the wire.
type RenderedText struct {
	Rendered string `json:"rendered"`
}

// PreheatTemp is the preheat-temperature group attached to a recipe.
type PreheatTemp struct {
	Temp string `json:"temp" bson:"temp"`
	Unit string `json:"unit" bson:"unit"`
}

// IngredientLine is one entry of a recipe's ordered ingredient group.
// All four sub-fields are always materialized, missing ones as "".
type IngredientLine struct {
	Product  string `json:"product" bson:"product"`
	Quantity string `json:"quantity" bson:"quantity"`
	Unit     string `json:"unit" bson:"unit"`
	Notes    string `json:"notes" bson:"notes"`
}

// InstructionGroup is a named, ordered bundle of preparation steps.
// A recipe may have several; group and step order is never changed.
type InstructionGroup struct {
	Title string   `json:"title" bson:"title"`
	Steps []string `json:"steps" bson:"steps"`
}

// CookTimes bundles the three time fields the API exposes.
type CookTimes struct {
	PrepTime  Minutes `json:"prep_time"`
	CookTime  Minutes `json:"cook_time"`
	TotalTime Minutes `json:"total_time"`
}

// Term belongs to exactly one taxonomy and is identified by slug within it.
type Term struct {
	ID          string    `bson:"_id" json:"id"`
	Taxonomy    string    `bson:"taxonomy" json:"taxonomy"`
	Name        string    `bson:"name" json:"name"`
	Slug        string    `bson:"slug" json:"slug"`
	Description string    `bson:"description" json:"description"`
	CreatedAt   time.Time `bson:"created_at" json:"-"`
}

// TermData is the simplified term shape embedded in recipe API output.
type TermData struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

// Data returns the simplified wire shape of a term.
func (t Term) Data() TermData {
	return TermData{Name: t.Name, Slug: t.Slug, Description: t.Description}
}

// IngredientEntry is a registry record of a distinct ingredient name,
// created on demand and used for autosuggestion.
type IngredientEntry struct {
	ID        string    `bson:"_id" json:"id"`
	Title     string    `bson:"title" json:"title"`
	Slug      string    `bson:"slug" json:"slug"`
	CreatedAt time.Time `bson:"created_at" json:"-"`
}

// Recipe is a locally stored recipe. Created once at import (or authoring)
// time; the import pipeline never updates an existing recipe.
type Recipe struct {
	ID          string             `bson:"_id"`
	RemoteID    string             `bson:"remote_id,omitempty"`
	Title       string             `bson:"title"`
	Slug        string             `bson:"slug"`
	Content     string             `bson:"content"`
	Status      string             `bson:"status"`
	Servings    *string            `bson:"servings,omitempty"`
	Preheat     *PreheatTemp       `bson:"preheat,omitempty"`
	PrepTime    Minutes            `bson:"prep_time"`
	CookTime    Minutes            `bson:"cook_time"`
	TotalTime   Minutes            `bson:"total_time"`
	Ingredients []IngredientLine   `bson:"ingredients,omitempty"`
	Steps       []InstructionGroup `bson:"steps,omitempty"`
	CategoryIDs []string           `bson:"category_ids,omitempty"`
	MealTypeIDs []string           `bson:"meal_type_ids,omitempty"`
	CuisineIDs  []string           `bson:"cuisine_ids,omitempty"`
	CreatedAt   time.Time          `bson:"created_at"`
}

// EffectiveTotalTime returns the explicit total time when set, otherwise
// prep + cook. A zero sum counts as unset, matching how the API renders
// missing times as empty strings.
func (r *Recipe) EffectiveTotalTime() Minutes {
	if r.TotalTime.Set {
		return r.TotalTime
	}
	sum := r.PrepTime.Value + r.CookTime.Value
	if sum > 0 {
		return NewMinutes(sum)
	}
	return Minutes{}
}

// TermIDs returns the recipe's term id set for the given taxonomy.
func (r *Recipe) TermIDs(taxonomy string) []string {
	switch taxonomy {
	case TaxonomyCategory:
		return r.CategoryIDs
	case TaxonomyMealType:
		return r.MealTypeIDs
	case TaxonomyCuisine:
		return r.CuisineIDs
	}
	return nil
}

// SetTermIDs replaces the recipe's term id set for the given taxonomy.
func (r *Recipe) SetTermIDs(taxonomy string, ids []string) {
	switch taxonomy {
	case TaxonomyCategory:
		r.CategoryIDs = ids
	case TaxonomyMealType:
		r.MealTypeIDs = ids
	case TaxonomyCuisine:
		r.CuisineIDs = ids
	}
}

// RemoteID is the identifier of a recipe on a remote Recipe Box. Older
// installations serialize ids as JSON numbers, so decoding accepts both.
type RemoteRecipeID string

func (id *RemoteRecipeID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = RemoteRecipeID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = RemoteRecipeID(n.String())
	return nil
}

// RemoteRecipe is a recipe as received from a remote Recipe Box API.
// List responses carry the same custom fields as single-item responses,
// so one shape covers both. Nil slices and pointers mean the remote
// omitted the field.
type RemoteRecipe struct {
	ID          RemoteRecipeID     `json:"id"`
	Title       RenderedText       `json:"title"`
	Slug        string             `json:"slug"`
	Content     RenderedText       `json:"content"`
	Servings    *string            `json:"servings,omitempty"`
	Preheat     *PreheatTemp       `json:"preheat_temp,omitempty"`
	CookTimes   CookTimes          `json:"cook_times"`
	Ingredients []IngredientLine   `json:"ingredients,omitempty"`
	Steps       []InstructionGroup `json:"steps,omitempty"`
	Categories  []TermData         `json:"recipe_categories,omitempty"`
	MealTypes   []TermData         `json:"meal_type,omitempty"`
	Cuisines    []TermData         `json:"cuisine,omitempty"`
}

// Terms returns the remote term list for the given taxonomy.
func (r *RemoteRecipe) Terms(taxonomy string) []TermData {
	switch taxonomy {
	case TaxonomyCategory:
		return r.Categories
	case TaxonomyMealType:
		return r.MealTypes
	case TaxonomyCuisine:
		return r.Cuisines
	}
	return nil
}

// View is the public "view" context rendering of a recipe: the standard
// fields plus the recipe custom fields, with guid/modified/status/type/
// template/links stripped.
type View struct {
	ID          string             `json:"id"`
	Date        time.Time          `json:"date"`
	Slug        string             `json:"slug"`
	Title       RenderedText       `json:"title"`
	Content     RenderedText       `json:"content"`
	PreheatTemp *PreheatTemp       `json:"preheat_temp"`
	Ingredients []IngredientLine   `json:"ingredients"`
	Servings    *string            `json:"servings"`
	Steps       []InstructionGroup `json:"steps"`
	CookTimes   CookTimes          `json:"cook_times"`
	Categories  []TermData         `json:"recipe_categories"`
	MealTypes   []TermData         `json:"meal_type"`
	Cuisines    []TermData         `json:"cuisine"`
}
