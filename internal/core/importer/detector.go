package importer

import (
	"context"
	"fmt"

	"recipe-box/internal/core/recipe"
)

// Status classifies a remote recipe against the local collection.
type Status string

const (
	// StatusDuplicate means the recipe already exists locally; its row is
	// not selectable for import.
	StatusDuplicate Status = "duplicate"
	// StatusSimilar means a local recipe shares the exact title but differs
	// in at least one compared field. The row stays selectable.
	StatusSimilar Status = "similar"
	// StatusDistinct means no meaningful local match was found.
	StatusDistinct Status = "distinct"
)

// Match is the result of classifying one remote recipe.
type Match struct {
	Status Status
	Local  *recipe.Recipe
}

// Detector flags remote recipes that already exist locally. The comparison
// is a cheap heuristic: list lengths stand in for list contents, and the
// first title-search result wins.
type Detector struct {
	store recipe.Store
}

// NewDetector creates a duplicate detector.
func NewDetector(store recipe.Store) *Detector {
	return &Detector{store: store}
}

// Classify looks up local recipes whose title matches the remote recipe's
// title and compares the first hit field by field. A nil ingredient, step
// or servings value on either side passes its comparison; the slug is
// always compared.
func (d *Detector) Classify(ctx context.Context, remote *recipe.RemoteRecipe) (Match, error) {
	title := remote.Title.Rendered

	matches, err := d.store.SearchByTitle(ctx, title, 1)
	if err != nil {
		return Match{}, fmt.Errorf("search local recipes: %w", err)
	}
	if len(matches) == 0 {
		return Match{Status: StatusDistinct}, nil
	}
	local := &matches[0]

	ingredientsEqual := remote.Ingredients == nil || local.Ingredients == nil ||
		len(remote.Ingredients) == len(local.Ingredients)
	stepsEqual := remote.Steps == nil || local.Steps == nil ||
		len(remote.Steps) == len(local.Steps)
	slugEqual := remote.Slug == local.Slug
	servingsEqual := remote.Servings == nil || local.Servings == nil ||
		*remote.Servings == *local.Servings

	if ingredientsEqual && stepsEqual && slugEqual && servingsEqual {
		return Match{Status: StatusDuplicate, Local: local}, nil
	}
	if title == local.Title {
		return Match{Status: StatusSimilar, Local: local}, nil
	}
	return Match{Status: StatusDistinct}, nil
}
