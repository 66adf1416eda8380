package importer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"recipe-box/internal/core/recipe"
	"recipe-box/internal/pkg/common"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Mapper translates a remote recipe's JSON representation into local
// storage: the recipe record itself, on-demand ingredient registry
// entries, and taxonomy terms reused or created by slug.
type Mapper struct {
	recipes     recipe.Store
	ingredients recipe.IngredientStore
	terms       recipe.TermStore
}

// NewMapper creates a field mapper.
func NewMapper(recipes recipe.Store, ingredients recipe.IngredientStore, terms recipe.TermStore) *Mapper {
	return &Mapper{
		recipes:     recipes,
		ingredients: ingredients,
		terms:       terms,
	}
}

// MapAndStore writes a remote recipe into local storage and returns the new
// local id. A recipe whose title already exists locally is skipped and
// returns "" with no error; imports never update existing recipes.
func (m *Mapper) MapAndStore(ctx context.Context, remote *recipe.RemoteRecipe) (string, error) {
	title := strings.TrimSpace(remote.Title.Rendered)

	exists, err := m.recipes.ExistsByTitle(ctx, title)
	if err != nil {
		return "", fmt.Errorf("check existing recipe: %w", err)
	}
	if exists {
		common.LogDebug("skipping recipe, title already exists",
			zap.String("title", title),
			zap.String("remote_id", string(remote.ID)),
		)
		return "", nil
	}

	slug := remote.Slug
	if slug == "" {
		slug = common.Slugify(title)
	}

	rec := &recipe.Recipe{
		ID:        uuid.New().String(),
		RemoteID:  string(remote.ID),
		Title:     title,
		Slug:      slug,
		Content:   remote.Content.Rendered,
		Status:    recipe.StatusPublish,
		PrepTime:  remote.CookTimes.PrepTime,
		CookTime:  remote.CookTimes.CookTime,
		TotalTime: remote.CookTimes.TotalTime,
		CreatedAt: time.Now().UTC(),
	}

	if remote.Servings != nil {
		servings := *remote.Servings
		rec.Servings = &servings
	}

	// The unit is not validated against the known set; whatever the remote
	// sent passes through.
	if remote.Preheat != nil {
		preheat := *remote.Preheat
		rec.Preheat = &preheat
	}

	rec.Steps = mapInstructionGroups(remote.Steps)
	rec.Ingredients = mapIngredientLines(remote.Ingredients)

	m.registerIngredients(ctx, rec.Ingredients)

	for _, taxonomy := range recipe.Taxonomies {
		ids, err := m.mapTerms(ctx, taxonomy, remote.Terms(taxonomy))
		if err != nil {
			return "", err
		}
		rec.SetTermIDs(taxonomy, ids)
	}

	if err := m.recipes.Insert(ctx, rec); err != nil {
		return "", fmt.Errorf("create recipe %q: %w", title, err)
	}

	common.LogInfo("imported recipe",
		zap.String("id", rec.ID),
		zap.String("title", title),
		zap.String("remote_id", rec.RemoteID),
	)

	return rec.ID, nil
}

// mapInstructionGroups carries instruction groups over verbatim, in order,
// defaulting missing titles and step lists to empty values.
func mapInstructionGroups(groups []recipe.InstructionGroup) []recipe.InstructionGroup {
	if groups == nil {
		return nil
	}
	mapped := make([]recipe.InstructionGroup, len(groups))
	for i, g := range groups {
		steps := g.Steps
		if steps == nil {
			steps = []string{}
		}
		mapped[i] = recipe.InstructionGroup{
			Title: g.Title,
			Steps: steps,
		}
	}
	return mapped
}

// mapIngredientLines sanitizes each ingredient entry, materializing all
// four sub-fields.
func mapIngredientLines(lines []recipe.IngredientLine) []recipe.IngredientLine {
	if lines == nil {
		return nil
	}
	mapped := make([]recipe.IngredientLine, len(lines))
	for i, line := range lines {
		mapped[i] = recipe.IngredientLine{
			Product:  common.SanitizeField(line.Product),
			Quantity: common.SanitizeField(line.Quantity),
			Unit:     common.SanitizeField(line.Unit),
			Notes:    common.SanitizeField(line.Notes),
		}
	}
	return mapped
}

// registerIngredients creates a registry entry for every distinct product
// name that has no existing entry, matched by slug. Registry failures only
// affect autosuggestion, so they are logged and swallowed.
func (m *Mapper) registerIngredients(ctx context.Context, lines []recipe.IngredientLine) {
	seen := make(map[string]struct{}, len(lines))
	for _, line := range lines {
		slug := common.Slugify(line.Product)
		if slug == "" {
			continue
		}
		if _, ok := seen[slug]; ok {
			continue
		}
		seen[slug] = struct{}{}

		existing, err := m.ingredients.FindBySlug(ctx, slug)
		if err != nil {
			common.LogWarn("ingredient registry lookup failed",
				zap.Error(err),
				zap.String("slug", slug),
			)
			continue
		}
		if existing != nil {
			continue
		}

		entry := &recipe.IngredientEntry{
			ID:        uuid.New().String(),
			Title:     line.Product,
			Slug:      slug,
			CreatedAt: time.Now().UTC(),
		}
		if err := m.ingredients.Insert(ctx, entry); err != nil {
			common.LogWarn("ingredient registry insert failed",
				zap.Error(err),
				zap.String("slug", slug),
			)
		}
	}
}

// mapTerms resolves remote terms to local term ids for one taxonomy,
// reusing terms by slug and creating the missing ones.
func (m *Mapper) mapTerms(ctx context.Context, taxonomy string, terms []recipe.TermData) ([]string, error) {
	if len(terms) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(terms))
	for _, td := range terms {
		slug := td.Slug
		if slug == "" {
			slug = common.Slugify(td.Name)
		}
		if slug == "" {
			continue
		}

		existing, err := m.terms.FindBySlug(ctx, taxonomy, slug)
		if err != nil {
			return nil, fmt.Errorf("find %s term %q: %w", taxonomy, slug, err)
		}
		if existing != nil {
			ids = append(ids, existing.ID)
			continue
		}

		term := &recipe.Term{
			ID:          uuid.New().String(),
			Taxonomy:    taxonomy,
			Name:        td.Name,
			Slug:        slug,
			Description: td.Description,
			CreatedAt:   time.Now().UTC(),
		}
		if err := m.terms.Insert(ctx, term); err != nil {
			return nil, fmt.Errorf("create %s term %q: %w", taxonomy, slug, err)
		}
		ids = append(ids, term.ID)
	}
	return ids, nil
}
