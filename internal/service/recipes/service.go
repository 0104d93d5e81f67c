package recipes

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/mamadbah2/pantry-helper/internal/domain/apperr"
	"github.com/mamadbah2/pantry-helper/internal/domain/models"
	"github.com/mamadbah2/pantry-helper/pkg/clients/anthropic"
	"github.com/mamadbah2/pantry-helper/pkg/clients/mealdb"
)

const (
	// maxSearchIngredients caps how many stocked items are looked up per
	// suggestion request.
	maxSearchIngredients = 3
	defaultSuggestions   = 6
	maxSuggestions       = 20
)

// StockReader lists what a pantry holds.
type StockReader interface {
	ListAllItems(ctx context.Context, pantryID int64) ([]models.InventoryItem, error)
}

// Service serves recipe ideas from the content API and the LLM.
type Service struct {
	meals     mealdb.Client
	generator anthropic.Client
	stock     StockReader
	logger    *zap.Logger
}

// NewService constructs a recipe service. generator may be nil, which
// disables Generate.
func NewService(meals mealdb.Client, generator anthropic.Client, stock StockReader, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{meals: meals, generator: generator, stock: stock, logger: logger}
}

// Random returns one random recipe.
func (s *Service) Random(ctx context.Context) (*models.Recipe, error) {
	recipe, err := s.meals.Random(ctx)
	if err != nil {
		s.logger.Warn("random recipe lookup failed", zap.Error(err))
		return nil, apperr.Wrap(apperr.ErrUnavailable, "Recipe service unavailable.", err)
	}
	return recipe, nil
}

// Suggest returns recipes that use what the pantry has in stock, largest
// stock first. Each recipe lists which of its ingredients are in stock.
func (s *Service) Suggest(ctx context.Context, pantryID int64, limit int) ([]models.Recipe, error) {
	if pantryID == 0 {
		return nil, apperr.Invalid("pantryID is required.")
	}
	if limit <= 0 {
		limit = defaultSuggestions
	}
	if limit > maxSuggestions {
		limit = maxSuggestions
	}

	items, err := s.stock.ListAllItems(ctx, pantryID)
	if err != nil {
		return nil, err
	}
	inStock := make([]models.InventoryItem, 0, len(items))
	for _, item := range items {
		if item.Quantity > 0 {
			inStock = append(inStock, item)
		}
	}
	sort.SliceStable(inStock, func(i, j int) bool { return inStock[i].Quantity > inStock[j].Quantity })

	recipes := []models.Recipe{}
	seen := map[string]bool{}
	for i, item := range inStock {
		if i == maxSearchIngredients || len(recipes) == limit {
			break
		}
		matches, err := s.meals.FilterByIngredient(ctx, item.Name)
		if err != nil {
			s.logger.Warn("recipe filter failed", zap.String("ingredient", item.Name), zap.Error(err))
			return nil, apperr.Wrap(apperr.ErrUnavailable, "Recipe service unavailable.", err)
		}
		for _, match := range matches {
			if len(recipes) == limit {
				break
			}
			if seen[match.ID] {
				continue
			}
			seen[match.ID] = true

			full, err := s.meals.Lookup(ctx, match.ID)
			if err != nil {
				s.logger.Warn("recipe lookup failed", zap.String("id", match.ID), zap.Error(err))
				continue
			}
			if full == nil {
				continue
			}
			full.InStock = MatchStock(full.Ingredients, inStock)
			recipes = append(recipes, *full)
		}
	}
	return recipes, nil
}

// MatchStock returns the stocked item names that appear in a recipe's
// ingredient list. Matching ignores case and the measure suffix.
func MatchStock(ingredients []string, stock []models.InventoryItem) []string {
	matched := []string{}
	for _, item := range stock {
		name := strings.ToLower(strings.TrimSpace(item.Name))
		if name == "" {
			continue
		}
		for _, ingredient := range ingredients {
			ingredient = strings.ToLower(strings.TrimSpace(strings.SplitN(ingredient, ":", 2)[0]))
			if ingredient == "" {
				continue
			}
			if strings.Contains(ingredient, name) || strings.Contains(name, ingredient) {
				matched = append(matched, item.Name)
				break
			}
		}
	}
	return matched
}

// Generate asks the LLM for one recipe matching the prompt.
func (s *Service) Generate(ctx context.Context, in models.GenerateRecipeInput) (*models.Recipe, error) {
	if s.generator == nil {
		return nil, apperr.Unavailable("Recipe generation is not configured.")
	}
	prompt := strings.TrimSpace(in.Prompt)
	if prompt == "" {
		return nil, apperr.Invalid("prompt is required.")
	}
	recipe, err := s.generator.GenerateRecipe(ctx, prompt)
	if err != nil {
		s.logger.Warn("recipe generation failed", zap.Error(err))
		return nil, apperr.Wrap(apperr.ErrUnavailable, "Recipe generation failed.", err)
	}
	return recipe, nil
}
