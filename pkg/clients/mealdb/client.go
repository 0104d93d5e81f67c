package mealdb

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mamadbah2/pantry-helper/internal/config"
	"github.com/mamadbah2/pantry-helper/internal/domain/models"
)

// Client exposes the recipe content API operations used by the application.
type Client interface {
	Random(ctx context.Context) (*models.Recipe, error)
	FilterByIngredient(ctx context.Context, ingredient string) ([]models.Recipe, error)
	Lookup(ctx context.Context, id string) (*models.Recipe, error)
}

// APIClient is a resty-backed implementation of Client.
type APIClient struct {
	httpClient *resty.Client
}

// NewClient builds a recipe API client using the provided configuration values.
func NewClient(cfg config.RecipesConfig) *APIClient {
	base := strings.TrimSuffix(cfg.BaseURL, "/")

	restyClient := resty.New()
	restyClient.
		SetBaseURL(fmt.Sprintf("%s/%s", base, cfg.APIKey)).
		SetHeader("Accept", "application/json").
		SetTimeout(15 * time.Second)

	return &APIClient{httpClient: restyClient}
}

// meal mirrors the API's flat meal object. Ingredients and measures come as
// numbered fields strIngredient1..20 / strMeasure1..20.
type meal map[string]*string

type mealsResponse struct {
	Meals []meal `json:"meals"`
}

func (m meal) field(key string) string {
	if v, ok := m[key]; ok && v != nil {
		return strings.TrimSpace(*v)
	}
	return ""
}

func (m meal) toRecipe() models.Recipe {
	recipe := models.Recipe{
		ID:          m.field("idMeal"),
		Name:        m.field("strMeal"),
		Category:    m.field("strCategory"),
		Image:       m.field("strMealThumb"),
		Ingredients: []string{},
	}

	for i := 1; i <= 20; i++ {
		ingredient := m.field(fmt.Sprintf("strIngredient%d", i))
		if ingredient == "" {
			continue
		}
		if measure := m.field(fmt.Sprintf("strMeasure%d", i)); measure != "" {
			ingredient = fmt.Sprintf("%s: %s", ingredient, measure)
		}
		recipe.Ingredients = append(recipe.Ingredients, ingredient)
	}

	for _, line := range strings.Split(m.field("strInstructions"), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			recipe.Instructions = append(recipe.Instructions, line)
		}
	}

	return recipe
}

func (c *APIClient) meals(ctx context.Context, path string, query map[string]string) ([]models.Recipe, error) {
	result := new(mealsResponse)
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParams(query).
		SetResult(result).
		Get(path)
	if err != nil {
		return nil, fmt.Errorf("recipe api call %s: %w", path, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("recipe api error: code=%d, message=%s", resp.StatusCode(), resp.String())
	}

	recipes := make([]models.Recipe, 0, len(result.Meals))
	for _, m := range result.Meals {
		recipes = append(recipes, m.toRecipe())
	}
	return recipes, nil
}

// Random returns one random meal.
func (c *APIClient) Random(ctx context.Context) (*models.Recipe, error) {
	recipes, err := c.meals(ctx, "/random.php", nil)
	if err != nil {
		return nil, err
	}
	if len(recipes) == 0 {
		return nil, fmt.Errorf("recipe api returned no meal")
	}
	return &recipes[0], nil
}

// FilterByIngredient lists meals using an ingredient. The API only returns
// id, name and image here.
func (c *APIClient) FilterByIngredient(ctx context.Context, ingredient string) ([]models.Recipe, error) {
	return c.meals(ctx, "/filter.php", map[string]string{"i": ingredient})
}

// Lookup returns the full details of one meal, or nil when unknown.
func (c *APIClient) Lookup(ctx context.Context, id string) (*models.Recipe, error) {
	recipes, err := c.meals(ctx, "/lookup.php", map[string]string{"i": id})
	if err != nil {
		return nil, err
	}
	if len(recipes) == 0 {
		return nil, nil
	}
	return &recipes[0], nil
}
