package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/pantry-helper/internal/domain/models"
	"github.com/mamadbah2/pantry-helper/internal/server/middleware"
	"github.com/mamadbah2/pantry-helper/internal/service/recipes"
	"github.com/mamadbah2/pantry-helper/internal/service/reporting"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportHandler serves staff reports and recipe ideas.
type ReportHandler struct {
	reports *reporting.Service
	recipes *recipes.Service
	logger  *zap.Logger
}

// NewReportHandler constructs the report HTTP adapter.
func NewReportHandler(reports *reporting.Service, recipes *recipes.Service, logger *zap.Logger) *ReportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportHandler{reports: reports, recipes: recipes, logger: logger}
}

// Expiry handles GET /api/reports/expiry/:pantryID?days=.
func (h *ReportHandler) Expiry(c *gin.Context) {
	pantryID, ok := int64Param(c, "pantryID")
	if !ok {
		return
	}
	days, ok := intQuery(c, "days")
	if !ok {
		return
	}
	report, err := h.reports.Expiry(c.Request.Context(), middleware.Actor(c), pantryID, days)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// Popular handles GET /api/reports/popular/:pantryID?limit=.
func (h *ReportHandler) Popular(c *gin.Context) {
	pantryID, ok := int64Param(c, "pantryID")
	if !ok {
		return
	}
	limit, ok := intQuery(c, "limit")
	if !ok {
		return
	}
	items, err := h.reports.PopularItems(c.Request.Context(), middleware.Actor(c), pantryID, limit)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// ExportInventory handles GET /api/reports/inventory/:pantryID/export.
func (h *ReportHandler) ExportInventory(c *gin.Context) {
	pantryID, ok := int64Param(c, "pantryID")
	if !ok {
		return
	}
	data, err := h.reports.ExportInventory(c.Request.Context(), middleware.Actor(c), pantryID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=inventory-%d.xlsx", pantryID))
	c.Data(http.StatusOK, xlsxContentType, data)
}

// Snapshot handles GET /api/reports/snapshot/:pantryID.
func (h *ReportHandler) Snapshot(c *gin.Context) {
	pantryID, ok := int64Param(c, "pantryID")
	if !ok {
		return
	}
	snapshot, err := h.reports.LatestSnapshot(c.Request.Context(), middleware.Actor(c), pantryID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// RandomRecipe handles GET /api/recipes/random.
func (h *ReportHandler) RandomRecipe(c *gin.Context) {
	recipe, err := h.recipes.Random(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

// SuggestRecipes handles GET /api/recipes/suggest?pantryID=&limit=.
func (h *ReportHandler) SuggestRecipes(c *gin.Context) {
	pantryID, ok := int64Query(c, "pantryID")
	if !ok {
		return
	}
	limit, ok := intQuery(c, "limit")
	if !ok {
		return
	}
	list, err := h.recipes.Suggest(c.Request.Context(), pantryID, limit)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GenerateRecipe handles POST /api/recipes/generate.
func (h *ReportHandler) GenerateRecipe(c *gin.Context) {
	var in models.GenerateRecipeInput
	if !bindJSON(c, &in) {
		return
	}
	recipe, err := h.recipes.Generate(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func intQuery(c *gin.Context, name string) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid %s.", name)})
		return 0, false
	}
	return value, true
}
