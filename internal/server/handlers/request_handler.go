package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/pantry-helper/internal/domain/models"
	"github.com/mamadbah2/pantry-helper/internal/server/middleware"
	"github.com/mamadbah2/pantry-helper/internal/service/requests"
)

// RequestHandler serves item requests.
type RequestHandler struct {
	svc    *requests.Service
	logger *zap.Logger
}

// NewRequestHandler constructs the request HTTP adapter.
func NewRequestHandler(svc *requests.Service, logger *zap.Logger) *RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RequestHandler{svc: svc, logger: logger}
}

// Add handles POST /api/requests.
func (h *RequestHandler) Add(c *gin.Context) {
	var in models.NewRequestInput
	if !bindJSON(c, &in) {
		return
	}
	if err := h.svc.Add(c.Request.Context(), middleware.Actor(c), in); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Request added successfully."})
}

// ListByPantry handles GET /api/requests/pantry/:pantryID.
func (h *RequestHandler) ListByPantry(c *gin.Context) {
	pantryID, ok := int64Param(c, "pantryID")
	if !ok {
		return
	}
	list, err := h.svc.ListByPantry(c.Request.Context(), middleware.Actor(c), pantryID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// ListMine handles GET /api/requests/mine.
func (h *RequestHandler) ListMine(c *gin.Context) {
	list, err := h.svc.ListMine(c.Request.Context(), middleware.Actor(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Complete handles PUT /api/requests/complete.
func (h *RequestHandler) Complete(c *gin.Context) {
	h.setCompleted(c, true, "Request marked as completed.")
}

// Incomplete handles PUT /api/requests/incomplete.
func (h *RequestHandler) Incomplete(c *gin.Context) {
	h.setCompleted(c, false, "Request marked as incomplete.")
}

func (h *RequestHandler) setCompleted(c *gin.Context, completed bool, message string) {
	var in models.RequestStatusInput
	if !bindJSON(c, &in) {
		return
	}
	if err := h.svc.SetCompleted(c.Request.Context(), middleware.Actor(c), in, completed); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": message})
}

// Update handles PUT /api/requests/update/:profileID/:pantryID/:itemName.
func (h *RequestHandler) Update(c *gin.Context) {
	key, ok := requestKey(c)
	if !ok {
		return
	}
	var in models.UpdateRequestInput
	if !bindJSON(c, &in) {
		return
	}
	if err := h.svc.Update(c.Request.Context(), middleware.Actor(c), key, in); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Request updated successfully."})
}

// Delete handles DELETE /api/requests/:profileID/:pantryID/:itemName.
func (h *RequestHandler) Delete(c *gin.Context) {
	key, ok := requestKey(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), middleware.Actor(c), key); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Request deleted successfully."})
}

func requestKey(c *gin.Context) (models.RequestKey, bool) {
	profileID, ok := int64Param(c, "profileID")
	if !ok {
		return models.RequestKey{}, false
	}
	pantryID, ok := int64Param(c, "pantryID")
	if !ok {
		return models.RequestKey{}, false
	}
	return models.RequestKey{ProfileID: profileID, PantryID: pantryID, ItemName: c.Param("itemName")}, true
}
