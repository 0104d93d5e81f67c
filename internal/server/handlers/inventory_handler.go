package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/pantry-helper/internal/domain/models"
	"github.com/mamadbah2/pantry-helper/internal/server/middleware"
	"github.com/mamadbah2/pantry-helper/internal/service/inventory"
)

// InventoryHandler serves stock, ledgers and the floor plan.
type InventoryHandler struct {
	svc    *inventory.Service
	logger *zap.Logger
}

// NewInventoryHandler constructs the inventory HTTP adapter.
func NewInventoryHandler(svc *inventory.Service, logger *zap.Logger) *InventoryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InventoryHandler{svc: svc, logger: logger}
}

// List handles GET /api/inventory?pantryID=.
func (h *InventoryHandler) List(c *gin.Context) {
	pantryID, ok := int64Query(c, "pantryID")
	if !ok {
		return
	}
	items, err := h.svc.ListItems(c.Request.Context(), pantryID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// Add handles POST /api/inventory. An existing item with the same name is
// overwritten and answered with 200.
func (h *InventoryHandler) Add(c *gin.Context) {
	var in models.NewItemInput
	if !bindJSON(c, &in) {
		return
	}
	item, created, err := h.svc.AddItem(c.Request.Context(), middleware.Actor(c), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, item)
}

// Update handles PUT /api/inventory/:id.
func (h *InventoryHandler) Update(c *gin.Context) {
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}
	var in models.UpdateItemInput
	if !bindJSON(c, &in) {
		return
	}
	item, err := h.svc.UpdateItem(c.Request.Context(), middleware.Actor(c), id, in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// Delete handles DELETE /api/inventory/:id?pantryID=.
func (h *InventoryHandler) Delete(c *gin.Context) {
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}
	pantryID, ok := int64Query(c, "pantryID")
	if !ok {
		return
	}
	if err := h.svc.DeleteItem(c.Request.Context(), middleware.Actor(c), id, pantryID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item deleted successfully."})
}

// Clear handles DELETE /api/inventory?pantryID=.
func (h *InventoryHandler) Clear(c *gin.Context) {
	pantryID, ok := int64Query(c, "pantryID")
	if !ok {
		return
	}
	removed, err := h.svc.ClearInventory(c.Request.Context(), middleware.Actor(c), pantryID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Inventory cleared.", "removed": removed})
}

// RecordIncoming handles POST /api/inventory/Incoming.
func (h *InventoryHandler) RecordIncoming(c *gin.Context) {
	var in models.IncomingInput
	if !bindJSON(c, &in) {
		return
	}
	entry, err := h.svc.RecordIncoming(c.Request.Context(), middleware.Actor(c), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// RecordOutgoing handles POST /api/inventory/Outgoing.
func (h *InventoryHandler) RecordOutgoing(c *gin.Context) {
	var in models.OutgoingInput
	if !bindJSON(c, &in) {
		return
	}
	entry, err := h.svc.RecordOutgoing(c.Request.Context(), middleware.Actor(c), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// ListIncoming handles GET /api/inventory/incoming?pantryID=.
func (h *InventoryHandler) ListIncoming(c *gin.Context) {
	pantryID, ok := int64Query(c, "pantryID")
	if !ok {
		return
	}
	entries, err := h.svc.ListIncoming(c.Request.Context(), pantryID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// ListOutgoing handles GET /api/inventory/outgoing?pantryID=.
func (h *InventoryHandler) ListOutgoing(c *gin.Context) {
	pantryID, ok := int64Query(c, "pantryID")
	if !ok {
		return
	}
	entries, err := h.svc.ListOutgoing(c.Request.Context(), pantryID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// Restock handles POST /api/inventory/:id/restock.
func (h *InventoryHandler) Restock(c *gin.Context) {
	h.move(c, h.svc.Restock)
}

// Distribute handles POST /api/inventory/:id/distribute.
func (h *InventoryHandler) Distribute(c *gin.Context) {
	h.move(c, h.svc.Distribute)
}

type moveFunc func(ctx context.Context, actor, id int64, in models.MovementInput) (models.InventoryItem, error)

func (h *InventoryHandler) move(c *gin.Context, apply moveFunc) {
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}
	var in models.MovementInput
	if !bindJSON(c, &in) {
		return
	}
	item, err := apply(c.Request.Context(), middleware.Actor(c), id, in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// GetLayout handles GET /api/map/pantry/:pantryID.
func (h *InventoryHandler) GetLayout(c *gin.Context) {
	pantryID, ok := int64Param(c, "pantryID")
	if !ok {
		return
	}
	layout, err := h.svc.GetLayout(c.Request.Context(), pantryID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, layout)
}

// SaveLayout handles POST /api/map.
func (h *InventoryHandler) SaveLayout(c *gin.Context) {
	var in models.SaveLayoutInput
	if !bindJSON(c, &in) {
		return
	}
	if err := h.svc.SaveLayout(c.Request.Context(), middleware.Actor(c), in); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Layout saved successfully."})
}
