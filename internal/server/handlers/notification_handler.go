package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/pantry-helper/internal/domain/models"
	"github.com/mamadbah2/pantry-helper/internal/server/middleware"
	"github.com/mamadbah2/pantry-helper/internal/service/notify"
)

// NotificationHandler serves in-app notifications and pantry contact email.
type NotificationHandler struct {
	svc    *notify.Service
	logger *zap.Logger
}

// NewNotificationHandler constructs the notification HTTP adapter.
func NewNotificationHandler(svc *notify.Service, logger *zap.Logger) *NotificationHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationHandler{svc: svc, logger: logger}
}

// ListForPantry handles GET /api/notifications?pantryID=.
func (h *NotificationHandler) ListForPantry(c *gin.Context) {
	pantryID, ok := int64Query(c, "pantryID")
	if !ok {
		return
	}
	if pantryID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pantryID is required."})
		return
	}
	list, err := h.svc.ListForPantry(c.Request.Context(), middleware.Actor(c), pantryID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// ListForProfile handles GET /api/notifications/:profileID.
func (h *NotificationHandler) ListForProfile(c *gin.Context) {
	profileID, ok := int64Param(c, "profileID")
	if !ok {
		return
	}
	list, err := h.svc.ListForProfile(c.Request.Context(), middleware.Actor(c), profileID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Add handles POST /api/notifications.
func (h *NotificationHandler) Add(c *gin.Context) {
	var in models.NotificationInput
	if !bindJSON(c, &in) {
		return
	}
	id, err := h.svc.Add(c.Request.Context(), middleware.Actor(c), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Notification added successfully", "id": id})
}

// Delete handles DELETE /api/notifications/:notificationID.
func (h *NotificationHandler) Delete(c *gin.Context) {
	id, ok := int64Param(c, "notificationID")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), middleware.Actor(c), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification deleted successfully"})
}

// MarkAllRead handles PATCH /api/notifications/:profileID.
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	profileID, ok := int64Param(c, "profileID")
	if !ok {
		return
	}
	changed, err := h.svc.MarkAllRead(c.Request.Context(), middleware.Actor(c), profileID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if changed == 0 {
		c.JSON(http.StatusOK, gin.H{"message": "No notification"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read successfully", "updated": changed})
}

// ContactPantry handles POST /api/pantries/:id/contact.
func (h *NotificationHandler) ContactPantry(c *gin.Context) {
	pantryID, ok := int64Param(c, "id")
	if !ok {
		return
	}
	var in models.ContactPantryInput
	if !bindJSON(c, &in) {
		return
	}
	if err := h.svc.ContactPantry(c.Request.Context(), middleware.Actor(c), pantryID, in); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Email sent successfully."})
}
