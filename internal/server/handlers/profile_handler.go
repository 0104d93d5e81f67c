package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/pantry-helper/internal/domain/models"
	"github.com/mamadbah2/pantry-helper/internal/server/middleware"
	"github.com/mamadbah2/pantry-helper/internal/service/profiles"
)

// ProfileHandler serves profiles, memberships and subscriptions.
type ProfileHandler struct {
	svc    *profiles.Service
	logger *zap.Logger
}

// NewProfileHandler constructs the profile HTTP adapter.
func NewProfileHandler(svc *profiles.Service, logger *zap.Logger) *ProfileHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileHandler{svc: svc, logger: logger}
}

// SignIn handles POST /api/profiles. New profiles answer 201, returning ones
// 200.
func (h *ProfileHandler) SignIn(c *gin.Context) {
	var in models.SignInInput
	if !bindJSON(c, &in) {
		return
	}
	session, err := h.svc.SignIn(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	status := http.StatusOK
	if session.Created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{
		"profileID": session.Profile.ID,
		"profile":   session.Profile,
		"token":     session.Token,
		"expiresAt": session.ExpiresAt,
	})
}

// List handles GET /api/profiles?pantryID=.
func (h *ProfileHandler) List(c *gin.Context) {
	pantryID, ok := int64Query(c, "pantryID")
	if !ok {
		return
	}
	list, err := h.svc.List(c.Request.Context(), middleware.Actor(c), pantryID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Get handles GET /api/profiles/:id.
func (h *ProfileHandler) Get(c *gin.Context) {
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}
	detail, err := h.svc.Get(c.Request.Context(), middleware.Actor(c), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// Update handles PUT /api/profiles/:id.
func (h *ProfileHandler) Update(c *gin.Context) {
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}
	var in models.UpdateProfileInput
	if !bindJSON(c, &in) {
		return
	}
	profile, err := h.svc.Update(c.Request.Context(), middleware.Actor(c), id, in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// Delete handles DELETE /api/profiles/:id.
func (h *ProfileHandler) Delete(c *gin.Context) {
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), middleware.Actor(c), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile deleted successfully."})
}

// ListPantryUsers handles GET /api/pantry-users.
func (h *ProfileHandler) ListPantryUsers(c *gin.Context) {
	list, err := h.svc.ListPantryUsers(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// ListMembers handles GET /api/pantry-users/:id/profiles.
func (h *ProfileHandler) ListMembers(c *gin.Context) {
	pantryID, ok := int64Param(c, "id")
	if !ok {
		return
	}
	list, err := h.svc.ListMembers(c.Request.Context(), middleware.Actor(c), pantryID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// AddPantryUser handles POST /api/pantry-users.
func (h *ProfileHandler) AddPantryUser(c *gin.Context) {
	var in models.PantryUser
	if !bindJSON(c, &in) {
		return
	}
	if err := h.svc.AddPantryUser(c.Request.Context(), middleware.Actor(c), in); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Pantry user added successfully."})
}

// RemovePantryUser handles DELETE /api/pantry-users/:profileID/:pantryID.
func (h *ProfileHandler) RemovePantryUser(c *gin.Context) {
	profileID, ok := int64Param(c, "profileID")
	if !ok {
		return
	}
	pantryID, ok := int64Param(c, "pantryID")
	if !ok {
		return
	}
	if err := h.svc.RemovePantryUser(c.Request.Context(), middleware.Actor(c), profileID, pantryID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Pantry user removed successfully."})
}

// UpdateAuthority handles PUT /api/pantry-users/:profileID/:pantryID/authority.
func (h *ProfileHandler) UpdateAuthority(c *gin.Context) {
	profileID, ok := int64Param(c, "profileID")
	if !ok {
		return
	}
	pantryID, ok := int64Param(c, "pantryID")
	if !ok {
		return
	}
	var in models.UpdateAuthorityInput
	if !bindJSON(c, &in) {
		return
	}
	if err := h.svc.UpdateAuthority(c.Request.Context(), middleware.Actor(c), profileID, pantryID, in.UserAuthority); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Authority updated successfully."})
}

// Subscriptions handles GET /api/pantry-users/:id/subscriptions and
// GET /api/subscriptions/profile/:id/subscriptions.
func (h *ProfileHandler) Subscriptions(c *gin.Context) {
	profileID, ok := int64Param(c, "id")
	if !ok {
		return
	}
	subs, err := h.svc.Subscriptions(c.Request.Context(), profileID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, subs)
}

// SubscriberEmails handles GET /api/subscriptions/profile/:id/emails.
func (h *ProfileHandler) SubscriberEmails(c *gin.Context) {
	pantryID, ok := int64Param(c, "id")
	if !ok {
		return
	}
	emails, err := h.svc.SubscriberEmails(c.Request.Context(), middleware.Actor(c), pantryID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, emails)
}

// SubscriberProfileIDs handles GET /api/subscriptions/profile/:id/profileID.
func (h *ProfileHandler) SubscriberProfileIDs(c *gin.Context) {
	pantryID, ok := int64Param(c, "id")
	if !ok {
		return
	}
	ids, err := h.svc.SubscriberProfileIDs(c.Request.Context(), middleware.Actor(c), pantryID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, ids)
}
