package access

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/mamadbah2/pantry-helper/internal/domain/apperr"
	"github.com/mamadbah2/pantry-helper/internal/domain/models"
	"github.com/mamadbah2/pantry-helper/internal/repository/mysql"
)

// AuthorityStore resolves a profile's role in a pantry.
type AuthorityStore interface {
	Authority(ctx context.Context, profileID, pantryID int64) (models.Authority, error)
}

// Checker enforces pantry authority from the membership table. The caller's
// identity always comes from the verified session, never from the payload.
type Checker struct {
	store  AuthorityStore
	logger *zap.Logger
}

// NewChecker builds a Checker.
func NewChecker(store AuthorityStore, logger *zap.Logger) *Checker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Checker{store: store, logger: logger}
}

// Authority returns the actor's authority in pantryID, or "" when the actor
// is not a member.
func (c *Checker) Authority(ctx context.Context, actor, pantryID int64) (models.Authority, error) {
	if actor == 0 {
		return "", apperr.Wrap(apperr.ErrUnauthenticated, "Sign in required.", nil)
	}
	authority, err := c.store.Authority(ctx, actor, pantryID)
	if errors.Is(err, mysql.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("resolve authority: %w", err)
	}
	return authority, nil
}

// Require fails with ErrForbidden unless actor holds at least min in
// pantryID.
func (c *Checker) Require(ctx context.Context, actor, pantryID int64, min models.Authority) error {
	authority, err := c.Authority(ctx, actor, pantryID)
	if err != nil {
		return err
	}
	if !authority.AtLeast(min) {
		c.logger.Info("authority check denied",
			zap.Int64("profile_id", actor),
			zap.Int64("pantry_id", pantryID),
			zap.String("authority", string(authority)),
			zap.String("required", string(min)))
		return apperr.Forbidden(fmt.Sprintf("This action requires %s access to the pantry.", min))
	}
	return nil
}

// RequireSelfOr passes when actor is owner, otherwise it falls back to
// Require.
func (c *Checker) RequireSelfOr(ctx context.Context, actor, owner, pantryID int64, min models.Authority) error {
	if actor != 0 && actor == owner {
		return nil
	}
	return c.Require(ctx, actor, pantryID, min)
}
