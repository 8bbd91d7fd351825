package service

import (
	"context"
	"log/slog"

	"github.com/troias/tradematey/internal/admin/domain"
	"github.com/troias/tradematey/internal/admin/store"
	"github.com/troias/tradematey/pkg/slogx"
)

// AuthorizeService is the single authorization gate for privileged actions.
// Every privileged code path calls Require rather than re-implementing its
// own role check, so there is exactly one place where the rule lives.
type AuthorizeService struct {
	Store store.Store
}

// Require grants the action iff the acting identity holds the capability.
//
// The check is a set-membership lookup against the identity's current role
// bindings, performed fresh on every call: bindings can change between
// requests, and stale authorization is a security defect, so nothing here
// is cached. Returns ErrUnauthenticated when no identity is present and
// ErrForbidden when the identity lacks the capability.
func (s *AuthorizeService) Require(ctx context.Context, actor domain.Identity, capability string) error {
	log := slogx.FromContext(ctx)

	if actor.IsZero() {
		return ErrUnauthenticated
	}

	held, err := s.Store.Roles().HasRoleBinding(ctx, actor.UserID, capability)
	if err != nil {
		log.Error("failed to check role binding",
			slog.String("user_id", actor.UserID),
			slog.String("capability", capability),
			slog.Any("error", err),
		)
		return err
	}
	if !held {
		log.Warn("privileged action denied",
			slog.String("user_id", actor.UserID),
			slog.String("capability", capability),
		)
		return ErrForbidden
	}

	return nil
}
