package service

import (
	"context"

	"github.com/troias/tradematey/internal/admin/domain"
	"github.com/troias/tradematey/internal/admin/store"
)

// MaxAuditPageSize bounds how many audit records a single listing returns,
// regardless of what the caller asks for.
const MaxAuditPageSize = 100

// AuditService reads the privileged-action trail.
type AuditService struct {
	Store store.Store
	Authz *AuthorizeService
}

// List returns up to limit audit records, newest first. The limit is capped
// server-side at MaxAuditPageSize; zero or negative limits get the cap too.
// Reading the trail is itself a privileged action, gated identically to the
// mutations it describes.
func (s *AuditService) List(ctx context.Context, actor domain.Identity, limit int) ([]domain.AuditRecord, error) {
	if err := s.Authz.Require(ctx, actor, domain.RoleAdmin); err != nil {
		return nil, err
	}

	if limit <= 0 || limit > MaxAuditPageSize {
		limit = MaxAuditPageSize
	}

	return s.Store.Audit().ListAuditRecords(ctx, limit)
}
