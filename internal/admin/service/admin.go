package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/troias/tradematey/internal/admin/domain"
	"github.com/troias/tradematey/internal/admin/store"
	"github.com/troias/tradematey/pkg/cryptox"
	"github.com/troias/tradematey/pkg/idx"
	"github.com/troias/tradematey/pkg/slogx"
)

// AdminService dispatches privileged mutations. Every method follows the
// same shape: authorization gate first, payload validation before any store
// access, then the mutation, then an audit append.
//
// The audit append is best-effort by documented design: the mutation is the
// primary effect and has already landed, so an audit failure is logged and
// swallowed rather than reported as a failure of the action. The trail is
// observability, not a ledger the mutation depends on.
type AdminService struct {
	Store   store.Store
	Authz   *AuthorizeService
	Invites *InviteService
}

// IssueInvite mints an invite for an email address on behalf of an admin.
func (s *AdminService) IssueInvite(ctx context.Context, actor domain.Identity, email string) (string, error) {
	if err := s.Authz.Require(ctx, actor, domain.RoleAdmin); err != nil {
		return "", err
	}

	token, err := s.Invites.Issue(ctx, email, actor.UserID)
	if err != nil {
		return "", err
	}

	s.appendAudit(ctx, domain.AuditRecord{
		ActorUserID: actor.UserID,
		Action:      domain.AuditActionInviteIssued,
		TokenHash:   cryptox.FingerprintToken(token),
	})

	return token, nil
}

// AssignRole grants a capability to the target user and returns the target's
// resulting bindings.
func (s *AdminService) AssignRole(ctx context.Context, actor domain.Identity, targetUserID, role string) ([]string, error) {
	if err := s.Authz.Require(ctx, actor, domain.RoleAdmin); err != nil {
		return nil, err
	}
	if err := validateRolePayload(targetUserID, role); err != nil {
		return nil, err
	}

	// Grant and snapshot in one transaction so the returned bindings are
	// exactly the state this grant produced.
	var roles []string
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Roles().AddRoleBinding(ctx, domain.RoleBinding{
			UserID:    targetUserID,
			Role:      role,
			CreatedAt: time.Now().UTC(),
		}); err != nil {
			return err
		}
		var err error
		roles, err = tx.Roles().ListUserRoles(ctx, targetUserID)
		return err
	})
	if err != nil {
		slogx.FromContext(ctx).Error("failed to assign role",
			slog.String("target_user_id", targetUserID),
			slog.String("role", role),
			slog.Any("error", err),
		)
		return nil, err
	}

	s.appendAudit(ctx, domain.AuditRecord{
		ActorUserID:  actor.UserID,
		TargetUserID: targetUserID,
		Action:       domain.AuditActionRoleAssigned,
	})

	return roles, nil
}

// RevokeRole removes a capability from the target user and returns the
// target's resulting bindings.
func (s *AdminService) RevokeRole(ctx context.Context, actor domain.Identity, targetUserID, role string) ([]string, error) {
	if err := s.Authz.Require(ctx, actor, domain.RoleAdmin); err != nil {
		return nil, err
	}
	if err := validateRolePayload(targetUserID, role); err != nil {
		return nil, err
	}

	var roles []string
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Roles().RemoveRoleBinding(ctx, targetUserID, role); err != nil {
			return err
		}
		var err error
		roles, err = tx.Roles().ListUserRoles(ctx, targetUserID)
		return err
	})
	if err != nil {
		slogx.FromContext(ctx).Error("failed to revoke role",
			slog.String("target_user_id", targetUserID),
			slog.String("role", role),
			slog.Any("error", err),
		)
		return nil, err
	}

	s.appendAudit(ctx, domain.AuditRecord{
		ActorUserID:  actor.UserID,
		TargetUserID: targetUserID,
		Action:       domain.AuditActionRoleRevoked,
	})

	return roles, nil
}

// RedeemOnBehalf consumes an invite for a target user. Unlike the public
// redemption path, the caller's session (not the token) is the credential
// being judged, so the admin gate applies.
func (s *AdminService) RedeemOnBehalf(ctx context.Context, actor domain.Identity, token, targetUserID string) error {
	if err := s.Authz.Require(ctx, actor, domain.RoleAdmin); err != nil {
		return err
	}
	if token == "" || targetUserID == "" {
		return fmt.Errorf("%w: token and user_id are required", ErrInvalidRequest)
	}

	if err := s.Invites.Redeem(ctx, token, targetUserID); err != nil {
		return err
	}

	s.appendAudit(ctx, domain.AuditRecord{
		ActorUserID:  actor.UserID,
		TargetUserID: targetUserID,
		Action:       domain.AuditActionInviteRedeemed,
		TokenHash:    cryptox.FingerprintToken(token),
	})

	return nil
}

func validateRolePayload(targetUserID, role string) error {
	if targetUserID == "" || role == "" {
		return fmt.Errorf("%w: user_id and role are required", ErrInvalidRequest)
	}
	if !domain.KnownRole(role) {
		return fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}
	return nil
}

func (s *AdminService) appendAudit(ctx context.Context, rec domain.AuditRecord) {
	rec.ID = idx.New().String()
	rec.CreatedAt = time.Now().UTC()

	if err := s.Store.Audit().AppendAuditRecord(ctx, rec); err != nil {
		// Logged, never surfaced: the privileged action already succeeded.
		slogx.FromContext(ctx).Error("failed to append audit record",
			slog.String("action", rec.Action),
			slog.String("actor_user_id", rec.ActorUserID),
			slog.String("target_user_id", rec.TargetUserID),
			slog.Any("error", err),
		)
	}
}
