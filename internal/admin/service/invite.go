package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/troias/tradematey/internal/admin/domain"
	"github.com/troias/tradematey/internal/admin/mailer"
	"github.com/troias/tradematey/internal/admin/store"
	"github.com/troias/tradematey/pkg/cryptox"
	"github.com/troias/tradematey/pkg/slogx"
	"github.com/troias/tradematey/pkg/validate"
)

// InviteTokenPrefix tags every invite token so operators can recognise the
// token family at a glance. The prefix is documentation, not security; the
// entropy lives in the random suffix.
const InviteTokenPrefix = "tmi_"

// InviteService owns the invite lifecycle: issue, probe, redeem.
type InviteService struct {
	Store  store.Store
	Mailer mailer.Mailer // optional; nil disables delivery
}

// Issue creates a single-use invite for an email address and returns the raw
// token. Issuing twice for the same email produces two independent,
// both-valid tokens; deduplication by email is deliberately not done here.
//
// There is no collision retry. The token carries 256 bits of entropy, so a
// fingerprint collision means something is wrong with the entropy source
// and retrying would only paper over it.
func (s *InviteService) Issue(ctx context.Context, email, issuedBy string) (string, error) {
	log := slogx.FromContext(ctx)

	if !validate.Email(email) {
		return "", fmt.Errorf("%w: email is missing or malformed", ErrInvalidRequest)
	}

	token, err := cryptox.GenerateToken(InviteTokenPrefix, cryptox.TokenSize256)
	if err != nil {
		log.Error("failed to generate invite token", slog.Any("error", err))
		return "", err
	}

	inv := domain.Invite{
		TokenHash: cryptox.FingerprintToken(token),
		Email:     email,
		IssuedBy:  issuedBy,
	}
	if err := s.Store.Invites().CreateInvite(ctx, inv); err != nil {
		log.Error("failed to store invite",
			slog.String("email", email),
			slog.Any("error", err),
		)
		return "", err
	}

	s.deliver(ctx, email, token)

	log.Info("invite issued",
		slog.String("email", email),
		slog.String("issued_by", issuedBy),
	)

	// Return the raw token; only its fingerprint was stored.
	return token, nil
}

// Probe reports whether a token would currently redeem, without consuming
// it. Probing must never burn a token, so this is a pure read.
func (s *InviteService) Probe(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, nil
	}

	inv, err := s.Store.Invites().GetInviteByTokenHash(ctx, cryptox.FingerprintToken(token))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return !inv.Used, nil
}

// Redeem consumes an invite token exactly once. The used flag is flipped by
// one conditional write in the store; whichever call's write lands first
// wins, every other concurrent or later call gets ErrInviteInvalid. Unknown
// tokens get the same ErrInviteInvalid, never a store error.
func (s *InviteService) Redeem(ctx context.Context, token, redeemedBy string) error {
	log := slogx.FromContext(ctx)

	if token == "" {
		return fmt.Errorf("%w: token is required", ErrInvalidRequest)
	}

	won, err := s.Store.Invites().ConsumeInvite(ctx, cryptox.FingerprintToken(token), redeemedBy)
	if err != nil {
		log.Error("failed to consume invite", slog.Any("error", err))
		return err
	}
	if !won {
		log.Warn("invite redemption rejected", slog.String("redeemed_by", redeemedBy))
		return ErrInviteInvalid
	}

	log.Info("invite redeemed", slog.String("redeemed_by", redeemedBy))
	return nil
}

// deliver emails the raw token to the invitee. Failures are logged and
// swallowed: the token was already returned to the issuing admin, so the
// invite is not lost.
func (s *InviteService) deliver(ctx context.Context, email, token string) {
	if s.Mailer == nil {
		return
	}

	subject := "You're invited to TradeMatey"
	text := fmt.Sprintf(
		"You've been invited to join TradeMatey.\n\nYour invite code: %s\n\nThis code can be used once.",
		token,
	)
	html := fmt.Sprintf(
		"<p>You've been invited to join TradeMatey.</p><p>Your invite code: <code>%s</code></p><p>This code can be used once.</p>",
		token,
	)

	if err := s.Mailer.Send(ctx, email, subject, html, text); err != nil {
		slogx.FromContext(ctx).Error("failed to deliver invite email",
			slog.String("email", email),
			slog.Any("error", err),
		)
	}
}
