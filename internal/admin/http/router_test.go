package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/troias/tradematey/internal/admin/domain"
	"github.com/troias/tradematey/internal/admin/service"
	"github.com/troias/tradematey/internal/admin/store"
	"github.com/troias/tradematey/internal/admin/store/drivers/sqlite"
	"github.com/troias/tradematey/pkg/adminsdk"
	"github.com/troias/tradematey/pkg/cryptox"
	"github.com/troias/tradematey/pkg/jwtx"
)

const testSessionSecret = "router-test-session-secret"

func newTestRouter(t *testing.T) (*Router, *sqlite.Store) {
	t.Helper()

	st, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	router := NewRouter(
		jwtx.NewHSVerifier(testSessionSecret),
		"test",
		st,
		slog.New(slog.DiscardHandler),
	)

	authz := &service.AuthorizeService{Store: st}
	invites := &service.InviteService{Store: st}
	router.AdminService = &service.AdminService{Store: st, Authz: authz, Invites: invites}
	router.InviteService = invites
	router.AuditService = &service.AuditService{Store: st, Authz: authz}
	router.ApplyRoutes()

	return router, st
}

func grantAdmin(t *testing.T, st *sqlite.Store, userID string) {
	t.Helper()
	require.NoError(t, st.Roles().AddRoleBinding(context.Background(), domain.RoleBinding{
		UserID:    userID,
		Role:      domain.RoleAdmin,
		CreatedAt: time.Now().UTC(),
	}))
}

func sessionFor(t *testing.T, userID string) string {
	t.Helper()
	token, err := jwtx.Sign(testSessionSecret, userID, userID+"@example.com", time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func doJSON(t *testing.T, router *Router, method, path, authz string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) adminsdk.ErrorResponse {
	t.Helper()
	var resp adminsdk.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestIssueInviteEndpoint(t *testing.T) {
	router, st := newTestRouter(t)
	grantAdmin(t, st, "admin-1")

	body := adminsdk.IssueInviteRequest{Email: "alice@example.com"}

	t.Run("no session is 401 unauthenticated", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/v1/invites", "", body)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, adminsdk.ErrKindUnauthenticated, decodeError(t, rec).Error)
	})

	t.Run("garbage bearer token is rejected by the session layer", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/v1/invites", "Bearer not-a-jwt", body)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Header().Get("WWW-Authenticate"), "invalid_token")
	})

	t.Run("non-admin session is 403 forbidden", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/v1/invites", sessionFor(t, "user-1"), body)
		require.Equal(t, http.StatusForbidden, rec.Code)
		require.Equal(t, adminsdk.ErrKindForbidden, decodeError(t, rec).Error)
	})

	t.Run("malformed email is 400 invalid_request", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/v1/invites", sessionFor(t, "admin-1"),
			adminsdk.IssueInviteRequest{Email: "nope"})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, adminsdk.ErrKindInvalidRequest, decodeError(t, rec).Error)
	})

	t.Run("admin session mints a prefixed token", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/v1/invites", sessionFor(t, "admin-1"), body)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp adminsdk.IssueInviteResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.True(t, strings.HasPrefix(resp.Token, service.InviteTokenPrefix))
		require.Equal(t, "alice@example.com", resp.Email)
	})
}

func TestRedeemAndProbeEndpoints(t *testing.T) {
	router, st := newTestRouter(t)
	grantAdmin(t, st, "admin-1")

	issue := doJSON(t, router, http.MethodPost, "/v1/invites", sessionFor(t, "admin-1"),
		adminsdk.IssueInviteRequest{Email: "bob@example.com"})
	require.Equal(t, http.StatusOK, issue.Code)

	var minted adminsdk.IssueInviteResponse
	require.NoError(t, json.Unmarshal(issue.Body.Bytes(), &minted))

	t.Run("probe reports valid without consuming", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/v1/invites/probe", "",
			adminsdk.RedeemInviteRequest{Token: minted.Token})
		require.Equal(t, http.StatusOK, rec.Code)

		var resp adminsdk.ProbeInviteResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.True(t, resp.Valid)
	})

	t.Run("anonymous redemption succeeds once", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/v1/invites/redeem", "",
			adminsdk.RedeemInviteRequest{Token: minted.Token})
		require.Equal(t, http.StatusOK, rec.Code)

		var resp adminsdk.RedeemInviteResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.True(t, resp.OK)
	})

	t.Run("second redemption is 404 invalid_token", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/v1/invites/redeem", "",
			adminsdk.RedeemInviteRequest{Token: minted.Token})
		require.Equal(t, http.StatusNotFound, rec.Code)
		require.Equal(t, adminsdk.ErrKindInvalidToken, decodeError(t, rec).Error)
	})

	t.Run("consumed token probes invalid", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/v1/invites/probe", "",
			adminsdk.RedeemInviteRequest{Token: minted.Token})
		require.Equal(t, http.StatusOK, rec.Code)

		var resp adminsdk.ProbeInviteResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.False(t, resp.Valid)
	})

	t.Run("missing token field is 400, not 404", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/v1/invites/redeem", "",
			adminsdk.RedeemInviteRequest{})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, adminsdk.ErrKindInvalidRequest, decodeError(t, rec).Error)
	})
}

func TestRoleEndpoints(t *testing.T) {
	router, st := newTestRouter(t)
	grantAdmin(t, st, "admin-1")
	admin := sessionFor(t, "admin-1")

	t.Run("unknown role is 400", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/v1/admin/roles", admin,
			adminsdk.AssignRoleRequest{UserID: "target-1", Role: "warlord"})
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("assignment returns the resulting bindings", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/v1/admin/roles", admin,
			adminsdk.AssignRoleRequest{UserID: "target-1", Role: domain.RoleTradie})
		require.Equal(t, http.StatusOK, rec.Code)

		var resp adminsdk.RoleBindingsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.True(t, resp.OK)
		require.Equal(t, "target-1", resp.UserID)
		require.Equal(t, []string{domain.RoleTradie}, resp.Roles)
	})

	t.Run("revocation removes the binding", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodDelete, "/v1/admin/roles", admin,
			adminsdk.RevokeRoleRequest{UserID: "target-1", Role: domain.RoleTradie})
		require.Equal(t, http.StatusOK, rec.Code)

		var resp adminsdk.RoleBindingsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.True(t, resp.OK)
		require.Empty(t, resp.Roles)
	})

	t.Run("non-admin session is 403", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/v1/admin/roles", sessionFor(t, "user-1"),
			adminsdk.AssignRoleRequest{UserID: "target-1", Role: domain.RoleTradie})
		require.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestRedeemOnBehalfEndpoint(t *testing.T) {
	router, st := newTestRouter(t)
	grantAdmin(t, st, "admin-1")
	admin := sessionFor(t, "admin-1")

	issue := doJSON(t, router, http.MethodPost, "/v1/invites", admin,
		adminsdk.IssueInviteRequest{Email: "carol@example.com"})
	require.Equal(t, http.StatusOK, issue.Code)

	var minted adminsdk.IssueInviteResponse
	require.NoError(t, json.Unmarshal(issue.Body.Bytes(), &minted))

	t.Run("anonymous caller is 401", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/v1/admin/redemptions", "",
			adminsdk.RedeemOnBehalfRequest{Token: minted.Token, UserID: "target-1"})
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("admin redeems for the target user", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/v1/admin/redemptions", admin,
			adminsdk.RedeemOnBehalfRequest{Token: minted.Token, UserID: "target-1"})
		require.Equal(t, http.StatusOK, rec.Code)

		inv, err := st.Invites().GetInviteByTokenHash(context.Background(),
			cryptox.FingerprintToken(minted.Token))
		require.NoError(t, err)
		require.True(t, inv.Used)
		require.Equal(t, "target-1", inv.UsedBy)
	})
}

func TestAuditEndpoint(t *testing.T) {
	router, st := newTestRouter(t)
	grantAdmin(t, st, "admin-1")
	admin := sessionFor(t, "admin-1")

	// Generate trail entries through the dispatcher itself.
	for _, target := range []string{"t-1", "t-2", "t-3"} {
		rec := doJSON(t, router, http.MethodPost, "/v1/admin/roles", admin,
			adminsdk.AssignRoleRequest{UserID: target, Role: domain.RoleClient})
		require.Equal(t, http.StatusOK, rec.Code)
	}

	t.Run("non-admin reader is 403", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/v1/admin/audit", sessionFor(t, "user-1"), nil)
		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("records come back newest first and honour the limit", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/v1/admin/audit?limit=2", admin, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp adminsdk.AuditListResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Data, 2)
		require.Equal(t, "t-3", resp.Data[0].TargetUserID)
		require.Equal(t, "t-2", resp.Data[1].TargetUserID)
	})

	t.Run("unparseable limit falls back to the server default", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/v1/admin/audit?limit=banana", admin, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp adminsdk.AuditListResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Data, 3)
	})
}

// brokenInvitesStore delegates to the real store but fails every invite
// operation the way a dying database would.
type brokenInvitesStore struct {
	store.Store
}

func (s *brokenInvitesStore) Invites() store.Invites { return brokenInvitesRepo{} }

type brokenInvitesRepo struct{}

func (brokenInvitesRepo) CreateInvite(context.Context, domain.Invite) error {
	return errors.New("disk I/O error (5)")
}

func (brokenInvitesRepo) GetInviteByTokenHash(context.Context, string) (domain.Invite, error) {
	return domain.Invite{}, errors.New("disk I/O error (5)")
}

func (brokenInvitesRepo) ConsumeInvite(context.Context, string, string) (bool, error) {
	return false, errors.New("disk I/O error (5)")
}

func TestStoreFailureMapsToGenericServerError(t *testing.T) {
	st, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	broken := &brokenInvitesStore{Store: st}
	router := NewRouter(
		jwtx.NewHSVerifier(testSessionSecret),
		"test",
		broken,
		slog.New(slog.DiscardHandler),
	)
	authz := &service.AuthorizeService{Store: broken}
	invites := &service.InviteService{Store: broken}
	router.AdminService = &service.AdminService{Store: broken, Authz: authz, Invites: invites}
	router.InviteService = invites
	router.AuditService = &service.AuditService{Store: broken, Authz: authz}
	router.ApplyRoutes()

	for _, path := range []string{"/v1/invites/redeem", "/v1/invites/probe"} {
		rec := doJSON(t, router, http.MethodPost, path, "",
			adminsdk.RedeemInviteRequest{Token: "tmi_something"})
		require.Equal(t, http.StatusInternalServerError, rec.Code)

		resp := decodeError(t, rec)
		require.Equal(t, adminsdk.ErrKindServerError, resp.Error)

		// Store failure detail stays in server-side logs; the body carries
		// only the generic description.
		require.NotContains(t, rec.Body.String(), "disk I/O")
	}
}

func TestHealthEndpoints(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/livez", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/readyz", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp adminsdk.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "ok", resp.Status)
	require.NotNil(t, resp.Checks)
}
