package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/arafat19/ripple/backend/pkg/auth"
	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBlacklist stands in for the redis client. Keys added via revoke are
// reported as blacklisted; a non-nil err makes every lookup fail, like an
// unreachable store.
type fakeBlacklist struct {
	revoked map[string]bool
	err     error
}

func newFakeBlacklist() *fakeBlacklist {
	return &fakeBlacklist{revoked: map[string]bool{}}
}

func (f *fakeBlacklist) revoke(jti string) {
	f.revoked["blacklist:"+jti] = true
}

func (f *fakeBlacklist) Exists(ctx context.Context, keys ...string) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx, "exists")
	if f.err != nil {
		cmd.SetErr(f.err)
		return cmd
	}
	var n int64
	for _, k := range keys {
		if f.revoked[k] {
			n++
		}
	}
	cmd.SetVal(n)
	return cmd
}

// invoke runs a middleware chain against a request carrying the given
// Authorization header and reports whether the inner handler ran and with
// which user id.
func invoke(t *testing.T, mw echo.MiddlewareFunc, header string) (rec *httptest.ResponseRecorder, called bool, userID uint) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec = httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := mw(func(c echo.Context) error {
		called = true
		userID, _ = c.Get(UserIDKey).(uint)
		return c.NoContent(http.StatusOK)
	})(c)
	require.NoError(t, err)
	return rec, called, userID
}

func testToken(t *testing.T, manager *auth.JWTManager) (token, jti string) {
	t.Helper()
	token, err := manager.Generate(42, "alice@example.com")
	require.NoError(t, err)
	claims, err := manager.Verify(token)
	require.NoError(t, err)
	return token, claims.ID
}

func TestRequireAuthAcceptsValidToken(t *testing.T) {
	manager := auth.NewJWTManager("test-secret", time.Hour)
	token, _ := testToken(t, manager)

	rec, called, userID := invoke(t, RequireAuth(manager, newFakeBlacklist()), "Bearer "+token)
	assert.True(t, called)
	assert.Equal(t, uint(42), userID)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAuthRejectsMissingOrBadToken(t *testing.T) {
	manager := auth.NewJWTManager("test-secret", time.Hour)
	blacklist := newFakeBlacklist()

	rec, called, _ := invoke(t, RequireAuth(manager, blacklist), "")
	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, called, _ = invoke(t, RequireAuth(manager, blacklist), "Bearer not.a.token")
	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// A token signed with another secret.
	other := auth.NewJWTManager("other-secret", time.Hour)
	forged, _ := testToken(t, other)
	rec, called, _ = invoke(t, RequireAuth(manager, blacklist), "Bearer "+forged)
	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuthRejectsBlacklistedToken(t *testing.T) {
	manager := auth.NewJWTManager("test-secret", time.Hour)
	token, jti := testToken(t, manager)
	blacklist := newFakeBlacklist()

	// Accepted before logout.
	_, called, _ := invoke(t, RequireAuth(manager, blacklist), "Bearer "+token)
	require.True(t, called)

	// Rejected after its jti is blacklisted, even though the signature and
	// expiry are still valid.
	blacklist.revoke(jti)
	rec, called, _ := invoke(t, RequireAuth(manager, blacklist), "Bearer "+token)
	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"token is no longer valid"}`, rec.Body.String())
}

func TestRequireAuthFailsClosedWhenBlacklistUnavailable(t *testing.T) {
	manager := auth.NewJWTManager("test-secret", time.Hour)
	token, _ := testToken(t, manager)
	blacklist := newFakeBlacklist()
	blacklist.err = errors.New("connection refused")

	rec, called, _ := invoke(t, RequireAuth(manager, blacklist), "Bearer "+token)
	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestOptionalAuthResolvesViewer(t *testing.T) {
	manager := auth.NewJWTManager("test-secret", time.Hour)
	token, _ := testToken(t, manager)

	_, called, userID := invoke(t, OptionalAuth(manager, newFakeBlacklist()), "Bearer "+token)
	assert.True(t, called)
	assert.Equal(t, uint(42), userID)
}

func TestOptionalAuthDowngradesToAnonymous(t *testing.T) {
	manager := auth.NewJWTManager("test-secret", time.Hour)
	token, jti := testToken(t, manager)

	// No header.
	_, called, userID := invoke(t, OptionalAuth(manager, newFakeBlacklist()), "")
	assert.True(t, called)
	assert.Equal(t, uint(0), userID)

	// Garbage token.
	_, called, userID = invoke(t, OptionalAuth(manager, newFakeBlacklist()), "Bearer nope")
	assert.True(t, called)
	assert.Equal(t, uint(0), userID)

	// Blacklisted token.
	blacklist := newFakeBlacklist()
	blacklist.revoke(jti)
	_, called, userID = invoke(t, OptionalAuth(manager, blacklist), "Bearer "+token)
	assert.True(t, called)
	assert.Equal(t, uint(0), userID)

	// Unreachable blacklist store: the read proceeds anonymously.
	blacklist = newFakeBlacklist()
	blacklist.err = errors.New("connection refused")
	_, called, userID = invoke(t, OptionalAuth(manager, blacklist), "Bearer "+token)
	assert.True(t, called)
	assert.Equal(t, uint(0), userID)
}
