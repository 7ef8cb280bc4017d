package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/andresuchdata/stationops/backend-go/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthenticator_RoundTrip(t *testing.T) {
	auth, err := NewAuthenticator("secret", "stationops")
	require.NoError(t, err)

	user := domain.UserContext{ID: "U1", Role: domain.RoleOMC, OMCID: "O1"}
	token, err := auth.Issue(user, time.Hour, time.Now())
	require.NoError(t, err)

	claims, err := auth.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, user, claims.UserContext())
}

func TestAuthenticator_Rejects(t *testing.T) {
	auth, err := NewAuthenticator("secret", "stationops")
	require.NoError(t, err)
	user := domain.UserContext{ID: "U1", Role: domain.RoleDealer}

	expired, err := auth.Issue(user, -time.Minute, time.Now())
	require.NoError(t, err)
	_, err = auth.Parse(expired)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	other, _ := NewAuthenticator("other-secret", "stationops")
	forged, err := other.Issue(user, time.Hour, time.Now())
	require.NoError(t, err)
	_, err = auth.Parse(forged)
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)

	foreign, _ := NewAuthenticator("secret", "someone-else")
	wrongIssuer, err := foreign.Issue(user, time.Hour, time.Now())
	require.NoError(t, err)
	_, err = auth.Parse(wrongIssuer)
	assert.ErrorIs(t, err, jwt.ErrTokenInvalidIssuer)

	anonymous, err := auth.Issue(domain.UserContext{Role: domain.RoleAdmin}, time.Hour, time.Now())
	require.NoError(t, err)
	_, err = auth.Parse(anonymous)
	assert.Error(t, err)

	_, err = NewAuthenticator(" ", "")
	assert.Error(t, err)
}

func TestIssue_NormalizesUnknownRole(t *testing.T) {
	auth, _ := NewAuthenticator("secret", "")
	token, err := auth.Issue(domain.UserContext{ID: "U1", Role: "auditor"}, time.Hour, time.Now())
	require.NoError(t, err)

	claims, err := auth.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAttendant, claims.UserContext().Role)
}

func TestRateLimiter_PerKey(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	now := time.Date(2026, time.October, 14, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))
	assert.True(t, rl.Allow("b"))

	now = now.Add(time.Second)
	assert.True(t, rl.Allow("a"))
}

func TestRateLimiter_EvictsIdleKeys(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	now := time.Date(2026, time.October, 14, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	rl.Allow("a")
	now = now.Add(2 * limiterIdleTTL)
	rl.Allow("b")

	assert.Len(t, rl.limiters, 1)
	assert.Contains(t, rl.limiters, "b")
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Recovery())
	router.GET("/boom", func(*gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, w.Body.String())
}
