package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/andresuchdata/stationops/backend-go/internal/domain"
	"github.com/andresuchdata/stationops/backend-go/internal/permission"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const userKey = "user"

// Claims are the custom claims embedded in every access token.
type Claims struct {
	Role      string `json:"role"`
	OMCID     string `json:"omc_id,omitempty"`
	DealerID  string `json:"dealer_id,omitempty"`
	StationID string `json:"station_id,omitempty"`
	jwt.RegisteredClaims
}

// UserContext maps the claims onto a caller identity. The subject is the user id;
// an unknown role is kept as sent and resolves to the attendant profile.
func (c *Claims) UserContext() domain.UserContext {
	return domain.UserContext{
		ID:        c.Subject,
		Role:      domain.Role(strings.TrimSpace(c.Role)),
		OMCID:     c.OMCID,
		DealerID:  c.DealerID,
		StationID: c.StationID,
	}
}

// Authenticator validates HS256 bearer tokens.
type Authenticator struct {
	secret []byte
	issuer string
}

func NewAuthenticator(secret, issuer string) (*Authenticator, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("jwt secret must be provided")
	}
	return &Authenticator{secret: []byte(secret), issuer: issuer}, nil
}

// Parse validates token and returns its claims.
func (a *Authenticator) Parse(token string) (*Claims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if a.issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.issuer))
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("token has no subject: %w", jwt.ErrTokenInvalidClaims)
	}
	return claims, nil
}

// Issue signs a token for user valid for ttl.
func (a *Authenticator) Issue(user domain.UserContext, ttl time.Duration, now time.Time) (string, error) {
	claims := Claims{
		Role:      string(permission.EffectiveRole(user.Role)),
		OMCID:     user.OMCID,
		DealerID:  user.DealerID,
		StationID: user.StationID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    a.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

// JWTAuth validates the Bearer token on every protected route and stores the
// caller identity in the context.
func JWTAuth(auth *Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		claims, err := auth.Parse(strings.TrimSpace(strings.TrimPrefix(header, "Bearer ")))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token", "details": err.Error()})
			return
		}

		c.Set(userKey, claims.UserContext())
		c.Next()
	}
}

// UserFromContext returns the caller set by JWTAuth.
func UserFromContext(c *gin.Context) (domain.UserContext, bool) {
	v, ok := c.Get(userKey)
	if !ok {
		return domain.UserContext{}, false
	}
	user, ok := v.(domain.UserContext)
	return user, ok
}
