// Package auth issues and verifies the bearer tokens for staff
// accounts.
package auth

import (
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/grantflow/backend/internal/models"
)

const contextClaims = "auth-claims"

// TokenLifetime is how long an issued token stays valid.
const TokenLifetime = 24 * time.Hour

var (
	ErrNoToken      = errors.New("no bearer token provided")
	ErrInvalidToken = errors.New("the bearer token is invalid or expired")
	ErrForbidden    = errors.New("your account does not have access to this resource")
)

// Claims are the token claims for a staff account.
type Claims struct {
	jwt.RegisteredClaims
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Admin     bool   `json:"admin"`
	Treasurer bool   `json:"treasurer"`
}

// Name returns the staff member's display name, used to attribute
// reviews and disbursements.
func (c Claims) Name() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// Secret returns the signing secret from the environment.
func Secret() []byte {
	return []byte(os.Getenv("JWT_SECRET"))
}

// NewToken issues a signed token for a staff account.
func NewToken(user models.User, secret []byte) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Email,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(TokenLifetime)),
		},
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Admin:     user.Admin,
		Treasurer: user.Treasurer,
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// Parse verifies a token and returns its claims.
func Parse(token string, secret []byte) (Claims, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return Claims{}, ErrInvalidToken
	}

	return claims, nil
}

// Middleware verifies the Authorization header and stores the claims
// on the request context.
func Middleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": ErrNoToken.Error()})
			return
		}

		claims, err := Parse(token, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		c.Set(contextClaims, claims)
		c.Next()
	}
}

// RequireAdmin rejects requests whose token lacks the admin role.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CurrentClaims(c).Admin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": ErrForbidden.Error()})
			return
		}

		c.Next()
	}
}

// RequireTreasurer rejects requests whose token lacks the treasurer
// role. Admins do not implicitly hold it, disbursement is reserved to
// the treasurer.
func RequireTreasurer() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CurrentClaims(c).Treasurer {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": ErrForbidden.Error()})
			return
		}

		c.Next()
	}
}

// CurrentClaims returns the claims stored by Middleware. The zero
// value is returned on unauthenticated requests.
func CurrentClaims(c *gin.Context) Claims {
	value, ok := c.Get(contextClaims)
	if !ok {
		return Claims{}
	}

	claims, ok := value.(Claims)
	if !ok {
		return Claims{}
	}

	return claims
}
