package middleware

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	RoleOwner = "owner"

	restaurantIDKey = "restaurantId"
	claimsKey       = "claims"
)

// IssueToken signs an owner access token. The subject is the restaurant id,
// which every owner route uses to scope its data.
func IssueToken(secret, restaurantID, email string, ttl time.Duration, now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub":   restaurantID,
		"role":  RoleOwner,
		"email": email,
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func parseBearer(header, secret string) (jwt.MapClaims, error) {
	raw := strings.TrimSpace(header)
	if raw == "" {
		return nil, errors.New("missing token")
	}

	parts := strings.Split(raw, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, errors.New("invalid token")
	}

	token, err := jwt.Parse(parts[1], func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, errors.New("unauthorized")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("unauthorized")
	}
	return claims, nil
}

// authenticate aborts the request and returns false when the bearer token
// is missing, invalid or lacks one of allowedRoles.
func authenticate(c *gin.Context, secret string, allowedRoles ...string) (jwt.MapClaims, bool) {
	claims, err := parseBearer(c.GetHeader("Authorization"), secret)
	if err != nil {
		log.Println("[AUTH] [ERROR] token validation failed:", err)
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return nil, false
	}

	role, _ := claims["role"].(string)
	if len(allowedRoles) > 0 {
		match := false
		for _, r := range allowedRoles {
			if role == r {
				match = true
				break
			}
		}
		if !match {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return nil, false
		}
	}

	c.Set(claimsKey, claims)
	return claims, true
}

func AuthGuard(secret string, allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := authenticate(c, secret, allowedRoles...); !ok {
			return
		}
		c.Next()
	}
}

// OwnerAuth admits restaurant owners and exposes their restaurant id.
func OwnerAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := authenticate(c, secret, RoleOwner)
		if !ok {
			return
		}

		restaurantID, _ := claims["sub"].(string)
		if strings.TrimSpace(restaurantID) == "" {
			log.Println("[AUTH] [ERROR] sub claim missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		c.Set(restaurantIDKey, restaurantID)
		c.Next()
	}
}

// RestaurantID returns the id set by OwnerAuth.
func RestaurantID(c *gin.Context) string {
	return c.GetString(restaurantIDKey)
}
