package utils

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
	"time"

	"barberpro-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const principalKey = "principal"

// GenerateJWTSecret returns a random secret suitable for JWT_SECRET.
func GenerateJWTSecret() string {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		panic("failed to generate JWT secret")
	}
	return base64.StdEncoding.EncodeToString(key)
}

func HashPassword(password string, cost int) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// GenerateToken signs a token for p valid for ttl.
func GenerateToken(p models.Principal, shopID uuid.UUID, secret string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("JWT_SECRET not set")
	}
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":    p.Subject().String(),
		"role":   string(p.Role()),
		"shopId": shopID.String(),
		"exp":    now.Add(ttl).Unix(),
		"iat":    now.Unix(),
	})
	return token.SignedString([]byte(secret))
}

// ParseToken validates tokenString and resolves its principal.
func ParseToken(tokenString, secret string) (models.Principal, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	sub, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	subject, err := uuid.Parse(sub)
	if err != nil {
		return nil, errors.New("invalid token subject")
	}
	return models.NewPrincipal(models.Role(role), subject)
}

// AuthMiddleware requires a bearer token and stores the caller's principal.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.GetHeader("Authorization")
		if tokenString == "" {
			RespondWithError(c, http.StatusUnauthorized, "Authorization header required")
			return
		}
		if len(tokenString) > 7 && strings.ToUpper(tokenString[0:6]) == "BEARER" {
			tokenString = tokenString[7:]
		}

		p, err := ParseToken(tokenString, secret)
		if err != nil {
			RespondWithError(c, http.StatusUnauthorized, "Invalid token")
			return
		}

		c.Set(principalKey, p)
		c.Next()
	}
}

// CurrentPrincipal returns the principal stored by AuthMiddleware.
func CurrentPrincipal(c *gin.Context) (models.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil, false
	}
	p, ok := v.(models.Principal)
	return p, ok
}

// RequireRoles lets through only callers holding one of roles.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := CurrentPrincipal(c)
		if !ok {
			RespondWithError(c, http.StatusUnauthorized, "Not authenticated")
			return
		}
		for _, r := range roles {
			if p.Role() == r {
				c.Next()
				return
			}
		}
		RespondWithError(c, http.StatusForbidden, "Insufficient permissions")
	}
}

// RequireStaff rejects client principals.
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := CurrentPrincipal(c)
		if !ok {
			RespondWithError(c, http.StatusUnauthorized, "Not authenticated")
			return
		}
		if !models.IsStaff(p) {
			RespondWithError(c, http.StatusForbidden, "Staff only")
			return
		}
		c.Next()
	}
}
