package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Admin is the already-resolved identity of the console operator. Issuing
// and refreshing tokens is the auth collaborator's job; this middleware only
// validates what it is handed.
type Admin struct {
	Email   string
	IsAdmin bool
}

// Key to store the admin identity in the request context
type key int

const AdminKey key = 0

type Auth struct {
	jwtKey []byte
	maxAge time.Duration
}

// NewAuth builds the admin gate. maxAge bounds the accepted token age by its
// iat claim, independent of exp; zero disables the bound.
func NewAuth(jwtKey string, maxAge time.Duration) *Auth {
	return &Auth{jwtKey: []byte(jwtKey), maxAge: maxAge}
}

// AdminOnly rejects requests without a valid admin token.
func (a *Auth) AdminOnly() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			admin, err := a.extractAdmin(r)
			if err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			if !admin.IsAdmin {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
			ctx := context.WithValue(r.Context(), AdminKey, admin)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (a *Auth) extractAdmin(r *http.Request) (*Admin, error) {
	// cookie for browser clients, Authorization header for everything else
	var tokenString string
	if cookie, err := r.Cookie("accessToken"); err == nil {
		tokenString = cookie.Value
	} else if token, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); found {
		tokenString = token
	}
	if tokenString == "" {
		return nil, fmt.Errorf("no token")
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return a.jwtKey, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid claims")
	}

	if a.maxAge > 0 {
		issued, err := claims.GetIssuedAt()
		if err != nil || issued == nil {
			return nil, fmt.Errorf("token has no issue time")
		}
		if time.Since(issued.Time) > a.maxAge {
			return nil, fmt.Errorf("token older than %s", a.maxAge)
		}
	}

	admin := &Admin{}
	if email, ok := claims["email"].(string); ok {
		admin.Email = email
	}
	if isAdmin, ok := claims["admin"].(bool); ok {
		admin.IsAdmin = isAdmin
	}
	return admin, nil
}

// AdminFromContext returns the identity AdminOnly stored, if any.
func AdminFromContext(ctx context.Context) (*Admin, bool) {
	admin, ok := ctx.Value(AdminKey).(*Admin)
	return admin, ok
}
