package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJwtKey = "test-key"

func mintToken(t *testing.T, key string, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	require.NoError(t, err)
	return signed
}

func adminClaims(issuedAt time.Time) jwt.MapClaims {
	return jwt.MapClaims{
		"email": "warden@campus.edu",
		"admin": true,
		"iat":   issuedAt.Unix(),
	}
}

func TestAdminOnly(t *testing.T) {
	testCases := []struct {
		name           string
		maxAge         time.Duration
		token          string
		expectedStatus int
	}{
		{
			name:           "no token",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "wrong key",
			token:          mintToken(t, "other-key", adminClaims(time.Now())),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "non-admin",
			token: mintToken(t, testJwtKey, jwt.MapClaims{
				"email": "resident@campus.edu",
				"admin": false,
				"iat":   time.Now().Unix(),
			}),
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "admin accepted",
			token:          mintToken(t, testJwtKey, adminClaims(time.Now())),
			expectedStatus: http.StatusOK,
		},
		{
			name:           "fresh token within max age",
			maxAge:         time.Hour,
			token:          mintToken(t, testJwtKey, adminClaims(time.Now())),
			expectedStatus: http.StatusOK,
		},
		{
			name:           "token older than max age",
			maxAge:         time.Hour,
			token:          mintToken(t, testJwtKey, adminClaims(time.Now().Add(-2*time.Hour))),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:   "missing iat with max age set",
			maxAge: time.Hour,
			token: mintToken(t, testJwtKey, jwt.MapClaims{
				"email": "warden@campus.edu",
				"admin": true,
			}),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "missing iat with bound disabled",
			token: mintToken(t, testJwtKey, jwt.MapClaims{
				"email": "warden@campus.edu",
				"admin": true,
			}),
			expectedStatus: http.StatusOK,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			auth := NewAuth(testJwtKey, tc.maxAge)

			var seen *Admin
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen, _ = AdminFromContext(r.Context())
			})

			req := httptest.NewRequest("GET", "/v1/hostel-a/feed", nil)
			if tc.token != "" {
				req.Header.Set("Authorization", "Bearer "+tc.token)
			}
			rr := httptest.NewRecorder()
			auth.AdminOnly()(next).ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code)
			if tc.expectedStatus == http.StatusOK {
				require.NotNil(t, seen)
				assert.Equal(t, "warden@campus.edu", seen.Email)
			}
		})
	}
}

func TestAdminOnlyReadsCookie(t *testing.T) {
	auth := NewAuth(testJwtKey, 0)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	req := httptest.NewRequest("GET", "/v1/hostel-a/feed", nil)
	req.AddCookie(&http.Cookie{
		Name:  "accessToken",
		Value: mintToken(t, testJwtKey, adminClaims(time.Now())),
	})
	rr := httptest.NewRecorder()
	auth.AdminOnly()(next).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}
