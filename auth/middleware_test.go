package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func newAuthRouter(verifier *Verifier, cfg MiddlewareConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware(verifier, cfg))
	r.GET("/protected", func(c *gin.Context) {
		claims, ok := ClaimsFromContext(c.Request.Context())
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no claims"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"subject": claims.Subject})
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return r
}

func doRequest(r *gin.Engine, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestMiddlewareDisabledInjectsLocalClaims(t *testing.T) {
	t.Setenv("AUTH_DISABLED", "false")
	r := newAuthRouter(nil, MiddlewareConfig{DisableAuth: true})

	w := doRequest(r, "/protected", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 with auth disabled, got %d: %s", w.Code, w.Body.String())
	}
	if body := w.Body.String(); body != `{"subject":"local-dev"}` {
		t.Fatalf("unexpected body %s", body)
	}
}

func TestMiddlewarePublicPathSkipsAuth(t *testing.T) {
	t.Setenv("AUTH_DISABLED", "false")
	r := newAuthRouter(nil, MiddlewareConfig{
		PublicPaths: map[string]bool{"/health": true},
	})

	w := doRequest(r, "/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for public path, got %d", w.Code)
	}
}

func TestMiddlewareRejectsWithoutVerifier(t *testing.T) {
	t.Setenv("AUTH_DISABLED", "false")
	r := newAuthRouter(nil, MiddlewareConfig{})

	w := doRequest(r, "/protected", "Bearer some-token")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without verifier, got %d", w.Code)
	}
}

func TestMiddlewareRejectsMissingOrMalformedHeader(t *testing.T) {
	t.Setenv("AUTH_DISABLED", "false")
	verifier := &Verifier{}
	r := newAuthRouter(verifier, MiddlewareConfig{})

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic dXNlcjpwYXNz"},
		{"no token", "Bearer "},
		{"single segment", "Bearer"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doRequest(r, "/protected", tc.header)
			if w.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", w.Code)
			}
		})
	}
}

func TestExtractBearerToken(t *testing.T) {
	cases := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc123", "abc123", true},
		{"bearer abc123", "abc123", true},
		{"Bearer   abc123", "abc123", true},
		{"Token abc123", "", false},
		{"Bearer", "", false},
		{"Bearer   ", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		token, ok := extractBearerToken(tc.header)
		if ok != tc.ok || token != tc.token {
			t.Fatalf("extractBearerToken(%q) = (%q, %v), want (%q, %v)",
				tc.header, token, ok, tc.token, tc.ok)
		}
	}
}

func TestHasScopes(t *testing.T) {
	cases := []struct {
		name     string
		claim    string
		required []string
		want     bool
	}{
		{"all present", "read:reports write:jobs", []string{"read:reports"}, true},
		{"multiple required", "read:reports write:jobs", []string{"read:reports", "write:jobs"}, true},
		{"missing one", "read:reports", []string{"read:reports", "write:jobs"}, false},
		{"empty claim", "", []string{"read:reports"}, false},
		{"none required", "read:reports", nil, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := hasScopes(tc.claim, tc.required); got != tc.want {
				t.Fatalf("hasScopes(%q, %v) = %v, want %v", tc.claim, tc.required, got, tc.want)
			}
		})
	}
}
