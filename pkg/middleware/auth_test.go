package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/sessions"
)

func echoUser(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetUserID(r.Context()); ok {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusTeapot)
	})
}

func TestRequireUser(t *testing.T) {
	h := RequireUser(echoUser(t))

	t.Run("anonymous gets 401", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/movies", nil))
		if w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", w.Code)
		}
	})

	t.Run("identified caller passes", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/api/movies", nil)
		r = r.WithContext(WithUserID(r.Context(), 3))
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", w.Code)
		}
	})
}

func TestSessionRoundTrip(t *testing.T) {
	store := sessions.NewCookieStore([]byte("0123456789abcdef0123456789abcdef"))

	// Log in and capture the cookie.
	loginW := httptest.NewRecorder()
	loginR := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	if err := Login(store, loginW, loginR, 42); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	cookies := loginW.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected a session cookie")
	}

	var gotID int64
	h := Session(store)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, _ = GetUserID(r.Context())
	}))

	r := httptest.NewRequest(http.MethodGet, "/api/groups", nil)
	for _, c := range cookies {
		r.AddCookie(c)
	}
	h.ServeHTTP(httptest.NewRecorder(), r)

	if gotID != 42 {
		t.Errorf("user id from session = %d, want 42", gotID)
	}
}

func TestSessionIgnoresForeignCookie(t *testing.T) {
	store := sessions.NewCookieStore([]byte("0123456789abcdef0123456789abcdef"))
	other := sessions.NewCookieStore([]byte("fedcba9876543210fedcba9876543210"))

	loginW := httptest.NewRecorder()
	if err := Login(other, loginW, httptest.NewRequest(http.MethodPost, "/", nil), 42); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	r := httptest.NewRequest(http.MethodGet, "/api/groups", nil)
	for _, c := range loginW.Result().Cookies() {
		r.AddCookie(c)
	}
	w := httptest.NewRecorder()
	Session(store)(RequireUser(echoUser(t))).ServeHTTP(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestDevUserHeader(t *testing.T) {
	tests := []struct {
		header string
		want   int
	}{
		{"7", http.StatusOK},
		{"", http.StatusTeapot},
		{"abc", http.StatusTeapot},
		{"-1", http.StatusTeapot},
	}

	for _, tt := range tests {
		t.Run("header="+tt.header, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				r.Header.Set("X-Dev-User-ID", tt.header)
			}
			w := httptest.NewRecorder()
			DevUserHeader(echoUser(t)).ServeHTTP(w, r)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}
