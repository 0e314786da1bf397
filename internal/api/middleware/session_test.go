package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/vamilabs/labrecords-api/internal/core/domain"
)

type stubStore struct {
	sessions map[string]*domain.Session
}

func (s *stubStore) Create(user *domain.User) (string, error) { return "", nil }

func (s *stubStore) Resolve(token string) *domain.Session {
	return s.sessions[token]
}

func (s *stubStore) Destroy(token string) { delete(s.sessions, token) }
func (s *stubStore) Active() int          { return len(s.sessions) }

func storeWith(token string, sess *domain.Session) *stubStore {
	return &stubStore{sessions: map[string]*domain.Session{token: sess}}
}

func TestSessionMiddleware_ValidCookie(t *testing.T) {
	e := echo.New()
	store := storeWith("tok-1", &domain.Session{
		Token:    "tok-1",
		UserID:   7,
		Username: "ana",
		Role:     domain.RoleLabWorker,
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "tok-1"})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Session(store)(func(c echo.Context) error {
		called = true
		if c.Get("username") != "ana" {
			t.Fatalf("username not set")
		}
		if c.Get("role") != domain.RoleLabWorker {
			t.Fatalf("role not set")
		}
		if c.Get("user_id") != int64(7) {
			t.Fatalf("user_id not set")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatal("next not called")
	}
}

func TestSessionMiddleware_NoCookie(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Session(&stubStore{sessions: map[string]*domain.Session{}})(func(c echo.Context) error {
		t.Fatal("should not reach next")
		return nil
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestSessionMiddleware_UnknownToken(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "expired-or-bogus"})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Session(&stubStore{sessions: map[string]*domain.Session{}})(func(c echo.Context) error {
		t.Fatal("should not reach next")
		return nil
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
