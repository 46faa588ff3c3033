package chi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/pfin/internal/db/memory"
	"github.com/kailas-cloud/pfin/internal/domain/search/limit"
	imagerepo "github.com/kailas-cloud/pfin/internal/repository/image"
	userrepo "github.com/kailas-cloud/pfin/internal/repository/user"
	"github.com/kailas-cloud/pfin/internal/session"
	authuc "github.com/kailas-cloud/pfin/internal/usecase/auth"
	galleryuc "github.com/kailas-cloud/pfin/internal/usecase/gallery"
	healthuc "github.com/kailas-cloud/pfin/internal/usecase/health"
	usersuc "github.com/kailas-cloud/pfin/internal/usecase/users"
)

const (
	testDB     = "portal"
	testSalt   = "pepper"
	testCookie = "sid"
)

type fixture struct {
	router   http.Handler
	sessions *session.Store
}

func seedStore(t *testing.T) *memory.Store {
	t.Helper()
	store := memory.NewStore()
	store.CreateCollection(testDB, "images")
	store.CreateCollection(testDB, "users")

	store.Insert(testDB, "images",
		map[string]any{"_id": "i1", "fields": map[string]any{
			"id": "cat01", "extension": "jpg", "type": "PassionFroid", "human_in": true,
			"format": true, "credits": "Studio Nord", "usage_end": int64(2000), "tags": []any{"cat", "summer"},
		}},
		map[string]any{"_id": "i2", "fields": map[string]any{
			"id": "dog01", "extension": "png", "type": "Logo", "human_in": false,
			"credits": "Agence Sud", "usage_end": int64(500), "tags": []any{"dog"},
		}},
		map[string]any{"_id": "i3", "fields": map[string]any{
			"id": "cat02", "extension": "jpg", "type": "Fournisseur", "human_in": false,
			"tags": []any{"cat", "(a+b)*"},
		}},
	)

	hash := func(pw string) string { return authuc.Hash(pw, []byte(testSalt)) }
	store.Insert(testDB, "users",
		map[string]any{"_id": "u1", "name": "Gus", "email": "guest@pf.fr", "password": hash("g"), "group": "guest"},
		map[string]any{"_id": "u2", "name": "Nat", "email": "nat@pf.fr", "password": hash("n"), "group": "national"},
	)
	return store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := seedStore(t)
	ctx := context.Background()

	images, err := store.Collection(ctx, testDB, "images")
	if err != nil {
		t.Fatalf("images collection: %v", err)
	}
	usersColl, err := store.Collection(ctx, testDB, "users")
	if err != nil {
		t.Fatalf("users collection: %v", err)
	}

	userRepo := userrepo.New(usersColl)
	sessions := session.NewStore(time.Hour)
	srv := NewServer(
		galleryuc.New(imagerepo.New(images), limit.Policy{Default: 10, Max: 50}),
		usersuc.New(userRepo, limit.Policy{}),
		authuc.New(userRepo, []byte(testSalt)),
		healthuc.New(store).WithCheck("sessions", sessions),
		sessions,
		CookieConfig{Name: testCookie},
		zap.NewNop(),
	)

	r := chi.NewRouter()
	r.Use(SessionMiddleware(sessions, CookieConfig{Name: testCookie}))
	srv.Routes(r)
	return &fixture{router: r, sessions: sessions}
}

func (f *fixture) do(req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)
	return rr
}

func (f *fixture) login(t *testing.T, email, password string) *httptest.ResponseRecorder {
	t.Helper()
	form := url.Values{"email": {email}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return f.do(req)
}

// sessionCookie logs in and returns the issued cookie.
func (f *fixture) sessionCookie(t *testing.T, email, password string) *http.Cookie {
	t.Helper()
	rr := f.login(t, email, password)
	if rr.Code != http.StatusOK {
		t.Fatalf("login %s: got %d: %s", email, rr.Code, rr.Body.String())
	}
	for _, c := range rr.Result().Cookies() {
		if c.Name == testCookie {
			return c
		}
	}
	t.Fatal("no session cookie issued")
	return nil
}

func (f *fixture) get(path string, c *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, http.NoBody)
	if c != nil {
		req.AddCookie(c)
	}
	return f.do(req)
}
