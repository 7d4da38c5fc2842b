// AngelaMos | 2026
// handler_test.go

package book

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/bookstore-api/internal/core"
	"github.com/carterperez-dev/bookstore-api/internal/middleware"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code string `json:"code"`
	} `json:"error"`
}

func as(identity core.Identity) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(middleware.WithIdentity(r.Context(), identity)))
		})
	}
}

func adminRouter(repo Repository) http.Handler {
	h := NewHandler(NewService(repo), core.Pager{DefaultSize: 10, MaxSize: 50})

	r := chi.NewRouter()
	r.Route("/admin", func(r chi.Router) {
		r.Use(as(admin))
		h.RegisterAdminRoutes(r)
	})
	h.RegisterRoutes(r, as(reader))
	return r
}

func send(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

func TestCreateBookWithShortISBN(t *testing.T) {
	repo := newFakeRepo()
	router := adminRouter(repo)

	rec, env := send(t, router, http.MethodPost, "/admin/books",
		`{"isbn":"123","title":"X","price":1000}`)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.True(t, env.Success)

	var created BookResponse
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "123", created.ISBN)
	assert.Equal(t, "X", created.Title)
	assert.Equal(t, 1000, created.Price)
	assert.True(t, core.ValidID(created.ID))

	stored, err := repo.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "123", stored.ISBN)

	rec, env = send(t, router, http.MethodGet, "/books/"+created.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
}

func TestCreateBookValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
		code string
	}{
		{
			name: "isbn over thirty characters",
			body: `{"isbn":"` + strings.Repeat("9", 31) + `","title":"X","price":1}`,
			code: "VALIDATION_FAILED",
		},
		{name: "missing isbn", body: `{"title":"X","price":1}`, code: "VALIDATION_FAILED"},
		{name: "missing price", body: `{"isbn":"1","title":"X"}`, code: "VALIDATION_FAILED"},
		{name: "negative price", body: `{"isbn":"1","title":"X","price":-1}`, code: "VALIDATION_FAILED"},
		{name: "malformed body", body: `{"isbn":`, code: "INVALID_INPUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeRepo()
			rec, env := send(t, adminRouter(repo), http.MethodPost, "/admin/books", tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.False(t, env.Success)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.code, env.Error.Code)
			assert.Empty(t, repo.books)
		})
	}
}

func TestCreateBookDuplicateISBN(t *testing.T) {
	router := adminRouter(newFakeRepo())
	body := `{"isbn":"123","title":"X","price":1000}`

	rec, _ := send(t, router, http.MethodPost, "/admin/books", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, env := send(t, router, http.MethodPost, "/admin/books", body)
	assert.Equal(t, http.StatusConflict, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "DUPLICATE_RESOURCE", env.Error.Code)
}

func TestUpdateBookAcceptsShortISBN(t *testing.T) {
	repo := newFakeRepo(catalogue(1)...)
	router := adminRouter(repo)

	rec, env := send(t, router, http.MethodPatch, "/admin/books/"+bookID(1), `{"isbn":"42"}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated BookResponse
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, "42", updated.ISBN)
}
