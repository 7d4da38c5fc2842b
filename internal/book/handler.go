// AngelaMos | 2026
// handler.go

package book

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/bookstore-api/internal/core"
	"github.com/carterperez-dev/bookstore-api/internal/middleware"
)

const defaultRankingLimit = 10

type Handler struct {
	service   *Service
	pager     core.Pager
	validator *validator.Validate
}

func NewHandler(service *Service, pager core.Pager) *Handler {
	return &Handler{
		service:   service,
		pager:     pager,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/books", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.List)
		r.Get("/top-rated", h.TopRated)
		r.Get("/most-commented", h.MostCommented)
		r.Get("/{bookID}", h.Get)
		r.Get("/{bookID}/stats", h.Stats)
	})
}

// RegisterAdminRoutes expects r to already enforce the ADMIN role.
func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Post("/books", h.Create)
	r.Patch("/books/{bookID}", h.Update)
	r.Delete("/books/{bookID}", h.Delete)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, err := h.pager.ParsePage(r)
	if err != nil {
		core.HandleError(w, r, err)
		return
	}

	minPrice, err := core.QueryOptionalInt(r, "min_price")
	if err != nil {
		core.HandleError(w, r, err)
		return
	}
	maxPrice, err := core.QueryOptionalInt(r, "max_price")
	if err != nil {
		core.HandleError(w, r, err)
		return
	}

	q := r.URL.Query()
	params := ListParams{
		PageParams: page,
		Search:     strings.TrimSpace(q.Get("search")),
		Category:   strings.TrimSpace(q.Get("category")),
		MinPrice:   minPrice,
		MaxPrice:   maxPrice,
		Sort:       q.Get("sort"),
		Order:      strings.ToLower(q.Get("order")),
	}

	result, err := h.service.List(r.Context(), params)
	if err != nil {
		core.HandleError(w, r, err)
		return
	}

	core.Paginated(
		w,
		ToBookResponseList(result.Items),
		result.Page,
		result.Size,
		result.Total,
	)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	book, err := h.service.Get(r.Context(), chi.URLParam(r, "bookID"))
	if err != nil {
		core.HandleError(w, r, err)
		return
	}

	core.OK(w, ToBookResponse(book))
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context(), chi.URLParam(r, "bookID"))
	if err != nil {
		core.HandleError(w, r, err)
		return
	}

	core.OK(w, stats)
}

func (h *Handler) TopRated(w http.ResponseWriter, r *http.Request) {
	limit, err := core.QueryInt(r, "limit", defaultRankingLimit)
	if err != nil {
		core.HandleError(w, r, err)
		return
	}

	books, err := h.service.TopRated(r.Context(), limit)
	if err != nil {
		core.HandleError(w, r, err)
		return
	}

	core.OK(w, ToRankedBookResponseList(books))
}

func (h *Handler) MostCommented(w http.ResponseWriter, r *http.Request) {
	limit, err := core.QueryInt(r, "limit", defaultRankingLimit)
	if err != nil {
		core.HandleError(w, r, err)
		return
	}

	books, err := h.service.MostCommented(r.Context(), limit)
	if err != nil {
		core.HandleError(w, r, err)
		return
	}

	core.OK(w, ToRankedBookResponseList(books))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.ValidationFailed(w, err)
		return
	}

	actor, _ := middleware.GetIdentity(r.Context())
	book, err := h.service.Create(r.Context(), actor, req)
	if err != nil {
		core.HandleError(w, r, err)
		return
	}

	core.Created(w, ToBookResponse(book))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.ValidationFailed(w, err)
		return
	}

	actor, _ := middleware.GetIdentity(r.Context())
	book, err := h.service.Update(r.Context(), actor, chi.URLParam(r, "bookID"), req)
	if err != nil {
		core.HandleError(w, r, err)
		return
	}

	core.OK(w, ToBookResponse(book))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetIdentity(r.Context())
	if err := h.service.Delete(r.Context(), actor, chi.URLParam(r, "bookID")); err != nil {
		core.HandleError(w, r, err)
		return
	}

	core.NoContent(w)
}
