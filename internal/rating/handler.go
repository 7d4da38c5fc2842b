// AngelaMos | 2026
// handler.go

package rating

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/bookstore-api/internal/core"
	"github.com/carterperez-dev/bookstore-api/internal/middleware"
)

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
	r.Route("/ratings", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.ListByBook)
		r.Get("/summary/{bookID}", h.Summary)
		r.Post("/{bookID}", h.Create)
		r.Patch("/{bookID}", h.Update)
		r.Delete("/{bookID}", h.Delete)
	})
}

// RegisterAdminRoutes expects r to already enforce the ADMIN role.
func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/users/{userID}/ratings", h.ListByUser)
}

func (h *Handler) decodeScore(w http.ResponseWriter, r *http.Request) (int, bool) {
	var req ScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return 0, false
	}

	if err := h.validator.Struct(req); err != nil {
		core.ValidationFailed(w, err)
		return 0, false
	}

	return *req.Score, true
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	score, ok := h.decodeScore(w, r)
	if !ok {
		return
	}

	actor, _ := middleware.GetIdentity(r.Context())
	rating, err := h.service.Create(r.Context(), actor, chi.URLParam(r, "bookID"), score)
	if err != nil {
		core.HandleError(w, r, err)
		return
	}

	core.Created(w, ToRatingResponse(rating))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	score, ok := h.decodeScore(w, r)
	if !ok {
		return
	}

	actor, _ := middleware.GetIdentity(r.Context())
	rating, err := h.service.Update(r.Context(), actor, chi.URLParam(r, "bookID"), score)
	if err != nil {
		core.HandleError(w, r, err)
		return
	}

	core.OK(w, ToRatingResponse(rating))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetIdentity(r.Context())
	if err := h.service.Delete(r.Context(), actor, chi.URLParam(r, "bookID")); err != nil {
		core.HandleError(w, r, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) ListByBook(w http.ResponseWriter, r *http.Request) {
	bookID := r.URL.Query().Get("book_id")
	if bookID == "" {
		core.BadRequest(w, "book_id is required")
		return
	}

	page, err := h.pager.ParsePage(r)
	if err != nil {
		core.HandleError(w, r, err)
		return
	}

	minScore, err := core.QueryOptionalInt(r, "min_score")
	if err != nil {
		core.HandleError(w, r, err)
		return
	}
	maxScore, err := core.QueryOptionalInt(r, "max_score")
	if err != nil {
		core.HandleError(w, r, err)
		return
	}

	result, err := h.service.ListByBook(
		r.Context(),
		bookID,
		page,
		core.ParseSort(r),
		minScore,
		maxScore,
	)
	if err != nil {
		core.HandleError(w, r, err)
		return
	}

	core.Paginated(w, ToRatingResponseList(result.Items), result.Page, result.Size, result.Total)
}

func (h *Handler) ListByUser(w http.ResponseWriter, r *http.Request) {
	page, err := h.pager.ParsePage(r)
	if err != nil {
		core.HandleError(w, r, err)
		return
	}

	actor, _ := middleware.GetIdentity(r.Context())
	result, err := h.service.ListByUser(r.Context(), actor, chi.URLParam(r, "userID"), page)
	if err != nil {
		core.HandleError(w, r, err)
		return
	}

	core.Paginated(w, ToRatingResponseList(result.Items), result.Page, result.Size, result.Total)
}

func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Summary(r.Context(), chi.URLParam(r, "bookID"))
	if err != nil {
		core.HandleError(w, r, err)
		return
	}

	core.OK(w, stats)
}
