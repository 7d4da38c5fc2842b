// AngelaMos | 2026
// handler.go

package comment

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
	r.Route("/comments", func(r chi.Router) {
		r.Use(authenticator)

		r.Post("/", h.Create)
		r.Get("/", h.ListByBook)
		r.Patch("/{commentID}", h.Update)
		r.Delete("/{commentID}", h.Delete)
	})
}

// RegisterAdminRoutes expects r to already enforce the ADMIN role.
func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/users/{userID}/comments", h.ListByUser)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.ValidationFailed(w, err)
		return
	}

	actor, _ := middleware.GetIdentity(r.Context())
	comment, err := h.service.Create(r.Context(), actor, req.BookID, req.Content)
	if err != nil {
		core.HandleError(w, r, err)
		return
	}

	core.Created(w, ToCommentResponse(comment))
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

	result, err := h.service.ListByBook(
		r.Context(),
		bookID,
		page,
		core.ParseSort(r),
		r.URL.Query().Get("keyword"),
	)
	if err != nil {
		core.HandleError(w, r, err)
		return
	}

	core.Paginated(w, ToCommentResponseList(result.Items), result.Page, result.Size, result.Total)
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

	core.Paginated(w, ToCommentResponseList(result.Items), result.Page, result.Size, result.Total)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.ValidationFailed(w, err)
		return
	}

	actor, _ := middleware.GetIdentity(r.Context())
	comment, err := h.service.Update(r.Context(), actor, chi.URLParam(r, "commentID"), req.Content)
	if err != nil {
		core.HandleError(w, r, err)
		return
	}

	core.OK(w, ToCommentResponse(comment))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetIdentity(r.Context())
	if err := h.service.Delete(r.Context(), actor, chi.URLParam(r, "commentID")); err != nil {
		core.HandleError(w, r, err)
		return
	}

	core.NoContent(w)
}
