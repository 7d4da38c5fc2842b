// AngelaMos | 2026
// handler.go

package user

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
	r.Route("/users", func(r chi.Router) {
		r.Post("/", h.Register)

		r.Group(func(r chi.Router) {
			r.Use(authenticator)

			r.Get("/me", h.GetMe)
			r.Patch("/me", h.UpdateMe)
			r.Delete("/me", h.DeleteMe)
		})
	})
}

// RegisterAdminRoutes expects r to already enforce the ADMIN role.
func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/users", h.ListUsers)
	r.Get("/users/{userID}", h.GetUser)
	r.Patch("/users/{userID}/status", h.UpdateUserStatus)
	r.Patch("/users/{userID}/role", h.UpdateUserRole)
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.ValidationFailed(w, err)
		return
	}

	user, err := h.service.Register(r.Context(), req)
	if err != nil {
		core.HandleError(w, r, err)
		return
	}

	core.Created(w, ToUserResponse(user))
}

func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.GetMe(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		core.HandleError(w, r, err)
		return
	}

	core.OK(w, ToUserResponse(user))
}

func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var req UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.ValidationFailed(w, err)
		return
	}

	user, err := h.service.UpdateMe(
		r.Context(),
		middleware.GetUserID(r.Context()),
		req,
	)
	if err != nil {
		core.HandleError(w, r, err)
		return
	}

	core.OK(w, ToUserResponse(user))
}

func (h *Handler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteMe(r.Context(), middleware.GetUserID(r.Context())); err != nil {
		core.HandleError(w, r, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	page, err := h.pager.ParsePage(r)
	if err != nil {
		core.HandleError(w, r, err)
		return
	}

	q := r.URL.Query()
	params := ListUsersParams{
		PageParams: page,
		Search:     q.Get("search"),
		Role:       core.Role(q.Get("role")),
		Status:     core.Status(q.Get("status")),
	}

	users, total, err := h.service.ListUsers(r.Context(), params)
	if err != nil {
		core.HandleError(w, r, err)
		return
	}

	core.Paginated(w, ToUserResponseList(users), page.Page, page.Size, total)
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.GetUser(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		core.HandleError(w, r, err)
		return
	}

	core.OK(w, ToUserResponse(user))
}

func (h *Handler) UpdateUserStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateUserStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.ValidationFailed(w, err)
		return
	}

	actor, _ := middleware.GetIdentity(r.Context())
	user, err := h.service.UpdateUserStatus(
		r.Context(),
		actor,
		chi.URLParam(r, "userID"),
		core.Status(req.Status),
	)
	if err != nil {
		core.HandleError(w, r, err)
		return
	}

	core.OK(w, ToUserResponse(user))
}

func (h *Handler) UpdateUserRole(w http.ResponseWriter, r *http.Request) {
	var req UpdateUserRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.ValidationFailed(w, err)
		return
	}

	actor, _ := middleware.GetIdentity(r.Context())
	user, err := h.service.UpdateUserRole(
		r.Context(),
		actor,
		chi.URLParam(r, "userID"),
		core.Role(req.Role),
	)
	if err != nil {
		core.HandleError(w, r, err)
		return
	}

	core.OK(w, ToUserResponse(user))
}
