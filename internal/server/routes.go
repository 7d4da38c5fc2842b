// AngelaMos | 2026
// routes.go

package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/bookstore-api/internal/middleware"
)

// RouteRegistrar mounts a resource's routes. Handlers wrap the routes that
// need a caller with authenticator themselves.
type RouteRegistrar interface {
	RegisterRoutes(r chi.Router, authenticator func(http.Handler) http.Handler)
}

// AdminRegistrar mounts routes that are only reachable by an ADMIN.
type AdminRegistrar interface {
	RegisterAdminRoutes(r chi.Router)
}

type APIRoutes struct {
	Authenticator func(http.Handler) http.Handler
	Resources     []RouteRegistrar
	Admin         []AdminRegistrar
}

// MountAPI registers every resource and puts all admin routes behind one
// /admin subrouter that authenticates first and then requires ADMIN, so an
// inactive account is reported as such before its role is looked at.
func MountAPI(r chi.Router, routes APIRoutes) {
	for _, res := range routes.Resources {
		res.RegisterRoutes(r, routes.Authenticator)
	}

	r.Route("/admin", func(r chi.Router) {
		r.Use(routes.Authenticator)
		r.Use(middleware.RequireAdmin)

		for _, adm := range routes.Admin {
			adm.RegisterAdminRoutes(r)
		}
	})
}
