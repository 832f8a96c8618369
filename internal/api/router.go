package api

import (
	"context"
	"net/http"

	"github.com/julienschmidt/httprouter"

	apiContext "orghub/internal/api/context"
	"orghub/internal/api/handlers"
	"orghub/internal/api/middleware"
)

type Dependencies struct {
	OrgHandler     *handlers.OrgHandler
	AuthHandler    *handlers.AuthHandler
	HealthHandler  *handlers.HealthHandler
	AuthMiddleware *middleware.AuthMiddleware
}

func NewRouter(deps *Dependencies) *httprouter.Router {
	router := httprouter.New()

	router.GET("/", wrap(handlers.Index))
	router.GET("/healthz", wrap(deps.HealthHandler.Check))

	router.POST("/api/v1/auth/login", wrap(deps.AuthHandler.Login))

	router.POST("/api/v1/orgs", wrap(deps.OrgHandler.Create))
	router.GET("/api/v1/orgs", wrap(deps.OrgHandler.Get))
	router.PUT("/api/v1/orgs", wrap(deps.OrgHandler.Update))
	router.DELETE("/api/v1/orgs",
		chain(deps.OrgHandler.Delete, deps.AuthMiddleware.Handle))

	return router
}

// Helper function to chain middlewares
func chain(handler http.HandlerFunc, middlewares ...func(http.HandlerFunc) http.HandlerFunc) httprouter.Handle {
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}
	return wrap(handler)
}

// Convert http.HandlerFunc to httprouter.Handle
func wrap(handler http.HandlerFunc) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		ctx := context.WithValue(r.Context(), apiContext.Params, ps)
		handler(w, r.WithContext(ctx))
	}
}
