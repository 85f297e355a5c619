package api

import (
	"foodcart-service/internal/api/handlers"
	"foodcart-service/internal/ports"
	"net/http"
)

// Dependencies holds what the HTTP layer needs; handlers stay unaware of
// concrete adapters.
type Dependencies struct {
	Catalog     ports.CatalogRepository
	Intake      handlers.OrderRegistrar
	Assignments handlers.AssignmentLister
	StaticURL   string
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
func NewRouter(deps Dependencies) http.Handler {
	mux := http.NewServeMux()

	catalogHandler := &handlers.CatalogHandler{Repo: deps.Catalog, StaticURL: deps.StaticURL}
	orderHandler := &handlers.OrderHandler{Intake: deps.Intake}
	assignmentHandler := &handlers.AssignmentHandler{Service: deps.Assignments}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/api/banners", catalogHandler.Banners)
	mux.HandleFunc("/api/products", catalogHandler.Products)
	mux.HandleFunc("/api/order", orderHandler.Register)
	mux.HandleFunc("/api/assignments", assignmentHandler.List)

	return requestIDMiddleware(loggingMiddleware(mux))
}
