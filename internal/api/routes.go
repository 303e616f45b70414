package api

import (
	"net/http"
)

// RegisterRoutes регистрирует все маршруты API.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Middleware chain
	chain := Chain(
		Recovery(h.logger),
		Logging(h.logger),
	)

	// Workflows
	mux.Handle("GET /api/v1/workflows", chain(http.HandlerFunc(h.ListWorkflows)))
	mux.Handle("POST /api/v1/workflows", chain(http.HandlerFunc(h.CreateWorkflow)))
	mux.Handle("GET /api/v1/workflows/{name}", chain(http.HandlerFunc(h.GetWorkflow)))
	mux.Handle("PUT /api/v1/workflows/{name}", chain(http.HandlerFunc(h.UpdateWorkflow)))
	mux.Handle("DELETE /api/v1/workflows/{name}", chain(http.HandlerFunc(h.DeleteWorkflow)))
	mux.Handle("POST /api/v1/workflows/{name}/reset", chain(http.HandlerFunc(h.ResetWorkflow)))

	// Fields & settings
	mux.Handle("GET /api/v1/workflows/{name}/fields", chain(http.HandlerFunc(h.GetFields)))
	mux.Handle("PUT /api/v1/workflows/{name}/fields", chain(http.HandlerFunc(h.SaveFields)))
	mux.Handle("GET /api/v1/workflows/{name}/settings", chain(http.HandlerFunc(h.GetSettings)))
	mux.Handle("DELETE /api/v1/workflows/{name}/settings", chain(http.HandlerFunc(h.DeleteSettings)))

	// Render
	mux.Handle("POST /api/v1/workflows/{name}/render", chain(http.HandlerFunc(h.RenderWorkflow)))

	// Placeholders
	mux.Handle("GET /api/v1/placeholders", chain(http.HandlerFunc(h.ListPlaceholders)))
	mux.Handle("POST /api/v1/placeholders", chain(http.HandlerFunc(h.AddPlaceholder)))
	mux.Handle("DELETE /api/v1/placeholders/{name}", chain(http.HandlerFunc(h.RemovePlaceholder)))

	// Styles
	mux.Handle("GET /api/v1/styles", chain(http.HandlerFunc(h.ListStyles)))
	mux.Handle("GET /api/v1/styles/{name}", chain(http.HandlerFunc(h.GetStyle)))
	mux.Handle("PUT /api/v1/styles/{name}", chain(http.HandlerFunc(h.UpsertStyle)))
	mux.Handle("DELETE /api/v1/styles/{name}", chain(http.HandlerFunc(h.DeleteStyle)))
	mux.Handle("PUT /api/v1/styles/{name}/default", chain(http.HandlerFunc(h.SetDefaultStyle)))

	// Jobs
	mux.Handle("GET /api/v1/jobs", chain(http.HandlerFunc(h.ListJobs)))
	mux.Handle("POST /api/v1/jobs", chain(http.HandlerFunc(h.CreateJob)))
	mux.Handle("GET /api/v1/jobs/{id}", chain(http.HandlerFunc(h.GetJob)))
	mux.Handle("GET /api/v1/jobs/{id}/image", chain(http.HandlerFunc(h.GetJobImage)))
}
