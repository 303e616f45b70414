package api

import (
	"encoding/json"
	"net/http"

	"github.com/shaiso/stencil/internal/domain"
)

// ListStyles возвращает список всех стилей.
// GET /api/v1/styles
func (h *Handler) ListStyles(w http.ResponseWriter, r *http.Request) {
	styles, err := h.styleRepo.List(r.Context())
	if err != nil {
		InternalError(w, h.logger, err)
		return
	}

	result := make([]StyleResponse, len(styles))
	for i, s := range styles {
		result[i] = StyleFromDomain(s)
	}

	List(w, result, len(result))
}

// GetStyle возвращает стиль по имени.
// GET /api/v1/styles/{name}
func (h *Handler) GetStyle(w http.ResponseWriter, r *http.Request) {
	style, err := h.styleRepo.GetByName(r.Context(), r.PathValue("name"))
	if HandleRepoError(w, h.logger, err, "style not found") {
		return
	}

	Success(w, StyleFromDomain(*style))
}

// UpsertStyle создаёт или обновляет стиль.
// PUT /api/v1/styles/{name}
func (h *Handler) UpsertStyle(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	var req UpsertStyleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	style := &domain.Style{
		Name:      name,
		Pre:       req.Pre,
		Post:      req.Post,
		IsDefault: req.IsDefault,
	}

	if err := h.styleRepo.Upsert(r.Context(), style); err != nil {
		InternalError(w, h.logger, err)
		return
	}

	Success(w, StyleFromDomain(*style))
}

// DeleteStyle удаляет стиль.
// DELETE /api/v1/styles/{name}
func (h *Handler) DeleteStyle(w http.ResponseWriter, r *http.Request) {
	if err := h.styleRepo.Delete(r.Context(), r.PathValue("name")); err != nil {
		HandleRepoError(w, h.logger, err, "style not found")
		return
	}

	NoContent(w)
}

// SetDefaultStyle делает стиль стилем по умолчанию.
// PUT /api/v1/styles/{name}/default
func (h *Handler) SetDefaultStyle(w http.ResponseWriter, r *http.Request) {
	if err := h.styleRepo.SetDefault(r.Context(), r.PathValue("name")); err != nil {
		HandleRepoError(w, h.logger, err, "style not found")
		return
	}

	NoContent(w)
}
