package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shaiso/stencil/internal/engine"
)

// ListPlaceholders возвращает каталог имён плейсхолдеров.
// GET /api/v1/placeholders
func (h *Handler) ListPlaceholders(w http.ResponseWriter, r *http.Request) {
	catalog, err := h.placeholderRepo.Load(r.Context())
	if err != nil {
		InternalError(w, h.logger, err)
		return
	}

	Success(w, PlaceholdersResponse{Names: catalog.Names()})
}

// AddPlaceholder добавляет имя в каталог.
// POST /api/v1/placeholders
func (h *Handler) AddPlaceholder(w http.ResponseWriter, r *http.Request) {
	var req AddPlaceholderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	catalog, err := h.placeholderRepo.Load(r.Context())
	if err != nil {
		InternalError(w, h.logger, err)
		return
	}

	if err := catalog.Add(req.Name); err != nil {
		switch {
		case errors.Is(err, engine.ErrEmptyName):
			BadRequest(w, err.Error())
		case errors.Is(err, engine.ErrDuplicateName):
			Conflict(w, err.Error())
		default:
			InternalError(w, h.logger, err)
		}
		return
	}

	if err := h.placeholderRepo.Save(r.Context(), catalog); err != nil {
		InternalError(w, h.logger, err)
		return
	}

	Created(w, PlaceholdersResponse{Names: catalog.Names()})
}

// RemovePlaceholder удаляет имя из каталога.
// DELETE /api/v1/placeholders/{name}
//
// Поля всех workflow, привязанные к имени, отвязываются и возвращаются
// к литеральному значению до удаления имени из каталога.
func (h *Handler) RemovePlaceholder(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	catalog, err := h.placeholderRepo.Load(r.Context())
	if err != nil {
		InternalError(w, h.logger, err)
		return
	}

	if !catalog.Contains(name) {
		NotFound(w, engine.ErrUnknownName.Error())
		return
	}

	h.unbindEverywhere(r.Context(), name, catalog)

	if err := catalog.Remove(name); err != nil {
		InternalError(w, h.logger, err)
		return
	}

	if err := h.placeholderRepo.Save(r.Context(), catalog); err != nil {
		InternalError(w, h.logger, err)
		return
	}

	NoContent(w)
}

// unbindEverywhere отвязывает имя во всех workflow.
// Отвязка — best effort: проблемный workflow логируется и пропускается,
// удаление имени из каталога не отменяется.
func (h *Handler) unbindEverywhere(ctx context.Context, name string, catalog *engine.Catalog) {
	workflows, err := h.workflowRepo.List(ctx)
	if err != nil {
		h.logger.Error("failed to list workflows for unbind", "placeholder", name, "error", err)
		return
	}

	for _, item := range workflows {
		wf, err := h.workflowRepo.GetByName(ctx, item.Name)
		if err != nil {
			h.logger.Warn("unbind skipped", "workflow", item.Name, "error", err)
			continue
		}

		settings, err := h.settingsRepo.Get(ctx, wf.Name)
		if err != nil {
			h.logger.Warn("unbind skipped", "workflow", wf.Name, "error", err)
			continue
		}

		doc, err := engine.ParseDocument(wf.Document)
		if err != nil {
			h.logger.Warn("unbind skipped", "workflow", wf.Name, "error", err)
			continue
		}

		fields := engine.ExtractFields(doc, settings, catalog)
		bound := false
		for i := range fields {
			if fields[i].Placeholder == name {
				bound = true
				break
			}
		}
		if !bound {
			continue
		}

		fields = engine.UnbindPlaceholder(fields, name)

		result, errs := engine.Reconcile(doc, fields, settings)
		if len(errs) > 0 {
			h.logger.Warn("unbind skipped", "workflow", wf.Name, "error", errors.Join(errs...))
			continue
		}

		document, err := result.Document.MarshalJSON()
		if err != nil {
			h.logger.Warn("unbind skipped", "workflow", wf.Name, "error", err)
			continue
		}

		if err := h.workflowRepo.UpdateDocument(ctx, wf.Name, document); err != nil {
			h.logger.Warn("unbind skipped", "workflow", wf.Name, "error", err)
			continue
		}
		if err := h.settingsRepo.Save(ctx, wf.Name, result.Settings); err != nil {
			h.logger.Warn("unbind partially applied", "workflow", wf.Name, "error", err)
			continue
		}

		h.logger.Info("placeholder unbound", "placeholder", name, "workflow", wf.Name)
	}
}
