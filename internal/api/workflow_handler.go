package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/shaiso/stencil/internal/domain"
	"github.com/shaiso/stencil/internal/engine"
	"github.com/shaiso/stencil/internal/telemetry"
)

// ListWorkflows возвращает список всех workflow.
// GET /api/v1/workflows
func (h *Handler) ListWorkflows(w http.ResponseWriter, r *http.Request) {
	workflows, err := h.workflowRepo.List(r.Context())
	if HandleRepoError(w, h.logger, err, "") {
		return
	}

	result := make([]WorkflowResponse, len(workflows))
	for i, wf := range workflows {
		result[i] = WorkflowFromDomain(wf, false)
	}

	List(w, result, len(result))
}

// CreateWorkflow загружает новый workflow-документ.
// POST /api/v1/workflows
func (h *Handler) CreateWorkflow(w http.ResponseWriter, r *http.Request) {
	var req CreateWorkflowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	if req.Name == "" {
		BadRequest(w, "name is required")
		return
	}
	if len(req.Document) == 0 {
		BadRequest(w, "document is required")
		return
	}

	// Документ обязан разбираться уже при загрузке.
	if _, err := engine.ParseDocument(req.Document); err != nil {
		BadRequest(w, "invalid document: "+err.Error())
		return
	}

	wf := &domain.Workflow{
		Name:      req.Name,
		Document:  req.Document,
		Original:  req.Document,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := h.workflowRepo.Create(r.Context(), wf); err != nil {
		HandleRepoError(w, h.logger, err, "")
		return
	}

	Created(w, WorkflowFromDomain(*wf, false))
}

// GetWorkflow возвращает workflow с документом.
// GET /api/v1/workflows/{name}
func (h *Handler) GetWorkflow(w http.ResponseWriter, r *http.Request) {
	wf, err := h.workflowRepo.GetByName(r.Context(), r.PathValue("name"))
	if HandleRepoError(w, h.logger, err, "workflow not found") {
		return
	}

	Success(w, WorkflowFromDomain(*wf, true))
}

// UpdateWorkflow заменяет документ workflow.
// PUT /api/v1/workflows/{name}
func (h *Handler) UpdateWorkflow(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	var req UpdateWorkflowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}
	if len(req.Document) == 0 {
		BadRequest(w, "document is required")
		return
	}

	if _, err := engine.ParseDocument(req.Document); err != nil {
		BadRequest(w, "invalid document: "+err.Error())
		return
	}

	if err := h.workflowRepo.UpdateDocument(r.Context(), name, req.Document); err != nil {
		HandleRepoError(w, h.logger, err, "workflow not found")
		return
	}

	wf, err := h.workflowRepo.GetByName(r.Context(), name)
	if HandleRepoError(w, h.logger, err, "workflow not found") {
		return
	}

	Success(w, WorkflowFromDomain(*wf, false))
}

// DeleteWorkflow удаляет workflow вместе с настройками.
// DELETE /api/v1/workflows/{name}
func (h *Handler) DeleteWorkflow(w http.ResponseWriter, r *http.Request) {
	if err := h.workflowRepo.Delete(r.Context(), r.PathValue("name")); err != nil {
		HandleRepoError(w, h.logger, err, "workflow not found")
		return
	}

	NoContent(w)
}

// ResetWorkflow возвращает документ к оригиналу и сбрасывает настройки.
// POST /api/v1/workflows/{name}/reset
func (h *Handler) ResetWorkflow(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	if err := h.workflowRepo.ResetDocument(r.Context(), name); err != nil {
		HandleRepoError(w, h.logger, err, "workflow not found")
		return
	}
	if err := h.settingsRepo.Delete(r.Context(), name); err != nil {
		InternalError(w, h.logger, err)
		return
	}

	NoContent(w)
}

// GetFields возвращает редактируемые поля workflow.
// GET /api/v1/workflows/{name}/fields
func (h *Handler) GetFields(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	wf, err := h.workflowRepo.GetByName(r.Context(), name)
	if HandleRepoError(w, h.logger, err, "workflow not found") {
		return
	}

	settings, err := h.settingsRepo.Get(r.Context(), name)
	if err != nil {
		InternalError(w, h.logger, err)
		return
	}

	catalog, err := h.placeholderRepo.Load(r.Context())
	if err != nil {
		InternalError(w, h.logger, err)
		return
	}

	doc, err := engine.ParseDocument(wf.Document)
	if err != nil {
		InternalError(w, h.logger, err)
		return
	}

	fields := engine.ExtractFields(doc, settings, catalog)
	Success(w, FieldsResponse{Fields: fields})
}

// SaveFields сохраняет конфигурацию полей.
// PUT /api/v1/workflows/{name}/fields
//
// Сохранение атомарно: при любой ошибке согласования ни документ,
// ни настройки не меняются.
func (h *Handler) SaveFields(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	var req SaveFieldsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	wf, err := h.workflowRepo.GetByName(r.Context(), name)
	if HandleRepoError(w, h.logger, err, "workflow not found") {
		return
	}

	doc, err := engine.ParseDocument(wf.Document)
	if err != nil {
		InternalError(w, h.logger, err)
		return
	}

	prev, err := h.settingsRepo.Get(r.Context(), name)
	if err != nil {
		InternalError(w, h.logger, err)
		return
	}

	result, errs := engine.Reconcile(doc, req.Fields, prev)
	if len(errs) > 0 {
		details := make([]string, len(errs))
		for i, e := range errs {
			details[i] = e.Error()
		}

		var vErr *engine.ValidationError
		if errors.As(errs[0], &vErr) {
			ValidationFailed(w, vErr.Message, nil)
			return
		}
		ValidationFailed(w, "field values are invalid", details)
		return
	}

	document, err := result.Document.MarshalJSON()
	if err != nil {
		InternalError(w, h.logger, err)
		return
	}

	if err := h.workflowRepo.UpdateDocument(r.Context(), name, document); err != nil {
		HandleRepoError(w, h.logger, err, "workflow not found")
		return
	}
	if err := h.settingsRepo.Save(r.Context(), name, result.Settings); err != nil {
		InternalError(w, h.logger, err)
		return
	}

	Success(w, FieldsResponse{Fields: result.Fields})
}

// GetSettings возвращает сохранённые настройки workflow.
// GET /api/v1/workflows/{name}/settings
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settingsRepo.Get(r.Context(), r.PathValue("name"))
	if err != nil {
		InternalError(w, h.logger, err)
		return
	}

	Success(w, settings)
}

// DeleteSettings удаляет настройки workflow.
// DELETE /api/v1/workflows/{name}/settings
func (h *Handler) DeleteSettings(w http.ResponseWriter, r *http.Request) {
	if err := h.settingsRepo.Delete(r.Context(), r.PathValue("name")); err != nil {
		InternalError(w, h.logger, err)
		return
	}

	NoContent(w)
}

// RenderWorkflow рендерит документ с подстановкой плейсхолдеров.
// POST /api/v1/workflows/{name}/render
func (h *Handler) RenderWorkflow(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	var req RenderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	overrides := make(map[string]domain.Scalar, len(req.Overrides))
	for key, raw := range req.Overrides {
		value, ok := domain.ScalarFromJSON(raw)
		if !ok {
			BadRequest(w, "override "+key+" is not a scalar value")
			return
		}
		overrides[key] = value
	}

	wf, err := h.workflowRepo.GetByName(r.Context(), name)
	if HandleRepoError(w, h.logger, err, "workflow not found") {
		return
	}

	settings, err := h.settingsRepo.Get(r.Context(), name)
	if err != nil {
		InternalError(w, h.logger, err)
		return
	}

	catalog, err := h.placeholderRepo.Load(r.Context())
	if err != nil {
		InternalError(w, h.logger, err)
		return
	}

	doc, err := engine.ParseDocument(wf.Document)
	if err != nil {
		InternalError(w, h.logger, err)
		return
	}

	rendered, err := engine.RenderDocument(doc, overrides, settings, catalog)
	if err != nil {
		var rErr *engine.RenderError
		if errors.As(err, &rErr) {
			telemetry.RenderErrors.Inc()
			ValidationFailed(w, rErr.Error(), nil)
			return
		}
		InternalError(w, h.logger, err)
		return
	}

	Success(w, json.RawMessage(rendered))
}
