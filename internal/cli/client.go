package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// --- Response types (дублируются из api/dto.go, CLI не импортирует internal/api) ---

// WorkflowResponse — workflow из API.
type WorkflowResponse struct {
	Name      string          `json:"name"`
	Document  json.RawMessage `json:"document,omitempty"`
	CreatedAt string          `json:"created_at"`
	UpdatedAt string          `json:"updated_at"`
}

// FieldResponse — редактируемое поле из API.
type FieldResponse struct {
	NodeID       string `json:"node_id"`
	NodeTitle    string `json:"node_title"`
	InputName    string `json:"input_name"`
	ClassType    string `json:"class_type"`
	Type         string `json:"type"`
	Placeholder  string `json:"placeholder"`
	StoredValue  string `json:"stored_value"`
	TextValue    string `json:"text_value"`
	Order        int    `json:"order"`
	IsPrimary    bool   `json:"is_primary"`
	DisplayTitle string `json:"display_title"`
}

// StyleResponse — стиль из API.
type StyleResponse struct {
	Name      string `json:"name"`
	Pre       string `json:"pre"`
	Post      string `json:"post"`
	IsDefault bool   `json:"is_default"`
}

// JobResponse — задание из API.
type JobResponse struct {
	ID         string `json:"id"`
	Workflow   string `json:"workflow"`
	Prompt     string `json:"prompt"`
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`
	Style      string `json:"style,omitempty"`
	Seed       *int64 `json:"seed,omitempty"`
	Status     string `json:"status"`
	Error      string `json:"error,omitempty"`
	ImagePath  string `json:"image_path,omitempty"`
	CreatedAt  string `json:"created_at"`
	StartedAt  string `json:"started_at,omitempty"`
	FinishedAt string `json:"finished_at,omitempty"`
}

// --- Request types ---

// CreateWorkflowRequest — загрузка workflow.
type CreateWorkflowRequest struct {
	Name     string          `json:"name"`
	Document json.RawMessage `json:"document"`
}

// UpsertStyleRequest — создание или обновление стиля.
type UpsertStyleRequest struct {
	Pre       string `json:"pre"`
	Post      string `json:"post"`
	IsDefault bool   `json:"is_default"`
}

// CreateJobRequest — создание задания генерации.
type CreateJobRequest struct {
	Workflow string `json:"workflow"`
	Prompt   string `json:"prompt"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
	Style    string `json:"style,omitempty"`
	Seed     *int64 `json:"seed,omitempty"`
}

// --- Wire wrappers ---

type fieldsEnvelope struct {
	Fields []FieldResponse `json:"fields"`
}

type placeholdersEnvelope struct {
	Names []string `json:"names"`
}

type dataResponse struct {
	Data json.RawMessage `json:"data"`
}

type listResponse struct {
	Data  json.RawMessage `json:"data"`
	Total int             `json:"total"`
}

type errorResponse struct {
	Error struct {
		Code    string   `json:"code"`
		Message string   `json:"message"`
		Details []string `json:"details,omitempty"`
	} `json:"error"`
}

// --- Client ---

// Client — HTTP-клиент для Stencil API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient создаёт клиент для API.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// --- Workflows ---

// ListWorkflows возвращает все workflow.
func (c *Client) ListWorkflows() ([]WorkflowResponse, error) {
	var workflows []WorkflowResponse
	err := c.list("/api/v1/workflows", nil, &workflows)
	return workflows, err
}

// CreateWorkflow загружает новый workflow-документ.
func (c *Client) CreateWorkflow(name string, document json.RawMessage) (*WorkflowResponse, error) {
	body := CreateWorkflowRequest{Name: name, Document: document}
	var wf WorkflowResponse
	err := c.post("/api/v1/workflows", body, &wf)
	return &wf, err
}

// GetWorkflow возвращает workflow с документом.
func (c *Client) GetWorkflow(name string) (*WorkflowResponse, error) {
	var wf WorkflowResponse
	err := c.get("/api/v1/workflows/"+url.PathEscape(name), &wf)
	return &wf, err
}

// DeleteWorkflow удаляет workflow.
func (c *Client) DeleteWorkflow(name string) error {
	return c.delete("/api/v1/workflows/" + url.PathEscape(name))
}

// ResetWorkflow возвращает документ workflow к оригиналу.
func (c *Client) ResetWorkflow(name string) error {
	return c.post("/api/v1/workflows/"+url.PathEscape(name)+"/reset", nil, nil)
}

// --- Fields & settings ---

// GetFields возвращает редактируемые поля workflow.
func (c *Client) GetFields(name string) ([]FieldResponse, error) {
	var env fieldsEnvelope
	err := c.get("/api/v1/workflows/"+url.PathEscape(name)+"/fields", &env)
	return env.Fields, err
}

// SaveFields сохраняет конфигурацию полей и возвращает её актуальный вид.
func (c *Client) SaveFields(name string, fields []FieldResponse) ([]FieldResponse, error) {
	body := fieldsEnvelope{Fields: fields}
	var env fieldsEnvelope
	err := c.put("/api/v1/workflows/"+url.PathEscape(name)+"/fields", body, &env)
	return env.Fields, err
}

// GetSettings возвращает сохранённые настройки workflow.
func (c *Client) GetSettings(name string) (json.RawMessage, error) {
	var settings json.RawMessage
	err := c.get("/api/v1/workflows/"+url.PathEscape(name)+"/settings", &settings)
	return settings, err
}

// DeleteSettings удаляет настройки workflow.
func (c *Client) DeleteSettings(name string) error {
	return c.delete("/api/v1/workflows/" + url.PathEscape(name) + "/settings")
}

// Render рендерит документ workflow с подстановкой значений.
func (c *Client) Render(name string, overrides map[string]json.RawMessage) (json.RawMessage, error) {
	body := map[string]any{"overrides": overrides}
	var rendered json.RawMessage
	err := c.post("/api/v1/workflows/"+url.PathEscape(name)+"/render", body, &rendered)
	return rendered, err
}

// --- Placeholders ---

// ListPlaceholders возвращает каталог имён плейсхолдеров.
func (c *Client) ListPlaceholders() ([]string, error) {
	var env placeholdersEnvelope
	err := c.get("/api/v1/placeholders", &env)
	return env.Names, err
}

// AddPlaceholder добавляет имя в каталог.
func (c *Client) AddPlaceholder(name string) ([]string, error) {
	body := map[string]string{"name": name}
	var env placeholdersEnvelope
	err := c.post("/api/v1/placeholders", body, &env)
	return env.Names, err
}

// RemovePlaceholder удаляет имя из каталога.
func (c *Client) RemovePlaceholder(name string) error {
	return c.delete("/api/v1/placeholders/" + url.PathEscape(name))
}

// --- Styles ---

// ListStyles возвращает все стили.
func (c *Client) ListStyles() ([]StyleResponse, error) {
	var styles []StyleResponse
	err := c.list("/api/v1/styles", nil, &styles)
	return styles, err
}

// GetStyle возвращает стиль по имени.
func (c *Client) GetStyle(name string) (*StyleResponse, error) {
	var style StyleResponse
	err := c.get("/api/v1/styles/"+url.PathEscape(name), &style)
	return &style, err
}

// UpsertStyle создаёт или обновляет стиль.
func (c *Client) UpsertStyle(name string, req UpsertStyleRequest) (*StyleResponse, error) {
	var style StyleResponse
	err := c.put("/api/v1/styles/"+url.PathEscape(name), req, &style)
	return &style, err
}

// DeleteStyle удаляет стиль.
func (c *Client) DeleteStyle(name string) error {
	return c.delete("/api/v1/styles/" + url.PathEscape(name))
}

// SetDefaultStyle делает стиль стилем по умолчанию.
func (c *Client) SetDefaultStyle(name string) error {
	return c.put("/api/v1/styles/"+url.PathEscape(name)+"/default", nil, nil)
}

// --- Jobs ---

// ListJobs возвращает последние задания.
func (c *Client) ListJobs(limit int) ([]JobResponse, error) {
	params := url.Values{}
	if limit > 0 {
		params.Set("limit", fmt.Sprintf("%d", limit))
	}

	var jobs []JobResponse
	err := c.list("/api/v1/jobs", params, &jobs)
	return jobs, err
}

// CreateJob ставит задание генерации в очередь.
func (c *Client) CreateJob(req CreateJobRequest) (*JobResponse, error) {
	var job JobResponse
	err := c.post("/api/v1/jobs", req, &job)
	return &job, err
}

// GetJob возвращает задание по идентификатору.
func (c *Client) GetJob(id string) (*JobResponse, error) {
	var job JobResponse
	err := c.get("/api/v1/jobs/"+url.PathEscape(id), &job)
	return &job, err
}

// DownloadJobImage скачивает готовое изображение задания.
func (c *Client) DownloadJobImage(id string) ([]byte, error) {
	resp, err := c.do(http.MethodGet, "/api/v1/jobs/"+url.PathEscape(id)+"/image", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		return nil, err
	}

	return io.ReadAll(resp.Body)
}

// --- HTTP helpers ---

func (c *Client) get(path string, result any) error {
	return c.doData(http.MethodGet, path, nil, result)
}

func (c *Client) post(path string, body any, result any) error {
	return c.doData(http.MethodPost, path, body, result)
}

func (c *Client) put(path string, body any, result any) error {
	return c.doData(http.MethodPut, path, body, result)
}

func (c *Client) delete(path string) error {
	resp, err := c.do(http.MethodDelete, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return c.checkError(resp)
}

func (c *Client) list(path string, params url.Values, result any) error {
	if len(params) > 0 {
		path = path + "?" + params.Encode()
	}

	resp, err := c.do(http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		return err
	}

	var lr listResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return json.Unmarshal(lr.Data, result)
}

func (c *Client) doData(method, path string, body any, result any) error {
	resp, err := c.do(method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		return err
	}

	// 204 No Content
	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	var dr dataResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if result != nil {
		return json.Unmarshal(dr.Data, result)
	}
	return nil
}

func (c *Client) do(method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.httpClient.Do(req)
}

func (c *Client) checkError(resp *http.Response) error {
	if resp.StatusCode < 400 {
		return nil
	}

	var er errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
		return fmt.Errorf("API error: HTTP %d", resp.StatusCode)
	}

	if len(er.Error.Details) > 0 {
		return fmt.Errorf("%s: %s (%d problems)", er.Error.Code, er.Error.Message, len(er.Error.Details))
	}
	return fmt.Errorf("%s: %s", er.Error.Code, er.Error.Message)
}
