package comfy

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
)

// Ошибки клиента.
var (
	// ErrJobFailed — сервис исполнения отверг или провалил задание.
	ErrJobFailed = errors.New("execution failed")

	// ErrNoOutputs — выполнение завершилось без единого изображения.
	ErrNoOutputs = errors.New("no outputs produced")
)

// Client — HTTP-клиент сервиса исполнения node-graph документов
// (ComfyUI-совместимый API).
type Client struct {
	baseURL  string
	clientID string
	http     *http.Client
}

// New создаёт клиент для заданного адреса сервиса.
func New(baseURL string) *Client {
	return &Client{
		baseURL:  baseURL,
		clientID: uuid.NewString(),
		http:     &http.Client{Timeout: 60 * time.Second},
	}
}

// ImageRef — ссылка на изображение в выводе сервиса.
type ImageRef struct {
	Filename  string `json:"filename"`
	Subfolder string `json:"subfolder"`
	Type      string `json:"type"`
}

// SubmitPrompt отправляет отрендеренный документ на исполнение
// и возвращает идентификатор запуска.
func (c *Client) SubmitPrompt(ctx context.Context, document json.RawMessage) (string, error) {
	payload, err := json.Marshal(map[string]any{
		"prompt":    document,
		"client_id": c.clientID,
	})
	if err != nil {
		return "", fmt.Errorf("marshal prompt payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/prompt", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build prompt request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("submit prompt: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("%w: status %d: %s", ErrJobFailed, resp.StatusCode, body)
	}

	var result struct {
		PromptID string `json:"prompt_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode prompt response: %w", err)
	}
	if result.PromptID == "" {
		return "", fmt.Errorf("%w: empty prompt id", ErrJobFailed)
	}
	return result.PromptID, nil
}

// History возвращает изображения завершённого запуска.
// Второй результат false — запуск ещё не завершён.
func (c *Client) History(ctx context.Context, promptID string) ([]ImageRef, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/history/"+url.PathEscape(promptID), nil)
	if err != nil {
		return nil, false, fmt.Errorf("build history request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("get history: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, false, fmt.Errorf("get history: status %d", resp.StatusCode)
	}

	var history map[string]struct {
		Outputs map[string]struct {
			Images []ImageRef `json:"images"`
		} `json:"outputs"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&history); err != nil {
		return nil, false, fmt.Errorf("decode history: %w", err)
	}

	entry, ok := history[promptID]
	if !ok {
		return nil, false, nil
	}

	var images []ImageRef
	for _, output := range entry.Outputs {
		images = append(images, output.Images...)
	}
	return images, true, nil
}

// Await опрашивает историю, пока запуск не завершится или контекст
// не будет отменён.
func (c *Client) Await(ctx context.Context, promptID string, pollInterval time.Duration) ([]ImageRef, error) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
			images, done, err := c.History(ctx, promptID)
			if err != nil {
				return nil, err
			}
			if !done {
				continue
			}
			if len(images) == 0 {
				return nil, ErrNoOutputs
			}
			return images, nil
		}
	}
}

// DownloadImage скачивает изображение по ссылке из вывода.
func (c *Client) DownloadImage(ctx context.Context, ref ImageRef) ([]byte, error) {
	query := url.Values{}
	query.Set("filename", ref.Filename)
	query.Set("subfolder", ref.Subfolder)
	query.Set("type", ref.Type)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/view?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build view request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download image: status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// Health проверяет доступность сервиса исполнения.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/system_stats", nil)
	if err != nil {
		return fmt.Errorf("build health request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("health check: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check: status %d", resp.StatusCode)
	}
	return nil
}
