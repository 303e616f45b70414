package comfy

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSubmitPrompt(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/prompt" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}

		var payload struct {
			Prompt   json.RawMessage `json:"prompt"`
			ClientID string          `json:"client_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		if payload.ClientID == "" {
			t.Error("client_id must be sent")
		}

		json.NewEncoder(w).Encode(map[string]string{"prompt_id": "abc-123"})
	}))
	defer server.Close()

	client := New(server.URL)
	promptID, err := client.SubmitPrompt(context.Background(), json.RawMessage(`{"1":{}}`))
	if err != nil {
		t.Fatalf("SubmitPrompt: %v", err)
	}
	if promptID != "abc-123" {
		t.Errorf("promptID = %q, want abc-123", promptID)
	}
}

func TestSubmitPromptRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad prompt", http.StatusBadRequest)
	}))
	defer server.Close()

	client := New(server.URL)
	if _, err := client.SubmitPrompt(context.Background(), json.RawMessage(`{}`)); !errors.Is(err, ErrJobFailed) {
		t.Errorf("error = %v, want ErrJobFailed", err)
	}
}

func TestAwait(t *testing.T) {
	var polls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		polls++
		if polls < 3 {
			// Запуск ещё не в истории.
			json.NewEncoder(w).Encode(map[string]any{})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"p1": map[string]any{
				"outputs": map[string]any{
					"9": map[string]any{
						"images": []map[string]string{
							{"filename": "img.png", "subfolder": "", "type": "output"},
						},
					},
				},
			},
		})
	}))
	defer server.Close()

	client := New(server.URL)
	images, err := client.Await(context.Background(), "p1", time.Millisecond)
	if err != nil {
		t.Fatalf("Await: %v", err)
	}
	if len(images) != 1 || images[0].Filename != "img.png" {
		t.Errorf("images = %+v", images)
	}
}

func TestAwaitNoOutputs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"p1": map[string]any{"outputs": map[string]any{}},
		})
	}))
	defer server.Close()

	client := New(server.URL)
	if _, err := client.Await(context.Background(), "p1", time.Millisecond); !errors.Is(err, ErrNoOutputs) {
		t.Errorf("error = %v, want ErrNoOutputs", err)
	}
}

func TestAwaitCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{})
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	client := New(server.URL)
	if _, err := client.Await(ctx, "p1", time.Millisecond); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error = %v, want deadline exceeded", err)
	}
}

func TestDownloadImage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/view" {
			t.Errorf("path = %s, want /view", r.URL.Path)
		}
		if got := r.URL.Query().Get("filename"); got != "img.png" {
			t.Errorf("filename = %q", got)
		}
		w.Write([]byte("imagebytes"))
	}))
	defer server.Close()

	client := New(server.URL)
	data, err := client.DownloadImage(context.Background(), ImageRef{Filename: "img.png", Type: "output"})
	if err != nil {
		t.Fatalf("DownloadImage: %v", err)
	}
	if string(data) != "imagebytes" {
		t.Errorf("data = %q", data)
	}
}
