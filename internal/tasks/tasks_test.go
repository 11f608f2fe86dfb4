package tasks

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

type brokenStore struct{ *MemoryStore }

func (brokenStore) Put(context.Context, *Task) error { return errors.New("store offline") }

// recordingStore remembers every status it was asked to store.
type recordingStore struct {
	*MemoryStore
	mu       sync.Mutex
	statuses []Status
}

func (s *recordingStore) Put(ctx context.Context, task *Task) error {
	s.mu.Lock()
	s.statuses = append(s.statuses, task.Status)
	s.mu.Unlock()
	return s.MemoryStore.Put(ctx, task)
}

func TestManager_RunLifecycle(t *testing.T) {
	store := &recordingStore{MemoryStore: NewMemoryStore(zerolog.Nop())}
	fixed := time.Date(2024, 9, 1, 10, 0, 0, 0, time.UTC)
	var done []string
	m := NewManager(store, zerolog.Nop(),
		WithClock(func() time.Time { return fixed }),
		WithDoneHook(func(name string) { done = append(done, name) }),
	)

	task, err := m.Run(context.Background(), " cierre_mensual ", map[string]any{"mes": "Agosto"})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if task.Status != StatusDone {
		t.Errorf("Status = %s, want done", task.Status)
	}
	if task.Name != "cierre_mensual" {
		t.Errorf("Name = %q", task.Name)
	}
	if task.Result["message"] != "Proceso ejecutado" || task.Result["name"] != "cierre_mensual" {
		t.Errorf("Unexpected result: %v", task.Result)
	}
	if !task.CreatedAt.Equal(fixed) || !task.UpdatedAt.Equal(fixed) {
		t.Errorf("Unexpected timestamps: %v %v", task.CreatedAt, task.UpdatedAt)
	}
	want := []Status{StatusQueued, StatusRunning, StatusDone}
	if len(store.statuses) != 3 || store.statuses[0] != want[0] || store.statuses[1] != want[1] || store.statuses[2] != want[2] {
		t.Errorf("Stored statuses = %v, want %v", store.statuses, want)
	}
	if len(done) != 1 || done[0] != "cierre_mensual" {
		t.Errorf("Done hook calls = %v", done)
	}

	got, err := m.Get(context.Background(), task.ID)
	if err != nil || got.Status != StatusDone {
		t.Errorf("Get = %+v, %v", got, err)
	}
}

func TestManager_RunRejectsEmptyName(t *testing.T) {
	m := NewManager(NewMemoryStore(zerolog.Nop()), zerolog.Nop())

	_, err := m.Run(context.Background(), "  ", nil)
	if errorCode(err) != ErrTaskInvalidName {
		t.Errorf("Expected invalid name error, got %v", err)
	}
}

func TestManager_StorageFailure(t *testing.T) {
	m := NewManager(brokenStore{NewMemoryStore(zerolog.Nop())}, zerolog.Nop())

	_, err := m.Run(context.Background(), "x", nil)
	if errorCode(err) != ErrTaskStorage {
		t.Errorf("Expected storage error, got %v", err)
	}
	if errors.Unwrap(err) == nil {
		t.Error("Storage error must wrap its cause")
	}
}

func TestTask_Advance(t *testing.T) {
	now := time.Now()
	task := &Task{Status: StatusQueued}

	if err := task.advance(StatusDone, now); errorCode(err) != ErrTaskTransition {
		t.Errorf("queued -> done must be rejected, got %v", err)
	}
	if err := task.advance(StatusRunning, now); err != nil {
		t.Errorf("queued -> running: %v", err)
	}
	if err := task.advance(StatusQueued, now); err == nil {
		t.Error("running -> queued must be rejected")
	}
	if err := task.advance(StatusDone, now); err != nil {
		t.Errorf("running -> done: %v", err)
	}
	if err := task.advance(StatusRunning, now); err == nil {
		t.Error("done is terminal")
	}
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	s := NewMemoryStore(zerolog.Nop())
	task := &Task{ID: "t1", Status: StatusDone, Result: map[string]any{"k": "v"}}
	_ = s.Put(context.Background(), task)

	task.Result["k"] = "mutated"
	got, _ := s.Get(context.Background(), "t1")
	if got.Result["k"] != "v" {
		t.Error("Store must keep its own copy")
	}

	got.Status = StatusQueued
	again, _ := s.Get(context.Background(), "t1")
	if again.Status != StatusDone {
		t.Error("Get must return a copy")
	}

	if _, err := s.Get(context.Background(), "missing"); errorCode(err) != ErrTaskNotFound {
		t.Errorf("Expected not found, got %v", err)
	}
	if n, _ := s.Count(context.Background()); n != 1 {
		t.Errorf("Count = %d, want 1", n)
	}
}

func TestMemoryStore_ConcurrentRuns(t *testing.T) {
	s := NewMemoryStore(zerolog.Nop())
	m := NewManager(s, zerolog.Nop())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := m.Run(context.Background(), "p", nil); err != nil {
				t.Errorf("Run failed: %v", err)
			}
		}()
	}
	wg.Wait()

	if n, _ := s.Count(context.Background()); n != 20 {
		t.Errorf("Count = %d, want 20 distinct tasks", n)
	}
}

func newTestRouter() http.Handler {
	logger := zerolog.Nop()
	h := NewHandler(NewManager(NewMemoryStore(logger), logger), logger)
	r := chi.NewRouter()
	r.Mount("/api/v1/process", h.Routes())
	return r
}

func TestHandler_RunAndStatus(t *testing.T) {
	router := newTestRouter()

	body := bytes.NewBufferString(`{"name":"sync_inventario","params":{"full":true}}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/process/run", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	var runResp struct {
		OK   bool `json:"ok"`
		Data struct {
			TaskID string `json:"task_id"`
		} `json:"data"`
		Timestamp string `json:"timestamp"`
	}
	if err := json.NewDecoder(w.Body).Decode(&runResp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if !runResp.OK || runResp.Data.TaskID == "" || runResp.Timestamp == "" {
		t.Fatalf("Unexpected response: %+v", runResp)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/process/status/"+runResp.Data.TaskID, nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var statusResp struct {
		OK   bool `json:"ok"`
		Data Task `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&statusResp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if statusResp.Data.Status != StatusDone || statusResp.Data.Name != "sync_inventario" {
		t.Errorf("Unexpected task: %+v", statusResp.Data)
	}
	if statusResp.Data.Params["full"] != true {
		t.Errorf("Params not kept: %v", statusResp.Data.Params)
	}
}

func TestHandler_Errors(t *testing.T) {
	router := newTestRouter()

	tests := []struct {
		method string
		path   string
		body   string
		status int
		msg    string
	}{
		{http.MethodPost, "/api/v1/process/run", `{}`, http.StatusBadRequest, "Falta 'name' del proceso"},
		{http.MethodPost, "/api/v1/process/run", ``, http.StatusBadRequest, "Falta 'name' del proceso"},
		{http.MethodPost, "/api/v1/process/run", `{not json`, http.StatusBadRequest, "Cuerpo JSON inválido"},
		{http.MethodPost, "/api/v1/process/run", `["cierre"]`, http.StatusBadRequest, "Cuerpo JSON inválido"},
		{http.MethodGet, "/api/v1/process/status/unknown", ``, http.StatusNotFound, "Task no encontrada"},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, tt.path, bytes.NewBufferString(tt.body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != tt.status {
			t.Errorf("%s %s: status %d, want %d", tt.method, tt.path, w.Code, tt.status)
		}
		var resp Response
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if resp.OK || resp.Error != tt.msg {
			t.Errorf("%s %s: unexpected body %+v", tt.method, tt.path, resp)
		}
	}
}
