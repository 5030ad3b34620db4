// Package mockbackend is a deterministic in-memory youwol backend: the local
// server's health, environment and projects endpoints, its live endpoint,
// the files backend and the sessions storage. It backs the CLI demos and
// the integration tests.
package mockbackend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/youwol/httpclients/pkg/files"
	"github.com/youwol/httpclients/pkg/live"
	"github.com/youwol/httpclients/pkg/monitor"
	"github.com/youwol/httpclients/pkg/pyyouwol"
)

// Profile is the active profile reported by the environment.
const Profile = "default"

type storedFile struct {
	meta files.Metadata
	data []byte
}

// Backend holds the state of the fake services.
type Backend struct {
	logger   *slog.Logger
	upgrader websocket.Upgrader
	messages *monitor.Broadcaster[live.ContextMessage]

	mu    sync.Mutex
	files map[string]storedFile
	docs  map[string][]byte
	user  pyyouwol.LoginResponse
}

// New creates an empty backend.
func New(logger *slog.Logger) *Backend {
	if logger == nil {
		logger = slog.Default()
	}
	return &Backend{
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		messages: monitor.NewBroadcaster[live.ContextMessage]("mock_backend"),
		files:    make(map[string]storedFile),
		docs:     make(map[string][]byte),
		user:     pyyouwol.LoginResponse{ID: "user-1", Name: "demo", Email: "demo@youwol.com"},
	}
}

// Handler returns the routes of every fake service.
func (b *Backend) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, pyyouwol.HealthzResponse{Status: "py-youwol ok"})
	})
	for _, service := range []string{"cdn-backend", "treedb-backend", "cdn-sessions-storage", "files-backend"} {
		status := service + " ok"
		mux.HandleFunc("GET /api/"+service+"/healthz", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": status})
		})
	}

	mux.HandleFunc("GET /ws", b.handleLive)
	mux.HandleFunc("GET /admin/environment/status", b.handleEnvironmentStatus)
	mux.HandleFunc("POST /admin/environment/login", b.handleLogin)
	mux.HandleFunc("GET /admin/projects/status", b.handleProjectsStatus)
	mux.HandleFunc("GET /admin/custom-commands/{name}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"command": r.PathValue("name")})
	})

	mux.HandleFunc("POST /api/files-backend/files", b.handleUpload)
	mux.HandleFunc("GET /api/files-backend/files/{id}/info", b.handleInfo)
	mux.HandleFunc("POST /api/files-backend/files/{id}/metadata", b.handleMetadata)
	mux.HandleFunc("GET /api/files-backend/files/{id}", b.handleGetFile)
	mux.HandleFunc("DELETE /api/files-backend/files/{id}", b.handleRemove)

	mux.HandleFunc("POST /api/cdn-sessions-storage/applications/{pkg}/{name}", b.handlePostData)
	mux.HandleFunc("GET /api/cdn-sessions-storage/applications/{pkg}/{name}", b.handleGetData)

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, fmt.Sprintf("no route for %s %s", r.Method, r.URL.Path))
	})
	return mux
}

// Emit sends m to every live connection.
func (b *Backend) Emit(m live.ContextMessage) {
	if m.Timestamp == 0 {
		m.Timestamp = float64(time.Now().UnixMilli()) / 1000
	}
	b.messages.Publish(m)
}

// Heartbeat emits a "Heartbeat" message every interval until ctx is done.
func (b *Backend) Heartbeat(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for n := 1; ; n++ {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			b.Emit(live.ContextMessage{
				ContextID:  uuid.NewString(),
				Level:      "INFO",
				Text:       fmt.Sprintf("heartbeat %d", n),
				Labels:     []string{"Heartbeat"},
				Attributes: map[string]string{"profile": Profile},
			})
		}
	}
}

// Close ends every live connection.
func (b *Backend) Close() {
	b.messages.Close()
}

func (b *Backend) handleLive(w http.ResponseWriter, r *http.Request) {
	ws, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		b.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer ws.Close()

	messages, cancel := b.messages.Subscribe(64)
	defer cancel()

	// Reads detect the client leaving.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}()

	initial := []any{
		struct{}{},
		b.statusMessage(pyyouwol.EnvironmentStatusLabel, b.environment()),
		b.statusMessage(pyyouwol.ProjectsLoadingLabel, projects()),
	}
	for _, m := range initial {
		if err := ws.WriteJSON(m); err != nil {
			return
		}
	}

	for {
		select {
		case <-gone:
			return
		case <-r.Context().Done():
			return
		case m, ok := <-messages:
			if !ok {
				ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"))
				return
			}
			if err := ws.WriteJSON(m); err != nil {
				if !websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					b.logger.Debug("live write failed", "error", err)
				}
				return
			}
		}
	}
}

func (b *Backend) statusMessage(label string, data any) live.ContextMessage {
	raw, _ := json.Marshal(data)
	return live.ContextMessage{
		ContextID:  uuid.NewString(),
		Level:      "INFO",
		Text:       label,
		Labels:     []string{label},
		Attributes: map[string]string{"profile": Profile},
		Data:       raw,
		Timestamp:  float64(time.Now().UnixMilli()) / 1000,
	}
}

func (b *Backend) environment() pyyouwol.EnvironmentStatus {
	b.mu.Lock()
	defer b.mu.Unlock()
	return pyyouwol.EnvironmentStatus{
		Configuration: pyyouwol.EnvironmentConfiguration{
			AvailableProfiles: []string{Profile},
			HTTPPort:          2000,
			ActiveProfile:     Profile,
			UserEmail:         b.user.Email,
		},
		Users: []string{b.user.Email},
	}
}

func projects() pyyouwol.ProjectsLoadingResults {
	return pyyouwol.ProjectsLoadingResults{Results: []pyyouwol.ProjectResult{
		{ID: "cHJvamVjdA==", Name: "project", Version: "0.1.0", Path: "/projects/project"},
		{Path: "/projects/broken", Failure: "pipeline", Message: "no yw_pipeline.py"},
	}}
}

func (b *Backend) handleEnvironmentStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, b.environment())
}

func (b *Backend) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}
	b.mu.Lock()
	b.user = pyyouwol.LoginResponse{ID: uuid.NewSHA1(uuid.NameSpaceURL, []byte(body.Email)).String(), Name: body.Email, Email: body.Email}
	user := b.user
	b.mu.Unlock()

	b.Emit(b.statusMessage(pyyouwol.EnvironmentStatusLabel, b.environment()))
	writeJSON(w, http.StatusOK, user)
}

func (b *Backend) handleProjectsStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, projects())
}

func (b *Backend) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	f, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file part")
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id := r.FormValue("file_id")
	if id == "" {
		id = uuid.NewString()
	}
	name := r.FormValue("file_name")
	if name == "" {
		name = header.Filename
	}
	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	meta := files.Metadata{FileName: name, ContentType: contentType, ContentEncoding: "identity"}

	b.mu.Lock()
	b.files[id] = storedFile{meta: meta, data: data}
	b.mu.Unlock()

	b.logger.Info("file stored", "file_id", id, "bytes", len(data))
	writeJSON(w, http.StatusOK, files.PostFileResponse{
		FileID:          id,
		FileName:        meta.FileName,
		ContentType:     meta.ContentType,
		ContentEncoding: meta.ContentEncoding,
	})
}

func (b *Backend) file(w http.ResponseWriter, id string) (storedFile, bool) {
	b.mu.Lock()
	f, ok := b.files[id]
	b.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("file %s not found", id))
	}
	return f, ok
}

func (b *Backend) handleInfo(w http.ResponseWriter, r *http.Request) {
	if f, ok := b.file(w, r.PathValue("id")); ok {
		writeJSON(w, http.StatusOK, files.InfoResponse{Metadata: f.meta})
	}
}

func (b *Backend) handleMetadata(w http.ResponseWriter, r *http.Request) {
	var update files.MetadataUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	id := r.PathValue("id")
	b.mu.Lock()
	f, ok := b.files[id]
	if ok {
		if update.FileName != "" {
			f.meta.FileName = update.FileName
		}
		if update.ContentType != "" {
			f.meta.ContentType = update.ContentType
		}
		if update.ContentEncoding != "" {
			f.meta.ContentEncoding = update.ContentEncoding
		}
		b.files[id] = f
	}
	b.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("file %s not found", id))
		return
	}
	writeJSON(w, http.StatusOK, struct{}{})
}

func (b *Backend) handleGetFile(w http.ResponseWriter, r *http.Request) {
	f, ok := b.file(w, r.PathValue("id"))
	if !ok {
		return
	}
	w.Header().Set("Content-Type", f.meta.ContentType)
	w.Header().Set("Content-Length", fmt.Sprint(len(f.data)))
	w.Write(f.data)
}

func (b *Backend) handleRemove(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	b.mu.Lock()
	_, ok := b.files[id]
	delete(b.files, id)
	b.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("file %s not found", id))
		return
	}
	writeJSON(w, http.StatusOK, struct{}{})
}

func (b *Backend) handlePostData(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(r.Body)
	if err != nil || !json.Valid(data) {
		writeError(w, http.StatusBadRequest, "body must be json")
		return
	}
	b.mu.Lock()
	b.docs[r.PathValue("pkg")+"/"+r.PathValue("name")] = data
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, struct{}{})
}

func (b *Backend) handleGetData(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	data, ok := b.docs[r.PathValue("pkg")+"/"+r.PathValue("name")]
	b.mu.Unlock()
	if !ok {
		// The storage answers an empty document for unknown data.
		writeJSON(w, http.StatusOK, struct{}{})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
