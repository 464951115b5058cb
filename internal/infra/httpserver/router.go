package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	appaicheck "github.com/bryanwahyu/visual-qc/internal/application/aicheck"
	apptasks "github.com/bryanwahyu/visual-qc/internal/application/tasks"
	domain "github.com/bryanwahyu/visual-qc/internal/domain/aicheck"
	"github.com/bryanwahyu/visual-qc/internal/domain/cloudsync"
	"github.com/bryanwahyu/visual-qc/internal/domain/history"
	domtasks "github.com/bryanwahyu/visual-qc/internal/domain/tasks"
	"github.com/bryanwahyu/visual-qc/internal/middleware"
)

const Version = "1.0.0"

// DriveFactory builds a drive client around a caller-supplied access token.
type DriveFactory func(ctx context.Context, accessToken string) (cloudsync.Drive, error)

// Options carries the collaborators the router exposes over HTTP.
type Options struct {
	Checks         *appaicheck.Service
	Tasks          *apptasks.Service
	History        history.Repository // nil disables /history
	Drive          DriveFactory       // nil disables /cloud-sync
	APIKey         string
	AllowedOrigins []string
	HealthCheckers map[string]middleware.HealthChecker
}

type Router struct {
	checks  *appaicheck.Service
	tasks   *apptasks.Service
	history history.Repository
	drive   DriveFactory
}

func NewRouter(opts Options) http.Handler {
	r := &Router{
		checks:  opts.Checks,
		tasks:   opts.Tasks,
		history: opts.History,
		drive:   opts.Drive,
	}
	mux := chi.NewRouter()

	mux.Use(middleware.Recovery)
	mux.Use(middleware.LoggingMiddleware)
	mux.Use(middleware.MetricsMiddleware)
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", middleware.APIKeyHeader},
		AllowCredentials: true,
	}))

	mux.Get("/", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"name":    "Visual QC API",
			"version": Version,
			"status":  "running",
		})
	})
	mux.Get("/health", middleware.HealthHandler(Version, opts.HealthCheckers))
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Route("/api", func(rt chi.Router) {
		rt.Use(middleware.APIKeyAuth(opts.APIKey))

		rt.Post("/ai-check/image", r.wrap(r.handleCheckImage))
		rt.Post("/ai-check/batch", r.wrap(r.handleCheckBatch))
		rt.Post("/ai-check/async", r.wrap(r.handleCheckAsync))
		rt.Get("/ai-check/status/{taskID}", r.wrap(r.handleTaskStatus))
		rt.Get("/ai-check/history", r.wrap(r.handleHistory))
		rt.Get("/ai-check/history/{assetID}", r.wrap(r.handleHistoryLatest))

		rt.Post("/cloud-sync/google-drive", r.wrap(r.handleCloudSync))
		rt.Get("/cloud-sync/google-drive/folder/{folderID}", r.wrap(r.handleFolderInfo))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// badRequest marks caller errors so wrap maps them to 400.
type badRequest struct{ err error }

func (b badRequest) Error() string { return b.err.Error() }
func (b badRequest) Unwrap() error { return b.err }

func badRequestf(format string, args ...any) error {
	return badRequest{fmt.Errorf(format, args...)}
}

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			var br badRequest
			if errors.As(err, &br) {
				http.Error(w, br.Error(), http.StatusBadRequest)
				return
			}
			if errors.Is(err, domtasks.ErrTaskNotFound) {
				http.Error(w, "task not found", http.StatusNotFound)
				return
			}
			if errors.Is(err, domain.ErrQuotaExceeded) {
				http.Error(w, "vision quota exceeded", http.StatusTooManyRequests)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

// POST /api/ai-check/image
// Body: a CheckRequest. A gateway failure is not a 500: it comes back as a
// typed result with status=failed, identical to the batch path.
func (r *Router) handleCheckImage(w http.ResponseWriter, req *http.Request) error {
	var body domain.CheckRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest{err}
	}
	if err := validateCheckRequest(body); err != nil {
		return err
	}

	middleware.IncrementChecks()
	res := r.checks.CheckImage(req.Context(), body)
	if res.Status == domain.CheckFailed {
		middleware.IncrementChecksFailed()
	}
	return writeJSON(w, http.StatusOK, res)
}

// POST /api/ai-check/batch
// Body: {"assets": [CheckRequest, ...]} in caller order.
func (r *Router) handleCheckBatch(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Assets []domain.CheckRequest `json:"assets"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest{err}
	}
	if len(body.Assets) == 0 {
		return badRequestf("assets must not be empty")
	}
	for i, a := range body.Assets {
		if err := validateCheckRequest(a); err != nil {
			return badRequestf("assets[%d]: %v", i, err)
		}
	}

	for range body.Assets {
		middleware.IncrementChecks()
	}
	out := r.checks.CheckBatch(req.Context(), body.Assets)
	for i := 0; i < out.Failed; i++ {
		middleware.IncrementChecksFailed()
	}
	return writeJSON(w, http.StatusOK, out)
}

// POST /api/ai-check/async
// Returns the pending task snapshot immediately; the evaluation continues in
// the background.
func (r *Router) handleCheckAsync(w http.ResponseWriter, req *http.Request) error {
	var body domain.CheckRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest{err}
	}
	if err := validateCheckRequest(body); err != nil {
		return err
	}

	middleware.IncrementTasksSubmitted()
	rec := r.tasks.Submit(body)
	return writeJSON(w, http.StatusOK, rec)
}

// GET /api/ai-check/status/{taskID}
func (r *Router) handleTaskStatus(w http.ResponseWriter, req *http.Request) error {
	id := chi.URLParam(req, "taskID")
	rec, err := r.tasks.Status(domtasks.ID(id))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, rec)
}

// GET /api/ai-check/history?page=&page_size=
func (r *Router) handleHistory(w http.ResponseWriter, req *http.Request) error {
	if r.history == nil {
		http.Error(w, "history storage not configured", http.StatusServiceUnavailable)
		return nil
	}
	page, _ := strconv.Atoi(req.URL.Query().Get("page"))
	size, _ := strconv.Atoi(req.URL.Query().Get("page_size"))

	list, err := r.history.Paginate(req.Context(),
		middleware.ValidatePage(page), middleware.ValidatePageSize(size))
	if err != nil {
		return err
	}
	if list == nil {
		list = []*history.Entry{}
	}
	return writeJSON(w, http.StatusOK, list)
}

// GET /api/ai-check/history/{assetID}
func (r *Router) handleHistoryLatest(w http.ResponseWriter, req *http.Request) error {
	if r.history == nil {
		http.Error(w, "history storage not configured", http.StatusServiceUnavailable)
		return nil
	}
	assetID := chi.URLParam(req, "assetID")
	if err := middleware.ValidateAssetID(assetID); err != nil {
		return badRequest{err}
	}
	entry, err := r.history.LatestByAsset(req.Context(), assetID)
	if err != nil {
		return err
	}
	if entry == nil {
		http.Error(w, "no checks recorded for asset", http.StatusNotFound)
		return nil
	}
	return writeJSON(w, http.StatusOK, entry)
}

// POST /api/cloud-sync/google-drive
// Body: {"connection_id": "...", "folder_id": "...", "access_token": "..."}
func (r *Router) handleCloudSync(w http.ResponseWriter, req *http.Request) error {
	if r.drive == nil {
		http.Error(w, "cloud sync not configured", http.StatusServiceUnavailable)
		return nil
	}
	var body struct {
		ConnectionID string `json:"connection_id"`
		FolderID     string `json:"folder_id"`
		AccessToken  string `json:"access_token"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest{err}
	}
	if body.FolderID == "" {
		return badRequestf("folder_id is required")
	}
	if body.AccessToken == "" {
		return badRequestf("access_token is required")
	}

	drive, err := r.drive(req.Context(), body.AccessToken)
	if err != nil {
		return err
	}
	files, err := drive.ListFolder(req.Context(), body.FolderID)
	if err != nil {
		return err
	}
	if files == nil {
		files = []cloudsync.FileInfo{}
	}
	return writeJSON(w, http.StatusOK, cloudsync.SyncResult{
		ConnectionID:    body.ConnectionID,
		TotalFiles:      len(files),
		NewFiles:        len(files),
		Files:           files,
		SyncCompletedAt: time.Now().UTC(),
	})
}

// GET /api/cloud-sync/google-drive/folder/{folderID}?access_token=
func (r *Router) handleFolderInfo(w http.ResponseWriter, req *http.Request) error {
	if r.drive == nil {
		http.Error(w, "cloud sync not configured", http.StatusServiceUnavailable)
		return nil
	}
	token := req.URL.Query().Get("access_token")
	if token == "" {
		return badRequestf("access_token is required")
	}

	drive, err := r.drive(req.Context(), token)
	if err != nil {
		return err
	}
	info, err := drive.FolderInfo(req.Context(), chi.URLParam(req, "folderID"))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, info)
}

// validateCheckRequest enforces request shape at the boundary. Rules are a
// tagged variant: an unknown rule_type is a caller error here, not something
// to silently drop.
func validateCheckRequest(req domain.CheckRequest) error {
	if err := middleware.ValidateAssetID(req.AssetID); err != nil {
		return badRequest{err}
	}
	if req.FileURL == "" && req.FileBase64 == "" {
		return badRequestf("file_url or file_base64 is required")
	}
	if req.FileURL != "" {
		if err := middleware.ValidateFileURL(req.FileURL); err != nil {
			return badRequest{err}
		}
	}
	if err := middleware.ValidateMimeType(req.MimeType); err != nil {
		return badRequest{err}
	}
	if err := middleware.ValidateFileType(string(req.FileType)); err != nil {
		return badRequest{err}
	}
	for i, rule := range req.Rules {
		if err := rule.Validate(); err != nil {
			return badRequestf("rules[%d]: %v", i, err)
		}
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}
