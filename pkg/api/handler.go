package api

import (
	"encoding/json"
	"log/slog"
	"mime"
	"net/http"

	"github.com/hazyhaar/ncrp-ingest/pkg/complaint"
	"github.com/hazyhaar/ncrp-ingest/pkg/ingest"
	"github.com/hazyhaar/ncrp-ingest/pkg/kit"
)

// Config is shared by the HTTP router and the MCP tools.
type Config struct {
	// InputDir is the only directory callers may read from. Relative
	// request paths resolve against it. Empty rejects every path.
	InputDir string
	// AllowOrigin is sent as Access-Control-Allow-Origin. Empty disables CORS.
	AllowOrigin string
	Logger      *slog.Logger
}

func (c Config) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}

// NewRouter returns an http.Handler with all ingestion API routes.
func NewRouter(p *ingest.Pipeline, cfg Config) http.Handler {
	logger := cfg.logger()
	mux := http.NewServeMux()
	h := &handler{
		ingestFile:  kit.Logging(logger, "ingest_file")(ingestFileEndpoint(p, cfg.InputDir)),
		ingestBatch: kit.Logging(logger, "ingest_batch")(ingestBatchEndpoint(p, cfg.InputDir)),
		ingestText:  kit.Logging(logger, "ingest_text")(ingestTextEndpoint(p)),
		p:           p,
	}

	mux.HandleFunc("POST /v1/ingest/batch", h.handleIngestBatch)
	mux.HandleFunc("POST /v1/ingest/text", h.handleIngestText)
	mux.HandleFunc("POST /v1/ingest", h.handleIngestFile)
	mux.HandleFunc("GET /v1/health", h.handleHealth)

	var root http.Handler = securityHeaders(requestID(mux))
	if cfg.AllowOrigin != "" {
		root = cors(cfg.AllowOrigin, root)
	}
	return root
}

type handler struct {
	ingestFile  kit.Endpoint
	ingestBatch kit.Endpoint
	ingestText  kit.Endpoint
	p           *ingest.Pipeline
}

// --- ingest single file ---

func (h *handler) handleIngestFile(w http.ResponseWriter, r *http.Request) {
	var req ingestFileReq
	if !decodeBody(w, r, 16*1024, &req) {
		return
	}
	resp, err := h.ingestFile(r.Context(), &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	res := resp.(complaint.Result)
	writeJSON(w, statusCode(res), res)
}

// --- ingest batch ---

func (h *handler) handleIngestBatch(w http.ResponseWriter, r *http.Request) {
	var req ingestBatchReq
	if !decodeBody(w, r, 64*1024, &req) {
		return
	}
	resp, err := h.ingestBatch(r.Context(), &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- ingest extracted report text ---

func (h *handler) handleIngestText(w http.ResponseWriter, r *http.Request) {
	var req ingestTextReq
	if !decodeBody(w, r, 1<<20, &req) {
		return
	}
	resp, err := h.ingestText(r.Context(), &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	res := resp.(complaint.Result)
	writeJSON(w, statusCode(res), res)
}

// --- health ---

type healthResponse struct {
	Status   string `json:"status"`
	RunID    string `json:"run_id"`
	SeenKeys int    `json:"seen_keys"`
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:   "ok",
		RunID:    h.p.RunID(),
		SeenKeys: h.p.Registry().Len(),
	})
}

// --- helpers ---

// decodeBody requires a JSON content type, so cross-site form posts, which
// browsers send without a preflight, never reach an endpoint.
func decodeBody(w http.ResponseWriter, r *http.Request, limit int64, v any) bool {
	if mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); mt != "application/json" {
		writeError(w, http.StatusUnsupportedMediaType, "content type must be application/json")
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// requestID tags each request context with the caller's X-Request-ID, or a new one.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := kit.WithRequestID(kit.WithTransport(r.Context(), "http"), r.Header.Get("X-Request-ID"))
		w.Header().Set("X-Request-ID", kit.GetRequestID(ctx))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// securityHeaders sets the standard hardening headers on every response.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		next.ServeHTTP(w, r)
	})
}

// cors lets browser clients served from origin call the API.
func cors(origin string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
