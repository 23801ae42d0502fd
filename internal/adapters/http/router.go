package httpadapter

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/kochimetro/docflow/internal/core/domain"
	"github.com/kochimetro/docflow/internal/core/ports"
	"github.com/kochimetro/docflow/internal/observability/metrics"
)

type Router struct {
	ingestor ports.DocumentIngestor
	records  ports.RecordStore
	pipeline *metrics.PipelineMetrics
}

func NewRouter(ingestor ports.DocumentIngestor, records ports.RecordStore, pipeline *metrics.PipelineMetrics) *Router {
	return &Router{
		ingestor: ingestor,
		records:  records,
		pipeline: pipeline,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/documents", rt.documents)
	mux.HandleFunc("/v1/documents/", rt.documentByID)
	return mux
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) documents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	rt.uploadDocument(w, r)
}

func (rt *Router) uploadDocument(w http.ResponseWriter, r *http.Request) {
	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeError(w, domain.WrapError(domain.ErrInvalidInput, "read multipart form", err))
		return
	}
	defer file.Close()

	start := time.Now()
	result, err := rt.ingestor.Upload(r.Context(), fileHeader.Filename, file)
	if err != nil {
		rt.pipeline.RecordFailed(domain.FailureReason(err), time.Since(start))
		writeError(w, err)
		return
	}

	rt.pipeline.RecordProcessed(result.ChunksCreated, time.Since(start))
	writeJSON(w, http.StatusCreated, result)
}

func (rt *Router) documentByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/documents/")
	id, sub, _ := strings.Cut(rest, "/")
	if id == "" {
		writeError(w, domain.WrapError(domain.ErrInvalidInput, "parse path", errDocumentIDRequired))
		return
	}

	switch {
	case sub == "" && r.Method == http.MethodGet:
		rt.getDocument(w, r, id)
	case sub == "" && r.Method == http.MethodDelete:
		rt.deleteDocument(w, r, id)
	case sub == "chunks" && r.Method == http.MethodGet:
		rt.listChunks(w, r, id)
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	}
}

// getDocument answers under either identity: a still-standing upload record,
// or the processed document reconstructed from its chunks.
func (rt *Router) getDocument(w http.ResponseWriter, r *http.Request, id string) {
	rec, err := rt.records.GetUpload(r.Context(), id)
	if err == nil {
		writeJSON(w, http.StatusOK, rec)
		return
	}
	if !domain.IsKind(err, domain.ErrRecordNotFound) {
		writeError(w, err)
		return
	}

	chunks, err := rt.records.ListChunksBySource(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if len(chunks) == 0 {
		writeError(w, domain.WrapError(domain.ErrRecordNotFound, "get document", errDocumentNotFound))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"doc_id":         id,
		"filename":       chunks[0].Filename,
		"status":         domain.StatusProcessed,
		"chunks_created": len(chunks),
		"created_at":     chunks[0].CreatedAt,
	})
}

func (rt *Router) listChunks(w http.ResponseWriter, r *http.Request, id string) {
	chunks, err := rt.records.ListChunksBySource(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if chunks == nil {
		chunks = []domain.ProcessedChunk{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"doc_id": id,
		"chunks": chunks,
	})
}

func (rt *Router) deleteDocument(w http.ResponseWriter, r *http.Request, id string) {
	deleted, err := rt.records.DeleteDocument(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"doc_id":  id,
		"deleted": deleted,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
