package server

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/intecdocs/docfinder/internal/classify"
	"github.com/intecdocs/docfinder/internal/ingest"
	"github.com/intecdocs/docfinder/internal/query"
	"github.com/intecdocs/docfinder/internal/report"
	"github.com/intecdocs/docfinder/internal/search"
	"github.com/intecdocs/docfinder/internal/stats"
)

func (s *Server) maxUploadBytes() int64 {
	return int64(s.config.Limits.MaxUploadMB) << 20
}

func readUploadFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes())
	if err := r.ParseMultipartForm(s.maxUploadBytes()); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}
	_, fh, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "file field is required")
		return
	}
	content, err := readUploadFile(fh)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "could not read uploaded file")
		return
	}
	s.logger.Debug("upload request", zap.String("file", fh.Filename), zap.Int("bytes", len(content)))

	record, err := s.intake.Ingest(r.Context(), fh.Filename, content)
	if err != nil {
		if errors.Is(err, ingest.ErrUnsupportedType) {
			s.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("ingest failed", zap.String("file", fh.Filename), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.metrics.RecordIngest(record.Category, record.ExtractionFailed)
	s.respondJSON(w, http.StatusCreated, record)
}

func (s *Server) handleUploadBatch(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes())
	if err := r.ParseMultipartForm(s.maxUploadBytes()); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}
	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		s.respondError(w, http.StatusBadRequest, "files field is required")
		return
	}

	files := make([]ingest.BatchFile, 0, len(headers))
	for _, fh := range headers {
		content, err := readUploadFile(fh)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "could not read uploaded file "+fh.Filename)
			return
		}
		files = append(files, ingest.BatchFile{Name: fh.Filename, Content: content})
	}

	result := s.intake.IngestBatch(r.Context(), files)
	for _, item := range result.Items {
		if item.Record != nil {
			s.metrics.RecordIngest(item.Record.Category, item.Record.ExtractionFailed)
		}
	}
	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	index := s.store.Load(r.Context())
	s.respondJSON(w, http.StatusOK, map[string]any{
		"documentos": index.Documents,
		"total":      len(index.Documents),
	})
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid document id")
		return
	}
	index := s.store.Load(r.Context())
	for i := range index.Documents {
		if index.Documents[i].ID == id {
			s.respondJSON(w, http.StatusOK, index.Documents[i])
			return
		}
	}
	s.respondError(w, http.StatusNotFound, "document not found")
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	s.logger.Debug("search request", zap.String("q", q))
	hits := search.Search(s.store.Load(r.Context()), q)
	s.metrics.RecordQuery("search")
	s.respondJSON(w, http.StatusOK, map[string]any{
		"query":   q,
		"results": hits,
		"total":   len(hits),
	})
}

type queryRequest struct {
	Query string `json:"query"`
	// Q is a short-form alias for the same field.
	Q string `json:"q"`
}

func (r *queryRequest) text() string {
	if r.Query != "" {
		return r.Query
	}
	return r.Q
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	q := req.text()
	params, err := s.interpreter.Interpret(r.Context(), q)
	if err != nil {
		s.logger.Error("query interpretation failed", zap.String("query", q), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	hits := query.Run(s.store.Load(r.Context()), params)
	s.metrics.RecordQuery("query")
	s.respondJSON(w, http.StatusOK, map[string]any{
		"parameters": params,
		"results":    hits,
		"total":      len(hits),
	})
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]any{
		"categorias": classify.CatalogFrom(s.store.Load(r.Context())),
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.metrics.RecordQuery("stats")
	s.respondJSON(w, http.StatusOK, stats.Compute(s.store.Load(r.Context())))
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	rep := report.Build(s.store.Load(r.Context()), time.Now())
	switch format := r.URL.Query().Get("format"); format {
	case "", "json":
		w.Header().Set("Content-Type", "application/json")
		if err := rep.WriteJSON(w); err != nil {
			s.logger.Error("report export failed", zap.Error(err))
		}
	case "xlsx":
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="reporte_documentos.xlsx"`)
		if err := rep.WriteXLSX(w); err != nil {
			s.logger.Error("report export failed", zap.Error(err))
		}
	default:
		s.respondError(w, http.StatusBadRequest, "unknown report format")
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
