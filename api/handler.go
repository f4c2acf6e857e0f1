// Package api exposes the analysis pipeline over HTTP for deployments
// where recordings are uploaded rather than read from disk.
package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/pitchpal/pitch-analyzer/orchestrator"
)

const maxUploadBytes = 64 << 20

type runner interface {
	Run(ctx context.Context, path string) orchestrator.AnalysisReport
}

type Handlers struct {
	pipeline runner
	log      *logrus.Logger
}

func NewHandlers(pipeline runner, log *logrus.Logger) *Handlers {
	return &Handlers{pipeline: pipeline, log: log}
}

func (h *Handlers) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/analyze", h.AnalyzeHandler).Methods(http.MethodPost)
	r.HandleFunc("/healthz", h.HealthHandler).Methods(http.MethodGet)
	return r
}

// AnalyzeHandler accepts a multipart upload, runs the pipeline on it
// and responds with the report document. The uploaded temp file is
// removed on every exit path.
func (h *Handlers) AnalyzeHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "missing file upload: "+err.Error())
		return
	}
	defer file.Close()

	ext := filepath.Ext(header.Filename)
	if ext == "" {
		ext = ".bin"
	}
	tmp, err := os.CreateTemp("", "pitchpal_upload_*"+ext)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "could not stage upload: "+err.Error())
		return
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		h.writeError(w, http.StatusInternalServerError, "could not stage upload: "+err.Error())
		return
	}
	tmp.Close()

	report := h.pipeline.Run(r.Context(), tmp.Name())
	// The uploaded name is more useful to the caller than the staging
	// path.
	report.FileInfo.Name = header.Filename
	report.FileInfo.Path = header.Filename

	w.Header().Set("Content-Type", "application/json")
	if err := orchestrator.WriteReport(w, report); err != nil {
		h.log.WithError(err).Error("writing report response")
	}
}

func (h *Handlers) HealthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (h *Handlers) writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{"success": false, "error": msg})
}
