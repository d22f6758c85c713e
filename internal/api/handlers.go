package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/strucdoc/strata/export"
	"github.com/strucdoc/strata/govern"
	"github.com/strucdoc/strata/source"
	"github.com/strucdoc/strata/trace"
)

// ConditionsHeader carries recoverable condition names alongside the
// response. The body itself stays on the fixed outline contract.
const ConditionsHeader = "X-Strata-Conditions"

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	usage := govern.SampleUsage()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":     "ok",
		"heap_mb":    usage.HeapBytes >> 20,
		"goroutines": usage.Goroutines,
	})
}

func (s *Server) handleOutline(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxUploadBytes+1<<20)

	filename, data, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	src, err := source.ForFile(filename)
	if err != nil {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return
	}

	// Loaders read from disk; stage the upload to a temp file.
	tmp, err := stageUpload(filename, data)
	if err != nil {
		jsonError(w, "failed to stage upload", http.StatusInternalServerError)
		return
	}
	defer os.Remove(tmp)

	ctx, stop := s.governor.Guard(r.Context())
	defer stop()

	pages, err := src.Load(ctx, tmp)
	if err != nil {
		if s.store != nil {
			s.store.RecordAsync(trace.FailedRun(filename, err))
		}
		jsonError(w, "parse failed: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}

	res := s.engine.Extract(ctx, pages)
	if s.store != nil {
		s.store.RecordAsync(trace.NewRun(filename, res))
	}

	out, err := export.MarshalOutline(res.Outline)
	if err != nil {
		jsonError(w, "failed to encode outline", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set(ConditionsHeader, res.Conditions.String())
	w.Write(out)
}

// readUpload accepts either a multipart form with a "file" field or a
// raw body with a ?filename= hint. It writes the error response itself
// when ok is false.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (string, []byte, bool) {
	var filename string
	var data []byte

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
			return "", nil, false
		}
		defer r.MultipartForm.RemoveAll()

		file, header, err := r.FormFile("file")
		if err != nil {
			jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
			return "", nil, false
		}
		defer file.Close()

		data, err = io.ReadAll(io.LimitReader(file, s.cfg.Server.MaxUploadBytes+1))
		if err != nil {
			jsonError(w, "failed to read file", http.StatusInternalServerError)
			return "", nil, false
		}
		filename = sanitizeFilename(header.Filename)
	} else {
		hint := r.URL.Query().Get("filename")
		if hint == "" {
			jsonError(w, "filename query parameter is required for raw uploads", http.StatusBadRequest)
			return "", nil, false
		}
		var err error
		data, err = io.ReadAll(r.Body)
		if err != nil {
			jsonError(w, "failed to read body", http.StatusBadRequest)
			return "", nil, false
		}
		filename = sanitizeFilename(hint)
	}

	if int64(len(data)) > s.cfg.Server.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.Server.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return "", nil, false
	}
	return filename, data, true
}

func stageUpload(filename string, data []byte) (string, error) {
	tmp, err := os.CreateTemp("", "strata-*"+filepath.Ext(filename))
	if err != nil {
		return "", err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
