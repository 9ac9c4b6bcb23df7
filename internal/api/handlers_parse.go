package api

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/dgallion1/clausegest/internal/convert"
	"github.com/dgallion1/clausegest/internal/output"
)

// handleParse segments one document synchronously and returns its clauses.
// The document is either a multipart "file" field or the raw request body,
// named by the filename query parameter (default document.txt). format
// selects json, yaml or report.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024)

	q := r.URL.Query()
	format := q.Get("format")
	if format != "" && format != "json" && format != "yaml" && format != "yml" && format != "report" {
		jsonError(w, fmt.Sprintf("unknown format %q", format), http.StatusBadRequest)
		return
	}

	data, filename, title, err := s.readParseInput(r)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return
	}

	res, err := s.orchestrator.Worker().Segment(data, filename, title)
	if err != nil {
		s.log.Warn("parse failed", "filename", filename, "error", err)
		jsonError(w, err.Error(), conversionStatus(err))
		return
	}

	w.Header().Set("X-Clause-Count", strconv.Itoa(len(res.Records)))
	if format == "report" {
		reportTitle := filename
		if len(res.Records) > 0 {
			reportTitle = res.Records[0].Metadata.SourceDocumentTitle
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := output.RenderReport(w, reportTitle, res.Records, res.Index); err != nil {
			s.log.Error("render report", "filename", filename, "error", err)
		}
		return
	}

	w.Header().Set("Content-Type", output.ContentType(format))
	if err := output.Write(w, format, res.Records); err != nil {
		s.log.Error("write clauses", "filename", filename, "error", err)
	}
}

func (s *Server) readParseInput(r *http.Request) (data []byte, filename, title string, err error) {
	q := r.URL.Query()
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	if strings.HasPrefix(mediaType, "multipart/") {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			return nil, "", "", fmt.Errorf("invalid multipart form: %w", err)
		}
		defer r.MultipartForm.RemoveAll()

		file, header, err := r.FormFile("file")
		if err != nil {
			return nil, "", "", fmt.Errorf("file is required: %w", err)
		}
		defer file.Close()

		data, err = io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
		if err != nil {
			return nil, "", "", fmt.Errorf("failed to read file: %w", err)
		}
		title = r.FormValue("title")
		if title == "" {
			title = q.Get("title")
		}
		return data, sanitizeFilename(header.Filename), title, nil
	}

	data, err = io.ReadAll(io.LimitReader(r.Body, s.cfg.MaxUploadBytes+1))
	if err != nil {
		return nil, "", "", fmt.Errorf("failed to read body: %w", err)
	}
	filename = q.Get("filename")
	if filename == "" {
		filename = "document.txt"
	}
	return data, sanitizeFilename(filename), q.Get("title"), nil
}

// conversionStatus maps converter failure kinds to HTTP status codes.
func conversionStatus(err error) int {
	switch {
	case errors.Is(err, convert.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, convert.ErrConverterUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, convert.ErrConversionFailed):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
