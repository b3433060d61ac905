package delivery

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/Vovarama1992/pdf_ziper/internal/config"
	"github.com/Vovarama1992/pdf_ziper/internal/convert"
	json "github.com/goccy/go-json"
)

type Handler struct {
	converter *convert.Service
	cfg       *config.Config
	log       *logger.ZapLogger
}

func NewHandler(converter *convert.Service, cfg *config.Config, log *logger.ZapLogger) *Handler {
	return &Handler{converter: converter, cfg: cfg, log: log}
}

func (h *Handler) Root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"service": "pdf_ziper",
		"version": "1.0.0",
		"endpoints": map[string]string{
			"/convert": "POST - convert a PDF to a ZIP of JPEGs",
			"/health":  "GET - health check",
		},
	})
}

func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"limits": map[string]any{
			"max_size":   h.cfg.MaxFileSize,
			"max_pages":  h.cfg.MaxPages,
			"quality":    h.cfg.ImageQuality,
			"resolution": h.cfg.ImageDPI,
		},
		"security": map[string]any{
			"auth_enabled":          h.cfg.AuthEnabled(),
			"ip_allowlist_enabled":  h.cfg.AllowlistEnabled(),
			"rate_limit_per_minute": h.cfg.RateLimitPerMinute,
		},
	})
}

func (h *Handler) Convert(w http.ResponseWriter, r *http.Request) {
	req, err := h.buildRequest(r)
	if err != nil {
		h.respondError(w, err)
		return
	}

	arch, err := h.converter.Convert(r.Context(), req)
	if err != nil {
		h.respondError(w, err)
		return
	}

	filename := fmt.Sprintf("%s_%s.zip", arch.BaseName, req.CorrelationID)
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", fmt.Sprint(len(arch.Data)))
	w.WriteHeader(http.StatusOK)
	w.Write(arch.Data)
}

// buildRequest maps the three accepted body shapes onto exactly one
// acquisition method. Ambiguity inside a JSON body (url together with
// storage fields) survives into the request and is rejected by the
// orchestrator's source check.
func (h *Handler) buildRequest(r *http.Request) (*convert.ConversionRequest, error) {
	ct := r.Header.Get("Content-Type")

	switch {
	case strings.HasPrefix(ct, "multipart/form-data"):
		if err := r.ParseMultipartForm(h.cfg.MaxFileSize); err != nil {
			return nil, convert.Wrapf(convert.KindBadRequest, err, "invalid multipart body")
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			return nil, convert.Wrapf(convert.KindBadRequest, err, "missing file field")
		}
		defer file.Close()

		data, err := io.ReadAll(io.LimitReader(file, h.cfg.MaxFileSize+1))
		if err != nil {
			return nil, convert.Wrapf(convert.KindBadRequest, err, "failed to read upload")
		}
		return &convert.ConversionRequest{Upload: data, UploadFilename: header.Filename}, nil

	case strings.HasPrefix(ct, "application/json"):
		var body struct {
			URL         string `json:"url"`
			FileID      string `json:"file_id"`
			PDFFileName string `json:"pdf_file_name"`
			SupabaseURL string `json:"supabase_url"`
			ServiceKey  string `json:"service_key"`
			Bucket      string `json:"bucket"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return nil, convert.Wrapf(convert.KindBadRequest, err, "invalid json")
		}

		req := &convert.ConversionRequest{URL: body.URL}
		if body.SupabaseURL != "" || body.FileID != "" || body.PDFFileName != "" {
			req.Storage = &convert.StorageRef{
				Endpoint:   strings.TrimSuffix(body.SupabaseURL, "/"),
				ServiceKey: body.ServiceKey,
				Bucket:     body.Bucket,
				ObjectName: body.PDFFileName,
				FileID:     body.FileID,
			}
		}
		return req, nil

	case strings.HasPrefix(ct, "application/pdf"):
		data, err := io.ReadAll(io.LimitReader(r.Body, h.cfg.MaxFileSize+1))
		if err != nil {
			return nil, convert.Wrapf(convert.KindBadRequest, err, "failed to read body")
		}
		return &convert.ConversionRequest{Upload: data}, nil

	default:
		return nil, convert.Errf(convert.KindBadRequest, "no PDF provided")
	}
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	kind := convert.KindOf(err)
	status := statusFor(kind)
	if status >= http.StatusInternalServerError {
		h.log.Log(logger.LogEntry{
			Level:   "error",
			Message: "conversion failed with " + kind.String(),
			Service: "pdf_ziper",
			Error:   err,
		})
	}
	writeError(w, status, convert.ClientMessage(err))
}

func statusFor(kind convert.Kind) int {
	switch kind {
	case convert.KindBadRequest:
		return http.StatusBadRequest
	case convert.KindSizeExceeded:
		return http.StatusRequestEntityTooLarge
	case convert.KindInvalidDocument:
		return http.StatusUnprocessableEntity
	case convert.KindFetchFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
