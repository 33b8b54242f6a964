package http

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "interviewcheck/internal/errors"
	"interviewcheck/internal/merge"
	"interviewcheck/internal/middleware"
	"interviewcheck/internal/services"
	api "interviewcheck/pkg/contracts/api/v1"
)

// uploadField is the multipart field carrying evaluation workbooks
const uploadField = "files"

// MergeHandler merges uploaded or on-disk evaluation workbooks
type MergeHandler struct {
	service      MergeService
	validator    *middleware.ValidationMiddleware
	maxUpload    int64
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewMergeHandler creates a new merge handler. maxUpload caps the request body in bytes.
func NewMergeHandler(service MergeService, validator *middleware.ValidationMiddleware, maxUpload int64, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *MergeHandler {
	return &MergeHandler{
		service:      service,
		validator:    validator,
		maxUpload:    maxUpload,
		logger:       logger.With(slog.String("component", "merge_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the routes mounted under /api/merge
func (h *MergeHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.With(render.SetContentType(render.ContentTypeJSON)).Post("/", h.Merge)
	r.Post("/export", h.Export)
	r.With(render.SetContentType(render.ContentTypeJSON)).Post("/results", h.MergeResults)
	r.Post("/results/export", h.ExportResults)
	return r
}

// Merge handles POST /api/merge (multipart, field "files")
func (h *MergeHandler) Merge(w http.ResponseWriter, r *http.Request) {
	sources, req, err := h.readUpload(w, r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	h.merge(w, r, sources, req)
}

// Export handles POST /api/merge/export?kind=full|summary
func (h *MergeHandler) Export(w http.ResponseWriter, r *http.Request) {
	sources, req, err := h.readUpload(w, r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	h.export(w, r, sources, req)
}

// MergeResults handles POST /api/merge/results: merges the result files in the output directory
func (h *MergeHandler) MergeResults(w http.ResponseWriter, r *http.Request) {
	req, err := h.options(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	sources, err := h.service.ResultSources(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	h.merge(w, r, sources, req)
}

// ExportResults handles POST /api/merge/results/export
func (h *MergeHandler) ExportResults(w http.ResponseWriter, r *http.Request) {
	req, err := h.options(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	sources, err := h.service.ResultSources(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	h.export(w, r, sources, req)
}

func (h *MergeHandler) merge(w http.ResponseWriter, r *http.Request, sources []merge.Source, req api.MergeRequest) {
	res, err := h.service.Merge(r.Context(), sources, req)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, res)
}

func (h *MergeHandler) export(w http.ResponseWriter, r *http.Request, sources []merge.Source, req api.MergeRequest) {
	var buf bytes.Buffer
	if err := h.service.Export(r.Context(), sources, req, &buf); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	kind := req.Kind
	if kind == "" {
		kind = services.ExportFull
	}
	writeWorkbook(w, fmt.Sprintf("merged_%s_%s.xlsx", kind, time.Now().Format("20060102_150405")), &buf)
}

// readUpload parses the multipart body into in-memory sources, in upload order.
func (h *MergeHandler) readUpload(w http.ResponseWriter, r *http.Request) ([]merge.Source, api.MergeRequest, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) || errors.Is(err, multipart.ErrMessageTooLarge) {
			return nil, api.MergeRequest{}, apierrors.ErrPayloadTooLarge
		}
		return nil, api.MergeRequest{}, apierrors.InvalidRequestWithError(err)
	}
	defer r.MultipartForm.RemoveAll()

	req, err := h.options(r)
	if err != nil {
		return nil, req, err
	}

	headers := r.MultipartForm.File[uploadField]
	if len(headers) == 0 {
		return nil, req, apierrors.ErrMissingParameter.WithDetails(map[string]string{"field": uploadField})
	}
	sources := make([]merge.Source, 0, len(headers))
	for _, fh := range headers {
		data, err := readPart(fh)
		if err != nil {
			return nil, req, apierrors.InvalidRequestWithError(err)
		}
		sources = append(sources, merge.FromBytes(fh.Filename, data))
	}

	h.logger.InfoContext(r.Context(), "merge upload received",
		slog.Int("files", len(sources)),
		slog.String("sort_by", req.SortBy),
		slog.Any("only", req.Only))
	return sources, req, nil
}

// options reads the merge options from the query string or form fields.
func (h *MergeHandler) options(r *http.Request) (api.MergeRequest, error) {
	if err := r.ParseForm(); err != nil {
		return api.MergeRequest{}, apierrors.InvalidRequestWithError(err)
	}

	asc, _ := strconv.ParseBool(r.Form.Get("asc"))
	req := api.MergeRequest{
		SortBy:    r.Form.Get("sort_by"),
		Ascending: asc,
		Kind:      r.Form.Get("kind"),
	}
	for _, v := range r.Form["only"] {
		for _, code := range strings.Split(v, ",") {
			if code = strings.TrimSpace(code); code != "" {
				req.Only = append(req.Only, code)
			}
		}
	}

	if err := h.validator.ValidateStruct(&req); err != nil {
		return req, err
	}
	return req, nil
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload %s: %w", fh.Filename, err)
	}
	defer f.Close()
	return io.ReadAll(f)
}
