package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "interviewcheck/internal/errors"
	"interviewcheck/internal/middleware"
	api "interviewcheck/pkg/contracts/api/v1"
)

// RosterHandler serves the candidate list
type RosterHandler struct {
	service      InterviewService
	validator    *middleware.ValidationMiddleware
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewRosterHandler creates a new roster handler
func NewRosterHandler(service InterviewService, validator *middleware.ValidationMiddleware, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *RosterHandler {
	return &RosterHandler{
		service:      service,
		validator:    validator,
		logger:       logger.With(slog.String("component", "roster_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the roster routes
func (h *RosterHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/", h.List)
	r.Get("/{candidateID}", h.Get)
	return r
}

// List handles GET /api/roster?q=&pin_older=
func (h *RosterHandler) List(w http.ResponseWriter, r *http.Request) {
	req := api.RosterListRequest{
		Query:    r.URL.Query().Get("q"),
		PinOlder: queryBool(r, "pin_older"),
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	entries := h.service.Roster(r.Context(), req)
	respondList(w, r, entries, len(entries))
}

// Get handles GET /api/roster/{candidateID}
func (h *RosterHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.Candidate(r.Context(), urlParam(r, "candidateID"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, c)
}
