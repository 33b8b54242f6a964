package http

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/gorilla/websocket"

	apierrors "interviewcheck/internal/errors"
	"interviewcheck/internal/middleware"
	ws "interviewcheck/internal/websocket"
	api "interviewcheck/pkg/contracts/api/v1"
	"interviewcheck/pkg/contracts/events"
)

// maxEvaluationBody caps the JSON body of a single evaluation save
const maxEvaluationBody = 1 << 20

// InterviewerHandler serves one interviewer's evaluations, progress, export and timers
type InterviewerHandler struct {
	service      InterviewService
	validator    *middleware.ValidationMiddleware
	upgrader     *websocket.Upgrader
	stream       ws.StreamConfig
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewInterviewerHandler creates a new interviewer handler. Failed timer
// stream handshakes are answered by errorHandler as WEBSOCKET_UPGRADE_FAILED.
func NewInterviewerHandler(service InterviewService, validator *middleware.ValidationMiddleware, upgrader *websocket.Upgrader, stream ws.StreamConfig, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *InterviewerHandler {
	u := *upgrader
	u.Error = func(w http.ResponseWriter, r *http.Request, status int, reason error) {
		errorHandler.HandleError(w, r, apierrors.ErrWebSocketUpgrade.WithStatus(status).WithDetails(reason.Error()))
	}

	return &InterviewerHandler{
		service:      service,
		validator:    validator,
		upgrader:     &u,
		stream:       stream,
		logger:       logger.With(slog.String("component", "interviewer_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the routes mounted under /api/interviewers
func (h *InterviewerHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Route("/{interviewer}", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(render.SetContentType(render.ContentTypeJSON))

			r.Get("/evaluations", h.ListEvaluations)
			r.Get("/evaluations/{candidateID}", h.GetEvaluation)
			r.With(middleware.ContentTypeValidator("application/json"), middleware.LimitBody(maxEvaluationBody)).
				Put("/evaluations/{candidateID}", h.SaveEvaluation)
			r.Delete("/evaluations/{candidateID}", h.DeleteEvaluation)
			r.Get("/progress", h.Progress)

			r.Get("/timer/{candidateID}", h.timerAction(h.service.Timer))
			r.Post("/timer/{candidateID}/start", h.StartTimer)
			r.Post("/timer/{candidateID}/pause", h.timerAction(h.service.PauseTimer))
			r.Post("/timer/{candidateID}/reset", h.timerAction(h.service.ResetTimer))
		})

		r.Get("/export", h.Export)
		r.Get("/timer/{candidateID}/ws", h.TimerStream)
	})

	return r
}

// ListEvaluations handles GET /api/interviewers/{interviewer}/evaluations
func (h *InterviewerHandler) ListEvaluations(w http.ResponseWriter, r *http.Request) {
	table, err := h.service.Evaluations(r.Context(), urlParam(r, "interviewer"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, table)
}

// GetEvaluation handles GET /api/interviewers/{interviewer}/evaluations/{candidateID}
func (h *InterviewerHandler) GetEvaluation(w http.ResponseWriter, r *http.Request) {
	e, err := h.service.Evaluation(r.Context(), urlParam(r, "interviewer"), urlParam(r, "candidateID"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, e)
}

// SaveEvaluation handles PUT /api/interviewers/{interviewer}/evaluations/{candidateID}
func (h *InterviewerHandler) SaveEvaluation(w http.ResponseWriter, r *http.Request) {
	var req api.EvaluationRequest
	if err := h.validator.DecodeJSON(r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	interviewer, candidateID := urlParam(r, "interviewer"), urlParam(r, "candidateID")
	e, err := h.service.SaveEvaluation(r.Context(), interviewer, candidateID, req)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "evaluation saved",
		slog.String("interviewer", interviewer),
		slog.String("candidate_id", candidateID))
	render.JSON(w, r, e)
}

// DeleteEvaluation handles DELETE /api/interviewers/{interviewer}/evaluations/{candidateID}.
// Without ?confirm= it answers 202 with a token; repeating the call with the
// token deletes the row.
func (h *InterviewerHandler) DeleteEvaluation(w http.ResponseWriter, r *http.Request) {
	req := api.DeleteRequest{Confirm: r.URL.Query().Get("confirm")}
	if err := h.validator.ValidateStruct(&req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	interviewer, candidateID := urlParam(r, "interviewer"), urlParam(r, "candidateID")

	if req.Confirm == "" {
		conf, err := h.service.RequestDelete(r.Context(), interviewer, candidateID)
		if err != nil {
			h.errorHandler.HandleError(w, r, err)
			return
		}
		respond(w, r, http.StatusAccepted, map[string]interface{}{
			"status":     "confirmation_required",
			"confirm":    conf.Token,
			"expires_at": conf.ExpiresAt,
		})
		return
	}

	if err := h.service.ConfirmDelete(r.Context(), interviewer, candidateID, req.Confirm); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"status":       "deleted",
		"interviewer":  interviewer,
		"candidate_id": candidateID,
	})
}

// Progress handles GET /api/interviewers/{interviewer}/progress
func (h *InterviewerHandler) Progress(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.Progress(r.Context(), urlParam(r, "interviewer"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, p)
}

// Export handles GET /api/interviewers/{interviewer}/export
func (h *InterviewerHandler) Export(w http.ResponseWriter, r *http.Request) {
	interviewer := urlParam(r, "interviewer")

	var buf bytes.Buffer
	if err := h.service.Export(r.Context(), interviewer, &buf); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	writeWorkbook(w, h.service.ExportFilename(interviewer), &buf)
}

type timerFunc func(ctx context.Context, interviewer, candidateID string) (events.TimerSnapshot, error)

func (h *InterviewerHandler) timerAction(fn timerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := fn(r.Context(), urlParam(r, "interviewer"), urlParam(r, "candidateID"))
		if err != nil {
			h.errorHandler.HandleError(w, r, err)
			return
		}
		render.JSON(w, r, snap)
	}
}

// StartTimer handles POST /api/interviewers/{interviewer}/timer/{candidateID}/start.
// The interview length may be given as ?minutes= or a {"minutes":n} body.
func (h *InterviewerHandler) StartTimer(w http.ResponseWriter, r *http.Request) {
	req, err := h.decodeTimerStart(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	snap, err := h.service.StartTimer(r.Context(), urlParam(r, "interviewer"), urlParam(r, "candidateID"), req.Minutes)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, snap)
}

func (h *InterviewerHandler) decodeTimerStart(r *http.Request) (api.TimerStartRequest, error) {
	var req api.TimerStartRequest
	if r.ContentLength != 0 {
		err := h.validator.DecodeJSON(r, &req)
		return req, err
	}

	if v := r.URL.Query().Get("minutes"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return req, apierrors.InvalidRequestWithError(fmt.Errorf("minutes: %w", err))
		}
		req.Minutes = n
	}
	return req, h.validator.ValidateStruct(&req)
}

// TimerStream handles GET /api/interviewers/{interviewer}/timer/{candidateID}/ws
func (h *InterviewerHandler) TimerStream(w http.ResponseWriter, r *http.Request) {
	interviewer, candidateID := urlParam(r, "interviewer"), urlParam(r, "candidateID")

	// fail before upgrading so the client gets a problem response
	if _, err := h.service.Timer(r.Context(), interviewer, candidateID); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// answered through the upgrader's Error hook
		return
	}

	snapshot := func(ctx context.Context) (events.TimerSnapshot, error) {
		return h.service.Timer(ctx, interviewer, candidateID)
	}
	stream := ws.NewTimerStream(ws.NewConnectionWrapper(conn), snapshot, h.stream, h.logger)
	if err := stream.Run(r.Context()); err != nil {
		h.logger.DebugContext(r.Context(), "timer stream ended",
			slog.String("interviewer", interviewer),
			slog.String("candidate_id", candidateID),
			slog.String("error", err.Error()))
	}
}
