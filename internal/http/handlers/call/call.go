// Package call реализует HTTP-обработчик вызова именованной операции.
//
// Тело запроса имеет вид {"data": {...}}, имя операции берётся из URL.
// Ответ всегда является конвертом response.Envelope.
package call

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/station-directory/internal/dispatcher"
	"github.com/magabrotheeeer/station-directory/internal/http/response"
	"github.com/magabrotheeeer/station-directory/internal/lib/sl"
)

// Request тело запроса.
type Request struct {
	Data json.RawMessage `json:"data"`
}

// Dispatcher выполняет операцию по имени.
type Dispatcher interface {
	Call(ctx context.Context, name string, payload json.RawMessage) (response.Envelope, error)
}

// Handler обрабатывает POST /api/v1/call/{operation}.
type Handler struct {
	log        *slog.Logger
	dispatcher Dispatcher
}

// New создает новый Handler.
func New(log *slog.Logger, dispatcher Dispatcher) *Handler {
	return &Handler{
		log:        log,
		dispatcher: dispatcher,
	}
}

// ServeHTTP разбирает тело, вызывает операцию и отдаёт конверт.
// Неизвестная операция даёт 404, неразборчивое тело 400,
// отсутствие идентификатора у закрытой операции 401.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.call.ServeHTTP"

	name := chi.URLParam(r, "operation")
	log := h.log.With(
		slog.String("op", op),
		slog.String("operation", name),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := render.DecodeJSON(r.Body, &req); err != nil && !errors.Is(err, io.EOF) {
		log.Warn("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Fail(response.CodeInvalidArgument, "failed to decode request"))
		return
	}

	env, err := h.dispatcher.Call(r.Context(), name, req.Data)
	if errors.Is(err, dispatcher.ErrUnknownOperation) {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Fail(response.CodeNotFound, "unknown operation "+name))
		return
	}
	if err != nil {
		log.Error("failed to call operation", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Fail(response.CodeInternal, "internal error"))
		return
	}

	if env.Code == response.CodeUnauthenticated {
		render.Status(r, http.StatusUnauthorized)
	}
	render.JSON(w, r, env)
}
