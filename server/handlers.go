package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/theoremus-urban-solutions/transit-query-resolver/gazetteer"
	"github.com/theoremus-urban-solutions/transit-query-resolver/resolver"
)

// Resolver is the engine surface the API needs.
type Resolver interface {
	Resolve(ctx context.Context, msg resolver.Message) (*resolver.ResolvedRequest, error)
}

type handler struct {
	resolver Resolver
	idx      *gazetteer.Index
	logger   *zap.Logger
}

type healthResponse struct {
	Status string `json:"status"`
	Stops  int    `json:"stops"`
	Lines  int    `json:"lines"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// failurePayload is the wire form of a resolution failure: the failure's
// own fields plus the rendered clarification prompt.
type failurePayload struct {
	*resolver.Failure
	Prompt string `json:"prompt"`
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status: "ok",
		Stops:  h.idx.StopCount(),
		Lines:  h.idx.LineCount(),
	})
}

func (h *handler) handleResolve(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()
	w.Header().Set("X-Request-ID", requestID)

	var msg resolver.Message
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	// The mode is client input; reject it here so engine errors left over
	// are genuinely internal.
	if _, err := gazetteer.ParseMode(string(msg.Mode)); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	res, err := h.resolver.Resolve(r.Context(), msg)
	if err != nil {
		var f *resolver.Failure
		if errors.As(err, &f) {
			status := http.StatusUnprocessableEntity
			if f.Retryable() {
				status = http.StatusServiceUnavailable
			}
			h.logger.Info("resolution failed",
				zap.String("request_id", requestID),
				zap.String("kind", string(f.Kind)),
				zap.String("mode", string(msg.Mode)))
			writeJSON(w, status, failurePayload{Failure: f, Prompt: f.Prompt()})
			return
		}
		h.logger.Error("resolution error",
			zap.String("request_id", requestID),
			zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}

	h.logger.Info("resolved",
		zap.String("request_id", requestID),
		zap.String("mode", string(res.Mode)),
		zap.String("line", res.LineID),
		zap.String("stop", res.StopID))
	writeJSON(w, http.StatusOK, res)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
