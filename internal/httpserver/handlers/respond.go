package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/MrSnakeDoc/aquatrack/internal/domain"
	"github.com/MrSnakeDoc/aquatrack/internal/httpserver/deps"
	"github.com/MrSnakeDoc/aquatrack/internal/logger"
	"github.com/MrSnakeDoc/aquatrack/internal/store"
	"github.com/MrSnakeDoc/aquatrack/internal/suggest"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
	Kind  string `json:"kind,omitempty"`
}

func writeJSON(w http.ResponseWriter, d deps.Deps, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		d.Logger.Debug("failed to write response", logger.Error(err))
	}
}

// writeError maps domain errors to status codes.
func writeError(w http.ResponseWriter, d deps.Deps, err error) {
	var verr *domain.ValidationError
	var serr *suggest.Error

	switch {
	case errors.As(err, &verr):
		writeJSON(w, d, http.StatusUnprocessableEntity, errorResponse{Error: verr.Message, Field: verr.Field})
	case errors.Is(err, store.ErrNotFound):
		writeJSON(w, d, http.StatusNotFound, errorResponse{Error: "aquarium not found"})
	case errors.Is(err, store.ErrDuplicateID):
		writeJSON(w, d, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, suggest.ErrUnknownProvider):
		writeJSON(w, d, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.As(err, &serr):
		status := http.StatusBadGateway
		if serr.Kind == suggest.KindCredential {
			status = http.StatusServiceUnavailable
		}
		d.Logger.Warn("suggestion provider failed",
			logger.String("provider", serr.Provider),
			logger.String("kind", string(serr.Kind)),
			logger.Error(serr.Err))
		writeJSON(w, d, status, errorResponse{Error: err.Error(), Kind: string(serr.Kind)})
	default:
		d.Logger.Error("request failed", logger.Error(err))
		writeJSON(w, d, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

// decodeBody reads a JSON body into v. It writes the 400 itself and returns
// false on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, d deps.Deps, v any) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		writeJSON(w, d, http.StatusBadRequest, errorResponse{Error: "invalid JSON body: " + err.Error()})
		return false
	}
	return true
}
