package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"paperinsight/internal/util"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, err error) {
	writeJSON(w, statusForError(err), map[string]any{"detail": err.Error()})
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, util.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, util.ErrNotFound), errors.Is(err, util.ErrNotProcessed):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
