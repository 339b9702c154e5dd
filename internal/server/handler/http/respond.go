package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	domainerrors "github.com/atinyakov/HumiTrack/internal/errors"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError answers with the domain error's status and message as plain text.
// Anything that is not a domain error is reported as an internal error.
func writeError(w http.ResponseWriter, log *zap.Logger, err error) {
	var de *domainerrors.Error
	if !errors.As(err, &de) {
		de = domainerrors.Wrap(err, domainerrors.CodeInternal, "internal error")
	}
	status := de.HTTPStatus()
	if status >= http.StatusInternalServerError {
		if log != nil {
			log.Error("request failed", zap.Error(err))
		}
		http.Error(w, "internal error", status)
		return
	}
	http.Error(w, de.Message, status)
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return domainerrors.Validation("invalid request body")
	}
	return nil
}
