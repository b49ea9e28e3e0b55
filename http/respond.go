package http

import (
	"bytes"
	"net/http"

	"github.com/goccy/go-json"
	log "github.com/sirupsen/logrus"

	"loan-predictor/apperr"
)

// writeJSON encodes into a buffer first so a failed encode can still become
// a 500 instead of a half-written body.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		log.WithFields(log.Fields{
			"request_id": RequestIDFromContext(r.Context()),
			"error":      err,
		}).Error("encode response")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		log.WithField("error", err).Warn("write response")
	}
}

type errorBody struct {
	Error     *apperr.Error `json:"error"`
	RequestID string        `json:"request_id,omitempty"`
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := apperr.As(err)
	if !ok {
		appErr = apperr.Wrap(err, apperr.ErrInternal, "")
	}

	entry := log.WithFields(log.Fields{
		"request_id": RequestIDFromContext(r.Context()),
		"code":       appErr.Code,
		"error":      err,
	})
	if appErr.Status >= http.StatusInternalServerError {
		entry.Error("request failed")
	} else {
		entry.Debug("request rejected")
	}

	writeJSON(w, r, appErr.Status, errorBody{
		Error:     appErr,
		RequestID: RequestIDFromContext(r.Context()),
	})
}
