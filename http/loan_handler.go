package http

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/goccy/go-json"

	"loan-predictor/apperr"
	"loan-predictor/domain"
	"loan-predictor/service"
)

const maxBodyBytes = 64 << 10

type LoanHandler struct {
	service *service.DecisionService
}

func NewLoanHandler(service *service.DecisionService) *LoanHandler {
	return &LoanHandler{service: service}
}

// Predict decides one application. Omitted fields take the form defaults.
func (h *LoanHandler) Predict(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, r, apperr.New("method_not_allowed", http.StatusMethodNotAllowed, "method not allowed"))
		return
	}

	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		writeError(w, r, apperr.ErrUnsupportedMedia)
		return
	}

	opts := service.DecideOptions{}
	if raw := r.URL.Query().Get("include_input"); raw != "" {
		include, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, r, apperr.Wrap(err, apperr.ErrBadRequest, "include_input must be a boolean"))
			return
		}
		opts.IncludeInput = include
	}

	applicant := domain.DefaultApplicant()
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&applicant); err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("empty body")
		}
		writeError(w, r, apperr.Wrap(err, apperr.ErrBadRequest, ""))
		return
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		writeError(w, r, apperr.New(apperr.ErrBadRequest.Code, http.StatusBadRequest,
			"request body must contain a single JSON object"))
		return
	}

	decision, err := h.service.Decide(r.Context(), applicant, opts)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, decision)
}

func (h *LoanHandler) Schema(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, h.service.Schema())
}

type healthResponse struct {
	Status       string `json:"status"`
	ModelVersion string `json:"model_version"`
}

func (h *LoanHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, healthResponse{
		Status:       "ok",
		ModelVersion: h.service.ModelVersion(),
	})
}
