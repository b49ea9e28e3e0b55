package classifier

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"loan-predictor/domain"
)

type PredictRequest struct {
	Features domain.FeatureRow `json:"features"`
}

type PredictResponse struct {
	Label       int     `json:"label"`
	Probability float64 `json:"probability"`
	Version     string  `json:"version"`
}

// Remote asks a model-serving endpoint for the prediction.
type Remote struct {
	baseURL    string
	httpClient *http.Client
}

func NewRemote(baseURL string, timeout time.Duration) *Remote {
	return &Remote{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Version identifies the endpoint only. A model swapped behind the same URL
// keeps the same version, so callers must not cache predictions by it.
func (r *Remote) Version() string {
	return "remote:" + r.baseURL
}

func (r *Remote) Predict(ctx context.Context, features domain.Features) (domain.Prediction, error) {
	body, err := json.Marshal(PredictRequest{Features: features.Row()})
	if err != nil {
		return domain.Prediction{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return domain.Prediction{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return domain.Prediction{}, fmt.Errorf("call model server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return domain.Prediction{}, fmt.Errorf("model server error (status %d): %s", resp.StatusCode, string(excerpt))
	}

	var out PredictResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return domain.Prediction{}, fmt.Errorf("decode model response: %w", err)
	}

	label := domain.Label(out.Label)
	if label != domain.LabelApproved && label != domain.LabelRejected {
		return domain.Prediction{}, fmt.Errorf("model server returned unknown label %d", out.Label)
	}

	version := out.Version
	if version == "" {
		version = r.Version()
	}
	return domain.Prediction{
		Label:        label,
		Confidence:   out.Probability,
		ModelVersion: version,
	}, nil
}
