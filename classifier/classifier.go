// Package classifier holds the loan approval models. The rest of the service
// treats a model as an opaque function from an encoded applicant row to a
// label.
package classifier

import (
	"context"

	"loan-predictor/domain"
)

type Classifier interface {
	Predict(ctx context.Context, features domain.Features) (domain.Prediction, error)
	Version() string
}
