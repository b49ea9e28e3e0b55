package repository

import (
	"encoding/binary"
	"math"
	"strconv"

	"github.com/cespare/xxhash/v2"

	"loan-predictor/domain"
)

const predictionKeyPrefix = "loan:prediction:"

// PredictionKey identifies a prediction by model version and the exact
// feature row that produced it.
func PredictionKey(modelVersion string, features domain.Features) string {
	d := xxhash.New()
	var buf [8]byte
	for _, v := range features {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		_, _ = d.Write(buf[:])
	}
	return predictionKeyPrefix + modelVersion + ":" + strconv.FormatUint(d.Sum64(), 16)
}
