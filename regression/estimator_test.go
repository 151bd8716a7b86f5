package regression

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestModelType(t *testing.T) {
	for _, mt := range AllModelTypes() {
		require.True(t, mt.IsValid())
		require.Equal(t, mt, ModelTypeFromString(mt.String()))
	}
	require.Equal(t, ModelTypePower, ModelTypeFromString(" Power "))
	require.Equal(t, ModelType(-1), ModelTypeFromString("cubic"))
	require.Equal(t, "unknown", ModelType(42).String())
}

func TestNewEstimator(t *testing.T) {
	est, err := NewEstimator(ModelTypeHyperbolic, []float64{2, 10})
	require.NoError(t, err)
	require.Equal(t, ModelTypeHyperbolic, est.Type())
	require.Equal(t, []float64{2, 10}, est.Coefficients())
	require.InDelta(t, 3.0, est.Estimate(10), 1e-12)
	require.True(t, math.IsInf(est.Estimate(0), 1))

	est, err = NewEstimator(ModelTypeLogarithmic, []float64{1, 2})
	require.NoError(t, err)
	require.InDelta(t, 1+2*math.Log(5), est.Estimate(5), 1e-12)

	est, err = NewEstimator(ModelTypePower, []float64{3, 0.5})
	require.NoError(t, err)
	require.InDelta(t, 6.0, est.Estimate(4), 1e-12)

	_, err = NewEstimator(ModelType(7), []float64{1, 2})
	require.Error(t, err)
	_, err = NewEstimator(ModelTypePower, []float64{1})
	require.Error(t, err)
	_, err = NewEstimator(ModelTypePower, []float64{math.NaN(), 1})
	require.Error(t, err)
}

func TestEstimateBlobSize(t *testing.T) {
	est, err := NewEstimator(ModelTypeHyperbolic, []float64{2, 40})
	require.NoError(t, err)

	// (2 + 40/100) * 3 * 100
	require.Equal(t, int64(720), EstimateBlobSize(est, 3, 100))
	require.Zero(t, EstimateBlobSize(est, 0, 100))
	require.Zero(t, EstimateBlobSize(est, 3, 0))
	require.Zero(t, EstimateBlobSize(nil, 3, 100))

	neg, err := NewEstimator(ModelTypeHyperbolic, []float64{-5, 0})
	require.NoError(t, err)
	require.Zero(t, EstimateBlobSize(neg, 3, 100))
}
