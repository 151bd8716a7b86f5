package regression

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"

	"github.com/arloliu/emotrace/blob"
	"github.com/arloliu/emotrace/internal/options"
)

// ErrInsufficientData is returned when the observations cannot support a fit.
var ErrInsufficientData = errors.New("insufficient data for regression")

// Point is one observation: a sealed session reduced to its samples per
// channel and bytes per sample.
type Point struct {
	SamplesPerChannel float64
	BytesPerSample    float64
}

// PointFromBlob reduces a sealed session to a Point. It reports false for
// sessions without samples.
func PointFromBlob(b blob.SessionBlob) (Point, bool) {
	if b.Channels <= 0 || b.Samples <= 0 || b.Size() == 0 {
		return Point{}, false
	}

	return Point{
		SamplesPerChannel: float64(b.Samples) / float64(b.Channels),
		BytesPerSample:    float64(b.Size()) / float64(b.Samples),
	}, true
}

// PointsFromBlobs reduces every session with samples to a Point.
func PointsFromBlobs(blobs []blob.SessionBlob) []Point {
	points := make([]Point, 0, len(blobs))
	for _, b := range blobs {
		if p, ok := PointFromBlob(b); ok {
			points = append(points, p)
		}
	}

	return points
}

// Analyze fits the size models to a set of sealed sessions.
//
// Example:
//
//	result, err := regression.Analyze(blobs)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	bps := result.BestFit.Estimator.Estimate(600)
func Analyze(blobs []blob.SessionBlob, opts ...FitOption) (*Result, error) {
	if len(blobs) == 0 {
		return nil, fmt.Errorf("%w: no blobs provided", ErrInsufficientData)
	}

	return Fit(PointsFromBlobs(blobs), opts...)
}

// Fit fits every configured model to points and ranks them by R².
//
// Every point needs positive, finite coordinates, and at least two distinct
// SamplesPerChannel values are required.
func Fit(points []Point, opts ...FitOption) (*Result, error) {
	cfg := defaultFitConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	if len(points) < cfg.minPoints {
		return nil, fmt.Errorf("%w: %d points, need %d", ErrInsufficientData, len(points), cfg.minPoints)
	}

	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		if !positiveFinite(p.SamplesPerChannel) || !positiveFinite(p.BytesPerSample) {
			return nil, fmt.Errorf("invalid point %d: spc=%v bps=%v", i, p.SamplesPerChannel, p.BytesPerSample)
		}
		xs[i] = p.SamplesPerChannel
		ys[i] = p.BytesPerSample
	}
	if slices.Min(xs) == slices.Max(xs) {
		return nil, fmt.Errorf("%w: all points share spc=%v", ErrInsufficientData, xs[0])
	}

	models := make([]*Model, 0, len(cfg.models))
	for _, mt := range cfg.models {
		m, err := fitModel(mt, xs, ys)
		if err != nil {
			continue
		}
		models = append(models, m)
	}
	if len(models) == 0 {
		return nil, fmt.Errorf("%w: no model converged", ErrInsufficientData)
	}

	slices.SortStableFunc(models, func(a, b *Model) int {
		switch {
		case a.RSquared > b.RSquared:
			return -1
		case a.RSquared < b.RSquared:
			return 1
		default:
			return 0
		}
	})

	return &Result{
		BestFit:   models[0],
		AllModels: models,
		Points:    slices.Clone(points),
	}, nil
}

// fitModel linearizes the model, fits it by least squares and scores it on
// the original scale.
func fitModel(mt ModelType, xs, ys []float64) (*Model, error) {
	tx := make([]float64, len(xs))
	ty := make([]float64, len(ys))
	for i := range xs {
		switch mt {
		case ModelTypeHyperbolic:
			tx[i], ty[i] = 1/xs[i], ys[i]
		case ModelTypeLogarithmic:
			tx[i], ty[i] = math.Log(xs[i]), ys[i]
		case ModelTypePower:
			tx[i], ty[i] = math.Log(xs[i]), math.Log(ys[i])
		}
	}

	alpha, beta := stat.LinearRegression(tx, ty, nil, false)
	if mt == ModelTypePower {
		alpha = math.Exp(alpha)
	}

	est, err := NewEstimator(mt, []float64{alpha, beta})
	if err != nil {
		return nil, err
	}

	estimates := make([]float64, len(xs))
	var sq float64
	for i, x := range xs {
		estimates[i] = est.Estimate(x)
		d := estimates[i] - ys[i]
		sq += d * d
	}

	r2 := stat.RSquaredFrom(estimates, ys, nil)
	if math.IsNaN(r2) || math.IsInf(r2, 0) {
		r2 = 0
	}

	return &Model{
		Type:         mt,
		Coefficients: est.Coefficients(),
		RSquared:     r2,
		RMSE:         math.Sqrt(sq / float64(len(xs))),
		Formula:      est.(*estimator).formula(),
		Estimator:    est,
	}, nil
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
