package regression

import "fmt"

// Model is one fitted regression model.
type Model struct {
	Type         ModelType
	Coefficients []float64
	// RSquared is the coefficient of determination on the original scale.
	RSquared float64
	// RMSE is the root mean square error in bytes per sample.
	RMSE      float64
	Formula   string
	Estimator Estimator
}

// String returns a one-line summary.
func (m *Model) String() string {
	return fmt.Sprintf("Model{Type: %s, R²: %.4f, RMSE: %.4f, Formula: %s}",
		m.Type, m.RSquared, m.RMSE, m.Formula)
}

// Result holds every fitted model ranked by R², best first.
type Result struct {
	BestFit   *Model
	AllModels []*Model
	// Points are the observations the models were fitted on.
	Points []Point
}

// String returns a one-line summary.
func (r *Result) String() string {
	if r.BestFit == nil {
		return "Result{BestFit: nil}"
	}

	return fmt.Sprintf("Result{BestFit: %s, TotalModels: %d}", r.BestFit, len(r.AllModels))
}
