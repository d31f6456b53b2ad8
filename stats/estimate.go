package stats

import "fmt"

// Estimate is a central value together with its standard uncertainty.
// It is the universal result type of every gradflow statistic.
type Estimate struct {
	Value float64
	Err   float64
}

// Scale returns the estimate divided by the (exact) factor v, propagating
// the uncertainty linearly. Used e.g. for volume normalization.
func (e Estimate) Scale(v float64) Estimate {
	return Estimate{Value: e.Value / v, Err: e.Err / v}
}

// String renders the pair in the conventional "value ± err" form.
func (e Estimate) String() string {
	return fmt.Sprintf("%.6g ± %.2g", e.Value, e.Err)
}
