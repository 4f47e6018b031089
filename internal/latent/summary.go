package latent

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// Summary describes the aggregated posterior. Std is sqrt(exp(logvar)).
// Standard deviations are population values (ddof = 0).
type Summary struct {
	Count   int
	MuMean  float64
	MuStd   float64
	StdMean float64
	StdStd  float64
}

// Summarize computes the descriptive statistics of l. It never fails: an
// empty input yields NaN fields, and overflow in exp(logvar) surfaces as a
// non-finite value.
func Summarize(l Latents) Summary {
	if len(l.Mu) == 0 || len(l.LogVar) == 0 {
		nan := math.NaN()
		return Summary{MuMean: nan, MuStd: nan, StdMean: nan, StdStd: nan}
	}
	stds := make([]float64, len(l.LogVar))
	for i, lv := range l.LogVar {
		stds[i] = math.Sqrt(math.Exp(lv))
	}
	s := Summary{Count: l.Len()}
	s.MuMean, s.MuStd = stat.PopMeanStdDev(l.Mu, nil)
	s.StdMean, s.StdStd = stat.PopMeanStdDev(stds, nil)
	return s
}

// Healthy reports whether the posterior is within tol of N(0, I) on mean
// of mu, spread of mu, and mean std.
func (s Summary) Healthy(tol float64) bool {
	return math.Abs(s.MuMean) <= tol &&
		math.Abs(s.MuStd-1) <= tol &&
		math.Abs(s.StdMean-1) <= tol
}

func (s Summary) String() string {
	return fmt.Sprintf("mu: mean=%.4f std=%.4f\nstd: mean=%.4f std=%.4f",
		s.MuMean, s.MuStd, s.StdMean, s.StdStd)
}
