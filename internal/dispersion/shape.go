package dispersion

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"
)

// normalityLevel is the Jarque-Bera p-value below which samples are flagged as non-normal
const normalityLevel = 0.05

// Shape describes how far a sample departs from the normal model the planner
// assumes when it uses a standard deviation
type Shape struct {
	Skewness       float64 `json:"skewness"`
	ExcessKurtosis float64 `json:"excess_kurtosis"`
	JarqueBera     float64 `json:"jarque_bera"`
	NormalityP     float64 `json:"normality_p"`
	LooksNormal    bool    `json:"looks_normal"`
	Outliers       int     `json:"outliers"`
}

// DescribeShape returns nil when there are fewer than 4 observations or no spread
func DescribeShape(xs []float64) (*Shape, error) {
	n := float64(len(xs))
	if n < 4 {
		return nil, nil
	}
	data := stats.Float64Data(xs)
	mean, err := stats.Mean(data)
	if err != nil {
		return nil, fmt.Errorf("mean: %w", err)
	}

	var m2, m3, m4 float64
	for _, x := range xs {
		d := x - mean
		d2 := d * d
		m2 += d2
		m3 += d2 * d
		m4 += d2 * d2
	}
	m2, m3, m4 = m2/n, m3/n, m4/n
	if m2 == 0 {
		return nil, nil
	}

	g1 := m3 / math.Pow(m2, 1.5)
	g2 := m4/(m2*m2) - 3
	jb := n / 6 * (g1*g1 + g2*g2/4)
	p := 1 - distuv.ChiSquared{K: 2}.CDF(jb)

	quartiles, err := stats.Quartile(data)
	if err != nil {
		return nil, fmt.Errorf("quartiles: %w", err)
	}
	iqr := quartiles.Q3 - quartiles.Q1
	lo, hi := quartiles.Q1-1.5*iqr, quartiles.Q3+1.5*iqr
	outliers := 0
	for _, x := range xs {
		if x < lo || x > hi {
			outliers++
		}
	}

	return &Shape{
		Skewness:       g1 * math.Sqrt(n*(n-1)) / (n - 2),
		ExcessKurtosis: ((n+1)*g2 + 6) * (n - 1) / ((n - 2) * (n - 3)),
		JarqueBera:     jb,
		NormalityP:     p,
		LooksNormal:    p > normalityLevel,
		Outliers:       outliers,
	}, nil
}
