package usecase

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/evoss98/ns-3-dev-git/domain"
)

// JainFairness returns (Σx)² / (n·Σx²). It is 1 when every flow received the
// same share and approaches 1/n as one flow dominates.
func JainFairness(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sq := floats.Dot(vals, vals)
	if sq == 0 {
		return 0
	}
	sum := floats.Sum(vals)
	return sum * sum / (float64(len(vals)) * sq)
}

func SummarizeSeries(s domain.Series) domain.SeriesSummary {
	vals := s.Values()
	summary := domain.SeriesSummary{Name: s.Name, Points: len(vals)}
	if len(vals) == 0 {
		return summary
	}
	summary.Total = floats.Sum(vals)
	summary.Mean = stat.Mean(vals, nil)
	summary.Min = floats.Min(vals)
	summary.Max = floats.Max(vals)
	return summary
}

// SummarizeFigure summarizes every series of every panel. Only panels that
// chart throughput shares get a fairness index.
func SummarizeFigure(fig domain.Figure) []domain.ChartSummary {
	charts := make([]domain.ChartSummary, 0, len(fig.Panels))
	for _, panel := range fig.Panels {
		cs := domain.ChartSummary{Figure: fig.Name, Title: panel.Title}
		for _, s := range panel.Series {
			ss := SummarizeSeries(s)
			if panel.Shares && ss.Points > 0 {
				fairness := JainFairness(s.Values())
				ss.Fairness = &fairness
			}
			cs.Series = append(cs.Series, ss)
		}
		charts = append(charts, cs)
	}
	return charts
}
