package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evoss98/ns-3-dev-git/domain"
)

func TestJainFairness(t *testing.T) {
	assert.Equal(t, 1.0, JainFairness([]float64{2, 2, 2, 2}))
	assert.InDelta(t, 0.25, JainFairness([]float64{8, 0, 0, 0}), 1e-12)
	assert.Equal(t, 0.0, JainFairness(nil))
	assert.Equal(t, 0.0, JainFairness([]float64{0, 0}))
}

func TestSummarizeSeries(t *testing.T) {
	s := domain.FlowThroughput{1: 1.0, 2: 3.0}.Series("DRR")
	got := SummarizeSeries(s)
	assert.Equal(t, domain.SeriesSummary{
		Name:   "DRR",
		Points: 2,
		Total:  4,
		Mean:   2,
		Min:    1,
		Max:    3,
	}, got)

	assert.Equal(t, domain.SeriesSummary{Name: "empty"}, SummarizeSeries(domain.Series{Name: "empty"}))
}

func TestSummarizeFigure(t *testing.T) {
	fig := domain.Figure{
		Name: "figures/main_repro_figure.png",
		Panels: []domain.Chart{
			{
				Title:  "Throughput per flow",
				Series: []domain.Series{domain.FlowThroughput{1: 1.0, 2: 3.0}.Series("DRR"), {Name: "empty"}},
				Shares: true,
			},
			{
				Title:  "Bottleneck queue occupancy",
				Series: []domain.Series{{Name: "packets in queue", Points: []domain.Point{{X: 0, Y: 1}, {X: 1, Y: 3}}}},
				Lines:  true,
			},
		},
	}
	got := SummarizeFigure(fig)
	require.Len(t, got, 2)
	assert.Equal(t, fig.Name, got[0].Figure)

	throughput := got[0].Series
	require.Len(t, throughput, 2)
	require.NotNil(t, throughput[0].Fairness)
	assert.InDelta(t, 0.8, *throughput[0].Fairness, 1e-12)
	assert.Nil(t, throughput[1].Fairness)

	queue := got[1].Series
	require.Len(t, queue, 1)
	assert.Equal(t, 2, queue[0].Points)
	assert.Nil(t, queue[0].Fairness)
}
