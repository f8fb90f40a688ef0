package adapter

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/evoss98/ns-3-dev-git/domain"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func sampleChart() domain.Chart {
	return domain.Chart{
		Title:  "Throughput per flow",
		XLabel: "Flow",
		YLabel: "Total Throughput Received (Kbits)",
		Series: []domain.Series{
			domain.FlowThroughput{1: 0.6, 2: 0.4}.Series("FIFO"),
			domain.FlowThroughput{1: 0.5, 2: 0.5}.Series("DRR"),
			domain.FlowThroughput{1: 0.5, 2: 0.5}.Series("SFQ"),
			domain.FlowThroughput{1: 0.1}.Series("extra"),
		},
	}
}

func assertPNG(t *testing.T, path string) {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, pngMagic), "%s is not a png", path)
}

func TestPlotRenderer(t *testing.T) {
	dir := t.TempDir()
	r := NewPlotRenderer()

	t.Run("single panel", func(t *testing.T) {
		path := filepath.Join(dir, "flows_throughput.png")
		chart := sampleChart()
		chart.YRange = &domain.AxisRange{Min: 0, Max: 2}
		require.NoError(t, r.Render(domain.Figure{Name: "flows_throughput.png", Panels: []domain.Chart{chart}}, path))
		assertPNG(t, path)
	})

	t.Run("stacked panels in a new directory", func(t *testing.T) {
		path := filepath.Join(dir, "figures", "main_repro_figure.png")
		queue := domain.Chart{
			Title:  "Bottleneck queue occupancy",
			Lines:  true,
			Series: []domain.Series{{Name: "packets", Points: []domain.Point{{X: 0, Y: 1}, {X: 1, Y: 3}}}},
		}
		fig := domain.Figure{Name: "figures/main_repro_figure.png", Panels: []domain.Chart{sampleChart(), queue}}
		require.NoError(t, r.Render(fig, path))
		assertPNG(t, path)
	})

	t.Run("empty series still renders", func(t *testing.T) {
		path := filepath.Join(dir, "empty.png")
		fig := domain.Figure{Panels: []domain.Chart{{Title: "nothing", Series: []domain.Series{{Name: "none"}}}}}
		require.NoError(t, r.Render(fig, path))
		assertPNG(t, path)
	})

	t.Run("no panels", func(t *testing.T) {
		err := r.Render(domain.Figure{}, filepath.Join(dir, "none.png"))
		assert.ErrorIs(t, err, domain.ErrNoSeries)
	})
}

func TestCsvSeriesRepository(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flows_throughput.csv")
	chart := domain.Chart{Series: []domain.Series{
		domain.FlowThroughput{2: 0.25, 1: 0.15}.Series("FIFO"),
	}}
	require.NoError(t, NewCsvSeriesRepository().SaveSeries(path, chart))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"series", "flow", "value"},
		{"FIFO", "1", "0.15"},
		{"FIFO", "2", "0.25"},
	}, rows)
}

func TestYamlSummaryRepository(t *testing.T) {
	dir := t.TempDir()
	fairness := 1.0
	summary := domain.Summary{Charts: []domain.ChartSummary{
		{
			Figure: "flows_throughput.png",
			Title:  "Throughput per flow",
			Series: []domain.SeriesSummary{{Name: "DRR", Points: 2, Total: 1, Mean: 0.5, Min: 0.5, Max: 0.5, Fairness: &fairness}},
		},
		{
			Figure: "queue_occupancy.png",
			Title:  "Bottleneck queue occupancy",
			Series: []domain.SeriesSummary{{Name: "packets in queue", Points: 2, Total: 4, Mean: 2, Min: 1, Max: 3}},
		},
	}}
	repo := NewYamlSummaryRepository()

	t.Run("yaml", func(t *testing.T) {
		path := filepath.Join(dir, "summary.yaml")
		require.NoError(t, repo.SaveSummary(path, summary))
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		var got domain.Summary
		require.NoError(t, yaml.Unmarshal(data, &got))
		assert.Equal(t, summary, got)
		assert.Equal(t, 1, bytes.Count(data, []byte("fairness:")))
	})

	t.Run("json by extension", func(t *testing.T) {
		path := filepath.Join(dir, "summary.json")
		require.NoError(t, repo.SaveSummary(path, summary))
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(data, []byte("{")))
	})
}
