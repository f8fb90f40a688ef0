package usecase

import (
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/evoss98/ns-3-dev-git/domain"
)

const (
	ReportFlows     = "flows"
	ReportQuantum   = "quantum"
	ReportMultiHost = "multihost"
	ReportDelay     = "delay"
	ReportMain      = "main"
	ReportQueue     = "queue"

	SummaryFileName = "summary.yaml"

	throughputLabel = "Total Throughput Received (Kbits)"
	delayLabel      = "Average Delay (ns)"
)

type QueueRepository interface {
	LoadQueueSamples(path string) ([]domain.QueueSample, error)
}

type ChartRenderer interface {
	Render(fig domain.Figure, path string) error
}

type SeriesRepository interface {
	SaveSeries(path string, chart domain.Chart) error
}

type SummaryRepository interface {
	SaveSummary(path string, summary domain.Summary) error
}

// ReportConfig describes which figures a run produces and where their
// inputs live.
type ReportConfig struct {
	Dir           string
	Reports       []string
	PortOffset    int
	Schemes       []string
	QuantumScheme string
	Quantums      []int
	MainQuantum   int
	QuantumYRange *domain.AxisRange
	DelayIndexBy  DelayIndex
	TraceExt      string
	QueueTrace    string
	WriteCSV      bool
}

type Analyzer struct {
	cfg         ReportConfig
	agg         *Aggregator
	queueRepo   QueueRepository
	renderer    ChartRenderer
	seriesRepo  SeriesRepository
	summaryRepo SummaryRepository
	log         *zap.SugaredLogger
}

func NewAnalyzer(cfg ReportConfig, agg *Aggregator, q QueueRepository, r ChartRenderer, s SeriesRepository, sum SummaryRepository, log *zap.SugaredLogger) *Analyzer {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Analyzer{
		cfg:         cfg,
		agg:         agg,
		queueRepo:   q,
		renderer:    r,
		seriesRepo:  s,
		summaryRepo: sum,
		log:         log.With(zap.String("component", "analyzer")),
	}
}

type reportFunc func() (domain.Figure, error)

func (a *Analyzer) reports() map[string]reportFunc {
	return map[string]reportFunc{
		ReportFlows:     a.flowsReport,
		ReportQuantum:   a.quantumReport,
		ReportMultiHost: a.multiHostReport,
		ReportDelay:     a.delayReport,
		ReportMain:      a.mainReport,
		ReportQueue:     a.queueReport,
	}
}

// Run builds every configured report, renders it and finally writes the
// summary of all rendered series. The first error aborts the run.
func (a *Analyzer) Run() error {
	known := a.reports()
	selected := make([]reportFunc, 0, len(a.cfg.Reports))
	for _, name := range a.cfg.Reports {
		fn, ok := known[name]
		if !ok {
			return fmt.Errorf("%w: %q", domain.ErrUnknownReport, name)
		}
		selected = append(selected, fn)
	}

	var summary domain.Summary
	for i, build := range selected {
		name := a.cfg.Reports[i]
		fig, err := build()
		if err != nil {
			return fmt.Errorf("report %s: %w", name, err)
		}
		if err := a.emit(fig); err != nil {
			return fmt.Errorf("report %s: %w", name, err)
		}
		summary.Charts = append(summary.Charts, SummarizeFigure(fig)...)
	}

	summaryPath := filepath.Join(a.cfg.Dir, SummaryFileName)
	if err := a.summaryRepo.SaveSummary(summaryPath, summary); err != nil {
		return fmt.Errorf("save summary: %w", err)
	}
	a.log.Infof("Saving %s", summaryPath)
	return nil
}

func (a *Analyzer) emit(fig domain.Figure) error {
	path := filepath.Join(a.cfg.Dir, fig.Name)
	if err := a.renderer.Render(fig, path); err != nil {
		return fmt.Errorf("render %s: %w", path, err)
	}
	a.log.Infof("Saving %s", path)

	if !a.cfg.WriteCSV {
		return nil
	}
	base := strings.TrimSuffix(path, filepath.Ext(path))
	for i, panel := range fig.Panels {
		csvPath := base + ".csv"
		if len(fig.Panels) > 1 {
			csvPath = fmt.Sprintf("%s_%d.csv", base, i+1)
		}
		if err := a.seriesRepo.SaveSeries(csvPath, panel); err != nil {
			return fmt.Errorf("save series %s: %w", csvPath, err)
		}
		a.log.Infof("Saving %s", csvPath)
	}
	return nil
}

func (a *Analyzer) input(name string) string {
	return filepath.Join(a.cfg.Dir, name)
}

func (a *Analyzer) traceName(parts ...string) string {
	return strings.Join(append(parts, "receivedPacket"), "_") + "." + a.cfg.TraceExt
}

func (a *Analyzer) throughputSeries(name, file string, multiHop bool) (domain.Series, error) {
	throughput, err := a.agg.AggregateThroughput(a.input(file), a.cfg.PortOffset, multiHop)
	if err != nil {
		return domain.Series{}, err
	}
	s := throughput.Series(name)
	a.log.Infow("throughput", "file", file, "flows", s.Points)
	return s, nil
}

func (a *Analyzer) delaySeries(name, file string) (domain.Series, error) {
	delays, err := a.agg.AggregateDelay(a.input(file))
	if err != nil {
		return domain.Series{}, err
	}
	s := delays.Series(name)
	a.log.Infow("delay", "file", file, "flows", s.Points)
	return s, nil
}

func (a *Analyzer) schemeThroughputs(multiHop bool, nameParts func(scheme string) []string) ([]domain.Series, error) {
	if len(a.cfg.Schemes) == 0 {
		return nil, domain.ErrNoSchemes
	}
	series := make([]domain.Series, 0, len(a.cfg.Schemes))
	for _, scheme := range a.cfg.Schemes {
		s, err := a.throughputSeries(strings.ToUpper(scheme), a.traceName(nameParts(scheme)...), multiHop)
		if err != nil {
			return nil, err
		}
		series = append(series, s)
	}
	return series, nil
}

func (a *Analyzer) schemeDelays() ([]domain.Series, error) {
	if len(a.cfg.Schemes) == 0 {
		return nil, domain.ErrNoSchemes
	}
	series := make([]domain.Series, 0, len(a.cfg.Schemes))
	for _, scheme := range a.cfg.Schemes {
		file := fmt.Sprintf("%s_%d.xml", scheme, a.cfg.MainQuantum)
		s, err := a.delaySeries(strings.ToUpper(scheme), file)
		if err != nil {
			return nil, err
		}
		series = append(series, s)
	}
	return series, nil
}

func (a *Analyzer) mainQuantum() string {
	return fmt.Sprint(a.cfg.MainQuantum)
}

func (a *Analyzer) flowsReport() (domain.Figure, error) {
	series, err := a.schemeThroughputs(false, func(scheme string) []string {
		return []string{scheme}
	})
	if err != nil {
		return domain.Figure{}, err
	}
	return domain.Figure{
		Name: "flows_throughput.png",
		Panels: []domain.Chart{{
			Title:  "Throughput per flow",
			XLabel: "Flow",
			YLabel: throughputLabel,
			Series: series,
			Shares: true,
		}},
	}, nil
}

func (a *Analyzer) quantumReport() (domain.Figure, error) {
	if len(a.cfg.Quantums) == 0 {
		return domain.Figure{}, domain.ErrNoQuantums
	}
	series := make([]domain.Series, 0, len(a.cfg.Quantums))
	for _, q := range a.cfg.Quantums {
		file := a.traceName(a.cfg.QuantumScheme, fmt.Sprint(q))
		s, err := a.throughputSeries(fmt.Sprintf("quantum=%d", q), file, false)
		if err != nil {
			return domain.Figure{}, err
		}
		series = append(series, s)
	}
	return domain.Figure{
		Name: a.cfg.QuantumScheme + "_quantum_throughput.png",
		Panels: []domain.Chart{{
			Title:  strings.ToUpper(a.cfg.QuantumScheme) + " throughput per flow by quantum",
			XLabel: "Flow",
			YLabel: throughputLabel,
			Series: series,
			Shares: true,
			YRange: a.cfg.QuantumYRange,
		}},
	}, nil
}

func (a *Analyzer) multiHostReport() (domain.Figure, error) {
	series, err := a.schemeThroughputs(true, func(scheme string) []string {
		return []string{scheme, a.mainQuantum(), "multihost"}
	})
	if err != nil {
		return domain.Figure{}, err
	}
	return domain.Figure{
		Name: "multihost_throughput.png",
		Panels: []domain.Chart{{
			Title:  "Multi-host throughput per flow",
			XLabel: "Flow",
			YLabel: throughputLabel,
			Series: series,
			Shares: true,
		}},
	}, nil
}

func (a *Analyzer) delayReport() (domain.Figure, error) {
	series, err := a.schemeDelays()
	if err != nil {
		return domain.Figure{}, err
	}
	return domain.Figure{
		Name: "flows_delay.png",
		Panels: []domain.Chart{{
			Title:  "Average delay per flow",
			XLabel: "Flow",
			YLabel: delayLabel,
			Series: series,
		}},
	}, nil
}

func (a *Analyzer) mainReport() (domain.Figure, error) {
	throughput, err := a.schemeThroughputs(false, func(scheme string) []string {
		return []string{scheme, a.mainQuantum()}
	})
	if err != nil {
		return domain.Figure{}, err
	}
	delay, err := a.schemeDelays()
	if err != nil {
		return domain.Figure{}, err
	}
	return domain.Figure{
		Name: filepath.Join("figures", "main_repro_figure.png"),
		Panels: []domain.Chart{
			{
				Title:  fmt.Sprintf("Throughput per flow (quantum %d)", a.cfg.MainQuantum),
				XLabel: "Flow",
				YLabel: throughputLabel,
				Series: throughput,
				Shares: true,
			},
			{
				Title:  fmt.Sprintf("Average delay per flow (quantum %d)", a.cfg.MainQuantum),
				XLabel: "Flow",
				YLabel: delayLabel,
				Series: delay,
			},
		},
	}, nil
}

func (a *Analyzer) queueReport() (domain.Figure, error) {
	samples, err := a.queueRepo.LoadQueueSamples(a.input(a.cfg.QueueTrace))
	if err != nil {
		return domain.Figure{}, err
	}
	s := domain.Series{Name: "packets in queue", Points: make([]domain.Point, len(samples))}
	for i, sample := range samples {
		s.Points[i] = domain.Point{X: sample.TimeSec, Y: float64(sample.Packets)}
	}
	a.log.Infow("queue occupancy", "file", a.cfg.QueueTrace, "samples", len(samples))
	return domain.Figure{
		Name: "queue_occupancy.png",
		Panels: []domain.Chart{{
			Title:  "Bottleneck queue occupancy",
			XLabel: "Time (s)",
			YLabel: "Packets in queue",
			Series: []domain.Series{s},
			Lines:  true,
		}},
	}, nil
}
