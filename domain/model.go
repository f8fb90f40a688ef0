package domain

import (
	"golang.org/x/exp/slices"
)

// RecordOrigin locates a record inside its input file.
type RecordOrigin struct {
	File    string
	Line    int
	Content string
}

// PacketRecord is one received packet, read from a receive trace line
// or a captured frame.
type PacketRecord struct {
	TimestampRaw string
	Port         int
	SizeBytes    int
	SourceIP     string // empty when the trace carries no address
	Origin       RecordOrigin
}

// FlowKey identifies a flow by its (offset adjusted) port.
type FlowKey int

// FlowThroughput maps a flow to its received volume in kilo units.
type FlowThroughput map[FlowKey]float64

// FlowDelay maps a flow index to its mean per-packet delay in nanoseconds.
type FlowDelay map[int]float64

// FlowStat holds the raw attributes of one flow element of a flow
// statistics document.
type FlowStat struct {
	File         string
	Line         int
	Ordinal      int // 1-based position among all flow elements
	FlowID       string
	DelaySum     string
	HasDelaySum  bool
	RxPackets    string
	HasRxPackets bool
}

type QueueSample struct {
	TimeSec float64
	Packets int
}

type Point struct {
	X float64
	Y float64
}

type Series struct {
	Name   string
	Points []Point
}

type AxisRange struct {
	Min float64
	Max float64
}

// Chart is one panel of a figure. Shares marks charts whose values are
// per-flow shares of one link, the only ones a fairness index applies to.
type Chart struct {
	Title  string
	XLabel string
	YLabel string
	Series []Series
	YRange *AxisRange
	Lines  bool
	Shares bool
}

// Figure is a rendered output image. Name is relative to the output directory.
type Figure struct {
	Name   string
	Panels []Chart
}

type SeriesSummary struct {
	Name     string   `json:"name" yaml:"name"`
	Points   int      `json:"points" yaml:"points"`
	Total    float64  `json:"total" yaml:"total"`
	Mean     float64  `json:"mean" yaml:"mean"`
	Min      float64  `json:"min" yaml:"min"`
	Max      float64  `json:"max" yaml:"max"`
	Fairness *float64 `json:"fairness,omitempty" yaml:"fairness,omitempty"`
}

type ChartSummary struct {
	Figure string          `json:"figure" yaml:"figure"`
	Title  string          `json:"title" yaml:"title"`
	Series []SeriesSummary `json:"series" yaml:"series"`
}

type Summary struct {
	Charts []ChartSummary `json:"charts" yaml:"charts"`
}

// Keys returns the flow keys in ascending order.
func (t FlowThroughput) Keys() []FlowKey {
	keys := make([]FlowKey, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Series converts the mapping into a chart series ordered by flow key.
func (t FlowThroughput) Series(name string) Series {
	s := Series{Name: name, Points: make([]Point, 0, len(t))}
	for _, k := range t.Keys() {
		s.Points = append(s.Points, Point{X: float64(k), Y: t[k]})
	}
	return s
}

// Keys returns the flow indices in ascending order.
func (d FlowDelay) Keys() []int {
	keys := make([]int, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func (d FlowDelay) Series(name string) Series {
	s := Series{Name: name, Points: make([]Point, 0, len(d))}
	for _, k := range d.Keys() {
		s.Points = append(s.Points, Point{X: float64(k), Y: d[k]})
	}
	return s
}

// Values returns the Y values of the series in point order.
func (s Series) Values() []float64 {
	vals := make([]float64, len(s.Points))
	for i, p := range s.Points {
		vals[i] = p.Y
	}
	return vals
}
