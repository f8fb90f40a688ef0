package usecase

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/evoss98/ns-3-dev-git/domain"
)

type TraceOpener interface {
	OpenTrace(path string) (PacketSourceCloser, error)
}

type FlowStatsRepository interface {
	LoadFlowStats(path string) ([]domain.FlowStat, error)
}

// Aggregator turns input files into per-flow mappings. It keeps no state
// between calls.
type Aggregator struct {
	traces    TraceOpener
	flowStats FlowStatsRepository
	indexBy   DelayIndex
	log       *zap.SugaredLogger
}

func NewAggregator(t TraceOpener, f FlowStatsRepository, indexBy DelayIndex, log *zap.SugaredLogger) *Aggregator {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if indexBy == "" {
		indexBy = IndexByPosition
	}
	return &Aggregator{
		traces:    t,
		flowStats: f,
		indexBy:   indexBy,
		log:       log.With(zap.String("component", "aggregator")),
	}
}

// AggregateThroughput sums received bytes per flow key in the trace at path
// and scales the sums by 1/1000.
func (a *Aggregator) AggregateThroughput(path string, portOffset int, multiHop bool) (domain.FlowThroughput, error) {
	src, err := a.traces.OpenTrace(path)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	throughput, err := SumThroughput(src, ThroughputOptions{PortOffset: portOffset, MultiHop: multiHop})
	if err != nil {
		return nil, fmt.Errorf("aggregate throughput: %w", err)
	}
	a.log.Debugw("aggregated throughput", "file", path, "flows", len(throughput), "multihop", multiHop)
	return throughput, nil
}

// AggregateDelay returns the mean per-packet delay of every flow in the flow
// statistics document at path.
func (a *Aggregator) AggregateDelay(path string) (domain.FlowDelay, error) {
	stats, err := a.flowStats.LoadFlowStats(path)
	if err != nil {
		return nil, err
	}
	delays, err := MeanDelays(stats, a.indexBy, a.log)
	if err != nil {
		return nil, fmt.Errorf("aggregate delay: %w", err)
	}
	a.log.Debugw("aggregated delay", "file", path, "flows", len(delays), "index", a.indexBy)
	return delays, nil
}
