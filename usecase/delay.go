package usecase

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/evoss98/ns-3-dev-git/domain"
)

// DelayIndex selects how delay entries are keyed.
type DelayIndex string

const (
	// IndexByPosition numbers flows carrying a delay sum in document order, starting at 1.
	IndexByPosition DelayIndex = "position"
	// IndexByFlowID keys flows by their flowId attribute, which stays stable
	// across documents that list flows in a different order.
	IndexByFlowID DelayIndex = "flow_id"
)

const delayUnitSuffix = "ns"

// ParseDelaySum returns the numeric prefix of a "<number>ns" attribute.
func ParseDelaySum(raw string) (float64, error) {
	idx := strings.Index(raw, delayUnitSuffix)
	if idx < 0 {
		return 0, fmt.Errorf("%w: delaySum %q has no %q suffix", domain.ErrMalformedFlowStats, raw, delayUnitSuffix)
	}
	num := strings.TrimSpace(raw[:idx])
	// ParseFloat also takes hex mantissas, Inf and NaN
	if strings.ContainsAny(num, "xX") {
		return 0, fmt.Errorf("%w: delaySum %q is not a decimal number", domain.ErrMalformedFlowStats, raw)
	}
	v, err := strconv.ParseFloat(num, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: delaySum %q is not a finite number", domain.ErrMalformedFlowStats, raw)
	}
	return v, nil
}

// MeanDelays computes delaySum / rxPackets for every flow that carries a
// delay sum. Flows with zero received packets are skipped with a warning;
// under positional indexing they still consume their index.
func MeanDelays(stats []domain.FlowStat, indexBy DelayIndex, log *zap.SugaredLogger) (domain.FlowDelay, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	delays := make(domain.FlowDelay)
	seen := make(map[int]int)
	position := 0
	for _, fs := range stats {
		if !fs.HasDelaySum {
			continue
		}
		position++

		key := position
		if indexBy == IndexByFlowID {
			id, err := strconv.Atoi(strings.TrimSpace(fs.FlowID))
			if err != nil {
				return nil, flowStatError(fs, fmt.Errorf("%w: %q", domain.ErrMissingFlowID, fs.FlowID))
			}
			if first, ok := seen[id]; ok {
				return nil, flowStatError(fs, fmt.Errorf("%w: flowId %d already used by flow #%d", domain.ErrDuplicateFlowID, id, first))
			}
			seen[id] = fs.Ordinal
			key = id
		}

		delaySum, err := ParseDelaySum(fs.DelaySum)
		if err != nil {
			return nil, flowStatError(fs, err)
		}
		if !fs.HasRxPackets {
			return nil, flowStatError(fs, fmt.Errorf("%w: rxPackets is missing", domain.ErrMalformedFlowStats))
		}
		rx, err := strconv.Atoi(strings.TrimSpace(fs.RxPackets))
		if err != nil || rx < 0 {
			return nil, flowStatError(fs, fmt.Errorf("%w: rxPackets %q is not a packet count", domain.ErrMalformedFlowStats, fs.RxPackets))
		}
		if rx == 0 {
			log.Warnw("skipping flow", "file", fs.File, "flow", key, "reason", domain.ErrZeroPackets)
			continue
		}
		delays[key] = delaySum / float64(rx)
	}
	return delays, nil
}

func flowStatError(fs domain.FlowStat, err error) error {
	return &domain.ParseError{
		File:    fs.File,
		Line:    fs.Line,
		Content: fmt.Sprintf("flow #%d", fs.Ordinal),
		Err:     err,
	}
}
