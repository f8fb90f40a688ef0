package usecase

import (
	"fmt"
	"strings"

	"github.com/evoss98/ns-3-dev-git/domain"
)

const (
	// EphemeralPortBase is the floor of the ephemeral port range the
	// simulated senders bind to.
	EphemeralPortBase = 49152

	// Hosts on the x.x.1.x subnet get a disjoint flow key range.
	multiHopSubnet = "1"
	multiHopShift  = 20

	bytesPerUnit = 1000.0
)

type PacketSource interface {
	// NextPacket returns nil, nil once the source is exhausted.
	NextPacket() (*domain.PacketRecord, error)
}

type PacketSourceCloser interface {
	PacketSource
	Close() error
}

type ThroughputOptions struct {
	PortOffset int
	MultiHop   bool
}

// SumThroughput drains src and returns the received bytes per flow divided by 1000.
func SumThroughput(src PacketSource, opts ThroughputOptions) (domain.FlowThroughput, error) {
	totals := make(map[domain.FlowKey]int64)
	for {
		pkt, err := src.NextPacket()
		if err != nil {
			return nil, err
		}
		if pkt == nil {
			break
		}
		key, err := opts.flowKey(pkt)
		if err != nil {
			return nil, err
		}
		totals[key] += int64(pkt.SizeBytes)
	}

	throughput := make(domain.FlowThroughput, len(totals))
	for k, v := range totals {
		throughput[k] = float64(v) / bytesPerUnit
	}
	return throughput, nil
}

func (o ThroughputOptions) flowKey(pkt *domain.PacketRecord) (domain.FlowKey, error) {
	key := domain.FlowKey(pkt.Port - o.PortOffset)
	if !o.MultiHop {
		return key, nil
	}
	octets := strings.Split(pkt.SourceIP, ".")
	if len(octets) < 3 {
		return 0, &domain.ParseError{
			File:    pkt.Origin.File,
			Line:    pkt.Origin.Line,
			Content: pkt.Origin.Content,
			Err:     fmt.Errorf("%w: source address %q is not a dotted quad", domain.ErrMalformedRecord, pkt.SourceIP),
		}
	}
	if octets[2] == multiHopSubnet {
		key += multiHopShift
	}
	return key, nil
}
