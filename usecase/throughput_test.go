package usecase

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evoss98/ns-3-dev-git/domain"
)

type sliceSource struct {
	records []domain.PacketRecord
	err     error
	pos     int
	closed  bool
}

func (s *sliceSource) NextPacket() (*domain.PacketRecord, error) {
	if s.pos >= len(s.records) {
		if s.err != nil {
			return nil, s.err
		}
		return nil, nil
	}
	r := s.records[s.pos]
	s.pos++
	return &r, nil
}

func (s *sliceSource) Close() error {
	s.closed = true
	return nil
}

func packets(specs ...[3]int) []domain.PacketRecord {
	out := make([]domain.PacketRecord, len(specs))
	for i, sp := range specs {
		out[i] = domain.PacketRecord{Port: sp[1], SizeBytes: sp[2]}
	}
	return out
}

func TestSumThroughput(t *testing.T) {
	t.Run("sizes are grouped by port and divided by 1000", func(t *testing.T) {
		src := &sliceSource{records: packets([3]int{0, 49153, 100}, [3]int{1, 49153, 200}, [3]int{2, 49153, 300})}
		got, err := SumThroughput(src, ThroughputOptions{PortOffset: EphemeralPortBase})
		require.NoError(t, err)
		assert.Equal(t, domain.FlowThroughput{1: 0.6}, got)
	})
	t.Run("two flows", func(t *testing.T) {
		src := &sliceSource{records: packets([3]int{0, 49153, 100}, [3]int{1, 49153, 50}, [3]int{2, 49200, 10})}
		got, err := SumThroughput(src, ThroughputOptions{PortOffset: EphemeralPortBase})
		require.NoError(t, err)
		assert.Equal(t, domain.FlowThroughput{1: 0.15, 48: 0.01}, got)
	})
	t.Run("zero offset keeps raw ports", func(t *testing.T) {
		src := &sliceSource{records: packets([3]int{0, 9, 1000})}
		got, err := SumThroughput(src, ThroughputOptions{})
		require.NoError(t, err)
		assert.Equal(t, domain.FlowThroughput{9: 1.0}, got)
	})
	t.Run("empty source", func(t *testing.T) {
		got, err := SumThroughput(&sliceSource{}, ThroughputOptions{})
		require.NoError(t, err)
		assert.Empty(t, got)
	})
	t.Run("source errors abort", func(t *testing.T) {
		boom := errors.New("boom")
		src := &sliceSource{records: packets([3]int{0, 1, 1}), err: boom}
		_, err := SumThroughput(src, ThroughputOptions{})
		assert.ErrorIs(t, err, boom)
	})
}

func TestSumThroughputMultiHop(t *testing.T) {
	opts := ThroughputOptions{PortOffset: EphemeralPortBase, MultiHop: true}
	testCases := []struct {
		name string
		ip   string
		want domain.FlowKey
	}{
		{name: "second host subnet is shifted", ip: "10.1.1.2", want: 23},
		{name: "first host subnet is not", ip: "10.1.2.2", want: 3},
		{name: "only the third octet counts", ip: "1.1.3.1", want: 3},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			src := &sliceSource{records: []domain.PacketRecord{{Port: 49155, SizeBytes: 500, SourceIP: tc.ip}}}
			got, err := SumThroughput(src, opts)
			require.NoError(t, err)
			assert.Equal(t, domain.FlowThroughput{tc.want: 0.5}, got)
		})
	}

	t.Run("missing address is a parse error", func(t *testing.T) {
		src := &sliceSource{records: []domain.PacketRecord{{
			Port:      49155,
			SizeBytes: 500,
			Origin:    domain.RecordOrigin{File: "drr_500_multihost_receivedPacket.tr", Line: 7, Content: "0.1,49155,500"},
		}}}
		_, err := SumThroughput(src, opts)
		assert.ErrorIs(t, err, domain.ErrMalformedRecord)
		var pe *domain.ParseError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, 7, pe.Line)
		assert.Equal(t, "drr_500_multihost_receivedPacket.tr", pe.File)
	})
}

func TestSumThroughputIsIdempotent(t *testing.T) {
	records := packets([3]int{0, 49160, 25}, [3]int{1, 49161, 25}, [3]int{2, 49160, 25})
	first, err := SumThroughput(&sliceSource{records: records}, ThroughputOptions{PortOffset: EphemeralPortBase})
	require.NoError(t, err)
	second, err := SumThroughput(&sliceSource{records: records}, ThroughputOptions{PortOffset: EphemeralPortBase})
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
