package adapter

import (
	"path/filepath"
	"strings"

	"github.com/evoss98/ns-3-dev-git/usecase"
)

// ReceiverRepository opens receive traces recorded at the sink, either as
// text traces or as pcap captures chosen by file extension.
type ReceiverRepository struct{}

func NewReceiverRepository() *ReceiverRepository {
	return &ReceiverRepository{}
}

func (r *ReceiverRepository) OpenTrace(path string) (usecase.PacketSourceCloser, error) {
	if strings.ToLower(filepath.Ext(path)) == ".pcap" {
		repo, err := NewPcapRepository(path)
		if err != nil {
			return nil, err
		}
		return repo, nil
	}
	repo, err := NewTraceRepository(path)
	if err != nil {
		return nil, err
	}
	return repo, nil
}
