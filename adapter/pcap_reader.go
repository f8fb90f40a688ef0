package adapter

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"

	"github.com/evoss98/ns-3-dev-git/domain"
)

// PcapRepository yields a PacketRecord for every IPv4 UDP or TCP frame of a
// capture taken at the receiver. Other frames are skipped.
type PcapRepository struct {
	filename string
	file     *os.File
	source   *gopacket.PacketSource
	frame    int
}

func NewPcapRepository(filename string) (*PcapRepository, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open capture: %w", err)
	}
	reader, err := pcapgo.NewReader(file)
	if err != nil {
		file.Close()
		return nil, &domain.ParseError{
			File: filename,
			Err:  fmt.Errorf("%w: %v", domain.ErrMalformedRecord, err),
		}
	}
	return &PcapRepository{
		filename: filename,
		file:     file,
		source:   gopacket.NewPacketSource(reader, reader.LinkType()),
	}, nil
}

func (r *PcapRepository) Close() error {
	return r.file.Close()
}

func (r *PcapRepository) NextPacket() (*domain.PacketRecord, error) {
	for {
		packet, err := r.source.NextPacket()
		if err == io.EOF {
			return nil, nil
		}
		r.frame++
		if err != nil {
			return nil, &domain.ParseError{
				File: r.filename,
				Line: r.frame,
				Err:  fmt.Errorf("%w: %v", domain.ErrMalformedRecord, err),
			}
		}

		ipLayer := packet.Layer(layers.LayerTypeIPv4)
		if ipLayer == nil {
			continue
		}
		ip, _ := ipLayer.(*layers.IPv4)

		var port, size int
		if udpLayer := packet.Layer(layers.LayerTypeUDP); udpLayer != nil {
			udp, _ := udpLayer.(*layers.UDP)
			port, size = int(udp.SrcPort), len(udp.Payload)
		} else if tcpLayer := packet.Layer(layers.LayerTypeTCP); tcpLayer != nil {
			tcp, _ := tcpLayer.(*layers.TCP)
			port, size = int(tcp.SrcPort), len(tcp.Payload)
		} else {
			continue
		}

		ts := packet.Metadata().Timestamp
		return &domain.PacketRecord{
			TimestampRaw: strconv.FormatFloat(float64(ts.UnixNano())/1e9, 'f', -1, 64),
			Port:         port,
			SizeBytes:    size,
			SourceIP:     ip.SrcIP.String(),
			Origin: domain.RecordOrigin{
				File: r.filename,
				Line: r.frame,
			},
		}, nil
	}
}
