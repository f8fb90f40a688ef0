package adapter

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/evoss98/ns-3-dev-git/domain"
)

var (
	// ns-3's FlowMonitor spells these FlowStats and Flow.
	flowStatsElements = []string{"flow-statistics", "FlowStats"}
	flowElements      = []string{"flow", "Flow"}
)

// XmlFlowStatsRepository reads the flow elements of flow statistics documents
// shaped root > flow-statistics > flow.
type XmlFlowStatsRepository struct{}

func NewXmlFlowStatsRepository() *XmlFlowStatsRepository {
	return &XmlFlowStatsRepository{}
}

func (r *XmlFlowStatsRepository) LoadFlowStats(filename string) ([]domain.FlowStat, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open flow statistics: %w", err)
	}
	defer file.Close()

	dec := xml.NewDecoder(file)
	var (
		stats   []domain.FlowStat
		depth   int
		inStats bool
		sawRoot bool
		ordinal int
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			line, _ := dec.InputPos()
			return nil, &domain.ParseError{
				File: filename,
				Line: line,
				Err:  fmt.Errorf("%w: %v", domain.ErrMalformedFlowStats, err),
			}
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			switch depth {
			case 1:
				sawRoot = true
			case 2:
				inStats = matches(t.Name.Local, flowStatsElements)
			case 3:
				if inStats && matches(t.Name.Local, flowElements) {
					ordinal++
					line, _ := dec.InputPos()
					stats = append(stats, flowStatFrom(t, filename, line, ordinal))
				}
			}
		case xml.EndElement:
			if depth == 2 {
				inStats = false
			}
			depth--
		}
	}

	if !sawRoot {
		return nil, &domain.ParseError{
			File: filename,
			Err:  fmt.Errorf("%w: no root element", domain.ErrMalformedFlowStats),
		}
	}
	return stats, nil
}

func flowStatFrom(el xml.StartElement, filename string, line, ordinal int) domain.FlowStat {
	fs := domain.FlowStat{
		File:    filename,
		Line:    line,
		Ordinal: ordinal,
	}
	for _, attr := range el.Attr {
		switch attr.Name.Local {
		case "flowId":
			fs.FlowID = attr.Value
		case "delaySum":
			fs.DelaySum = attr.Value
			fs.HasDelaySum = true
		case "rxPackets":
			fs.RxPackets = attr.Value
			fs.HasRxPackets = true
		}
	}
	return fs
}

func matches(name string, candidates []string) bool {
	for _, c := range candidates {
		if strings.EqualFold(name, c) {
			return true
		}
	}
	return false
}
