package adapter

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/evoss98/ns-3-dev-git/domain"
)

// QueueRepository loads queue occupancy traces written as
// "<seconds> <packets in queue>" per line.
type QueueRepository struct{}

func NewQueueRepository() *QueueRepository {
	return &QueueRepository{}
}

func (r *QueueRepository) LoadQueueSamples(filename string) ([]domain.QueueSample, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open queue trace: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comma = ' '
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, &domain.ParseError{
			File: filename,
			Err:  fmt.Errorf("%w: %v", domain.ErrMalformedQueue, err),
		}
	}

	samples := make([]domain.QueueSample, 0, len(records))
	for i, record := range records {
		fail := func(reason string) error {
			return &domain.ParseError{
				File:    filename,
				Line:    i + 1,
				Content: strings.Join(record, " "),
				Err:     fmt.Errorf("%w: %s", domain.ErrMalformedQueue, reason),
			}
		}
		if len(record) < 2 {
			return nil, fail("expected time and queue size")
		}
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			return nil, fail("time is not a number")
		}
		n, err := strconv.Atoi(record[1])
		if err != nil {
			return nil, fail("queue size is not an integer")
		}
		samples = append(samples, domain.QueueSample{TimeSec: t, Packets: n})
	}

	sort.SliceStable(samples, func(i, j int) bool {
		return samples[i].TimeSec < samples[j].TimeSec
	})

	return samples, nil
}
