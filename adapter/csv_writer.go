package adapter

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/evoss98/ns-3-dev-git/domain"
)

type CsvSeriesRepository struct{}

func NewCsvSeriesRepository() *CsvSeriesRepository {
	return &CsvSeriesRepository{}
}

// SaveSeries writes every point of the chart as a "series,flow,value" row.
func (r *CsvSeriesRepository) SaveSeries(filename string, chart domain.Chart) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"series", "flow", "value"}); err != nil {
		return err
	}
	for _, s := range chart.Series {
		for _, p := range s.Points {
			row := []string{
				s.Name,
				strconv.FormatFloat(p.X, 'f', -1, 64),
				strconv.FormatFloat(p.Y, 'f', -1, 64),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}
