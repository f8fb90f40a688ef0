package adapter

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/evoss98/ns-3-dev-git/domain"
)

type YamlSummaryRepository struct{}

func NewYamlSummaryRepository() *YamlSummaryRepository {
	return &YamlSummaryRepository{}
}

// SaveSummary serializes the summary to json when filename ends in .json and
// to yaml otherwise.
func (r *YamlSummaryRepository) SaveSummary(filename string, summary domain.Summary) error {
	var (
		bytes []byte
		err   error
	)
	if strings.EqualFold(filepath.Ext(filename), ".json") {
		bytes, err = json.MarshalIndent(summary, "", "\t")
	} else {
		bytes, err = yaml.Marshal(summary)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(filename, bytes, 0o644)
}
