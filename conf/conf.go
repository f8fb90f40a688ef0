package conf

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"go.uber.org/zap"

	"github.com/evoss98/ns-3-dev-git/domain"
	"github.com/evoss98/ns-3-dev-git/usecase"
)

// ConfigFileName is looked up inside the trace directory.
const ConfigFileName = "analysis.yml"

const (
	defaultQuantumScheme = "drr"
	defaultMainQuantum   = 500
	defaultQueueTrace    = "q.tr"
	defaultTraceFormat   = "tr"
)

var (
	defaultReports  = []string{usecase.ReportFlows}
	defaultSchemes  = []string{"fifo", "drr"}
	defaultQuantums = []int{100, 500, 1000}
)

type UserConfig struct {
	DevMode       bool     `koanf:"dev_mode"`
	Reports       []string `koanf:"reports"`
	PortOffset    int      `koanf:"port_offset"`
	Schemes       []string `koanf:"schemes"`
	QuantumScheme string   `koanf:"quantum_scheme"`
	Quantums      []int    `koanf:"quantums"`
	MainQuantum   int      `koanf:"main_quantum"`
	QuantumYMin   *float64 `koanf:"quantum_y_min"`
	QuantumYMax   *float64 `koanf:"quantum_y_max"`
	DelayIndexBy  string   `koanf:"delay_index_by"`
	TraceFormat   string   `koanf:"trace_format"`
	QueueTrace    string   `koanf:"queue_trace"`
	WriteCSV      bool     `koanf:"write_csv"`
}

func NewUserConfig() UserConfig {
	return UserConfig{
		Reports:       append([]string(nil), defaultReports...),
		PortOffset:    usecase.EphemeralPortBase,
		Schemes:       append([]string(nil), defaultSchemes...),
		QuantumScheme: defaultQuantumScheme,
		Quantums:      append([]int(nil), defaultQuantums...),
		MainQuantum:   defaultMainQuantum,
		DelayIndexBy:  string(usecase.IndexByPosition),
		TraceFormat:   defaultTraceFormat,
		QueueTrace:    defaultQueueTrace,
	}
}

// LoadUserConfig reads ConfigFileName from dir. A missing file yields the
// defaults.
func LoadUserConfig(dir string) (UserConfig, error) {
	path := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return NewUserConfig(), nil
	}
	return ReadUserConfig(path)
}

func ReadUserConfig(path string) (UserConfig, error) {
	userConfig := NewUserConfig()
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return userConfig, err
	}
	var loaded UserConfig
	if err := k.Unmarshal("", &loaded); err != nil {
		return userConfig, err
	}

	// keys absent from the file keep their defaults; list values replace
	// the default list as a whole
	dst := reflect.ValueOf(&userConfig).Elem()
	src := reflect.ValueOf(loaded)
	rt := dst.Type()
	for i := 0; i < rt.NumField(); i++ {
		key := strings.Split(rt.Field(i).Tag.Get("koanf"), ",")[0]
		if k.Exists(key) {
			dst.Field(i).Set(src.Field(i))
		}
	}
	return userConfig, nil
}

// ReportConfig validates the user config and converts it for the analyzer.
func (c UserConfig) ReportConfig(dir string) (usecase.ReportConfig, error) {
	cfg := usecase.ReportConfig{
		Dir:           dir,
		Reports:       c.Reports,
		PortOffset:    c.PortOffset,
		Schemes:       c.Schemes,
		QuantumScheme: c.QuantumScheme,
		Quantums:      c.Quantums,
		MainQuantum:   c.MainQuantum,
		QueueTrace:    c.QueueTrace,
		WriteCSV:      c.WriteCSV,
	}

	switch idx := usecase.DelayIndex(c.DelayIndexBy); idx {
	case usecase.IndexByPosition, usecase.IndexByFlowID:
		cfg.DelayIndexBy = idx
	default:
		return cfg, fmt.Errorf("%w: delay_index_by %q", domain.ErrInvalidConfig, c.DelayIndexBy)
	}

	switch c.TraceFormat {
	case "tr", "pcap":
		cfg.TraceExt = c.TraceFormat
	default:
		return cfg, fmt.Errorf("%w: trace_format %q", domain.ErrInvalidConfig, c.TraceFormat)
	}

	switch {
	case c.QuantumYMin == nil && c.QuantumYMax == nil:
	case c.QuantumYMin == nil || c.QuantumYMax == nil:
		return cfg, fmt.Errorf("%w: quantum_y_min and quantum_y_max must be set together", domain.ErrInvalidConfig)
	case *c.QuantumYMin >= *c.QuantumYMax:
		return cfg, fmt.Errorf("%w: quantum_y_min must be below quantum_y_max", domain.ErrInvalidConfig)
	default:
		cfg.QuantumYRange = &domain.AxisRange{Min: *c.QuantumYMin, Max: *c.QuantumYMax}
	}
	return cfg, nil
}

// Print logs every setting at debug level.
func (c UserConfig) Print(logger *zap.SugaredLogger) error {
	if logger == nil {
		return domain.ErrLoggerNotInited
	}
	rt := reflect.TypeOf(c)
	rv := reflect.ValueOf(c)
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		fv := rv.Field(i)
		if fv.Kind() == reflect.Pointer {
			if fv.IsNil() {
				continue
			}
			fv = fv.Elem()
		}
		logger.Debugf("%v:%v", f.Tag.Get("koanf"), fv.Interface())
	}
	return nil
}
