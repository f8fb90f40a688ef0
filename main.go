package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/evoss98/ns-3-dev-git/adapter"
	"github.com/evoss98/ns-3-dev-git/conf"
	"github.com/evoss98/ns-3-dev-git/usecase"
	"github.com/evoss98/ns-3-dev-git/util"
)

func main() {
	var dir string
	flag.StringVar(&dir, "dir", "", "Directory to find the trace files and write the figures to (Required)")
	flag.StringVar(&dir, "d", "", "Directory to find the trace files (shorthand)")
	flag.Parse()

	if dir == "" {
		fmt.Fprintln(os.Stderr, "Error: missing required argument --dir.")
		fmt.Fprintln(os.Stderr, "Usage:")
		flag.PrintDefaults()
		os.Exit(1)
	}
	if st, err := os.Stat(dir); err != nil || !st.IsDir() {
		fmt.Fprintf(os.Stderr, "Error: %s is not a readable directory\n", dir)
		os.Exit(1)
	}

	userConf, err := conf.LoadUserConfig(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to read %s: %v\n", conf.ConfigFileName, err)
		os.Exit(1)
	}

	logger, err := util.GetLogger(userConf.DevMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to init the logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.With(zap.String("component", "main"))
	if err := userConf.Print(log); err != nil {
		log.Warnf("failed to print the config: %v", err)
	}

	if err := run(dir, userConf, logger); err != nil {
		log.Errorf("analysis failed: %v", err)
		logger.Sync()
		os.Exit(1)
	}
	log.Info("analysis complete")
}

func run(dir string, userConf conf.UserConfig, logger *zap.SugaredLogger) error {
	reportConf, err := userConf.ReportConfig(dir)
	if err != nil {
		return err
	}

	agg := usecase.NewAggregator(
		adapter.NewReceiverRepository(),
		adapter.NewXmlFlowStatsRepository(),
		reportConf.DelayIndexBy,
		logger,
	)
	analyzer := usecase.NewAnalyzer(
		reportConf,
		agg,
		adapter.NewQueueRepository(),
		adapter.NewPlotRenderer(),
		adapter.NewCsvSeriesRepository(),
		adapter.NewYamlSummaryRepository(),
		logger,
	)

	logger.Infow("starting analysis", "dir", dir, "reports", reportConf.Reports)
	return analyzer.Run()
}
