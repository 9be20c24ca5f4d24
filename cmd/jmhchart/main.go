package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/tiancaiamao/jmh-daily-bench"
)

var (
	input       string
	configFile  string
	output      string
	addr        string
	title       string
	xLabel      string
	prefixLen   int
	shortPolicy string
	archiveDSN  string
	openBrowser bool
	verbose     bool
)

func init() {
	registerFlags(flag.CommandLine)
}

func registerFlags(fs *flag.FlagSet) {
	fs.StringVar(&input, "input", "", "JMH result csv, default ../"+jmhbench.DefaultResultPath)
	fs.StringVar(&configFile, "config", "", "yaml chart config")
	fs.StringVar(&output, "out", "", "write the chart to this file (.png .svg .pdf .html .json) instead of serving it")
	fs.StringVar(&addr, "addr", jmhbench.DefaultAddr, "address the chart is served on")
	fs.StringVar(&title, "title", jmhbench.DefaultTitle, "chart title")
	fs.StringVar(&xLabel, "xlabel", jmhbench.DefaultXLabel, "horizontal axis label")
	fs.IntVar(&prefixLen, "prefix", jmhbench.DefaultLabelPrefixLength, "characters stripped from benchmark names")
	fs.StringVar(&shortPolicy, "short-names", string(jmhbench.ShortNameEmpty), "label of names not longer than the prefix: empty or whole")
	fs.StringVar(&archiveDSN, "archive-dsn", "", "also store the results in this MySQL database")
	fs.BoolVar(&openBrowser, "open", true, "open the served chart in a browser")
	fs.BoolVar(&verbose, "v", false, "debug logging")
}

// loadConfig reads the config file, then applies the flags given on the command line.
func loadConfig(fs *flag.FlagSet) (jmhbench.Config, error) {
	cfg := jmhbench.DefaultConfig()
	if configFile != "" {
		var err error
		cfg, err = jmhbench.LoadConfig(configFile)
		if err != nil {
			return cfg, err
		}
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "out":
			cfg.Output = output
		case "addr":
			cfg.Addr = addr
		case "title":
			cfg.Title = title
		case "xlabel":
			cfg.XLabel = xLabel
		case "prefix":
			cfg.LabelPrefixLength = prefixLen
		case "short-names":
			cfg.ShortNamePolicy = jmhbench.ShortNamePolicy(shortPolicy)
		case "open":
			cfg.OpenBrowser = openBrowser
		}
	})
	return cfg, cfg.Validate()
}

func archive(ctx context.Context, dsn, path string) error {
	rows, err := jmhbench.LoadCSV(path)
	if err != nil {
		return err
	}
	a, err := jmhbench.OpenArchive(dsn)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.Init(ctx); err != nil {
		return fmt.Errorf("archive init: %w", err)
	}
	if err := a.Store(ctx, path, rows); err != nil {
		return err
	}
	log.WithField("rows", len(rows)).Info("results archived")
	return nil
}

func main() {
	flag.Parse()
	if verbose {
		log.SetLevel(log.DebugLevel)
	}

	cfg, err := loadConfig(flag.CommandLine)
	if err != nil {
		log.Fatal(err)
	}
	if input == "" {
		input, err = jmhbench.DefaultInputPath()
		if err != nil {
			log.Fatal(err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if archiveDSN != "" {
		if err := archive(ctx, archiveDSN, input); err != nil {
			log.Fatal(err)
		}
	}

	if err := jmhbench.Render(ctx, input, cfg); err != nil {
		log.Fatal(err)
	}
}
