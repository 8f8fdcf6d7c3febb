package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/goconveyance/internal/app"
	"github.com/hyperifyio/goconveyance/internal/enquiry"
	"github.com/hyperifyio/goconveyance/internal/unpack"
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var (
		archivePath    string
		questionsPath  string
		outDir         string
		reportName     string
		configPath     string
		enablePDF      bool
		sourceAppendix bool
		foldCase       bool
		window         int
		concurrency    int
		verbose        bool
		showVersion    bool
	)

	flag.StringVar(&archivePath, "archive", "", "Path to the input archive (.zip, .tar.gz)")
	flag.StringVar(&questionsPath, "questions", "enquiries.yaml", "Path to the question definitions file")
	flag.StringVar(&outDir, "out", "out", "Directory for the report bundle")
	flag.StringVar(&reportName, "report", "report.md", "Report file name inside the output directory")
	flag.StringVar(&configPath, "config", "", "Optional YAML/JSON config file")
	flag.BoolVar(&enablePDF, "pdf", false, "Also render the report as PDF")
	flag.BoolVar(&sourceAppendix, "appendix", false, "Append the full extracted text of every document to the report")
	flag.BoolVar(&foldCase, "fold", false, "Match marker and triggers case-insensitively")
	flag.IntVar(&window, "window", 0, "Max free-text answer length in bytes (0 uses the default)")
	flag.IntVar(&concurrency, "concurrency", 0, "Max parallel decodes/extractions (0 uses the CPU count)")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Printf("goconveyance %s (%s)\n", app.BuildVersion, app.BuildCommit)
		return
	}

	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	cfg := app.Config{
		ArchivePath:    archivePath,
		QuestionsPath:  questionsPath,
		OutDir:         outDir,
		ReportName:     reportName,
		EnablePDF:      enablePDF,
		SourceAppendix: sourceAppendix,
		FoldCase:       foldCase,
		Window:         window,
		Concurrency:    concurrency,
		Verbose:        verbose,
	}

	if configPath != "" {
		fc, err := app.LoadConfigFile(configPath)
		if err != nil {
			log.Error().Err(err).Str("config", configPath).Msg("config file unreadable")
			os.Exit(2)
		}
		app.ApplyFileConfig(&cfg, fc)
	}

	if err := run(cfg); err != nil {
		log.Error().Err(err).Msg("run failed")
		// Exit code policy: 2 for the fatal pipeline errors (unreadable
		// archive, invalid question configuration), 1 for anything else.
		if errors.Is(err, unpack.ErrArchiveUnreadable) || errors.Is(err, enquiry.ErrInvalidDefinition) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(cfg app.Config) error {
	a, err := app.New(cfg)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	return a.Run(context.Background())
}
