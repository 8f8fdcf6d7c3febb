package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/hyperifyio/goconveyance/internal/classify"
	"github.com/hyperifyio/goconveyance/internal/enquiry"
	"github.com/hyperifyio/goconveyance/internal/extract"
	"github.com/hyperifyio/goconveyance/internal/report"
	"github.com/hyperifyio/goconveyance/internal/unpack"
)

// App runs the pipeline end to end: unpack, classify, extract, assemble,
// publish. One App processes one archive per Run; there is no shared state
// across runs.
type App struct {
	cfg Config
}

func New(cfg Config) (*App, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return &App{cfg: cfg}, nil
}

// Result is the outcome of a completed pipeline run, before publishing.
type Result struct {
	RunID         uuid.UUID
	Markdown      string
	SearchPresent bool
	Answers       []extract.Answer
	Archive       *unpack.Archive
	GeneratedAt   time.Time
}

// Run executes one full run: load configuration, process the archive, and
// publish the report bundle. Question definitions are loaded and validated
// before the archive is touched so configuration errors fail fast. A failed
// run publishes nothing.
func (a *App) Run(ctx context.Context) error {
	defs, err := enquiry.Load(a.cfg.QuestionsPath)
	if err != nil {
		return err
	}

	raw, err := os.ReadFile(a.cfg.ArchivePath)
	if err != nil {
		return fmt.Errorf("read archive: %w", err)
	}

	res, err := Process(ctx, a.cfg, filepath.Base(a.cfg.ArchivePath), raw, defs)
	if err != nil {
		return err
	}

	if err := a.publish(res); err != nil {
		return fmt.Errorf("publish artifacts: %w", err)
	}
	log.Info().
		Str("run", res.RunID.String()).
		Str("out", a.cfg.OutDir).
		Bool("search_present", res.SearchPresent).
		Msg("run complete")
	return nil
}

// Process is the pure core of the pipeline: archive bytes plus question
// definitions in, rendered report plus untouched archive out. It performs no
// artifact I/O, which keeps it directly testable and reusable from other
// entry points.
func Process(ctx context.Context, cfg Config, name string, archiveBytes []byte, defs []enquiry.Definition) (*Result, error) {
	runID := uuid.New()

	arch, err := unpack.Open(name, archiveBytes)
	if err != nil {
		return nil, err
	}
	for _, s := range arch.Skipped {
		log.Warn().Str("run", runID.String()).Str("doc", s.Name).Str("reason", s.Reason).Msg("archive member skipped")
	}

	limit := cfg.Concurrency
	if limit <= 0 {
		limit = runtime.NumCPU()
	}

	// Warm the per-document text cache in parallel. Decode failures degrade
	// to skipped documents; they never abort the run.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, doc := range arch.Documents {
		doc := doc
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if _, err := doc.Text(); err != nil {
				log.Warn().Str("run", runID.String()).Str("doc", doc.Name).Err(err).Msg("document skipped")
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	cls := classify.Classify(arch.Documents, defs, classify.Options{FoldCase: cfg.FoldCase})

	var answers []extract.Answer
	if cls.SearchPresent {
		log.Debug().Str("run", runID.String()).Str("doc", cls.MarkerDoc).Msg("search document identified")
		ex := &extract.Extractor{FoldCase: cfg.FoldCase, Window: cfg.Window}
		// Answers land at their definition's index so the report body stays
		// in configuration order regardless of completion order.
		answers = make([]extract.Answer, len(defs))
		eg, ectx := errgroup.WithContext(ctx)
		eg.SetLimit(limit)
		for i, def := range defs {
			i, def := i, def
			eg.Go(func() error {
				if err := ectx.Err(); err != nil {
					return err
				}
				answers[i] = ex.Answer(def, cls.Targets[def.ID])
				return nil
			})
		}
		if err := eg.Wait(); err != nil {
			return nil, err
		}
	} else {
		log.Info().Str("run", runID.String()).Msg("no search document in archive")
	}

	in := report.Input{
		Title:         name,
		SearchPresent: cls.SearchPresent,
		Questions:     defs,
		Answers:       answers,
	}
	if cfg.SourceAppendix {
		for _, doc := range arch.Documents {
			text, err := doc.Text()
			if err != nil {
				continue
			}
			in.Sources = append(in.Sources, report.Source{Name: doc.Name, Text: text})
		}
	}

	res := &Result{
		RunID:         runID,
		SearchPresent: cls.SearchPresent,
		Answers:       answers,
		Archive:       arch,
		GeneratedAt:   time.Now().UTC(),
	}
	res.Markdown = appendEmbeddedManifest(report.Build(in), buildManifest(res))
	return res, nil
}
