package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/sergioberino/tedcross/config"
	"github.com/sergioberino/tedcross/internal/domain"
	"github.com/sergioberino/tedcross/internal/infrastructure/tabular"
	"github.com/sergioberino/tedcross/internal/usecase"
	"github.com/urfave/cli/v2"
)

func main() {
	log.SetFlags(log.Ldate | log.Ltime)

	app := &cli.App{
		Name:  "crossval",
		Usage: "cross-validate national procurement awards against EU-level notices",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "domestic",
				Usage:    "path to the domestic awards CSV",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "reference",
				Usage: "path to the normalized reference CSV (lot-expanded)",
			},
			&cli.StringFlag{
				Name:  "notices",
				Usage: "path to a raw notice-search JSON dump (normalized on load)",
			},
			&cli.StringFlag{
				Name:  "out",
				Usage: "output directory for matched/missing/stats files",
			},
			&cli.BoolFlag{
				Name:  "sara",
				Usage: "use the per-biennium threshold table instead of the flat floor",
			},
			&cli.BoolFlag{
				Name:  "buyer-fallback",
				Usage: "enable the buyer tax-id fallback strategy",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "log per-record matching decisions",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	if c.String("reference") == "" && c.String("notices") == "" {
		return fmt.Errorf("one of --reference or --notices is required")
	}

	outDir := c.String("out")
	if outDir == "" {
		outDir = cfg.Data.OutputDir
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	debug := c.Bool("debug") || cfg.Matching.EnableDebugLogging
	normalizer := usecase.NewReferenceNormalizer(debug)
	reader := tabular.NewCSVReader(normalizer, debug)
	ctx := context.Background()

	domestic, err := reader.LoadDomestic(ctx, c.String("domestic"))
	if err != nil {
		return err
	}
	log.Printf("Domestic records: %d", len(domestic))

	var reference []domain.ReferenceRecord
	if path := c.String("reference"); path != "" {
		reference, err = reader.LoadReference(ctx, path)
	} else {
		reference, err = reader.LoadNotices(ctx, c.String("notices"))
	}
	if err != nil {
		return err
	}
	log.Printf("Reference records: %d", len(reference))

	service := usecase.NewCrossValService(usecase.CrossValConfig{
		Match: usecase.MatchConfig{
			TolerancePct:        cfg.Matching.TolerancePct,
			ToleranceAbs:        cfg.Matching.ToleranceAbs,
			YearWindow:          cfg.Matching.YearWindow,
			EnableBuyerFallback: c.Bool("buyer-fallback") || cfg.Matching.EnableBuyerFallback,
			EnableDebugLogging:  debug,
		},
		Selector: usecase.SelectorConfig{
			EUThreshold:       cfg.Matching.EUThreshold,
			UseSaraThresholds: c.Bool("sara") || cfg.Matching.UseSaraThresholds,
		},
		Reporting: usecase.ReportingConfig{
			MinGroupSize: cfg.Matching.MinGroupSize,
		},
	})

	report, err := service.Run(ctx, domestic, reference)
	if err != nil {
		return fmt.Errorf("cross-validation: %w", err)
	}

	writer := tabular.NewCSVWriter()
	matchedPath := filepath.Join(outDir, "crossval_matched.csv")
	if err := writer.WriteMatched(matchedPath, report.Matched); err != nil {
		return err
	}
	log.Printf("Matched: %s (%d records)", matchedPath, len(report.Matched))

	missingPath := filepath.Join(outDir, "crossval_missing.csv")
	if err := writer.WriteMissing(missingPath, report.Missing); err != nil {
		return err
	}
	log.Printf("Missing: %s (%d records)", missingPath, len(report.Missing))

	statsPath := filepath.Join(outDir, "crossval_stats.txt")
	if err := writer.WriteSummary(statsPath, report.Summary); err != nil {
		return err
	}
	log.Printf("Stats: %s", statsPath)

	return nil
}
