package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/sergioberino/tedcross/config"
	httpDelivery "github.com/sergioberino/tedcross/internal/delivery/http"
	"github.com/sergioberino/tedcross/internal/domain"
	"github.com/sergioberino/tedcross/internal/infrastructure/tabular"
	"github.com/sergioberino/tedcross/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting tedcross results API v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)

	if cfg.Data.DomesticPath == "" || (cfg.Data.ReferencePath == "" && cfg.Data.NoticesPath == "") {
		log.Fatalf("data.domestic_path and one of data.reference_path / data.notices_path are required " +
			"(set TEDCROSS_DATA_DOMESTIC_PATH, TEDCROSS_DATA_REFERENCE_PATH)")
	}

	normalizer := usecase.NewReferenceNormalizer(cfg.Matching.EnableDebugLogging)
	reader := tabular.NewCSVReader(normalizer, cfg.Matching.EnableDebugLogging)

	ctx := context.Background()

	domestic, err := reader.LoadDomestic(ctx, cfg.Data.DomesticPath)
	if err != nil {
		log.Fatalf("Failed to load domestic dataset: %v", err)
	}
	log.Printf("Domestic records: %d", len(domestic))

	reference, err := loadReference(ctx, reader, cfg)
	if err != nil {
		log.Fatalf("Failed to load reference dataset: %v", err)
	}
	log.Printf("Reference records: %d", len(reference))

	service := usecase.NewCrossValService(usecase.CrossValConfig{
		Match: usecase.MatchConfig{
			TolerancePct:        cfg.Matching.TolerancePct,
			ToleranceAbs:        cfg.Matching.ToleranceAbs,
			YearWindow:          cfg.Matching.YearWindow,
			EnableBuyerFallback: cfg.Matching.EnableBuyerFallback,
			EnableDebugLogging:  cfg.Matching.EnableDebugLogging,
		},
		Selector: usecase.SelectorConfig{
			EUThreshold:       cfg.Matching.EUThreshold,
			UseSaraThresholds: cfg.Matching.UseSaraThresholds,
		},
		Reporting: usecase.ReportingConfig{
			MinGroupSize: cfg.Matching.MinGroupSize,
		},
	})

	report, err := service.Run(ctx, domestic, reference)
	if err != nil {
		log.Fatalf("Cross-validation failed: %v", err)
	}

	handler := httpDelivery.NewHandler()
	handler.SetReport(report)

	router := httpDelivery.SetupRouter(cfg, handler)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func loadReference(ctx context.Context, reader *tabular.CSVReader, cfg *config.Config) ([]domain.ReferenceRecord, error) {
	if cfg.Data.ReferencePath != "" {
		return reader.LoadReference(ctx, cfg.Data.ReferencePath)
	}
	return reader.LoadNotices(ctx, cfg.Data.NoticesPath)
}

func init() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
