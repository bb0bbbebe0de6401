package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"estrenos-monitor/boxoffice"
	"estrenos-monitor/catalog"
	"estrenos-monitor/config"
	"estrenos-monitor/models"
	"estrenos-monitor/pipeline"
	"estrenos-monitor/publish"
	"estrenos-monitor/services"
	"estrenos-monitor/sources/ultracine"
	"estrenos-monitor/sources/vimeo"
	"estrenos-monitor/sources/xapi"
	"estrenos-monitor/sources/youtube"
	"estrenos-monitor/storage"
	"estrenos-monitor/utils"
)

func main() {
	importPath := flag.String("import-boxoffice", "", "import a manual box-office CSV instead of running the daily cycle")
	flag.Parse()

	logger := utils.NewLogger()
	cfg := config.Load()

	logger.Info("=== Estrenos Monitor starting ===")
	logger.Info("Config — store: %s | window: ±%d days | rate: %dms | retries: %d",
		cfg.StoreDriver, cfg.WindowDays, cfg.RateLimitMs, cfg.MaxRetries)

	store, err := openStore(cfg)
	if err != nil {
		logger.Error("Failed to open snapshot store: %v", err)
		os.Exit(1)
	}
	defer store.Close()

	if *importPath != "" {
		n, err := boxoffice.ImportCSV(*importPath, store, logger)
		if err != nil {
			logger.Error("Box-office import failed: %v", err)
			os.Exit(1)
		}
		logger.Info("Box-office import done: %d titles", n)
		return
	}

	ctx := context.Background()
	timeout := time.Duration(cfg.HTTPTimeoutSec) * time.Second

	loader := catalog.NewLoader(cfg.CatalogURLs, timeout, cfg.MaxRetries, logger)

	yt, err := youtube.New(ctx, cfg.YouTubeAPIKey, timeout)
	if err != nil {
		logger.Error("Failed to build YouTube client: %v", err)
		os.Exit(1)
	}
	trailers := map[string]pipeline.TrailerSource{
		models.TrailerYouTube: yt,
		models.TrailerVimeo:   vimeo.New(timeout),
	}

	p := pipeline.New(store, loader, trailers,
		xapi.New(cfg.XBearerToken, timeout),
		ultracine.New(cfg.UltracineToken, cfg.UltracineCty, timeout),
		cfg, logger)

	report, run, err := p.Run(ctx, time.Now())
	if err != nil {
		logger.Error("Daily run failed: %v", err)
		os.Exit(1)
	}

	if err := exportCSV(cfg.CSVOutputPath, report); err != nil {
		logger.Error("CSV export failed: %v", err)
	} else {
		logger.Info("Report CSV saved to %s", cfg.CSVOutputPath)
	}

	if err := services.WriteJSON(cfg.JSONOutputPath, report); err != nil {
		logger.Error("JSON export failed: %v", err)
	} else {
		logger.Info("Report JSON saved to %s", cfg.JSONOutputPath)
	}

	if cfg.PublishEnabled() {
		pub := publish.NewGitHubPublisher(cfg.GitHubToken, cfg.GitHubRepo, cfg.GitHubBranch, timeout, logger)
		err := pub.PublishReport(ctx, run.Date, map[string]string{
			"report.csv":  cfg.CSVOutputPath,
			"report.json": cfg.JSONOutputPath,
		})
		if err != nil {
			logger.Error("GitHub publish failed: %v", err)
		}
	}

	services.PrintSummary(report, run)

	fmt.Printf("  Done. CSV → %s | JSON → %s | store → %s\n\n",
		cfg.CSVOutputPath, cfg.JSONOutputPath, cfg.StoreDriver)
}

func openStore(cfg *config.Config) (*storage.Store, error) {
	if cfg.StoreDriver == "postgres" {
		return storage.OpenPostgres(cfg.DSN())
	}
	return storage.OpenSQLite(cfg.SQLitePath)
}

func exportCSV(path string, report *models.Report) error {
	w, err := storage.NewCSVWriter(path)
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.WriteSection("upcoming", report.Upcoming); err != nil {
		return err
	}
	return w.WriteSection("released", report.Released)
}
