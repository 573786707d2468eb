// Command reportd runs the reporting daemon: a small HTTP API for digest
// previews and reservation mapping, plus the cron-scheduled daily digest.
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"vendido/internal/config"
	"vendido/internal/email/noop"
	"vendido/internal/email/ses"
	"vendido/internal/email/smtp"
	"vendido/internal/handler"
	"vendido/internal/holded"
	"vendido/internal/ledger"
	"vendido/internal/port"
	"vendido/internal/router"
	"vendido/internal/service"
	localstorage "vendido/internal/storage/local"
	s3storage "vendido/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	loc := cfg.Location()

	packCfg, err := cfg.InferPackConfig()
	if err != nil {
		return fmt.Errorf("pack configuration: %w", err)
	}

	client := holded.NewClient(&cfg.Holded)
	products := holded.NewProductCache(client)

	sender, err := newSender(cfg)
	if err != nil {
		return err
	}

	store, db, err := newLedger(cfg)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	archive, err := newArchive(cfg)
	if err != nil {
		return err
	}

	mapperSvc := service.NewMapperService(
		client, products, sender, archive, cfg.Archive.Bucket, packCfg, loc, cfg.Mail.To)
	digestSvc := service.NewDigestService(
		client, store, sender, cfg.InferStatusConfig(), loc, cfg.Mail.To)

	healthH := handler.NewHealthHandler(db)
	reportH := handler.NewReportHandler(digestSvc, mapperSvc)
	r := router.Setup(healthH, reportH)

	if cfg.Schedule.Enabled {
		sched := cron.New(cron.WithLocation(loc))
		_, err := sched.AddFunc(cfg.Schedule.Cron, func() {
			summary, err := digestSvc.Run(context.Background(), time.Now())
			if err != nil {
				log.Printf("reportd: scheduled digest failed: %v", err)
				return
			}
			log.Printf("reportd: digest sent: %s", summary.Subject())
		})
		if err != nil {
			return fmt.Errorf("schedule %q: %w", cfg.Schedule.Cron, err)
		}
		sched.Start()
		defer sched.Stop()
		log.Printf("reportd: daily digest scheduled at %q (%s)", cfg.Schedule.Cron, loc)
	}

	log.Printf("reportd: server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

func newSender(cfg *config.Config) (port.EmailSender, error) {
	switch cfg.Mail.Provider {
	case "smtp":
		return smtp.NewSMTPSender(&cfg.Mail), nil
	case "ses":
		return ses.NewSESSender(cfg.Mail.Region, cfg.Mail.From, cfg.Mail.FromName)
	case "noop", "":
		return noop.NewNoopSender(), nil
	default:
		return nil, fmt.Errorf("unknown mail provider %q", cfg.Mail.Provider)
	}
}

func newLedger(cfg *config.Config) (port.LedgerStore, *sqlx.DB, error) {
	switch cfg.Ledger.Backend {
	case "postgres":
		db, err := ledger.NewDB(&cfg.Ledger.DB)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		store, err := ledger.NewPostgresStore(db)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		return store, db, nil
	case "file", "":
		return ledger.NewFileStore(cfg.Ledger.Path), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown ledger backend %q", cfg.Ledger.Backend)
	}
}

// newArchive builds the raw-document archive, nil when disabled.
func newArchive(cfg *config.Config) (port.ObjectStorage, error) {
	switch cfg.Archive.Backend {
	case "s3":
		return s3storage.NewS3Client(&cfg.Archive)
	case "local":
		return localstorage.NewLocalClient(cfg.Archive.Dir), nil
	case "none", "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown archive backend %q", cfg.Archive.Backend)
	}
}
