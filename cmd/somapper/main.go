// Command somapper maps sales orders into material reservation tables from
// the command line. One document by id, or the orders of the last N minutes.
//
// Usage:
//
//	somapper -doc-id <id> [-send-email] [-xlsx out.xlsx] [-dump-json]
//	somapper -minutes 1440 -limit 10 [-send-email] [-csv-dir out/] [-dump-json]
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"vendido/internal/config"
	"vendido/internal/csvexport"
	"vendido/internal/domain"
	"vendido/internal/email/noop"
	"vendido/internal/email/ses"
	"vendido/internal/email/smtp"
	"vendido/internal/holded"
	"vendido/internal/port"
	"vendido/internal/report"
	"vendido/internal/service"
	localstorage "vendido/internal/storage/local"
)

func main() {
	docID := flag.String("doc-id", "", "map a single sales order by id")
	minutes := flag.Int("minutes", 1440, "look back this many minutes when listing")
	limit := flag.Int("limit", 10, "cap the number of mapped orders, 0 = no cap")
	dumpJSON := flag.Bool("dump-json", false, "archive raw document JSON to the local archive dir")
	sendEmail := flag.Bool("send-email", false, "email each reservation table")
	xlsxPath := flag.String("xlsx", "", "write the reservation rows to an XLSX file")
	csvPath := flag.String("csv", "", "write the reservation rows to a CSV file")
	csvDir := flag.String("csv-dir", "", "write one CSV per order into this directory, named from the order ref")
	flag.Parse()

	if err := run(*docID, *minutes, *limit, *dumpJSON, *sendEmail, *xlsxPath, *csvPath, *csvDir); err != nil {
		log.Fatal(err)
	}
}

func run(docID string, minutes, limit int, dumpJSON, sendEmail bool, xlsxPath, csvPath, csvDir string) error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
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

	var archive port.ObjectStorage
	if dumpJSON {
		archive = localstorage.NewLocalClient(cfg.Archive.Dir)
	}

	svc := service.NewMapperService(
		client, products, sender, archive, cfg.Archive.Bucket, packCfg, cfg.Location(), cfg.Mail.To)

	ctx := context.Background()
	var reservations []*service.Reservation
	if docID != "" {
		res, err := svc.MapByID(ctx, docID)
		if err != nil {
			return err
		}
		reservations = append(reservations, res)
	} else {
		reservations, err = svc.MapRecent(ctx, minutes, limit)
		if err != nil {
			return err
		}
		if len(reservations) == 0 {
			fmt.Println("No hay pedidos en la ventana indicada.")
			return nil
		}
	}

	for _, res := range reservations {
		printReservation(res)
		if sendEmail {
			if err := svc.SendReservation(ctx, res); err != nil {
				return err
			}
			log.Printf("somapper: reservation %s emailed", res.Header.Number)
		}
	}

	if xlsxPath != "" {
		if err := report.SaveReservationXLSX(xlsxPath, collectRows(reservations)); err != nil {
			return err
		}
		log.Printf("somapper: wrote %s", xlsxPath)
	}
	if csvPath != "" {
		if err := writeCSV(csvPath, collectRows(reservations)); err != nil {
			return err
		}
		log.Printf("somapper: wrote %s", csvPath)
	}
	if csvDir != "" {
		for _, res := range reservations {
			path, err := csvexport.WriteFile(csvDir, res.Header.Number, res.Rows)
			if err != nil {
				return err
			}
			log.Printf("somapper: wrote %s", path)
		}
	}
	return nil
}

func writeCSV(path string, rows []domain.ReservationRow) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.Write(csvexport.BOM); err != nil {
		return err
	}
	w := csvexport.NewWriter(f)
	if err := w.WriteHeader(); err != nil {
		return err
	}
	if err := w.WriteRows(rows); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func collectRows(reservations []*service.Reservation) []domain.ReservationRow {
	var rows []domain.ReservationRow
	for _, res := range reservations {
		rows = append(rows, res.Rows...)
	}
	return rows
}

func printReservation(res *service.Reservation) {
	transport := "-"
	if res.Header.HasTransport {
		transport = report.FormatEUR(res.Header.Transport, 2)
	}
	fmt.Fprintf(os.Stdout, "Pedido %s | Cliente: %s | Fecha: %s | Transporte: %s\n",
		res.Header.Number, res.Header.Customer, res.Header.DateLabel, transport)
	fmt.Println(report.RenderTable(res.Rows))
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
