package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/wijk-raffle/kupon-backend/internal/config"
	"github.com/wijk-raffle/kupon-backend/internal/models"
	"github.com/wijk-raffle/kupon-backend/internal/services"
	"github.com/wijk-raffle/kupon-backend/internal/store"
	"github.com/wijk-raffle/kupon-backend/pkg/logger"
)

// columnNames lists the accepted header names per field, export names first.
var columnNames = map[string][]string{
	"family":      {"Nama Keluarga", "Keluarga", "namaKeluarga"},
	"participant": {"Nama Remaja", "Nama", "namaRemaja"},
	"category":    {"Kategori", "Kategori Pembelian", "kategoriPembelian"},
	"numbers":     {"Nomor Kupon", "nomorKupon"},
	"quantity":    {"Jumlah Kupon", "jumlahKupon"},
	"zone":        {"Wijk", "wijk"},
	"paid":        {"Jumlah Dibayar", "jumlahDibayar"},
	"payment":     {"Status Pembayaran", "statusPembayaran"},
	"receipt":     {"Status Penerimaan", "statusPenerimaan"},
}

var requiredColumns = []string{"zone", "payment", "numbers", "quantity"}

// Imports coupon allocations from a CSV file through the normal validation
// path, so collisions and payment rules apply as if entered by hand.
func main() {
	if len(os.Args) < 2 {
		log.Fatal("CSV file path is required as a command line argument")
	}
	csvFilePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logr, err := logger.NewLogger(&cfg.Log)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	ctx := context.Background()
	stores, err := store.Open(ctx, cfg, logr)
	if err != nil {
		logr.WithError(err).Fatal("Failed to open storage")
	}
	defer stores.Close(ctx)

	file, err := os.Open(csvFilePath)
	if err != nil {
		logr.WithError(err).Fatal("Failed to open CSV file")
	}
	defer file.Close()

	couponService := services.NewCouponService(stores.Coupons, cfg.Raffle.UnitPrice, logr)
	imported, skipped, err := importCoupons(ctx, couponService, file, logr)
	if err != nil {
		logr.WithError(err).Fatal("Failed to import data")
	}

	logr.WithFields(logrus.Fields{"imported": imported, "skipped": skipped}).Info("Data imported")
}

// importCoupons creates one allocation per data row. Rows that fail
// validation are logged and skipped.
func importCoupons(ctx context.Context, svc *services.CouponService, r io.Reader, logr logrus.FieldLogger) (int, int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to parse CSV file: %w", err)
	}
	if len(records) < 2 {
		return 0, 0, fmt.Errorf("CSV file is empty or has only header")
	}

	columns, err := mapColumns(records[0])
	if err != nil {
		return 0, 0, err
	}

	var imported, skipped int
	for i, record := range records[1:] {
		line := i + 2
		in, err := rowToInput(columns, record)
		if err != nil {
			logr.WithField("line", line).WithError(err).Warn("Skipping row")
			skipped++
			continue
		}
		if _, err := svc.CreateCoupon(ctx, in); err != nil {
			logr.WithField("line", line).WithError(err).Warn("Skipping row")
			skipped++
			continue
		}
		imported++
	}
	return imported, skipped, nil
}

// mapColumns resolves each field to its index in header, -1 when absent.
func mapColumns(header []string) (map[string]int, error) {
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	columns := make(map[string]int, len(columnNames))
	for field, names := range columnNames {
		columns[field] = findColumnIndex(header, names)
	}
	for _, field := range requiredColumns {
		if columns[field] == -1 {
			return nil, fmt.Errorf("column %q not found in CSV", columnNames[field][0])
		}
	}
	return columns, nil
}

func findColumnIndex(header []string, possibleNames []string) int {
	for i, h := range header {
		h = strings.TrimSpace(h)
		for _, name := range possibleNames {
			if strings.EqualFold(name, h) {
				return i
			}
		}
	}
	return -1
}

// rowToInput maps a data row to a CouponInput. Rows without numbers are
// bookings.
func rowToInput(columns map[string]int, record []string) (services.CouponInput, error) {
	field := func(name string) string {
		i := columns[name]
		if i < 0 || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	in := services.CouponInput{
		FamilyName:      field("family"),
		ParticipantName: field("participant"),
		Category:        field("category"),
		Zone:            field("zone"),
		PaymentStatus:   models.PaymentStatus(field("payment")),
		ReceiptStatus:   models.ReceiptStatus(field("receipt")),
	}

	if paid := field("paid"); paid != "" {
		amount, err := strconv.ParseInt(paid, 10, 64)
		if err != nil {
			return in, fmt.Errorf("invalid paid amount %q", paid)
		}
		in.Paid = amount
	}

	if numbers := strings.ReplaceAll(field("numbers"), ";", ","); numbers != "" {
		in.Mode = models.ModeDirect
		in.CouponNumbers = numbers
		return in, nil
	}

	in.Mode = models.ModeBooking
	qty, err := strconv.Atoi(field("quantity"))
	if err != nil {
		return in, fmt.Errorf("invalid quantity %q", field("quantity"))
	}
	in.Quantity = qty
	return in, nil
}
