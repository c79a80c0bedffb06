// Command promo-ingest bulk-loads marketing promo codes from gzipped code
// lists into the coupons table. Ingested codes have no owner and validate for
// any signed-in user. A bloom filter keeps the memory footprint flat while
// deduplicating codes across files; the database's primary key catches the
// filter's rare false negatives.
package main

import (
	"bufio"
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgzip "github.com/klauspost/pgzip"
	"golang.org/x/sync/errgroup"

	"github.com/travelgenz/booking-api/internal/repository"
)

const (
	bloomCapacity = 50_000_000
	bloomFPR      = 0.001
	progressEvery = 1_000_000
	batchSize     = 1000
	minCodeLen    = 8
	maxCodeLen    = 16
	validityDays  = 365
)

const insertPromoSQL = `
INSERT INTO coupons (code, owner_id, discount_label, offer_title, expires_at)
VALUES ($1, NULL, $2, $3, $4)
ON CONFLICT (code) DO NOTHING
`

func main() {
	var (
		dataDir     string
		databaseURL string
		label       string
		title       string
		workers     int
	)

	flag.StringVar(&dataDir, "data-dir", "data", "directory containing *.gz promo code lists")
	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&label, "discount-label", "10% off", "discount label for ingested codes")
	flag.StringVar(&title, "offer-title", "Promo code", "offer title for ingested codes")
	flag.IntVar(&workers, "workers", 4, "concurrent insert workers")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, dataDir, databaseURL, label, title, workers); err != nil {
		slog.Error("promo ingest failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("promo ingest completed successfully")
}

func run(ctx context.Context, dataDir, databaseURL, label, title string, workers int) error {
	files, err := filepath.Glob(filepath.Join(dataDir, "*.gz"))
	if err != nil {
		return errors.Wrap(err, "list code files")
	}
	if len(files) == 0 {
		return errors.Errorf("no *.gz files in %s", dataDir)
	}

	slog.Info("connecting to database")

	pool, err := repository.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	ing := &ingester{
		pool:      pool,
		label:     label,
		title:     title,
		expiresAt: time.Now().AddDate(0, 0, validityDays),
		seen:      bloom.NewWithEstimates(bloomCapacity, bloomFPR),
		batches:   make(chan []string, workers),
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < workers; i++ {
		g.Go(func() error { return ing.insertWorker(gctx) })
	}
	g.Go(func() error {
		defer close(ing.batches)
		for _, f := range files {
			if err := ing.streamFile(gctx, f); err != nil {
				return err
			}
		}
		return nil
	})

	return g.Wait()
}

type ingester struct {
	pool      *pgxpool.Pool
	label     string
	title     string
	expiresAt time.Time

	// seen is only touched from the single streaming goroutine.
	seen    *bloom.BloomFilter
	batches chan []string
}

// streamFile reads one gzipped code list and feeds deduplicated batches to
// the insert workers.
func (ing *ingester) streamFile(ctx context.Context, path string) error {
	slog.Info("streaming code list", slog.String("path", path))

	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "open %s", path)
	}
	defer func() { _ = f.Close() }()

	gz, err := pgzip.NewReader(f)
	if err != nil {
		return errors.Wrapf(err, "create gzip reader for %s", path)
	}
	defer func() { _ = gz.Close() }()

	var (
		total uint64
		kept  uint64
		batch = make([]string, 0, batchSize)
	)

	scanner := bufio.NewScanner(gz)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		code := strings.ToUpper(strings.TrimSpace(scanner.Text()))
		total++
		if total%progressEvery == 0 {
			slog.Info("ingest progress",
				slog.String("path", path),
				slog.Uint64("read", total),
				slog.Uint64("kept", kept),
			)
		}

		if len(code) < minCodeLen || len(code) > maxCodeLen {
			continue
		}
		if ing.seen.TestAndAddString(code) {
			continue
		}

		kept++
		batch = append(batch, code)
		if len(batch) == batchSize {
			if err := ing.send(ctx, batch); err != nil {
				return err
			}
			batch = make([]string, 0, batchSize)
		}
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrapf(err, "scan %s", path)
	}

	if len(batch) > 0 {
		if err := ing.send(ctx, batch); err != nil {
			return err
		}
	}

	slog.Info("code list done",
		slog.String("path", path),
		slog.Uint64("read", total),
		slog.Uint64("kept", kept),
	)
	return nil
}

func (ing *ingester) send(ctx context.Context, batch []string) error {
	select {
	case ing.batches <- batch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// insertWorker drains batches into the coupons table.
func (ing *ingester) insertWorker(ctx context.Context) error {
	for batch := range ing.batches {
		b := &pgx.Batch{}
		for _, code := range batch {
			b.Queue(insertPromoSQL, code, ing.label, ing.title, ing.expiresAt)
		}
		if err := ing.pool.SendBatch(ctx, b).Close(); err != nil {
			return errors.Wrap(err, "insert promo batch")
		}
	}
	return nil
}
