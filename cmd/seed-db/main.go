// Command seed-db loads the travel package catalog, the discount wheel
// offers, and a demo user into the database. It is idempotent; rerunning it
// upserts the same rows.
package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/travelgenz/booking-api/internal/repository"
)

type packageJSON struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Destination  string          `json:"destination"`
	Days         int             `json:"days"`
	DisplayPrice string          `json:"displayPrice"`
	VisaFee      decimal.Decimal `json:"visaFee"`
	ImageURL     string          `json:"imageUrl"`
}

const upsertPackageSQL = `
INSERT INTO travel_packages (id, name, destination, days, display_price, visa_fee, image_url)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (id) DO UPDATE SET
    name = EXCLUDED.name,
    destination = EXCLUDED.destination,
    days = EXCLUDED.days,
    display_price = EXCLUDED.display_price,
    visa_fee = EXCLUDED.visa_fee,
    image_url = EXCLUDED.image_url
`

const upsertOfferSQL = `
INSERT INTO wheel_offers (id, title, discount_label, weight)
VALUES ($1, $2, $3, $4)
ON CONFLICT (id) DO UPDATE SET
    title = EXCLUDED.title,
    discount_label = EXCLUDED.discount_label,
    weight = EXCLUDED.weight
`

const upsertUserSQL = `
INSERT INTO users (id, email, token_hash)
VALUES (gen_random_uuid(), $1, $2)
ON CONFLICT (email) DO UPDATE SET token_hash = EXCLUDED.token_hash
`

type offer struct {
	id     string
	title  string
	label  string
	weight int
}

// wheelOffers are the segments of the discount wheel. Weight controls how
// often a segment is presented, not any server-side probability.
var wheelOffers = []offer{
	{id: "wheel-5", title: "Starter Saver", label: "5% off", weight: 40},
	{id: "wheel-10", title: "Weekend Deal", label: "10% off", weight: 30},
	{id: "wheel-15", title: "Big Trip Bonus", label: "15% off", weight: 20},
	{id: "wheel-20", title: "Mega Saver", label: "20% off", weight: 10},
}

func main() {
	var (
		databaseURL  string
		packagesFile string
		demoToken    string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&packagesFile, "packages-file", "db/seed/packages.json", "path to packages JSON file")
	flag.StringVar(&demoToken, "demo-token", "", "session token to seed for the demo user (or TGZ_SEED_TOKEN env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}
	if demoToken == "" {
		demoToken = os.Getenv("TGZ_SEED_TOKEN")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, packagesFile, demoToken); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, packagesFile, demoToken string) error {
	slog.Info("connecting to database")

	pool, err := repository.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := repository.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	if err := seedPackages(ctx, pool, packagesFile); err != nil {
		return errors.Wrap(err, "seed packages")
	}
	if err := seedOffers(ctx, pool); err != nil {
		return errors.Wrap(err, "seed wheel offers")
	}
	if demoToken != "" {
		if err := seedDemoUser(ctx, pool, demoToken); err != nil {
			return errors.Wrap(err, "seed demo user")
		}
	}
	return nil
}

func seedPackages(ctx context.Context, pool *pgxpool.Pool, packagesFile string) error {
	slog.Info("reading packages file", slog.String("path", packagesFile))

	data, err := os.ReadFile(packagesFile)
	if err != nil {
		return errors.Wrap(err, "read packages file")
	}

	var packages []packageJSON
	if err := json.Unmarshal(data, &packages); err != nil {
		return errors.Wrap(err, "parse packages JSON")
	}

	slog.Info("upserting packages", slog.Int("count", len(packages)))

	for _, p := range packages {
		if _, err := pool.Exec(ctx, upsertPackageSQL,
			p.ID, p.Name, p.Destination, p.Days, p.DisplayPrice, p.VisaFee, p.ImageURL,
		); err != nil {
			return errors.Wrapf(err, "upsert package %s", p.ID)
		}
		slog.Info("upserted package", slog.String("id", p.ID), slog.String("name", p.Name))
	}
	return nil
}

func seedOffers(ctx context.Context, pool *pgxpool.Pool) error {
	slog.Info("seeding wheel offers", slog.Int("count", len(wheelOffers)))

	for _, o := range wheelOffers {
		if _, err := pool.Exec(ctx, upsertOfferSQL, o.id, o.title, o.label, o.weight); err != nil {
			return errors.Wrapf(err, "upsert offer %s", o.id)
		}
	}
	return nil
}

func seedDemoUser(ctx context.Context, pool *pgxpool.Pool, token string) error {
	sum := sha256.Sum256([]byte(token))
	hash := hex.EncodeToString(sum[:])

	if _, err := pool.Exec(ctx, upsertUserSQL, "demo@travelgenz.example", hash); err != nil {
		return errors.Wrap(err, "upsert demo user")
	}

	slog.Info("upserted demo user", slog.String("email", "demo@travelgenz.example"))
	return nil
}
