package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/travelgenz/booking-api/internal/domain/travel"
)

const (
	listPackagesSQL = `SELECT id, name, destination, days, display_price, visa_fee, image_url
		FROM travel_packages ORDER BY id`

	getPackageByIDSQL = `SELECT id, name, destination, days, display_price, visa_fee, image_url
		FROM travel_packages WHERE id = $1`
)

var _ travel.Repository = (*PackageRepository)(nil)

// PackageRepository implements travel.Repository backed by PostgreSQL.
type PackageRepository struct {
	pool *pgxpool.Pool
}

// NewPackageRepository returns a PackageRepository that uses the given pool.
func NewPackageRepository(pool *pgxpool.Pool) *PackageRepository {
	return &PackageRepository{pool: pool}
}

// List returns all travel packages ordered by ID.
func (r *PackageRepository) List(ctx context.Context) ([]travel.Package, error) {
	rows, err := r.pool.Query(ctx, listPackagesSQL)
	if err != nil {
		return nil, fmt.Errorf("listing packages: %w", err)
	}
	return pgx.CollectRows(rows, scanPackage)
}

// GetByID returns a single package by its identifier.
func (r *PackageRepository) GetByID(ctx context.Context, id string) (*travel.Package, error) {
	rows, err := r.pool.Query(ctx, getPackageByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting package %q: %w", id, err)
	}

	p, err := pgx.CollectExactlyOneRow(rows, scanPackage)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, travel.ErrNotFound
		}
		return nil, fmt.Errorf("getting package %q: %w", id, err)
	}
	return &p, nil
}

func scanPackage(row pgx.CollectableRow) (travel.Package, error) {
	var p travel.Package
	err := row.Scan(
		&p.ID, &p.Name, &p.Destination, &p.Days,
		&p.DisplayPrice, &p.VisaFee, &p.ImageURL,
	)
	return p, err
}
