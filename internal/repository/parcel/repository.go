// Package parcel persists Package records. The directory is named parcel
// because "package" is a Go keyword.
package parcel

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Additional-Code/paketku/internal/database"
	"github.com/Additional-Code/paketku/internal/entity"
)

var repoTracer = otel.Tracer("github.com/Additional-Code/paketku/repository/parcel")

// ErrNotFound is returned when a package is missing.
var ErrNotFound = errors.New("package not found")

// Repository encapsulates read/write access for packages.
type Repository struct {
	writer *bun.DB
	reader *bun.DB
}

// NewRepository wires a repository backed by configured database connections.
func NewRepository(conns *database.Connections) *Repository {
	return &Repository{
		writer: conns.Writer,
		reader: conns.Reader,
	}
}

// Create persists a new package using the write connection.
func (r *Repository) Create(ctx context.Context, pkg *entity.Package) error {
	if pkg == nil {
		return errors.New("nil package")
	}
	ctx, span := repoTracer.Start(ctx, "PackageRepository.Create", trace.WithAttributes(attribute.String("package.tracking_number", pkg.TrackingNumber)))
	defer span.End()

	_, err := r.writer.NewInsert().Model(pkg).Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
	}
	return err
}

// GetByID fetches a package by primary key using the read replica when available.
func (r *Repository) GetByID(ctx context.Context, id int64) (*entity.Package, error) {
	ctx, span := repoTracer.Start(ctx, "PackageRepository.GetByID", trace.WithAttributes(attribute.Int64("package.id", id)))
	defer span.End()

	pkg := new(entity.Package)
	err := r.reader.NewSelect().Model(pkg).Where("id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		span.SetStatus(codes.Error, "not found")
		return nil, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return pkg, nil
}

// List loads every package. Ordering is left to the service layer; the
// select orders by id only so results are deterministic across drivers.
func (r *Repository) List(ctx context.Context) ([]*entity.Package, error) {
	ctx, span := repoTracer.Start(ctx, "PackageRepository.List")
	defer span.End()

	var pkgs []*entity.Package
	err := r.reader.NewSelect().Model(&pkgs).Order("id ASC").Scan(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return pkgs, nil
}

// Update writes the full row back. Returns ErrNotFound when no row matched.
func (r *Repository) Update(ctx context.Context, pkg *entity.Package) error {
	if pkg == nil {
		return errors.New("nil package")
	}
	ctx, span := repoTracer.Start(ctx, "PackageRepository.Update", trace.WithAttributes(attribute.Int64("package.id", pkg.ID)))
	defer span.End()

	res, err := r.writer.NewUpdate().Model(pkg).WherePK().Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "update failed")
		return err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		span.SetStatus(codes.Error, "not found")
		return ErrNotFound
	}
	return nil
}

// Delete removes a package by id. Returns ErrNotFound when no row matched.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	ctx, span := repoTracer.Start(ctx, "PackageRepository.Delete", trace.WithAttributes(attribute.Int64("package.id", id)))
	defer span.End()

	res, err := r.writer.NewDelete().Model((*entity.Package)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "delete failed")
		return err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		span.SetStatus(codes.Error, "not found")
		return ErrNotFound
	}
	return nil
}
