package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

type Observations interface {
	List(ctx context.Context, skip, limit int) ([]*Observation, int, error)
	GetByID(ctx context.Context, id int64) (*Observation, error)
	Create(ctx context.Context, record *Observation) (*Observation, error)
	Update(ctx context.Context, id int64, patch ObservationUpdate) (*Observation, error)
	Delete(ctx context.Context, id int64) error
}

type observations struct {
	db *bun.DB
}

var _ Observations = (*observations)(nil)

func NewObservationsRepository(db *bun.DB) Observations {
	return &observations{db: db}
}

func (r *observations) List(ctx context.Context, skip, limit int) ([]*Observation, int, error) {
	total, err := r.db.NewSelect().
		Model((*Observation)(nil)).
		Count(ctx)
	if err != nil {
		return nil, 0, errors.Wrap(err, errors.CategoryInternal, "failed to count observations")
	}

	records := []*Observation{}
	err = r.db.NewSelect().
		Model(&records).
		OrderExpr("?TableAlias.id DESC").
		Offset(skip).
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, 0, errors.Wrap(err, errors.CategoryInternal, "failed to list observations")
	}

	return records, total, nil
}

func (r *observations) GetByID(ctx context.Context, id int64) (*Observation, error) {
	record := &Observation{}
	err := r.db.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{"id": id})
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to get observation")
	}

	return record, nil
}

func (r *observations) Create(ctx context.Context, record *Observation) (*Observation, error) {
	_, err := r.db.NewInsert().
		Model(record).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to create observation")
	}

	return record, nil
}

func (r *observations) Update(ctx context.Context, id int64, patch ObservationUpdate) (*Observation, error) {
	record, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	patch.Apply(record)
	now := time.Now()
	record.UpdatedAt = &now

	_, err = r.db.NewUpdate().
		Model(record).
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to update observation")
	}

	return record, nil
}

func (r *observations) Delete(ctx context.Context, id int64) error {
	res, err := r.db.NewDelete().
		Model((*Observation)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to delete observation")
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to delete observation")
	}
	if affected == 0 {
		return repository.NewRecordNotFound().
			WithMetadata(map[string]any{"id": id})
	}

	return nil
}
