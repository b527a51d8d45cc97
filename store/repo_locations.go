package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

type Locations interface {
	List(ctx context.Context, skip, limit int) ([]*LocationWithCount, int, error)
	GetByID(ctx context.Context, id int64) (*LocationWithCount, error)
	Create(ctx context.Context, record *Location) (*Location, error)
	Update(ctx context.Context, id int64, patch LocationUpdate) (*Location, error)
	Delete(ctx context.Context, id int64) error
}

type locations struct {
	db *bun.DB
}

var _ Locations = (*locations)(nil)

func NewLocationsRepository(db *bun.DB) Locations {
	return &locations{db: db}
}

type locationCount struct {
	LocationID int64 `bun:"location_id"`
	Count      int   `bun:"n"`
}

// observationCounts returns a location id -> observation count map for the
// given ids. Issued as a second grouped query rather than a join so the
// listing query stays a plain model select.
func (r *locations) observationCounts(ctx context.Context, ids []int64) (map[int64]int, error) {
	counts := map[int64]int{}
	if len(ids) == 0 {
		return counts, nil
	}

	rows := []locationCount{}
	err := r.db.NewSelect().
		Model((*Observation)(nil)).
		Column("location_id").
		ColumnExpr("COUNT(*) AS n").
		Where("location_id IN (?)", bun.In(ids)).
		Group("location_id").
		Scan(ctx, &rows)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to count observations per location")
	}

	for _, row := range rows {
		counts[row.LocationID] = row.Count
	}

	return counts, nil
}

func (r *locations) List(ctx context.Context, skip, limit int) ([]*LocationWithCount, int, error) {
	total, err := r.db.NewSelect().
		Model((*Location)(nil)).
		Count(ctx)
	if err != nil {
		return nil, 0, errors.Wrap(err, errors.CategoryInternal, "failed to count locations")
	}

	records := []*Location{}
	err = r.db.NewSelect().
		Model(&records).
		OrderExpr("?TableAlias.id DESC").
		Offset(skip).
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, 0, errors.Wrap(err, errors.CategoryInternal, "failed to list locations")
	}

	ids := make([]int64, 0, len(records))
	for _, record := range records {
		ids = append(ids, record.ID)
	}

	counts, err := r.observationCounts(ctx, ids)
	if err != nil {
		return nil, 0, err
	}

	result := make([]*LocationWithCount, 0, len(records))
	for _, record := range records {
		result = append(result, &LocationWithCount{
			Location:         *record,
			ObservationCount: counts[record.ID],
		})
	}

	return result, total, nil
}

func (r *locations) GetByID(ctx context.Context, id int64) (*LocationWithCount, error) {
	record := &Location{}
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
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to get location")
	}

	counts, err := r.observationCounts(ctx, []int64{id})
	if err != nil {
		return nil, err
	}

	return &LocationWithCount{
		Location:         *record,
		ObservationCount: counts[id],
	}, nil
}

func (r *locations) Create(ctx context.Context, record *Location) (*Location, error) {
	_, err := r.db.NewInsert().
		Model(record).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to create location")
	}

	return record, nil
}

func (r *locations) Update(ctx context.Context, id int64, patch LocationUpdate) (*Location, error) {
	record := &Location{}
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
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to get location")
	}

	patch.Apply(record)
	now := time.Now()
	record.UpdatedAt = &now

	_, err = r.db.NewUpdate().
		Model(record).
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to update location")
	}

	return record, nil
}

func (r *locations) Delete(ctx context.Context, id int64) error {
	res, err := r.db.NewDelete().
		Model((*Location)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to delete location")
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to delete location")
	}
	if affected == 0 {
		return repository.NewRecordNotFound().
			WithMetadata(map[string]any{"id": id})
	}

	return nil
}
