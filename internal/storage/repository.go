package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/guttosm/irarb/internal/domain/models"
	pq "github.com/lib/pq"
)

// Repository defines contract for DB operations.
type Repository interface {
	ReplaceInstruments(ctx context.Context, instruments []models.DerivativeInstrument) error
	ListByUnderlier(ctx context.Context, underlier string, asOf time.Time) ([]models.DerivativeInstrument, error)
	MaturityOf(ctx context.Context, ticker string) (string, bool, error)
	InsertOpportunities(ctx context.Context, opps []models.Opportunity) error
	RecentOpportunities(ctx context.Context, limit int) ([]models.Opportunity, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

// ReplaceInstruments swaps the whole instrument catalog in a single transaction.
// Catalog order is kept per underlier through the position column.
func (r *repository) ReplaceInstruments(ctx context.Context, instruments []models.DerivativeInstrument) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM instruments`); err != nil {
		_ = tx.Rollback()
		return err
	}

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn(
		"instruments",
		"ticker",
		"underlier",
		"maturity_date",
		"maturity_label",
		"contract_size",
		"position",
	))
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	for i, inst := range instruments {
		if _, err := stmt.ExecContext(ctx,
			inst.Ticker,
			inst.Underlier,
			inst.MaturityDate,
			inst.MaturityLabel,
			inst.ContractSize,
			i,
		); err != nil {
			_ = stmt.Close()
			_ = tx.Rollback()
			return err
		}
	}

	if _, err := stmt.ExecContext(ctx); err != nil {
		_ = stmt.Close()
		_ = tx.Rollback()
		return err
	}
	if err := stmt.Close(); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

// ListByUnderlier returns the instruments of underlier maturing after asOf, in catalog order.
func (r *repository) ListByUnderlier(ctx context.Context, underlier string, asOf time.Time) ([]models.DerivativeInstrument, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT ticker, underlier, maturity_date, maturity_label, contract_size
		FROM instruments
		WHERE underlier = $1 AND maturity_date > $2
		ORDER BY position`, underlier, asOf)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []models.DerivativeInstrument
	for rows.Next() {
		var inst models.DerivativeInstrument
		if err := rows.Scan(&inst.Ticker, &inst.Underlier, &inst.MaturityDate, &inst.MaturityLabel, &inst.ContractSize); err != nil {
			return nil, err
		}
		out = append(out, inst)
	}
	return out, rows.Err()
}

// MaturityOf returns the maturity label of ticker; ok is false if the ticker is unknown.
func (r *repository) MaturityOf(ctx context.Context, ticker string) (string, bool, error) {
	var label string
	err := r.db.QueryRowContext(ctx, `SELECT maturity_label FROM instruments WHERE ticker = $1`, ticker).Scan(&label)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return label, true, nil
}

// InsertOpportunities appends detected opportunities to the audit log.
func (r *repository) InsertOpportunities(ctx context.Context, opps []models.Opportunity) error {
	if len(opps) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	// Small optimization for bulk load
	if _, err := tx.ExecContext(ctx, `SET LOCAL synchronous_commit = OFF`); err != nil {
		_ = tx.Rollback()
		return err
	}

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn(
		"opportunities",
		"cycle_id",
		"maturity",
		"taker_underlier",
		"taker_ticker",
		"taker_price",
		"taker_rate",
		"offered_underlier",
		"offered_ticker",
		"offered_price",
		"offered_rate",
		"spread",
		"detected_at",
	))
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	for _, o := range opps {
		if _, err := stmt.ExecContext(ctx,
			o.CycleID,
			o.Maturity,
			o.Taker.Underlier,
			o.Taker.Ticker,
			o.Taker.Price,
			o.Taker.Rate,
			o.Offered.Underlier,
			o.Offered.Ticker,
			o.Offered.Price,
			o.Offered.Rate,
			o.Spread,
			o.DetectedAt,
		); err != nil {
			_ = stmt.Close()
			_ = tx.Rollback()
			return err
		}
	}

	if _, err := stmt.ExecContext(ctx); err != nil {
		_ = stmt.Close()
		_ = tx.Rollback()
		return err
	}
	if err := stmt.Close(); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

// RecentOpportunities returns the latest logged opportunities, newest first.
func (r *repository) RecentOpportunities(ctx context.Context, limit int) ([]models.Opportunity, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT cycle_id, maturity,
			taker_underlier, taker_ticker, taker_price, taker_rate,
			offered_underlier, offered_ticker, offered_price, offered_rate,
			spread, detected_at
		FROM opportunities
		ORDER BY detected_at DESC, id DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := []models.Opportunity{}
	for rows.Next() {
		var o models.Opportunity
		if err := rows.Scan(
			&o.CycleID, &o.Maturity,
			&o.Taker.Underlier, &o.Taker.Ticker, &o.Taker.Price, &o.Taker.Rate,
			&o.Offered.Underlier, &o.Offered.Ticker, &o.Offered.Price, &o.Offered.Rate,
			&o.Spread, &o.DetectedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
