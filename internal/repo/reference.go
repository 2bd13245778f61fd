// Package repo contains all database access logic for the reference tables.
// No business logic lives here, only SQL and type mapping.
package repo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/bluetrail/internal/domain"
	"github.com/pkordes/bluetrail/internal/reference"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// ReferenceRepo reads every version of the reference tables.
// The refresher depends on this interface, not the Postgres implementation.
type ReferenceRepo interface {
	// Load returns all rows of bhpont, bhszakasz, nagyszakasz and
	// turamozgalom, historical versions included.
	Load(ctx context.Context) (reference.Data, error)
}

// pgReferenceRepo is the Postgres implementation of ReferenceRepo.
type pgReferenceRepo struct {
	db db
}

// NewReferenceRepo constructs a ReferenceRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewReferenceRepo(db db) ReferenceRepo {
	return &pgReferenceRepo{db: db}
}

// Load reads the four tables in one pass each. Rows are ordered by objectid
// so a snapshot built from the result is reproducible.
func (r *pgReferenceRepo) Load(ctx context.Context) (reference.Data, error) {
	var (
		d   reference.Data
		err error
	)
	if d.Checkpoints, err = r.checkpoints(ctx); err != nil {
		return reference.Data{}, fmt.Errorf("repo.ReferenceRepo.Load: %w", err)
	}
	if d.Segments, err = r.segments(ctx); err != nil {
		return reference.Data{}, fmt.Errorf("repo.ReferenceRepo.Load: %w", err)
	}
	if d.Sections, err = r.sections(ctx); err != nil {
		return reference.Data{}, fmt.Errorf("repo.ReferenceRepo.Load: %w", err)
	}
	if d.Definitions, err = r.definitions(ctx); err != nil {
		return reference.Data{}, fmt.Errorf("repo.ReferenceRepo.Load: %w", err)
	}
	return d, nil
}

func (r *pgReferenceRepo) checkpoints(ctx context.Context) ([]domain.Checkpoint, error) {
	const q = `
		SELECT objectid, bh_id, mtsz_id, bh_nev, lat, lon, start_date, end_date
		FROM bhpont
		ORDER BY objectid`

	return collect(ctx, r.db, q, "bhpont", func(row pgx.Rows) (domain.Checkpoint, error) {
		var (
			c        domain.Checkpoint
			lat, lon pgtype.Numeric
			start    time.Time
			end      pgtype.Timestamptz
		)
		if err := row.Scan(&c.ObjectID, &c.ID, &c.StampPointID, &c.Name, &lat, &lon, &start, &end); err != nil {
			return domain.Checkpoint{}, err
		}
		c.Lat = numeric(lat)
		c.Lon = numeric(lon)
		c.Validity = validity(start, end)
		return c, nil
	})
}

func (r *pgReferenceRepo) segments(ctx context.Context) ([]domain.Segment, error) {
	const q = `
		SELECT objectid, bhszakasz_id, nagyszakasz_id, szakasznev, kezdopont, vegpont,
		       kezdopont_bh_id, vegpont_bh_id, tav, szintemelkedes, szintcsokkenes,
		       szintido_oda, szintido_vissza, okk_mozgalom, start_date, end_date
		FROM bhszakasz
		ORDER BY objectid`

	return collect(ctx, r.db, q, "bhszakasz", func(row pgx.Rows) (domain.Segment, error) {
		var (
			s          domain.Segment
			km         pgtype.Numeric
			gain, loss int16
			trail      string
			start      time.Time
			end        pgtype.Timestamptz
		)
		err := row.Scan(&s.ObjectID, &s.ID, &s.MajorSectionID, &s.Name, &s.StartName, &s.EndName,
			&s.StartCheckpointID, &s.EndCheckpointID, &km, &gain, &loss,
			&s.TimeLimitForward, &s.TimeLimitReverse, &trail, &start, &end)
		if err != nil {
			return domain.Segment{}, err
		}
		s.LengthKm = numeric(km)
		s.ElevationGain = int(gain)
		s.ElevationLoss = int(loss)
		s.Trail = trailCode(trail)
		s.Validity = validity(start, end)
		return s, nil
	})
}

func (r *pgReferenceRepo) sections(ctx context.Context) ([]domain.MajorSection, error) {
	const q = `
		SELECT objectid, nagyszakasz_id, nev, okk_mozgalom, kezdopont_bh_id, vegpont_bh_id,
		       tav, start_date, end_date
		FROM nagyszakasz
		ORDER BY objectid`

	return collect(ctx, r.db, q, "nagyszakasz", func(row pgx.Rows) (domain.MajorSection, error) {
		var (
			m     domain.MajorSection
			km    pgtype.Numeric
			trail string
			start time.Time
			end   pgtype.Timestamptz
		)
		err := row.Scan(&m.ObjectID, &m.ID, &m.Name, &trail, &m.StartCheckpointID, &m.EndCheckpointID,
			&km, &start, &end)
		if err != nil {
			return domain.MajorSection{}, err
		}
		m.LengthKm = numeric(km)
		m.Trail = trailCode(trail)
		m.Validity = validity(start, end)
		return m, nil
	})
}

func (r *pgReferenceRepo) definitions(ctx context.Context) ([]domain.TrailDefinition, error) {
	const q = `
		SELECT objectid, okk_mozgalom, nev, tav, kezdopont_bh_id, vegpont_bh_id, start_date, end_date
		FROM turamozgalom
		ORDER BY objectid`

	return collect(ctx, r.db, q, "turamozgalom", func(row pgx.Rows) (domain.TrailDefinition, error) {
		var (
			d     domain.TrailDefinition
			km    pgtype.Numeric
			trail string
			start time.Time
			end   pgtype.Timestamptz
		)
		err := row.Scan(&d.ObjectID, &trail, &d.Name, &km, &d.StartCheckpointID, &d.EndCheckpointID, &start, &end)
		if err != nil {
			return domain.TrailDefinition{}, err
		}
		d.LengthKm = numeric(km)
		d.Trail = trailCode(trail)
		d.Validity = validity(start, end)
		return d, nil
	})
}

// collect runs q and maps every row with scan.
func collect[T any](ctx context.Context, db db, q, table string, scan func(pgx.Rows) (T, error)) ([]T, error) {
	rows, err := db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", table, err)
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", table, err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", table, err)
	}
	return out, nil
}

// validity maps a nullable end_date onto the half-open interval.
func validity(start time.Time, end pgtype.Timestamptz) domain.Validity {
	v := domain.Validity{Start: start}
	if end.Valid {
		e := end.Time
		v.End = &e
	}
	return v
}

// numeric converts a NUMERIC column; NULL and NaN become 0.
func numeric(n pgtype.Numeric) float64 {
	f, err := n.Float64Value()
	if err != nil || !f.Valid {
		return 0
	}
	return f.Float64
}

// trailCode maps the stored okk_mozgalom code. Codes this service does not
// know are kept verbatim so they simply never match a request.
func trailCode(s string) domain.Trail {
	if t, err := domain.ParseTrail(s); err == nil {
		return t
	}
	return domain.Trail(strings.TrimSpace(s))
}
