package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sitterhub/marketplace/internal/core/domain"
	"github.com/sitterhub/marketplace/internal/core/ports"
)

const bookingColumns = `id, client_id, babysitter_id,
       to_char(booking_date, 'YYYY-MM-DD') AS booking_date,
       to_char(time_start, 'HH24:MI') AS time_start,
       to_char(time_end, 'HH24:MI') AS time_end,
       status, created_at, updated_at`

type bookingRow struct {
	ID           string         `db:"id"`
	ClientID     sql.NullString `db:"client_id"`
	BabysitterID sql.NullString `db:"babysitter_id"`
	Date         string         `db:"booking_date"`
	TimeStart    string         `db:"time_start"`
	TimeEnd      string         `db:"time_end"`
	Status       string         `db:"status"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

func (r bookingRow) toDomain() *domain.Booking {
	return &domain.Booking{
		ID:           r.ID,
		ClientID:     r.ClientID.String,
		BabysitterID: r.BabysitterID.String,
		Date:         r.Date,
		TimeStart:    r.TimeStart,
		TimeEnd:      r.TimeEnd,
		Status:       domain.BookingStatus(r.Status),
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func toBookings(rows []bookingRow) []*domain.Booking {
	out := make([]*domain.Booking, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out
}

// BookingRepository stores bookings in PostgreSQL.
type BookingRepository struct {
	db      *sqlx.DB
	timeout time.Duration
}

func NewBookingRepository(db *sqlx.DB, timeout time.Duration) *BookingRepository {
	return &BookingRepository{db: db, timeout: timeoutOrDefault(timeout)}
}

// Create inserts a booking. A client or babysitter id that references no
// account is reported as not found through the foreign key.
func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	defer observe("booking_create")()
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
INSERT INTO bookings (id, client_id, babysitter_id, booking_date, time_start, time_end, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		b.ID, nullString(b.ClientID), nullString(b.BabysitterID), b.Date, b.TimeStart, b.TimeEnd,
		string(b.Status), b.CreatedAt, b.UpdatedAt)
	return translate(err)
}

func (r *BookingRepository) FindByID(ctx context.Context, id string) (*domain.Booking, error) {
	defer observe("booking_find_by_id")()
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var row bookingRow
	if err := r.db.GetContext(ctx, &row, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id); err != nil {
		err = translate(err)
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, err
	}
	return row.toDomain(), nil
}

func (r *BookingRepository) ListByClient(ctx context.Context, clientID string) ([]*domain.Booking, error) {
	defer observe("booking_list_by_client")()
	return r.listBy(ctx, "client_id", clientID)
}

func (r *BookingRepository) ListByBabysitter(ctx context.Context, babysitterID string) ([]*domain.Booking, error) {
	defer observe("booking_list_by_babysitter")()
	return r.listBy(ctx, "babysitter_id", babysitterID)
}

// listBy is only called with the two fixed column names above.
func (r *BookingRepository) listBy(ctx context.Context, column, id string) ([]*domain.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var rows []bookingRow
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE ` + column + ` = $1 ORDER BY booking_date, time_start`
	if err := r.db.SelectContext(ctx, &rows, query, id); err != nil {
		err = translate(err)
		if errors.Is(err, domain.ErrNotFound) {
			return []*domain.Booking{}, nil
		}
		return nil, err
	}
	return toBookings(rows), nil
}

// UpdateStatus is a single conditional write. When the stored status no
// longer equals expected no row matches and domain.ErrStatusChanged is returned.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id string, expected, next domain.BookingStatus) (*domain.Booking, error) {
	defer observe("booking_update_status")()
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var row bookingRow
	err := r.db.GetContext(ctx, &row, `
UPDATE bookings SET status = $3, updated_at = now()
WHERE id = $1 AND status = $2
RETURNING `+bookingColumns,
		id, string(expected), string(next))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrStatusChanged
		}
		return nil, translate(err)
	}
	return row.toDomain(), nil
}

// List returns one page of bookings, newest first, and the total number of matches.
func (r *BookingRepository) List(ctx context.Context, f ports.BookingFilter) ([]*domain.Booking, int64, error) {
	defer observe("booking_list")()
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	const where = ` FROM bookings WHERE ($1::text = '' OR status = $1::text)`

	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT count(*)`+where, f.Status); err != nil {
		return nil, 0, translate(err)
	}

	var rows []bookingRow
	query := `SELECT ` + bookingColumns + where + ` ORDER BY created_at DESC, id LIMIT $2 OFFSET $3`
	if err := r.db.SelectContext(ctx, &rows, query, f.Status, f.Limit, (f.Page-1)*f.Limit); err != nil {
		return nil, 0, translate(err)
	}
	return toBookings(rows), total, nil
}

func (r *BookingRepository) CountByStatus(ctx context.Context) (map[domain.BookingStatus]int64, error) {
	defer observe("booking_count_by_status")()
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var rows []struct {
		Status string `db:"status"`
		Count  int64  `db:"n"`
	}
	if err := r.db.SelectContext(ctx, &rows, `SELECT status, count(*) AS n FROM bookings GROUP BY status`); err != nil {
		return nil, translate(err)
	}
	out := make(map[domain.BookingStatus]int64, len(rows))
	for _, row := range rows {
		out[domain.BookingStatus(row.Status)] = row.Count
	}
	return out, nil
}
