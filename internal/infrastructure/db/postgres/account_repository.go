package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/sitterhub/marketplace/internal/core/domain"
	"github.com/sitterhub/marketplace/internal/core/ports"
)

const selectAccount = `
SELECT a.id, a.name, a.email, a.password_hash, a.role, a.phone, a.address, a.region,
       a.children, a.created_at, a.updated_at,
       p.region AS p_region, p.hourly_rate, p.available_days,
       to_char(p.available_from, 'HH24:MI') AS available_from,
       to_char(p.available_to, 'HH24:MI') AS available_to,
       p.about, p.profile_photo_ref, p.background_check_ref
FROM accounts a
LEFT JOIN babysitter_profiles p ON p.account_id = a.id`

const insertAccount = `
INSERT INTO accounts (id, name, email, password_hash, role, phone, address, region, children, created_at, updated_at)
VALUES (:id, :name, :email, :password_hash, :role, :phone, :address, :region, :children, :created_at, :updated_at)`

const upsertProfile = `
INSERT INTO babysitter_profiles (account_id, region, hourly_rate, available_days, available_from, available_to,
                                 about, profile_photo_ref, background_check_ref)
VALUES (:account_id, :region, :hourly_rate, :available_days, :available_from, :available_to,
        :about, :profile_photo_ref, :background_check_ref)
ON CONFLICT (account_id) DO UPDATE SET
    region = EXCLUDED.region,
    hourly_rate = EXCLUDED.hourly_rate,
    available_days = EXCLUDED.available_days,
    available_from = EXCLUDED.available_from,
    available_to = EXCLUDED.available_to,
    about = EXCLUDED.about,
    profile_photo_ref = EXCLUDED.profile_photo_ref,
    background_check_ref = EXCLUDED.background_check_ref`

// cancelLiveBookings cancels every pending or confirmed booking of an account
// and reports the status each one had before.
const cancelLiveBookings = `
WITH live AS (
    SELECT id, status FROM bookings
    WHERE (client_id = $1 OR babysitter_id = $1) AND status IN ('pending', 'confirmed')
    FOR UPDATE
)
UPDATE bookings b SET status = 'cancelled', updated_at = now()
FROM live
WHERE b.id = live.id
RETURNING b.id, live.status AS previous_status`

const babysitterFilter = `
FROM accounts a
JOIN babysitter_profiles p ON p.account_id = a.id
WHERE a.role = 'babysitter'
  AND ($1::text = '' OR lower(p.region) = lower($1::text))
  AND ($2::text = '' OR $2::text = ANY (p.available_days))`

type accountRow struct {
	ID           string    `db:"id"`
	Name         string    `db:"name"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Role         string    `db:"role"`
	Phone        string    `db:"phone"`
	Address      string    `db:"address"`
	Region       string    `db:"region"`
	Children     int       `db:"children"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`

	// LEFT JOIN columns, all NULL for non-babysitters.
	ProfileRegion      sql.NullString  `db:"p_region"`
	HourlyRate         sql.NullFloat64 `db:"hourly_rate"`
	AvailableDays      pq.StringArray  `db:"available_days"`
	AvailableFrom      sql.NullString  `db:"available_from"`
	AvailableTo        sql.NullString  `db:"available_to"`
	About              sql.NullString  `db:"about"`
	ProfilePhotoRef    sql.NullString  `db:"profile_photo_ref"`
	BackgroundCheckRef sql.NullString  `db:"background_check_ref"`
}

func (r accountRow) toDomain() *domain.Account {
	a := &domain.Account{
		ID:           r.ID,
		Name:         r.Name,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		Role:         domain.Role(r.Role),
		Phone:        r.Phone,
		Address:      r.Address,
		Region:       r.Region,
		Children:     r.Children,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
	if r.ProfileRegion.Valid {
		days := []string(r.AvailableDays)
		if days == nil {
			days = []string{}
		}
		a.Profile = &domain.BabysitterProfile{
			AccountID:          r.ID,
			Region:             r.ProfileRegion.String,
			HourlyRate:         r.HourlyRate.Float64,
			AvailableDays:      days,
			AvailableFrom:      r.AvailableFrom.String,
			AvailableTo:        r.AvailableTo.String,
			About:              r.About.String,
			ProfilePhotoRef:    r.ProfilePhotoRef.String,
			BackgroundCheckRef: r.BackgroundCheckRef.String,
		}
	}
	return a
}

type profileRow struct {
	AccountID          string         `db:"account_id"`
	Region             string         `db:"region"`
	HourlyRate         float64        `db:"hourly_rate"`
	AvailableDays      pq.StringArray `db:"available_days"`
	AvailableFrom      sql.NullString `db:"available_from"`
	AvailableTo        sql.NullString `db:"available_to"`
	About              string         `db:"about"`
	ProfilePhotoRef    string         `db:"profile_photo_ref"`
	BackgroundCheckRef string         `db:"background_check_ref"`
}

func newProfileRow(accountID string, p ports.BabysitterProfileInput) profileRow {
	days := p.AvailableDays
	if days == nil {
		days = []string{}
	}
	return profileRow{
		AccountID:          accountID,
		Region:             p.Region,
		HourlyRate:         p.HourlyRate,
		AvailableDays:      pq.StringArray(days),
		AvailableFrom:      nullString(p.AvailableFrom),
		AvailableTo:        nullString(p.AvailableTo),
		About:              p.About,
		ProfilePhotoRef:    p.ProfilePhotoRef,
		BackgroundCheckRef: p.BackgroundCheckRef,
	}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// AccountRepository stores accounts and babysitter profiles in PostgreSQL.
type AccountRepository struct {
	db      *sqlx.DB
	timeout time.Duration
}

func NewAccountRepository(db *sqlx.DB, timeout time.Duration) *AccountRepository {
	return &AccountRepository{db: db, timeout: timeoutOrDefault(timeout)}
}

// Create inserts the account and, for babysitters, its profile in one transaction.
func (r *AccountRepository) Create(ctx context.Context, a *domain.Account) (*domain.Account, error) {
	defer observe("account_create")()
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, translate(err)
	}
	defer tx.Rollback() //nolint:errcheck

	row := accountRow{
		ID: a.ID, Name: a.Name, Email: a.Email, PasswordHash: a.PasswordHash, Role: string(a.Role),
		Phone: a.Phone, Address: a.Address, Region: a.Region, Children: a.Children,
		CreatedAt: a.CreatedAt, UpdatedAt: a.UpdatedAt,
	}
	if _, err := tx.NamedExecContext(ctx, insertAccount, row); err != nil {
		err = translate(err)
		if errors.Is(err, domain.ErrConflict) {
			return nil, domain.ErrEmailTaken
		}
		return nil, err
	}

	if a.Profile != nil {
		p := newProfileRow(a.ID, ports.BabysitterProfileInput{
			Region:             a.Profile.Region,
			HourlyRate:         a.Profile.HourlyRate,
			AvailableDays:      a.Profile.AvailableDays,
			AvailableFrom:      a.Profile.AvailableFrom,
			AvailableTo:        a.Profile.AvailableTo,
			About:              a.Profile.About,
			ProfilePhotoRef:    a.Profile.ProfilePhotoRef,
			BackgroundCheckRef: a.Profile.BackgroundCheckRef,
		})
		if _, err := tx.NamedExecContext(ctx, upsertProfile, p); err != nil {
			return nil, translate(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, translate(err)
	}
	created := *a
	return &created, nil
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	defer observe("account_find_by_email")()
	return r.findOne(ctx, selectAccount+` WHERE lower(a.email) = lower($1)`, email)
}

func (r *AccountRepository) FindByID(ctx context.Context, id string) (*domain.Account, error) {
	defer observe("account_find_by_id")()
	return r.findOne(ctx, selectAccount+` WHERE a.id = $1`, id)
}

func (r *AccountRepository) findOne(ctx context.Context, query string, arg any) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var row accountRow
	if err := r.db.GetContext(ctx, &row, query, arg); err != nil {
		err = translate(err)
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	return row.toDomain(), nil
}

func (r *AccountRepository) UpdateClientProfile(ctx context.Context, id string, upd ports.ClientProfileUpdate) (*domain.Account, error) {
	defer observe("account_update_client")()
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
UPDATE accounts SET name = $2, phone = $3, address = $4, region = $5, children = $6, updated_at = now()
WHERE id = $1 AND role = 'client'`,
		id, upd.Name, upd.Phone, upd.Address, upd.Region, upd.Children)
	if err != nil {
		return nil, translate(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, domain.ErrAccountNotFound
	}
	return r.findOne(ctx, selectAccount+` WHERE a.id = $1`, id)
}

// UpdateBabysitterProfile updates the account fields and upserts the profile
// in one transaction. The account region follows the profile region.
func (r *AccountRepository) UpdateBabysitterProfile(ctx context.Context, id string, upd ports.BabysitterProfileUpdate) (*domain.Account, error) {
	defer observe("account_update_babysitter")()
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, translate(err)
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.ExecContext(ctx, `
UPDATE accounts SET name = $2, phone = $3, region = $4, updated_at = now()
WHERE id = $1 AND role = 'babysitter'`,
		id, upd.Name, upd.Phone, upd.Profile.Region)
	if err != nil {
		return nil, translate(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, domain.ErrAccountNotFound
	}
	if _, err := tx.NamedExecContext(ctx, upsertProfile, newProfileRow(id, upd.Profile)); err != nil {
		return nil, translate(err)
	}
	if err := tx.Commit(); err != nil {
		return nil, translate(err)
	}
	return r.findOne(ctx, selectAccount+` WHERE a.id = $1`, id)
}

// Delete cancels the account's live bookings and removes the account in one
// transaction. Booking references to it become NULL through the foreign key.
func (r *AccountRepository) Delete(ctx context.Context, id string) ([]ports.CancelledBooking, error) {
	defer observe("account_delete")()
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, translate(err)
	}
	defer tx.Rollback() //nolint:errcheck

	var rows []struct {
		BookingID      string `db:"id"`
		PreviousStatus string `db:"previous_status"`
	}
	if err := tx.SelectContext(ctx, &rows, cancelLiveBookings, id); err != nil {
		return nil, translate(err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return nil, translate(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, domain.ErrAccountNotFound
	}
	if err := tx.Commit(); err != nil {
		return nil, translate(err)
	}

	cancelled := make([]ports.CancelledBooking, 0, len(rows))
	for _, row := range rows {
		cancelled = append(cancelled, ports.CancelledBooking{
			BookingID:      row.BookingID,
			PreviousStatus: domain.BookingStatus(row.PreviousStatus),
		})
	}
	return cancelled, nil
}

// SearchBabysitters returns one page of babysitters ordered by name and the
// total number of matches.
func (r *AccountRepository) SearchBabysitters(ctx context.Context, f ports.BabysitterFilter) ([]*domain.Account, int64, error) {
	defer observe("account_search_babysitters")()
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT count(*) `+babysitterFilter, f.Region, f.Availability); err != nil {
		return nil, 0, translate(err)
	}

	query := `
SELECT a.id, a.name, a.email, a.password_hash, a.role, a.phone, a.address, a.region,
       a.children, a.created_at, a.updated_at,
       p.region AS p_region, p.hourly_rate, p.available_days,
       to_char(p.available_from, 'HH24:MI') AS available_from,
       to_char(p.available_to, 'HH24:MI') AS available_to,
       p.about, p.profile_photo_ref, p.background_check_ref ` + babysitterFilter + `
ORDER BY a.name, a.id
LIMIT $3 OFFSET $4`

	var rows []accountRow
	offset := (f.Page - 1) * f.Limit
	if err := r.db.SelectContext(ctx, &rows, query, f.Region, f.Availability, f.Limit, offset); err != nil {
		return nil, 0, translate(err)
	}

	items := make([]*domain.Account, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toDomain())
	}
	return items, total, nil
}

func (r *AccountRepository) CountByRole(ctx context.Context) (map[domain.Role]int64, error) {
	defer observe("account_count_by_role")()
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var rows []struct {
		Role  string `db:"role"`
		Count int64  `db:"n"`
	}
	if err := r.db.SelectContext(ctx, &rows, `SELECT role, count(*) AS n FROM accounts GROUP BY role`); err != nil {
		return nil, translate(err)
	}
	out := make(map[domain.Role]int64, len(rows))
	for _, row := range rows {
		out[domain.Role(row.Role)] = row.Count
	}
	return out, nil
}
