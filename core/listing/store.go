package listing

import (
	"context"
	"fmt"
	"time"

	"github.com/irsalhamdi/course-listing/database"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

func Create(ctx context.Context, db sqlx.ExtContext, l Listing) error {
	const q = `
	INSERT INTO listings (
		listing_id, request_id, creator_id, slug,
		kind, delivery, category, format,
		title, description, syllabus, mentor_first_name, mentor_last_name, mentor_bio,
		title_secondary, description_secondary, syllabus_secondary,
		mentor_first_name_secondary, mentor_last_name_secondary, mentor_bio_secondary,
		image_url, original_price, discounted_price, discount_percent, listing_days,
		date, start_date, end_date, address, online_url,
		status, listing_ends_at, created_at, updated_at
	) VALUES (
		:listing_id, :request_id, :creator_id, :slug,
		:kind, :delivery, :category, :format,
		:title, :description, :syllabus, :mentor_first_name, :mentor_last_name, :mentor_bio,
		:title_secondary, :description_secondary, :syllabus_secondary,
		:mentor_first_name_secondary, :mentor_last_name_secondary, :mentor_bio_secondary,
		:image_url, :original_price, :discounted_price, :discount_percent, :listing_days,
		:date, :start_date, :end_date, :address, :online_url,
		:status, :listing_ends_at, :created_at, :updated_at
	)`

	if err := database.NamedExecContext(ctx, db, q, l); err != nil {
		return fmt.Errorf("inserting listing: %w", err)
	}

	return nil
}

func Fetch(ctx context.Context, db sqlx.ExtContext, id string) (Listing, error) {
	const q = `SELECT * FROM listings WHERE listing_id = $1`

	var l Listing
	if err := database.GetContext(ctx, db, &l, q, id); err != nil {
		return Listing{}, fmt.Errorf("selecting listing[%s]: %w", id, err)
	}
	return l, nil
}

// FetchForUpdate locks the listing row until the surrounding transaction ends.
func FetchForUpdate(ctx context.Context, db sqlx.ExtContext, id string) (Listing, error) {
	const q = `SELECT * FROM listings WHERE listing_id = $1 FOR UPDATE`

	var l Listing
	if err := database.GetContext(ctx, db, &l, q, id); err != nil {
		return Listing{}, fmt.Errorf("locking listing[%s]: %w", id, err)
	}
	return l, nil
}

func FetchBySlug(ctx context.Context, db sqlx.ExtContext, slug string) (Listing, error) {
	const q = `SELECT * FROM listings WHERE slug = $1`

	var l Listing
	if err := database.GetContext(ctx, db, &l, q, slug); err != nil {
		return Listing{}, fmt.Errorf("selecting listing by slug[%s]: %w", slug, err)
	}
	return l, nil
}

// Filter narrows a listing query. Zero fields do not filter.
type Filter struct {
	Statuses []Status
	Kind     Kind

	// Secondary keeps only listings published with secondary-language content.
	Secondary bool
}

func List(ctx context.Context, db sqlx.ExtContext, f Filter, page int, rows int) ([]Listing, error) {
	const q = `
	SELECT * FROM listings
	WHERE status = ANY($1)
		AND ($2::text = '' OR kind = $2::text)
		AND (NOT $3::boolean OR title_secondary <> '')
	ORDER BY created_at DESC, listing_id
	OFFSET $4 ROWS FETCH NEXT $5 ROWS ONLY`

	offset := (page - 1) * rows

	ls := []Listing{}
	if err := database.SelectContext(ctx, db, &ls, q, pq.Array(statusStrings(f.Statuses)), string(f.Kind), f.Secondary, offset, rows); err != nil {
		return nil, fmt.Errorf("selecting listings: %w", err)
	}
	return ls, nil
}

// UpdateSchedule writes a new status and end for a listing whose current
// status is one of from. It returns database.ErrDBConflict when no row
// matched.
func UpdateSchedule(ctx context.Context, db sqlx.ExtContext, id string, from []Status, to Status, endsAt *time.Time, now time.Time) error {
	const q = `
	UPDATE listings SET
		status = $1,
		listing_ends_at = $2,
		updated_at = $3
	WHERE listing_id = $4 AND status = ANY($5)`

	n, err := database.ExecAffected(ctx, db, q, to, endsAt, now, id, pq.Array(statusStrings(from)))
	if err != nil {
		return fmt.Errorf("updating listing[%s] schedule: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("listing[%s] is not in %v: %w", id, from, database.ErrDBConflict)
	}
	return nil
}

// MarkExpiring flags every active listing ending within the expiring window.
// Listings whose end has already passed are included so the following
// MarkExpired can move them on.
func MarkExpiring(ctx context.Context, db sqlx.ExtContext, now time.Time) (int64, error) {
	const q = `
	UPDATE listings SET
		status = $1,
		updated_at = $2
	WHERE status = $3 AND listing_ends_at IS NOT NULL AND listing_ends_at <= $4`

	n, err := database.ExecAffected(ctx, db, q, Expiring, now, Active, now.Add(ExpiringWindow))
	if err != nil {
		return 0, fmt.Errorf("marking expiring listings: %w", err)
	}
	return n, nil
}

func MarkExpired(ctx context.Context, db sqlx.ExtContext, now time.Time) (int64, error) {
	const q = `
	UPDATE listings SET
		status = $1,
		updated_at = $2
	WHERE status = $3 AND listing_ends_at IS NOT NULL AND listing_ends_at <= $2`

	n, err := database.ExecAffected(ctx, db, q, Expired, now, Expiring)
	if err != nil {
		return 0, fmt.Errorf("marking expired listings: %w", err)
	}
	return n, nil
}

func statusStrings(ss []Status) []string {
	out := make([]string, 0, len(ss))
	for _, s := range ss {
		out = append(out, string(s))
	}
	return out
}
