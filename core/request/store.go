package request

import (
	"context"
	"fmt"
	"time"

	"github.com/irsalhamdi/course-listing/database"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

func Create(ctx context.Context, db sqlx.ExtContext, r Request) error {
	const q = `
	INSERT INTO course_requests (
		request_id, creator_id,
		kind, delivery, category, format,
		title, description, syllabus, mentor_first_name, mentor_last_name, mentor_bio,
		title_secondary, description_secondary, syllabus_secondary,
		mentor_first_name_secondary, mentor_last_name_secondary, mentor_bio_secondary,
		image_url, original_price, discounted_price, discount_percent,
		listing_days, listing_fee, paid,
		date, start_date, end_date, address, online_url,
		status, rejection_reason, created_at, updated_at
	) VALUES (
		:request_id, :creator_id,
		:kind, :delivery, :category, :format,
		:title, :description, :syllabus, :mentor_first_name, :mentor_last_name, :mentor_bio,
		:title_secondary, :description_secondary, :syllabus_secondary,
		:mentor_first_name_secondary, :mentor_last_name_secondary, :mentor_bio_secondary,
		:image_url, :original_price, :discounted_price, :discount_percent,
		:listing_days, :listing_fee, :paid,
		:date, :start_date, :end_date, :address, :online_url,
		:status, :rejection_reason, :created_at, :updated_at
	)`

	if err := database.NamedExecContext(ctx, db, q, r); err != nil {
		return fmt.Errorf("inserting request: %w", err)
	}

	return nil
}

// Update writes every editable column of r. The status is only ever changed
// through UpdateStatus.
func Update(ctx context.Context, db sqlx.ExtContext, r Request) error {
	const q = `
	UPDATE course_requests SET
		delivery = :delivery,
		category = :category,
		format = :format,
		title = :title,
		description = :description,
		syllabus = :syllabus,
		mentor_first_name = :mentor_first_name,
		mentor_last_name = :mentor_last_name,
		mentor_bio = :mentor_bio,
		title_secondary = :title_secondary,
		description_secondary = :description_secondary,
		syllabus_secondary = :syllabus_secondary,
		mentor_first_name_secondary = :mentor_first_name_secondary,
		mentor_last_name_secondary = :mentor_last_name_secondary,
		mentor_bio_secondary = :mentor_bio_secondary,
		image_url = :image_url,
		original_price = :original_price,
		discounted_price = :discounted_price,
		discount_percent = :discount_percent,
		listing_days = :listing_days,
		listing_fee = :listing_fee,
		paid = :paid,
		date = :date,
		start_date = :start_date,
		end_date = :end_date,
		address = :address,
		online_url = :online_url,
		rejection_reason = :rejection_reason,
		updated_at = :updated_at
	WHERE request_id = :request_id`

	if err := database.NamedExecContext(ctx, db, q, r); err != nil {
		return fmt.Errorf("updating request[%s]: %w", r.ID, err)
	}

	return nil
}

// UpdateStatus moves a request to status to, provided its current status is
// from. The check and the write are a single statement, so two concurrent
// callers cannot both consume the same status. database.ErrDBConflict is
// returned when the request was not in from.
func UpdateStatus(ctx context.Context, db sqlx.ExtContext, id string, from Status, to Status, now time.Time) error {
	const q = `
	UPDATE course_requests SET
		status = $1,
		updated_at = $2
	WHERE request_id = $3 AND status = $4`

	n, err := database.ExecAffected(ctx, db, q, to, now, id, from)
	if err != nil {
		return fmt.Errorf("updating request[%s] status: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("request[%s] is no longer %s: %w", id, from, database.ErrDBConflict)
	}
	return nil
}

func Fetch(ctx context.Context, db sqlx.ExtContext, id string) (Request, error) {
	const q = `SELECT * FROM course_requests WHERE request_id = $1`

	var r Request
	if err := database.GetContext(ctx, db, &r, q, id); err != nil {
		return Request{}, fmt.Errorf("selecting request[%s]: %w", id, err)
	}
	return r, nil
}

// FetchForUpdate locks the request row until the surrounding transaction
// ends, serializing concurrent transitions of the same request.
func FetchForUpdate(ctx context.Context, db sqlx.ExtContext, id string) (Request, error) {
	const q = `SELECT * FROM course_requests WHERE request_id = $1 FOR UPDATE`

	var r Request
	if err := database.GetContext(ctx, db, &r, q, id); err != nil {
		return Request{}, fmt.Errorf("locking request[%s]: %w", id, err)
	}
	return r, nil
}

func ListByCreator(ctx context.Context, db sqlx.ExtContext, creatorID string, page int, rows int) ([]Request, error) {
	const q = `
	SELECT * FROM course_requests
	WHERE creator_id = $1
	ORDER BY created_at DESC, request_id
	OFFSET $2 ROWS FETCH NEXT $3 ROWS ONLY`

	rs := []Request{}
	if err := database.SelectContext(ctx, db, &rs, q, creatorID, (page-1)*rows, rows); err != nil {
		return nil, fmt.Errorf("selecting requests of creator[%s]: %w", creatorID, err)
	}
	return rs, nil
}

func ListByStatus(ctx context.Context, db sqlx.ExtContext, statuses []Status, page int, rows int) ([]Request, error) {
	const q = `
	SELECT * FROM course_requests
	WHERE status = ANY($1)
	ORDER BY updated_at, request_id
	OFFSET $2 ROWS FETCH NEXT $3 ROWS ONLY`

	ss := make([]string, 0, len(statuses))
	for _, s := range statuses {
		ss = append(ss, string(s))
	}

	rs := []Request{}
	if err := database.SelectContext(ctx, db, &rs, q, pq.Array(ss), (page-1)*rows, rows); err != nil {
		return nil, fmt.Errorf("selecting requests by status: %w", err)
	}
	return rs, nil
}

func CreateEvent(ctx context.Context, db sqlx.ExtContext, e Event) error {
	const q = `
	INSERT INTO request_status_events (event_id, request_id, from_status, to_status, actor_id, created_at)
	VALUES (:event_id, :request_id, :from_status, :to_status, :actor_id, :created_at)`

	if err := database.NamedExecContext(ctx, db, q, e); err != nil {
		return fmt.Errorf("inserting status event: %w", err)
	}
	return nil
}

func ListEvents(ctx context.Context, db sqlx.ExtContext, requestID string) ([]Event, error) {
	const q = `
	SELECT * FROM request_status_events
	WHERE request_id = $1
	ORDER BY seq`

	es := []Event{}
	if err := database.SelectContext(ctx, db, &es, q, requestID); err != nil {
		return nil, fmt.Errorf("selecting events of request[%s]: %w", requestID, err)
	}
	return es, nil
}
