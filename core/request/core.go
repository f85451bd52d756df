package request

import (
	"context"
	"fmt"
	"time"

	"github.com/irsalhamdi/course-listing/clock"
	"github.com/irsalhamdi/course-listing/core/claims"
	"github.com/irsalhamdi/course-listing/core/listing"
	"github.com/irsalhamdi/course-listing/core/media"
	"github.com/irsalhamdi/course-listing/core/pricing"
	"github.com/irsalhamdi/course-listing/database"
	"github.com/irsalhamdi/course-listing/validate"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

// Core drives requests through their lifecycle. Every operation that reads a
// status and writes a new one runs in a single transaction holding the
// request row lock.
type Core struct {
	log       logrus.FieldLogger
	db        *sqlx.DB
	clock     clock.Clock
	feePerDay int
}

func NewCore(log logrus.FieldLogger, db *sqlx.DB, clk clock.Clock, feePerDay int) *Core {
	return &Core{
		log:       log,
		db:        db,
		clock:     clk,
		feePerDay: feePerDay,
	}
}

func (c *Core) Create(ctx context.Context, actor claims.Claims, in RequestNew) (Request, error) {
	if actor.UserID == "" {
		return Request{}, claims.ErrForbidden
	}
	if err := validate.Check(in); err != nil {
		return Request{}, err
	}
	if err := checkMediaIn(in.Videos, in.Materials); err != nil {
		return Request{}, err
	}

	now := c.clock.Now()
	r := Request{
		ID:              validate.GenerateID(),
		CreatorID:       actor.UserID,
		Content:         fromNew(in),
		OriginalPrice:   in.OriginalPrice,
		DiscountedPrice: in.DiscountedPrice,
		Status:          Draft,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	r.Videos = media.NewVideos(r.ID, in.Videos, now)
	r.Materials = media.NewMaterials(r.ID, in.Materials, now)

	if err := checkDraft(&r, len(r.Videos)); err != nil {
		return Request{}, err
	}

	err := database.Transaction(c.db, func(tx sqlx.ExtContext) error {
		if err := Create(ctx, tx, r); err != nil {
			return err
		}
		if err := media.ReplaceVideos(ctx, tx, media.Request, r.ID, r.Videos); err != nil {
			return err
		}
		return media.ReplaceMaterials(ctx, tx, media.Request, r.ID, r.Materials)
	})
	if err != nil {
		return Request{}, fmt.Errorf("creating request: %w", err)
	}

	c.log.WithFields(logrus.Fields{
		"request_id": r.ID,
		"creator_id": r.CreatorID,
		"kind":       r.Kind,
	}).Info("request drafted")

	return r, nil
}

func (c *Core) Fetch(ctx context.Context, actor claims.Claims, id string) (Request, error) {
	r, err := Fetch(ctx, c.db, id)
	if err != nil {
		return Request{}, err
	}
	if !actor.Owns(r.CreatorID) {
		return Request{}, claims.ErrForbidden
	}
	return c.withMedia(ctx, c.db, r)
}

func (c *Core) ListOwned(ctx context.Context, actor claims.Claims, page int, rows int) ([]Request, error) {
	if actor.UserID == "" {
		return nil, claims.ErrForbidden
	}
	return ListByCreator(ctx, c.db, actor.UserID, page, rows)
}

// ListByStatus is the admin review queue.
func (c *Core) ListByStatus(ctx context.Context, actor claims.Claims, statuses []Status, page int, rows int) ([]Request, error) {
	if !actor.Admin() {
		return nil, claims.ErrForbidden
	}
	if len(statuses) == 0 {
		statuses = []Status{PendingApproval}
	}
	for _, s := range statuses {
		if !s.valid() {
			return nil, validate.NewFieldError("status", "unknown request status %q", string(s))
		}
	}
	return ListByStatus(ctx, c.db, statuses, page, rows)
}

func (c *Core) Events(ctx context.Context, actor claims.Claims, id string) ([]Event, error) {
	r, err := Fetch(ctx, c.db, id)
	if err != nil {
		return nil, err
	}
	if !actor.Owns(r.CreatorID) {
		return nil, claims.ErrForbidden
	}
	return ListEvents(ctx, c.db, id)
}

// Update edits a request that has not been submitted yet. Child collections
// present in up replace the stored ones entirely.
func (c *Core) Update(ctx context.Context, actor claims.Claims, id string, up RequestUp) (Request, error) {
	if err := validate.Check(up); err != nil {
		return Request{}, err
	}

	var videosIn []media.VideoIn
	if up.Videos != nil {
		videosIn = *up.Videos
	}
	var materialsIn []media.MaterialIn
	if up.Materials != nil {
		materialsIn = *up.Materials
	}
	if err := checkMediaIn(videosIn, materialsIn); err != nil {
		return Request{}, err
	}

	var out Request
	err := c.mutate(ctx, actor, id, func(tx sqlx.ExtContext, r *Request, now time.Time) error {
		if !r.Status.Editable() {
			return fmt.Errorf("request[%s] is %s: %w", id, r.Status, database.ErrDBConflict)
		}

		cur, err := c.withMedia(ctx, tx, *r)
		if err != nil {
			return err
		}
		*r = cur

		applyUp(r, up)
		if up.Videos != nil {
			r.Videos = media.NewVideos(r.ID, videosIn, now)
		}
		if up.Materials != nil {
			r.Materials = media.NewMaterials(r.ID, materialsIn, now)
		}

		if err := checkDraft(r, len(r.Videos)); err != nil {
			return err
		}

		r.UpdatedAt = now
		if err := Update(ctx, tx, *r); err != nil {
			return err
		}

		if up.Videos != nil {
			if err := media.ReplaceVideos(ctx, tx, media.Request, r.ID, r.Videos); err != nil {
				return err
			}
		}
		if up.Materials != nil {
			if err := media.ReplaceMaterials(ctx, tx, media.Request, r.ID, r.Materials); err != nil {
				return err
			}
		}

		out = *r
		return nil
	})
	if err != nil {
		return Request{}, fmt.Errorf("updating request[%s]: %w", id, err)
	}

	return out, nil
}

// SetListing fixes the listing duration of a draft and prices its listing
// fee, moving it to PENDING_PAYMENT. The duration can be set only once.
func (c *Core) SetListing(ctx context.Context, actor claims.Claims, id string, in ListingIn) (Request, error) {
	if err := validate.Check(in); err != nil {
		return Request{}, err
	}

	fee, err := pricing.ListingFee(in.Days, c.feePerDay)
	if err != nil {
		return Request{}, err
	}

	var out Request
	err = c.mutate(ctx, actor, id, func(tx sqlx.ExtContext, r *Request, now time.Time) error {
		if r.Status != Draft || r.ListingDays != nil {
			return fmt.Errorf("request[%s] is %s: %w", id, r.Status, database.ErrDBConflict)
		}
		if r.Kind == listing.Course && r.Delivery == listing.Video {
			return validate.NewFieldError("listingDays", "video courses are not time-boxed")
		}

		days := in.Days
		r.ListingDays = &days
		r.ListingFee = &fee
		r.UpdatedAt = now
		if err := Update(ctx, tx, *r); err != nil {
			return err
		}

		if err := c.transition(ctx, tx, r, PendingPayment, actor, now); err != nil {
			return err
		}

		out = *r
		return nil
	})
	if err != nil {
		return Request{}, fmt.Errorf("setting listing of request[%s]: %w", id, err)
	}

	c.log.WithFields(logrus.Fields{
		"request_id":   id,
		"listing_days": in.Days,
		"listing_fee":  fee,
	}).Info("listing fee set")

	return c.withMedia(ctx, c.db, out)
}

// ConfirmPayment is called on behalf of the payment provider once the
// listing fee has been collected.
func (c *Core) ConfirmPayment(ctx context.Context, actor claims.Claims, id string) (Request, error) {
	if !actor.Admin() {
		return Request{}, claims.ErrForbidden
	}

	var out Request
	err := c.mutate(ctx, actor, id, func(tx sqlx.ExtContext, r *Request, now time.Time) error {
		if r.Status != PendingPayment {
			return fmt.Errorf("request[%s] is %s: %w", id, r.Status, database.ErrDBConflict)
		}

		r.Paid = true
		r.UpdatedAt = now
		if err := Update(ctx, tx, *r); err != nil {
			return err
		}

		if err := c.transition(ctx, tx, r, Paid, actor, now); err != nil {
			return err
		}

		out = *r
		return nil
	})
	if err != nil {
		return Request{}, fmt.Errorf("confirming payment of request[%s]: %w", id, err)
	}

	c.log.WithField("request_id", id).Info("listing fee paid")

	return c.withMedia(ctx, c.db, out)
}

// Submit sends a complete request for approval. When an admin submits, the
// request is approved and published in the same transaction.
func (c *Core) Submit(ctx context.Context, actor claims.Claims, id string) (Submission, error) {
	var out Submission
	err := c.mutate(ctx, actor, id, func(tx sqlx.ExtContext, r *Request, now time.Time) error {
		if !r.Status.Editable() {
			return fmt.Errorf("request[%s] is %s: %w", id, r.Status, database.ErrDBConflict)
		}

		cur, err := c.withMedia(ctx, tx, *r)
		if err != nil {
			return err
		}
		*r = cur

		if err := checkSubmission(*r); err != nil {
			return err
		}

		if err := c.transition(ctx, tx, r, PendingApproval, actor, now); err != nil {
			return err
		}

		if actor.Admin() {
			l, err := c.promote(ctx, tx, r, actor, now)
			if err != nil {
				return err
			}
			out.Listing = &l
		}

		out.Request = *r
		return nil
	})
	if err != nil {
		return Submission{}, fmt.Errorf("submitting request[%s]: %w", id, err)
	}

	fields := logrus.Fields{"request_id": id, "status": out.Request.Status}
	if out.Listing != nil {
		fields["listing_id"] = out.Listing.ID
	}
	c.log.WithFields(fields).Info("request submitted")

	return out, nil
}

// Approve publishes a pending request. It fails with a conflict when the
// request is not pending approval, so a request is promoted at most once.
func (c *Core) Approve(ctx context.Context, actor claims.Claims, id string) (listing.Listing, error) {
	if !actor.Admin() {
		return listing.Listing{}, claims.ErrForbidden
	}

	var out listing.Listing
	err := c.mutate(ctx, actor, id, func(tx sqlx.ExtContext, r *Request, now time.Time) error {
		cur, err := c.withMedia(ctx, tx, *r)
		if err != nil {
			return err
		}
		*r = cur

		l, err := c.promote(ctx, tx, r, actor, now)
		if err != nil {
			return err
		}

		out = l
		return nil
	})
	if err != nil {
		return listing.Listing{}, fmt.Errorf("approving request[%s]: %w", id, err)
	}

	c.log.WithFields(logrus.Fields{
		"request_id": id,
		"listing_id": out.ID,
		"slug":       out.Slug,
	}).Info("request approved")

	return out, nil
}

func (c *Core) Reject(ctx context.Context, actor claims.Claims, id string, in RejectIn) (Request, error) {
	if !actor.Admin() {
		return Request{}, claims.ErrForbidden
	}
	if err := validate.Check(in); err != nil {
		return Request{}, err
	}

	var out Request
	err := c.mutate(ctx, actor, id, func(tx sqlx.ExtContext, r *Request, now time.Time) error {
		if r.Status != PendingApproval {
			return fmt.Errorf("request[%s] is %s: %w", id, r.Status, database.ErrDBConflict)
		}

		r.RejectionReason = in.Reason
		r.UpdatedAt = now
		if err := Update(ctx, tx, *r); err != nil {
			return err
		}

		if err := c.transition(ctx, tx, r, Rejected, actor, now); err != nil {
			return err
		}

		out = *r
		return nil
	})
	if err != nil {
		return Request{}, fmt.Errorf("rejecting request[%s]: %w", id, err)
	}

	c.log.WithField("request_id", id).Info("request rejected")

	return c.withMedia(ctx, c.db, out)
}

// mutate locks the request, checks the actor may act on it and runs fn in
// the same transaction.
func (c *Core) mutate(ctx context.Context, actor claims.Claims, id string, fn func(tx sqlx.ExtContext, r *Request, now time.Time) error) error {
	return database.Transaction(c.db, func(tx sqlx.ExtContext) error {
		r, err := FetchForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		if !actor.Owns(r.CreatorID) {
			return claims.ErrForbidden
		}
		return fn(tx, &r, c.clock.Now())
	})
}

// transition moves r to status to with a compare-and-swap on its current
// status and records the change.
func (c *Core) transition(ctx context.Context, tx sqlx.ExtContext, r *Request, to Status, actor claims.Claims, now time.Time) error {
	if err := UpdateStatus(ctx, tx, r.ID, r.Status, to, now); err != nil {
		return err
	}

	ev := Event{
		ID:        validate.GenerateID(),
		RequestID: r.ID,
		From:      r.Status,
		To:        to,
		ActorID:   actor.UserID,
		CreatedAt: now,
	}
	if err := CreateEvent(ctx, tx, ev); err != nil {
		return err
	}

	r.Status = to
	r.UpdatedAt = now
	return nil
}

func (c *Core) withMedia(ctx context.Context, db sqlx.ExtContext, r Request) (Request, error) {
	vs, err := media.ListVideos(ctx, db, media.Request, r.ID)
	if err != nil {
		return Request{}, err
	}
	ms, err := media.ListMaterials(ctx, db, media.Request, r.ID)
	if err != nil {
		return Request{}, err
	}
	r.Videos = vs
	r.Materials = ms
	return r, nil
}
