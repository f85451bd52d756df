package request

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/irsalhamdi/course-listing/core/claims"
	"github.com/irsalhamdi/course-listing/core/listing"
	"github.com/irsalhamdi/course-listing/core/media"
	"github.com/irsalhamdi/course-listing/core/pricing"
	"github.com/irsalhamdi/course-listing/database"
	"github.com/irsalhamdi/course-listing/validate"
	"github.com/jmoiron/sqlx"
)

const (
	slugConstraint = "listings_slug_key"
	slugAttempts   = 3
)

// promote publishes r as a listing and marks it approved. It must run inside
// the transaction that locked r: either the listing, its media copies and
// the status change all commit, or none of them do.
func (c *Core) promote(ctx context.Context, tx sqlx.ExtContext, r *Request, actor claims.Claims, now time.Time) (listing.Listing, error) {
	if r.Status != PendingApproval {
		return listing.Listing{}, fmt.Errorf("request[%s] is %s: %w", r.ID, r.Status, database.ErrDBConflict)
	}

	l, err := newListing(*r, now)
	if err != nil {
		return listing.Listing{}, err
	}

	if err := insertWithSlug(ctx, tx, &l, now); err != nil {
		return listing.Listing{}, err
	}

	l.Videos = media.CopyVideos(r.Videos, l.ID, now)
	l.Materials = media.CopyMaterials(r.Materials, l.ID, now)

	if err := media.ReplaceVideos(ctx, tx, media.Listing, l.ID, l.Videos); err != nil {
		return listing.Listing{}, err
	}
	if err := media.ReplaceMaterials(ctx, tx, media.Listing, l.ID, l.Materials); err != nil {
		return listing.Listing{}, err
	}

	if err := c.transition(ctx, tx, r, Approved, actor, now); err != nil {
		return listing.Listing{}, err
	}

	return l, nil
}

// newListing builds the listing for r. Pricing is recomputed from the raw
// stored prices rather than trusting the cached percent.
func newListing(r Request, now time.Time) (listing.Listing, error) {
	l := listing.Listing{
		ID:            validate.GenerateID(),
		RequestID:     r.ID,
		CreatorID:     r.CreatorID,
		Content:       r.Content,
		ListingDays:   r.ListingDays,
		Status:        listing.Active,
		ListingEndsAt: listing.EndsAt(now, r.ListingDays),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if r.OriginalPrice != nil {
		p, err := pricing.Compute(*r.OriginalPrice, r.DiscountedPrice)
		if err != nil {
			return listing.Listing{}, err
		}
		original := p.OriginalPrice
		l.OriginalPrice = &original
		l.DiscountedPrice = p.DiscountedPrice
		l.DiscountPercent = p.DiscountPercent
	}

	return l, nil
}

// insertWithSlug inserts l under a fresh slug, retrying on the rare slug
// collision. Each attempt runs under a savepoint so a failed insert does not
// abort the enclosing transaction.
func insertWithSlug(ctx context.Context, tx sqlx.ExtContext, l *listing.Listing, now time.Time) error {
	for attempt := 1; ; attempt++ {
		l.Slug = listing.NewSlug(l.SlugTitle(), now)

		if _, err := tx.ExecContext(ctx, `SAVEPOINT listing_slug`); err != nil {
			return fmt.Errorf("savepoint: %w", err)
		}

		err := listing.Create(ctx, tx, *l)
		if err == nil {
			if _, err := tx.ExecContext(ctx, `RELEASE SAVEPOINT listing_slug`); err != nil {
				return fmt.Errorf("release savepoint: %w", err)
			}
			return nil
		}

		var dup *database.DuplicateError
		if !errors.As(err, &dup) || dup.Constraint != slugConstraint || attempt == slugAttempts {
			return err
		}

		if _, err := tx.ExecContext(ctx, `ROLLBACK TO SAVEPOINT listing_slug`); err != nil {
			return fmt.Errorf("rollback to savepoint: %w", err)
		}
	}
}
