package listing

import (
	"context"
	"fmt"

	"github.com/irsalhamdi/course-listing/clock"
	"github.com/irsalhamdi/course-listing/core/claims"
	"github.com/irsalhamdi/course-listing/core/media"
	"github.com/irsalhamdi/course-listing/database"
	"github.com/irsalhamdi/course-listing/validate"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

// Public are the statuses shown to visitors when no filter is given.
var Public = []Status{Active, Expiring}

type Core struct {
	log   logrus.FieldLogger
	db    *sqlx.DB
	clock clock.Clock
}

func NewCore(log logrus.FieldLogger, db *sqlx.DB, clk clock.Clock) *Core {
	return &Core{log: log, db: db, clock: clk}
}

func (c *Core) Fetch(ctx context.Context, id string) (Listing, error) {
	l, err := Fetch(ctx, c.db, id)
	if err != nil {
		return Listing{}, err
	}
	return c.withMedia(ctx, l)
}

func (c *Core) FetchBySlug(ctx context.Context, slug string) (Listing, error) {
	l, err := FetchBySlug(ctx, c.db, slug)
	if err != nil {
		return Listing{}, err
	}
	return c.withMedia(ctx, l)
}

// List returns a page of listings with their media. Without a status
// filter only the publicly visible statuses are returned.
func (c *Core) List(ctx context.Context, f Filter, page int, rows int) ([]Listing, error) {
	if len(f.Statuses) == 0 {
		f.Statuses = Public
	}
	for _, s := range f.Statuses {
		if !s.valid() {
			return nil, validate.NewFieldError("status", "unknown listing status %q", string(s))
		}
	}
	if f.Kind != "" && !f.Kind.valid() {
		return nil, validate.NewFieldError("kind", "unknown kind %q", string(f.Kind))
	}

	ls, err := List(ctx, c.db, f, page, rows)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(ls))
	for _, l := range ls {
		ids = append(ids, l.ID)
	}

	vs, err := media.ListVideosByOwners(ctx, c.db, media.Listing, ids)
	if err != nil {
		return nil, err
	}
	ms, err := media.ListMaterialsByOwners(ctx, c.db, media.Listing, ids)
	if err != nil {
		return nil, err
	}

	for i := range ls {
		ls[i].Videos = orEmpty(vs[ls[i].ID])
		ls[i].Materials = orEmpty(ms[ls[i].ID])
	}
	return ls, nil
}

// Extend pushes the end of a time-boxed listing by days and makes it active
// again. It is the only operation that moves a listing backwards.
func (c *Core) Extend(ctx context.Context, actor claims.Claims, id string, in ExtendIn) (Listing, error) {
	if !actor.Admin() {
		return Listing{}, claims.ErrForbidden
	}
	if err := validate.Check(in); err != nil {
		return Listing{}, err
	}

	var out Listing
	err := database.Transaction(c.db, func(tx sqlx.ExtContext) error {
		l, err := FetchForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}

		if l.Status == Archived {
			return fmt.Errorf("listing[%s] is archived: %w", id, database.ErrDBConflict)
		}
		if l.ListingEndsAt == nil {
			return fmt.Errorf("listing[%s] is not time-boxed: %w", id, database.ErrDBConflict)
		}

		now := c.clock.Now()
		ends := Extended(*l.ListingEndsAt, now, in.Days)

		if err := UpdateSchedule(ctx, tx, id, []Status{Active, Expiring, Expired}, Active, &ends, now); err != nil {
			return err
		}

		l.Status = Active
		l.ListingEndsAt = &ends
		l.UpdatedAt = now
		out = l
		return nil
	})
	if err != nil {
		return Listing{}, fmt.Errorf("extending listing[%s]: %w", id, err)
	}

	c.log.WithFields(logrus.Fields{
		"listing_id": id,
		"days":       in.Days,
		"ends_at":    out.ListingEndsAt,
	}).Info("listing extended")

	return c.withMedia(ctx, out)
}

// Archive withdraws a listing for good. The sweep never touches archived
// listings and they cannot be extended.
func (c *Core) Archive(ctx context.Context, actor claims.Claims, id string) (Listing, error) {
	if !actor.Admin() {
		return Listing{}, claims.ErrForbidden
	}

	var out Listing
	err := database.Transaction(c.db, func(tx sqlx.ExtContext) error {
		l, err := FetchForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}

		now := c.clock.Now()
		if err := UpdateSchedule(ctx, tx, id, []Status{Active, Expiring, Expired}, Archived, l.ListingEndsAt, now); err != nil {
			return err
		}

		l.Status = Archived
		l.UpdatedAt = now
		out = l
		return nil
	})
	if err != nil {
		return Listing{}, fmt.Errorf("archiving listing[%s]: %w", id, err)
	}

	c.log.WithField("listing_id", id).Info("listing archived")

	return c.withMedia(ctx, out)
}

func (c *Core) withMedia(ctx context.Context, l Listing) (Listing, error) {
	vs, err := media.ListVideos(ctx, c.db, media.Listing, l.ID)
	if err != nil {
		return Listing{}, err
	}
	ms, err := media.ListMaterials(ctx, c.db, media.Listing, l.ID)
	if err != nil {
		return Listing{}, err
	}
	l.Videos = vs
	l.Materials = ms
	return l, nil
}

func (k Kind) valid() bool {
	switch k {
	case Course, Workshop, Masterclass:
		return true
	}
	return false
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func (s Status) valid() bool {
	switch s {
	case Active, Expiring, Expired, Archived:
		return true
	}
	return false
}
