// Package sweep ages published listings as their listing period runs out.
package sweep

import (
	"context"
	"fmt"
	"time"

	"github.com/irsalhamdi/course-listing/clock"
	"github.com/irsalhamdi/course-listing/core/listing"
	"github.com/irsalhamdi/course-listing/database"
	"github.com/jmoiron/sqlx"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

type Result struct {
	At       time.Time `json:"at"`
	Expiring int64     `json:"expiring"`
	Expired  int64     `json:"expired"`
}

// Sweeper moves ACTIVE listings to EXPIRING once they end within a day and
// EXPIRING listings to EXPIRED once their end has passed. Both steps are
// filters on (status, end, now), so a run may overlap, repeat or be skipped
// without harm.
type Sweeper struct {
	log   logrus.FieldLogger
	db    *sqlx.DB
	clock clock.Clock
}

func New(log logrus.FieldLogger, db *sqlx.DB, clk clock.Clock) *Sweeper {
	return &Sweeper{log: log, db: db, clock: clk}
}

func (s *Sweeper) Run(ctx context.Context) (Result, error) {
	res := Result{At: s.clock.Now()}

	err := database.Transaction(s.db, func(tx sqlx.ExtContext) error {
		n, err := listing.MarkExpiring(ctx, tx, res.At)
		if err != nil {
			return err
		}
		res.Expiring = n

		n, err = listing.MarkExpired(ctx, tx, res.At)
		if err != nil {
			return err
		}
		res.Expired = n

		return nil
	})
	if err != nil {
		return Result{}, fmt.Errorf("sweeping listings: %w", err)
	}

	return res, nil
}

// Schedule registers the sweep on c every interval. A run that is still in
// progress when the next tick fires causes that tick to be skipped; a failed
// run is logged and simply retried on the next tick.
func (s *Sweeper) Schedule(c *cron.Cron, interval time.Duration, timeout time.Duration) cron.EntryID {
	job := cron.FuncJob(func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		res, err := s.Run(ctx)
		if err != nil {
			s.log.WithError(err).Error("sweep failed")
			return
		}

		s.log.WithFields(logrus.Fields{
			"expiring": res.Expiring,
			"expired":  res.Expired,
		}).Info("sweep completed")
	})

	wrapped := cron.NewChain(
		cron.Recover(Logger{s.log}),
		cron.SkipIfStillRunning(Logger{s.log}),
	).Then(job)

	return c.Schedule(cron.Every(interval), wrapped)
}

// Logger adapts logrus to the cron logging interface.
type Logger struct {
	Log logrus.FieldLogger
}

func (l Logger) Info(msg string, keysAndValues ...interface{}) {
	l.Log.WithFields(fields(keysAndValues)).Debug(msg)
}

func (l Logger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.Log.WithFields(fields(keysAndValues)).WithError(err).Error(msg)
}

func fields(kv []interface{}) logrus.Fields {
	f := make(logrus.Fields, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		f[fmt.Sprint(kv[i])] = kv[i+1]
	}
	return f
}
