package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"healthpredict-web/models"
)

// StatsFetcher is the backend statistics API.
type StatsFetcher interface {
	AdminStats(ctx context.Context, email string) (*models.AdminSnapshot, error)
	UserStats(ctx context.Context, email string) (*models.UserSnapshot, error)
}

// Snapshot is a fetched payload. Exactly one field is set, matching the
// view it was fetched for.
type Snapshot struct {
	Admin *models.AdminSnapshot
	User  *models.UserSnapshot
}

// Composer fetches statistics, binds them and commits the result to a
// Surface.
type Composer struct {
	stats       StatsFetcher
	surface     *Surface
	clock       Clock
	diagnostics Diagnostics
	metrics     *Metrics
	logger      *logrus.Logger
	now         func() time.Time
}

// NewComposer creates a Composer. metrics may be nil.
func NewComposer(stats StatsFetcher, surface *Surface, clock Clock, diagnostics Diagnostics, metrics *Metrics, logger *logrus.Logger) *Composer {
	return &Composer{
		stats:       stats,
		surface:     surface,
		clock:       clock,
		diagnostics: diagnostics,
		metrics:     metrics,
		logger:      logger,
		now:         time.Now,
	}
}

// FetchSnapshot issues exactly one statistics request for view.
func (c *Composer) FetchSnapshot(ctx context.Context, view View, email string) (Snapshot, error) {
	switch view {
	case AdminView:
		snap, err := c.stats.AdminStats(ctx, email)
		if err != nil {
			return Snapshot{}, err
		}
		return Snapshot{Admin: snap}, nil
	case UserView:
		snap, err := c.stats.UserStats(ctx, email)
		if err != nil {
			return Snapshot{}, err
		}
		return Snapshot{User: snap}, nil
	default:
		return Snapshot{}, fmt.Errorf("unknown dashboard view %d", view)
	}
}

// Bind projects snap into a frame for view.
func (c *Composer) Bind(view View, snap Snapshot) Frame {
	if view == AdminView {
		tree := BindAdmin(snap.Admin, c.clock)
		return Frame{View: view, Admin: &tree}
	}
	tree := BindUser(snap.User, c.clock)
	return Frame{View: view, User: &tree}
}

// Load renders view for email from scratch, as a page load does. The slot
// is reset to its loading frame first, so a failure shows placeholders
// rather than the tree of an earlier load. The returned frame is this
// call's own result even when a newer request has committed since.
func (c *Composer) Load(ctx context.Context, view View, email string) Frame {
	seq := c.surface.Reset(view, email)

	frame, ok := c.fetch(ctx, view, email)
	if !ok {
		c.surface.MarkFailed(view, email, seq)
		frame = LoadingFrame(view)
		frame.Failed = true
		return frame
	}

	c.commit(view, email, seq, frame)
	frame.Loaded = true
	frame.UpdatedAt = c.now()
	return frame
}

// Refresh fetches, binds and commits view for email and returns what the
// surface shows afterwards. Failures are reported to diagnostics and leave
// the last committed tree in place.
func (c *Composer) Refresh(ctx context.Context, view View, email string) Frame {
	seq := c.surface.Begin()

	frame, ok := c.fetch(ctx, view, email)
	if !ok {
		if !c.surface.MarkFailed(view, email, seq) {
			c.logger.WithFields(logrus.Fields{
				"view": view.String(),
				"seq":  seq,
			}).Debug("Ignoring failure of superseded refresh")
		}
		return c.surface.Current(view, email)
	}

	c.commit(view, email, seq, frame)
	return c.surface.Current(view, email)
}

// fetch runs one statistics request and binds the result. Failures are
// recorded and reported to diagnostics.
func (c *Composer) fetch(ctx context.Context, view View, email string) (Frame, bool) {
	started := c.now()

	snap, err := c.FetchSnapshot(ctx, view, email)
	if err != nil {
		c.metrics.observeFetch(view, "failure", c.now().Sub(started))
		c.diagnostics.Report(ctx, NewFailure(view, email, err, c.now()))
		return Frame{}, false
	}
	c.metrics.observeFetch(view, "success", c.now().Sub(started))

	return c.Bind(view, snap), true
}

func (c *Composer) commit(view View, email string, seq uint64, frame Frame) {
	if !c.surface.Commit(view, email, seq, frame) {
		c.metrics.observeStale(view)
		c.logger.WithFields(logrus.Fields{
			"view": view.String(),
			"seq":  seq,
		}).Debug("Discarding stale statistics response")
	}
}

// Current returns the committed frame without fetching.
func (c *Composer) Current(view View, email string) Frame {
	return c.surface.Current(view, email)
}

// Forget drops the display state of email, called on logout.
func (c *Composer) Forget(email string) {
	c.surface.Forget(email)
}
