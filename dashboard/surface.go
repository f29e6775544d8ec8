package dashboard

import (
	"sync"
	"sync/atomic"
	"time"

	"healthpredict-web/models"
)

// Frame is what the surface currently shows for one (view, email) slot.
// Exactly one of Admin and User is set, matching View.
type Frame struct {
	View  View                   `json:"view"`
	Admin *models.AdminDashboard `json:"admin,omitempty"`
	User  *models.UserDashboard  `json:"user,omitempty"`
	// Loaded is true once a fetch has been committed.
	Loaded bool `json:"loaded"`
	// Failed is true when the latest refresh failed. The tree still shows
	// the last committed state.
	Failed    bool      `json:"failed"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// LoadingFrame is the initial frame of a slot.
func LoadingFrame(view View) Frame {
	if view == AdminView {
		tree := LoadingAdmin()
		return Frame{View: view, Admin: &tree}
	}
	tree := LoadingUser()
	return Frame{View: view, User: &tree}
}

type slotKey struct {
	view  View
	email string
}

type slot struct {
	// committed is the id of the frame on display. failed is the id of the
	// newest failed request, zero when none failed after the last reset.
	committed uint64
	failed    uint64
	frame     Frame
	touched   time.Time
}

// Surface holds the committed frame per (view, email). Commits carry a
// request id and older ids never overwrite newer ones. A failure only
// flags the slot, so an older success landing after a newer failure is
// still shown, with Failed kept set.
//
// Slots untouched for longer than the retention period are evicted.
type Surface struct {
	mu        sync.Mutex
	slots     map[slotKey]*slot
	seq       atomic.Uint64
	retention time.Duration
	swept     time.Time
	now       func() time.Time
}

// NewSurface creates an empty Surface. A retention of zero keeps slots
// until Forget.
func NewSurface(retention time.Duration) *Surface {
	return &Surface{
		slots:     make(map[slotKey]*slot),
		retention: retention,
		now:       time.Now,
	}
}

// Begin allocates the next request id.
func (s *Surface) Begin() uint64 {
	return s.seq.Add(1)
}

// Reset puts the slot back to its loading frame and returns a request id
// for the fetch that follows. Requests begun before the reset can no
// longer commit to the slot.
func (s *Surface) Reset(view View, email string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweepLocked(now)

	seq := s.seq.Add(1)
	s.slots[slotKey{view, email}] = &slot{
		committed: seq - 1,
		frame:     LoadingFrame(view),
		touched:   now,
	}
	return seq
}

// Current returns the committed frame, or the loading frame when nothing
// has been committed yet.
func (s *Surface) Current(view View, email string) Frame {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweepLocked(now)

	key := slotKey{view, email}
	if sl, ok := s.slots[key]; ok {
		if !s.expired(sl, now) {
			return sl.frame
		}
		delete(s.slots, key)
	}
	return LoadingFrame(view)
}

// Commit stores frame if seq is newer than the last commit for the slot.
// It reports whether the frame was stored.
func (s *Surface) Commit(view View, email string, seq uint64, frame Frame) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	sl := s.slot(view, email, now)
	if seq <= sl.committed {
		return false
	}

	frame.View = view
	frame.Loaded = true
	frame.Failed = seq < sl.failed
	frame.UpdatedAt = now
	sl.committed = seq
	sl.frame = frame
	sl.touched = now
	return true
}

// MarkFailed flags the slot as failed without touching its tree. A failure
// older than the last commit is ignored.
func (s *Surface) MarkFailed(view View, email string, seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	sl := s.slot(view, email, now)
	if seq <= sl.committed {
		return false
	}
	if seq > sl.failed {
		sl.failed = seq
	}
	sl.frame.Failed = true
	sl.touched = now
	return true
}

// Forget drops every slot of email.
func (s *Surface) Forget(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key := range s.slots {
		if key.email == email {
			delete(s.slots, key)
		}
	}
}

// Len reports the number of retained slots.
func (s *Surface) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.slots)
}

// slot must be called with mu held.
func (s *Surface) slot(view View, email string, now time.Time) *slot {
	s.sweepLocked(now)

	key := slotKey{view, email}
	sl, ok := s.slots[key]
	if !ok || s.expired(sl, now) {
		sl = &slot{frame: LoadingFrame(view), touched: now}
		s.slots[key] = sl
	}
	return sl
}

// sweepLocked evicts expired slots, at most once per quarter of the
// retention period. Must be called with mu held.
func (s *Surface) sweepLocked(now time.Time) {
	if s.retention <= 0 || now.Sub(s.swept) < s.retention/4 {
		return
	}
	s.swept = now

	for key, sl := range s.slots {
		if s.expired(sl, now) {
			delete(s.slots, key)
		}
	}
}

func (s *Surface) expired(sl *slot, now time.Time) bool {
	return s.retention > 0 && now.Sub(sl.touched) > s.retention
}
