package dashboard

import (
	"strings"
	"time"
)

// Zone-less layouts are read as UTC, which is how the backend stores them.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// Clock renders backend timestamps as local display strings.
type Clock struct {
	Location *time.Location
	Layout   string
}

// NewClock creates a Clock. A nil location means time.Local.
func NewClock(loc *time.Location, layout string) Clock {
	if loc == nil {
		loc = time.Local
	}
	if layout == "" {
		layout = time.DateTime
	}
	return Clock{Location: loc, Layout: layout}
}

// Local formats ts in the clock's location. Values that cannot be parsed
// are shown as received.
func (c Clock) Local(ts string) string {
	raw := strings.TrimSpace(ts)
	for _, layout := range timestampLayouts {
		t, err := time.ParseInLocation(layout, raw, time.UTC)
		if err == nil {
			return t.In(c.location()).Format(c.layout())
		}
	}
	return ts
}

func (c Clock) location() *time.Location {
	if c.Location == nil {
		return time.Local
	}
	return c.Location
}

func (c Clock) layout() string {
	if c.Layout == "" {
		return time.DateTime
	}
	return c.Layout
}
