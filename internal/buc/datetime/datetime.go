// Package datetime normalizes the heterogeneous date encodings found in
// upstream case documents into epoch milliseconds.
package datetime

import (
	"strings"
	"time"
	_ "time/tzdata" // zone ids in "[Europe/Oslo]" suffixes must resolve on slim images

	"casebridge/internal/buc"
)

// Layouts carrying an explicit offset. Fractional seconds are accepted by
// time.Parse even when the layout omits them.
var offsetLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04Z0700",
}

// Layouts without an offset, interpreted in a location.
var localLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

const dateLayout = "2006-01-02"

// Normalizer converts RawDate values. Offset-less text is read in Location.
type Normalizer struct {
	location *time.Location
}

// New returns a Normalizer for loc; nil means time.Local.
func New(loc *time.Location) Normalizer {
	if loc == nil {
		loc = time.Local
	}
	return Normalizer{location: loc}
}

// Location returns the zone used for offset-less values.
func (n Normalizer) Location() *time.Location {
	if n.location == nil {
		return time.Local
	}
	return n.location
}

// Time converts d to an instant. ok is false when d is absent or unparseable.
func (n Normalizer) Time(d buc.RawDate) (time.Time, bool) {
	if ms, ok := d.Millis(); ok {
		return time.UnixMilli(ms).In(n.Location()), true
	}
	text, ok := d.Text()
	if !ok {
		return time.Time{}, false
	}
	return n.parse(text)
}

// Millis converts d to epoch milliseconds.
func (n Normalizer) Millis(d buc.RawDate) (int64, bool) {
	t, ok := n.Time(d)
	if !ok {
		return 0, false
	}
	return t.UnixMilli(), true
}

// MillisPtr is Millis for optional JSON fields.
func (n Normalizer) MillisPtr(d buc.RawDate) *int64 {
	ms, ok := n.Millis(d)
	if !ok {
		return nil
	}
	return &ms
}

// Date converts d to a calendar date. Epoch values are truncated in the
// normalizer's location; text with a 'T' separator keeps its own date part.
// Text without the separator is absent.
func (n Normalizer) Date(d buc.RawDate) (CalendarDate, bool) {
	if ms, ok := d.Millis(); ok {
		return DateOf(time.UnixMilli(ms).In(n.Location())), true
	}
	text, ok := d.Text()
	if !ok {
		return CalendarDate{}, false
	}
	datePart, _, found := strings.Cut(text, "T")
	if !found {
		return CalendarDate{}, false
	}
	t, err := time.Parse(dateLayout, datePart)
	if err != nil {
		return CalendarDate{}, false
	}
	return DateOf(t), true
}

func (n Normalizer) parse(text string) (time.Time, bool) {
	loc := n.Location()
	if open := strings.IndexByte(text, '['); open >= 0 {
		zoneID := strings.TrimSuffix(text[open+1:], "]")
		text = text[:open]
		zone, err := time.LoadLocation(zoneID)
		if err != nil {
			return time.Time{}, false
		}
		loc = zone
	}

	for _, layout := range offsetLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t, true
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, text, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
