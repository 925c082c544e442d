package buc

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"

	dErrors "casebridge/pkg/domain-errors"
)

// RawDate is an upstream date before normalization: either epoch
// milliseconds or a textual timestamp. The zero value is absent.
type RawDate struct {
	millis  int64
	text    string
	isMilli bool
	isText  bool
}

// EpochMillis wraps an epoch-millisecond value.
func EpochMillis(ms int64) RawDate {
	return RawDate{millis: ms, isMilli: true}
}

// Text wraps a textual timestamp. Blank text is absent.
func Text(s string) RawDate {
	s = strings.TrimSpace(s)
	if s == "" {
		return RawDate{}
	}
	return RawDate{text: s, isText: true}
}

// IsAbsent reports whether no value was supplied.
func (d RawDate) IsAbsent() bool {
	return !d.isMilli && !d.isText
}

// Millis returns the epoch value when the date arrived as a number.
func (d RawDate) Millis() (int64, bool) {
	return d.millis, d.isMilli
}

// Text returns the textual value when the date arrived as a string.
func (d RawDate) Text() (string, bool) {
	return d.text, d.isText
}

// UnmarshalJSON accepts null, a JSON number or a JSON string.
func (d *RawDate) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*d = RawDate{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*d = Text(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return dErrors.Wrap(err, dErrors.CodeValidation, "date must be a number or a string")
	}
	if ms, err := n.Int64(); err == nil {
		*d = EpochMillis(ms)
		return nil
	}
	f, err := n.Float64()
	// float64(math.MaxInt64) rounds up to 2^63, so the upper bound is exclusive.
	if err != nil || math.IsNaN(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return dErrors.Newf(dErrors.CodeValidation, "date %s is not a valid epoch value", string(data))
	}
	*d = EpochMillis(int64(f))
	return nil
}

// MarshalJSON writes the value back in its original representation.
func (d RawDate) MarshalJSON() ([]byte, error) {
	switch {
	case d.isMilli:
		return json.Marshal(d.millis)
	case d.isText:
		return json.Marshal(d.text)
	default:
		return []byte("null"), nil
	}
}
