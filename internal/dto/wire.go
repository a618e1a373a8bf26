package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/lbhackney-it/apprenticeships-api/pkg/enums"
)

// EnumValue decodes an enum-typed field that may arrive as a zero-based
// ordinal number, a literal label string, or null. Writers encode these
// fields as ordinals; the decoder stays lenient and accepts both forms.
type EnumValue struct {
	label   *string
	ordinal *int
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *EnumValue) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		*v = EnumValue{}
		return nil
	}

	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*v = EnumValue{label: &s}
		return nil
	}

	var n float64
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return fmt.Errorf("enum value must be a string, number or null")
	}
	if n != math.Trunc(n) {
		return fmt.Errorf("enum ordinal must be an integer, got %v", n)
	}
	ordinal := int(n)
	*v = EnumValue{ordinal: &ordinal}
	return nil
}

// IsZero reports whether the value decoded from null or was absent.
func (v EnumValue) IsZero() bool {
	return v.label == nil && v.ordinal == nil
}

// Resolve maps the decoded value onto set. Ordinals outside the set are an
// error; labels pass through untouched, mirroring the encoder which leaves
// labels it does not recognise alone.
func (v EnumValue) Resolve(set enums.Set) (*string, error) {
	switch {
	case v.ordinal != nil:
		label, ok := set.Label(*v.ordinal)
		if !ok {
			return nil, fmt.Errorf("%s: ordinal %d out of range", set.Name(), *v.ordinal)
		}
		return &label, nil
	case v.label != nil:
		if strings.TrimSpace(*v.label) == "" {
			return nil, nil
		}
		return v.label, nil
	default:
		return nil, nil
	}
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02",
}

// Date accepts RFC 3339 timestamps or bare YYYY-MM-DD dates. Anything else
// is rejected rather than silently zeroed.
type Date struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if string(trimmed) == "null" {
		d.Time = time.Time{}
		return nil
	}

	var s string
	if err := json.Unmarshal(trimmed, &s); err != nil {
		return fmt.Errorf("date must be a string")
	}
	if strings.TrimSpace(s) == "" {
		d.Time = time.Time{}
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t
			return nil
		}
	}
	return fmt.Errorf("invalid date %q", s)
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Time.Format(time.RFC3339))
}

// TimePtr returns the underlying time, or nil when unset.
func (d *Date) TimePtr() *time.Time {
	if d == nil || d.IsZero() {
		return nil
	}
	t := d.Time
	return &t
}

// normalizeOptional trims an optional string, mapping empty results to nil.
func normalizeOptional(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
