package validation

import (
	"bytes"
	"encoding/json"
	"net/url"
	"time"

	apierrors "github.com/yukikurage/project-task-api/internal/errors"
)

// Payload is a decoded request body keyed by field name. Keeping the raw JSON
// per key lets the rules tell an absent key from an explicit null.
type Payload map[string]json.RawMessage

// Decode parses a JSON object. An empty body is an empty payload.
func Decode(body []byte) (Payload, error) {
	p := Payload{}
	if len(bytes.TrimSpace(body)) == 0 {
		return p, nil
	}
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, apierrors.ValidationField("body", "The request body must be a valid JSON object.")
	}
	if p == nil {
		// body was the literal null
		p = Payload{}
	}
	return p, nil
}

// FromForm converts url-encoded form values into a payload. Only the first
// value of each key is kept.
func FromForm(values url.Values) Payload {
	p := Payload{}
	for key, vs := range values {
		if len(vs) == 0 {
			continue
		}
		raw, _ := json.Marshal(vs[0])
		p[key] = raw
	}
	return p
}

// Data holds the validated fields only.
type Data struct {
	values map[string]value
}

type value struct {
	null bool
	str  string
	num  uint64
	date time.Time
}

// Has reports whether the field was supplied (including an explicit null).
func (d *Data) Has(name string) bool {
	_, ok := d.values[name]
	return ok
}

// IsNull reports whether the field was supplied as null.
func (d *Data) IsNull(name string) bool {
	v, ok := d.values[name]
	return ok && v.null
}

// String returns the string value, or nil when absent or null.
func (d *Data) String(name string) *string {
	v, ok := d.values[name]
	if !ok || v.null {
		return nil
	}
	s := v.str
	return &s
}

// Uint returns the integer value, or nil when absent or null.
func (d *Data) Uint(name string) *uint64 {
	v, ok := d.values[name]
	if !ok || v.null {
		return nil
	}
	n := v.num
	return &n
}

// Date returns the date value, or nil when absent or null.
func (d *Data) Date(name string) *time.Time {
	v, ok := d.values[name]
	if !ok || v.null {
		return nil
	}
	t := v.date
	return &t
}
