// Package validation evaluates typed per-field rules against a request payload.
//
//	rules := validation.Rules{
//	    validation.String("name").Required().Max(255),
//	    validation.Date("end_date").Nullable().AfterOrEqual("start_date", nil),
//	    validation.Integer("owner_id").Nullable().Exists(users.Exists),
//	}
//	data, err := rules.Validate(ctx, payload)
//
// A failed validation returns an *errors.APIError of kind Validation carrying
// the messages per field. Lookup failures are returned as they are.
package validation

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	apierrors "github.com/yukikurage/project-task-api/internal/errors"
)

// ExistsFunc reports whether the referenced row exists.
type ExistsFunc func(ctx context.Context, id uint64) (bool, error)

// UniqueFunc reports whether the value is already taken.
type UniqueFunc func(ctx context.Context, value string) (bool, error)

type fieldType int

const (
	typeString fieldType = iota
	typePassword
	typeEmail
	typeInteger
	typeDate
)

// dateLayouts are tried in order when parsing a date field.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
}

// Field is the rule set for one payload key.
type Field struct {
	name      string
	typ       fieldType
	required  bool
	sometimes bool
	nullable  bool
	min       int
	max       int
	in        []string

	afterField    string
	afterFallback *time.Time

	exists ExistsFunc
	unique UniqueFunc
}

func newField(name string, typ fieldType) *Field {
	return &Field{name: name, typ: typ, min: -1, max: -1}
}

// String declares a trimmed string field.
func String(name string) *Field { return newField(name, typeString) }

// Password declares a string field that is not trimmed.
func Password(name string) *Field { return newField(name, typePassword) }

// Email declares a string field holding an email address.
func Email(name string) *Field { return newField(name, typeEmail) }

// Integer declares a non-negative integer field. Numeric strings are accepted.
func Integer(name string) *Field { return newField(name, typeInteger) }

// Date declares a date field.
func Date(name string) *Field { return newField(name, typeDate) }

func (f *Field) Required() *Field  { f.required = true; return f }
func (f *Field) Sometimes() *Field { f.sometimes = true; return f }
func (f *Field) Nullable() *Field  { f.nullable = true; return f }
func (f *Field) Min(n int) *Field  { f.min = n; return f }
func (f *Field) Max(n int) *Field  { f.max = n; return f }

// In restricts the value to the given set.
func (f *Field) In(values ...string) *Field {
	f.in = values
	return f
}

// AfterOrEqual requires the date to be on or after the named field. When the
// other field is absent from the payload the fallback is used instead.
func (f *Field) AfterOrEqual(other string, fallback *time.Time) *Field {
	f.afterField = other
	f.afterFallback = fallback
	return f
}

// Exists requires the value to reference an existing row.
func (f *Field) Exists(fn ExistsFunc) *Field {
	f.exists = fn
	return f
}

// Unique requires the value not to be taken.
func (f *Field) Unique(fn UniqueFunc) *Field {
	f.unique = fn
	return f
}

// Rules is an ordered list of field rules.
type Rules []*Field

// Validate evaluates every rule and returns the validated subset of the payload.
func (rs Rules) Validate(ctx context.Context, p Payload) (*Data, error) {
	data := &Data{values: make(map[string]value)}
	failures := make(map[string][]string)
	order := make([]string, 0, len(rs))

	for _, f := range rs {
		msgs, v, keep, err := f.check(ctx, p)
		if err != nil {
			return nil, err
		}
		if len(msgs) > 0 {
			failures[f.name] = msgs
			order = append(order, f.name)
			continue
		}
		if keep {
			data.values[f.name] = v
		}
	}

	if len(failures) > 0 {
		return nil, apierrors.ValidationInOrder(order, failures)
	}
	return data, nil
}

func (f *Field) check(ctx context.Context, p Payload) ([]string, value, bool, error) {
	raw, present := p[f.name]
	if !present {
		if f.required && !f.sometimes {
			return []string{f.msgRequired()}, value{}, false, nil
		}
		return nil, value{}, false, nil
	}

	v, typeMsg := f.parse(raw)
	if v.null {
		switch {
		case f.required:
			return []string{f.msgRequired()}, value{}, false, nil
		case f.nullable:
			return nil, v, true, nil
		case f.exists != nil:
			return []string{f.msgInvalid()}, value{}, false, nil
		default:
			return []string{f.msgType()}, value{}, false, nil
		}
	}
	if typeMsg != "" {
		return []string{typeMsg}, value{}, false, nil
	}

	var msgs []string
	if f.typ != typeInteger && f.typ != typeDate {
		if f.min >= 0 && !minLength(v.str, f.min) {
			msgs = append(msgs, fmt.Sprintf("The %s field must be at least %d characters.", f.attribute(), f.min))
		}
		if f.max >= 0 && !maxLength(v.str, f.max) {
			msgs = append(msgs, fmt.Sprintf("The %s field must not be greater than %d characters.", f.attribute(), f.max))
		}
		if f.typ == typeEmail && !isEmail(v.str) {
			msgs = append(msgs, fmt.Sprintf("The %s field must be a valid email address.", f.attribute()))
		}
		if len(f.in) > 0 && !isOneOf(v.str, f.in) {
			msgs = append(msgs, f.msgInvalid())
		}
	}
	if f.typ == typeDate && f.afterField != "" {
		if base := f.comparisonBase(p); base != nil && v.date.Before(*base) {
			msgs = append(msgs, fmt.Sprintf("The %s field must be a date after or equal to %s.",
				f.attribute(), strings.ReplaceAll(f.afterField, "_", " ")))
		}
	}
	if len(msgs) > 0 {
		return msgs, value{}, false, nil
	}

	if f.exists != nil {
		ok, err := f.exists(ctx, v.num)
		if err != nil {
			return nil, value{}, false, fmt.Errorf("failed to check %s: %w", f.name, err)
		}
		if !ok {
			return []string{f.msgInvalid()}, value{}, false, nil
		}
	}
	if f.unique != nil {
		taken, err := f.unique(ctx, v.str)
		if err != nil {
			return nil, value{}, false, fmt.Errorf("failed to check %s: %w", f.name, err)
		}
		if taken {
			return []string{fmt.Sprintf("The %s has already been taken.", f.attribute())}, value{}, false, nil
		}
	}

	return nil, v, true, nil
}

// comparisonBase resolves the date the field is compared against.
func (f *Field) comparisonBase(p Payload) *time.Time {
	raw, present := p[f.afterField]
	if !present {
		return f.afterFallback
	}
	other := Date(f.afterField)
	v, msg := other.parse(raw)
	if v.null || msg != "" {
		return nil
	}
	return &v.date
}

// parse decodes raw JSON into the field's type. The returned message is set
// when the value has the wrong type.
func (f *Field) parse(raw json.RawMessage) (value, string) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "null" || trimmed == "" {
		return value{null: true}, ""
	}

	switch f.typ {
	case typeInteger:
		var decoded interface{}
		dec := json.NewDecoder(strings.NewReader(trimmed))
		dec.UseNumber()
		if err := dec.Decode(&decoded); err != nil {
			return value{}, f.msgType()
		}
		var text string
		switch n := decoded.(type) {
		case json.Number:
			text = n.String()
		case string:
			text = strings.TrimSpace(n)
			if text == "" {
				return value{null: true}, ""
			}
		default:
			return value{}, f.msgType()
		}
		num, err := strconv.ParseUint(text, 10, 64)
		if err != nil {
			return value{}, f.msgType()
		}
		return value{num: num}, ""

	case typeDate:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return value{}, f.msgType()
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return value{null: true}, ""
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return value{date: t}, ""
			}
		}
		return value{}, f.msgType()

	default:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return value{}, f.msgType()
		}
		if f.typ != typePassword {
			s = strings.TrimSpace(s)
		}
		if s == "" {
			return value{null: true}, ""
		}
		return value{str: s}, ""
	}
}

func (f *Field) attribute() string {
	return strings.ReplaceAll(f.name, "_", " ")
}

func (f *Field) msgRequired() string {
	return fmt.Sprintf("The %s field is required.", f.attribute())
}

func (f *Field) msgInvalid() string {
	return fmt.Sprintf("The selected %s is invalid.", f.attribute())
}

func (f *Field) msgType() string {
	switch f.typ {
	case typeInteger:
		return fmt.Sprintf("The %s field must be an integer.", f.attribute())
	case typeDate:
		return fmt.Sprintf("The %s field must be a valid date.", f.attribute())
	default:
		return fmt.Sprintf("The %s field must be a string.", f.attribute())
	}
}
