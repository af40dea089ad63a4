package input

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/yourusername/moneyball/internal/odds"
)

// Form holds raw text values keyed by field name.
type Form map[string]string

// Rule checks a parsed number and returns a message when it is out of range.
type Rule func(v float64) string

// Positive requires v > 0
func Positive(v float64) string {
	if v <= 0 {
		return "must be greater than 0"
	}
	return ""
}

// NonNegative requires v >= 0
func NonNegative(v float64) string {
	if v < 0 {
		return "must not be negative"
	}
	return ""
}

// Between requires lo <= v <= hi
func Between(lo, hi float64) Rule {
	return func(v float64) string {
		if v < lo || v > hi {
			return fmt.Sprintf("must be between %v and %v", lo, hi)
		}
		return ""
	}
}

// Reader parses fields out of a Form, recording every failure. Failed
// fields read as the zero value (or the supplied default) so parsing can
// continue and report all problems at once.
type Reader struct {
	form Form
	errs ValidationErrors
}

// NewReader creates a Reader over form
func NewReader(form Form) *Reader {
	if form == nil {
		form = Form{}
	}
	return &Reader{form: form}
}

// Err returns the collected errors, or nil when every field parsed.
func (r *Reader) Err() error {
	if len(r.errs) == 0 {
		return nil
	}
	return r.errs
}

// Errors returns the collected field errors
func (r *Reader) Errors() ValidationErrors {
	return r.errs
}

// Fail records a failure for field
func (r *Reader) Fail(field string, kind Kind, message string) {
	r.errs = append(r.errs, &FieldError{Field: field, Kind: kind, Message: message})
}

// Has reports whether field carries a non-blank value
func (r *Reader) Has(field string) bool {
	return r.raw(field) != ""
}

func (r *Reader) raw(field string) string {
	return strings.TrimSpace(r.form[field])
}

// Float reads a required number
func (r *Reader) Float(field string, rules ...Rule) float64 {
	s := r.raw(field)
	if s == "" {
		r.Fail(field, KindMissing, "is required")
		return 0
	}
	return r.parseFloat(field, s, 0, rules)
}

// FloatDefault reads a number, returning def when the field is blank
func (r *Reader) FloatDefault(field string, def float64, rules ...Rule) float64 {
	s := r.raw(field)
	if s == "" {
		return def
	}
	return r.parseFloat(field, s, def, rules)
}

// OptionalFloat reads a number, returning nil when the field is blank
func (r *Reader) OptionalFloat(field string, rules ...Rule) *float64 {
	s := r.raw(field)
	if s == "" {
		return nil
	}
	before := len(r.errs)
	v := r.parseFloat(field, s, 0, rules)
	if len(r.errs) > before {
		return nil
	}
	return &v
}

func (r *Reader) parseFloat(field, s string, fallback float64, rules []Rule) float64 {
	d, err := parseDecimal(s)
	v, _ := d.Float64()
	if err != nil || math.IsInf(v, 0) {
		r.Fail(field, KindMalformed, fmt.Sprintf("%q is not a number", s))
		return fallback
	}
	for _, rule := range rules {
		if msg := rule(v); msg != "" {
			r.Fail(field, KindDomain, msg)
			return fallback
		}
	}
	return v
}

// Int reads a required whole number
func (r *Reader) Int(field string, rules ...Rule) int {
	s := r.raw(field)
	if s == "" {
		r.Fail(field, KindMissing, "is required")
		return 0
	}
	return r.parseInt(field, s, 0, rules)
}

// IntDefault reads a whole number, returning def when the field is blank
func (r *Reader) IntDefault(field string, def int, rules ...Rule) int {
	s := r.raw(field)
	if s == "" {
		return def
	}
	return r.parseInt(field, s, def, rules)
}

func (r *Reader) parseInt(field, s string, fallback int, rules []Rule) int {
	d, err := parseDecimal(s)
	if err != nil || !d.IsInteger() || d.Abs().GreaterThan(decimal.NewFromInt(math.MaxInt32)) {
		r.Fail(field, KindMalformed, fmt.Sprintf("%q is not a whole number", s))
		return fallback
	}
	v := int(d.IntPart())
	for _, rule := range rules {
		if msg := rule(float64(v)); msg != "" {
			r.Fail(field, KindDomain, msg)
			return fallback
		}
	}
	return v
}

func parseDecimal(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.TrimPrefix(s, "+"))
}

// Percent reads a rate written either as a percentage (24.3) or a fraction
// (0.243) and returns the fraction.
func (r *Reader) Percent(field string) float64 {
	v := r.Float(field)
	if r.failed(field) {
		return 0
	}
	if v < 0 {
		r.Fail(field, KindDomain, "must not be negative")
		return 0
	}
	if v > 1 {
		v /= 100
	}
	return v
}

// FloatList reads a comma separated list with at least one number.
func (r *Reader) FloatList(field string, rules ...Rule) []float64 {
	s := r.raw(field)
	if s == "" {
		r.Fail(field, KindMissing, "is required")
		return nil
	}

	var values []float64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		before := len(r.errs)
		v := r.parseFloat(field, part, 0, rules)
		if len(r.errs) > before {
			return nil
		}
		values = append(values, v)
	}
	if len(values) == 0 {
		r.Fail(field, KindMissing, "needs at least one value")
		return nil
	}
	return values
}

// American reads required American odds
func (r *Reader) American(field string) float64 {
	s := r.raw(field)
	if s == "" {
		r.Fail(field, KindMissing, "is required")
		return 0
	}
	v, err := odds.ParseAmerican(s)
	if err != nil {
		r.errs = append(r.errs, fieldErrorFrom(field, err))
		return 0
	}
	return v
}

// AmericanDefault reads American odds, returning def when blank
func (r *Reader) AmericanDefault(field string, def float64) float64 {
	if !r.Has(field) {
		return def
	}
	return r.American(field)
}

// OptionalAmerican reads American odds, returning nil when blank
func (r *Reader) OptionalAmerican(field string) *float64 {
	if !r.Has(field) {
		return nil
	}
	before := len(r.errs)
	v := r.American(field)
	if len(r.errs) > before {
		return nil
	}
	return &v
}

// Price reads required odds in either American or decimal format
func (r *Reader) Price(field string) odds.Price {
	s := r.raw(field)
	if s == "" {
		r.Fail(field, KindMissing, "is required")
		return odds.Price{}
	}
	p, err := odds.ParseOdds(s)
	if err != nil {
		r.errs = append(r.errs, fieldErrorFrom(field, err))
		return odds.Price{}
	}
	return p
}

// OptionalPrice reads odds in either format, returning nil when blank
func (r *Reader) OptionalPrice(field string) *odds.Price {
	if !r.Has(field) {
		return nil
	}
	before := len(r.errs)
	p := r.Price(field)
	if len(r.errs) > before {
		return nil
	}
	return &p
}

// Choice reads one of allowed, case-insensitively, returning def when blank.
func (r *Reader) Choice(field, def string, allowed ...string) string {
	s := r.raw(field)
	if s == "" {
		return def
	}
	for _, a := range allowed {
		if strings.EqualFold(s, a) {
			return a
		}
	}
	r.Fail(field, KindDomain, fmt.Sprintf("must be one of: %s", strings.Join(allowed, ", ")))
	return def
}

// Text reads free text, returning def when blank
func (r *Reader) Text(field, def string) string {
	if s := r.raw(field); s != "" {
		return s
	}
	return def
}

func (r *Reader) failed(field string) bool {
	for _, fe := range r.errs {
		if fe.Field == field {
			return true
		}
	}
	return false
}
