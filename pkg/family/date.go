package family

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Date is a possibly partial calendar date. Genealogical sources often give
// only a year, or a year and month; missing parts are zero.
//
// The zero Date means "unknown".
type Date struct {
	Year  int
	Month int // 1-12, 0 if unknown
	Day   int // 1-31, 0 if unknown
}

// ParseDate parses "YYYY", "YYYY-MM" or "YYYY-MM-DD". An empty string yields
// the zero (unknown) Date.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, nil
	}
	parts := strings.Split(s, "-")
	if len(parts) > 3 {
		return Date{}, fmt.Errorf("invalid date %q", s)
	}
	var nums [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return Date{}, fmt.Errorf("invalid date %q", s)
		}
		nums[i] = n
	}
	d := Date{Year: nums[0], Month: nums[1], Day: nums[2]}
	if d.Year == 0 {
		return Date{}, fmt.Errorf("invalid date %q: year is required", s)
	}
	if len(parts) > 1 && (d.Month < 1 || d.Month > 12) {
		return Date{}, fmt.Errorf("invalid date %q: month out of range", s)
	}
	if len(parts) > 2 && (d.Day < 1 || d.Day > 31) {
		return Date{}, fmt.Errorf("invalid date %q: day out of range", s)
	}
	return d, nil
}

// MustParseDate is like ParseDate but panics on error. For tests and literals.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// IsZero reports whether the date is unknown.
func (d Date) IsZero() bool { return d.Year == 0 }

// String formats the date with as many parts as are known.
func (d Date) String() string {
	switch {
	case d.IsZero():
		return ""
	case d.Month == 0:
		return fmt.Sprintf("%04d", d.Year)
	case d.Day == 0:
		return fmt.Sprintf("%04d-%02d", d.Year, d.Month)
	default:
		return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
	}
}

// Compare orders two known dates part by part. An unknown month or day
// compares equal to anything, so "1950" and "1950-06-01" are equal.
// Unknown dates must be handled by the caller.
func (d Date) Compare(o Date) int {
	if c := d.Year - o.Year; c != 0 {
		return sign(c)
	}
	if d.Month == 0 || o.Month == 0 {
		return 0
	}
	if c := d.Month - o.Month; c != 0 {
		return sign(c)
	}
	if d.Day == 0 || o.Day == 0 {
		return 0
	}
	return sign(d.Day - o.Day)
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}

// MarshalText implements encoding.TextMarshaler so dates read the same in
// JSON, TOML and YAML.
func (d Date) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// UnmarshalJSON accepts both "1950-03" and a bare year number 1950.
func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		return d.UnmarshalText([]byte(s))
	}
	var year int
	if err := json.Unmarshal(b, &year); err != nil {
		return fmt.Errorf("invalid date %s", b)
	}
	*d = Date{Year: year}
	return nil
}

// UnmarshalYAML accepts quoted and unquoted dates, so `birth: 1950` works.
func (d *Date) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: date must be a scalar", value.Line)
	}
	return d.UnmarshalText([]byte(value.Value))
}

// UnmarshalTOML accepts a date string, a bare year integer or a TOML local
// date such as 1950-03-01.
func (d *Date) UnmarshalTOML(v any) error {
	switch v := v.(type) {
	case string:
		return d.UnmarshalText([]byte(v))
	case int64:
		*d = Date{Year: int(v)}
		return nil
	case time.Time:
		*d = Date{Year: v.Year(), Month: int(v.Month()), Day: v.Day()}
		return nil
	}
	return fmt.Errorf("invalid date %v", v)
}
