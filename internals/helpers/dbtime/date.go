// file: internals/helpers/dbtime/date.go
package dbtime

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// Date: tanggal kalender tanpa jam & zona (kolom DATE).
// Value dikirim sebagai "YYYY-MM-DD" supaya urutan string == urutan tanggal.
type Date struct{ time.Time }

// DateOf: ambil Y/M/D dari t di zona t sendiri.
func DateOf(t time.Time) Date {
	return Date{Time: time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate: terima "YYYY-MM-DD" (strict).
func ParseDate(s string) (Date, error) {
	var d Date
	return d, d.parse(s)
}

func (d *Date) parse(s string) error {
	s = strings.TrimSpace(s)
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return fmt.Errorf("format tanggal harus YYYY-MM-DD: %q", s)
	}
	d.Time = t
	return nil
}

func (d Date) String() string { return d.Format(DateLayout) }

func (d Date) AddDays(n int) Date { return Date{Time: d.Time.AddDate(0, 0, n)} }

func (d Date) Before(o Date) bool { return d.Time.Before(o.Time) }
func (d Date) After(o Date) bool  { return d.Time.After(o.Time) }
func (d Date) Equal(o Date) bool  { return d.Time.Equal(o.Time) }

// IsWeekend: Sabtu / Minggu.
func (d Date) IsWeekend() bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// Scan: terima time.Time, []byte, atau string ("YYYY-MM-DD..." → ambil 10 char pertama).
func (d *Date) Scan(v any) error {
	switch x := v.(type) {
	case time.Time:
		*d = DateOf(x)
		return nil
	case []byte:
		return d.scanString(string(x))
	case string:
		return d.scanString(x)
	case nil:
		d.Time = time.Time{}
		return nil
	default:
		return fmt.Errorf("date: unsupported Scan type %T", v)
	}
}

func (d *Date) scanString(s string) error {
	s = strings.TrimSpace(s)
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	return d.parse(s)
}

// Value: kirim "YYYY-MM-DD" agar Postgres DATE paham.
func (d Date) Value() (driver.Value, error) {
	if d.Time.IsZero() {
		return nil, nil
	}
	return d.String(), nil
}

func (d Date) GormDataType() string { return "date" }

func (d Date) MarshalJSON() ([]byte, error) {
	if d.Time.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		d.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	return d.parse(s)
}

// EachDay: semua tanggal di [from, to] (inklusif). Kosong kalau from > to.
func EachDay(from, to Date) []Date {
	if from.After(to) {
		return nil
	}
	out := make([]Date, 0, int(to.Sub(from.Time).Hours()/24)+1)
	for d := from; !d.After(to); d = d.AddDays(1) {
		out = append(out, d)
	}
	return out
}

// BusinessDays: EachDay minus Sabtu & Minggu.
func BusinessDays(from, to Date) []Date {
	all := EachDay(from, to)
	out := all[:0]
	for _, d := range all {
		if !d.IsWeekend() {
			out = append(out, d)
		}
	}
	return out
}
