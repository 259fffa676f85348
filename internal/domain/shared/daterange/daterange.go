package daterange

import (
	"errors"
	"strings"
	"time"
)

const Layout = "2006-01-02"

var (
	ErrInvalidRange = errors.New("daterange: checkout must be after checkin")
	ErrInvalidDate  = errors.New("daterange: date must be YYYY-MM-DD")
)

// Date is a calendar day without a time-of-day component. The zero value means
// "absent". Its string form is YYYY-MM-DD, so lexical and chronological order agree.
type Date struct {
	t time.Time
}

func Parse(value string) (Date, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return Date{}, ErrInvalidDate
	}
	// upstream occasionally sends full timestamps; only the day part matters
	if len(value) > len(Layout) && (value[len(Layout)] == 'T' || value[len(Layout)] == ' ') {
		value = value[:len(Layout)]
	}
	t, err := time.Parse(Layout, value)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{t: t}, nil
}

func MustParse(value string) Date {
	d, err := Parse(value)
	if err != nil {
		panic(err)
	}
	return d
}

// Of truncates t to its calendar day in t's own location.
func Of(t time.Time) Date {
	y, m, d := t.Date()
	return Date{t: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func Today(now func() time.Time) Date {
	if now == nil {
		now = time.Now
	}
	return Of(now())
}

func (d Date) IsZero() bool { return d.t.IsZero() }

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(Layout)
}

func (d Date) Time() time.Time { return d.t }

func (d Date) AddDays(n int) Date {
	if d.IsZero() {
		return d
	}
	return Date{t: d.t.AddDate(0, 0, n)}
}

func (d Date) Weekday() time.Weekday { return d.t.Weekday() }

func (d Date) Day() int { return d.t.Day() }

// StartOfMonth and EndOfMonth bound the month containing d, both inclusive.
func (d Date) StartOfMonth() Date {
	y, m, _ := d.t.Date()
	return Date{t: time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)}
}

func (d Date) EndOfMonth() Date {
	return Date{t: d.StartOfMonth().t.AddDate(0, 1, -1)}
}

func (d Date) Before(other Date) bool { return d.t.Before(other.t) }

func (d Date) After(other Date) bool { return d.t.After(other.t) }

func (d Date) Equal(other Date) bool { return d.t.Equal(other.t) }

func (d Date) Compare(other Date) int { return d.t.Compare(other.t) }

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(data []byte) error {
	if len(data) == 0 {
		*d = Date{}
		return nil
	}
	parsed, err := Parse(string(data))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// DateRange represents a half-open interval [checkIn, checkOut)
type DateRange struct {
	CheckIn  Date
	CheckOut Date
}

func New(checkIn, checkOut Date) (DateRange, error) {
	dr := DateRange{CheckIn: checkIn, CheckOut: checkOut}
	if err := dr.Validate(); err != nil {
		return DateRange{}, err
	}
	return dr, nil
}

func (dr DateRange) Validate() error {
	if dr.CheckOut.IsZero() || dr.CheckIn.IsZero() {
		return ErrInvalidRange
	}
	if !dr.CheckOut.After(dr.CheckIn) {
		return ErrInvalidRange
	}
	return nil
}

func (dr DateRange) Nights() int {
	if dr.CheckIn.IsZero() || dr.CheckOut.IsZero() {
		return 0
	}
	return int(dr.CheckOut.t.Sub(dr.CheckIn.t).Hours() / 24)
}

func (dr DateRange) Overlaps(other DateRange) bool {
	return dr.CheckIn.Before(other.CheckOut) && other.CheckIn.Before(dr.CheckOut)
}

// ContainsDate reports checkIn <= d < checkOut. A range with a missing bound
// contains nothing.
func (dr DateRange) ContainsDate(d Date) bool {
	if dr.CheckIn.IsZero() || dr.CheckOut.IsZero() || d.IsZero() {
		return false
	}
	return !d.Before(dr.CheckIn) && d.Before(dr.CheckOut)
}

// Days lists every date in the range, checkOut excluded.
func (dr DateRange) Days() []Date {
	n := dr.Nights()
	if n <= 0 {
		return nil
	}
	out := make([]Date, 0, n)
	for d := dr.CheckIn; d.Before(dr.CheckOut); d = d.AddDays(1) {
		out = append(out, d)
	}
	return out
}
