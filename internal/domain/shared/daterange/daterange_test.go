package daterange

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "plain date", input: "2024-10-14", want: "2024-10-14"},
		{name: "timestamp is truncated", input: "2024-10-14T15:04:05Z", want: "2024-10-14"},
		{name: "surrounding spaces", input: " 2024-02-29 ", want: "2024-02-29"},
		{name: "empty", input: "", wantErr: true},
		{name: "garbage", input: "14/10/2024", wantErr: true},
		{name: "impossible day", input: "2023-02-29", wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Parse(tc.input)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidDate)
				assert.True(t, got.IsZero())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got.String())
		})
	}
}

func TestDateArithmetic(t *testing.T) {
	d := MustParse("2024-02-28")
	assert.Equal(t, "2024-02-29", d.AddDays(1).String())
	assert.Equal(t, "2024-03-01", d.AddDays(2).String())
	assert.Equal(t, "2024-02-01", d.StartOfMonth().String())
	assert.Equal(t, "2024-02-29", d.EndOfMonth().String())
	assert.Equal(t, time.Wednesday, d.Weekday())
	assert.True(t, Date{}.AddDays(3).IsZero())
}

func TestOf(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*3600)
	ts := time.Date(2024, 10, 15, 1, 30, 0, 0, loc)
	assert.Equal(t, "2024-10-15", Of(ts).String())
}

func TestDateText(t *testing.T) {
	var d Date
	require.NoError(t, d.UnmarshalText([]byte("2024-10-17")))
	out, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "2024-10-17", string(out))

	require.NoError(t, d.UnmarshalText(nil))
	assert.True(t, d.IsZero())
}

func TestDateRange(t *testing.T) {
	dr, err := New(MustParse("2024-10-14"), MustParse("2024-10-17"))
	require.NoError(t, err)

	assert.Equal(t, 3, dr.Nights())
	assert.True(t, dr.ContainsDate(MustParse("2024-10-14")))
	assert.True(t, dr.ContainsDate(MustParse("2024-10-16")))
	assert.False(t, dr.ContainsDate(MustParse("2024-10-17")))
	assert.False(t, dr.ContainsDate(MustParse("2024-10-13")))

	days := dr.Days()
	require.Len(t, days, 3)
	assert.Equal(t, "2024-10-16", days[2].String())

	other := DateRange{CheckIn: MustParse("2024-10-17"), CheckOut: MustParse("2024-10-18")}
	assert.False(t, dr.Overlaps(other), "touching ranges do not overlap")
	other.CheckIn = MustParse("2024-10-16")
	assert.True(t, dr.Overlaps(other))
}

func TestDateRangeInvalid(t *testing.T) {
	d := MustParse("2024-10-14")
	_, err := New(d, d)
	assert.ErrorIs(t, err, ErrInvalidRange)
	_, err = New(d, Date{})
	assert.ErrorIs(t, err, ErrInvalidRange)

	zero := DateRange{CheckIn: d, CheckOut: d}
	assert.False(t, zero.ContainsDate(d))
	assert.Empty(t, zero.Days())

	missing := DateRange{CheckIn: d}
	assert.False(t, missing.ContainsDate(d))
}
