package dbtime

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusinessDays_SkipsWeekend(t *testing.T) {
	friday := NewDate(2025, 8, 29)
	monday := NewDate(2025, 9, 1)

	days := BusinessDays(friday, monday)
	require.Len(t, days, 2)
	assert.Equal(t, "2025-08-29", days[0].String())
	assert.Equal(t, "2025-09-01", days[1].String())

	assert.Len(t, EachDay(friday, monday), 4)
	assert.Empty(t, EachDay(monday, friday))
	assert.Empty(t, BusinessDays(NewDate(2025, 8, 30), NewDate(2025, 8, 31)))
}

func TestDate_ScanAndValue(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan("2025-09-01T00:00:00Z"))
	assert.Equal(t, NewDate(2025, 9, 1), d)

	require.NoError(t, d.Scan([]byte("2025-09-02")))
	assert.Equal(t, NewDate(2025, 9, 2), d)

	jkt := time.FixedZone("WIB", 7*3600)
	require.NoError(t, d.Scan(time.Date(2025, 9, 3, 23, 30, 0, 0, jkt)))
	assert.Equal(t, "2025-09-03", d.String())

	assert.Error(t, d.Scan(42))

	v, err := NewDate(2025, 9, 1).Value()
	require.NoError(t, err)
	assert.Equal(t, "2025-09-01", v)

	v, err = Date{}.Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestDate_JSON(t *testing.T) {
	b, err := json.Marshal(struct {
		D Date  `json:"d"`
		P *Date `json:"p"`
	}{D: NewDate(2025, 9, 1)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"d":"2025-09-01","p":null}`, string(b))

	var out struct {
		D Date `json:"d"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"d":"2025-12-31"}`), &out))
	assert.Equal(t, NewDate(2025, 12, 31), out.D)
	assert.Error(t, json.Unmarshal([]byte(`{"d":"31-12-2025"}`), &out))
}

func TestParseDatePtr(t *testing.T) {
	d, err := ParseDatePtr("  ")
	require.NoError(t, err)
	assert.Nil(t, d)

	d, err = ParseDatePtr("2025-02-30")
	assert.Error(t, err)
	assert.Nil(t, d)

	d, err = ParseDatePtr("2025-02-28")
	require.NoError(t, err)
	assert.Equal(t, NewDate(2025, 2, 28), *d)
}

func TestToday_UsesLocation(t *testing.T) {
	east := time.FixedZone("UTC+14", 14*3600)
	west := time.FixedZone("UTC-12", -12*3600)
	// selisih 26 jam → tanggal selalu beda
	assert.NotEqual(t, Today(east), Today(west))
}
