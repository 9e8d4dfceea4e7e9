package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantISO string
		wantErr bool
	}{
		{name: "hours and minutes", input: "09:00", wantISO: "09:00:00"},
		{name: "with seconds", input: "17:45:30", wantISO: "17:45:30"},
		{name: "surrounding spaces", input: " 08:15 ", wantISO: "08:15:00"},
		{name: "empty", input: "", wantErr: true},
		{name: "garbage", input: "nine", wantErr: true},
		{name: "hour out of range", input: "25:00", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewTimeStringFromString(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidTimeString)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantISO, got.ISO())
		})
	}
}

func TestTimeString_AddMinutes(t *testing.T) {
	start := MustTimeString("23:30")

	end, err := start.AddMinutes(30)
	require.NoError(t, err)
	assert.Equal(t, 24*3600, end.Seconds())

	_, err = start.AddMinutes(31)
	assert.ErrorIs(t, err, ErrTimeOutOfRange)

	_, err = MustTimeString("00:10").AddMinutes(-11)
	assert.ErrorIs(t, err, ErrTimeOutOfRange)
}

func TestTimeString_Compare(t *testing.T) {
	a := MustTimeString("09:00")
	b := MustTimeString("09:15")

	assert.True(t, a.IsBefore(b))
	assert.True(t, b.IsAfter(a))
	assert.False(t, a.IsAfter(a))
	assert.True(t, a.Equal(MustTimeString("09:00:00")))
}

func TestTimeString_On(t *testing.T) {
	day := time.Date(2024, 3, 10, 18, 30, 0, 0, time.UTC)

	got := MustTimeString("09:45").On(day)

	assert.Equal(t, time.Date(2024, 3, 10, 9, 45, 0, 0, time.UTC), got)
}

func TestTimeString_Format(t *testing.T) {
	ts := MustTimeString("07:05:09")

	assert.Equal(t, "07:05", ts.String())
	assert.Equal(t, "07:05:09", ts.ISO())
}

func TestTimeString_Scan(t *testing.T) {
	var ts TimeString

	require.NoError(t, ts.Scan(time.Date(0, 1, 1, 10, 30, 0, 0, time.UTC)))
	assert.Equal(t, "10:30:00", ts.ISO())

	require.NoError(t, ts.Scan([]byte("11:00:00")))
	assert.Equal(t, "11:00:00", ts.ISO())

	require.NoError(t, ts.Scan("12:15"))
	assert.Equal(t, "12:15:00", ts.ISO())

	assert.Error(t, ts.Scan(42))
}

func TestNullTimeString_Scan(t *testing.T) {
	var n NullTimeString

	require.NoError(t, n.Scan(nil))
	assert.False(t, n.Valid)

	v, err := n.Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	require.NoError(t, n.Scan("18:00:00"))
	assert.True(t, n.Valid)
	assert.Equal(t, "18:00", n.TimeString.String())
}
