package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tkilaker/magazine/internal/magazine"
)

func samplePayload() *magazine.Payload {
	return &magazine.Payload{
		Tagline: "Ahoy",
		Articles: []magazine.Article{
			{Title: "T", Author: "A", Category: "C", Pubdate: "2024-01-01", Article: "Body"},
			{Title: "Second", Author: "B", Category: "D", Pubdate: "2024-01-02", Article: "More"},
		},
	}
}

func TestIsValid(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	ms := func(d time.Duration) int64 { return now.Add(-d).UnixMilli() }

	testCases := []struct {
		name string
		rec  *Record
		want bool
	}{
		{"nil record", nil, false},
		{"missing data", &Record{Timestamp: ms(time.Minute)}, false},
		{"missing timestamp", &Record{Data: samplePayload()}, false},
		{"exactly one hour", &Record{Data: samplePayload(), Timestamp: ms(time.Hour)}, false},
		{"two hours", &Record{Data: samplePayload(), Timestamp: ms(2 * time.Hour)}, false},
		{"one millisecond", &Record{Data: samplePayload(), Timestamp: ms(time.Millisecond)}, true},
		{"thirty minutes", &Record{Data: samplePayload(), Timestamp: ms(30 * time.Minute)}, true},
		{"just under an hour", &Record{Data: samplePayload(), Timestamp: ms(time.Hour - time.Millisecond)}, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, IsValid(tc.rec, now, DefaultWindow))
		})
	}
}

func TestIsValidCustomWindow(t *testing.T) {
	now := time.Now()
	rec := NewRecord(samplePayload(), now.Add(-10*time.Minute))
	require.True(t, IsValid(rec, now, 15*time.Minute))
	require.False(t, IsValid(rec, now, 5*time.Minute))
}

func TestDecode(t *testing.T) {
	rec, err := Decode([]byte(`{"data":{"tagline":"Ahoy","articles":[]},"timestamp":1700000000000}`))
	require.NoError(t, err)
	require.Equal(t, "Ahoy", rec.Data.Tagline)
	require.Equal(t, int64(1700000000000), rec.Timestamp)

	rec, err = Decode([]byte(`{"timestamp":1700000000000}`))
	require.NoError(t, err)
	require.False(t, IsValid(rec, time.UnixMilli(1700000000001), DefaultWindow))

	_, err = Decode([]byte(`not json`))
	require.Error(t, err)
}

func TestEncodeFieldNames(t *testing.T) {
	data, err := Encode(&Record{Data: samplePayload(), Timestamp: 42})
	require.NoError(t, err)
	require.Contains(t, string(data), `"data":`)
	require.Contains(t, string(data), `"timestamp":42`)
	require.Contains(t, string(data), `"tagline":"Ahoy"`)
}
