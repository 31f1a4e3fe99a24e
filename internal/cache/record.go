// Package cache keeps the single most recent payload with the time it was
// fetched, and decides whether it is still fresh.
package cache

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/tkilaker/magazine/internal/magazine"
)

// DefaultWindow is how long a record stays fresh
const DefaultWindow = time.Hour

// DefaultKey is the slot name the widget stores its record under
const DefaultKey = "magazine"

// Record is a payload plus its fetch time in milliseconds since the epoch
type Record struct {
	Data      *magazine.Payload `json:"data"`
	Timestamp int64             `json:"timestamp"`
}

// NewRecord stamps p with now
func NewRecord(p *magazine.Payload, now time.Time) *Record {
	return &Record{Data: p, Timestamp: now.UnixMilli()}
}

// FetchedAt returns the record timestamp as a time
func (r *Record) FetchedAt() time.Time {
	return time.UnixMilli(r.Timestamp)
}

// IsValid reports whether rec is complete and younger than window at now.
// A record exactly window old is stale.
func IsValid(rec *Record, now time.Time, window time.Duration) bool {
	if rec == nil || rec.Data == nil || rec.Timestamp == 0 {
		return false
	}
	elapsed := now.UnixMilli() - rec.Timestamp
	return elapsed < window.Milliseconds()
}

// Encode serializes a record as JSON text
func Encode(rec *Record) ([]byte, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to encode record: %w", err)
	}
	return data, nil
}

// Decode parses JSON text into a record. Records missing data or timestamp
// are returned as-is; IsValid rejects them.
func Decode(data []byte) (*Record, error) {
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode record: %w", err)
	}
	return &rec, nil
}
