package cache

import (
	"context"
	"time"

	"github.com/tkilaker/magazine/internal/logger"
	"github.com/tkilaker/magazine/internal/magazine"
)

// Store is a single persistent slot holding at most one Record
type Store interface {
	// Load returns the stored record, or nil if there is none or it cannot
	// be read.
	Load(ctx context.Context) *Record
	// Save overwrites the slot with p stamped with the current time.
	Save(ctx context.Context, p *magazine.Payload) error
}

// Clock returns the current time
type Clock func() time.Time

// decodeOrNil turns raw slot contents into a record, logging and dropping
// anything unreadable.
func decodeOrNil(raw []byte, backend, key string) *Record {
	rec, err := Decode(raw)
	if err != nil {
		logger.Log.WithFields(logger.Fields{
			"backend": backend,
			"key":     key,
		}).Warnf("Discarding unreadable cache record: %v", err)
		return nil
	}
	return rec
}
