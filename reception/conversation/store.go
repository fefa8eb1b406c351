package conversation

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	defaultIdleTTL       = 30 * time.Minute
	defaultSweepInterval = 5 * time.Minute
)

// StoreOption customizes a Store.
type StoreOption func(*Store)

func WithIdleTTL(ttl time.Duration) StoreOption {
	return func(s *Store) {
		if ttl > 0 {
			s.idleTTL = ttl
		}
	}
}

func WithSweepInterval(interval time.Duration) StoreOption {
	return func(s *Store) {
		if interval > 0 {
			s.sweepInterval = interval
		}
	}
}

// WithNow overrides the store clock. Test hook.
func WithNow(now func() time.Time) StoreOption {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// Store maps call ids to conversation records. Concurrent calls hit it from
// separate webhook requests, so every access goes through the mutex; records
// for different call ids never share state. Records are evicted explicitly
// when a call terminates, and a background sweep reaps calls that ended
// without a terminal webhook (caller hung up mid-gather).
type Store struct {
	mu      sync.RWMutex
	records map[string]*Record

	idleTTL       time.Duration
	sweepInterval time.Duration
	now           func() time.Time
}

func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		records:       make(map[string]*Record),
		idleTTL:       defaultIdleTTL,
		sweepInterval: defaultSweepInterval,
		now:           time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// GetOrCreate returns the record for callID, creating it on the first
// webhook hit of a call. Idempotent per call id: the caller id of an
// existing record is never overwritten. Every hit refreshes the record's
// liveness stamp, so a call only goes idle when the webhooks stop.
func (s *Store) GetOrCreate(callID, callerID string) *Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec, ok := s.records[callID]; ok {
		rec.touched = s.now()
		return rec
	}
	rec := NewRecord(callerID, s.now())
	s.records[callID] = rec
	return rec
}

// Get returns the record for callID if the call is still live.
func (s *Store) Get(callID string) (*Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[callID]
	return rec, ok
}

// Delete evicts a finished call.
func (s *Store) Delete(callID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, callID)
}

// Len reports the number of live calls.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Sweep evicts records idle longer than the TTL and returns how many went.
func (s *Store) Sweep() int {
	cutoff := s.now().Add(-s.idleTTL)

	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, rec := range s.records {
		if rec.touched.Before(cutoff) {
			delete(s.records, id)
			evicted++
		}
	}
	return evicted
}

// StartSweeper runs the idle sweep until ctx is cancelled.
func (s *Store) StartSweeper(ctx context.Context) {
	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				log.Info().Int("evicted", n).Msg("conversation store: swept idle calls")
			}
		}
	}
}
