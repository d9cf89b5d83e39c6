package idgen

import (
	"fmt"
	"sync"
	"time"
)

// ============================================================================
// Snowflake ids
// ============================================================================
//
//	0 - 41 bit timestamp - 10 bit worker - 12 bit sequence
//	|   |                  |               |
//	|   |                  |               +-- per-millisecond counter (0-4095)
//	|   |                  +-- worker id (0-1023)
//	|   +-- milliseconds since epoch
//	+-- sign bit, always 0
//
// Used for request ids on the HTTP façade. Session tokens are random uuids
// instead, because snowflake ids are predictable.
//
// ============================================================================

const (
	epoch          = int64(1704067200000) // 2024-01-01 00:00:00 UTC
	workerIDBits   = 10
	sequenceBits   = 12
	maxWorkerID    = -1 ^ (-1 << workerIDBits)
	maxSequence    = -1 ^ (-1 << sequenceBits)
	workerIDShift  = sequenceBits
	timestampShift = sequenceBits + workerIDBits
)

type Snowflake struct {
	mu        sync.Mutex
	timestamp int64
	workerID  int64
	sequence  int64
}

var (
	defaultGenerator *Snowflake
	defaultMu        sync.Mutex
)

// NewSnowflake validates workerID and returns a generator for it.
func NewSnowflake(workerID int64) (*Snowflake, error) {
	if workerID < 0 || workerID > maxWorkerID {
		return nil, fmt.Errorf("worker id must be within 0-%d, got %d", maxWorkerID, workerID)
	}
	return &Snowflake{workerID: workerID}, nil
}

// Init replaces the package generator. Call once from main.
func Init(workerID int64) error {
	s, err := NewSnowflake(workerID)
	if err != nil {
		return err
	}
	defaultMu.Lock()
	defaultGenerator = s
	defaultMu.Unlock()
	return nil
}

// NextID draws from the package generator, creating one for worker 1 if Init
// was never called.
func NextID() int64 {
	defaultMu.Lock()
	if defaultGenerator == nil {
		defaultGenerator = &Snowflake{workerID: 1}
	}
	g := defaultGenerator
	defaultMu.Unlock()
	return g.Generate()
}

func (s *Snowflake) Generate() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UnixMilli()

	if now == s.timestamp {
		s.sequence = (s.sequence + 1) & maxSequence
		if s.sequence == 0 {
			// sequence exhausted, wait for the next millisecond
			for now <= s.timestamp {
				now = time.Now().UnixMilli()
			}
		}
	} else {
		s.sequence = 0
	}

	s.timestamp = now

	return ((now - epoch) << timestampShift) |
		(s.workerID << workerIDShift) |
		s.sequence
}

// GenerateRequestID formats an id as REQ + yyyyMMddHHmmss + 8 digits,
// e.g. REQ2024011514305212345678.
func GenerateRequestID() string {
	id := NextID()
	timestamp := time.Now().Format("20060102150405")
	return fmt.Sprintf("REQ%s%08d", timestamp, id%100000000)
}
