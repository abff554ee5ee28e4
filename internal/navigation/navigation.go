// Package navigation holds the visible sequence shared between the list or
// gallery view that produced it and the detail view that walks it.
package navigation

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

const DefaultKey = "current_list"

// KV is the session-scoped storage the sequence is persisted to.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// DeserializationError reports a stored sequence that could not be decoded.
type DeserializationError struct {
	Raw string
	Err error
}

func (e *DeserializationError) Error() string {
	return fmt.Sprintf("decode visible sequence: %v", e.Err)
}

func (e *DeserializationError) Unwrap() error { return e.Err }

type Store struct {
	kv     KV
	key    string
	logger *zap.Logger
}

func NewStore(kv KV, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{kv: kv, key: DefaultKey, logger: logger}
}

// Publish replaces the stored sequence.
func (s *Store) Publish(ctx context.Context, seq []string) error {
	if seq == nil {
		seq = []string{}
	}
	raw, err := json.Marshal(seq)
	if err != nil {
		return fmt.Errorf("encode visible sequence: %w", err)
	}
	if err := s.kv.Set(ctx, s.key, string(raw)); err != nil {
		return fmt.Errorf("publish visible sequence: %w", err)
	}
	return nil
}

// Read returns the last published sequence. A missing, unreadable, or
// corrupt value is reported as absent.
func (s *Store) Read(ctx context.Context) ([]string, bool) {
	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		s.logger.Warn("read visible sequence", zap.Error(err))
		return nil, false
	}
	if !ok {
		return nil, false
	}
	seq, err := Decode(raw)
	if err != nil {
		s.logger.Debug("discarding stored visible sequence", zap.Error(err))
		return nil, false
	}
	return seq, true
}

func Decode(raw string) ([]string, error) {
	var seq []string
	if err := json.Unmarshal([]byte(raw), &seq); err != nil {
		return nil, &DeserializationError{Raw: raw, Err: err}
	}
	if seq == nil {
		return nil, &DeserializationError{Raw: raw, Err: fmt.Errorf("not a sequence")}
	}
	return seq, nil
}

func Locate(id string, seq []string) (int, bool) {
	for i, v := range seq {
		if v == id {
			return i, true
		}
	}
	return -1, false
}

// OffsetIndex moves delta steps from current in a ring of n elements.
// It returns -1 when n is zero.
func OffsetIndex(n, current, delta int) int {
	if n <= 0 {
		return -1
	}
	i := (current + delta) % n
	if i < 0 {
		i += n
	}
	return i
}

// Offset returns the identifier delta steps away from seq[current], wrapping
// at both ends. Callers must not pass an empty sequence; it yields "".
func Offset(seq []string, current, delta int) string {
	i := OffsetIndex(len(seq), current, delta)
	if i < 0 {
		return ""
	}
	return seq[i]
}
