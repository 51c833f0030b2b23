package taskqueue

import (
	"bytes"
	"encoding/gob"
	"fmt"
)

// Payloads travel as gob-encoded interface values, so their concrete types
// must be registered with gob.Register unless they are builtin.

// EncodeTask gob-encodes a whole Task for backends that store it as one blob.
func EncodeTask(t Task) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(&t); err != nil {
		return nil, fmt.Errorf("taskqueue: encode task %s: %w", t.ID, err)
	}
	return buf.Bytes(), nil
}

// DecodeTask is the inverse of EncodeTask.
func DecodeTask(data []byte) (*Task, error) {
	var t Task
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&t); err != nil {
		return nil, fmt.Errorf("taskqueue: decode task: %w", err)
	}
	return &t, nil
}

// encodePayload encodes only the payload, for backends with a column per
// Task field. A nil payload encodes to nil.
func encodePayload(v any) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(&v); err != nil {
		return nil, fmt.Errorf("taskqueue: encode payload %T: %w", v, err)
	}
	return buf.Bytes(), nil
}

func decodePayload(data []byte) (any, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var v any
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&v); err != nil {
		return nil, fmt.Errorf("taskqueue: decode payload: %w", err)
	}
	return v, nil
}
