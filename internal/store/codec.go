package store

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Record is the minimal contract every stored entity satisfies.
type Record interface {
	// RecordID returns the unique, immutable id of the record.
	RecordID() string
}

// StoredValidator lets a record type declare required-field checks that run
// after decode. A record that fails validation is treated as corrupt.
type StoredValidator interface {
	ValidateStored() error
}

// Codec (de)serializes records to the uniform storage representation.
// Decode is strict: unknown fields, trailing data, a missing id or a failed
// ValidateStored all yield ErrCorruptRecord. There is no partial decode.
type Codec[R Record] struct{}

// Encode serializes the record.
func (Codec[R]) Encode(r R) ([]byte, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("encode record %q: %w", r.RecordID(), err)
	}
	return data, nil
}

// Decode reconstructs a record from its stored representation.
func (Codec[R]) Decode(data []byte) (R, error) {
	var r R

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&r); err != nil {
		return r, fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}
	if dec.More() {
		return r, fmt.Errorf("%w: trailing data after record", ErrCorruptRecord)
	}

	if r.RecordID() == "" {
		return r, fmt.Errorf("%w: missing record id", ErrCorruptRecord)
	}
	if v, ok := any(r).(StoredValidator); ok {
		if err := v.ValidateStored(); err != nil {
			return r, fmt.Errorf("%w: %v", ErrCorruptRecord, err)
		}
	}

	return r, nil
}
