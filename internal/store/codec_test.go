package store

import (
	"errors"
	"testing"
)

type strictRecord struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (r strictRecord) RecordID() string { return r.ID }

func (r strictRecord) ValidateStored() error {
	if r.Name == "" {
		return errors.New("name required")
	}
	return nil
}

func TestCodecRoundTrip(t *testing.T) {
	var codec Codec[strictRecord]
	in := strictRecord{ID: "a", Name: "thing"}

	data, err := codec.Encode(in)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	out, err := codec.Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if out != in {
		t.Errorf("round trip changed record: %+v -> %+v", in, out)
	}
}

func TestCodecDecodeCorrupt(t *testing.T) {
	var codec Codec[strictRecord]

	cases := []struct {
		name string
		data string
	}{
		{"malformed json", `{"id":`},
		{"unknown field", `{"id":"a","name":"x","bogus":1}`},
		{"trailing data", `{"id":"a","name":"x"}{"id":"b"}`},
		{"missing id", `{"name":"x"}`},
		{"failed validation", `{"id":"a"}`},
		{"wrong shape", `[1,2,3]`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := codec.Decode([]byte(tc.data)); !errors.Is(err, ErrCorruptRecord) {
				t.Errorf("Decode(%s): got %v, want ErrCorruptRecord", tc.data, err)
			}
		})
	}
}
