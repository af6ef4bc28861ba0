package store

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
)

// A cursor encodes a resumable position in a collection: the insertion
// sequence number and id of the last record a client saw. Sequence numbers
// are never reused, so the position stays stable when earlier records are
// deleted; a raw numeric offset would desynchronize after bulk deletes.
//
// The token is opaque to clients: base64(rawurl) of "<seq>:<id>".

// EncodeCursor builds a pagination token for the given position.
func EncodeCursor(seq uint64, id string) string {
	raw := strconv.FormatUint(seq, 10) + ":" + id
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// DecodeCursor parses a pagination token. It returns ErrInvalidCursor for
// anything that does not round-trip through EncodeCursor.
func DecodeCursor(token string) (seq uint64, id string, err error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return 0, "", fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}

	part, id, ok := strings.Cut(string(raw), ":")
	if !ok || id == "" {
		return 0, "", fmt.Errorf("%w: malformed token", ErrInvalidCursor)
	}

	seq, err = strconv.ParseUint(part, 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("%w: bad sequence", ErrInvalidCursor)
	}

	return seq, id, nil
}
