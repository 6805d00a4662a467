// Package hexcodec is the reversible byte/text transform used for key
// material at rest. Encoding never fails; decoding tolerates surrounding
// whitespace (a trailing newline from a text editor must not corrupt a key).
package hexcodec

import (
	"encoding/hex"
	"strings"

	"github.com/pkg/errors"
)

// ErrMalformedEncoding reports text that is not valid hex: characters
// outside the hex alphabet or an odd number of digits.
var ErrMalformedEncoding = errors.New("malformed hex encoding")

// Encode returns the lowercase hex representation of data. Total: it
// succeeds for every input, including the empty slice.
func Encode(data []byte) string {
	return hex.EncodeToString(data)
}

// Decode is the inverse of Encode. Decode(Encode(b)) == b for all b.
// Upper- and lowercase digits are both accepted.
func Decode(text string) ([]byte, error) {
	trimmed := strings.TrimSpace(text)
	if len(trimmed)%2 != 0 {
		return nil, errors.Wrapf(ErrMalformedEncoding, "odd number of digits (%d)", len(trimmed))
	}
	data, err := hex.DecodeString(trimmed)
	if err != nil {
		return nil, errors.Wrap(ErrMalformedEncoding, err.Error())
	}
	return data, nil
}
