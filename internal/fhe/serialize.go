package fhe

import (
	"fmt"
	"sync"

	"github.com/pkg/errors"
	"github.com/tuneinsight/lattigo/v4/bfv"
	"github.com/tuneinsight/lattigo/v4/rlwe"
)

// DeserializationError reports bytes that do not carry the requested object:
// truncation, corruption, or a blob of the wrong kind (the canonical binary
// form carries no type tag, so the caller names the expected type and a
// mismatch must fail here rather than yield garbage key state).
type DeserializationError struct {
	Type string
	Err  error
}

func (e *DeserializationError) Error() string {
	return fmt.Sprintf("fhe: cannot deserialize %s: %v", e.Type, e.Err)
}

func (e *DeserializationError) Unwrap() error { return e.Err }

// BinaryPayload is satisfied by every lattigo key and ciphertext type.
type BinaryPayload interface {
	MarshalBinary() ([]byte, error)
}

// Marshal renders a key or ciphertext in its canonical binary form. The
// encoding is versionless and matches the scheme's in-memory layout; blobs
// are immutable once produced.
func Marshal(payload BinaryPayload) ([]byte, error) {
	data, err := payload.MarshalBinary()
	if err != nil {
		return nil, errors.Wrap(err, "marshal binary")
	}
	return data, nil
}

// Exact blob sizes are fixed by the parameter set, which makes wrong-kind
// blobs detectable up front even though the encoding is untagged.
var (
	sizeOnce      sync.Once
	clientKeySize int
	serverKeySize int
	sizeErr       error
)

func keySizes() (int, int, error) {
	sizeOnce.Do(func() {
		var p bfv.Parameters
		if p, sizeErr = Params(); sizeErr != nil {
			return
		}
		skRef, err := rlwe.NewSecretKey(p.Parameters).MarshalBinary()
		if err != nil {
			sizeErr = errors.Wrap(err, "reference client key size")
			return
		}
		rlkRef, err := rlwe.NewRelinearizationKey(p.Parameters, 1).MarshalBinary()
		if err != nil {
			sizeErr = errors.Wrap(err, "reference server key size")
			return
		}
		clientKeySize, serverKeySize = len(skRef), len(rlkRef)
	})
	return clientKeySize, serverKeySize, sizeErr
}

// UnmarshalClientKey is the type-directed inverse of Marshal for client
// keys. Feeding it a server-key or ciphertext blob fails loudly.
func UnmarshalClientKey(data []byte) (*rlwe.SecretKey, error) {
	want, _, err := keySizes()
	if err != nil {
		return nil, err
	}
	if len(data) != want {
		return nil, &DeserializationError{
			Type: "client key",
			Err:  fmt.Errorf("blob is %d bytes, client key is %d", len(data), want),
		}
	}
	sk := new(rlwe.SecretKey)
	if err := sk.UnmarshalBinary(data); err != nil {
		return nil, &DeserializationError{Type: "client key", Err: err}
	}
	return sk, nil
}

// UnmarshalServerKey is the type-directed inverse of Marshal for server
// (relinearization) keys.
func UnmarshalServerKey(data []byte) (*rlwe.RelinearizationKey, error) {
	_, want, err := keySizes()
	if err != nil {
		return nil, err
	}
	if len(data) != want {
		return nil, &DeserializationError{
			Type: "server key",
			Err:  fmt.Errorf("blob is %d bytes, server key is %d", len(data), want),
		}
	}
	rlk := new(rlwe.RelinearizationKey)
	if err := rlk.UnmarshalBinary(data); err != nil {
		return nil, &DeserializationError{Type: "server key", Err: err}
	}
	return rlk, nil
}

// LoadClientKey reconstructs a client key from its serialized form so a
// later process can encrypt under a key it did not generate.
func LoadClientKey(data []byte) (*rlwe.SecretKey, error) {
	return UnmarshalClientKey(data)
}

func unmarshalCiphertext(data []byte, typ string) (*rlwe.Ciphertext, error) {
	p, err := Params()
	if err != nil {
		return nil, err
	}
	ct := bfv.NewCiphertext(p, 1, p.MaxLevel())
	if err := ct.UnmarshalBinary(data); err != nil {
		return nil, &DeserializationError{Type: typ, Err: err}
	}
	return ct, nil
}

// UnmarshalCiphertext8 reconstructs a ciphertext of an 8-bit plaintext. The
// width is the caller's assertion; it is not recorded in the blob.
func UnmarshalCiphertext8(data []byte) (*Ciphertext8, error) {
	ct, err := unmarshalCiphertext(data, "8-bit ciphertext")
	if err != nil {
		return nil, err
	}
	return &Ciphertext8{Value: ct}, nil
}

// UnmarshalCiphertext32 reconstructs a ciphertext of a 32-bit plaintext.
func UnmarshalCiphertext32(data []byte) (*Ciphertext32, error) {
	ct, err := unmarshalCiphertext(data, "32-bit ciphertext")
	if err != nil {
		return nil, err
	}
	return &Ciphertext32{Value: ct}, nil
}
