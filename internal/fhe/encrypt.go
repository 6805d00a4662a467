package fhe

import (
	"fmt"
	"math"

	"github.com/tuneinsight/lattigo/v4/bfv"
	"github.com/tuneinsight/lattigo/v4/rlwe"
)

// Plaintext values are packed little-endian into 16-bit limbs, one batching
// slot per limb: an 8-bit value occupies one slot, a 32-bit value two.
const (
	limbBits = 16
	limbMask = 1<<limbBits - 1
)

// EncryptionError reports a plaintext outside the declared width's range.
// Values are never clamped or truncated on their way into a ciphertext.
type EncryptionError struct {
	Width int
	Value uint64
}

func (e *EncryptionError) Error() string {
	return fmt.Sprintf("fhe: value %d out of range for %d-bit encryption", e.Value, e.Width)
}

// Ciphertext8 is the encryption of an 8-bit unsigned integer. It carries no
// reference to the key that produced it; tracking that pairing is the
// caller's job.
type Ciphertext8 struct {
	Value *rlwe.Ciphertext
}

// MarshalBinary renders the ciphertext in canonical binary form.
func (c *Ciphertext8) MarshalBinary() ([]byte, error) { return c.Value.MarshalBinary() }

// Ciphertext32 is the encryption of a 32-bit unsigned integer.
type Ciphertext32 struct {
	Value *rlwe.Ciphertext
}

// MarshalBinary renders the ciphertext in canonical binary form.
func (c *Ciphertext32) MarshalBinary() ([]byte, error) { return c.Value.MarshalBinary() }

// Encrypt8 encrypts value under the client key. Encryption is
// probabilistic: the same (key, value) yields different ciphertext bytes on
// every call, by construction of the scheme.
func Encrypt8(ck *rlwe.SecretKey, value uint8) (*Ciphertext8, error) {
	ct, err := encryptLimbs(ck, []uint64{uint64(value)}, 8)
	if err != nil {
		return nil, err
	}
	return &Ciphertext8{Value: ct}, nil
}

// Encrypt32 encrypts value under the client key, split across two 16-bit
// limbs.
func Encrypt32(ck *rlwe.SecretKey, value uint32) (*Ciphertext32, error) {
	limbs := []uint64{uint64(value) & limbMask, uint64(value) >> limbBits}
	ct, err := encryptLimbs(ck, limbs, 32)
	if err != nil {
		return nil, err
	}
	return &Ciphertext32{Value: ct}, nil
}

func encryptLimbs(ck *rlwe.SecretKey, limbs []uint64, width int) (*rlwe.Ciphertext, error) {
	p, err := Params()
	if err != nil {
		return nil, err
	}
	value := uint64(0)
	for i := len(limbs) - 1; i >= 0; i-- {
		value = value<<limbBits | limbs[i]
	}
	for _, limb := range limbs {
		if limb > limbMask {
			return nil, &EncryptionError{Width: width, Value: value}
		}
	}

	pt := bfv.NewPlaintext(p, p.MaxLevel())
	bfv.NewEncoder(p).Encode(limbs, pt)
	return bfv.NewEncryptor(p, ck).EncryptNew(pt), nil
}

// Decrypt8 recovers the 8-bit plaintext of ct under the client key it was
// encrypted with. A mismatched key does not error; it yields noise, which is
// reported here when it falls outside the 8-bit range.
func Decrypt8(ck *rlwe.SecretKey, ct *Ciphertext8) (uint8, error) {
	limbs, err := decryptLimbs(ck, ct.Value)
	if err != nil {
		return 0, err
	}
	if limbs[0] > math.MaxUint8 {
		return 0, fmt.Errorf("fhe: decrypted value %d exceeds 8 bits (wrong key or corrupted ciphertext)", limbs[0])
	}
	return uint8(limbs[0]), nil
}

// Decrypt32 recovers the 32-bit plaintext of ct.
func Decrypt32(ck *rlwe.SecretKey, ct *Ciphertext32) (uint32, error) {
	limbs, err := decryptLimbs(ck, ct.Value)
	if err != nil {
		return 0, err
	}
	return uint32(limbs[0]) | uint32(limbs[1])<<limbBits, nil
}

func decryptLimbs(ck *rlwe.SecretKey, ct *rlwe.Ciphertext) ([]uint64, error) {
	p, err := Params()
	if err != nil {
		return nil, err
	}
	pt := bfv.NewDecryptor(p, ck).DecryptNew(ct)
	return bfv.NewEncoder(p).DecodeUintNew(pt), nil
}
