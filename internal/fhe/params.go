// Package fhe owns the homomorphic key material lifecycle: generation of a
// bound client/server key pair under one fixed BFV parameter set, the
// canonical binary serialization of keys and ciphertexts, and encryption of
// fixed-width unsigned integers under a client key.
package fhe

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/tuneinsight/lattigo/v4/bfv"
)

// ErrConfiguration reports a failure to construct the scheme parameter set.
// There is no recovery: without parameters no key or ciphertext can exist.
var ErrConfiguration = errors.New("fhe: parameter configuration failed")

var (
	paramsOnce sync.Once
	params     bfv.Parameters
	paramsErr  error
)

// Params returns the fixed BFV parameter set used by every key and
// ciphertext in the system. The plaintext modulus is 65537, so a single
// batching slot holds one 16-bit limb. No configurability is exposed here;
// a key pair is only meaningful under the exact parameters it was born with.
func Params() (bfv.Parameters, error) {
	paramsOnce.Do(func() {
		params, paramsErr = bfv.NewParametersFromLiteral(bfv.PN12QP109)
		if paramsErr != nil {
			paramsErr = errors.Wrap(ErrConfiguration, paramsErr.Error())
		}
	})
	return params, paramsErr
}
