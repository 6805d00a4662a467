package fhe

import (
	"github.com/google/uuid"
	"github.com/tuneinsight/lattigo/v4/bfv"
	"github.com/tuneinsight/lattigo/v4/rlwe"
)

// KeyPair binds a client key to the server key derived from it. The client
// key is the secret encryption/decryption key and must never leave the
// holder; the server key is the evaluation (relinearization) key handed to
// whoever computes over the ciphertexts. The binding is established here,
// exactly once, and is never re-derived: a server key is only valid for
// ciphertexts produced under its paired client key.
type KeyPair struct {
	Identifier uuid.UUID
	ClientKey  *rlwe.SecretKey
	ServerKey  *rlwe.RelinearizationKey
}

// GenerateKeyPair draws a fresh key pair under the fixed parameter set.
// Randomness comes from the scheme's own CSPRNG; two calls never yield
// related keys. Fails only if the parameter set cannot be constructed.
func GenerateKeyPair() (*KeyPair, error) {
	p, err := Params()
	if err != nil {
		return nil, err
	}

	kgen := bfv.NewKeyGenerator(p)
	sk := kgen.GenSecretKey()
	rlk := kgen.GenRelinearizationKey(sk, 1)

	return &KeyPair{
		Identifier: uuid.New(),
		ClientKey:  sk,
		ServerKey:  rlk,
	}, nil
}
