package address

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
)

// Keypair is an ed25519 signing identity. Derived identities never have one.
type Keypair struct {
	Public  Identity
	private ed25519.PrivateKey
}

// GenerateKeypair creates a fresh random keypair.
func GenerateKeypair() (*Keypair, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate keypair: %w", err)
	}
	return newKeypair(pub, priv), nil
}

// KeypairFromSeed rebuilds a keypair from a 32-byte ed25519 seed.
func KeypairFromSeed(seed []byte) (*Keypair, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("invalid seed length %d", len(seed))
	}
	priv := ed25519.NewKeyFromSeed(seed)
	return newKeypair(priv.Public().(ed25519.PublicKey), priv), nil
}

func newKeypair(pub ed25519.PublicKey, priv ed25519.PrivateKey) *Keypair {
	var id Identity
	copy(id[:], pub)
	return &Keypair{Public: id, private: priv}
}

// Sign signs msg with the private key.
func (k *Keypair) Sign(msg []byte) []byte {
	return ed25519.Sign(k.private, msg)
}

// Verify checks an ed25519 signature made by id.
func Verify(id Identity, msg, sig []byte) bool {
	if len(sig) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(id[:]), msg, sig)
}
