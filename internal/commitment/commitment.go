package commitment

import (
	"bytes"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
)

// domainTag keeps vote commitments from colliding with any other SHA-256
// use in the system.
const domainTag = "minority/v1/vote-commit"

// SaltSize is the number of random bytes NewSalt produces.
const SaltSize = 32

// Compute returns the binding digest for a vote. The digest covers the
// game, the round, the vote and the salt, so a commitment cannot be
// replayed in another round or opened as a different vote.
func Compute(gameID uint64, round int, vote string, salt []byte) []byte {
	h := sha256.New()
	h.Write([]byte(domainTag))

	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], gameID)
	h.Write(buf[:])
	binary.BigEndian.PutUint64(buf[:], uint64(round))
	h.Write(buf[:])

	h.Write([]byte(vote))
	h.Write([]byte{0})
	h.Write(salt)

	return h.Sum(nil)
}

// Verify reports whether digest is exactly the commitment for the given
// vote and salt. The comparison is byte-for-byte.
func Verify(digest []byte, gameID uint64, round int, vote string, salt []byte) bool {
	return bytes.Equal(digest, Compute(gameID, round, vote, salt))
}

// NewSalt generates an unpredictable salt for a commitment.
func NewSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	return salt, nil
}
