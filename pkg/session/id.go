// SPDX-License-Identifier: MPL-2.0

package session

import (
	crand "crypto/rand"
	"math/big"
	mrand "math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
)

// Session id alphabet and length. 24 characters over a 62-symbol alphabet
// give log2(62^24) ≈ 142 bits, comfortably above the 71-bit floor that makes
// collisions negligible across any realistic session count.
const (
	idAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	idLength   = 24
)

// newSessionID generates an opaque session token from the system CSPRNG.
// If the CSPRNG is unavailable it falls back to a freshly seeded
// pseudo-random source and logs the downgrade.
func newSessionID(logger *log.Logger) string {
	buf := make([]byte, idLength)
	max := big.NewInt(int64(len(idAlphabet)))

	for i := range buf {
		n, err := crand.Int(crand.Reader, max)
		if err != nil {
			logger.Warn("secure random source unavailable, falling back to pseudo-random session ids",
				"err", err)
			return pseudoRandomID()
		}
		buf[i] = idAlphabet[n.Int64()]
	}
	return string(buf)
}

var fallbackSeq atomic.Uint64

// pseudoRandomID is the documented fallback: a ChaCha8 generator seeded from
// the clock and a process-wide counter, so consecutive calls in the same
// clock tick still diverge. Weaker than the CSPRNG but never reused.
func pseudoRandomID() string {
	var seed [32]byte
	mix := uint64(time.Now().UnixNano()) + fallbackSeq.Add(1)<<32
	for i := range seed {
		seed[i] = byte(mix >> (uint(i%8) * 8))
		mix += 0x9e3779b97f4a7c15
	}
	rng := mrand.New(mrand.NewChaCha8(seed))

	buf := make([]byte, idLength)
	for i := range buf {
		buf[i] = idAlphabet[rng.IntN(len(idAlphabet))]
	}
	return string(buf)
}
