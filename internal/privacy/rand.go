package privacy

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
)

// CryptoSource implements types.RandSource on top of crypto/rand. The ring
// sampling and DP noise draws are the entire privacy mechanism, so the
// production stream must not be predictable or replayable by an adversary
// observing outputs.
type CryptoSource struct{}

// Float64 returns a uniformly distributed value in [0, 1) with 53 bits of
// precision. crypto/rand.Read is documented to never fail; a failure here
// means the platform's entropy source is broken and continuing would
// silently void every privacy guarantee, so it panics.
func (CryptoSource) Float64() float64 {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(fmt.Sprintf("privacy: entropy source unavailable: %v", err))
	}
	return float64(binary.BigEndian.Uint64(b[:])>>11) / (1 << 53)
}
