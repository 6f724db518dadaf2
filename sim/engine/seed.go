package engine

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
)

// NewSeed derives a simulator seed from the operating system's entropy
// source. The seed itself is what gets recorded into results, so a run
// can be replayed deterministically with NewSimulator.
func NewSeed() (int64, error) {
	var buf [8]byte
	if _, err := crand.Read(buf[:]); err != nil {
		return 0, fmt.Errorf("failed to read entropy: %v", err)
	}
	return int64(binary.LittleEndian.Uint64(buf[:])), nil
}
