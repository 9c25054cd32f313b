// Package entropy picks map seeds when none is configured.
// The chosen seed is logged and stored so the map can be regenerated.
package entropy

import (
	"crypto/rand"
	"encoding/binary"
	"log/slog"
	"time"
)

// Seed returns a positive random int64 from crypto/rand. Falls back to the
// clock if the system source fails.
func Seed() int64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		slog.Debug("crypto/rand failed, seeding from clock", "error", err)
		return clockSeed()
	}
	return positive(int64(binary.LittleEndian.Uint64(buf[:]) >> 1))
}

// Resolve returns seed unchanged unless it is zero, in which case a fresh
// random seed is drawn.
func Resolve(seed int64) int64 {
	if seed != 0 {
		return seed
	}
	return Seed()
}

func clockSeed() int64 {
	return positive(time.Now().UnixNano() & (1<<63 - 1))
}

// positive maps zero to one so a drawn seed never reads as "unset".
func positive(n int64) int64 {
	if n == 0 {
		return 1
	}
	return n
}
