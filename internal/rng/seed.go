package rng

import (
	"encoding/binary"

	"golang.org/x/crypto/blake2b"
)

// Domain separators so a segment's own seed can never collide with one of
// its floors' seeds.
const (
	domainFloor   = 0x01
	domainSegment = 0x02
)

// DeriveFloorSeed mixes a zone seed with a segment and floor index into the
// seed for that floor's random source. The mix is a fixed blake2b hash so
// the result is stable across platforms and independent of the order in
// which floors are generated.
func DeriveFloorSeed(zoneSeed int64, segment, floor int) int64 {
	return derive(domainFloor, zoneSeed, int64(segment), int64(floor))
}

// DeriveSegmentSeed derives the seed for a segment's zone-level random
// source. It is independent of every floor seed in the segment.
func DeriveSegmentSeed(zoneSeed int64, segment int) int64 {
	return derive(domainSegment, zoneSeed, int64(segment), 0)
}

func derive(domain byte, a, b, c int64) int64 {
	var buf [25]byte
	buf[0] = domain
	binary.LittleEndian.PutUint64(buf[1:], uint64(a))
	binary.LittleEndian.PutUint64(buf[9:], uint64(b))
	binary.LittleEndian.PutUint64(buf[17:], uint64(c))

	sum := blake2b.Sum256(buf[:])
	return int64(binary.LittleEndian.Uint64(sum[:8]))
}
