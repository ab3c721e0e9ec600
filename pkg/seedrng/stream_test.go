package seedrng

import (
	"crypto/sha512"
	"encoding/binary"
	"testing"
)

func testSeed(b byte) [SeedSize]byte {
	var s [SeedSize]byte
	for i := range s {
		s[i] = b + byte(i)
	}
	return s
}

func TestDeriveMatchesSHA512_256(t *testing.T) {
	seed := testSeed(3)
	msg := append(seed[:], make([]byte, 8)...)
	binary.BigEndian.PutUint64(msg[SeedSize:], 77)

	want := sha512.Sum512_256(msg)
	if got := Derive(seed, 77); got != want {
		t.Errorf("Derive() = %x, want %x", got, want)
	}
}

func TestStreamDeterministic(t *testing.T) {
	a := New(testSeed(1))
	b := New(testSeed(1))
	for i := 0; i < 200; i++ {
		if x, y := a.Next(), b.Next(); x != y {
			t.Fatalf("byte %d differs: %d vs %d", i, x, y)
		}
	}
}

func TestStreamCrossesBlockBoundary(t *testing.T) {
	seed := testSeed(9)
	s := New(seed)
	for i := 0; i < SeedSize; i++ {
		s.Next()
	}

	second := Derive(seed, 1)
	if got := s.Next(); got != second[0] {
		t.Errorf("first byte of block 1 = %d, want %d", got, second[0])
	}
}

func TestNewAtCursor(t *testing.T) {
	seed := testSeed(5)
	full := New(seed)
	for i := 0; i < 45; i++ {
		full.Next()
	}

	at := NewAt(seed, 45)
	for i := 0; i < 40; i++ {
		if x, y := full.Next(), at.Next(); x != y {
			t.Fatalf("cursor stream diverged at %d", i)
		}
	}
}

func TestNextUint16BigEndian(t *testing.T) {
	seed := testSeed(0)
	block := Derive(seed, 0)
	want := uint16(block[0])<<8 | uint16(block[1])

	if got := New(seed).NextUint16(); got != want {
		t.Errorf("NextUint16() = %d, want %d", got, want)
	}
}
