// Package seedrng выдает детерминированный поток байт из 32-байтного сида.
// Хэш SHA-512/256 совпадает с опкодом, которым пользуется контракт леджера.
package seedrng

import (
	"crypto/sha512"
	"encoding/binary"
)

// SeedSize Размер сида
const SeedSize = 32

// Derive Возвращает SHA-512/256(seed || be64(index))
func Derive(seed [SeedSize]byte, index uint64) [SeedSize]byte {
	var msg [SeedSize + 8]byte
	copy(msg[:SeedSize], seed[:])
	binary.BigEndian.PutUint64(msg[SeedSize:], index)
	return sha512.Sum512_256(msg[:])
}

// Stream Поток байт. Блок k = Derive(seed, k), байты блока отдаются по порядку,
// после исчерпания блока вычисляется следующий. Поток не ограничен.
type Stream struct {
	seed  [SeedSize]byte
	block uint64
	pos   int
	buf   [SeedSize]byte
}

// New Создает поток с начала (блок 0)
func New(seed [SeedSize]byte) *Stream {
	return NewAt(seed, 0)
}

// NewAt Создает поток начиная с указанной позиции в байтах
func NewAt(seed [SeedSize]byte, cursor uint64) *Stream {
	s := &Stream{
		seed:  seed,
		block: cursor / SeedSize,
		pos:   int(cursor % SeedSize),
	}
	s.buf = Derive(s.seed, s.block)
	return s
}

// Next Следующий байт
func (s *Stream) Next() byte {
	if s.pos >= SeedSize {
		s.block++
		s.pos = 0
		s.buf = Derive(s.seed, s.block)
	}

	b := s.buf[s.pos]
	s.pos++
	return b
}

// NextUint16 Следующие два байта как big-endian uint16
func (s *Stream) NextUint16() uint16 {
	hi := s.Next()
	lo := s.Next()
	return uint16(hi)<<8 | uint16(lo)
}
