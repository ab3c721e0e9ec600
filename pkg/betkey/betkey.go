// Package betkey кодирует ключ ставки: фиксированную запись из 56 байт,
// которая однозначно определяет один спин на леджере.
package betkey

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
)

const (
	// AddressSize Размер адреса игрока
	AddressSize = 32
	// Size Полный размер ключа: адрес + ставка + индекс спина + режим
	Size = AddressSize + 8 + 8 + 8

	betOffset   = AddressSize
	indexOffset = betOffset + 8
	modeOffset  = indexOffset + 8
)

// ErrMalformedBetKey длина ключа не равна Size
var ErrMalformedBetKey = errors.New("malformed bet key")

// Key Поля ключа ставки. Значение неизменяемое, передается по значению.
type Key struct {
	Address   [AddressSize]byte
	BetAmount uint64
	SpinIndex uint64
	Mode      uint64
}

// Encode Кодирует ключ в big-endian запись
func (k Key) Encode() [Size]byte {
	var out [Size]byte
	copy(out[:AddressSize], k.Address[:])
	binary.BigEndian.PutUint64(out[betOffset:], k.BetAmount)
	binary.BigEndian.PutUint64(out[indexOffset:], k.SpinIndex)
	binary.BigEndian.PutUint64(out[modeOffset:], k.Mode)
	return out
}

// Bytes То же что Encode, но слайсом
func (k Key) Bytes() []byte {
	b := k.Encode()
	return b[:]
}

// Hex Ключ в hex, используется как идентификатор в логах и в API леджера
func (k Key) Hex() string {
	return hex.EncodeToString(k.Bytes())
}

// Decode Разбирает запись ключа. Любая длина кроме Size - ошибка.
func Decode(b []byte) (Key, error) {
	if len(b) != Size {
		return Key{}, fmt.Errorf("%w: got %d bytes, want %d", ErrMalformedBetKey, len(b), Size)
	}

	var k Key
	copy(k.Address[:], b[:AddressSize])
	k.BetAmount = binary.BigEndian.Uint64(b[betOffset:indexOffset])
	k.SpinIndex = binary.BigEndian.Uint64(b[indexOffset:modeOffset])
	k.Mode = binary.BigEndian.Uint64(b[modeOffset:])
	return k, nil
}

// DecodeHex Разбирает ключ из hex строки
func DecodeHex(s string) (Key, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return Key{}, fmt.Errorf("%w: %v", ErrMalformedBetKey, err)
	}
	return Decode(b)
}
