package betkey

import (
	"bytes"
	"errors"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	var addr [AddressSize]byte
	for i := range addr {
		addr[i] = byte(i * 7)
	}

	tests := []struct {
		name string
		key  Key
	}{
		{name: "zero key", key: Key{}},
		{name: "network spin", key: Key{Address: addr, BetAmount: 1_000_000, SpinIndex: 1, Mode: 2}},
		{name: "max values", key: Key{Address: addr, BetAmount: ^uint64(0), SpinIndex: ^uint64(0), Mode: ^uint64(0)}},
		{name: "bonus spin", key: Key{Address: addr, BetAmount: 0, SpinIndex: 42, Mode: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc := tt.key.Encode()
			got, err := Decode(enc[:])
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if got != tt.key {
				t.Errorf("Decode(Encode(k)) = %+v, want %+v", got, tt.key)
			}

			again := got.Encode()
			if !bytes.Equal(again[:], enc[:]) {
				t.Errorf("Encode(Decode(x)) != x")
			}
		})
	}
}

func TestEncodeLayout(t *testing.T) {
	k := Key{BetAmount: 0x0102030405060708, SpinIndex: 9, Mode: 4}
	k.Address[0] = 0xAA
	k.Address[31] = 0xBB

	enc := k.Encode()
	if enc[0] != 0xAA || enc[31] != 0xBB {
		t.Errorf("address not at offset 0..31")
	}
	if !bytes.Equal(enc[32:40], []byte{1, 2, 3, 4, 5, 6, 7, 8}) {
		t.Errorf("bet amount not big-endian at 32..40: %x", enc[32:40])
	}
	if enc[47] != 9 || enc[55] != 4 {
		t.Errorf("spin index or mode misplaced: %x", enc[40:])
	}
}

func TestDecodeRejectsBadLength(t *testing.T) {
	for _, n := range []int{0, 1, 55, 57, 64, 112} {
		_, err := Decode(make([]byte, n))
		if !errors.Is(err, ErrMalformedBetKey) {
			t.Errorf("Decode(len=%d) error = %v, want ErrMalformedBetKey", n, err)
		}
	}
}

func TestDecodeHex(t *testing.T) {
	k := Key{BetAmount: 5, SpinIndex: 6, Mode: 1}
	got, err := DecodeHex(k.Hex())
	if err != nil {
		t.Fatalf("DecodeHex() error = %v", err)
	}
	if got != k {
		t.Errorf("DecodeHex() = %+v, want %+v", got, k)
	}

	if _, err := DecodeHex("zz"); !errors.Is(err, ErrMalformedBetKey) {
		t.Errorf("DecodeHex(invalid) error = %v, want ErrMalformedBetKey", err)
	}
}
