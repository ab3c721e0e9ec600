package model

import "fmt"

// Mode Режим оплаты спина. Закрытый набор из четырех значений, нулевое значение недопустимо.
type Mode uint8

const (
	ModeBonus Mode = iota + 1
	ModeCredit
	ModeNetwork
	ModeToken
)

// Modes Все режимы. Тесты проходят по этому списку, чтобы каждый switch покрывал все варианты.
var Modes = [...]Mode{ModeBonus, ModeCredit, ModeNetwork, ModeToken}

func (m Mode) String() string {
	switch m {
	case ModeBonus:
		return "bonus"
	case ModeCredit:
		return "credit"
	case ModeNetwork:
		return "network"
	case ModeToken:
		return "token"
	}
	return fmt.Sprintf("mode(%d)", uint8(m))
}

// Wire Значение режима в ключе ставки и в контракте (0/1/2/4).
// Для credit/network/token оно же бит в маске включенных режимов.
func (m Mode) Wire() uint64 {
	switch m {
	case ModeBonus:
		return 0
	case ModeCredit:
		return 1
	case ModeNetwork:
		return 2
	case ModeToken:
		return 4
	}
	panic(fmt.Sprintf("model: wire value for invalid %s", m))
}

// Valid Режим из закрытого набора
func (m Mode) Valid() bool {
	return m >= ModeBonus && m <= ModeToken
}

// ModeFromWire Режим по значению из контракта
func ModeFromWire(v uint64) (Mode, error) {
	switch v {
	case 0:
		return ModeBonus, nil
	case 1:
		return ModeCredit, nil
	case 2:
		return ModeNetwork, nil
	case 4:
		return ModeToken, nil
	}
	return 0, fmt.Errorf("unknown wire mode %d", v)
}

// ParseMode Режим по имени
func ParseMode(s string) (Mode, error) {
	for _, m := range Modes {
		if m.String() == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown mode %q", s)
}

// PerMode Значение для каждого режима
type PerMode[T any] struct {
	Bonus   T
	Credit  T
	Network T
	Token   T
}

// Get Значение для режима
func (p PerMode[T]) Get(m Mode) T {
	switch m {
	case ModeBonus:
		return p.Bonus
	case ModeCredit:
		return p.Credit
	case ModeNetwork:
		return p.Network
	case ModeToken:
		return p.Token
	}
	var zero T
	return zero
}
