package model

import "fmt"

const (
	// Reels Барабаны
	Reels = 5
	// Rows Строки на барабане
	Rows = 3
	// MaxMatch Максимальная длина совпадения
	MaxMatch = Reels
)

// Symbol Идентификатор символа (4 бита)
type Symbol uint8

// Символы: 0..9 платящие, 10..12 вайлды трех уровней, 13 джекпот, 14 бонус.
// 15 зарезервирован и никогда не выпадает.
const (
	Buffalo Symbol = iota
	Eagle
	Cougar
	Wolf
	Elk
	Ace
	King
	Queen
	Jack
	Ten
	Wild
	Wild2x
	Wild3x
	Jackpot
	Bonus
	Reserved

	// NumSymbols Всего значений символа
	NumSymbols = 16
	// NumPaying Количество платящих символов
	NumPaying = 10
)

var symbolNames = [NumSymbols]string{
	"buffalo", "eagle", "cougar", "wolf", "elk",
	"ace", "king", "queen", "jack", "ten",
	"wild", "wild2x", "wild3x", "jackpot", "bonus", "reserved",
}

func (s Symbol) String() string {
	if int(s) < len(symbolNames) {
		return symbolNames[s]
	}
	return fmt.Sprintf("symbol(%d)", uint8(s))
}

// ParseSymbol Символ по имени
func ParseSymbol(name string) (Symbol, error) {
	for i, n := range symbolNames {
		if n == name {
			return Symbol(i), nil
		}
	}
	return 0, fmt.Errorf("unknown symbol %q", name)
}

// IsPaying Платящий символ
func (s Symbol) IsPaying() bool {
	return s < NumPaying
}

// IsWild Любой из трех вайлдов
func (s Symbol) IsWild() bool {
	return s == Wild || s == Wild2x || s == Wild3x
}

// WildMultiplier Множитель вайлда, 0 для остальных символов
func (s Symbol) WildMultiplier() uint64 {
	switch s {
	case Wild:
		return 1
	case Wild2x:
		return 2
	case Wild3x:
		return 3
	}
	return 0
}

// Grid Игровое поле: Grid[reel][row]
type Grid [Reels][Rows]Symbol

// Count Сколько раз символ встречается на всем поле
func (g Grid) Count(s Symbol) int {
	n := 0
	for r := 0; r < Reels; r++ {
		for row := 0; row < Rows; row++ {
			if g[r][row] == s {
				n++
			}
		}
	}
	return n
}

// Names Поле в виде имен символов
func (g Grid) Names() [Reels][Rows]string {
	var out [Reels][Rows]string
	for r := 0; r < Reels; r++ {
		for row := 0; row < Rows; row++ {
			out[r][row] = g[r][row].String()
		}
	}
	return out
}
