package ways

import (
	"slot_backend/internal/model"
)

// reelMatchCounts Сколько плиток на каждом барабане совпадает с символом или являются вайлдом
func reelMatchCounts(grid *model.Grid, s model.Symbol) (cnt [model.Reels]uint64) {
	for r := 0; r < model.Reels; r++ {
		var k uint64
		for row := 0; row < model.Rows; row++ {
			t := grid[r][row]
			if t == s || t.IsWild() {
				k++
			}
		}
		cnt[r] = k
	}
	return cnt
}

// matchLength Число барабанов подряд слева до первого барабана без совпадений
func matchLength(cnt [model.Reels]uint64) int {
	n := 0
	for r := 0; r < model.Reels; r++ {
		if cnt[r] == 0 {
			break
		}
		n++
	}
	return n
}

// wildMultiplier Максимальный множитель вайлда на барабанах совпадения, 1 если вайлдов нет
func wildMultiplier(grid *model.Grid, length int) uint64 {
	mult := uint64(1)
	for r := 0; r < length; r++ {
		for row := 0; row < model.Rows; row++ {
			if m := grid[r][row].WildMultiplier(); m > mult {
				mult = m
			}
		}
	}
	return mult
}

// EvaluateWays Считает выигрыши ways-to-win по всем платящим символам.
// Возвращает записи с длиной совпадения >= 1 и сумму выплат в кредитах.
func EvaluateWays(grid model.Grid, paytable *model.Paytable) ([]model.WaysWin, uint64) {
	var (
		wins  []model.WaysWin
		total uint64
	)

	for s := model.Symbol(0); s < model.NumPaying; s++ {
		cnt := reelMatchCounts(&grid, s)

		// Символ или вайлд должен быть на первом барабане
		if cnt[0] == 0 {
			continue
		}

		length := matchLength(cnt)
		ways := uint64(1)
		for r := 0; r < length; r++ {
			ways *= cnt[r]
		}
		mult := wildMultiplier(&grid, length)
		payout := paytable.Pay(s, length) * ways * mult

		wins = append(wins, model.WaysWin{
			Symbol:         s,
			MatchLength:    length,
			Ways:           ways,
			WildMultiplier: mult,
			Payout:         payout,
		})
		total += payout
	}

	return wins, total
}
