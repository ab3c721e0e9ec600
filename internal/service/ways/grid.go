package ways

import (
	"slot_backend/internal/model"
	servModel "slot_backend/internal/service/ways/model"
	"slot_backend/pkg/seedrng"
)

// GridSeed Сид конкретного поля: hash(seed || spinIndex)
func GridSeed(seed [32]byte, spinIndex uint64) [32]byte {
	return seedrng.Derive(seed, spinIndex)
}

// GenerateGrid Генерирует поле 5x3 из сида раунда и индекса спина.
// Позиции заполняются по барабанам: барабан 0 строки 0-2, барабан 1 строки 0-2 и т.д.
func GenerateGrid(seed [32]byte, spinIndex uint64) model.Grid {
	stream := seedrng.New(GridSeed(seed, spinIndex))

	var grid model.Grid
	for r := 0; r < model.Reels; r++ {
		cdf := servModel.ReelCDF(r)
		for row := 0; row < model.Rows; row++ {
			draw := stream.NextUint16() % servModel.CDFScale
			grid[r][row] = PickSymbol(cdf, draw)
		}
	}
	return grid
}

// PickSymbol Обратная CDF: первый индекс, у которого накопленная масса больше draw.
// Для draw из [0, CDFScale) это то же, что первый индекс с массой >= draw+1, как в контракте.
func PickSymbol(cdf *servModel.CDF, draw uint16) model.Symbol {
	for i, cum := range cdf {
		if cum > draw {
			return model.Symbol(i)
		}
	}
	// draw за пределами шкалы, контракт отдает последний символ
	return model.Symbol(len(cdf) - 1)
}
