// Package model Таблицы автомата: CDF барабанов и таблица выплат по умолчанию.
// CDF должны совпадать с контрактом бит в бит, менять их можно только вместе с контрактом.
package model

import (
	"slot_backend/internal/model"
)

const (
	// CDFScale Сумма масс CDF (базисные пункты)
	CDFScale = 10000

	// BonusTriggerCount Сколько бонус символов запускают бонус
	BonusTriggerCount = 2
	// BonusSpinsAwarded Сколько бонусных спинов дается за срабатывание
	BonusSpinsAwarded = 8
	// BonusMultiplier Множитель выплаты при активном бонусе
	BonusMultiplier = "1.5"

	// JackpotTriggerCount Сколько символов джекпота дают джекпот
	JackpotTriggerCount = 3
)

// CDF Накопленные массы по индексу символа. Символы с нулевой массой повторяют предыдущее значение.
type CDF [model.NumSymbols - 1]uint16

// BaseReelCDF Первый барабан, без вайлдов
var BaseReelCDF = CDF{
	400,   // buffalo
	950,   // eagle
	1650,  // cougar
	2450,  // wolf
	3350,  // elk
	4550,  // ace
	5800,  // king
	7100,  // queen
	8450,  // jack
	9800,  // ten
	9800,  // wild
	9800,  // wild2x
	9800,  // wild3x
	9860,  // jackpot
	10000, // bonus
}

// WildReelCDF Барабаны 2-5, с тремя уровнями вайлдов
var WildReelCDF = CDF{
	380,   // buffalo
	900,   // eagle
	1580,  // cougar
	2360,  // wolf
	3240,  // elk
	4390,  // ace
	5590,  // king
	6840,  // queen
	8140,  // jack
	9440,  // ten
	9740,  // wild
	9860,  // wild2x
	9900,  // wild3x
	9950,  // jackpot
	10000, // bonus
}

// ReelCDF CDF для барабана
func ReelCDF(reel int) *CDF {
	if reel == 0 {
		return &BaseReelCDF
	}
	return &WildReelCDF
}

// DefaultPaytable Таблица выплат в кредитах по длине совпадения
func DefaultPaytable() model.Paytable {
	var p model.Paytable
	set := func(s model.Symbol, three, four, five uint64) {
		p[s][3], p[s][4], p[s][5] = three, four, five
	}
	set(model.Buffalo, 68, 150, 300)
	set(model.Eagle, 50, 120, 250)
	set(model.Cougar, 40, 100, 200)
	set(model.Wolf, 30, 80, 160)
	set(model.Elk, 25, 60, 120)
	set(model.Ace, 10, 25, 50)
	set(model.King, 10, 25, 50)
	set(model.Queen, 5, 15, 40)
	set(model.Jack, 5, 15, 40)
	set(model.Ten, 5, 10, 30)
	return p
}
