package model

// GameInfo Конфигурация игры для клиента
type GameInfo struct {
	ContractID  string
	Mode        Mode
	MinBet      uint64
	MaxBet      uint64
	MaxPaylines int
	RTPTarget   float64
	HouseEdge   float64
}

// BalanceInfo Баланс игрока. Available = Balance - ставки, по которым еще не было reveal.
type BalanceInfo struct {
	Mode      Mode
	Balance   uint64
	Available uint64
}

// PlayRequest Запрос спина от клиента: ставка = paylines * betPerLine
type PlayRequest struct {
	SpinID     string
	Paylines   int
	BetPerLine uint64
}
