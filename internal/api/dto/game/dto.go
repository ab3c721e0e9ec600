package game

// Типы сообщений протокола
const (
	TypeSpinRequest = "SPIN_REQUEST"
	TypeGetBalance  = "GET_BALANCE"
	TypeGetConfig   = "GET_CONFIG"
	TypeInit        = "INIT"

	TypeSpinSubmitted   = "SPIN_SUBMITTED"
	TypeOutcome         = "OUTCOME"
	TypeBalanceUpdate   = "BALANCE_UPDATE"
	TypeBalanceResponse = "BALANCE_RESPONSE"
	TypeConfig          = "CONFIG"
	TypeError           = "ERROR"
)

// Request Входящее сообщение. Поля заполняются в зависимости от type.
type Request struct {
	Type      string `json:"type"`
	RequestID string `json:"requestId,omitempty"`

	// SPIN_REQUEST
	SpinID     string `json:"spinId,omitempty"`
	Paylines   int    `json:"paylines,omitempty"`
	BetPerLine uint64 `json:"betPerLine,omitempty"`

	// INIT
	ContractID string `json:"contractId,omitempty"`
}

type SpinSubmitted struct {
	Type   string `json:"type"`
	SpinID string `json:"spinId"`
	TxID   string `json:"txId,omitempty"`
}

type Outcome struct {
	Type         string        `json:"type"`
	SpinID       string        `json:"spinId"`
	Grid         [5][3]string  `json:"grid"`
	Winnings     uint64        `json:"winnings"`
	IsWin        bool          `json:"isWin"`
	WinningLines []WinningLine `json:"winningLines"`
	WinLevel     string        `json:"winLevel"` // none, small, medium, big, jackpot
	BetPerLine   uint64        `json:"betPerLine"`
	Paylines     int           `json:"paylines"`
	TotalBet     uint64        `json:"totalBet"`
}

// WinningLine Выигрыш символа. PaylineIndex - порядковый номер выигрыша в спине.
type WinningLine struct {
	PaylineIndex int    `json:"paylineIndex"`
	Symbol       string `json:"symbol"`
	MatchCount   int    `json:"matchCount"`
	Payout       uint64 `json:"payout"`
}

// Balance BALANCE_UPDATE или BALANCE_RESPONSE
type Balance struct {
	Type             string `json:"type"`
	Balance          uint64 `json:"balance"`
	AvailableBalance uint64 `json:"availableBalance"`
}

type Config struct {
	Type        string  `json:"type"`
	ContractID  string  `json:"contractId"`
	MinBet      uint64  `json:"minBet"`
	MaxBet      uint64  `json:"maxBet"`
	MaxPaylines int     `json:"maxPaylines"`
	RTPTarget   float64 `json:"rtpTarget"`
	HouseEdge   float64 `json:"houseEdge"`
}

type Error struct {
	Type        string `json:"type"`
	Code        string `json:"code"`
	Message     string `json:"message"`
	Recoverable bool   `json:"recoverable"`
	RequestID   string `json:"requestId,omitempty"`
}

// Events Накопленные асинхронные сообщения игрока
type Events struct {
	Events []any `json:"events"`
}
