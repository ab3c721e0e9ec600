package model

// ErrorCode Код ошибки протокола презентации
type ErrorCode string

const (
	CodeNotInitialized      ErrorCode = "NOT_INITIALIZED"
	CodeInsufficientBalance ErrorCode = "INSUFFICIENT_BALANCE"
	CodeInvalidRequest      ErrorCode = "INVALID_REQUEST"
	CodeRateLimit           ErrorCode = "RATE_LIMIT"
	CodeAlreadySpinning     ErrorCode = "ALREADY_SPINNING"
	CodeSpinFailed          ErrorCode = "SPIN_FAILED"
	CodeNetworkError        ErrorCode = "NETWORK_ERROR"
	CodeUnauthorizedOrigin  ErrorCode = "UNAUTHORIZED_ORIGIN"
)

// EventKind Тип асинхронного события для игрока
type EventKind string

const (
	EventOutcome EventKind = "outcome"
	EventBalance EventKind = "balance"
	EventError   EventKind = "error"
)

// Event Событие, которое уходит в очередь сообщений игрока
type Event struct {
	Kind   EventKind
	Player Address
	SpinID string

	// EventOutcome
	Outcome    *SpinOutcome
	Mode       Mode
	Paylines   int
	BetPerLine uint64
	TotalBet   uint64

	// EventBalance
	Balance          uint64
	AvailableBalance uint64

	// EventError
	Code        ErrorCode
	Message     string
	Recoverable bool
}
