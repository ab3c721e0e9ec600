package config

import (
	"errors"
	"io/fs"
	"time"

	"github.com/joho/godotenv"

	"slot_backend/internal/model"
)

// Load Подгружает .env в окружение. Отсутствие файла не ошибка, переменные могут прийти из окружения.
func Load(path string) error {
	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

type AppConfig interface {
	Env() string
	LogLevel() string
	Storage() string
}

type HTTPConfig interface {
	Address() string
	AllowedOrigins() []string
	ShutdownTimeout() time.Duration
}

type PGConfig interface {
	DSN() string
	MaxConns() int32
	MinConns() int32
}

type JWTConfig interface {
	AccessTokenSecretKey() []byte
	AccessTokenDuration() time.Duration
}

type SpinConfig interface {
	MinSpinInterval() time.Duration
	PollInterval() time.Duration
	PollAttempts() uint
	RevealInterval() time.Duration
	RevealAttempts() uint
	PayoutTolerance() uint64
	MaxChainedSpins() int
	Workers() int
	QueueSize() int
	SessionIdleTTL() time.Duration
}

type LedgerConfig interface {
	Mode() string
	GatewayURL() string
	RequestTimeout() time.Duration
	ParamsFile() string
	RoundInterval() time.Duration
	JackpotContribution() uint64
	StartingCredits() uint64
}

type GameConfig interface {
	ContractID() string
	DefaultMode() model.Mode
	MaxPaylines() int
	RTPTarget() float64
	HouseEdge() float64
	EventBatch() int
}

type JobsConfig interface {
	ResumeSpec() string
	PruneSpec() string
}
