package game

import (
	"context"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"

	"slot_backend/internal/common"
	"slot_backend/internal/config"
	"slot_backend/internal/ledger"
	"slot_backend/internal/model"
	"slot_backend/internal/repository"
	"slot_backend/internal/service"
)

type serv struct {
	spin      service.SpinService
	ledger    ledger.Ledger
	spinRepo  repository.SpinRepository
	eventRepo repository.EventRepository
	cfg       config.GameConfig

	// игроки, прошедшие INIT
	sessions sync.Map
}

func NewGameService(
	spin service.SpinService,
	l ledger.Ledger,
	spinRepo repository.SpinRepository,
	eventRepo repository.EventRepository,
	cfg config.GameConfig,
) service.GameService {
	return &serv{
		spin:      spin,
		ledger:    l,
		spinRepo:  spinRepo,
		eventRepo: eventRepo,
		cfg:       cfg,
	}
}

// Init Открывает сессию игрока. Пустой contractID означает контракт по умолчанию.
func (s *serv) Init(ctx context.Context, player model.Address, contractID string) (*model.GameInfo, error) {
	if contractID != "" && contractID != s.cfg.ContractID() {
		return nil, fmt.Errorf("unknown contract %q: %w", contractID, common.ErrInvalidRequest)
	}

	info, err := s.gameInfo(ctx)
	if err != nil {
		return nil, err
	}

	s.sessions.Store(player, struct{}{})
	log.WithField("player", player.String()).Info("game session initialized")

	return info, nil
}

func (s *serv) Config(ctx context.Context, player model.Address) (*model.GameInfo, error) {
	if err := s.requireInit(player); err != nil {
		return nil, err
	}
	return s.gameInfo(ctx)
}

// Balance Доступный баланс без ставок, которые еще ждут reveal
func (s *serv) Balance(ctx context.Context, player model.Address) (*model.BalanceInfo, error) {
	if err := s.requireInit(player); err != nil {
		return nil, err
	}
	return s.balance(ctx, player, s.cfg.DefaultMode())
}

// Spin Ставка = paylines * betPerLine в режиме по умолчанию
func (s *serv) Spin(ctx context.Context, player model.Address, req model.PlayRequest) (*model.SpinTicket, error) {
	if err := s.requireInit(player); err != nil {
		return nil, err
	}
	// спин в полете держит ставку, поэтому проверка баланса после него вводила бы в заблуждение
	if err := s.spin.Busy(player); err != nil {
		return nil, err
	}
	if req.Paylines <= 0 || req.Paylines > s.cfg.MaxPaylines() || req.BetPerLine == 0 {
		return nil, fmt.Errorf("paylines %d bet per line %d: %w", req.Paylines, req.BetPerLine, common.ErrInvalidRequest)
	}

	mode := s.cfg.DefaultMode()
	total := uint64(req.Paylines) * req.BetPerLine

	bal, err := s.balance(ctx, player, mode)
	if err != nil {
		return nil, err
	}
	if bal.Available < total {
		return nil, fmt.Errorf("available %d, bet %d: %w", bal.Available, total, common.ErrInsufficientBalance)
	}

	return s.spin.Spin(ctx, model.SpinRequest{
		SpinID:     req.SpinID,
		Player:     player,
		Mode:       mode,
		BetAmount:  total,
		Paylines:   req.Paylines,
		BetPerLine: req.BetPerLine,
	})
}

// Events Забирает накопленные сообщения игрока
func (s *serv) Events(ctx context.Context, player model.Address) ([]model.Event, error) {
	if err := s.requireInit(player); err != nil {
		return nil, err
	}
	return s.eventRepo.Drain(ctx, player, s.cfg.EventBatch())
}

func (s *serv) requireInit(player model.Address) error {
	if _, ok := s.sessions.Load(player); !ok {
		return common.ErrNotInitialized
	}
	return nil
}

func (s *serv) gameInfo(ctx context.Context) (*model.GameInfo, error) {
	params, err := s.ledger.MachineParameters(ctx)
	if err != nil {
		return nil, fmt.Errorf("machine parameters: %w", err)
	}

	mode := s.cfg.DefaultMode()
	costs := params.BetCosts.Get(mode)

	return &model.GameInfo{
		ContractID:  s.cfg.ContractID(),
		Mode:        mode,
		MinBet:      costs.Base,
		MaxBet:      costs.Base + costs.Kicker,
		MaxPaylines: s.cfg.MaxPaylines(),
		RTPTarget:   s.cfg.RTPTarget(),
		HouseEdge:   s.cfg.HouseEdge(),
	}, nil
}

func (s *serv) balance(ctx context.Context, player model.Address, mode model.Mode) (*model.BalanceInfo, error) {
	balance, err := s.ledger.Balance(ctx, player, mode)
	if err != nil {
		return nil, fmt.Errorf("ledger balance: %w", err)
	}
	pending, err := s.spinRepo.PendingBets(ctx, player, mode)
	if err != nil {
		return nil, fmt.Errorf("pending bets: %w", err)
	}

	info := &model.BalanceInfo{Mode: mode, Balance: balance}
	if balance > pending {
		info.Available = balance - pending
	}
	return info, nil
}
