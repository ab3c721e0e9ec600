package converter

import (
	"slot_backend/internal/api/dto/game"
	"slot_backend/internal/common"
	"slot_backend/internal/model"
)

// Пороги уровня выигрыша в кратных ставки
const (
	mediumWinRatio = 5
	bigWinRatio    = 20
)

func ToPlayRequest(req game.Request) model.PlayRequest {
	return model.PlayRequest{
		SpinID:     req.SpinID,
		Paylines:   req.Paylines,
		BetPerLine: req.BetPerLine,
	}
}

func ToSpinSubmitted(t model.SpinTicket) game.SpinSubmitted {
	return game.SpinSubmitted{
		Type:   game.TypeSpinSubmitted,
		SpinID: t.SpinID,
		TxID:   t.TxID,
	}
}

func ToConfig(info model.GameInfo) game.Config {
	return game.Config{
		Type:        game.TypeConfig,
		ContractID:  info.ContractID,
		MinBet:      info.MinBet,
		MaxBet:      info.MaxBet,
		MaxPaylines: info.MaxPaylines,
		RTPTarget:   info.RTPTarget,
		HouseEdge:   info.HouseEdge,
	}
}

func ToBalanceResponse(b model.BalanceInfo) game.Balance {
	return game.Balance{
		Type:             game.TypeBalanceResponse,
		Balance:          b.Balance,
		AvailableBalance: b.Available,
	}
}

// ToError Ошибка сервиса в сообщение ERROR
func ToError(err error, requestID string) game.Error {
	code, recoverable := common.Classify(err)
	return game.Error{
		Type:        game.TypeError,
		Code:        string(code),
		Message:     err.Error(),
		Recoverable: recoverable,
		RequestID:   requestID,
	}
}

// ToEvent Событие из очереди игрока в сообщение протокола
func ToEvent(ev model.Event) any {
	switch ev.Kind {
	case model.EventOutcome:
		return ToOutcome(ev)
	case model.EventBalance:
		return game.Balance{
			Type:             game.TypeBalanceUpdate,
			Balance:          ev.Balance,
			AvailableBalance: ev.AvailableBalance,
		}
	default:
		return game.Error{
			Type:        game.TypeError,
			Code:        string(ev.Code),
			Message:     ev.Message,
			Recoverable: ev.Recoverable,
		}
	}
}

func ToEvents(events []model.Event) game.Events {
	out := game.Events{Events: make([]any, len(events))}
	for i, ev := range events {
		out.Events[i] = ToEvent(ev)
	}
	return out
}

func ToOutcome(ev model.Event) game.Outcome {
	res := game.Outcome{
		Type:         game.TypeOutcome,
		SpinID:       ev.SpinID,
		BetPerLine:   ev.BetPerLine,
		Paylines:     ev.Paylines,
		TotalBet:     ev.TotalBet,
		WinningLines: []game.WinningLine{},
		WinLevel:     WinLevel(0, ev.TotalBet, false),
	}
	out := ev.Outcome
	if out == nil {
		return res
	}

	res.Grid = out.Grid.Names()
	res.Winnings = out.ExpectedPayout
	res.IsWin = out.ExpectedPayout > 0
	res.WinningLines = toWinningLines(out.WaysWins)

	// бонусные спины идут с нулевой ставкой, уровень считаем от исходной ставки
	bet := ev.TotalBet
	if bet == 0 {
		bet = uint64(ev.Paylines) * ev.BetPerLine
	}
	res.WinLevel = WinLevel(out.ExpectedPayout, bet, out.JackpotHit)

	return res
}

func toWinningLines(wins []model.WaysWin) []game.WinningLine {
	result := make([]game.WinningLine, 0, len(wins))
	for i, w := range wins {
		if w.Payout == 0 {
			continue
		}
		result = append(result, game.WinningLine{
			PaylineIndex: i,
			Symbol:       w.Symbol.String(),
			MatchCount:   w.MatchLength,
			Payout:       w.Payout,
		})
	}
	return result
}

// WinLevel Уровень выигрыша по отношению выигрыша к ставке
func WinLevel(winnings, totalBet uint64, jackpot bool) string {
	switch {
	case jackpot:
		return "jackpot"
	case winnings == 0:
		return "none"
	case totalBet == 0 || winnings >= totalBet*bigWinRatio:
		return "big"
	case winnings >= totalBet*mediumWinRatio:
		return "medium"
	default:
		return "small"
	}
}
