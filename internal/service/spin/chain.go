package spin

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"slot_backend/internal/model"
)

var errChildFailed = errors.New("bonus spin failed")

// chainState Счетчики цепочки, выведенные из сохраненных бонусных спинов
type chainState struct {
	awarded int
	played  int
	active  *model.SpinRecord
	failed  *model.SpinRecord
	total   int
}

func (s *serv) loadChain(ctx context.Context, root *model.SpinRecord) (chainState, error) {
	children, err := s.spinRepo.ListChildren(ctx, root.ID)
	if err != nil {
		return chainState{}, err
	}

	cs := chainState{
		awarded: root.Outcome.BonusSpinsAwarded,
		total:   len(children),
	}
	for _, c := range children {
		switch c.State {
		case model.StateSettled:
			cs.played++
			if c.Outcome != nil {
				cs.awarded += c.Outcome.BonusSpinsAwarded
			}
		case model.StateFailed:
			cs.failed = c
		default:
			cs.active = c
		}
	}
	cs.awarded = min(cs.awarded, s.cfg.MaxChainedSpins())
	return cs, nil
}

// chain Бонусные спины по одному: следующий коммитится только после того,
// как предыдущий дошел до терминального состояния. Повторный бонус продлевает цепочку до MaxChainedSpins.
func (s *serv) chain(ctx context.Context, root *model.SpinRecord) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		cs, err := s.loadChain(ctx, root)
		if err != nil {
			return stalled(err)
		}

		if cs.failed != nil {
			return fmt.Errorf("%w: %s: %s", errChildFailed, cs.failed.ID, cs.failed.FailureReason)
		}

		// После рестарта сначала доводим начатый бонусный спин
		if cs.active != nil {
			if err := s.drive(ctx, cs.active); err != nil {
				return err
			}
			continue
		}

		remaining := cs.awarded - cs.total
		if root.BonusRemaining != remaining || root.BonusPlayed != cs.played {
			root.BonusRemaining, root.BonusPlayed = max(remaining, 0), cs.played
			if err := s.spinRepo.UpdateSpin(ctx, root); err != nil {
				return stalled(err)
			}
		}

		if remaining <= 0 {
			log.WithFields(spinFields(root)).WithField("bonus_spins", cs.played).Info("bonus chain finished")
			return s.transition(ctx, root, model.StateSettled, nil)
		}

		child, err := s.commitChild(ctx, root, cs.total+1)
		if err != nil {
			return err
		}
		if err := s.drive(ctx, child); err != nil {
			return err
		}
	}
}

func (s *serv) commitChild(ctx context.Context, root *model.SpinRecord, n int) (*model.SpinRecord, error) {
	params, err := s.ledger.MachineParameters(ctx)
	if err != nil {
		return nil, wrapTransient(fmt.Errorf("machine parameters: %w", err))
	}
	if err := s.engine.Validate(ctx, &params, model.ModeBonus, 0); err != nil {
		return nil, err
	}

	child, err := s.commit(ctx, &model.SpinRecord{
		ID:          fmt.Sprintf("%s-bonus-%d", root.ID, n),
		ParentID:    root.ID,
		Player:      root.Player,
		Mode:        model.ModeBonus,
		BetAmount:   0,
		Paylines:    root.Paylines,
		BetPerLine:  root.BetPerLine,
		Params:      params,
		BonusActive: true,
	})
	if err != nil {
		return nil, wrapTransient(err)
	}
	return child, nil
}
