package gateway

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"slot_backend/internal/ledger"
	"slot_backend/internal/ledger/sim"
	"slot_backend/internal/model"
	servModel "slot_backend/internal/service/ways/model"
)

func newPair(t *testing.T) (*Client, *sim.Ledger) {
	t.Helper()
	params := model.MachineParameters{
		Paytable: servModel.DefaultPaytable(),
		BetCosts: model.PerMode[model.BetSchedule]{
			Credit:  {Base: 10, Kicker: 5},
			Network: {Base: 1000, Kicker: 500},
			Token:   {Base: 100, Kicker: 50},
		},
		JackpotPools:      model.PerMode[uint64]{Bonus: 1, Credit: 2, Network: 3, Token: 4},
		EnabledModes:      7,
		BonusReferenceBet: 10,
	}
	l := sim.New(params)
	srv := httptest.NewServer(NewHandler(l).Routes())
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, srv.Client()), l
}

func TestClientCommitRevealOverHTTP(t *testing.T) {
	ctx := context.Background()
	c, l := newPair(t)
	player := model.Address{1, 2, 3}
	l.Deposit(player, model.ModeCredit, 50)

	rc, err := c.SubmitCommit(ctx, player, model.ModeCredit, 10, 1)
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if model.Address(rc.BetKey.Address) != player || rc.BetKey.SpinIndex != 1 || rc.BetKey.Mode != model.ModeCredit.Wire() {
		t.Fatalf("bet key = %+v", rc.BetKey)
	}
	params, _ := l.MachineParameters(ctx)
	if rc.JackpotPools == nil || rc.JackpotPools.Credit != params.JackpotPools.Credit {
		t.Fatalf("committed pools = %+v, want %+v", rc.JackpotPools, params.JackpotPools)
	}

	if _, err := c.ReadRandomness(ctx, rc.TargetRound()); !errors.Is(err, ledger.ErrRandomnessUnavailable) {
		t.Fatalf("randomness err = %v", err)
	}
	if _, err := c.SubmitReveal(ctx, rc.BetKey); !errors.Is(err, ledger.ErrNotYetRevealable) {
		t.Fatalf("reveal err = %v", err)
	}

	l.Advance(ledger.RevealDelayRounds)
	seed, err := c.ReadRandomness(ctx, rc.TargetRound())
	if err != nil {
		t.Fatal(err)
	}
	if seed != sim.DefaultBeacon(rc.TargetRound()) {
		t.Error("seed differs from beacon")
	}

	payout, err := c.SubmitReveal(ctx, rc.BetKey)
	if err != nil {
		t.Fatal(err)
	}
	again, err := c.RevealedPayout(ctx, rc.BetKey)
	if err != nil || again != payout {
		t.Errorf("revealed payout = %d, %v; want %d", again, err, payout)
	}
	if _, err := c.SubmitReveal(ctx, rc.BetKey); !errors.Is(err, ledger.ErrAlreadyClaimed) {
		t.Errorf("second reveal err = %v", err)
	}

	bal, err := c.Balance(ctx, player, model.ModeCredit)
	if err != nil || bal != 40+payout {
		t.Errorf("balance = %d, %v", bal, err)
	}
}

func TestClientErrorsMapped(t *testing.T) {
	ctx := context.Background()
	c, _ := newPair(t)
	player := model.Address{9}

	if _, err := c.SubmitCommit(ctx, player, model.ModeCredit, 10, 1); !errors.Is(err, ledger.ErrInsufficientFunds) {
		t.Errorf("err = %v, want insufficient funds", err)
	}
	if _, err := c.SubmitCommit(ctx, player, model.ModeCredit, 7, 1); !errors.Is(err, ledger.ErrInvalidBetAmount) {
		t.Errorf("err = %v, want invalid bet amount", err)
	}
	if ledger.Retryable(ledger.ErrBadRequest) {
		t.Error("bad request must not be retryable")
	}
}

func TestClientMachineParameters(t *testing.T) {
	c, l := newPair(t)
	want, _ := l.MachineParameters(context.Background())

	got, err := c.MachineParameters(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("params = %+v, want %+v", got, want)
	}
}

func TestClientUnavailable(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", nil)
	_, err := c.ReadRandomness(context.Background(), 1)
	if !ledger.Retryable(err) {
		t.Fatalf("err = %v, want retryable unavailable", err)
	}
}
