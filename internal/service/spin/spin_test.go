package spin

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"slot_backend/internal/common"
	"slot_backend/internal/ledger"
	"slot_backend/internal/ledger/sim"
	"slot_backend/internal/model"
	"slot_backend/internal/repository"
	"slot_backend/internal/repository/mem_repo"
	"slot_backend/internal/service"
	"slot_backend/internal/service/ways"
	servModel "slot_backend/internal/service/ways/model"
	"slot_backend/pkg/betkey"
)

type testConfig struct {
	minInterval time.Duration
	pollTries   uint
	maxChained  int
}

func (c testConfig) MinSpinInterval() time.Duration { return c.minInterval }
func (c testConfig) PollInterval() time.Duration    { return time.Millisecond }
func (c testConfig) PollAttempts() uint {
	if c.pollTries == 0 {
		return 5000
	}
	return c.pollTries
}
func (c testConfig) RevealInterval() time.Duration { return time.Millisecond }
func (c testConfig) RevealAttempts() uint          { return 50 }
func (c testConfig) PayoutTolerance() uint64       { return 1 }
func (c testConfig) MaxChainedSpins() int {
	if c.maxChained == 0 {
		return 40
	}
	return c.maxChained
}
func (c testConfig) Workers() int                  { return 2 }
func (c testConfig) QueueSize() int                { return 16 }
func (c testConfig) SessionIdleTTL() time.Duration { return time.Minute }

var player = model.Address{0x11, 0x22}

func testParams() model.MachineParameters {
	return model.MachineParameters{
		Paytable: servModel.DefaultPaytable(),
		BetCosts: model.PerMode[model.BetSchedule]{
			Credit:  {Base: 10, Kicker: 5},
			Network: {Base: 1000, Kicker: 500},
			Token:   {Base: 100, Kicker: 50},
		},
		JackpotPools:      model.PerMode[uint64]{Bonus: 50, Credit: 100, Network: 1000, Token: 500},
		EnabledModes:      7,
		BonusReferenceBet: 10,
	}
}

type fixture struct {
	svc    *serv
	sim    *sim.Ledger
	store  *mem_repo.Store
	cancel context.CancelFunc
}

// newFixture Контроллер на симуляторе леджера и хранилище в памяти.
// wrap позволяет подменить поведение леджера.
func newFixture(t *testing.T, cfg testConfig, wrap func(ledger.Ledger) ledger.Ledger, opts ...sim.Option) *fixture {
	t.Helper()

	l := sim.New(testParams(), opts...)
	l.Deposit(player, model.ModeCredit, 1000)
	l.Deposit(player, model.ModeNetwork, 100000)

	var led ledger.Ledger = l
	if wrap != nil {
		led = wrap(l)
	}

	store := mem_repo.NewStore()
	svc := NewSpinService(Deps{
		Ledger:     led,
		Engine:     ways.NewEngine(),
		SpinRepo:   store,
		PlayerRepo: store,
		EventRepo:  store,
		TxManager:  mem_repo.NewTxManager(),
		Config:     cfg,
	}).(*serv)

	ctx, cancel := context.WithCancel(context.Background())
	go l.Run(ctx, time.Millisecond)
	t.Cleanup(func() {
		cancel()
		svc.Stop()
	})

	return &fixture{svc: svc, sim: l, store: store, cancel: cancel}
}

func (f *fixture) start() {
	f.svc.Start(context.Background())
}

func (f *fixture) waitState(t *testing.T, id string, want ...model.SpinState) *model.SpinRecord {
	t.Helper()
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		rec, err := f.store.GetSpin(context.Background(), id)
		if err == nil {
			for _, w := range want {
				if rec.State == w {
					return rec
				}
			}
		}
		time.Sleep(2 * time.Millisecond)
	}
	rec, _ := f.store.GetSpin(context.Background(), id)
	t.Fatalf("spin %s did not reach %v, last record %+v", id, want, rec)
	return nil
}

func creditSpin() model.SpinRequest {
	return model.SpinRequest{Player: player, Mode: model.ModeCredit, BetAmount: 10, Paylines: 1, BetPerLine: 10}
}

// findSeed Сид, при котором поле для индекса удовлетворяет условию
func findSeed(t *testing.T, spinIndex uint64, ok func(model.Grid) bool) [32]byte {
	t.Helper()
	for i := uint64(0); i < 200000; i++ {
		s := sim.SeedFromUint64(i)
		if ok(ways.GenerateGrid(s, spinIndex)) {
			return s
		}
	}
	t.Fatal("no seed found")
	return [32]byte{}
}

func TestSpinSettles(t *testing.T) {
	f := newFixture(t, testConfig{}, nil)
	f.start()

	ticket, err := f.svc.Spin(context.Background(), creditSpin())
	if err != nil {
		t.Fatalf("spin: %v", err)
	}
	if ticket.SpinID == "" || ticket.TxID == "" {
		t.Fatalf("ticket = %+v", ticket)
	}

	rec := f.waitState(t, ticket.SpinID, model.StateSettled, model.StateBonusChaining, model.StateFailed)
	if rec.State == model.StateFailed {
		t.Fatalf("spin failed: %s", rec.FailureReason)
	}
	if !rec.Outcome.Verified || rec.Outcome.AuthoritativePayout != rec.Outcome.ExpectedPayout {
		t.Errorf("outcome not verified: %+v", rec.Outcome)
	}
	if rec.SpinIndex != 1 {
		t.Errorf("spin index = %d, want 1", rec.SpinIndex)
	}
	if rec.BetKey != (betkey.Key{Address: [32]byte(player), BetAmount: 10, SpinIndex: 1, Mode: model.ModeCredit.Wire()}) {
		t.Errorf("bet key = %+v", rec.BetKey)
	}
}

func TestSpinPublishesOutcomeThenBalance(t *testing.T) {
	// сид без бонуса, чтобы не ждать цепочку
	seed := findSeed(t, 1, func(g model.Grid) bool { return g.Count(model.Bonus) < 2 })
	f := newFixture(t, testConfig{}, nil, sim.WithBeacon(func(uint64) [32]byte { return seed }))
	f.start()

	ticket, err := f.svc.Spin(context.Background(), creditSpin())
	if err != nil {
		t.Fatal(err)
	}
	f.waitState(t, ticket.SpinID, model.StateSettled)

	var events []model.Event
	deadline := time.Now().Add(5 * time.Second)
	for len(events) < 2 && time.Now().Before(deadline) {
		batch, _ := f.store.Drain(context.Background(), player, 10)
		events = append(events, batch...)
		time.Sleep(time.Millisecond)
	}
	if len(events) != 2 {
		t.Fatalf("events = %+v", events)
	}
	if events[0].Kind != model.EventOutcome || events[0].Outcome == nil {
		t.Errorf("first event = %+v, want outcome", events[0])
	}
	if events[1].Kind != model.EventBalance {
		t.Errorf("second event = %+v, want balance", events[1])
	}
	if events[1].AvailableBalance != events[1].Balance {
		t.Errorf("nothing pending, available %d != balance %d", events[1].AvailableBalance, events[1].Balance)
	}
}

func TestAtMostOneInFlight(t *testing.T) {
	f := newFixture(t, testConfig{}, nil)
	// воркеры не запущены: первый спин остается в полете

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		ok      int
		errs    []error
		barrier = make(chan struct{})
	)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-barrier
			_, err := f.svc.Spin(context.Background(), creditSpin())
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				ok++
			} else {
				errs = append(errs, err)
			}
		}()
	}
	close(barrier)
	wg.Wait()

	if ok != 1 {
		t.Fatalf("successful spins = %d, want 1 (errors %v)", ok, errs)
	}
	if len(errs) != 1 || !errors.Is(errs[0], common.ErrSpinInFlight) {
		t.Fatalf("errors = %v, want ErrSpinInFlight", errs)
	}
	idx, _ := f.store.GetSpinIndex(context.Background(), player)
	if idx != 1 {
		t.Errorf("spin index = %d, want 1", idx)
	}
}

func TestRateLimit(t *testing.T) {
	seed := findSeed(t, 1, func(g model.Grid) bool { return g.Count(model.Bonus) < 2 })
	f := newFixture(t, testConfig{minInterval: time.Hour}, nil, sim.WithBeacon(func(uint64) [32]byte { return seed }))
	f.start()

	ticket, err := f.svc.Spin(context.Background(), creditSpin())
	if err != nil {
		t.Fatal(err)
	}
	f.waitState(t, ticket.SpinID, model.StateSettled)

	// ждем освобождения слота после расчета
	time.Sleep(20 * time.Millisecond)
	if _, err := f.svc.Spin(context.Background(), creditSpin()); !errors.Is(err, common.ErrRateLimited) {
		t.Fatalf("err = %v, want ErrRateLimited", err)
	}
}

func TestValidationBeforeCommit(t *testing.T) {
	f := newFixture(t, testConfig{}, nil)

	req := model.SpinRequest{Player: player, Mode: model.ModeNetwork, BetAmount: 999}
	_, err := f.svc.Spin(context.Background(), req)
	var mve *common.ModeValidationError
	if !errors.As(err, &mve) || !errors.Is(err, common.ErrInvalidBetAmount) {
		t.Fatalf("err = %v, want ModeValidationError(ErrInvalidBetAmount)", err)
	}

	req = model.SpinRequest{Player: player, Mode: model.ModeBonus, BetAmount: 5}
	if _, err := f.svc.Spin(context.Background(), req); !errors.Is(err, common.ErrBonusBetNonZero) {
		t.Fatalf("err = %v, want ErrBonusBetNonZero", err)
	}

	idx, _ := f.store.GetSpinIndex(context.Background(), player)
	if idx != 0 {
		t.Errorf("spin index advanced to %d on rejected spin", idx)
	}

	// слот освобожден
	if _, err := f.svc.Spin(context.Background(), creditSpin()); err != nil {
		t.Fatalf("valid spin after rejection: %v", err)
	}
}

func TestCancelBeforeCommit(t *testing.T) {
	f := newFixture(t, testConfig{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := f.svc.Spin(ctx, creditSpin()); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}

	idx, _ := f.store.GetSpinIndex(context.Background(), player)
	if idx != 0 {
		t.Errorf("spin index = %d after cancelled spin", idx)
	}
	unsettled, _ := f.store.ListUnsettled(context.Background())
	if len(unsettled) != 0 {
		t.Errorf("cancelled spin left records: %+v", unsettled)
	}
}

func TestIdempotentSpinID(t *testing.T) {
	f := newFixture(t, testConfig{}, nil)

	req := creditSpin()
	req.SpinID = "client-1"
	first, err := f.svc.Spin(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	second, err := f.svc.Spin(context.Background(), req)
	if err != nil {
		t.Fatalf("repeat: %v", err)
	}
	if *first != *second || first.SpinID != "client-1" {
		t.Errorf("tickets differ: %+v vs %+v", first, second)
	}

	other := req
	other.Player = model.Address{0x99}
	if _, err := f.svc.Spin(context.Background(), other); !errors.Is(err, common.ErrInvalidRequest) {
		t.Errorf("foreign spin id err = %v", err)
	}
}

// mismatchLedger Леджер, который платит больше локального расчета
type mismatchLedger struct {
	ledger.Ledger
}

func (m mismatchLedger) SubmitReveal(ctx context.Context, key betkey.Key) (uint64, error) {
	p, err := m.Ledger.SubmitReveal(ctx, key)
	return p + 5, err
}

func TestPayoutMismatchFails(t *testing.T) {
	f := newFixture(t, testConfig{}, func(l ledger.Ledger) ledger.Ledger { return mismatchLedger{l} })
	f.start()

	ticket, err := f.svc.Spin(context.Background(), creditSpin())
	if err != nil {
		t.Fatal(err)
	}
	rec := f.waitState(t, ticket.SpinID, model.StateFailed, model.StateSettled)
	if rec.State != model.StateFailed || rec.FailureCode != model.CodeSpinFailed {
		t.Fatalf("state %s code %s, want failed/SPIN_FAILED", rec.State, rec.FailureCode)
	}
	if rec.Outcome.Verified {
		t.Error("mismatched outcome marked verified")
	}

	events, _ := f.store.Drain(context.Background(), player, 10)
	found := false
	for _, ev := range events {
		if ev.Kind == model.EventError && ev.Code == model.CodeSpinFailed && !ev.Recoverable {
			found = true
		}
	}
	if !found {
		t.Errorf("no non-recoverable SPIN_FAILED event in %+v", events)
	}
}

// lostRevealLedger Первый reveal проходит в леджере, но ответ теряется
type lostRevealLedger struct {
	ledger.Ledger
	mu   sync.Mutex
	lost bool
}

func (l *lostRevealLedger) SubmitReveal(ctx context.Context, key betkey.Key) (uint64, error) {
	p, err := l.Ledger.SubmitReveal(ctx, key)
	l.mu.Lock()
	defer l.mu.Unlock()
	if err == nil && !l.lost {
		l.lost = true
		return 0, ledger.ErrUnavailable
	}
	return p, err
}

func TestLostRevealRecovered(t *testing.T) {
	seed := findSeed(t, 1, func(g model.Grid) bool { return g.Count(model.Bonus) < 2 })
	f := newFixture(t, testConfig{}, func(l ledger.Ledger) ledger.Ledger { return &lostRevealLedger{Ledger: l} },
		sim.WithBeacon(func(uint64) [32]byte { return seed }))
	f.start()

	ticket, err := f.svc.Spin(context.Background(), creditSpin())
	if err != nil {
		t.Fatal(err)
	}
	rec := f.waitState(t, ticket.SpinID, model.StateSettled, model.StateFailed)
	if rec.State != model.StateSettled || !rec.RevealSubmitted || !rec.Outcome.Verified {
		t.Fatalf("record = %+v", rec)
	}
}

// blockingLedger Держит коммиты бонусных спинов до сигнала
type blockingLedger struct {
	ledger.Ledger
	gate chan struct{}
}

func (b *blockingLedger) SubmitCommit(ctx context.Context, p model.Address, mode model.Mode, bet, idx uint64) (ledger.CommitReceipt, error) {
	if mode == model.ModeBonus {
		<-b.gate
	}
	return b.Ledger.SubmitCommit(ctx, p, mode, bet, idx)
}

func TestBonusChainRejectsExternalSpins(t *testing.T) {
	seed := findSeed(t, 1, func(g model.Grid) bool { return g.Count(model.Bonus) >= 2 })
	gate := make(chan struct{})
	f := newFixture(t, testConfig{maxChained: 12},
		func(l ledger.Ledger) ledger.Ledger { return &blockingLedger{Ledger: l, gate: gate} },
		sim.WithBeacon(func(uint64) [32]byte { return seed }))
	var once sync.Once
	release := func() { once.Do(func() { close(gate) }) }
	t.Cleanup(release)
	f.start()

	ticket, err := f.svc.Spin(context.Background(), creditSpin())
	if err != nil {
		t.Fatal(err)
	}
	root := f.waitState(t, ticket.SpinID, model.StateBonusChaining)
	if root.BonusRemaining != servModel.BonusSpinsAwarded {
		t.Errorf("bonus remaining = %d, want %d", root.BonusRemaining, servModel.BonusSpinsAwarded)
	}

	if _, err := f.svc.Spin(context.Background(), creditSpin()); !errors.Is(err, common.ErrBonusInProgress) {
		t.Fatalf("err during chaining = %v, want ErrBonusInProgress", err)
	}
	if code, _ := common.Classify(common.ErrBonusInProgress); code != model.CodeAlreadySpinning {
		t.Fatalf("bonus in progress maps to %s", code)
	}

	release()
	root = f.waitState(t, ticket.SpinID, model.StateSettled, model.StateFailed)
	if root.State != model.StateSettled {
		t.Fatalf("root failed: %s", root.FailureReason)
	}

	children, _ := f.store.ListChildren(context.Background(), root.ID)
	if len(children) < servModel.BonusSpinsAwarded || len(children) > 12 {
		t.Fatalf("children = %d", len(children))
	}
	last := root.SpinIndex
	for _, c := range children {
		if c.Mode != model.ModeBonus || c.BetAmount != 0 || !c.BonusActive || c.State != model.StateSettled {
			t.Errorf("child %+v", c)
		}
		if c.SpinIndex <= last {
			t.Errorf("child index %d not after %d", c.SpinIndex, last)
		}
		last = c.SpinIndex
	}
	if root.BonusPlayed != len(children) || root.BonusRemaining != 0 {
		t.Errorf("root counters played %d remaining %d", root.BonusPlayed, root.BonusRemaining)
	}

	// цепочка закончена, новый спин принимается
	time.Sleep(20 * time.Millisecond)
	if _, err := f.svc.Spin(context.Background(), creditSpin()); err != nil {
		t.Fatalf("spin after chain: %v", err)
	}
}

func TestStalledSpinReportsNetworkError(t *testing.T) {
	f := newFixture(t, testConfig{pollTries: 3}, nil, sim.WithStartRound(0))
	f.cancel() // раунды не двигаются, случайность не появится

	f.start()
	ticket, err := f.svc.Spin(context.Background(), creditSpin())
	if err != nil {
		t.Fatal(err)
	}

	var ev *model.Event
	deadline := time.Now().Add(5 * time.Second)
	for ev == nil && time.Now().Before(deadline) {
		events, _ := f.store.Drain(context.Background(), player, 10)
		for i := range events {
			if events[i].Kind == model.EventError {
				ev = &events[i]
			}
		}
		time.Sleep(time.Millisecond)
	}
	if ev == nil {
		t.Fatal("no error event")
	}
	if ev.Code != model.CodeNetworkError || !ev.Recoverable {
		t.Errorf("event = %+v, want recoverable NETWORK_ERROR", ev)
	}

	rec, _ := f.store.GetSpin(context.Background(), ticket.SpinID)
	if rec.State != model.StateAwaitingReveal {
		t.Errorf("state = %s, want awaiting_reveal", rec.State)
	}
	if _, err := f.svc.Spin(context.Background(), creditSpin()); !errors.Is(err, common.ErrSpinInFlight) {
		t.Errorf("stalled player accepted a new spin: %v", err)
	}
}

func TestResumeAfterRestart(t *testing.T) {
	f := newFixture(t, testConfig{}, nil)

	ticket, err := f.svc.Spin(context.Background(), creditSpin())
	if err != nil {
		t.Fatal(err)
	}

	// новый процесс поверх того же хранилища и леджера
	restarted := NewSpinService(Deps{
		Ledger:     f.sim,
		Engine:     ways.NewEngine(),
		SpinRepo:   f.store,
		PlayerRepo: f.store,
		EventRepo:  f.store,
		TxManager:  mem_repo.NewTxManager(),
		Config:     testConfig{},
	})
	t.Cleanup(restarted.Stop)

	n, err := restarted.Resume(context.Background())
	if err != nil || n != 1 {
		t.Fatalf("resume = %d, %v", n, err)
	}
	if _, err := restarted.Spin(context.Background(), creditSpin()); err == nil {
		t.Fatal("player with unsettled spin accepted a new spin")
	}

	restarted.Start(context.Background())
	f.waitState(t, ticket.SpinID, model.StateSettled, model.StateBonusChaining)
}

// flakyPlayers Хранилище игроков, которое один раз не может продвинуть индекс
type flakyPlayers struct {
	repository.PlayerRepository
	mu     sync.Mutex
	failed bool
}

func (p *flakyPlayers) AdvanceSpinIndex(ctx context.Context, player model.Address, index uint64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.failed {
		p.failed = true
		return errors.New("connection reset")
	}
	return p.PlayerRepository.AdvanceSpinIndex(ctx, player, index)
}

// flakySpins Хранилище спинов, которое один раз не может сохранить новую запись
type flakySpins struct {
	repository.SpinRepository
	mu     sync.Mutex
	failed bool
}

func (s *flakySpins) CreateSpin(ctx context.Context, rec *model.SpinRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.failed {
		s.failed = true
		return errors.New("connection reset")
	}
	return s.SpinRepository.CreateSpin(ctx, rec)
}

func TestIndexReservedBeforeCommit(t *testing.T) {
	f := newFixture(t, testConfig{}, nil)
	f.svc.playerRepo = &flakyPlayers{PlayerRepository: f.store}

	if _, err := f.svc.Spin(context.Background(), creditSpin()); err == nil {
		t.Fatal("spin accepted without a reserved index")
	}
	if idx, _ := f.store.GetSpinIndex(context.Background(), player); idx != 0 {
		t.Errorf("spin index = %d after failed reservation", idx)
	}

	// индекс 1 леджер не видел, поэтому повтор не упирается в ErrDuplicateBet
	ticket, err := f.svc.Spin(context.Background(), creditSpin())
	if err != nil {
		t.Fatalf("spin after failed reservation: %v", err)
	}
	rec, _ := f.store.GetSpin(context.Background(), ticket.SpinID)
	if rec.SpinIndex != 1 {
		t.Errorf("spin index = %d, want 1", rec.SpinIndex)
	}
}

func TestIndexNotReusedAfterLostRecord(t *testing.T) {
	f := newFixture(t, testConfig{}, nil)
	f.svc.spinRepo = &flakySpins{SpinRepository: f.store}
	f.start()

	if _, err := f.svc.Spin(context.Background(), creditSpin()); err == nil {
		t.Fatal("spin accepted without a persisted record")
	}

	// леджер уже принял индекс 1, следующий спин идет с индексом 2
	ticket, err := f.svc.Spin(context.Background(), creditSpin())
	if err != nil {
		t.Fatalf("spin after lost record: %v", err)
	}
	rec := f.waitState(t, ticket.SpinID, model.StateSettled, model.StateBonusChaining, model.StateFailed)
	if rec.State == model.StateFailed {
		t.Fatalf("spin failed: %s", rec.FailureReason)
	}
	if rec.SpinIndex != 2 {
		t.Errorf("spin index = %d, want 2", rec.SpinIndex)
	}
}

// racingLedger Перед коммитом игрока успевает закоммитить другой игрок
type racingLedger struct {
	ledger.Ledger
	sim   *sim.Ledger
	other model.Address
	once  sync.Once
}

func (r *racingLedger) SubmitCommit(ctx context.Context, p model.Address, mode model.Mode, bet, idx uint64) (ledger.CommitReceipt, error) {
	var err error
	r.once.Do(func() {
		r.sim.Deposit(r.other, model.ModeCredit, 100)
		_, err = r.sim.SubmitCommit(ctx, r.other, model.ModeCredit, 10, 1)
	})
	if err != nil {
		return ledger.CommitReceipt{}, err
	}
	return r.Ledger.SubmitCommit(ctx, p, mode, bet, idx)
}

func TestJackpotUsesCommittedPool(t *testing.T) {
	seed := findSeed(t, 1, func(g model.Grid) bool {
		return g.Count(model.Jackpot) >= servModel.JackpotTriggerCount && g.Count(model.Bonus) < servModel.BonusTriggerCount
	})
	f := newFixture(t, testConfig{},
		func(l ledger.Ledger) ledger.Ledger {
			return &racingLedger{Ledger: l, sim: l.(*sim.Ledger), other: model.Address{0x77}}
		},
		sim.WithBeacon(func(uint64) [32]byte { return seed }),
		sim.WithJackpotContribution(7))
	f.start()

	ticket, err := f.svc.Spin(context.Background(), creditSpin())
	if err != nil {
		t.Fatal(err)
	}
	rec := f.waitState(t, ticket.SpinID, model.StateSettled, model.StateFailed)
	if rec.State != model.StateSettled {
		t.Fatalf("state %s: %s", rec.State, rec.FailureReason)
	}
	// пул 100 плюс взнос чужой ставки, сделанной до нашего коммита
	if rec.Params.JackpotPools.Credit != 107 || rec.Outcome.JackpotAmount != 107 {
		t.Errorf("pool %d jackpot %d, want 107", rec.Params.JackpotPools.Credit, rec.Outcome.JackpotAmount)
	}
	if !rec.Outcome.Verified {
		t.Errorf("outcome not verified: %+v", rec.Outcome)
	}
}

// settlingSpins Спин доводится до конца сразу после того, как Resume прочитал список
type settlingSpins struct {
	repository.SpinRepository
}

func (s settlingSpins) ListUnsettled(ctx context.Context) ([]*model.SpinRecord, error) {
	recs, err := s.SpinRepository.ListUnsettled(ctx)
	for _, rec := range recs {
		done := *rec
		done.State = model.StateSettled
		_ = s.SpinRepository.UpdateSpin(ctx, &done)
	}
	return recs, err
}

func TestResumeRacesSettlement(t *testing.T) {
	tests := []struct {
		name      string
		atWorker  bool
		wantQueue int
	}{
		{"settled before mark", false, 1},
		{"still at worker", true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, testConfig{}, nil)
			ctx := context.Background()

			rec := &model.SpinRecord{
				ID:        "resumed-1",
				Player:    player,
				Mode:      model.ModeCredit,
				BetAmount: 10,
				SpinIndex: 1,
				State:     model.StateAwaitingReveal,
			}
			if err := f.store.CreateSpin(ctx, rec); err != nil {
				t.Fatal(err)
			}
			f.svc.spinRepo = settlingSpins{SpinRepository: f.store}
			if tt.atWorker {
				f.svc.queue.push(rec.ID)
			}

			n, err := f.svc.Resume(ctx)
			if err != nil || n != tt.wantQueue {
				t.Fatalf("resume = %d, %v, want %d", n, err, tt.wantQueue)
			}
			if err := f.svc.Busy(player); err != nil {
				t.Fatalf("player stuck after settled spin: %v", err)
			}
		})
	}
}

func TestMarkBusyKeepsForeignSlot(t *testing.T) {
	s := newSessions(0)
	if err := s.acquire(player, time.Now()); err != nil {
		t.Fatal(err)
	}
	s.bind(player, "new")

	s.markBusy(player, "old", model.StateBonusChaining)
	s.release(player, "old")
	if err := s.busy(player); !errors.Is(err, common.ErrSpinInFlight) {
		t.Fatalf("busy = %v, want ErrSpinInFlight", err)
	}

	s.release(player, "new")
	if err := s.busy(player); err != nil {
		t.Errorf("busy after release = %v", err)
	}
}

var _ service.SpinService = (*serv)(nil)
