package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/afroo/afroo-hold-service/internal/domain"
	publisher "github.com/afroo/afroo-hold-service/internal/infrastructure/kafka"
	"github.com/afroo/afroo-hold-service/internal/infrastructure/logger"
	"github.com/afroo/afroo-hold-service/internal/infrastructure/metrics"
	"github.com/shopspring/decimal"
)

// promauto registers into the default registry, so the whole test package
// shares one metrics instance.
var testMetrics = metrics.NewHoldMetrics()

func depositKey(userID string, currency domain.Currency) string {
	return fmt.Sprintf("%s/%s", userID, currency)
}

type memDepositRepo struct {
	mu       sync.Mutex
	deposits map[string]*domain.Deposit
}

func newMemDepositRepo() *memDepositRepo {
	return &memDepositRepo{deposits: make(map[string]*domain.Deposit)}
}

func (r *memDepositRepo) put(d *domain.Deposit) {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *d
	r.deposits[depositKey(d.UserID, d.Currency)] = &copied
}

func (r *memDepositRepo) CreateDeposit(_ context.Context, deposit *domain.Deposit) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := depositKey(deposit.UserID, deposit.Currency)
	if _, ok := r.deposits[key]; ok {
		return fmt.Errorf("deposit already exists: %s", key)
	}
	copied := *deposit
	r.deposits[key] = &copied
	return nil
}

func (r *memDepositRepo) GetDeposit(_ context.Context, userID string, currency domain.Currency) (*domain.Deposit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.deposits[depositKey(userID, currency)]
	if !ok {
		return nil, domain.ErrDepositNotFound
	}
	copied := *d
	return &copied, nil
}

func (r *memDepositRepo) ListDeposits(_ context.Context, userID string) ([]*domain.Deposit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Deposit
	for _, d := range r.deposits {
		if d.UserID == userID {
			copied := *d
			out = append(out, &copied)
		}
	}
	return out, nil
}

func snapshotsEqual(a, b domain.BalanceSnapshot) bool {
	return a.Balance.Equal(b.Balance) && a.Held.Equal(b.Held) && a.FeeReserved.Equal(b.FeeReserved)
}

func (r *memDepositRepo) UpdateBalances(_ context.Context, userID string, currency domain.Currency, expected, updated domain.BalanceSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.deposits[depositKey(userID, currency)]
	if !ok {
		return domain.ErrDepositNotFound
	}
	if !snapshotsEqual(d.Snapshot(), expected) {
		return domain.ErrConcurrencyConflict
	}
	d.Balance = updated.Balance
	d.Held = updated.Held
	d.FeeReserved = updated.FeeReserved
	return nil
}

func (r *memDepositRepo) CreditBalance(_ context.Context, userID string, currency domain.Currency, amount decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.deposits[depositKey(userID, currency)]
	if !ok {
		return domain.ErrDepositNotFound
	}
	d.Balance = d.Balance.Add(amount)
	d.TotalDeposited = d.TotalDeposited.Add(amount)
	return nil
}

func (r *memDepositRepo) DebitWithdrawal(_ context.Context, userID string, currency domain.Currency, expected domain.BalanceSnapshot, amount decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.deposits[depositKey(userID, currency)]
	if !ok {
		return domain.ErrDepositNotFound
	}
	if !snapshotsEqual(d.Snapshot(), expected) {
		return domain.ErrConcurrencyConflict
	}
	d.Balance = d.Balance.Sub(amount)
	d.TotalWithdrawn = d.TotalWithdrawn.Add(amount)
	return nil
}

type memHoldRepo struct {
	mu    sync.Mutex
	holds map[string]*domain.Hold
}

func newMemHoldRepo() *memHoldRepo {
	return &memHoldRepo{holds: make(map[string]*domain.Hold)}
}

func (r *memHoldRepo) InsertHold(_ context.Context, hold *domain.Hold) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *hold
	r.holds[hold.ID] = &copied
	return nil
}

func (r *memHoldRepo) GetHoldByID(_ context.Context, holdID string) (*domain.Hold, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.holds[holdID]
	if !ok {
		return nil, domain.ErrHoldNotFound
	}
	copied := *h
	return &copied, nil
}

func (r *memHoldRepo) GetHoldsByTicketID(_ context.Context, ticketID string) ([]*domain.Hold, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Hold
	for _, h := range r.holds {
		if h.TicketID == ticketID {
			copied := *h
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *memHoldRepo) GetActiveHoldsByUserID(_ context.Context, userID string) ([]*domain.Hold, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Hold
	for _, h := range r.holds {
		if h.UserID == userID && h.Status == domain.HoldStatusActive {
			copied := *h
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *memHoldRepo) MarkTerminal(_ context.Context, holdID string, status domain.HoldStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.holds[holdID]
	if !ok {
		return domain.ErrHoldNotFound
	}
	if h.Status != domain.HoldStatusActive {
		return domain.ErrHoldNotActive
	}
	h.Status = status
	return nil
}

type memFeeSink struct {
	mu   sync.Mutex
	fees []*domain.ServerFee
}

func (s *memFeeSink) Credit(_ context.Context, fee *domain.ServerFee) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *fee
	s.fees = append(s.fees, &copied)
	return nil
}

func (s *memFeeSink) collected() []*domain.ServerFee {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*domain.ServerFee(nil), s.fees...)
}

type fakeOracle struct {
	prices map[domain.Currency]decimal.Decimal
	err    error
}

func (o *fakeOracle) GetPriceUSD(_ context.Context, currency domain.Currency) (decimal.Decimal, error) {
	if o.err != nil {
		return decimal.Zero, o.err
	}
	price, ok := o.prices[currency]
	if !ok {
		return decimal.Zero, fmt.Errorf("%s: %w", currency, domain.ErrPriceUnavailable)
	}
	return price, nil
}

func (o *fakeOracle) GetPricesUSD(_ context.Context, currencies []domain.Currency) (map[domain.Currency]decimal.Decimal, error) {
	if o.err != nil {
		return nil, o.err
	}
	out := make(map[domain.Currency]decimal.Decimal)
	for _, c := range currencies {
		if p, ok := o.prices[c]; ok {
			out[c] = p
		}
	}
	return out, nil
}

// passthroughTx runs fn directly: fakes have no real transactions, the
// conditional updates are what the tests exercise.
type passthroughTx struct{}

func (passthroughTx) Transaction(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

type fakePublisher struct {
	mu     sync.Mutex
	events []publisher.HoldEvent
}

func (p *fakePublisher) PublishHold(event publisher.HoldEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

type fakeEventLogger struct {
	mu     sync.Mutex
	events []logger.HoldAuditEvent
}

func (l *fakeEventLogger) LogHoldEvent(_ context.Context, event logger.HoldAuditEvent) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, event)
	return nil
}

func (l *fakeEventLogger) actions() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []string
	for _, e := range l.events {
		out = append(out, e.Action)
	}
	return out
}

type holdFixture struct {
	uc       *DefaultHoldUsecase
	deposits *memDepositRepo
	holds    *memHoldRepo
	feeSink  *memFeeSink
	oracle   *fakeOracle
	audit    *fakeEventLogger
}

func newHoldFixture(prices map[domain.Currency]decimal.Decimal) *holdFixture {
	deposits := newMemDepositRepo()
	holds := newMemHoldRepo()
	feeSink := &memFeeSink{}
	oracle := &fakeOracle{prices: prices}
	audit := &fakeEventLogger{}

	uc := NewDefaultHoldUsecase(
		deposits,
		holds,
		feeSink,
		oracle,
		passthroughTx{},
		&fakePublisher{},
		audit,
		testMetrics,
		DefaultHoldPolicy(),
		NewUserGate(),
	)

	return &holdFixture{
		uc:       uc,
		deposits: deposits,
		holds:    holds,
		feeSink:  feeSink,
		oracle:   oracle,
		audit:    audit,
	}
}

func (f *holdFixture) seedDeposit(userID string, currency domain.Currency, balance string) {
	f.deposits.put(&domain.Deposit{
		ID:       fmt.Sprintf("dep-%s-%s", userID, currency),
		UserID:   userID,
		Currency: currency,
		Balance:  decimal.RequireFromString(balance),
	})
}

func usd(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
