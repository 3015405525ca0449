package ledger

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/radieske/chuti-bet/internal/bet-service/model"
	"github.com/radieske/chuti-bet/internal/shared/apperr"
)

// memStore reproduz o UPDATE condicional do Postgres sob um mutex
type memStore struct {
	mu       sync.Mutex
	balances map[int64]decimal.Decimal
	entries  []model.LedgerEntry
}

func newMemStore(balances map[int64]decimal.Decimal) *memStore {
	return &memStore{balances: balances}
}

func (m *memStore) Credit(_ context.Context, userID int64, amount decimal.Decimal, kind model.EntryKind, ref string) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	bal, ok := m.balances[userID]
	if !ok {
		return decimal.Zero, apperr.NotFound(apperr.CodeUserNotFound, "user does not exist")
	}
	bal = bal.Add(amount)
	m.balances[userID] = bal
	m.entries = append(m.entries, model.LedgerEntry{UserID: userID, Kind: kind, Amount: amount, BalanceAfter: bal, Ref: ref})
	return bal, nil
}

func (m *memStore) Debit(_ context.Context, userID int64, amount decimal.Decimal, kind model.EntryKind, ref string) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	bal, ok := m.balances[userID]
	if !ok {
		return decimal.Zero, apperr.NotFound(apperr.CodeUserNotFound, "user does not exist")
	}
	if bal.LessThan(amount) {
		return decimal.Zero, apperr.InsufficientFunds("balance too low")
	}
	bal = bal.Sub(amount)
	m.balances[userID] = bal
	m.entries = append(m.entries, model.LedgerEntry{UserID: userID, Kind: kind, Amount: amount.Neg(), BalanceAfter: bal, Ref: ref})
	return bal, nil
}

func (m *memStore) Entries(_ context.Context, userID int64) ([]model.LedgerEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.LedgerEntry
	for _, e := range m.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCreditAndDebit(t *testing.T) {
	store := newMemStore(map[int64]decimal.Decimal{1: d("10")})
	svc := NewService(store, zap.NewNop())
	ctx := context.Background()

	bal, err := svc.Credit(ctx, 1, d("5.50"), model.EntryPayment, "payment:1")
	if err != nil {
		t.Fatalf("Credit failed: %v", err)
	}
	if !bal.Equal(d("15.50")) {
		t.Errorf("Expected balance 15.50, got %s", bal)
	}

	bal, err = svc.Debit(ctx, 1, d("15.50"), model.EntryBetPlaced, "bet:1")
	if err != nil {
		t.Fatalf("Debit failed: %v", err)
	}
	if !bal.IsZero() {
		t.Errorf("Expected balance 0, got %s", bal)
	}
}

func TestDebitBelowFloorLeavesBalance(t *testing.T) {
	store := newMemStore(map[int64]decimal.Decimal{1: d("3")})
	svc := NewService(store, zap.NewNop())

	_, err := svc.Debit(context.Background(), 1, d("3.01"), model.EntryBetPlaced, "bet:9")
	if apperr.KindOf(err) != apperr.KindInsufficientFunds {
		t.Fatalf("Expected InsufficientFunds, got %v", err)
	}
	if !store.balances[1].Equal(d("3")) {
		t.Errorf("Expected balance unchanged at 3, got %s", store.balances[1])
	}
	if len(store.entries) != 0 {
		t.Errorf("Expected no ledger entries, got %d", len(store.entries))
	}
}

func TestRejectsNonPositiveAmounts(t *testing.T) {
	svc := NewService(newMemStore(map[int64]decimal.Decimal{1: d("3")}), zap.NewNop())
	ctx := context.Background()

	for _, amount := range []string{"0", "-1"} {
		if _, err := svc.Credit(ctx, 1, d(amount), model.EntryPayment, ""); apperr.KindOf(err) != apperr.KindValidation {
			t.Errorf("Credit(%s): expected Validation, got %v", amount, err)
		}
		if _, err := svc.Debit(ctx, 1, d(amount), model.EntryPayment, ""); apperr.KindOf(err) != apperr.KindValidation {
			t.Errorf("Debit(%s): expected Validation, got %v", amount, err)
		}
	}
}

func TestAdjustRoutesBySign(t *testing.T) {
	store := newMemStore(map[int64]decimal.Decimal{7: d("20")})
	svc := NewService(store, zap.NewNop())
	ctx := context.Background()

	if _, err := svc.Adjust(ctx, 7, d("5"), "bonus"); err != nil {
		t.Fatalf("Adjust +5 failed: %v", err)
	}
	bal, err := svc.Adjust(ctx, 7, d("-12"), "chargeback")
	if err != nil {
		t.Fatalf("Adjust -12 failed: %v", err)
	}
	if !bal.Equal(d("13")) {
		t.Errorf("Expected balance 13, got %s", bal)
	}
	if _, err := svc.Adjust(ctx, 7, d("0"), "noop"); apperr.KindOf(err) != apperr.KindValidation {
		t.Errorf("Expected Validation for zero adjustment, got %v", err)
	}

	history, _ := svc.History(ctx, 7)
	if len(history) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(history))
	}
	if history[1].Kind != model.EntryAdjustment || !history[1].Amount.Equal(d("-12")) {
		t.Errorf("Expected adjustment entry of -12, got %+v", history[1])
	}
	if history[1].Ref != "adjust:chargeback" {
		t.Errorf("Expected ref adjust:chargeback, got %s", history[1].Ref)
	}
}

func TestConcurrentDebitsNeverGoNegative(t *testing.T) {
	store := newMemStore(map[int64]decimal.Decimal{1: d("10")})
	svc := NewService(store, zap.NewNop())

	var wg sync.WaitGroup
	var mu sync.Mutex
	ok := 0
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Debit(context.Background(), 1, d("1"), model.EntryBetPlaced, "bet"); err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if ok != 10 {
		t.Errorf("Expected exactly 10 successful debits, got %d", ok)
	}
	if !store.balances[1].IsZero() {
		t.Errorf("Expected balance 0, got %s", store.balances[1])
	}
}
