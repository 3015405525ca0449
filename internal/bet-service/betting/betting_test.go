package betting

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/radieske/chuti-bet/internal/bet-service/model"
	"github.com/radieske/chuti-bet/internal/shared/apperr"
	"github.com/radieske/chuti-bet/pkg/contracts/events"
)

type memStore struct {
	users       map[int64]model.User
	questions   map[int64]model.Question
	pronosticos map[int64]model.Pronostico
	events      map[int64]model.Event
	bets        map[int64]model.Bet
}

func (m *memStore) UserByDNI(_ context.Context, dni int64) (model.User, error) {
	u, ok := m.users[dni]
	if !ok {
		return model.User{}, apperr.NotFound(apperr.CodeUserNotFound, "user does not exist")
	}
	return u, nil
}

func (m *memStore) QuestionByID(_ context.Context, id int64) (model.Question, error) {
	q, ok := m.questions[id]
	if !ok {
		return model.Question{}, apperr.NotFound(apperr.CodeQuestionNotFound, "question does not exist")
	}
	return q, nil
}

func (m *memStore) PronosticoByID(_ context.Context, id int64) (model.Pronostico, error) {
	p, ok := m.pronosticos[id]
	if !ok {
		return model.Pronostico{}, apperr.NotFound(apperr.CodePronosticoNotFound, "pronostico does not exist")
	}
	return p, nil
}

func (m *memStore) EventByID(_ context.Context, id int64) (model.Event, error) {
	e, ok := m.events[id]
	if !ok {
		return model.Event{}, apperr.NotFound(apperr.CodeEventNotFound, "event does not exist")
	}
	return e, nil
}

func (m *memStore) PlaceBet(_ context.Context, b model.Bet) (model.Bet, decimal.Decimal, error) {
	u := m.users[b.UserID]
	if u.Balance.LessThan(b.Stake) {
		return model.Bet{}, decimal.Zero, apperr.InsufficientFunds("balance too low")
	}
	u.Balance = u.Balance.Sub(b.Stake)
	m.users[b.UserID] = u
	b.ID = int64(len(m.bets) + 1)
	m.bets[b.ID] = b
	return b, u.Balance, nil
}

func (m *memStore) CancelBet(_ context.Context, betID, userID int64) (model.Bet, error) {
	b, ok := m.bets[betID]
	if !ok || b.UserID != userID {
		return model.Bet{}, apperr.NotFound(apperr.CodeBetNotFound, "bet does not exist")
	}
	if m.questions[b.QuestionID].Resolved() {
		return model.Bet{}, apperr.AlreadySettled("question already settled")
	}
	if b.Status != model.BetOpen {
		return model.Bet{}, apperr.AlreadySettled("bet is no longer open")
	}
	b.Status = model.BetCancelled
	m.bets[betID] = b
	u := m.users[userID]
	u.Balance = u.Balance.Add(b.Stake)
	m.users[userID] = u
	return b, nil
}

func (m *memStore) BetsByUser(_ context.Context, userID int64, openOnly bool) ([]model.Bet, error) {
	out := []model.Bet{}
	for id := int64(1); id <= int64(len(m.bets)); id++ {
		b := m.bets[id]
		if b.UserID == userID && (!openOnly || b.Status == model.BetOpen) {
			out = append(out, b)
		}
	}
	return out, nil
}

type capturePub struct {
	placed    []events.BetPlaced
	cancelled []events.BetCancelled
}

func (c *capturePub) PublishBetPlaced(_ context.Context, e events.BetPlaced) error {
	c.placed = append(c.placed, e)
	return nil
}

func (c *capturePub) PublishBetCancelled(_ context.Context, e events.BetCancelled) error {
	c.cancelled = append(c.cancelled, e)
	return nil
}

var now = time.Date(2026, 10, 16, 10, 0, 0, 0, time.UTC)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newTestService(t *testing.T) (*Service, *memStore, *capturePub) {
	t.Helper()
	store := &memStore{
		users: map[int64]model.User{
			1: {DNI: 1, Balance: d("100")},
			2: {DNI: 2, Balance: d("100"), Banned: true, BanMessage: "fraud"},
		},
		events: map[int64]model.Event{
			1: {ID: 1, Date: now.Add(24 * time.Hour)},
			2: {ID: 2, Date: now.Add(-time.Hour)},
		},
		questions: map[int64]model.Question{
			10: {ID: 10, EventID: 1, MinBet: d("5")},
			11: {ID: 11, EventID: 2},
			12: {ID: 12, EventID: 1},
		},
		pronosticos: map[int64]model.Pronostico{
			100: {ID: 100, QuestionID: 10, Percentage: d("50")},
			110: {ID: 110, QuestionID: 11},
			120: {ID: 120, QuestionID: 12},
		},
		bets: map[int64]model.Bet{},
	}
	resolved := int64(120)
	q := store.questions[12]
	q.ResultID = &resolved
	store.questions[12] = q

	pub := &capturePub{}
	svc := NewService(store, pub, nil, zap.NewNop())
	svc.now = func() time.Time { return now }
	return svc, store, pub
}

func TestPlaceDebitsStake(t *testing.T) {
	svc, store, pub := newTestService(t)

	b, bal, err := svc.Place(context.Background(), 1, 10, 100, d("30"))
	if err != nil {
		t.Fatalf("Place failed: %v", err)
	}
	if b.Status != model.BetOpen || !b.Stake.Equal(d("30")) {
		t.Errorf("Unexpected bet %+v", b)
	}
	if !bal.Equal(d("70")) || !store.users[1].Balance.Equal(d("70")) {
		t.Errorf("Expected balance 70, got %s", bal)
	}
	if len(pub.placed) != 1 || pub.placed[0].BetID != b.ID {
		t.Errorf("Expected bet placed event, got %+v", pub.placed)
	}
}

func TestPlaceRules(t *testing.T) {
	tests := []struct {
		name       string
		user       int64
		question   int64
		pronostico int64
		stake      string
		wantKind   apperr.Kind
		wantCode   string
	}{
		{name: "zero stake", user: 1, question: 10, pronostico: 100, stake: "0", wantKind: apperr.KindValidation, wantCode: apperr.CodeWrongParameters},
		{name: "below minimum", user: 1, question: 10, pronostico: 100, stake: "4.99", wantKind: apperr.KindValidation, wantCode: apperr.CodeWrongParameters},
		{name: "foreign pronostico", user: 1, question: 10, pronostico: 110, stake: "10", wantKind: apperr.KindValidation, wantCode: apperr.CodeInvalidOutcome},
		{name: "missing pronostico", user: 1, question: 10, pronostico: 999, stake: "10", wantKind: apperr.KindValidation, wantCode: apperr.CodeInvalidOutcome},
		{name: "event finished", user: 1, question: 11, pronostico: 110, stake: "10", wantKind: apperr.KindValidation, wantCode: apperr.CodeEventFinished},
		{name: "question settled", user: 1, question: 12, pronostico: 120, stake: "10", wantKind: apperr.KindAlreadySettled, wantCode: apperr.CodeAlreadySettled},
		{name: "banned user", user: 2, question: 10, pronostico: 100, stake: "10", wantKind: apperr.KindForbidden, wantCode: apperr.CodeUserBanned},
		{name: "unknown user", user: 3, question: 10, pronostico: 100, stake: "10", wantKind: apperr.KindNotFound, wantCode: apperr.CodeUserNotFound},
		{name: "insufficient funds", user: 1, question: 10, pronostico: 100, stake: "100.01", wantKind: apperr.KindInsufficientFunds, wantCode: apperr.CodeNotEnoughChuti},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store, pub := newTestService(t)
			before := store.users[tt.user].Balance

			_, _, err := svc.Place(context.Background(), tt.user, tt.question, tt.pronostico, d(tt.stake))
			if apperr.KindOf(err) != tt.wantKind || !apperr.HasCode(err, tt.wantCode) {
				t.Fatalf("Expected %v/%s, got %v", tt.wantKind, tt.wantCode, err)
			}
			if !store.users[tt.user].Balance.Equal(before) {
				t.Errorf("Expected balance unchanged, got %s", store.users[tt.user].Balance)
			}
			if len(pub.placed) != 0 {
				t.Error("Expected no event on failure")
			}
		})
	}
}

func TestCancelRefunds(t *testing.T) {
	svc, store, pub := newTestService(t)
	ctx := context.Background()
	b, _, _ := svc.Place(ctx, 1, 10, 100, d("30"))

	if _, err := svc.Cancel(ctx, 2, b.ID); apperr.KindOf(err) != apperr.KindNotFound {
		t.Errorf("Expected NotFound for another user's bet, got %v", err)
	}

	got, err := svc.Cancel(ctx, 1, b.ID)
	if err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if got.Status != model.BetCancelled {
		t.Errorf("Expected cancelled, got %s", got.Status)
	}
	if !store.users[1].Balance.Equal(d("100")) {
		t.Errorf("Expected balance restored to 100, got %s", store.users[1].Balance)
	}
	if len(pub.cancelled) != 1 || !pub.cancelled[0].Refund.Equal(d("30")) {
		t.Errorf("Expected cancelled event with refund 30, got %+v", pub.cancelled)
	}
}

func TestCancelAfterSettlement(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()
	b, _, _ := svc.Place(ctx, 1, 10, 100, d("30"))

	settled := store.bets[b.ID]
	settled.Status = model.BetLost
	store.bets[b.ID] = settled

	_, err := svc.Cancel(ctx, 1, b.ID)
	if apperr.KindOf(err) != apperr.KindAlreadySettled {
		t.Fatalf("Expected AlreadySettled, got %v", err)
	}
	if !store.users[1].Balance.Equal(d("70")) {
		t.Errorf("Expected balance unchanged at 70, got %s", store.users[1].Balance)
	}
}

func TestCancelAfterResultRecorded(t *testing.T) {
	svc, store, pub := newTestService(t)
	ctx := context.Background()
	b, _, err := svc.Place(ctx, 1, 10, 100, d("30"))
	if err != nil {
		t.Fatalf("Place failed: %v", err)
	}

	// resultado gravado, liquidação ainda não passou pela aposta
	result := int64(100)
	q := store.questions[10]
	q.ResultID = &result
	store.questions[10] = q

	_, err = svc.Cancel(ctx, 1, b.ID)
	if apperr.KindOf(err) != apperr.KindAlreadySettled {
		t.Fatalf("Expected AlreadySettled, got %v", err)
	}
	if store.bets[b.ID].Status != model.BetOpen {
		t.Errorf("Expected bet to stay open for settlement, got %s", store.bets[b.ID].Status)
	}
	if !store.users[1].Balance.Equal(d("70")) {
		t.Errorf("Expected balance unchanged at 70, got %s", store.users[1].Balance)
	}
	if len(pub.cancelled) != 0 {
		t.Errorf("Expected no cancelled event, got %+v", pub.cancelled)
	}
}

func TestForUserFiltersOpen(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()
	first, _, _ := svc.Place(ctx, 1, 10, 100, d("10"))
	_, _, _ = svc.Place(ctx, 1, 10, 100, d("10"))

	won := store.bets[first.ID]
	won.Status = model.BetWon
	store.bets[first.ID] = won

	all, _ := svc.ForUser(ctx, 1, false)
	open, _ := svc.ForUser(ctx, 1, true)
	if len(all) != 2 || len(open) != 1 {
		t.Errorf("Expected 2 bets and 1 open, got %d and %d", len(all), len(open))
	}
}

func TestPlaceMetrics(t *testing.T) {
	svc, _, _ := newTestService(t)
	svc.metrics = NewMetrics(prometheus.NewRegistry())
	ctx := context.Background()

	b, _, _ := svc.Place(ctx, 1, 10, 100, d("12.5"))
	_, _ = svc.Cancel(ctx, 1, b.ID)

	if got := testutil.ToFloat64(svc.metrics.Placed); got != 1 {
		t.Errorf("Expected 1 placed, got %v", got)
	}
	if got := testutil.ToFloat64(svc.metrics.Staked); got != 12.5 {
		t.Errorf("Expected 12.5 staked, got %v", got)
	}
	if got := testutil.ToFloat64(svc.metrics.Cancelled); got != 1 {
		t.Errorf("Expected 1 cancelled, got %v", got)
	}
}
