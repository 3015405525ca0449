package mock

import (
	context "context"
	reflect "reflect"

	decimal "github.com/shopspring/decimal"
	gomock "go.uber.org/mock/gomock"

	model "github.com/radieske/chuti-bet/internal/bet-service/model"
	events "github.com/radieske/chuti-bet/pkg/contracts/events"
)

// MockStore is a mock of Store interface.
type MockStore struct {
	ctrl     *gomock.Controller
	recorder *MockStoreMockRecorder
	isgomock struct{}
}

// MockStoreMockRecorder is the mock recorder for MockStore.
type MockStoreMockRecorder struct {
	mock *MockStore
}

// NewMockStore creates a new mock instance.
func NewMockStore(ctrl *gomock.Controller) *MockStore {
	mock := &MockStore{ctrl: ctrl}
	mock.recorder = &MockStoreMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockStore) EXPECT() *MockStoreMockRecorder {
	return m.recorder
}

// OpenBetsByQuestion mocks base method.
func (m *MockStore) OpenBetsByQuestion(ctx context.Context, questionID int64) ([]model.Bet, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "OpenBetsByQuestion", ctx, questionID)
	ret0, _ := ret[0].([]model.Bet)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// OpenBetsByQuestion indicates an expected call of OpenBetsByQuestion.
func (mr *MockStoreMockRecorder) OpenBetsByQuestion(ctx, questionID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "OpenBetsByQuestion", reflect.TypeOf((*MockStore)(nil).OpenBetsByQuestion), ctx, questionID)
}

// PronosticoByID mocks base method.
func (m *MockStore) PronosticoByID(ctx context.Context, id int64) (model.Pronostico, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "PronosticoByID", ctx, id)
	ret0, _ := ret[0].(model.Pronostico)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// PronosticoByID indicates an expected call of PronosticoByID.
func (mr *MockStoreMockRecorder) PronosticoByID(ctx, id any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "PronosticoByID", reflect.TypeOf((*MockStore)(nil).PronosticoByID), ctx, id)
}

// QuestionByID mocks base method.
func (m *MockStore) QuestionByID(ctx context.Context, id int64) (model.Question, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "QuestionByID", ctx, id)
	ret0, _ := ret[0].(model.Question)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// QuestionByID indicates an expected call of QuestionByID.
func (mr *MockStoreMockRecorder) QuestionByID(ctx, id any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "QuestionByID", reflect.TypeOf((*MockStore)(nil).QuestionByID), ctx, id)
}

// RecordResult mocks base method.
func (m *MockStore) RecordResult(ctx context.Context, questionID, pronosticoID int64) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "RecordResult", ctx, questionID, pronosticoID)
	ret0, _ := ret[0].(error)
	return ret0
}

// RecordResult indicates an expected call of RecordResult.
func (mr *MockStoreMockRecorder) RecordResult(ctx, questionID, pronosticoID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "RecordResult", reflect.TypeOf((*MockStore)(nil).RecordResult), ctx, questionID, pronosticoID)
}

// SettleBet mocks base method.
func (m *MockStore) SettleBet(ctx context.Context, b model.Bet, status model.BetStatus, payout decimal.Decimal) (bool, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "SettleBet", ctx, b, status, payout)
	ret0, _ := ret[0].(bool)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// SettleBet indicates an expected call of SettleBet.
func (mr *MockStoreMockRecorder) SettleBet(ctx, b, status, payout any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SettleBet", reflect.TypeOf((*MockStore)(nil).SettleBet), ctx, b, status, payout)
}

// MockPublisher is a mock of Publisher interface.
type MockPublisher struct {
	ctrl     *gomock.Controller
	recorder *MockPublisherMockRecorder
	isgomock struct{}
}

// MockPublisherMockRecorder is the mock recorder for MockPublisher.
type MockPublisherMockRecorder struct {
	mock *MockPublisher
}

// NewMockPublisher creates a new mock instance.
func NewMockPublisher(ctrl *gomock.Controller) *MockPublisher {
	mock := &MockPublisher{ctrl: ctrl}
	mock.recorder = &MockPublisherMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockPublisher) EXPECT() *MockPublisherMockRecorder {
	return m.recorder
}

// PublishBetSettled mocks base method.
func (m *MockPublisher) PublishBetSettled(ctx context.Context, e events.BetSettled) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "PublishBetSettled", ctx, e)
	ret0, _ := ret[0].(error)
	return ret0
}

// PublishBetSettled indicates an expected call of PublishBetSettled.
func (mr *MockPublisherMockRecorder) PublishBetSettled(ctx, e any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "PublishBetSettled", reflect.TypeOf((*MockPublisher)(nil).PublishBetSettled), ctx, e)
}
