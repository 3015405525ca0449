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

// CreateVoucher mocks base method.
func (m *MockStore) CreateVoucher(ctx context.Context, v model.Voucher) (model.Voucher, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CreateVoucher", ctx, v)
	ret0, _ := ret[0].(model.Voucher)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// CreateVoucher indicates an expected call of CreateVoucher.
func (mr *MockStoreMockRecorder) CreateVoucher(ctx, v any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CreateVoucher", reflect.TypeOf((*MockStore)(nil).CreateVoucher), ctx, v)
}

// DeleteVoucher mocks base method.
func (m *MockStore) DeleteVoucher(ctx context.Context, code string) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "DeleteVoucher", ctx, code)
	ret0, _ := ret[0].(error)
	return ret0
}

// DeleteVoucher indicates an expected call of DeleteVoucher.
func (mr *MockStoreMockRecorder) DeleteVoucher(ctx, code any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "DeleteVoucher", reflect.TypeOf((*MockStore)(nil).DeleteVoucher), ctx, code)
}

// RedeemVoucher mocks base method.
func (m *MockStore) RedeemVoucher(ctx context.Context, code string, userID int64) (model.Voucher, decimal.Decimal, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "RedeemVoucher", ctx, code, userID)
	ret0, _ := ret[0].(model.Voucher)
	ret1, _ := ret[1].(decimal.Decimal)
	ret2, _ := ret[2].(error)
	return ret0, ret1, ret2
}

// RedeemVoucher indicates an expected call of RedeemVoucher.
func (mr *MockStoreMockRecorder) RedeemVoucher(ctx, code, userID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "RedeemVoucher", reflect.TypeOf((*MockStore)(nil).RedeemVoucher), ctx, code, userID)
}

// VoucherByCode mocks base method.
func (m *MockStore) VoucherByCode(ctx context.Context, code string) (model.Voucher, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "VoucherByCode", ctx, code)
	ret0, _ := ret[0].(model.Voucher)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// VoucherByCode indicates an expected call of VoucherByCode.
func (mr *MockStoreMockRecorder) VoucherByCode(ctx, code any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "VoucherByCode", reflect.TypeOf((*MockStore)(nil).VoucherByCode), ctx, code)
}

// Vouchers mocks base method.
func (m *MockStore) Vouchers(ctx context.Context) ([]model.Voucher, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Vouchers", ctx)
	ret0, _ := ret[0].([]model.Voucher)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Vouchers indicates an expected call of Vouchers.
func (mr *MockStoreMockRecorder) Vouchers(ctx any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Vouchers", reflect.TypeOf((*MockStore)(nil).Vouchers), ctx)
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

// PublishVoucherRedeemed mocks base method.
func (m *MockPublisher) PublishVoucherRedeemed(ctx context.Context, e events.VoucherRedeemed) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "PublishVoucherRedeemed", ctx, e)
	ret0, _ := ret[0].(error)
	return ret0
}

// PublishVoucherRedeemed indicates an expected call of PublishVoucherRedeemed.
func (mr *MockPublisherMockRecorder) PublishVoucherRedeemed(ctx, e any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "PublishVoucherRedeemed", reflect.TypeOf((*MockPublisher)(nil).PublishVoucherRedeemed), ctx, e)
}
