package voucher_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/radieske/chuti-bet/internal/bet-service/model"
	"github.com/radieske/chuti-bet/internal/bet-service/voucher"
	"github.com/radieske/chuti-bet/internal/bet-service/voucher/mock"
	"github.com/radieske/chuti-bet/internal/shared/apperr"
	"github.com/radieske/chuti-bet/pkg/contracts/events"
)

func TestRedeemStoreFailureIsPropagated(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mock.NewMockStore(ctrl)
	pub := mock.NewMockPublisher(ctrl)
	r := voucher.NewRegistry(store, pub, nil, zap.NewNop())

	store.EXPECT().RedeemVoucher(gomock.Any(), "CODE", int64(4)).
		Return(model.Voucher{}, decimal.Zero, apperr.Store(errors.New("connection refused"), "redeem voucher"))
	pub.EXPECT().PublishVoucherRedeemed(gomock.Any(), gomock.Any()).Times(0)

	_, _, err := r.Redeem(context.Background(), "CODE", 4)
	if apperr.KindOf(err) != apperr.KindStoreFailure {
		t.Fatalf("Expected StoreFailure, got %v", err)
	}
}

func TestRedeemPublishFailureDoesNotFail(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mock.NewMockStore(ctrl)
	pub := mock.NewMockPublisher(ctrl)
	r := voucher.NewRegistry(store, pub, nil, zap.NewNop())

	v := model.Voucher{Code: "CODE", MaxUses: 3, Remaining: 2, Value: decimal.NewFromInt(5)}
	store.EXPECT().RedeemVoucher(gomock.Any(), "CODE", int64(4)).Return(v, decimal.NewFromInt(5), nil)
	pub.EXPECT().PublishVoucherRedeemed(gomock.Any(), events.VoucherRedeemed{
		Code: "CODE", UserID: 4, Value: v.Value, Remaining: 2,
	}).Return(errors.New("kafka down"))

	got, _, err := r.Redeem(context.Background(), " CODE ", 4)
	if err != nil {
		t.Fatalf("Redeem failed: %v", err)
	}
	if got.Remaining != 2 {
		t.Errorf("Expected remaining 2, got %d", got.Remaining)
	}
}

func TestCreateSkipsStoreOnInvalidInput(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mock.NewMockStore(ctrl)
	r := voucher.NewRegistry(store, mock.NewMockPublisher(ctrl), nil, zap.NewNop())

	store.EXPECT().CreateVoucher(gomock.Any(), gomock.Any()).Times(0)

	if _, err := r.Create(context.Background(), "X", -1, decimal.NewFromInt(1)); apperr.KindOf(err) != apperr.KindValidation {
		t.Errorf("Expected Validation, got %v", err)
	}
}
