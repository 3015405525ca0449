package account

import (
	"context"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/radieske/chuti-bet/internal/bet-service/model"
	"github.com/radieske/chuti-bet/internal/shared/apperr"
	"github.com/radieske/chuti-bet/internal/shared/auth"
	"github.com/radieske/chuti-bet/internal/shared/logger"
)

type Store interface {
	CreateUser(ctx context.Context, u model.User) (model.User, error)
	UserByDNI(ctx context.Context, dni int64) (model.User, error)
	SetBan(ctx context.Context, dni int64, banned bool, message string) error
	DeleteUser(ctx context.Context, dni int64) error
	CreateCard(ctx context.Context, c model.Card) (model.Card, error)
	CardsByUser(ctx context.Context, dni int64) ([]model.Card, error)
	RecordPayment(ctx context.Context, p model.Payment) (model.Payment, error)
	PaymentsByUser(ctx context.Context, dni int64) ([]model.Payment, error)
}

type TokenIssuer interface {
	Issue(id auth.Identity) (string, error)
}

type RegisterInput struct {
	DNI        int64
	FirstName  string
	LastName   string
	Email      string
	Password   string
	BirthDate  time.Time
	Privileged bool
}

type Service struct {
	store  Store
	tokens TokenIssuer
	minAge int
	cost   int
	now    func() time.Time
	log    *zap.Logger
}

func NewService(store Store, tokens TokenIssuer, minAge int, log *zap.Logger) *Service {
	return &Service{store: store, tokens: tokens, minAge: minAge, cost: bcrypt.DefaultCost, now: time.Now, log: log}
}

// Age em anos completos na data now
func Age(birth, now time.Time) int {
	years := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		years--
	}
	return years
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (model.User, error) {
	in.FirstName, in.LastName, in.Email = strings.TrimSpace(in.FirstName), strings.TrimSpace(in.LastName), strings.TrimSpace(in.Email)
	if in.DNI <= 0 || in.FirstName == "" || in.LastName == "" || in.Email == "" || in.Password == "" {
		return model.User{}, apperr.Validation(apperr.CodeWrongParameters, "dni, names, email and password are required")
	}
	if in.BirthDate.IsZero() || Age(in.BirthDate, s.now()) < s.minAge {
		return model.User{}, apperr.Validation(apperr.CodeUnderage, "user must be of legal age")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return model.User{}, apperr.Validation(apperr.CodeWrongParameters, "password cannot be hashed")
	}

	u, err := s.store.CreateUser(ctx, model.User{
		DNI:          in.DNI,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		PasswordHash: string(hash),
		BirthDate:    in.BirthDate,
		Balance:      decimal.Zero,
		Privileged:   in.Privileged,
	})
	if err != nil {
		return model.User{}, err
	}
	logger.From(ctx, s.log).Info("user registered", zap.Int64("user_id", u.DNI), zap.Bool("privileged", u.Privileged))
	return u, nil
}

// Login confere a senha e emite o token com a identidade do usuário
func (s *Service) Login(ctx context.Context, dni int64, password string) (model.User, string, error) {
	u, err := s.store.UserByDNI(ctx, dni)
	if err != nil {
		return model.User{}, "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return model.User{}, "", apperr.New(apperr.KindUnauthorized, apperr.CodeBadCredentials, "wrong password")
	}
	if u.Banned {
		return model.User{}, "", apperr.New(apperr.KindForbidden, apperr.CodeUserBanned, u.BanMessage)
	}

	token, err := s.tokens.Issue(auth.Identity{UserID: u.DNI, Admin: u.Privileged})
	if err != nil {
		return model.User{}, "", apperr.Wrap(apperr.KindUnknown, apperr.CodeBadCredentials, err, "issue token")
	}
	logger.From(ctx, s.log).Info("user logged in", zap.Int64("user_id", u.DNI))
	return u, token, nil
}

func (s *Service) Get(ctx context.Context, dni int64) (model.User, error) {
	return s.store.UserByDNI(ctx, dni)
}

func (s *Service) Ban(ctx context.Context, dni int64, message string) error {
	message = strings.TrimSpace(message)
	if message == "" {
		return apperr.Validation(apperr.CodeWrongParameters, "ban message is required")
	}
	if err := s.store.SetBan(ctx, dni, true, message); err != nil {
		return err
	}
	logger.From(ctx, s.log).Info("user banned", zap.Int64("user_id", dni))
	return nil
}

func (s *Service) Unban(ctx context.Context, dni int64) error {
	if err := s.store.SetBan(ctx, dni, false, ""); err != nil {
		return err
	}
	logger.From(ctx, s.log).Info("user unbanned", zap.Int64("user_id", dni))
	return nil
}

// Delete falha com open_bets enquanto houver apostas abertas do usuário
func (s *Service) Delete(ctx context.Context, dni int64) error {
	if err := s.store.DeleteUser(ctx, dni); err != nil {
		return err
	}
	logger.From(ctx, s.log).Info("user deleted", zap.Int64("user_id", dni))
	return nil
}

// AddCard guarda só os 4 últimos dígitos e um token opaco
func (s *Service) AddCard(ctx context.Context, dni int64, number string) (model.Card, error) {
	digits := strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return -1
		}
		return r
	}, number)
	if len(digits) != 16 || strings.IndexFunc(digits, func(r rune) bool { return !unicode.IsDigit(r) }) >= 0 {
		return model.Card{}, apperr.Validation(apperr.CodeInvalidCard, "card number must have 16 digits")
	}
	if _, err := s.store.UserByDNI(ctx, dni); err != nil {
		return model.Card{}, err
	}

	c, err := s.store.CreateCard(ctx, model.Card{UserID: dni, Token: uuid.NewString(), Last4: digits[12:]})
	if err != nil {
		return model.Card{}, err
	}
	logger.From(ctx, s.log).Info("card added", zap.Int64("user_id", dni), zap.Int64("card_id", c.ID))
	return c, nil
}

func (s *Service) Cards(ctx context.Context, dni int64) ([]model.Card, error) {
	return s.store.CardsByUser(ctx, dni)
}

// MakePayment credita amount via ledger e grava o pagamento, atomicamente
func (s *Service) MakePayment(ctx context.Context, dni, cardID int64, amount decimal.Decimal) (model.Payment, error) {
	if !amount.IsPositive() {
		return model.Payment{}, apperr.Validation(apperr.CodeWrongParameters, "payment amount must be positive")
	}
	p, err := s.store.RecordPayment(ctx, model.Payment{UserID: dni, CardID: cardID, Amount: amount})
	if err != nil {
		return model.Payment{}, err
	}
	logger.From(ctx, s.log).Info("payment recorded",
		zap.Int64("user_id", dni), zap.Int64("card_id", cardID), zap.String("amount", amount.String()))
	return p, nil
}

func (s *Service) Payments(ctx context.Context, dni int64) ([]model.Payment, error) {
	return s.store.PaymentsByUser(ctx, dni)
}
