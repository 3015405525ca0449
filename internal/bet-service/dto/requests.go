package dto

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/radieske/chuti-bet/internal/shared/apperr"
)

var validate = validator.New()

// Validate aplica as tags `validate` e traduz a primeira falha em erro de validação
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return apperr.Validation(apperr.CodeWrongParameters,
			strings.ToLower(fe.Field())+" failed "+fe.Tag())
	}
	return apperr.Validation(apperr.CodeWrongParameters, err.Error())
}

type RegisterRequest struct {
	DNI       int64  `json:"dni" validate:"required,gt=0"`
	FirstName string `json:"firstName" validate:"required,max=80"`
	LastName  string `json:"lastName" validate:"required,max=80"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6,max=72"` // limite do bcrypt
	BirthDate string `json:"birthDate" validate:"required,datetime=2006-01-02"`
}

func (r RegisterRequest) Birth() time.Time {
	t, _ := time.Parse(time.DateOnly, r.BirthDate)
	return t
}

type LoginRequest struct {
	DNI      int64  `json:"dni" validate:"required,gt=0"`
	Password string `json:"password" validate:"required"`
}

// PlaceBetRequest: o valor é conferido pelo serviço (positivo e >= aposta mínima)
type PlaceBetRequest struct {
	QuestionID   int64           `json:"questionId" validate:"required,gt=0"`
	PronosticoID int64           `json:"pronosticoId" validate:"required,gt=0"`
	Stake        decimal.Decimal `json:"stake"`
}

type AddCardRequest struct {
	Number string `json:"number" validate:"required,max=32"`
}

type PaymentRequest struct {
	CardID int64           `json:"cardId" validate:"required,gt=0"`
	Amount decimal.Decimal `json:"amount"`
}

type CreateTeamRequest struct {
	Name      string `json:"name" validate:"required,max=100"`
	Season    int    `json:"season" validate:"required,gte=1900,lte=3000"`
	Founded   int    `json:"founded" validate:"gte=0"`
	Venue     string `json:"venue"`
	Capacity  int    `json:"capacity" validate:"gte=0"`
	President string `json:"president"`
	Coach     string `json:"coach"`
	Website   string `json:"website" validate:"omitempty,url"`
}

type MatchResultRequest struct {
	Result string `json:"result" validate:"required,oneof=win draw loss"`
}

type CreateEventRequest struct {
	Description string    `json:"description" validate:"required,max=200"`
	Date        time.Time `json:"date" validate:"required"`
	HomeTeamID  int64     `json:"homeTeamId" validate:"required,gt=0"`
	AwayTeamID  int64     `json:"awayTeamId" validate:"required,gt=0,nefield=HomeTeamID"`
	Visibility  string    `json:"visibility" validate:"omitempty,oneof=public restricted hidden"`
}

// UpdateEventRequest: só os campos presentes são alterados
type UpdateEventRequest struct {
	Description *string    `json:"description" validate:"omitempty,min=1,max=200"`
	Date        *time.Time `json:"date"`
	Visibility  *string    `json:"visibility" validate:"omitempty,oneof=public restricted hidden"`
}

type CreateQuestionRequest struct {
	Text   string          `json:"text" validate:"required,max=200"`
	MinBet decimal.Decimal `json:"minBet"`
	Mode   string          `json:"mode" validate:"omitempty,oneof=team free"`
}

type CreatePronosticoRequest struct {
	Label      string          `json:"label" validate:"max=100"`
	Percentage decimal.Decimal `json:"percentage"`
	TeamID     *int64          `json:"teamId" validate:"omitempty,gt=0"`
}

type SettleRequest struct {
	PronosticoID int64 `json:"pronosticoId" validate:"required,gt=0"`
}

type CreateVoucherRequest struct {
	Code    string          `json:"code" validate:"required,max=64"`
	MaxUses int             `json:"maxUses" validate:"required,gt=0"`
	Value   decimal.Decimal `json:"value"`
}

type BanRequest struct {
	Message string `json:"message" validate:"required,max=200"`
}

type AdjustRequest struct {
	Delta decimal.Decimal `json:"delta"`
	Note  string          `json:"note" validate:"required,max=100"`
}
