package catalog

import (
	"context"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/radieske/chuti-bet/internal/bet-service/model"
	"github.com/radieske/chuti-bet/internal/shared/apperr"
	"github.com/radieske/chuti-bet/internal/shared/logger"
)

func (s *Service) CreateQuestion(ctx context.Context, eventID int64, text string, minBet decimal.Decimal, mode model.QuestionMode) (model.Question, error) {
	text = strings.TrimSpace(text)
	if mode == "" {
		mode = model.ModeTeam
	}
	if text == "" || minBet.IsNegative() || (mode != model.ModeTeam && mode != model.ModeFree) {
		return model.Question{}, apperr.Validation(apperr.CodeWrongParameters, "question needs text, a non-negative minimum bet and a valid mode")
	}

	e, err := s.store.EventByID(ctx, eventID)
	if err != nil {
		return model.Question{}, err
	}
	if !e.Date.After(s.now()) {
		return model.Question{}, apperr.Validation(apperr.CodeEventFinished, "event already happened")
	}

	q, err := s.store.CreateQuestion(ctx, model.Question{EventID: eventID, Text: text, MinBet: minBet, Mode: mode})
	if err != nil {
		return model.Question{}, err
	}
	logger.From(ctx, s.log).Info("question created", zap.Int64("event_id", eventID), zap.Int64("question_id", q.ID))
	return q, nil
}

func (s *Service) Questions(ctx context.Context, eventID int64) ([]model.Question, error) {
	if _, err := s.store.EventByID(ctx, eventID); err != nil {
		return nil, err
	}
	return s.store.QuestionsByEvent(ctx, eventID)
}

func (s *Service) Question(ctx context.Context, id int64) (model.Question, error) {
	return s.store.QuestionByID(ctx, id)
}

type PrognosticInput struct {
	QuestionID int64
	Label      string
	Percentage decimal.Decimal
	TeamID     *int64
}

// OutcomeKey identifica o resultado dentro da pergunta: o time, ou o rótulo
// normalizado (caixa e espaços) nas perguntas livres
func OutcomeKey(mode model.QuestionMode, label string, teamID *int64) string {
	if mode == model.ModeTeam && teamID != nil {
		return "team:" + strconv.FormatInt(*teamID, 10)
	}
	return "label:" + strings.ToLower(strings.Join(strings.Fields(label), " "))
}

func (s *Service) CreatePrognostic(ctx context.Context, in PrognosticInput) (model.Pronostico, error) {
	in.Label = strings.TrimSpace(in.Label)
	if in.Percentage.IsNegative() {
		return model.Pronostico{}, apperr.Validation(apperr.CodeWrongParameters, "percentage must not be negative")
	}

	q, err := s.store.QuestionByID(ctx, in.QuestionID)
	if err != nil {
		return model.Pronostico{}, err
	}
	if q.Resolved() {
		return model.Pronostico{}, apperr.AlreadySettled("question already settled")
	}
	e, err := s.store.EventByID(ctx, q.EventID)
	if err != nil {
		return model.Pronostico{}, err
	}
	if !e.Date.After(s.now()) {
		return model.Pronostico{}, apperr.Validation(apperr.CodeEventFinished, "event already happened")
	}

	switch q.Mode {
	case model.ModeTeam:
		if in.TeamID == nil || (*in.TeamID != e.HomeTeamID && *in.TeamID != e.AwayTeamID) {
			return model.Pronostico{}, apperr.Validation(apperr.CodeWrongParameters, "prognostic must name a team of the event")
		}
		if in.Label == "" {
			t, err := s.store.TeamByID(ctx, *in.TeamID)
			if err != nil {
				return model.Pronostico{}, err
			}
			in.Label = t.Name
		}
	default:
		if in.Label == "" {
			return model.Pronostico{}, apperr.Validation(apperr.CodeWrongParameters, "prognostic label is required")
		}
		in.TeamID = nil
	}

	p, err := s.store.CreatePronostico(ctx, model.Pronostico{
		QuestionID: q.ID,
		Label:      in.Label,
		TeamID:     in.TeamID,
		Percentage: in.Percentage,
		OutcomeKey: OutcomeKey(q.Mode, in.Label, in.TeamID),
	})
	if err != nil {
		return model.Pronostico{}, err
	}
	logger.From(ctx, s.log).Info("prognostic created",
		zap.Int64("question_id", q.ID), zap.Int64("pronostico_id", p.ID), zap.String("percentage", p.Percentage.String()))
	return p, nil
}

func (s *Service) Pronosticos(ctx context.Context, questionID int64) ([]model.Pronostico, error) {
	if _, err := s.store.QuestionByID(ctx, questionID); err != nil {
		return nil, err
	}
	return s.store.PronosticosByQuestion(ctx, questionID)
}

// TeamsForQuestion devolve mandante e visitante do evento da pergunta
func (s *Service) TeamsForQuestion(ctx context.Context, questionID int64) ([]model.Team, error) {
	q, err := s.store.QuestionByID(ctx, questionID)
	if err != nil {
		return nil, err
	}
	e, err := s.store.EventByID(ctx, q.EventID)
	if err != nil {
		return nil, err
	}
	out := make([]model.Team, 0, 2)
	for _, id := range []int64{e.HomeTeamID, e.AwayTeamID} {
		t, err := s.store.TeamByID(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}
