// Package catalog mantém times, eventos, perguntas e pronósticos.
package catalog

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/radieske/chuti-bet/internal/bet-service/model"
	"github.com/radieske/chuti-bet/internal/shared/logger"
)

type Store interface {
	CreateTeam(ctx context.Context, t model.Team) (model.Team, error)
	TeamByID(ctx context.Context, id int64) (model.Team, error)
	TeamByName(ctx context.Context, name string, season int) (model.Team, error)
	TeamsBySeason(ctx context.Context, season int) ([]model.Team, error)
	RecordMatch(ctx context.Context, teamID int64, result model.MatchResult) (model.Team, error)

	CreateEvent(ctx context.Context, e model.Event) (model.Event, error)
	EventByID(ctx context.Context, id int64) (model.Event, error)
	EventsBetween(ctx context.Context, from, to time.Time) ([]model.Event, error)
	UpdateEventDescription(ctx context.Context, id int64, desc string) error
	UpdateEventDate(ctx context.Context, id int64, date time.Time) error
	SetEventVisibility(ctx context.Context, id int64, v model.Visibility) error
	DeleteEvent(ctx context.Context, id int64) error

	CreateQuestion(ctx context.Context, q model.Question) (model.Question, error)
	QuestionByID(ctx context.Context, id int64) (model.Question, error)
	QuestionsByEvent(ctx context.Context, eventID int64) ([]model.Question, error)

	CreatePronostico(ctx context.Context, p model.Pronostico) (model.Pronostico, error)
	PronosticosByQuestion(ctx context.Context, questionID int64) ([]model.Pronostico, error)
}

// DayCache é opcional; falhas de cache nunca bloqueiam a leitura no banco
type DayCache interface {
	GetDay(ctx context.Context, day time.Time) ([]model.Event, bool, error)
	SetDay(ctx context.Context, day time.Time, evs []model.Event) error
	InvalidateDay(ctx context.Context, day time.Time) error
}

type Service struct {
	store Store
	cache DayCache
	now   func() time.Time
	log   *zap.Logger
}

func NewService(store Store, cache DayCache, log *zap.Logger) *Service {
	return &Service{store: store, cache: cache, now: time.Now, log: log}
}

// dayStart trunca para a meia-noite UTC
func dayStart(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (s *Service) invalidate(ctx context.Context, days ...time.Time) {
	if s.cache == nil {
		return
	}
	for _, day := range days {
		if err := s.cache.InvalidateDay(ctx, dayStart(day)); err != nil {
			logger.From(ctx, s.log).Warn("catalog cache invalidate failed",
				zap.String("day", dayStart(day).Format(time.DateOnly)), zap.Error(err))
		}
	}
}
