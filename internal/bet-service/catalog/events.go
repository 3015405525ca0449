package catalog

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/radieske/chuti-bet/internal/bet-service/model"
	"github.com/radieske/chuti-bet/internal/shared/apperr"
	"github.com/radieske/chuti-bet/internal/shared/logger"
)

type EventInput struct {
	Description string
	Date        time.Time
	HomeTeamID  int64
	AwayTeamID  int64
	Visibility  model.Visibility
}

// visible aplica a regra de visibilidade das listagens públicas.
// hidden só aparece na listagem administrativa (EventsBetween).
func visible(e model.Event, privileged bool) bool {
	switch e.Visibility {
	case model.VisibilityPublic:
		return true
	case model.VisibilityRestricted:
		return privileged
	}
	return false
}

func (s *Service) CreateEvent(ctx context.Context, in EventInput) (model.Event, error) {
	in.Description = strings.TrimSpace(in.Description)
	if in.Visibility == "" {
		in.Visibility = model.VisibilityPublic
	}
	switch {
	case in.Description == "" || in.Date.IsZero():
		return model.Event{}, apperr.Validation(apperr.CodeWrongParameters, "event needs description and date")
	case in.HomeTeamID == in.AwayTeamID:
		return model.Event{}, apperr.Validation(apperr.CodeWrongParameters, "event needs two distinct teams")
	case !in.Visibility.Valid():
		return model.Event{}, apperr.Validation(apperr.CodeWrongParameters, "unknown visibility")
	case in.Date.Before(s.now()):
		return model.Event{}, apperr.Validation(apperr.CodeOldDate, "event date is in the past")
	}
	for _, id := range []int64{in.HomeTeamID, in.AwayTeamID} {
		if _, err := s.store.TeamByID(ctx, id); err != nil {
			return model.Event{}, err
		}
	}

	e, err := s.store.CreateEvent(ctx, model.Event{
		Description: in.Description,
		Date:        in.Date,
		HomeTeamID:  in.HomeTeamID,
		AwayTeamID:  in.AwayTeamID,
		Visibility:  in.Visibility,
	})
	if err != nil {
		return model.Event{}, err
	}
	s.invalidate(ctx, e.Date)
	logger.From(ctx, s.log).Info("event created", zap.Int64("event_id", e.ID), zap.Time("date", e.Date))
	return e, nil
}

func (s *Service) Event(ctx context.Context, id int64) (model.Event, error) {
	return s.store.EventByID(ctx, id)
}

// EventsOn lista os eventos do dia visíveis para o leitor, usando o cache quando possível
func (s *Service) EventsOn(ctx context.Context, day time.Time, privileged bool) ([]model.Event, error) {
	day = dayStart(day)
	all, err := s.dayEvents(ctx, day)
	if err != nil {
		return nil, err
	}
	out := []model.Event{}
	for _, e := range all {
		if visible(e, privileged) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *Service) dayEvents(ctx context.Context, day time.Time) ([]model.Event, error) {
	log := logger.From(ctx, s.log)
	if s.cache != nil {
		evs, ok, err := s.cache.GetDay(ctx, day)
		if err != nil {
			log.Warn("catalog cache get failed", zap.Error(err))
		} else if ok {
			return evs, nil
		}
	}

	evs, err := s.store.EventsBetween(ctx, day, day.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetDay(ctx, day, evs); err != nil {
			log.Warn("catalog cache set failed", zap.Error(err))
		}
	}
	return evs, nil
}

// EventDaysInMonth devolve os dias (meia-noite UTC) do mês que têm algum evento visível
func (s *Service) EventDaysInMonth(ctx context.Context, month time.Time, privileged bool) ([]time.Time, error) {
	y, m, _ := month.UTC().Date()
	from := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	evs, err := s.store.EventsBetween(ctx, from, from.AddDate(0, 1, 0))
	if err != nil {
		return nil, err
	}

	seen := map[time.Time]struct{}{}
	out := []time.Time{}
	for _, e := range evs {
		if !visible(e, privileged) {
			continue
		}
		d := dayStart(e.Date)
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out, nil
}

// EventsBetween é a listagem administrativa: todos os eventos, inclusive hidden
func (s *Service) EventsBetween(ctx context.Context, from, to time.Time) ([]model.Event, error) {
	if !from.Before(to) {
		return nil, apperr.Validation(apperr.CodeWrongParameters, "from must be before to")
	}
	return s.store.EventsBetween(ctx, from, to)
}

func (s *Service) ChangeDescription(ctx context.Context, id int64, desc string) error {
	desc = strings.TrimSpace(desc)
	if desc == "" {
		return apperr.Validation(apperr.CodeWrongParameters, "description is required")
	}
	e, err := s.store.EventByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.UpdateEventDescription(ctx, id, desc); err != nil {
		return err
	}
	s.invalidate(ctx, e.Date)
	return nil
}

// ChangeDate não aceita data passada nem evento com pergunta já liquidada
func (s *Service) ChangeDate(ctx context.Context, id int64, date time.Time) error {
	if date.IsZero() {
		return apperr.Validation(apperr.CodeWrongParameters, "date is required")
	}
	if date.Before(s.now()) {
		return apperr.Validation(apperr.CodeOldDate, "event date is in the past")
	}
	e, err := s.store.EventByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.UpdateEventDate(ctx, id, date); err != nil {
		return err
	}
	s.invalidate(ctx, e.Date, date)
	logger.From(ctx, s.log).Info("event rescheduled", zap.Int64("event_id", id), zap.Time("from", e.Date), zap.Time("to", date))
	return nil
}

func (s *Service) SetVisibility(ctx context.Context, id int64, v model.Visibility) error {
	if !v.Valid() {
		return apperr.Validation(apperr.CodeWrongParameters, "unknown visibility")
	}
	e, err := s.store.EventByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.SetEventVisibility(ctx, id, v); err != nil {
		return err
	}
	s.invalidate(ctx, e.Date)
	return nil
}

// DeleteEvent falha com open_bets se ainda houver apostas abertas no evento
// e com bet_history se houver apostas encerradas
func (s *Service) DeleteEvent(ctx context.Context, id int64) error {
	e, err := s.store.EventByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteEvent(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, e.Date)
	logger.From(ctx, s.log).Info("event deleted", zap.Int64("event_id", id))
	return nil
}
