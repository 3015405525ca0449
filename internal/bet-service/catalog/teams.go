package catalog

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/radieske/chuti-bet/internal/bet-service/model"
	"github.com/radieske/chuti-bet/internal/shared/apperr"
	"github.com/radieske/chuti-bet/internal/shared/logger"
)

func (s *Service) CreateTeam(ctx context.Context, t model.Team) (model.Team, error) {
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" || t.Season <= 0 || t.Capacity < 0 {
		return model.Team{}, apperr.Validation(apperr.CodeWrongParameters, "team needs a name and a season")
	}
	out, err := s.store.CreateTeam(ctx, t)
	if err != nil {
		return model.Team{}, err
	}
	logger.From(ctx, s.log).Info("team created", zap.Int64("team_id", out.ID), zap.String("name", out.Name), zap.Int("season", out.Season))
	return out, nil
}

func (s *Service) Teams(ctx context.Context, season int) ([]model.Team, error) {
	return s.store.TeamsBySeason(ctx, season)
}

func (s *Service) Team(ctx context.Context, name string, season int) (model.Team, error) {
	return s.store.TeamByName(ctx, strings.TrimSpace(name), season)
}

// RecordMatch soma uma vitória, empate ou derrota à campanha do time
func (s *Service) RecordMatch(ctx context.Context, teamID int64, result model.MatchResult) (model.Team, error) {
	switch result {
	case model.MatchWin, model.MatchDraw, model.MatchLoss:
	default:
		return model.Team{}, apperr.Validation(apperr.CodeWrongParameters, "result must be win, draw or loss")
	}
	return s.store.RecordMatch(ctx, teamID, result)
}
