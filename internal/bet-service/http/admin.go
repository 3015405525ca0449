package httpapi

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/radieske/chuti-bet/internal/bet-service/catalog"
	"github.com/radieske/chuti-bet/internal/bet-service/dto"
	"github.com/radieske/chuti-bet/internal/bet-service/model"
	"github.com/radieske/chuti-bet/internal/shared/logger"
)

func (s *Server) createTeam(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTeamRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	t, err := s.svc.Catalog.CreateTeam(r.Context(), model.Team{
		Name:      req.Name,
		Season:    req.Season,
		Founded:   req.Founded,
		Venue:     req.Venue,
		Capacity:  req.Capacity,
		President: req.President,
		Coach:     req.Coach,
		Website:   req.Website,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.Team(t))
}

// recordMatch soma vitória, empate ou derrota na campanha do time
func (s *Server) recordMatch(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req dto.MatchResultRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	t, err := s.svc.Catalog.RecordMatch(r.Context(), id, model.MatchResult(req.Result))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.Team(t))
}

func (s *Server) createEvent(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateEventRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	e, err := s.svc.Catalog.CreateEvent(r.Context(), catalog.EventInput{
		Description: req.Description,
		Date:        req.Date,
		HomeTeamID:  req.HomeTeamID,
		AwayTeamID:  req.AwayTeamID,
		Visibility:  model.Visibility(req.Visibility),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.Event(e))
}

// updateEvent aplica só os campos enviados, na ordem descrição, data, visibilidade
func (s *Server) updateEvent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req dto.UpdateEventRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	ctx := r.Context()
	if req.Description != nil {
		if err := s.svc.Catalog.ChangeDescription(ctx, id, *req.Description); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	if req.Date != nil {
		if err := s.svc.Catalog.ChangeDate(ctx, id, *req.Date); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	if req.Visibility != nil {
		if err := s.svc.Catalog.SetVisibility(ctx, id, model.Visibility(*req.Visibility)); err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	e, err := s.svc.Catalog.Event(ctx, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.Event(e))
}

func (s *Server) deleteEvent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.svc.Catalog.DeleteEvent(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) createQuestion(w http.ResponseWriter, r *http.Request) {
	eventID, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req dto.CreateQuestionRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	q, err := s.svc.Catalog.CreateQuestion(r.Context(), eventID, req.Text, req.MinBet, model.QuestionMode(req.Mode))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.Question(q))
}

func (s *Server) createPronostico(w http.ResponseWriter, r *http.Request) {
	questionID, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req dto.CreatePronosticoRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	p, err := s.svc.Catalog.CreatePrognostic(r.Context(), catalog.PrognosticInput{
		QuestionID: questionID,
		Label:      req.Label,
		Percentage: req.Percentage,
		TeamID:     req.TeamID,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.Pronostico(p))
}

// settleQuestion registra o resultado e liquida as apostas abertas.
// Em falha parcial repetir a chamada com o mesmo pronóstico retoma o trabalho.
func (s *Server) settleQuestion(w http.ResponseWriter, r *http.Request) {
	questionID, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req dto.SettleRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	total, err := s.svc.Settler.Settle(r.Context(), questionID, req.PronosticoID)
	if err != nil {
		logger.From(r.Context(), s.log).Warn("settlement incomplete",
			zap.Int64("question_id", questionID),
			zap.String("disbursed_so_far", total.String()),
		)
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.SettleResponse{QuestionID: questionID, PronosticoID: req.PronosticoID, Disbursed: total})
}

func (s *Server) listVouchers(w http.ResponseWriter, r *http.Request) {
	vs, err := s.svc.Vouchers.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.Vouchers(vs))
}

func (s *Server) createVoucher(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateVoucherRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	v, err := s.svc.Vouchers.Create(r.Context(), strings.TrimSpace(req.Code), req.MaxUses, req.Value)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.Voucher(v))
}

func (s *Server) deleteVoucher(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Vouchers.Delete(r.Context(), chi.URLParam(r, "code")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) banUser(w http.ResponseWriter, r *http.Request) {
	dni, err := pathID(r, "dni")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req dto.BanRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.svc.Accounts.Ban(r.Context(), dni, req.Message); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) unbanUser(w http.ResponseWriter, r *http.Request) {
	dni, err := pathID(r, "dni")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.svc.Accounts.Unban(r.Context(), dni); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) deleteUser(w http.ResponseWriter, r *http.Request) {
	dni, err := pathID(r, "dni")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.svc.Accounts.Delete(r.Context(), dni); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// adjustBalance é o ajuste manual de saldo; delta negativo debita
func (s *Server) adjustBalance(w http.ResponseWriter, r *http.Request) {
	dni, err := pathID(r, "dni")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req dto.AdjustRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	balance, err := s.svc.Ledger.Adjust(r.Context(), dni, req.Delta, req.Note)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.BalanceResponse{Balance: balance})
}
