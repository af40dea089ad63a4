package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/moneyball/internal/input"
	"github.com/yourusername/moneyball/internal/models"
	"github.com/yourusername/moneyball/internal/odds"
	"github.com/yourusername/moneyball/internal/parlay"
	"github.com/yourusername/moneyball/internal/repository"
	"github.com/yourusername/moneyball/internal/service"
	"github.com/yourusername/moneyball/internal/simulator"
)

// handler contains dependencies for HTTP handlers
type handler struct {
	calc   *service.Calculator
	logger *logrus.Logger
}

// oddsResponse shows one price in every format
type oddsResponse struct {
	odds.Price
	AmericanText   string  `json:"american_text"`
	ImpliedPercent float64 `json:"implied_percent"`
}

// sessionResponse summarises a session
type sessionResponse struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt string    `json:"created_at"`
	Legs      int       `json:"legs"`
	Plays     int       `json:"plays"`
}

// parlayResponse adds the tracker row to the aggregate
type parlayResponse struct {
	parlay.Aggregate
	EVPercent  float64 `json:"ev_percent"`
	LegsText   string  `json:"legs_text"`
	TrackerRow string  `json:"tracker_row,omitempty"`
}

func sessionID(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "sessionID")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("session %q: %w", raw, models.ErrSessionNotFound)
	}
	return id, nil
}

func (h *handler) convertOdds(w http.ResponseWriter, r *http.Request) {
	form, err := decodeForm(r)
	if err != nil {
		respondErr(w, h.logger, err)
		return
	}
	rd := input.NewReader(form)
	price := rd.Price("odds")
	if err := rd.Err(); err != nil {
		respondErr(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, oddsResponse{
		Price:          price,
		AmericanText:   odds.FormatAmericanOdds(price.American),
		ImpliedPercent: price.Implied * 100,
	})
}

func (h *handler) quote(w http.ResponseWriter, r *http.Request) {
	form, err := decodeForm(r)
	if err != nil {
		respondErr(w, h.logger, err)
		return
	}
	q, err := h.calc.Quote(form)
	if err != nil {
		respondErr(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, q)
}

func (h *handler) createSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.calc.CreateSession(r.Context())
	if err != nil {
		respondErr(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, sessionResponse{
		ID:        sess.ID,
		CreatedAt: sess.CreatedAt.Format(time.RFC3339),
	})
}

func (h *handler) getSession(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		respondErr(w, h.logger, err)
		return
	}
	sess, err := h.calc.Session(r.Context(), id)
	if err != nil {
		respondErr(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, sessionResponse{
		ID:        sess.ID,
		CreatedAt: sess.CreatedAt.Format(time.RFC3339),
		Legs:      sess.Cart.Len(),
		Plays:     sess.Board.Len(),
	})
}

func (h *handler) deleteSession(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		respondErr(w, h.logger, err)
		return
	}
	if err := h.calc.EndSession(r.Context(), id); err != nil {
		respondErr(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// simulate serves both the session route and the sessionless one.
func (h *handler) simulate(w http.ResponseWriter, r *http.Request) {
	id := uuid.Nil
	if chi.URLParam(r, "sessionID") != "" {
		var err error
		if id, err = sessionID(r); err != nil {
			respondErr(w, h.logger, err)
			return
		}
	}
	kind, err := simulator.ParseKind(chi.URLParam(r, "sport"))
	if err != nil {
		respondErr(w, h.logger, err)
		return
	}
	form, err := decodeForm(r)
	if err != nil {
		respondErr(w, h.logger, err)
		return
	}
	report, err := h.calc.Simulate(r.Context(), id, kind, form)
	if err != nil {
		respondErr(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}

func (h *handler) listPlays(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		respondErr(w, h.logger, err)
		return
	}
	plays, err := h.calc.Plays(r.Context(), id, models.Sport(r.URL.Query().Get("sport")))
	if err != nil {
		respondErr(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, plays)
}

func (h *handler) savePlay(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		respondErr(w, h.logger, err)
		return
	}
	form, err := decodeForm(r)
	if err != nil {
		respondErr(w, h.logger, err)
		return
	}
	propID := strings.TrimSpace(form["proposition_id"])
	if propID == "" {
		respondErr(w, h.logger, input.ValidationErrors{{Field: "proposition_id", Kind: input.KindMissing, Message: "is required"}})
		return
	}
	p, err := h.calc.SavePlay(r.Context(), id, propID)
	if err != nil {
		respondErr(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, p)
}

func (h *handler) removePlay(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		respondErr(w, h.logger, err)
		return
	}
	if err := h.calc.RemovePlay(r.Context(), id, chi.URLParam(r, "playID")); err != nil {
		respondErr(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) listLegs(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		respondErr(w, h.logger, err)
		return
	}
	legs, err := h.calc.Legs(r.Context(), id)
	if err != nil {
		respondErr(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, legs)
}

// addLeg accepts either {"proposition_id": ...} or a manual leg with
// sport, description, odds and prob.
func (h *handler) addLeg(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		respondErr(w, h.logger, err)
		return
	}
	form, err := decodeForm(r)
	if err != nil {
		respondErr(w, h.logger, err)
		return
	}

	var leg parlay.Leg
	if propID := strings.TrimSpace(form["proposition_id"]); propID != "" {
		leg, err = h.calc.AddPropositionLeg(r.Context(), id, propID)
	} else {
		leg, err = h.calc.AddLeg(r.Context(), id, form)
	}
	if err != nil {
		respondErr(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, leg)
}

// addBoardLegs moves the saved plays, optionally filtered by sport, into the cart.
func (h *handler) addBoardLegs(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		respondErr(w, h.logger, err)
		return
	}
	form, err := decodeForm(r)
	if err != nil {
		respondErr(w, h.logger, err)
		return
	}
	legs, err := h.calc.AddPlaysToCart(r.Context(), id, models.Sport(strings.TrimSpace(form["sport"])))
	if err != nil {
		respondErr(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, legs)
}

func (h *handler) clearLegs(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		respondErr(w, h.logger, err)
		return
	}
	n, err := h.calc.ClearLegs(r.Context(), id)
	if err != nil {
		respondErr(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"removed": n})
}

func (h *handler) removeLeg(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		respondErr(w, h.logger, err)
		return
	}
	if err := h.calc.RemoveLeg(r.Context(), id, chi.URLParam(r, "legID")); err != nil {
		respondErr(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) parlay(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		respondErr(w, h.logger, err)
		return
	}
	agg, err := h.calc.Parlay(r.Context(), id, r.URL.Query().Get("book_odds"))
	if err != nil {
		respondErr(w, h.logger, err)
		return
	}
	resp := parlayResponse{
		Aggregate: agg,
		EVPercent: agg.EVPercent(),
		LegsText:  agg.LegsText(),
	}
	if !agg.Empty() {
		resp.TrackerRow = agg.TrackerRow(time.Now().UTC())
	}
	respondJSON(w, http.StatusOK, resp)
}

// soccerParlay builds a parlay from comma separated proposition_ids, or from
// every saved soccer play when none are given.
func (h *handler) soccerParlay(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		respondErr(w, h.logger, err)
		return
	}
	form, err := decodeForm(r)
	if err != nil {
		respondErr(w, h.logger, err)
		return
	}

	var ids []string
	for _, raw := range strings.Split(form["proposition_ids"], ",") {
		if raw = strings.TrimSpace(raw); raw != "" {
			ids = append(ids, raw)
		}
	}
	combo, err := h.calc.SoccerParlay(r.Context(), id, ids, form["book_odds"])
	if err != nil {
		respondErr(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, combo)
}

func (h *handler) recordTracker(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		respondErr(w, h.logger, err)
		return
	}
	form, err := decodeForm(r)
	if err != nil {
		respondErr(w, h.logger, err)
		return
	}
	entry, err := h.calc.RecordTracker(r.Context(), id, form["book_odds"])
	if err != nil {
		respondErr(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, entry)
}

func (h *handler) listTracker(w http.ResponseWriter, r *http.Request) {
	filter := repository.TrackerFilter{SessionID: r.URL.Query().Get("session_id")}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			respondErr(w, h.logger, input.ValidationErrors{{Field: "limit", Kind: input.KindMalformed, Message: "must be a non-negative integer"}})
			return
		}
		filter.Limit = limit
	}
	entries, err := h.calc.TrackerEntries(r.Context(), filter)
	if err != nil {
		respondErr(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

func (h *handler) getTracker(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "entryID"))
	if err != nil {
		respondErr(w, h.logger, fmt.Errorf("tracker entry: %w", models.ErrNotFound))
		return
	}
	entry, err := h.calc.TrackerEntry(r.Context(), id)
	if err != nil {
		respondErr(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, entry)
}
