// Package service ties the simulators, session state and the tracker ledger
// together behind one API used by both the HTTP server and the CLI.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/moneyball/internal/ev"
	"github.com/yourusername/moneyball/internal/input"
	"github.com/yourusername/moneyball/internal/logger"
	"github.com/yourusername/moneyball/internal/metrics"
	"github.com/yourusername/moneyball/internal/models"
	"github.com/yourusername/moneyball/internal/parlay"
	"github.com/yourusername/moneyball/internal/repository"
	"github.com/yourusername/moneyball/internal/session"
	"github.com/yourusername/moneyball/internal/simulator"
)

// Calculator runs simulations and manages per-session boards, carts and
// tracker entries.
type Calculator struct {
	sim      *simulator.Simulator
	tiers    ev.TierSet
	sessions *session.Store
	tracker  repository.TrackerRepository
	logger   *logrus.Logger
	simLog   *logger.SimulationLogger
	audit    *logger.AuditLogger
	now      func() time.Time
}

// NewCalculator creates a calculator service
func NewCalculator(
	tiers ev.TierSet,
	sessions *session.Store,
	tracker repository.TrackerRepository,
	log *logrus.Logger,
) *Calculator {
	if tiers == nil {
		tiers = ev.DefaultTierSet()
	}
	c := &Calculator{
		sim:      simulator.New(tiers),
		tiers:    tiers,
		sessions: sessions,
		tracker:  tracker,
		logger:   log,
		simLog:   logger.NewSimulationLogger(log),
		audit:    logger.NewAuditLogger(log),
		now:      time.Now,
	}
	sessions.OnEvict(func(id uuid.UUID) {
		c.audit.LogSessionEnded(id.String(), "evicted")
	})
	return c
}

// Tiers returns the tier tables in use
func (c *Calculator) Tiers() ev.TierSet {
	return c.tiers
}

// CreateSession starts a new session
func (c *Calculator) CreateSession(ctx context.Context) (*session.Session, error) {
	sess, err := c.sessions.Create(ctx)
	if err != nil {
		c.logger.WithError(err).Warn("Session creation refused")
		return nil, err
	}
	c.audit.LogSessionCreated(sess.ID.String(), sess.CreatedAt)
	metrics.UpdateActiveSessions(c.sessions.Count())
	return sess, nil
}

// Session returns a live session and extends its expiry
func (c *Calculator) Session(ctx context.Context, id uuid.UUID) (*session.Session, error) {
	return c.sessions.Get(ctx, id)
}

// EndSession deletes a session
func (c *Calculator) EndSession(ctx context.Context, id uuid.UUID) error {
	if err := c.sessions.Delete(ctx, id); err != nil {
		return err
	}
	metrics.UpdateActiveSessions(c.sessions.Count())
	return nil
}

// SweepSessions drops expired sessions and refreshes the gauge
func (c *Calculator) SweepSessions() int {
	remaining := c.sessions.Sweep()
	metrics.UpdateActiveSessions(remaining)
	return remaining
}

// RefreshGauges publishes the live session count
func (c *Calculator) RefreshGauges() {
	metrics.UpdateActiveSessions(c.sessions.Count())
}

// Simulate runs kind over form. When sessionID is non-nil the propositions
// are remembered on the session so they can be saved or added by id.
func (c *Calculator) Simulate(ctx context.Context, sessionID uuid.UUID, kind simulator.Kind, form input.Form) (simulator.Report, error) {
	var sess *session.Session
	if sessionID != uuid.Nil {
		var err error
		if sess, err = c.sessions.Get(ctx, sessionID); err != nil {
			return nil, err
		}
	}

	start := time.Now()
	report, err := c.sim.Run(kind, form)
	elapsed := time.Since(start)
	if err != nil {
		var ve input.ValidationErrors
		if errors.As(err, &ve) {
			for _, fe := range ve {
				metrics.RecordInputError(string(fe.Kind))
			}
			c.simLog.LogInputRejected(sessionID.String(), string(kind), ve.Fields())
		}
		return nil, fmt.Errorf("%s simulation: %w", kind, err)
	}

	props := report.Propositions()
	if sess != nil {
		for _, p := range props {
			if err := sess.Recent.Save(p); err != nil {
				return nil, fmt.Errorf("remember proposition: %w", err)
			}
		}
	}

	metrics.RecordSimulation(string(kind), elapsed.Seconds())
	priced, best := summarize(props)
	c.simLog.LogSimulation(sessionID.String(), string(kind), len(props), priced, string(best), float64(elapsed.Microseconds())/1000)
	return report, nil
}

// summarize counts priced propositions and finds the best tier among them.
func summarize(props []models.Proposition) (int, models.Tier) {
	rank := map[models.Tier]int{models.TierElite: 4, models.TierStrong: 3, models.TierModerate: 2, models.TierRisky: 1}
	priced := 0
	var best models.Tier
	for _, p := range props {
		if p.HasOdds() {
			priced++
		}
		if rank[p.Tier] > rank[best] {
			best = p.Tier
		}
	}
	return priced, best
}

// proposition finds id among the session's recent results, then its board.
func (c *Calculator) proposition(sess *session.Session, id string) (models.Proposition, error) {
	if p, err := sess.Recent.Get(id); err == nil {
		return p, nil
	}
	p, err := sess.Board.Get(id)
	if err != nil {
		return models.Proposition{}, fmt.Errorf("proposition %s: %w", id, err)
	}
	return p, nil
}

// SavePlay copies a recent proposition onto the session board
func (c *Calculator) SavePlay(ctx context.Context, sessionID uuid.UUID, propositionID string) (models.Proposition, error) {
	sess, err := c.sessions.Get(ctx, sessionID)
	if err != nil {
		return models.Proposition{}, err
	}
	p, err := c.proposition(sess, propositionID)
	if err != nil {
		return models.Proposition{}, err
	}
	if err := sess.Board.Save(p); err != nil {
		return models.Proposition{}, err
	}
	return p, nil
}

// RemovePlay drops a proposition from the session board
func (c *Calculator) RemovePlay(ctx context.Context, sessionID uuid.UUID, propositionID string) error {
	sess, err := c.sessions.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	if !sess.Board.Remove(propositionID) {
		return fmt.Errorf("play %s: %w", propositionID, models.ErrNotFound)
	}
	return nil
}

// Plays lists the session board, optionally for one sport
func (c *Calculator) Plays(ctx context.Context, sessionID uuid.UUID, sport models.Sport) ([]models.Proposition, error) {
	sess, err := c.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Board.Plays(sport), nil
}

// AddPropositionLeg pushes a priced proposition into the session cart
func (c *Calculator) AddPropositionLeg(ctx context.Context, sessionID uuid.UUID, propositionID string) (parlay.Leg, error) {
	sess, err := c.sessions.Get(ctx, sessionID)
	if err != nil {
		return parlay.Leg{}, err
	}
	p, err := c.proposition(sess, propositionID)
	if err != nil {
		return parlay.Leg{}, err
	}
	if !p.HasOdds() {
		return parlay.Leg{}, input.ValidationErrors{{
			Field:   "odds",
			Kind:    input.KindMissing,
			Message: "proposition has no sportsbook odds",
		}}
	}
	return c.addLeg(sess, p.Sport, p.Description, *p.AmericanOdds, p.TrueProbability)
}

// LegInput is a manually entered leg
type LegInput struct {
	Sport           models.Sport
	Description     string
	AmericanOdds    float64
	TrueProbability float64
}

// ParseLeg reads sport, description, odds (American or decimal) and prob
// (percent or fraction) from form.
func ParseLeg(form input.Form) (LegInput, error) {
	r := input.NewReader(form)
	in := LegInput{
		Sport:       models.Sport(r.Text("sport", "Custom")),
		Description: r.Text("description", ""),
	}
	if in.Description == "" {
		r.Fail("description", input.KindMissing, "is required")
	}
	price := r.Price("odds")
	in.AmericanOdds = price.American
	in.TrueProbability = r.Percent("prob")
	if in.TrueProbability > 1 {
		r.Fail("prob", input.KindDomain, "must be at most 100%")
	}
	if err := r.Err(); err != nil {
		return LegInput{}, err
	}
	return in, nil
}

// AddLeg parses a manual leg and adds it to the session cart
func (c *Calculator) AddLeg(ctx context.Context, sessionID uuid.UUID, form input.Form) (parlay.Leg, error) {
	sess, err := c.sessions.Get(ctx, sessionID)
	if err != nil {
		return parlay.Leg{}, err
	}
	in, err := ParseLeg(form)
	if err != nil {
		var ve input.ValidationErrors
		if errors.As(err, &ve) {
			for _, fe := range ve {
				metrics.RecordInputError(string(fe.Kind))
			}
		}
		return parlay.Leg{}, err
	}
	return c.addLeg(sess, in.Sport, in.Description, in.AmericanOdds, in.TrueProbability)
}

func (c *Calculator) addLeg(sess *session.Session, sport models.Sport, description string, american, trueP float64) (parlay.Leg, error) {
	leg, err := sess.Cart.Add(sport, description, american, trueP)
	if err != nil {
		return parlay.Leg{}, err
	}
	metrics.RecordLegAdded()
	c.audit.LogLegAdded(sess.ID.String(), leg.ID, string(leg.Sport), leg.Description, leg.AmericanOdds, leg.TrueProbability)
	return leg, nil
}

// AddPlaysToCart pushes every priced play on the session board into the
// cart, optionally for one sport. Plays without odds are skipped.
func (c *Calculator) AddPlaysToCart(ctx context.Context, sessionID uuid.UUID, sport models.Sport) ([]parlay.Leg, error) {
	sess, err := c.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	added := []parlay.Leg{}
	for _, p := range sess.Board.Plays(sport) {
		if !p.HasOdds() {
			continue
		}
		leg, err := c.addLeg(sess, p.Sport, p.Description, *p.AmericanOdds, p.TrueProbability)
		if err != nil {
			return added, fmt.Errorf("play %s: %w", p.ID, err)
		}
		added = append(added, leg)
	}
	return added, nil
}

// Legs lists the session cart in insertion order
func (c *Calculator) Legs(ctx context.Context, sessionID uuid.UUID) ([]parlay.Leg, error) {
	sess, err := c.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Cart.Legs(), nil
}

// RemoveLeg drops one leg from the session cart
func (c *Calculator) RemoveLeg(ctx context.Context, sessionID uuid.UUID, legID string) error {
	sess, err := c.sessions.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	if !sess.Cart.Remove(legID) {
		return fmt.Errorf("leg %s: %w", legID, models.ErrNotFound)
	}
	metrics.RecordLegsRemoved(1)
	c.audit.LogLegRemoved(sess.ID.String(), legID)
	return nil
}

// ClearLegs empties the session cart and returns how many legs it held
func (c *Calculator) ClearLegs(ctx context.Context, sessionID uuid.UUID) (int, error) {
	sess, err := c.sessions.Get(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	n := sess.Cart.Len()
	sess.Cart.Clear()
	metrics.RecordLegsRemoved(n)
	c.audit.LogCartCleared(sess.ID.String(), n)
	return n, nil
}

// Parlay aggregates the session cart. bookOdds, when non-blank, overrides
// the auto-computed price.
func (c *Calculator) Parlay(ctx context.Context, sessionID uuid.UUID, bookOdds string) (parlay.Aggregate, error) {
	sess, err := c.sessions.Get(ctx, sessionID)
	if err != nil {
		return parlay.Aggregate{}, err
	}
	agg := sess.Cart.Aggregate(bookOdds, c.tiers.Table(ev.TableParlayEV))
	c.recordAggregate(sess.ID.String(), agg)
	return agg, nil
}

// Combine aggregates legs that live outside any session, as the CLI does.
func (c *Calculator) Combine(legs []parlay.Leg, bookOdds string) parlay.Aggregate {
	agg := parlay.Combine(legs, bookOdds)
	if !agg.Empty() {
		agg.Tier = c.tiers.Table(ev.TableParlayEV).Classify(agg.EVPercent())
	}
	c.recordAggregate("", agg)
	return agg
}

// SoccerParlay combines soccer propositions at their decimal prices and tiers
// the result on EV per dollar. With no ids it uses every soccer play saved to
// the session board.
func (c *Calculator) SoccerParlay(ctx context.Context, sessionID uuid.UUID, propositionIDs []string, bookOdds string) (parlay.Combination, error) {
	sess, err := c.sessions.Get(ctx, sessionID)
	if err != nil {
		return parlay.Combination{}, err
	}

	var props []models.Proposition
	if len(propositionIDs) == 0 {
		props = sess.Board.Plays(models.SportSoccer)
	} else {
		for _, id := range propositionIDs {
			p, err := c.proposition(sess, id)
			if err != nil {
				return parlay.Combination{}, err
			}
			props = append(props, p)
		}
	}

	var verrs input.ValidationErrors
	selections := make([]parlay.Selection, 0, len(props))
	for _, p := range props {
		if p.Sport != models.SportSoccer || !p.HasOdds() {
			verrs = append(verrs, &input.FieldError{
				Field:   "proposition_ids",
				Kind:    input.KindDomain,
				Message: fmt.Sprintf("%s is not a priced soccer market", p.ID),
			})
			continue
		}
		selections = append(selections, parlay.Selection{
			ID:              p.ID,
			Label:           p.Description,
			DecimalOdds:     p.DecimalOdds,
			TrueProbability: p.TrueProbability,
		})
	}
	if len(verrs) > 0 {
		return parlay.Combination{}, verrs
	}

	combo, err := parlay.Build(selections, bookOdds, c.tiers.Table(ev.TableSoccerParlayEV))
	if err != nil {
		return parlay.Combination{}, err
	}
	metrics.RecordParlayEvaluation()
	c.simLog.LogParlayEvaluation(sess.ID.String(), len(combo.Selections), combo.TrueProbability, combo.EVPerDollar*100, string(combo.Tier), combo.UsingBookPrice)
	return combo, nil
}

func (c *Calculator) recordAggregate(sessionID string, agg parlay.Aggregate) {
	metrics.RecordParlayEvaluation()
	if agg.ManualOddsErr != nil {
		c.logger.WithError(agg.ManualOddsErr).WithField("session_id", sessionID).Warn("Ignoring malformed book odds")
	}
	c.simLog.LogParlayEvaluation(sessionID, len(agg.Legs), agg.TrueProbability, agg.EVPercent(), string(agg.Tier), agg.BookOdds != nil)
}

// RecordTracker stores the current parlay as a tracker entry
func (c *Calculator) RecordTracker(ctx context.Context, sessionID uuid.UUID, bookOdds string) (*models.TrackerEntry, error) {
	agg, err := c.Parlay(ctx, sessionID, bookOdds)
	if err != nil {
		return nil, err
	}
	if agg.Empty() {
		return nil, fmt.Errorf("tracker entry: %w", models.ErrInsufficientLegs)
	}

	entry := agg.TrackerEntry(sessionID.String(), c.now().UTC())
	if err := c.tracker.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to record tracker entry: %w", err)
	}

	metrics.RecordTrackerEntry()
	c.audit.LogTrackerRecorded(entry.ID.String(), entry.SessionID, entry.LegCount, entry.AmericanOdds, entry.EVPercent, string(entry.Tier))
	return entry, nil
}

// TrackerEntry returns one ledger entry
func (c *Calculator) TrackerEntry(ctx context.Context, id uuid.UUID) (*models.TrackerEntry, error) {
	return c.tracker.GetByID(ctx, id)
}

// TrackerEntries lists ledger entries, newest first
func (c *Calculator) TrackerEntries(ctx context.Context, filter repository.TrackerFilter) ([]*models.TrackerEntry, error) {
	return c.tracker.List(ctx, filter)
}
