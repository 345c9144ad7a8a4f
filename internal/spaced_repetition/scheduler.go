package spaced_repetition

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/example/fransbot/internal/practice"
	"github.com/example/fransbot/pkg/models"
)

const (
	// NeverPracticedDays is the staleness assigned to items that were never attempted
	NeverPracticedDays = 9999.0
	// MinWeight keeps every priority weight strictly positive
	MinWeight = 1e-6

	jitterLow  = 0.9
	jitterHigh = 1.1
)

// Config tunes the scheduler
type Config struct {
	// Answer comparison strictness
	Normalization Normalization
	// Skip the previously shown item for one draw when another candidate exists
	ExcludePrevious bool
	// Use a jitter factor of exactly 1
	DisableJitter bool
	// Random source; a time-seeded one is used when nil
	Rand *rand.Rand
	// Clock; time.Now when nil
	Now func() time.Time
}

// Scheduler picks the next item to drill with a priority-weighted random draw
// and keeps mastery records up to date after each attempt.
// It is safe to share between goroutines as long as each session is used by one at a time.
type Scheduler struct {
	normalization   Normalization
	excludePrevious bool
	disableJitter   bool
	now             func() time.Time

	rndMu sync.Mutex // guards rnd
	rnd   *rand.Rand
}

// Result describes a checked answer
type Result struct {
	Item      models.Item
	Given     string
	Correct   bool
	Expected  string
	Timestamp time.Time
}

// NewScheduler creates a scheduler from config
func NewScheduler(config Config) *Scheduler {
	rnd := config.Rand
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	now := config.Now
	if now == nil {
		now = time.Now
	}
	return &Scheduler{
		normalization:   config.Normalization,
		excludePrevious: config.ExcludePrevious,
		disableJitter:   config.DisableJitter,
		rnd:             rnd,
		now:             now,
	}
}

// PriorityWeight scores a mastery record. Errors raise the weight linearly,
// staleness raises it logarithmically. The result is always positive.
func (s *Scheduler) PriorityWeight(m models.Mastery) float64 {
	days := NeverPracticedDays
	if m.Practiced() {
		days = s.now().Sub(m.LastPracticed).Hours() / 24
		if days < 0 {
			days = 0
		}
	}

	errors := m.ErrorCount
	if errors < 0 {
		errors = 0
	}

	weight := float64(1+errors) * (1 + math.Log1p(days))
	weight *= s.jitter()

	if weight < MinWeight || math.IsNaN(weight) {
		weight = MinWeight
	}
	return weight
}

// WeightOf scores item using its record in session, creating the record when missing.
func (s *Scheduler) WeightOf(session *practice.Session, item models.Item) float64 {
	return s.PriorityWeight(*session.Metadata.Lookup(item))
}

func (s *Scheduler) jitter() float64 {
	if s.disableJitter {
		return 1
	}
	return jitterLow + s.randFloat()*(jitterHigh-jitterLow)
}

func (s *Scheduler) randFloat() float64 {
	s.rndMu.Lock()
	defer s.rndMu.Unlock()
	return s.rnd.Float64()
}

func (s *Scheduler) randIntn(n int) int {
	s.rndMu.Lock()
	defer s.rndMu.Unlock()
	return s.rnd.Intn(n)
}

// ChooseNext draws one item of active with probability proportional to its priority weight.
// It returns false when active is empty. The current item may be drawn again
// unless ExcludePrevious is set.
func (s *Scheduler) ChooseNext(session *practice.Session, active []models.Item) (models.Item, bool) {
	if len(active) == 0 {
		return models.Item{}, false
	}
	session.Metadata.EnsureMetadata(active)

	candidates := active
	if s.excludePrevious {
		if prev, ok := session.Current(); ok {
			candidates = without(active, prev)
		}
	}

	weights := make([]float64, len(candidates))
	total := 0.0
	for i, item := range candidates {
		weights[i] = s.WeightOf(session, item)
		total += weights[i]
	}

	if total <= 0 || math.IsNaN(total) || math.IsInf(total, 0) {
		return candidates[s.randIntn(len(candidates))], true
	}

	pick := s.randFloat() * total
	cumulative := 0.0
	for i, item := range candidates {
		cumulative += weights[i]
		if cumulative >= pick {
			return item, true
		}
	}
	// Rounding can leave pick a hair above the final sum
	return candidates[len(candidates)-1], true
}

// Advance keeps the current item while it is still in the active set and
// draws a new one otherwise.
func (s *Scheduler) Advance(session *practice.Session) (models.Item, bool) {
	if current, ok := session.Current(); ok && session.Contains(current) {
		return current, true
	}
	session.ClearCurrent()
	return s.Next(session)
}

// Next always draws a new current item from the active set.
func (s *Scheduler) Next(session *practice.Session) (models.Item, bool) {
	item, ok := s.ChooseNext(session, session.Active())
	if !ok {
		session.ClearCurrent()
		return models.Item{}, false
	}
	session.SetCurrent(item)
	return item, true
}

// RecordAttempt updates the mastery record of item and appends to the attempt log.
// It does not change the current item.
func (s *Scheduler) RecordAttempt(session *practice.Session, item models.Item, correct bool) {
	s.record(session, item, "", correct)
}

func (s *Scheduler) record(session *practice.Session, item models.Item, given string, correct bool) models.Attempt {
	now := s.now()

	m := session.Metadata.Lookup(item)
	if correct {
		if m.ErrorCount > 0 {
			m.ErrorCount--
		}
	} else {
		m.ErrorCount++
	}
	m.LastPracticed = now

	attempt := models.Attempt{
		SessionID: session.ID,
		Item:      item,
		Given:     given,
		Correct:   correct,
		Timestamp: now,
	}
	session.AddAttempt(attempt)
	return attempt
}

// Submit checks given against the current item, records the attempt and draws the next item.
// It returns false when nothing is being drilled.
func (s *Scheduler) Submit(session *practice.Session, given string) (Result, bool) {
	current, ok := session.Current()
	if !ok {
		return Result{}, false
	}

	correct := s.CheckAnswer(given, current)
	attempt := s.record(session, current, given, correct)
	s.Next(session)

	return Result{
		Item:      current,
		Given:     given,
		Correct:   correct,
		Expected:  current.Answer,
		Timestamp: attempt.Timestamp,
	}, true
}

// Hint returns the expected answer of the current item.
func (s *Scheduler) Hint(session *practice.Session) (string, bool) {
	current, ok := session.Current()
	if !ok {
		return "", false
	}
	return current.Answer, true
}

// without returns items minus every copy of skip, or items itself when nothing would remain.
func without(items []models.Item, skip models.Item) []models.Item {
	out := make([]models.Item, 0, len(items))
	for _, item := range items {
		if item != skip {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return items
	}
	return out
}
