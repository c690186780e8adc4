// Package matching picks a doctor, therapy and appointment slot for a free-text
// problem description by keyword overlap against a roster snapshot.
package matching

import (
	"errors"
	"math/rand/v2"
	"regexp"
	"strings"
	"time"

	"ayursutra-backend/internal/doctor"
)

const (
	// DefaultPriority is applied by callers when a request carries no priority.
	DefaultPriority = "Medium"

	// ScheduleLayout renders suggested slots, e.g. "2025-03-07 04:30 PM".
	ScheduleLayout = "2006-01-02 03:04 PM"

	scheduleLeadDays = 2
)

// ErrNoDoctors is returned when the roster is empty.
var ErrNoDoctors = errors.New("no doctors available")

// Strategy records which pass selected the doctor.
type Strategy string

const (
	StrategySpecialty Strategy = "specialty"
	StrategyTherapy   Strategy = "therapy"
	StrategyFallback  Strategy = "fallback"
)

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// Rand picks an index in [0, n). Implementations shared between goroutines
// must be safe for concurrent use.
type Rand interface {
	IntN(n int) int
}

// Result is the recommendation produced for one request.
type Result struct {
	Therapy       string
	DoctorID      string
	DoctorName    string
	Specialty     string
	AvailableDays string
	AvailableTime string
	ScheduledAt   string
	Priority      string
	Strategy      Strategy
}

// Unicode-aware equivalent of \w+.
var wordPattern = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// Tokenize returns the distinct lowercase word tokens of text in first-seen order.
func Tokenize(text string) []string {
	words := wordPattern.FindAllString(strings.ToLower(text), -1)
	seen := make(map[string]struct{}, len(words))
	tokens := make([]string, 0, len(words))
	for _, w := range words {
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		tokens = append(tokens, w)
	}
	return tokens
}

// Match selects a doctor from roster for problem. priority is echoed as given.
// The roster is not modified.
func Match(problem string, roster []doctor.Doctor, priority string, clock Clock, rng Rand) (Result, error) {
	if len(roster) == 0 {
		return Result{}, ErrNoDoctors
	}

	tokens := Tokenize(problem)

	strategy := StrategySpecialty
	candidates := filterByField(roster, tokens, func(d *doctor.Doctor) string { return d.Specialty })
	if len(candidates) == 0 {
		strategy = StrategyTherapy
		candidates = filterByField(roster, tokens, func(d *doctor.Doctor) string { return d.Therapy })
	}

	var selected *doctor.Doctor
	if len(candidates) > 0 {
		best := -1
		for _, d := range candidates {
			// strict > keeps the earliest roster entry on ties
			if score := overlap(strings.ToLower(d.Specialty), tokens); score > best {
				best = score
				selected = d
			}
		}
	} else {
		strategy = StrategyFallback
		selected = &roster[rng.IntN(len(roster))]
	}

	return Result{
		Therapy:       selected.Therapy,
		DoctorID:      selected.ID,
		DoctorName:    selected.Name,
		Specialty:     selected.Specialty,
		AvailableDays: selected.AvailableDays,
		AvailableTime: selected.AvailableTime,
		ScheduledAt:   SuggestSchedule(clock.Now()),
		Priority:      priority,
		Strategy:      strategy,
	}, nil
}

// SuggestSchedule returns the slot proposed for a request made at now: the same
// wall-clock time two calendar days later.
func SuggestSchedule(now time.Time) string {
	return now.AddDate(0, 0, scheduleLeadDays).Format(ScheduleLayout)
}

func filterByField(roster []doctor.Doctor, tokens []string, field func(*doctor.Doctor) string) []*doctor.Doctor {
	var out []*doctor.Doctor
	for i := range roster {
		if overlap(strings.ToLower(field(&roster[i])), tokens) > 0 {
			out = append(out, &roster[i])
		}
	}
	return out
}

// overlap counts tokens contained in text as substrings.
func overlap(text string, tokens []string) int {
	n := 0
	for _, tok := range tokens {
		if strings.Contains(text, tok) {
			n++
		}
	}
	return n
}

// SystemClock reads wall time in a fixed location.
type SystemClock struct {
	Location *time.Location
}

// Now implements Clock.
func (c SystemClock) Now() time.Time {
	if c.Location == nil {
		return time.Now().UTC()
	}
	return time.Now().In(c.Location)
}

// GlobalRand draws from the process-wide math/rand/v2 source, which is safe
// for concurrent use.
type GlobalRand struct{}

// IntN implements Rand.
func (GlobalRand) IntN(n int) int {
	return rand.IntN(n)
}
