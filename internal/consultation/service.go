package consultation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"ayursutra-backend/internal/doctor"
	"ayursutra-backend/internal/matching"
	"ayursutra-backend/internal/observability/metrics"
	"ayursutra-backend/pkg/logging"
)

// RosterSource supplies the doctor roster snapshot for a request.
type RosterSource interface {
	List(ctx context.Context) ([]doctor.Doctor, error)
}

// ReportService renders and delivers appointment slips.
type ReportService interface {
	Render(c Consultation) ([]byte, error)
	SendDoctorReport(ctx context.Context, c Consultation) error
}

type Service interface {
	Recommend(ctx context.Context, req MatchRequest) (*Consultation, error)
	GetConsultation(ctx context.Context, id uuid.UUID) (*Consultation, error)
	RenderReport(ctx context.Context, id uuid.UUID) ([]byte, error)
	NotifyClinic(ctx context.Context, id uuid.UUID) error
}

// Deps wires a Service. Clock, Rand and Logger default when nil; Metrics and
// Reports are optional.
type Deps struct {
	Roster  RosterSource
	Repo    Repository
	Reports ReportService
	Clock   matching.Clock
	Rand    matching.Rand
	Metrics *metrics.MatchingMetrics
	Logger  *logging.Logger
}

type service struct {
	roster  RosterSource
	repo    Repository
	reports ReportService
	clock   matching.Clock
	rng     matching.Rand
	metrics *metrics.MatchingMetrics
	logger  *logging.Logger
}

func NewService(d Deps) Service {
	s := &service{
		roster:  d.Roster,
		repo:    d.Repo,
		reports: d.Reports,
		clock:   d.Clock,
		rng:     d.Rand,
		metrics: d.Metrics,
		logger:  d.Logger,
	}
	if s.clock == nil {
		s.clock = matching.SystemClock{}
	}
	if s.rng == nil {
		s.rng = matching.GlobalRand{}
	}
	if s.logger == nil {
		s.logger = logging.Default()
	}
	return s
}

// Recommend validates req, matches it against the current roster and records
// the result. A zero ID on the returned consultation means recording failed.
func (s *service) Recommend(ctx context.Context, req MatchRequest) (*Consultation, error) {
	start := time.Now()
	defer s.metrics.ObserveDuration(start)

	if err := req.Validate(); err != nil {
		s.metrics.ObserveOutcome("invalid")
		return nil, err
	}

	roster, err := s.roster.List(ctx)
	if err != nil {
		s.metrics.ObserveOutcome("error")
		return nil, fmt.Errorf("consultation: load roster: %w", err)
	}
	s.metrics.SetRosterSize(len(roster))

	res, err := matching.Match(req.Problem, roster, *req.Priority, s.clock, s.rng)
	if err != nil {
		if errors.Is(err, matching.ErrNoDoctors) {
			s.metrics.ObserveOutcome("no_doctors")
		}
		return nil, err
	}
	s.metrics.ObserveOutcome(string(res.Strategy))

	c := newConsultation(req, res, s.clock.Now())
	s.logger.Info("doctor matched",
		"consultation_id", c.ID,
		"doctor", res.DoctorName,
		"strategy", res.Strategy,
		"priority", res.Priority,
	)

	if s.repo != nil {
		if err := s.repo.Save(ctx, c); err != nil {
			s.logger.Error("failed to record consultation", "error", err, "consultation_id", c.ID)
			c.ID = uuid.Nil
		}
	} else {
		c.ID = uuid.Nil
	}
	return c, nil
}

func (s *service) GetConsultation(ctx context.Context, id uuid.UUID) (*Consultation, error) {
	if s.repo == nil {
		return nil, ErrConsultationNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) RenderReport(ctx context.Context, id uuid.UUID) ([]byte, error) {
	c, err := s.GetConsultation(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.reports == nil {
		return nil, ErrReportUnavailable
	}
	return s.reports.Render(*c)
}

func (s *service) NotifyClinic(ctx context.Context, id uuid.UUID) error {
	c, err := s.GetConsultation(ctx, id)
	if err != nil {
		return err
	}
	if s.reports == nil {
		return ErrNotifyUnavailable
	}
	return s.reports.SendDoctorReport(ctx, *c)
}
