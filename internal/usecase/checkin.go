package usecase

import (
	"context"
	"fmt"

	"asistencia-service/internal/domain/entity"
	"asistencia-service/internal/domain/repository"
	"asistencia-service/pkg/logger"
	"asistencia-service/pkg/metrics"
	"asistencia-service/pkg/utils"
)

// CheckInService admits attendees at most once per calendar day of the reporting
// timezone.
type CheckInService struct {
	attendeeRepo repository.AttendeeRepository
	clock        *utils.ReportingClock
	metrics      *metrics.Metrics
	logger       logger.Logger
}

// NewCheckInService creates a new check-in service
func NewCheckInService(
	attendeeRepo repository.AttendeeRepository,
	clock *utils.ReportingClock,
	metrics *metrics.Metrics,
	logger logger.Logger,
) *CheckInService {
	return &CheckInService{
		attendeeRepo: attendeeRepo,
		clock:        clock,
		metrics:      metrics,
		logger:       logger,
	}
}

// CheckIn records today's entry for the attendee. A second scan on the same date
// returns a DuplicateToday fault carrying the first entry's time.
func (s *CheckInService) CheckIn(ctx context.Context, attendeeID string) (*entity.CheckInResult, error) {
	now := s.clock.Now()
	today := s.clock.DateOf(now)

	attendee, appended, err := s.attendeeRepo.AppendAttendance(ctx, attendeeID, entity.AttendanceEntry{
		Fecha:      today,
		HoraExacta: now,
	})
	if err != nil {
		if entity.FaultKind(err) == entity.KindNotFound {
			s.metrics.CheckIns.WithLabelValues(metrics.CheckInNotFound).Inc()
			s.logger.Warn("Check-in for unknown attendee", "attendeeId", attendeeID)
			return nil, err
		}
		s.metrics.ErrorsCount.WithLabelValues("checkin").Inc()
		return nil, fmt.Errorf("failed to record attendance: %w", err)
	}

	if !appended {
		entry, ok := attendee.AttendanceOn(today)
		if !ok {
			// entries are never removed, so a rejected append always leaves one behind
			s.metrics.ErrorsCount.WithLabelValues("checkin").Inc()
			return nil, fmt.Errorf("attendance for %s rejected but no entry found on %s", attendeeID, today)
		}
		s.metrics.CheckIns.WithLabelValues(metrics.CheckInDuplicate).Inc()
		s.logger.Info("Duplicate check-in",
			"attendeeId", attendeeID,
			"fecha", today,
			"originalTime", entry.HoraExacta)
		return nil, entity.ErrDuplicateToday(attendee.DisplayName(), entry.HoraExacta, s.clock.TimeOfDay(entry.HoraExacta))
	}

	total, err := s.attendeeRepo.CountByAttendanceDate(ctx, today)
	if err != nil {
		s.metrics.ErrorsCount.WithLabelValues("checkin_count").Inc()
		return nil, fmt.Errorf("failed to count attendance: %w", err)
	}

	s.metrics.CheckIns.WithLabelValues(metrics.CheckInAdmitted).Inc()
	s.logger.Info("Attendee checked in",
		"attendeeId", attendeeID,
		"fecha", today,
		"total", total)

	return &entity.CheckInResult{
		AttendeeID: attendee.ID,
		Nombre:     attendee.DisplayName(),
		Fecha:      today,
		Total:      total,
	}, nil
}

// CountToday returns how many attendees have checked in today
func (s *CheckInService) CountToday(ctx context.Context) (int64, error) {
	total, err := s.attendeeRepo.CountByAttendanceDate(ctx, s.clock.Today())
	if err != nil {
		s.metrics.ErrorsCount.WithLabelValues("count").Inc()
		return 0, err
	}
	return total, nil
}
