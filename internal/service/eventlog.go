package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"cup_controller/internal/models"
	"cup_controller/internal/repository"
)

type EventLogService struct {
	eventRepo repository.EventRepo
}

func NewEventLogService(eventRepo repository.EventRepo) *EventLogService {
	return &EventLogService{eventRepo: eventRepo}
}

var (
	errInvalidTimeRange = errors.New("invalid time range: From must be <= To")
	errInvalidLimit     = errors.New("invalid limit: must be >= 0")
	errNoEventLog       = errors.New("event log is not configured")
)

// normalizeToUTC returns t in UTC, preserving zero time values.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

// normalizeEventType trims spaces and uppercases the event type filter.
func normalizeEventType(s string) string {
	return strings.TrimSpace(strings.ToUpper(s))
}

func normalizeAndValidateFilter(f LogFilter) (LogFilter, error) {
	out := LogFilter{
		From:  normalizeToUTC(f.From),
		To:    normalizeToUTC(f.To),
		Type:  normalizeEventType(f.Type),
		Limit: f.Limit,
	}
	if !out.From.IsZero() && !out.To.IsZero() && out.From.After(out.To) {
		return LogFilter{}, errInvalidTimeRange
	}
	if out.Limit < 0 {
		return LogFilter{}, errInvalidLimit
	}
	return out, nil
}

func (s *EventLogService) List(ctx context.Context, f LogFilter) ([]models.CupEvent, error) {
	if s.eventRepo == nil {
		return nil, errNoEventLog
	}
	nf, err := normalizeAndValidateFilter(f)
	if err != nil {
		return nil, err
	}
	return s.eventRepo.List(ctx, nf.From, nf.To, nf.Type, nf.Limit)
}
