package holiday

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fresco-hris/payroll-backend/internal/domain/holiday"
	"github.com/fresco-hris/payroll-backend/internal/pkg/timeutil"
)

type HolidayServiceImpl struct {
	holiday.HolidayRepository
	now func() time.Time
}

func NewHolidayService(holidayRepository holiday.HolidayRepository) holiday.HolidayService {
	return &HolidayServiceImpl{HolidayRepository: holidayRepository, now: time.Now}
}

// Create implements holiday.HolidayService.
func (s *HolidayServiceImpl) Create(ctx context.Context, req holiday.HolidayRequest) (holiday.HolidayResponse, error) {
	if err := req.Validate(); err != nil {
		return holiday.HolidayResponse{}, err
	}

	h, err := s.HolidayRepository.Create(ctx, holidayFromRequest(req))
	if err != nil {
		return holiday.HolidayResponse{}, err
	}
	return mapHolidayToResponse(h), nil
}

// GetByID implements holiday.HolidayService.
func (s *HolidayServiceImpl) GetByID(ctx context.Context, id string) (holiday.HolidayResponse, error) {
	h, err := s.HolidayRepository.GetByID(ctx, id)
	if err != nil {
		return holiday.HolidayResponse{}, err
	}
	return mapHolidayToResponse(h), nil
}

// Update implements holiday.HolidayService.
func (s *HolidayServiceImpl) Update(ctx context.Context, req holiday.HolidayRequest) (holiday.HolidayResponse, error) {
	if err := req.Validate(); err != nil {
		return holiday.HolidayResponse{}, err
	}

	existing, err := s.HolidayRepository.GetByID(ctx, req.ID)
	if err != nil {
		return holiday.HolidayResponse{}, err
	}
	updated := holidayFromRequest(req)
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	if err := s.HolidayRepository.Update(ctx, updated); err != nil {
		return holiday.HolidayResponse{}, err
	}
	return mapHolidayToResponse(updated), nil
}

// Delete implements holiday.HolidayService.
func (s *HolidayServiceImpl) Delete(ctx context.Context, id string) error {
	return s.HolidayRepository.Delete(ctx, id)
}

// List implements holiday.HolidayService. A zero year lists the current one.
func (s *HolidayServiceImpl) List(ctx context.Context, filter holiday.HolidayFilter) ([]holiday.HolidayResponse, error) {
	year := filter.Year
	if year == 0 {
		year = s.now().Year()
	}

	holidays, err := s.HolidayRepository.ListBetween(ctx, timeutil.Date(year, time.January, 1), timeutil.Date(year, time.December, 31))
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}

	responses := make([]holiday.HolidayResponse, 0, len(holidays))
	for _, h := range holidays {
		responses = append(responses, mapHolidayToResponse(h))
	}
	return responses, nil
}

// CalendarBetween implements holiday.HolidayService.
func (s *HolidayServiceImpl) CalendarBetween(ctx context.Context, start, end time.Time) (holiday.Calendar, error) {
	holidays, err := s.HolidayRepository.ListBetween(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load holiday calendar: %w", err)
	}
	return holiday.NewCalendar(holidays), nil
}

func holidayFromRequest(req holiday.HolidayRequest) holiday.Holiday {
	date, _ := timeutil.ParseDate(req.Date)
	typ, _ := holiday.ParseType(req.Type)
	return holiday.Holiday{
		Name:        strings.TrimSpace(req.Name),
		Date:        date,
		Type:        typ,
		Description: req.Description,
	}
}

func mapHolidayToResponse(h holiday.Holiday) holiday.HolidayResponse {
	return holiday.HolidayResponse{
		ID:          h.ID,
		Name:        h.Name,
		Date:        h.Date.Format(timeutil.DateLayout),
		Type:        string(h.Type),
		Description: h.Description,
	}
}
