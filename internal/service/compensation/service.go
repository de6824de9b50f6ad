package compensation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fresco-hris/payroll-backend/internal/domain/compensation"
	"github.com/fresco-hris/payroll-backend/internal/domain/user"
	"github.com/fresco-hris/payroll-backend/internal/pkg/database"
)

type CompensationServiceImpl struct {
	tx         database.Transactor
	earnings   compensation.EarningsRepository
	deductions compensation.DeductionsRepository
	bases      compensation.OvertimeBaseRepository
	benefits   compensation.BenefitRepository
	users      user.UserRepository
	notifier   compensation.ChangeNotifier
}

func NewCompensationService(
	tx database.Transactor,
	earningsRepository compensation.EarningsRepository,
	deductionsRepository compensation.DeductionsRepository,
	overtimeBaseRepository compensation.OvertimeBaseRepository,
	benefitRepository compensation.BenefitRepository,
	userRepository user.UserRepository,
	notifier compensation.ChangeNotifier,
) compensation.CompensationService {
	return &CompensationServiceImpl{
		tx:         tx,
		earnings:   earningsRepository,
		deductions: deductionsRepository,
		bases:      overtimeBaseRepository,
		benefits:   benefitRepository,
		users:      userRepository,
		notifier:   notifier,
	}
}

func (s *CompensationServiceImpl) ensureUser(ctx context.Context, userID string) error {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return err
	}
	return nil
}

// changed reprices the user's overtime. The record is already stored, so a
// failure here is only logged.
func (s *CompensationServiceImpl) changed(ctx context.Context, userID string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.CompensationChanged(ctx, userID); err != nil {
		slog.Error("overtime recompute after compensation change failed",
			"user_id", userID,
			"error", err,
		)
	}
}

// CreateEarnings stores a new earnings record, which also refreshes the
// rate-based benefit contributions.
func (s *CompensationServiceImpl) CreateEarnings(ctx context.Context, req compensation.EarningsRequest) (compensation.EarningsResponse, error) {
	if err := req.Validate(); err != nil {
		return compensation.EarningsResponse{}, err
	}
	if err := s.ensureUser(ctx, req.UserID); err != nil {
		return compensation.EarningsResponse{}, err
	}

	var created compensation.Earnings
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		created, err = s.earnings.Create(txCtx, compensation.Earnings{
			UserID:    req.UserID,
			BasicRate: req.BasicRate,
			Allowance: req.Allowance,
			TaxExempt: req.TaxExempt,
		})
		if err != nil {
			return fmt.Errorf("failed to create earnings: %w", err)
		}
		_, err = s.refresh(txCtx, created)
		return err
	})
	if err != nil {
		return compensation.EarningsResponse{}, err
	}

	s.changed(ctx, req.UserID)
	return mapEarningsToResponse(created), nil
}

// CreateDeductions implements compensation.CompensationService.
func (s *CompensationServiceImpl) CreateDeductions(ctx context.Context, req compensation.DeductionsRequest) (compensation.DeductionsResponse, error) {
	if err := req.Validate(); err != nil {
		return compensation.DeductionsResponse{}, err
	}
	if err := s.ensureUser(ctx, req.UserID); err != nil {
		return compensation.DeductionsResponse{}, err
	}

	created, err := s.deductions.Create(ctx, compensation.Deductions{
		UserID:         req.UserID,
		WithholdingTax: req.WithholdingTax,
		Absences:       req.Absences,
		Loan:           req.Loan,
		Charges:        req.Charges,
		OtherLoan:      req.OtherLoan,
		LateBase:       req.LateBase,
	})
	if err != nil {
		return compensation.DeductionsResponse{}, fmt.Errorf("failed to create deductions: %w", err)
	}

	s.changed(ctx, req.UserID)
	return mapDeductionsToResponse(created), nil
}

// CreateOvertimeBase implements compensation.CompensationService.
func (s *CompensationServiceImpl) CreateOvertimeBase(ctx context.Context, req compensation.OvertimeBaseRequest) (compensation.OvertimeBaseResponse, error) {
	if err := req.Validate(); err != nil {
		return compensation.OvertimeBaseResponse{}, err
	}
	if err := s.ensureUser(ctx, req.UserID); err != nil {
		return compensation.OvertimeBaseResponse{}, err
	}

	created, err := s.bases.Create(ctx, compensation.OvertimeBase{
		UserID:       req.UserID,
		BackwageBase: req.BackwageBase,
	})
	if err != nil {
		return compensation.OvertimeBaseResponse{}, fmt.Errorf("failed to create overtime base: %w", err)
	}

	s.changed(ctx, req.UserID)
	return mapOvertimeBaseToResponse(created), nil
}

// CreateSSS records the admin-entered social security contribution.
func (s *CompensationServiceImpl) CreateSSS(ctx context.Context, req compensation.SSSRequest) (compensation.BenefitResponse, error) {
	if err := req.Validate(); err != nil {
		return compensation.BenefitResponse{}, err
	}
	if err := s.ensureUser(ctx, req.UserID); err != nil {
		return compensation.BenefitResponse{}, err
	}

	created, err := s.benefits.Create(ctx, compensation.Benefit{
		UserID:        req.UserID,
		Kind:          compensation.BenefitSSS,
		EmployeeShare: req.EmployeeShare,
		EmployerShare: req.EmployerShare,
		Total:         req.EmployeeShare.Add(req.EmployerShare),
	})
	if err != nil {
		return compensation.BenefitResponse{}, fmt.Errorf("failed to create sss contribution: %w", err)
	}
	return mapBenefitToResponse(created), nil
}

// RefreshBenefits recomputes the PhilHealth and Pag-IBIG rows from the
// latest earnings.
func (s *CompensationServiceImpl) RefreshBenefits(ctx context.Context, userID string) ([]compensation.BenefitResponse, error) {
	earnings, err := s.earnings.Latest(ctx, userID)
	if err != nil {
		return nil, err
	}

	var created []compensation.Benefit
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		created, err = s.refresh(txCtx, earnings)
		return err
	})
	if err != nil {
		return nil, err
	}

	responses := make([]compensation.BenefitResponse, 0, len(created))
	for _, b := range created {
		responses = append(responses, mapBenefitToResponse(b))
	}
	return responses, nil
}

func (s *CompensationServiceImpl) refresh(ctx context.Context, earnings compensation.Earnings) ([]compensation.Benefit, error) {
	var out []compensation.Benefit
	for _, b := range []compensation.Benefit{
		ComputePhilHealth(earnings.UserID, earnings.BasicRate),
		ComputePagIBIG(earnings.UserID),
	} {
		created, err := s.benefits.Create(ctx, b)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s contribution: %w", b.Kind, err)
		}
		out = append(out, created)
	}
	return out, nil
}

// GetCurrent returns the latest record of every compensation kind; missing
// kinds are left empty.
func (s *CompensationServiceImpl) GetCurrent(ctx context.Context, userID string) (compensation.CompensationResponse, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return compensation.CompensationResponse{}, err
	}

	resp := compensation.CompensationResponse{UserID: userID, Benefits: []compensation.BenefitResponse{}}

	earnings, err := s.earnings.Latest(ctx, userID)
	switch {
	case err == nil:
		e := mapEarningsToResponse(earnings)
		resp.Earnings = &e
	case !errors.Is(err, compensation.ErrEarningsNotFound):
		return compensation.CompensationResponse{}, fmt.Errorf("failed to load earnings: %w", err)
	}

	deductions, err := s.deductions.Latest(ctx, userID)
	switch {
	case err == nil:
		d := mapDeductionsToResponse(deductions)
		resp.Deductions = &d
	case !errors.Is(err, compensation.ErrDeductionsNotFound):
		return compensation.CompensationResponse{}, fmt.Errorf("failed to load deductions: %w", err)
	}

	base, err := s.bases.Latest(ctx, userID)
	switch {
	case err == nil:
		o := mapOvertimeBaseToResponse(base)
		resp.OvertimeBase = &o
	case !errors.Is(err, compensation.ErrOvertimeBaseNotFound):
		return compensation.CompensationResponse{}, fmt.Errorf("failed to load overtime base: %w", err)
	}

	benefits, err := s.benefits.Latest(ctx, userID)
	if err != nil {
		return compensation.CompensationResponse{}, fmt.Errorf("failed to load benefits: %w", err)
	}
	for _, b := range []*compensation.Benefit{benefits.SSS, benefits.PhilHealth, benefits.PagIBIG} {
		if b != nil {
			resp.Benefits = append(resp.Benefits, mapBenefitToResponse(*b))
		}
	}
	return resp, nil
}

func (s *CompensationServiceImpl) ListEarnings(ctx context.Context, userID string) ([]compensation.EarningsResponse, error) {
	rows, err := s.earnings.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list earnings: %w", err)
	}
	out := make([]compensation.EarningsResponse, 0, len(rows))
	for _, e := range rows {
		out = append(out, mapEarningsToResponse(e))
	}
	return out, nil
}

func (s *CompensationServiceImpl) ListDeductions(ctx context.Context, userID string) ([]compensation.DeductionsResponse, error) {
	rows, err := s.deductions.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list deductions: %w", err)
	}
	out := make([]compensation.DeductionsResponse, 0, len(rows))
	for _, d := range rows {
		out = append(out, mapDeductionsToResponse(d))
	}
	return out, nil
}

func (s *CompensationServiceImpl) ListBenefits(ctx context.Context, userID string) ([]compensation.BenefitResponse, error) {
	rows, err := s.benefits.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list benefits: %w", err)
	}
	out := make([]compensation.BenefitResponse, 0, len(rows))
	for _, b := range rows {
		out = append(out, mapBenefitToResponse(b))
	}
	return out, nil
}

func mapEarningsToResponse(e compensation.Earnings) compensation.EarningsResponse {
	return compensation.EarningsResponse{
		ID:        e.ID,
		UserID:    e.UserID,
		BasicRate: e.BasicRate,
		Allowance: e.Allowance,
		TaxExempt: e.TaxExempt,
		CreatedAt: e.CreatedAt.Format(time.RFC3339),
	}
}

func mapDeductionsToResponse(d compensation.Deductions) compensation.DeductionsResponse {
	return compensation.DeductionsResponse{
		ID:             d.ID,
		UserID:         d.UserID,
		WithholdingTax: d.WithholdingTax,
		Absences:       d.Absences,
		Loan:           d.Loan,
		Charges:        d.Charges,
		OtherLoan:      d.OtherLoan,
		LateBase:       d.LateBase,
		CreatedAt:      d.CreatedAt.Format(time.RFC3339),
	}
}

func mapOvertimeBaseToResponse(o compensation.OvertimeBase) compensation.OvertimeBaseResponse {
	return compensation.OvertimeBaseResponse{
		ID:           o.ID,
		UserID:       o.UserID,
		BackwageBase: o.BackwageBase,
		CreatedAt:    o.CreatedAt.Format(time.RFC3339),
	}
}

func mapBenefitToResponse(b compensation.Benefit) compensation.BenefitResponse {
	return compensation.BenefitResponse{
		ID:            b.ID,
		UserID:        b.UserID,
		Kind:          string(b.Kind),
		EmployeeShare: b.EmployeeShare,
		EmployerShare: b.EmployerShare,
		Total:         b.Total,
		CreatedAt:     b.CreatedAt.Format(time.RFC3339),
	}
}
