package payroll

import (
	"context"
	"io"
)

// GeneratorService runs the batch stages. Every sweep is idempotent and
// logs per-item failures without aborting.
type GeneratorService interface {
	GenerateSalaries(ctx context.Context) (SweepReport, error)
	GeneratePayrolls(ctx context.Context) (SweepReport, error)
	GeneratePayslips(ctx context.Context) (SweepReport, error)
}

type PayrollService interface {
	GetSalary(ctx context.Context, id string) (SalaryResponse, error)
	ListSalaries(ctx context.Context, filter PayrollFilter) (ListResponse[SalaryResponse], error)
	GetPayroll(ctx context.Context, id string) (PayrollResponse, error)
	ListPayrolls(ctx context.Context, filter PayrollFilter) (ListResponse[PayrollResponse], error)
	GetPayslip(ctx context.Context, id string) (PayslipResponse, error)
	ListPayslips(ctx context.Context, filter PayrollFilter) (ListResponse[PayslipResponse], error)
	ListMyPayslips(ctx context.Context, filter PayrollFilter) (ListResponse[PayslipResponse], error)
	ApprovePayslip(ctx context.Context, id string) (PayslipResponse, error)
	// RenderPayslip writes the payslip PDF and stamps its generation time.
	RenderPayslip(ctx context.Context, id string, w io.Writer) error
}

// EventPublisher delivers payroll events to downstream consumers.
type EventPublisher interface {
	PublishPayslipIssued(ctx context.Context, evt PayslipIssuedEvent) error
}

// PayslipRenderer turns a payslip document into a printable file.
type PayslipRenderer interface {
	Render(w io.Writer, doc PayslipDocument) error
}
