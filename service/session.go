package service

import (
	"sync"

	"github.com/Aashish23092/loan-appraisal/dto"
)

// AppraisalSession owns the single application being edited. Every change
// is followed by a recalculation so the stored summary never goes stale.
type AppraisalSession struct {
	mu       sync.Mutex
	app      dto.LoanApplication
	summary  dto.Summary
	schedule []dto.AmortizationRow
}

// NewAppraisalSession starts a session from the default template.
func NewAppraisalSession() *AppraisalSession {
	s := &AppraisalSession{app: dto.DefaultLoanApplication()}
	s.recalcLocked()
	return s
}

// Replace swaps in a new application and recalculates.
func (s *AppraisalSession) Replace(app dto.LoanApplication) ([]dto.AmortizationRow, dto.Summary) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.app = app.Clone()
	if len(s.app.Collateral) == 0 {
		s.app.Collateral = []dto.Collateral{dto.PlaceholderCollateral()}
	}
	s.recalcLocked()
	return s.scheduleCopy(), s.summary
}

// Reset restores the default template.
func (s *AppraisalSession) Reset() ([]dto.AmortizationRow, dto.Summary) {
	return s.Replace(dto.DefaultLoanApplication())
}

// Snapshot returns copies of the application, its summary and schedule.
func (s *AppraisalSession) Snapshot() (dto.LoanApplication, dto.Summary, []dto.AmortizationRow) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.app.Clone(), s.summary, s.scheduleCopy()
}

func (s *AppraisalSession) recalcLocked() {
	FillCollateralLTV(&s.app)
	s.schedule, s.summary = Recalc(s.app)
}

func (s *AppraisalSession) scheduleCopy() []dto.AmortizationRow {
	return append([]dto.AmortizationRow{}, s.schedule...)
}
