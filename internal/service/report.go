package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/cloudshift/migration-analyzer/internal/service/report/csv"
)

// ReportService renders stored session results as downloadable documents.
type ReportService struct {
	sessions *SessionService
	renderer *csv.Renderer
}

func NewReportService(sessions *SessionService) *ReportService {
	return &ReportService{
		sessions: sessions,
		renderer: csv.NewRenderer(),
	}
}

// GetCostReportCSV renders the per-VM cost detail report. The cost phase must
// have run first.
func (r *ReportService) GetCostReportCSV(ctx context.Context, id uuid.UUID) (string, error) {
	session, err := r.sessions.GetSession(ctx, id)
	if err != nil {
		return "", err
	}
	if session.Cost == nil {
		return "", NewErrPhaseNotCompleted(id, "cost estimation")
	}
	return r.renderer.RenderCostDetail(session.Cost)
}

// GetSummaryReportCSV renders the sectioned summary over whatever phases have
// run. It never requires a particular phase; missing sections carry a notice.
func (r *ReportService) GetSummaryReportCSV(ctx context.Context, id uuid.UUID) (string, error) {
	session, err := r.sessions.GetSession(ctx, id)
	if err != nil {
		return "", err
	}
	return r.renderer.RenderSummary(&session)
}
