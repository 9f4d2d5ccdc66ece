package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	api "github.com/cloudshift/migration-analyzer/api/v1alpha1"
	"github.com/cloudshift/migration-analyzer/internal/cost"
	"github.com/cloudshift/migration-analyzer/internal/pricing"
	"github.com/cloudshift/migration-analyzer/internal/store"
	"github.com/cloudshift/migration-analyzer/internal/store/model"
)

// RunCostAnalysis prices the in-scope VMs of a session and persists the
// aggregated cost report. When the scope phase has not run, the whole
// inventory minus the scope-filtered VMs is priced.
func (s *SessionService) RunCostAnalysis(ctx context.Context, id uuid.UUID, params api.TCOParameters) (api.CostReport, error) {
	session, err := s.getModel(ctx, id)
	if err != nil {
		return api.CostReport{}, err
	}

	vms, err := s.inScopeVms(session)
	if err != nil {
		return api.CostReport{}, err
	}

	assumptions := s.assumptions
	if params.AnnualGrowthRate != nil {
		assumptions.AnnualGrowthRate = *params.AnnualGrowthRate
	}

	estimates := pricing.EstimateAll(vms, params)

	report, err := cost.NewDefaultEngine().Run(cost.Input{
		Estimates:   estimates,
		Assumptions: assumptions,
	})
	if err != nil {
		return api.CostReport{}, errors.Wrapf(err, "cost estimation for session %s", id)
	}

	if _, err := s.store.Session().Update(ctx, id, store.SessionUpdate{Cost: model.MakeJSONField(&report)}); err != nil {
		return api.CostReport{}, errors.Wrapf(err, "failed to persist cost report for session %s", id)
	}

	zap.S().Named("session_service").Infow("cost analysis completed",
		"session", id,
		"vms", len(estimates),
		"monthly_total", report.TotalMonthlyCost)

	return report, nil
}
