package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	api "github.com/cloudshift/migration-analyzer/api/v1alpha1"
	"github.com/cloudshift/migration-analyzer/internal/analysis"
	"github.com/cloudshift/migration-analyzer/internal/store"
	"github.com/cloudshift/migration-analyzer/internal/store/model"
)

// RunScopeAnalysis partitions the session inventory into in-scope and
// out-of-scope VMs, optionally excluding powered-off machines, and persists
// the result. Re-running replaces the previous scope report.
func (s *SessionService) RunScopeAnalysis(ctx context.Context, id uuid.UUID, request api.ScopeRequest) (api.ScopeReport, error) {
	session, err := s.getModel(ctx, id)
	if err != nil {
		return api.ScopeReport{}, err
	}

	inventory, err := s.inventory(session)
	if err != nil {
		return api.ScopeReport{}, err
	}

	inScope, outOfScope, err := analysis.PartitionScope(inventory.Vms)
	if err != nil {
		return api.ScopeReport{}, err
	}

	report := api.ScopeReport{
		TotalVms:      len(inventory.Vms),
		OutOfScope:    outOfScope,
		GeneratedTime: time.Now().UTC(),
	}

	if request.ExcludePoweredOff {
		kept, poweredOff := s.assumptions.FilterPoweredOff(inScope, request.PoweredOffPolicy, time.Now().UTC())
		inScope = kept
		report.PoweredOff = poweredOff
	}

	report.InScope = make([]string, 0, len(inScope))
	for _, vm := range inScope {
		report.InScope = append(report.InScope, vm.Name)
	}

	if _, err := s.store.Session().Update(ctx, id, store.SessionUpdate{Scope: model.MakeJSONField(&report)}); err != nil {
		return api.ScopeReport{}, errors.Wrapf(err, "failed to persist scope report for session %s", id)
	}

	zap.S().Named("session_service").Infow("scope analysis completed",
		"session", id,
		"total", report.TotalVms,
		"in_scope", len(report.InScope),
		"out_of_scope", len(report.OutOfScope),
		"powered_off", len(report.PoweredOff))

	return report, nil
}
