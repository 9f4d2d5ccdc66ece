package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	api "github.com/cloudshift/migration-analyzer/api/v1alpha1"
	"github.com/cloudshift/migration-analyzer/internal/modernization"
	"github.com/cloudshift/migration-analyzer/internal/store"
	"github.com/cloudshift/migration-analyzer/internal/store/model"
)

// RunModernizationDiscovery scans the in-scope VMs for modernization
// candidates and persists the result.
func (s *SessionService) RunModernizationDiscovery(ctx context.Context, id uuid.UUID) (api.ModernizationReport, error) {
	session, err := s.getModel(ctx, id)
	if err != nil {
		return api.ModernizationReport{}, err
	}

	vms, err := s.inScopeVms(session)
	if err != nil {
		return api.ModernizationReport{}, err
	}

	report := modernization.Discover(vms)

	if _, err := s.store.Session().Update(ctx, id, store.SessionUpdate{Modernization: model.MakeJSONField(&report)}); err != nil {
		return api.ModernizationReport{}, errors.Wrapf(err, "failed to persist modernization report for session %s", id)
	}

	zap.S().Named("session_service").Infow("modernization discovery completed",
		"session", id,
		"candidates", len(report.Candidates))

	return report, nil
}
