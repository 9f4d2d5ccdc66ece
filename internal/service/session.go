// Package service implements the business operations behind the analyzer API:
// session lifecycle, the analysis phases and report generation.
package service

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	api "github.com/cloudshift/migration-analyzer/api/v1alpha1"
	"github.com/cloudshift/migration-analyzer/internal/analysis"
	"github.com/cloudshift/migration-analyzer/internal/rvtools"
	"github.com/cloudshift/migration-analyzer/internal/service/mappers"
	"github.com/cloudshift/migration-analyzer/internal/store"
	"github.com/cloudshift/migration-analyzer/internal/store/model"
)

// SessionService owns analysis sessions and their stored phase results.
type SessionService struct {
	store       store.Store
	assumptions analysis.AssumptionSet
}

func NewSessionService(store store.Store, assumptions analysis.AssumptionSet) *SessionService {
	return &SessionService{store: store, assumptions: assumptions}
}

// CreateSession parses an uploaded RVTools export and persists a new session
// around the resulting inventory.
func (s *SessionService) CreateSession(ctx context.Context, name string, rvtoolsContent []byte) (api.Session, error) {
	zap.S().Named("session_service").Infow("received RVTools upload", "name", name, "size [bytes]", len(rvtoolsContent))

	if len(rvtoolsContent) == 0 {
		return api.Session{}, NewErrRVToolsFileCorrupted("file is empty")
	}
	if !rvtools.IsExcelFile(rvtoolsContent) {
		return api.Session{}, NewErrRVToolsFileCorrupted("not a valid Excel workbook")
	}

	inventory, err := rvtools.ParseRVTools(rvtoolsContent)
	if err != nil {
		return api.Session{}, NewErrRVToolsFileCorrupted(err.Error())
	}

	created, err := s.store.Session().Create(ctx, model.Session{
		ID:        uuid.New(),
		Name:      name,
		VCenterID: inventory.VcenterID,
		Inventory: model.MakeJSONField(inventory),
	})
	if err != nil {
		return api.Session{}, errors.Wrap(err, "failed to create session")
	}

	return mappers.SessionToApi(*created), nil
}

// ListSessions returns summaries of all sessions, newest first.
func (s *SessionService) ListSessions(ctx context.Context) ([]api.SessionSummary, error) {
	sessions, err := s.store.Session().List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list sessions")
	}
	return mappers.SessionListToApi(sessions), nil
}

// GetSession returns a session with all its phase results inflated.
func (s *SessionService) GetSession(ctx context.Context, id uuid.UUID) (api.Session, error) {
	session, err := s.getModel(ctx, id)
	if err != nil {
		return api.Session{}, err
	}
	return mappers.SessionToApi(*session), nil
}

// DeleteSession removes a session and its phase results.
func (s *SessionService) DeleteSession(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Session().Delete(ctx, id); err != nil {
		return errors.Wrapf(err, "failed to delete session %s", id)
	}
	return nil
}

func (s *SessionService) getModel(ctx context.Context, id uuid.UUID) (*model.Session, error) {
	session, err := s.store.Session().Get(ctx, id)
	if err != nil {
		if err == store.ErrRecordNotFound {
			return nil, NewErrSessionNotFound(id)
		}
		return nil, errors.Wrapf(err, "failed to get session %s", id)
	}
	return session, nil
}

func (s *SessionService) inventory(session *model.Session) (*api.Inventory, error) {
	var inventory api.Inventory
	if err := json.Unmarshal(session.Inventory, &inventory); err != nil {
		return nil, errors.Wrapf(err, "failed to decode inventory of session %s", session.ID)
	}
	return &inventory, nil
}

// inScopeVms resolves the VMs the cost and modernization phases operate on:
// the stored scope result when the phase ran, otherwise a fresh partition
// without powered-off exclusion.
func (s *SessionService) inScopeVms(session *model.Session) ([]api.VM, error) {
	inventory, err := s.inventory(session)
	if err != nil {
		return nil, err
	}

	if len(session.Scope) > 0 {
		var scope api.ScopeReport
		if err := json.Unmarshal(session.Scope, &scope); err != nil {
			return nil, errors.Wrapf(err, "failed to decode scope report of session %s", session.ID)
		}

		names := make(map[string]struct{}, len(scope.InScope))
		for _, name := range scope.InScope {
			names[name] = struct{}{}
		}

		vms := make([]api.VM, 0, len(scope.InScope))
		for _, vm := range inventory.Vms {
			if _, ok := names[vm.Name]; ok {
				vms = append(vms, vm)
			}
		}
		return vms, nil
	}

	inScope, _, err := analysis.PartitionScope(inventory.Vms)
	if err != nil {
		return nil, err
	}
	return inScope, nil
}
