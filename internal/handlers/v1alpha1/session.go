// Package v1alpha1 exposes the analyzer services over HTTP.
package v1alpha1

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	api "github.com/cloudshift/migration-analyzer/api/v1alpha1"
	"github.com/cloudshift/migration-analyzer/internal/service"
)

// maxUploadBytes bounds an RVTools upload. Exports of large estates stay well
// under this.
const maxUploadBytes = 64 << 20

type ServiceHandler struct {
	sessionSrv *service.SessionService
	reportSrv  *service.ReportService
	validate   *validator.Validate
}

func NewServiceHandler(sessionService *service.SessionService, reportService *service.ReportService) *ServiceHandler {
	return &ServiceHandler{
		sessionSrv: sessionService,
		reportSrv:  reportService,
		validate:   validator.New(),
	}
}

// RegisterRoutes mounts the session endpoints on the given router.
func (s *ServiceHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/sessions", func(r chi.Router) {
		r.Get("/", s.ListSessions)
		r.Post("/", s.CreateSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetSession)
			r.Delete("/", s.DeleteSession)
			r.Post("/scope", s.RunScopeAnalysis)
			r.Post("/cost", s.RunCostAnalysis)
			r.Post("/modernization", s.RunModernizationDiscovery)
			r.Get("/reports/cost.csv", s.GetCostReport)
			r.Get("/reports/summary.csv", s.GetSummaryReport)
		})
	})
}

// (POST /api/v1/sessions)
func (s *ServiceHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	multipartReader, err := r.MultipartReader()
	if err != nil {
		replyError(w, r, http.StatusBadRequest, "expected a multipart upload")
		return
	}

	var name string
	var content []byte

	for {
		part, err := multipartReader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			replyError(w, r, http.StatusBadRequest, "failed to read multipart data")
			return
		}

		switch part.FormName() {
		case "name":
			value, err := io.ReadAll(io.LimitReader(part, 1024))
			if err != nil {
				replyError(w, r, http.StatusBadRequest, "failed to read session name")
				return
			}
			name = string(value)
		case "file":
			if name == "" {
				name = part.FileName()
			}
			content, err = io.ReadAll(io.LimitReader(part, maxUploadBytes))
			if err != nil {
				replyError(w, r, http.StatusBadRequest, "failed to read uploaded file content")
				return
			}
		}
	}

	if len(content) == 0 {
		replyError(w, r, http.StatusBadRequest, "multipart form has no file part")
		return
	}
	if name == "" {
		replyError(w, r, http.StatusBadRequest, "session name is required")
		return
	}

	session, err := s.sessionSrv.CreateSession(r.Context(), name, content)
	if err != nil {
		switch err.(type) {
		case *service.ErrFileCorrupted:
			replyError(w, r, http.StatusBadRequest, err.Error())
		default:
			replyError(w, r, http.StatusInternalServerError, "failed to create session")
		}
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, session)
}

// (GET /api/v1/sessions)
func (s *ServiceHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.sessionSrv.ListSessions(r.Context())
	if err != nil {
		replyError(w, r, http.StatusInternalServerError, "failed to list sessions")
		return
	}
	render.JSON(w, r, sessions)
}

// (GET /api/v1/sessions/{id})
func (s *ServiceHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	session, err := s.sessionSrv.GetSession(r.Context(), id)
	if err != nil {
		replyServiceError(w, r, err)
		return
	}
	render.JSON(w, r, session)
}

// (DELETE /api/v1/sessions/{id})
func (s *ServiceHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	if err := s.sessionSrv.DeleteSession(r.Context(), id); err != nil {
		replyServiceError(w, r, err)
		return
	}
	render.NoContent(w, r)
}

// (POST /api/v1/sessions/{id}/scope)
func (s *ServiceHandler) RunScopeAnalysis(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	var request api.ScopeRequest
	if !decodeOptionalBody(w, r, &request) {
		return
	}

	if request.PoweredOffPolicy != "" &&
		request.PoweredOffPolicy != api.PoweredOffPolicyAll &&
		request.PoweredOffPolicy != api.PoweredOffPolicyOlderThanCutoff {
		replyError(w, r, http.StatusBadRequest, fmt.Sprintf("unknown powered-off policy %q", request.PoweredOffPolicy))
		return
	}

	report, err := s.sessionSrv.RunScopeAnalysis(r.Context(), id, request)
	if err != nil {
		replyServiceError(w, r, err)
		return
	}
	render.JSON(w, r, report)
}

// (POST /api/v1/sessions/{id}/cost)
func (s *ServiceHandler) RunCostAnalysis(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	var params api.TCOParameters
	if !decodeOptionalBody(w, r, &params) {
		return
	}

	if err := s.validate.Struct(params); err != nil {
		replyError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	report, err := s.sessionSrv.RunCostAnalysis(r.Context(), id, params)
	if err != nil {
		replyServiceError(w, r, err)
		return
	}
	render.JSON(w, r, report)
}

// (POST /api/v1/sessions/{id}/modernization)
func (s *ServiceHandler) RunModernizationDiscovery(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	report, err := s.sessionSrv.RunModernizationDiscovery(r.Context(), id)
	if err != nil {
		replyServiceError(w, r, err)
		return
	}
	render.JSON(w, r, report)
}

// (GET /api/v1/sessions/{id}/reports/cost.csv)
func (s *ServiceHandler) GetCostReport(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	doc, err := s.reportSrv.GetCostReportCSV(r.Context(), id)
	if err != nil {
		replyServiceError(w, r, err)
		return
	}
	replyCSV(w, "cost.csv", doc)
}

// (GET /api/v1/sessions/{id}/reports/summary.csv)
func (s *ServiceHandler) GetSummaryReport(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	doc, err := s.reportSrv.GetSummaryReportCSV(r.Context(), id)
	if err != nil {
		replyServiceError(w, r, err)
		return
	}
	replyCSV(w, "summary.csv", doc)
}

func sessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		replyError(w, r, http.StatusBadRequest, fmt.Sprintf("invalid session id: %s", err))
		return uuid.UUID{}, false
	}
	return id, true
}

// decodeOptionalBody parses a JSON body into dst. An absent body leaves dst at
// its zero value; malformed JSON replies 400 and returns false.
func decodeOptionalBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if r.Body == nil || r.ContentLength == 0 {
		return true
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		replyError(w, r, http.StatusBadRequest, fmt.Sprintf("malformed request body: %s", err))
		return false
	}
	return true
}

func replyServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch err.(type) {
	case *service.ErrResourceNotFound:
		replyError(w, r, http.StatusNotFound, err.Error())
	case *service.ErrFileCorrupted, *service.ErrInvalidRequest:
		replyError(w, r, http.StatusBadRequest, err.Error())
	case *service.ErrPhaseNotCompleted:
		replyError(w, r, http.StatusConflict, err.Error())
	default:
		replyError(w, r, http.StatusInternalServerError, "internal server error")
	}
}

func replyError(w http.ResponseWriter, r *http.Request, status int, message string) {
	reply := api.Error{Message: message}
	if reqID := middleware.GetReqID(r.Context()); reqID != "" {
		reply.RequestId = &reqID
	}
	render.Status(r, status)
	render.JSON(w, r, reply)
}

func replyCSV(w http.ResponseWriter, filename, doc string) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(doc))
}
