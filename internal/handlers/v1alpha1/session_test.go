package v1alpha1_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/xuri/excelize/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	api "github.com/cloudshift/migration-analyzer/api/v1alpha1"
	"github.com/cloudshift/migration-analyzer/internal/analysis"
	handlers "github.com/cloudshift/migration-analyzer/internal/handlers/v1alpha1"
	"github.com/cloudshift/migration-analyzer/internal/service"
	"github.com/cloudshift/migration-analyzer/internal/store"
)

func buildUpload(rows [][]any) []byte {
	headers := []string{
		"VM", "Powerstate", "CPUs", "Memory", "Provisioned MiB",
		"Creation date", "OS according to the configuration file",
		"OS according to the VMware Tools", "VI SDK UUID",
	}

	f := excelize.NewFile()
	defer f.Close()

	_, err := f.NewSheet("vInfo")
	Expect(err).To(BeNil())

	for colIndex, header := range headers {
		cellRef, err := excelize.CoordinatesToCellName(colIndex+1, 1)
		Expect(err).To(BeNil())
		Expect(f.SetCellValue("vInfo", cellRef, header)).To(Succeed())
	}
	for rowIndex, row := range rows {
		for colIndex, value := range row {
			cellRef, err := excelize.CoordinatesToCellName(colIndex+1, rowIndex+2)
			Expect(err).To(BeNil())
			Expect(f.SetCellValue("vInfo", cellRef, value)).To(Succeed())
		}
	}

	var buf bytes.Buffer
	_, err = f.WriteTo(&buf)
	Expect(err).To(BeNil())
	return buf.Bytes()
}

func multipartUpload(name string, content []byte) (*bytes.Buffer, string) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	Expect(writer.WriteField("name", name)).To(Succeed())

	part, err := writer.CreateFormFile("file", "rvtools.xlsx")
	Expect(err).To(BeNil())
	_, err = part.Write(content)
	Expect(err).To(BeNil())

	Expect(writer.Close()).To(Succeed())
	return body, writer.FormDataContentType()
}

var _ = Describe("session handler", Ordered, func() {
	var (
		router chi.Router
		gormdb *gorm.DB
		upload []byte
	)

	BeforeAll(func() {
		db, err := gorm.Open(
			sqlite.Open(filepath.Join(GinkgoT().TempDir(), "analyzer.db")),
			&gorm.Config{Logger: logger.Default.LogMode(logger.Silent), TranslateError: true},
		)
		Expect(err).To(BeNil())

		s := store.NewStore(db)
		gormdb = db
		Expect(s.InitialMigration()).To(Succeed())

		sessionSrv := service.NewSessionService(s, analysis.DefaultAssumptions())
		reportSrv := service.NewReportService(sessionSrv)

		router = chi.NewRouter()
		handlers.NewServiceHandler(sessionSrv, reportSrv).RegisterRoutes(router)

		upload = buildUpload([][]any{
			{"prod-db-01", "poweredOn", "4", "16384", "204800", "", "Red Hat Enterprise Linux 8 (64-bit)", "", "uuid-1"},
			{"vcenter-01", "poweredOn", "8", "32768", "", "", "", "", "uuid-1"},
		})
	})

	AfterEach(func() {
		gormdb.Exec("DELETE FROM sessions;")
	})

	do := func(method, path, contentType string, body *bytes.Buffer) *httptest.ResponseRecorder {
		if body == nil {
			body = &bytes.Buffer{}
		}
		req := httptest.NewRequest(method, path, body)
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	createSession := func() api.Session {
		body, contentType := multipartUpload("q3-assessment", upload)
		rec := do(http.MethodPost, "/api/v1/sessions", contentType, body)
		Expect(rec.Code).To(Equal(http.StatusCreated))

		var session api.Session
		Expect(json.Unmarshal(rec.Body.Bytes(), &session)).To(Succeed())
		return session
	}

	Context("create", func() {
		It("accepts a multipart RVTools upload", func() {
			session := createSession()
			Expect(session.Name).To(Equal("q3-assessment"))
			Expect(session.Inventory.Vms).To(HaveLen(2))
		})

		It("rejects a corrupted file", func() {
			body, contentType := multipartUpload("bad", []byte("not an excel file"))
			rec := do(http.MethodPost, "/api/v1/sessions", contentType, body)
			Expect(rec.Code).To(Equal(http.StatusBadRequest))

			var reply api.Error
			Expect(json.Unmarshal(rec.Body.Bytes(), &reply)).To(Succeed())
			Expect(reply.Message).To(ContainSubstring("corrupted"))
		})

		It("rejects a non-multipart body", func() {
			rec := do(http.MethodPost, "/api/v1/sessions", "application/json", bytes.NewBufferString("{}"))
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Context("lifecycle", func() {
		It("lists and deletes sessions", func() {
			session := createSession()

			rec := do(http.MethodGet, "/api/v1/sessions", "", nil)
			Expect(rec.Code).To(Equal(http.StatusOK))

			var summaries []api.SessionSummary
			Expect(json.Unmarshal(rec.Body.Bytes(), &summaries)).To(Succeed())
			Expect(summaries).To(HaveLen(1))

			rec = do(http.MethodDelete, fmt.Sprintf("/api/v1/sessions/%s", session.ID), "", nil)
			Expect(rec.Code).To(Equal(http.StatusNoContent))

			rec = do(http.MethodGet, fmt.Sprintf("/api/v1/sessions/%s", session.ID), "", nil)
			Expect(rec.Code).To(Equal(http.StatusNotFound))
		})

		It("rejects a malformed session id", func() {
			rec := do(http.MethodGet, "/api/v1/sessions/not-a-uuid", "", nil)
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})

		It("returns 404 for an unknown session", func() {
			rec := do(http.MethodGet, fmt.Sprintf("/api/v1/sessions/%s", uuid.New()), "", nil)
			Expect(rec.Code).To(Equal(http.StatusNotFound))
		})
	})

	Context("analysis phases", func() {
		It("runs the scope phase", func() {
			session := createSession()

			body := bytes.NewBufferString(`{"excludePoweredOff": false}`)
			rec := do(http.MethodPost, fmt.Sprintf("/api/v1/sessions/%s/scope", session.ID), "application/json", body)
			Expect(rec.Code).To(Equal(http.StatusOK))

			var report api.ScopeReport
			Expect(json.Unmarshal(rec.Body.Bytes(), &report)).To(Succeed())
			Expect(report.TotalVms).To(Equal(2))
			Expect(report.InScope).To(ConsistOf("prod-db-01"))
		})

		It("rejects an unknown powered-off policy", func() {
			session := createSession()

			body := bytes.NewBufferString(`{"excludePoweredOff": true, "poweredOffPolicy": "sometimes"}`)
			rec := do(http.MethodPost, fmt.Sprintf("/api/v1/sessions/%s/scope", session.ID), "application/json", body)
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})

		It("runs the cost phase with an empty body", func() {
			session := createSession()

			rec := do(http.MethodPost, fmt.Sprintf("/api/v1/sessions/%s/cost", session.ID), "", nil)
			Expect(rec.Code).To(Equal(http.StatusOK))

			var report api.CostReport
			Expect(json.Unmarshal(rec.Body.Bytes(), &report)).To(Succeed())
			Expect(report.Estimates).To(HaveLen(1))
			Expect(report.TotalMonthlyCost).To(BeNumerically(">", 0))
		})

		It("rejects invalid TCO parameters", func() {
			session := createSession()

			body := bytes.NewBufferString(`{"productionPlan": "spot"}`)
			rec := do(http.MethodPost, fmt.Sprintf("/api/v1/sessions/%s/cost", session.ID), "application/json", body)
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})

		It("runs the modernization phase", func() {
			session := createSession()

			rec := do(http.MethodPost, fmt.Sprintf("/api/v1/sessions/%s/modernization", session.ID), "", nil)
			Expect(rec.Code).To(Equal(http.StatusOK))

			var report api.ModernizationReport
			Expect(json.Unmarshal(rec.Body.Bytes(), &report)).To(Succeed())
			Expect(report.CountsByKind).To(HaveKey("managed_database"))
		})
	})

	Context("reports", func() {
		It("serves the cost CSV after the cost phase", func() {
			session := createSession()

			rec := do(http.MethodPost, fmt.Sprintf("/api/v1/sessions/%s/cost", session.ID), "", nil)
			Expect(rec.Code).To(Equal(http.StatusOK))

			rec = do(http.MethodGet, fmt.Sprintf("/api/v1/sessions/%s/reports/cost.csv", session.ID), "", nil)
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Header().Get("Content-Type")).To(Equal("text/csv"))
			Expect(rec.Body.String()).To(ContainSubstring("prod-db-01"))
		})

		It("refuses the cost CSV before the cost phase", func() {
			session := createSession()

			rec := do(http.MethodGet, fmt.Sprintf("/api/v1/sessions/%s/reports/cost.csv", session.ID), "", nil)
			Expect(rec.Code).To(Equal(http.StatusConflict))
		})

		It("always serves the summary CSV", func() {
			session := createSession()

			rec := do(http.MethodGet, fmt.Sprintf("/api/v1/sessions/%s/reports/summary.csv", session.ID), "", nil)
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(ContainSubstring("MIGRATION FEASIBILITY SUMMARY REPORT"))
		})
	})
})
