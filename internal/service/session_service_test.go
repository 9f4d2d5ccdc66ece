package service_test

import (
	"bytes"
	"context"
	"path/filepath"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/xuri/excelize/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	api "github.com/cloudshift/migration-analyzer/api/v1alpha1"
	"github.com/cloudshift/migration-analyzer/internal/analysis"
	"github.com/cloudshift/migration-analyzer/internal/service"
	"github.com/cloudshift/migration-analyzer/internal/store"
)

var vInfoHeaders = []string{
	"VM", "Powerstate", "CPUs", "Memory", "Provisioned MiB",
	"Creation date", "OS according to the configuration file",
	"OS according to the VMware Tools", "VI SDK UUID",
}

func buildWorkbook(rows [][]any) []byte {
	f := excelize.NewFile()
	defer f.Close()

	_, err := f.NewSheet("vInfo")
	Expect(err).To(BeNil())

	for colIndex, header := range vInfoHeaders {
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

var _ = Describe("session service", Ordered, func() {
	var (
		svc     *service.SessionService
		reports *service.ReportService
		gormdb  *gorm.DB
		upload  []byte
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

		svc = service.NewSessionService(s, analysis.DefaultAssumptions())
		reports = service.NewReportService(svc)

		upload = buildWorkbook([][]any{
			{"prod-db-01", "poweredOn", "4", "16,384", "204,800", "2023-06-15 10:30:00", "Red Hat Enterprise Linux 8 (64-bit)", "", "uuid-1234"},
			{"dev-web-02", "poweredOn", "2", "4096", "", "", "", "Ubuntu Linux (64-bit)", "uuid-1234"},
			{"vcenter-01", "poweredOn", "8", "32768", "102,400", "", "Other Linux (64-bit)", "", "uuid-1234"},
			{"decom-file-01", "poweredOff", "2", "2048", "51,200", "", "", "", "uuid-1234"},
		})
	})

	AfterEach(func() {
		gormdb.Exec("DELETE FROM sessions;")
	})

	createSession := func() api.Session {
		session, err := svc.CreateSession(context.TODO(), "q3-assessment", upload)
		Expect(err).To(BeNil())
		return session
	}

	Context("create", func() {
		It("parses the upload into an inventory", func() {
			session := createSession()
			Expect(session.Name).To(Equal("q3-assessment"))
			Expect(session.Inventory).ToNot(BeNil())
			Expect(session.Inventory.Vms).To(HaveLen(4))
			Expect(session.Inventory.VcenterID).To(Equal("uuid-1234"))
			Expect(session.Scope).To(BeNil())
		})

		It("rejects an empty upload", func() {
			_, err := svc.CreateSession(context.TODO(), "empty", nil)
			Expect(err).To(BeAssignableToTypeOf(&service.ErrFileCorrupted{}))
		})

		It("rejects a non-excel upload", func() {
			_, err := svc.CreateSession(context.TODO(), "csv", []byte("name,cpu\nvm-1,2\n"))
			Expect(err).To(BeAssignableToTypeOf(&service.ErrFileCorrupted{}))
		})
	})

	Context("lifecycle", func() {
		It("lists sessions with their VM counts", func() {
			createSession()

			summaries, err := svc.ListSessions(context.TODO())
			Expect(err).To(BeNil())
			Expect(summaries).To(HaveLen(1))
			Expect(summaries[0].TotalVms).To(Equal(4))
		})

		It("returns not found for an unknown session", func() {
			_, err := svc.GetSession(context.TODO(), uuid.New())
			Expect(err).To(BeAssignableToTypeOf(&service.ErrResourceNotFound{}))
		})

		It("deletes a session", func() {
			session := createSession()
			Expect(svc.DeleteSession(context.TODO(), session.ID)).To(Succeed())

			_, err := svc.GetSession(context.TODO(), session.ID)
			Expect(err).To(BeAssignableToTypeOf(&service.ErrResourceNotFound{}))
		})
	})

	Context("scope analysis", func() {
		It("partitions the inventory and persists the report", func() {
			session := createSession()

			report, err := svc.RunScopeAnalysis(context.TODO(), session.ID, api.ScopeRequest{})
			Expect(err).To(BeNil())
			Expect(report.TotalVms).To(Equal(4))
			Expect(report.InScope).To(ConsistOf("prod-db-01", "dev-web-02", "decom-file-01"))
			Expect(report.OutOfScope).To(HaveLen(1))
			Expect(report.OutOfScope[0].Name).To(Equal("vcenter-01"))
			Expect(report.OutOfScope[0].Category).To(Equal(api.ScopeCategoryVmwareManagement))

			stored, err := svc.GetSession(context.TODO(), session.ID)
			Expect(err).To(BeNil())
			Expect(stored.Scope).ToNot(BeNil())
			Expect(stored.Scope.InScope).To(ConsistOf(report.InScope))
		})

		It("excludes powered-off VMs when requested", func() {
			session := createSession()

			report, err := svc.RunScopeAnalysis(context.TODO(), session.ID, api.ScopeRequest{
				ExcludePoweredOff: true,
				PoweredOffPolicy:  api.PoweredOffPolicyAll,
			})
			Expect(err).To(BeNil())
			Expect(report.InScope).To(ConsistOf("prod-db-01", "dev-web-02"))
			Expect(report.PoweredOff).To(HaveLen(1))
			Expect(report.PoweredOff[0].Name).To(Equal("decom-file-01"))
		})

		It("returns not found for an unknown session", func() {
			_, err := svc.RunScopeAnalysis(context.TODO(), uuid.New(), api.ScopeRequest{})
			Expect(err).To(BeAssignableToTypeOf(&service.ErrResourceNotFound{}))
		})
	})

	Context("cost analysis", func() {
		It("prices the in-scope VMs and persists the report", func() {
			session := createSession()

			_, err := svc.RunScopeAnalysis(context.TODO(), session.ID, api.ScopeRequest{
				ExcludePoweredOff: true,
				PoweredOffPolicy:  api.PoweredOffPolicyAll,
			})
			Expect(err).To(BeNil())

			report, err := svc.RunCostAnalysis(context.TODO(), session.ID, api.TCOParameters{})
			Expect(err).To(BeNil())
			Expect(report.Estimates).To(HaveLen(2))

			byName := map[string]api.VMCostEstimate{}
			for _, e := range report.Estimates {
				byName[e.VMName] = e
			}

			prodDb := byName["prod-db-01"]
			Expect(prodDb.InstanceType).To(Equal("m5.xlarge"))
			Expect(prodDb.OsCategory).To(Equal(api.OsRhel))
			Expect(prodDb.PricingPlan).To(Equal(api.PricingPlanReserved))
			Expect(prodDb.StorageCost).To(BeNumerically("~", 200*0.08, 0.01))

			devWeb := byName["dev-web-02"]
			Expect(devWeb.InstanceType).To(Equal("t3.medium"))
			Expect(devWeb.PricingPlan).To(Equal(api.PricingPlanOnDemand))

			sum := prodDb.TotalMonthlyCost + devWeb.TotalMonthlyCost
			Expect(report.TotalMonthlyCost).To(BeNumerically("~", sum, 1e-9))
			Expect(report.TotalAnnualCost).To(BeNumerically("~", sum*12, 1e-9))
			Expect(report.FiveYearProjection).To(HaveLen(5))

			stored, err := svc.GetSession(context.TODO(), session.ID)
			Expect(err).To(BeNil())
			Expect(stored.Cost).ToNot(BeNil())
		})

		It("prices a fresh partition when scope has not run", func() {
			session := createSession()

			report, err := svc.RunCostAnalysis(context.TODO(), session.ID, api.TCOParameters{})
			Expect(err).To(BeNil())
			// vcenter-01 is filtered, the powered-off VM is not.
			Expect(report.Estimates).To(HaveLen(3))
		})

		It("honors the growth rate override in the projection", func() {
			session := createSession()

			growth := 0.0
			report, err := svc.RunCostAnalysis(context.TODO(), session.ID, api.TCOParameters{AnnualGrowthRate: &growth})
			Expect(err).To(BeNil())
			Expect(report.FiveYearProjection[0]).To(BeNumerically("~", report.FiveYearProjection[4], 1e-9))
		})
	})

	Context("modernization discovery", func() {
		It("finds candidates among the in-scope VMs", func() {
			session := createSession()

			report, err := svc.RunModernizationDiscovery(context.TODO(), session.ID)
			Expect(err).To(BeNil())

			kinds := map[string]string{}
			for _, candidate := range report.Candidates {
				kinds[candidate.VMName] = candidate.Kind
			}
			Expect(kinds["prod-db-01"]).To(Equal("managed_database"))
			Expect(kinds["dev-web-02"]).To(Equal("instance_scheduling"))
			Expect(kinds["decom-file-01"]).To(Equal("retirement"))

			stored, err := svc.GetSession(context.TODO(), session.ID)
			Expect(err).To(BeNil())
			Expect(stored.Modernization).ToNot(BeNil())
		})
	})

	Context("reports", func() {
		It("renders the per-VM cost report after the cost phase", func() {
			session := createSession()
			_, err := svc.RunCostAnalysis(context.TODO(), session.ID, api.TCOParameters{})
			Expect(err).To(BeNil())

			doc, err := reports.GetCostReportCSV(context.TODO(), session.ID)
			Expect(err).To(BeNil())
			Expect(doc).To(ContainSubstring("VM Name,CPU Cores,Memory GB,Storage GB,Recommended Instance Type"))
			Expect(doc).To(ContainSubstring("prod-db-01"))
		})

		It("refuses the cost report before the cost phase", func() {
			session := createSession()

			_, err := reports.GetCostReportCSV(context.TODO(), session.ID)
			Expect(err).To(BeAssignableToTypeOf(&service.ErrPhaseNotCompleted{}))
		})

		It("renders the summary for any phase combination", func() {
			session := createSession()

			doc, err := reports.GetSummaryReportCSV(context.TODO(), session.ID)
			Expect(err).To(BeNil())
			Expect(doc).To(ContainSubstring("MIGRATION FEASIBILITY SUMMARY REPORT"))
			Expect(doc).To(ContainSubstring("Scope analysis has not run for this session."))

			_, err = svc.RunScopeAnalysis(context.TODO(), session.ID, api.ScopeRequest{})
			Expect(err).To(BeNil())

			doc, err = reports.GetSummaryReportCSV(context.TODO(), session.ID)
			Expect(err).To(BeNil())
			Expect(doc).To(ContainSubstring("Total Virtual Machines,4"))
			Expect(doc).To(ContainSubstring("vcenter-01"))
		})
	})
})
