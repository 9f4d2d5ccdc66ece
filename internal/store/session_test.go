package store_test

import (
	"context"
	"encoding/json"
	"path/filepath"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	api "github.com/cloudshift/migration-analyzer/api/v1alpha1"
	"github.com/cloudshift/migration-analyzer/internal/store"
	"github.com/cloudshift/migration-analyzer/internal/store/model"
)

var _ = Describe("session store", Ordered, func() {
	var (
		s      store.Store
		gormdb *gorm.DB
	)

	BeforeAll(func() {
		db, err := gorm.Open(
			sqlite.Open(filepath.Join(GinkgoT().TempDir(), "analyzer.db")),
			&gorm.Config{Logger: logger.Default.LogMode(logger.Silent), TranslateError: true},
		)
		Expect(err).To(BeNil())

		s = store.NewStore(db)
		gormdb = db

		Expect(s.InitialMigration()).To(Succeed())
	})

	AfterAll(func() {
		s.Close()
	})

	AfterEach(func() {
		gormdb.Exec("DELETE FROM sessions;")
	})

	newSession := func(name string) model.Session {
		inventory, err := json.Marshal(api.Inventory{Vms: []api.VM{{Name: "vm-1", CpuCount: 2}}})
		Expect(err).To(BeNil())
		return model.Session{
			ID:        uuid.New(),
			Name:      name,
			Inventory: inventory,
		}
	}

	Context("create", func() {
		It("successfully creates a session", func() {
			created, err := s.Session().Create(context.TODO(), newSession("upload-1"))
			Expect(err).To(BeNil())
			Expect(created.Name).To(Equal("upload-1"))
			Expect(created.Inventory).ToNot(BeEmpty())
		})

		It("fails on duplicate id", func() {
			session := newSession("upload-1")
			_, err := s.Session().Create(context.TODO(), session)
			Expect(err).To(BeNil())

			_, err = s.Session().Create(context.TODO(), session)
			Expect(err).To(MatchError(store.ErrDuplicateKey))
		})
	})

	Context("get", func() {
		It("returns a stored session", func() {
			created, err := s.Session().Create(context.TODO(), newSession("upload-1"))
			Expect(err).To(BeNil())

			found, err := s.Session().Get(context.TODO(), created.ID)
			Expect(err).To(BeNil())
			Expect(found.Name).To(Equal("upload-1"))
		})

		It("returns not found for an unknown id", func() {
			_, err := s.Session().Get(context.TODO(), uuid.New())
			Expect(err).To(MatchError(store.ErrRecordNotFound))
		})
	})

	Context("list", func() {
		It("lists all sessions", func() {
			_, err := s.Session().Create(context.TODO(), newSession("upload-1"))
			Expect(err).To(BeNil())
			_, err = s.Session().Create(context.TODO(), newSession("upload-2"))
			Expect(err).To(BeNil())

			sessions, err := s.Session().List(context.TODO())
			Expect(err).To(BeNil())
			Expect(sessions).To(HaveLen(2))
		})
	})

	Context("update", func() {
		It("stores phase results without touching the inventory", func() {
			created, err := s.Session().Create(context.TODO(), newSession("upload-1"))
			Expect(err).To(BeNil())

			scope, err := json.Marshal(api.ScopeReport{TotalVms: 1, InScope: []string{"vm-1"}})
			Expect(err).To(BeNil())

			updated, err := s.Session().Update(context.TODO(), created.ID, store.SessionUpdate{Scope: scope})
			Expect(err).To(BeNil())
			Expect(updated.Scope).ToNot(BeEmpty())

			found, err := s.Session().Get(context.TODO(), created.ID)
			Expect(err).To(BeNil())
			Expect(found.Inventory).To(Equal(created.Inventory))
			Expect(found.Scope).To(Equal([]byte(scope)))
			Expect(found.Cost).To(BeEmpty())
		})

		It("returns not found for an unknown id", func() {
			scope, _ := json.Marshal(api.ScopeReport{})
			_, err := s.Session().Update(context.TODO(), uuid.New(), store.SessionUpdate{Scope: scope})
			Expect(err).To(MatchError(store.ErrRecordNotFound))
		})
	})

	Context("delete", func() {
		It("removes the session", func() {
			created, err := s.Session().Create(context.TODO(), newSession("upload-1"))
			Expect(err).To(BeNil())

			Expect(s.Session().Delete(context.TODO(), created.ID)).To(Succeed())

			_, err = s.Session().Get(context.TODO(), created.ID)
			Expect(err).To(MatchError(store.ErrRecordNotFound))
		})

		It("is a no-op for an unknown id", func() {
			Expect(s.Session().Delete(context.TODO(), uuid.New())).To(Succeed())
		})
	})
})
