package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cloudshift/migration-analyzer/internal/store/model"
)

// SessionUpdate carries the phase columns to overwrite; nil fields are left
// untouched.
type SessionUpdate struct {
	Scope         []byte
	Cost          []byte
	Modernization []byte
}

type Session interface {
	List(ctx context.Context) (model.SessionList, error)
	Create(ctx context.Context, session model.Session) (*model.Session, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Session, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Update(ctx context.Context, id uuid.UUID, update SessionUpdate) (*model.Session, error)
	InitialMigration() error
}

type SessionStore struct {
	db *gorm.DB
}

// Make sure we conform to Session interface
var _ Session = (*SessionStore)(nil)

func NewSessionStore(db *gorm.DB) Session {
	return &SessionStore{db: db}
}

func (s *SessionStore) InitialMigration() error {
	return s.db.AutoMigrate(&model.Session{})
}

func (s *SessionStore) List(ctx context.Context) (model.SessionList, error) {
	var sessions model.SessionList
	result := s.db.WithContext(ctx).Order("created_at DESC").Find(&sessions)
	if result.Error != nil {
		return nil, result.Error
	}
	return sessions, nil
}

func (s *SessionStore) Create(ctx context.Context, session model.Session) (*model.Session, error) {
	result := s.db.WithContext(ctx).Create(&session)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateKey
		}
		return nil, result.Error
	}
	return &session, nil
}

func (s *SessionStore) Get(ctx context.Context, id uuid.UUID) (*model.Session, error) {
	session := model.NewSessionFromId(id)
	result := s.db.WithContext(ctx).First(session)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, result.Error
	}
	return session, nil
}

func (s *SessionStore) Delete(ctx context.Context, id uuid.UUID) error {
	session := model.NewSessionFromId(id)
	result := s.db.WithContext(ctx).Unscoped().Delete(session)
	if result.Error != nil && !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return result.Error
	}
	return nil
}

func (s *SessionStore) Update(ctx context.Context, id uuid.UUID, update SessionUpdate) (*model.Session, error) {
	session := model.NewSessionFromId(id)

	selectFields := []string{}
	if update.Scope != nil {
		session.Scope = update.Scope
		selectFields = append(selectFields, "scope")
	}
	if update.Cost != nil {
		session.Cost = update.Cost
		selectFields = append(selectFields, "cost")
	}
	if update.Modernization != nil {
		session.Modernization = update.Modernization
		selectFields = append(selectFields, "modernization")
	}

	if len(selectFields) == 0 {
		return s.Get(ctx, id)
	}

	result := s.db.WithContext(ctx).Model(session).Clauses(clause.Returning{}).Select(selectFields).Updates(session)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrRecordNotFound
	}

	return session, nil
}
