// interfaces.go: defines the interface for session and event persistence.
package datastore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/proctorsight/proctor-go/internal/conf"
	"github.com/proctorsight/proctor-go/internal/errors"
	"github.com/proctorsight/proctor-go/internal/integrity"
)

// Interface abstracts the underlying database implementation and defines
// the operations the application performs against it.
type Interface interface {
	Open() error
	Close() error

	CreateSession(ctx context.Context, candidateName string) (*Session, error)
	GetSession(ctx context.Context, id string) (*Session, error)
	EndSession(ctx context.Context, id string) (*Session, error)
	GetAllSessions(ctx context.Context) ([]Session, error)
	DeleteSession(ctx context.Context, id string) error

	AppendEvent(ctx context.Context, sessionID string, event integrity.Event) error
	GetEvents(ctx context.Context, sessionID string) ([]integrity.Event, error)
}

// DataStore implements Interface using a GORM database.
type DataStore struct {
	DB *gorm.DB
}

// New creates a store for whichever backend is enabled in settings.
func New(settings *conf.Settings) Interface {
	switch {
	case settings.Output.SQLite.Enabled:
		return &SQLiteStore{Settings: settings}
	case settings.Output.MySQL.Enabled:
		return &MySQLStore{Settings: settings}
	default:
		return nil
	}
}

// CreateSession inserts a new session for the candidate with the baseline
// focus score and returns it.
func (ds *DataStore) CreateSession(ctx context.Context, candidateName string) (*Session, error) {
	if candidateName == "" {
		return nil, errors.Newf("candidate name cannot be empty").
			Component("datastore").
			Category(errors.CategoryValidation).
			Build()
	}

	session := &Session{
		ID:            uuid.NewString(),
		CandidateName: candidateName,
		StartTime:     time.Now(),
		FocusScore:    DefaultFocusScore,
	}

	if err := ds.DB.WithContext(ctx).Create(session).Error; err != nil {
		return nil, dbError(err, "creating session")
	}
	return session, nil
}

// GetSession retrieves a session by its ID.
func (ds *DataStore) GetSession(ctx context.Context, id string) (*Session, error) {
	var session Session
	if err := ds.DB.WithContext(ctx).First(&session, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound(id)
		}
		return nil, dbError(err, "getting session")
	}
	return &session, nil
}

// EndSession closes a session, recording the end time and the derived
// duration in whole seconds.
func (ds *DataStore) EndSession(ctx context.Context, id string) (*Session, error) {
	session, err := ds.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	session.EndTime = &now
	session.Duration = int(now.Sub(session.StartTime) / time.Second)

	if err := ds.DB.WithContext(ctx).Save(session).Error; err != nil {
		return nil, dbError(err, "ending session")
	}
	return session, nil
}

// GetAllSessions returns all sessions, most recent first.
func (ds *DataStore) GetAllSessions(ctx context.Context) ([]Session, error) {
	var sessions []Session
	if err := ds.DB.WithContext(ctx).Order("start_time DESC").Find(&sessions).Error; err != nil {
		return nil, dbError(err, "listing sessions")
	}
	return sessions, nil
}

// DeleteSession removes a session and its events in one transaction.
func (ds *DataStore) DeleteSession(ctx context.Context, id string) error {
	if _, err := ds.GetSession(ctx, id); err != nil {
		return err
	}

	return ds.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_id = ?", id).Delete(&Event{}).Error; err != nil {
			return dbError(err, "deleting session events")
		}
		if err := tx.Delete(&Session{}, "id = ?", id).Error; err != nil {
			return dbError(err, "deleting session")
		}
		return nil
	})
}

// AppendEvent stores one integrity event against an existing session.
// Events are append-only; nothing ever updates or removes them while the
// session lives.
func (ds *DataStore) AppendEvent(ctx context.Context, sessionID string, event integrity.Event) error {
	if !event.Kind.Valid() {
		return errors.Newf("refusing to append event with unknown kind %q", event.Kind).
			Component("datastore").
			Category(errors.CategoryValidation).
			Build()
	}

	if _, err := ds.GetSession(ctx, sessionID); err != nil {
		return err
	}

	record := newEventRecord(sessionID, event)
	if err := ds.DB.WithContext(ctx).Create(&record).Error; err != nil {
		return dbError(err, "appending event")
	}
	return nil
}

// GetEvents returns a session's events in insertion order.
func (ds *DataStore) GetEvents(ctx context.Context, sessionID string) ([]integrity.Event, error) {
	if _, err := ds.GetSession(ctx, sessionID); err != nil {
		return nil, err
	}

	var records []Event
	if err := ds.DB.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("id ASC").
		Find(&records).Error; err != nil {
		return nil, dbError(err, "getting events")
	}

	events := make([]integrity.Event, len(records))
	for i := range records {
		events[i] = records[i].Domain()
	}
	return events, nil
}

// Close closes the underlying database connection.
func (ds *DataStore) Close() error {
	if ds.DB == nil {
		return nil
	}
	sqlDB, err := ds.DB.DB()
	if err != nil {
		return dbError(err, "accessing connection for close")
	}
	return sqlDB.Close()
}

func notFound(id string) error {
	return errors.Newf("session not found: %s", id).
		Component("datastore").
		Category(errors.CategoryNotFound).
		Context("session_id", id).
		Build()
}

func dbError(err error, operation string) error {
	return errors.New(fmt.Errorf("%s: %w", operation, err)).
		Component("datastore").
		Category(errors.CategoryDatabase).
		Build()
}
