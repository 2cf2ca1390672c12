package scoring

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/proctorsight/proctor-go/internal/datastore"
	"github.com/proctorsight/proctor-go/internal/integrity"
)

// Report is the on-demand aggregation of one session. It is computed from
// the persisted session and its full event list and is never stored.
type Report struct {
	SessionID         string
	CandidateName     string
	InterviewDuration int // seconds, zero while the session is still open
	FocusScore        int
	IntegrityScore    int
	Events            []integrity.Event
}

// SessionReader is the persistence capability the generator needs.
type SessionReader interface {
	GetSession(ctx context.Context, id string) (*datastore.Session, error)
	GetEvents(ctx context.Context, sessionID string) ([]integrity.Event, error)
}

const (
	reportCacheTTL     = 5 * time.Minute
	reportCacheCleanup = 10 * time.Minute
)

// Generator builds reports from stored sessions. Reports for ended
// sessions are cached; open sessions keep accruing events so their reports
// are always recomputed.
type Generator struct {
	store SessionReader
	cache *gocache.Cache
}

// NewGenerator creates a report generator backed by the given store.
func NewGenerator(store SessionReader) *Generator {
	return &Generator{
		store: store,
		cache: gocache.New(reportCacheTTL, reportCacheCleanup),
	}
}

// Report computes the report for a session, scoring all events currently
// attached to it.
func (g *Generator) Report(ctx context.Context, sessionID string) (*Report, error) {
	if cached, found := g.cache.Get(sessionID); found {
		return cached.(*Report), nil
	}

	session, err := g.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	events, err := g.store.GetEvents(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	report := &Report{
		SessionID:         session.ID,
		CandidateName:     session.CandidateName,
		InterviewDuration: session.Duration,
		FocusScore:        session.FocusScore,
		IntegrityScore:    Score(events),
		Events:            events,
	}

	if session.Ended() {
		g.cache.Set(sessionID, report, gocache.DefaultExpiration)
	}

	return report, nil
}
