package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/RubachokBoss/academic-hub/internal/models"
	"github.com/RubachokBoss/academic-hub/internal/repository"
	"github.com/RubachokBoss/academic-hub/internal/session"
)

var testNow = time.Date(2026, 10, 14, 10, 30, 0, 0, time.UTC)

type recordingPublisher struct {
	mu     sync.Mutex
	events []models.ActivityEvent
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, event *models.ActivityEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, *event)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []models.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]models.EventType, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type fakeBackups struct {
	objects map[string][]byte
	err     error
}

func (b *fakeBackups) Upload(ctx context.Context, objectName string, body []byte, contentType string) error {
	if b.err != nil {
		return b.err
	}
	if b.objects == nil {
		b.objects = make(map[string][]byte)
	}
	b.objects[objectName] = body
	return nil
}

// failingLogRepo rejects every append.
type failingLogRepo struct {
	repository.LogRepository
}

func (failingLogRepo) Append(ctx context.Context, entry *models.LogEntry) error {
	return errors.New("disk full")
}

type fixture struct {
	store     *repository.Store
	sessions  *session.Manager
	publisher *recordingPublisher

	auth      *authService
	subjects  *subjectService
	timer     *timerService
	notes     *noteService
	dashboard *dashboardService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	log := zerolog.Nop()
	store, err := repository.NewCSVStore(repository.CSVStoreConfig{
		DataDir:      t.TempDir(),
		UsersFile:    "users.csv",
		SubjectsFile: "subjects.csv",
		LogsFile:     "logs.csv",
	}, log)
	require.NoError(t, err)

	sessions := session.NewManager(session.ManagerConfig{TTL: time.Hour, TickInterval: time.Hour}, log)
	t.Cleanup(sessions.Close)

	publisher := &recordingPublisher{}
	f := &fixture{
		store:     store,
		sessions:  sessions,
		publisher: publisher,
		auth: NewAuthService(store.Users, sessions, publisher, AuthConfig{
			AdminUsername:       "admin",
			AdminPasswordBypass: true,
			BcryptCost:          bcrypt.MinCost,
		}, log).(*authService),
		subjects:  NewSubjectService(store.Subjects, publisher, log).(*subjectService),
		timer:     NewTimerService(store.Logs, publisher, log).(*timerService),
		notes:     NewNoteService(store.Logs, publisher, log).(*noteService),
		dashboard: NewDashboardService(store.Subjects, store.Logs).(*dashboardService),
	}

	clock := func() time.Time { return testNow }
	f.auth.now = clock
	f.subjects.now = clock
	f.timer.now = clock
	f.notes.now = clock
	f.dashboard.now = clock

	return f
}

func (f *fixture) addSubject(t *testing.T, owner, name string, units int) *models.Subject {
	t.Helper()
	subject, err := f.subjects.AddSubject(context.Background(), owner, &models.AddSubjectRequest{
		Name:       name,
		Units:      units,
		Difficulty: "Medium",
	})
	require.NoError(t, err)
	return subject
}

// runTimer starts the session timer and advances it by seconds ticks.
func runTimer(t *testing.T, sess *session.Session, seconds int) {
	t.Helper()
	_, err := sess.Timer.Start(sess.Context())
	require.NoError(t, err)
	for i := 0; i < seconds; i++ {
		sess.Timer.Tick()
	}
}
