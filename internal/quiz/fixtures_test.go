package quiz

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"elearn-quiz/internal/models"
	"elearn-quiz/pkg/database"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var errInjected = errors.New("injected fault")

type fixture struct {
	db          *gorm.DB
	svc         *Service
	cache       *memoryCache
	notes       *recordingNotifier
	instructor  models.User
	other       models.User
	student     models.User
	course      models.Course
	otherCourse models.Course
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.NewSQLiteDB(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	f := &fixture{
		db:    db,
		cache: newMemoryCache(),
		notes: &recordingNotifier{},
	}
	f.svc = NewService(db, f.cache, f.notes)
	f.instructor = f.user(t, "ada", models.RoleInstructor)
	f.other = f.user(t, "grace", models.RoleInstructor)
	f.student = f.user(t, "linus", models.RoleStudent)
	f.course = f.newCourse(t, f.instructor.ID, "Go Basics")
	f.otherCourse = f.newCourse(t, f.other.ID, "Compilers")
	return f
}

func (f *fixture) user(t *testing.T, name, role string) models.User {
	t.Helper()
	u := models.User{Username: name, Email: name + "@example.test", FullName: name, Password: "x", Role: role}
	require.NoError(t, f.db.Create(&u).Error)
	return u
}

func (f *fixture) newCourse(t *testing.T, instructorID uint, title string) models.Course {
	t.Helper()
	c := models.Course{InstructorID: instructorID, Title: title, Status: models.CourseStatusPublished}
	require.NoError(t, f.db.Create(&c).Error)
	return c
}

func (f *fixture) newQuiz(t *testing.T, courseID uint, title string) uint {
	t.Helper()
	q := models.Quiz{CourseID: courseID, Title: title, TimeLimitMinutes: 30, PassingScorePct: 70}
	require.NoError(t, f.db.Create(&q).Error)
	return q.ID
}

func (f *fixture) attempt(t *testing.T, quizID uint, score int, completed time.Time) {
	t.Helper()
	a := models.QuizAttempt{QuizID: quizID, UserID: f.student.ID, ScorePct: score, CompletedAt: completed}
	require.NoError(t, f.db.Create(&a).Error)
}

func (f *fixture) count(t *testing.T, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(model).Where(query, args...).Count(&n).Error)
	return n
}

func (f *fixture) total(t *testing.T, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(model).Count(&n).Error)
	return n
}

func validInput(courseID uint) QuizInput {
	return QuizInput{
		CourseID:         courseID,
		Title:            "Week 1 check",
		Description:      "Variables and types",
		TimeLimitMinutes: 30,
		PassingScorePct:  70,
	}
}

// failNth makes the nth create on table fail with errInjected.
func failNth(t *testing.T, db *gorm.DB, table string, n int) {
	t.Helper()
	seen := 0
	err := db.Callback().Create().Before("gorm:create").Register("test:fail_"+table, func(tx *gorm.DB) {
		if tx.Statement.Table != table {
			return
		}
		seen++
		if seen == n {
			tx.AddError(errInjected)
		}
	})
	require.NoError(t, err)
}

type dashboardKey struct {
	instructorID uint
	version      int64
}

type memoryCache struct {
	mu          sync.Mutex
	versions    map[uint]int64
	dashboards  map[dashboardKey][]models.QuizWithStats
	invalidated []uint
}

func newMemoryCache() *memoryCache {
	return &memoryCache{
		versions:   map[uint]int64{},
		dashboards: map[dashboardKey][]models.QuizWithStats{},
	}
}

func (c *memoryCache) DashboardVersion(_ context.Context, id uint) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.versions[id], nil
}

func (c *memoryCache) GetDashboard(_ context.Context, id uint, version int64) ([]models.QuizWithStats, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	q, ok := c.dashboards[dashboardKey{id, version}]
	if !ok {
		return nil, errors.New("miss")
	}
	out := make([]models.QuizWithStats, len(q))
	copy(out, q)
	return out, nil
}

func (c *memoryCache) SetDashboard(_ context.Context, id uint, version int64, quizzes []models.QuizWithStats) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	stored := make([]models.QuizWithStats, len(quizzes))
	copy(stored, quizzes)
	c.dashboards[dashboardKey{id, version}] = stored
	return nil
}

func (c *memoryCache) InvalidateDashboard(_ context.Context, id uint) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.versions[id]++
	c.invalidated = append(c.invalidated, id)
	return nil
}

// current returns what a fresh reader of id's dashboard would get.
func (c *memoryCache) current(id uint) ([]models.QuizWithStats, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	q, ok := c.dashboards[dashboardKey{id, c.versions[id]}]
	return q, ok
}

// racingCache invalidates the dashboard right after a reader has fetched
// the version, the way a concurrent mutation would.
type racingCache struct {
	*memoryCache
	once sync.Once
}

func (c *racingCache) DashboardVersion(ctx context.Context, id uint) (int64, error) {
	v, err := c.memoryCache.DashboardVersion(ctx, id)
	c.once.Do(func() {
		c.memoryCache.InvalidateDashboard(ctx, id)
	})
	return v, err
}

type note struct {
	instructorID uint
	msgType      string
}

type recordingNotifier struct {
	mu    sync.Mutex
	notes []note
}

func (n *recordingNotifier) SendToInstructor(id uint, msgType string, _ interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notes = append(n.notes, note{id, msgType})
}

func (n *recordingNotifier) types() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []string
	for _, x := range n.notes {
		out = append(out, x.msgType)
	}
	return out
}
