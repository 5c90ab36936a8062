package certificate

import (
	"context"
	"regexp"
	"testing"
	"time"

	"elearn-quiz/internal/apperr"
	"elearn-quiz/internal/models"
	"elearn-quiz/pkg/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db         *gorm.DB
	svc        *Service
	student    models.User
	classmate  models.User
	instructor models.User
	course     models.Course
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

	f := &fixture{db: db, svc: NewService(db)}
	f.svc.now = func() time.Time { return time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC) }
	f.instructor = f.user(t, "ada", "Ada Lovelace", models.RoleInstructor)
	f.student = f.user(t, "linus", "Linus T", models.RoleStudent)
	f.classmate = f.user(t, "ken", "Ken T", models.RoleStudent)
	f.course = models.Course{InstructorID: f.instructor.ID, Title: "Go Basics", Status: models.CourseStatusPublished}
	require.NoError(t, db.Create(&f.course).Error)
	return f
}

func (f *fixture) user(t *testing.T, name, full, role string) models.User {
	t.Helper()
	u := models.User{Username: name, Email: name + "@example.test", FullName: full, Password: "x", Role: role}
	require.NoError(t, f.db.Create(&u).Error)
	return u
}

func (f *fixture) enroll(t *testing.T, userID uint, progress int) {
	t.Helper()
	e := models.Enrollment{UserID: userID, CourseID: f.course.ID, Progress: progress}
	require.NoError(t, f.db.Create(&e).Error)
}

func TestNumber(t *testing.T) {
	issued := time.Date(2026, 1, 9, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "CERT-20260109-00042-00007-a1b2c3", Number(issued, 42, 7, "a1b2c3"))
	assert.Len(t, randomSuffix(), 6)
}

func TestIssue(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.enroll(t, f.student.ID, 100)

	cert, err := f.svc.Issue(ctx, f.student.ID, f.course.ID)
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^CERT-20260504-\d{5}-\d{5}-[0-9a-f]{6}$`), cert.CertificateNumber)
	assert.Equal(t, "Certificate of Completion: Go Basics", cert.Title)
	assert.Equal(t, StatusValid, cert.Status)
	assert.Equal(t, f.student.ID, cert.CreatedBy)

	_, err = f.svc.Issue(ctx, f.student.ID, f.course.ID)
	assert.True(t, apperr.Is(err, apperr.KindConflict))

	var n int64
	require.NoError(t, f.db.Model(&models.Certificate{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestIssueRequiresCompletedEnrollment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Issue(ctx, f.student.ID, f.course.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	f.enroll(t, f.student.ID, 99)
	_, err = f.svc.Issue(ctx, f.student.ID, f.course.ID)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	assert.Contains(t, apperr.Message(err), "100%")
}

func TestListAndGet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.enroll(t, f.student.ID, 100)
	cert, err := f.svc.Issue(ctx, f.student.ID, f.course.ID)
	require.NoError(t, err)

	certs, err := f.svc.List(ctx, f.student.ID)
	require.NoError(t, err)
	require.Len(t, certs, 1)
	assert.Equal(t, "Go Basics", certs[0].CourseTitle)
	assert.Equal(t, "Linus T", certs[0].StudentName)
	assert.Equal(t, "Ada Lovelace", certs[0].InstructorName)

	view, err := f.svc.Get(ctx, f.student.ID, cert.ID)
	require.NoError(t, err)
	assert.Equal(t, cert.CertificateNumber, view.CertificateNumber)

	_, err = f.svc.Get(ctx, f.classmate.ID, cert.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	none, err := f.svc.List(ctx, f.classmate.ID)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestEligible(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	course := func(title string) models.Course {
		c := models.Course{InstructorID: f.instructor.ID, Title: title, Status: models.CourseStatusPublished}
		require.NoError(t, f.db.Create(&c).Error)
		return c
	}
	certified := course("Advanced Go")
	unfinished := course("Concurrency")
	f.enroll(t, f.student.ID, 100)
	require.NoError(t, f.db.Create(&models.Enrollment{UserID: f.student.ID, CourseID: certified.ID, Progress: 100}).Error)
	require.NoError(t, f.db.Create(&models.Enrollment{UserID: f.student.ID, CourseID: unfinished.ID, Progress: 80}).Error)
	_, err := f.svc.Issue(ctx, f.student.ID, certified.ID)
	require.NoError(t, err)

	eligible, err := f.svc.Eligible(ctx, f.student.ID)
	require.NoError(t, err)
	require.Len(t, eligible, 1)
	assert.Equal(t, models.EligibleCourse{
		CourseID:       f.course.ID,
		Title:          "Go Basics",
		Progress:       100,
		InstructorName: "Ada Lovelace",
	}, eligible[0])

	_, err = f.svc.Issue(ctx, f.student.ID, f.course.ID)
	require.NoError(t, err)
	eligible, err = f.svc.Eligible(ctx, f.student.ID)
	require.NoError(t, err)
	assert.Empty(t, eligible)

	// Another student's certificate does not hide the course.
	f.enroll(t, f.classmate.ID, 100)
	eligible, err = f.svc.Eligible(ctx, f.classmate.ID)
	require.NoError(t, err)
	require.Len(t, eligible, 1)
	assert.Equal(t, f.course.ID, eligible[0].CourseID)
}
