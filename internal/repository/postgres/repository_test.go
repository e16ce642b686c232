package postgres

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"go-job-portal-backend/internal/domain"
	"go-job-portal-backend/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testDB connects to TEST_DATABASE_URL and applies the migrations. Tests that
// need Postgres are skipped when the variable is unset.
func testDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := database.NewPostgresConnection(ctx, url)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	_, err = Migrate(ctx, db)
	require.NoError(t, err)
	return db
}

func createUser(t *testing.T, db *pgxpool.Pool, roleName string, status domain.UserStatus) *domain.User {
	t.Helper()
	ctx := context.Background()

	role, err := NewRoleRepository(db).Ensure(ctx, roleName)
	require.NoError(t, err)

	id := uuid.NewString()
	user := &domain.User{
		ID:           id,
		Username:     "user-" + id[:8],
		Email:        id + "@example.com",
		Mobile:       "0123456789",
		PasswordHash: "hash",
		Status:       status,
		RoleID:       role.ID,
	}
	require.NoError(t, NewUserRepository(db).Create(ctx, user))
	t.Cleanup(func() { _, _ = db.Exec(context.Background(), `DELETE FROM users WHERE id = $1`, id) })
	return user
}

func createJob(t *testing.T, db *pgxpool.Pool, posterID string) *domain.Job {
	t.Helper()
	job := &domain.Job{
		ID:              uuid.NewString(),
		Title:           "Go Engineer",
		Description:     "Backend services",
		ExperienceLevel: "Senior",
		Location:        "Remote",
		PostedBy:        posterID,
	}
	require.NoError(t, NewJobRepository(db).Create(context.Background(), job))
	return job
}

func newResume(userID string) *domain.Resume {
	id := uuid.NewString()
	return &domain.Resume{
		ID:       id,
		UserID:   userID,
		FileName: "cv.pdf",
		FilePath: "resumes/" + userID + "/" + id + ".pdf",
		FileSize: 1024,
	}
}

func apply(t *testing.T, db *pgxpool.Pool, userID, jobID string) *domain.Application {
	t.Helper()
	app := &domain.Application{ID: uuid.NewString(), JobID: jobID, UserID: userID}
	_, err := NewApplicationRepository(db).CreateWithResume(context.Background(), app, newResume(userID))
	require.NoError(t, err)
	return app
}

func countRows(t *testing.T, db *pgxpool.Pool, query string, arg string) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(context.Background(), query, arg).Scan(&n))
	return n
}

func TestCascadeDeletes(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	skills := NewSkillRepository(db)

	setup := func(t *testing.T) (*domain.User, *domain.Job) {
		admin := createUser(t, db, domain.RoleAdmin, domain.UserStatusAuthorized)
		candidate := createUser(t, db, domain.RoleCandidate, domain.UserStatusAuthorized)
		job := createJob(t, db, admin.ID)

		skill, err := skills.FindOrCreate(ctx, "cascade-"+uuid.NewString()[:8])
		require.NoError(t, err)
		require.NoError(t, skills.AssociateJobSkill(ctx, job.ID, skill.ID))
		_, err = skills.AssociateUserSkill(ctx, candidate.ID, skill.ID, 5)
		require.NoError(t, err)

		apply(t, db, candidate.ID, job.ID)
		return candidate, job
	}

	t.Run("Should remove job skills and applications with the job", func(t *testing.T) {
		candidate, job := setup(t)

		require.NoError(t, NewJobRepository(db).Delete(ctx, job.ID))

		assert.Zero(t, countRows(t, db, `SELECT COUNT(*) FROM job_skills WHERE job_id = $1`, job.ID))
		assert.Zero(t, countRows(t, db, `SELECT COUNT(*) FROM job_applications WHERE job_id = $1`, job.ID))
		assert.Equal(t, 1, countRows(t, db, `SELECT COUNT(*) FROM resumes WHERE user_id = $1`, candidate.ID))
	})

	t.Run("Should remove resume, skills and applications with the user", func(t *testing.T) {
		candidate, job := setup(t)

		require.NoError(t, NewUserRepository(db).Delete(ctx, candidate.ID))

		assert.Zero(t, countRows(t, db, `SELECT COUNT(*) FROM resumes WHERE user_id = $1`, candidate.ID))
		assert.Zero(t, countRows(t, db, `SELECT COUNT(*) FROM user_skills WHERE user_id = $1`, candidate.ID))
		assert.Zero(t, countRows(t, db, `SELECT COUNT(*) FROM job_applications WHERE user_id = $1`, candidate.ID))
		assert.Equal(t, 1, countRows(t, db, `SELECT COUNT(*) FROM jobs WHERE id = $1`, job.ID))
	})
}

func TestApplicationRepository(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	apps := NewApplicationRepository(db)

	t.Run("Should reject a second application to the same job as duplicate", func(t *testing.T) {
		admin := createUser(t, db, domain.RoleAdmin, domain.UserStatusAuthorized)
		candidate := createUser(t, db, domain.RoleCandidate, domain.UserStatusAuthorized)
		job := createJob(t, db, admin.ID)
		apply(t, db, candidate.ID, job.ID)

		again := &domain.Application{ID: uuid.NewString(), JobID: job.ID, UserID: candidate.ID}
		_, err := apps.CreateWithResume(ctx, again, newResume(candidate.ID))
		assert.ErrorIs(t, err, domain.ErrDuplicate)
		assert.Equal(t, 1, countRows(t, db, `SELECT COUNT(*) FROM job_applications WHERE user_id = $1`, candidate.ID))
	})

	t.Run("Should bucket applications by UTC month", func(t *testing.T) {
		admin := createUser(t, db, domain.RoleAdmin, domain.UserStatusAuthorized)
		job := createJob(t, db, admin.ID)

		// Local times that land in a different calendar month once converted to UTC.
		stamps := []string{
			"1999-01-31T23:30:00-05:00", // 1999-02-01 04:30 UTC
			"1999-03-01T00:30:00+02:00", // 1999-02-28 22:30 UTC
			"1999-12-31T23:59:59Z",
			"2000-01-01T00:30:00+01:00", // 1999-12-31 23:30 UTC
		}
		for _, stamp := range stamps {
			candidate := createUser(t, db, domain.RoleCandidate, domain.UserStatusAuthorized)
			app := apply(t, db, candidate.ID, job.ID)
			_, err := db.Exec(ctx, `UPDATE job_applications SET created_at = $2::timestamptz WHERE id = $1`, app.ID, stamp)
			require.NoError(t, err)
		}

		counts, err := apps.CountByMonth(ctx, 1999)
		require.NoError(t, err)
		assert.Equal(t, 2, counts[2])
		assert.Equal(t, 2, counts[12])
		assert.Zero(t, counts[1])
		assert.Zero(t, counts[3])
	})

	t.Run("Should report a malformed id as not found", func(t *testing.T) {
		_, err := apps.GetByID(ctx, "abc")
		assert.ErrorIs(t, err, domain.ErrNotFound)

		_, err = NewJobRepository(db).GetByID(ctx, "abc")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestResumeRepository(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	resumes := NewResumeRepository(db)

	t.Run("Should keep id and return the replaced row", func(t *testing.T) {
		candidate := createUser(t, db, domain.RoleCandidate, domain.UserStatusAuthorized)

		first := newResume(candidate.ID)
		prev, err := resumes.Upsert(ctx, first)
		require.NoError(t, err)
		assert.Nil(t, prev)

		second := newResume(candidate.ID)
		prev, err = resumes.Upsert(ctx, second)
		require.NoError(t, err)
		require.NotNil(t, prev)
		assert.Equal(t, first.FilePath, prev.FilePath)
		assert.Equal(t, first.ID, second.ID)
	})

	t.Run("Should hand the earlier blob to exactly one of two concurrent first uploads", func(t *testing.T) {
		candidate := createUser(t, db, domain.RoleCandidate, domain.UserStatusAuthorized)

		uploads := []*domain.Resume{newResume(candidate.ID), newResume(candidate.ID)}
		paths := []string{uploads[0].FilePath, uploads[1].FilePath}
		prevs := make([]*domain.Resume, 2)
		errs := make([]error, 2)

		start := make(chan struct{})
		var wg sync.WaitGroup
		for i := range uploads {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				<-start
				prevs[i], errs[i] = resumes.Upsert(ctx, uploads[i])
			}(i)
		}
		close(start)
		wg.Wait()

		require.NoError(t, errs[0])
		require.NoError(t, errs[1])

		switch {
		case prevs[0] == nil:
			require.NotNil(t, prevs[1])
			assert.Equal(t, paths[0], prevs[1].FilePath)
		case prevs[1] == nil:
			assert.Equal(t, paths[1], prevs[0].FilePath)
		default:
			t.Fatalf("both uploads replaced a row: %s, %s", prevs[0].FilePath, prevs[1].FilePath)
		}
	})
}

func TestDeleteUnauthorizedBefore(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	users := NewUserRepository(db)
	old := time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)
	cutoff := time.Date(1990, 6, 1, 0, 0, 0, 0, time.UTC)

	backdate := func(t *testing.T, id string) {
		_, err := db.Exec(ctx, `UPDATE users SET created_at = $2 WHERE id = $1`, id, old)
		require.NoError(t, err)
	}
	exists := func(t *testing.T, id string) bool {
		return countRows(t, db, `SELECT COUNT(*) FROM users WHERE id = $1`, id) == 1
	}

	t.Run("Should only remove stale unverified users", func(t *testing.T) {
		stale := createUser(t, db, domain.RoleCandidate, domain.UserStatusUnauthorized)
		verified := createUser(t, db, domain.RoleCandidate, domain.UserStatusAuthorized)
		fresh := createUser(t, db, domain.RoleCandidate, domain.UserStatusUnauthorized)
		backdate(t, stale.ID)
		backdate(t, verified.ID)

		n, err := users.DeleteUnauthorizedBefore(ctx, cutoff)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, int64(1))

		assert.False(t, exists(t, stale.ID))
		assert.True(t, exists(t, verified.ID))
		assert.True(t, exists(t, fresh.ID))
	})

	t.Run("Should spare a user verified while the sweep waits", func(t *testing.T) {
		user := createUser(t, db, domain.RoleCandidate, domain.UserStatusUnauthorized)
		backdate(t, user.ID)

		tx, err := db.Begin(ctx)
		require.NoError(t, err)
		defer tx.Rollback(ctx)
		_, err = tx.Exec(ctx, `UPDATE users SET status = $2 WHERE id = $1`, user.ID, string(domain.UserStatusAuthorized))
		require.NoError(t, err)

		done := make(chan error, 1)
		go func() {
			_, err := users.DeleteUnauthorizedBefore(ctx, cutoff)
			done <- err
		}()

		// The sweep blocks on the row lock held by the verification.
		select {
		case err := <-done:
			t.Fatalf("sweep finished before the verification committed: %v", err)
		case <-time.After(300 * time.Millisecond):
		}

		require.NoError(t, tx.Commit(ctx))
		require.NoError(t, <-done)
		assert.True(t, exists(t, user.ID))
	})
}
