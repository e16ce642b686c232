package usecase_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"time"

	"go-job-portal-backend/internal/domain"
	"go-job-portal-backend/pkg/storage"

	"github.com/stretchr/testify/mock"
)

// Mock Repositories
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) List(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}
func (m *MockUserRepo) SetStatus(ctx context.Context, id string, status domain.UserStatus) error {
	return m.Called(ctx, id, status).Error(0)
}
func (m *MockUserRepo) SetTwoFactor(ctx context.Context, id string, secret *string, enabled bool) error {
	return m.Called(ctx, id, secret, enabled).Error(0)
}
func (m *MockUserRepo) SetPopup(ctx context.Context, id string, isPopup bool) error {
	return m.Called(ctx, id, isPopup).Error(0)
}
func (m *MockUserRepo) UpdatePassword(ctx context.Context, id, hash string) error {
	return m.Called(ctx, id, hash).Error(0)
}
func (m *MockUserRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
func (m *MockUserRepo) DeleteUnauthorizedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

type MockRoleRepo struct {
	mock.Mock
}

func (m *MockRoleRepo) GetByID(ctx context.Context, id string) (*domain.Role, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Role), args.Error(1)
}
func (m *MockRoleRepo) GetByName(ctx context.Context, name string) (*domain.Role, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Role), args.Error(1)
}
func (m *MockRoleRepo) Ensure(ctx context.Context, name string) (*domain.Role, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Role), args.Error(1)
}

type MockSkillRepo struct {
	mock.Mock
}

func (m *MockSkillRepo) FindOrCreate(ctx context.Context, name string) (*domain.Skill, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Skill), args.Error(1)
}
func (m *MockSkillRepo) ListJobSkills(ctx context.Context, jobID string) ([]domain.JobSkill, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JobSkill), args.Error(1)
}
func (m *MockSkillRepo) ListUserSkills(ctx context.Context, userID string) ([]domain.UserSkill, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.UserSkill), args.Error(1)
}
func (m *MockSkillRepo) AssociateJobSkill(ctx context.Context, jobID, skillID string) error {
	return m.Called(ctx, jobID, skillID).Error(0)
}
func (m *MockSkillRepo) ReplaceJobSkills(ctx context.Context, jobID string, skillIDs []string) error {
	return m.Called(ctx, jobID, skillIDs).Error(0)
}
func (m *MockSkillRepo) AssociateUserSkill(ctx context.Context, userID, skillID string, level int) (bool, error) {
	args := m.Called(ctx, userID, skillID, level)
	return args.Bool(0), args.Error(1)
}
func (m *MockSkillRepo) DeleteUserSkills(ctx context.Context, userID string, ids []string) (int64, error) {
	args := m.Called(ctx, userID, ids)
	return args.Get(0).(int64), args.Error(1)
}

type MockJobRepo struct {
	mock.Mock
}

func (m *MockJobRepo) Create(ctx context.Context, job *domain.Job) error {
	return m.Called(ctx, job).Error(0)
}
func (m *MockJobRepo) GetByID(ctx context.Context, id string) (*domain.Job, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Job), args.Error(1)
}
func (m *MockJobRepo) List(ctx context.Context, limit, offset int) ([]domain.Job, int64, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]domain.Job), args.Get(1).(int64), args.Error(2)
}
func (m *MockJobRepo) Update(ctx context.Context, job *domain.Job) error {
	return m.Called(ctx, job).Error(0)
}
func (m *MockJobRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockResumeRepo struct {
	mock.Mock
}

func (m *MockResumeRepo) GetByUserID(ctx context.Context, userID string) (*domain.Resume, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Resume), args.Error(1)
}
func (m *MockResumeRepo) Upsert(ctx context.Context, resume *domain.Resume) (*domain.Resume, error) {
	args := m.Called(ctx, resume)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Resume), args.Error(1)
}
func (m *MockResumeRepo) DeleteByUserID(ctx context.Context, userID string) (*domain.Resume, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Resume), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Send(ctx context.Context, recipients []string, subject, body string) error {
	return m.Called(ctx, recipients, subject, body).Error(0)
}

// plainHasher keeps tests fast; bcrypt has its own tests.
type plainHasher struct{}

func (plainHasher) Hash(p string) (string, error) { return "hashed:" + p, nil }
func (plainHasher) Compare(p, digest string) bool { return digest == "hashed:"+p }

// stubGuard locks an email after max failures.
type stubGuard struct {
	mu       sync.Mutex
	max      int
	failures map[string]int
}

func newStubGuard(max int) *stubGuard {
	return &stubGuard{max: max, failures: map[string]int{}}
}

func (g *stubGuard) IsBlocked(_ context.Context, email, _ string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.failures[email] >= g.max, nil
}
func (g *stubGuard) RecordFailure(_ context.Context, email, _ string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.failures[email]++
	return g.failures[email] >= g.max, nil
}
func (g *stubGuard) Reset(_ context.Context, email, _ string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.failures, email)
	return nil
}

// memStore is an in-memory domain.FileStore.
type memStore struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{blobs: map[string][]byte{}}
}

func (s *memStore) Save(_ context.Context, key string, r io.Reader, _ int64, _ string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[key] = data
	return key, nil
}
func (s *memStore) Open(_ context.Context, path string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.blobs[path]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}
func (s *memStore) Delete(_ context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, path)
	return nil
}
func (s *memStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.blobs)
}

// memApplications is an in-memory domain.ApplicationRepository enforcing the
// (user, job) uniqueness the database constraint provides.
type memApplications struct {
	mu      sync.Mutex
	apps    map[string]domain.Application
	resumes map[string]domain.Resume
}

func newMemApplications() *memApplications {
	return &memApplications{apps: map[string]domain.Application{}, resumes: map[string]domain.Resume{}}
}

func (r *memApplications) CreateWithResume(_ context.Context, app *domain.Application, resume *domain.Resume) (*domain.Resume, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.apps {
		if a.UserID == app.UserID && a.JobID == app.JobID {
			return nil, domain.ErrDuplicate
		}
	}
	var prev *domain.Resume
	if old, ok := r.resumes[resume.UserID]; ok {
		prev = &old
	}
	r.resumes[resume.UserID] = *resume
	app.CreatedAt = time.Now().UTC()
	r.apps[app.ID] = *app
	return prev, nil
}
func (r *memApplications) Exists(_ context.Context, userID, jobID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.apps {
		if a.UserID == userID && a.JobID == jobID {
			return true, nil
		}
	}
	return false, nil
}
func (r *memApplications) GetByID(_ context.Context, id string) (*domain.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.apps[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &a, nil
}
func (r *memApplications) filter(keep func(domain.Application) bool) []domain.Application {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Application
	for _, a := range r.apps {
		if keep(a) {
			out = append(out, a)
		}
	}
	return out
}
func (r *memApplications) ListByUserID(_ context.Context, userID string) ([]domain.Application, error) {
	return r.filter(func(a domain.Application) bool { return a.UserID == userID }), nil
}
func (r *memApplications) ListByJobID(_ context.Context, jobID string) ([]domain.Application, error) {
	return r.filter(func(a domain.Application) bool { return a.JobID == jobID }), nil
}
func (r *memApplications) DeleteOwned(_ context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.apps[id]
	if !ok || a.UserID != userID {
		return domain.ErrNotFound
	}
	delete(r.apps, id)
	return nil
}
func (r *memApplications) UpdateStatus(_ context.Context, id string, status domain.ApplicationStatus, recruiterID string, msg *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.apps[id]
	if !ok {
		return domain.ErrNotFound
	}
	a.Status = status
	a.RecruiterID = &recruiterID
	a.RejectionMessage = msg
	r.apps[id] = a
	return nil
}
func (r *memApplications) CountByStatus(_ context.Context, userID string) (map[domain.ApplicationStatus]int, error) {
	out := map[domain.ApplicationStatus]int{}
	for _, a := range r.filter(func(a domain.Application) bool { return a.UserID == userID }) {
		out[a.Status]++
	}
	return out, nil
}
func (r *memApplications) CountByMonth(_ context.Context, year int) (map[int]int, error) {
	out := map[int]int{}
	for _, a := range r.filter(func(a domain.Application) bool { return a.CreatedAt.UTC().Year() == year }) {
		out[int(a.CreatedAt.UTC().Month())]++
	}
	return out, nil
}

// put inserts a fixture directly.
func (r *memApplications) put(a domain.Application) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.apps[a.ID] = a
}

const samplePDF = "%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n"

func pdfUpload() domain.ResumeUpload {
	return domain.ResumeUpload{FileName: "cv.pdf", Size: int64(len(samplePDF)), Content: strings.NewReader(samplePDF)}
}

var errBoom = errors.New("boom")
