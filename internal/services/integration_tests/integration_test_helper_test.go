package integration_tests

import (
	"bytes"
	"context"
	"io"
	"os"
	"sync"
	"testing"
	"time"

	"job-board-api/internal/database"
	"job-board-api/internal/models"
	"job-board-api/internal/services"
	"job-board-api/internal/storage"
	"job-board-api/internal/storage/postgres"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var testPool *pgxpool.Pool

// getTestPool connects to TEST_DATABASE_URL and migrates it once per package run.
func getTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL environment variable not set")
	}
	if testPool != nil {
		return testPool
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	require.NoError(t, pool.Ping(ctx))
	require.NoError(t, database.Migrate(ctx, pool))

	testPool = pool
	return testPool
}

// cleanupTables truncates every application table for test isolation.
func cleanupTables(ctx context.Context, t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	_, err := pool.Exec(ctx, `
		TRUNCATE blob_cleanup, uploads, application_files, applications, form_fields, default_form, forms, jobs, users
		RESTART IDENTITY CASCADE`)
	require.NoError(t, err, "Failed to truncate tables")
}

// Helper function to create a user for tests
func createTestUser(t *testing.T, ctx context.Context, pool *pgxpool.Pool, email string, admin bool) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	user, err := postgres.NewUserRepo(pool).Create(ctx, &models.User{
		Name:         "Test " + email,
		Email:        email,
		PasswordHash: string(hash),
		IsAdmin:      admin,
	})
	require.NoError(t, err, "Failed to create test user %s", email)
	return user
}

// Helper function to create a job for tests
func createTestJob(t *testing.T, ctx context.Context, pool *pgxpool.Pool, postedBy uuid.UUID, formID *uuid.UUID) *models.Job {
	t.Helper()
	job, err := postgres.NewJobRepo(pool).Create(ctx, &models.Job{
		Title:    "Backend Engineer",
		Company:  "Acme",
		FormID:   formID,
		PostedBy: &postedBy,
	})
	require.NoError(t, err, "Failed to create test job")
	return job
}

// memoryBlobs is an in-process BlobStore.
type memoryBlobs struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	failing map[string]bool
}

func newMemoryBlobs() *memoryBlobs {
	return &memoryBlobs{objects: map[string][]byte{}, types: map[string]string{}, failing: map[string]bool{}}
}

func (m *memoryBlobs) Put(_ context.Context, id string, body io.ReadSeeker, _ int64, contentType string) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[id] = data
	m.types[id] = contentType
	return nil
}

func (m *memoryBlobs) Stat(_ context.Context, id string) (*storage.ObjectInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &storage.ObjectInfo{StorageID: id, ContentType: m.types[id], Size: int64(len(data))}, nil
}

func (m *memoryBlobs) Open(ctx context.Context, id string) (io.ReadCloser, *storage.ObjectInfo, error) {
	info, err := m.Stat(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return io.NopCloser(bytes.NewReader(m.objects[id])), info, nil
}

func (m *memoryBlobs) PresignGet(_ context.Context, id, _ string) (string, error) {
	return "https://blob.test/" + id, nil
}

func (m *memoryBlobs) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing[id] {
		return io.ErrUnexpectedEOF
	}
	delete(m.objects, id)
	return nil
}

func (m *memoryBlobs) has(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[id]
	return ok
}

var _ storage.BlobStore = (*memoryBlobs)(nil)

// testEnv wires real repositories to the services under test.
type testEnv struct {
	pool         *pgxpool.Pool
	blobs        *memoryBlobs
	forms        services.FormService
	jobs         services.JobService
	applications services.ApplicationService
	admin        *models.User
	applicant    *models.User
}

func setupEnv(t *testing.T) (context.Context, *testEnv) {
	t.Helper()
	pool := getTestPool(t)
	ctx := context.Background()
	cleanupTables(ctx, t, pool)

	blobs := newMemoryBlobs()
	users := postgres.NewUserRepo(pool)
	jobRepo := postgres.NewJobRepo(pool)
	formRepo := postgres.NewFormRepo(pool)
	cleanup := postgres.NewBlobCleanupRepo(pool)
	formSvc := services.NewFormService(formRepo, jobRepo, users)

	env := &testEnv{
		pool:  pool,
		blobs: blobs,
		forms: formSvc,
		jobs:  services.NewJobService(jobRepo, users, blobs, cleanup),
		applications: services.NewApplicationService(services.ApplicationDeps{
			Applications: postgres.NewApplicationRepo(pool),
			Files:        postgres.NewApplicationFileRepo(pool),
			Uploads:      postgres.NewUploadRepo(pool),
			Users:        users,
			Cleanup:      cleanup,
			Blobs:        blobs,
			Forms:        formSvc,
		}),
		admin:     createTestUser(t, ctx, pool, "admin@example.com", true),
		applicant: createTestUser(t, ctx, pool, "ada@example.com", false),
	}
	return ctx, env
}

// uploadAs stores a blob with an upload record owned by the user.
func (e *testEnv) uploadAs(t *testing.T, ctx context.Context, owner uuid.UUID, name string) string {
	t.Helper()
	id := uuid.NewString()
	data := []byte("content of " + name)
	require.NoError(t, e.blobs.Put(ctx, id, bytes.NewReader(data), int64(len(data)), "image/png"))
	require.NoError(t, postgres.NewUploadRepo(e.pool).Create(ctx, &models.Upload{
		StorageID: id, FileName: name, FileType: "image/png", FileSize: int64(len(data)), UploadedBy: &owner,
	}))
	return id
}
