package services

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/safatanc/checkin-core/internal/app/models"
	"github.com/safatanc/checkin-core/internal/app/pkg"
	"github.com/safatanc/checkin-core/internal/infrastructures"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// fixedSource always draws the same values.
type fixedSource struct {
	f float64
	n int
}

func (s fixedSource) Float64() float64 { return s.f }
func (s fixedSource) IntN(n int) int   { return s.n % n }

// scriptedSource replays IntN results in order, then repeats the last one.
type scriptedSource struct {
	ints []int
	next int
}

func (s *scriptedSource) Float64() float64 { return 0 }

func (s *scriptedSource) IntN(n int) int {
	i := s.next
	if i >= len(s.ints) {
		i = len(s.ints) - 1
	} else {
		s.next++
	}
	return s.ints[i] % n
}

func seededSource(seed uint64) pkg.RandomSource {
	return pkg.NewLockedSource(rand.New(rand.NewPCG(seed, seed+1)))
}

// newTestDB opens a private in-memory database on a single connection, so
// concurrent callers queue on the pool instead of racing on SQLite locks.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, infrastructures.Migrate(db))
	return db
}

func testConfig() *infrastructures.AppConfig {
	return &infrastructures.AppConfig{
		Image: infrastructures.ImageConfig{
			AspectRatio: "1:1",
			Timeout:     2 * time.Second,
		},
		CheckInToWin: infrastructures.CheckInToWinConfig{
			PrizeCacheTTL:        time.Minute,
			ValidationCodePrefix: "CW",
		},
	}
}

type testEnv struct {
	db                *gorm.DB
	cfg               *infrastructures.AppConfig
	validator         *infrastructures.Validator
	random            pkg.RandomSource
	principal         *models.Principal
	auditService      *AuditService
	prizeService      *PrizeService
	submissionService *SubmissionService
}

func newTestEnv(t *testing.T, random pkg.RandomSource) *testEnv {
	return newTestEnvWithCache(t, random, nil)
}

func newTestEnvWithCache(t *testing.T, random pkg.RandomSource, client *redis.Client) *testEnv {
	t.Helper()

	db := newTestDB(t)
	cfg := testConfig()
	validator := infrastructures.NewValidator()

	var cache *PrizeCache
	if client != nil {
		cache = NewPrizeCache(client, infrastructures.RedisKeyPrefix("test"), cfg)
	}

	auditService := NewAuditService(db)
	prizeService := NewPrizeService(db, validator, cache, auditService)
	submissionService := NewSubmissionService(db, validator, prizeService, NewPrizeSelector(random), auditService, random, cfg)

	return &testEnv{
		db:        db,
		cfg:       cfg,
		validator: validator,
		random:    random,
		principal: &models.Principal{
			TenantID: uuid.New(),
			UserID:   uuid.New(),
			Role:     models.RoleOwner,
		},
		auditService:      auditService,
		prizeService:      prizeService,
		submissionService: submissionService,
	}
}

func (e *testEnv) submit(t *testing.T, name string) *models.CheckInSubmission {
	t.Helper()

	submission, err := e.submissionService.Submit(t.Context(), e.principal.TenantID, &models.CheckInSubmitRequest{CustomerName: name})
	require.NoError(t, err)
	return submission
}

func (e *testEnv) spin(t *testing.T, submission *models.CheckInSubmission) *models.SpinResponse {
	t.Helper()

	result, err := e.submissionService.Spin(t.Context(), e.principal.TenantID, submission.ID.String())
	require.NoError(t, err)
	return result
}

func strPtr(s string) *string {
	return &s
}
