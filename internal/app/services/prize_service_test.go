package services

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/safatanc/checkin-core/internal/app/errors"
	"github.com/safatanc/checkin-core/internal/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoPrizeTable() []models.Prize {
	return []models.Prize{
		{ID: "wash", Label: "Free Car Wash", Probability: 0.5},
		{ID: "oil", Label: "Free Oil Change", Probability: 0.5},
	}
}

func TestDefaultPrizesSumToOne(t *testing.T) {
	require.NoError(t, ValidatePrizeTable(DefaultPrizes()))
}

func TestGetConfigurationReturnsDefaultsWithoutTable(t *testing.T) {
	env := newTestEnv(t, seededSource(1))

	prizes := env.prizeService.GetConfiguration(t.Context(), env.principal.TenantID)
	table := env.prizeService.GetPrizeTable(t.Context(), env.principal.TenantID)

	assert.Equal(t, DefaultPrizes(), prizes)
	assert.False(t, table.IsCustom)
	assert.Equal(t, DefaultPrizes(), table.DefaultPrizes)
}

func TestReplaceConfigurationUpserts(t *testing.T) {
	env := newTestEnv(t, seededSource(1))
	ctx := t.Context()

	saved, err := env.prizeService.ReplaceConfiguration(ctx, env.principal, &models.PrizeConfigurationReplaceRequest{Prizes: twoPrizeTable()})
	require.NoError(t, err)
	assert.Len(t, saved.Prizes, 2)

	_, err = env.prizeService.ReplaceConfiguration(ctx, env.principal, &models.PrizeConfigurationReplaceRequest{
		Prizes: []models.Prize{{ID: " brakes ", Label: " $25 Off Brakes ", Probability: 1}},
	})
	require.NoError(t, err)

	var rows int64
	require.NoError(t, env.db.Model(&models.PrizeConfiguration{}).Where("tenant_id = ?", env.principal.TenantID).Count(&rows).Error)
	assert.Equal(t, int64(1), rows)

	table := env.prizeService.GetPrizeTable(ctx, env.principal.TenantID)
	require.True(t, table.IsCustom)
	require.Len(t, table.Prizes, 1)
	assert.Equal(t, "brakes", table.Prizes[0].ID)
	assert.Equal(t, "$25 Off Brakes", table.Prizes[0].Label)

	var actions []models.AuditAction
	require.NoError(t, env.db.Model(&models.AuditLog{}).Where("tenant_id = ?", env.principal.TenantID).Order("changed_at ASC").Pluck("action", &actions).Error)
	assert.Equal(t, []models.AuditAction{models.AuditActionCreate, models.AuditActionUpdate}, actions)
}

func TestReplaceConfigurationRejectsBadSumAndKeepsPrevious(t *testing.T) {
	env := newTestEnv(t, seededSource(1))
	ctx := t.Context()

	_, err := env.prizeService.ReplaceConfiguration(ctx, env.principal, &models.PrizeConfigurationReplaceRequest{Prizes: twoPrizeTable()})
	require.NoError(t, err)

	_, err = env.prizeService.ReplaceConfiguration(ctx, env.principal, &models.PrizeConfigurationReplaceRequest{
		Prizes: []models.Prize{
			{ID: "a", Label: "A", Probability: 0.5},
			{ID: "b", Label: "B", Probability: 0.4},
		},
	})
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindValidation))
	assert.Contains(t, err.Error(), "0.9")

	assert.Equal(t, twoPrizeTable(), env.prizeService.GetConfiguration(ctx, env.principal.TenantID))
}

func TestReplaceConfigurationIsTenantScoped(t *testing.T) {
	env := newTestEnv(t, seededSource(1))

	_, err := env.prizeService.ReplaceConfiguration(t.Context(), env.principal, &models.PrizeConfigurationReplaceRequest{Prizes: twoPrizeTable()})
	require.NoError(t, err)

	assert.Equal(t, DefaultPrizes(), env.prizeService.GetConfiguration(t.Context(), uuid.New()))
}

func TestValidatePrizeTable(t *testing.T) {
	cases := []struct {
		name   string
		prizes []models.Prize
		ok     bool
	}{
		{"exact", twoPrizeTable(), true},
		{"within tolerance", []models.Prize{{ID: "a", Label: "A", Probability: 0.505}, {ID: "b", Label: "B", Probability: 0.5}}, true},
		{"on tolerance", []models.Prize{{ID: "a", Label: "A", Probability: 0.49}, {ID: "b", Label: "B", Probability: 0.5}}, true},
		{"beyond tolerance", []models.Prize{{ID: "a", Label: "A", Probability: 0.52}, {ID: "b", Label: "B", Probability: 0.5}}, false},
		{"empty", nil, false},
		{"missing id", []models.Prize{{Label: "A", Probability: 1}}, false},
		{"missing label", []models.Prize{{ID: "a", Probability: 1}}, false},
		{"negative", []models.Prize{{ID: "a", Label: "A", Probability: -0.5}, {ID: "b", Label: "B", Probability: 1.5}}, false},
		{"duplicate id", []models.Prize{{ID: "a", Label: "A", Probability: 0.5}, {ID: "a", Label: "B", Probability: 0.5}}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidatePrizeTable(tc.prizes)
			if tc.ok {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.IsKind(err, errors.KindValidation))
		})
	}
}

func TestGetConfigurationIgnoresMalformedStoredTable(t *testing.T) {
	env := newTestEnv(t, seededSource(1))

	require.NoError(t, env.db.Create(&models.PrizeConfiguration{
		TenantID: env.principal.TenantID,
		Prizes:   models.PrizeList{{ID: "half", Label: "Half", Probability: 0.5}},
	}).Error)

	assert.Equal(t, DefaultPrizes(), env.prizeService.GetConfiguration(t.Context(), env.principal.TenantID))
}

func TestGetConfigurationFallsBackOnReadError(t *testing.T) {
	env := newTestEnv(t, seededSource(1))
	require.NoError(t, env.db.Migrator().DropTable(&models.PrizeConfiguration{}))

	assert.Equal(t, DefaultPrizes(), env.prizeService.GetConfiguration(t.Context(), env.principal.TenantID))
}

func TestPrizeCacheReadThroughAndInvalidate(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	env := newTestEnvWithCache(t, seededSource(1), client)
	ctx := t.Context()
	key := "test:prizes:" + env.principal.TenantID.String()

	_, err := env.prizeService.ReplaceConfiguration(ctx, env.principal, &models.PrizeConfigurationReplaceRequest{Prizes: twoPrizeTable()})
	require.NoError(t, err)
	assert.False(t, mr.Exists(key))

	assert.Equal(t, twoPrizeTable(), env.prizeService.GetConfiguration(ctx, env.principal.TenantID))
	assert.True(t, mr.Exists(key))

	// A cached table answers even when the row is gone.
	require.NoError(t, env.db.Where("tenant_id = ?", env.principal.TenantID).Delete(&models.PrizeConfiguration{}).Error)
	assert.Equal(t, twoPrizeTable(), env.prizeService.GetConfiguration(ctx, env.principal.TenantID))

	_, err = env.prizeService.ReplaceConfiguration(ctx, env.principal, &models.PrizeConfigurationReplaceRequest{
		Prizes: []models.Prize{{ID: "only", Label: "Only", Probability: 1}},
	})
	require.NoError(t, err)
	assert.False(t, mr.Exists(key))
	assert.Equal(t, "only", env.prizeService.GetConfiguration(ctx, env.principal.TenantID)[0].ID)
}

func TestPrizeCacheCorruptEntryIsAMiss(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	env := newTestEnvWithCache(t, seededSource(1), client)
	require.NoError(t, mr.Set("test:prizes:"+env.principal.TenantID.String(), "{not json"))

	assert.Equal(t, DefaultPrizes(), env.prizeService.GetConfiguration(t.Context(), env.principal.TenantID))
}

func TestPrizeCacheRedisDownFallsThrough(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	env := newTestEnvWithCache(t, seededSource(1), client)

	_, err := env.prizeService.ReplaceConfiguration(t.Context(), env.principal, &models.PrizeConfigurationReplaceRequest{Prizes: twoPrizeTable()})
	require.NoError(t, err)
	mr.Close()

	assert.Equal(t, twoPrizeTable(), env.prizeService.GetConfiguration(t.Context(), env.principal.TenantID))
}
