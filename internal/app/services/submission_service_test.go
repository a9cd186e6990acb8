package services

import (
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/safatanc/checkin-core/internal/app/errors"
	"github.com/safatanc/checkin-core/internal/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var validationCodePattern = regexp.MustCompile(`^CW-[A-HJ-NP-Z2-9]{5}$`)

func TestSubmitRequiresName(t *testing.T) {
	env := newTestEnv(t, seededSource(1))

	_, err := env.submissionService.Submit(t.Context(), env.principal.TenantID, &models.CheckInSubmitRequest{CustomerName: "   "})

	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindValidation))
}

func TestSubmitCreatesFreshSubmission(t *testing.T) {
	env := newTestEnv(t, seededSource(1))

	submission, err := env.submissionService.Submit(t.Context(), env.principal.TenantID, &models.CheckInSubmitRequest{
		CustomerName: "  Dana Reyes ",
		Phone:        strPtr("555-0100"),
		VehicleMake:  strPtr(" Honda "),
		VehicleColor: strPtr("   "),
	})
	require.NoError(t, err)

	assert.Equal(t, "Dana Reyes", submission.CustomerName)
	assert.Regexp(t, validationCodePattern, submission.ValidationCode)
	assert.Equal(t, "Honda", *submission.VehicleMake)
	assert.Nil(t, submission.VehicleColor)
	assert.False(t, submission.Redeemed)
	assert.Nil(t, submission.PrizeWon)
	assert.Equal(t, models.SubmissionStateCreated, submission.State())
}

func TestSubmitRerollsTakenCode(t *testing.T) {
	// First submission draws AAAAA, the second draws AAAAA again and then BBBBB.
	source := &scriptedSource{ints: []int{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 1, 1, 1, 1}}
	env := newTestEnv(t, source)

	first := env.submit(t, "First")
	second := env.submit(t, "Second")

	assert.Equal(t, "CW-AAAAA", first.ValidationCode)
	assert.Equal(t, "CW-BBBBB", second.ValidationCode)
}

func TestSubmitGivesUpWhenCodesAreExhausted(t *testing.T) {
	env := newTestEnv(t, fixedSource{n: 0})
	env.submit(t, "First")

	_, err := env.submissionService.Submit(t.Context(), env.principal.TenantID, &models.CheckInSubmitRequest{CustomerName: "Second"})

	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindInternal))
}

func TestLowercasePrefixCodesAreRedeemable(t *testing.T) {
	env := newTestEnv(t, seededSource(2))
	cfg := testConfig()
	cfg.CheckInToWin.ValidationCodePrefix = "cw"
	service := NewSubmissionService(env.db, env.validator, env.prizeService, NewPrizeSelector(env.random), env.auditService, env.random, cfg)
	ctx := t.Context()

	submission, err := service.Submit(ctx, env.principal.TenantID, &models.CheckInSubmitRequest{CustomerName: "Quinn"})
	require.NoError(t, err)
	assert.Regexp(t, validationCodePattern, submission.ValidationCode)

	_, err = service.Spin(ctx, env.principal.TenantID, submission.ID.String())
	require.NoError(t, err)

	redeemed, err := service.Redeem(ctx, env.principal, submission.ValidationCode)
	require.NoError(t, err)
	assert.True(t, redeemed.Redeemed)
}

func TestSubmissionLifecycle(t *testing.T) {
	env := newTestEnv(t, seededSource(3))
	ctx := t.Context()
	tenantID := env.principal.TenantID

	submission := env.submit(t, "Jordan")

	spin := env.spin(t, submission)
	assert.Equal(t, submission.ID, spin.SubmissionID)
	assert.Equal(t, submission.ValidationCode, spin.ValidationCode)
	assert.Contains(t, DefaultPrizes(), spin.Prize)

	stored, err := env.submissionService.GetSubmission(ctx, tenantID, submission.ID.String())
	require.NoError(t, err)
	require.NotNil(t, stored.PrizeWon)
	assert.Equal(t, spin.Prize.Label, *stored.PrizeWon)
	assert.Equal(t, spin.Prize.ID, *stored.PrizeID)
	assert.Equal(t, models.SubmissionStatePrizeWon, stored.State())

	check, err := env.submissionService.Validate(ctx, tenantID, submission.ValidationCode)
	require.NoError(t, err)
	assert.True(t, check.Valid)
	assert.Equal(t, models.ValidationStatusValid, check.Status)

	redeemedAt := time.Date(2025, time.March, 5, 14, 30, 0, 0, time.UTC)
	env.submissionService.now = func() time.Time { return redeemedAt }

	redeemed, err := env.submissionService.Redeem(ctx, env.principal, submission.ValidationCode)
	require.NoError(t, err)
	assert.True(t, redeemed.Redeemed)
	require.NotNil(t, redeemed.RedeemedAt)
	assert.Equal(t, env.principal.UserID, *redeemed.RedeemedBy)
	assert.Equal(t, models.SubmissionStateRedeemed, redeemed.State())

	check, err = env.submissionService.Validate(ctx, tenantID, submission.ValidationCode)
	require.NoError(t, err)
	assert.False(t, check.Valid)
	assert.Equal(t, models.ValidationStatusAlreadyRedeemed, check.Status)
	assert.Contains(t, check.Error, "already redeemed")
	assert.Contains(t, check.Error, "Mar 5, 2025")

	env.submissionService.now = func() time.Time { return redeemedAt.Add(48 * time.Hour) }
	_, err = env.submissionService.Redeem(ctx, env.principal, submission.ValidationCode)
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindConflict))

	stored, err = env.submissionService.GetSubmission(ctx, tenantID, submission.ID.String())
	require.NoError(t, err)
	require.NotNil(t, stored.RedeemedAt)
	assert.True(t, redeemedAt.Equal(*stored.RedeemedAt), "redeemed_at moved to %s", stored.RedeemedAt)

	history, err := env.auditService.GetRecordHistory(ctx, tenantID, submission.ID.String())
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestSpinPicksExactPrizeForKnownDraw(t *testing.T) {
	env := newTestEnv(t, fixedSource{f: 0.75})
	_, err := env.prizeService.ReplaceConfiguration(t.Context(), env.principal, &models.PrizeConfigurationReplaceRequest{Prizes: twoPrizeTable()})
	require.NoError(t, err)

	spin := env.spin(t, env.submit(t, "Sam"))

	assert.Equal(t, "oil", spin.Prize.ID)
}

func TestSpinTwiceIsConflict(t *testing.T) {
	env := newTestEnv(t, seededSource(5))
	submission := env.submit(t, "Alex")
	first := env.spin(t, submission)

	_, err := env.submissionService.Spin(t.Context(), env.principal.TenantID, submission.ID.String())

	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindConflict))

	stored, err := env.submissionService.GetSubmission(t.Context(), env.principal.TenantID, submission.ID.String())
	require.NoError(t, err)
	assert.Equal(t, first.Prize.Label, *stored.PrizeWon)
}

func TestRecordPrizeWithStaleReadIsConflict(t *testing.T) {
	env := newTestEnv(t, seededSource(5))
	ctx := t.Context()
	submission := env.submit(t, "Casey")
	first := env.spin(t, submission)

	// submission was read before the spin above, so it still has no prize.
	require.Nil(t, submission.PrizeWon)
	other := models.Prize{ID: "other", Label: "Something Else", Probability: 1}
	err := env.submissionService.recordPrize(ctx, env.principal.TenantID, submission, other)

	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindConflict))

	stored, err := env.submissionService.GetSubmission(ctx, env.principal.TenantID, submission.ID.String())
	require.NoError(t, err)
	assert.Equal(t, first.Prize.Label, *stored.PrizeWon)
	assert.Equal(t, first.Prize.ID, *stored.PrizeID)

	history, err := env.auditService.GetRecordHistory(ctx, env.principal.TenantID, submission.ID.String())
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestRedeemAlreadyRedeemedRowIsConflict(t *testing.T) {
	env := newTestEnv(t, seededSource(5))
	ctx := t.Context()
	submission := env.submit(t, "Drew")
	env.spin(t, submission)

	redeemedAt := time.Date(2025, time.June, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, env.db.Model(&models.CheckInSubmission{}).
		Where("id = ?", submission.ID).
		Updates(map[string]interface{}{"redeemed": true, "redeemed_at": redeemedAt}).Error)

	_, err := env.submissionService.Redeem(ctx, env.principal, submission.ValidationCode)

	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindConflict))

	history, err := env.auditService.GetRecordHistory(ctx, env.principal.TenantID, submission.ID.String())
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestSpinOtherTenantIsNotFound(t *testing.T) {
	env := newTestEnv(t, seededSource(5))
	submission := env.submit(t, "Alex")

	_, err := env.submissionService.Spin(t.Context(), uuid.New(), submission.ID.String())
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindNotFound))

	_, err = env.submissionService.Spin(t.Context(), env.principal.TenantID, uuid.NewString())
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindNotFound))

	_, err = env.submissionService.Spin(t.Context(), env.principal.TenantID, "not-a-uuid")
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindValidation))
}

func TestConcurrentSpinHasOneWinner(t *testing.T) {
	env := newTestEnv(t, seededSource(9))
	submission := env.submit(t, "Riley")

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		winners   []*models.SpinResponse
		conflicts int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := env.submissionService.Spin(t.Context(), env.principal.TenantID, submission.ID.String())

			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				winners = append(winners, result)
				return
			}
			if errors.IsKind(err, errors.KindConflict) {
				conflicts++
			}
		}()
	}
	wg.Wait()

	require.Len(t, winners, 1)
	assert.Equal(t, workers-1, conflicts)

	stored, err := env.submissionService.GetSubmission(t.Context(), env.principal.TenantID, submission.ID.String())
	require.NoError(t, err)
	assert.Equal(t, winners[0].Prize.Label, *stored.PrizeWon)
	assert.Equal(t, winners[0].Prize.ID, *stored.PrizeID)
}

func TestConcurrentRedeemHasOneWinner(t *testing.T) {
	env := newTestEnv(t, seededSource(9))
	submission := env.submit(t, "Morgan")
	env.spin(t, submission)

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.submissionService.Redeem(t.Context(), env.principal, submission.ValidationCode)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.IsKind(err, errors.KindConflict):
				conflicts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, workers-1, conflicts)
}

func TestRedeemErrors(t *testing.T) {
	env := newTestEnv(t, seededSource(11))
	ctx := t.Context()

	_, err := env.submissionService.Redeem(ctx, env.principal, "CW-ZZZZZ")
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindNotFound))

	_, err = env.submissionService.Redeem(ctx, env.principal, "  ")
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindValidation))

	unspun := env.submit(t, "No Spin")
	_, err = env.submissionService.Redeem(ctx, env.principal, unspun.ValidationCode)
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindConflict))
	assert.Contains(t, err.Error(), "spin first")

	spun := env.submit(t, "Spun")
	env.spin(t, spun)
	otherTenant := &models.Principal{TenantID: uuid.New(), UserID: uuid.New(), Role: models.RoleStaff}
	_, err = env.submissionService.Redeem(ctx, otherTenant, spun.ValidationCode)
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindNotFound))
}

func TestRedeemAcceptsLooselyTypedCode(t *testing.T) {
	env := newTestEnv(t, seededSource(13))
	submission := env.submit(t, "Casey")
	env.spin(t, submission)

	redeemed, err := env.submissionService.Redeem(t.Context(), env.principal, "  "+strings.ToLower(submission.ValidationCode)+" ")

	require.NoError(t, err)
	assert.True(t, redeemed.Redeemed)
}

func TestValidateStates(t *testing.T) {
	env := newTestEnv(t, seededSource(17))
	ctx := t.Context()
	tenantID := env.principal.TenantID

	result, err := env.submissionService.Validate(ctx, tenantID, "CW-ZZZZZ")
	require.NoError(t, err)
	assert.Equal(t, models.ValidationStatusInvalidCode, result.Status)
	assert.Nil(t, result.Submission)

	submission, err := env.submissionService.Submit(ctx, tenantID, &models.CheckInSubmitRequest{CustomerName: "Taylor", Phone: strPtr("555-0199")})
	require.NoError(t, err)

	result, err = env.submissionService.Validate(ctx, tenantID, submission.ValidationCode)
	require.NoError(t, err)
	assert.Equal(t, models.ValidationStatusNoPrize, result.Status)
	assert.False(t, result.Valid)

	env.spin(t, submission)
	result, err = env.submissionService.Validate(ctx, tenantID, submission.ValidationCode)
	require.NoError(t, err)
	assert.True(t, result.Valid)
	require.NotNil(t, result.Submission.Phone)

	_, err = env.submissionService.Redeem(ctx, env.principal, submission.ValidationCode)
	require.NoError(t, err)
	result, err = env.submissionService.Validate(ctx, tenantID, submission.ValidationCode)
	require.NoError(t, err)
	assert.Equal(t, models.ValidationStatusAlreadyRedeemed, result.Status)
	assert.Equal(t, "Taylor", result.Submission.CustomerName)
	assert.Nil(t, result.Submission.Phone)

	// Validate never consumes a code.
	stored, err := env.submissionService.GetSubmission(ctx, tenantID, submission.ID.String())
	require.NoError(t, err)
	assert.True(t, stored.Redeemed)
}

func TestListSubmissionsFilters(t *testing.T) {
	env := newTestEnv(t, seededSource(19))
	ctx := t.Context()
	tenantID := env.principal.TenantID

	alpha := env.submit(t, "Alpha Driver")
	beta := env.submit(t, "Beta Driver")
	env.submit(t, "Gamma Rider")
	env.spin(t, alpha)
	env.spin(t, beta)
	_, err := env.submissionService.Redeem(ctx, env.principal, alpha.ValidationCode)
	require.NoError(t, err)

	// Another tenant's rows never show up.
	_, err = env.submissionService.Submit(ctx, uuid.New(), &models.CheckInSubmitRequest{CustomerName: "Alpha Elsewhere"})
	require.NoError(t, err)

	all, err := env.submissionService.ListSubmissions(ctx, tenantID, &models.SubmissionListRequest{})
	require.NoError(t, err)
	assert.Equal(t, 3, all.TotalItems)

	yes, no := true, false
	withPrize, err := env.submissionService.ListSubmissions(ctx, tenantID, &models.SubmissionListRequest{HasPrize: &yes})
	require.NoError(t, err)
	assert.Equal(t, 2, withPrize.TotalItems)

	notRedeemed, err := env.submissionService.ListSubmissions(ctx, tenantID, &models.SubmissionListRequest{Redeemed: &no, HasPrize: &yes})
	require.NoError(t, err)
	require.Len(t, notRedeemed.Items, 1)
	assert.Equal(t, beta.ID, notRedeemed.Items[0].ID)

	search, err := env.submissionService.ListSubmissions(ctx, tenantID, &models.SubmissionListRequest{Search: "driver"})
	require.NoError(t, err)
	assert.Equal(t, 2, search.TotalItems)

	paged, err := env.submissionService.ListSubmissions(ctx, tenantID, &models.SubmissionListRequest{
		PaginationRequest: models.PaginationRequest{Page: 2, Limit: 2, OrderField: "customer_name", Order: "asc"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, paged.TotalPages)
	assert.True(t, paged.HasPrev)
	assert.False(t, paged.HasNext)
	require.Len(t, paged.Items, 1)
	assert.Equal(t, "Gamma Rider", paged.Items[0].CustomerName)
}

func TestGetStats(t *testing.T) {
	env := newTestEnv(t, seededSource(21))
	env.submissionService.selector = NewPrizeSelector(fixedSource{f: 0})
	ctx := t.Context()
	_, err := env.prizeService.ReplaceConfiguration(ctx, env.principal, &models.PrizeConfigurationReplaceRequest{Prizes: twoPrizeTable()})
	require.NoError(t, err)

	env.submit(t, "One")
	first := env.submit(t, "Two")
	second := env.submit(t, "Three")
	env.spin(t, first)
	env.spin(t, second)
	_, err = env.submissionService.Redeem(ctx, env.principal, first.ValidationCode)
	require.NoError(t, err)

	stats, err := env.submissionService.GetStats(ctx, env.principal.TenantID)
	require.NoError(t, err)

	assert.Equal(t, int64(3), stats.TotalSubmissions)
	assert.Equal(t, int64(2), stats.PrizesWon)
	assert.Equal(t, int64(1), stats.Redeemed)
	assert.Equal(t, int64(0), stats.ContentGenerated)
	require.Len(t, stats.ByPrize, 1)
	assert.Equal(t, "wash", stats.ByPrize[0].PrizeID)
	assert.Equal(t, int64(2), stats.ByPrize[0].Won)
	assert.Equal(t, int64(1), stats.ByPrize[0].Redeemed)
}
