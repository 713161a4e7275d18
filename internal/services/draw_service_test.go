package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wijk-raffle/kupon-backend/internal/models"
	"github.com/wijk-raffle/kupon-backend/internal/repositories/memory"
	"github.com/wijk-raffle/kupon-backend/pkg/logger"
)

type drawFixture struct {
	ctx     context.Context
	coupons *memory.CouponRepository
	winners *memory.WinnerRepository
	svc     *DrawServiceImpl
}

func newDrawFixture(t *testing.T, pick Picker) *drawFixture {
	t.Helper()
	f := &drawFixture{
		ctx:     context.Background(),
		coupons: memory.NewCouponRepository(),
		winners: memory.NewWinnerRepository(),
	}
	clock := time.Date(2025, 12, 24, 19, 0, 0, 0, time.UTC)
	f.svc = NewDrawService(f.coupons, f.winners, logger.Discard(),
		WithPicker(pick),
		WithClock(func() time.Time { return clock }),
	)
	return f
}

func (f *drawFixture) add(t *testing.T, numbers []string, payment models.PaymentStatus, receipt models.ReceiptStatus) {
	t.Helper()
	require.NoError(t, f.coupons.Create(f.ctx, record(numbers, payment, receipt)))
}

func pickFirst(n int) int { return 0 }

func TestDrawService_NoEligibleCoupons(t *testing.T) {
	f := newDrawFixture(t, pickFirst)
	f.add(t, []string{"0001"}, models.PaymentFullyPaid, models.ReceiptNotReceived)
	f.add(t, []string{"0002"}, models.PaymentPartiallyPaid, models.ReceiptReceived)

	count, err := f.svc.EligibleCount(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	_, err = f.svc.Draw(f.ctx, "panitia1")
	assert.ErrorIs(t, err, ErrNoEligibleCoupons)
	assert.Equal(t, models.DrawStateIdle, f.svc.Current("panitia1").State)
}

func TestDrawService_DrawAndSave(t *testing.T) {
	f := newDrawFixture(t, pickFirst)
	f.add(t, []string{"0007"}, models.PaymentFullyPaid, models.ReceiptReceived)

	status, err := f.svc.Draw(f.ctx, "panitia1")
	require.NoError(t, err)
	assert.Equal(t, models.DrawStateResult, status.State)
	require.NotNil(t, status.Result)
	assert.Equal(t, "0007", status.Result.CouponNumber)
	assert.Equal(t, 1, status.PoolSize)

	// another operator has an independent session
	assert.Equal(t, models.DrawStateIdle, f.svc.Current("panitia2").State)

	winner, err := f.svc.SaveWinner(f.ctx, "panitia1")
	require.NoError(t, err)
	assert.NotEmpty(t, winner.ID)
	assert.Equal(t, "0007", winner.CouponNumber)
	assert.Equal(t, "panitia1", winner.DrawnBy)
	assert.Equal(t, "Wijk Sion", winner.Zone)
	assert.Equal(t, models.DrawStateIdle, f.svc.Current("panitia1").State)

	// the count still includes the past winner, the pool does not
	count, err := f.svc.EligibleCount(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, err = f.svc.Draw(f.ctx, "panitia1")
	assert.ErrorIs(t, err, ErrNoEligibleCoupons)
}

func TestDrawService_WinnersNeverRepeat(t *testing.T) {
	f := newDrawFixture(t, func(n int) int { return n - 1 })
	f.add(t, []string{"0001", "0002", "0003"}, models.PaymentFullyPaid, models.ReceiptReceived)

	seen := make(map[string]bool)
	for i := 0; i < 3; i++ {
		status, err := f.svc.Draw(f.ctx, "panitia1")
		require.NoError(t, err)
		assert.Equal(t, 3-i, status.PoolSize)
		n := status.Result.CouponNumber
		assert.False(t, seen[n], "number %s drawn twice", n)
		seen[n] = true

		_, err = f.svc.SaveWinner(f.ctx, "panitia1")
		require.NoError(t, err)
	}

	_, err := f.svc.Draw(f.ctx, "panitia1")
	assert.ErrorIs(t, err, ErrNoEligibleCoupons)
}

func TestDrawService_RedrawDiscardsUnsavedResult(t *testing.T) {
	picks := []int{0, 1}
	f := newDrawFixture(t, func(n int) int {
		p := picks[0]
		picks = picks[1:]
		return p
	})
	f.add(t, []string{"0001", "0002"}, models.PaymentFullyPaid, models.ReceiptReceived)

	one, err := f.svc.Draw(f.ctx, "panitia1")
	require.NoError(t, err)
	assert.Equal(t, "0001", one.Result.CouponNumber)

	second, err := f.svc.Draw(f.ctx, "panitia1")
	require.NoError(t, err)
	assert.Equal(t, "0002", second.Result.CouponNumber)
	assert.Equal(t, 2, second.PoolSize, "unsaved result stays in the pool")

	winners, err := f.winners.FindAll(f.ctx)
	require.NoError(t, err)
	assert.Empty(t, winners)
}

func TestDrawService_DiscardAndSaveNeedResult(t *testing.T) {
	f := newDrawFixture(t, pickFirst)
	f.add(t, []string{"0001"}, models.PaymentFullyPaid, models.ReceiptReceived)

	assert.ErrorIs(t, f.svc.Discard("panitia1"), ErrNoPendingResult)
	_, err := f.svc.SaveWinner(f.ctx, "panitia1")
	assert.ErrorIs(t, err, ErrNoPendingResult)

	_, err = f.svc.Draw(f.ctx, "panitia1")
	require.NoError(t, err)
	require.NoError(t, f.svc.Discard("panitia1"))
	assert.Equal(t, models.DrawStateIdle, f.svc.Current("panitia1").State)
	assert.Nil(t, f.svc.Current("panitia1").Result)

	_, err = f.svc.SaveWinner(f.ctx, "panitia1")
	assert.ErrorIs(t, err, ErrNoPendingResult)
}

func TestDrawService_DeletedWinnerIsEligibleAgain(t *testing.T) {
	f := newDrawFixture(t, pickFirst)
	f.add(t, []string{"0009"}, models.PaymentFullyPaid, models.ReceiptReceived)

	_, err := f.svc.Draw(f.ctx, "panitia1")
	require.NoError(t, err)
	winner, err := f.svc.SaveWinner(f.ctx, "panitia1")
	require.NoError(t, err)

	_, err = f.svc.Draw(f.ctx, "panitia1")
	require.ErrorIs(t, err, ErrNoEligibleCoupons)

	winnerSvc := NewWinnerService(f.winners, logger.Discard())
	require.NoError(t, winnerSvc.DeleteWinner(f.ctx, winner.ID))

	status, err := f.svc.Draw(f.ctx, "panitia1")
	require.NoError(t, err)
	assert.Equal(t, "0009", status.Result.CouponNumber)
}

func TestDrawService_DefaultPickerStaysInRange(t *testing.T) {
	f := newDrawFixture(t, pickFirst)
	f.svc = NewDrawService(f.coupons, f.winners, logger.Discard())
	f.add(t, []string{"0001", "0002", "0003", "0004"}, models.PaymentFullyPaid, models.ReceiptReceived)

	for i := 0; i < 50; i++ {
		status, err := f.svc.Draw(f.ctx, "panitia1")
		require.NoError(t, err)
		assert.Contains(t, []string{"0001", "0002", "0003", "0004"}, status.Result.CouponNumber)
	}
}

// slowWinnerRepository holds Create until release is closed.
type slowWinnerRepository struct {
	*memory.WinnerRepository
	entered chan struct{}
	release chan struct{}
}

func (r *slowWinnerRepository) Create(ctx context.Context, winner *models.Winner) error {
	close(r.entered)
	<-r.release
	return r.WinnerRepository.Create(ctx, winner)
}

// flakyWinnerRepository fails the first Create.
type flakyWinnerRepository struct {
	*memory.WinnerRepository
	failed bool
}

func (r *flakyWinnerRepository) Create(ctx context.Context, winner *models.Winner) error {
	if !r.failed {
		r.failed = true
		return errors.New("connection reset")
	}
	return r.WinnerRepository.Create(ctx, winner)
}

func TestDrawService_SaveWinnerOnlyOnce(t *testing.T) {
	f := newDrawFixture(t, pickFirst)
	f.add(t, []string{"0007"}, models.PaymentFullyPaid, models.ReceiptReceived)

	slow := &slowWinnerRepository{
		WinnerRepository: f.winners,
		entered:          make(chan struct{}),
		release:          make(chan struct{}),
	}
	f.svc = NewDrawService(f.coupons, slow, logger.Discard(), WithPicker(pickFirst))

	_, err := f.svc.Draw(f.ctx, "panitia1")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := f.svc.SaveWinner(f.ctx, "panitia1")
		done <- err
	}()
	<-slow.entered

	_, err = f.svc.SaveWinner(f.ctx, "panitia1")
	assert.ErrorIs(t, err, ErrNoPendingResult)
	assert.ErrorIs(t, f.svc.Discard("panitia1"), ErrNoPendingResult)

	close(slow.release)
	require.NoError(t, <-done)

	numbers, err := f.winners.FindAllNumbers(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"0007"}, numbers)
	assert.Equal(t, models.DrawStateIdle, f.svc.Current("panitia1").State)
}

func TestDrawService_FailedSaveKeepsResult(t *testing.T) {
	f := newDrawFixture(t, pickFirst)
	f.add(t, []string{"0011"}, models.PaymentFullyPaid, models.ReceiptReceived)

	flaky := &flakyWinnerRepository{WinnerRepository: f.winners}
	f.svc = NewDrawService(f.coupons, flaky, logger.Discard(), WithPicker(pickFirst))

	_, err := f.svc.Draw(f.ctx, "panitia1")
	require.NoError(t, err)

	_, err = f.svc.SaveWinner(f.ctx, "panitia1")
	require.Error(t, err)
	status := f.svc.Current("panitia1")
	assert.Equal(t, models.DrawStateResult, status.State)
	require.NotNil(t, status.Result)
	assert.Equal(t, "0011", status.Result.CouponNumber)

	winner, err := f.svc.SaveWinner(f.ctx, "panitia1")
	require.NoError(t, err)
	assert.Equal(t, "0011", winner.CouponNumber)
}
