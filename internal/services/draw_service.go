package services

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/wijk-raffle/kupon-backend/internal/metrics"
	"github.com/wijk-raffle/kupon-backend/internal/models"
	"github.com/wijk-raffle/kupon-backend/internal/repositories"
)

// Compile-time check to ensure DrawServiceImpl implements DrawService
var _ DrawService = (*DrawServiceImpl)(nil)

// Picker returns an index in [0, n).
type Picker func(n int) int

// drawSession is one operator's draw state
type drawSession struct {
	state     models.DrawState
	result    *models.DrawEntry
	saving    bool // result is being written; further saves are refused
	poolSize  int
	drawnAt   time.Time
	updatedAt time.Time
}

// DrawServiceImpl runs the draw state machine for each operator
type DrawServiceImpl struct {
	couponRepo repositories.CouponRepository
	winnerRepo repositories.WinnerRepository
	logger     logrus.FieldLogger

	pick Picker
	now  func() time.Time

	mu       sync.Mutex
	sessions map[string]*drawSession
}

// DrawOption customises a DrawServiceImpl
type DrawOption func(*DrawServiceImpl)

// WithPicker replaces the random index source
func WithPicker(p Picker) DrawOption {
	return func(s *DrawServiceImpl) { s.pick = p }
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) DrawOption {
	return func(s *DrawServiceImpl) { s.now = now }
}

// NewDrawService creates a new DrawServiceImpl
func NewDrawService(
	couponRepo repositories.CouponRepository,
	winnerRepo repositories.WinnerRepository,
	logger logrus.FieldLogger,
	opts ...DrawOption,
) *DrawServiceImpl {
	s := &DrawServiceImpl{
		couponRepo: couponRepo,
		winnerRepo: winnerRepo,
		logger:     logger,
		pick:       rand.Intn,
		now:        time.Now,
		sessions:   make(map[string]*drawSession),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// EligibleCount returns how many Lunas and Diterima coupons exist. Past
// winners are still counted.
func (s *DrawServiceImpl) EligibleCount(ctx context.Context) (int, error) {
	records, err := s.couponRepo.FindByStatus(ctx, models.PaymentFullyPaid, models.ReceiptReceived)
	if err != nil {
		return 0, fmt.Errorf("load eligible coupons: %w", err)
	}
	return CountEligibleCoupons(records), nil
}

// Draw picks one coupon uniformly from the current eligible pool. Any
// unsaved result from an earlier draw is discarded.
func (s *DrawServiceImpl) Draw(ctx context.Context, operator string) (*models.DrawStatus, error) {
	start := s.now()
	status := "success"
	defer func() {
		metrics.RecordDrawDuration(status, s.now().Sub(start).Seconds())
	}()

	count, err := s.EligibleCount(ctx)
	if err != nil {
		status = "error"
		return nil, err
	}
	if count == 0 {
		status = "empty"
		s.reset(operator)
		return nil, ErrNoEligibleCoupons
	}

	s.transition(operator, func(sess *drawSession) {
		sess.state = models.DrawStateDrawing
		sess.result = nil
		sess.saving = false
		sess.poolSize = 0
	})

	// The pool is re-read on every draw so winners saved elsewhere drop out.
	records, err := s.couponRepo.FindByStatus(ctx, models.PaymentFullyPaid, models.ReceiptReceived)
	if err != nil {
		status = "error"
		s.reset(operator)
		return nil, fmt.Errorf("load eligible coupons: %w", err)
	}
	winnerNumbers, err := s.winnerRepo.FindAllNumbers(ctx)
	if err != nil {
		status = "error"
		s.reset(operator)
		return nil, fmt.Errorf("load winner numbers: %w", err)
	}

	pool := BuildEligiblePool(records, winnerNumbers)
	metrics.EligiblePoolSize.Set(float64(len(pool)))
	if len(pool) == 0 {
		status = "empty"
		s.reset(operator)
		s.logger.WithField("operator", operator).Warn("All eligible coupons have already won")
		return nil, newError(KindNoEligibleCoupons, "all eligible coupons have already won")
	}

	entry := pool[s.pick(len(pool))]

	out := s.transition(operator, func(sess *drawSession) {
		sess.state = models.DrawStateResult
		sess.result = &entry
		sess.poolSize = len(pool)
		sess.drawnAt = s.now()
	})

	s.logger.WithFields(logrus.Fields{
		"operator":     operator,
		"couponNumber": entry.CouponNumber,
		"poolSize":     len(pool),
	}).Info("Coupon drawn")
	return &out, nil
}

// Current returns the operator's draw state
func (s *DrawServiceImpl) Current(operator string) *models.DrawStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := s.session(operator).status()
	return &out
}

// Discard drops an unsaved result and returns to idle
func (s *DrawServiceImpl) Discard(operator string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.session(operator)
	if sess.state != models.DrawStateResult || sess.saving {
		return ErrNoPendingResult
	}
	s.logger.WithFields(logrus.Fields{
		"operator":     operator,
		"couponNumber": sess.result.CouponNumber,
	}).Info("Draw result discarded")
	sess.clear(s.now())
	return nil
}

// SaveWinner stores the pending result as a winner. The number is not
// re-checked against winners saved since the draw. A result can be saved
// once; a second call while the first write is in flight gets
// ErrNoPendingResult.
func (s *DrawServiceImpl) SaveWinner(ctx context.Context, operator string) (*models.Winner, error) {
	s.mu.Lock()
	sess := s.session(operator)
	if sess.state != models.DrawStateResult || sess.result == nil || sess.saving {
		s.mu.Unlock()
		return nil, ErrNoPendingResult
	}
	pending := sess.result
	entry := *pending
	sess.saving = true
	s.mu.Unlock()

	winner := &models.Winner{
		CouponNumber:    entry.CouponNumber,
		FamilyName:      entry.FamilyName,
		ParticipantName: entry.ParticipantName,
		Category:        entry.Category,
		Zone:            entry.Zone,
		DrawnAt:         s.now(),
		DrawnBy:         operator,
	}
	err := s.winnerRepo.Create(ctx, winner)

	s.mu.Lock()
	// a newer draw may have replaced the result while the write ran
	if sess.result == pending {
		if err != nil {
			sess.saving = false
		} else {
			sess.clear(s.now())
		}
	}
	s.mu.Unlock()

	if err != nil {
		return nil, fmt.Errorf("save winner: %w", err)
	}

	metrics.WinnersSaved.Inc()
	s.logger.WithFields(logrus.Fields{
		"operator":     operator,
		"winnerId":     winner.ID,
		"couponNumber": winner.CouponNumber,
	}).Info("Winner saved")
	return winner, nil
}

func (s *DrawServiceImpl) transition(operator string, fn func(*drawSession)) models.DrawStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.session(operator)
	fn(sess)
	sess.updatedAt = s.now()
	return sess.status()
}

func (s *DrawServiceImpl) reset(operator string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session(operator).clear(s.now())
}

// session must be called with s.mu held
func (s *DrawServiceImpl) session(operator string) *drawSession {
	sess, ok := s.sessions[operator]
	if !ok {
		sess = &drawSession{state: models.DrawStateIdle, updatedAt: s.now()}
		s.sessions[operator] = sess
	}
	return sess
}

func (d *drawSession) clear(now time.Time) {
	d.state = models.DrawStateIdle
	d.result = nil
	d.saving = false
	d.poolSize = 0
	d.drawnAt = time.Time{}
	d.updatedAt = now
}

func (d *drawSession) status() models.DrawStatus {
	out := models.DrawStatus{
		State:     d.state,
		PoolSize:  d.poolSize,
		DrawnAt:   d.drawnAt,
		UpdatedAt: d.updatedAt,
	}
	if d.result != nil {
		r := *d.result
		out.Result = &r
	}
	return out
}
