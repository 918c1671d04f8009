// internal/service/subscription/service.go
package subscription

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"stockpilot-service/internal/access"
	"stockpilot-service/internal/domain/subscription"
	xerrors "stockpilot-service/internal/pkg/errors"
	"stockpilot-service/internal/pkg/metrics"
	"stockpilot-service/internal/pkg/session"
	"stockpilot-service/internal/repository/postgres"
)

// plan catalogue shown by /billing/plans; amounts in NGN.
var planCatalogue = []planSpec{
	{key: "monthly_pro", label: "Pro (Monthly)", cycle: "monthly", amount: 15000, days: 30},
	{key: "yearly", label: "Yearly", cycle: "yearly", amount: 180000, days: 365},
}

type planSpec struct {
	key    string
	label  string
	cycle  string
	amount float64
	days   int
}

type Service struct {
	subRepo    *postgres.SubscriptionRepository
	usageRepo  *postgres.UsageRepository
	verifier   PaymentVerifier
	noticeGate *session.NoticeGate
	notifier   BillingNotifier
	freeLimit  int
	logger     *zap.Logger
}

// BillingNotifier pushes billing state changes to a tenant's open tabs.
// Implemented by the websocket hub.
type BillingNotifier interface {
	NotifySubscriptionLocked(userID int64, plan, message string)
	NotifySubscriptionUpgraded(userID int64, plan string)
}

func NewService(
	subRepo *postgres.SubscriptionRepository,
	usageRepo *postgres.UsageRepository,
	verifier PaymentVerifier,
	noticeGate *session.NoticeGate,
	notifier BillingNotifier,
	freeLimit int,
	logger *zap.Logger,
) *Service {
	return &Service{
		subRepo:    subRepo,
		usageRepo:  usageRepo,
		verifier:   verifier,
		noticeGate: noticeGate,
		notifier:   notifier,
		freeLimit:  freeLimit,
		logger:     logger,
	}
}

// Snapshot fetches plan state and usage count together. The pair is
// returned as one value so a caller never mixes the usage of one read
// with the plan of another.
func (s *Service) Snapshot(ctx context.Context, userID int64) (subscription.Snapshot, error) {
	sub, err := s.subRepo.EnsureFreeDefault(ctx, userID)
	if err != nil {
		return subscription.Snapshot{}, xerrors.Mark(err, xerrors.ErrFetchFailed)
	}

	// lazily expire a pro row past its end date
	if sub.Plan == subscription.PlanPro && sub.IsActive &&
		sub.ExpiresAt.Valid && time.Now().After(sub.ExpiresAt.Time) {
		if err := s.subRepo.Deactivate(ctx, sub.ID); err != nil {
			s.logger.Warn("failed to deactivate expired subscription",
				zap.Int64("subscription_id", sub.ID), zap.Error(err))
		}
		sub.IsActive = false
	}

	usage, err := s.usageRepo.CountTransactions(ctx, userID)
	if err != nil {
		return subscription.Snapshot{}, xerrors.Mark(err, xerrors.ErrFetchFailed)
	}

	snap := subscription.Snapshot{
		Plan:       sub.Plan,
		IsActive:   sub.IsActive,
		UsageCount: usage,
		StartedAt:  sub.StartedAt,
	}
	if sub.ExpiresAt.Valid {
		snap.ExpiresAt = sub.ExpiresAt.Time
	}

	return snap, nil
}

// Status evaluates the gate over a fresh snapshot. The first evaluation
// that finds a given plan period locked also claims the one-shot
// user-facing warning.
func (s *Service) Status(ctx context.Context, userID int64) (*subscription.StatusResponse, error) {
	snap, err := s.Snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := access.EvaluateSubscription(snap, s.freeLimit)

	resp := &subscription.StatusResponse{
		Snapshot:  snap,
		Locked:    result.Locked,
		Remaining: result.Remaining,
	}

	if result.Locked {
		metrics.SubscriptionLocked.Inc()
		first, err := s.noticeGate.Once(ctx, access.LockEventID(userID, snap))
		if err != nil {
			s.logger.Warn("failed to claim lock notice", zap.Error(err))
		}
		if first || err != nil {
			resp.Message = result.Message
		}
		if first && s.notifier != nil {
			s.notifier.NotifySubscriptionLocked(userID, string(snap.Plan), result.Message)
		}
	}

	return resp, nil
}

// Gate returns just the verdict, for middleware that only needs the
// locked/unlocked decision.
func (s *Service) Gate(ctx context.Context, userID int64) (access.GateResult, error) {
	snap, err := s.Snapshot(ctx, userID)
	if err != nil {
		return access.GateResult{}, err
	}
	return access.EvaluateSubscription(snap, s.freeLimit), nil
}

// Plans returns display pricing. Yearly savings are derived from the
// monthly amount and omitted when they round to zero.
func (s *Service) Plans() []subscription.PlanPrice {
	var monthly float64
	for _, p := range planCatalogue {
		if p.cycle == "monthly" {
			monthly = p.amount
		}
	}

	prices := make([]subscription.PlanPrice, 0, len(planCatalogue))
	for _, p := range planCatalogue {
		price := subscription.PlanPrice{
			Plan:     subscription.PlanPro,
			Cycle:    p.cycle,
			Amount:   p.amount,
			Currency: "NGN",
		}
		if p.cycle == "yearly" && monthly > 0 {
			if savings := monthly*12 - p.amount; savings > 0 {
				price.YearlySavings = savings
			}
		}
		prices = append(prices, price)
	}

	return prices
}

// VerifyPayment confirms a charge with the provider and activates the pro
// plan. References encode "<user_id>-<plan_key>-...", and the embedded
// user must match the caller. Re-verifying a reference that already
// activated a plan reports success without charging twice.
func (s *Service) VerifyPayment(ctx context.Context, userID int64, reference string) (*subscription.VerifyResponse, error) {
	refUserID, planKey, err := parseReference(reference)
	if err != nil {
		return nil, xerrors.ErrInvalidInput
	}
	if refUserID != userID {
		return nil, xerrors.ErrUnauthorized
	}

	if existing, err := s.subRepo.FindByReference(ctx, reference); err == nil && existing.IsActive {
		snap, err := s.Snapshot(ctx, userID)
		if err != nil {
			return nil, err
		}
		return &subscription.VerifyResponse{
			Verified: true,
			Message:  "Payment already verified.",
			Snapshot: &snap,
		}, nil
	}

	payment, err := s.verifier.VerifyTransaction(ctx, reference)
	if err != nil {
		return nil, err
	}
	if !payment.Success {
		return &subscription.VerifyResponse{
			Verified: false,
			Message:  "Payment verification failed.",
		}, nil
	}

	days := planDays(planKey)
	expiresAt := time.Now().AddDate(0, 0, days)

	if _, err := s.subRepo.Activate(ctx, userID, reference, expiresAt); err != nil {
		return nil, fmt.Errorf("failed to activate subscription: %w", err)
	}

	s.logger.Info("subscription activated",
		zap.Int64("user_id", userID),
		zap.String("reference", reference),
		zap.String("plan_key", planKey),
		zap.Time("expires_at", expiresAt))

	if s.notifier != nil {
		s.notifier.NotifySubscriptionUpgraded(userID, string(subscription.PlanPro))
	}

	snap, err := s.Snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &subscription.VerifyResponse{
		Verified: true,
		Message:  "Payment verified! Your Pro subscription is now active.",
		Snapshot: &snap,
	}, nil
}

func parseReference(reference string) (int64, string, error) {
	parts := strings.Split(reference, "-")
	if len(parts) < 2 {
		return 0, "", errors.New("malformed payment reference")
	}
	userID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("malformed payment reference: %w", err)
	}
	return userID, parts[1], nil
}

func planDays(planKey string) int {
	for _, p := range planCatalogue {
		if p.key == planKey {
			return p.days
		}
	}
	return 30
}
