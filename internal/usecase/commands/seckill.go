package commands

import (
	"context"

	"flashsale-service/internal/domain/order"
	"flashsale-service/internal/infra/gate"
	"flashsale-service/internal/pkg/clock"
	"flashsale-service/internal/pkg/config"
	"flashsale-service/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	// ErrStoreUnavailable marks shared-store failures on the admission
	// path. Admission fails closed: no successful atomic check, no admit.
	ErrStoreUnavailable = errs.New("shared store unavailable")

	// ErrIntakeSaturated marks enqueue failures after admission. The
	// order was admitted but could not be handed to the persistence
	// path before the caller gave up.
	ErrIntakeSaturated = errs.New("order intake saturated")
)

type PurchaseStatus int

const (
	PurchaseAdmitted PurchaseStatus = iota
	PurchaseSoldOut
	PurchaseDuplicate
	PurchaseWindowClosed
)

// PurchaseResult is a typed outcome; rejections are expected and carry
// no error. OrderID is set only when Status is PurchaseAdmitted.
type PurchaseResult struct {
	Status  PurchaseStatus
	OrderID int64
}

type AdmissionGate interface {
	TryAdmit(ctx context.Context, voucherID int64, userID uuid.UUID) (gate.Decision, error)
}

type OrderIDSource interface {
	Next(ctx context.Context, namespace string) (int64, error)
}

type OrderIntake interface {
	Enqueue(ctx context.Context, o *order.Order) error
}

type SeckillCommands interface {
	Purchase(ctx context.Context, voucherID int64, userID uuid.UUID) (PurchaseResult, error)
}

type seckillUseCaseImpl struct {
	gate   AdmissionGate
	ids    OrderIDSource
	intake OrderIntake
	clock  clock.Clock
	cfg    config.SeckillConfig
}

func NewSeckillUseCase(
	admissionGate AdmissionGate,
	ids OrderIDSource,
	intake OrderIntake,
	clk clock.Clock,
	cfg config.Config,
) SeckillCommands {
	return &seckillUseCaseImpl{
		gate:   admissionGate,
		ids:    ids,
		intake: intake,
		clock:  clk,
		cfg:    cfg.Seckill,
	}
}

// Purchase runs the admission pipeline: one atomic round trip decides
// admit/reject, then an id is reserved and the order handed off for
// durable persistence. The response returns as soon as the hand-off
// succeeds; durability is eventually consistent with the decision.
func (s *seckillUseCaseImpl) Purchase(ctx context.Context, voucherID int64, userID uuid.UUID) (PurchaseResult, error) {
	decision, err := s.gate.TryAdmit(ctx, voucherID, userID)
	if err != nil {
		return PurchaseResult{}, errs.Mark(err, ErrStoreUnavailable)
	}

	switch decision {
	case gate.RejectedSoldOut:
		return PurchaseResult{Status: PurchaseSoldOut}, nil
	case gate.RejectedDuplicate:
		return PurchaseResult{Status: PurchaseDuplicate}, nil
	case gate.RejectedWindowClosed:
		return PurchaseResult{Status: PurchaseWindowClosed}, nil
	}

	orderID, err := s.ids.Next(ctx, s.cfg.OrderNamespace)
	if err != nil {
		// stock is already decremented in the shared store; the unit is
		// leaked rather than risk a duplicate or phantom order
		return PurchaseResult{}, errs.Mark(err, ErrStoreUnavailable)
	}

	o, err := order.New(orderID, userID, voucherID, s.clock.Now())
	if err != nil {
		return PurchaseResult{}, errs.Wrap(err, "failed to build order")
	}

	if err := s.intake.Enqueue(ctx, o); err != nil {
		return PurchaseResult{}, errs.Mark(err, ErrIntakeSaturated)
	}

	return PurchaseResult{Status: PurchaseAdmitted, OrderID: orderID}, nil
}
