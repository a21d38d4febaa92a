// internal/service/billing/service.go
package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"prorata-service/internal/domain/billing"
	xerrors "prorata-service/internal/pkg/errors"
)

// MemberStore supplies billable users (seats) to the billing service. The
// calculator itself never touches storage.
type MemberStore interface {
	Create(ctx context.Context, user *billing.User) error
	FindByID(ctx context.Context, id int64) (*billing.User, error)
	FindByCustomer(ctx context.Context, customerID int64) ([]billing.User, error)
	SetDeactivatedOn(ctx context.Context, id int64, day time.Time) error
}

// SubscriptionStore supplies the customer's subscription record.
// FindByCustomer returns xerrors.ErrNotFound when the customer has none.
type SubscriptionStore interface {
	Upsert(ctx context.Context, sub *billing.Subscription) error
	FindByCustomer(ctx context.Context, customerID int64) (*billing.Subscription, error)
	Delete(ctx context.Context, customerID int64) error
}

type Service struct {
	members       MemberStore
	subscriptions SubscriptionStore
	logger        *zap.Logger
}

func NewService(members MemberStore, subscriptions SubscriptionStore, logger *zap.Logger) *Service {
	return &Service{
		members:       members,
		subscriptions: subscriptions,
		logger:        logger,
	}
}

// CustomerCharge computes the prorated charge for one customer and month.
// A customer without a subscription gets a zero charge, not an error; their
// member list is not even loaded in that case.
func (s *Service) CustomerCharge(ctx context.Context, customerID int64, month string) (*billing.ChargeResponse, error) {
	sub, err := s.subscriptions.FindByCustomer(ctx, customerID)
	if err != nil && !xerrors.Is(err, xerrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to load subscription: %w", err)
	}

	var users []billing.User
	if sub != nil {
		users, err = s.members.FindByCustomer(ctx, customerID)
		if err != nil {
			return nil, fmt.Errorf("failed to load members: %w", err)
		}
	}

	cents, err := ComputeMonthlyCharge(month, sub, users)
	if err != nil {
		return nil, err
	}

	ref := ulid.Make().String()
	s.logger.Info("computed monthly charge",
		zap.Int64("customer_id", customerID),
		zap.String("month", month),
		zap.Int64("charge_cents", cents),
		zap.String("reference", ref),
	)

	return &billing.ChargeResponse{
		Reference:   ref,
		CustomerID:  customerID,
		Month:       month,
		ChargeCents: cents,
		ComputedAt:  time.Now().UTC(),
	}, nil
}

// PreviewCharge runs the calculator over caller-supplied records without
// touching storage. Nothing is persisted.
func (s *Service) PreviewCharge(ctx context.Context, req *billing.PreviewChargeRequest) (*billing.ChargeResponse, error) {
	var sub *billing.Subscription
	if req.Subscription != nil {
		sub = &billing.Subscription{MonthlyPriceInCents: req.Subscription.MonthlyPriceInCents}
	}

	users := make([]billing.User, 0, len(req.Users))
	for _, pu := range req.Users {
		activated, err := ParseDay(pu.ActivatedOn)
		if err != nil {
			return nil, fmt.Errorf("user %d: %w", pu.ID, err)
		}
		u := billing.User{
			ID:          pu.ID,
			Name:        pu.Name,
			CustomerID:  pu.CustomerID,
			ActivatedOn: activated,
		}
		if pu.DeactivatedOn != nil {
			deactivated, err := ParseDay(*pu.DeactivatedOn)
			if err != nil {
				return nil, fmt.Errorf("user %d: %w", pu.ID, err)
			}
			u.DeactivatedOn = &deactivated
		}
		users = append(users, u)
	}

	cents, err := ComputeMonthlyCharge(req.Month, sub, users)
	if err != nil {
		return nil, err
	}

	return &billing.ChargeResponse{
		Reference:   ulid.Make().String(),
		Month:       req.Month,
		ChargeCents: cents,
		ComputedAt:  time.Now().UTC(),
	}, nil
}

// AddMember registers a new billable seat for a customer.
func (s *Service) AddMember(ctx context.Context, customerID int64, req *billing.AddMemberRequest) (*billing.User, error) {
	activated, err := ParseDay(req.ActivatedOn)
	if err != nil {
		return nil, err
	}

	user := &billing.User{
		Name:        req.Name,
		CustomerID:  customerID,
		ActivatedOn: activated,
	}
	if err := s.members.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create member: %w", err)
	}

	s.logger.Info("member added",
		zap.Int64("customer_id", customerID),
		zap.Int64("member_id", user.ID),
	)
	return user, nil
}

// ListMembers returns all billable seats for a customer.
func (s *Service) ListMembers(ctx context.Context, customerID int64) (*billing.MemberListResponse, error) {
	users, err := s.members.FindByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return &billing.MemberListResponse{Members: users, Total: len(users)}, nil
}

// DeactivateMember sets the last billable day for a seat. The day itself
// still bills: the user had some access on it.
func (s *Service) DeactivateMember(ctx context.Context, customerID, memberID int64, req *billing.DeactivateMemberRequest) (*billing.User, error) {
	deactivated, err := ParseDay(req.DeactivatedOn)
	if err != nil {
		return nil, err
	}

	user, err := s.members.FindByID(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("member not found: %w", err)
	}
	if user.CustomerID != customerID {
		return nil, xerrors.ErrForbidden
	}
	if deactivated.Before(dateOnly(user.ActivatedOn)) {
		return nil, fmt.Errorf("deactivation %s precedes activation: %w", req.DeactivatedOn, xerrors.ErrInvalidUserRecord)
	}

	if err := s.members.SetDeactivatedOn(ctx, memberID, deactivated); err != nil {
		return nil, fmt.Errorf("failed to deactivate member: %w", err)
	}
	user.DeactivatedOn = &deactivated

	s.logger.Info("member deactivated",
		zap.Int64("customer_id", customerID),
		zap.Int64("member_id", memberID),
		zap.String("deactivated_on", req.DeactivatedOn),
	)
	return user, nil
}

// SetSubscription creates or replaces the customer's subscription.
func (s *Service) SetSubscription(ctx context.Context, customerID int64, req *billing.SetSubscriptionRequest) (*billing.Subscription, error) {
	if req.MonthlyPriceInCents < 0 {
		return nil, xerrors.ErrInvalidSubscription
	}

	sub := &billing.Subscription{
		CustomerID:          customerID,
		MonthlyPriceInCents: req.MonthlyPriceInCents,
	}
	if err := s.subscriptions.Upsert(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to save subscription: %w", err)
	}

	s.logger.Info("subscription saved",
		zap.Int64("customer_id", customerID),
		zap.Int64("monthly_price_in_cents", req.MonthlyPriceInCents),
	)
	return sub, nil
}

// GetSubscription returns the customer's subscription or xerrors.ErrNotFound.
func (s *Service) GetSubscription(ctx context.Context, customerID int64) (*billing.Subscription, error) {
	return s.subscriptions.FindByCustomer(ctx, customerID)
}

// RemoveSubscription drops the customer's subscription; later charges for
// the customer compute to zero.
func (s *Service) RemoveSubscription(ctx context.Context, customerID int64) error {
	if err := s.subscriptions.Delete(ctx, customerID); err != nil {
		return err
	}

	s.logger.Info("subscription removed", zap.Int64("customer_id", customerID))
	return nil
}
