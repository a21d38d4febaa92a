package billing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"prorata-service/internal/domain/billing"
	xerrors "prorata-service/internal/pkg/errors"
)

// --- mocks ---

type mockMemberStore struct {
	users       []billing.User
	findErr     error
	created     *billing.User
	deactivated map[int64]time.Time
}

func (m *mockMemberStore) Create(ctx context.Context, user *billing.User) error {
	user.ID = int64(len(m.users) + 1)
	m.created = user
	return nil
}

func (m *mockMemberStore) FindByID(ctx context.Context, id int64) (*billing.User, error) {
	for i := range m.users {
		if m.users[i].ID == id {
			u := m.users[i]
			return &u, nil
		}
	}
	return nil, xerrors.ErrNotFound
}

func (m *mockMemberStore) FindByCustomer(ctx context.Context, customerID int64) ([]billing.User, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	var out []billing.User
	for _, u := range m.users {
		if u.CustomerID == customerID {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *mockMemberStore) SetDeactivatedOn(ctx context.Context, id int64, day time.Time) error {
	if m.deactivated == nil {
		m.deactivated = map[int64]time.Time{}
	}
	m.deactivated[id] = day
	return nil
}

type mockSubscriptionStore struct {
	sub     *billing.Subscription
	findErr error
	saved   *billing.Subscription
}

func (m *mockSubscriptionStore) Upsert(ctx context.Context, sub *billing.Subscription) error {
	sub.ID = 1
	m.saved = sub
	return nil
}

func (m *mockSubscriptionStore) Delete(ctx context.Context, customerID int64) error {
	if m.sub != nil && m.sub.CustomerID == customerID {
		m.sub = nil
		return nil
	}
	return xerrors.ErrNotFound
}

func (m *mockSubscriptionStore) FindByCustomer(ctx context.Context, customerID int64) (*billing.Subscription, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	if m.sub == nil || m.sub.CustomerID != customerID {
		return nil, xerrors.ErrNotFound
	}
	return m.sub, nil
}

func newTestService(members *mockMemberStore, subs *mockSubscriptionStore) *Service {
	return NewService(members, subs, zap.NewNop())
}

// --- tests ---

func TestCustomerCharge(t *testing.T) {
	members := &mockMemberStore{users: []billing.User{
		seat(1, "2022-03-01", ""),
		seat(2, "2022-04-01", "2022-04-01"),
	}}
	for i := range members.users {
		members.users[i].CustomerID = 328
	}
	subs := &mockSubscriptionStore{sub: &billing.Subscription{ID: 763, CustomerID: 328, MonthlyPriceInCents: 300}}

	svc := newTestService(members, subs)
	resp, err := svc.CustomerCharge(context.Background(), 328, "2022-04")
	require.NoError(t, err)

	assert.Equal(t, int64(310), resp.ChargeCents)
	assert.Equal(t, "2022-04", resp.Month)
	assert.Equal(t, int64(328), resp.CustomerID)
	assert.NotEmpty(t, resp.Reference)
	assert.False(t, resp.ComputedAt.IsZero())
}

func TestCustomerChargeNoSubscription(t *testing.T) {
	members := &mockMemberStore{findErr: errors.New("members must not be loaded")}
	subs := &mockSubscriptionStore{}

	svc := newTestService(members, subs)
	resp, err := svc.CustomerCharge(context.Background(), 42, "2022-04")
	require.NoError(t, err)
	assert.Equal(t, int64(0), resp.ChargeCents)
}

func TestCustomerChargeInvalidMonth(t *testing.T) {
	svc := newTestService(&mockMemberStore{}, &mockSubscriptionStore{})
	_, err := svc.CustomerCharge(context.Background(), 42, "2022/04")
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
}

func TestCustomerChargeStoreError(t *testing.T) {
	subs := &mockSubscriptionStore{findErr: errors.New("connection refused")}
	svc := newTestService(&mockMemberStore{}, subs)
	_, err := svc.CustomerCharge(context.Background(), 42, "2022-04")
	assert.Error(t, err)
}

func TestPreviewCharge(t *testing.T) {
	svc := newTestService(&mockMemberStore{}, &mockSubscriptionStore{})

	deactivated := "2022-04-10"
	resp, err := svc.PreviewCharge(context.Background(), &billing.PreviewChargeRequest{
		Month:        "2022-04",
		Subscription: &billing.SetSubscriptionRequest{MonthlyPriceInCents: 3000},
		Users: []billing.PreviewUser{
			{ID: 1, Name: "Employee #1", ActivatedOn: "2021-11-04", DeactivatedOn: &deactivated},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1000), resp.ChargeCents) // 10 days at 100/day
}

func TestPreviewChargeBadDate(t *testing.T) {
	svc := newTestService(&mockMemberStore{}, &mockSubscriptionStore{})

	_, err := svc.PreviewCharge(context.Background(), &billing.PreviewChargeRequest{
		Month: "2022-04",
		Users: []billing.PreviewUser{{ID: 1, ActivatedOn: "not-a-date"}},
	})
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
}

func TestAddMember(t *testing.T) {
	members := &mockMemberStore{}
	svc := newTestService(members, &mockSubscriptionStore{})

	user, err := svc.AddMember(context.Background(), 328, &billing.AddMemberRequest{
		Name:        "Employee #1",
		ActivatedOn: "2022-04-10",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(328), user.CustomerID)
	assert.Equal(t, day("2022-04-10"), user.ActivatedOn)
	assert.Nil(t, user.DeactivatedOn)
	require.NotNil(t, members.created)
}

func TestDeactivateMember(t *testing.T) {
	u := seat(7, "2022-04-05", "")
	u.CustomerID = 328
	members := &mockMemberStore{users: []billing.User{u}}
	svc := newTestService(members, &mockSubscriptionStore{})

	t.Run("ok", func(t *testing.T) {
		got, err := svc.DeactivateMember(context.Background(), 328, 7, &billing.DeactivateMemberRequest{
			DeactivatedOn: "2022-04-20",
		})
		require.NoError(t, err)
		require.NotNil(t, got.DeactivatedOn)
		assert.Equal(t, day("2022-04-20"), *got.DeactivatedOn)
		assert.Equal(t, day("2022-04-20"), members.deactivated[7])
	})

	t.Run("before activation", func(t *testing.T) {
		_, err := svc.DeactivateMember(context.Background(), 328, 7, &billing.DeactivateMemberRequest{
			DeactivatedOn: "2022-04-01",
		})
		assert.ErrorIs(t, err, xerrors.ErrInvalidUserRecord)
	})

	t.Run("wrong customer", func(t *testing.T) {
		_, err := svc.DeactivateMember(context.Background(), 999, 7, &billing.DeactivateMemberRequest{
			DeactivatedOn: "2022-04-20",
		})
		assert.ErrorIs(t, err, xerrors.ErrForbidden)
	})
}

func TestSetSubscription(t *testing.T) {
	subs := &mockSubscriptionStore{}
	svc := newTestService(&mockMemberStore{}, subs)

	sub, err := svc.SetSubscription(context.Background(), 328, &billing.SetSubscriptionRequest{MonthlyPriceInCents: 3000})
	require.NoError(t, err)
	assert.Equal(t, int64(3000), sub.MonthlyPriceInCents)
	require.NotNil(t, subs.saved)

	_, err = svc.SetSubscription(context.Background(), 328, &billing.SetSubscriptionRequest{MonthlyPriceInCents: -1})
	assert.ErrorIs(t, err, xerrors.ErrInvalidSubscription)
}
