package vault

import (
	"context"
	"errors"
	"testing"

	"github.com/cyphera/cyphera-vault/internal/events"
	"github.com/cyphera/cyphera-vault/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestEventsPublishedAfterCommit(t *testing.T) {
	ctrl := gomock.NewController(t)
	publisher := mocks.NewMockPublisher(ctrl)

	var published []events.Event
	publisher.EXPECT().
		Publish(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, event events.Event) error {
			published = append(published, event)
			return nil
		}).
		AnyTimes()

	f := newFixture(t, WithPublisher(publisher))
	f.initVault(100, 1, 1_000*sol)
	childKey, err := f.program.DepositAndRegister(f.ctx, depositor, f.vault, 50)
	require.NoError(t, err)
	payoutKey, err := f.program.RequestPayout(f.ctx, admin, f.vault, childKey, 20, 4)
	require.NoError(t, err)
	require.NoError(t, f.program.ExecutePayout(f.ctx, admin, f.vault, childKey, payoutKey, depositor))

	types := make([]string, 0, len(published))
	for _, event := range published {
		types = append(types, event.EventType())
		assert.Equal(t, f.vault, event.VaultKey())
	}
	assert.Equal(t, []string{
		events.TypeVaultInitialized,
		events.TypeMintInitialized,
		events.TypeChildDeposit,
		events.TypePayoutRequested,
		events.TypePayoutExecuted,
	}, types)

	deposit := published[2].(events.ChildDeposit)
	assert.True(t, deposit.Registered)
	assert.Equal(t, childKey, deposit.Child)

	executed := published[4].(events.PayoutExecuted)
	assert.Equal(t, uint64(20), executed.Amount)
	assert.Equal(t, uint64(20), executed.ChildTotalPaidOut)
	assert.Equal(t, depositor, executed.Recipient)
}

func TestEventsNotPublishedOnRejection(t *testing.T) {
	ctrl := gomock.NewController(t)
	publisher := mocks.NewMockPublisher(ctrl)
	publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	f := newFixture(t, WithPublisher(publisher))
	f.initVault(1, 1, 10)

	_, err := f.program.Buy(f.ctx, depositor, f.vault, 11)
	assert.ErrorIs(t, err, ErrExceedsMaxSupply)
	assert.ErrorIs(t, f.program.UpdateExchangeRate(f.ctx, outsider, f.vault, 2, 1), ErrUnauthorized)
}

func TestPublishFailureDoesNotFailInstruction(t *testing.T) {
	ctrl := gomock.NewController(t)
	publisher := mocks.NewMockPublisher(ctrl)
	publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(errors.New("queue unavailable")).AnyTimes()

	f := newFixture(t, WithPublisher(publisher))
	f.initVault(1, 1, 10)

	require.NoError(t, f.program.Deposit(f.ctx, depositor, f.vault, 5))
	assert.Equal(t, uint64(5), f.treasury())
}
