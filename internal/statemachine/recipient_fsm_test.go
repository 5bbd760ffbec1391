package statemachine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/saraban-go-api/internal/models"
)

func TestRecipientTransitions(t *testing.T) {
	at := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	cases := []struct {
		name    string
		from    models.RecipientStatus
		to      models.RecipientStatus
		want    models.RecipientStatus
		wantErr error
	}{
		{name: "pending to read", from: models.RecipientStatusPending, to: models.RecipientStatusRead, want: models.RecipientStatusRead},
		{name: "pending to received", from: models.RecipientStatusPending, to: models.RecipientStatusReceived, want: models.RecipientStatusReceived},
		{name: "read to received", from: models.RecipientStatusRead, to: models.RecipientStatusReceived, want: models.RecipientStatusReceived},
		{name: "read to read", from: models.RecipientStatusRead, to: models.RecipientStatusRead, want: models.RecipientStatusRead, wantErr: ErrNoChange},
		{name: "received to read", from: models.RecipientStatusReceived, to: models.RecipientStatusRead, want: models.RecipientStatusReceived, wantErr: ErrTransitionNotAllowed},
		{name: "received to received", from: models.RecipientStatusReceived, to: models.RecipientStatusReceived, want: models.RecipientStatusReceived, wantErr: ErrTransitionNotAllowed},
		{name: "back to pending", from: models.RecipientStatusRead, to: models.RecipientStatusPending, want: models.RecipientStatusRead, wantErr: ErrUnknownTarget},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			recipient := &models.Recipient{Status: tc.from}
			err := NewRecipientFSM(recipient).Apply(context.Background(), tc.to, at)

			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
			} else {
				require.NoError(t, err)
			}
			require.Equal(t, tc.want, recipient.Status)
		})
	}
}

func TestRecipientTimestamps(t *testing.T) {
	at := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	direct := &models.Recipient{Status: models.RecipientStatusPending}
	require.NoError(t, NewRecipientFSM(direct).MarkReceived(context.Background(), at))
	require.Nil(t, direct.ReadAt)
	require.Equal(t, at, *direct.ReceivedAt)

	read := &models.Recipient{Status: models.RecipientStatusPending}
	require.NoError(t, NewRecipientFSM(read).MarkRead(context.Background(), at))
	require.Equal(t, at, *read.ReadAt)
	require.Nil(t, read.ReceivedAt)

	later := at.Add(time.Hour)
	require.ErrorIs(t, NewRecipientFSM(read).MarkRead(context.Background(), later), ErrNoChange)
	require.Equal(t, at, *read.ReadAt)
}

func TestRecipientFSMDefaultsToPending(t *testing.T) {
	require.Equal(t, models.RecipientStatusPending, NewRecipientFSM(&models.Recipient{}).Current())
}
