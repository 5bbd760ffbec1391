package statemachine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/looplab/fsm"

	"github.com/noah-isme/saraban-go-api/internal/models"
)

const (
	eventRead    = "read"
	eventReceive = "receive"
)

var (
	// ErrNoChange is returned when the requested status equals the current one.
	ErrNoChange = errors.New("status unchanged")
	// ErrTransitionNotAllowed is returned when the current status does not permit the event.
	ErrTransitionNotAllowed = errors.New("transition not allowed")
	// ErrUnknownTarget is returned for target statuses no event leads to.
	ErrUnknownTarget = errors.New("unknown target status")
)

// RecipientFSM wraps a recipient row with its acknowledgement state machine.
type RecipientFSM struct {
	recipient *models.Recipient
	fsm       *fsm.FSM
}

// NewRecipientFSM creates a state machine positioned at the recipient's current status.
func NewRecipientFSM(recipient *models.Recipient) *RecipientFSM {
	pending := string(models.RecipientStatusPending)
	read := string(models.RecipientStatusRead)
	received := string(models.RecipientStatusReceived)

	current := string(recipient.Status)
	if current == "" {
		current = pending
	}

	return &RecipientFSM{
		recipient: recipient,
		fsm: fsm.NewFSM(
			current,
			fsm.Events{
				// pending/read → read; read → read reports no transition
				{Name: eventRead, Src: []string{pending, read}, Dst: read},
				// pending/read → received
				{Name: eventReceive, Src: []string{pending, read}, Dst: received},
			},
			fsm.Callbacks{},
		),
	}
}

// Current returns the machine's status.
func (m *RecipientFSM) Current() models.RecipientStatus {
	return models.RecipientStatus(m.fsm.Current())
}

// Apply moves the recipient to target, stamping the matching timestamp with at.
func (m *RecipientFSM) Apply(ctx context.Context, target models.RecipientStatus, at time.Time) error {
	switch target {
	case models.RecipientStatusRead:
		return m.MarkRead(ctx, at)
	case models.RecipientStatusReceived:
		return m.MarkReceived(ctx, at)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownTarget, target)
	}
}

// MarkRead records that the addressee opened the document.
func (m *RecipientFSM) MarkRead(ctx context.Context, at time.Time) error {
	if err := m.fire(ctx, eventRead); err != nil {
		return err
	}

	m.recipient.Status = m.Current()
	m.recipient.ReadAt = &at
	return nil
}

// MarkReceived records the addressee's acknowledgement of receipt. Terminal.
func (m *RecipientFSM) MarkReceived(ctx context.Context, at time.Time) error {
	if err := m.fire(ctx, eventReceive); err != nil {
		return err
	}

	m.recipient.Status = m.Current()
	m.recipient.ReceivedAt = &at
	return nil
}

func (m *RecipientFSM) fire(ctx context.Context, event string) error {
	err := m.fsm.Event(ctx, event)
	if err == nil {
		return nil
	}

	var noTransition fsm.NoTransitionError
	if errors.As(err, &noTransition) {
		return ErrNoChange
	}

	var invalid fsm.InvalidEventError
	if errors.As(err, &invalid) {
		return fmt.Errorf("%w: %s from %s", ErrTransitionNotAllowed, event, m.fsm.Current())
	}

	return fmt.Errorf("failed to apply %s: %w", event, err)
}
