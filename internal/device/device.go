// Package device talks to the relay board that opens and closes the cup.
package device

import (
	"context"
	"errors"

	"cup_controller/internal/models"
)

var (
	// ErrUnknownState is returned when asked to switch to a state other than open/closed.
	ErrUnknownState = errors.New("device: target state must be open or closed")
	// ErrUnreadableState is returned when the relay status body cannot be parsed.
	ErrUnreadableState = errors.New("device: unreadable relay state")
)

// Transport switches the relay and reads its state back.
type Transport interface {
	// Switch drives the relay to state. A nil error means the board acknowledged.
	Switch(ctx context.Context, state models.CupState) error
	// Probe reads the current relay position.
	Probe(ctx context.Context) (models.CupState, error)
	// Simulated reports whether no real hardware is involved.
	Simulated() bool
}
