package link

import (
    "fmt"

    "go.uber.org/zap"
)

// The iris only filters arrivals: objects leaving through a closed iris
// still depart normally.

func (e *Endpoint) IrisPresent() bool { return e.irisPresent }

func (e *Endpoint) IrisActive() bool { return e.irisActive }

func (e *Endpoint) IrisTogglePending() bool { return e.irisTogglePending }

// SetIris closes (true) or opens (false) the iris at once and clears any
// pending toggle request.
func (e *Endpoint) SetIris(closed bool) error {
    if !e.irisPresent { return fmt.Errorf("set iris at %s: %w", e.addr, ErrNoIris) }
    e.irisTogglePending = false
    if e.irisActive == closed { return nil }
    e.irisActive = closed
    zap.L().Info("iris changed", zap.Stringer("addr", e.addr), zap.Bool("closed", closed))
    return nil
}

// RequestIrisToggle records that the command layer wants the iris flipped;
// a second request withdraws the first.
func (e *Endpoint) RequestIrisToggle() error {
    if !e.irisPresent { return fmt.Errorf("request iris toggle at %s: %w", e.addr, ErrNoIris) }
    e.irisTogglePending = !e.irisTogglePending
    return nil
}

// ApplyIrisToggle performs a pending toggle request. It reports whether the
// iris changed.
func (e *Endpoint) ApplyIrisToggle() bool {
    if !e.irisPresent || !e.irisTogglePending { return false }
    _ = e.SetIris(!e.irisActive)
    return true
}

// ForceIrisOpen is used by the power collaborator when the endpoint loses
// its power precondition: the iris opens and any toggle request is dropped.
func (e *Endpoint) ForceIrisOpen() {
    if e.irisActive { zap.L().Info("iris forced open", zap.Stringer("addr", e.addr)) }
    e.irisActive = false
    e.irisTogglePending = false
}
