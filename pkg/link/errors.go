package link

import "errors"

// ErrUserRejection classifies every refusal reported back to the invoking
// command layer. Rejections never change endpoint state.
var ErrUserRejection = errors.New("link: request rejected")

var (
    ErrUnresolvable    = reject("target address cannot be resolved")
    ErrTargetActive    = reject("target endpoint is already linked")
    ErrSelfDial        = reject("endpoint cannot dial itself")
    ErrAlreadyActive   = reject("endpoint is already linked")
    ErrInactive        = reject("endpoint is not linked")
    ErrNoIris          = reject("endpoint has no iris")
    ErrUnknownEndpoint = reject("no endpoint at address")
)

type rejection struct{ msg string }

func reject(msg string) error { return &rejection{msg: msg} }

func (r *rejection) Error() string { return "link: " + r.msg }

func (r *rejection) Is(target error) bool { return target == ErrUserRejection }
