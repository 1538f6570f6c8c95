// Package screen contains one controller per navigable view. A controller
// owns its screen's local state (text fields, toggles, selections, modal
// visibility), validates input synchronously before any primary action,
// and limits its side effects to mutating that state, calling the backend
// gateway, and requesting navigation transitions. No controller touches
// another screen's state.
package screen

import (
	"github.com/rideflow/rideflow/internal/gateway"
	"github.com/rideflow/rideflow/internal/nav"
	"github.com/rideflow/rideflow/internal/session"
	"github.com/rideflow/rideflow/pkg/clock"
)

// Deps is the collaborator set injected into every controller.
type Deps struct {
	Gateway gateway.Client
	Session *session.Controller
	Nav     *nav.Graph
	Clock   clock.Clock
	Dialogs DialogPresenter
}

// Dialog is a blocking prompt with an actionable choice. Destructive
// actions always go through one of these before any state change or
// gateway call happens.
type Dialog struct {
	Title        string
	Message      string
	ConfirmLabel string
	CancelLabel  string
	Destructive  bool
}

// DialogPresenter renders alerts and confirmation dialogs. The app shell
// implements it on the console; tests script the answers.
type DialogPresenter interface {
	// Alert shows a blocking notice with a single dismiss action.
	Alert(title, message string)
	// Confirm shows a two-choice dialog and reports whether the user
	// picked the confirming action.
	Confirm(d Dialog) bool
}

// gatewayErrorCopy maps an error kind to rider-facing dialog text. The raw
// gateway message is not guaranteed to be displayable.
func gatewayErrorCopy(err error) (title, message string) {
	switch gateway.KindOf(err) {
	case gateway.KindTimeout:
		return "Connection Timed Out", "The server took too long to respond. Please try again."
	case gateway.KindNetwork:
		return "Connection Problem", "We couldn't reach the server. Check your connection and try again."
	case gateway.KindAuth:
		return "Session Problem", "Your session is no longer valid. Please sign in again."
	case gateway.KindNotFound:
		return "Not Found", "The requested item could not be found."
	case gateway.KindValidation:
		return "Request Rejected", "The server rejected the request. Please review your input."
	default:
		return "Something Went Wrong", "An unexpected error occurred. Please try again."
	}
}
