package screen

import (
	"context"
	"log"

	"github.com/rideflow/rideflow/internal/nav"
	"github.com/rideflow/rideflow/pkg/validate"
)

// LoginPhase tracks where the sign-in flow is.
type LoginPhase string

const (
	LoginIdle       LoginPhase = "idle"
	LoginSubmitting LoginPhase = "submitting"
)

// Login is the unauthenticated root screen. Validation runs locally before
// anything reaches the gateway: a malformed email or short password never
// produces a remote call.
type Login struct {
	deps Deps

	Email           string
	Password        string
	PasswordVisible bool

	EmailError    string
	PasswordError string

	Phase LoginPhase
}

// NewLogin returns a login controller in the idle state.
func NewLogin(deps Deps) *Login {
	return &Login{deps: deps, Phase: LoginIdle}
}

func (l *Login) Route() string      { return nav.RouteLogin }
func (l *Login) Mount(_ nav.Params) {}
func (l *Login) Unmount()           {}

// SetEmail updates the field and clears its inline error, matching the
// clear-on-edit behavior riders expect.
func (l *Login) SetEmail(v string) {
	l.Email = v
	l.EmailError = ""
}

// SetPassword updates the field and clears its inline error.
func (l *Login) SetPassword(v string) {
	l.Password = v
	l.PasswordError = ""
}

// TogglePasswordVisible flips the show-password eye.
func (l *Login) TogglePasswordVisible() {
	l.PasswordVisible = !l.PasswordVisible
}

// validateFields runs the synchronous checks and fills inline errors.
func (l *Login) validateFields() bool {
	l.EmailError = validate.Email(l.Email)
	l.PasswordError = validate.LoginPassword(l.Password)
	return l.EmailError == "" && l.PasswordError == ""
}

// Submit is the primary action. Invalid input shows field errors and stays
// on the screen; a gateway failure shows a dialog and returns to idle with
// the signed-in state untouched. On success the session controller flips
// and the navigation graph swaps to the authenticated subtree.
func (l *Login) Submit(ctx context.Context) {
	if l.Phase == LoginSubmitting {
		return
	}
	if !l.validateFields() {
		return
	}
	l.Phase = LoginSubmitting
	err := l.deps.Session.SignIn(ctx, l.Email, l.Password)
	l.Phase = LoginIdle
	if err != nil {
		log.Printf("[login] sign-in failed: %v", err)
		title, message := gatewayErrorCopy(err)
		l.deps.Dialogs.Alert(title, message)
		return
	}
	l.Password = ""
}

// SignUp creates an account with the current field values, reusing the
// same validation as sign-in.
func (l *Login) SignUp(ctx context.Context, fullName string) {
	if !l.validateFields() {
		return
	}
	l.Phase = LoginSubmitting
	_, err := l.deps.Gateway.SignUp(ctx, l.Email, l.Password, map[string]any{"full_name": fullName})
	l.Phase = LoginIdle
	if err != nil {
		log.Printf("[login] sign-up failed: %v", err)
		title, message := gatewayErrorCopy(err)
		l.deps.Dialogs.Alert(title, message)
		return
	}
	l.deps.Dialogs.Alert("Welcome!", "Your account has been created.")
}

// ForgotPassword requests a reset email for the entered address.
func (l *Login) ForgotPassword(ctx context.Context) {
	if l.EmailError = validate.Email(l.Email); l.EmailError != "" {
		return
	}
	if err := l.deps.Gateway.ResetPassword(ctx, l.Email); err != nil {
		title, message := gatewayErrorCopy(err)
		l.deps.Dialogs.Alert(title, message)
		return
	}
	l.deps.Dialogs.Alert("Check Your Email", "We sent a password reset link to "+l.Email+".")
}
