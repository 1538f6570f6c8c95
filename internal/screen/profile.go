package screen

import (
	"context"
	"log"
	"strings"

	"github.com/rideflow/rideflow/internal/gateway"
	"github.com/rideflow/rideflow/internal/model"
	"github.com/rideflow/rideflow/internal/nav"
)

// ProfileStat is one headline number on the profile card.
type ProfileStat struct {
	Label string
	Value string
}

// Activity is one row in the recent activity feed.
type Activity struct {
	Title    string
	Subtitle string
	Amount   string
}

// Profile is the account tab root. The profile record loads from the
// gateway with a sample fallback, and the edit overlay works on a copy
// that only lands when saved.
type Profile struct {
	deps Deps

	Record model.Profile

	EditOpen  bool
	EditName  string
	EditPhone string
}

func NewProfile(deps Deps) *Profile {
	return &Profile{deps: deps}
}

func (p *Profile) Route() string { return nav.RouteProfile }

func (p *Profile) Mount(_ nav.Params) {
	p.EditOpen = false
	p.load(context.Background())
}

func (p *Profile) Unmount() {}

func (p *Profile) load(ctx context.Context) {
	s := p.deps.Session.Session()
	if s == nil {
		p.Record = sampleProfile("")
		return
	}
	rec, err := p.deps.Gateway.GetProfile(ctx, s.UserID)
	if err != nil {
		log.Printf("[profile] load failed (%s), using placeholder: %v", gateway.KindOf(err), err)
		p.Record = sampleProfile(s.Email)
		return
	}
	if rec.Email == "" {
		rec.Email = s.Email
	}
	p.Record = *rec
}

func sampleProfile(email string) model.Profile {
	if email == "" {
		email = "rider@rideflow.app"
	}
	name := strings.SplitN(email, "@", 2)[0]
	if name != "" {
		name = strings.ToUpper(name[:1]) + name[1:]
	}
	return model.Profile{FullName: name, Email: email, Phone: "+1 555 010 2938"}
}

// Stats are the headline numbers on the profile card.
func (p *Profile) Stats() []ProfileStat {
	return []ProfileStat{
		{Label: "Total Rides", Value: "127"},
		{Label: "Rating", Value: "4.9"},
		{Label: "Member Since", Value: "2023"},
	}
}

// RecentActivity is the fixed feed under the stats.
func (p *Profile) RecentActivity() []Activity {
	return []Activity{
		{Title: "Ride to Airport", Subtitle: "Yesterday, 2:30 PM", Amount: "$24.00"},
		{Title: "Ride to Downtown", Subtitle: "Jul 17, 9:15 AM", Amount: "$12.50"},
		{Title: "Ride to University", Subtitle: "Jul 15, 8:45 AM", Amount: "$8.00"},
	}
}

// ─── Edit overlay ───────────────────────────────────────────

// OpenEdit seeds the overlay fields from the current record.
func (p *Profile) OpenEdit() {
	p.EditName = p.Record.FullName
	p.EditPhone = p.Record.Phone
	p.EditOpen = true
}

// CloseEdit discards any unsaved field changes.
func (p *Profile) CloseEdit() {
	p.EditOpen = false
}

// SaveEdit persists the overlay fields. On gateway failure the overlay
// stays open with the edits intact so nothing is lost.
func (p *Profile) SaveEdit(ctx context.Context) {
	if !p.EditOpen {
		return
	}
	s := p.deps.Session.Session()
	if s == nil {
		return
	}
	name := strings.TrimSpace(p.EditName)
	phone := strings.TrimSpace(p.EditPhone)
	rec, err := p.deps.Gateway.UpdateProfile(ctx, s.UserID, map[string]any{
		"full_name": name,
		"phone":     phone,
	})
	if err != nil {
		log.Printf("[profile] update failed: %v", err)
		title, message := gatewayErrorCopy(err)
		p.deps.Dialogs.Alert(title, message)
		return
	}
	p.Record = *rec
	p.EditOpen = false
	p.deps.Dialogs.Alert("Profile Updated", "Your changes have been saved.")
}

// ─── Actions ────────────────────────────────────────────────

// OpenSettings pushes the settings screen onto this tab's stack.
func (p *Profile) OpenSettings() {
	p.deps.Nav.Push(nav.RouteSettings, nil)
}

// SignOut is destructive and confirmed first. Local state clears even if
// the gateway call fails, so the rider is never stuck signed in.
func (p *Profile) SignOut(ctx context.Context) {
	ok := p.deps.Dialogs.Confirm(Dialog{
		Title:        "Sign Out",
		Message:      "Are you sure you want to sign out?",
		ConfirmLabel: "Sign Out",
		CancelLabel:  "Cancel",
		Destructive:  true,
	})
	if !ok {
		return
	}
	if err := p.deps.Session.SignOut(ctx); err != nil {
		log.Printf("[profile] remote sign-out failed, local session cleared anyway: %v", err)
	}
}
