package screen

import (
	"context"
	"sync"
	"testing"

	"github.com/rideflow/rideflow/internal/gateway"
	"github.com/rideflow/rideflow/internal/model"
	"github.com/rideflow/rideflow/internal/nav"
	"github.com/rideflow/rideflow/internal/session"
	"github.com/rideflow/rideflow/pkg/clock"
)

// fakeGateway is a scriptable gateway.Client. Zero value behaves like a
// reachable backend with no records.
type fakeGateway struct {
	mu        sync.Mutex
	listeners []func(gateway.AuthEvent)
	session   *model.Session

	signInErr  error
	signUpErr  error
	signOutErr error
	resetErr   error

	signInCalls int
	resetCalls  int

	getAllFn  func(collection string, out any) error
	getByIDFn func(collection, id string, out any) error
	createFn  func(collection string, record, out any) error
	updateFn  func(collection, id string, updates, out any) error
	deleteFn  func(collection, id string) error

	getProfileFn    func(userID string) (*model.Profile, error)
	updateProfileFn func(userID string, updates map[string]any) (*model.Profile, error)
}

func notFound(op string) error {
	return &gateway.Error{Kind: gateway.KindNotFound, Op: op, Message: "no such record"}
}

func (f *fakeGateway) SignUp(_ context.Context, email, _ string, _ map[string]any) (*model.Session, error) {
	if f.signUpErr != nil {
		return nil, f.signUpErr
	}
	return f.adopt(email), nil
}

func (f *fakeGateway) SignIn(_ context.Context, email, _ string) (*model.Session, error) {
	f.mu.Lock()
	f.signInCalls++
	f.mu.Unlock()
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	return f.adopt(email), nil
}

func (f *fakeGateway) adopt(email string) *model.Session {
	s := &model.Session{UserID: "u-1", Email: email, AccessToken: "tok"}
	f.mu.Lock()
	f.session = s
	f.mu.Unlock()
	f.emit(gateway.AuthEvent{Type: gateway.EventSignedIn, Session: s})
	return s
}

func (f *fakeGateway) SignOut(context.Context) error {
	if f.signOutErr != nil {
		return f.signOutErr
	}
	f.mu.Lock()
	f.session = nil
	f.mu.Unlock()
	f.emit(gateway.AuthEvent{Type: gateway.EventSignedOut})
	return nil
}

func (f *fakeGateway) CurrentSession() *model.Session {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.session
}

type fakeSub struct{ release func() }

func (s *fakeSub) Unsubscribe() { s.release() }

func (f *fakeGateway) OnAuthStateChange(fn func(gateway.AuthEvent)) gateway.Subscription {
	f.mu.Lock()
	f.listeners = append(f.listeners, fn)
	i := len(f.listeners) - 1
	f.mu.Unlock()
	return &fakeSub{release: func() {
		f.mu.Lock()
		f.listeners[i] = nil
		f.mu.Unlock()
	}}
}

func (f *fakeGateway) emit(ev gateway.AuthEvent) {
	f.mu.Lock()
	fns := append([]func(gateway.AuthEvent){}, f.listeners...)
	f.mu.Unlock()
	for _, fn := range fns {
		if fn != nil {
			fn(ev)
		}
	}
}

func (f *fakeGateway) ResetPassword(context.Context, string) error {
	f.mu.Lock()
	f.resetCalls++
	f.mu.Unlock()
	return f.resetErr
}

func (f *fakeGateway) GetAll(_ context.Context, collection string, out any) error {
	if f.getAllFn != nil {
		return f.getAllFn(collection, out)
	}
	return notFound("records.getAll")
}

func (f *fakeGateway) GetByID(_ context.Context, collection, id string, out any) error {
	if f.getByIDFn != nil {
		return f.getByIDFn(collection, id, out)
	}
	return notFound("records.getById")
}

func (f *fakeGateway) Create(_ context.Context, collection string, record, out any) error {
	if f.createFn != nil {
		return f.createFn(collection, record, out)
	}
	return nil
}

func (f *fakeGateway) Update(_ context.Context, collection, id string, updates, out any) error {
	if f.updateFn != nil {
		return f.updateFn(collection, id, updates, out)
	}
	return nil
}

func (f *fakeGateway) Delete(_ context.Context, collection, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(collection, id)
	}
	return nil
}

func (f *fakeGateway) GetProfile(_ context.Context, userID string) (*model.Profile, error) {
	if f.getProfileFn != nil {
		return f.getProfileFn(userID)
	}
	return nil, notFound("profiles.get")
}

func (f *fakeGateway) UpdateProfile(_ context.Context, userID string, updates map[string]any) (*model.Profile, error) {
	if f.updateProfileFn != nil {
		return f.updateProfileFn(userID, updates)
	}
	return nil, notFound("profiles.update")
}

func (f *fakeGateway) CreateProfile(_ context.Context, p *model.Profile) (*model.Profile, error) {
	return p, nil
}

var _ gateway.Client = (*fakeGateway)(nil)

// scriptedDialogs records alerts and answers confirms from a queue.
// An unscripted confirm answers false, the safe choice.
type scriptedDialogs struct {
	alerts   []string // titles, in order
	confirms []string // titles, in order
	answers  []bool
}

func (d *scriptedDialogs) Alert(title, _ string) {
	d.alerts = append(d.alerts, title)
}

func (d *scriptedDialogs) Confirm(dlg Dialog) bool {
	d.confirms = append(d.confirms, dlg.Title)
	if len(d.answers) == 0 {
		return false
	}
	answer := d.answers[0]
	d.answers = d.answers[1:]
	return answer
}

func (d *scriptedDialogs) lastAlert() string {
	if len(d.alerts) == 0 {
		return ""
	}
	return d.alerts[len(d.alerts)-1]
}

// env wires real nav and session over the fake gateway, mirroring the app
// shell's registration.
type env struct {
	gw      *fakeGateway
	sess    *session.Controller
	graph   *nav.Graph
	dialogs *scriptedDialogs
	clk     *clock.Fake
	deps    Deps
}

func newEnv(t *testing.T) *env {
	t.Helper()
	e := &env{
		gw:      &fakeGateway{},
		graph:   nav.NewGraph(),
		dialogs: &scriptedDialogs{},
		clk:     clock.NewFake(),
	}
	e.sess = session.NewController(e.gw)
	t.Cleanup(e.sess.Close)
	e.deps = Deps{Gateway: e.gw, Session: e.sess, Nav: e.graph, Clock: e.clk, Dialogs: e.dialogs}

	e.graph.Register(nav.RouteLogin, func() nav.Screen { return NewLogin(e.deps) })
	e.graph.Register(nav.RouteHome, func() nav.Screen { return NewHome(e.deps) })
	e.graph.Register(nav.RouteRideBooking, func() nav.Screen { return NewRideBooking(e.deps) })
	e.graph.Register(nav.RouteRidesList, func() nav.Screen { return NewRidesList(e.deps) })
	e.graph.Register(nav.RouteBookingConfirmation, func() nav.Screen { return NewBookingConfirmation(e.deps) })
	e.graph.Register(nav.RouteRideTracking, func() nav.Screen { return NewRideTracking(e.deps) })
	e.graph.Register(nav.RouteProfile, func() nav.Screen { return NewProfile(e.deps) })
	e.graph.Register(nav.RouteSettings, func() nav.Screen { return NewSettingsScreen(e.deps) })
	e.graph.RegisterModal(nav.RouteRideDetails, func() nav.Screen { return NewRideDetails(e.deps) })
	e.graph.SetTabs(nav.RouteHome, nav.RouteRidesList, nav.RouteProfile)

	unsubscribe := e.sess.Subscribe(e.graph.SetSignedIn)
	t.Cleanup(unsubscribe)
	return e
}

// signIn drives a real sign-in through the session controller.
func (e *env) signIn(t *testing.T) {
	t.Helper()
	if err := e.sess.SignIn(context.Background(), "user@test.com", "secret1"); err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if !e.graph.SignedIn() {
		t.Fatal("graph did not swap to the authenticated subtree")
	}
}
