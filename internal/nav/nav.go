// Package nav implements the navigation graph: a declarative route table
// with stack semantics, a fixed set of tab roots, parameterized routes and
// a modal presentation mode.
//
// The graph renders one of two subtrees depending on the session state:
// signed out shows the login root only; signed in mounts the tab roots
// (Home, Rides, Profile), each with its own independent stack.
// Only the session controller flips that state; the graph merely reacts.
package nav

import (
	"fmt"
	"log"
	"sync"

	"github.com/rideflow/rideflow/internal/observability"
)

// Route names. Screens register under these; navigating to anything else
// is a programmer error and panics.
const (
	RouteLogin               = "Login"
	RouteHome                = "Home"
	RouteRideBooking         = "RideBooking"
	RouteRidesList           = "RidesList"
	RouteRideDetails         = "RideDetails"
	RouteBookingConfirmation = "BookingConfirmation"
	RouteRideTracking        = "RideTracking"
	RouteProfile             = "Profile"
	RouteSettings            = "Settings"
)

// Params is the structured parameter bag a route receives from its caller.
// Every screen must render meaningfully with a nil bag, falling back to
// its built-in sample data.
type Params map[string]any

// Screen is one navigable view's controller. Mount is called when the
// screen becomes live; Unmount must stop any timers or subscriptions the
// screen started.
type Screen interface {
	Route() string
	Mount(p Params)
	Unmount()
}

// Factory builds a fresh screen controller for a route.
type Factory func() Screen

type entry struct {
	route  string
	screen Screen
	params Params
}

// Graph is the route table plus live navigation state.
type Graph struct {
	mu sync.Mutex

	routes      map[string]Factory
	modalRoutes map[string]bool

	tabRoutes []string
	tabStacks map[string][]*entry
	activeTab string

	loginStack []*entry
	modal      *entry

	signedIn bool
}

// NewGraph returns an empty graph showing the unauthenticated subtree.
func NewGraph() *Graph {
	return &Graph{
		routes:      make(map[string]Factory),
		modalRoutes: make(map[string]bool),
		tabStacks:   make(map[string][]*entry),
	}
}

// Register adds a route to the table. Registering a duplicate route is a
// programmer error.
func (g *Graph) Register(route string, f Factory) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, dup := g.routes[route]; dup {
		panic(fmt.Sprintf("nav: route %q registered twice", route))
	}
	g.routes[route] = f
}

// RegisterModal adds a route presented as an overlay instead of a stack push.
func (g *Graph) RegisterModal(route string, f Factory) {
	g.Register(route, f)
	g.mu.Lock()
	g.modalRoutes[route] = true
	g.mu.Unlock()
}

// SetTabs declares the always-mounted tab roots of the authenticated
// subtree, in display order. Must be called before the first sign-in.
func (g *Graph) SetTabs(routes ...string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.tabRoutes = routes
}

// Start mounts the initial subtree. Sessions are never persisted across
// process restarts, so the graph always starts signed out on the login
// root. Calling Start twice is a no-op.
func (g *Graph) Start() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.signedIn || len(g.loginStack) > 0 {
		return
	}
	g.loginStack = []*entry{g.mountLocked(RouteLogin, nil)}
}

// ─── Auth-driven subtree swap ───────────────────────────────

// SetSignedIn swaps the rendered subtree. Signing in mounts every tab root
// and activates the first tab; signing out unmounts the whole authenticated
// subtree (stacks, tabs, any modal) and mounts the login root, so no
// authenticated route stays reachable.
func (g *Graph) SetSignedIn(signedIn bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.signedIn == signedIn {
		return
	}
	g.signedIn = signedIn

	g.dismissModalLocked()

	if signedIn {
		g.unmountAllLocked(g.loginStack)
		g.loginStack = nil
		for _, route := range g.tabRoutes {
			g.tabStacks[route] = []*entry{g.mountLocked(route, nil)}
		}
		if len(g.tabRoutes) > 0 {
			g.activeTab = g.tabRoutes[0]
		}
		log.Printf("[nav] mounted authenticated graph (%d tabs)", len(g.tabRoutes))
		return
	}

	for _, route := range g.tabRoutes {
		g.unmountAllLocked(g.tabStacks[route])
		delete(g.tabStacks, route)
	}
	g.activeTab = ""
	g.loginStack = []*entry{g.mountLocked(RouteLogin, nil)}
	log.Printf("[nav] mounted unauthenticated graph")
}

// SignedIn reports which subtree is rendered.
func (g *Graph) SignedIn() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.signedIn
}

// ─── Stack semantics ────────────────────────────────────────

// Push mounts the route on top of the active stack, passing params through
// to the screen. Pushing an unknown route panics: that is a wiring bug, not
// a user-facing condition. Pushing a modal route presents it instead.
func (g *Graph) Push(route string, params Params) Screen {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.modalRoutes[route] {
		return g.presentLocked(route, params)
	}
	e := g.mountLocked(route, params)
	if g.signedIn {
		g.tabStacks[g.activeTab] = append(g.tabStacks[g.activeTab], e)
	} else {
		g.loginStack = append(g.loginStack, e)
	}
	return e.screen
}

// Pop unmounts the top screen of the active stack. Popping with only the
// root left (or an empty stack) is a no-op.
func (g *Graph) Pop() {
	g.mu.Lock()
	defer g.mu.Unlock()
	stack := g.activeStackLocked()
	if len(stack) <= 1 {
		return
	}
	top := stack[len(stack)-1]
	g.setActiveStackLocked(stack[:len(stack)-1])
	top.screen.Unmount()
	log.Printf("[nav] pop %s", top.route)
}

// SelectTab activates one of the tab roots. Each tab keeps its own stack,
// so switching away and back preserves where the rider was.
func (g *Graph) SelectTab(route string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.tabStacks[route]; !ok {
		panic(fmt.Sprintf("nav: %q is not a mounted tab root", route))
	}
	g.activeTab = route
	observability.ScreenTransitionsTotal.WithLabelValues(route).Inc()
}

// Current returns the visible screen: the modal if one is presented,
// otherwise the top of the active stack. Nil before the first mount.
func (g *Graph) Current() (string, Screen) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.modal != nil {
		return g.modal.route, g.modal.screen
	}
	stack := g.activeStackLocked()
	if len(stack) == 0 {
		return "", nil
	}
	top := stack[len(stack)-1]
	return top.route, top.screen
}

// ActiveTab returns the selected tab root, empty when signed out.
func (g *Graph) ActiveTab() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.activeTab
}

// ─── Modal presentation ─────────────────────────────────────

// Present shows a registered modal route as an overlay above the current
// screen. Presenting while another modal is up replaces it.
func (g *Graph) Present(route string, params Params) Screen {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.presentLocked(route, params)
}

// DismissModal unmounts the presented modal, if any.
func (g *Graph) DismissModal() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.dismissModalLocked()
}

// ModalPresented reports whether an overlay is up.
func (g *Graph) ModalPresented() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.modal != nil
}

// ─── Internals ──────────────────────────────────────────────

func (g *Graph) presentLocked(route string, params Params) Screen {
	if !g.modalRoutes[route] {
		panic(fmt.Sprintf("nav: route %q is not registered as a modal", route))
	}
	g.dismissModalLocked()
	g.modal = g.mountLocked(route, params)
	return g.modal.screen
}

func (g *Graph) dismissModalLocked() {
	if g.modal == nil {
		return
	}
	g.modal.screen.Unmount()
	log.Printf("[nav] dismiss modal %s", g.modal.route)
	g.modal = nil
}

func (g *Graph) mountLocked(route string, params Params) *entry {
	f, ok := g.routes[route]
	if !ok {
		panic(fmt.Sprintf("nav: unknown route %q", route))
	}
	s := f()
	s.Mount(params)
	observability.ScreenTransitionsTotal.WithLabelValues(route).Inc()
	log.Printf("[nav] mount %s", route)
	return &entry{route: route, screen: s, params: params}
}

func (g *Graph) activeStackLocked() []*entry {
	if !g.signedIn {
		return g.loginStack
	}
	return g.tabStacks[g.activeTab]
}

func (g *Graph) setActiveStackLocked(stack []*entry) {
	if !g.signedIn {
		g.loginStack = stack
		return
	}
	g.tabStacks[g.activeTab] = stack
}

func (g *Graph) unmountAllLocked(stack []*entry) {
	for i := len(stack) - 1; i >= 0; i-- {
		stack[i].screen.Unmount()
	}
}
