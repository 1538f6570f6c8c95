// Command app runs the RideFlow client as an interactive console shell:
// the same controllers, navigation graph, and gateway client the mobile
// shell drives, with screens rendered as text and dialogs answered on
// stdin.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/rideflow/rideflow/config"
	"github.com/rideflow/rideflow/internal/bootstrap"
	"github.com/rideflow/rideflow/internal/gateway"
	"github.com/rideflow/rideflow/internal/model"
	"github.com/rideflow/rideflow/internal/nav"
	"github.com/rideflow/rideflow/internal/screen"
	"github.com/rideflow/rideflow/internal/session"
	"github.com/rideflow/rideflow/pkg/clock"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx := context.Background()
	clk := clock.New()
	in := bufio.NewReader(os.Stdin)

	// ── Wire the core ───────────────────────────────────
	gw := gateway.NewHTTPClient(cfg.App.GatewayURL, cfg.App.GatewayAPIKey, cfg.App.RequestTimeout)
	sess := session.NewController(gw)
	defer sess.Close()

	dialogs := &consoleDialogs{in: in}
	graph := nav.NewGraph()
	deps := screen.Deps{Gateway: gw, Session: sess, Nav: graph, Clock: clk, Dialogs: dialogs}

	graph.Register(nav.RouteLogin, func() nav.Screen { return screen.NewLogin(deps) })
	graph.Register(nav.RouteHome, func() nav.Screen { return screen.NewHome(deps) })
	graph.Register(nav.RouteRideBooking, func() nav.Screen { return screen.NewRideBooking(deps) })
	graph.Register(nav.RouteRidesList, func() nav.Screen { return screen.NewRidesList(deps) })
	graph.Register(nav.RouteBookingConfirmation, func() nav.Screen { return screen.NewBookingConfirmation(deps) })
	graph.Register(nav.RouteRideTracking, func() nav.Screen { return screen.NewRideTracking(deps) })
	graph.Register(nav.RouteProfile, func() nav.Screen { return screen.NewProfile(deps) })
	graph.Register(nav.RouteSettings, func() nav.Screen { return screen.NewSettingsScreen(deps) })
	graph.RegisterModal(nav.RouteRideDetails, func() nav.Screen { return screen.NewRideDetails(deps) })
	graph.SetTabs(nav.RouteHome, nav.RouteRidesList, nav.RouteProfile)

	unsubscribe := sess.Subscribe(graph.SetSignedIn)
	defer unsubscribe()

	// ── Splash ──────────────────────────────────────────
	seq := bootstrap.NewSequencer(clk, cfg.App.SplashMinTime)
	seq.Start()
	fmt.Println("RideFlow")
	fmt.Println("Your ride, your way")
	seq.AnimationComplete() // console splash has no animation to wait for
	<-seq.Ready()

	if err := gw.StartRealtime(ctx); err != nil {
		log.Printf("[app] realtime feed unavailable, continuing without it: %v", err)
	} else {
		defer gw.StopRealtime()
	}

	graph.Start()

	// ── Command loop ────────────────────────────────────
	fmt.Println(`type "help" for commands`)
	for {
		route, _ := graph.Current()
		fmt.Printf("%s> ", route)
		line, err := in.ReadString('\n')
		if err != nil {
			return
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		cmd, args := fields[0], fields[1:]
		if cmd == "quit" || cmd == "exit" {
			return
		}
		dispatch(ctx, graph, cmd, args)
	}
}

// dispatch routes a command to the visible screen's controller.
func dispatch(ctx context.Context, graph *nav.Graph, cmd string, args []string) {
	switch cmd {
	case "help":
		printHelp()
		return
	case "back":
		graph.Pop()
		return
	case "tab":
		if len(args) == 1 {
			graph.SelectTab(tabRoute(args[0]))
		}
		return
	}

	_, scr := graph.Current()
	switch s := scr.(type) {
	case *screen.Login:
		switch cmd {
		case "login":
			if len(args) == 2 {
				s.SetEmail(args[0])
				s.SetPassword(args[1])
				s.Submit(ctx)
				printFieldErrors(s.EmailError, s.PasswordError)
			}
		case "signup":
			if len(args) >= 3 {
				s.SetEmail(args[0])
				s.SetPassword(args[1])
				s.SignUp(ctx, strings.Join(args[2:], " "))
				printFieldErrors(s.EmailError, s.PasswordError)
			}
		case "forgot":
			if len(args) == 1 {
				s.SetEmail(args[0])
			}
			s.ForgotPassword(ctx)
			printFieldErrors(s.EmailError, "")
		}

	case *screen.Home:
		switch cmd {
		case "book":
			t := model.RideType("")
			if len(args) == 1 {
				t = model.RideType(args[0])
			}
			s.BookRide(t)
		case "tour":
			s.DismissTour()
		case "hi":
			fmt.Println(s.Greeting())
		}

	case *screen.RideBooking:
		switch cmd {
		case "type":
			if len(args) == 1 {
				s.SelectRideType(model.RideType(args[0]))
			}
		case "dest":
			s.SelectDestination(strings.Join(args, " "))
		case "go":
			s.Book()
			if !s.CanBook() {
				fmt.Println("pick a ride type and a destination first")
			}
		}

	case *screen.RidesList:
		switch cmd {
		case "refresh":
			s.Refresh(ctx)
		case "details":
			if len(args) == 1 {
				s.ShowDetails(args[0])
			}
		case "bookride":
			if len(args) == 1 {
				s.Book(args[0])
			}
		case "list":
			for _, r := range s.Rides {
				fmt.Printf("  %s  %s (%.1f)  %s → %s  $%.2f\n",
					r.ID, r.DriverName, r.DriverRating, r.Pickup, r.Destination, r.Price)
			}
		}

	case *screen.RideDetails:
		switch cmd {
		case "settle":
			s.SpringSettled()
		case "drag":
			if len(args) == 1 {
				var offset float64
				fmt.Sscanf(args[0], "%f", &offset)
				s.DragTo(offset)
			}
		case "release":
			s.Release()
		case "close":
			s.Close()
		case "confirm":
			s.Confirm()
		case "canceltrip":
			s.CancelTrip()
		case "call":
			s.ContactDriver()
		case "payment":
			s.ChangePayment()
		case "share":
			fmt.Println(s.ShareText())
		}

	case *screen.BookingConfirmation:
		switch cmd {
		case "track":
			s.TrackRide()
		case "all":
			s.ViewAllRides()
		case "call":
			s.CallDriver()
		case "msg":
			s.MessageDriver()
		case "cancelbooking":
			s.CancelBooking()
		}

	case *screen.RideTracking:
		switch cmd {
		case "status":
			st := s.Snapshot()
			fmt.Printf("%s · %s · driver %.1f km away\n",
				st.Status.Label(), s.ETADisplay(), s.DriverDistanceKm())
		case "call":
			s.ContactDriver()
		case "cancelride":
			s.CancelRide()
		case "sos":
			s.Emergency()
		}

	case *screen.Profile:
		switch cmd {
		case "edit":
			s.OpenEdit()
			if len(args) > 0 {
				s.EditName = strings.Join(args, " ")
			}
			s.SaveEdit(ctx)
		case "settings":
			s.OpenSettings()
		case "signout":
			s.SignOut(ctx)
		case "show":
			fmt.Printf("%s <%s> %s\n", s.Record.FullName, s.Record.Email, s.Record.Phone)
		}

	case *screen.SettingsScreen:
		switch cmd {
		case "push":
			s.SetPushNotifications(ctx, len(args) == 1 && args[0] == "on")
		case "password":
			if len(args) == 3 {
				s.Open(screen.OverlayPassword)
				s.CurrentPassword, s.NewPassword, s.ConfirmPassword = args[0], args[1], args[2]
				s.SubmitPassword(ctx)
				printFieldErrors(s.PasswordError, "")
			}
		case "lang":
			s.Open(screen.OverlayLanguage)
			s.SelectLanguage(ctx, strings.Join(args, " "))
		case "theme":
			if len(args) == 1 {
				s.Open(screen.OverlayTheme)
				s.SelectTheme(ctx, model.Theme(args[0]))
			}
		case "export":
			s.ExportData()
		case "clearcache":
			s.ClearCache()
		case "delete":
			s.DeleteAccount(ctx)
		}

	default:
		fmt.Println("unknown command; type \"help\"")
	}
}

func tabRoute(name string) string {
	switch name {
	case "rides":
		return nav.RouteRidesList
	case "profile":
		return nav.RouteProfile
	default:
		return nav.RouteHome
	}
}

func printFieldErrors(errs ...string) {
	for _, e := range errs {
		if e != "" {
			fmt.Println("  !", e)
		}
	}
}

func printHelp() {
	fmt.Print(`global: help, back, tab <home|rides|profile>, quit
Login:  login <email> <pw>, signup <email> <pw> <name>, forgot [email]
Home:   book [bike|car|bus], tour, hi
RideBooking: type <bike|car|bus>, dest <name>, go
RidesList:   list, refresh, details <id>, bookride <id>
RideDetails: settle, drag <px>, release, close, confirm, canceltrip, call, payment, share
BookingConfirmation: track, all, call, msg, cancelbooking
RideTracking: status, call, cancelride, sos
Profile:  show, edit <name>, settings, signout
Settings: push <on|off>, password <cur> <new> <confirm>, lang <l>, theme <t>, export, clearcache, delete
`)
}

// consoleDialogs renders dialogs on the terminal and reads the answer
// from the same stdin reader the command loop uses.
type consoleDialogs struct {
	in *bufio.Reader
}

func (c *consoleDialogs) Alert(title, message string) {
	fmt.Printf("\n[%s]\n%s\n", title, message)
}

func (c *consoleDialogs) Confirm(d screen.Dialog) bool {
	marker := ""
	if d.Destructive {
		marker = " (!)"
	}
	fmt.Printf("\n[%s]%s\n%s\n%s / %s [y/N]: ", d.Title, marker, d.Message, d.ConfirmLabel, d.CancelLabel)
	line, err := c.in.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
