package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"contractor_connect/internal/api"
	"contractor_connect/internal/config"
	"contractor_connect/internal/gateway"
	"contractor_connect/internal/logger"
	"contractor_connect/internal/model"
	"contractor_connect/internal/navigation"
	"contractor_connect/internal/screen"
	"contractor_connect/internal/session"

	"github.com/sirupsen/logrus"
)

const usage = `usage: client [-config dir] [-server url] <command> [flags]

signed out:
  register         -name -phone -role society|contractor [-email] [-password]
  login            -phone [-password]
  verify           -phone [-code]

society:
  requests         [-page] [-status]
  request          -id
  create-request   -title -description -category -city -state [-address] [-pincode] [-budget-min] [-budget-max]
  cancel-request   -id
  delete-request   -id
  upload-images    -id file...
  accept           -id
  reject           -id [-reason]

contractor:
  browse           [-page] [-category] [-city] [-state]
  assigned         [-page]
  request          -id
  bid              -request -amount -proposal [-days]
  my-bids          [-page] [-status]
  withdraw         -id

any account:
  status
  refresh
  profile          [-name] [-email] [-address] [-city] [-state] [-pincode] [-description]
  logout
`

type app struct {
	session    session.Manager
	auth       *screen.Auth
	society    *screen.Society
	contractor *screen.Contractor
	profile    *screen.Profile
	requests   *api.RequestsAPI
	out        *tabwriter.Writer
}

func main() {
	configDir := flag.String("config", ".", "directory holding app.env / .env")
	serverFlag := flag.String("server", "", "override API_BASE_URL")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.LoadClientConfig(*configDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	if *serverFlag != "" {
		cfg.APIBaseURL = *serverFlag
	}
	logger.Setup(logger.Options{Level: cfg.LogLevel, File: cfg.LogFile, Quiet: true})

	a := newApp(cfg, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err = a.run(ctx, flag.Arg(0), flag.Args()[1:])
	a.out.Flush()
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		logrus.WithError(err).WithField("command", flag.Arg(0)).Debug("Command failed")
		fmt.Fprintln(os.Stderr, "Error:", errorText(err))
		os.Exit(1)
	}
}

// newApp wires the session, gateway and screens from the client configuration
func newApp(cfg *config.ClientConfig, out io.Writer) *app {
	sess := session.NewManager(session.NewFileStore(cfg.SessionFile, cfg.SessionPassphrase))
	sess.Initialize()

	maxRetries := cfg.APIMaxRetries
	if maxRetries == 0 {
		// zero means "default" to the gateway, but an explicit API_MAX_RETRIES=0 means none
		maxRetries = -1
	}
	gw := gateway.New(gateway.Config{
		BaseURL:    cfg.APIBaseURL,
		Timeout:    cfg.Timeout(),
		MaxRetries: maxRetries,
	}, sess)
	client := api.New(gw)

	return &app{
		session:    sess,
		auth:       screen.NewAuth(client.Auth, sess),
		society:    screen.NewSociety(client.Requests, client.Bids),
		contractor: screen.NewContractor(client.Requests, client.Bids),
		profile:    screen.NewProfile(client.Users, sess),
		requests:   client.Requests,
		out:        tabwriter.NewWriter(out, 0, 4, 2, ' ', 0),
	}
}

// errorText shows server failures through the banner and local ones as is
func errorText(err error) string {
	var apiErr *gateway.APIError
	if errors.As(err, &apiErr) {
		return screen.NewBanner(err).String()
	}
	return err.Error()
}

var errUsage = errors.New("invalid usage")

// refreshWindow is how close to expiry the access token may get before a
// command renews it first
const refreshWindow = 2 * time.Minute

func (a *app) run(ctx context.Context, cmd string, args []string) error {
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	if cmd != "logout" && cmd != "refresh" {
		if err := a.auth.RefreshIfExpiring(ctx, refreshWindow); err != nil {
			logrus.WithError(err).Debug("Session refresh failed")
		}
	}
	switch cmd {
	case "status":
		return a.status()
	case "refresh":
		if err := a.auth.Refresh(ctx); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Session renewed")
		return nil
	case "register":
		return a.register(ctx, fs, args)
	case "login":
		return a.login(ctx, fs, args)
	case "verify":
		return a.verify(ctx, fs, args)
	case "logout":
		a.auth.Logout(ctx)
		fmt.Fprintln(a.out, "Logged out")
		return nil
	case "profile":
		return a.editProfile(ctx, fs, args)
	case "requests", "create-request", "cancel-request", "delete-request", "upload-images", "accept", "reject":
		if err := a.require(navigation.RouteSociety); err != nil {
			return err
		}
		return a.runSociety(ctx, cmd, fs, args)
	case "browse", "assigned", "bid", "my-bids", "withdraw":
		if err := a.require(navigation.RouteContractor); err != nil {
			return err
		}
		return a.runContractor(ctx, cmd, fs, args)
	case "request":
		return a.showRequest(ctx, fs, args)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

// require refuses commands that belong to another screen tree
func (a *app) require(route navigation.Route) error {
	current := navigation.Select(a.session.State())
	switch {
	case current == route:
		return nil
	case current == navigation.RouteAuth:
		return errors.New("not logged in, run login or register first")
	case current == navigation.RouteUnsupported:
		return errors.New("unsupported account type for this client")
	default:
		return fmt.Errorf("this command is only available to %s accounts", route)
	}
}

func (a *app) status() error {
	state := a.session.State()
	route := navigation.Select(state)
	fmt.Fprintf(a.out, "screen:\t%s\n", route)
	if state.User != nil {
		fmt.Fprintf(a.out, "user:\t%s (%s)\n", state.User.Name, state.User.ID)
		fmt.Fprintf(a.out, "phone:\t%s\n", state.User.PhoneNumber)
		fmt.Fprintf(a.out, "role:\t%s\n", state.User.Role)
	}
	return nil
}

func (a *app) register(ctx context.Context, fs *flag.FlagSet, args []string) error {
	var form screen.RegisterForm
	fs.StringVar(&form.Name, "name", "", "full name")
	fs.StringVar(&form.Phone, "phone", "", "phone number")
	fs.StringVar(&form.Role, "role", model.RoleSociety, "society or contractor")
	fs.StringVar(&form.Email, "email", "", "email address")
	fs.StringVar(&form.Password, "password", "", "optional password for password login")
	if err := fs.Parse(args); err != nil {
		return err
	}

	prompt, err := a.auth.Register(ctx, form)
	if err != nil {
		return err
	}
	if prompt == nil {
		return a.status()
	}
	return a.promptOTP(ctx, a.auth.OTP(*prompt))
}

func (a *app) login(ctx context.Context, fs *flag.FlagSet, args []string) error {
	phone := fs.String("phone", "", "phone number")
	password := fs.String("password", "", "log in with a password instead of an OTP")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *password != "" {
		if err := a.auth.LoginWithPassword(ctx, screen.LoginForm{Phone: *phone, Password: *password}); err != nil {
			return err
		}
		return a.status()
	}
	prompt, err := a.auth.RequestLoginOTP(ctx, *phone)
	if err != nil {
		return err
	}
	return a.promptOTP(ctx, a.auth.OTP(*prompt))
}

func (a *app) verify(ctx context.Context, fs *flag.FlagSet, args []string) error {
	phone := fs.String("phone", "", "phone number the code was sent to")
	code := fs.String("code", "", "6-digit code; prompts when empty")
	if err := fs.Parse(args); err != nil {
		return err
	}
	otpScreen := a.auth.OTP(screen.OTPPrompt{Phone: screen.NormalizePhone(*phone)})
	if *code == "" {
		return a.promptOTP(ctx, otpScreen)
	}
	if err := otpScreen.Verify(ctx, *code); err != nil {
		return err
	}
	return a.status()
}

// promptOTP reads codes from stdin until one verifies. Typing r resends.
func (a *app) promptOTP(ctx context.Context, s *screen.OTPScreen) error {
	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Printf("Enter the OTP sent to %s (r to resend): ", s.Phone())
		line, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read OTP: %w", err)
		}
		input := strings.TrimSpace(line)

		if input == "r" {
			if err := s.Resend(ctx); err != nil {
				fmt.Println(screen.NewBanner(err))
				continue
			}
			fmt.Println("OTP sent")
			continue
		}
		if err := s.Verify(ctx, input); err != nil {
			var fields screen.FieldErrors
			if errors.As(err, &fields) || gateway.IsKind(err, gateway.KindOther) {
				fmt.Println(screen.NewBanner(err))
				continue
			}
			return err
		}
		return a.status()
	}
}

func (a *app) editProfile(ctx context.Context, fs *flag.FlagSet, args []string) error {
	if err := a.requireSignedIn(); err != nil {
		return err
	}
	name := fs.String("name", "", "")
	email := fs.String("email", "", "")
	address := fs.String("address", "", "")
	city := fs.String("city", "", "")
	state := fs.String("state", "", "")
	pincode := fs.String("pincode", "", "")
	description := fs.String("description", "", "")
	if err := fs.Parse(args); err != nil {
		return err
	}

	form := screen.ProfileForm{
		Name:        optional(*name),
		Email:       optional(*email),
		Address:     optional(*address),
		City:        optional(*city),
		State:       optional(*state),
		Pincode:     optional(*pincode),
		Description: optional(*description),
	}

	var user *model.User
	var err error
	if form == (screen.ProfileForm{}) {
		user, err = a.profile.Load(ctx)
	} else {
		user, err = a.profile.Save(ctx, form)
	}
	if err != nil {
		return err
	}
	printUser(a.out, user)
	return nil
}

func (a *app) requireSignedIn() error {
	if navigation.Select(a.session.State()) == navigation.RouteAuth {
		return errors.New("not logged in, run login or register first")
	}
	return nil
}

func (a *app) showRequest(ctx context.Context, fs *flag.FlagSet, args []string) error {
	id := fs.String("id", "", "request id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	switch navigation.Select(a.session.State()) {
	case navigation.RouteSociety:
		details, err := a.society.Details(ctx, *id)
		if err != nil {
			return err
		}
		printRequest(a.out, details.Request)
		if details.Stats.Available() {
			printStats(a.out, details.Stats.Stats)
		}
		printBids(a.out, details.Bids)
		return nil
	case navigation.RouteContractor:
		wr, err := a.contractor.Request(ctx, *id)
		if err != nil {
			return err
		}
		printRequest(a.out, wr)
		return nil
	default:
		return a.require(navigation.RouteSociety)
	}
}

func (a *app) runSociety(ctx context.Context, cmd string, fs *flag.FlagSet, args []string) error {
	switch cmd {
	case "requests":
		page := fs.Int("page", 1, "page number")
		status := fs.String("status", "", "filter by status")
		if err := fs.Parse(args); err != nil {
			return err
		}
		list, err := a.society.Home(ctx, *page, *status)
		if err != nil {
			return err
		}
		printRequests(a.out, list)
		return nil

	case "create-request":
		var form screen.RequestForm
		var budgetMin, budgetMax float64
		fs.StringVar(&form.Title, "title", "", "")
		fs.StringVar(&form.Description, "description", "", "")
		fs.StringVar(&form.Category, "category", "", strings.Join(model.RequestCategories, ", "))
		fs.StringVar(&form.Address, "address", "", "")
		fs.StringVar(&form.City, "city", "", "")
		fs.StringVar(&form.State, "state", "", "")
		fs.StringVar(&form.Pincode, "pincode", "", "")
		fs.Float64Var(&budgetMin, "budget-min", 0, "")
		fs.Float64Var(&budgetMax, "budget-max", 0, "")
		if err := fs.Parse(args); err != nil {
			return err
		}
		fs.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "budget-min":
				form.BudgetMin = &budgetMin
			case "budget-max":
				form.BudgetMax = &budgetMax
			}
		})
		wr, err := a.society.CreateRequest(ctx, form)
		if err != nil {
			return err
		}
		printRequest(a.out, wr)
		return nil

	case "cancel-request":
		id := idFlag(fs)
		if err := fs.Parse(args); err != nil {
			return err
		}
		wr, err := a.society.CancelRequest(ctx, *id)
		if err != nil {
			return err
		}
		printRequest(a.out, wr)
		return nil

	case "delete-request":
		id := idFlag(fs)
		if err := fs.Parse(args); err != nil {
			return err
		}
		if err := a.society.DeleteRequest(ctx, *id); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Request deleted")
		return nil

	case "upload-images":
		id := idFlag(fs)
		if err := fs.Parse(args); err != nil {
			return err
		}
		return a.uploadImages(ctx, *id, fs.Args())

	case "accept":
		id := idFlag(fs)
		if err := fs.Parse(args); err != nil {
			return err
		}
		bid, err := a.society.AcceptBid(ctx, *id)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Bid %s %s\n", bid.ID, bid.Status)
		return nil

	case "reject":
		id := idFlag(fs)
		reason := fs.String("reason", "", "optional reason shown to the contractor")
		if err := fs.Parse(args); err != nil {
			return err
		}
		bid, err := a.society.RejectBid(ctx, *id, *reason)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Bid %s %s\n", bid.ID, bid.Status)
		return nil
	}
	return fmt.Errorf("%w: %s", errUsage, cmd)
}

func (a *app) uploadImages(ctx context.Context, requestID string, paths []string) error {
	if len(paths) == 0 {
		return fmt.Errorf("%w: no image files given", errUsage)
	}
	files, closeAll, err := openImages(paths)
	if err != nil {
		return err
	}
	defer closeAll()
	urls, err := a.requests.UploadImages(ctx, requestID, files)
	if err != nil {
		return err
	}
	for _, u := range urls {
		fmt.Fprintln(a.out, u)
	}
	return nil
}

// openImages opens every path, closing the ones already open if any fails
func openImages(paths []string) ([]gateway.File, func(), error) {
	opened := make([]*os.File, 0, len(paths))
	closeAll := func() {
		for _, f := range opened {
			f.Close()
		}
	}
	files := make([]gateway.File, 0, len(paths))
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("failed to open %s: %w", p, err)
		}
		opened = append(opened, f)
		files = append(files, gateway.File{Name: filepath.Base(p), Content: f})
	}
	return files, closeAll, nil
}

func (a *app) runContractor(ctx context.Context, cmd string, fs *flag.FlagSet, args []string) error {
	switch cmd {
	case "browse":
		page := fs.Int("page", 1, "page number")
		var filter screen.BrowseFilter
		fs.StringVar(&filter.Category, "category", "", "")
		fs.StringVar(&filter.City, "city", "", "")
		fs.StringVar(&filter.State, "state", "", "")
		if err := fs.Parse(args); err != nil {
			return err
		}
		list, err := a.contractor.Browse(ctx, *page, filter)
		if err != nil {
			return err
		}
		printRequests(a.out, list)
		return nil

	case "assigned":
		page := fs.Int("page", 1, "page number")
		if err := fs.Parse(args); err != nil {
			return err
		}
		list, err := a.contractor.Assigned(ctx, *page)
		if err != nil {
			return err
		}
		printRequests(a.out, list)
		return nil

	case "bid":
		var form screen.BidForm
		var days int
		fs.StringVar(&form.RequestID, "request", "", "request id")
		fs.Float64Var(&form.Amount, "amount", 0, "")
		fs.StringVar(&form.Proposal, "proposal", "", "")
		fs.IntVar(&days, "days", 0, "estimated completion days")
		if err := fs.Parse(args); err != nil {
			return err
		}
		if days != 0 {
			form.Days = &days
		}
		bid, err := a.contractor.SubmitBid(ctx, form)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Bid %s %s\n", bid.ID, bid.Status)
		return nil

	case "my-bids":
		page := fs.Int("page", 1, "page number")
		status := fs.String("status", "", "filter by status")
		if err := fs.Parse(args); err != nil {
			return err
		}
		list, err := a.contractor.MyBids(ctx, *page, *status)
		if err != nil {
			return err
		}
		printBids(a.out, list)
		return nil

	case "withdraw":
		id := idFlag(fs)
		if err := fs.Parse(args); err != nil {
			return err
		}
		bid, err := a.contractor.Withdraw(ctx, *id)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Bid %s %s\n", bid.ID, bid.Status)
		return nil
	}
	return fmt.Errorf("%w: %s", errUsage, cmd)
}

func idFlag(fs *flag.FlagSet) *string {
	return fs.String("id", "", "id")
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func printUser(w *tabwriter.Writer, u *model.User) {
	fmt.Fprintf(w, "id:\t%s\n", u.ID)
	fmt.Fprintf(w, "name:\t%s\n", u.Name)
	fmt.Fprintf(w, "phone:\t%s\n", u.PhoneNumber)
	fmt.Fprintf(w, "role:\t%s\n", u.Role)
	if u.Email != nil {
		fmt.Fprintf(w, "email:\t%s\n", *u.Email)
	}
	if u.City != nil {
		fmt.Fprintf(w, "city:\t%s\n", *u.City)
	}
}

func printRequest(w *tabwriter.Writer, r *model.WorkRequest) {
	fmt.Fprintf(w, "id:\t%s\n", r.ID)
	fmt.Fprintf(w, "title:\t%s\n", r.Title)
	fmt.Fprintf(w, "status:\t%s\n", r.Status)
	fmt.Fprintf(w, "category:\t%s\n", r.Category)
	fmt.Fprintf(w, "where:\t%s, %s\n", r.City, r.State)
	if r.BudgetMin != nil || r.BudgetMax != nil {
		fmt.Fprintf(w, "budget:\t%s - %s\n", amount(r.BudgetMin), amount(r.BudgetMax))
	}
	fmt.Fprintf(w, "bids:\t%d\n", r.BidsCount)
	fmt.Fprintf(w, "posted:\t%s\n", r.CreatedAt.Format(time.DateOnly))
	fmt.Fprintf(w, "\n%s\n\n", r.Description)
}

func printRequests(w *tabwriter.Writer, page model.Page[model.WorkRequest]) {
	if len(page.Items) == 0 {
		fmt.Fprintln(w, "No requests found")
		return
	}
	fmt.Fprintln(w, "ID\tTITLE\tSTATUS\tCITY\tBIDS")
	for _, r := range page.Items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n", r.ID, r.Title, r.Status, r.City, r.BidsCount)
	}
	printPageFooter(w, page.Page, page.Total, page.HasMore())
}

func printBids(w *tabwriter.Writer, page model.Page[model.Bid]) {
	if len(page.Items) == 0 {
		fmt.Fprintln(w, "No bids yet")
		return
	}
	fmt.Fprintln(w, "ID\tREQUEST\tAMOUNT\tSTATUS\tCONTRACTOR")
	for _, b := range page.Items {
		contractor := b.ContractorID
		if b.Contractor != nil {
			contractor = b.Contractor.Name
		}
		fmt.Fprintf(w, "%s\t%s\t%.2f\t%s\t%s\n", b.ID, b.RequestID, b.Amount, b.Status, contractor)
	}
	printPageFooter(w, page.Page, page.Total, page.HasMore())
}

func printStats(w *tabwriter.Writer, s *model.BidStatistics) {
	fmt.Fprintf(w, "total bids:\t%d (pending %d, accepted %d, rejected %d, withdrawn %d)\n",
		s.TotalBids, s.PendingBids, s.AcceptedBids, s.RejectedBids, s.WithdrawnBids)
	if s.AverageAmount != nil {
		fmt.Fprintf(w, "amounts:\tavg %s, low %s, high %s\n", amount(s.AverageAmount), amount(s.MinAmount), amount(s.MaxAmount))
	}
	fmt.Fprintln(w)
}

func printPageFooter(w *tabwriter.Writer, page, total int, more bool) {
	footer := fmt.Sprintf("page %d, %d total", page, total)
	if more {
		footer += fmt.Sprintf(", next: -page %d", page+1)
	}
	fmt.Fprintln(w, footer)
}

func amount(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *v)
}
