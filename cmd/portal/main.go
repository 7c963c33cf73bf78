// Command portal is a terminal client for the marketplace. Each invocation
// bootstraps a session against the API, logs in when credentials are given,
// and runs one command.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/thinkstack/marketplace/internal/core/domain"
	"github.com/thinkstack/marketplace/internal/pkg/config"
	"github.com/thinkstack/marketplace/internal/portal"
	"github.com/thinkstack/marketplace/internal/portal/moderation"
	"github.com/thinkstack/marketplace/internal/portal/navigation"
	"github.com/thinkstack/marketplace/internal/portal/remote"
	"github.com/thinkstack/marketplace/pkg/logger"
)

const usage = `usage: portal [-api URL] [-email E -password P] <command> [args]

commands:
  visit <path>              show what the portal does for path; logs in and
                            follows the redirect when credentials are given
  login                     log in and print the landing page
  admin-login               log in through the admin form
  register -name N [-role R]
  challenges [-status S]    public listing (APPROVED by default)
  list [-status S] [-category C] [-q TEXT]
                            every challenge (admin)
  approve <id> | reject <id> | delete <id>
                            moderate a challenge (admin)
  join <id>                 join a challenge
  submit <id> -link URL [-notes TEXT]
                            submit a solution (solver)
  mine                      the challenges you posted
  categories                categories in use
  leaderboard               top solvers
`

type cli struct {
	app   *portal.App
	out   io.Writer
	creds remote.Credentials
	log   zerolog.Logger
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadPortal()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fs := flag.NewFlagSet("portal", flag.ExitOnError)
	fs.Usage = func() { fmt.Fprint(fs.Output(), usage) }
	apiURL := fs.String("api", cfg.APIURL, "API base URL")
	email := fs.String("email", os.Getenv("PORTAL_EMAIL"), "account email")
	password := fs.String("password", os.Getenv("PORTAL_PASSWORD"), "account password")
	_ = fs.Parse(os.Args[1:])
	if fs.NArg() == 0 {
		fs.Usage()
		os.Exit(2)
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Pretty,
		Output:  os.Stderr,
		Service: "thinkstack-portal",
	})

	client, err := remote.New(*apiURL, cfg.Timeout)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid api url")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := portal.New(client, logger.Component("portal"))
	defer app.Close()
	app.Start(ctx)

	c := &cli{
		app:   app,
		out:   os.Stdout,
		creds: remote.Credentials{Email: *email, Password: *password},
		log:   log,
	}
	if err := c.run(ctx, fs.Arg(0), fs.Args()[1:]); err != nil {
		msg := err.Error()
		if errors.Is(err, domain.ErrNotAdmin) || errors.Is(err, domain.ErrInvalidCredentials) {
			msg = navigation.UserMessage(err)
		}
		fmt.Fprintln(os.Stderr, "error:", msg)
		log.Debug().Err(err).Str("command", fs.Arg(0)).Msg("command failed")
		os.Exit(1)
	}
}

func (c *cli) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "visit":
		return c.visit(ctx, args)
	case "login":
		dest, err := c.app.Login(ctx, c.creds)
		if err != nil {
			return err
		}
		fmt.Fprintln(c.out, dest)
		return nil
	case "admin-login":
		dest, err := c.app.AdminLogin(ctx, c.creds)
		if err != nil {
			return err
		}
		fmt.Fprintln(c.out, dest)
		return nil
	case "register":
		return c.register(ctx, args)
	case "challenges":
		return c.challenges(ctx, args)
	case "list":
		return c.list(ctx, args)
	case "approve":
		return c.transition(ctx, args, domain.StatusApproved)
	case "reject":
		return c.transition(ctx, args, domain.StatusRejected)
	case "delete":
		return c.delete(ctx, args)
	case "join":
		return c.join(ctx, args)
	case "submit":
		return c.submit(ctx, args)
	case "mine":
		return c.mine(ctx)
	case "categories":
		cats, err := c.app.Categories(ctx)
		if err != nil {
			return err
		}
		for _, cat := range cats {
			fmt.Fprintln(c.out, cat)
		}
		return nil
	case "leaderboard":
		return c.leaderboard(ctx)
	}
	return fmt.Errorf("unknown command %q", cmd)
}

func (c *cli) visit(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("visit needs a path")
	}
	out := c.app.Visit(args[0])
	fmt.Fprintf(c.out, "%s\t%s\n", out.Decision, out.Location)
	if out.Decision != navigation.DecisionRedirectLogin || c.creds.Email == "" {
		return nil
	}

	dest, err := c.app.Login(ctx, c.creds)
	if err != nil {
		return err
	}
	out = c.app.Visit(dest)
	fmt.Fprintf(c.out, "%s\t%s\n", out.Decision, out.Location)
	return nil
}

func (c *cli) register(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	name := fs.String("name", "", "display name")
	role := fs.String("role", "", "SOLVER or CHALLENGER")
	if err := fs.Parse(args); err != nil {
		return err
	}
	reg := remote.Registration{Name: *name, Email: c.creds.Email, Password: c.creds.Password}
	if *role != "" {
		r, err := domain.ParseRole(*role)
		if err != nil {
			return err
		}
		reg.Role = r
	}
	id, err := c.app.Register(ctx, reg)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "registered %s (%s) as %s\n", id.Email, id.ID, id.Role)
	return nil
}

func (c *cli) challenges(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("challenges", flag.ContinueOnError)
	status := fs.String("status", "", "PENDING, APPROVED or REJECTED")
	if err := fs.Parse(args); err != nil {
		return err
	}
	st, err := parseOptionalStatus(*status)
	if err != nil {
		return err
	}
	list, err := c.app.Challenges(ctx, st)
	if err != nil {
		return err
	}
	c.printChallenges(list)
	return nil
}

// workflow logs in through the admin form and loads the collection.
func (c *cli) workflow(ctx context.Context) (*moderation.Workflow, error) {
	if !c.app.Session().Identity.HasRole(domain.RoleAdmin) {
		if _, err := c.app.AdminLogin(ctx, c.creds); err != nil {
			return nil, err
		}
	}
	wf, err := c.app.Moderation()
	if err != nil {
		return nil, err
	}
	if r := wf.Load(ctx); r.Err != nil {
		return nil, r.Err
	}
	return wf, nil
}

func (c *cli) list(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	status := fs.String("status", "", "only this status")
	category := fs.String("category", "", "only this category")
	query := fs.String("q", "", "search title and description")
	if err := fs.Parse(args); err != nil {
		return err
	}
	st, err := parseOptionalStatus(*status)
	if err != nil {
		return err
	}

	wf, err := c.workflow(ctx)
	if err != nil {
		return err
	}
	var list []domain.Challenge
	switch {
	case st != "" && *category == "" && *query == "":
		list = wf.ByStatus(st)
	case st != "":
		for _, ch := range wf.Filter(*category, *query) {
			if ch.Status == st {
				list = append(list, ch)
			}
		}
	default:
		list = wf.Filter(*category, *query)
	}
	c.printChallenges(list)
	return nil
}

func (c *cli) transition(ctx context.Context, args []string, target domain.ChallengeStatus) error {
	if len(args) != 1 {
		return errors.New("expected a challenge id")
	}
	wf, err := c.workflow(ctx)
	if err != nil {
		return err
	}
	r := wf.RequestTransition(ctx, args[0], target)
	if r.Err != nil && !r.Applied {
		return r.Err
	}
	if r.Err != nil {
		c.log.Warn().Err(r.Err).Msg("status changed but the list could not be refreshed")
	}
	fmt.Fprintf(c.out, "challenge %s is now %s\n", args[0], target)
	c.printChallenges(r.Challenges)
	return nil
}

func (c *cli) delete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("expected a challenge id")
	}
	wf, err := c.workflow(ctx)
	if err != nil {
		return err
	}
	r := wf.Delete(ctx, args[0])
	if r.Err != nil && !r.Applied {
		return r.Err
	}
	fmt.Fprintf(c.out, "challenge %s deleted\n", args[0])
	c.printChallenges(r.Challenges)
	return nil
}

// ensureSession logs in with the command-line credentials when the
// bootstrap found no session.
func (c *cli) ensureSession(ctx context.Context) error {
	if c.app.Session().Identity != nil || c.creds.Email == "" {
		return nil
	}
	_, err := c.app.Login(ctx, c.creds)
	return err
}

func (c *cli) join(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("expected a challenge id")
	}
	if err := c.ensureSession(ctx); err != nil {
		return err
	}
	if err := c.app.Join(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "joined challenge %s\n", args[0])
	return nil
}

func (c *cli) submit(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("expected a challenge id")
	}
	fs := flag.NewFlagSet("submit", flag.ContinueOnError)
	link := fs.String("link", "", "repository link")
	notes := fs.String("notes", "", "short description")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	if err := c.ensureSession(ctx); err != nil {
		return err
	}
	sol, err := c.app.SubmitSolution(ctx, remote.Solution{ChallengeID: args[0], Attachments: *link, Content: *notes})
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "solution %s submitted for challenge %s\n", sol.ID, sol.ChallengeID)
	return nil
}

func (c *cli) mine(ctx context.Context) error {
	if err := c.ensureSession(ctx); err != nil {
		return err
	}
	list, err := c.app.MyChallenges(ctx)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tDAYS LEFT\tTITLE")
	for _, ch := range list {
		left := fmt.Sprint(ch.DaysRemaining)
		if ch.IsExpired {
			left = "expired"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", ch.ID, ch.Status, left, ch.Title)
	}
	return tw.Flush()
}

func (c *cli) leaderboard(ctx context.Context) error {
	board, err := c.app.Leaderboard(ctx)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tSOLVER\tSCORE\tCOMPLETED")
	for i, e := range board {
		fmt.Fprintf(tw, "%d\t%s\t%.0f\t%d\n", i+1, e.UserName, e.Score, e.ChallengesCompleted)
	}
	return tw.Flush()
}

func (c *cli) printChallenges(list []domain.Challenge) {
	if len(list) == 0 {
		return
	}
	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tCATEGORY\tPRIZE\tPARTICIPANTS\tTITLE")
	for _, ch := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f\t%d\t%s\n", ch.ID, ch.Status, ch.Category, ch.CashPrize, ch.ParticipantCount, ch.Title)
	}
	_ = tw.Flush()
}

func parseOptionalStatus(s string) (domain.ChallengeStatus, error) {
	if s == "" {
		return "", nil
	}
	return domain.ParseChallengeStatus(s)
}
