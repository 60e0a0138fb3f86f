package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"
	"text/tabwriter"

	"crowdfund-client/internal/model"
	"crowdfund-client/internal/view"
)

type command struct {
	name    string
	usage   string
	summary string
	run     func(ctx context.Context, args []string) error
}

func (a *App) commands() []command {
	return []command{
		{name: "login", usage: "login [-email EMAIL] [-password PASSWORD]", summary: "sign in and store the session", run: a.runLogin},
		{name: "register", usage: "register [-first-name ..] [-last-name ..] [-email ..] [-phone ..] [-password ..] [-confirm ..]", summary: "create an account", run: a.runRegister},
		{name: "logout", usage: "logout", summary: "forget the stored session", run: a.runLogout},
		{name: view.RouteHome, usage: "home", summary: "show who is signed in", run: a.runHome},
		{name: view.RouteProjects, usage: "projects", summary: "list every project", run: a.runProjects},
		{name: view.RouteMyProjects, usage: "my-projects", summary: "list the projects you own", run: a.runMyProjects},
		{name: "project", usage: "project ID [-title ..] [-description ..] [-target ..] [-start YYYY-MM-DD] [-end YYYY-MM-DD]", summary: "show a project you own, or update it when flags are given", run: a.runProject},
		{name: "create", usage: "create [-title ..] [-description ..] [-target ..] [-start YYYY-MM-DD] [-end YYYY-MM-DD]", summary: "create a project", run: a.runCreate},
		{name: "shell", usage: "shell", summary: "run commands interactively", run: a.runShell},
	}
}

func (a *App) printUsage() {
	fmt.Fprintln(a.out, "Usage: crowdfund [-api URL] [-store file|sqlite|memory] COMMAND [ARGS]")
	fmt.Fprintln(a.out)
	fmt.Fprintln(a.out, "Commands:")
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	for _, cmd := range a.commands() {
		fmt.Fprintf(tw, "  %s\t%s\n", cmd.name, cmd.summary)
	}
	_ = tw.Flush()
}

func (a *App) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.out)
	return fs
}

// parseFlags parses fs and rejects leftover positional arguments.
func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%w: unexpected argument %q", ErrUsage, fs.Arg(0))
	}
	return nil
}

func projectFlags(fs *flag.FlagSet, input *model.ProjectInput) {
	fs.StringVar(&input.Title, "title", "", "project title")
	fs.StringVar(&input.Description, "description", "", "project description")
	fs.StringVar(&input.TargetAmount, "target", "", "target amount")
	fs.StringVar(&input.StartDate, "start", "", "start date (YYYY-MM-DD)")
	fs.StringVar(&input.EndDate, "end", "", "end date (YYYY-MM-DD)")
}

func (a *App) runLogin(ctx context.Context, args []string) error {
	var req model.LoginRequest
	fs := a.newFlagSet("login")
	fs.StringVar(&req.Email, "email", "", "account email")
	fs.StringVar(&req.Password, "password", "", "password (prompted when omitted)")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	if err := a.prompt.fill(
		promptField{label: "Email", value: &req.Email},
		promptField{label: "Password", value: &req.Password, secret: true},
	); err != nil {
		return err
	}

	user, err := a.auth.Login(ctx, req)
	if err != nil {
		return err
	}
	return a.home(ctx, &user)
}

func (a *App) runRegister(ctx context.Context, args []string) error {
	var req model.RegisterRequest
	fs := a.newFlagSet("register")
	fs.StringVar(&req.FirstName, "first-name", "", "first name")
	fs.StringVar(&req.LastName, "last-name", "", "last name")
	fs.StringVar(&req.Email, "email", "", "email")
	fs.StringVar(&req.PhoneNumber, "phone", "", "mobile number (01XXXXXXXXX)")
	fs.StringVar(&req.Password, "password", "", "password (prompted when omitted)")
	fs.StringVar(&req.ConfirmPassword, "confirm", "", "password confirmation (prompted when omitted)")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	if err := a.prompt.fill(
		promptField{label: "First name", value: &req.FirstName},
		promptField{label: "Last name", value: &req.LastName},
		promptField{label: "Email", value: &req.Email},
		promptField{label: "Phone number", value: &req.PhoneNumber},
		promptField{label: "Password", value: &req.Password, secret: true},
		promptField{label: "Confirm password", value: &req.ConfirmPassword, secret: true},
	); err != nil {
		return err
	}

	user, err := a.auth.Register(ctx, req)
	if err != nil {
		return err
	}
	return a.home(ctx, &user)
}

func (a *App) runLogout(_ context.Context, args []string) error {
	if err := parseFlags(a.newFlagSet("logout"), args); err != nil {
		return err
	}
	if err := a.auth.Logout(); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

func (a *App) runHome(ctx context.Context, args []string) error {
	if err := parseFlags(a.newFlagSet(view.RouteHome), args); err != nil {
		return err
	}
	return a.home(ctx, nil)
}

func (a *App) runProjects(ctx context.Context, args []string) error {
	if err := parseFlags(a.newFlagSet(view.RouteProjects), args); err != nil {
		return err
	}
	return a.projectList(ctx, false)
}

func (a *App) runMyProjects(ctx context.Context, args []string) error {
	if err := parseFlags(a.newFlagSet(view.RouteMyProjects), args); err != nil {
		return err
	}
	return a.projectList(ctx, true)
}

func (a *App) runProject(ctx context.Context, args []string) error {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return fmt.Errorf("%w: project ID is required", ErrUsage)
	}
	id := model.Ident(args[0])

	var changes model.ProjectInput
	fs := a.newFlagSet("project")
	projectFlags(fs, &changes)
	if err := parseFlags(fs, args[1:]); err != nil {
		return err
	}

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return a.editProject(ctx, id, changes, set)
}

func (a *App) runCreate(ctx context.Context, args []string) error {
	var input model.ProjectInput
	fs := a.newFlagSet("create")
	projectFlags(fs, &input)
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	if fs.NFlag() == 0 {
		if err := a.prompt.fill(
			promptField{label: "Title", value: &input.Title},
			promptField{label: "Description", value: &input.Description},
			promptField{label: "Target amount", value: &input.TargetAmount},
			promptField{label: "Start date (YYYY-MM-DD)", value: &input.StartDate},
			promptField{label: "End date (YYYY-MM-DD)", value: &input.EndDate},
		); err != nil {
			return err
		}
	}
	return a.createProject(ctx, input)
}

func (a *App) runShell(ctx context.Context, args []string) error {
	if err := parseFlags(a.newFlagSet("shell"), args); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Type a command, \"help\" for the list, or \"exit\" to quit.")
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		line, err := a.prompt.Line("crowdfund> ")
		if err != nil {
			fmt.Fprintln(a.out)
			return nil
		}

		words, err := splitArgs(line)
		if err != nil {
			fmt.Fprintf(a.out, "Error: %v\n", err)
			continue
		}
		if len(words) == 0 {
			continue
		}

		switch words[0] {
		case "exit", "quit":
			return nil
		case "help":
			a.printUsage()
			continue
		case "shell":
			fmt.Fprintln(a.out, "Already in the shell.")
			continue
		}

		if err := a.Execute(ctx, words); err != nil && !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(a.out, "Error: %s\n", ErrorText(err))
		}
	}
}
