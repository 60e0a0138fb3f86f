package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"crowdfund-client/internal/model"
	"crowdfund-client/internal/ownership"
	"crowdfund-client/internal/view"
	"crowdfund-client/pkg/apierror"
)

const (
	MsgFetchFailed    = "Failed to fetch projects. Please try again."
	MsgProjectUpdated = "Project updated successfully!"
	MsgProjectCreated = "Project created successfully!"

	loginHint = `Run "crowdfund login" to sign in.`
)

const (
	slotProject = "project"
	slotCreate  = "create"
)

// ScreenError is a screen that settled anywhere but Ready.
type ScreenError struct {
	Status  view.Status
	Message string
}

func (e *ScreenError) Error() string {
	return e.Message
}

func settle[T any](ctx context.Context, inst *view.Instance[T]) (view.State[T], error) {
	state, err := inst.Wait(ctx)
	if err != nil {
		return state, err
	}
	if state.Status != view.Ready {
		return state, &ScreenError{Status: state.Status, Message: state.Message}
	}
	return state, nil
}

// ErrorText is what the user reads for err.
func ErrorText(err error) string {
	var screenErr *ScreenError
	if errors.As(err, &screenErr) && screenErr.Status == view.Unauthenticated {
		return screenErr.Message + " " + loginHint
	}
	if apierror.Is(err, apierror.KindUnauthenticated) || apierror.Is(err, apierror.KindAuthRejected) {
		return apierror.Message(err) + " " + loginHint
	}
	return apierror.Message(err)
}

func (a *App) home(ctx context.Context, nav *model.UserProfile) error {
	inst := view.Mount(ctx, a.screens, view.Screen[struct{}]{Name: view.RouteHome}, nav)
	if _, err := settle(ctx, inst); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Welcome, %s!\n", inst.Session().User.DisplayName())
	fmt.Fprintln(a.out, "Browse with \"projects\", manage yours with \"my-projects\", start one with \"create\".")
	return nil
}

func (a *App) projectList(ctx context.Context, mine bool) error {
	screen := view.Screen[[]model.Project]{
		Name:           view.RouteProjects,
		FailureMessage: MsgFetchFailed,
		Fetch:          a.projects.List,
	}
	if mine {
		screen.Name = view.RouteMyProjects
		screen.Fetch = func(ctx context.Context) ([]model.Project, error) {
			return a.projects.Mine(ctx, view.SessionFrom(ctx))
		}
	}

	inst := view.Mount(ctx, a.screens, screen, nil)
	state, err := settle(ctx, inst)
	if err != nil {
		return err
	}

	if len(state.Data) == 0 {
		if mine {
			fmt.Fprintln(a.out, "You have not created any projects yet.")
		} else {
			fmt.Fprintln(a.out, "No projects yet.")
		}
		return nil
	}

	a.renderProjects(state.Data, func(p model.Project) bool {
		return ownership.CanEdit(p, inst.Session())
	})
	return nil
}

func (a *App) editProject(ctx context.Context, id model.Ident, changes model.ProjectInput, set map[string]bool) error {
	inst := view.Mount(ctx, a.screens, view.Screen[model.Project]{
		Name: slotProject,
		Fetch: func(ctx context.Context) (model.Project, error) {
			return a.projects.Get(ctx, id)
		},
		Authorize: ownership.CanEdit,
	}, nil)

	state, err := settle(ctx, inst)
	if err != nil {
		return err
	}
	a.renderProject(state.Data)

	if len(set) == 0 {
		fmt.Fprintf(a.out, "\nUpdate with: crowdfund project %s -title ... -description ... -target ... -start ... -end ...\n", id)
		return nil
	}

	input := merge(state.Data.Input(), changes, set)
	result := inst.Submit(ctx, func(ctx context.Context) error {
		_, err := a.projects.Update(ctx, id, input)
		return err
	}, view.SubmitOptions{SuccessMessage: MsgProjectUpdated, RedirectTo: view.RouteMyProjects})
	if !result.OK {
		return result.Err
	}

	fmt.Fprintln(a.out, result.Message)
	return a.followRedirect(ctx)
}

func (a *App) createProject(ctx context.Context, input model.ProjectInput) error {
	inst := view.Mount(ctx, a.screens, view.Screen[struct{}]{Name: slotCreate}, nil)
	if _, err := settle(ctx, inst); err != nil {
		return err
	}

	var created model.Project
	result := inst.Submit(ctx, func(ctx context.Context) error {
		var err error
		created, err = a.projects.Create(ctx, input)
		return err
	}, view.SubmitOptions{SuccessMessage: MsgProjectCreated})
	if !result.OK {
		return result.Err
	}

	fmt.Fprintln(a.out, result.Message)
	fmt.Fprintf(a.out, "Project %s: %s\n", created.ID, created.Title)
	return nil
}

func merge(current model.ProjectInput, changes model.ProjectInput, set map[string]bool) model.ProjectInput {
	if set["title"] {
		current.Title = changes.Title
	}
	if set["description"] {
		current.Description = changes.Description
	}
	if set["target"] {
		current.TargetAmount = changes.TargetAmount
	}
	if set["start"] {
		current.StartDate = changes.StartDate
	}
	if set["end"] {
		current.EndDate = changes.EndDate
	}
	return current
}

func (a *App) renderProjects(projects []model.Project, owned func(model.Project) bool) {
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tRAISED\tTARGET\tENDS\t")
	for _, p := range projects {
		title := p.Title
		if owned(p) {
			title += " (yours)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t\n", p.ID, title, p.CurrentAmount, p.TargetAmount, model.DateOnly(p.EndDate))
	}
	_ = tw.Flush()
}

func (a *App) renderProject(p model.Project) {
	fmt.Fprintf(a.out, "%s (project %s)\n", p.Title, p.ID)
	if desc := strings.TrimSpace(p.Description); desc != "" {
		fmt.Fprintf(a.out, "%s\n", desc)
	}
	fmt.Fprintf(a.out, "Raised %s of %s\n", p.CurrentAmount, p.TargetAmount)
	fmt.Fprintf(a.out, "Runs %s to %s\n", model.DateOnly(p.StartDate), model.DateOnly(p.EndDate))
}
