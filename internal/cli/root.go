package cli

import (
	"log/slog"
	"time"

	"github.com/alexanderramin/crewplan/internal/app"
	"github.com/alexanderramin/crewplan/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Projects       service.ProjectService
	Resources      service.ResourceService
	Assignments    service.AssignmentService
	Unavailability service.UnavailabilityService
	Availability   service.AvailabilityService
	Conflicts      service.ConflictService
	Tasks          service.TaskService
	OpenItems      service.OpenItemService
	Import         service.ImportService

	Logger *slog.Logger

	// DefaultWindowDays sizes the conflicts and board window when no end
	// date is given.
	DefaultWindowDays int

	// IsInteractive reports whether forms and the board may take over the
	// terminal. Nil means never.
	IsInteractive func() bool

	// Now is the clock behind default windows and due-date rendering.
	Now func() time.Time
}

// NewApp exposes the services of an open session to the commands.
func NewApp(s *app.Session) *App {
	return &App{
		Projects:          s.Projects,
		Resources:         s.Resources,
		Assignments:       s.Assignments,
		Unavailability:    s.Unavailability,
		Availability:      s.Availability,
		Conflicts:         s.Conflicts,
		Tasks:             s.Tasks,
		OpenItems:         s.OpenItems,
		Import:            s.Import,
		Logger:            s.Logger,
		DefaultWindowDays: s.Config.DefaultWindowDays,
		Now:               func() time.Time { return time.Now().UTC() },
	}
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) today() time.Time {
	if a.Now == nil {
		return time.Now().UTC()
	}
	return a.Now()
}

// NewRootCmd creates the top-level "crewplan" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "crewplan",
		Short:         "Crew, project and task scheduling",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	// Parsed ahead of cobra by main; declared here so it shows in help.
	root.PersistentFlags().String("config", "", "config file (default $HOME/.crewplan/crewplan.yaml)")

	root.AddCommand(
		newProjectCmd(app),
		newResourceCmd(app),
		newAssignCmd(app),
		newLeaveCmd(app),
		newAvailableCmd(app),
		newConflictsCmd(app),
		newTaskCmd(app),
		newDepCmd(app),
		newCriticalCmd(app),
		newItemCmd(app),
		newImportCmd(app),
		newBoardCmd(app),
	)

	return root
}
