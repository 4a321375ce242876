package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/alexanderramin/crewplan/internal/cli/formatter"
	"github.com/alexanderramin/crewplan/internal/domain"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newBoardCmd(app *App) *cobra.Command {
	var from, to time.Time

	cmd := &cobra.Command{
		Use:   "board",
		Short: "Browse bookings in a window, with double-bookings flagged",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			m := newBoardModel(ctx, app, app.window(from, to))

			if !app.interactive() {
				// Without a terminal print one static frame.
				m = m.apply(m.load())
				fmt.Fprintln(cmd.OutOrStdout(), m.View())
				return m.err
			}

			p := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen())
			_, err := p.Run()
			return err
		},
	}

	dateVar(cmd.Flags(), &from, "from", "Window start (default today)")
	dateVar(cmd.Flags(), &to, "to", "Window end (default from + window days)")

	return cmd
}

type boardKeys struct {
	Prev, Next, Refresh, Quit key.Binding
}

var defaultBoardKeys = boardKeys{
	Prev:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "earlier")),
	Next:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "later")),
	Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Quit:    key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

// boardLoadedMsg carries one window's bookings.
type boardLoadedMsg struct {
	window    domain.DateRange
	rows      []table.Row
	conflicts int
	err       error
}

// boardModel is a read-only table of every booking overlapping a window.
type boardModel struct {
	ctx    context.Context
	app    *App
	window domain.DateRange
	keys   boardKeys

	table     table.Model
	conflicts int
	loading   bool
	err       error
}

func newBoardModel(ctx context.Context, app *App, window domain.DateRange) boardModel {
	columns := []table.Column{
		{Title: "!", Width: 1},
		{Title: "Resource", Width: 20},
		{Title: "Project", Width: 14},
		{Title: "On site", Width: 24},
		{Title: "Travel", Width: 7},
		{Title: "Assignment", Width: 36},
	}
	t := table.New(table.WithColumns(columns), table.WithFocused(true), table.WithHeight(15))
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Foreground(formatter.ColorHeader).Bold(true)
	styles.Selected = styles.Selected.Foreground(formatter.ColorFg).Background(formatter.ColorDim)
	t.SetStyles(styles)

	return boardModel{ctx: ctx, app: app, window: window, keys: defaultBoardKeys, table: t, loading: true}
}

func (m boardModel) Init() tea.Cmd {
	return func() tea.Msg { return m.load() }
}

// load fetches the window's bookings and marks the ones in a conflict pair.
func (m boardModel) load() boardLoadedMsg {
	msg := boardLoadedMsg{window: m.window}
	report, err := m.app.Conflicts.DetectAllConflicts(m.ctx, m.window)
	if err != nil {
		msg.err = err
		return msg
	}
	names, err := resourceNames(m.ctx, m.app)
	if err != nil {
		msg.err = err
		return msg
	}

	assignments := report.Assignments
	sort.SliceStable(assignments, func(i, j int) bool {
		ni, nj := names[assignments[i].ResourceID], names[assignments[j].ResourceID]
		if ni != nj {
			return ni < nj
		}
		return assignments[i].StartDate.Before(assignments[j].StartDate)
	})

	for _, a := range assignments {
		flag := ""
		if _, hit := report.IDs[a.ID]; hit {
			flag = "✖"
			msg.conflicts++
		}
		travel := ""
		if a.TravelOutDays > 0 || a.TravelBackDays > 0 {
			travel = fmt.Sprintf("+%d/+%d", a.TravelOutDays, a.TravelBackDays)
		}
		name := names[a.ResourceID]
		if name == "" {
			name = a.ResourceID
		}
		msg.rows = append(msg.rows, table.Row{flag, name, a.ProjectID, a.Range().String(), travel, a.ID})
	}
	return msg
}

func (m boardModel) apply(msg boardLoadedMsg) boardModel {
	if !msg.window.Start.Equal(m.window.Start) || !msg.window.End.Equal(m.window.End) {
		// A stale load for a window the user has already scrolled away from.
		return m
	}
	m.loading = false
	m.err = msg.err
	m.conflicts = msg.conflicts
	m.table.SetRows(msg.rows)
	m.table.SetCursor(0)
	return m
}

func (m boardModel) shift(days int) (boardModel, tea.Cmd) {
	m.window = domain.NewDateRange(domain.AddDays(m.window.Start, days), domain.AddDays(m.window.End, days))
	m.loading = true
	return m, m.Init()
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case boardLoadedMsg:
		return m.apply(msg), nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(max(msg.Height-6, 3))
		return m, nil

	case tea.KeyMsg:
		span := m.window.Days()
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Prev):
			return m.shift(-span)
		case key.Matches(msg, m.keys.Next):
			return m.shift(span)
		case key.Matches(msg, m.keys.Refresh):
			m.loading = true
			return m, m.Init()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m boardModel) View() string {
	var b strings.Builder
	b.WriteString(formatter.Header("Board · " + m.window.String()))
	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString(formatter.Warn("Error: " + m.err.Error()))
	case m.loading:
		b.WriteString(formatter.Dim("Loading…"))
	case len(m.table.Rows()) == 0:
		b.WriteString(formatter.Dim("No bookings in this window."))
	default:
		b.WriteString(m.table.View())
		b.WriteString("\n")
		summary := fmt.Sprintf("%d booking(s)", len(m.table.Rows()))
		if m.conflicts > 0 {
			summary += "  " + formatter.Warn(fmt.Sprintf("%d in conflict", m.conflicts))
		}
		b.WriteString(summary)
	}

	b.WriteString("\n")
	var help []string
	for _, k := range []key.Binding{m.keys.Prev, m.keys.Next, m.keys.Refresh, m.keys.Quit} {
		h := k.Help()
		help = append(help, h.Key+" "+h.Desc)
	}
	b.WriteString(formatter.Dim(strings.Join(help, " · ")))
	return b.String()
}
