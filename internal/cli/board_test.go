package cli

import (
	"context"
	"testing"

	"github.com/alexanderramin/crewplan/internal/domain"
	"github.com/alexanderramin/crewplan/internal/service"
	"github.com/alexanderramin/crewplan/internal/testutil"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoardModel_ScrollsWindow(t *testing.T) {
	app := testApp(t)
	projectID, aliceID, _ := seedCrew(t, app)
	ctx := context.Background()

	_, err := app.Assignments.Create(ctx, service.CreateAssignmentRequest{
		ProjectID: projectID, ResourceID: aliceID,
		Start: testutil.MustDate("2024-01-16"), End: testutil.MustDate("2024-01-18"),
	})
	require.NoError(t, err)

	window := domain.NewDateRange(testutil.MustDate("2024-01-01"), testutil.MustDate("2024-01-07"))
	m := newBoardModel(ctx, app, window)
	m = m.apply(m.load())
	assert.Contains(t, m.View(), "No bookings in this window.")

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRight})
	require.NotNil(t, cmd)
	m = next.(boardModel)
	assert.Equal(t, testutil.MustDate("2024-01-08"), m.window.Start)
	assert.Contains(t, m.View(), "Loading")

	next, _ = m.Update(cmd())
	m = next.(boardModel)
	assert.Empty(t, m.table.Rows(), "Jan 8-14 is still empty")

	next, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m = next.(boardModel)
	next, _ = m.Update(cmd())
	m = next.(boardModel)
	require.Len(t, m.table.Rows(), 1)
	assert.Equal(t, "Alice", m.table.Rows()[0][1])
	assert.Contains(t, m.View(), "1 booking(s)")
}

func TestBoardModel_IgnoresStaleLoad(t *testing.T) {
	app := testApp(t)
	window := domain.NewDateRange(testutil.MustDate("2024-01-01"), testutil.MustDate("2024-01-07"))
	m := newBoardModel(context.Background(), app, window)

	stale := boardLoadedMsg{window: domain.NewDateRange(testutil.MustDate("2023-12-01"), testutil.MustDate("2023-12-07"))}
	m = m.apply(stale)
	assert.True(t, m.loading)
}

func TestBoardModel_Quit(t *testing.T) {
	app := testApp(t)
	m := newBoardModel(context.Background(), app, app.window(testutil.MustDate("2024-01-01"), testutil.MustDate("2024-01-02")))

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
