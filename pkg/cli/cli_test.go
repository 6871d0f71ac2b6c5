package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"calendar-engine/core"
	"calendar-engine/pkg/persistence"
)

func writeCollection(t *testing.T, events []core.Event) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "events.json")
	require.NoError(t, persistence.NewFileStore(path).Save(context.Background(), events))

	return path
}

func writeConfig(t *testing.T, dataPath string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "storage:\n  driver: file\n  path: " + dataPath + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestExportCommand(t *testing.T) {
	start := time.Date(2024, time.January, 15, 9, 0, 0, 0, time.UTC)

	dataPath := writeCollection(t, []core.Event{
		{ID: "uuid-1", Title: "Team Sync", Start: start, End: start.Add(time.Hour), Color: core.ColorGreen},
	})
	configPath := writeConfig(t, dataPath)

	var out bytes.Buffer

	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"export", "--config", configPath})

	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "BEGIN:VCALENDAR")
	assert.Contains(t, out.String(), "SUMMARY:Team Sync")
}

func TestExportCommand_WritesFile(t *testing.T) {
	start := time.Date(2024, time.January, 15, 9, 0, 0, 0, time.UTC)

	dataPath := writeCollection(t, []core.Event{
		{ID: "uuid-1", Title: "Team Sync", Start: start, End: start.Add(time.Hour)},
	})
	configPath := writeConfig(t, dataPath)
	outPath := filepath.Join(t.TempDir(), "calendar.ics")

	cmd := NewRootCommand()
	cmd.SetArgs([]string{"export", "--config", configPath, "--output", outPath})

	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "SUMMARY:Team Sync")
}

func TestConflictsCommand(t *testing.T) {
	nine := time.Date(2024, time.January, 1, 9, 0, 0, 0, time.UTC)

	dataPath := writeCollection(t, []core.Event{
		{ID: "uuid-1", Title: "First", Start: nine, End: nine.Add(time.Hour)},
		{ID: "uuid-2", Title: "Second", Start: nine.Add(30 * time.Minute), End: nine.Add(90 * time.Minute)},
		{ID: "uuid-3", Title: "Later", Start: nine.Add(3 * time.Hour), End: nine.Add(4 * time.Hour)},
	})
	configPath := writeConfig(t, dataPath)

	var out bytes.Buffer

	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"conflicts", "--config", configPath})

	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "First (uuid-1) overlaps Second (uuid-2)")
	assert.Contains(t, out.String(), "1 overlapping pair(s) in 3 event(s)")
}

func TestConflictsCommand_NoConflicts(t *testing.T) {
	nine := time.Date(2024, time.January, 1, 9, 0, 0, 0, time.UTC)

	dataPath := writeCollection(t, []core.Event{
		{ID: "uuid-1", Title: "First", Start: nine, End: nine.Add(time.Hour)},
		{ID: "uuid-2", Title: "Abutting", Start: nine.Add(time.Hour), End: nine.Add(2 * time.Hour)},
	})
	configPath := writeConfig(t, dataPath)

	var out bytes.Buffer

	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"conflicts", "--config", configPath})

	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "0 overlapping pair(s) in 2 event(s)")
}
