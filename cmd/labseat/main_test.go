package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xmhha/labseat/pkg/exchange"
	"github.com/0xmhha/labseat/pkg/ledger"
	"github.com/0xmhha/labseat/pkg/roster"
)

// cliEnv isolates the CLI from the user's home and database.
type cliEnv struct {
	home string
	db   string
}

func newCLIEnv(t *testing.T) cliEnv {
	t.Helper()
	home := t.TempDir()
	return cliEnv{home: home, db: filepath.Join(home, "board.db")}
}

func (c cliEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", c.home)
	t.Setenv("LABSEAT_DB", c.db)
	t.Setenv("LABSEAT_SEATS", "R11,R12,R13")
	t.Setenv("LABSEAT_TIMEZONE", "UTC")
	t.Setenv("LABSEAT_LOG_LEVEL", "error")

	root := newRootCmd()
	stdout := &bytes.Buffer{}
	root.SetOut(stdout)
	root.SetErr(&bytes.Buffer{})
	root.SetIn(strings.NewReader(""))
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), err
}

func (c cliEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := c.run(t, args...)
	require.NoError(t, err, "labseat %s", strings.Join(args, " "))
	return out
}

func TestVersion(t *testing.T) {
	out := newCLIEnv(t).mustRun(t, "version")
	assert.Equal(t, "labseat dev\n", out)
}

func TestSeatWorkflow(t *testing.T) {
	c := newCLIEnv(t)

	out := c.mustRun(t, "member", "add", "Kim", "--category", "D")
	assert.Contains(t, out, "added Kim [D]")
	c.mustRun(t, "member", "add", "Lee")

	out = c.mustRun(t, "seat", "assign", "R11", "Kim")
	assert.Contains(t, out, "Kim seated at R11")

	out = c.mustRun(t, "--format", "simple", "seat", "list")
	assert.Contains(t, out, "R11: Kim (present since")
	assert.Contains(t, out, "R12: empty")

	out = c.mustRun(t, "--format", "json", "member", "list", "--available")
	var available []roster.Member
	require.NoError(t, json.Unmarshal([]byte(out), &available))
	require.Len(t, available, 1)
	assert.Equal(t, "Lee", available[0].Name)

	out = c.mustRun(t, "seat", "away", "R11")
	assert.Equal(t, "R11 is now away\n", out)

	c.mustRun(t, "seat", "assign", "R12", "Lee")
	out = c.mustRun(t, "seat", "move", "R11", "R12")
	assert.Contains(t, out, "Kim moved R11 -> R12")
	assert.Contains(t, out, "Lee moved R12 -> R11")

	out = c.mustRun(t, "seat", "leave", "R12")
	assert.Contains(t, out, "Kim left R12")

	out = c.mustRun(t, "seat", "reset")
	assert.Equal(t, "cleared 1 seats\n", out)

	out = c.mustRun(t, "--format", "json", "session", "list")
	var records []exchange.SessionRecord
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	// R11 Kim, R12 Lee, then both restarted by the swap.
	assert.Len(t, records, 4)
	for _, r := range records {
		assert.NotNil(t, r.End, "session %s left open", r.ID)
	}
}

func TestLiveOnce(t *testing.T) {
	c := newCLIEnv(t)
	c.mustRun(t, "member", "add", "Kim")
	c.mustRun(t, "seat", "assign", "R11", "Kim")

	out := c.mustRun(t, "--format", "simple", "live", "--once")
	assert.True(t, strings.HasPrefix(out, "labseat live  "), out)
	assert.Contains(t, out, "R11: Kim (present since")
	assert.Contains(t, out, "R12: empty")
	assert.Contains(t, out, "\nThis week\n")
	assert.NotContains(t, out, clearScreen)
}

func TestSeatErrors(t *testing.T) {
	c := newCLIEnv(t)
	c.mustRun(t, "member", "add", "Kim")

	_, err := c.run(t, "seat", "assign", "R11", "Nobody")
	assert.True(t, errors.Is(err, roster.ErrMemberNotFound), "err = %v", err)

	_, err = c.run(t, "seat", "assign", "R99", "Kim")
	assert.Error(t, err)

	_, err = c.run(t, "seat", "assign", "R11")
	assert.Error(t, err)

	_, err = c.run(t, "--format", "xml", "seat", "list")
	assert.Error(t, err)
}

func TestSessionAdmin(t *testing.T) {
	c := newCLIEnv(t)
	c.mustRun(t, "member", "add", "Kim")

	out := c.mustRun(t, "session", "add", "Kim", "R11", "--start", "2024-01-09 09:00", "--end", "2024-01-09 11:00")
	require.True(t, strings.HasPrefix(out, "added session "))
	id := strings.TrimSpace(strings.TrimPrefix(out, "added session "))

	_, err := c.run(t, "session", "add", "Kim", "R11", "--start", "2024-01-09 11:00", "--end", "2024-01-09 09:00")
	assert.True(t, errors.Is(err, ledger.ErrInvalidRange), "err = %v", err)

	out = c.mustRun(t, "session", "list", "--member", "Kim")
	assert.Contains(t, out, "2h0m")

	c.mustRun(t, "session", "update", id, "--seat", "R12", "--end", "2024-01-09 12:30")
	out = c.mustRun(t, "--format", "json", "session", "list")
	var records []exchange.SessionRecord
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	require.Len(t, records, 1)
	assert.Equal(t, "R12", records[0].SeatID)
	require.NotNil(t, records[0].End)
	assert.Equal(t, time.Date(2024, 1, 9, 12, 30, 0, 0, time.UTC).UnixMilli(), *records[0].End)

	out = c.mustRun(t, "leaderboard", "--week", "2024-01-08")
	assert.Contains(t, out, "Leaderboard 1/8 - 1/14")
	assert.Contains(t, out, "3h30m")

	out = c.mustRun(t, "--format", "simple", "weeks")
	assert.Equal(t, "1/8 - 1/14: 3h30m\n", out)

	out = c.mustRun(t, "heatmap", "--from", "2024-01-08", "--to", "2024-01-14", "--csv")
	assert.Equal(t, "seatId,hours,count\nR11,0.00,0\nR12,3.50,1\nR13,0.00,0\n", out)

	out = c.mustRun(t, "--format", "simple", "timeline", "--date", "2024-01-09")
	assert.Contains(t, out, "R12 ")

	c.mustRun(t, "session", "remove", id)
	_, err = c.run(t, "session", "remove", id)
	assert.True(t, errors.Is(err, ledger.ErrSessionNotFound), "err = %v", err)
	_, err = c.run(t, "session", "update", id, "--seat", "R11")
	assert.True(t, errors.Is(err, ledger.ErrSessionNotFound), "err = %v", err)
}

func TestExportImport(t *testing.T) {
	src := newCLIEnv(t)
	src.mustRun(t, "member", "add", "Kim")
	src.mustRun(t, "session", "add", "Kim", "R11", "--start", "2024-01-09 09:00", "--end", "2024-01-09 11:00")

	file := filepath.Join(src.home, "board.json")
	out := src.mustRun(t, "export", "-o", file)
	assert.Contains(t, out, "exported to")

	dst := newCLIEnv(t)
	out = dst.mustRun(t, "import", file)
	assert.Contains(t, out, "imported 1 members, 1 sessions")

	exported := src.mustRun(t, "export")
	reexported := dst.mustRun(t, "export")
	assert.JSONEq(t, exported, reexported)

	bad := filepath.Join(dst.home, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("[]"), 0600))
	_, err := dst.run(t, "import", bad)
	assert.Error(t, err)

	_, err = dst.run(t, "import", filepath.Join(dst.home, "missing.json"))
	assert.Error(t, err)
}

func TestTickAndNotifications(t *testing.T) {
	c := newCLIEnv(t)

	out := c.mustRun(t, "tick")
	assert.NotEmpty(t, out)

	out = c.mustRun(t, "--format", "json", "notifications", "--consume")
	assert.Equal(t, "[]", strings.TrimSpace(out))
}

func TestConfigCommands(t *testing.T) {
	c := newCLIEnv(t)
	path := filepath.Join(c.home, "labseat.yaml")

	out := c.mustRun(t, "config", "init", "-o", path)
	assert.Contains(t, out, "Configuration written to: "+path)
	assert.FileExists(t, path)

	out = c.mustRun(t, "config", "init", "-o", path)
	assert.Contains(t, out, "Init cancelled.")

	out = c.mustRun(t, "--config", path, "config", "show")
	assert.Contains(t, out, "# Source: "+path)
	assert.Contains(t, out, "reset_start:")

	out = c.mustRun(t, "--config", path, "config", "path")
	assert.Contains(t, out, path+" [found]")

	_, err := c.run(t, "--config", filepath.Join(c.home, "nope.yaml"), "config", "show")
	assert.Error(t, err)
}

func TestParseTime(t *testing.T) {
	loc := time.FixedZone("KST", 9*3600)
	want := time.Date(2024, 1, 9, 9, 30, 0, 0, loc)

	tests := []struct {
		in      string
		wantErr bool
	}{
		{"2024-01-09 09:30", false},
		{"2024-01-09T09:30", false},
		{"2024-01-09T09:30:00+09:00", false},
		{"09:30", true},
		{"", true},
	}
	for _, tt := range tests {
		got, err := parseTime(tt.in, loc)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.True(t, got.Equal(want), "%s -> %v", tt.in, got)
	}
}
