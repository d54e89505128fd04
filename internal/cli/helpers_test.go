package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"github.com/roach88/daftar/internal/testutil"
)

// testEpoch is 1403/01/01 in the Jalali calendar.
var testEpoch = time.Date(2024, time.March, 20, 10, 0, 0, 0, time.UTC)

// cliHarness runs commands against one database with a stopped clock and
// a scripted lottery draw.
type cliHarness struct {
	t     *testing.T
	db    string
	clock *testutil.FixedClock
	draws []int64
	env   map[string]string
}

func newHarness(t *testing.T) *cliHarness {
	t.Helper()
	return &cliHarness{
		t:     t,
		db:    filepath.Join(t.TempDir(), "daftar.db"),
		clock: testutil.NewFixedClock(testEpoch),
		env:   map[string]string{"DAFTAR_TIMEZONE": "UTC"},
	}
}

type cliResult struct {
	stdout string
	stderr string
	err    error
}

// run executes one command. Each call builds a fresh command tree, as a
// new process would.
func (h *cliHarness) run(args ...string) cliResult {
	h.t.Helper()
	opts := &RootOptions{
		Now:   h.clock.Now,
		Rand:  testutil.NewFixedSource(h.draws...),
		NewID: func() string { return "draw-1" },
		LookupEnv: func(k string) (string, bool) {
			v, ok := h.env[k]
			return v, ok
		},
	}
	cmd := newRootCommand(opts)

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--db", h.db, "--env-file", ""}, args...))

	err := cmd.ExecuteContext(context.Background())
	return cliResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

// mustRun executes a command that has to succeed.
func (h *cliHarness) mustRun(args ...string) string {
	h.t.Helper()
	res := h.run(args...)
	require.NoError(h.t, res.err, "daftar %v\nstderr: %s", args, res.stderr)
	return res.stdout
}

// seedSales records four sales an hour apart starting at testEpoch.
func (h *cliHarness) seedSales() {
	h.t.Helper()
	for _, args := range [][]string{
		{"sale", "add", "Ana", "60,000", "--contact", "111", "--category", "vpn"},
		{"sale", "add", "Bo", "120000", "--contact", "222"},
		{"sale", "add", "Ana", "۴۰۰۰۰", "--contact", "333"},
		{"sale", "add", "Cy", "20000", "--contact", "444", "--category", "accessories"},
	} {
		h.mustRun(args...)
		h.clock.Advance(time.Hour)
	}
}

func assertGolden(t *testing.T, name string, got string) {
	t.Helper()
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, []byte(got))
}
