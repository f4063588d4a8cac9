package commands

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charypar/monobuild/pkg/graph"
	"github.com/charypar/monobuild/pkg/impact"
	"github.com/charypar/monobuild/pkg/manifest"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
}

// testRepo lays out a small monorepo and a quiet config file.
func testRepo(t *testing.T) (root, cfg string) {
	t.Helper()
	root = t.TempDir()
	writeFiles(t, root, map[string]string{
		"app/Dependencies":       "libs/lib1\nlibs/lib2\n",
		"libs/lib1/Dependencies": "libs/lib3\n",
		"libs/lib2/Dependencies": "libs/lib3/\n",
		"libs/lib3/Dependencies": "",
		"stack/Dependencies":     "# deploys the app\n!app\nmissing\n",
	})

	cfg = filepath.Join(t.TempDir(), "monobuild.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("log:\n  level: error\n"), 0o644))
	return root, cfg
}

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestPrint(t *testing.T) {
	root, cfg := testRepo(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "schedule",
			want: "app: \nlibs/lib1: \nlibs/lib2: \nlibs/lib3: \nstack: app\n",
		},
		{
			name: "dependencies",
			args: []string{"--dependencies"},
			want: "app: libs/lib1, libs/lib2\nlibs/lib1: libs/lib3\nlibs/lib2: libs/lib3\nlibs/lib3: \nstack: app\n",
		},
		{
			name: "full",
			args: []string{"--full"},
			want: "app: libs/lib1, libs/lib2\nlibs/lib1: libs/lib3\nlibs/lib2: libs/lib3\nlibs/lib3: \nstack: !app\n",
		},
		{
			name: "scope",
			args: []string{"--dependencies", "--scope", "libs/lib1"},
			want: "libs/lib1: libs/lib3\nlibs/lib3: \n",
		},
		{
			name: "scoped schedule",
			args: []string{"--scope", "stack"},
			want: "app: \nstack: app\n",
		},
		{
			name: "top level",
			args: []string{"--top-level"},
			want: "stack: \n",
		},
		{
			name: "where",
			args: []string{"--dependencies", "--where", `dir == "libs"`},
			want: "libs/lib1: libs/lib3\nlibs/lib2: libs/lib3\nlibs/lib3: \n",
		},
		{
			name: "dot",
			args: []string{"--dot", "--scope", "stack"},
			want: "digraph schedule {\n  rankdir=\"LR\"\n  node [shape=box]\n  \"app\"\n  \"stack\" -> \"app\"\n}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"print", "--config", cfg, "--root", root}, tt.args...)

			stdout, stderr, err := run(t, "", args...)
			require.NoError(t, err)

			assert.Equal(t, tt.want, stdout)
			assert.Contains(t, stderr, "warning: Unknown dependency missing of stack.")
		})
	}
}

func TestPrintYAML(t *testing.T) {
	root, cfg := testRepo(t)

	stdout, _, err := run(t, "", "print", "--config", cfg, "--root", root, "--yaml")
	require.NoError(t, err)

	g, err := manifest.ParseRepoManifestYAML([]byte(stdout))
	require.NoError(t, err)
	assert.Equal(t, []graph.Dependency{{Component: "app", Strength: graph.Strong}}, slices.Collect(g.Dependencies("stack")))
}

func TestPrintErrors(t *testing.T) {
	root, cfg := testRepo(t)

	_, _, err := run(t, "", "print", "--config", cfg, "--root", root, "--scope", "nope")
	assert.ErrorIs(t, err, impact.ErrUnknownScope)

	_, _, err = run(t, "", "print", "--config", cfg, "--root", root, "--where", "name +")
	assert.ErrorContains(t, err, "invalid selector")

	_, _, err = run(t, "", "print", "--config", cfg, "--root", root, "--dot", "--yaml")
	assert.Error(t, err)

	_, _, err = run(t, "", "print", "--config", cfg, "--dependency-files", "[")
	assert.Error(t, err)
}

func TestPrintFromRepoManifest(t *testing.T) {
	_, cfg := testRepo(t)
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"repo.txt":  "# whole repo\napp: lib, !db\nlib:\nthis is wrong\n",
		"repo.yaml": "app:\n  - lib\n  - \"!db\"\nlib: []\n",
	})

	stdout, stderr, err := run(t, "", "print", "--config", cfg, "-f", filepath.Join(dir, "repo.txt"))
	require.NoError(t, err)
	assert.Equal(t, "app: db\ndb: \nlib: \n", stdout)
	assert.Contains(t, stderr, "Bad line format: 4: 'this is wrong'")

	stdout, _, err = run(t, "", "print", "--config", cfg, "--full", "-f", filepath.Join(dir, "repo.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "app: !db, lib\ndb: \nlib: \n", stdout)
}

func TestDiffFromStdin(t *testing.T) {
	root, cfg := testRepo(t)

	stdout, _, err := run(t, "libs/lib3/src/lib.go\nREADME.md\n", "diff", "--config", cfg, "--root", root, "-")
	require.NoError(t, err)
	assert.Equal(t, "app: \nlibs/lib1: \nlibs/lib2: \nlibs/lib3: \nstack: app\n", stdout)

	stdout, _, err = run(t, "libs/lib1/x.go\n", "diff", "--config", cfg, "--root", root, "--dependencies", "-")
	require.NoError(t, err)
	assert.Equal(t, "app: libs/lib1\nlibs/lib1: \nstack: app\n", stdout)

	stdout, _, err = run(t, "docs/index.md\n", "diff", "--config", cfg, "--root", root, "-")
	require.NoError(t, err)
	assert.Equal(t, "", stdout)
}

func TestDiffRebuildStrong(t *testing.T) {
	root, cfg := testRepo(t)
	writeFiles(t, root, map[string]string{
		"app/Dependencies": "libs/lib1\n!libs/lib2\n",
	})

	stdout, _, err := run(t, "app/main.go\n", "diff", "--config", cfg, "--root", root, "-")
	require.NoError(t, err)
	assert.Equal(t, "app: \nstack: app\n", stdout)

	stdout, _, err = run(t, "app/main.go\n", "diff", "--config", cfg, "--root", root, "--rebuild-strong", "-")
	require.NoError(t, err)
	assert.Equal(t, "app: libs/lib2\nlibs/lib2: \nstack: app\n", stdout)
}

func TestDiffFromPatch(t *testing.T) {
	root, cfg := testRepo(t)
	patch := "--- a/libs/lib2/lib.go\n+++ b/libs/lib2/lib.go\n@@ -1 +1 @@\n-package lib\n+package lib2\n"
	patchFile := filepath.Join(t.TempDir(), "change.patch")
	require.NoError(t, os.WriteFile(patchFile, []byte(patch), 0o644))

	stdout, _, err := run(t, "", "diff", "--config", cfg, "--root", root, "--patch", patchFile)
	require.NoError(t, err)
	assert.Equal(t, "app: \nlibs/lib2: \nstack: app\n", stdout)

	stdout, _, err = run(t, patch, "diff", "--config", cfg, "--root", root, "--patch", "-", "--dot")
	require.NoError(t, err)
	assert.Equal(t, "digraph schedule {\n  rankdir=\"LR\"\n  node [shape=box]\n  \"app\"\n  \"libs/lib2\"\n  \"stack\" -> \"app\"\n}\n", stdout)
}

func TestDiffRejectsArguments(t *testing.T) {
	root, cfg := testRepo(t)

	_, _, err := run(t, "", "diff", "--config", cfg, "--root", root, "app")
	assert.ErrorContains(t, err, "only '-'")
}

func git(t *testing.T, dir string, args ...string) {
	t.Helper()
	full := append([]string{"-c", "user.email=ci@example.com", "-c", "user.name=CI", "-c", "commit.gpgsign=false"}, args...)
	cmd := exec.Command("git", full...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))
}

func TestDiffFromGit(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git is not installed")
	}
	root, cfg := testRepo(t)
	writeFiles(t, root, map[string]string{"libs/lib3/lib.go": "package lib3\n"})

	git(t, root, "init", "--quiet")
	git(t, root, "add", ".")
	git(t, root, "commit", "--quiet", "-m", "initial")
	writeFiles(t, root, map[string]string{"libs/lib3/lib.go": "package lib3 // changed\n"})
	git(t, root, "commit", "--quiet", "-am", "change lib3")

	stdout, _, err := run(t, "", "diff", "--config", cfg, "--root", root, "--main-branch")
	require.NoError(t, err)
	assert.Equal(t, "app: \nlibs/lib1: \nlibs/lib2: \nlibs/lib3: \nstack: app\n", stdout)

	_, _, err = run(t, "", "diff", "--config", cfg, "--root", root, "--base-branch", "no-such-branch")
	assert.ErrorContains(t, err, "cannot find merge base with branch no-such-branch")
}

func TestHelp(t *testing.T) {
	stdout, _, err := run(t, "", "--help")
	require.NoError(t, err)

	assert.Contains(t, stdout, "COMMANDS")
	assert.Contains(t, stdout, "print")
	assert.Contains(t, stdout, "diff")
}
