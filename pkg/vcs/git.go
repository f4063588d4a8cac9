// Package vcs finds the files changed in a repository, either by asking git
// or by reading a list or a patch supplied by the caller.
package vcs

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

// DefaultBaseBranch is the branch feature work is compared against.
const DefaultBaseBranch = "master"

// DefaultBaseCommit is the commit the main branch is compared against.
const DefaultBaseCommit = "HEAD^1"

// Executor runs a git command and returns its standard output.
type Executor func(ctx context.Context, args ...string) (string, error)

// ExecGit returns an Executor running the git binary in dir.
func ExecGit(dir string) Executor {
	return func(ctx context.Context, args ...string) (string, error) {
		cmd := exec.CommandContext(ctx, "git", args...)
		cmd.Dir = dir

		var stdout, stderr bytes.Buffer
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr

		slog.Debug("running git", "dir", dir, "args", args)
		if err := cmd.Run(); err != nil {
			if msg := strings.TrimSpace(stderr.String()); msg != "" {
				return "", fmt.Errorf("%w: %s", err, msg)
			}
			return "", err
		}
		return stdout.String(), nil
	}
}

// Mode selects what the working tree is compared against.
type Mode struct {
	// MainBranch compares against BaseCommit instead of the merge base with
	// BaseBranch.
	MainBranch bool
	BaseBranch string
	BaseCommit string
}

// MergeBaseError is returned when the merge base with a branch cannot be
// found.
type MergeBaseError struct {
	Branch string
	Err    error
}

func (e *MergeBaseError) Error() string {
	return fmt.Sprintf("cannot find merge base with branch %s: %v", e.Branch, e.Err)
}

func (e *MergeBaseError) Unwrap() error { return e.Err }

// DiffError is returned when listing changed files fails.
type DiffError struct {
	Err error
}

func (e *DiffError) Error() string {
	return fmt.Sprintf("finding changed files failed: %v", e.Err)
}

func (e *DiffError) Unwrap() error { return e.Err }

// Git reads changes from git history.
type Git struct {
	exec Executor
}

// NewGit returns a Git using exec to run commands.
func NewGit(exec Executor) *Git {
	return &Git{exec: exec}
}

// DiffBase returns the commit changes are computed against.
func (g *Git) DiffBase(ctx context.Context, mode Mode) (string, error) {
	if mode.MainBranch {
		base := strings.TrimSpace(mode.BaseCommit)
		if base == "" {
			base = DefaultBaseCommit
		}
		return base, nil
	}

	branch := mode.BaseBranch
	if branch == "" {
		branch = DefaultBaseBranch
	}
	out, err := g.exec(ctx, "merge-base", branch, "HEAD")
	if err != nil {
		return "", &MergeBaseError{Branch: branch, Err: err}
	}
	return strings.TrimSpace(out), nil
}

// ChangedFiles lists the files changed since the diff base.
func (g *Git) ChangedFiles(ctx context.Context, mode Mode) ([]string, error) {
	base, err := g.DiffBase(ctx, mode)
	if err != nil {
		return nil, err
	}

	out, err := g.exec(ctx, "diff", "--no-commit-id", "--name-only", "-r", base)
	if err != nil {
		return nil, &DiffError{Err: err}
	}
	return lines(out), nil
}

func lines(s string) []string {
	var out []string
	for _, l := range strings.Split(s, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}
