package git

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chmouel/hookgate/internal/run"
)

func TestStagedFiles(t *testing.T) {
	fake := &run.Fake{Results: []run.Result{
		{Stdout: "src/a.ts\n\nsrc/b.tsx\n"},
	}}
	svc := NewService(fake)

	files := svc.StagedFiles(context.Background(), "/repo", []string{".ts", ".tsx"})

	assert.Equal(t, []string{"src/a.ts", "src/b.tsx"}, files)
	require.Len(t, fake.Calls, 1)
	assert.Equal(t, []string{
		"git", "diff", "--cached", "--name-only", "--diff-filter=ACMR", "--", "*.ts", "*.tsx",
	}, fake.Calls[0].Argv)
	assert.Equal(t, "/repo", fake.Calls[0].Dir)
}

func TestStagedFilesGitFailure(t *testing.T) {
	fake := &run.Fake{Results: []run.Result{{ExitCode: 128, Stderr: "not a git repository"}}}
	svc := NewService(fake)

	assert.Empty(t, svc.StagedFiles(context.Background(), "/repo", []string{".ts"}))
}

func TestShowStaged(t *testing.T) {
	fake := &run.Fake{Results: []run.Result{{Stdout: "const x = 1;\n"}}}
	svc := NewService(fake)

	content, err := svc.ShowStaged(context.Background(), "/repo", "src/a.ts")

	require.NoError(t, err)
	assert.Equal(t, "const x = 1;\n", content)
	assert.Equal(t, []string{"git", "show", ":src/a.ts"}, fake.Calls[0].Argv)
}

func TestShowStagedFailure(t *testing.T) {
	fake := &run.Fake{Results: []run.Result{{ExitCode: 128, Stderr: "fatal: path not in index"}}}
	svc := NewService(fake)

	_, err := svc.ShowStaged(context.Background(), "/repo", "src/a.ts")

	assert.ErrorContains(t, err, "not in index")
}

func TestAddWorktreeNewBranch(t *testing.T) {
	fake := &run.Fake{}
	svc := NewService(fake)

	err := svc.AddWorktree(context.Background(), "/repo", "/repo/.hookgate/worktrees/x", "worktree/x")

	require.NoError(t, err)
	require.Len(t, fake.Calls, 1)
	assert.Equal(t, []string{
		"git", "worktree", "add", "-b", "worktree/x", "/repo/.hookgate/worktrees/x",
	}, fake.Calls[0].Argv)
}

func TestAddWorktreeExistingBranchFallback(t *testing.T) {
	fake := &run.Fake{Results: []run.Result{
		{ExitCode: 128, Stderr: "branch already exists"},
		{},
	}}
	svc := NewService(fake)

	err := svc.AddWorktree(context.Background(), "/repo", "/wt", "worktree/x")

	require.NoError(t, err)
	require.Len(t, fake.Calls, 2)
	assert.Equal(t, []string{"git", "worktree", "add", "/wt", "worktree/x"}, fake.Calls[1].Argv)
}

func TestAddWorktreeBothAttemptsFail(t *testing.T) {
	fake := &run.Fake{Results: []run.Result{
		{ExitCode: 128, Stderr: "branch already exists"},
		{ExitCode: 128, Stderr: "worktree path exists"},
	}}
	svc := NewService(fake)

	err := svc.AddWorktree(context.Background(), "/repo", "/wt", "worktree/x")

	assert.ErrorContains(t, err, "worktree path exists")
}
