package hooks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chmouel/hookgate/internal/run"
)

func bashPayload(command string) *Payload {
	return &Payload{ToolName: "Bash", ToolInput: ToolInput{Command: command}}
}

func writePayload(path string) *Payload {
	return &Payload{ToolName: "Write", ToolInput: ToolInput{FilePath: path}}
}

func TestBlockNoVerify(t *testing.T) {
	tests := []struct {
		name    string
		payload *Payload
		want    Decision
	}{
		{name: "plain commit allowed", payload: bashPayload(`git commit -m "feat: x"`), want: Allow},
		{name: "no-verify flag blocked", payload: bashPayload("git commit --no-verify"), want: Block},
		{name: "short flag mid-command blocked", payload: bashPayload(`git commit -n -m "x"`), want: Block},
		{name: "short flag at end blocked", payload: bashPayload("git commit -n"), want: Block},
		{name: "non-git command with -n allowed", payload: bashPayload("tail -n 5 file"), want: Allow},
		{name: "non-bash tool allowed", payload: writePayload("a.ts"), want: Allow},
		{name: "empty command allowed", payload: bashPayload(""), want: Allow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newEnv(t, tt.payload)
			assert.Equal(t, tt.want, blockNoVerify(context.Background(), f.env))
		})
	}
}

func TestCommitMessage(t *testing.T) {
	tests := []struct {
		name    string
		command string
		want    Decision
	}{
		{name: "conventional feat", command: `git commit -m "feat: add login"`, want: Allow},
		{name: "conventional with scope", command: `git commit -m "fix(auth): token refresh"`, want: Allow},
		{name: "task scope", command: `git commit -m "feat(task-1): implement feature"`, want: Allow},
		{name: "missing type", command: `git commit -m "add login"`, want: Block},
		{name: "unknown type", command: `git commit -m "feature: add login"`, want: Block},
		{name: "missing description", command: `git commit -m "feat:"`, want: Block},
		{name: "unparseable message allowed", command: `git commit -F msgfile`, want: Allow},
		{name: "not a commit", command: "git status", want: Allow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newEnv(t, bashPayload(tt.command))
			assert.Equal(t, tt.want, commitMessage(context.Background(), f.env))
		})
	}
}

func TestCommitMessageHeredoc(t *testing.T) {
	command := "git commit -m \"$(cat <<'EOF'\nchore: tidy imports\n\nLonger body here.\nEOF\n)\""
	f := newEnv(t, bashPayload(command))

	assert.Equal(t, Allow, commitMessage(context.Background(), f.env))

	bad := "git commit -m \"$(cat <<'EOF'\njust some words\nEOF\n)\""
	f = newEnv(t, bashPayload(bad))

	assert.Equal(t, Block, commitMessage(context.Background(), f.env))
	assert.Contains(t, f.errOut.String(), "conventional commit format")
}

func TestKebabCase(t *testing.T) {
	tests := []struct {
		name string
		path string
		want Decision
	}{
		{name: "kebab file", path: "src/send-message.ts", want: Allow},
		{name: "single word", path: "src/utils.ts", want: Allow},
		{name: "dotted kebab segments", path: "tsup.config.ts", want: Allow},
		{name: "pascal case", path: "src/ChatWindow.tsx", want: Block},
		{name: "camel case", path: "src/apiClient.ts", want: Block},
		{name: "snake case", path: "src/api_client.ts", want: Block},
		{name: "router underscore file", path: "src/__root.tsx", want: Allow},
		{name: "dotfile", path: ".gitignore", want: Allow},
		{name: "readme", path: "README.md", want: Allow},
		{name: "all caps", path: "USAGE_GUIDE.md", want: Allow},
		{name: "exempt directory", path: "AI_RESEARCH/Whatever Name.md", want: Allow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newEnv(t, writePayload(tt.path))
			assert.Equal(t, tt.want, kebabCase(context.Background(), f.env))
		})
	}
}

func TestKebabCaseSuggestion(t *testing.T) {
	f := newEnv(t, writePayload("src/ApiClient.tsx"))

	require.Equal(t, Block, kebabCase(context.Background(), f.env))
	assert.Contains(t, f.errOut.String(), `"api-client.tsx"`)
}

func TestKebabCaseIgnoresOtherTools(t *testing.T) {
	f := newEnv(t, bashPayload("ls"))
	assert.Equal(t, Allow, kebabCase(context.Background(), f.env))
}

func TestAnyTypesBlocksStagedAny(t *testing.T) {
	f := newEnv(t, bashPayload(`git commit -m "feat: x"`))
	f.fake.Handler = func(spec run.Spec) run.Result {
		switch spec.Argv[1] {
		case "diff":
			return run.Result{Stdout: "src/api.ts\nsrc/types.d.ts\n"}
		case "show":
			return run.Result{Stdout: "const x: any = 1;\n// comment with : any is fine\n"}
		}
		return run.Result{}
	}

	decision := anyTypes(context.Background(), f.env)

	assert.Equal(t, Block, decision)
	assert.Contains(t, f.errOut.String(), "src/api.ts:1")
	assert.NotContains(t, f.errOut.String(), "types.d.ts", "declaration files are skipped")
}

func TestAnyTypesPatterns(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Decision
	}{
		{name: "annotation", line: "const x: any = 1;", want: Block},
		{name: "assertion", line: "return value as any;", want: Block},
		{name: "generic", line: "const m = new Map<any, string>();", want: Block},
		{name: "array", line: "let items: any[] = [];", want: Block},
		{name: "union left", line: "type T = any | string;", want: Block},
		{name: "union right", line: "type T = string | any;", want: Block},
		{name: "word containing any", line: "const company = getCompany();", want: Allow},
		{name: "comment line skipped", line: "// cast as any later", want: Allow},
		{name: "clean line", line: "const x: number = 1;", want: Allow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newEnv(t, bashPayload("git commit"))
			f.fake.Handler = func(spec run.Spec) run.Result {
				if spec.Argv[1] == "diff" {
					return run.Result{Stdout: "src/api.ts\n"}
				}
				return run.Result{Stdout: tt.line + "\n"}
			}
			assert.Equal(t, tt.want, anyTypes(context.Background(), f.env))
		})
	}
}

func TestAnyTypesNoStagedFiles(t *testing.T) {
	f := newEnv(t, bashPayload("git commit"))
	f.fake.Handler = func(spec run.Spec) run.Result {
		return run.Result{Stdout: ""}
	}

	assert.Equal(t, Allow, anyTypes(context.Background(), f.env))
}
