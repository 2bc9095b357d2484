package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/frier-sam/claude-code-protect/internal/config"
	"github.com/frier-sam/claude-code-protect/internal/envelope"
	"github.com/frier-sam/claude-code-protect/internal/model"
	"github.com/frier-sam/claude-code-protect/internal/pipeline"
	"github.com/frier-sam/claude-code-protect/internal/prompt"
	"github.com/frier-sam/claude-code-protect/internal/zone"
)

var hookConfigPath string

func init() {
	rootCmd.AddCommand(hookCmd)
	hookCmd.Flags().StringVar(&hookConfigPath, "config", "", "Path to config JSON (default: ~/.claude/claude-code-protect.json)")
}

var hookCmd = &cobra.Command{
	Use:   "hook",
	Short: "Run the PreToolUse hook: envelope on stdin, decision as exit code",
	Long: "Reads a single JSON envelope from stdin, classifies the proposed\n" +
		"shell command, backs up trusted-zone deletion targets, and exits 0\n" +
		"(allow) or 2 (block). Register it as a PreToolUse hook for the Bash\n" +
		"tool. Exit codes other than 0 and 2 are never emitted.",
	Run: func(cmd *cobra.Command, args []string) {
		os.Exit(RunHook(cmd.Context(), os.Stdin, os.Stdout, os.Stderr))
	},
}

// RunHook is the fail-open boundary around the whole pipeline: any
// panic below collapses to an allow with a stderr note naming the
// stage. A bug in this tool must never stop the user.
func RunHook(ctx context.Context, stdin io.Reader, stdout, stderr io.Writer) (code int) {
	stage := "startup"
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(stderr, "deletion-guard: internal error in %s (failing open): %v\n", stage, r)
			code = model.ExitAllow
		}
	}()
	if ctx == nil {
		ctx = context.Background()
	}

	stage = "envelope"
	env, err := envelope.Read(stdin)
	if err != nil {
		fmt.Fprintf(stderr, "deletion-guard: %v (failing open)\n", err)
		return model.ExitAllow
	}
	if !env.IsBash() {
		return model.ExitAllow
	}

	stage = "config"
	path := hookConfigPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg := config.Load(path, stderr)

	stage = "pipeline"
	p := &pipeline.Pipeline{
		Config: cfg,
		Roots: zone.Roots{
			Workspace:   config.Workspace(env.Cwd),
			Whitelisted: cfg.WhitelistedFolders,
			Tmp:         zone.DefaultTmpDirs(),
		},
		Prompter: &prompt.TTY{},
		Out:      stdout,
		Err:      stderr,
	}
	return p.Run(ctx, env)
}
