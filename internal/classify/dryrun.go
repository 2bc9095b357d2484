package classify

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/frier-sam/claude-code-protect/internal/model"
)

// Tier-2 dry-run bounds. Re-execution happens in a provably
// non-destructive form, in the original cwd, with a restricted
// environment.
const (
	dryRunTimeout   = 5 * time.Second
	dryRunMaxOutput = 1 << 20
)

// dryRunEnvKeys is the safe environment subset passed to re-executed
// commands.
var dryRunEnvKeys = []string{"PATH", "HOME", "LANG", "TERM"}

func dryRunEnv() []string {
	var env []string
	for _, key := range dryRunEnvKeys {
		if v := os.Getenv(key); v != "" {
			env = append(env, key+"="+v)
		}
	}
	return env
}

// isFindDelete reports whether the tokens are a find invocation that
// deletes its matches (-delete, or -exec/-execdir/-ok/-okdir rm).
func isFindDelete(tokens []string) bool {
	if len(tokens) == 0 || baseName(tokens[0]) != "find" {
		return false
	}
	for i, tok := range tokens {
		switch tok {
		case "-delete":
			return true
		case "-exec", "-execdir", "-ok", "-okdir":
			if i+1 < len(tokens) && baseName(tokens[i+1]) == "rm" {
				return true
			}
		}
	}
	return false
}

// findPrintArgs rewrites find arguments into a non-destructive form:
// -delete is dropped, action blocks are dropped through their ; or +
// terminator, and -print is appended.
func findPrintArgs(tokens []string) []string {
	var out []string
	for i := 1; i < len(tokens); {
		tok := tokens[i]
		switch tok {
		case "-delete":
			i++
		case "-exec", "-execdir", "-ok", "-okdir":
			i++
			for i < len(tokens) && tokens[i] != ";" && tokens[i] != "+" {
				i++
			}
			if i < len(tokens) {
				i++
			}
		default:
			out = append(out, tok)
			i++
		}
	}
	return append(out, "-print")
}

// isGitClean reports whether the tokens are a git clean invocation with
// a force flag (any short-flag cluster containing f, or --force).
func isGitClean(tokens []string) bool {
	if len(tokens) < 2 || baseName(tokens[0]) != "git" || tokens[1] != "clean" {
		return false
	}
	for _, tok := range tokens[2:] {
		if tok == "--force" {
			return true
		}
		if strings.HasPrefix(tok, "-") && !strings.HasPrefix(tok, "--") && strings.ContainsRune(tok, 'f') {
			return true
		}
	}
	return false
}

// gitCleanDryArgs rewrites git clean arguments with every f stripped
// from short-flag clusters and -n prepended.
func gitCleanDryArgs(tokens []string) []string {
	args := []string{"clean", "-n"}
	for _, tok := range tokens[2:] {
		if tok == "--force" {
			continue
		}
		if strings.HasPrefix(tok, "-") && !strings.HasPrefix(tok, "--") {
			cluster := strings.ReplaceAll(tok[1:], "f", "")
			if cluster == "" {
				continue
			}
			args = append(args, "-"+cluster)
			continue
		}
		args = append(args, tok)
	}
	return args
}

// runDry executes name with args in cwd under the dry-run bounds and
// returns trimmed, non-empty stdout lines.
func runDry(ctx context.Context, name string, args []string, cwd string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, dryRunTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = cwd
	cmd.Env = dryRunEnv()
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		return nil, fmt.Errorf("dry-run %s timed out after %s", name, dryRunTimeout)
	}
	if err != nil {
		return nil, fmt.Errorf("dry-run %s: %w", name, err)
	}
	if stdout.Len() > dryRunMaxOutput {
		return nil, fmt.Errorf("dry-run %s produced oversize output", name)
	}

	var lines []string
	for _, line := range strings.Split(stdout.String(), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, nil
}

// dryRunFind re-executes a find deletion as find ... -print and turns
// each output line into a target.
func dryRunFind(ctx context.Context, tokens []string, cwd string) ([]model.Target, error) {
	lines, err := runDry(ctx, "find", findPrintArgs(tokens), cwd)
	if err != nil {
		return nil, err
	}
	targets := make([]model.Target, 0, len(lines))
	for _, line := range lines {
		targets = append(targets, ResolveTarget(line, cwd, model.TierDryRun))
	}
	return targets, nil
}

// dryRunGitClean re-executes git clean with -n and parses the
// "Would remove <path>" lines.
func dryRunGitClean(ctx context.Context, tokens []string, cwd string) ([]model.Target, error) {
	lines, err := runDry(ctx, "git", gitCleanDryArgs(tokens), cwd)
	if err != nil {
		return nil, err
	}
	var targets []model.Target
	for _, line := range lines {
		rel, ok := strings.CutPrefix(line, "Would remove ")
		if !ok {
			continue
		}
		if !filepath.IsAbs(rel) {
			rel = filepath.Join(cwd, rel)
		}
		targets = append(targets, ResolveTarget(rel, cwd, model.TierDryRun))
	}
	return targets, nil
}
