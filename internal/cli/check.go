package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/frier-sam/claude-code-protect/internal/classify"
	"github.com/frier-sam/claude-code-protect/internal/config"
	"github.com/frier-sam/claude-code-protect/internal/model"
	"github.com/frier-sam/claude-code-protect/internal/zone"
)

var (
	checkCwd    string
	checkConfig string
	checkFormat string
)

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringVar(&checkCwd, "cwd", "", "Working directory to resolve relative paths against (default: current)")
	checkCmd.Flags().StringVar(&checkConfig, "config", "", "Path to config JSON (default: ~/.claude/claude-code-protect.json)")
	checkCmd.Flags().StringVarP(&checkFormat, "format", "f", "text", "Output format (text|json)")
}

var checkCmd = &cobra.Command{
	Use:   "check <command>",
	Short: "Classify a command without backups or prompts",
	Long: "Dry evaluation of the deletion pipeline: prints the classification,\n" +
		"the zone of every resolved target, and the decision the hook would\n" +
		"reach. Nothing is backed up and no terminal prompt is opened.",
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

// labeledTarget pairs a resolved target with its zone for reporting.
type labeledTarget struct {
	model.Target
	Zone model.Zone `json:"zone"`
}

// checkReport is the dry evaluation result.
type checkReport struct {
	Command     string          `json:"command"`
	Kind        model.Kind      `json:"kind"`
	Reason      string          `json:"reason,omitempty"`
	Targets     []labeledTarget `json:"targets,omitempty"`
	Decision    model.Decision  `json:"decision"`
	NeedsPrompt bool            `json:"needs_prompt"`
}

func runCheck(cmd *cobra.Command, args []string) error {
	cwd := checkCwd
	if cwd == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("cannot determine working directory: %w", err)
		}
		cwd = wd
	}

	path := checkConfig
	if path == "" {
		path = config.DefaultPath()
	}
	cfg := config.Load(path, cmd.ErrOrStderr())
	roots := zone.Roots{
		Workspace:   config.Workspace(cwd),
		Whitelisted: cfg.WhitelistedFolders,
		Tmp:         zone.DefaultTmpDirs(),
	}

	cls := classify.Classify(cmd.Context(), args[0], cwd)
	report := checkReport{Command: args[0], Kind: cls.Kind, Reason: cls.Reason, Decision: model.Allow}

	switch cls.Kind {
	case model.Unresolvable:
		report.Decision = model.Block
		report.NeedsPrompt = true
	case model.Deletion:
		for _, t := range cls.Targets {
			label, _ := roots.Classify(t.Path)
			report.Targets = append(report.Targets, labeledTarget{Target: t, Zone: label})
			if label == model.ZoneOutside {
				report.Decision = model.Block
				report.NeedsPrompt = true
			}
		}
	}

	switch checkFormat {
	case "json":
		out, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
	default:
		printCheckText(cmd, report)
	}
	return nil
}

func printCheckText(cmd *cobra.Command, r checkReport) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "classification: %s\n", r.Kind)
	if r.Reason != "" {
		fmt.Fprintf(out, "reason: %s\n", r.Reason)
	}
	for _, t := range r.Targets {
		kind := "file"
		if t.IsDir {
			kind = "dir"
		}
		if !t.Exists {
			kind = "missing"
		}
		fmt.Fprintf(out, "  %-9s %-6s %s\n", t.Zone, kind, t.Path)
	}
	if r.NeedsPrompt {
		fmt.Fprintf(out, "decision: %s (would prompt for confirmation)\n", r.Decision)
		return
	}
	fmt.Fprintf(out, "decision: %s\n", r.Decision)
}
