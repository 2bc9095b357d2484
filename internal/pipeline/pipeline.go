// Package pipeline is the decision gate: it wires the classifier, zone
// labeller, backup engines, and prompt into the single-shot
// command-to-decision flow. Run is the one entry point and returns the
// exit code of the hook contract; all side effects go through injected
// writers and the Prompter, which keeps the flow testable end to end.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/frier-sam/claude-code-protect/internal/backup"
	"github.com/frier-sam/claude-code-protect/internal/classify"
	"github.com/frier-sam/claude-code-protect/internal/config"
	"github.com/frier-sam/claude-code-protect/internal/envelope"
	"github.com/frier-sam/claude-code-protect/internal/model"
	"github.com/frier-sam/claude-code-protect/internal/pathutil"
	"github.com/frier-sam/claude-code-protect/internal/prompt"
	"github.com/frier-sam/claude-code-protect/internal/zone"
)

// Pipeline holds the collaborators for one invocation. State between
// invocations lives only on disk.
type Pipeline struct {
	Config   *config.Config
	Roots    zone.Roots
	Prompter prompt.Prompter
	Out      io.Writer // informational diagnostics (host-visible)
	Err      io.Writer // block reasons
}

// Run classifies the envelope command, backs up trusted-zone targets,
// and returns the exit code: 0 allows, 2 blocks.
func (p *Pipeline) Run(ctx context.Context, env *envelope.Envelope) int {
	command := env.Command()
	if !env.IsBash() || strings.TrimSpace(command) == "" {
		return model.ExitAllow
	}
	cwd := env.WorkDir()

	cls := classify.Classify(ctx, command, cwd)
	switch cls.Kind {
	case model.NotDeletion:
		return model.ExitAllow
	case model.Unresolvable:
		return p.confirmUnresolvable(command, cls.Reason)
	}

	// Deletion: label every target. Backups group by zone root so each
	// manifest record carries the root it was trusted under.
	var outside []model.Target
	groups := make(map[string][]model.Target)
	for _, t := range cls.Targets {
		label, root := p.Roots.Classify(t.Path)
		switch label {
		case model.ZoneWorkspace, model.ZoneWhitelist:
			groups[root] = append(groups[root], t)
		case model.ZoneOutside:
			outside = append(outside, t)
		case model.ZoneTmp:
			// Allowed silently, never backed up.
		}
	}

	if len(outside) > 0 {
		if code := p.confirmOutside(command, outside); code != model.ExitAllow {
			return code
		}
	}

	// Backup completes before the decision is returned.
	if len(groups) > 0 {
		switch p.Config.BackupMode {
		case config.ModePerFolder:
			backup.NewPerFolder(p.Out).Run(groups)
		default:
			eng := backup.NewCentralized(p.Config.BackupRoot, command, p.Out)
			for root, targets := range groups {
				for _, t := range targets {
					eng.Backup(t, root)
				}
			}
		}
	}
	return model.ExitAllow
}

func (p *Pipeline) confirmUnresolvable(command, reason string) int {
	msg := fmt.Sprintf(
		"\nDeletion guard: cannot resolve deletion targets (%s):\n  %s\nAllow this deletion? [y/N] ",
		reason, pathutil.Scrub(command))
	if p.Prompter.Confirm(msg) {
		return model.ExitAllow
	}
	fmt.Fprintf(p.Err,
		"Deletion guard: unable to verify whether target paths are inside the workspace or a trusted zone (%s). "+
			"Rewrite using explicit file paths and avoid $(...), backticks, eval, base64 pipelines, and xargs deletion.\n",
		reason)
	return model.ExitBlock
}

func (p *Pipeline) confirmOutside(command string, outside []model.Target) int {
	var list strings.Builder
	for _, t := range outside {
		fmt.Fprintf(&list, "  %s\n", pathutil.Scrub(t.Path))
	}
	msg := fmt.Sprintf(
		"\nDeletion guard: the following paths are outside the workspace:\n%sCommand:\n  %s\nAllow deletion? [y/N] ",
		list.String(), pathutil.Scrub(command))
	if p.Prompter.Confirm(msg) {
		return model.ExitAllow
	}

	paths := make([]string, len(outside))
	for i, t := range outside {
		paths[i] = pathutil.Scrub(t.Path)
	}
	fmt.Fprintf(p.Err,
		"Deletion guard: deleting files outside the workspace or a trusted zone was not confirmed.\nBlocked: %s\n",
		strings.Join(paths, ", "))
	return model.ExitBlock
}
