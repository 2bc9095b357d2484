// Package classify turns a shell command line into a deletion
// classification. It is a three-tier analyser: obfuscation markers are
// checked first on the raw string, then recognized dry-run templates
// (find -delete, git clean -f) are re-executed non-destructively, then
// direct deletion verbs are parsed token by token. Segments merge
// conservatively: any unresolvable segment wins.
package classify

import (
	"context"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/frier-sam/claude-code-protect/internal/model"
)

// Classify analyses one command line in the context of cwd.
func Classify(ctx context.Context, command, cwd string) model.Classification {
	if strings.TrimSpace(command) == "" {
		return model.Classification{Kind: model.NotDeletion}
	}

	// Tier 3 runs before everything else so obfuscated deletions are
	// never optimistically resolved.
	if hit, reason := DetectObfuscation(command); hit {
		return model.Classification{Kind: model.Unresolvable, Reason: reason}
	}

	var all []model.Target
	sawDeletion := false
	for _, seg := range SplitSegments(command) {
		res := classifySegment(ctx, seg, cwd)
		switch res.Kind {
		case model.Unresolvable:
			// Strictest decision wins for the whole command.
			return model.Classification{Kind: model.Unresolvable, Reason: res.Reason}
		case model.Deletion:
			sawDeletion = true
			all = append(all, res.Targets...)
		}
	}
	if !sawDeletion {
		return model.Classification{Kind: model.NotDeletion}
	}
	return model.Classification{Kind: model.Deletion, Targets: dedupe(all)}
}

func classifySegment(ctx context.Context, segment, cwd string) model.Classification {
	tokens, err := shellquote.Split(segment)
	if err != nil {
		// Unterminated quoting. Only conservative if a deletion verb is
		// visible in the raw text.
		if mentionsDeletion(segment) {
			return model.Classification{Kind: model.Unresolvable, Reason: "unparseable segment"}
		}
		return model.Classification{Kind: model.NotDeletion}
	}

	tokens = StripPrefixes(tokens)
	if len(tokens) == 0 {
		return model.Classification{Kind: model.NotDeletion}
	}

	// xargs deletion pipelines take their paths from upstream output the
	// command text never shows.
	if baseName(tokens[0]) == "xargs" {
		for _, tok := range tokens[1:] {
			if isDeleteVerb(tok) {
				return model.Classification{
					Kind:   model.Unresolvable,
					Reason: "xargs deletion targets are not enumerable",
				}
			}
		}
	}

	if isFindDelete(tokens) {
		targets, err := dryRunFind(ctx, tokens, cwd)
		if err != nil {
			return model.Classification{Kind: model.Unresolvable, Reason: err.Error()}
		}
		return model.Classification{Kind: model.Deletion, Targets: targets}
	}
	if isGitClean(tokens) {
		targets, err := dryRunGitClean(ctx, tokens, cwd)
		if err != nil {
			return model.Classification{Kind: model.Unresolvable, Reason: err.Error()}
		}
		return model.Classification{Kind: model.Deletion, Targets: targets}
	}

	verb := baseName(tokens[0])
	if _, ok := deleteVerbs[verb]; !ok {
		return model.Classification{Kind: model.NotDeletion}
	}
	targets, reason := parseDirect(verb, tokens[1:], cwd)
	if reason != "" {
		return model.Classification{Kind: model.Unresolvable, Reason: reason}
	}
	return model.Classification{Kind: model.Deletion, Targets: targets}
}

// mentionsDeletion scans raw text for a deletion verb. Used only when
// token splitting fails.
func mentionsDeletion(segment string) bool {
	for _, field := range strings.Fields(segment) {
		if isDeleteVerb(field) {
			return true
		}
	}
	return false
}

// dedupe collapses duplicate resolved paths, keeping first occurrence
// order.
func dedupe(targets []model.Target) []model.Target {
	seen := make(map[string]bool, len(targets))
	out := targets[:0]
	for _, t := range targets {
		if seen[t.Path] {
			continue
		}
		seen[t.Path] = true
		out = append(out, t)
	}
	return out
}
