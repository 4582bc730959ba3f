// Package fix applies the edits suggested by diagnostics back to the .flags
// sources they were reported on.
package fix

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"enumflags/internal/diag"
	"enumflags/internal/source"
)

// ErrNoFixes is returned when no fixes were applied.
var ErrNoFixes = errors.New("no applicable fixes found")

// ApplyMode determines selection strategy for fixes.
type ApplyMode uint8

const (
	ApplyModeOnce ApplyMode = iota // first fix in source order
	ApplyModeAll
	ApplyModeID
)

// ApplyOptions configures how fixes are selected.
type ApplyOptions struct {
	Mode     ApplyMode
	TargetID string
	// DryRun computes FileChange.Content without touching the disk.
	DryRun bool
}

// AppliedFix records a successfully applied fix.
type AppliedFix struct {
	ID          string
	Title       string
	Code        diag.Code
	Message     string
	PrimaryPath string
	EditCount   int
}

// SkippedFix captures a skipped fix with a reason.
type SkippedFix struct {
	ID     string
	Title  string
	Reason string
}

// FileChange summarises modifications performed on a file.
type FileChange struct {
	Path      string
	EditCount int
	Content   []byte
}

// ApplyResult aggregates applied fixes, skipped ones, and file changes.
type ApplyResult struct {
	Applied     []AppliedFix
	Skipped     []SkippedFix
	FileChanges []FileChange
}

type candidate struct {
	id    string
	diag  *diag.Diagnostic
	fix   *diag.Fix
	order int
}

// ID names the idx-th fix of d. It is stable for a given source text.
func ID(d *diag.Diagnostic, idx int) string {
	return fmt.Sprintf("%s-%d-%d-%d", d.Code.ID(), d.Primary.File, d.Primary.Start, idx)
}

// Apply collects fixes from diagnostics, selects a subset according to opts,
// and applies them.
func Apply(fs *source.FileSet, diagnostics []*diag.Diagnostic, opts ApplyOptions) (*ApplyResult, error) {
	result := &ApplyResult{}
	if fs == nil {
		return result, fmt.Errorf("fix: FileSet is nil")
	}

	candidates, skipped := gatherCandidates(diagnostics)
	result.Skipped = append(result.Skipped, skipped...)
	if len(candidates) == 0 {
		return result, ErrNoFixes
	}
	sortCandidates(candidates)

	selected, skipped := selectCandidates(candidates, opts)
	result.Skipped = append(result.Skipped, skipped...)
	if len(selected) == 0 {
		return result, ErrNoFixes
	}

	applied, skipped, changes, err := applyCandidates(fs, selected, opts.DryRun)
	result.Applied = applied
	result.Skipped = append(result.Skipped, skipped...)
	result.FileChanges = changes
	if err != nil {
		return result, err
	}
	if len(result.Applied) == 0 {
		return result, ErrNoFixes
	}
	return result, nil
}

func gatherCandidates(diagnostics []*diag.Diagnostic) ([]candidate, []SkippedFix) {
	var (
		cands []candidate
		skips []SkippedFix
	)
	seen := make(map[string]struct{})
	for _, d := range diagnostics {
		for idx, f := range d.Fixes {
			id := ID(d, idx)
			if f == nil || len(f.Edits) == 0 {
				skips = append(skips, SkippedFix{ID: id, Title: d.Message, Reason: "fix has no edits"})
				continue
			}
			if _, dup := seen[id]; dup {
				skips = append(skips, SkippedFix{ID: id, Title: f.Title, Reason: "duplicate fix id"})
				continue
			}
			seen[id] = struct{}{}
			cands = append(cands, candidate{id: id, diag: d, fix: f, order: len(cands)})
		}
	}
	return cands, skips
}

// sortCandidates orders by file, span start, span end, then insertion order.
func sortCandidates(candidates []candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		di, dj := candidates[i].diag.Primary, candidates[j].diag.Primary
		if di.File != dj.File {
			return di.File < dj.File
		}
		if di.Start != dj.Start {
			return di.Start < dj.Start
		}
		if di.End != dj.End {
			return di.End < dj.End
		}
		return candidates[i].order < candidates[j].order
	})
}

func selectCandidates(candidates []candidate, opts ApplyOptions) ([]candidate, []SkippedFix) {
	switch opts.Mode {
	case ApplyModeID:
		for _, cand := range candidates {
			if cand.id == opts.TargetID {
				return []candidate{cand}, nil
			}
		}
		return nil, []SkippedFix{{ID: opts.TargetID, Reason: "fix id not found"}}
	case ApplyModeAll:
		return candidates, nil
	case ApplyModeOnce:
		return candidates[:1], nil
	default:
		return nil, nil
	}
}

type fileEdits struct {
	file  *source.File
	edits []diag.FixEdit
}

func applyCandidates(fs *source.FileSet, selected []candidate, dryRun bool) ([]AppliedFix, []SkippedFix, []FileChange, error) {
	var (
		applied []AppliedFix
		skipped []SkippedFix
	)
	files := make(map[source.FileID]*fileEdits)
	baseDir := fs.BaseDir()

	for _, cand := range selected {
		// все правки одного fix принимаются или отклоняются вместе
		reason := ""
		for _, e := range cand.fix.Edits {
			file := fs.Get(e.Span.File)
			switch {
			case file.Flags&source.FileVirtual != 0:
				reason = "target file is virtual"
			case e.Span.End < e.Span.Start || int(e.Span.End) > len(file.Content):
				reason = "edit span out of range"
			case files[e.Span.File] != nil && conflicts(files[e.Span.File].edits, e):
				reason = fmt.Sprintf("conflicts with previously applied edits in %s", file.FormatPath("auto", baseDir))
			case conflicts(otherEdits(cand.fix.Edits, e), e):
				reason = "fix has overlapping edits"
			}
			if reason != "" {
				break
			}
		}
		if reason != "" {
			skipped = append(skipped, SkippedFix{ID: cand.id, Title: cand.fix.Title, Reason: reason})
			continue
		}
		for _, e := range cand.fix.Edits {
			fe := files[e.Span.File]
			if fe == nil {
				fe = &fileEdits{file: fs.Get(e.Span.File)}
				files[e.Span.File] = fe
			}
			fe.edits = append(fe.edits, e)
		}
		primary := fs.Get(cand.diag.Primary.File)
		applied = append(applied, AppliedFix{
			ID:          cand.id,
			Title:       cand.fix.Title,
			Code:        cand.diag.Code,
			Message:     cand.diag.Message,
			PrimaryPath: primary.FormatPath("auto", baseDir),
			EditCount:   len(cand.fix.Edits),
		})
	}

	changes := make([]FileChange, 0, len(files))
	for _, fe := range files {
		content := rewrite(fe.file.Content, fe.edits)
		if !dryRun {
			mode := os.FileMode(0o644)
			if info, err := os.Stat(fe.file.Path); err == nil {
				mode = info.Mode()
			}
			if err := os.WriteFile(fe.file.Path, content, mode); err != nil {
				return applied, skipped, changes, fmt.Errorf("write %s: %w", fe.file.Path, err)
			}
		}
		changes = append(changes, FileChange{
			Path:      fe.file.FormatPath("relative", baseDir),
			EditCount: len(fe.edits),
			Content:   content,
		})
	}
	sort.Slice(changes, func(i, j int) bool { return changes[i].Path < changes[j].Path })
	return applied, skipped, changes, nil
}

// rewrite applies non-overlapping edits from the end of the buffer so that
// earlier offsets stay valid.
func rewrite(content []byte, edits []diag.FixEdit) []byte {
	sorted := append([]diag.FixEdit(nil), edits...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Span.Start > sorted[j].Span.Start
	})
	out := append([]byte(nil), content...)
	for _, e := range sorted {
		tail := append([]byte(e.NewText), out[e.Span.End:]...)
		out = append(out[:e.Span.Start], tail...)
	}
	return out
}

func otherEdits(edits []diag.FixEdit, self diag.FixEdit) []diag.FixEdit {
	out := make([]diag.FixEdit, 0, len(edits))
	skippedSelf := false
	for _, e := range edits {
		if !skippedSelf && e == self {
			skippedSelf = true
			continue
		}
		out = append(out, e)
	}
	return out
}

func conflicts(existing []diag.FixEdit, e diag.FixEdit) bool {
	for _, prev := range existing {
		if prev.Span.File == e.Span.File && spansConflict(prev.Span, e.Span) {
			return true
		}
	}
	return false
}

// spansConflict treats spans as half-open intervals. Two insertions conflict
// only at the same offset, since their relative order would be ambiguous.
func spansConflict(a, b source.Span) bool {
	switch {
	case a.Start == a.End && b.Start == b.End:
		return a.Start == b.Start
	case a.Start == a.End:
		return b.Start <= a.Start && a.Start < b.End
	case b.Start == b.End:
		return a.Start <= b.Start && b.Start < a.End
	}
	return a.Start < b.End && b.Start < a.End
}
