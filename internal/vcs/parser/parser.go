// Package parser turns the textual porcelain output of a version
// control tool into the typed records in internal/vcs/model. It is
// grounded in the fixed output shapes the tool documents for
// status --porcelain, log, show --numstat --shortstat, and diff.
package parser

import (
	"fmt"
	"strings"
	"time"

	apperrors "github.com/deployrt/scmcore/pkg/errors"

	"github.com/deployrt/scmcore/internal/observability"
	"github.com/deployrt/scmcore/internal/vcs/model"
	"github.com/deployrt/scmcore/internal/vcs/reader"
)

// commitDateLayout is the fixed English month/day-of-week timestamp
// format emitted by the version-control tool when its locale is
// forced to invariant; it happens to equal Go's reference time layout.
const commitDateLayout = "Mon Jan 2 15:04:05 2006 -0700"

// statusTable maps a porcelain status code to its ChangeType. Single
// conversion table, closed enum — no open inheritance per design notes.
var statusTable = map[string]model.ChangeType{
	"A":  model.ChangeAdded,
	"AM": model.ChangeAdded,
	"M":  model.ChangeModified,
	"MM": model.ChangeModified,
	"D":  model.ChangeDeleted,
	"R":  model.ChangeRenamed,
	"??": model.ChangeUntracked,
}

// StatusSeq is a lazy sequence of FileStatus records read from
// `status --porcelain` output.
type StatusSeq struct {
	r *reader.Reader
}

// ParseStatusPorcelain returns a lazy sequence over raw porcelain
// status output.
func ParseStatusPorcelain(raw string) *StatusSeq {
	return &StatusSeq{r: reader.New(raw)}
}

// Next returns the next FileStatus, or ok=false when the sequence is
// exhausted. err is non-nil (ErrUnsupportedStatus) when a line's status
// code is outside the accepted set; the parse aborts at that point.
func (s *StatusSeq) Next() (model.FileStatus, bool, error) {
	for !s.r.Done() {
		line := s.r.ReadLine()
		trimmed := strings.TrimRight(line, "\r\n")
		lr := reader.New(trimmed)
		lr.SkipWhitespace()
		if lr.Done() {
			continue
		}
		code, _ := lr.ReadUntilWhitespace()
		lr.SkipWhitespace()
		path := lr.ReadToEnd()
		if path == "" {
			continue
		}
		ct, ok := statusTable[code]
		if !ok {
			observability.RecordParseFailure()
			return model.FileStatus{}, false, fmt.Errorf("%w: %q", apperrors.ErrUnsupportedStatus, code)
		}
		return model.FileStatus{Path: path, Type: ct}, true, nil
	}
	return model.FileStatus{}, false, nil
}

// ParseCommitBlock parses one commit header block starting at the
// reader's current position:
//
//	commit <hash> [(from <hash>)]
//	<Key>: <value>
//	...
//	<blank line>
//	<message lines>
//	<blank line terminator>
func ParseCommitBlock(r *reader.Reader) (model.ChangeSet, error) {
	headerLine := r.ReadLine()
	hl := reader.New(strings.TrimRight(headerLine, "\r\n"))
	word, _ := hl.ReadUntilWhitespace()
	if word != "commit" {
		observability.RecordParseFailure()
		return model.ChangeSet{}, fmt.Errorf("%w: expected commit header, got %q", apperrors.ErrParseFailed, headerLine)
	}
	hl.SkipWhitespace()
	hash, _ := hl.ReadUntilWhitespace()
	// remainder of the line (merge parent annotation, if any) is
	// intentionally discarded.

	cs := model.ChangeSet{ID: hash}

	for !r.Done() {
		line := r.ReadLine()
		if IsSingleLineFeed(line) {
			break
		}
		trimmed := strings.TrimRight(line, "\r\n")
		idx := strings.Index(trimmed, ":")
		if idx < 0 {
			continue
		}
		key := strings.TrimSpace(trimmed[:idx])
		value := strings.TrimSpace(trimmed[idx+1:])
		switch key {
		case "Author":
			name, email := splitAuthor(value)
			cs.AuthorName = name
			cs.AuthorEmail = email
		case "Date":
			t, err := time.Parse(commitDateLayout, value)
			if err != nil {
				observability.RecordParseFailure()
				return model.ChangeSet{}, fmt.Errorf("%w: commit date %q: %v", apperrors.ErrParseFailed, value, err)
			}
			cs.Timestamp = t
		}
	}

	var msg strings.Builder
	for !r.Done() {
		line := r.ReadLine()
		if IsSingleLineFeed(line) {
			break
		}
		msg.WriteString(strings.TrimRight(line, "\r\n"))
	}
	// Historical behavior, preserved for round-trip (spec open question
	// 1): message lines are concatenated without separators.
	cs.Message = msg.String()

	return cs, nil
}

func splitAuthor(value string) (name, email string) {
	open := strings.Index(value, "<")
	closeIdx := strings.Index(value, ">")
	if open < 0 || closeIdx < 0 || closeIdx < open {
		return strings.TrimSpace(value), ""
	}
	name = strings.TrimSpace(value[:open])
	email = strings.TrimSpace(value[open+1 : closeIdx])
	return name, email
}

// CommitSeq lazily applies ParseCommitBlock until the reader is done.
type CommitSeq struct {
	r *reader.Reader
}

// ParseLog returns a lazy sequence over `log` output.
func ParseLog(raw string) *CommitSeq {
	return &CommitSeq{r: reader.New(raw)}
}

// Next returns the next ChangeSet, or ok=false once the reader is
// exhausted (including the empty-repository case, where raw is empty).
func (c *CommitSeq) Next() (model.ChangeSet, bool, error) {
	skipBlankLines(c.r)
	if c.r.Done() {
		return model.ChangeSet{}, false, nil
	}
	cs, err := ParseCommitBlock(c.r)
	if err != nil {
		return model.ChangeSet{}, false, err
	}
	return cs, true, nil
}

func skipBlankLines(r *reader.Reader) {
	for !r.Done() {
		line := r.ReadLine()
		if strings.TrimSpace(line) == "" {
			continue
		}
		if err := r.PutBackLine(line); err != nil {
			return
		}
		return
	}
}

// ParseShow parses `show --numstat --shortstat [-p]` output. When
// includeChangeSet is true, a leading commit block is parsed and
// attached; otherwise the detail has no ChangeSet (the working-tree
// diff case). Nested commit blocks encountered mid-diff (merge parent
// sections) are handled internally by parseDiffSection.
func ParseShow(r *reader.Reader, includeChangeSet bool) (*model.ChangeSetDetail, error) {
	var detail *model.ChangeSetDetail
	if includeChangeSet {
		cs, err := ParseCommitBlock(r)
		if err != nil {
			return nil, err
		}
		detail = model.NewChangeSetDetail(&cs)
	} else {
		detail = model.NewChangeSetDetail(nil)
	}

	if err := parseSummarySection(r, detail); err != nil {
		return nil, err
	}
	if err := parseDiffSection(r, detail); err != nil {
		return nil, err
	}
	return detail, nil
}

func parseSummarySection(r *reader.Reader, detail *model.ChangeSetDetail) error {
	for !r.Done() {
		line := r.ReadLine()
		if IsSingleLineFeed(line) {
			return nil
		}
		trimmed := strings.TrimRight(line, "\r\n")
		if trimmed == "" {
			return nil
		}
		if strings.Contains(trimmed, "\t") {
			fields := strings.SplitN(trimmed, "\t", 3)
			if len(fields) != 3 {
				continue
			}
			insStr, delStr, path := fields[0], fields[1], fields[2]
			fi := detail.EnsureFile(path)
			if insStr == "-" || delStr == "-" {
				fi.Binary = true
				fi.Insertions = 0
				fi.Deletions = 0
				continue
			}
			fi.Insertions = atoiOrZero(insStr)
			fi.Deletions = atoiOrZero(delStr)
			continue
		}
		ParseSummaryFooter(trimmed, detail)
	}
	return nil
}

// parseDiffSection reads the diff portion of `show`/`diff` output,
// delimited into per-file chunks by lines beginning with "diff --git".
// A merge commit's `-m` output repeats this whole shape once per
// parent, each repetition introduced by a nested "commit " header at
// a chunk boundary; when that happens the nested commit block and its
// summary lines are parsed into the same detail (recording the nested
// ChangeSet for IsMerge), and every subsequent per-file chunk in that
// parent's section is checked against the outer detail's file map so
// a path already diffed by an earlier parent is discarded rather than
// appended twice.
func parseDiffSection(r *reader.Reader, detail *model.ChangeSetDetail) error {
	var buf strings.Builder
	mergeActive := false

	flush := func() error {
		chunk := buf.String()
		buf.Reset()
		if strings.TrimSpace(chunk) == "" {
			return nil
		}
		fd, err := parseFileDiffChunk(reader.New(chunk))
		if err != nil {
			return err
		}
		if fd == nil {
			return nil
		}
		if mergeActive && detail.HasFile(fd.FileName) {
			return nil
		}
		detail.MergeFileDiff(fd)
		return nil
	}

	for !r.Done() {
		line := r.ReadLine()
		startsNewChunk := strings.HasPrefix(line, "diff --git")
		startsNestedCommit := IsCommitHeader(line)
		if (startsNewChunk || startsNestedCommit) && buf.Len() > 0 {
			if err := flush(); err != nil {
				return err
			}
		}
		if startsNestedCommit {
			if err := r.PutBackLine(line); err != nil {
				return err
			}
			detail.NoteNestedChangeSet()
			if _, err := ParseCommitBlock(r); err != nil {
				return err
			}
			if err := parseSummarySection(r, detail); err != nil {
				return err
			}
			mergeActive = true
			continue
		}
		buf.WriteString(line)
	}
	return flush()
}

// parseFileDiffChunk parses one `diff --git a/<path> b/<path>` chunk
// in isolation; duplicate-path discarding against an outer merge
// detail is handled by the caller (parseDiffSection), per the
// explicit-parameter rule in the design notes rather than shared
// mutable state threaded through this function.
func parseFileDiffChunk(r *reader.Reader) (*model.FileDiff, error) {
	header := r.ReadLine()
	path := extractDiffPath(header)
	if path == "" {
		return nil, nil
	}

	fd := &model.FileDiff{FileName: path}

	for !r.Done() {
		line := r.ReadLine()
		trimmed := strings.TrimRight(line, "\r\n")

		if strings.HasPrefix(trimmed, "rename from ") {
			fd.RenameFrom = strings.TrimPrefix(trimmed, "rename from ")
			continue
		}
		if strings.HasPrefix(trimmed, "@@") {
			if err := r.PutBackLine(line); err != nil {
				return nil, err
			}
			break
		}
		if strings.HasPrefix(trimmed, "GIT binary patch") {
			fd.Binary = true
			r.ReadToEnd()
			return fd, nil
		}
	}

	// Hunk body, starting with the put-back "@@" line: every remaining
	// line is classified by its leading sign.
	for !r.Done() {
		trimmed := strings.TrimRight(r.ReadLine(), "\r\n")
		switch {
		case strings.HasPrefix(trimmed, "+"):
			fd.Lines = append(fd.Lines, model.LineDiff{Type: model.ChangeAdded, Text: trimmed})
		case strings.HasPrefix(trimmed, "-"):
			fd.Lines = append(fd.Lines, model.LineDiff{Type: model.ChangeDeleted, Text: trimmed})
		default:
			fd.Lines = append(fd.Lines, model.LineDiff{Type: model.ChangeNone, Text: trimmed})
		}
	}

	return fd, nil
}

func extractDiffPath(header string) string {
	trimmed := strings.TrimRight(header, "\r\n")
	const marker = " a/"
	idx := strings.Index(trimmed, marker)
	if idx < 0 {
		return ""
	}
	rest := trimmed[idx+len(marker):]
	lr := reader.New(rest)
	path, _ := lr.ReadUntilWhitespace()
	return path
}

// PopulateNameStatus updates ChangeTypes in detail from `--name-status`
// output: each tab-separated line is (status, path); unknown paths are
// ignored.
func PopulateNameStatus(raw string, detail *model.ChangeSetDetail) {
	r := reader.New(raw)
	for !r.Done() {
		line := strings.TrimRight(r.ReadLine(), "\r\n")
		if !strings.Contains(line, "\t") {
			continue
		}
		fields := strings.SplitN(line, "\t", 2)
		if len(fields) != 2 {
			continue
		}
		status, path := strings.TrimSpace(fields[0]), strings.TrimSpace(fields[1])
		fi, ok := detail.Files[path]
		if !ok {
			continue
		}
		switch {
		case strings.HasPrefix(status, "A"):
			fi.Type = model.ChangeAdded
		case strings.HasPrefix(status, "D"):
			fi.Type = model.ChangeDeleted
		case strings.HasPrefix(status, "M"):
			fi.Type = model.ChangeModified
		case strings.HasPrefix(status, "R"):
			fi.Type = model.ChangeRenamed
		}
	}
}
