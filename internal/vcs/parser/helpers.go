package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/deployrt/scmcore/internal/vcs/model"
)

// IsSingleLineFeed reports whether line is solely a line terminator
// (an LF, optionally preceded by a CR), as used to detect the blank
// line that terminates a commit header block or a summary section.
func IsSingleLineFeed(line string) bool {
	trimmed := strings.TrimSuffix(line, "\n")
	trimmed = strings.TrimSuffix(trimmed, "\r")
	return trimmed == "" && line != ""
}

// IsCommitHeader reports whether line begins with "commit ", the
// marker used mid-diff to detect a nested merge-parent block.
func IsCommitHeader(line string) bool {
	return strings.HasPrefix(line, "commit ")
}

// summaryFooterRegex matches the optional "N insertions(+)" / "N
// deletions(-)" clauses of a `git show --shortstat` footer line. Hand
// parsing with strings.Split would work for the fixed "files changed"
// prefix, but the two trailing clauses are independently optional and
// their plural/singular wording varies ("1 insertion(+)" vs "2
// insertions(+)"), so a regex is the more maintainable tool here.
var summaryFooterRegex = regexp.MustCompile(
	`(\d+)\s+files? changed(?:,\s*(\d+)\s+insertions?\(\+\))?(?:,\s*(\d+)\s+deletions?\(-\))?`,
)

// ParseSummaryFooter recognizes a `N files changed, N insertions(+), N
// deletions(-)` footer line (either trailing clause may be absent) and
// records the totals on detail. Returns false when line does not match
// the footer shape at all.
func ParseSummaryFooter(line string, detail *model.ChangeSetDetail) bool {
	m := summaryFooterRegex.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	detail.FilesChanged = atoiOrZero(m[1])
	detail.TotalInsertion = atoiOrZero(m[2])
	detail.TotalDeletion = atoiOrZero(m[3])
	return true
}

func atoiOrZero(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
