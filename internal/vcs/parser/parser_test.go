package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/deployrt/scmcore/internal/vcs/model"
	"github.com/deployrt/scmcore/internal/vcs/reader"
	apperrors "github.com/deployrt/scmcore/pkg/errors"
)

// Scenario D — parse porcelain.
func TestParseStatusPorcelain_ScenarioD(t *testing.T) {
	seq := ParseStatusPorcelain(" M src/a.txt\n?? new.txt\n")

	first, ok, err := seq.Next()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, model.FileStatus{Path: "src/a.txt", Type: model.ChangeModified}, first)

	second, ok, err := seq.Next()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, model.FileStatus{Path: "new.txt", Type: model.ChangeUntracked}, second)

	_, ok, err = seq.Next()
	require.NoError(t, err)
	require.False(t, ok)
}

func TestParseStatusPorcelain_UnsupportedStatus(t *testing.T) {
	seq := ParseStatusPorcelain("ZZ weird.txt\n")
	_, ok, err := seq.Next()
	require.False(t, ok)
	require.ErrorIs(t, err, apperrors.ErrUnsupportedStatus)
}

func TestParseStatusPorcelain_EmptyRepository(t *testing.T) {
	seq := ParseStatusPorcelain("")
	_, ok, err := seq.Next()
	require.NoError(t, err)
	require.False(t, ok)
}

// Scenario E — parse commit.
func TestParseCommitBlock_ScenarioE(t *testing.T) {
	raw := "commit abc123\n" +
		"Author: Jane Doe <jane@example.com>\n" +
		"Date:   Mon Jan 2 15:04:05 2006 -0700\n" +
		"\n" +
		"    fix: thing\n" +
		"\n"

	cs, err := ParseCommitBlock(reader.New(raw))
	require.NoError(t, err)

	require.Equal(t, "abc123", cs.ID)
	require.Equal(t, "Jane Doe", cs.AuthorName)
	require.Equal(t, "jane@example.com", cs.AuthorEmail)
	require.Equal(t, "    fix: thing", cs.Message)

	wantTime, err := time.Parse(commitDateLayout, "Mon Jan 2 15:04:05 2006 -0700")
	require.NoError(t, err)
	require.True(t, cs.Timestamp.Equal(wantTime))
}

func TestParseCommitBlock_MultilineMessageHasNoSeparators(t *testing.T) {
	// Open question 1: message concatenation omits separators between
	// lines; this is historical behavior and must not be "fixed".
	raw := "commit deadbeef\n" +
		"Author: A <a@example.com>\n" +
		"Date:   Mon Jan 2 15:04:05 2006 -0700\n" +
		"\n" +
		"first line\n" +
		"second line\n" +
		"\n"

	cs, err := ParseCommitBlock(reader.New(raw))
	require.NoError(t, err)
	require.Equal(t, "first linesecond line", cs.Message)
}

func TestParseLog_EmptyRepositoryReturnsEmptySequence(t *testing.T) {
	seq := ParseLog("")
	_, ok, err := seq.Next()
	require.NoError(t, err)
	require.False(t, ok)
}

func TestParseLog_MultipleCommits(t *testing.T) {
	raw := "commit one\n" +
		"Author: A <a@example.com>\n" +
		"Date:   Mon Jan 2 15:04:05 2006 -0700\n" +
		"\n" +
		"msg one\n" +
		"\n" +
		"commit two\n" +
		"Author: B <b@example.com>\n" +
		"Date:   Tue Jan 3 15:04:05 2006 -0700\n" +
		"\n" +
		"msg two\n" +
		"\n"

	seq := ParseLog(raw)
	cs1, ok, err := seq.Next()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "one", cs1.ID)

	cs2, ok, err := seq.Next()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "two", cs2.ID)

	_, ok, _ = seq.Next()
	require.False(t, ok)
}

// Boundary: binary diff summary row.
func TestParseShow_BinarySummaryRow(t *testing.T) {
	raw := "commit deadbeef\n" +
		"Author: A <a@example.com>\n" +
		"Date:   Mon Jan 2 15:04:05 2006 -0700\n" +
		"\n" +
		"msg\n" +
		"\n" +
		"-\t-\tassets/logo.png\n" +
		"1 files changed, 0 insertions(+), 0 deletions(-)\n"

	detail, err := ParseShow(reader.New(raw), true)
	require.NoError(t, err)

	fi, ok := detail.Files["assets/logo.png"]
	require.True(t, ok)
	require.True(t, fi.Binary)
	require.Equal(t, 0, fi.Insertions)
	require.Equal(t, 0, fi.Deletions)
	require.Empty(t, fi.Lines)
}

// Invariant 1: every FileDiff's lines end up in the detail's file map.
func TestParseShow_AggregationInvariant(t *testing.T) {
	raw := "commit deadbeef\n" +
		"Author: A <a@example.com>\n" +
		"Date:   Mon Jan 2 15:04:05 2006 -0700\n" +
		"\n" +
		"msg\n" +
		"\n" +
		"1\t0\tsrc/a.txt\n" +
		"1 files changed, 1 insertions(+), 0 deletions(-)\n" +
		"\n" +
		"diff --git a/src/a.txt b/src/a.txt\n" +
		"index 0000000..1111111 100644\n" +
		"--- a/src/a.txt\n" +
		"+++ b/src/a.txt\n" +
		"@@ -0,0 +1 @@\n" +
		"+hello\n"

	detail, err := ParseShow(reader.New(raw), true)
	require.NoError(t, err)

	fi, ok := detail.Files["src/a.txt"]
	require.True(t, ok)
	require.Len(t, fi.Lines, 2)
	require.Equal(t, model.ChangeNone, fi.Lines[0].Type)
	require.Equal(t, "@@ -0,0 +1 @@", fi.Lines[0].Text)
	require.Equal(t, model.ChangeAdded, fi.Lines[1].Type)
	require.Equal(t, "+hello", fi.Lines[1].Text)
}

// Boundary: merge commit — duplicate per-file diff across parents
// appears once in the outer detail.
func TestParseShow_MergeCommitDedup(t *testing.T) {
	raw := "commit merged\n" +
		"Author: A <a@example.com>\n" +
		"Date:   Mon Jan 2 15:04:05 2006 -0700\n" +
		"\n" +
		"merge msg\n" +
		"\n" +
		"1\t0\tsrc/a.txt\n" +
		"1 files changed, 1 insertions(+), 0 deletions(-)\n" +
		"\n" +
		"diff --git a/src/a.txt b/src/a.txt\n" +
		"@@ -0,0 +1 @@\n" +
		"+hello\n" +
		"commit merged (from parent2)\n" +
		"Author: A <a@example.com>\n" +
		"Date:   Mon Jan 2 15:04:05 2006 -0700\n" +
		"\n" +
		"merge msg\n" +
		"\n" +
		"1\t0\tsrc/a.txt\n" +
		"1 files changed, 1 insertions(+), 0 deletions(-)\n" +
		"\n" +
		"diff --git a/src/a.txt b/src/a.txt\n" +
		"@@ -0,0 +1 @@\n" +
		"+hello\n"

	detail, err := ParseShow(reader.New(raw), true)
	require.NoError(t, err)
	require.True(t, detail.IsMerge())

	fi, ok := detail.Files["src/a.txt"]
	require.True(t, ok)
	require.Len(t, fi.Lines, 2, "duplicate per-file diff across parents must appear once")
}

func TestParseSummaryFooter_OptionalClauses(t *testing.T) {
	detail := model.NewChangeSetDetail(nil)
	ok := ParseSummaryFooter("1 file changed, 2 insertions(+)", detail)
	require.True(t, ok)
	require.Equal(t, 1, detail.FilesChanged)
	require.Equal(t, 2, detail.TotalInsertion)
	require.Equal(t, 0, detail.TotalDeletion)
}

func TestPopulateNameStatus(t *testing.T) {
	detail := model.NewChangeSetDetail(nil)
	detail.EnsureFile("src/a.txt")
	PopulateNameStatus("R100\tsrc/a.txt\n", detail)
	require.Equal(t, model.ChangeRenamed, detail.Files["src/a.txt"].Type)
}
