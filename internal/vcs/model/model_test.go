package model

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// Building a detail through EnsureFile/MergeFileDiff and reading it back
// via OrderedPaths/Files must reproduce the exact sequence of merges,
// regardless of map iteration order.
func TestChangeSetDetail_OrderedPathsSurvivesMerge(t *testing.T) {
	detail := NewChangeSetDetail(&ChangeSet{ID: "abc123", Message: "wip"})

	detail.MergeFileDiff(&FileDiff{FileName: "b.txt", Lines: []LineDiff{{Type: ChangeAdded, Text: "+one"}}})
	detail.MergeFileDiff(&FileDiff{FileName: "a.txt", Lines: []LineDiff{{Type: ChangeAdded, Text: "+two"}}})
	detail.MergeFileDiff(&FileDiff{FileName: "b.txt", Binary: true, Lines: []LineDiff{{Type: ChangeAdded, Text: "+three"}}})

	if diff := cmp.Diff([]string{"b.txt", "a.txt"}, detail.OrderedPaths()); diff != "" {
		t.Fatalf("OrderedPaths mismatch (-want +got):\n%s", diff)
	}

	want := &FileInfo{
		Binary: true,
		Lines: []LineDiff{
			{Type: ChangeAdded, Text: "+one"},
			{Type: ChangeAdded, Text: "+three"},
		},
	}
	if diff := cmp.Diff(want, detail.Files["b.txt"], cmpopts.IgnoreFields(FileInfo{}, "Insertions", "Deletions", "Type")); diff != "" {
		t.Fatalf("merged b.txt FileInfo mismatch (-want +got):\n%s", diff)
	}
}

func TestChangeSetDetail_IsMergeCountsNestedHeaders(t *testing.T) {
	detail := NewChangeSetDetail(&ChangeSet{ID: "merge1"})
	if detail.IsMerge() {
		t.Fatalf("fresh detail should not report IsMerge")
	}

	detail.NoteNestedChangeSet()
	if !detail.IsMerge() {
		t.Fatalf("single nested change set should count as a merge")
	}

	detail.NoteNestedChangeSet()
	if !detail.IsMerge() {
		t.Fatalf("two nested change sets should count as a merge")
	}
}
