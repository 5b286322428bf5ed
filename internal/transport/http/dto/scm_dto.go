package dto

import (
	"time"

	"github.com/deployrt/scmcore/internal/vcs/model"
)

// FileStatusResponse is one entry of a working-tree status scan.
type FileStatusResponse struct {
	Path string `json:"path"`
	Type string `json:"type"`
}

// StatusResponse wraps the full status scan.
type StatusResponse struct {
	Files []FileStatusResponse `json:"files"`
}

// ChangeSetResponse is a single commit's identity and metadata.
type ChangeSetResponse struct {
	ID          string    `json:"id"`
	AuthorName  string    `json:"author_name"`
	AuthorEmail string    `json:"author_email"`
	Message     string    `json:"message"`
	Timestamp   time.Time `json:"timestamp"`
}

// ChangeSetListResponse wraps a page of commit history.
type ChangeSetListResponse struct {
	ChangeSets []ChangeSetResponse `json:"change_sets"`
	Total      int                 `json:"total"`
}

// LineDiffResponse is one line of a unified diff hunk.
type LineDiffResponse struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// FileDiffResponse is the per-file rollup inside a ChangeSetDetailResponse.
type FileDiffResponse struct {
	Path       string             `json:"path"`
	Type       string             `json:"type"`
	Insertions int                `json:"insertions"`
	Deletions  int                `json:"deletions"`
	Binary     bool               `json:"binary"`
	Lines      []LineDiffResponse `json:"lines"`
}

// ChangeSetDetailResponse is a commit (or working tree, when ChangeSet is
// nil) plus its per-file diff content.
type ChangeSetDetailResponse struct {
	ChangeSet      *ChangeSetResponse `json:"change_set,omitempty"`
	Files          []FileDiffResponse `json:"files"`
	FilesChanged   int                `json:"files_changed"`
	TotalInsertion int                `json:"total_insertion"`
	TotalDeletion  int                `json:"total_deletion"`
	IsMerge        bool               `json:"is_merge"`
}

func changeTypeString(t model.ChangeType) string {
	return t.String()
}

// ChangeSetFromModel converts a ChangeSet to its HTTP response shape.
func ChangeSetFromModel(cs model.ChangeSet) ChangeSetResponse {
	return ChangeSetResponse{
		ID:          cs.ID,
		AuthorName:  cs.AuthorName,
		AuthorEmail: cs.AuthorEmail,
		Message:     cs.Message,
		Timestamp:   cs.Timestamp,
	}
}

// StatusFromModel converts a slice of FileStatus to StatusResponse.
func StatusFromModel(statuses []model.FileStatus) StatusResponse {
	files := make([]FileStatusResponse, len(statuses))
	for i, s := range statuses {
		files[i] = FileStatusResponse{Path: s.Path, Type: changeTypeString(s.Type)}
	}
	return StatusResponse{Files: files}
}

// ChangeSetDetailFromModel converts a ChangeSetDetail to its HTTP response
// shape, walking Files in the insertion order recorded by the parser.
func ChangeSetDetailFromModel(detail *model.ChangeSetDetail) ChangeSetDetailResponse {
	resp := ChangeSetDetailResponse{
		FilesChanged:   detail.FilesChanged,
		TotalInsertion: detail.TotalInsertion,
		TotalDeletion:  detail.TotalDeletion,
		IsMerge:        detail.IsMerge(),
	}
	if detail.ChangeSet != nil {
		cs := ChangeSetFromModel(*detail.ChangeSet)
		resp.ChangeSet = &cs
	}
	for _, path := range detail.OrderedPaths() {
		fi := detail.Files[path]
		lines := make([]LineDiffResponse, len(fi.Lines))
		for i, l := range fi.Lines {
			lines[i] = LineDiffResponse{Type: changeTypeString(l.Type), Text: l.Text}
		}
		resp.Files = append(resp.Files, FileDiffResponse{
			Path:       path,
			Type:       changeTypeString(fi.Type),
			Insertions: fi.Insertions,
			Deletions:  fi.Deletions,
			Binary:     fi.Binary,
			Lines:      lines,
		})
	}
	return resp
}

// AddRequest is the request body for staging a single path.
type AddRequest struct {
	Path string `json:"path" binding:"required"`
}

// CommitRequest is the request body for creating a commit.
type CommitRequest struct {
	Message    string `json:"message" binding:"required"`
	AuthorName string `json:"author_name" binding:"required"`
}

// CheckoutRequest is the request body for checking out a ref or commit ID.
type CheckoutRequest struct {
	ID string `json:"id" binding:"required"`
}
