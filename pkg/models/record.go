package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// UnknownAuthor is stored when an issue has no author
const UnknownAuthor = "unknown"

// IndexRecord is a single vector plus metadata written to the index
type IndexRecord struct {
	ID       string
	Values   []float32
	Metadata RecordMetadata
}

// RecordMetadata is the payload stored alongside each vector
type RecordMetadata struct {
	Org         string
	Repo        string
	IssueNumber int
	Title       string
	Content     string
	CreatedAt   string
	UpdatedAt   string
	URL         string
	State       string
	Labels      string // comma-joined
	Author      string
	BodyHash    string
}

// RecordID builds a record id from the issue number and a timestamp.
// The timestamp keeps ids from colliding with leftovers of earlier runs.
func RecordID(number int, at time.Time) string {
	return fmt.Sprintf("issue-%d-%d", number, at.UnixMilli())
}

// PointID returns the deterministic UUID used as the vector store point id
func (r *IndexRecord) PointID() string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(r.ID)).String()
}

// NewRecordMetadata assembles the stored metadata for an issue.
// content is the text that was embedded.
func NewRecordMetadata(issue *Issue, content string) RecordMetadata {
	author := issue.Author
	if author == "" {
		author = UnknownAuthor
	}

	return RecordMetadata{
		Org:         issue.Org,
		Repo:        issue.Repo,
		IssueNumber: issue.Number,
		Title:       issue.Title,
		Content:     content,
		CreatedAt:   issue.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   issue.UpdatedAt.Format(time.RFC3339),
		URL:         issue.URL,
		State:       issue.State,
		Labels:      strings.Join(issue.Labels, ","),
		Author:      author,
		BodyHash:    issue.BodyHash(),
	}
}
