package models

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Issue represents a GitHub issue with its metadata
type Issue struct {
	Org       string    `json:"org"`
	Repo      string    `json:"repo"`
	Number    int       `json:"number"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	State     string    `json:"state"` // "open" or "closed"
	Labels    []string  `json:"labels"`
	Author    string    `json:"author"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FullRepo returns the full repository name (org/repo)
func (i *Issue) FullRepo() string {
	return fmt.Sprintf("%s/%s", i.Org, i.Repo)
}

// BodyHash returns a SHA256 hash of the body for change detection
func (i *Issue) BodyHash() string {
	h := sha256.Sum256([]byte(i.Body))
	return hex.EncodeToString(h[:])
}
