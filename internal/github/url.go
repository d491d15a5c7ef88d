// Package github parses and validates GitHub repository URLs.
package github

import (
	"errors"
	"regexp"
	"strings"
)

const (
	UntitledDocument = "Untitled Document"
	UntitledProject  = "Untitled Project"
)

var ErrInvalidURL = errors.New("not a GitHub repository URL")

var (
	urlPattern       = regexp.MustCompile(`^https?://(www\.)?github\.com/[\w-]+/[\w.-]+(/)?(\?.*)?$`)
	ownerRepoPattern = regexp.MustCompile(`github\.com/([\w-]+)/([\w.-]+)`)
)

// Repository identifies a GitHub repository.
type Repository struct {
	Owner string `json:"owner"`
	Name  string `json:"name"`
}

func (r Repository) String() string {
	return r.Owner + "/" + r.Name
}

// CloneURL returns the https clone URL of the repository.
func (r Repository) CloneURL() string {
	return "https://github.com/" + r.Owner + "/" + r.Name + ".git"
}

// ValidateURL reports whether raw, trimmed, is an http(s) URL of the form
// github.com/<owner>/<repo> with an optional trailing slash or query.
func ValidateURL(raw string) bool {
	return urlPattern.MatchString(strings.TrimSpace(raw))
}

// ParseRepository extracts owner and repository name from a valid URL.
func ParseRepository(raw string) (Repository, error) {
	trimmed := strings.TrimSpace(raw)
	if !urlPattern.MatchString(trimmed) {
		return Repository{}, ErrInvalidURL
	}
	m := ownerRepoPattern.FindStringSubmatch(trimmed)
	if m == nil {
		return Repository{}, ErrInvalidURL
	}
	name := strings.TrimSuffix(m[2], ".git")
	if name == "" {
		return Repository{}, ErrInvalidURL
	}
	return Repository{Owner: m[1], Name: name}, nil
}

// ExtractRepoName returns the path segment after github.com/<owner>/ with a
// trailing ".git" removed. Anything that does not look like a GitHub
// repository URL yields fallback.
func ExtractRepoName(raw, fallback string) string {
	m := ownerRepoPattern.FindStringSubmatch(raw)
	if m == nil {
		return fallback
	}
	name := strings.TrimSuffix(m[2], ".git")
	if name == "" {
		return fallback
	}
	return name
}
