package models

// RepositoryInfo describes a reachable remote repository.
type RepositoryInfo struct {
	URL           string   `json:"url"`
	DefaultBranch string   `json:"defaultBranch"`
	Branches      []string `json:"branches"`
}
