package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/storage/memory"

	"docugen/internal/github"
	"docugen/internal/models"
)

var ErrEmptyRemote = errors.New("remote repository has no branches")

type refLister func(ctx context.Context, url string) ([]*plumbing.Reference, error)

// GitService checks GitHub repositories before a project is created for them.
type GitService struct {
	context context.Context
	list    refLister
}

func (g *GitService) Startup(ctx context.Context) {
	g.context = ctx
}

func NewGitService() *GitService {
	return &GitService{context: context.Background(), list: listRemoteRefs}
}

// listRemoteRefs asks the remote for its advertised references without
// cloning anything.
func listRemoteRefs(ctx context.Context, url string) ([]*plumbing.Reference, error) {
	remote := git.NewRemote(memory.NewStorage(), &config.RemoteConfig{
		Name: git.DefaultRemoteName,
		URLs: []string{url},
	})
	return remote.ListContext(ctx, &git.ListOptions{})
}

// ProbeRemote confirms a GitHub repository is reachable and reports its
// branches and default branch.
func (g *GitService) ProbeRemote(githubURL string) (*models.RepositoryInfo, error) {
	repo, err := github.ParseRepository(githubURL)
	if err != nil {
		return nil, err
	}
	url := repo.CloneURL()

	refs, err := g.list(g.context, url)
	if err != nil {
		return nil, fmt.Errorf("failed to list remote %s: %w", url, err)
	}
	return repositoryInfo(url, refs)
}

func repositoryInfo(url string, refs []*plumbing.Reference) (*models.RepositoryInfo, error) {
	info := &models.RepositoryInfo{URL: url}
	heads := make(map[plumbing.Hash][]string)
	var head *plumbing.Reference

	for _, ref := range refs {
		switch {
		case ref.Name() == plumbing.HEAD:
			head = ref
		case ref.Name().IsBranch():
			name := ref.Name().Short()
			info.Branches = append(info.Branches, name)
			heads[ref.Hash()] = append(heads[ref.Hash()], name)
		}
	}
	if len(info.Branches) == 0 {
		return nil, fmt.Errorf("%s: %w", url, ErrEmptyRemote)
	}
	sort.Strings(info.Branches)

	switch {
	case head == nil:
	case head.Type() == plumbing.SymbolicReference:
		info.DefaultBranch = head.Target().Short()
	default:
		// Without a symref capability HEAD is only a hash; pick a branch
		// pointing at it, preferring the conventional names.
		candidates := heads[head.Hash()]
		sort.Strings(candidates)
		for _, name := range candidates {
			if name == "main" || name == "master" {
				info.DefaultBranch = name
				break
			}
		}
		if info.DefaultBranch == "" && len(candidates) > 0 {
			info.DefaultBranch = candidates[0]
		}
	}
	return info, nil
}
