package services

import (
	"context"
	"errors"
	"testing"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docugen/internal/github"
)

func fakeLister(refs []*plumbing.Reference, err error, gotURL *string) refLister {
	return func(_ context.Context, url string) ([]*plumbing.Reference, error) {
		if gotURL != nil {
			*gotURL = url
		}
		return refs, err
	}
}

func TestProbeRemoteSymbolicHead(t *testing.T) {
	hash := plumbing.NewHash("6ecf0ef2c2dffb796033e5a02219af86ec6584e5")
	var url string
	g := NewGitService()
	g.list = fakeLister([]*plumbing.Reference{
		plumbing.NewSymbolicReference(plumbing.HEAD, plumbing.NewBranchReferenceName("trunk")),
		plumbing.NewHashReference(plumbing.NewBranchReferenceName("trunk"), hash),
		plumbing.NewHashReference(plumbing.NewBranchReferenceName("feature/x"), hash),
		plumbing.NewHashReference(plumbing.NewTagReferenceName("v1.0.0"), hash),
	}, nil, &url)

	info, err := g.ProbeRemote("https://github.com/acme/widget")
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/acme/widget.git", url)
	assert.Equal(t, url, info.URL)
	assert.Equal(t, "trunk", info.DefaultBranch)
	assert.Equal(t, []string{"feature/x", "trunk"}, info.Branches)
}

func TestProbeRemoteHashHeadPrefersMain(t *testing.T) {
	tip := plumbing.NewHash("6ecf0ef2c2dffb796033e5a02219af86ec6584e5")
	other := plumbing.NewHash("1111111111111111111111111111111111111111")
	g := NewGitService()
	g.list = fakeLister([]*plumbing.Reference{
		plumbing.NewHashReference(plumbing.HEAD, tip),
		plumbing.NewHashReference(plumbing.NewBranchReferenceName("alpha"), tip),
		plumbing.NewHashReference(plumbing.NewBranchReferenceName("main"), tip),
		plumbing.NewHashReference(plumbing.NewBranchReferenceName("dev"), other),
	}, nil, nil)

	info, err := g.ProbeRemote("https://github.com/acme/widget")
	require.NoError(t, err)
	assert.Equal(t, "main", info.DefaultBranch)
}

func TestProbeRemoteRejectsNonGitHub(t *testing.T) {
	g := NewGitService()
	g.list = func(context.Context, string) ([]*plumbing.Reference, error) {
		t.Fatal("remote must not be contacted")
		return nil, nil
	}

	_, err := g.ProbeRemote("https://gitlab.com/acme/widget")
	assert.ErrorIs(t, err, github.ErrInvalidURL)
}

func TestProbeRemoteEmptyRepository(t *testing.T) {
	g := NewGitService()
	g.list = fakeLister(nil, nil, nil)

	_, err := g.ProbeRemote("https://github.com/acme/empty")
	assert.ErrorIs(t, err, ErrEmptyRemote)
}

func TestProbeRemoteListFailure(t *testing.T) {
	boom := errors.New("authentication required")
	g := NewGitService()
	g.list = fakeLister(nil, boom, nil)

	_, err := g.ProbeRemote("https://github.com/acme/private")
	assert.ErrorIs(t, err, boom)
}
