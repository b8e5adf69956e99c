// Package release checks GitHub for newer hyperfind releases.
package release

import (
	"context"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/google/go-github/v84/github"
)

var (
	// ErrRateLimitExceeded is returned when the GitHub API rate limit is exhausted.
	ErrRateLimitExceeded = errors.New("github API rate limit exceeded")
	// ErrNoReleases is returned when the repository has no published release.
	ErrNoReleases = errors.New("no releases found")
)

// Release is the subset of a GitHub release hyperfind cares about.
type Release struct {
	TagName string
	Name    string
	HTMLURL string
}

// Client fetches release metadata.
type Client interface {
	LatestRelease(ctx context.Context, owner, repo string) (*Release, error)
}

// SDKClient implements Client with go-github.
type SDKClient struct {
	client *github.Client
}

// NewClient creates a client, authenticated when GH_TOKEN or GITHUB_TOKEN is set.
func NewClient() *SDKClient {
	client := github.NewClient(nil)

	if token := token(); token != "" {
		client = client.WithAuthToken(token)
	}

	return &SDKClient{client: client}
}

// NewClientWithBaseURL creates an unauthenticated client against another API endpoint.
func NewClientWithBaseURL(httpClient *http.Client, baseURL string) (*SDKClient, error) {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing base URL %q", baseURL)
	}

	client := github.NewClient(httpClient)
	client.BaseURL = u

	return &SDKClient{client: client}, nil
}

func token() string {
	if t := os.Getenv("GH_TOKEN"); t != "" {
		return t
	}

	return os.Getenv("GITHUB_TOKEN")
}

// LatestRelease returns the latest published release.
func (c *SDKClient) LatestRelease(ctx context.Context, owner, repo string) (*Release, error) {
	rel, resp, err := c.client.Repositories.GetLatestRelease(ctx, owner, repo)
	if err != nil {
		return nil, handleError(resp, err)
	}

	return &Release{
		TagName: rel.GetTagName(),
		Name:    rel.GetName(),
		HTMLURL: rel.GetHTMLURL(),
	}, nil
}

func handleError(resp *github.Response, err error) error {
	if resp == nil {
		return errors.Wrap(err, "fetching latest release")
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return ErrNoReleases
	case http.StatusForbidden, http.StatusTooManyRequests:
		if resp.Rate.Remaining == 0 {
			return ErrRateLimitExceeded
		}
	}

	return errors.Wrap(err, "fetching latest release")
}
