package ingest

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	gh "github.com/google/go-github/v80/github"

	"github.com/docdex/docdex/internal/chunk"
)

// githubTimeout bounds each GitHub API request.
const githubTimeout = 30 * time.Second

// GitHubSource fetches markdown files from a repository subtree via
// the GitHub API.
type GitHubSource struct {
	client *gh.Client
	logger *slog.Logger

	owner string
	repo  string
	ref   string
	path  string
}

// GitHubOption customizes a GitHubSource.
type GitHubOption func(*GitHubSource)

// WithGitHubClient substitutes the API client, mainly for tests.
func WithGitHubClient(client *gh.Client) GitHubOption {
	return func(s *GitHubSource) { s.client = client }
}

// WithGitHubToken authenticates API requests, raising the rate limit
// and allowing private repositories.
func WithGitHubToken(token string) GitHubOption {
	return func(s *GitHubSource) {
		s.client = gh.NewClient(&http.Client{Timeout: githubTimeout}).WithAuthToken(token)
	}
}

// NewGitHubSource creates a source for one repository. Ref may be a
// branch, tag, or commit; empty uses the default branch. Path
// restricts ingestion to a subtree.
func NewGitHubSource(owner, repo, ref, path string, logger *slog.Logger, opts ...GitHubOption) *GitHubSource {
	if logger == nil {
		logger = slog.Default()
	}
	s := &GitHubSource{
		client: gh.NewClient(&http.Client{Timeout: githubTimeout}),
		logger: logger,
		owner:  owner,
		repo:   repo,
		ref:    ref,
		path:   strings.Trim(path, "/"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *GitHubSource) Name() string {
	return fmt.Sprintf("github:%s/%s", s.owner, s.repo)
}

// Fetch lists the repository tree recursively and downloads every
// markdown blob under the configured subtree.
func (s *GitHubSource) Fetch(ctx context.Context) ([]*chunk.Document, error) {
	ref := s.ref
	if ref == "" {
		repo, _, err := s.client.Repositories.Get(ctx, s.owner, s.repo)
		if err != nil {
			return nil, fmt.Errorf("get repository %s/%s: %w", s.owner, s.repo, err)
		}
		ref = repo.GetDefaultBranch()
	}

	tree, _, err := s.client.Git.GetTree(ctx, s.owner, s.repo, ref, true)
	if err != nil {
		return nil, fmt.Errorf("get tree %s/%s@%s: %w", s.owner, s.repo, ref, err)
	}
	if tree.GetTruncated() {
		s.logger.Warn("repository tree truncated by the API; some files may be missing",
			"owner", s.owner, "repo", s.repo)
	}

	var docs []*chunk.Document
	for _, entry := range tree.Entries {
		if entry.GetType() != "blob" {
			continue
		}
		path := entry.GetPath()
		if !s.inSubtree(path) || !isMarkdown(path) {
			continue
		}
		if entry.GetSize() > maxFileSize {
			s.logger.Warn("skipping oversized file", "path", path, "size", entry.GetSize())
			continue
		}

		content, err := s.fetchBlob(ctx, entry.GetSHA())
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", path, err)
		}

		body, title := stripFrontmatter(content)
		if strings.TrimSpace(body) == "" {
			s.logger.Debug("skipping empty file", "path", path)
			continue
		}
		if title == "" {
			title = titleFromBody(body)
		}

		docs = append(docs, &chunk.Document{
			ID:        fmt.Sprintf("%s/%s/%s", s.owner, s.repo, path),
			Text:      body,
			Title:     title,
			SourceURL: fmt.Sprintf("https://github.com/%s/%s/blob/%s/%s", s.owner, s.repo, ref, path),
			Metadata: map[string]string{
				"owner": s.owner,
				"repo":  s.repo,
				"ref":   ref,
				"path":  path,
			},
		})
	}

	s.logger.Debug("github source fetched",
		"owner", s.owner, "repo", s.repo, "ref", ref, "documents", len(docs))
	return docs, nil
}

func (s *GitHubSource) inSubtree(path string) bool {
	if s.path == "" {
		return true
	}
	return path == s.path || strings.HasPrefix(path, s.path+"/")
}

func (s *GitHubSource) fetchBlob(ctx context.Context, sha string) (string, error) {
	blob, _, err := s.client.Git.GetBlob(ctx, s.owner, s.repo, sha)
	if err != nil {
		return "", err
	}

	if blob.GetEncoding() == "base64" {
		raw := strings.ReplaceAll(blob.GetContent(), "\n", "")
		decoded, err := base64.StdEncoding.DecodeString(raw)
		if err != nil {
			return "", fmt.Errorf("decode blob %s: %w", sha, err)
		}
		return string(decoded), nil
	}
	return blob.GetContent(), nil
}

var _ Source = (*GitHubSource)(nil)
