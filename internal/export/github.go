// Package export publishes goals to external trackers.
package export

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/go-github/v68/github"
	"github.com/northstar/summit/internal/models"
	"golang.org/x/oauth2"
)

// issueCreator abstracts the GitHub issues API we use, enabling test mocks.
type issueCreator interface {
	Create(ctx context.Context, owner, repo string, issue *github.IssueRequest) (*github.Issue, *github.Response, error)
}

// GitHub exports goals as issues in a single repository. Each goal becomes an
// issue; sub-goals become a task list in the issue body.
type GitHub struct {
	owner  string
	repo   string
	issues issueCreator
}

// GitHubOpts holds parameters for creating a GitHub exporter.
type GitHubOpts struct {
	Owner string
	Repo  string
	Token string
	// For testing: inject a mock issues service instead of a real client.
	Issues issueCreator
}

// NewGitHub creates a GitHub exporter authenticated with the given token.
func NewGitHub(opts GitHubOpts) (*GitHub, error) {
	if opts.Owner == "" || opts.Repo == "" {
		return nil, fmt.Errorf("export: github owner and repo are required")
	}
	issues := opts.Issues
	if issues == nil {
		if opts.Token == "" {
			return nil, fmt.Errorf("export: github token is required")
		}
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token})
		client := github.NewClient(oauth2.NewClient(context.Background(), ts))
		issues = client.Issues
	}
	return &GitHub{owner: opts.Owner, repo: opts.Repo, issues: issues}, nil
}

// ExportGoal creates one issue for the goal and returns its URL.
func (g *GitHub) ExportGoal(ctx context.Context, goal *models.Goal) (string, error) {
	req := &github.IssueRequest{
		Title:  github.Ptr(goal.Title),
		Body:   github.Ptr(buildIssueBody(goal)),
		Labels: &[]string{"goal", string(goal.Status)},
	}
	issue, _, err := g.issues.Create(ctx, g.owner, g.repo, req)
	if err != nil {
		return "", fmt.Errorf("export: create issue for %s: %w", goal.ID, err)
	}
	return issue.GetHTMLURL(), nil
}

// ExportAll exports every goal in order and returns the created issue URLs.
// It stops at the first failure.
func (g *GitHub) ExportAll(ctx context.Context, goals []*models.Goal) ([]string, error) {
	urls := make([]string, 0, len(goals))
	for _, goal := range goals {
		url, err := g.ExportGoal(ctx, goal)
		if err != nil {
			return urls, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}

// buildIssueBody renders the goal as issue markdown with a sub-goal task
// list.
func buildIssueBody(goal *models.Goal) string {
	var b strings.Builder
	if goal.Description != "" {
		b.WriteString(goal.Description)
		b.WriteString("\n\n")
	}
	fmt.Fprintf(&b, "**Status:** %s\n", goal.Status)
	fmt.Fprintf(&b, "**Progress:** %d%%\n", goal.Progress)
	if goal.Timeline != "" {
		fmt.Fprintf(&b, "**Timeline:** %s\n", goal.Timeline)
	}
	if goal.Owner != "" {
		fmt.Fprintf(&b, "**Owner:** %s\n", goal.Owner)
	}
	if goal.Category != "" {
		fmt.Fprintf(&b, "**Category:** %s\n", goal.Category)
	}
	if len(goal.SubGoals) > 0 {
		b.WriteString("\n### Sub-goals\n")
		for _, sub := range goal.SubGoals {
			mark := " "
			if sub.Status == models.StatusCompleted {
				mark = "x"
			}
			fmt.Fprintf(&b, "- [%s] %s (%d%%)\n", mark, sub.Title, sub.Progress)
		}
	}
	if len(goal.Connections) > 0 {
		fmt.Fprintf(&b, "\nDepends on: %s\n", strings.Join(goal.Connections, ", "))
	}
	return b.String()
}
