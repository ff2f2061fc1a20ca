package eko

import (
	"context"
	"fmt"
	"net/url"
)

// searchLimit caps every search call; quick-reply payloads cannot carry more
// actionable items than this.
const searchLimit = 13

func searchQuery(keyword string) url.Values {
	q := url.Values{}
	q.Set("keyword", keyword)
	q.Set("limit", fmt.Sprint(searchLimit))
	return q
}

// SearchWorkflows returns the workflows matching keyword for one user.
// Failures degrade to an empty list; callers never see an error.
func (c *Client) SearchWorkflows(ctx context.Context, userID, keyword string) []Workflow {
	var result struct {
		Workflows []Workflow `json:"workflows"`
	}
	path := fmt.Sprintf("/api/workflow/v1/users/%s", url.PathEscape(userID))
	if err := c.getJSON(ctx, path, searchQuery(keyword), &result); err != nil {
		c.log.Error().Err(err).Str("keyword", keyword).Msg("workflow search failed")
		return nil
	}
	return result.Workflows
}

// SearchWorkflowTemplates returns the workflow templates matching keyword.
// The template search is global, not scoped to a user.
func (c *Client) SearchWorkflowTemplates(ctx context.Context, keyword string) []WorkflowTemplate {
	var result struct {
		Templates []WorkflowTemplate `json:"templates"`
	}
	if err := c.getJSON(ctx, "/api/workflow/v1", searchQuery(keyword), &result); err != nil {
		c.log.Error().Err(err).Str("keyword", keyword).Msg("workflow template search failed")
		return nil
	}
	return result.Templates
}

// SearchLibrary returns the library documents matching keyword for one user.
func (c *Client) SearchLibrary(ctx context.Context, userID, keyword string) []LibraryItem {
	var result []LibraryItem
	path := fmt.Sprintf("/api/library/v1/users/%s", url.PathEscape(userID))
	if err := c.getJSON(ctx, path, searchQuery(keyword), &result); err != nil {
		c.log.Error().Err(err).Str("keyword", keyword).Msg("library search failed")
		return nil
	}
	return result
}

// GetUserInfo looks up one user inside a group. Returns nil when the user
// does not exist or the lookup fails.
func (c *Client) GetUserInfo(ctx context.Context, groupID, userID string) map[string]any {
	var result map[string]any
	path := fmt.Sprintf("/bot/v2/groups/%s/users/%s/info", url.PathEscape(groupID), url.PathEscape(userID))
	if err := c.getJSON(ctx, path, nil, &result); err != nil {
		c.log.Error().Err(err).Str("user_id", userID).Msg("user info lookup failed")
		return nil
	}
	if len(result) == 0 {
		return nil
	}
	return result
}

// GetGroupThread resolves a user to their direct-chat group and thread.
// Returns the zero value when the user cannot be resolved.
func (c *Client) GetGroupThread(ctx context.Context, userID string) GroupThread {
	var result GroupThread
	path := fmt.Sprintf("/bot/v2/groups/users/%s", url.PathEscape(userID))
	if err := c.getJSON(ctx, path, nil, &result); err != nil {
		c.log.Error().Err(err).Str("user_id", userID).Msg("group thread lookup failed")
		return GroupThread{}
	}
	return result
}
