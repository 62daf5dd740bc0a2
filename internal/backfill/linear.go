package backfill

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"github.com/Uday-sidagana/Linear-Tickets-Vis-Endpoints/internal/config"
)

const (
	linearGraphQLURL = "https://api.linear.app/graphql"
	linearPageSize   = 50
)

// Постраничный запрос задач команды, ограниченный интересующими статусами.
const teamIssuesQuery = `query TeamIssues($teamId: String!, $first: Int!, $after: String, $states: [String!]) {
  team(id: $teamId) {
    id
    name
    issues(first: $first, after: $after, filter: { state: { name: { in: $states } } }) {
      nodes {
        id
        identifier
        title
        createdAt
        updatedAt
        state { id name type }
        team { id name }
      }
      pageInfo { hasNextPage endCursor }
    }
  }
}`

// LinearClient перечисляет задачи команды через GraphQL API Linear.
type LinearClient struct {
	teamID string
	states []string
	client *http.Client
}

// NewLinearClient создаёт клиент с bearer-токеном из конфигурации.
func NewLinearClient(cfg config.LinearConfig, states []string) *LinearClient {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.APIToken})

	return &LinearClient{
		teamID: cfg.TeamID,
		states: states,
		client: oauth2.NewClient(context.Background(), src),
	}
}

type linearIssueNode struct {
	ID         string    `json:"id"`
	Identifier string    `json:"identifier"`
	Title      string    `json:"title"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
	State      struct {
		ID   string `json:"id"`
		Name string `json:"name"`
		Type string `json:"type"`
	} `json:"state"`
	Team struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"team"`
}

type teamIssuesResponse struct {
	Data struct {
		Team struct {
			ID     string `json:"id"`
			Name   string `json:"name"`
			Issues struct {
				Nodes    []linearIssueNode `json:"nodes"`
				PageInfo struct {
					HasNextPage bool   `json:"hasNextPage"`
					EndCursor   string `json:"endCursor"`
				} `json:"pageInfo"`
			} `json:"issues"`
		} `json:"team"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// Issues возвращает все задачи команды в интересующих статусах,
// пролистывая страницы API до конца.
func (c *LinearClient) Issues(ctx context.Context) ([]IssueSnapshot, error) {
	var snapshots []IssueSnapshot

	after := ""

	for {
		page, err := c.fetchPage(ctx, after)

		if err != nil {
			return nil, err
		}

		for _, node := range page.Data.Team.Issues.Nodes {
			snapshots = append(snapshots, IssueSnapshot{
				Identifier: node.Identifier,
				Title:      node.Title,
				TeamID:     node.Team.ID,
				TeamName:   node.Team.Name,
				State:      node.State.Name,
				CreatedAt:  node.CreatedAt,
				UpdatedAt:  node.UpdatedAt,
			})
		}

		if !page.Data.Team.Issues.PageInfo.HasNextPage {
			return snapshots, nil
		}

		after = page.Data.Team.Issues.PageInfo.EndCursor
	}
}

func (c *LinearClient) fetchPage(ctx context.Context, after string) (*teamIssuesResponse, error) {
	variables := map[string]any{
		"teamId": c.teamID,
		"first":  linearPageSize,
		"states": c.states,
	}

	if after != "" {
		variables["after"] = after
	}

	body, err := json.Marshal(map[string]any{
		"query":     teamIssuesQuery,
		"variables": variables,
	})

	if err != nil {
		return nil, fmt.Errorf("encode graphql request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, linearGraphQLURL, bytes.NewReader(body))

	if err != nil {
		return nil, fmt.Errorf("create graphql request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)

	if err != nil {
		return nil, fmt.Errorf("query linear api: %w", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("linear api: status %d: %s", resp.StatusCode, msg)
	}

	var page teamIssuesResponse

	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("decode linear response: %w", err)
	}

	if len(page.Errors) > 0 {
		return nil, fmt.Errorf("linear api: %s", page.Errors[0].Message)
	}

	return &page, nil
}
