package targetprocess

import (
	"context"
	"fmt"
	"net/url"

	"github.com/tkc/tp-todo/internal/domain"
)

const loggedUserInclude = "[Email,TeamMembers[Team]]"

type loggedUserResponse struct {
	ID          int    `json:"Id"`
	Email       string `json:"Email"`
	TeamMembers struct {
		Items []struct {
			Team struct {
				ID   int    `json:"Id"`
				Name string `json:"Name"`
			} `json:"Team"`
		} `json:"Items"`
	} `json:"TeamMembers"`
}

// CurrentUser はトークンの持ち主と所属チームを取得する
func (c *Client) CurrentUser(ctx context.Context) (*domain.User, error) {
	params := url.Values{
		"include": {loggedUserInclude},
	}

	var resp loggedUserResponse
	if err := c.get(ctx, "users/LoggedUser", params, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch current user: %w", err)
	}

	user := &domain.User{
		ID:    resp.ID,
		Email: resp.Email,
		Teams: make([]domain.Team, 0, len(resp.TeamMembers.Items)),
	}
	for _, m := range resp.TeamMembers.Items {
		user.Teams = append(user.Teams, domain.Team{
			ID:   m.Team.ID,
			Name: m.Team.Name,
		})
	}
	return user, nil
}
