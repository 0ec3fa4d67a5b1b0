package resources

import (
	"context"

	pkgapi "github.com/iudanet/osut/pkg/api"
)

// ListUsers возвращает всех участников
func (c *Client) ListUsers(ctx context.Context) ([]pkgapi.User, error) {
	var users []pkgapi.User
	_, err := handleError(c.req(ctx, &users).Get("/api/Users"))
	return users, err
}

// GetUser возвращает участника по ID
func (c *Client) GetUser(ctx context.Context, id string) (*pkgapi.User, error) {
	user := &pkgapi.User{}
	_, err := handleError(c.req(ctx, user).
		SetPathParam("id", id).
		Get("/api/Users/{id}"))
	if err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateUser изменяет профиль; сервер не возвращает тело
func (c *Client) UpdateUser(ctx context.Context, id string, payload pkgapi.UserUpdatePayload) error {
	payload.ID = id
	_, err := handleError(c.req(ctx, nil).
		SetPathParam("id", id).
		SetBody(payload).
		Put("/api/Users/{id}"))
	return err
}

// DeleteUser удаляет участника
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	_, err := handleError(c.req(ctx, nil).
		SetPathParam("id", id).
		Delete("/api/Users/{id}"))
	return err
}
