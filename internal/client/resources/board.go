package resources

import (
	"context"

	pkgapi "github.com/iudanet/osut/pkg/api"
)

// ListBoardMembers возвращает состав совета
func (c *Client) ListBoardMembers(ctx context.Context) ([]pkgapi.BoardMember, error) {
	var members []pkgapi.BoardMember
	_, err := handleError(c.req(ctx, &members).Get("/api/BoardMembers"))
	return members, err
}

// GetBoardMember возвращает члена совета по ID
func (c *Client) GetBoardMember(ctx context.Context, id string) (*pkgapi.BoardMember, error) {
	return c.getBoardMember(ctx, "/api/BoardMembers/{id}", "id", id)
}

// BoardMemberByPosition возвращает члена совета на позиции
func (c *Client) BoardMemberByPosition(ctx context.Context, position pkgapi.BoardPosition) (*pkgapi.BoardMember, error) {
	return c.getBoardMember(ctx, "/api/BoardMembers/position/{position}", "position", string(position))
}

// BoardMemberByUser возвращает членство пользователя в совете
func (c *Client) BoardMemberByUser(ctx context.Context, userID string) (*pkgapi.BoardMember, error) {
	return c.getBoardMember(ctx, "/api/BoardMembers/user/{userId}", "userId", userID)
}

// AssignBoardMember назначает пользователя на позицию
func (c *Client) AssignBoardMember(ctx context.Context, payload pkgapi.BoardMemberPayload) (*pkgapi.BoardMember, error) {
	member := &pkgapi.BoardMember{}
	_, err := handleError(c.req(ctx, member).
		SetBody(payload).
		Post("/api/BoardMembers"))
	if err != nil {
		return nil, err
	}
	return member, nil
}

// UpdateBoardMember изменяет назначение
func (c *Client) UpdateBoardMember(ctx context.Context, id string, payload pkgapi.BoardMemberPayload) (*pkgapi.BoardMember, error) {
	member := &pkgapi.BoardMember{}
	_, err := handleError(c.req(ctx, member).
		SetPathParam("id", id).
		SetBody(payload).
		Put("/api/BoardMembers/{id}"))
	if err != nil {
		return nil, err
	}
	return member, nil
}

// DeleteBoardMember снимает члена совета
func (c *Client) DeleteBoardMember(ctx context.Context, id string) error {
	_, err := handleError(c.req(ctx, nil).
		SetPathParam("id", id).
		Delete("/api/BoardMembers/{id}"))
	return err
}

func (c *Client) getBoardMember(ctx context.Context, path, param, value string) (*pkgapi.BoardMember, error) {
	member := &pkgapi.BoardMember{}
	_, err := handleError(c.req(ctx, member).
		SetPathParam(param, value).
		Get(path))
	if err != nil {
		return nil, err
	}
	return member, nil
}
