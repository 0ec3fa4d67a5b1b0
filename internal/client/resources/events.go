package resources

import (
	"context"

	pkgapi "github.com/iudanet/osut/pkg/api"
)

// ListEvents возвращает все мероприятия
func (c *Client) ListEvents(ctx context.Context) ([]pkgapi.Event, error) {
	var events []pkgapi.Event
	_, err := handleError(c.req(ctx, &events).Get("/api/Events"))
	return events, err
}

// UpcomingEvents возвращает предстоящие мероприятия
func (c *Client) UpcomingEvents(ctx context.Context) ([]pkgapi.Event, error) {
	var events []pkgapi.Event
	_, err := handleError(c.req(ctx, &events).Get("/api/Events/upcoming"))
	return events, err
}

// GetEvent возвращает мероприятие по ID
func (c *Client) GetEvent(ctx context.Context, id string) (*pkgapi.Event, error) {
	event := &pkgapi.Event{}
	_, err := handleError(c.req(ctx, event).
		SetPathParam("id", id).
		Get("/api/Events/{id}"))
	if err != nil {
		return nil, err
	}
	return event, nil
}

// EventsByDepartment возвращает мероприятия департамента
func (c *Client) EventsByDepartment(ctx context.Context, departmentID string) ([]pkgapi.Event, error) {
	var events []pkgapi.Event
	_, err := handleError(c.req(ctx, &events).
		SetPathParam("departmentId", departmentID).
		Get("/api/Events/department/{departmentId}"))
	return events, err
}

// CreateEvent создает мероприятие
func (c *Client) CreateEvent(ctx context.Context, payload pkgapi.EventPayload) (*pkgapi.Event, error) {
	event := &pkgapi.Event{}
	_, err := handleError(c.req(ctx, event).
		SetBody(payload).
		Post("/api/Events"))
	if err != nil {
		return nil, err
	}
	return event, nil
}

// UpdateEvent изменяет мероприятие; пустые поля payload не отправляются
func (c *Client) UpdateEvent(ctx context.Context, id string, payload pkgapi.EventPayload) (*pkgapi.Event, error) {
	event := &pkgapi.Event{}
	_, err := handleError(c.req(ctx, event).
		SetPathParam("id", id).
		SetBody(payload).
		Put("/api/Events/{id}"))
	if err != nil {
		return nil, err
	}
	return event, nil
}

// DeleteEvent удаляет мероприятие
func (c *Client) DeleteEvent(ctx context.Context, id string) error {
	_, err := handleError(c.req(ctx, nil).
		SetPathParam("id", id).
		Delete("/api/Events/{id}"))
	return err
}

// SignUp записывает текущего пользователя на мероприятие
func (c *Client) SignUp(ctx context.Context, eventID string) error {
	_, err := handleError(c.req(ctx, nil).
		SetPathParam("id", eventID).
		Post("/api/Events/{id}/signup"))
	return err
}

// CancelSignup отменяет запись текущего пользователя
func (c *Client) CancelSignup(ctx context.Context, eventID string) error {
	_, err := handleError(c.req(ctx, nil).
		SetPathParam("id", eventID).
		Delete("/api/Events/{id}/signup"))
	return err
}

// EventSignups возвращает записи на мероприятие
func (c *Client) EventSignups(ctx context.Context, eventID string) ([]pkgapi.EventSignup, error) {
	var signups []pkgapi.EventSignup
	_, err := handleError(c.req(ctx, &signups).
		SetPathParam("id", eventID).
		Get("/api/Events/{id}/signups"))
	return signups, err
}
