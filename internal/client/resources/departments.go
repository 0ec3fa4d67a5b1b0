package resources

import (
	"context"

	pkgapi "github.com/iudanet/osut/pkg/api"
)

// ListDepartments возвращает все департаменты
func (c *Client) ListDepartments(ctx context.Context) ([]pkgapi.Department, error) {
	var departments []pkgapi.Department
	_, err := handleError(c.req(ctx, &departments).Get("/api/Departments"))
	return departments, err
}

// GetDepartment возвращает департамент по ID
func (c *Client) GetDepartment(ctx context.Context, id string) (*pkgapi.Department, error) {
	department := &pkgapi.Department{}
	_, err := handleError(c.req(ctx, department).
		SetPathParam("id", id).
		Get("/api/Departments/{id}"))
	if err != nil {
		return nil, err
	}
	return department, nil
}

// DepartmentsByType возвращает департаменты заданного типа
func (c *Client) DepartmentsByType(ctx context.Context, t pkgapi.DepartmentType) ([]pkgapi.Department, error) {
	var departments []pkgapi.Department
	_, err := handleError(c.req(ctx, &departments).
		SetPathParam("type", string(t)).
		Get("/api/Departments/type/{type}"))
	return departments, err
}

// CreateDepartment создает департамент
func (c *Client) CreateDepartment(ctx context.Context, payload pkgapi.DepartmentPayload) (*pkgapi.Department, error) {
	department := &pkgapi.Department{}
	_, err := handleError(c.req(ctx, department).
		SetBody(payload).
		Post("/api/Departments"))
	if err != nil {
		return nil, err
	}
	return department, nil
}

// UpdateDepartment изменяет департамент
func (c *Client) UpdateDepartment(ctx context.Context, id string, payload pkgapi.DepartmentPayload) (*pkgapi.Department, error) {
	department := &pkgapi.Department{}
	_, err := handleError(c.req(ctx, department).
		SetPathParam("id", id).
		SetBody(payload).
		Put("/api/Departments/{id}"))
	if err != nil {
		return nil, err
	}
	return department, nil
}

// DeleteDepartment удаляет департамент
func (c *Client) DeleteDepartment(ctx context.Context, id string) error {
	_, err := handleError(c.req(ctx, nil).
		SetPathParam("id", id).
		Delete("/api/Departments/{id}"))
	return err
}
