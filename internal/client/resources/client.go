// Package resources implements the CRUD surface of the OSUT backend.
// Every call goes through the http.Client it is built with, so bearer
// injection and token refresh come from api.Transport.
package resources

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/iudanet/osut/internal/client/api"
	pkgapi "github.com/iudanet/osut/pkg/api"
)

// ErrNotFound - запрошенный ресурс не существует
var ErrNotFound = errors.New("resource not found")

// Users операции над участниками
type Users interface {
	ListUsers(ctx context.Context) ([]pkgapi.User, error)
	GetUser(ctx context.Context, id string) (*pkgapi.User, error)
	UpdateUser(ctx context.Context, id string, payload pkgapi.UserUpdatePayload) error
	DeleteUser(ctx context.Context, id string) error
}

// Events операции над мероприятиями и записями на них
type Events interface {
	ListEvents(ctx context.Context) ([]pkgapi.Event, error)
	UpcomingEvents(ctx context.Context) ([]pkgapi.Event, error)
	GetEvent(ctx context.Context, id string) (*pkgapi.Event, error)
	EventsByDepartment(ctx context.Context, departmentID string) ([]pkgapi.Event, error)
	CreateEvent(ctx context.Context, payload pkgapi.EventPayload) (*pkgapi.Event, error)
	UpdateEvent(ctx context.Context, id string, payload pkgapi.EventPayload) (*pkgapi.Event, error)
	DeleteEvent(ctx context.Context, id string) error
	SignUp(ctx context.Context, eventID string) error
	CancelSignup(ctx context.Context, eventID string) error
	EventSignups(ctx context.Context, eventID string) ([]pkgapi.EventSignup, error)
}

// Departments операции над департаментами
type Departments interface {
	ListDepartments(ctx context.Context) ([]pkgapi.Department, error)
	GetDepartment(ctx context.Context, id string) (*pkgapi.Department, error)
	DepartmentsByType(ctx context.Context, t pkgapi.DepartmentType) ([]pkgapi.Department, error)
	CreateDepartment(ctx context.Context, payload pkgapi.DepartmentPayload) (*pkgapi.Department, error)
	UpdateDepartment(ctx context.Context, id string, payload pkgapi.DepartmentPayload) (*pkgapi.Department, error)
	DeleteDepartment(ctx context.Context, id string) error
}

// Board операции над составом совета
type Board interface {
	ListBoardMembers(ctx context.Context) ([]pkgapi.BoardMember, error)
	GetBoardMember(ctx context.Context, id string) (*pkgapi.BoardMember, error)
	BoardMemberByPosition(ctx context.Context, position pkgapi.BoardPosition) (*pkgapi.BoardMember, error)
	BoardMemberByUser(ctx context.Context, userID string) (*pkgapi.BoardMember, error)
	AssignBoardMember(ctx context.Context, payload pkgapi.BoardMemberPayload) (*pkgapi.BoardMember, error)
	UpdateBoardMember(ctx context.Context, id string, payload pkgapi.BoardMemberPayload) (*pkgapi.BoardMember, error)
	DeleteBoardMember(ctx context.Context, id string) error
}

// API весь набор ресурсов backend
type API interface {
	Users
	Events
	Departments
	Board
}

// Client реализует API поверх resty
type Client struct {
	http *resty.Client
}

// Compile-time check that Client implements API
var _ API = (*Client)(nil)

// NewClient создает клиент ресурсов. httpClient должен содержать конвейер
// api.Transport, иначе запросы уйдут без токена.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	rc := resty.NewWithClient(httpClient).
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Accept", "application/json").
		SetError(&pkgapi.ErrorResponse{})

	return &Client{http: rc}
}

func (c *Client) req(ctx context.Context, result any) *resty.Request {
	request := c.http.NewRequest().SetContext(ctx)
	if result != nil {
		request.SetResult(result)
	}
	return request
}

// handleError превращает ответ вне 2xx в *api.StatusError.
// Без этого resty возвращает nil ошибку для 4xx/5xx.
func handleError(res *resty.Response, err error) (*resty.Response, error) {
	if err != nil {
		return res, fmt.Errorf("request failed: %w", err)
	}
	if !res.IsError() {
		return res, nil
	}

	statusErr := &api.StatusError{StatusCode: res.StatusCode()}
	if body, ok := res.Error().(*pkgapi.ErrorResponse); ok && body != nil {
		statusErr.Message = body.Text()
	}
	if statusErr.Message == "" {
		statusErr.Message = strings.TrimSpace(res.String())
	}

	if res.StatusCode() == http.StatusNotFound {
		return res, fmt.Errorf("%s %s: %w: %w", res.Request.Method, res.Request.URL, ErrNotFound, statusErr)
	}
	return res, fmt.Errorf("%s %s: %w", res.Request.Method, res.Request.URL, statusErr)
}
