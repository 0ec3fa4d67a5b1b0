package cli

import (
	"context"
	"errors"
	"fmt"
	"text/template"
	"time"

	"golang.org/x/oauth2"

	"github.com/iudanet/osut/internal/client/iocli"
	"github.com/iudanet/osut/internal/client/resources"
	"github.com/iudanet/osut/internal/models"
	pkgapi "github.com/iudanet/osut/pkg/api"
)

// ErrNotAuthenticated - команда требует входа
var ErrNotAuthenticated = errors.New("not authenticated. Please run 'osut login' first")

// ErrUsage - неверный вызов; справка уже напечатана
var ErrUsage = errors.New("invalid usage")

// Session - операции сессии, нужные командам (auth.Manager)
type Session interface {
	Login(ctx context.Context, idToken string) error
	Logout(ctx context.Context) error
	StartDemo()
	RefreshProfile(ctx context.Context) error
	State() models.SessionState
	IsAuthenticated() bool
	IsDemo() bool
	Principal() *pkgapi.User
}

// Cli выполняет команды клиента
type Cli struct {
	io      iocli.IO
	session Session
	backend resources.API
	demo    resources.API
	tokens  oauth2.TokenSource
	now     func() time.Time
}

// New создает Cli. backend обслуживает настоящую сессию, demo - демо-режим.
func New(io iocli.IO, session Session, backend, demo resources.API, tokens oauth2.TokenSource) *Cli {
	return &Cli{
		io:      io,
		session: session,
		backend: backend,
		demo:    demo,
		tokens:  tokens,
		now:     time.Now,
	}
}

// Run выполняет команду: args[0] - имя команды, остальное - ее аргументы
func (c *Cli) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		c.PrintUsage()
		return ErrUsage
	}

	command, rest := args[0], args[1:]

	switch command {
	case "help":
		c.PrintUsage()
		return nil
	case "login":
		return c.runLogin(ctx, rest)
	case "logout":
		return c.runLogout(ctx)
	case "status":
		return c.runStatus()
	case "profile":
		return c.runProfile(ctx)
	case "demo":
		return c.runDemo(ctx, rest)
	case "dashboard", "events", "departments", "board", "users":
		if !c.session.IsAuthenticated() {
			return ErrNotAuthenticated
		}
	default:
		c.PrintUsage()
		return fmt.Errorf("unknown command: %s", command)
	}

	switch command {
	case "dashboard":
		return c.runDashboard(ctx)
	case "events":
		return c.runEvents(ctx, rest)
	case "departments":
		return c.runDepartments(ctx, rest)
	case "board":
		return c.runBoard(ctx, rest)
	default:
		return c.runUsers(ctx, rest)
	}
}

// api возвращает источник ресурсов для текущей сессии
func (c *Cli) api() resources.API {
	if c.session.IsDemo() {
		return c.demo
	}
	return c.backend
}

func (c *Cli) render(name, text string, data any) error {
	tmpl, err := template.New(name).Parse(text)
	if err != nil {
		return fmt.Errorf("failed to parse %s template: %w", name, err)
	}
	if err := tmpl.Execute(c.io, data); err != nil {
		return fmt.Errorf("failed to render %s: %w", name, err)
	}
	return nil
}

// subcommand отделяет подкоманду; пустой ввод означает list
func subcommand(args []string) (string, []string) {
	if len(args) == 0 {
		return "list", nil
	}
	return args[0], args[1:]
}

func requireID(args []string, usage string) (string, []string, error) {
	if len(args) == 0 || args[0] == "" {
		return "", nil, fmt.Errorf("missing id. Usage: %s", usage)
	}
	return args[0], args[1:], nil
}
