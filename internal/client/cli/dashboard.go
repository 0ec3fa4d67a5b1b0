package cli

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	pkgapi "github.com/iudanet/osut/pkg/api"
)

type dashboardView struct {
	Principal   *pkgapi.User
	Events      []pkgapi.Event
	Departments []pkgapi.Department
	Board       []pkgapi.BoardMember
}

// runDashboard загружает разделы параллельно; ошибка любого отменяет остальные
func (c *Cli) runDashboard(ctx context.Context) error {
	api := c.api()
	view := dashboardView{Principal: c.session.Principal()}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		events, err := api.UpcomingEvents(gctx)
		if err != nil {
			return fmt.Errorf("upcoming events: %w", err)
		}
		view.Events = events
		return nil
	})
	g.Go(func() error {
		departments, err := api.ListDepartments(gctx)
		if err != nil {
			return fmt.Errorf("departments: %w", err)
		}
		view.Departments = departments
		return nil
	})
	g.Go(func() error {
		board, err := api.ListBoardMembers(gctx)
		if err != nil {
			return fmt.Errorf("board: %w", err)
		}
		view.Board = board
		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("failed to load dashboard: %w", err)
	}

	return c.render("dashboard", dashboardTemplate, view)
}
