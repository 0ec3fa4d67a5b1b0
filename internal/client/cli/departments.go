package cli

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/iudanet/osut/internal/validation"
	pkgapi "github.com/iudanet/osut/pkg/api"
)

func (c *Cli) runDepartments(ctx context.Context, args []string) error {
	api := c.api()
	sub, args := subcommand(args)

	switch sub {
	case "list":
		departments, err := api.ListDepartments(ctx)
		if err != nil {
			return fmt.Errorf("failed to list departments: %w", err)
		}
		return c.render("departments", departmentsListTemplate, departments)

	case "get":
		id, _, err := requireID(args, "osut departments get <id>")
		if err != nil {
			return err
		}
		department, err := api.GetDepartment(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get department: %w", err)
		}
		return c.render("department", departmentTemplate, department)

	case "type":
		if len(args) == 0 {
			return fmt.Errorf("missing type. Usage: osut departments type <Projects|Services|Directions>")
		}
		kind := pkgapi.DepartmentType(args[0])
		if err := validation.ValidateDepartment(pkgapi.DepartmentPayload{Type: kind}, true); err != nil {
			return err
		}
		departments, err := api.DepartmentsByType(ctx, kind)
		if err != nil {
			return fmt.Errorf("failed to list departments: %w", err)
		}
		return c.render("departments", departmentsListTemplate, departments)

	case "create":
		payload, err := parseDepartmentPayload("departments create", args)
		if err != nil {
			return err
		}
		if err := validation.ValidateDepartment(payload, false); err != nil {
			return err
		}
		department, err := api.CreateDepartment(ctx, payload)
		if err != nil {
			return fmt.Errorf("failed to create department: %w", err)
		}
		c.io.Println("✓ Department created")
		return c.render("department", departmentTemplate, department)

	case "update":
		id, rest, err := requireID(args, "osut departments update <id> [flags]")
		if err != nil {
			return err
		}
		payload, err := parseDepartmentPayload("departments update", rest)
		if err != nil {
			return err
		}
		if err := validation.ValidateDepartment(payload, true); err != nil {
			return err
		}
		department, err := api.UpdateDepartment(ctx, id, payload)
		if err != nil {
			return fmt.Errorf("failed to update department: %w", err)
		}
		c.io.Println("✓ Department updated")
		return c.render("department", departmentTemplate, department)

	case "delete":
		id, _, err := requireID(args, "osut departments delete <id>")
		if err != nil {
			return err
		}
		if err := api.DeleteDepartment(ctx, id); err != nil {
			return fmt.Errorf("failed to delete department: %w", err)
		}
		c.io.Printf("✓ Department %s deleted\n", id)
		return nil

	default:
		return fmt.Errorf("unknown departments command: %s", sub)
	}
}

func parseDepartmentPayload(name string, args []string) (pkgapi.DepartmentPayload, error) {
	var p pkgapi.DepartmentPayload
	var kind string

	flags := flag.NewFlagSet(name, flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	flags.StringVar(&p.Name, "name", "", "Department name")
	flags.StringVar(&p.Description, "description", "", "Description")
	flags.StringVar(&kind, "type", "", "Projects, Services or Directions")
	flags.StringVar(&p.CoordinatorID, "coordinator", "", "Coordinator user ID")

	if err := flags.Parse(args); err != nil {
		return p, fmt.Errorf("%s: %w", name, err)
	}
	p.Type = pkgapi.DepartmentType(kind)
	return p, nil
}
