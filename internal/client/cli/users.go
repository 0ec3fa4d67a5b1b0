package cli

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/iudanet/osut/internal/validation"
	pkgapi "github.com/iudanet/osut/pkg/api"
)

func (c *Cli) runUsers(ctx context.Context, args []string) error {
	api := c.api()
	sub, args := subcommand(args)

	switch sub {
	case "list":
		users, err := api.ListUsers(ctx)
		if err != nil {
			return fmt.Errorf("failed to list members: %w", err)
		}
		return c.render("users", usersListTemplate, users)

	case "get":
		id, _, err := requireID(args, "osut users get <id>")
		if err != nil {
			return err
		}
		user, err := api.GetUser(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get member: %w", err)
		}
		return c.render("user", userTemplate, user)

	case "update":
		id, rest, err := requireID(args, "osut users update <id> [flags]")
		if err != nil {
			return err
		}
		payload, err := parseUserUpdate(rest)
		if err != nil {
			return err
		}
		if err := validation.ValidateUserUpdate(payload, c.now()); err != nil {
			return err
		}
		if err := api.UpdateUser(ctx, id, payload); err != nil {
			return fmt.Errorf("failed to update member: %w", err)
		}
		c.io.Printf("✓ Member %s updated\n", id)

		// Свой профиль перечитываем, чтобы сессия видела изменения
		if me := c.session.Principal(); me != nil && me.ID == id {
			_ = c.session.RefreshProfile(ctx)
		}
		return nil

	case "delete":
		id, _, err := requireID(args, "osut users delete <id>")
		if err != nil {
			return err
		}
		if err := api.DeleteUser(ctx, id); err != nil {
			return fmt.Errorf("failed to delete member: %w", err)
		}
		c.io.Printf("✓ Member %s deleted\n", id)
		return nil

	default:
		return fmt.Errorf("unknown users command: %s", sub)
	}
}

// parseUserUpdate заполняет только явно заданные флаги
func parseUserUpdate(args []string) (pkgapi.UserUpdatePayload, error) {
	var p pkgapi.UserUpdatePayload

	flags := flag.NewFlagSet("users update", flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	firstName := flags.String("first-name", "", "First name")
	lastName := flags.String("last-name", "", "Last name")
	email := flags.String("email", "", "Email")
	userName := flags.String("username", "", "Username")
	picture := flags.String("picture", "", "Profile picture URL")
	status := flags.String("status", "", "Volunteer status")
	year := flags.Int("year", 0, "Year of birth")
	admin := flags.Bool("admin", false, "Administrator flag")

	if err := flags.Parse(args); err != nil {
		return p, fmt.Errorf("users update: %w", err)
	}

	flags.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "first-name":
			p.FirstName = firstName
		case "last-name":
			p.LastName = lastName
		case "email":
			p.Email = email
		case "username":
			p.UserName = userName
		case "picture":
			p.ProfilePictureURL = picture
		case "status":
			s := pkgapi.VolunteerStatus(*status)
			p.Status = &s
		case "year":
			p.YearOfBirth = year
		case "admin":
			p.IsAdmin = admin
		}
	})

	return p, nil
}
