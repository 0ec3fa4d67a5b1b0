package cli

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/iudanet/osut/internal/validation"
	pkgapi "github.com/iudanet/osut/pkg/api"
)

func (c *Cli) runEvents(ctx context.Context, args []string) error {
	api := c.api()
	sub, args := subcommand(args)

	switch sub {
	case "list":
		events, err := api.ListEvents(ctx)
		if err != nil {
			return fmt.Errorf("failed to list events: %w", err)
		}
		return c.render("events", eventsListTemplate, events)

	case "upcoming":
		events, err := api.UpcomingEvents(ctx)
		if err != nil {
			return fmt.Errorf("failed to list upcoming events: %w", err)
		}
		return c.render("events", eventsListTemplate, events)

	case "get":
		id, _, err := requireID(args, "osut events get <id>")
		if err != nil {
			return err
		}
		event, err := api.GetEvent(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get event: %w", err)
		}
		return c.render("event", eventTemplate, event)

	case "department":
		id, _, err := requireID(args, "osut events department <department-id>")
		if err != nil {
			return err
		}
		events, err := api.EventsByDepartment(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to list department events: %w", err)
		}
		return c.render("events", eventsListTemplate, events)

	case "create":
		payload, err := parseEventPayload("events create", args)
		if err != nil {
			return err
		}
		if err := validation.ValidateEvent(payload, false); err != nil {
			return err
		}
		event, err := api.CreateEvent(ctx, payload)
		if err != nil {
			return fmt.Errorf("failed to create event: %w", err)
		}
		c.io.Println("✓ Event created")
		return c.render("event", eventTemplate, event)

	case "update":
		id, rest, err := requireID(args, "osut events update <id> [flags]")
		if err != nil {
			return err
		}
		payload, err := parseEventPayload("events update", rest)
		if err != nil {
			return err
		}
		if err := validation.ValidateEvent(payload, true); err != nil {
			return err
		}
		event, err := api.UpdateEvent(ctx, id, payload)
		if err != nil {
			return fmt.Errorf("failed to update event: %w", err)
		}
		c.io.Println("✓ Event updated")
		return c.render("event", eventTemplate, event)

	case "delete":
		id, _, err := requireID(args, "osut events delete <id>")
		if err != nil {
			return err
		}
		if err := api.DeleteEvent(ctx, id); err != nil {
			return fmt.Errorf("failed to delete event: %w", err)
		}
		c.io.Printf("✓ Event %s deleted\n", id)
		return nil

	case "signup":
		id, _, err := requireID(args, "osut events signup <id>")
		if err != nil {
			return err
		}
		if err := api.SignUp(ctx, id); err != nil {
			return fmt.Errorf("failed to sign up: %w", err)
		}
		c.io.Printf("✓ Signed up for event %s\n", id)
		return nil

	case "cancel":
		id, _, err := requireID(args, "osut events cancel <id>")
		if err != nil {
			return err
		}
		if err := api.CancelSignup(ctx, id); err != nil {
			return fmt.Errorf("failed to cancel signup: %w", err)
		}
		c.io.Printf("✓ Signup for event %s cancelled\n", id)
		return nil

	case "signups":
		id, _, err := requireID(args, "osut events signups <id>")
		if err != nil {
			return err
		}
		signups, err := api.EventSignups(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to list signups: %w", err)
		}
		return c.render("signups", signupsListTemplate, signups)

	default:
		return fmt.Errorf("unknown events command: %s", sub)
	}
}

func parseEventPayload(name string, args []string) (pkgapi.EventPayload, error) {
	var p pkgapi.EventPayload

	flags := flag.NewFlagSet(name, flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	flags.StringVar(&p.Title, "title", "", "Event title")
	flags.StringVar(&p.Description, "description", "", "Event description")
	flags.StringVar(&p.DateTime, "date", "", "Start time, RFC 3339")
	flags.StringVar(&p.Location, "location", "", "Location")
	flags.StringVar(&p.DepartmentID, "department", "", "Department ID")

	if err := flags.Parse(args); err != nil {
		return p, fmt.Errorf("%s: %w", name, err)
	}
	return p, nil
}
