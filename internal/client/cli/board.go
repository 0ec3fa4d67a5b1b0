package cli

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/iudanet/osut/internal/validation"
	pkgapi "github.com/iudanet/osut/pkg/api"
)

func (c *Cli) runBoard(ctx context.Context, args []string) error {
	api := c.api()
	sub, args := subcommand(args)

	switch sub {
	case "list":
		members, err := api.ListBoardMembers(ctx)
		if err != nil {
			return fmt.Errorf("failed to list board: %w", err)
		}
		return c.render("board", boardListTemplate, members)

	case "get":
		id, _, err := requireID(args, "osut board get <id>")
		if err != nil {
			return err
		}
		member, err := api.GetBoardMember(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get board member: %w", err)
		}
		return c.render("board member", boardMemberTemplate, member)

	case "position":
		if len(args) == 0 {
			return fmt.Errorf("missing position. Usage: osut board position <position>")
		}
		position := pkgapi.BoardPosition(args[0])
		if err := validation.ValidateBoardMember(pkgapi.BoardMemberPayload{Position: position}, true); err != nil {
			return err
		}
		member, err := api.BoardMemberByPosition(ctx, position)
		if err != nil {
			return fmt.Errorf("failed to get board member: %w", err)
		}
		return c.render("board member", boardMemberTemplate, member)

	case "user":
		id, _, err := requireID(args, "osut board user <user-id>")
		if err != nil {
			return err
		}
		member, err := api.BoardMemberByUser(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get board member: %w", err)
		}
		return c.render("board member", boardMemberTemplate, member)

	case "assign":
		payload, err := parseBoardPayload("board assign", args)
		if err != nil {
			return err
		}
		if err := validation.ValidateBoardMember(payload, false); err != nil {
			return err
		}
		member, err := api.AssignBoardMember(ctx, payload)
		if err != nil {
			return fmt.Errorf("failed to assign board member: %w", err)
		}
		c.io.Println("✓ Board member assigned")
		return c.render("board member", boardMemberTemplate, member)

	case "update":
		id, rest, err := requireID(args, "osut board update <id> [flags]")
		if err != nil {
			return err
		}
		payload, err := parseBoardPayload("board update", rest)
		if err != nil {
			return err
		}
		if err := validation.ValidateBoardMember(payload, true); err != nil {
			return err
		}
		member, err := api.UpdateBoardMember(ctx, id, payload)
		if err != nil {
			return fmt.Errorf("failed to update board member: %w", err)
		}
		c.io.Println("✓ Board member updated")
		return c.render("board member", boardMemberTemplate, member)

	case "delete":
		id, _, err := requireID(args, "osut board delete <id>")
		if err != nil {
			return err
		}
		if err := api.DeleteBoardMember(ctx, id); err != nil {
			return fmt.Errorf("failed to delete board member: %w", err)
		}
		c.io.Printf("✓ Board member %s removed\n", id)
		return nil

	default:
		return fmt.Errorf("unknown board command: %s", sub)
	}
}

func parseBoardPayload(name string, args []string) (pkgapi.BoardMemberPayload, error) {
	var p pkgapi.BoardMemberPayload
	var position string

	flags := flag.NewFlagSet(name, flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	flags.StringVar(&p.UserID, "user", "", "User ID")
	flags.StringVar(&position, "position", "", "Board position")

	if err := flags.Parse(args); err != nil {
		return p, fmt.Errorf("%s: %w", name, err)
	}
	p.Position = pkgapi.BoardPosition(position)
	return p, nil
}
