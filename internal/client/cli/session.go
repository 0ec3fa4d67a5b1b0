package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/iudanet/osut/internal/client/auth"
	pkgapi "github.com/iudanet/osut/pkg/api"
)

func (c *Cli) runLogin(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("login", flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	idToken := flags.String("id-token", "", "Google identity token")
	if err := flags.Parse(args); err != nil {
		return fmt.Errorf("login: %w", err)
	}

	c.io.Println("=== Login ===")
	c.io.Println()

	token := *idToken
	if token == "" {
		var err error
		token, err = c.io.ReadSecret("Identity token: ")
		if err != nil {
			return fmt.Errorf("failed to read identity token: %w", err)
		}
	}

	c.io.Println("Authenticating...")

	if err := c.session.Login(ctx, token); err != nil {
		if errors.Is(err, auth.ErrAuthenticationFailed) {
			return fmt.Errorf("login rejected: %w", err)
		}
		return err
	}

	c.io.Println()
	c.io.Println("✓ Login successful!")
	if user := c.session.Principal(); user != nil {
		c.io.Printf("Signed in as %s\n", user.DisplayName())
	} else {
		c.io.Println("Profile could not be loaded; run 'osut profile' to retry.")
	}

	return nil
}

func (c *Cli) runLogout(ctx context.Context) error {
	c.io.Println("=== Logout ===")

	if err := c.session.Logout(ctx); err != nil {
		return fmt.Errorf("logout failed: %w", err)
	}

	c.io.Println("✓ Logout successful!")
	c.io.Println("Your local session has been deleted.")

	return nil
}

type statusView struct {
	Principal *pkgapi.User
	State     string
	ExpiresAt string
	Remaining time.Duration
	HasToken  bool
	Expired   bool
}

func (c *Cli) runStatus() error {
	view := statusView{
		State:     c.session.State().String(),
		Principal: c.session.Principal(),
	}

	if !c.session.IsDemo() && c.tokens != nil {
		if token, err := c.tokens.Token(); err == nil && !token.Expiry.IsZero() {
			view.HasToken = true
			view.ExpiresAt = token.Expiry.Format(time.RFC3339)
			view.Remaining = token.Expiry.Sub(c.now()).Round(time.Second)
			view.Expired = view.Remaining <= 0
		}
	}

	if err := c.render("status", statusTemplate, view); err != nil {
		return err
	}

	if !c.session.IsAuthenticated() {
		c.io.Println()
		c.io.Println("Run 'osut login' to authenticate.")
	}
	return nil
}

func (c *Cli) runProfile(ctx context.Context) error {
	if !c.session.IsAuthenticated() {
		return ErrNotAuthenticated
	}

	if err := c.session.RefreshProfile(ctx); err != nil {
		c.io.Printf("Warning: %v\n", err)
	}

	user := c.session.Principal()
	if user == nil {
		return fmt.Errorf("profile is not available")
	}
	return c.render("user", userTemplate, user)
}

// runDemo включает демо-сессию и выполняет в ней команду
func (c *Cli) runDemo(ctx context.Context, args []string) error {
	c.session.StartDemo()
	c.io.Println("Demo mode: local sample data, nothing is sent to the server.")

	if len(args) == 0 {
		args = []string{"dashboard"}
	}
	if args[0] == "demo" || args[0] == "login" {
		return fmt.Errorf("'%s' cannot run inside a demo session", args[0])
	}
	return c.Run(ctx, args)
}
