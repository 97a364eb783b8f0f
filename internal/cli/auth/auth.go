package auth

import (
	"time"

	"github.com/charmbracelet/huh"
	"github.com/gosuri/uitable"

	"github.com/MarkBevz50/focusflow/internal/cli"
	"github.com/MarkBevz50/focusflow/internal/constants"
)

type SignUpCmd struct {
	Email    string `arg:"" help:"Account email."`
	Password string `help:"Password (prompted when omitted)." env:"FOCUSFLOW_PASSWORD"`
	Confirm  string `help:"Password confirmation (prompted when omitted)."`
	Login    bool   `help:"Log in right after signing up."`
}

func (c *SignUpCmd) Run(ctx *cli.Context) error {
	password, confirm := c.Password, c.Confirm
	if password == "" {
		form := huh.NewForm(huh.NewGroup(
			huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&password),
			huh.NewInput().Title("Confirm password").EchoMode(huh.EchoModePassword).Value(&confirm),
		))
		if err := form.Run(); err != nil {
			return err
		}
	} else if confirm == "" {
		confirm = password
	}

	if err := ctx.Session.SignUp(ctx.Context(), c.Email, password, confirm); err != nil {
		return err
	}
	ctx.Printf("Account created for %s.\n", c.Email)

	if !c.Login {
		ctx.Printf("Log in with '%s auth login %s'.\n", constants.AppName, c.Email)
		return nil
	}
	return login(ctx, c.Email, password)
}

type LoginCmd struct {
	Email    string `arg:"" help:"Account email."`
	Password string `help:"Password (prompted when omitted)." env:"FOCUSFLOW_PASSWORD"`
}

func (c *LoginCmd) Run(ctx *cli.Context) error {
	password := c.Password
	if password == "" {
		err := huh.NewInput().
			Title("Password for " + c.Email).
			EchoMode(huh.EchoModePassword).
			Value(&password).
			Run()
		if err != nil {
			return err
		}
	}
	return login(ctx, c.Email, password)
}

func login(ctx *cli.Context, email, password string) error {
	res, err := ctx.Session.Login(ctx.Context(), email, password)
	if err != nil {
		return err
	}
	if res.Warning != "" {
		ctx.Println(res.Warning)
		return nil
	}
	ctx.Printf("Logged in as %s.\n", res.Profile.Email)
	return nil
}

type LogoutCmd struct{}

func (c *LogoutCmd) Run(ctx *cli.Context) error {
	if err := ctx.Session.Logout(ctx.Context()); err != nil {
		return err
	}
	ctx.Println("Logged out.")
	return nil
}

type StatusCmd struct{}

func (c *StatusCmd) Run(ctx *cli.Context) error {
	if err := ctx.RestoreSession(); err != nil {
		return err
	}
	if !ctx.Session.IsAuthenticated() {
		ctx.Println("Not logged in.")
		return nil
	}

	tbl := uitable.New()
	tbl.AddRow("API:", ctx.API.BaseURL())
	if p, ok := ctx.Session.Profile(); ok {
		tbl.AddRow("Email:", p.Email)
		tbl.AddRow("User ID:", p.ID)
		if !p.RegisteredAt.IsZero() {
			tbl.AddRow("Registered:", p.RegisteredAt.DateString())
		}
	}
	if claims, ok := ctx.Session.Claims(); ok && !claims.ExpiresAt.IsZero() {
		expiry := claims.ExpiresAt.Local().Format(time.RFC1123)
		if claims.Expired(ctx.Now()) {
			expiry += " (expired)"
		}
		tbl.AddRow("Token expires:", expiry)
	}
	ctx.Println("Logged in.")
	ctx.Println(tbl)
	return nil
}
