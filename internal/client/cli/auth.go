package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophauth/internal/client/client"
	"github.com/dmitrijs2005/gophauth/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for a username, email and password and creates the account.
func (a *App) Register(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}

	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	u, err := a.api.Register(ctx, userName, email, password)
	if err != nil {
		a.report("Registration failed", err)
		return err
	}

	fmt.Fprintf(a.out, "Registered %s (id %d)\n", u.UserName, u.ID)
	return nil
}

// Login prompts for credentials and keeps the returned token in memory.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	s, err := a.api.Login(ctx, email, password)
	if err != nil {
		a.report("Login unsuccessful", err)
		return err
	}

	a.token = s.Token
	a.userName = s.UserName
	a.setMode(ModeOnline)
	fmt.Fprintf(a.out, "Logged in as %s\n", s.UserName)
	return nil
}

// Logout forgets the token. Tokens are stateless so nothing is sent to the server.
func (a *App) Logout(ctx context.Context) error {
	a.token = ""
	a.userName = ""
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

// Me prints the identity carried by the current token.
func (a *App) Me(ctx context.Context) error {
	me, err := a.api.Me(ctx, a.token)
	if err != nil {
		return a.handleAuthError("Request failed", err)
	}

	fmt.Fprintf(a.out, "id: %d\nusername: %s\nemail: %s\ntoken expires: %s\n",
		me.UserID, me.UserName, me.Email, me.ExpiresAt.Local().Format("2006-01-02 15:04:05"))
	return nil
}

// Users prints every registered account.
func (a *App) Users(ctx context.Context) error {
	users, err := a.api.ListUsers(ctx, a.token)
	if err != nil {
		return a.handleAuthError("Request failed", err)
	}

	if len(users) == 0 {
		fmt.Fprintln(a.out, "No users")
		return nil
	}
	for _, u := range users {
		fmt.Fprintf(a.out, "%-6d %-20s %s\n", u.ID, u.UserName, u.Email)
	}
	return nil
}

// handleAuthError drops a token the server no longer accepts.
func (a *App) handleAuthError(prefix string, err error) error {
	if errors.Is(err, client.ErrUnauthorized) {
		a.token = ""
		a.userName = ""
		fmt.Fprintln(a.out, "Session expired, please log in again")
		return err
	}
	a.report(prefix, err)
	return err
}

func (a *App) report(prefix string, err error) {
	if errors.Is(err, client.ErrUnavailable) {
		a.setMode(ModeOffline)
	}
	fmt.Fprintf(a.out, "%s: %s\n", prefix, err.Error())
}
