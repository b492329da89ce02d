package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/credkeeper/internal/client/client"
	"github.com/dmitrijs2005/credkeeper/internal/client/config"
)

// newClient is a seam for tests.
var newClient = func(c *config.Config) client.Client {
	return client.NewHTTPClient(c.ServerURL, c.RequestTimeout)
}

type App struct {
	config *config.Config
	client client.Client
	reader *bufio.Reader
	out    io.Writer
}

func NewApp(c *config.Config, in io.Reader, out io.Writer) *App {
	return &App{config: c, client: newClient(c), reader: bufio.NewReader(in), out: out}
}

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Signup registers an account. Missing name or email are prompted for; the
// password is always prompted for.
func (a *App) Signup(ctx context.Context, name, email string) error {
	var err error
	if name == "" {
		if name, err = getSimpleText(a.reader, "Enter name", a.out); err != nil {
			return err
		}
	}
	if email == "" {
		if email, err = getSimpleText(a.reader, "Enter email", a.out); err != nil {
			return err
		}
	}

	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}

	id, err := a.client.Signup(ctx, name, email, password)
	if err != nil {
		return describe(err)
	}

	fmt.Fprintf(a.out, "User created: %s\n", id)
	return nil
}

// Login authenticates and prints the access token. With tokenOnly set the
// token is the only output line, for use in scripts.
func (a *App) Login(ctx context.Context, email string, tokenOnly bool) error {
	var err error
	if email == "" {
		if email, err = getSimpleText(a.reader, "Enter email", a.out); err != nil {
			return err
		}
	}

	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}

	s, err := a.client.Login(ctx, email, password)
	if err != nil {
		return describe(err)
	}

	if tokenOnly {
		fmt.Fprintln(a.out, s.AccessToken)
		return nil
	}
	fmt.Fprintf(a.out, "Logged in as %s <%s> (id %s)\n", s.User.Name, s.User.Email, s.User.ID)
	fmt.Fprintf(a.out, "Access token: %s\n", s.AccessToken)
	return nil
}

// Ping reports whether the server answers.
func (a *App) Ping(ctx context.Context) error {
	if err := a.client.Ping(ctx); err != nil {
		return describe(err)
	}
	fmt.Fprintf(a.out, "%s is up\n", a.config.ServerURL)
	return nil
}

// cliError is a terminal-friendly message that still unwraps to the client error.
type cliError struct {
	msg string
	err error
}

func (e *cliError) Error() string { return e.msg }
func (e *cliError) Unwrap() error { return e.err }

// describe turns client errors into messages fit for the terminal.
func describe(err error) error {
	var msg string
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		msg = apiErr.Message
	}

	switch {
	case errors.Is(err, client.ErrUnavailable):
		return fmt.Errorf("cannot reach server: %w", err)
	case errors.Is(err, client.ErrServer):
		return &cliError{msg: "server error, try again later", err: err}
	case errors.Is(err, client.ErrNotFound) && msg != "":
		return &cliError{msg: msg + " (create an account with: credkeeper-cli signup)", err: err}
	case errors.Is(err, client.ErrUnauthorized), errors.Is(err, client.ErrBadRequest):
		if msg != "" {
			return &cliError{msg: msg, err: err}
		}
	}
	return err
}
