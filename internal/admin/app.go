// Package admin implements the operator tool: creating accounts, printing
// password reset links and sweeping old reset tokens. It talks to the same
// database as the server and reads the same configuration.
package admin

import (
	"bufio"
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/tasktracker/internal/common"
	"github.com/dmitrijs2005/tasktracker/internal/cryptox"
	"github.com/dmitrijs2005/tasktracker/internal/logging"
	"github.com/dmitrijs2005/tasktracker/internal/server"
	"github.com/dmitrijs2005/tasktracker/internal/server/config"
	"github.com/dmitrijs2005/tasktracker/internal/server/services"
)

var ErrUsage = errors.New("usage: admin [flags] useradd [email] | reset-link <email> | sweep-resets")

type App struct {
	config *config.Config
	db     *sql.DB
	users  *services.UserService
	resets *services.ResetService
	reader *bufio.Reader
	out    io.Writer
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stderr, c.LogLevel)

	db, rm, err := server.OpenStore(ctx, c, logger)
	if err != nil {
		return nil, err
	}

	hasher, err := cryptox.NewHasher(c.BcryptCost)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &App{
		config: c,
		db:     db,
		users:  services.NewUserService(db, rm, hasher, c, logger),
		resets: services.NewResetService(db, rm, hasher, c, logger),
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}, nil
}

func (a *App) Close() error {
	return a.db.Close()
}

// Run executes one command given as positional arguments.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return ErrUsage
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "useradd":
		return a.userAdd(ctx, rest)
	case "reset-link":
		return a.resetLink(ctx, rest)
	case "sweep-resets":
		return a.sweepResets(ctx)
	case "help":
		fmt.Fprintln(a.out, ErrUsage.Error())
		return nil
	default:
		return fmt.Errorf("unknown command %q: %w", cmd, ErrUsage)
	}
}

func (a *App) userAdd(ctx context.Context, args []string) error {
	var email string
	if len(args) > 0 {
		email = args[0]
	} else {
		var err error
		email, err = GetSimpleText(a.reader, "Enter user name (email)", a.out)
		if err != nil {
			return err
		}
	}

	password, err := GetPassword(a.out, "Enter password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	confirm, err := GetPassword(a.out, "Repeat password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	if !bytes.Equal(password, confirm) {
		return errors.New("passwords do not match")
	}

	u, err := a.users.Register(ctx, email, string(password))
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "created user %s (id %d)\n", u.Email, u.ID)
	return nil
}

func (a *App) resetLink(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}

	token, err := a.resets.Issue(ctx, args[0])
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s/reset/%s\n", a.config.BaseURL, token)
	return nil
}

func (a *App) sweepResets(ctx context.Context) error {
	n, err := a.resets.Sweep(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "deleted %d reset tokens older than %s\n", n, a.config.ResetTokenRetention)
	return nil
}
