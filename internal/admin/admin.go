// Package admin is the operator console: it creates admin accounts and
// grants or revokes the admin role directly against the store.
package admin

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/clicon/internal/common"
	"github.com/dmitrijs2005/clicon/internal/server/models"
)

// Users is the part of services.UserService the console needs.
type Users interface {
	Create(ctx context.Context, name, email, password string) (*models.User, error)
	SetRole(ctx context.Context, email string, role models.Role) (*models.User, error)
}

var ErrUnknownCommand = errors.New("unknown command")

type App struct {
	users  Users
	reader *bufio.Reader
	out    io.Writer
	fd     int
}

// NewApp reads answers from in and passwords from the terminal fd.
func NewApp(users Users, in io.Reader, out io.Writer, fd int) *App {
	return &App{users: users, reader: bufio.NewReader(in), out: out, fd: fd}
}

// Run executes one command: create-admin, promote or demote.
func (a *App) Run(ctx context.Context, command string) error {
	switch command {
	case "create-admin":
		return a.CreateAdmin(ctx)
	case "promote":
		return a.changeRole(ctx, models.RoleAdmin)
	case "demote":
		return a.changeRole(ctx, models.RoleNone)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, command)
	}
}

// CreateAdmin prompts for name, email and password and stores an account
// that already holds the admin role.
func (a *App) CreateAdmin(ctx context.Context) error {
	name, err := promptLine(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}

	email, err := promptLine(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := promptPassword(a.fd, a.out)
	if err != nil {
		return err
	}
	defer wipe(password)

	u, err := a.users.Create(ctx, name, email, string(password))
	if err != nil {
		return err
	}

	if _, err := a.users.SetRole(ctx, u.Email, models.RoleAdmin); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Admin %s created (id=%s)\n", u.Email, u.ID)
	return nil
}

func (a *App) changeRole(ctx context.Context, role models.Role) error {
	email, err := promptLine(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	u, err := a.users.SetRole(ctx, email, role)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("no user with email %s", email)
		}
		return err
	}

	if role == models.RoleAdmin {
		fmt.Fprintf(a.out, "%s is now an admin\n", u.Email)
	} else {
		fmt.Fprintf(a.out, "%s is no longer an admin\n", u.Email)
	}
	return nil
}
