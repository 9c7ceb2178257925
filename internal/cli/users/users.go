// Package users holds the profile and sign-in commands. Signing in records the
// owner id in the OS keyring; credentials are not verified here.
package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/cli"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/models"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/storage"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/utils"
)

type RegisterCmd struct {
	Name       string `help:"Display name." required:""`
	Email      string `help:"Email address." required:""`
	Age        int    `help:"Age in years."`
	Profession string `help:"Profession."`
	Timezone   string `help:"IANA timezone for day boundaries." default:"Local"`
}

func (c *RegisterCmd) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("name must not be empty")
	}
	if err := validateEmail(c.Email); err != nil {
		return err
	}
	if c.Age < 0 || c.Age > 150 {
		return fmt.Errorf("age must be between 1 and 150")
	}
	if !utils.ValidateTimezone(c.Timezone) {
		return fmt.Errorf("invalid timezone: %q", c.Timezone)
	}
	return nil
}

func (c *RegisterCmd) Run(ctx *cli.Context) error {
	bg := context.Background()

	_, err := ctx.Store.GetUserByEmail(bg, c.Email)
	if err == nil {
		return fmt.Errorf("a user with email %s already exists, use 'dayspent login --email %s'", c.Email, c.Email)
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("failed to look up user: %w", err)
	}

	user := models.User{
		Name:       strings.TrimSpace(c.Name),
		Email:      c.Email,
		Profession: strings.TrimSpace(c.Profession),
	}
	if c.Age > 0 {
		age := c.Age
		user.Age = &age
	}
	user, err = ctx.Store.CreateUser(bg, user)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	settings := models.DefaultSettings()
	settings.Timezone = c.Timezone
	if err := ctx.Store.SaveSettings(bg, user.ID, settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	if err := ctx.SignIn(user.ID); err != nil {
		return fmt.Errorf("registered %s but failed to sign in: %w", user.Email, err)
	}

	ctx.Printf("✓ Registered and signed in as %s <%s>\n", user.Name, user.Email)
	return nil
}

type LoginCmd struct {
	Email string `help:"Email address of a registered user." required:""`
}

func (c *LoginCmd) Run(ctx *cli.Context) error {
	bg := context.Background()

	user, err := ctx.Store.GetUserByEmail(bg, c.Email)
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("no user with email %s, run 'dayspent register' first", c.Email)
	}
	if err != nil {
		return fmt.Errorf("failed to look up user: %w", err)
	}

	if err := ctx.SignIn(user.ID); err != nil {
		return fmt.Errorf("failed to sign in: %w", err)
	}
	ctx.Printf("✓ Signed in as %s <%s>\n", user.Name, user.Email)
	return nil
}

type LogoutCmd struct{}

func (c *LogoutCmd) Run(ctx *cli.Context) error {
	if err := ctx.SignOut(); err != nil {
		return fmt.Errorf("failed to sign out: %w", err)
	}
	ctx.Println("✓ Signed out")
	return nil
}

type WhoamiCmd struct{}

func (c *WhoamiCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	owner, err := ctx.Owner(bg)
	if err != nil {
		return err
	}

	user, err := ctx.Store.GetUser(bg, owner)
	if errors.Is(err, storage.ErrNotFound) {
		ctx.Printf("%s (no profile)\n", owner)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}

	ctx.Printf("%s <%s>\n", user.Name, user.Email)
	ctx.Println(cli.Muted("id: " + user.ID))
	if user.Age != nil {
		ctx.Printf("Age: %d\n", *user.Age)
	}
	if user.Profession != "" {
		ctx.Printf("Profession: %s\n", user.Profession)
	}
	return nil
}

type ProfileEditCmd struct {
	Name       *string `help:"New display name."`
	Email      *string `help:"New email address."`
	Age        *int    `help:"New age, 0 to clear."`
	Profession *string `help:"New profession."`
}

func (c *ProfileEditCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	owner, err := ctx.Owner(bg)
	if err != nil {
		return err
	}
	user, err := ctx.Store.GetUser(bg, owner)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}

	if c.Name != nil {
		if strings.TrimSpace(*c.Name) == "" {
			return fmt.Errorf("name must not be empty")
		}
		user.Name = strings.TrimSpace(*c.Name)
	}
	if c.Email != nil {
		if err := validateEmail(*c.Email); err != nil {
			return err
		}
		other, err := ctx.Store.GetUserByEmail(bg, *c.Email)
		if err == nil && other.ID != user.ID {
			return fmt.Errorf("email %s is already in use", *c.Email)
		}
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("failed to look up user: %w", err)
		}
		user.Email = *c.Email
	}
	if c.Age != nil {
		switch {
		case *c.Age == 0:
			user.Age = nil
		case *c.Age < 0 || *c.Age > 150:
			return fmt.Errorf("age must be between 1 and 150")
		default:
			age := *c.Age
			user.Age = &age
		}
	}
	if c.Profession != nil {
		user.Profession = strings.TrimSpace(*c.Profession)
	}

	if err := ctx.Store.UpdateUser(bg, user); err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	ctx.Println("✓ Profile updated")
	return nil
}

func validateEmail(email string) error {
	email = strings.TrimSpace(email)
	at := strings.Index(email, "@")
	if at < 1 || at == len(email)-1 || strings.Count(email, "@") != 1 {
		return fmt.Errorf("invalid email address: %q", email)
	}
	return nil
}
