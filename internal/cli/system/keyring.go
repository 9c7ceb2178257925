package system

import (
	"errors"
	"fmt"

	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/cli"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/keyring"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/storage/postgres"
)

// KeyringSetCmd saves a PostgreSQL connection string in the OS keyring.
type KeyringSetCmd struct {
	ConnectionString string `arg:"" help:"PostgreSQL URL or key=value DSN"`
}

func (cmd *KeyringSetCmd) Run(ctx *cli.Context) error {
	// The keyring is the one place a password may live, so embedded
	// credentials only earn a warning here.
	if _, err := postgres.ValidateConnString(cmd.ConnectionString); err != nil {
		if !errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return err
		}
		ctx.Println("⚠️  Connection string contains a password; it will be kept in the OS keyring only.")
	}
	if err := keyring.SetConnectionString(cmd.ConnectionString); err != nil {
		return err
	}
	ctx.Println("✓ Connection string saved to OS keyring")
	ctx.Println("  dayspent will use it when --db is not given")
	return nil
}

// KeyringGetCmd prints the stored connection string with its password masked.
type KeyringGetCmd struct{}

func (cmd *KeyringGetCmd) Run(ctx *cli.Context) error {
	connStr, err := keyring.GetConnectionString()
	if errors.Is(err, keyring.ErrNotFound) {
		return errors.New("no connection string in keyring; run 'dayspent keyring set' first")
	}
	if err != nil {
		return fmt.Errorf("read keyring: %w", err)
	}
	ctx.Println(postgres.MaskConnString(connStr))
	return nil
}

type KeyringDeleteCmd struct{}

func (cmd *KeyringDeleteCmd) Run(ctx *cli.Context) error {
	err := keyring.DeleteConnectionString()
	if errors.Is(err, keyring.ErrNotFound) {
		return errors.New("no connection string in keyring")
	}
	if err != nil {
		return err
	}
	ctx.Println("✓ Connection string removed from OS keyring")
	return nil
}

// KeyringStatusCmd reports keyring availability, the stored DSN and the
// signed-in owner.
type KeyringStatusCmd struct{}

func (cmd *KeyringStatusCmd) Run(ctx *cli.Context) error {
	if !keyring.IsAvailable() {
		ctx.Println("❌ OS keyring is not available on this system")
		return keyring.ErrKeyringUnavailable
	}
	ctx.Println("✓ OS keyring is available")

	if connStr, err := keyring.GetConnectionString(); err == nil {
		ctx.Printf("✓ Database: %s\n", postgres.MaskConnString(connStr))
	} else {
		ctx.Println("ℹ No connection string stored")
	}

	if owner, err := keyring.GetOwnerID(); err == nil {
		ctx.Printf("✓ Signed in as owner %s\n", owner)
	} else {
		ctx.Println("ℹ Not signed in")
	}
	return nil
}
