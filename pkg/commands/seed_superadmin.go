package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/brandassets/dam/modules/core/domain/aggregates/user"
	"github.com/brandassets/dam/modules/core/domain/entities/systemadmin"
	"github.com/brandassets/dam/modules/core/infrastructure/persistence"
	"github.com/brandassets/dam/pkg/composables"
	"github.com/brandassets/dam/pkg/configuration"
)

// SeedSuperadmin creates (or reuses) a user with the given credentials and
// adds them to the system-admin registry. It is the bootstrap path for a
// fresh deployment: the first console login needs an existing grant.
func SeedSuperadmin(ctx context.Context, email, password string) error {
	conf := configuration.Use()

	poolCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	pool, err := pgxpool.New(poolCtx, conf.Database.Opts)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer pool.Close()

	ctx = composables.WithPool(ctx, pool)

	users := persistence.NewUserRepository()
	sysAdmins := persistence.NewSystemAdminRepository()

	// One transaction so a failed grant does not leave a half-seeded user.
	return composables.InTx(ctx, func(txCtx context.Context) error {
		u, err := users.GetByEmail(txCtx, email)
		if errors.Is(err, persistence.ErrUserNotFound) {
			u = user.New("System", "Admin", email)
			if err := u.SetPassword(password); err != nil {
				return err
			}
			if u, err = users.Create(txCtx, u); err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		return sysAdmins.Add(txCtx, &systemadmin.SystemAdmin{
			UserID:    u.ID(),
			GrantedBy: uuid.Nil,
		})
	})
}
