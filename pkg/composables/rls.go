package composables

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/brandassets/dam/pkg/configuration"
)

// ApplyTenantRLS sets the app.current_tenant session variable for the
// transaction when enforcement is on and the request resolved a tenant.
// Requests outside a tenant host (login, the console) carry no tenant; the
// variable stays unset and the policies on tenant tables deny by default,
// while the policy-free core tables remain reachable.
func ApplyTenantRLS(ctx context.Context, tx pgx.Tx) error {
	if configuration.Use().RLSEnforce != "enforce" {
		return nil
	}
	tenantID, err := UseTenantID(ctx)
	if err != nil {
		if errors.Is(err, ErrNoTenant) {
			return nil
		}
		return fmt.Errorf("rls requires tenant in context: %w", err)
	}
	_, err = tx.Exec(ctx, "SELECT set_config('app.current_tenant', $1, true)", tenantID.String())
	if err != nil {
		return fmt.Errorf("failed to set rls tenant context: %w", err)
	}
	return nil
}
