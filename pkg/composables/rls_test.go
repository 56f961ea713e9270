package composables_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/brandassets/dam/pkg/composables"
	"github.com/brandassets/dam/pkg/configuration"
)

func TestApplyTenantRLS(t *testing.T) {
	conf := configuration.Use()
	prev := conf.RLSEnforce
	t.Cleanup(func() { conf.RLSEnforce = prev })

	t.Run("no-op without a tenant even when enforced", func(t *testing.T) {
		conf.RLSEnforce = "enforce"

		// Login and console transactions run on non-tenant hosts; the
		// session variable stays unset rather than the request failing.
		err := composables.ApplyTenantRLS(context.Background(), nil)
		assert.NoError(t, err)
	})

	t.Run("no-op when enforcement is disabled", func(t *testing.T) {
		conf.RLSEnforce = "disabled"

		err := composables.ApplyTenantRLS(context.Background(), nil)
		assert.NoError(t, err)
	})
}
