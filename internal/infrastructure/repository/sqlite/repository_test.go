package sqlite

import (
	"context"
	"testing"

	"github.com/veldran/kingdom-manager/internal/infrastructure/tenantstore"
	"github.com/veldran/kingdom-manager/internal/platform/logging"
)

func newTestRegistry(t *testing.T) *tenantstore.Registry {
	t.Helper()

	registry, err := tenantstore.Open(context.Background(), t.TempDir(), logging.NewNop())
	if err != nil {
		t.Fatalf("open registry: %v", err)
	}
	t.Cleanup(func() {
		if err := registry.Close(context.Background()); err != nil {
			t.Errorf("close registry: %v", err)
		}
	})

	return registry
}
