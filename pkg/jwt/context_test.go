package jwt_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/gatekeeper/pkg/jwt"
)

func TestContextHelpers(t *testing.T) {
	t.Parallel()

	t.Run("token", func(t *testing.T) {
		t.Parallel()
		ctx := jwt.SetToken(context.Background(), "a.b.c")
		token, ok := jwt.GetToken(ctx)
		assert.True(t, ok)
		assert.Equal(t, "a.b.c", token)

		_, ok = jwt.GetToken(context.Background())
		assert.False(t, ok)
	})

	t.Run("principal", func(t *testing.T) {
		t.Parallel()
		want := jwt.Principal{UserID: "u", TenantID: "t", Role: "r"}
		got, ok := jwt.GetPrincipal(jwt.SetPrincipal(context.Background(), want))
		assert.True(t, ok)
		assert.Equal(t, want, got)

		_, ok = jwt.GetPrincipal(context.Background())
		assert.False(t, ok)
	})
}
