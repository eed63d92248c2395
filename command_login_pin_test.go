package guard_test

import (
	"context"
	"testing"

	guard "github.com/goliatone/go-tenant-guard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestLoginWithPinHandler(t *testing.T) {
	verifier := &MockVerifier{}
	verifier.On("VerifyAccessPin", mock.Anything, "my-shop", "1234").Return(&guard.VerifyResult{
		OK:      true,
		OwnerID: "o1",
		Slug:    "my-shop",
	}, nil)

	g, _, _ := newReadyGuard(t, verifier)
	handler := guard.NewLoginWithPinHandler(g)

	msg := guard.LoginWithPinMessage{Slug: "my-shop", PIN: "1234"}
	assert.Equal(t, "guard.login_with_pin", msg.Type())

	err := handler.Execute(context.Background(), msg)
	require.NoError(t, err)
	require.NotNil(t, g.GetSession())
}

func TestLoginWithPinHandlerPropagatesErrors(t *testing.T) {
	verifier := &MockVerifier{}
	verifier.On("VerifyAccessPin", mock.Anything, "my-shop", "1234").
		Return(&guard.VerifyResult{OK: false, Error: "invalid PIN"}, nil)

	g, _, _ := newReadyGuard(t, verifier)
	handler := guard.NewLoginWithPinHandler(g)

	err := handler.Execute(context.Background(), guard.LoginWithPinMessage{Slug: "my-shop", PIN: "1234"})
	require.Error(t, err)
	assert.True(t, guard.IsInvalidCredentials(err))
}

func TestLoginWithPinHandlerCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g, _, _ := newReadyGuard(t, &MockVerifier{})
	handler := guard.NewLoginWithPinHandler(g)

	err := handler.Execute(ctx, guard.LoginWithPinMessage{Slug: "my-shop", PIN: "1234"})
	require.Error(t, err)
	assert.Nil(t, g.GetSession())
}

func TestLogoutHandler(t *testing.T) {
	verifier := &MockVerifier{}
	verifier.On("VerifyAccessPin", mock.Anything, "my-shop", "1234").Return(&guard.VerifyResult{
		OK:      true,
		OwnerID: "o1",
		Slug:    "my-shop",
	}, nil)

	g, store, _ := newReadyGuard(t, verifier)

	_, err := g.LoginWithPin(context.Background(), "my-shop", "1234")
	require.NoError(t, err)

	handler := guard.NewLogoutHandler(g)
	msg := guard.LogoutMessage{URL: "/page"}
	assert.Equal(t, "guard.logout", msg.Type())

	require.NoError(t, handler.Execute(context.Background(), msg))
	assert.Nil(t, g.GetSession())

	// Mirrors remain for sibling modules.
	assert.Equal(t, "o1", store.Get(guard.DefaultKeys().OwnerID))
}
