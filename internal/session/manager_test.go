package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"prepbuddy/internal/apperr"
	"prepbuddy/internal/model"
)

func TestDemoResolveReturnsSyntheticSession(t *testing.T) {
	m := NewDemoManager(zap.NewNop())

	require.Equal(t, model.ModeDemo, m.Mode())

	s, err := m.Resolve(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, DemoUserID, s.UserID)
	assert.Equal(t, DemoEmail, s.Email)
	assert.True(t, s.IsDemo())

	// The token is ignored entirely in demo mode.
	withToken, err := m.Resolve(context.Background(), "whatever")
	require.NoError(t, err)
	assert.Equal(t, s, withToken)
}

func TestDemoModeDisablesAuthentication(t *testing.T) {
	m := NewDemoManager(zap.NewNop())

	_, err := m.SignIn(context.Background(), "a@b.com", "pw")
	require.Error(t, err)
	assert.True(t, apperr.IsAuth(err))

	_, err = m.SignUp(context.Background(), "a@b.com", "pw")
	require.Error(t, err)
	assert.True(t, apperr.IsAuth(err))
}

func TestDemoSignOutNotifiesListeners(t *testing.T) {
	m := NewDemoManager(zap.NewNop())

	var gotSession model.Session
	var gotActive = true
	m.Subscribe(func(s model.Session, active bool) {
		gotSession = s
		gotActive = active
	})

	s, err := m.Resolve(context.Background(), "")
	require.NoError(t, err)
	require.NoError(t, m.SignOut(context.Background(), s))

	assert.Equal(t, DemoUserID, gotSession.UserID)
	assert.False(t, gotActive)
}
