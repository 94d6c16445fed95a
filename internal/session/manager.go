// Package session resolves caller identity and operating mode before the
// progress store initializes.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"prepbuddy/internal/apperr"
	"prepbuddy/internal/model"
	"prepbuddy/internal/repository"
	"prepbuddy/internal/util"
)

// Fixed synthetic identity used whenever the durable backend is not
// configured. Demo mode never touches the network.
const (
	DemoUserID = "demo-user-123"
	DemoEmail  = "demo@prepbuddy.com"
)

const tokenTTL = 24 * time.Hour

// ChangeListener observes session changes. active is false on sign-out.
type ChangeListener func(s model.Session, active bool)

type Manager struct {
	users     *repository.UserRepository // nil in demo mode
	rdb       *redis.Client              // optional revocation list
	jwtSecret string
	logger    *zap.Logger

	mu        sync.Mutex
	listeners []ChangeListener
}

// NewManager builds an authenticated-mode manager. rdb may be nil when no
// revocation list is configured.
func NewManager(users *repository.UserRepository, rdb *redis.Client, jwtSecret string, logger *zap.Logger) *Manager {
	return &Manager{
		users:     users,
		rdb:       rdb,
		jwtSecret: jwtSecret,
		logger:    logger,
	}
}

// NewDemoManager builds a manager with no durable backend. Authentication
// is categorically disabled in this mode.
func NewDemoManager(logger *zap.Logger) *Manager {
	return &Manager{logger: logger}
}

func (m *Manager) Mode() model.Mode {
	if m.users == nil {
		return model.ModeDemo
	}
	return model.ModeAuthenticated
}

// Subscribe registers a listener invoked on every session change.
func (m *Manager) Subscribe(l ChangeListener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, l)
}

func (m *Manager) notify(s model.Session, active bool) {
	m.mu.Lock()
	listeners := make([]ChangeListener, len(m.listeners))
	copy(listeners, m.listeners)
	m.mu.Unlock()

	for _, l := range listeners {
		l(s, active)
	}
}

// Resolve turns a bearer token into a session. In demo mode the token is
// ignored and the fixed synthetic session is returned.
func (m *Manager) Resolve(ctx context.Context, token string) (model.Session, error) {
	if m.Mode() == model.ModeDemo {
		return model.Session{
			UserID: DemoUserID,
			Email:  DemoEmail,
			Mode:   model.ModeDemo,
		}, nil
	}

	if token == "" {
		return model.Session{}, apperr.Auth("missing token")
	}
	if m.isRevoked(ctx, token) {
		return model.Session{}, apperr.Auth("token revoked")
	}

	userID, err := util.ParseJWT(token, m.jwtSecret)
	if err != nil {
		return model.Session{}, apperr.AuthWrap("invalid token", err)
	}

	u, err := m.users.FindByID(ctx, userID)
	if err != nil {
		return model.Session{}, apperr.AuthWrap("unknown user", err)
	}

	return model.Session{
		UserID: u.ID,
		Email:  u.Email,
		Mode:   model.ModeAuthenticated,
		Token:  token,
	}, nil
}

func (m *Manager) SignIn(ctx context.Context, email, password string) (model.Session, error) {
	if m.Mode() == model.ModeDemo {
		return model.Session{}, apperr.Auth("authentication is disabled in demo mode")
	}

	u, err := m.users.FindByEmail(ctx, email)
	if err != nil {
		return model.Session{}, apperr.Auth("invalid email or password")
	}
	if !util.CheckPassword(password, u.PasswordHash) {
		return model.Session{}, apperr.Auth("invalid email or password")
	}

	token, err := util.GenerateJWT(u.ID, m.jwtSecret)
	if err != nil {
		return model.Session{}, apperr.AuthWrap("token generation failed", err)
	}

	s := model.Session{
		UserID: u.ID,
		Email:  u.Email,
		Mode:   model.ModeAuthenticated,
		Token:  token,
	}

	m.logger.Info("User signed in", zap.String("user_id", u.ID))
	m.notify(s, true)
	return s, nil
}

// SignUp creates a new account. The account stays unauthenticated until a
// separate confirmation step outside this service.
func (m *Manager) SignUp(ctx context.Context, email, password string) (*model.User, error) {
	if m.Mode() == model.ModeDemo {
		return nil, apperr.Auth("authentication is disabled in demo mode")
	}

	existing, err := m.users.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.AuthWrap("lookup failed", err)
	}
	if existing != nil {
		return nil, apperr.Auth("email already exists")
	}

	hash, err := util.HashPassword(password)
	if err != nil {
		return nil, apperr.AuthWrap("password hashing failed", err)
	}

	u := &model.User{
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}
	if err := m.users.CreateUser(ctx, u); err != nil {
		return nil, apperr.AuthWrap("account creation failed", err)
	}

	m.logger.Info("User signed up", zap.String("user_id", u.ID))
	return u, nil
}

// SignOut clears the active session. In demo mode this is a local,
// no-network state reset.
func (m *Manager) SignOut(ctx context.Context, s model.Session) error {
	if s.Mode == model.ModeAuthenticated && s.Token != "" {
		m.revoke(ctx, s.Token)
	}

	m.logger.Info("Session ended",
		zap.String("user_id", s.UserID),
		zap.String("mode", string(s.Mode)),
	)
	m.notify(s, false)
	return nil
}

func (m *Manager) revoke(ctx context.Context, token string) {
	if m.rdb == nil {
		return
	}
	key := fmt.Sprintf("session:revoked:%s", token)
	if err := m.rdb.Set(ctx, key, 1, tokenTTL).Err(); err != nil {
		m.logger.Warn("Failed to record token revocation", zap.Error(err))
	}
}

// isRevoked treats tokens as valid when the revocation list is down.
func (m *Manager) isRevoked(ctx context.Context, token string) bool {
	if m.rdb == nil {
		return false
	}
	key := fmt.Sprintf("session:revoked:%s", token)
	n, err := m.rdb.Exists(ctx, key).Result()
	if err != nil {
		return false
	}
	return n > 0
}
