package auth

import (
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Manager is the in-memory account store for single-binary runs where
// accounts may evaporate on restart. The SQLite store carries the
// same contract with persistence.
type Manager struct {
	mu       sync.Mutex
	byName   map[string]*account // key: normalized username
	byID     map[uint64]*account
	sessions map[string]memSession
	lastID   uint64
	ttl      time.Duration
}

type account struct {
	id       uint64
	username string
	hash     []byte
}

type memSession struct {
	accountID uint64
	expiresAt time.Time
}

func NewManager() *Manager {
	return &Manager{
		byName:   make(map[string]*account),
		byID:     make(map[uint64]*account),
		sessions: make(map[string]memSession),
		lastID:   100000,
		ttl:      defaultSessionTTL,
	}
}

func (m *Manager) Close() error { return nil }

// Register creates an account and logs it straight in.
func (m *Manager) Register(username, password string) (uint64, string, error) {
	if err := checkCredentials(username, password); err != nil {
		return 0, "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, "", err
	}
	key := normalizeUsername(username)

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, taken := m.byName[key]; taken {
		return 0, "", ErrUsernameTaken
	}
	m.lastID++
	acct := &account{id: m.lastID, username: key, hash: hash}
	m.byName[key] = acct
	m.byID[acct.id] = acct
	return acct.id, m.openSessionLocked(acct.id), nil
}

// Login verifies the password and issues a fresh session. Unknown
// usernames and wrong passwords are indistinguishable to the caller.
func (m *Manager) Login(username, password string) (uint64, string, error) {
	key := normalizeUsername(username)
	if key == "" || password == "" {
		return 0, "", ErrInvalidCredentials
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	acct := m.byName[key]
	if acct == nil || bcrypt.CompareHashAndPassword(acct.hash, []byte(password)) != nil {
		return 0, "", ErrInvalidCredentials
	}
	return acct.id, m.openSessionLocked(acct.id), nil
}

// ResolveSession checks a token, slides its expiry forward, and
// returns the owning account. Expired tokens are dropped on sight.
func (m *Manager) ResolveSession(token string) (uint64, string, bool) {
	if token == "" {
		return 0, "", false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	sess, found := m.sessions[token]
	if !found {
		return 0, "", false
	}
	if time.Now().After(sess.expiresAt) {
		delete(m.sessions, token)
		return 0, "", false
	}
	sess.expiresAt = time.Now().Add(m.ttl)
	m.sessions[token] = sess

	acct := m.byID[sess.accountID]
	if acct == nil {
		return 0, "", false
	}
	return acct.id, acct.username, true
}

func (m *Manager) Logout(token string) {
	if token == "" {
		return
	}
	m.mu.Lock()
	delete(m.sessions, token)
	m.mu.Unlock()
}

func (m *Manager) openSessionLocked(accountID uint64) string {
	token := newSessionToken()
	m.sessions[token] = memSession{
		accountID: accountID,
		expiresAt: time.Now().Add(m.ttl),
	}
	return token
}
