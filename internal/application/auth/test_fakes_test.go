package auth

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/farmassist/auth-service/internal/domain"
)

/*
Fakes for ports
*/

type fakeUserRepo struct {
	mu sync.Mutex

	byID    map[string]domain.User
	byEmail map[string]domain.User

	// injected errors (if set, method returns error)
	getByIDErr    error
	getByEmailErr error
	createErr     error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    map[string]domain.User{},
		byEmail: map[string]domain.User{},
	}
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getByEmailErr != nil {
		return domain.User{}, f.getByEmailErr
	}
	u, ok := f.byEmail[email]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return u, nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getByIDErr != nil {
		return domain.User{}, f.getByIDErr
	}
	u, ok := f.byID[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return u, nil
}

func (f *fakeUserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		return domain.User{}, f.createErr
	}
	if _, exists := f.byEmail[u.Email]; exists {
		return domain.User{}, domain.ErrEmailAlreadyExists()
	}
	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	u.CreatedAt, u.UpdatedAt = now, now
	f.byID[u.ID] = u
	f.byEmail[u.Email] = u
	return u, nil
}

func (f *fakeUserRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.byID)
}

// fakeHasher produces salted-looking hashes so two identical passwords differ.
type fakeHasher struct {
	mu       sync.Mutex
	n        int
	compares int
	hashFn   func(pw string) (string, error)

	// when > 0, Compare only looks at the first truncateAt bytes, like bcrypt
	truncateAt int
}

func (h *fakeHasher) Hash(pw string) (string, error) {
	if h.hashFn != nil {
		return h.hashFn(pw)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.n++
	return "hash:" + string(rune('a'+h.n%26)) + ":" + pw, nil
}

func (h *fakeHasher) Compare(hash, pw string) error {
	h.mu.Lock()
	h.compares++
	cut := h.truncateAt
	h.mu.Unlock()

	if cut > 0 && len(pw) > cut {
		pw = pw[:cut]
	}

	parts := strings.SplitN(hash, ":", 3)
	if len(parts) != 3 || parts[2] != pw {
		return errors.New("mismatch")
	}
	return nil
}

func (h *fakeHasher) compareCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.compares
}

type fakeSigner struct {
	signErr error
	now     time.Time
	last    struct {
		userID, email string
		ttl           time.Duration
	}
}

func (s *fakeSigner) SignAccessToken(userID, email string, ttl time.Duration) (string, time.Time, error) {
	if s.signErr != nil {
		return "", time.Time{}, s.signErr
	}
	s.last.userID, s.last.email, s.last.ttl = userID, email, ttl
	return "tok-" + userID, s.now.Add(ttl), nil
}

func (s *fakeSigner) VerifyAccessToken(token string) (TokenClaims, error) {
	id, ok := strings.CutPrefix(token, "tok-")
	if !ok {
		return TokenClaims{}, domain.ErrTokenInvalid()
	}
	return TokenClaims{UserID: id}, nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []UserRegisteredEvent
	err    error
}

func (p *fakePublisher) PublishUserRegistered(ctx context.Context, evt UserRegisteredEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, evt)
	return nil
}

type testDeps struct {
	users  *fakeUserRepo
	hasher *fakeHasher
	signer *fakeSigner
	pub    *fakePublisher
}

func newSvcForTest() (*Service, testDeps) {
	d := testDeps{
		users:  newFakeUserRepo(),
		hasher: &fakeHasher{},
		signer: &fakeSigner{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)},
		pub:    &fakePublisher{},
	}
	svc := NewService(d.users, d.hasher, d.signer, d.pub, Config{AccessTTL: time.Hour}).
		WithClock(func() time.Time { return d.signer.now })
	return svc, d
}
