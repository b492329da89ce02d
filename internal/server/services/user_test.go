package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/credkeeper/internal/common"
	"github.com/dmitrijs2005/credkeeper/internal/logging"
	"github.com/dmitrijs2005/credkeeper/internal/server/auth"
	"github.com/dmitrijs2005/credkeeper/internal/server/models"
	usersrepo "github.com/dmitrijs2005/credkeeper/internal/server/repositories/users"
	"github.com/dmitrijs2005/credkeeper/internal/server/validation"
)

// --- helpers ---

// countingRepo wraps the in-memory repository and counts calls.
type countingRepo struct {
	*usersrepo.InMemoryRepository
	mu      sync.Mutex
	reads   int
	writes  int
	getErr  error
	saveErr error
	getHook func(ctx context.Context)
}

func newCountingRepo() *countingRepo {
	return &countingRepo{InMemoryRepository: usersrepo.NewInMemoryRepository()}
}

func (r *countingRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	r.reads++
	getErr, hook := r.getErr, r.getHook
	r.mu.Unlock()
	if hook != nil {
		hook(ctx)
	}
	if getErr != nil {
		return nil, getErr
	}
	return r.InMemoryRepository.GetUserByEmail(ctx, email)
}

func (r *countingRepo) CreateIfAbsent(ctx context.Context, u *models.User) (*models.User, error) {
	r.mu.Lock()
	r.writes++
	saveErr := r.saveErr
	r.mu.Unlock()
	if saveErr != nil {
		return nil, saveErr
	}
	return r.InMemoryRepository.CreateIfAbsent(ctx, u)
}

type fakeHasher struct {
	hashErr   error
	verifyErr error
}

func (f *fakeHasher) Hash(p string) (string, error) {
	if f.hashErr != nil {
		return "", f.hashErr
	}
	return "hashed:" + p, nil
}

func (f *fakeHasher) Verify(p, d string) (bool, error) {
	if f.verifyErr != nil {
		return false, f.verifyErr
	}
	return d == "hashed:"+p, nil
}

type fakeSigner struct{ err error }

func (f fakeSigner) Issue(userID, email string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "token-for-" + userID, nil
}

type logEntry struct {
	level string
	msg   string
	args  []any
}

type recordLogger struct {
	mu      *sync.Mutex
	entries *[]logEntry
}

func newRecordLogger() recordLogger {
	return recordLogger{mu: &sync.Mutex{}, entries: &[]logEntry{}}
}

func (l recordLogger) add(level, msg string, args []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	*l.entries = append(*l.entries, logEntry{level: level, msg: msg, args: args})
}

func (l recordLogger) Debug(_ context.Context, msg string, args ...any) { l.add("debug", msg, args) }
func (l recordLogger) Info(_ context.Context, msg string, args ...any)  { l.add("info", msg, args) }
func (l recordLogger) Warn(_ context.Context, msg string, args ...any)  { l.add("warn", msg, args) }
func (l recordLogger) Error(_ context.Context, msg string, args ...any) { l.add("error", msg, args) }
func (l recordLogger) With(...any) logging.Logger                       { return l }

func (l recordLogger) errorCodes() []any {
	l.mu.Lock()
	defer l.mu.Unlock()
	var codes []any
	for _, e := range *l.entries {
		if e.level != "error" {
			continue
		}
		for i := 0; i+1 < len(e.args); i += 2 {
			if e.args[i] == "code" {
				codes = append(codes, e.args[i+1])
			}
		}
	}
	return codes
}

func (l recordLogger) mentions(s string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range *l.entries {
		for _, a := range e.args {
			if str, ok := a.(string); ok && str == s {
				return true
			}
		}
	}
	return false
}

func newService(repo usersrepo.Repository, h auth.PasswordHasher, signer TokenSigner, l logging.Logger) *UserService {
	return NewUserService(repo, h, signer, time.Second, l)
}

var ann = validation.SignupRequest{Name: "Ann", Email: "ann@x.com", Password: "secret123"}

// --- Signup ---

func TestSignup_Success(t *testing.T) {
	repo := newCountingRepo()
	s := newService(repo, &fakeHasher{}, fakeSigner{}, logging.Nop{})

	u, err := s.Signup(context.Background(), ann)
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "ann@x.com", u.Email)
	assert.Equal(t, 1, repo.writes)

	stored, err := repo.InMemoryRepository.GetUserByEmail(context.Background(), "ann@x.com")
	require.NoError(t, err)
	assert.Equal(t, "hashed:secret123", stored.PasswordHash)
	assert.NotEqual(t, "secret123", stored.PasswordHash)
}

func TestSignup_DuplicateIsConflict(t *testing.T) {
	repo := newCountingRepo()
	s := newService(repo, &fakeHasher{}, fakeSigner{}, logging.Nop{})

	_, err := s.Signup(context.Background(), ann)
	require.NoError(t, err)

	other := ann
	other.Name = "Someone else"
	_, err = s.Signup(context.Background(), other)
	require.ErrorIs(t, err, common.ErrorConflict)
	assert.Equal(t, "email already in use", err.Error())
	assert.Equal(t, 1, repo.writes, "conflict must not write")

	stored, _ := repo.InMemoryRepository.GetUserByEmail(context.Background(), "ann@x.com")
	assert.Equal(t, "Ann", stored.Name)
}

func TestSignup_RaceLostAtInsertIsConflict(t *testing.T) {
	repo := newCountingRepo()
	repo.saveErr = common.ErrorAlreadyExists
	s := newService(repo, &fakeHasher{}, fakeSigner{}, logging.Nop{})

	_, err := s.Signup(context.Background(), ann)
	require.ErrorIs(t, err, common.ErrorConflict)
}

func TestSignup_ValidationBeforeStore(t *testing.T) {
	tests := []struct {
		name string
		req  validation.SignupRequest
		msg  string
	}{
		{"missing email", validation.SignupRequest{Name: "A", Password: "secret123"}, "email is required"},
		{"missing all", validation.SignupRequest{}, "name, email and password are required"},
		{"bad email", validation.SignupRequest{Name: "A", Email: "nope", Password: "secret123"}, "email must be a valid email address"},
		{"short password", validation.SignupRequest{Name: "A", Email: "a@x.com", Password: "123"}, "password must be at least 8 characters long"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newCountingRepo()
			s := newService(repo, &fakeHasher{}, fakeSigner{}, logging.Nop{})

			_, err := s.Signup(context.Background(), tt.req)
			require.ErrorIs(t, err, common.ErrorValidation)
			assert.Equal(t, tt.msg, err.Error())
			assert.Zero(t, repo.reads)
			assert.Zero(t, repo.writes)
		})
	}
}

func TestSignup_InternalFailures(t *testing.T) {
	tests := []struct {
		name     string
		repo     func() *countingRepo
		hasher   *fakeHasher
		wantCode string
	}{
		{
			name: "lookup fails",
			repo: func() *countingRepo {
				r := newCountingRepo()
				r.getErr = errors.New("connection refused")
				return r
			},
			hasher:   &fakeHasher{},
			wantCode: "USER_LOOKUP_FAILED",
		},
		{
			name:     "hash fails",
			repo:     newCountingRepo,
			hasher:   &fakeHasher{hashErr: errors.New("rng broken")},
			wantCode: "PASSWORD_HASH_FAILED",
		},
		{
			name: "insert fails",
			repo: func() *countingRepo {
				r := newCountingRepo()
				r.saveErr = errors.New("disk full")
				return r
			},
			hasher:   &fakeHasher{},
			wantCode: "USER_CREATE_FAILED",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newRecordLogger()
			s := newService(tt.repo(), tt.hasher, fakeSigner{}, l)

			_, err := s.Signup(context.Background(), ann)
			require.ErrorIs(t, err, common.ErrorInternal)
			assert.Contains(t, l.errorCodes(), tt.wantCode)
			assert.False(t, l.mentions("secret123"), "password must never be logged")
		})
	}
}

func TestSignup_AppliesTimeout(t *testing.T) {
	repo := newCountingRepo()
	var deadline time.Time
	var hasDeadline bool
	repo.getHook = func(ctx context.Context) { deadline, hasDeadline = ctx.Deadline() }

	s := NewUserService(repo, &fakeHasher{}, fakeSigner{}, 50*time.Millisecond, logging.Nop{})
	_, err := s.Signup(context.Background(), ann)
	require.NoError(t, err)
	require.True(t, hasDeadline)
	assert.WithinDuration(t, time.Now().Add(50*time.Millisecond), deadline, time.Second)
}

func TestSignup_WithRealBcrypt(t *testing.T) {
	h, err := auth.NewBcryptHasher(bcrypt.MinCost)
	require.NoError(t, err)
	repo := newCountingRepo()
	s := newService(repo, h, fakeSigner{}, logging.Nop{})

	_, err = s.Signup(context.Background(), ann)
	require.NoError(t, err)

	stored, _ := repo.InMemoryRepository.GetUserByEmail(context.Background(), "ann@x.com")
	ok, err := h.Verify("secret123", stored.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
}

// --- Login ---

func seeded(t *testing.T, h auth.PasswordHasher, signer TokenSigner, l logging.Logger) (*UserService, *models.User) {
	t.Helper()
	repo := newCountingRepo()
	s := newService(repo, h, signer, l)
	u, err := s.Signup(context.Background(), ann)
	require.NoError(t, err)
	return s, u
}

func TestLogin_Success(t *testing.T) {
	s, u := seeded(t, &fakeHasher{}, fakeSigner{}, logging.Nop{})

	res, err := s.Login(context.Background(), validation.LoginRequest{Email: "ann@x.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, res.User.ID)
	assert.Equal(t, "Ann", res.User.Name)
	assert.Equal(t, "token-for-"+u.ID, res.AccessToken)
}

func TestLogin_UnknownEmailIsNotFound(t *testing.T) {
	s, _ := seeded(t, &fakeHasher{}, fakeSigner{}, logging.Nop{})

	_, err := s.Login(context.Background(), validation.LoginRequest{Email: "nobody@x.com", Password: "whatever"})
	require.ErrorIs(t, err, common.ErrorUserNotFound)
	assert.NotErrorIs(t, err, common.ErrorUnauthorized)
}

func TestLogin_WrongPasswordIsUnauthorized(t *testing.T) {
	s, _ := seeded(t, &fakeHasher{}, fakeSigner{}, logging.Nop{})

	_, err := s.Login(context.Background(), validation.LoginRequest{Email: "ann@x.com", Password: "wrong"})
	require.ErrorIs(t, err, common.ErrorUnauthorized)
	assert.Equal(t, "invalid credentials", err.Error())
}

func TestLogin_PasswordPastBcryptLimitIsUnauthorized(t *testing.T) {
	h, err := auth.NewBcryptHasher(bcrypt.MinCost)
	require.NoError(t, err)
	s := newService(newCountingRepo(), h, fakeSigner{}, logging.Nop{})

	password := strings.Repeat("q", 72)
	_, err = s.Signup(context.Background(), validation.SignupRequest{Name: "Q", Email: "q@x.com", Password: password})
	require.NoError(t, err)

	_, err = s.Login(context.Background(), validation.LoginRequest{Email: "q@x.com", Password: password + "EXTRA"})
	require.ErrorIs(t, err, common.ErrorUnauthorized)

	res, err := s.Login(context.Background(), validation.LoginRequest{Email: "q@x.com", Password: password})
	require.NoError(t, err)
	assert.Equal(t, "q@x.com", res.User.Email)
}

func TestLogin_Validation(t *testing.T) {
	s, _ := seeded(t, &fakeHasher{}, fakeSigner{}, logging.Nop{})

	_, err := s.Login(context.Background(), validation.LoginRequest{})
	require.ErrorIs(t, err, common.ErrorValidation)
	assert.Equal(t, "email and password are required", err.Error())
}

func TestLogin_VerifyErrorIsInternal(t *testing.T) {
	l := newRecordLogger()
	h := &fakeHasher{}
	s, _ := seeded(t, h, fakeSigner{}, l)
	h.verifyErr = errors.New("malformed digest")

	_, err := s.Login(context.Background(), validation.LoginRequest{Email: "ann@x.com", Password: "secret123"})
	require.ErrorIs(t, err, common.ErrorInternal)
	assert.NotErrorIs(t, err, common.ErrorUnauthorized)
	assert.Contains(t, l.errorCodes(), "PASSWORD_VERIFY_FAILED")
}

func TestLogin_SignErrorIsInternal(t *testing.T) {
	l := newRecordLogger()
	s, _ := seeded(t, &fakeHasher{}, fakeSigner{err: errors.New("hmac failure")}, l)

	_, err := s.Login(context.Background(), validation.LoginRequest{Email: "ann@x.com", Password: "secret123"})
	require.ErrorIs(t, err, common.ErrorInternal)
	assert.Contains(t, l.errorCodes(), "TOKEN_SIGN_FAILED")
}

func TestLogin_LookupErrorIsInternal(t *testing.T) {
	repo := newCountingRepo()
	repo.getErr = errors.New("db down")
	l := newRecordLogger()
	s := newService(repo, &fakeHasher{}, fakeSigner{}, l)

	_, err := s.Login(context.Background(), validation.LoginRequest{Email: "ann@x.com", Password: "secret123"})
	require.ErrorIs(t, err, common.ErrorInternal)
	assert.Contains(t, l.errorCodes(), "USER_LOOKUP_FAILED")
}

func TestLogin_TokenCarriesIdentity(t *testing.T) {
	issuer, err := auth.NewTokenIssuer([]byte("test-secret"), time.Hour)
	require.NoError(t, err)
	h, err := auth.NewBcryptHasher(bcrypt.MinCost)
	require.NoError(t, err)
	s, u := seeded(t, h, issuer, logging.Nop{})

	res, err := s.Login(context.Background(), validation.LoginRequest{Email: "ann@x.com", Password: "secret123"})
	require.NoError(t, err)

	claims, err := issuer.Parse(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, "ann@x.com", claims.Email)
}
