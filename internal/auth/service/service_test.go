package service

import (
	"context"
	"testing"
	"time"

	"educater_backend/internal/auth/password"
	"educater_backend/internal/auth/repository"
	"educater_backend/internal/auth/token"
	"educater_backend/internal/email"
	schooldomain "educater_backend/internal/schools/domain"
	"educater_backend/platform/apperr"
	"educater_backend/platform/logger"

	"github.com/golang-jwt/jwt/v5"
)

type fakeAuthRepo struct {
	accounts map[string]repository.Account // keyed by email
	refresh  map[string]refreshRow
	reset    map[string]resetRow
}

type refreshRow struct {
	repID     string
	expiresAt time.Time
	revoked   bool
}

type resetRow struct {
	repID     string
	expiresAt time.Time
	used      bool
}

func newFakeAuthRepo(accounts ...repository.Account) *fakeAuthRepo {
	r := &fakeAuthRepo{
		accounts: make(map[string]repository.Account),
		refresh:  make(map[string]refreshRow),
		reset:    make(map[string]resetRow),
	}
	for _, a := range accounts {
		r.accounts[a.Email] = a
	}
	return r
}

func (r *fakeAuthRepo) GetAccountByEmail(_ context.Context, email string) (repository.Account, error) {
	a, ok := r.accounts[email]
	if !ok {
		return repository.Account{}, apperr.NotFound("account not found")
	}
	return a, nil
}

func (r *fakeAuthRepo) GetAccountByID(_ context.Context, id string) (repository.Account, error) {
	for _, a := range r.accounts {
		if a.ID == id {
			return a, nil
		}
	}
	return repository.Account{}, apperr.NotFound("account not found")
}

func (r *fakeAuthRepo) UpdatePassword(_ context.Context, repID, hash string) error {
	for email, a := range r.accounts {
		if a.ID == repID {
			a.PasswordHash = hash
			r.accounts[email] = a
			return nil
		}
	}
	return apperr.NotFound("account not found")
}

func (r *fakeAuthRepo) UpsertAdminAccount(_ context.Context, id, name, emailAddr, hash string) error {
	r.accounts[emailAddr] = repository.Account{ID: id, Name: name, Email: emailAddr, Role: "admin", PasswordHash: hash}
	return nil
}

func (r *fakeAuthRepo) CreateRefreshToken(_ context.Context, repID, hash string, expiresAt time.Time) error {
	r.refresh[hash] = refreshRow{repID: repID, expiresAt: expiresAt}
	return nil
}

func (r *fakeAuthRepo) GetRefreshToken(_ context.Context, hash string) (string, time.Time, error) {
	row, ok := r.refresh[hash]
	if !ok || row.revoked {
		return "", time.Time{}, apperr.NotFound("refresh token not found")
	}
	return row.repID, row.expiresAt, nil
}

func (r *fakeAuthRepo) RevokeRefreshToken(_ context.Context, hash string) error {
	if row, ok := r.refresh[hash]; ok {
		row.revoked = true
		r.refresh[hash] = row
	}
	return nil
}

func (r *fakeAuthRepo) RevokeAllRefreshTokens(_ context.Context, repID string) error {
	for hash, row := range r.refresh {
		if row.repID == repID {
			row.revoked = true
			r.refresh[hash] = row
		}
	}
	return nil
}

func (r *fakeAuthRepo) CreateAuthToken(_ context.Context, repID, hash string, _ repository.TokenType, expiresAt time.Time) error {
	r.reset[hash] = resetRow{repID: repID, expiresAt: expiresAt}
	return nil
}

func (r *fakeAuthRepo) GetAuthToken(_ context.Context, hash string, _ repository.TokenType) (string, time.Time, error) {
	row, ok := r.reset[hash]
	if !ok || row.used {
		return "", time.Time{}, apperr.NotFound("token not found")
	}
	return row.repID, row.expiresAt, nil
}

func (r *fakeAuthRepo) UseAuthToken(_ context.Context, hash string, _ repository.TokenType) error {
	if row, ok := r.reset[hash]; ok {
		row.used = true
		r.reset[hash] = row
	}
	return nil
}

type testConfig struct {
	bootstrapEmail    string
	bootstrapPassword string
}

func (testConfig) GetJWTAccessSecret() string        { return "test-secret" }
func (testConfig) GetAccessTokenTTL() time.Duration  { return time.Hour }
func (testConfig) GetRefreshTokenTTL() time.Duration { return 24 * time.Hour }
func (testConfig) GetAppBaseURL() string             { return "http://localhost:5173" }

func (c testConfig) GetBootstrapAdminEmail() string    { return c.bootstrapEmail }
func (c testConfig) GetBootstrapAdminPassword() string { return c.bootstrapPassword }

type fakeSweep struct {
	ran chan struct{}
}

func (s *fakeSweep) Reconcile(context.Context) (int, error) {
	select {
	case s.ran <- struct{}{}:
	default:
	}
	return 1, nil
}

func testAccount(t *testing.T, id, name, emailAddr, role, plain string) repository.Account {
	t.Helper()
	hash, err := password.Hash(plain)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return repository.Account{ID: id, Name: name, Email: emailAddr, Role: role, PasswordHash: hash}
}

func TestSignInIssuesTokenPair(t *testing.T) {
	ctx := context.Background()
	account := testAccount(t, "rep-1", "Thandi Nkosi", "thandi@educater.co.za", "rep", "hunter2hunter2")
	repo := newFakeAuthRepo(account)
	svc := New(repo, testConfig{}, email.NoopSender{}, logger.New("test"))

	got, pair, err := svc.SignIn(ctx, "thandi@educater.co.za", "hunter2hunter2")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if got.ID != "rep-1" {
		t.Errorf("account.ID = %q", got.ID)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("empty token pair")
	}

	parsed, err := jwt.Parse(pair.AccessToken, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("parse access token: %v", err)
	}
	claims := parsed.Claims.(jwt.MapClaims)
	if claims["sub"] != "rep-1" || claims["name"] != "Thandi Nkosi" || claims["role"] != "rep" {
		t.Errorf("claims = %v", claims)
	}
}

func TestSignInRejectsBadCredentials(t *testing.T) {
	ctx := context.Background()
	account := testAccount(t, "rep-1", "Thandi Nkosi", "thandi@educater.co.za", "rep", "hunter2hunter2")
	repo := newFakeAuthRepo(account)
	svc := New(repo, testConfig{}, email.NoopSender{}, logger.New("test"))

	if _, _, err := svc.SignIn(ctx, "thandi@educater.co.za", "wrong"); apperr.GetKind(err) != apperr.KindUnauthorized {
		t.Errorf("bad password kind = %v", apperr.GetKind(err))
	}
	if _, _, err := svc.SignIn(ctx, "nobody@educater.co.za", "hunter2hunter2"); apperr.GetKind(err) != apperr.KindUnauthorized {
		t.Errorf("unknown email kind = %v", apperr.GetKind(err))
	}
}

func TestAdminSignInTriggersSweep(t *testing.T) {
	ctx := context.Background()
	admin := testAccount(t, "rep-keagan", "Keagan Smith", "keagan@educater.co.za", "admin", "hunter2hunter2")
	rep := testAccount(t, "rep-1", "Thandi Nkosi", "thandi@educater.co.za", "rep", "hunter2hunter2")
	repo := newFakeAuthRepo(admin, rep)
	svc := New(repo, testConfig{}, email.NoopSender{}, logger.New("test"))
	sweep := &fakeSweep{ran: make(chan struct{}, 1)}
	svc.SetSweepRunner(sweep)

	if _, _, err := svc.SignIn(ctx, "thandi@educater.co.za", "hunter2hunter2"); err != nil {
		t.Fatalf("rep SignIn: %v", err)
	}
	select {
	case <-sweep.ran:
		t.Fatal("sweep ran for a non-admin sign-in")
	case <-time.After(50 * time.Millisecond):
	}

	if _, _, err := svc.SignIn(ctx, "keagan@educater.co.za", "hunter2hunter2"); err != nil {
		t.Fatalf("admin SignIn: %v", err)
	}
	select {
	case <-sweep.ran:
	case <-time.After(2 * time.Second):
		t.Fatal("sweep did not run after admin sign-in")
	}
}

func TestRefreshRotatesToken(t *testing.T) {
	ctx := context.Background()
	account := testAccount(t, "rep-1", "Thandi Nkosi", "thandi@educater.co.za", "rep", "hunter2hunter2")
	repo := newFakeAuthRepo(account)
	svc := New(repo, testConfig{}, email.NoopSender{}, logger.New("test"))

	_, pair, err := svc.SignIn(ctx, "thandi@educater.co.za", "hunter2hunter2")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}

	_, next, err := svc.Refresh(ctx, pair.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if next.RefreshToken == pair.RefreshToken {
		t.Error("refresh token was not rotated")
	}

	// The old token is single-use.
	if _, _, err := svc.Refresh(ctx, pair.RefreshToken); apperr.GetKind(err) != apperr.KindUnauthorized {
		t.Errorf("reused refresh token kind = %v", apperr.GetKind(err))
	}
}

func TestResetPasswordRevokesSessions(t *testing.T) {
	ctx := context.Background()
	account := testAccount(t, "rep-1", "Thandi Nkosi", "thandi@educater.co.za", "rep", "hunter2hunter2")
	repo := newFakeAuthRepo(account)
	svc := New(repo, testConfig{}, email.NoopSender{}, logger.New("test"))

	_, pair, err := svc.SignIn(ctx, "thandi@educater.co.za", "hunter2hunter2")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}

	if err := svc.ForgotPassword(ctx, "thandi@educater.co.za"); err != nil {
		t.Fatalf("ForgotPassword: %v", err)
	}
	if len(repo.reset) != 1 {
		t.Fatalf("stored %d reset tokens, want 1", len(repo.reset))
	}

	// The raw token is only in the email; drive the reset through the
	// repository state directly with a known token instead.
	repo.reset = map[string]resetRow{}
	rawToken := "known-reset-token"
	if err := svc.repo.CreateAuthToken(ctx, "rep-1", token.HashSHA256(rawToken), repository.TokenTypePasswordReset, time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("CreateAuthToken: %v", err)
	}

	if err := svc.ResetPassword(ctx, rawToken, "new-password-123"); err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}

	if _, _, err := svc.SignIn(ctx, "thandi@educater.co.za", "hunter2hunter2"); err == nil {
		t.Error("old password still accepted")
	}
	if _, _, err := svc.SignIn(ctx, "thandi@educater.co.za", "new-password-123"); err != nil {
		t.Errorf("new password rejected: %v", err)
	}
	if _, _, err := svc.Refresh(ctx, pair.RefreshToken); apperr.GetKind(err) != apperr.KindUnauthorized {
		t.Errorf("old session survived password reset: %v", err)
	}
}

func TestForgotPasswordHidesUnknownAccounts(t *testing.T) {
	repo := newFakeAuthRepo()
	svc := New(repo, testConfig{}, email.NoopSender{}, logger.New("test"))

	if err := svc.ForgotPassword(context.Background(), "nobody@educater.co.za"); err != nil {
		t.Errorf("ForgotPassword for unknown account: %v", err)
	}
}

func TestEnsureBootstrapAdminProvisionsSignIn(t *testing.T) {
	ctx := context.Background()
	repo := newFakeAuthRepo()
	cfg := testConfig{bootstrapEmail: "admin@educater.co.za", bootstrapPassword: "first-run-secret"}
	svc := New(repo, cfg, email.NoopSender{}, logger.New("test"))

	if err := svc.EnsureBootstrapAdmin(ctx); err != nil {
		t.Fatalf("EnsureBootstrapAdmin: %v", err)
	}

	account, _, err := svc.SignIn(ctx, "admin@educater.co.za", "first-run-secret")
	if err != nil {
		t.Fatalf("SignIn as bootstrap admin: %v", err)
	}
	if account.ID != schooldomain.LegacyAdminID {
		t.Errorf("account.ID = %q, want %q", account.ID, schooldomain.LegacyAdminID)
	}
	if account.Name != schooldomain.CanonicalAdminName {
		t.Errorf("account.Name = %q, want %q", account.Name, schooldomain.CanonicalAdminName)
	}
	if account.Role != "admin" {
		t.Errorf("account.Role = %q", account.Role)
	}
}

func TestEnsureBootstrapAdminSkipsWhenUnconfigured(t *testing.T) {
	repo := newFakeAuthRepo()
	svc := New(repo, testConfig{}, email.NoopSender{}, logger.New("test"))

	if err := svc.EnsureBootstrapAdmin(context.Background()); err != nil {
		t.Fatalf("EnsureBootstrapAdmin without config: %v", err)
	}
	if len(repo.accounts) != 0 {
		t.Fatal("no account should be written when credentials are unset")
	}
}
