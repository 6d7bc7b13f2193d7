package services

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"golang.org/x/crypto/bcrypt"

	"github.com/ivanuser/car-project-manager-sub002/internal/common"
	"github.com/ivanuser/car-project-manager-sub002/internal/dbx"
	"github.com/ivanuser/car-project-manager-sub002/internal/logging"
	"github.com/ivanuser/car-project-manager-sub002/internal/server/config"
	"github.com/ivanuser/car-project-manager-sub002/internal/server/models"
	attachmentsrepo "github.com/ivanuser/car-project-manager-sub002/internal/server/repositories/attachments"
	budgetsrepo "github.com/ivanuser/car-project-manager-sub002/internal/server/repositories/budgets"
	expensesrepo "github.com/ivanuser/car-project-manager-sub002/internal/server/repositories/expenses"
	maintenancerepo "github.com/ivanuser/car-project-manager-sub002/internal/server/repositories/maintenance"
	partsrepo "github.com/ivanuser/car-project-manager-sub002/internal/server/repositories/parts"
	profilesrepo "github.com/ivanuser/car-project-manager-sub002/internal/server/repositories/profiles"
	projectsrepo "github.com/ivanuser/car-project-manager-sub002/internal/server/repositories/projects"
	"github.com/ivanuser/car-project-manager-sub002/internal/server/repositories/repomanager"
	sessionsrepo "github.com/ivanuser/car-project-manager-sub002/internal/server/repositories/sessions"
	tasksrepo "github.com/ivanuser/car-project-manager-sub002/internal/server/repositories/tasks"
	usersrepo "github.com/ivanuser/car-project-manager-sub002/internal/server/repositories/users"
	vendorsrepo "github.com/ivanuser/car-project-manager-sub002/internal/server/repositories/vendors"
)

// --- helpers ---

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newAuthService(t *testing.T, db *sql.DB, rm repomanager.RepositoryManager) *AuthService {
	t.Helper()
	cfg := &config.Config{
		SessionTTL: time.Hour,
		BcryptCost: bcrypt.MinCost, // keep the tests quick
	}
	s, err := NewAuthService(db, rm, cfg, testLogger())
	if err != nil {
		t.Fatalf("NewAuthService error: %v", err)
	}
	return s
}

func hashFor(t *testing.T, password string) []byte {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	return h
}

type fakeUsersRepo struct {
	createOut *models.User
	createErr error

	byEmailOut *models.User
	byEmailErr error

	byIDOut *models.User
	byIDErr error

	touchErr    error
	touchCalled bool
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createOut != nil {
		return f.createOut, nil
	}
	u.ID = "u1"
	u.IsActive = true
	return u, nil
}
func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.byEmailErr != nil {
		return nil, f.byEmailErr
	}
	return f.byEmailOut, nil
}
func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	if f.byIDErr != nil {
		return nil, f.byIDErr
	}
	return f.byIDOut, nil
}
func (f *fakeUsersRepo) TouchLastSignIn(ctx context.Context, id string) error {
	f.touchCalled = true
	return f.touchErr
}
func (f *fakeUsersRepo) SetAdmin(context.Context, string, bool) error { return nil }
func (f *fakeUsersRepo) Deactivate(context.Context, string) error     { return nil }

type fakeSessionsRepo struct {
	createErr error
	created   *models.Session

	findOut *models.Session
	findErr error

	deactivateOut bool
	deactivateErr error

	byUserErr    error
	byUserCalled bool

	deleteN   int64
	deleteErr error
}

func (f *fakeSessionsRepo) Create(ctx context.Context, s *models.Session, validity time.Duration) (*models.Session, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	s.ID = "s1"
	s.ExpiresAt = time.Now().Add(validity)
	s.IsActive = true
	f.created = s
	return s, nil
}
func (f *fakeSessionsRepo) Find(ctx context.Context, token string) (*models.Session, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.findOut, nil
}
func (f *fakeSessionsRepo) Deactivate(ctx context.Context, token string) (bool, error) {
	return f.deactivateOut, f.deactivateErr
}
func (f *fakeSessionsRepo) DeactivateByUser(ctx context.Context, userID string) error {
	f.byUserCalled = true
	return f.byUserErr
}
func (f *fakeSessionsRepo) DeleteDefunct(ctx context.Context, now time.Time) (int64, error) {
	return f.deleteN, f.deleteErr
}

type fakeProfilesRepo struct {
	createErr error
	getOut    *models.Profile
	getErr    error
	updateErr error
}

func (f *fakeProfilesRepo) Create(ctx context.Context, userID string) (*models.Profile, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &models.Profile{UserID: userID}, nil
}
func (f *fakeProfilesRepo) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}
func (f *fakeProfilesRepo) Update(ctx context.Context, p *models.Profile) error { return f.updateErr }

type fakeRepoManager struct {
	u *fakeUsersRepo
	s *fakeSessionsRepo
	p *fakeProfilesRepo

	projects    projectsrepo.Repository
	tasks       tasksrepo.Repository
	vendors     vendorsrepo.Repository
	parts       partsrepo.Repository
	budgets     budgetsrepo.Repository
	expenses    expensesrepo.Repository
	maintenance maintenancerepo.Repository
	attachments attachmentsrepo.Repository
}

func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository          { return m.u }
func (m *fakeRepoManager) Sessions(db dbx.DBTX) sessionsrepo.Repository    { return m.s }
func (m *fakeRepoManager) Profiles(db dbx.DBTX) profilesrepo.Repository    { return m.p }
func (m *fakeRepoManager) Projects(db dbx.DBTX) projectsrepo.Repository    { return m.projects }
func (m *fakeRepoManager) Tasks(db dbx.DBTX) tasksrepo.Repository          { return m.tasks }
func (m *fakeRepoManager) Vendors(db dbx.DBTX) vendorsrepo.Repository      { return m.vendors }
func (m *fakeRepoManager) Parts(db dbx.DBTX) partsrepo.Repository          { return m.parts }
func (m *fakeRepoManager) Budgets(db dbx.DBTX) budgetsrepo.Repository      { return m.budgets }
func (m *fakeRepoManager) Expenses(db dbx.DBTX) expensesrepo.Repository    { return m.expenses }
func (m *fakeRepoManager) Maintenance(db dbx.DBTX) maintenancerepo.Repository {
	return m.maintenance
}
func (m *fakeRepoManager) Attachments(db dbx.DBTX) attachmentsrepo.Repository {
	return m.attachments
}
func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }

// --- Register ---

func TestRegister_Success(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()

	rm := &fakeRepoManager{
		u: &fakeUsersRepo{byEmailErr: common.ErrorNotFound},
		s: &fakeSessionsRepo{},
		p: &fakeProfilesRepo{},
	}
	s := newAuthService(t, db, rm)

	res, err := s.Register(context.Background(), "alice@example.com", "hunter2-long", ClientMeta{})
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if res.User.Email != "alice@example.com" || res.User.PasswordHash != nil {
		t.Fatalf("unexpected user in result: %+v", res.User)
	}
	if len(res.Token) != 2*sessionTokenBytes {
		t.Fatalf("token length: got %d", len(res.Token))
	}
	if res.ExpiresAt.Before(time.Now()) {
		t.Fatalf("session already expired: %v", res.ExpiresAt)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestRegister_Validation(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()
	s := newAuthService(t, db, &fakeRepoManager{})

	if _, err := s.Register(context.Background(), "not-an-email", "hunter2-long", ClientMeta{}); !errors.Is(err, common.ErrInvalidEmail) {
		t.Fatalf("bad email: want ErrInvalidEmail, got %v", err)
	}
	if _, err := s.Register(context.Background(), "", "hunter2-long", ClientMeta{}); !errors.Is(err, common.ErrInvalidEmail) {
		t.Fatalf("empty email: want ErrInvalidEmail, got %v", err)
	}
	if _, err := s.Register(context.Background(), "a@example.com", "short", ClientMeta{}); !errors.Is(err, common.ErrWeakPassword) {
		t.Fatalf("short password: want ErrWeakPassword, got %v", err)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{
		u: &fakeUsersRepo{byEmailOut: &models.User{ID: "u1", Email: "alice@example.com"}},
	}
	s := newAuthService(t, db, rm)

	if _, err := s.Register(context.Background(), "alice@example.com", "hunter2-long", ClientMeta{}); !errors.Is(err, common.ErrDuplicateEmail) {
		t.Fatalf("want ErrDuplicateEmail, got %v", err)
	}
}

func TestRegister_DuplicateRace(t *testing.T) {
	// The pre-check misses but the insert collides with a concurrent
	// registration: the tx rolls back and the caller still sees a
	// duplicate-email error, not an internal one.
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectRollback()

	rm := &fakeRepoManager{
		u: &fakeUsersRepo{byEmailErr: common.ErrorNotFound, createErr: common.ErrDuplicateEmail},
		s: &fakeSessionsRepo{},
		p: &fakeProfilesRepo{},
	}
	s := newAuthService(t, db, rm)

	if _, err := s.Register(context.Background(), "alice@example.com", "hunter2-long", ClientMeta{}); !errors.Is(err, common.ErrDuplicateEmail) {
		t.Fatalf("want ErrDuplicateEmail, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestRegister_StoreFailure(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectRollback()

	rm := &fakeRepoManager{
		u: &fakeUsersRepo{byEmailErr: common.ErrorNotFound},
		s: &fakeSessionsRepo{},
		p: &fakeProfilesRepo{createErr: errBoom{}},
	}
	s := newAuthService(t, db, rm)

	if _, err := s.Register(context.Background(), "alice@example.com", "hunter2-long", ClientMeta{}); !errors.Is(err, common.ErrorInternal) {
		t.Fatalf("want ErrorInternal, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

// --- Login ---

func TestLogin_Success_SupersedesSessions(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()

	users := &fakeUsersRepo{
		byEmailOut: &models.User{ID: "u1", Email: "alice@example.com", IsActive: true,
			PasswordHash: hashFor(t, "hunter2-long")},
	}
	sessions := &fakeSessionsRepo{}
	s := newAuthService(t, db, &fakeRepoManager{u: users, s: sessions})

	ua := "cli/1.0"
	res, err := s.Login(context.Background(), "alice@example.com", "hunter2-long", ClientMeta{UserAgent: &ua})
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if !sessions.byUserCalled {
		t.Fatal("existing sessions were not superseded")
	}
	if !users.touchCalled {
		t.Fatal("last sign-in not recorded")
	}
	if res.Token == "" || res.User.PasswordHash != nil {
		t.Fatalf("bad result: %+v", res)
	}
	if sessions.created.UserAgent == nil || *sessions.created.UserAgent != "cli/1.0" {
		t.Fatalf("client meta not recorded: %+v", sessions.created)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestLogin_UniformFailures(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	// unknown email, deactivated account, and wrong password all
	// collapse to the same error.
	cases := []struct {
		name string
		u    *fakeUsersRepo
	}{
		{"unknown email", &fakeUsersRepo{byEmailErr: common.ErrorNotFound}},
		{"deactivated", &fakeUsersRepo{byEmailOut: &models.User{ID: "u1", IsActive: false,
			PasswordHash: hashFor(t, "hunter2-long")}}},
		{"wrong password", &fakeUsersRepo{byEmailOut: &models.User{ID: "u1", IsActive: true,
			PasswordHash: hashFor(t, "different-password")}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newAuthService(t, db, &fakeRepoManager{u: tc.u, s: &fakeSessionsRepo{}})
			_, err := s.Login(context.Background(), "alice@example.com", "hunter2-long", ClientMeta{})
			if !errors.Is(err, common.ErrInvalidCredentials) {
				t.Fatalf("want ErrInvalidCredentials, got %v", err)
			}
		})
	}
}

func TestLogin_StoreFailures(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()

	s := newAuthService(t, db, &fakeRepoManager{u: &fakeUsersRepo{byEmailErr: errBoom{}}})
	if _, err := s.Login(context.Background(), "a@example.com", "hunter2-long", ClientMeta{}); !errors.Is(err, common.ErrorInternal) {
		t.Fatalf("lookup failure: want ErrorInternal, got %v", err)
	}

	mock.ExpectBegin()
	mock.ExpectRollback()
	s2 := newAuthService(t, db, &fakeRepoManager{
		u: &fakeUsersRepo{byEmailOut: &models.User{ID: "u1", IsActive: true,
			PasswordHash: hashFor(t, "hunter2-long")}},
		s: &fakeSessionsRepo{createErr: errBoom{}},
	})
	if _, err := s2.Login(context.Background(), "a@example.com", "hunter2-long", ClientMeta{}); !errors.Is(err, common.ErrorInternal) {
		t.Fatalf("tx failure: want ErrorInternal, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

// --- Validate ---

func TestValidate_Success(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{
		s: &fakeSessionsRepo{findOut: &models.Session{
			UserID: "u1", IsActive: true, ExpiresAt: time.Now().Add(time.Hour),
		}},
		u: &fakeUsersRepo{byIDOut: &models.User{ID: "u1", IsActive: true,
			PasswordHash: []byte("secret")}},
	}
	s := newAuthService(t, db, rm)

	user, err := s.Validate(context.Background(), "tok")
	if err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	if user == nil || user.ID != "u1" {
		t.Fatalf("want user u1, got %+v", user)
	}
	if user.PasswordHash != nil {
		t.Fatal("hash leaked out of Validate")
	}
}

func TestValidate_Unauthenticated(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	activeUser := &fakeUsersRepo{byIDOut: &models.User{ID: "u1", IsActive: true}}
	cases := []struct {
		name  string
		token string
		rm    *fakeRepoManager
	}{
		{"empty token", "", &fakeRepoManager{}},
		{"unknown token", "tok", &fakeRepoManager{
			s: &fakeSessionsRepo{findErr: common.ErrorNotFound}}},
		{"expired", "tok", &fakeRepoManager{
			s: &fakeSessionsRepo{findOut: &models.Session{UserID: "u1", IsActive: true,
				ExpiresAt: time.Now().Add(-time.Minute)}},
			u: activeUser}},
		{"revoked", "tok", &fakeRepoManager{
			s: &fakeSessionsRepo{findOut: &models.Session{UserID: "u1", IsActive: false,
				ExpiresAt: time.Now().Add(time.Hour)}},
			u: activeUser}},
		{"owner deactivated", "tok", &fakeRepoManager{
			s: &fakeSessionsRepo{findOut: &models.Session{UserID: "u1", IsActive: true,
				ExpiresAt: time.Now().Add(time.Hour)}},
			u: &fakeUsersRepo{byIDOut: &models.User{ID: "u1", IsActive: false}}}},
		{"owner row gone", "tok", &fakeRepoManager{
			s: &fakeSessionsRepo{findOut: &models.Session{UserID: "u1", IsActive: true,
				ExpiresAt: time.Now().Add(time.Hour)}},
			u: &fakeUsersRepo{byIDErr: common.ErrorNotFound}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newAuthService(t, db, tc.rm)
			user, err := s.Validate(context.Background(), tc.token)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if user != nil {
				t.Fatalf("want nil user, got %+v", user)
			}
		})
	}
}

func TestValidate_StoreFailure(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	s := newAuthService(t, db, &fakeRepoManager{s: &fakeSessionsRepo{findErr: errBoom{}}})
	if _, err := s.Validate(context.Background(), "tok"); !errors.Is(err, common.ErrorInternal) {
		t.Fatalf("want ErrorInternal, got %v", err)
	}
}

// --- Logout ---

func TestLogout_Idempotent(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	// Revoking an active session and revoking a token that matches
	// nothing both report success.
	for _, revoked := range []bool{true, false} {
		s := newAuthService(t, db, &fakeRepoManager{s: &fakeSessionsRepo{deactivateOut: revoked}})
		ok, err := s.Logout(context.Background(), "tok")
		if err != nil || !ok {
			t.Fatalf("revoked=%v: got (%v, %v)", revoked, ok, err)
		}
	}

	sErr := newAuthService(t, db, &fakeRepoManager{s: &fakeSessionsRepo{deactivateErr: errBoom{}}})
	ok, err := sErr.Logout(context.Background(), "tok")
	if ok || !errors.Is(err, common.ErrorInternal) {
		t.Fatalf("store failure: got (%v, %v)", ok, err)
	}
}

// --- Cleanup ---

func TestCleanupExpiredSessions(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	s := newAuthService(t, db, &fakeRepoManager{s: &fakeSessionsRepo{deleteN: 3}})
	n, err := s.CleanupExpiredSessions(context.Background())
	if err != nil || n != 3 {
		t.Fatalf("got (%d, %v)", n, err)
	}

	sErr := newAuthService(t, db, &fakeRepoManager{s: &fakeSessionsRepo{deleteErr: errBoom{}}})
	if _, err := sErr.CleanupExpiredSessions(context.Background()); !errors.Is(err, common.ErrorInternal) {
		t.Fatalf("want ErrorInternal, got %v", err)
	}
}

// --- Profile ---

func TestProfile_Flows(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{p: &fakeProfilesRepo{getOut: &models.Profile{UserID: "u1", FullName: "Alice"}}}
	s := newAuthService(t, db, rm)
	p, err := s.Profile(context.Background(), "u1")
	if err != nil || p.FullName != "Alice" {
		t.Fatalf("Profile: got (%+v, %v)", p, err)
	}

	rmNF := &fakeRepoManager{p: &fakeProfilesRepo{getErr: common.ErrorNotFound}}
	if _, err := newAuthService(t, db, rmNF).Profile(context.Background(), "u1"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}

	rmUpd := &fakeRepoManager{p: &fakeProfilesRepo{getOut: &models.Profile{UserID: "u1", FullName: "Alice B"}}}
	p2, err := newAuthService(t, db, rmUpd).UpdateProfile(context.Background(), "u1", "Alice B", "", "")
	if err != nil || p2.FullName != "Alice B" {
		t.Fatalf("UpdateProfile: got (%+v, %v)", p2, err)
	}
}
