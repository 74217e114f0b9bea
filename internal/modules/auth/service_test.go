package auth

import (
	"context"
	"strings"
	"testing"

	"travelagency/internal/ledger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockAudit struct {
	mock.Mock
}

func (m *MockAudit) Record(ctx context.Context, action string, details any) error {
	args := m.Called(ctx, action, details)
	return args.Error(0)
}

type stubTokens struct{}

func (stubTokens) GenerateToken(email, role string) (string, error) {
	return "token:" + email + ":" + role, nil
}

func newTestService() (*Service, *MockAudit) {
	audit := new(MockAudit)
	audit.On("Record", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	admin := AdminCredentials{
		Email:       "owner@example.com",
		Password:    "let-me-in",
		StaffEmails: []string{"desk@example.com"},
	}
	return NewService(ledger.New(ledger.NewMemStore(), nil), audit, stubTokens{}, admin), audit
}

func registerReq(email string) RegisterRequest {
	return RegisterRequest{
		Name:            "Dana",
		Email:           email,
		ContactNumber:   "+1 555 0100",
		Password:        "Sunny2024",
		ConfirmPassword: "Sunny2024",
	}
}

func TestRegister_EnforcesPasswordPolicy(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	for _, pw := range []string{"Sh0rt", "alllower1", "ALLUPPER1", "NoDigitsHere"} {
		req := registerReq("dana@example.com")
		req.Password = pw
		req.ConfirmPassword = pw
		_, err := svc.Register(ctx, req)
		assert.ErrorIs(t, err, ErrWeakPassword, "password %q should be rejected", pw)
	}

	req := registerReq("dana@example.com")
	req.ConfirmPassword = "Different1"
	_, err := svc.Register(ctx, req)
	assert.ErrorIs(t, err, ErrPasswordMismatch)
}

func TestRegister_HashesPasswordAndLowercasesEmail(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	user, err := svc.Register(ctx, registerReq("Dana@Example.COM"))
	assert.NoError(t, err)
	assert.Equal(t, "dana@example.com", user.Email)
	assert.Empty(t, user.Password)

	users, err := svc.ListUsers(ctx)
	assert.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Empty(t, users[0].Password, "hashes must not leak through listings")
}

func TestRegister_RejectsDuplicateEmail(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, registerReq("dana@example.com"))
	assert.NoError(t, err)

	_, err = svc.Register(ctx, registerReq("DANA@example.com"))
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestLogin_RoundTrip(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, registerReq("dana@example.com"))
	assert.NoError(t, err)

	result, err := svc.Login(ctx, LoginRequest{Email: "dana@example.com", Password: "Sunny2024"})
	assert.NoError(t, err)
	assert.Equal(t, RoleCustomer, result.Role)
	assert.True(t, strings.HasPrefix(result.Token, "token:dana@example.com:"))

	current, loggedIn, err := svc.CurrentUser(ctx)
	assert.NoError(t, err)
	assert.True(t, loggedIn)
	assert.Equal(t, "dana@example.com", current.Email)

	assert.NoError(t, svc.Logout(ctx))
	_, loggedIn, err = svc.CurrentUser(ctx)
	assert.NoError(t, err)
	assert.False(t, loggedIn)
}

func TestLogin_WrongPasswordAndUnknownEmailLookAlike(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, registerReq("dana@example.com"))
	assert.NoError(t, err)

	_, errWrong := svc.Login(ctx, LoginRequest{Email: "dana@example.com", Password: "Wrong1234"})
	_, errUnknown := svc.Login(ctx, LoginRequest{Email: "ghost@example.com", Password: "Sunny2024"})
	assert.ErrorIs(t, errWrong, ErrInvalidCredentials)
	assert.ErrorIs(t, errUnknown, ErrInvalidCredentials)
}

func TestAdminLogin_Roles(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	super, err := svc.AdminLogin(ctx, LoginRequest{Email: "owner@example.com", Password: "let-me-in"})
	assert.NoError(t, err)
	assert.Equal(t, RoleSuper, super.Role)

	staff, err := svc.AdminLogin(ctx, LoginRequest{Email: "desk@example.com", Password: "let-me-in"})
	assert.NoError(t, err)
	assert.Equal(t, RoleStaff, staff.Role)

	_, err = svc.AdminLogin(ctx, LoginRequest{Email: "owner@example.com", Password: "nope"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.AdminLogin(ctx, LoginRequest{Email: "random@example.com", Password: "let-me-in"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestResetPassword(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, registerReq("dana@example.com"))
	assert.NoError(t, err)

	err = svc.ResetPassword(ctx, ResetPasswordRequest{
		Email:           "dana@example.com",
		Password:        "Rainy2025",
		ConfirmPassword: "Rainy2025",
	})
	assert.NoError(t, err)

	_, err = svc.Login(ctx, LoginRequest{Email: "dana@example.com", Password: "Sunny2024"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, LoginRequest{Email: "dana@example.com", Password: "Rainy2025"})
	assert.NoError(t, err)

	err = svc.ResetPassword(ctx, ResetPasswordRequest{
		Email:           "ghost@example.com",
		Password:        "Rainy2025",
		ConfirmPassword: "Rainy2025",
	})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestDeleteUser_AuditsAndIgnoresUnknown(t *testing.T) {
	svc, audit := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, registerReq("dana@example.com"))
	assert.NoError(t, err)

	deleted, err := svc.DeleteUser(ctx, "ghost@example.com")
	assert.NoError(t, err)
	assert.False(t, deleted)
	audit.AssertNotCalled(t, "Record", mock.Anything, "delete_user", mock.Anything)

	deleted, err = svc.DeleteUser(ctx, "Dana@example.com")
	assert.NoError(t, err)
	assert.True(t, deleted)
	audit.AssertCalled(t, "Record", mock.Anything, "delete_user", map[string]any{"email": "dana@example.com"})

	users, err := svc.ListUsers(ctx)
	assert.NoError(t, err)
	assert.Empty(t, users)
}

func TestExportUsersCSV(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, registerReq("dana@example.com"))
	assert.NoError(t, err)

	data, err := svc.ExportUsersCSV(ctx)
	assert.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	assert.Equal(t, "Name,Email,Contact Number", lines[0])
	assert.Equal(t, `"Dana","dana@example.com","+1 555 0100"`, lines[1])
}
