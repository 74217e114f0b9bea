package auth

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"unicode"

	"travelagency/internal/domain"
	"travelagency/internal/ledger"
	"travelagency/internal/pkg/csvutil"

	"golang.org/x/crypto/bcrypt"
)

// Roles issued in session tokens.
const (
	RoleSuper    = "super"
	RoleStaff    = "staff"
	RoleCustomer = "customer"
)

type tokenIssuer interface {
	GenerateToken(email, role string) (string, error)
}

// Ledger is the slice of the collection ledger this module needs.
type Ledger interface {
	List(ctx context.Context, collection string, out any) error
	Update(ctx context.Context, collection string, apply func(raw []byte) (any, error)) error
	GetObject(ctx context.Context, key string, out any) (bool, error)
	SetObject(ctx context.Context, key string, v any) error
}

type AuditRecorder interface {
	Record(ctx context.Context, action string, details any) error
}

// AdminCredentials are the operator accounts configured at startup. They
// never live in the userLogins collection; staff emails share the admin
// password and get the restricted staff role.
type AdminCredentials struct {
	Email       string
	Password    string
	StaffEmails []string
}

type Service struct {
	ledger Ledger
	audit  AuditRecorder
	jwt    tokenIssuer
	admin  AdminCredentials
}

func NewService(l Ledger, audit AuditRecorder, jwt tokenIssuer, admin AdminCredentials) *Service {
	return &Service{ledger: l, audit: audit, jwt: jwt, admin: admin}
}

// Register creates a customer account. Emails are stored lowercased and must
// be unique; the password is bcrypt-hashed before it touches the ledger.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	if req.Password != req.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}
	if !passwordMeetsPolicy(req.Password) {
		return nil, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := domain.User{
		Name:          strings.TrimSpace(req.Name),
		Email:         normalizeEmail(req.Email),
		ContactNumber: strings.TrimSpace(req.ContactNumber),
		Password:      string(hash),
	}

	err = s.ledger.Update(ctx, ledger.UserLogins, func(raw []byte) (any, error) {
		list, err := decodeUsers(raw)
		if err != nil {
			return nil, err
		}
		for _, u := range list {
			if normalizeEmail(u.Email) == user.Email {
				return nil, ErrEmailAlreadyExists
			}
		}
		return append(list, user), nil
	})
	if err != nil {
		return nil, err
	}

	public := user
	public.Password = ""
	return &public, nil
}

// Login authenticates a registered customer and records the session in the
// currentUser object. Unknown emails and wrong passwords are reported
// identically.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	email := normalizeEmail(req.Email)

	var users []domain.User
	if err := s.ledger.List(ctx, ledger.UserLogins, &users); err != nil {
		return nil, err
	}

	for _, u := range users {
		if normalizeEmail(u.Email) != email {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.Password)) != nil {
			return nil, ErrInvalidCredentials
		}

		token, err := s.jwt.GenerateToken(u.Email, RoleCustomer)
		if err != nil {
			return nil, err
		}

		current := domain.CurrentUser{Name: u.Name, Email: u.Email, ContactNumber: u.ContactNumber}
		if err := s.ledger.SetObject(ctx, ledger.CurrentUser, current); err != nil {
			return nil, err
		}
		return &LoginResult{Token: token, Role: RoleCustomer, User: current}, nil
	}
	return nil, ErrInvalidCredentials
}

// AdminLogin authenticates against the configured operator accounts. The
// primary email gets the super role; listed staff emails share the password
// and get staff.
func (s *Service) AdminLogin(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	email := normalizeEmail(req.Email)
	if s.admin.Password == "" || req.Password != s.admin.Password {
		return nil, ErrInvalidCredentials
	}

	role := ""
	switch {
	case email == normalizeEmail(s.admin.Email):
		role = RoleSuper
	default:
		for _, staff := range s.admin.StaffEmails {
			if email == normalizeEmail(staff) {
				role = RoleStaff
				break
			}
		}
	}
	if role == "" {
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(email, role)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, Role: role, User: domain.CurrentUser{Email: email}}, nil
}

// ResetPassword overwrites a registered account's password. The same policy
// applies as at registration.
func (s *Service) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	if req.Password != req.ConfirmPassword {
		return ErrPasswordMismatch
	}
	if !passwordMeetsPolicy(req.Password) {
		return ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	email := normalizeEmail(req.Email)
	return s.ledger.Update(ctx, ledger.UserLogins, func(raw []byte) (any, error) {
		list, err := decodeUsers(raw)
		if err != nil {
			return nil, err
		}
		for i := range list {
			if normalizeEmail(list[i].Email) == email {
				list[i].Password = string(hash)
				return list, nil
			}
		}
		return nil, ErrUserNotFound
	})
}

// Logout clears the currentUser object.
func (s *Service) Logout(ctx context.Context) error {
	return s.ledger.SetObject(ctx, ledger.CurrentUser, domain.CurrentUser{})
}

// CurrentUser returns the recorded session, false when nobody is logged in.
func (s *Service) CurrentUser(ctx context.Context) (domain.CurrentUser, bool, error) {
	var current domain.CurrentUser
	found, err := s.ledger.GetObject(ctx, ledger.CurrentUser, &current)
	if err != nil {
		return domain.CurrentUser{}, false, err
	}
	return current, found && current.Email != "", nil
}

// Profile reads the portal profile object, false when it was never saved.
func (s *Service) Profile(ctx context.Context) (domain.CustomerProfile, bool, error) {
	var p domain.CustomerProfile
	found, err := s.ledger.GetObject(ctx, ledger.CustomerProfile, &p)
	if err != nil {
		return domain.CustomerProfile{}, false, err
	}
	return p, found, nil
}

// UpdateProfile merges the request into the stored profile. The profile's
// email is pinned to the authenticated account and cannot be edited.
func (s *Service) UpdateProfile(ctx context.Context, email string, req UpdateProfileRequest) (domain.CustomerProfile, error) {
	p, _, err := s.Profile(ctx)
	if err != nil {
		return domain.CustomerProfile{}, err
	}

	p.Email = normalizeEmail(email)
	if req.Name != "" {
		p.Name = req.Name
	}
	if req.ContactNumber != "" {
		p.ContactNumber = req.ContactNumber
	}
	if req.Address != "" {
		p.Address = req.Address
	}

	if err := s.ledger.SetObject(ctx, ledger.CustomerProfile, p); err != nil {
		return domain.CustomerProfile{}, err
	}
	return p, nil
}

// ListUsers returns registered accounts with password hashes blanked.
func (s *Service) ListUsers(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := s.ledger.List(ctx, ledger.UserLogins, &users); err != nil {
		return nil, err
	}
	for i := range users {
		users[i].Password = ""
	}
	return users, nil
}

// DeleteUser removes a registered account. An unknown email is a silent
// no-op.
func (s *Service) DeleteUser(ctx context.Context, email string) (bool, error) {
	email = normalizeEmail(email)
	if email == "" {
		return false, nil
	}

	found := false
	err := s.ledger.Update(ctx, ledger.UserLogins, func(raw []byte) (any, error) {
		list, err := decodeUsers(raw)
		if err != nil {
			return nil, err
		}

		kept := list[:0]
		for _, u := range list {
			if normalizeEmail(u.Email) == email {
				found = true
				continue
			}
			kept = append(kept, u)
		}
		if !found {
			return nil, nil
		}
		return kept, nil
	})
	if err != nil || !found {
		return found, err
	}

	s.recordAudit(ctx, "delete_user", map[string]any{"email": email})
	return true, nil
}

var usersExportHeader = []string{"Name", "Email", "Contact Number"}

// ExportUsersCSV renders the registered accounts for download.
func (s *Service) ExportUsersCSV(ctx context.Context) ([]byte, error) {
	users, err := s.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([][]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, []string{u.Name, u.Email, u.ContactNumber})
	}
	return csvutil.Encode(usersExportHeader, rows), nil
}

func (s *Service) recordAudit(ctx context.Context, action string, details any) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Record(ctx, action, details); err != nil {
		log.Printf("audit append failed action=%s err=%v", action, err)
	}
}

// passwordMeetsPolicy requires at least 8 characters with an upper-case
// letter, a lower-case letter and a digit.
func passwordMeetsPolicy(pw string) bool {
	if len(pw) < 8 {
		return false
	}
	var upper, lower, digit bool
	for _, r := range pw {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return upper && lower && digit
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func decodeUsers(raw []byte) ([]domain.User, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var list []domain.User
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, err
	}
	return list, nil
}
