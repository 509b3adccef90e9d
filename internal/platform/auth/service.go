package auth

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
	"golang.org/x/crypto/bcrypt"
)

const (
	RoleAdmin  = "Admin"
	RoleMember = "Member"
)

var (
	ErrAlreadyExists = errors.New("already exists")
	ErrNotFound      = errors.New("not found")
	ErrAuthFailed    = errors.New("authentication failed")
	ErrWeakPassword  = errors.New("password must be at least 8 characters and contain a number and a special character")
	ErrInvalidEmail  = errors.New("invalid email address")
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const passwordSpecials = `!@#$%^&*()_+\-=[]{};':"|,.<>/?~`

type Service struct {
	store  MemberStore
	secret []byte
}

func NewService(db *sql.DB, secret []byte) *Service {
	return &Service{store: NewStore(db), secret: secret}
}

type AuthService interface {
	Register(ctx context.Context, in RegisterRequest) (*MemberResponse, error)
	Login(ctx context.Context, email, password string) (string, error)
	ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error
	CreateMember(ctx context.Context, in CreateMemberRequest) (*MemberResponse, error)
	ListMembers(ctx context.Context) ([]MemberResponse, error)
	DeleteMember(ctx context.Context, userID string) error
}

// ===== DTO =====

type RegisterRequest struct {
	Email     string `json:"email" binding:"required"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Password  string `json:"password" binding:"required"`
}

// 管理者によるメンバー追加。ロールを指定できる点だけ Register と違う。
type CreateMemberRequest struct {
	Email     string  `json:"email" binding:"required"`
	FirstName string  `json:"first_name" binding:"required"`
	LastName  string  `json:"last_name" binding:"required"`
	Password  string  `json:"password" binding:"required"`
	Role      *string `json:"role,omitempty"` // 未指定なら Member
}

type MemberResponse struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// ===== バリデーション =====

func validateEmail(email string) error {
	if !emailRe.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}

// 8文字以上・数字・記号を各1つ以上
func validatePassword(pw string) error {
	if len(pw) < 8 {
		return ErrWeakPassword
	}
	if !strings.ContainsAny(pw, "0123456789") {
		return ErrWeakPassword
	}
	if !strings.ContainsAny(pw, passwordSpecials) {
		return ErrWeakPassword
	}
	return nil
}

// DisplayName JWTの name クレームに入れる表示名
func (m *Member) DisplayName() string {
	return m.FirstName + " " + m.LastName
}

// ===== 操作 =====

func (s *Service) Register(ctx context.Context, in RegisterRequest) (*MemberResponse, error) {
	return s.create(ctx, in.Email, in.FirstName, in.LastName, in.Password, RoleMember)
}

func (s *Service) CreateMember(ctx context.Context, in CreateMemberRequest) (*MemberResponse, error) {
	role := RoleMember
	if in.Role != nil && *in.Role != "" {
		if *in.Role != RoleAdmin && *in.Role != RoleMember {
			return nil, errors.New("role must be Admin or Member")
		}
		role = *in.Role
	}
	return s.create(ctx, in.Email, in.FirstName, in.LastName, in.Password, role)
}

func (s *Service) create(ctx context.Context, email, firstName, lastName, password, role string) (*MemberResponse, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	exists, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists != nil {
		return nil, ErrAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	m := &Member{
		UserID:       ulid.Make().String(),
		Email:        email,
		FirstName:    strings.TrimSpace(firstName),
		LastName:     strings.TrimSpace(lastName),
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.store.Create(ctx, m); err != nil {
		return nil, err
	}
	return toMemberResponse(m), nil
}

func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	m, err := s.store.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		return "", err
	}
	if m == nil {
		return "", ErrAuthFailed
	}
	if err := bcrypt.CompareHashAndPassword([]byte(m.PasswordHash), []byte(password)); err != nil {
		return "", ErrAuthFailed
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  m.UserID,
		"name": m.DisplayName(),
		"role": m.Role,
		"exp":  time.Now().Add(24 * time.Hour).Unix(),
	})
	return token.SignedString(s.secret)
}

func (s *Service) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	m, err := s.store.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if m == nil {
		return ErrNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(m.PasswordHash), []byte(oldPassword)); err != nil {
		return ErrAuthFailed
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	n, err := s.store.UpdatePassword(ctx, userID, string(hash))
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Service) ListMembers(ctx context.Context) ([]MemberResponse, error) {
	items, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]MemberResponse, 0, len(items))
	for i := range items {
		out = append(out, *toMemberResponse(&items[i]))
	}
	return out, nil
}

func (s *Service) DeleteMember(ctx context.Context, userID string) error {
	n, err := s.store.Delete(ctx, userID)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ===== helpers =====

func toMemberResponse(m *Member) *MemberResponse {
	return &MemberResponse{
		UserID:    m.UserID,
		Email:     m.Email,
		FirstName: m.FirstName,
		LastName:  m.LastName,
		Role:      m.Role,
		CreatedAt: m.CreatedAt,
	}
}
