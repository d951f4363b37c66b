package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"careerpath/internal/domain"
	"careerpath/internal/repository"
)

// UserService coordina reglas de negocio para usuarios.
type UserService struct {
	logger *zap.Logger
	users  repository.UserRepository
	now    func() time.Time
}

func NewUserService(logger *zap.Logger, users repository.UserRepository) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{
		logger: logger,
		users:  users,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

type CreateUserInput struct {
	Email       string
	DisplayName string
	Password    string
	Profile     domain.CareerProfile
}

var (
	ErrUserServiceNotConfigured = errors.New("user service not configured")
	ErrUserNotFound             = errors.New("user not found")
	ErrInvalidCredentials       = errors.New("invalid credentials")
	ErrInvalidEmail             = errors.New("invalid email")
	ErrWeakPassword             = errors.New("password must have at least 8 characters")
	ErrEmailTaken               = errors.New("email already registered")
	ErrInvalidProfile           = errors.New("invalid career profile")
)

const minPasswordLength = 8

func (s *UserService) CreateUser(ctx context.Context, input CreateUserInput) (domain.User, error) {
	if s == nil || s.users == nil {
		return domain.User{}, ErrUserServiceNotConfigured
	}

	email := normalizeEmail(input.Email)
	if !isValidEmail(email) {
		return domain.User{}, ErrInvalidEmail
	}
	password := strings.TrimSpace(input.Password)
	if len(password) < minPasswordLength {
		return domain.User{}, ErrWeakPassword
	}
	profile, err := NormalizeProfile(input.Profile)
	if err != nil {
		return domain.User{}, err
	}

	hashBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, err
	}

	now := s.now()
	user := domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		DisplayName:  strings.TrimSpace(input.DisplayName),
		PasswordHash: string(hashBytes),
		Profile:      profile,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return domain.User{}, ErrEmailTaken
		}
		return domain.User{}, err
	}
	s.logger.Info("user created", zap.String("user_id", user.ID))
	return user, nil
}

func (s *UserService) Authenticate(ctx context.Context, emailAddr, password string) (domain.User, error) {
	if s == nil || s.users == nil {
		return domain.User{}, ErrUserServiceNotConfigured
	}

	emailAddr = normalizeEmail(emailAddr)
	password = strings.TrimSpace(password)
	if emailAddr == "" || password == "" {
		return domain.User{}, ErrInvalidCredentials
	}
	user, err := s.users.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, err
	}
	if user.PasswordHash == "" {
		return domain.User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return domain.User{}, ErrInvalidCredentials
	}
	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id string) (domain.User, error) {
	if s == nil || s.users == nil {
		return domain.User{}, ErrUserServiceNotConfigured
	}
	user, err := s.users.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}

// UpdateProfile reemplaza nombre y perfil de carrera. displayName vacio conserva el actual.
func (s *UserService) UpdateProfile(ctx context.Context, userID, displayName string, profile domain.CareerProfile) (domain.User, error) {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return domain.User{}, err
	}
	profile, err = NormalizeProfile(profile)
	if err != nil {
		return domain.User{}, err
	}
	if name := strings.TrimSpace(displayName); name != "" {
		user.DisplayName = name
	}
	user.Profile = profile
	user.UpdatedAt = s.now()
	if err := s.users.UpdateProfile(ctx, user); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}

// NormalizeProfile pasa tipo de usuario y experiencia a minusculas y limpia
// skills e intereses. Devuelve ErrInvalidProfile si algun valor no es conocido.
func NormalizeProfile(p domain.CareerProfile) (domain.CareerProfile, error) {
	p.UserType = domain.UserType(strings.ToLower(strings.TrimSpace(string(p.UserType))))
	p.Experience = domain.ExperienceLevel(strings.ToLower(strings.TrimSpace(string(p.Experience))))
	if !p.UserType.Valid() || !p.Experience.Valid() {
		return domain.CareerProfile{}, ErrInvalidProfile
	}
	p.Interests = cleanTerms(p.Interests)
	p.Skills = cleanTerms(p.Skills)
	return p, nil
}

// cleanTerms recorta, descarta vacios y deduplica sin distinguir mayusculas.
func cleanTerms(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		key := strings.ToLower(v)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}
	return out
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func isValidEmail(email string) bool {
	if email == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}
