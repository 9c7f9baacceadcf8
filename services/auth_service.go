package services

import (
	"fmt"

	"stayhub/auth"
	"stayhub/domain"
	"stayhub/errors"
	"stayhub/repositories"
)

type IAuthService interface {
	Register(req auth.RegisterRequest) (Token, domain.User, error)
	Login(email, password string) (Token, domain.User, error)
}

type Token string

type AuthService struct {
	users  repositories.IUserRepository
	issuer auth.TokenIssuer
}

func NewAuthService(users repositories.IUserRepository, issuer auth.TokenIssuer) IAuthService {
	return &AuthService{users: users, issuer: issuer}
}

// Register creates an account and issues its first session token.
func (s *AuthService) Register(req auth.RegisterRequest) (Token, domain.User, error) {
	// Business rules (email format, password complexity) are checked before
	// any expensive cryptographic operation.
	if err := auth.ValidateRegister(req); err != nil {
		return "", domain.User{}, fmt.Errorf("%w: %v", errors.ErrInvalidInput, err)
	}

	// Hashing happens in the service layer to keep the repository unaware
	// of plain passwords.
	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return "", domain.User{}, fmt.Errorf("hashing failed: %w", err)
	}

	role := domain.Role(req.Role)
	if role == "" {
		role = domain.RoleGuest
	}

	user, err := s.users.CreateUser(domain.User{
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		Role:         role,
		PasswordHash: hashedPassword,
	})
	if err != nil {
		return "", domain.User{}, err // Propagates ErrDuplicateKey when the email is taken
	}

	token, err := s.issuer.Generate(user.ID.String(), user.Role)
	if err != nil {
		return "", domain.User{}, errors.ErrTokenGeneration
	}
	return Token(token), user, nil
}

// Login authenticates by email. Failures are reported with one generic
// error to prevent user enumeration.
func (s *AuthService) Login(email, password string) (Token, domain.User, error) {
	user, err := s.users.GetUserByEmail(email)
	if err != nil {
		return "", domain.User{}, errors.ErrInvalidCredentials
	}

	match, err := auth.ComparePassword(password, user.PasswordHash)
	if err != nil || !match {
		return "", domain.User{}, errors.ErrInvalidCredentials
	}

	token, err := s.issuer.Generate(user.ID.String(), user.Role)
	if err != nil {
		return "", domain.User{}, errors.ErrTokenGeneration
	}
	return Token(token), user, nil
}
