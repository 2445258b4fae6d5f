package authimpl

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/abdurwebdev/rerosewithmeee/internal/auth"
	"github.com/abdurwebdev/rerosewithmeee/internal/domain"
	"github.com/abdurwebdev/rerosewithmeee/internal/repositories/user"
	"github.com/abdurwebdev/rerosewithmeee/pkg/config"
	"github.com/abdurwebdev/rerosewithmeee/pkg/errors"
	"github.com/abdurwebdev/rerosewithmeee/pkg/logger"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/fx"
	"golang.org/x/crypto/bcrypt"
)

const issuer = "rerosewithmeee"

type claims struct {
	UserID string `json:"id"`
	jwt.RegisteredClaims
}

type Opts struct {
	fx.In

	UserRepo user.Repository
	Config   *config.Config
	Logger   logger.Logger
}

type ServiceImpl struct {
	UserRepo user.Repository
	Logger   logger.Logger

	secret []byte
	ttl    time.Duration
	cost   int
	now    func() time.Time
}

func New(opts Opts) *ServiceImpl {
	cost := opts.Config.Auth.BcryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &ServiceImpl{
		UserRepo: opts.UserRepo,
		Logger:   opts.Logger.WithComponent("AuthService"),
		secret:   []byte(opts.Config.Auth.JWTSecret),
		ttl:      opts.Config.Auth.TokenTTL,
		cost:     cost,
		now:      time.Now,
	}
}

var _ auth.Service = (*ServiceImpl)(nil)

func (s *ServiceImpl) Register(ctx context.Context, req auth.RegisterRequest) (*domain.User, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if username == "" || email == "" || req.Password == "" {
		return nil, errors.Invalid("Username, email and password are required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, errors.Invalid("Email is not valid")
	}

	hash, err := s.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	created, err := s.UserRepo.Create(ctx, &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Bio:          req.Bio,
		Avatar:       req.Avatar,
	})
	if err != nil {
		if errors.Is(err, user.ErrAlreadyExists) {
			return nil, errors.Conflict("User already exists")
		}
		return nil, errors.Wrap(err, "user repository")
	}

	s.Logger.Info("User registered", "user_id", created.ID)
	return created, nil
}

func (s *ServiceImpl) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.UserRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return "", errors.Invalid("User Not Found")
		}
		return "", errors.Wrap(err, "user repository")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", errors.Invalid("Invalid credentials")
	}

	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		UserID: u.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign token")
	}
	return signed, nil
}

func (s *ServiceImpl) Verify(token string) (string, error) {
	if token == "" {
		return "", errors.Unauthorized("Unauthorized! Token missing")
	}

	var c claims
	parsed, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithIssuer(issuer))
	if err != nil || !parsed.Valid || c.UserID == "" {
		return "", errors.Unauthorized("Unauthorized! Invalid token")
	}
	return c.UserID, nil
}

func (s *ServiceImpl) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", errors.Invalid("Password is too long")
		}
		return "", errors.Wrap(err, "failed to hash password")
	}
	return string(hash), nil
}
