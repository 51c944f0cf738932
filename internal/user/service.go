package user

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/wichananm65/food-order-backend/internal/apperr"
	"github.com/wichananm65/food-order-backend/internal/auth"
	"github.com/wichananm65/food-order-backend/internal/customer"
	"github.com/wichananm65/food-order-backend/internal/logger"
	"github.com/wichananm65/food-order-backend/internal/restaurant"
)

type CustomerProfiles interface {
	Profile(ctx context.Context, actor auth.Actor) (customer.Profile, error)
}

type RestaurantProfiles interface {
	Profile(ctx context.Context, actor auth.Actor) (restaurant.Profile, error)
}

type Service struct {
	repo        Repository
	auth        *auth.Service
	customers   CustomerProfiles
	restaurants RestaurantProfiles
}

func NewService(repo Repository, authSvc *auth.Service, customers CustomerProfiles, restaurants RestaurantProfiles) *Service {
	return &Service{repo: repo, auth: authSvc, customers: customers, restaurants: restaurants}
}

// Register creates the account and its role profile, then signs the caller in.
func (s *Service) Register(ctx context.Context, reg Registration) (Session, error) {
	reg.Email = strings.TrimSpace(reg.Email)
	reg.Location = strings.TrimSpace(reg.Location)
	if len(reg.Password) > auth.MaxPasswordBytes {
		return Session{}, apperr.Validation("Password must be at most %d bytes", auth.MaxPasswordBytes)
	}
	if reg.UserType == auth.RoleRestaurant && reg.Location == "" {
		return Session{}, apperr.Validation("Location is required for restaurants")
	}

	if _, err := s.repo.FindByEmail(ctx, reg.Email); err == nil {
		return Session{}, apperr.Validation("Email already in use")
	} else if !errors.Is(err, ErrNotFound) {
		return Session{}, apperr.Persistence("find user by email", err)
	}

	digest, err := s.auth.Hash(reg.Password)
	if err != nil {
		return Session{}, err
	}

	u, profileID, err := s.repo.Create(ctx, User{
		Name:     strings.TrimSpace(reg.Name),
		Email:    reg.Email,
		Password: digest,
		UserType: reg.UserType,
	}, reg.Location)
	if errors.Is(err, ErrEmailExists) {
		return Session{}, apperr.Validation("Email already in use")
	}
	if err != nil {
		return Session{}, apperr.Persistence("create user", err)
	}

	logger.FromContext(ctx).Info("user registered",
		zap.Int64("user_id", u.ID), zap.String("user_type", string(u.UserType)))
	return s.session(u, profileID)
}

func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	u, err := s.repo.FindByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, ErrNotFound) {
		return Session{}, apperr.Unauthenticated("Invalid credentials")
	}
	if err != nil {
		return Session{}, apperr.Persistence("find user by email", err)
	}
	if !s.auth.Verify(password, u.Password) {
		logger.FromContext(ctx).Info("login rejected", zap.Int64("user_id", u.ID))
		return Session{}, apperr.Unauthenticated("Invalid credentials")
	}

	profileID, err := s.repo.ProfileID(ctx, u)
	if errors.Is(err, ErrNotFound) {
		return Session{}, apperr.NotFound("%s profile not found", u.UserType.Title())
	}
	if err != nil {
		return Session{}, apperr.Persistence("find profile", err)
	}
	return s.session(u, profileID)
}

// Me returns the caller's account with its role profile.
func (s *Service) Me(ctx context.Context, actor auth.Actor) (Account, error) {
	u, err := s.repo.FindByID(ctx, actor.UserID)
	if errors.Is(err, ErrNotFound) {
		return Account{}, apperr.NotFound("User not found")
	}
	if err != nil {
		return Account{}, apperr.Persistence("find user", err)
	}

	acct := Account{User: u}
	switch u.UserType {
	case auth.RoleRestaurant:
		acct.Profile, err = s.restaurants.Profile(ctx, actor)
	default:
		acct.Profile, err = s.customers.Profile(ctx, actor)
	}
	if err != nil {
		return Account{}, err
	}
	return acct, nil
}

func (s *Service) session(u User, profileID int64) (Session, error) {
	token, err := s.auth.IssueToken(auth.Actor{
		UserID:    u.ID,
		ProfileID: profileID,
		Role:      u.UserType,
		Email:     u.Email,
		Name:      u.Name,
	})
	if err != nil {
		return Session{}, err
	}
	return Session{Token: token, User: u, ProfileID: profileID}, nil
}
