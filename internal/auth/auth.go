package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

type Role string

const (
	RoleCustomer   Role = "customer"
	RoleRestaurant Role = "restaurant"
)

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleCustomer, RoleRestaurant:
		return Role(s), true
	}
	return "", false
}

func (r Role) Title() string {
	switch r {
	case RoleCustomer:
		return "Customer"
	case RoleRestaurant:
		return "Restaurant"
	}
	return string(r)
}

// Actor is the authenticated caller. ProfileID is the restaurant profile id
// for restaurants and the customer profile id for customers.
type Actor struct {
	UserID    int64
	ProfileID int64
	Role      Role
	Email     string
	Name      string
}

func (a Actor) IsCustomer() bool   { return a.Role == RoleCustomer }
func (a Actor) IsRestaurant() bool { return a.Role == RoleRestaurant }

var ErrInvalidToken = errors.New("invalid token")

// Service hashes passwords and issues and verifies HS256 tokens.
type Service struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewService(secret string, ttl time.Duration) *Service {
	return &Service{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// MaxPasswordBytes is the longest input bcrypt accepts.
const MaxPasswordBytes = 72

func (s *Service) Hash(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(digest), nil
}

func (s *Service) Verify(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}

func (s *Service) IssueToken(a Actor) (string, error) {
	claims := Claims(a)
	claims["exp"] = s.now().Add(s.ttl).Unix()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Claims returns the token claims identifying a, without expiry.
func Claims(a Actor) jwt.MapClaims {
	return jwt.MapClaims{
		"user_id":    a.UserID,
		"profile_id": a.ProfileID,
		"user_type":  string(a.Role),
		"email":      a.Email,
		"name":       a.Name,
	}
}

// ParseToken verifies the signature and expiry of token and returns its actor.
func (s *Service) ParseToken(token string) (Actor, error) {
	tok, err := jwt.Parse(token, s.keyFunc)
	if err != nil || !tok.Valid {
		return Actor{}, ErrInvalidToken
	}
	return actorFromToken(tok)
}

func (s *Service) keyFunc(t *jwt.Token) (any, error) {
	if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
	}
	return s.secret, nil
}

func actorFromToken(tok *jwt.Token) (Actor, error) {
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Actor{}, ErrInvalidToken
	}

	userID, err := claimInt(claims, "user_id")
	if err != nil || userID <= 0 {
		return Actor{}, ErrInvalidToken
	}
	role, ok := claims["user_type"].(string)
	if !ok {
		return Actor{}, ErrInvalidToken
	}
	parsed, ok := ParseRole(role)
	if !ok {
		return Actor{}, ErrInvalidToken
	}
	profileID, err := claimInt(claims, "profile_id")
	if err != nil {
		profileID = 0
	}

	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)
	return Actor{UserID: userID, ProfileID: profileID, Role: parsed, Email: email, Name: name}, nil
}

// claimInt accepts the numeric shapes a claim can take after JSON decoding
// or when set directly in tests.
func claimInt(claims jwt.MapClaims, key string) (int64, error) {
	switch v := claims[key].(type) {
	case float64:
		return int64(v), nil
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	case string:
		return strconv.ParseInt(v, 10, 64)
	default:
		return 0, fmt.Errorf("claim %s missing", key)
	}
}
