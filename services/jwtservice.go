package services

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"taskmanager/model"
)

const tokenIssuer = "taskmanager"

// TokenPair is what login, registration and refresh hand back to clients.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	store         RefreshTokenStore
	now           func() time.Time
}

func NewTokenService(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration, store RefreshTokenStore) *TokenService {
	return &TokenService{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		store:         store,
		now:           time.Now,
	}
}

func (s *TokenService) CreateAccessToken(userID string, role model.Role) (string, error) {
	now := s.now()
	claims := &model.AccessClaims{
		UserID: userID,
		Role:   string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.accessSecret)
}

func (s *TokenService) CreateRefreshToken(userID string) (string, error) {
	now := s.now()
	claims := &model.RefreshClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.refreshTTL)),
			// Two refreshes within the same second must still differ.
			ID: uuid.New().String(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.refreshSecret)
}

// Issue mints a token pair and stores the refresh token's hash, replacing
// any earlier refresh token of the user.
func (s *TokenService) Issue(ctx context.Context, user *model.User) (*TokenPair, error) {
	access, err := s.CreateAccessToken(user.UserID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	refresh, err := s.CreateRefreshToken(user.UserID)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}
	hashed, err := HashRefreshToken(refresh)
	if err != nil {
		return nil, fmt.Errorf("hash refresh token: %w", err)
	}
	now := s.now()
	rec := model.RefreshRecord{
		UserID:       user.UserID,
		RefreshToken: hashed,
		CreatedAt:    now.Unix(),
		ExpiresIn:    int64(s.refreshTTL / time.Second),
	}
	if err := s.store.SaveRefreshToken(ctx, rec); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// ParseAccess verifies an access token and returns its claims.
func (s *TokenService) ParseAccess(raw string) (*model.AccessClaims, error) {
	claims := &model.AccessClaims{}
	if err := s.parse(raw, s.accessSecret, claims); err != nil {
		return nil, err
	}
	if claims.UserID == "" {
		return nil, model.Unauthorized("Invalid userId in token claims")
	}
	return claims, nil
}

// ParseRefresh verifies a refresh token's signature and expiry only.
func (s *TokenService) ParseRefresh(raw string) (*model.RefreshClaims, error) {
	claims := &model.RefreshClaims{}
	if err := s.parse(raw, s.refreshSecret, claims); err != nil {
		return nil, err
	}
	if claims.UserID == "" {
		return nil, model.Unauthorized("Invalid userId in token claims")
	}
	return claims, nil
}

func (s *TokenService) parse(raw string, secret []byte, claims jwt.Claims) error {
	_, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithTimeFunc(s.now))
	if err != nil {
		return model.Unauthorized("Token is expired or invalid")
	}
	return nil
}

// CheckRefresh reports whether raw is the user's current, unrevoked
// refresh token.
func (s *TokenService) CheckRefresh(ctx context.Context, userID, raw string) error {
	rec, err := s.store.GetRefreshToken(ctx, userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Unauthorized("Refresh token is not recognized")
		}
		return fmt.Errorf("load refresh token: %w", err)
	}
	if rec.Revoked {
		return model.Unauthorized("Refresh token has been revoked")
	}
	hash := sha256.Sum256([]byte(raw))
	if bcrypt.CompareHashAndPassword([]byte(rec.RefreshToken), hash[:]) != nil {
		return model.Unauthorized("Refresh token is not recognized")
	}
	return nil
}

func (s *TokenService) Revoke(ctx context.Context, userID string) error {
	if err := s.store.RevokeRefreshToken(ctx, userID); err != nil && !errors.Is(err, model.ErrNotFound) {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}

// HashRefreshToken runs the token through SHA-256 first, since bcrypt only
// looks at the first 72 bytes of its input.
func HashRefreshToken(token string) (string, error) {
	hash := sha256.Sum256([]byte(token))
	hashedToken, err := bcrypt.GenerateFromPassword(hash[:], bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedToken), nil
}
