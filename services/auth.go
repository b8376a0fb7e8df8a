package services

import (
	"context"

	"taskmanager/model"
)

// AuthService ties accounts to tokens. Captcha and Google sign-in are
// optional and disabled when their collaborator is nil.
type AuthService struct {
	users   *UserService
	tokens  *TokenService
	captcha CaptchaVerifier
	google  IdentityVerifier
}

func NewAuthService(users *UserService, tokens *TokenService, captcha CaptchaVerifier, google IdentityVerifier) *AuthService {
	return &AuthService{users: users, tokens: tokens, captcha: captcha, google: google}
}

// CaptchaEnabled reports whether registration must carry a captcha token.
func (s *AuthService) CaptchaEnabled() bool { return s.captcha != nil }

func (s *AuthService) VerifyCaptcha(ctx context.Context, req CaptchaRequest) (*Assessment, error) {
	if s.captcha == nil {
		return nil, model.NotFound("Captcha verification is not configured")
	}
	return s.captcha.Verify(ctx, req)
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput, captcha CaptchaRequest) (*model.User, *TokenPair, error) {
	if s.captcha != nil {
		if _, err := s.captcha.Verify(ctx, captcha); err != nil {
			return nil, nil, err
		}
	}
	user, err := s.users.Register(ctx, in)
	if err != nil {
		return nil, nil, err
	}
	tokens, err := s.tokens.Issue(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, tokens, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*model.User, *TokenPair, error) {
	user, err := s.users.Authenticate(ctx, email, password)
	if err != nil {
		return nil, nil, err
	}
	tokens, err := s.tokens.Issue(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, tokens, nil
}

func (s *AuthService) GoogleSignIn(ctx context.Context, rawIDToken string) (*model.User, *TokenPair, error) {
	if s.google == nil {
		return nil, nil, model.NotFound("Google sign-in is not configured")
	}
	id, err := s.google.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, nil, err
	}
	user, err := s.users.FindOrCreateByEmail(ctx, id.Email, id.Name, id.Picture)
	if err != nil {
		return nil, nil, err
	}
	tokens, err := s.tokens.Issue(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, tokens, nil
}

// Refresh rotates the pair for a refresh token that is the user's current
// one. The presented token stops working afterwards.
func (s *AuthService) Refresh(ctx context.Context, rawRefresh string) (*TokenPair, error) {
	claims, err := s.tokens.ParseRefresh(rawRefresh)
	if err != nil {
		return nil, err
	}
	if err := s.tokens.CheckRefresh(ctx, claims.UserID, rawRefresh); err != nil {
		return nil, err
	}
	user, err := s.users.Me(ctx, claims.UserID)
	if err != nil {
		return nil, model.Unauthorized("User no longer exists")
	}
	return s.tokens.Issue(ctx, user)
}

func (s *AuthService) Logout(ctx context.Context, userID string) error {
	return s.tokens.Revoke(ctx, userID)
}
