package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"taskmanager/model"
)

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     model.Role
	Avatar   *Upload
}

type UpdateUserInput struct {
	Name     *string
	Email    *string
	Password *string
	Avatar   *Upload
}

type UserService struct {
	users  UserStore
	images ImageHost
	tokens *TokenService
	gate   Gate[*model.User]
	now    func() time.Time
}

func NewUserService(users UserStore, images ImageHost, tokens *TokenService) *UserService {
	return &UserService{
		users:  users,
		images: images,
		tokens: tokens,
		gate:   userGate(users),
		now:    time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	name := strings.TrimSpace(in.Name)
	email := normalizeEmail(in.Email)
	if name == "" || email == "" || in.Password == "" {
		return nil, model.InvalidInput("Please add all fields")
	}
	role := in.Role
	if role == "" {
		role = model.RoleProjectManager
	}
	if !role.Valid() {
		return nil, &model.ValidationError{Field: "role", Message: fmt.Sprintf("unknown role %q", role)}
	}
	if err := s.ensureEmailFree(ctx, email, ""); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	user := &model.User{
		UserID:    uuid.New().String(),
		Name:      name,
		Email:     email,
		Password:  string(hashed),
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if in.Avatar != nil {
		img, err := s.uploadAvatar(ctx, *in.Avatar)
		if err != nil {
			return nil, err
		}
		user.Avatar, user.AvatarID = img.URL, img.PublicID
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Authenticate checks an email and password pair. Unknown emails and wrong
// passwords are reported the same way.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.users.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.Unauthorized("Invalid email or password")
		}
		return nil, fmt.Errorf("look up user: %w", err)
	}
	if user.Password == "" {
		return nil, model.Unauthorized("Invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, model.Unauthorized("Invalid email or password")
	}
	return user, nil
}

// FindOrCreateByEmail returns the account for a verified external identity,
// creating one without a password when none exists.
func (s *UserService) FindOrCreateByEmail(ctx context.Context, email, name, picture string) (*model.User, error) {
	email = normalizeEmail(email)
	user, err := s.users.GetUserByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		return nil, fmt.Errorf("look up user: %w", err)
	}

	if strings.TrimSpace(name) == "" {
		name = strings.SplitN(email, "@", 2)[0]
	}
	now := s.now()
	user = &model.User{
		UserID:    uuid.New().String(),
		Name:      name,
		Email:     email,
		Role:      model.RoleProjectManager,
		Avatar:    picture,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	slog.InfoContext(ctx, "user created from external identity", "user_id", user.UserID)
	return user, nil
}

func (s *UserService) Me(ctx context.Context, callerID string) (*model.User, error) {
	user, err := s.users.GetUser(ctx, callerID)
	if err != nil {
		return nil, notFoundAs(err, "User not found")
	}
	return user, nil
}

// Get returns the caller's own profile.
func (s *UserService) Get(ctx context.Context, id, callerID string) (*model.User, error) {
	return s.gate.Authorize(ctx, id, callerID, ActionView)
}

// List returns every user ordered by name.
func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	sort.SliceStable(users, func(i, j int) bool {
		return strings.ToLower(users[i].Name) < strings.ToLower(users[j].Name)
	})
	return users, nil
}

// Update changes the caller's own profile. A new avatar replaces the hosted
// one; the old image is removed from the host after the save.
func (s *UserService) Update(ctx context.Context, id, callerID string, in UpdateUserInput) (*model.User, error) {
	user, err := s.gate.Authorize(ctx, id, callerID, ActionUpdate)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		if name := strings.TrimSpace(*in.Name); name != "" {
			user.Name = name
		}
	}
	if in.Email != nil {
		if email := normalizeEmail(*in.Email); email != "" && email != user.Email {
			if err := s.ensureEmailFree(ctx, email, user.UserID); err != nil {
				return nil, err
			}
			user.Email = email
		}
	}
	if in.Password != nil && *in.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.Password = string(hashed)
	}

	oldAvatarID := ""
	if in.Avatar != nil {
		img, err := s.uploadAvatar(ctx, *in.Avatar)
		if err != nil {
			return nil, err
		}
		oldAvatarID = user.AvatarID
		user.Avatar, user.AvatarID = img.URL, img.PublicID
	}
	user.UpdatedAt = s.now()

	if err := s.users.SaveUser(ctx, user); err != nil {
		return nil, fmt.Errorf("save user %s: %w", id, err)
	}
	if oldAvatarID != "" {
		if err := s.images.Delete(ctx, oldAvatarID); err != nil {
			slog.ErrorContext(ctx, "delete replaced avatar", "user_id", id, "public_id", oldAvatarID, "error", err)
		}
	}
	return user, nil
}

// Delete removes the caller's own account, its hosted avatar and its
// refresh token. Tasks and works the user created are left in place.
func (s *UserService) Delete(ctx context.Context, id, callerID string) error {
	user, err := s.gate.Authorize(ctx, id, callerID, ActionDelete)
	if err != nil {
		return err
	}
	if user.AvatarID != "" {
		if err := s.images.Delete(ctx, user.AvatarID); err != nil {
			return &model.ExternalError{Op: "delete " + user.AvatarID, Err: err}
		}
	}
	if err := s.users.DeleteUser(ctx, user.UserID); err != nil {
		return fmt.Errorf("delete user %s: %w", id, err)
	}
	if s.tokens != nil {
		if err := s.tokens.Revoke(ctx, user.UserID); err != nil {
			slog.ErrorContext(ctx, "revoke refresh token of deleted user", "user_id", id, "error", err)
		}
	}
	return nil
}

// Summaries loads the users among ids that still exist, keyed by ID.
func (s *UserService) Summaries(ctx context.Context, ids []string) (map[string]model.User, error) {
	set := model.NewIDSet(ids...)
	if set.Len() == 0 {
		return map[string]model.User{}, nil
	}
	found, err := s.users.GetUsers(ctx, set.Slice())
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	return found, nil
}

func (s *UserService) ensureEmailFree(ctx context.Context, email, selfID string) error {
	existing, err := s.users.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.UserID != selfID {
			return &model.ValidationError{Field: "email", Message: "Email is already registered"}
		}
		return nil
	case errors.Is(err, model.ErrNotFound):
		return nil
	default:
		return fmt.Errorf("check existing email: %w", err)
	}
}

func (s *UserService) uploadAvatar(ctx context.Context, u Upload) (model.WorkImage, error) {
	images, err := uploadAll(ctx, s.images, []Upload{u})
	if err != nil {
		return model.WorkImage{}, err
	}
	return images[0], nil
}
