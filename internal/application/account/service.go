package account

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/reactivities/api/internal/domain/entity"
	"github.com/reactivities/api/internal/domain/repository"
	"github.com/reactivities/api/internal/infrastructure/search"
	"github.com/reactivities/api/pkg/helpers"
	"github.com/reactivities/api/pkg/mailer"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already taken")
	ErrInvalidVerifyToken = errors.New("invalid or expired verification token")
)

const (
	sessionTTL     = 24 * time.Hour
	verifyTokenTTL = 24 * time.Hour
)

// Service handles registration, login and session lifecycle. Sessions
// live in Redis keyed by user id; the JWT pair carries the session id
// so a rotated or logged-out session invalidates outstanding tokens.
type Service struct {
	Users          repository.UserRepository
	JWT            *helpers.JWTManager
	Redis          *redis.Client
	Publisher      *helpers.RabbitPublisher
	Index          *search.ProfileIndex
	Logger         *logrus.Logger
	VerifyEmailURL string
	AppBaseURL     string
}

func NewService(users repository.UserRepository, jwt *helpers.JWTManager, rdb *redis.Client, publisher *helpers.RabbitPublisher, index *search.ProfileIndex, logger *logrus.Logger, verifyEmailURL, appBaseURL string) *Service {
	return &Service{
		Users:          users,
		JWT:            jwt,
		Redis:          rdb,
		Publisher:      publisher,
		Index:          index,
		Logger:         logger,
		VerifyEmailURL: verifyEmailURL,
		AppBaseURL:     appBaseURL,
	}
}

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

type UserInfo struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Bio         string `json:"bio"`
	ImageURL    string `json:"imageUrl"`
	IsVerified  bool   `json:"isVerified"`
}

func sessionKey(userID string) string {
	return "user:session:" + userID
}

func verifyTokenKey(token string) string {
	return "email:verify:token:" + token
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

func info(u *entity.User) *UserInfo {
	return &UserInfo{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Bio:         u.Bio,
		ImageURL:    u.ImageURL,
		IsVerified:  u.IsVerified,
	}
}

// Register creates a user with a bcrypt-hashed password, queues a
// verification email and indexes the new profile for search.
func (s *Service) Register(ctx context.Context, email, password, displayName string) (*UserInfo, error) {
	if existing, err := s.Users.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, ErrEmailTaken
	} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := helpers.HashPassword(password)
	if err != nil {
		return nil, err
	}
	u := &entity.User{
		Email:       email,
		Password:    hash,
		DisplayName: displayName,
	}
	if err := s.Users.Create(ctx, u); err != nil {
		// Concurrent registration can slip past the pre-check; the
		// unique index on email is the authority.
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	if err := s.sendVerifyEmail(ctx, u); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("queue verification email failed")
	}
	_ = s.Index.IndexUser(ctx, u)

	return info(u), nil
}

// Authenticate validates email/password without issuing tokens.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil || u == nil {
		return nil, ErrInvalidCredentials
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// IssueTokens generates an access/refresh pair and records the session in Redis.
func (s *Service) IssueTokens(ctx context.Context, u *entity.User) (TokenPair, error) {
	sid := uuid.NewString()
	access, aexp, err := s.JWT.GenerateAccessToken(u.ID, sid)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate access token failed")
		}
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(u.ID, sid)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate refresh token failed")
		}
		return TokenPair{}, err
	}

	if s.Redis != nil {
		key := sessionKey(u.ID)
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, map[string]any{
			"user_id":      u.ID,
			"email":        u.Email,
			"display_name": u.DisplayName,
			"image_url":    u.ImageURL,
			"sid":          sid,
			"logged_in":    true,
			"created_at":   nowRFC3339(),
		})
		pipe.Expire(ctx, key, sessionTTL)
		if _, rErr := pipe.Exec(ctx); rErr != nil && s.Logger != nil {
			s.Logger.WithError(rErr).WithField("key", key).Warn("redis pipeline failed")
		}
	}

	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (*UserInfo, TokenPair, error) {
	u, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, TokenPair{}, err
	}
	pair, err := s.IssueTokens(ctx, u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return info(u), pair, nil
}

// Refresh rotates the session id and returns a fresh token pair. The
// refresh token's sid must match the current session in Redis.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (TokenPair, string, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, "", ErrInvalidCredentials
	}
	u, err := s.Users.GetByID(ctx, claims.UserID)
	if err != nil || u == nil {
		return TokenPair{}, "", ErrInvalidCredentials
	}
	if s.Redis != nil {
		data, rErr := s.Redis.HGetAll(ctx, sessionKey(u.ID)).Result()
		if rErr != nil || len(data) == 0 || data["sid"] != claims.SessionID {
			return TokenPair{}, "", ErrInvalidCredentials
		}
	}

	sid := uuid.NewString()
	access, aexp, err := s.JWT.GenerateAccessToken(u.ID, sid)
	if err != nil {
		return TokenPair{}, "", err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(u.ID, sid)
	if err != nil {
		return TokenPair{}, "", err
	}
	if s.Redis != nil {
		key := sessionKey(u.ID)
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, map[string]any{
			"sid":        sid,
			"updated_at": nowRFC3339(),
		})
		pipe.Expire(ctx, key, sessionTTL)
		_, _ = pipe.Exec(ctx)
	}
	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, u.ID, nil
}

// Logout drops the Redis session, invalidating both tokens of the pair.
func (s *Service) Logout(ctx context.Context, userID string) error {
	if s.Redis == nil {
		return nil
	}
	return s.Redis.Del(ctx, sessionKey(userID)).Err()
}

func (s *Service) GetUserInfo(ctx context.Context, userID string) (*UserInfo, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil || u == nil {
		return nil, ErrUserNotFound
	}
	return info(u), nil
}

// ResendConfirmEmail queues a fresh verification email for an
// unverified account.
func (s *Service) ResendConfirmEmail(ctx context.Context, email string) error {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil || u == nil {
		return ErrUserNotFound
	}
	if u.IsVerified {
		return nil
	}
	return s.sendVerifyEmail(ctx, u)
}

// VerifyConfirm redeems a verification token and marks the user verified.
func (s *Service) VerifyConfirm(ctx context.Context, token string) error {
	if s.Redis == nil || token == "" {
		return ErrInvalidVerifyToken
	}
	key := verifyTokenKey(token)
	userID, err := s.Redis.Get(ctx, key).Result()
	if err != nil || userID == "" {
		return ErrInvalidVerifyToken
	}
	if err := s.Users.SetVerified(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidVerifyToken
		}
		return err
	}
	_ = s.Redis.Del(ctx, key).Err()

	if s.Publisher != nil {
		if u, err := s.Users.GetByID(ctx, userID); err == nil {
			job := mailer.EmailJob{
				To:       u.Email,
				Template: "welcome",
				Data: map[string]any{
					"Name":   u.DisplayName,
					"AppURL": s.AppBaseURL,
				},
			}
			if err := s.Publisher.PublishJSON(ctx, job); err != nil && s.Logger != nil {
				s.Logger.WithError(err).WithField("user_id", userID).Warn("queue welcome email failed")
			}
		}
	}
	return nil
}

func (s *Service) sendVerifyEmail(ctx context.Context, u *entity.User) error {
	if s.Redis == nil || s.Publisher == nil {
		return errors.New("verification mail not configured")
	}
	token := uuid.NewString()
	if err := s.Redis.Set(ctx, verifyTokenKey(token), u.ID, verifyTokenTTL).Err(); err != nil {
		return err
	}
	job := mailer.EmailJob{
		To:       u.Email,
		Template: "verify_email",
		Data: map[string]any{
			"Name": u.DisplayName,
			"Link": s.VerifyEmailURL + "?token=" + token,
		},
	}
	return s.Publisher.PublishJSON(ctx, job)
}
