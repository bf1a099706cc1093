package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	mem "blogpress/pkg/memcache"

	"blogpress/internal/models/db_models"
	"blogpress/internal/models/request_models"
	"blogpress/internal/models/response_models"
	"blogpress/internal/repositories"
	"blogpress/pkg/logging"
	"blogpress/pkg/utils"
)

type AccountServiceInterface interface {
	Register(ctx context.Context, request request_models.SignUpRequest) (*response_models.AccountResponse, error)
	Login(ctx context.Context, request request_models.LoginRequest) (*response_models.AccountLoginResponse, error)
	Logout(ctx context.Context, session *utils.Session) error
	ResolveSession(ctx context.Context, token string) (*utils.Session, error)
	GetSession(ctx context.Context, session *utils.Session) (*response_models.SessionResponse, error)
	UpdateProfile(ctx context.Context, session *utils.Session, request request_models.UpdateProfileRequest) (*response_models.AccountResponse, error)
}

type AccountService struct {
	accountRepo repositories.AccountRepository
	tokens      *utils.TokenIssuer
	revoked     mem.RevokedTokenStore
	logger      logging.Logger
}

func NewAccountService(
	accountRepo repositories.AccountRepository,
	tokens *utils.TokenIssuer,
	revoked mem.RevokedTokenStore,
	logger logging.Logger,
) AccountServiceInterface {
	return &AccountService{
		accountRepo: accountRepo,
		tokens:      tokens,
		revoked:     revoked,
		logger:      logger,
	}
}

func (a *AccountService) Register(ctx context.Context, request request_models.SignUpRequest) (*response_models.AccountResponse, error) {
	email := strings.ToLower(strings.TrimSpace(request.Email))
	if !utils.IsValidEmail(email) {
		return nil, utils.NewValidationError("email", "email is not valid")
	}

	existing, err := a.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, utils.NewPersistenceError("find account", err)
	}
	if existing != nil {
		return nil, utils.ErrEmailAlreadyExists
	}

	hashed, err := utils.HashPassword(request.Password)
	if err != nil {
		return nil, err
	}

	account := &db_models.Account{
		Name:         strings.TrimSpace(request.Name),
		Email:        email,
		PasswordHash: hashed,
	}
	if err := a.accountRepo.Insert(ctx, account); err != nil {
		return nil, utils.NewPersistenceError("create account", err)
	}

	a.logger.WithFields(logging.Fields{
		"account_id": account.ID,
		"email":      logging.RedactEmail(email),
	}).Info("account registered")
	resp := toAccountResponse(account)
	return &resp, nil
}

func (a *AccountService) Login(ctx context.Context, request request_models.LoginRequest) (*response_models.AccountLoginResponse, error) {
	startTime := time.Now()

	account, err := a.accountRepo.FindByEmail(ctx, strings.TrimSpace(request.Email))
	if err != nil {
		return nil, utils.NewPersistenceError("find account", err)
	}
	if account == nil {
		return nil, utils.ErrInvalidCredentials
	}
	if err := utils.ComparePasswords(account.PasswordHash, request.Password); err != nil {
		return nil, utils.ErrInvalidCredentials
	}

	role := utils.RoleUser
	if account.IsAdmin {
		role = utils.RoleAdmin
	}
	token, claims, err := a.tokens.CreateToken(account.ID, role)
	if err != nil {
		return nil, err
	}

	a.logger.WithFields(logging.Fields{
		"account_id": account.ID,
		"elapsed_ms": time.Since(startTime).Milliseconds(),
	}).Info("login succeeded")

	return &response_models.AccountLoginResponse{
		Token:     token,
		ExpiresAt: utils.FormatRFC3339UTC(claims.ExpiresAt.Time),
	}, nil
}

// Logout revokes the session's token until it would have expired.
func (a *AccountService) Logout(ctx context.Context, session *utils.Session) error {
	if session == nil {
		return utils.ErrUnauthorized
	}
	if session.TokenID == "" {
		return nil
	}
	ttl := time.Until(session.ExpiresAt)
	if err := a.revoked.Revoke(ctx, session.TokenID, ttl); err != nil {
		return err
	}
	a.logger.WithField("account_id", session.UserID).Info("logged out")
	return nil
}

// ResolveSession validates a bearer token and loads the caller's profile.
// The admin flag always comes from the stored profile, never the token.
func (a *AccountService) ResolveSession(ctx context.Context, token string) (*utils.Session, error) {
	claims, err := a.tokens.ValidateToken(token)
	if err != nil {
		return nil, utils.ErrUnauthorized
	}

	if claims.ID != "" {
		revoked, err := a.revoked.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, err
		}
		if revoked {
			return nil, utils.ErrUnauthorized
		}
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, utils.ErrUnauthorized
	}
	account, err := a.accountRepo.FindById(ctx, userID)
	if err != nil {
		return nil, utils.NewPersistenceError("load profile", err)
	}
	if account == nil {
		return nil, utils.ErrUnauthorized
	}

	session := &utils.Session{
		UserID:  account.ID,
		Email:   account.Email,
		Name:    account.Name,
		IsAdmin: account.IsAdmin,
		TokenID: claims.ID,
	}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}
	return session, nil
}

func (a *AccountService) GetSession(ctx context.Context, session *utils.Session) (*response_models.SessionResponse, error) {
	if session == nil {
		return nil, utils.ErrUnauthorized
	}
	return &response_models.SessionResponse{
		User: response_models.AccountResponse{
			ID:      session.UserID.String(),
			Name:    session.Name,
			Email:   session.Email,
			IsAdmin: session.IsAdmin,
		},
		IsAdmin:   session.IsAdmin,
		ExpiresAt: utils.FormatRFC3339UTC(session.ExpiresAt),
	}, nil
}

func (a *AccountService) UpdateProfile(ctx context.Context, session *utils.Session, request request_models.UpdateProfileRequest) (*response_models.AccountResponse, error) {
	if session == nil {
		return nil, utils.ErrUnauthorized
	}
	name := strings.TrimSpace(request.Name)
	if utils.RuneLen(name) < 2 {
		return nil, utils.NewValidationError("name", "name must be at least 2 characters")
	}
	if err := a.accountRepo.UpdateName(ctx, session.UserID, name); err != nil {
		return nil, utils.NewPersistenceError("update profile", err)
	}
	return &response_models.AccountResponse{
		ID:      session.UserID.String(),
		Name:    name,
		Email:   session.Email,
		IsAdmin: session.IsAdmin,
	}, nil
}

func toAccountResponse(a *db_models.Account) response_models.AccountResponse {
	return response_models.AccountResponse{
		ID:      a.ID.String(),
		Name:    a.Name,
		Email:   a.Email,
		IsAdmin: a.IsAdmin,
	}
}
