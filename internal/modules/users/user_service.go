package users

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"auto-shipping/internal/models"
	emailSvc "auto-shipping/pkg/email"
	"auto-shipping/pkg/utils"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
)

const (
	activationTokenTTL    = 30 * time.Minute
	passwordResetTokenTTL = 15 * time.Minute
	accessTokenTTL        = 30 * 24 * time.Hour
)

// ServiceInterface defines methods for user business logic.
type ServiceInterface interface {
	GetClientOrigin() string

	Signup(ctx context.Context, req models.SignupRequest) (*models.User, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	ActivateUserAndLogin(ctx context.Context, token string) (*models.AuthResponse, error)
	ResendActivationEmail(ctx context.Context, email string) error
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token string, newPassword string) (*models.AuthResponse, error)
	HandleGoogleLogin() (string, string, error)
	HandleGoogleCallback(ctx context.Context, code string) (*models.AuthResponse, error)

	GetUserProfile(ctx context.Context, userID string) (*models.User, error)
	UpdateUserProfile(ctx context.Context, userID string, data models.UserUpdateData) (*models.User, error)
	ListUsers(ctx context.Context, page, limit int) ([]*models.User, int, error)

	ListAddresses(ctx context.Context, userID string) ([]models.Address, error)
	AddAddress(ctx context.Context, userID string, req models.AddAddressRequest) (*models.Address, error)
	UpdateAddress(ctx context.Context, userID, addressID string, req models.UpdateAddressRequest) (*models.Address, error)
	DeleteAddress(ctx context.Context, userID, addressID string) error
}

type Service struct {
	userRepo          RepositoryInterface
	emailer           emailSvc.ServiceInterface
	templateManager   *emailSvc.TemplateManager
	jwtSecret         string
	clientOrigin      string // Frontend origin, used to build activation and reset links
	googleOAuthConfig *oauth2.Config
}

func NewService(
	userRepo RepositoryInterface,
	emailer emailSvc.ServiceInterface,
	tm *emailSvc.TemplateManager,
	jwtSecret string,
	clientOrigin string,
	googleOAuthConfig *oauth2.Config,
) ServiceInterface {
	return &Service{
		userRepo:          userRepo,
		emailer:           emailer,
		templateManager:   tm,
		jwtSecret:         jwtSecret,
		clientOrigin:      clientOrigin,
		googleOAuthConfig: googleOAuthConfig,
	}
}

// googleUserInfo mirrors the payload of Google's userinfo endpoint.
type googleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// GetClientOrigin exposes the frontend URL so the handler can build redirects.
func (s *Service) GetClientOrigin() string {
	return s.clientOrigin
}

func (s *Service) Signup(ctx context.Context, req models.SignupRequest) (*models.User, error) {
	// 1. Reject if the email is already registered
	_, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("service.Signup.FindByEmail: %w", err)
	}
	if err == nil {
		return nil, models.ErrConflict
	}

	// 2. Hash the password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("service.Signup.HashPassword: %w", err)
	}

	// 3. Create activation token
	activationToken, err := utils.GenerateSecureToken(32)
	if err != nil {
		return nil, fmt.Errorf("service.Signup.GenerateToken: %w", err)
	}
	expiresAt := time.Now().Add(activationTokenTTL)

	// 4. Store the inactive user. New accounts default to the client role;
	//    drivers and brokers must pick it at signup, admins are seeded.
	role := req.Role
	if role == "" {
		role = models.RoleClient
	}
	newUser := &models.User{
		Nickname: req.Nickname,
		Email:    req.Email,
		Role:     role,
	}
	createdUser, err := s.userRepo.CreateInactiveUser(ctx, newUser, string(hashedPassword), activationToken, expiresAt)
	if err != nil {
		return nil, fmt.Errorf("service.Signup.CreateUser: %w", err)
	}

	// 5. Send the activation email without blocking the signup response
	activationURL := fmt.Sprintf("%s/activate?token=%s", s.clientOrigin, activationToken)

	htmlContent, err := s.templateManager.GenerateActivateAccountEmailHTML(emailSvc.TemplateData{
		Name: createdUser.Nickname,
		Link: activationURL,
	})
	if err != nil {
		// The account exists either way; the user can request a resend.
		log.Printf("Failed to generate activation email HTML: %v", err)
		return createdUser, nil
	}

	emailSubject := "Welcome! Please Activate Your Account"
	plainTextContent := fmt.Sprintf("Thanks for joining! Click the following link within 30 minutes to activate your account: %s", activationURL)

	go func() {
		if err := s.emailer.SendEmail(context.Background(), createdUser.Email, emailSubject, plainTextContent, htmlContent); err != nil {
			log.Printf("Failed to send activation email to %s: %v", createdUser.Email, err)
		}
	}()

	return createdUser, nil
}

// generateAuthResponse issues a signed JWT for the user and strips
// sensitive fields before returning.
func (s *Service) generateAuthResponse(user *models.User) (*models.AuthResponse, error) {
	claims := &models.JwtCustomClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(accessTokenTTL)),
		},
	}

	accessToken := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenSignedString, err := accessToken.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	user.PasswordHash = ""

	return &models.AuthResponse{
		AccessToken: tokenSignedString,
		User:        user,
	}, nil
}

func (s *Service) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	userWithHash, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("service.Login.FindByEmail: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(userWithHash.PasswordHash), []byte(req.Password)); err != nil {
		return nil, models.ErrInvalidCredentials
	}

	return s.generateAuthResponse(userWithHash)
}

func (s *Service) ActivateUserAndLogin(ctx context.Context, token string) (*models.AuthResponse, error) {
	activatedUser, err := s.userRepo.ActivateUser(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("service.ActivateUserAndLogin: %w", err)
	}
	return s.generateAuthResponse(activatedUser)
}

func (s *Service) ResendActivationEmail(ctx context.Context, email string) error {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		// Hide account existence from the caller.
		if errors.Is(err, models.ErrNotFound) {
			log.Printf("INFO: Activation resend requested for non-existent email: %s", email)
			return nil
		}
		return fmt.Errorf("service.ResendActivationEmail.FindByEmail: %w", err)
	}

	if user.IsActive {
		log.Printf("INFO: Activation resend requested for already active user: %s", email)
		return nil
	}

	activationToken, err := utils.GenerateSecureToken(32)
	if err != nil {
		return fmt.Errorf("service.ResendActivationEmail.GenerateToken: %w", err)
	}
	expiresAt := time.Now().Add(activationTokenTTL)

	if err := s.userRepo.UpdateActivationToken(ctx, user.ID, activationToken, expiresAt); err != nil {
		return fmt.Errorf("service.ResendActivationEmail.UpdateToken: %w", err)
	}

	activationURL := fmt.Sprintf("%s/activate?token=%s", s.clientOrigin, activationToken)

	htmlContent, err := s.templateManager.GenerateActivateAccountEmailHTML(emailSvc.TemplateData{
		Name: user.Nickname,
		Link: activationURL,
	})
	if err != nil {
		log.Printf("Failed to generate re-activation email HTML: %v", err)
		return nil
	}

	emailSubject := "Activate Your Account (New Link)"
	plainTextContent := fmt.Sprintf("Click the following link within 30 minutes to activate your account: %s", activationURL)

	go func() {
		if err := s.emailer.SendEmail(context.Background(), email, emailSubject, plainTextContent, htmlContent); err != nil {
			log.Printf("Failed to send re-activation email to %s: %v", email, err)
		}
	}()

	return nil
}

func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		// Return success regardless to prevent email enumeration.
		log.Printf("Password reset requested for non-existent email: %v", err)
		return nil
	}

	token, err := utils.GenerateSecureToken(32)
	if err != nil {
		return err
	}
	expiresAt := time.Now().Add(passwordResetTokenTTL)

	if err := s.userRepo.SetPasswordResetToken(ctx, user.ID, token, expiresAt); err != nil {
		return err
	}

	resetURL := fmt.Sprintf("%s/reset-password?token=%s", s.clientOrigin, token)

	htmlContent, err := s.templateManager.GenerateResetPasswordEmailHTML(emailSvc.TemplateData{
		Name: user.Nickname,
		Link: resetURL,
	})
	if err != nil {
		log.Printf("Failed to generate password reset email HTML: %v", err)
		return nil
	}

	emailSubject := "Reset Your Password"
	plainTextContent := fmt.Sprintf("Click the following link within 15 minutes to reset your password: %s", resetURL)

	go func() {
		if err := s.emailer.SendEmail(context.Background(), email, emailSubject, plainTextContent, htmlContent); err != nil {
			log.Printf("Failed to send password reset email to %s: %v", email, err)
		}
	}()

	return nil
}

func (s *Service) ResetPassword(ctx context.Context, token string, newPassword string) (*models.AuthResponse, error) {
	// The repository verifies both that the token matches and that it
	// has not expired.
	user, err := s.userRepo.FindByPasswordResetToken(ctx, token)
	if err != nil {
		return nil, models.ErrInvalidToken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.UpdatePasswordAndClearResetToken(ctx, user.ID, string(hashedPassword)); err != nil {
		return nil, err
	}

	// Log the user in right away.
	return s.generateAuthResponse(user)
}

// HandleGoogleLogin returns the Google consent URL and the state value
// the handler must stash in a cookie for CSRF protection.
func (s *Service) HandleGoogleLogin() (string, string, error) {
	state, err := utils.GenerateSecureToken(16)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate state for google login: %w", err)
	}
	url := s.googleOAuthConfig.AuthCodeURL(state)
	return url, state, nil
}

// HandleGoogleCallback completes the OAuth flow, creating the account on
// first login.
func (s *Service) HandleGoogleCallback(ctx context.Context, code string) (*models.AuthResponse, error) {
	token, err := s.googleOAuthConfig.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("google code exchange failed: %w", err)
	}

	response, err := http.Get("https://www.googleapis.com/oauth2/v2/userinfo?access_token=" + token.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed getting user info from google: %w", err)
	}
	defer response.Body.Close()

	contents, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("failed reading user info response body: %w", err)
	}

	var userInfo googleUserInfo
	if err := json.Unmarshal(contents, &userInfo); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user info: %w", err)
	}

	if !userInfo.VerifiedEmail {
		return nil, fmt.Errorf("google email not verified")
	}

	user, err := s.userRepo.FindByEmail(ctx, userInfo.Email)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("db error while finding user by email: %w", err)
	}

	if errors.Is(err, models.ErrNotFound) {
		// First OAuth login; accounts created this way are clients.
		newUser := &models.User{
			Nickname:       userInfo.Name,
			Email:          userInfo.Email,
			Role:           models.RoleClient,
			AvatarURL:      userInfo.Picture,
			AuthProvider:   "google",
			AuthProviderID: userInfo.ID,
			IsActive:       true,
		}
		user, err = s.userRepo.CreateOAuthUser(ctx, newUser)
		if err != nil {
			return nil, err
		}
	}

	return s.generateAuthResponse(user)
}

func (s *Service) GetUserProfile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service.GetUserProfile: %w", err)
	}
	return user, nil
}

func (s *Service) UpdateUserProfile(ctx context.Context, userID string, data models.UserUpdateData) (*models.User, error) {
	if data.Nickname != nil {
		existing, err := s.userRepo.FindByNickname(ctx, *data.Nickname)
		if err != nil && !errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("failed to check nickname uniqueness: %w", err)
		}
		if existing != nil && existing.ID != userID {
			return nil, models.ErrNicknameTaken
		}
	}

	updatedUser, err := s.userRepo.Update(ctx, userID, data)
	if err != nil {
		return nil, fmt.Errorf("service.UpdateUserProfile: %w", err)
	}
	return updatedUser, nil
}

// ListUsers returns a page of all accounts (admin only).
func (s *Service) ListUsers(ctx context.Context, page, limit int) ([]*models.User, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	users, total, err := s.userRepo.ListAll(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("service.ListUsers: %w", err)
	}
	return users, total, nil
}

func (s *Service) ListAddresses(ctx context.Context, userID string) ([]models.Address, error) {
	addresses, err := s.userRepo.ListAddresses(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service.ListAddresses: %w", err)
	}
	return addresses, nil
}

func (s *Service) AddAddress(ctx context.Context, userID string, req models.AddAddressRequest) (*models.Address, error) {
	// Setting a new default has to unset the old one atomically.
	if req.IsDefault {
		tx, err := s.userRepo.BeginTx(ctx)
		if err != nil {
			return nil, err
		}
		defer tx.Rollback(ctx)

		txRepo := s.userRepo.WithTx(tx)

		if err := txRepo.ClearDefaultAddress(ctx, userID); err != nil {
			return nil, fmt.Errorf("failed to clear old default address: %w", err)
		}

		newAddress, err := txRepo.AddAddress(ctx, userID, req)
		if err != nil {
			return nil, err
		}

		if err := tx.Commit(ctx); err != nil {
			return nil, err
		}
		return newAddress, nil
	}

	return s.userRepo.AddAddress(ctx, userID, req)
}

func (s *Service) UpdateAddress(ctx context.Context, userID, addressID string, req models.UpdateAddressRequest) (*models.Address, error) {
	if err := s.userRepo.VerifyAddressOwner(ctx, userID, addressID); err != nil {
		return nil, fmt.Errorf("permission denied or address not found: %w", err)
	}

	if req.IsDefault != nil && *req.IsDefault {
		tx, err := s.userRepo.BeginTx(ctx)
		if err != nil {
			return nil, err
		}
		defer tx.Rollback(ctx)

		txRepo := s.userRepo.WithTx(tx)
		if err := txRepo.ClearDefaultAddress(ctx, userID); err != nil {
			return nil, err
		}

		updatedAddress, err := txRepo.UpdateAddress(ctx, addressID, req)
		if err != nil {
			return nil, err
		}

		if err := tx.Commit(ctx); err != nil {
			return nil, err
		}
		return updatedAddress, nil
	}

	return s.userRepo.UpdateAddress(ctx, addressID, req)
}

func (s *Service) DeleteAddress(ctx context.Context, userID, addressID string) error {
	if err := s.userRepo.VerifyAddressOwner(ctx, userID, addressID); err != nil {
		return fmt.Errorf("permission denied or address not found: %w", err)
	}

	if err := s.userRepo.DeleteAddress(ctx, userID, addressID); err != nil {
		return fmt.Errorf("service.DeleteAddress: %w", err)
	}
	return nil
}
