package users

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"auto-shipping/internal/models"
	"auto-shipping/pkg/utils"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	service ServiceInterface
}

// NewHandler creates a new user handler.
func NewHandler(service ServiceInterface) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Signup(c echo.Context) error {
	var req models.SignupRequest
	if err := c.Bind(&req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := utils.GetValidator().Validate(req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Validation failed: "+err.Error())
	}

	createdUser, err := h.service.Signup(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			return utils.RespondWithError(c, http.StatusConflict, "Email address is already in use")
		}
		c.Logger().Error("Handler.Signup: ", err)
		return utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create account")
	}

	return utils.RespondWithJSON(c, http.StatusCreated, createdUser)
}

func (h *Handler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := utils.GetValidator().Validate(req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Validation failed: "+err.Error())
	}

	authResponse, err := h.service.Login(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, models.ErrInvalidCredentials) {
			return utils.RespondWithError(c, http.StatusUnauthorized, "Invalid email or password")
		}
		c.Logger().Error("Handler.Login: ", err)
		return utils.RespondWithError(c, http.StatusInternalServerError, "Failed to log in")
	}

	return utils.RespondWithJSON(c, http.StatusOK, authResponse)
}

// GoogleLogin redirects the user to Google's consent screen, stashing the
// OAuth state parameter in a short-lived cookie.
func (h *Handler) GoogleLogin(c echo.Context) error {
	authURL, state, err := h.service.HandleGoogleLogin()
	if err != nil {
		c.Logger().Error("Handler.GoogleLogin: failed to generate auth URL: ", err)
		return utils.RespondWithError(c, http.StatusInternalServerError, "Could not initiate Google login")
	}

	cookie := new(http.Cookie)
	cookie.Name = "oauthstate"
	cookie.Value = state
	cookie.Expires = time.Now().Add(10 * time.Minute)
	cookie.Path = "/"
	cookie.HttpOnly = true
	cookie.Secure = true
	cookie.SameSite = http.SameSiteLaxMode
	c.SetCookie(cookie)

	return c.Redirect(http.StatusTemporaryRedirect, authURL)
}

// GoogleCallback handles the redirect back from Google. It checks the state
// parameter against the cookie set in GoogleLogin before exchanging the code.
func (h *Handler) GoogleCallback(c echo.Context) error {
	oauthStateCookie, err := c.Cookie("oauthstate")
	if err != nil {
		c.Logger().Error("Handler.GoogleCallback: could not read state cookie: ", err)
		return utils.RespondWithError(c, http.StatusUnauthorized, "Invalid or missing state cookie")
	}

	if c.QueryParam("state") != oauthStateCookie.Value {
		c.Logger().Error("Handler.GoogleCallback: state parameter mismatch")
		return utils.RespondWithError(c, http.StatusUnauthorized, "Invalid state parameter")
	}

	// One-shot cookie; expire it immediately after use.
	oauthStateCookie.Value = ""
	oauthStateCookie.Expires = time.Unix(0, 0)
	c.SetCookie(oauthStateCookie)

	code := c.QueryParam("code")
	if code == "" {
		return utils.RespondWithError(c, http.StatusBadRequest, "Authorization code not provided")
	}

	authResponse, err := h.service.HandleGoogleCallback(c.Request().Context(), code)
	if err != nil {
		c.Logger().Error("Handler.GoogleCallback: service error: ", err)
		return c.Redirect(http.StatusTemporaryRedirect, fmt.Sprintf("%s/login/error", h.service.GetClientOrigin()))
	}

	// Hand the token to the frontend, which parses it off the URL.
	redirectURL := fmt.Sprintf("%s/login/success?token=%s", h.service.GetClientOrigin(), authResponse.AccessToken)
	return c.Redirect(http.StatusTemporaryRedirect, redirectURL)
}

func (h *Handler) ActivateAccount(c echo.Context) error {
	var req models.ActivationRequest
	if err := c.Bind(&req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid request: missing token")
	}
	if err := utils.GetValidator().Validate(req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	}

	// Activation immediately logs the user in.
	authResponse, err := h.service.ActivateUserAndLogin(c.Request().Context(), req.Token)
	if err != nil {
		if errors.Is(err, models.ErrInvalidToken) {
			return utils.RespondWithError(c, http.StatusBadRequest, "Invalid or expired activation token")
		}
		c.Logger().Error("Handler.ActivateAccount: ", err)
		return utils.RespondWithError(c, http.StatusInternalServerError, "Failed to activate account")
	}

	return utils.RespondWithJSON(c, http.StatusOK, authResponse)
}

// ResendActivation handles requests to resend an activation email.
func (h *Handler) ResendActivation(c echo.Context) error {
	var req models.ResendActivationRequest
	if err := c.Bind(&req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
	}
	if err := utils.GetValidator().Validate(req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Validation failed: "+err.Error())
	}

	if err := h.service.ResendActivationEmail(c.Request().Context(), req.Email); err != nil {
		// Log but never surface the error; responses must not leak
		// which emails are registered.
		c.Logger().Error("Handler.ResendActivation encountered a service error: ", err)
	}

	return utils.RespondWithJSON(c, http.StatusOK, map[string]string{
		"message": "If an account with that email address exists and is not yet activated, a new activation link has been sent.",
	})
}

// RequestPasswordReset is step one of the password reset flow: the user
// asks for a reset link by email.
func (h *Handler) RequestPasswordReset(c echo.Context) error {
	var req models.RequestPasswordResetRequest
	if err := c.Bind(&req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
	}
	if err := utils.GetValidator().Validate(req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Validation failed: "+err.Error())
	}

	if err := h.service.RequestPasswordReset(c.Request().Context(), req.Email); err != nil {
		c.Logger().Error("Handler.RequestPasswordReset encountered a service error: ", err)
	}

	// Generic response regardless of whether the account exists.
	return utils.RespondWithJSON(c, http.StatusOK, map[string]string{
		"message": "If an account with that email address exists, a link to reset your password has been sent.",
	})
}

// ResetPassword is step two: the user submits the token from the email
// together with a new password and is logged in on success.
func (h *Handler) ResetPassword(c echo.Context) error {
	var req models.ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
	}
	if err := utils.GetValidator().Validate(req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Validation failed: "+err.Error())
	}

	authResponse, err := h.service.ResetPassword(c.Request().Context(), req.Token, req.NewPassword)
	if err != nil {
		if errors.Is(err, models.ErrInvalidToken) {
			return utils.RespondWithError(c, http.StatusBadRequest, "Invalid or expired password reset token")
		}
		c.Logger().Error("Handler.ResetPassword: ", err)
		return utils.RespondWithError(c, http.StatusInternalServerError, "An internal error occurred while resetting the password")
	}

	return utils.RespondWithJSON(c, http.StatusOK, authResponse)
}

// --- User Profile Routes ---

func (h *Handler) GetProfile(c echo.Context) error {
	userID, _, err := utils.ExtractUserInfo(c)
	if err != nil {
		return utils.RespondWithError(c, http.StatusUnauthorized, err.Error())
	}

	user, err := h.service.GetUserProfile(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return utils.RespondWithError(c, http.StatusNotFound, "User profile not found")
		}
		c.Logger().Error("Handler.GetProfile: ", err)
		return utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve profile")
	}
	return utils.RespondWithJSON(c, http.StatusOK, user)
}

func (h *Handler) UpdateProfile(c echo.Context) error {
	userID, _, err := utils.ExtractUserInfo(c)
	if err != nil {
		return utils.RespondWithError(c, http.StatusUnauthorized, err.Error())
	}

	var req models.UserUpdateData
	if err := c.Bind(&req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
	}
	if err := utils.GetValidator().Validate(req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Validation failed: "+err.Error())
	}

	user, err := h.service.UpdateUserProfile(c.Request().Context(), userID, req)
	if err != nil {
		if errors.Is(err, models.ErrNicknameTaken) {
			return utils.RespondWithError(c, http.StatusConflict, "Nickname is already taken")
		}
		if errors.Is(err, models.ErrNotFound) {
			return utils.RespondWithError(c, http.StatusNotFound, "User profile not found")
		}
		c.Logger().Error("Handler.UpdateProfile: ", err)
		return utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update profile")
	}
	return utils.RespondWithJSON(c, http.StatusOK, user)
}

// ListUsers returns a page of all registered accounts (admin only).
func (h *Handler) ListUsers(c echo.Context) error {
	page, limit := utils.GetPageLimit(c)

	users, total, err := h.service.ListUsers(c.Request().Context(), page, limit)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}

	return utils.RespondWithJSON(c, http.StatusOK, map[string]interface{}{
		"users": users,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// --- Saved Address Routes ---

// ListAddresses retrieves all saved pickup/delivery addresses for the
// authenticated user.
func (h *Handler) ListAddresses(c echo.Context) error {
	userID, _, err := utils.ExtractUserInfo(c)
	if err != nil {
		return utils.RespondWithError(c, http.StatusUnauthorized, err.Error())
	}

	addresses, err := h.service.ListAddresses(c.Request().Context(), userID)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}

	return utils.RespondWithJSON(c, http.StatusOK, addresses)
}

// AddAddress saves a new address for the authenticated user.
func (h *Handler) AddAddress(c echo.Context) error {
	userID, _, err := utils.ExtractUserInfo(c)
	if err != nil {
		return utils.RespondWithError(c, http.StatusUnauthorized, err.Error())
	}

	var req models.AddAddressRequest
	if err := c.Bind(&req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := utils.GetValidator().Validate(req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Validation failed: "+err.Error())
	}

	newAddress, err := h.service.AddAddress(c.Request().Context(), userID, req)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}

	return utils.RespondWithJSON(c, http.StatusCreated, newAddress)
}

// UpdateAddress modifies one of the authenticated user's saved addresses.
func (h *Handler) UpdateAddress(c echo.Context) error {
	userID, _, err := utils.ExtractUserInfo(c)
	if err != nil {
		return utils.RespondWithError(c, http.StatusUnauthorized, err.Error())
	}
	addressID := c.Param("addressId")

	var req models.UpdateAddressRequest
	if err := c.Bind(&req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
	}

	// Ownership is checked in the service layer.
	updatedAddress, err := h.service.UpdateAddress(c.Request().Context(), userID, addressID, req)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}

	return utils.RespondWithJSON(c, http.StatusOK, updatedAddress)
}

// DeleteAddress removes one of the authenticated user's saved addresses.
func (h *Handler) DeleteAddress(c echo.Context) error {
	userID, _, err := utils.ExtractUserInfo(c)
	if err != nil {
		return utils.RespondWithError(c, http.StatusUnauthorized, err.Error())
	}
	addressID := c.Param("addressId")

	if err := h.service.DeleteAddress(c.Request().Context(), userID, addressID); err != nil {
		return utils.HandleServiceError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
