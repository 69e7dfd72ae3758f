package api

import (
	"context"
	"net/http"
)

// AuthClient talks to the conversation store's /api/auth endpoints.
// None of these operations require an established session; the ones that
// succeed return the bearer token the session will hold.
type AuthClient struct {
	*Client
}

// NewAuthClient creates an auth client for the given base URL.
func NewAuthClient(baseURL string) *AuthClient {
	return &AuthClient{Client: NewClient(baseURL, nil)}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type verifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

// authResponse is the success envelope: a token where the flow issues one,
// otherwise just a confirmation message.
type authResponse struct {
	Token string `json:"token"`
	Msg   string `json:"msg"`
}

// Login exchanges credentials for a bearer token.
func (a *AuthClient) Login(ctx context.Context, email, password string) (string, error) {
	var resp authResponse
	if err := a.doJSON(ctx, http.MethodPost, "/api/auth/login", loginRequest{Email: email, Password: password}, &resp, false); err != nil {
		return "", err
	}
	return resp.Token, nil
}

// Register creates an account; the account stays unverified until the OTP
// sent to the email is confirmed.
func (a *AuthClient) Register(ctx context.Context, email, password string) (string, error) {
	var resp authResponse
	if err := a.doJSON(ctx, http.MethodPost, "/api/auth/register", registerRequest{Email: email, Password: password}, &resp, false); err != nil {
		return "", err
	}
	return resp.Msg, nil
}

// VerifyAccountOTP confirms the one-time passcode and returns the session
// token for the now-verified account.
func (a *AuthClient) VerifyAccountOTP(ctx context.Context, email, otp string) (string, error) {
	var resp authResponse
	if err := a.doJSON(ctx, http.MethodPost, "/api/auth/verify-account-otp", verifyOTPRequest{Email: email, OTP: otp}, &resp, false); err != nil {
		return "", err
	}
	return resp.Token, nil
}

// ForgotPassword asks the backend to email a reset link.
func (a *AuthClient) ForgotPassword(ctx context.Context, email string) (string, error) {
	var resp authResponse
	if err := a.doJSON(ctx, http.MethodPost, "/api/auth/forgot-password", forgotPasswordRequest{Email: email}, &resp, false); err != nil {
		return "", err
	}
	return resp.Msg, nil
}

// ResetPassword completes the reset flow using the token from the emailed
// link.
func (a *AuthClient) ResetPassword(ctx context.Context, token, newPassword string) (string, error) {
	var resp authResponse
	if err := a.doJSON(ctx, http.MethodPost, "/api/auth/reset-password", resetPasswordRequest{Token: token, NewPassword: newPassword}, &resp, false); err != nil {
		return "", err
	}
	return resp.Msg, nil
}
