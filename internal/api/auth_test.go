package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthClient_Login(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"), "login is not a protected call")

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ama@lmi-ghana.com", body["email"])
		assert.Equal(t, "secret-pass", body["password"])

		_, _ = w.Write([]byte(`{"token": "jwt-abc"}`))
	}))
	defer server.Close()

	client := NewAuthClient(server.URL)

	token, err := client.Login(context.Background(), "ama@lmi-ghana.com", "secret-pass")
	require.NoError(t, err)
	assert.Equal(t, "jwt-abc", token)
}

func TestAuthClient_LoginRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"msg": "Invalid email or password"}`))
	}))
	defer server.Close()

	client := NewAuthClient(server.URL)

	_, err := client.Login(context.Background(), "ama@lmi-ghana.com", "wrong")
	require.Error(t, err)
	assert.Equal(t, "Invalid email or password", err.Error())
}

func TestAuthClient_RegisterAndVerify(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/register":
			_, _ = w.Write([]byte(`{"msg": "OTP sent to your email"}`))
		case "/api/auth/verify-account-otp":
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "123456", body["otp"])
			_, _ = w.Write([]byte(`{"token": "jwt-new-account"}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	client := NewAuthClient(server.URL)

	msg, err := client.Register(context.Background(), "kofi@lmi-homes.com", "longenough")
	require.NoError(t, err)
	assert.Equal(t, "OTP sent to your email", msg)

	token, err := client.VerifyAccountOTP(context.Background(), "kofi@lmi-homes.com", "123456")
	require.NoError(t, err)
	assert.Equal(t, "jwt-new-account", token)
}

func TestAuthClient_PasswordResetFlow(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/forgot-password":
			_, _ = w.Write([]byte(`{"msg": "reset link sent"}`))
		case "/api/auth/reset-password":
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "reset-token-xyz", body["token"])
			assert.Equal(t, "newpassword", body["newPassword"])
			_, _ = w.Write([]byte(`{"msg": "password updated"}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	client := NewAuthClient(server.URL)

	msg, err := client.ForgotPassword(context.Background(), "ama@lmi-ghana.com")
	require.NoError(t, err)
	assert.Equal(t, "reset link sent", msg)

	msg, err = client.ResetPassword(context.Background(), "reset-token-xyz", "newpassword")
	require.NoError(t, err)
	assert.Equal(t, "password updated", msg)
}
