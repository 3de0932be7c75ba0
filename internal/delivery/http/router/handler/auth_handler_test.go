package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"campusconnect/config"
	"campusconnect/internal/delivery/http/validator"
	domainerrors "campusconnect/internal/domain/errors"
	"campusconnect/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuthUsecase struct {
	loginOutput   *usecase.LoginOutput
	loginErr      error
	refreshOutput *usecase.RefreshOutput
	refreshErr    error
	logoutCalls   int
}

func (s *stubAuthUsecase) Signup(_ context.Context, _ usecase.SignupInput) (*usecase.SignupOutput, error) {
	return &usecase.SignupOutput{}, nil
}

func (s *stubAuthUsecase) Login(_ context.Context, _ usecase.LoginInput) (*usecase.LoginOutput, error) {
	return s.loginOutput, s.loginErr
}

func (s *stubAuthUsecase) Refresh(_ context.Context, _ string) (*usecase.RefreshOutput, error) {
	return s.refreshOutput, s.refreshErr
}

func (s *stubAuthUsecase) Logout(_ context.Context, _ string) error {
	s.logoutCalls++

	return nil
}

func (s *stubAuthUsecase) DeleteAccount(_ context.Context, _ uuid.UUID) error {
	return nil
}

func testAuthConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Auth = &config.AuthConfig{CookieName: "refreshToken"}

	return cfg
}

func newAuthFixture(uc *stubAuthUsecase) *AuthHandler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewAuthHandler(uc, testAuthConfig(), logger)
}

func doRequest(h echo.HandlerFunc, req *http.Request) (*httptest.ResponseRecorder, error) {
	e := echo.New()
	e.Validator = validator.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	return rec, h(c)
}

func findCookie(t *testing.T, rec *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()

	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}

	t.Fatalf("cookie %q not set", name)

	return nil
}

func TestLogin_SetsRefreshCookie(t *testing.T) {
	uc := &stubAuthUsecase{loginOutput: &usecase.LoginOutput{
		AccessToken:  "access-jwt",
		RefreshToken: "refresh-jwt",
	}}
	h := newAuthFixture(uc)

	body := `{"email":"ananya.sharma2022@rishihood.edu.in","password":"secret123"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	rec, err := doRequest(h.Login, req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Message     string `json:"message"`
		AccessToken string `json:"accessToken"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Login successful", resp.Message)
	assert.Equal(t, "access-jwt", resp.AccessToken)

	cookie := findCookie(t, rec, "refreshToken")
	assert.Equal(t, "refresh-jwt", cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, "/", cookie.Path)
	assert.Positive(t, cookie.MaxAge)

	// The refresh token must never appear in the response body.
	assert.NotContains(t, rec.Body.String(), "refresh-jwt")
}

func TestLogin_FailureSetsNoCookie(t *testing.T) {
	uc := &stubAuthUsecase{loginErr: domainerrors.ErrInvalidCredentials}
	h := newAuthFixture(uc)

	body := `{"email":"ananya.sharma2022@rishihood.edu.in","password":"wrong"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	rec, err := doRequest(h.Login, req)
	require.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
	assert.Empty(t, rec.Result().Cookies())
}

func TestRefresh_ReturnsNewAccessToken(t *testing.T) {
	uc := &stubAuthUsecase{refreshOutput: &usecase.RefreshOutput{AccessToken: "fresh-jwt"}}
	h := newAuthFixture(uc)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: "refreshToken", Value: "refresh-jwt"})

	rec, err := doRequest(h.Refresh, req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		AccessToken string `json:"accessToken"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "fresh-jwt", resp.AccessToken)
}

func TestRefresh_MissingCookie(t *testing.T) {
	h := newAuthFixture(&stubAuthUsecase{})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", nil)

	_, err := doRequest(h.Refresh, req)
	require.ErrorIs(t, err, domainerrors.ErrNoToken)
}

func TestRefresh_RejectedTokenClearsCookie(t *testing.T) {
	uc := &stubAuthUsecase{refreshErr: domainerrors.ErrRefreshNotRecognized}
	h := newAuthFixture(uc)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: "refreshToken", Value: "revoked-jwt"})

	rec, err := doRequest(h.Refresh, req)
	require.ErrorIs(t, err, domainerrors.ErrRefreshNotRecognized)

	cookie := findCookie(t, rec, "refreshToken")
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)
}

func TestLogout_AlwaysClearsCookie(t *testing.T) {
	uc := &stubAuthUsecase{}
	h := newAuthFixture(uc)

	t.Run("with cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
		req.AddCookie(&http.Cookie{Name: "refreshToken", Value: "refresh-jwt"})

		rec, err := doRequest(h.Logout, req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 1, uc.logoutCalls)

		cookie := findCookie(t, rec, "refreshToken")
		assert.Negative(t, cookie.MaxAge)
	})

	t.Run("without cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)

		rec, err := doRequest(h.Logout, req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 1, uc.logoutCalls)

		cookie := findCookie(t, rec, "refreshToken")
		assert.Negative(t, cookie.MaxAge)
	})
}
