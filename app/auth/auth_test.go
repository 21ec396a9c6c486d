package auth_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"flowmind/core-api/app"
	"flowmind/core-api/config"
	"flowmind/core-api/internal"
	"flowmind/core-api/internal/model"
	"flowmind/core-api/internal/service"
	"flowmind/core-api/pkg/security"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestApp(t *testing.T) (*gin.Engine, *internal.Deps) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(model.User{}, model.Workflow{}))

	cfg := &config.Config{
		LogLevel:       "error",
		Env:            "test",
		CORSOrigins:    []string{"http://localhost:5173"},
		JWTSecret:      "test-secret",
		TokenTTL:       time.Hour,
		CodeLength:     6,
		CodeTTL:        15 * time.Minute,
		ResendCooldown: time.Minute,
	}

	d := &internal.Deps{
		DB:           db,
		Config:       cfg,
		Argon:        security.New(),
		Tokens:       security.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL),
		Verification: service.NewVerification(db, cfg),
		Mailer:       service.NewMailer(cfg),
	}

	return app.NewEngine(d), d
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))

	return out
}

func pendingCode(t *testing.T, db *gorm.DB, email string) string {
	t.Helper()

	var user model.User
	require.NoError(t, db.Where("email = ?", email).First(&user).Error)
	require.NotNil(t, user.VerificationCode)

	return *user.VerificationCode
}

func TestRegisterVerifyLoginFlow(t *testing.T) {
	router, d := newTestApp(t)

	w := doJSON(t, router, http.MethodPost, "/api/auth/register", gin.H{
		"fullName": "Ada",
		"email":    "a@x.com",
		"password": "secret-password",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	body := decode(t, w)
	created := body["user"].(map[string]any)
	assert.Equal(t, false, created["isEmailVerified"])
	accountID := uint(created["id"].(float64))

	var stored model.User
	require.NoError(t, d.DB.First(&stored, accountID).Error)
	require.NotNil(t, stored.VerificationCode)
	require.NotNil(t, stored.VerificationExpiresAt)
	assert.Len(t, *stored.VerificationCode, 6)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), *stored.VerificationExpiresAt, 5*time.Second)

	// Wrong code leaves the account unverified
	w = doJSON(t, router, http.MethodPost, "/api/auth/verify-email", gin.H{
		"email": "a@x.com",
		"code":  "000000x",
	}, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "code_mismatch", decode(t, w)["code"])

	w = doJSON(t, router, http.MethodPost, "/api/auth/verify-email", gin.H{
		"email": "a@x.com",
		"code":  *stored.VerificationCode,
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, true, decode(t, w)["user"].(map[string]any)["isEmailVerified"])

	// Double submission is detectable
	w = doJSON(t, router, http.MethodPost, "/api/auth/verify-email", gin.H{
		"email": "a@x.com",
		"code":  *stored.VerificationCode,
	}, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "already_verified", decode(t, w)["code"])

	w = doJSON(t, router, http.MethodPost, "/api/auth/login", gin.H{
		"email":    "a@x.com",
		"password": "secret-password",
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body = decode(t, w)
	token := body["token"].(string)
	require.NotEmpty(t, token)
	assert.NotNil(t, body["user"].(map[string]any)["lastLogin"])

	w = doJSON(t, router, http.MethodGet, "/api/auth/me", nil, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	principal := decode(t, w)["user"].(map[string]any)
	assert.Equal(t, float64(accountID), principal["id"])
}

func TestRegisterDuplicateEmail(t *testing.T) {
	router, d := newTestApp(t)

	payload := gin.H{"email": "a@x.com", "password": "secret-password"}

	w := doJSON(t, router, http.MethodPost, "/api/auth/register", payload, "")
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/auth/register", payload, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "duplicate_email", decode(t, w)["code"])

	var count int64
	require.NoError(t, d.DB.Model(&model.User{}).Where("email = ?", "a@x.com").Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestRegisterRejectsInvalidInput(t *testing.T) {
	router, _ := newTestApp(t)

	w := doJSON(t, router, http.MethodPost, "/api/auth/register", gin.H{
		"email":    "not-an-email",
		"password": "secret-password",
	}, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_email", decode(t, w)["code"])

	w = doJSON(t, router, http.MethodPost, "/api/auth/register", gin.H{
		"email":    "a@x.com",
		"password": "short",
	}, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_password", decode(t, w)["code"])
}

func TestLoginBeforeVerification(t *testing.T) {
	router, _ := newTestApp(t)

	w := doJSON(t, router, http.MethodPost, "/api/auth/register", gin.H{
		"email":    "a@x.com",
		"password": "secret-password",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/auth/login", gin.H{
		"email":    "a@x.com",
		"password": "secret-password",
	}, "")
	require.Equal(t, http.StatusForbidden, w.Code)

	body := decode(t, w)
	assert.Equal(t, "email_not_verified", body["code"])
	assert.NotContains(t, body, "token")
}

func TestLoginInvalidCredentials(t *testing.T) {
	router, d := newTestApp(t)

	w := doJSON(t, router, http.MethodPost, "/api/auth/register", gin.H{
		"email":    "a@x.com",
		"password": "secret-password",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)

	code := pendingCode(t, d.DB, "a@x.com")
	w = doJSON(t, router, http.MethodPost, "/api/auth/verify-email", gin.H{"email": "a@x.com", "code": code}, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/auth/login", gin.H{
		"email":    "a@x.com",
		"password": "wrong-password",
	}, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid_credentials", decode(t, w)["code"])

	// Unknown email looks exactly the same
	w = doJSON(t, router, http.MethodPost, "/api/auth/login", gin.H{
		"email":    "nobody@x.com",
		"password": "secret-password",
	}, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid_credentials", decode(t, w)["code"])
}

func TestLoginDisabledAccount(t *testing.T) {
	router, d := newTestApp(t)

	w := doJSON(t, router, http.MethodPost, "/api/auth/register", gin.H{
		"email":    "a@x.com",
		"password": "secret-password",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)

	code := pendingCode(t, d.DB, "a@x.com")
	w = doJSON(t, router, http.MethodPost, "/api/auth/verify-email", gin.H{"email": "a@x.com", "code": code}, "")
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, d.DB.Model(&model.User{}).
		Where("email = ?", "a@x.com").
		Update("is_active", false).Error)

	w = doJSON(t, router, http.MethodPost, "/api/auth/login", gin.H{
		"email":    "a@x.com",
		"password": "secret-password",
	}, "")
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "account_disabled", decode(t, w)["code"])
}

func TestVerifyExpiredCode(t *testing.T) {
	router, d := newTestApp(t)

	w := doJSON(t, router, http.MethodPost, "/api/auth/register", gin.H{
		"email":    "a@x.com",
		"password": "secret-password",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)

	code := pendingCode(t, d.DB, "a@x.com")

	require.NoError(t, d.DB.Model(&model.User{}).
		Where("email = ?", "a@x.com").
		Update("verification_expires_at", time.Now().Add(-time.Minute)).Error)

	w = doJSON(t, router, http.MethodPost, "/api/auth/verify-email", gin.H{"email": "a@x.com", "code": code}, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "code_expired", decode(t, w)["code"])
}

func TestResendCode(t *testing.T) {
	router, d := newTestApp(t)

	w := doJSON(t, router, http.MethodPost, "/api/auth/register", gin.H{
		"email":    "a@x.com",
		"password": "secret-password",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)

	// Right after registration the cooldown is still running
	w = doJSON(t, router, http.MethodPost, "/api/auth/resend-code", gin.H{"email": "a@x.com"}, "")
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "resend_cooldown", decode(t, w)["code"])

	// Backdate the issue time so the cooldown has elapsed
	require.NoError(t, d.DB.Model(&model.User{}).
		Where("email = ?", "a@x.com").
		Update("verification_issued_at", time.Now().Add(-2*time.Minute)).Error)

	w = doJSON(t, router, http.MethodPost, "/api/auth/resend-code", gin.H{"email": "a@x.com"}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// The reissued code redeems and restarts the window
	code := pendingCode(t, d.DB, "a@x.com")
	w = doJSON(t, router, http.MethodPost, "/api/auth/verify-email", gin.H{"email": "a@x.com", "code": code}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Resend after verification is rejected
	w = doJSON(t, router, http.MethodPost, "/api/auth/resend-code", gin.H{"email": "a@x.com"}, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "already_verified", decode(t, w)["code"])
}

func TestAuthenticatorRejections(t *testing.T) {
	router, d := newTestApp(t)

	w := doJSON(t, router, http.MethodGet, "/api/auth/me", nil, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "missing_authorization", decode(t, w)["code"])

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Basic abc")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "missing_authorization", decode(t, rec)["code"])

	w = doJSON(t, router, http.MethodGet, "/api/auth/me", nil, "not-a-jwt")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid_token", decode(t, w)["code"])

	// Token for an account that no longer exists
	token, err := d.Tokens.Issue(9999)
	require.NoError(t, err)

	w = doJSON(t, router, http.MethodGet, "/api/auth/me", nil, token)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "user_not_found", decode(t, w)["code"])
}
