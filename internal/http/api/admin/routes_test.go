package admin

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bookmytix/admin-core/internal/chat"
	"github.com/bookmytix/admin-core/internal/config"
	"github.com/bookmytix/admin-core/internal/db"
	"github.com/bookmytix/admin-core/internal/models"
	"github.com/bookmytix/admin-core/internal/preferences"
	"github.com/bookmytix/admin-core/internal/pricing"
	"github.com/bookmytix/admin-core/internal/security"
	"github.com/bookmytix/admin-core/internal/settings"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

type testServer struct {
	engine    *gin.Engine
	db        *gorm.DB
	chat      *chat.Store
	changed   []string
	rootToken string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:adminroutes_%d?mode=memory&cache=shared", time.Now().UnixNano())
	conn, errOpen := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, errOpen)
	require.NoError(t, db.Migrate(conn))
	t.Cleanup(func() { settings.StoreDBConfig(time.Time{}, nil) })

	chatStore := chat.NewStore(chat.DefaultConversations(), chat.Options{
		ReplyDelay: 10 * time.Millisecond,
		Responder:  chat.NewResponderWithPicker(func(int) int { return 0 }),
	})
	t.Cleanup(chatStore.Close)

	srv := &testServer{engine: gin.New(), db: conn, chat: chatStore}
	RegisterRoutes(srv.engine, Dependencies{
		DB:              conn,
		JWT:             config.JWTConfig{Secret: testSecret, Expiry: time.Hour},
		Pricing:         pricing.NewStore(pricing.NewMemoryRepository()),
		Chat:            chatStore,
		Locales:         preferences.NewLocaleService(preferences.NewSettingStore(conn)),
		OnSettingChange: func(key string) { srv.changed = append(srv.changed, key) },
	})

	root := createAdmin(t, conn, "root", "s3cret", true, nil)
	srv.rootToken = tokenFor(t, root)
	return srv
}

func createAdmin(t *testing.T, conn *gorm.DB, username, password string, super bool, perms []string) models.Admin {
	t.Helper()
	hash, errHash := security.HashPassword(password)
	require.NoError(t, errHash)
	raw, errMarshal := json.Marshal(perms)
	require.NoError(t, errMarshal)
	admin := models.Admin{
		Username:     username,
		Password:     hash,
		Active:       true,
		IsSuperAdmin: super,
		Permissions:  datatypes.JSON(raw),
	}
	require.NoError(t, conn.Create(&admin).Error)
	return admin
}

func tokenFor(t *testing.T, admin models.Admin) string {
	t.Helper()
	token, errToken := security.GenerateAdminToken(testSecret, admin.ID, admin.Username, time.Hour)
	require.NoError(t, errToken)
	return token
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, errMarshal := json.Marshal(body)
		require.NoError(t, errMarshal)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestLogin(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/v0/admin/login", "", gin.H{"username": "root", "password": "s3cret"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.NotEmpty(t, body["token"])
	admin := body["admin"].(map[string]any)
	assert.Equal(t, "root", admin["username"])
	assert.Equal(t, true, admin["is_super_admin"])

	rec = srv.do(t, http.MethodPost, "/v0/admin/login", "", gin.H{"username": "root", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = srv.do(t, http.MethodPost, "/v0/admin/login", "", gin.H{"username": "", "password": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginDisabledAdmin(t *testing.T) {
	srv := newTestServer(t)
	admin := createAdmin(t, srv.db, "ops", "pw", false, nil)
	require.NoError(t, srv.db.Model(&models.Admin{}).Where("id = ?", admin.ID).Update("active", false).Error)

	rec := srv.do(t, http.MethodPost, "/v0/admin/login", "", gin.H{"username": "ops", "password": "pw"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestLoginRequiresTOTPWhenEnrolled(t *testing.T) {
	srv := newTestServer(t)
	secret, _, errSecret := security.GenerateTOTPSecret("mfa")
	require.NoError(t, errSecret)
	admin := createAdmin(t, srv.db, "mfa", "pw", false, nil)
	require.NoError(t, srv.db.Model(&models.Admin{}).Where("id = ?", admin.ID).Update("totp_secret", secret).Error)

	rec := srv.do(t, http.MethodPost, "/v0/admin/login", "", gin.H{"username": "mfa", "password": "pw"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = srv.do(t, http.MethodPost, "/v0/admin/login", "", gin.H{"username": "mfa", "password": "pw", "totp_code": "123"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	code, errCode := totp.GenerateCode(secret, time.Now())
	require.NoError(t, errCode)
	rec = srv.do(t, http.MethodPost, "/v0/admin/login", "", gin.H{"username": "mfa", "password": "pw", "totp_code": code})
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestPublicRoutes(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/v0/admin/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, http.MethodGet, "/v0/admin/config", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, settings.DefaultSiteName, body["site_name"])
	assert.Equal(t, "id", body["default_locale"])
}

func TestAuthRequired(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/v0/admin/pricing-rules", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = srv.do(t, http.MethodGet, "/v0/admin/pricing-rules", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = srv.do(t, http.MethodGet, "/v0/admin/pricing-rules?token="+srv.rootToken, "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPermissionChecks(t *testing.T) {
	srv := newTestServer(t)
	viewer := createAdmin(t, srv.db, "viewer", "pw", false, []string{"GET /v0/admin/pricing-rules"})
	token := tokenFor(t, viewer)

	rec := srv.do(t, http.MethodGet, "/v0/admin/pricing-rules", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, http.MethodPost, "/v0/admin/pricing-rules", token, gin.H{"name": "x"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = srv.do(t, http.MethodGet, "/v0/admin/permissions", srv.rootToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, decode(t, rec)["permissions"])
}

func TestPricingRuleLifecycle(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/v0/admin/pricing-rules", srv.rootToken, gin.H{
		"name":         "Garuda Premium Markup",
		"airline":      "Garuda Indonesia",
		"markup_type":  "percentage",
		"markup_value": 5,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode(t, rec)
	id := created["id"].(string)
	assert.Equal(t, "PERCENTAGE", created["markup_type"])
	assert.Equal(t, true, created["is_active"])
	assert.EqualValues(t, 5, created["markup_value"])

	rec = srv.do(t, http.MethodPost, "/v0/admin/pricing/quote", srv.rootToken, gin.H{
		"airline": "Garuda Indonesia", "origin": "CGK", "destination": "DPS", "price": 1500000,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	quote := decode(t, rec)
	assert.EqualValues(t, 75000, quote["markup_amount"])
	assert.EqualValues(t, 1575000, quote["final_price"])
	assert.Equal(t, id, quote["applied_rule"].(map[string]any)["id"])

	rec = srv.do(t, http.MethodPost, "/v0/admin/pricing/quote", srv.rootToken, gin.H{
		"flights": []gin.H{
			{"airline": "Garuda Indonesia", "price": 1000000},
			{"airline": "Lion Air", "price": 800000},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	flights := decode(t, rec)["flights"].([]any)
	require.Len(t, flights, 2)
	assert.EqualValues(t, 1050000, flights[0].(map[string]any)["final_price"])
	assert.Nil(t, flights[1].(map[string]any)["applied_rule"])

	rec = srv.do(t, http.MethodPut, "/v0/admin/pricing-rules/"+id, srv.rootToken, gin.H{"markup_type": "FIXED", "markup_value": 50000})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "FIXED", decode(t, rec)["markup_type"])

	rec = srv.do(t, http.MethodPost, "/v0/admin/pricing-rules/"+id+"/toggle", srv.rootToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, decode(t, rec)["is_active"])

	rec = srv.do(t, http.MethodPost, "/v0/admin/pricing/applicable-rule", srv.rootToken, gin.H{"airline": "Garuda Indonesia", "price": 1})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, decode(t, rec)["rule"])

	rec = srv.do(t, http.MethodGet, "/v0/admin/pricing-rules?is_active=false", srv.rootToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["pricing_rules"].([]any), 1)

	rec = srv.do(t, http.MethodGet, "/v0/admin/pricing-rules/stats", srv.rootToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, decode(t, rec)["total_rules"])

	rec = srv.do(t, http.MethodDelete, "/v0/admin/pricing-rules/"+id, srv.rootToken, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = srv.do(t, http.MethodDelete, "/v0/admin/pricing-rules/"+id, srv.rootToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = srv.do(t, http.MethodGet, "/v0/admin/pricing-rules/"+id, srv.rootToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = srv.do(t, http.MethodPut, "/v0/admin/pricing-rules/"+id, srv.rootToken, gin.H{"name": "x"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPricingRuleValidation(t *testing.T) {
	srv := newTestServer(t)

	cases := []gin.H{
		{"markup_type": "FIXED", "markup_value": 1},
		{"name": "x", "markup_value": 1},
		{"name": "x", "markup_type": "BOGUS", "markup_value": 1},
		{"name": "x", "markup_type": "FIXED"},
	}
	for _, body := range cases {
		rec := srv.do(t, http.MethodPost, "/v0/admin/pricing-rules", srv.rootToken, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}

	rec := srv.do(t, http.MethodPost, "/v0/admin/pricing/quote", srv.rootToken, gin.H{"price": -1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChatRoutes(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/v0/admin/chat/conversations?status=bogus", srv.rootToken, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.do(t, http.MethodGet, "/v0/admin/chat/conversations?status=all", srv.rootToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["conversations"].([]any), 3)

	rec = srv.do(t, http.MethodPut, "/v0/admin/chat/active", srv.rootToken, gin.H{"conversation_id": "conv-1"})
	require.Equal(t, http.StatusOK, rec.Code)
	conv := decode(t, rec)["conversation"].(map[string]any)
	assert.EqualValues(t, 0, conv["unread_count"])

	rec = srv.do(t, http.MethodPost, "/v0/admin/chat/conversations/conv-2/messages", srv.rootToken, gin.H{
		"content": "I want a refund", "sender": "customer", "auto_reply": true,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, true, decode(t, rec)["reply_scheduled"])
	require.Eventually(t, func() bool { return !srv.chat.IsTypingIn("conv-2") }, time.Second, 5*time.Millisecond)

	rec = srv.do(t, http.MethodPost, "/v0/admin/chat/conversations/conv-2/messages", srv.rootToken, gin.H{"content": "hi", "sender": "bot"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.do(t, http.MethodPost, "/v0/admin/chat/conversations/conv-3/ai-response", srv.rootToken, nil)
	assert.Equal(t, http.StatusAccepted, rec.Code)

	rec = srv.do(t, http.MethodPost, "/v0/admin/chat/conversations/conv-2/resolve", srv.rootToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "resolved", decode(t, rec)["conversation"].(map[string]any)["status"])

	rec = srv.do(t, http.MethodGet, "/v0/admin/chat/unread", srv.rootToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, decode(t, rec), "is_typing")

	rec = srv.do(t, http.MethodDelete, "/v0/admin/chat/conversations/conv-1", srv.rootToken, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = srv.do(t, http.MethodGet, "/v0/admin/chat/conversations/conv-1", srv.rootToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = srv.do(t, http.MethodGet, "/v0/admin/chat/active", srv.rootToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, decode(t, rec)["conversation"])

	rec = srv.do(t, http.MethodGet, "/v0/admin/chat/ws", srv.rootToken, nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestLocalePreference(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/v0/admin/preferences/locale", srv.rootToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "id", decode(t, rec)["locale"])

	rec = srv.do(t, http.MethodPut, "/v0/admin/preferences/locale", srv.rootToken, gin.H{"locale": "fr"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.do(t, http.MethodPut, "/v0/admin/preferences/locale", srv.rootToken, gin.H{"locale": "en"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "en", decode(t, rec)["locale"])
}

func TestSettingsRoutes(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPut, "/v0/admin/settings/NOPE", srv.rootToken, gin.H{"value": "x"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = srv.do(t, http.MethodPut, "/v0/admin/settings/DEFAULT_LOCALE", srv.rootToken, gin.H{"value": "de"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.do(t, http.MethodPut, "/v0/admin/settings/CHAT_REPLY_DELAY_MS", srv.rootToken, gin.H{"value": 0})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.do(t, http.MethodPut, "/v0/admin/settings/DEFAULT_LOCALE", srv.rootToken, gin.H{"value": "en"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, []string{"DEFAULT_LOCALE"}, srv.changed)

	rec = srv.do(t, http.MethodGet, "/v0/admin/config", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "en", decode(t, rec)["default_locale"])

	rec = srv.do(t, http.MethodGet, "/v0/admin/settings", srv.rootToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["settings"].([]any), 1)
}
