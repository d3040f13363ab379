package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"journal_backend/internal/app/di"
	authhandler "journal_backend/internal/feature/auth/transport/handler"
	"journal_backend/internal/feature/auth/transport/http/dto"
	authusecase "journal_backend/internal/feature/auth/usecase"
	greetinghandler "journal_backend/internal/feature/greeting/transport/handler"
	greetingusecase "journal_backend/internal/feature/greeting/usecase"
	"journal_backend/internal/feature/journal/adapters"
	"journal_backend/internal/feature/journal/domain/entity"
	journalhandler "journal_backend/internal/feature/journal/transport/handler"
	"journal_backend/internal/feature/journal/usecase"
	"journal_backend/internal/platform/credential"
	"journal_backend/internal/platform/http/handler"
	jwtmw "journal_backend/internal/platform/jwt"
)

const testSecret = "router-test-secret-0123"

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	if err := dto.RegisterValidators(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// newApp wires the full stack on sqlite, seeding the administrator alice.
func newApp(t *testing.T) *gin.Engine {
	t.Helper()
	t.Setenv(jwtmw.EnvKeyJWTSecret, testSecret)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, adapters.Migrate(db))

	hasher := credential.NewBcryptHasher(4)
	j := di.NewJournal(adapters.NewGormUnitOfWork(db), hasher, usecase.DefaultRetryPolicy)
	_, err = j.Roles.GrantRole(context.Background(), "alice", entity.RoleAdmin, entity.PrincipalSeed{Password: "alice-password"})
	require.NoError(t, err)

	authUC := authusecase.NewAuthUsecase(j.UnitOfWork.Stores().Principals(), hasher, jwtmw.NewGenerator(testSecret, time.Hour))
	return NewRouter(Handlers{
		Health:   handler.NewHealthHandler(nil),
		Auth:     authhandler.NewAuthHandler(authUC),
		Journal:  journalhandler.NewJournalHandler(j.Usecase),
		Greeting: greetinghandler.NewGreetingHandler(greetingusecase.NewGreetingUsecase(nil, "")),
	}, j.Usecase)
}

func call(r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, r http.Handler, username, password string) string {
	t.Helper()
	w := call(r, http.MethodPost, "/login", "", gin.H{"username": username, "password": password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var res dto.TokenRes
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	return res.Token
}

func TestRouter_PublicRoutes(t *testing.T) {
	r := newApp(t)

	assert.Equal(t, http.StatusOK, call(r, http.MethodGet, "/healthz", "", nil).Code)
	assert.Equal(t, http.StatusOK, call(r, http.MethodGet, "/readyz", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, call(r, http.MethodGet, "/journal", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, call(r, http.MethodGet, "/admin/users", "", nil).Code)
}

func TestRouter_SignupLoginAndJournal(t *testing.T) {
	r := newApp(t)

	w := call(r, http.MethodPost, "/signup", "", gin.H{"username": "ram", "password": "ram-password"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, http.StatusConflict, call(r, http.MethodPost, "/signup", "", gin.H{"username": "ram", "password": "ram-password"}).Code)
	assert.Equal(t, http.StatusUnauthorized, call(r, http.MethodPost, "/login", "", gin.H{"username": "ram", "password": "wrong-password"}).Code)

	token := login(t, r, "ram", "ram-password")

	w = call(r, http.MethodPost, "/journal", token, gin.H{"title": "Morning", "content": "Gym"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = call(r, http.MethodGet, "/journal", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"title":"Morning"`)

	w = call(r, http.MethodGet, "/user", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Hi ram", w.Body.String())

	// plain users cannot reach admin routes
	assert.Equal(t, http.StatusForbidden, call(r, http.MethodGet, "/admin/users", token, nil).Code)
}

func TestRouter_AdminRoutes(t *testing.T) {
	r := newApp(t)
	admin := login(t, r, "alice", "alice-password")

	w := call(r, http.MethodPost, "/admin/roles", admin, gin.H{"username": "bob", "role": "admin", "password": "bob-password"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = call(r, http.MethodGet, "/admin/users", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var users []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &users))
	require.Len(t, users, 2)
	assert.Equal(t, "alice", users[0]["username"])
	assert.Equal(t, "bob", users[1]["username"])

	w = call(r, http.MethodGet, "/admin/integrity", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"healthy":true`)

	bob := login(t, r, "bob", "bob-password")
	require.Equal(t, http.StatusOK, call(r, http.MethodGet, "/admin/users", bob, nil).Code)

	assert.Equal(t, http.StatusNoContent, call(r, http.MethodDelete, "/admin/users/bob", admin, nil).Code)
	assert.Equal(t, http.StatusNotFound, call(r, http.MethodDelete, "/admin/users/bob", admin, nil).Code)

	// a deleted principal's token no longer opens admin routes
	assert.Equal(t, http.StatusUnauthorized, call(r, http.MethodGet, "/admin/users", bob, nil).Code)
}
