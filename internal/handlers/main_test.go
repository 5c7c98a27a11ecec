package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/smartsprint-dev/smartsprint/db"
	"github.com/smartsprint-dev/smartsprint/internal/auth"
	"github.com/smartsprint-dev/smartsprint/internal/models"
	"github.com/smartsprint-dev/smartsprint/internal/router"
	"github.com/smartsprint-dev/smartsprint/internal/types"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testPassword = "pass1234"

type testEnv struct {
	router *gin.Engine

	admin  models.User
	pm     models.User
	dev    models.User
	tester models.User
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	gin.SetMode(gin.TestMode)
	auth.Init("test-secret")

	gdb, err := gorm.Open(sqlite.Open("file::memory:?_pragma=foreign_keys(1)"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	// A second connection to :memory: would see an empty database.
	sqlDB.SetMaxOpenConns(1)

	db.DB = gdb
	require.NoError(t, db.MigrateDatabase())

	env := &testEnv{router: router.NewRouter()}

	env.admin = seedUser(t, "Admin One", "admin@example.com", types.RoleAdmin, types.TeamNone, types.LevelNone)
	env.pm = seedUser(t, "Manager One", "pm@example.com", types.RoleProjectManager, types.TeamBackend, types.LevelLead)
	env.dev = seedUser(t, "Dev One", "dev@example.com", types.RoleDeveloper, types.TeamBackend, types.LevelDev)
	env.tester = seedUser(t, "Tester One", "tester@example.com", types.RoleTester, types.TeamSecurity, types.LevelJunior)

	return env
}

func seedUser(t *testing.T, name, email string, role types.Role, team types.Team, level types.Level) models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         string(role),
		Team:         string(team),
		Level:        string(level),
	}

	require.NoError(t, db.DB.Create(&user).Error)
	return user
}

func (env *testEnv) request(t *testing.T, method, path string, body any, as *models.User) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if as != nil {
		token, err := auth.GenerateJWT(*as)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(w.Body).Decode(out))
}

func (env *testEnv) createProject(t *testing.T, name string) models.Project {
	t.Helper()

	w := env.request(t, http.MethodPost, "/api/projects", gin.H{"name": name}, &env.admin)
	require.Equal(t, http.StatusCreated, w.Code)

	var project models.Project
	decodeBody(t, w, &project)
	return project
}

func (env *testEnv) createTask(t *testing.T, projectID uint, title string, assignedTo *uint) models.Task {
	t.Helper()

	body := gin.H{"project_id": projectID, "title": title}
	if assignedTo != nil {
		body["assigned_to"] = *assignedTo
	}

	w := env.request(t, http.MethodPost, "/api/tasks", body, &env.admin)
	require.Equal(t, http.StatusCreated, w.Code)

	var task models.Task
	decodeBody(t, w, &task)
	return task
}
