package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yukikurage/team-task-board/internal/constants"
	"github.com/yukikurage/team-task-board/internal/database"
	"github.com/yukikurage/team-task-board/internal/events"
	"github.com/yukikurage/team-task-board/internal/models"
	"github.com/yukikurage/team-task-board/internal/ordering"
	"github.com/yukikurage/team-task-board/internal/repository"
	"github.com/yukikurage/team-task-board/internal/services"
)

type testEnv struct {
	db          *gorm.DB
	router      *gin.Engine
	authService *services.AuthService
	taskService *services.TaskService
	dept        *models.Department
}

func setupTestEnv(t *testing.T, bus events.Bus) *testEnv {
	t.Helper()
	return setupTestEnvWith(t, bus, nil)
}

// setupTestEnvWith lets a test wrap the task repository and pass ordering options
func setupTestEnvWith(
	t *testing.T,
	bus events.Bus,
	wrap func(*repository.GormTaskRepository) repository.TaskRepository,
	opts ...ordering.Option,
) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, database.Migrate(db))
	database.SetDB(db)

	dept := &models.Department{Name: "TI"}
	require.NoError(t, db.Create(dept).Error)

	if bus == nil {
		bus = events.Nop{}
	}

	userRepo := repository.NewUserRepository(db)
	deptRepo := repository.NewDepartmentRepository(db)
	var taskRepo repository.TaskRepository = repository.NewTaskRepository(db)
	if wrap != nil {
		taskRepo = wrap(repository.NewTaskRepository(db))
	}

	authService := services.NewAuthService(userRepo, deptRepo, func(email string) bool {
		return email == "admin@team.com"
	})
	taskService := services.NewTaskService(taskRepo, deptRepo, userRepo, bus, opts...)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	store := cookie.NewStore([]byte("secret"))
	r.Use(sessions.Sessions(constants.SessionCookieName, store))
	RegisterRoutes(r, authService, taskService, deptRepo, bus)

	return &testEnv{
		db:          db,
		router:      r,
		authService: authService,
		taskService: taskService,
		dept:        dept,
	}
}

// login signs a user up through the service and returns its session cookies
func (e *testEnv) login(t *testing.T, email string, departmentID *string) (*models.User, []*http.Cookie) {
	t.Helper()

	user, err := e.authService.Signup(context.Background(), services.SignupInput{
		Email:        email,
		Password:     "supersecret",
		DepartmentID: departmentID,
	})
	require.NoError(t, err)

	w := e.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    email,
		"password": "supersecret",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies, "expected session cookie to be set")
	return user, cookies
}

func (e *testEnv) do(t *testing.T, method, url string, body interface{}, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		req = httptest.NewRequest(method, url, bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}
