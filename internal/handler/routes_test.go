package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-nav-api/internal/models"
	"github.com/noah-isme/campus-nav-api/internal/repository"
	"github.com/noah-isme/campus-nav-api/internal/service"
	"github.com/noah-isme/campus-nav-api/pkg/geo"
)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Status  int    `json:"status"`
		Details []struct {
			Field string `json:"field"`
			Rule  string `json:"rule"`
		} `json:"details"`
	} `json:"error"`
	Meta map[string]interface{} `json:"meta"`
}

type testAPI struct {
	router   *gin.Engine
	store    *repository.MemoryStore
	auth     *service.AuthService
	student  *models.User
	admin    *models.User
	academic *models.Building
	library  *models.Building
	room     *models.Classroom
}

func newTestAPI(t *testing.T, cfg RouteConfig) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()
	store := repository.NewMemoryStore()

	academic, err := store.CreateBuilding(ctx, models.Building{Name: "Main Academic Building", Latitude: "12.806763", Longitude: "74.932512"})
	require.NoError(t, err)
	library, err := store.CreateBuilding(ctx, models.Building{Name: "Central Library", Latitude: "12.806626", Longitude: "74.932975"})
	require.NoError(t, err)
	room, err := store.CreateClassroom(ctx, models.Classroom{BuildingID: academic.ID, RoomNumber: "101"})
	require.NoError(t, err)

	hash, err := service.HashPassword("secret1")
	require.NoError(t, err)
	name := "Rahul Kumar"
	student, err := store.CreateUser(ctx, models.User{Username: "student1", PasswordHash: hash, DisplayName: &name, Role: models.RoleStudent})
	require.NoError(t, err)
	admin, err := store.CreateUser(ctx, models.User{Username: "admin", PasswordHash: hash, Role: models.RoleAdmin})
	require.NoError(t, err)

	estimator := geo.Estimator{SpeedMetersPerMinute: geo.DefaultWalkingSpeed}
	metrics := service.NewMetricsService()
	auth := service.NewAuthService(store, nil, nil, service.AuthConfig{AccessTokenSecret: "test-secret", AccessTokenExpiry: time.Hour, Issuer: "campus-nav-api"})
	courses := service.NewCourseService(store, nil, nil)
	svcs := Services{
		Auth:       auth,
		Buildings:  service.NewBuildingService(store, nil, nil, estimator, 500),
		Courses:    courses,
		Exports:    service.NewScheduleExportService(courses, store, nil, nil, nil),
		Events:     service.NewEventService(store, nil, nil),
		Favorites:  service.NewFavoriteService(store, nil, nil),
		Locations:  service.NewLocationService(store, nil, nil, metrics, service.LocationConfig{}),
		Navigation: service.NewNavigationService(store, estimator),
		Metrics:    metrics,
	}

	r := gin.New()
	RegisterRoutes(r, svcs, cfg)
	return &testAPI{router: r, store: store, auth: auth, student: student, admin: admin, academic: academic, library: library, room: room}
}

func (a *testAPI) do(t *testing.T, method, path, body string, headers ...string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") && rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func (a *testAPI) token(t *testing.T, username string) string {
	t.Helper()
	resp, err := a.auth.Login(context.Background(), models.LoginRequest{Username: username, Password: "secret1"})
	require.NoError(t, err)
	return resp.AccessToken
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func id(v int64) string { return strconv.FormatInt(v, 10) }

func TestBuildingRoutes(t *testing.T) {
	api := newTestAPI(t, RouteConfig{})

	rec, env := api.do(t, http.MethodGet, "/api/buildings", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.Building](t, env.Data), 2)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	rec, _ = api.do(t, http.MethodGet, "/api/buildings/999", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, env = api.do(t, http.MethodGet, "/api/buildings/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "id", env.Error.Details[0].Field)

	rec, env = api.do(t, http.MethodPost, "/api/buildings", `{"name":"Hostel","latitude":"12.8","longitude":"74.9","type":"residence"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[models.Building](t, env.Data)
	assert.Equal(t, int64(3), created.ID)

	rec, env = api.do(t, http.MethodPost, "/api/buildings", `{"name":"Nowhere","latitude":"north"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.NotEmpty(t, env.Error.Details)

	rec, env = api.do(t, http.MethodGet, "/api/buildings/"+id(api.academic.ID)+"/classrooms", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.Classroom](t, env.Data), 1)

	rec, env = api.do(t, http.MethodGet, "/api/buildings/nearby?lat=12.806626&lon=74.932975&radius=20", "")
	require.Equal(t, http.StatusOK, rec.Code)
	nearby := decode[[]models.NearbyBuilding](t, env.Data)
	require.Len(t, nearby, 1)
	assert.Equal(t, api.library.ID, nearby[0].ID)
	assert.Equal(t, float64(1), env.Meta["count"])

	rec, _ = api.do(t, http.MethodGet, "/api/buildings/nearby?lat=12.8", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCatalogWritesCanRequireAdmin(t *testing.T) {
	api := newTestAPI(t, RouteConfig{ProtectCatalogWrites: true})
	body := `{"buildingId":` + id(api.academic.ID) + `,"roomNumber":"102"}`

	rec, _ := api.do(t, http.MethodPost, "/api/classrooms", body)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = api.do(t, http.MethodPost, "/api/classrooms", body, "Authorization", "Bearer "+api.token(t, "student1"))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = api.do(t, http.MethodPost, "/api/classrooms", body, "Authorization", "Bearer "+api.token(t, "admin"))
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec, _ = api.do(t, http.MethodGet, "/api/classrooms/"+id(api.room.ID), "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLocationWritesCanRequireOwner(t *testing.T) {
	api := newTestAPI(t, RouteConfig{ProtectLocationWrites: true})
	path := "/api/users/" + id(api.student.ID) + "/location"
	body := `{"latitude":"12.8","longitude":"74.9"}`

	rec, _ := api.do(t, http.MethodPost, path, body)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = api.do(t, http.MethodPost, "/api/users/"+id(api.admin.ID)+"/location", body, "Authorization", "Bearer "+api.token(t, "student1"))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = api.do(t, http.MethodPost, path, body, "Authorization", "Bearer "+api.token(t, "student1"))
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec, _ = api.do(t, http.MethodPatch, path+"/sharing", `{"isSharing":false}`, "Authorization", "Bearer "+api.token(t, "admin"))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = api.do(t, http.MethodPut, path, body)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = api.do(t, http.MethodGet, path, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestEventCreatorComesFromToken(t *testing.T) {
	api := newTestAPI(t, RouteConfig{})
	base := `"title":"Hackathon","buildingId":` + id(api.academic.ID) + `,"date":"2025-03-01","startTime":"09:00"`

	rec, env := api.do(t, http.MethodPost, "/api/events", `{`+base+`}`, "Authorization", "Bearer "+api.token(t, "student1"))
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, api.student.ID, decode[models.Event](t, env.Data).CreatedBy)

	rec, _ = api.do(t, http.MethodPost, "/api/events", `{`+base+`,"createdBy":`+id(api.admin.ID)+`}`, "Authorization", "Bearer "+api.token(t, "student1"))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, env = api.do(t, http.MethodPost, "/api/events", `{`+base+`,"createdBy":`+id(api.student.ID)+`}`, "Authorization", "Bearer "+api.token(t, "admin"))
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, api.student.ID, decode[models.Event](t, env.Data).CreatedBy)

	rec, env = api.do(t, http.MethodPost, "/api/events", `{`+base+`}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)

	rec, env = api.do(t, http.MethodPost, "/api/events", `{`+base+`,"createdBy":`+id(api.admin.ID)+`}`, "Authorization", "Bearer not-a-token")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, api.admin.ID, decode[models.Event](t, env.Data).CreatedBy)
}

func TestEventPatchRejectsOversizedBody(t *testing.T) {
	api := newTestAPI(t, RouteConfig{})
	body := `{"title":"Tech Fest","buildingId":` + id(api.academic.ID) + `,"date":"2025-02-14","startTime":"10:00","createdBy":` + id(api.admin.ID) + `}`
	rec, env := api.do(t, http.MethodPost, "/api/events", body)
	require.Equal(t, http.StatusCreated, rec.Code)
	path := "/api/events/" + id(decode[models.Event](t, env.Data).ID)

	huge := `{"description":"` + strings.Repeat("a", 2<<20) + `"}`
	rec, env = api.do(t, http.MethodPatch, path, huge)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "PAYLOAD_TOO_LARGE", env.Error.Code)

	rec, _ = api.do(t, http.MethodGet, path, "")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestCourseAndScheduleRoutes(t *testing.T) {
	api := newTestAPI(t, RouteConfig{})
	body := `{"name":"Data Structures","courseCode":"cs201","classroomId":` + id(api.room.ID) + `,"startTime":"11:00","endTime":"12:00","daysOfWeek":"Mon,Wed"}`

	rec, env := api.do(t, http.MethodPost, "/api/courses", body)
	require.Equal(t, http.StatusCreated, rec.Code)
	course := decode[models.Course](t, env.Data)
	assert.Equal(t, "CS201", course.CourseCode)

	rec, env = api.do(t, http.MethodGet, "/api/users/"+id(api.student.ID)+"/courses?day=Wed", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.Course](t, env.Data), 1)

	rec, env = api.do(t, http.MethodGet, "/api/users/"+id(api.student.ID)+"/courses?day=Tue", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.Course](t, env.Data), 0)

	rec, env = api.do(t, http.MethodGet, "/api/users/"+id(api.student.ID)+"/schedule", "")
	require.Equal(t, http.StatusOK, rec.Code)
	schedule := decode[[]models.ScheduleEntry](t, env.Data)
	require.Len(t, schedule, 1)
	assert.Equal(t, "Main Academic Building", schedule[0].Building.Name)

	rec, _ = api.do(t, http.MethodGet, "/api/users/"+id(api.student.ID)+"/schedule/export?format=csv", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "schedule-"+id(api.student.ID)+".csv")
	assert.Contains(t, rec.Body.String(), "CS201")

	rec, _ = api.do(t, http.MethodGet, "/api/users/"+id(api.student.ID)+"/schedule/export?format=doc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEventRoutes(t *testing.T) {
	api := newTestAPI(t, RouteConfig{})
	body := `{"title":"Tech Fest","buildingId":` + id(api.academic.ID) + `,"date":"2025-02-14","startTime":"10:00","createdBy":` + id(api.admin.ID) + `}`

	rec, env := api.do(t, http.MethodPost, "/api/events", body)
	require.Equal(t, http.StatusCreated, rec.Code)
	event := decode[models.Event](t, env.Data)
	path := "/api/events/" + id(event.ID)

	rec, env = api.do(t, http.MethodGet, "/api/events?date=2025-02-14", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.Event](t, env.Data), 1)

	rec, env = api.do(t, http.MethodGet, "/api/events?date=2025-2-14", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.Event](t, env.Data), 0)

	rec, env = api.do(t, http.MethodPatch, path, `{"isPinned":true,"title":"Tech Fest 2025"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	patched := decode[models.Event](t, env.Data)
	assert.True(t, patched.IsPinned)
	assert.Equal(t, "Tech Fest 2025", patched.Title)
	assert.Equal(t, "10:00", patched.StartTime)

	rec, env = api.do(t, http.MethodPatch, path, `{"createdBy":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)

	rec, _ = api.do(t, http.MethodPatch, "/api/events/999", `{"title":"x"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, env = api.do(t, http.MethodGet, "/api/users/"+id(api.admin.ID)+"/events", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.Event](t, env.Data), 1)

	rec, _ = api.do(t, http.MethodDelete, path, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec, _ = api.do(t, http.MethodDelete, path, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFavoriteRoutes(t *testing.T) {
	api := newTestAPI(t, RouteConfig{})
	body := `{"userId":` + id(api.student.ID) + `,"type":"classroom","classroomId":` + id(api.room.ID) + `}`

	rec, env := api.do(t, http.MethodPost, "/api/favorites", body)
	require.Equal(t, http.StatusCreated, rec.Code)
	fav := decode[models.Favorite](t, env.Data)

	rec, _ = api.do(t, http.MethodPost, "/api/favorites", body)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, env = api.do(t, http.MethodGet, "/api/users/"+id(api.student.ID)+"/favorites", "")
	require.Equal(t, http.StatusOK, rec.Code)
	listed := decode[[]models.FavoriteWithBuilding](t, env.Data)
	require.Len(t, listed, 1)
	require.NotNil(t, listed[0].Building)
	assert.Equal(t, api.academic.ID, listed[0].Building.ID)

	rec, _ = api.do(t, http.MethodDelete, "/api/favorites/"+id(fav.ID), "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec, _ = api.do(t, http.MethodDelete, "/api/favorites/"+id(fav.ID), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLocationRoutes(t *testing.T) {
	api := newTestAPI(t, RouteConfig{})
	path := "/api/users/" + id(api.student.ID) + "/location"

	rec, _ := api.do(t, http.MethodGet, path, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = api.do(t, http.MethodPatch, path+"/sharing", `{"isSharing":false}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, env := api.do(t, http.MethodPost, path, `{"longitude":"74.9"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "latitude", env.Error.Details[0].Field)

	rec, _ = api.do(t, http.MethodPost, path, `{"latitude":"12.8","longitude":"74.9","accuracy":8.5}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, env = api.do(t, http.MethodPut, path, `{"isSharing":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	loc := decode[models.StudentLocation](t, env.Data)
	assert.Equal(t, "0", loc.Latitude)
	assert.Nil(t, loc.Accuracy)

	rec, env = api.do(t, http.MethodGet, "/api/student-locations", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.SharedLocation](t, env.Data), 1)
	assert.NotContains(t, string(env.Data), "password")

	rec, _ = api.do(t, http.MethodPatch, path+"/sharing", `{"isSharing":"yes"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec, _ = api.do(t, http.MethodPatch, path+"/sharing", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env = api.do(t, http.MethodPatch, path+"/sharing", `{"isSharing":false}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.SharingResponse{Success: true, IsSharing: false}, decode[models.SharingResponse](t, env.Data))

	rec, env = api.do(t, http.MethodGet, "/api/student-locations", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", string(env.Data))

	rec, _ = api.do(t, http.MethodPost, "/api/users/999/location", `{"latitude":"12.8","longitude":"74.9"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNavigationRoute(t *testing.T) {
	api := newTestAPI(t, RouteConfig{})

	rec, env := api.do(t, http.MethodGet, "/api/navigation/distance?from="+id(api.academic.ID)+"&to="+id(api.library.ID), "")
	require.Equal(t, http.StatusOK, rec.Code)
	result := decode[models.DistanceResult](t, env.Data)
	assert.Equal(t, "Central Library", result.To.Name)
	assert.Equal(t, 1, result.WalkingMinutes)

	rec, env = api.do(t, http.MethodGet, "/api/navigation/distance?fromLat=0&fromLon=0&toLat=1&toLon=0", "")
	require.Equal(t, http.StatusOK, rec.Code)
	result = decode[models.DistanceResult](t, env.Data)
	assert.Equal(t, "111.2km", result.Distance)

	rec, _ = api.do(t, http.MethodGet, "/api/navigation/distance?from="+id(api.academic.ID), "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = api.do(t, http.MethodGet, "/api/navigation/distance?from=999&to=1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAuthRoutes(t *testing.T) {
	api := newTestAPI(t, RouteConfig{})

	rec, env := api.do(t, http.MethodPost, "/api/auth/register", `{"username":"newbie","password":"hunter22","displayName":"Anita Desai"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	registered := decode[models.AuthResponse](t, env.Data)
	assert.Equal(t, "AD", *registered.User.AvatarInitials)
	assert.NotContains(t, string(env.Data), "hunter22")

	rec, _ = api.do(t, http.MethodPost, "/api/auth/register", `{"username":"newbie","password":"hunter22"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, _ = api.do(t, http.MethodPost, "/api/auth/login", `{"username":"newbie","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, env = api.do(t, http.MethodPost, "/api/auth/login", `{"username":"newbie","password":"hunter22"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	login := decode[models.AuthResponse](t, env.Data)

	rec, env = api.do(t, http.MethodGet, "/api/auth/me", "", "Authorization", "Bearer "+login.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "newbie", decode[models.Profile](t, env.Data).Username)

	rec, _ = api.do(t, http.MethodGet, "/api/auth/me", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProbeRoutes(t *testing.T) {
	api := newTestAPI(t, RouteConfig{ReadinessChecks: map[string]ReadinessCheck{
		"store": func(context.Context) error { return nil },
	}})

	rec, _ := api.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	rec, _ = api.do(t, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	api.do(t, http.MethodGet, "/api/buildings", "")
	rec, _ = api.do(t, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	failing := newTestAPI(t, RouteConfig{ReadinessChecks: map[string]ReadinessCheck{
		"redis": func(context.Context) error { return errors.New("connection refused") },
	}})
	rec, _ = failing.do(t, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "connection refused")
}
