package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"safewalk-backend/internal/middleware"
	"safewalk-backend/internal/models"
	"safewalk-backend/internal/repository"
	"safewalk-backend/internal/services"

	"github.com/dgraph-io/badger/v4"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryUserStore struct {
	users map[string]*models.User
}

func newMemoryUserStore() *memoryUserStore {
	return &memoryUserStore{users: make(map[string]*models.User)}
}

func (s *memoryUserStore) Create(ctx context.Context, user *models.User) error {
	s.users[user.Email] = user
	return nil
}

func (s *memoryUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, ok := s.users[email]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

func (s *memoryUserStore) EmailExists(ctx context.Context, email string) (bool, error) {
	_, ok := s.users[email]
	return ok, nil
}

type stubPush struct {
	err error
}

func (p *stubPush) Send(ctx context.Context, deviceToken, message string) (*services.PushResult, error) {
	if p.err != nil {
		return nil, p.err
	}
	return &services.PushResult{ApnsID: "stub-id", StatusCode: 200}, nil
}

type stubSMS struct {
	err   error
	calls int
}

func (s *stubSMS) Send(ctx context.Context, phoneNumber, message string) error {
	s.calls++
	return s.err
}

type testAPI struct {
	router          *chi.Mux
	authService     *services.AuthService
	locationService *services.LocationService
	sms             *stubSMS
}

// newTestAPI wires the full route table the way the server does, with the
// external gateways stubbed out.
func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	directions := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"type":"FeatureCollection","features":[]}`))
	}))
	t.Cleanup(directions.Close)

	authService := services.NewAuthService(newMemoryUserStore(), "test-secret")
	locationService := services.NewLocationService(repository.NewLocationRepository(db), nil)
	routeService := services.NewRouteService(directions.URL, "test-key")
	sms := &stubSMS{}
	panicService := services.NewPanicService(sms, locationService)

	authHandler := NewAuthHandler(authService)
	locationHandler := NewLocationHandler(locationService)
	routeHandler := NewRouteHandler(routeService)
	notificationHandler := NewNotificationHandler(&stubPush{})
	panicHandler := NewPanicHandler(panicService)

	r := chi.NewRouter()
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
	})
	r.Post("/safe-route", routeHandler.CalculateRoute)
	r.Post("/send-notification", notificationHandler.Send)
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(authService))
		r.Post("/live-location/update-location", locationHandler.UpdateLocation)
		r.Get("/live-location", locationHandler.ListLocations)
		r.Post("/panic-button", panicHandler.Trigger)
	})

	return &testAPI{
		router:          r,
		authService:     authService,
		locationService: locationService,
		sms:             sms,
	}
}

func (api *testAPI) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)
	return rec
}

func (api *testAPI) registerAndLogin(t *testing.T, email string) string {
	t.Helper()

	rec := api.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"name": "Alice", "email": email, "password": "hunter22",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = api.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email": email, "password": "hunter22",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestRegisterAndLogin(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"name": "Alice", "email": "alice@example.com", "password": "hunter22",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var user models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	assert.Equal(t, "alice@example.com", user.Email)
	assert.NotContains(t, rec.Body.String(), "password", "hash must not leak")

	rec = api.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "alice@example.com", "password": "hunter22",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRegisterMissingFields(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"email": "alice@example.com",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	api := newTestAPI(t)

	body := map[string]string{"name": "Alice", "email": "alice@example.com", "password": "hunter22"}
	rec := api.do(t, http.MethodPost, "/auth/register", "", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = api.do(t, http.MethodPost, "/auth/register", "", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	api := newTestAPI(t)
	api.registerAndLogin(t, "alice@example.com")

	rec := api.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "alice@example.com", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginUnknownEmail(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "nobody@example.com", "password": "hunter22",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUpdateLocationRequiresAuth(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/live-location/update-location", "", map[string]float64{
		"latitude": 49.41, "longitude": 8.68,
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUpdateLocationMissingCoordinate(t *testing.T) {
	api := newTestAPI(t)
	token := api.registerAndLogin(t, "alice@example.com")

	rec := api.do(t, http.MethodPost, "/live-location/update-location", token, map[string]float64{
		"latitude": 49.41,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateLocationThenList(t *testing.T) {
	api := newTestAPI(t)
	token := api.registerAndLogin(t, "alice@example.com")

	rec := api.do(t, http.MethodPost, "/live-location/update-location", token, map[string]float64{
		"latitude": 49.41, "longitude": 8.68,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(t, http.MethodGet, "/live-location", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Locations []LocationEntry `json:"locations"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Locations, 1)
	assert.Equal(t, 49.41, resp.Locations[0].Lat)
	assert.Equal(t, 8.68, resp.Locations[0].Lng)
}

func TestSafeRouteInvalidCoordinates(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/safe-route", "", map[string]interface{}{
		"start": []float64{49.41}, "end": []float64{49.42, 8.69},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSafeRoute(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/safe-route", "", map[string]interface{}{
		"start": []float64{49.41, 8.68}, "end": []float64{49.42, 8.69},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "FeatureCollection")
}

func TestSendNotificationMissingFields(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/send-notification", "", map[string]string{
		"token": "device-token",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSendNotification(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/send-notification", "", map[string]string{
		"token": "device-token", "message": "stay safe",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success  bool                `json:"success"`
		Response services.PushResult `json:"response"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "stub-id", resp.Response.ApnsID)
}

func TestPanicButtonMissingFields(t *testing.T) {
	api := newTestAPI(t)
	token := api.registerAndLogin(t, "alice@example.com")

	rec := api.do(t, http.MethodPost, "/panic-button", token, map[string]interface{}{
		"phoneNumber": "+4915112345678",
		"message":     "help",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPanicButton(t *testing.T) {
	api := newTestAPI(t)
	token := api.registerAndLogin(t, "alice@example.com")

	rec := api.do(t, http.MethodPost, "/panic-button", token, map[string]interface{}{
		"phoneNumber": "+4915112345678",
		"message":     "help",
		"location":    map[string]float64{"latitude": 49.41, "longitude": 8.68},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, api.sms.calls)

	rec = api.do(t, http.MethodGet, "/live-location", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "49.41")
}

func TestPanicButtonSMSFailure(t *testing.T) {
	api := newTestAPI(t)
	token := api.registerAndLogin(t, "alice@example.com")
	api.sms.err = errors.New("gateway down")

	rec := api.do(t, http.MethodPost, "/panic-button", token, map[string]interface{}{
		"phoneNumber": "+4915112345678",
		"message":     "help",
		"location":    map[string]float64{"latitude": 49.41, "longitude": 8.68},
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	rec = api.do(t, http.MethodGet, "/live-location", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Locations []LocationEntry `json:"locations"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Locations, "failed SMS must not record a location")
}
