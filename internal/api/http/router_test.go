package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/donation-service/internal/api/http"
	"github.com/spec-kit/donation-service/internal/api/http/handlers"
	"github.com/spec-kit/donation-service/internal/auth"
	"github.com/spec-kit/donation-service/internal/config"
	"github.com/spec-kit/donation-service/internal/domain"
	"github.com/spec-kit/donation-service/internal/events"
	"github.com/spec-kit/donation-service/internal/observability"
	"github.com/spec-kit/donation-service/internal/repository"
	"github.com/spec-kit/donation-service/internal/service"
)

type testServer struct {
	app    *fiber.App
	store  *repository.MemoryStore
	tokens *auth.TokenManager
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := zap.NewNop()
	store := repository.NewMemoryStore()
	guard := auth.NewGuard(store.Users())
	dispatcher := events.NewInMemoryDispatcher(logger)
	tokens := auth.NewTokenManager("test-secret", 60)

	users := service.NewUserService(service.UserDependencies{UserRepo: store.Users(), Guard: guard, Dispatcher: dispatcher, Logger: logger})
	donations := service.NewDonationService(service.DonationDependencies{RequestRepo: store.DonationRequests(), Guard: guard, Dispatcher: dispatcher, Logger: logger})
	fundings := service.NewFundingService(service.FundingDependencies{FundingRepo: store.Fundings(), Guard: guard, Dispatcher: dispatcher, Logger: logger})
	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, config.AppConfig{
		RequestTimeoutSeconds: 5,
		CORSAllowOrigins:      "*",
	})
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:           handlers.NewHealthHandler("test", "dev", nil, nil),
		Auth:             handlers.NewAuthHandler(tokens),
		Users:            handlers.NewUsersHandler(users),
		DonationRequests: handlers.NewDonationRequestsHandler(donations),
		Fundings:         handlers.NewFundingsHandler(fundings),
		Media:            handlers.NewMediaHandler(service.NewMediaService(guard, nil, logger)),
		Stats:            handlers.NewStatsHandler(service.NewStatsService(guard, users, donations, fundings)),
		AuthMiddleware:   auth.NewAuthMiddleware(tokens),
		Metrics:          metrics.Handler(),
	})
	return &testServer{app: app, store: store, tokens: tokens}
}

func (s *testServer) seed(t *testing.T, email string, role domain.Role, status domain.UserStatus) (*domain.User, string) {
	t.Helper()
	user := &domain.User{ID: domain.NewUserID(), Email: email, Name: email, Role: role, Status: status}
	created, err := s.store.Users().CreateIfAbsent(context.Background(), user)
	require.NoError(t, err)
	require.True(t, created)
	token, _, err := s.tokens.GenerateToken(email)
	require.NoError(t, err)
	return user, token
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, raw
}

func decode(t *testing.T, raw []byte) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return out
}

func TestRootBanner(t *testing.T) {
	s := newTestServer(t)
	status, body := s.do(t, nethttp.MethodGet, "/", "", nil)
	require.Equal(t, nethttp.StatusOK, status)
	require.Contains(t, string(body), "Blood Donation Server is running")
}

func TestMissingTokenIsUnauthorized(t *testing.T) {
	s := newTestServer(t)
	for _, path := range []string{"/users", "/donation-requests/all", "/admin-stats"} {
		status, body := s.do(t, nethttp.MethodGet, path, "", nil)
		require.Equal(t, nethttp.StatusUnauthorized, status, path)
		require.Equal(t, "unauthorized access", decode(t, body)["message"], path)
	}

	status, _ := s.do(t, nethttp.MethodGet, "/users", "garbage", nil)
	require.Equal(t, nethttp.StatusUnauthorized, status)
}

func TestNonAdminIsForbidden(t *testing.T) {
	s := newTestServer(t)
	_, donorToken := s.seed(t, "donor@example.com", domain.RoleDonor, domain.UserStatusActive)
	_, volToken := s.seed(t, "vol@example.com", domain.RoleVolunteer, domain.UserStatusActive)
	target, _ := s.seed(t, "target@example.com", domain.RoleDonor, domain.UserStatusActive)

	status, body := s.do(t, nethttp.MethodGet, "/users", donorToken, nil)
	require.Equal(t, nethttp.StatusForbidden, status)
	require.Equal(t, "forbidden access", decode(t, body)["message"])

	status, _ = s.do(t, nethttp.MethodGet, "/admin-stats", volToken, nil)
	require.Equal(t, nethttp.StatusForbidden, status)

	status, _ = s.do(t, nethttp.MethodPatch, "/users/admin/"+target.ID, volToken, nil)
	require.Equal(t, nethttp.StatusForbidden, status)

	status, _ = s.do(t, nethttp.MethodGet, "/donation-requests/all", volToken, nil)
	require.Equal(t, nethttp.StatusOK, status)
}

func TestRegisterAndIssueToken(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(t, nethttp.MethodPost, "/users", "", map[string]any{
		"email": "New@Example.com", "name": "New", "role": "admin",
	})
	require.Equal(t, nethttp.StatusOK, status)
	user := decode(t, body)
	require.Equal(t, "new@example.com", user["email"])
	require.Equal(t, "donor", user["role"])
	require.Equal(t, "active", user["status"])

	status, body = s.do(t, nethttp.MethodPost, "/users", "", map[string]any{"email": "new@example.com"})
	require.Equal(t, nethttp.StatusOK, status)
	require.Equal(t, "user already exists", decode(t, body)["message"])

	status, body = s.do(t, nethttp.MethodPost, "/jwt", "", map[string]any{"email": "new@example.com"})
	require.Equal(t, nethttp.StatusOK, status)
	token, ok := decode(t, body)["token"].(string)
	require.True(t, ok)

	status, body = s.do(t, nethttp.MethodGet, "/users/new@example.com", token, nil)
	require.Equal(t, nethttp.StatusOK, status)
	require.Equal(t, "New", decode(t, body)["name"])

	status, _ = s.do(t, nethttp.MethodGet, "/users/other@example.com", token, nil)
	require.Equal(t, nethttp.StatusForbidden, status)
}

func TestDonationRequestFlow(t *testing.T) {
	s := newTestServer(t)
	_, ownerToken := s.seed(t, "owner@example.com", domain.RoleDonor, domain.UserStatusActive)
	_, donorToken := s.seed(t, "donor@example.com", domain.RoleDonor, domain.UserStatusActive)

	status, body := s.do(t, nethttp.MethodPost, "/donation-requests", ownerToken, map[string]any{
		"recipientName":  "Karim",
		"bloodGroup":     "B+",
		"district":       "Sylhet",
		"donationStatus": "done",
		"units":          2,
	})
	require.Equal(t, nethttp.StatusOK, status)
	created := decode(t, body)
	require.Equal(t, "pending", created["donationStatus"])
	require.Equal(t, "owner@example.com", created["requesterEmail"])
	require.Equal(t, float64(2), created["units"])
	id := created["_id"].(string)

	status, body = s.do(t, nethttp.MethodGet, "/donation-requests/public", "", nil)
	require.Equal(t, nethttp.StatusOK, status)
	var public []map[string]any
	require.NoError(t, json.Unmarshal(body, &public))
	require.Len(t, public, 1)

	status, _ = s.do(t, nethttp.MethodPatch, "/donation-requests/"+id, donorToken, map[string]any{"donationStatus": "canceled"})
	require.Equal(t, nethttp.StatusForbidden, status)

	status, body = s.do(t, nethttp.MethodPost, "/donation-requests/"+id+"/donate", donorToken, nil)
	require.Equal(t, nethttp.StatusOK, status)
	committed := decode(t, body)
	require.Equal(t, "inprogress", committed["donationStatus"])
	require.Equal(t, "donor@example.com", committed["donorInfo"].(map[string]any)["email"])

	status, body = s.do(t, nethttp.MethodPatch, "/donation-requests/"+id, ownerToken, map[string]any{"donationStatus": "pending"})
	require.Equal(t, nethttp.StatusBadRequest, status)
	require.Equal(t, "VALIDATION_FAILED", decode(t, body)["code"])

	status, body = s.do(t, nethttp.MethodGet, "/donation-requests?email=owner@example.com", ownerToken, nil)
	require.Equal(t, nethttp.StatusOK, status)
	var mine []map[string]any
	require.NoError(t, json.Unmarshal(body, &mine))
	require.Len(t, mine, 1)

	status, _ = s.do(t, nethttp.MethodDelete, "/donation-requests/"+id, ownerToken, nil)
	require.Equal(t, nethttp.StatusOK, status)

	status, body = s.do(t, nethttp.MethodGet, "/donation-requests/"+id, ownerToken, nil)
	require.Equal(t, nethttp.StatusOK, status)
	require.Equal(t, "donation request not found", decode(t, body)["message"])
}

func TestBlockedUserCannotCreateRequest(t *testing.T) {
	s := newTestServer(t)
	_, token := s.seed(t, "blocked@example.com", domain.RoleDonor, domain.UserStatusBlocked)

	status, body := s.do(t, nethttp.MethodPost, "/donation-requests", token, map[string]any{"recipientName": "Karim"})
	require.Equal(t, nethttp.StatusForbidden, status)
	require.Equal(t, "blocked user", decode(t, body)["message"])

	count, err := s.store.DonationRequests().Count(context.Background())
	require.NoError(t, err)
	require.Zero(t, count)
}

func TestAdminStatsAndFundings(t *testing.T) {
	s := newTestServer(t)
	_, adminToken := s.seed(t, "admin@example.com", domain.RoleAdmin, domain.UserStatusActive)

	status, _ := s.do(t, nethttp.MethodPost, "/fundings", adminToken, map[string]any{"amount": 12.5})
	require.Equal(t, nethttp.StatusOK, status)
	status, body := s.do(t, nethttp.MethodPost, "/fundings", adminToken, map[string]any{"amount": -1})
	require.Equal(t, nethttp.StatusBadRequest, status)
	require.Equal(t, "VALIDATION_FAILED", decode(t, body)["code"])

	status, body = s.do(t, nethttp.MethodGet, "/admin-stats", adminToken, nil)
	require.Equal(t, nethttp.StatusOK, status)
	stats := decode(t, body)
	require.Equal(t, float64(1), stats["users"])
	require.Equal(t, float64(0), stats["requests"])
	require.Equal(t, 12.5, stats["totalFunds"])
}

func TestExternalFailures(t *testing.T) {
	s := newTestServer(t)
	_, token := s.seed(t, "donor@example.com", domain.RoleDonor, domain.UserStatusActive)

	status, body := s.do(t, nethttp.MethodPost, "/create-payment-intent", token, map[string]any{"amount": 10})
	require.Equal(t, nethttp.StatusInternalServerError, status)
	require.Equal(t, "EXTERNAL_SERVICE_FAILURE", decode(t, body)["code"])

	status, body = s.do(t, nethttp.MethodPost, "/upload-image", token, map[string]any{"image": "aGVsbG8="})
	require.Equal(t, nethttp.StatusInternalServerError, status)
	upload := decode(t, body)
	require.Equal(t, false, upload["success"])
	require.Equal(t, "Image upload failed", upload["message"])

	status, body = s.do(t, nethttp.MethodPost, "/upload-image", token, map[string]any{"image": ""})
	require.Equal(t, nethttp.StatusBadRequest, status)
	require.Equal(t, "image is required", decode(t, body)["message"])
}

func TestUnknownRouteAndMetrics(t *testing.T) {
	s := newTestServer(t)
	status, _ := s.do(t, nethttp.MethodGet, "/nope", "", nil)
	require.Equal(t, nethttp.StatusNotFound, status)

	status, body := s.do(t, nethttp.MethodGet, "/metrics", "", nil)
	require.Equal(t, nethttp.StatusOK, status)
	require.Contains(t, string(body), "http_requests_total")
}

func TestSetRoleUnknownIDIsSoftNotFound(t *testing.T) {
	s := newTestServer(t)
	_, adminToken := s.seed(t, "admin@example.com", domain.RoleAdmin, domain.UserStatusActive)

	status, body := s.do(t, nethttp.MethodPatch, "/users/admin/not-a-real-id", adminToken, nil)
	require.Equal(t, nethttp.StatusOK, status)
	resp := decode(t, body)
	require.Equal(t, "user not found", resp["message"])
	require.Equal(t, "NOT_FOUND", resp["code"])
}
