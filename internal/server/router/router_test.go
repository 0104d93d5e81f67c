package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/pantry-helper/internal/auth"
	"github.com/mamadbah2/pantry-helper/internal/domain/models"
	"github.com/mamadbah2/pantry-helper/internal/repository/mysql/mysqltest"
	"github.com/mamadbah2/pantry-helper/internal/server/handlers"
	"github.com/mamadbah2/pantry-helper/internal/server/middleware"
	"github.com/mamadbah2/pantry-helper/internal/server/router"
	"github.com/mamadbah2/pantry-helper/internal/service/access"
	"github.com/mamadbah2/pantry-helper/internal/service/events"
	"github.com/mamadbah2/pantry-helper/internal/service/finance"
	"github.com/mamadbah2/pantry-helper/internal/service/inventory"
	"github.com/mamadbah2/pantry-helper/internal/service/notify"
	"github.com/mamadbah2/pantry-helper/internal/service/pantries"
	"github.com/mamadbah2/pantry-helper/internal/service/profiles"
	"github.com/mamadbah2/pantry-helper/internal/service/recipes"
	"github.com/mamadbah2/pantry-helper/internal/service/reporting"
	"github.com/mamadbah2/pantry-helper/internal/service/requests"
)

type noMeals struct{}

func (noMeals) Random(context.Context) (*models.Recipe, error) {
	return &models.Recipe{ID: "52772", Name: "Teriyaki Chicken Casserole"}, nil
}

func (noMeals) FilterByIngredient(context.Context, string) ([]models.Recipe, error) {
	return nil, nil
}

func (noMeals) Lookup(context.Context, string) (*models.Recipe, error) { return nil, nil }

type api struct {
	t      *testing.T
	engine *gin.Engine
}

func newAPI(t *testing.T) api {
	t.Helper()
	store := mysqltest.New(t)
	checker := access.NewChecker(store, nil)
	issuer := auth.NewIssuer("0123456789abcdef0123", time.Hour)

	notifySvc := notify.NewService(store, nil, checker, "", nil)
	reportSvc := reporting.NewService(store, notifySvc, nil, checker, 7, nil)
	recipeSvc := recipes.NewService(noMeals{}, nil, store, nil)

	engine := router.New(router.Handlers{
		Inventory:     handlers.NewInventoryHandler(inventory.NewService(store, checker, nil), nil),
		Requests:      handlers.NewRequestHandler(requests.NewService(store, checker, nil), nil),
		Pantries:      handlers.NewPantryHandler(pantries.NewService(store, checker, nil), nil),
		Profiles:      handlers.NewProfileHandler(profiles.NewService(store, issuer, checker, nil), nil),
		Events:        handlers.NewEventHandler(events.NewService(store, notifySvc, checker, nil), nil),
		Finance:       handlers.NewFinanceHandler(finance.NewService(store, nil, checker, nil), nil),
		Notifications: handlers.NewNotificationHandler(notifySvc, nil),
		Reports:       handlers.NewReportHandler(reportSvc, recipeSvc, nil),
	}, router.Options{
		Tokens:  issuer,
		Metrics: middleware.NewMetrics(),
		Ready:   func(c *gin.Context) error { return store.Ping(c.Request.Context()) },
	}, nil)

	return api{t: t, engine: engine}
}

func (a api) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	a.t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.engine.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst), rec.Body.String())
}

const testPassword = "pantry-pass-123"

type session struct {
	ProfileID int64  `json:"profileID"`
	Token     string `json:"token"`
}

func (a api) signIn(email string) session {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/api/profiles", "", gin.H{"name": email, "email": email, "password": testPassword})
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())
	var s session
	decode(a.t, rec, &s)
	return s
}

func TestHealth(t *testing.T) {
	a := newAPI(t)
	assert.Equal(t, http.StatusOK, a.do(http.MethodGet, "/healthz", "", nil).Code)
	assert.Equal(t, http.StatusOK, a.do(http.MethodGet, "/readyz", "", nil).Code)

	rec := a.do(http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "pantry_http_requests_total")
}

func TestPantryWorkflow(t *testing.T) {
	a := newAPI(t)
	admin := a.signIn("admin@example.com")
	staff := a.signIn("staff@example.com")
	recipient := a.signIn("ana@example.com")

	rec := a.do(http.MethodPost, "/api/profiles", "", gin.H{"email": "admin@example.com", "password": testPassword})
	assert.Equal(t, http.StatusOK, rec.Code, "returning profiles answer 200")

	rec = a.do(http.MethodPost, "/api/pantries", "", gin.H{"name": "North"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = a.do(http.MethodPost, "/api/pantries", admin.Token, gin.H{"name": "North", "accessCode": "letmein"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var pantry models.Pantry
	decode(t, rec, &pantry)

	rec = a.do(http.MethodPost, "/api/pantries/verify-access-code", staff.Token, gin.H{"pantryID": pantry.ID, "accessCode": "nope"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = a.do(http.MethodPost, "/api/pantries/verify-access-code", staff.Token, gin.H{"pantryID": pantry.ID, "accessCode": "letmein"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"userAuthority":"staff"`)

	rec = a.do(http.MethodPost, "/api/pantry-users", recipient.Token, gin.H{
		"profileID": recipient.ProfileID, "pantryID": pantry.ID, "userAuthority": "recipient",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	item := gin.H{"name": "Rice", "quantity": 5, "pantryID": pantry.ID, "expirationDate": "2030-01-01"}
	rec = a.do(http.MethodPost, "/api/inventory", recipient.Token, item)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = a.do(http.MethodPost, "/api/inventory", staff.Token, item)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var rice models.InventoryItem
	decode(t, rec, &rice)
	rec = a.do(http.MethodPost, "/api/inventory", staff.Token, item)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = a.do(http.MethodPost, "/api/inventory", staff.Token, gin.H{"quantity": 1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Missing required fields.")

	rec = a.do(http.MethodPost, fmt.Sprintf("/api/inventory/%d/distribute", rice.ID), staff.Token, gin.H{"pantryID": pantry.ID, "quantity": 2})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = a.do(http.MethodPost, fmt.Sprintf("/api/inventory/%d/distribute", rice.ID), staff.Token, gin.H{"pantryID": pantry.ID, "quantity": 50})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(http.MethodGet, fmt.Sprintf("/api/inventory?pantryID=%d", pantry.ID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listing []models.InventoryListing
	decode(t, rec, &listing)
	require.Len(t, listing, 1)
	assert.Equal(t, 3, listing[0].Quantity)
	assert.Equal(t, 2, listing[0].TotalOutgoing)

	request := gin.H{
		"profileID": recipient.ProfileID, "pantryID": pantry.ID, "itemName": "Rice",
		"quantity": 1, "requestDate": "2024-05-01", "completed": false,
	}
	rec = a.do(http.MethodPost, "/api/requests", recipient.Token, request)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = a.do(http.MethodPost, "/api/requests", recipient.Token, request)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(http.MethodGet, fmt.Sprintf("/api/requests/pantry/%d", pantry.ID), recipient.Token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = a.do(http.MethodGet, fmt.Sprintf("/api/requests/pantry/%d", pantry.ID), staff.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var pending []models.Request
	decode(t, rec, &pending)
	assert.Len(t, pending, 1)

	rec = a.do(http.MethodPut, "/api/requests/complete", staff.Token, gin.H{
		"profileID": recipient.ProfileID, "pantryID": pantry.ID, "itemName": "Rice",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = a.do(http.MethodDelete, fmt.Sprintf("/api/requests/%d/%d/Rice", recipient.ProfileID, pantry.ID), recipient.Token, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = a.do(http.MethodPost, "/api/events", staff.Token, gin.H{
		"pantryID": pantry.ID, "eventTitle": "Harvest Fair", "iconPath": "icons/fair.svg",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = a.do(http.MethodGet, fmt.Sprintf("/api/notifications/%d", recipient.ProfileID), recipient.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var inbox []models.Notification
	decode(t, rec, &inbox)
	require.Len(t, inbox, 1)
	assert.Contains(t, inbox[0].Detail, "Harvest Fair")

	rec = a.do(http.MethodPatch, fmt.Sprintf("/api/notifications/%d", recipient.ProfileID), recipient.Token, nil)
	assert.Contains(t, rec.Body.String(), "Notification marked as read successfully")
	rec = a.do(http.MethodPatch, fmt.Sprintf("/api/notifications/%d", recipient.ProfileID), recipient.Token, nil)
	assert.Contains(t, rec.Body.String(), "No notification")

	rec = a.do(http.MethodGet, fmt.Sprintf("/api/reports/inventory/%d/export", pantry.ID), staff.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".xlsx")

	rec = a.do(http.MethodGet, "/api/recipes/random", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Teriyaki Chicken Casserole")
}

func TestPantryInfoFields(t *testing.T) {
	a := newAPI(t)
	admin := a.signIn("admin@example.com")

	rec := a.do(http.MethodPost, "/api/pantries", admin.Token, gin.H{"name": "North"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var pantry models.Pantry
	decode(t, rec, &pantry)

	rec = a.do(http.MethodPut, fmt.Sprintf("/api/pantries/%d/info", pantry.ID), admin.Token, gin.H{"name": "North Pantry", "location": "12 Main St"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = a.do(http.MethodGet, fmt.Sprintf("/api/pantries/%d/location", pantry.ID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"location":"12 Main St"}`, rec.Body.String())

	rec = a.do(http.MethodGet, fmt.Sprintf("/api/pantries/%d/email", pantry.ID), "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"No Email Field"}`, rec.Body.String())

	rec = a.do(http.MethodGet, "/api/pantries/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSignInNeedsThePassword(t *testing.T) {
	a := newAPI(t)
	admin := a.signIn("boss@example.com")

	rec := a.do(http.MethodPost, "/api/pantries", admin.Token, gin.H{"name": "North"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var pantry models.Pantry
	decode(t, rec, &pantry)
	rec = a.do(http.MethodPost, "/api/inventory", admin.Token, gin.H{"name": "Rice", "quantity": 3, "pantryID": pantry.ID})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = a.do(http.MethodGet, "/api/profiles", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = a.do(http.MethodGet, fmt.Sprintf("/api/profiles/%d", admin.ProfileID), "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = a.do(http.MethodPost, "/api/profiles", "", gin.H{"email": "boss@example.com"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotContains(t, rec.Body.String(), "token")

	rec = a.do(http.MethodPost, "/api/profiles", "", gin.H{"email": "boss@example.com", "password": "guessed-wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid email or password."}`, rec.Body.String())

	outsider := a.signIn("mallory@example.com")
	rec = a.do(http.MethodGet, fmt.Sprintf("/api/profiles/%d", admin.ProfileID), outsider.Token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = a.do(http.MethodGet, fmt.Sprintf("/api/profiles?pantryID=%d", pantry.ID), outsider.Token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = a.do(http.MethodDelete, fmt.Sprintf("/api/inventory?pantryID=%d", pantry.ID), outsider.Token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = a.do(http.MethodGet, fmt.Sprintf("/api/profiles/%d", admin.ProfileID), admin.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")

	rec = a.do(http.MethodGet, fmt.Sprintf("/api/inventory?pantryID=%d", pantry.ID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"Rice"`)
}
