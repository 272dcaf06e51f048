package server

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campustech-backend/internal/auth"
	"campustech-backend/internal/config"
	"campustech-backend/internal/report"
	"campustech-backend/internal/service"
	"campustech-backend/internal/storage/memory"
	"campustech-backend/internal/upload"
)

type testAPI struct {
	t       *testing.T
	handler http.Handler
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Config{
		Port:           "0",
		JWTSecret:      "test-secret",
		JWTTTL:         2 * time.Hour,
		AdminEmail:     "admin@campus.test",
		DeclineLast4:   "0000",
		UploadDir:      t.TempDir(),
		UploadMaxBytes: 1 << 20,
		CORSOrigins:    []string{"*"},
	}
	store := memory.New()
	disk, err := upload.NewDisk(cfg.UploadDir, cfg.UploadMaxBytes)
	require.NoError(t, err)
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	users := service.NewUserService(store)

	srv := New(cfg, Services{
		Auth:    service.NewAuthService(store, tokens, nil, &cfg),
		Users:   users,
		Catalog: service.NewCatalogService(store, disk),
		Carts:   service.NewCartService(store),
		Orders:  service.NewOrderService(store, users, &cfg),
	})
	return &testAPI{t: t, handler: srv.Handler()}
}

func (a *testAPI) do(method, path, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func (a *testAPI) login(email string) string {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/api/auth/register", "", map[string]string{"name": "Student", "email": email, "password": "pw123456"})
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = a.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": email, "password": "pw123456"})
	require.Equal(a.t, http.StatusOK, rec.Code, rec.Body.String())
	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Token
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t)
	rec := api.do(http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode[map[string]string](t, rec)["status"])
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	api := newTestAPI(t)
	for _, path := range []string{"/api/cart", "/api/orders", "/api/users/me", "/api/items/my"} {
		rec := api.do(http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
	rec := api.do(http.MethodGet, "/api/items", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestShoppingFlow(t *testing.T) {
	api := newTestAPI(t)
	adminToken := api.login("admin@campus.test")
	shopper := api.login("student@campus.test")

	rec := api.do(http.MethodPost, "/api/items", shopper, map[string]any{"name": "ItemA", "category": "misc", "price": 20, "quantity": 5})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	itemA := decode[map[string]any](t, rec)["id"].(string)
	rec = api.do(http.MethodPost, "/api/items", shopper, map[string]any{"name": "ItemB", "category": "misc", "price": 50, "quantity": 1})
	require.Equal(t, http.StatusCreated, rec.Code)
	itemB := decode[map[string]any](t, rec)["id"].(string)

	rec = api.do(http.MethodPut, "/api/items/"+itemA+"/inventory", shopper, map[string]any{"quantity": 9})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = api.do(http.MethodPost, "/api/cart/add", shopper, map[string]any{"itemId": itemA, "quantity": 2})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = api.do(http.MethodPost, "/api/cart/set", shopper, map[string]any{"itemId": itemB, "quantity": "1"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 90.0, decode[map[string]any](t, rec)["subtotal"])

	rec = api.do(http.MethodPost, "/api/cart/add", shopper, map[string]any{"itemId": itemA, "quantity": 0})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	checkout := map[string]any{
		"shipping": map[string]string{"fullName": "Ada", "address": "4700 Keele St", "city": "Toronto", "postalCode": "M3J 1P3", "country": "Canada"},
		"payment":  map[string]string{"cardBrand": "Visa", "last4": "0000"},
	}
	rec = api.do(http.MethodPost, "/api/orders/checkout", shopper, checkout)
	assert.Equal(t, http.StatusPaymentRequired, rec.Code)
	assert.Equal(t, "payment_declined", decode[map[string]string](t, rec)["code"])

	checkout["payment"] = map[string]string{"cardBrand": "Visa", "last4": "4242"}
	rec = api.do(http.MethodPost, "/api/orders/checkout", shopper, checkout)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	order := decode[map[string]any](t, rec)
	assert.Equal(t, 90.0, order["totalAmount"])
	orderID := order["id"].(string)

	rec = api.do(http.MethodGet, "/api/cart", shopper, nil)
	assert.Empty(t, decode[map[string]any](t, rec)["items"])

	rec = api.do(http.MethodGet, "/api/items/"+itemB, "", nil)
	assert.Equal(t, 0.0, decode[map[string]any](t, rec)["quantity"])

	rec = api.do(http.MethodGet, "/api/orders", shopper, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 1)

	rec = api.do(http.MethodGet, "/api/orders/"+orderID, adminToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(http.MethodGet, "/api/orders/admin/all", shopper, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = api.do(http.MethodGet, "/api/orders/admin/all?item="+itemB, adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 1)

	rec = api.do(http.MethodGet, "/api/orders/admin/export", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, report.ContentType, rec.Header().Get("Content-Type"))
	assert.NotZero(t, rec.Body.Len())
}

func TestCheckoutInsufficientInventoryBody(t *testing.T) {
	api := newTestAPI(t)
	adminToken := api.login("admin@campus.test")
	shopper := api.login("student@campus.test")

	rec := api.do(http.MethodPost, "/api/items", shopper, map[string]any{"name": "ItemB", "category": "misc", "price": 50, "quantity": 1})
	require.Equal(t, http.StatusCreated, rec.Code)
	itemB := decode[map[string]any](t, rec)["id"].(string)
	rec = api.do(http.MethodPost, "/api/cart/add", shopper, map[string]any{"itemId": itemB, "quantity": 1})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = api.do(http.MethodPut, "/api/items/"+itemB+"/inventory", adminToken, map[string]any{"quantity": 0})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = api.do(http.MethodPost, "/api/orders/checkout", shopper, map[string]any{
		"shipping": map[string]string{"fullName": "Ada", "address": "1 Main", "city": "Toronto", "postalCode": "M3J", "country": "Canada"},
		"payment":  map[string]string{"cardBrand": "Visa", "last4": "4242"},
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	body := decode[map[string]string](t, rec)
	assert.Equal(t, "insufficient_inventory", body["code"])
	assert.Equal(t, itemB, body["item"])
	assert.Contains(t, body["error"], "ItemB")
}

func TestCreateItemWithImageUpload(t *testing.T) {
	api := newTestAPI(t)
	token := api.login("student@campus.test")

	png := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 64)...)
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	require.NoError(t, form.WriteField("name", "Sketchbook"))
	require.NoError(t, form.WriteField("category", "art"))
	require.NoError(t, form.WriteField("price", "12.50"))
	part, err := form.CreateFormFile("image", "My Sketch.png")
	require.NoError(t, err)
	_, err = part.Write(png)
	require.NoError(t, err)
	require.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/items", &buf)
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	api.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	item := decode[map[string]any](t, rec)
	assert.Equal(t, 12.5, item["price"])
	imageURL := item["imageUrl"].(string)
	assert.True(t, strings.HasPrefix(imageURL, "/uploads/"), imageURL)
	assert.True(t, strings.HasSuffix(imageURL, "-my-sketch.png"), imageURL)

	rec = httptest.NewRecorder()
	api.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, imageURL, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLogoutWithoutRevocationStore(t *testing.T) {
	api := newTestAPI(t)
	token := api.login("student@campus.test")

	rec := api.do(http.MethodPost, "/api/auth/logout", token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = api.do(http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	me := decode[map[string]any](t, rec)
	assert.Equal(t, "student@campus.test", me["email"])
	assert.NotContains(t, me, "passwordHash")
}
