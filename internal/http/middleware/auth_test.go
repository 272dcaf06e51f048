package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"campustech-backend/internal/apperr"
	"campustech-backend/internal/auth"
)

type stubAuthenticator struct {
	id auth.Identity
}

func (s stubAuthenticator) Authenticate(_ context.Context, header string) (auth.Identity, error) {
	if header != "Bearer good" {
		return auth.Identity{}, apperr.Unauthorized("invalid or expired token")
	}
	return s.id, nil
}

func TestAuthenticate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	want := auth.Identity{UserID: primitive.NewObjectID(), Email: "a@campus.test"}

	r := gin.New()
	r.GET("/whoami", Authenticate(stubAuthenticator{id: want}), func(c *gin.Context) {
		id, err := Identity(c)
		require.NoError(t, err)
		c.JSON(http.StatusOK, gin.H{"email": id.Email})
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer good")
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "a@campus.test")

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "unauthorized", body["code"])
}

func TestIdentityWithoutMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, err := Identity(c)
	assert.True(t, apperr.Is(err, apperr.KindAuth))
}
