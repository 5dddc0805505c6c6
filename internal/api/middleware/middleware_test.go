package middleware

import (
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/ekoelbar/barclient/pkg/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRequestID(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, GetRequestID(c))
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := w.Body.String()
	_, err := uuid.Parse(generated)
	require.NoError(t, err)
	assert.Equal(t, generated, w.Header().Get(RequestIDHeader))

	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, id)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, id, w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "not-a-uuid")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.NotEqual(t, "not-a-uuid", w.Body.String())
}

func TestStaffAuth(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("4711"), bcrypt.MinCost)
	require.NoError(t, err)

	tests := []struct {
		name   string
		hash   string
		pin    string
		status int
	}{
		{"correct pin", string(hash), "4711", http.StatusOK},
		{"wrong pin", string(hash), "1234", http.StatusUnauthorized},
		{"missing pin", string(hash), "", http.StatusUnauthorized},
		{"disabled", "", "4711", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(StaffAuth(tt.hash, zap.NewNop()))
			router.GET("/staff", func(c *gin.Context) { c.Status(http.StatusOK) })

			req := httptest.NewRequest(http.MethodGet, "/staff", nil)
			if tt.pin != "" {
				req.Header.Set(StaffPinHeader, tt.pin)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestStaffAuth_AttachesUnauthorizedError(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("4711"), bcrypt.MinCost)
	require.NoError(t, err)

	var attached error
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Next()
		attached = c.Errors.Last()
	})
	router.Use(StaffAuth(string(hash), zap.NewNop()))
	router.GET("/staff", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/staff", nil)
	req.Header.Set(StaffPinHeader, "1234")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"invalid staff pin"}`, w.Body.String())

	var unauthorized *errors.ErrUnauthorized
	require.True(t, stderrors.As(attached, &unauthorized))
	assert.Equal(t, "invalid staff pin", unauthorized.Message)
}
