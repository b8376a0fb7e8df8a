package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskmanager/model"
)

type stubTokens struct{}

func (stubTokens) ParseAccess(raw string) (*model.AccessClaims, error) {
	if raw != "good" {
		return nil, model.Unauthorized("Token is expired or invalid")
	}
	return &model.AccessClaims{UserID: "u1"}, nil
}

func (stubTokens) ParseRefresh(raw string) (*model.RefreshClaims, error) {
	if raw != "fresh" {
		return nil, model.Unauthorized("Token is expired or invalid")
	}
	return &model.RefreshClaims{UserID: "u1"}, nil
}

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAccessTokenMiddleware(t *testing.T) {
	r := gin.New()
	r.GET("/me", AccessTokenMiddleware(stubTokens{}), func(c *gin.Context) {
		c.String(http.StatusOK, CallerID(c))
	})

	cases := []struct {
		name   string
		header string
		code   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic good", http.StatusUnauthorized},
		{"empty token", "Bearer ", http.StatusUnauthorized},
		{"invalid", "Bearer nope", http.StatusUnauthorized},
		{"valid", "Bearer good", http.StatusOK},
		{"lowercase scheme", "bearer good", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := serve(r, req)
			assert.Equal(t, tc.code, w.Code)
			if tc.code == http.StatusOK {
				assert.Equal(t, "u1", w.Body.String())
			}
		})
	}
}

func TestRefreshTokenMiddlewareKeepsRawToken(t *testing.T) {
	r := gin.New()
	r.POST("/refresh", RefreshTokenMiddleware(stubTokens{}), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(RefreshTokenKey))
	})

	req := httptest.NewRequest(http.MethodPost, "/refresh", nil)
	req.Header.Set("Authorization", "Bearer fresh")
	w := serve(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "fresh", w.Body.String())

	req = httptest.NewRequest(http.MethodPost, "/refresh", nil)
	req.Header.Set("Authorization", "Bearer good")
	assert.Equal(t, http.StatusUnauthorized, serve(r, req).Code)
}

func TestCronSecretMiddleware(t *testing.T) {
	ok := func(c *gin.Context) { c.Status(http.StatusNoContent) }

	guarded := gin.New()
	guarded.POST("/sweep", CronSecretMiddleware("s3cret"), ok)

	req := httptest.NewRequest(http.MethodPost, "/sweep", nil)
	assert.Equal(t, http.StatusUnauthorized, serve(guarded, req).Code)

	req = httptest.NewRequest(http.MethodPost, "/sweep", nil)
	req.Header.Set("X-Cron-Secret", "s3cret")
	assert.Equal(t, http.StatusNoContent, serve(guarded, req).Code)

	open := gin.New()
	open.POST("/sweep", CronSecretMiddleware(""), ok)
	req = httptest.NewRequest(http.MethodPost, "/sweep", nil)
	assert.Equal(t, http.StatusNoContent, serve(open, req).Code)
}

func TestSanitizeText(t *testing.T) {
	assert.Equal(t, "hello", SanitizeText(`<script>alert(1)</script>hello`))
	assert.Equal(t, "bold & plain", SanitizeText(`<b>bold</b> &amp; plain`))
	assert.Equal(t, "Tom's plan", SanitizeText("Tom's plan"))
}

func TestSanitizeJSONMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(SanitizeJSONMiddleware())
	echo := func(c *gin.Context) {
		body, _ := io.ReadAll(c.Request.Body)
		c.Data(http.StatusOK, "application/json", body)
	}
	r.POST("/echo", echo)
	r.GET("/echo", echo)

	req := httptest.NewRequest(http.MethodPost, "/echo",
		strings.NewReader(`{"title":"<b>Plan</b>","tags":["<i>a</i>",1],"meta":{"note":"<img src=x onerror=alert(1)>ok"},"done":true}`))
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	w := serve(r, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"title":"Plan","tags":["a",1],"meta":{"note":"ok"},"done":true}`, w.Body.String())

	req = httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(`{"title":`))
	req.Header.Set("Content-Type", "application/json")
	assert.Equal(t, http.StatusBadRequest, serve(r, req).Code)

	req = httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(`<b>raw</b>`))
	req.Header.Set("Content-Type", "text/plain")
	w = serve(r, req)
	assert.Equal(t, `<b>raw</b>`, w.Body.String())

	req = httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(""))
	req.Header.Set("Content-Type", "application/json")
	assert.Equal(t, http.StatusOK, serve(r, req).Code)
}

func TestBodyLimit(t *testing.T) {
	r := gin.New()
	r.POST("/upload", BodyLimit(8), func(c *gin.Context) {
		if _, err := io.ReadAll(c.Request.Body); err != nil {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader("0123456789"))
	assert.Equal(t, http.StatusRequestEntityTooLarge, serve(r, req).Code)

	req = httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader("0123"))
	assert.Equal(t, http.StatusOK, serve(r, req).Code)
}

func TestSanitizeJSONMiddlewareLeavesSecretsAlone(t *testing.T) {
	r := gin.New()
	r.Use(SanitizeJSONMiddleware())
	r.POST("/echo", func(c *gin.Context) {
		body, _ := io.ReadAll(c.Request.Body)
		c.Data(http.StatusOK, "application/json", body)
	})

	req := httptest.NewRequest(http.MethodPost, "/echo",
		strings.NewReader(`{"name":"<b>Ann</b>","password":"pa<ss>word","captchaToken":"a<b>c","nested":{"idToken":"x<y>z"}}`))
	req.Header.Set("Content-Type", "application/json")
	w := serve(r, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"name":"Ann","password":"pa<ss>word","captchaToken":"a<b>c","nested":{"idToken":"x<y>z"}}`, w.Body.String())
}
