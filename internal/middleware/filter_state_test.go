package middleware

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alimgiray/orgboard/internal/models"
	"github.com/alimgiray/orgboard/internal/services"
	"github.com/alimgiray/orgboard/pkg/config"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupFilterRouter() *gin.Engine {
	config.AppConfig = config.FromEnv()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(FilterStateMiddleware())
	router.GET("/remember", func(c *gin.Context) {
		_ = SetFilterState(c, models.DiscussionFilter{Tab: models.TabTrending, Category: "ideas", Sort: models.SortLatest})
		c.Status(http.StatusNoContent)
	})
	router.GET("/recall", func(c *gin.Context) {
		filter := GetFilterState(c)
		if filter == nil {
			c.JSON(http.StatusOK, gin.H{"found": false})
			return
		}
		c.JSON(http.StatusOK, gin.H{"found": true, "filter": filter})
	})
	return router
}

func TestFilterStateRoundTrip(t *testing.T) {
	router := setupFilterRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/remember", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusNoContent, w.Code)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, filterCookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/recall", nil)
	req.AddCookie(cookies[0])
	router.ServeHTTP(w, req)

	var body struct {
		Found  bool                    `json:"found"`
		Filter models.DiscussionFilter `json:"filter"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Found)
	assert.Equal(t, models.TabTrending, body.Filter.Tab)
	assert.Equal(t, "ideas", body.Filter.Category)
	assert.Equal(t, models.SortLatest, body.Filter.Sort)
}

func TestFilterStateRejectsTamperedCookie(t *testing.T) {
	router := setupFilterRouter()

	data, _ := json.Marshal(models.DiscussionFilter{Tab: models.TabUnanswered})
	encoded := base64.URLEncoding.EncodeToString(data)

	testCases := []struct {
		name  string
		value string
	}{
		{name: "Wrong signature", value: createSignature("something else") + "." + encoded},
		{name: "Missing signature", value: encoded},
		{name: "Garbage", value: "not.base64!"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodGet, "/recall", nil)
			req.AddCookie(&http.Cookie{Name: filterCookieName, Value: tc.value})
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.JSONEq(t, `{"found":false}`, w.Body.String())
		})
	}
}

func TestRateLimitGuard(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tracker := services.NewRateLimitTracker()

	router := gin.New()
	router.POST("/refresh", RateLimitGuard(tracker), func(c *gin.Context) {
		c.Status(http.StatusAccepted)
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/refresh", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusAccepted, w.Code)

	tracker.MarkLimited(time.Now().Add(10*time.Minute).Unix(), 0, 60)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodPost, "/refresh", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "rate limit")
}
