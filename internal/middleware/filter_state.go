package middleware

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"

	"github.com/alimgiray/orgboard/internal/models"
	"github.com/alimgiray/orgboard/pkg/config"
	"github.com/gin-gonic/gin"
)

const (
	filterCookieName   = "discussion_filter"
	filterContextKey   = "discussion_filter"
	filterCookieMaxAge = 30 * 24 * time.Hour
)

// FilterStateMiddleware restores the last discussion filter selection from its signed cookie
func FilterStateMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if filter := getFilterFromCookie(c); filter != nil {
			c.Set(filterContextKey, filter)
		}

		c.Next()
	}
}

// getFilterFromCookie extracts and validates the filter selection from cookie
func getFilterFromCookie(c *gin.Context) *models.DiscussionFilter {
	cookie, err := c.Cookie(filterCookieName)
	if err != nil {
		return nil
	}

	// signature.data
	parts := strings.Split(cookie, ".")
	if len(parts) != 2 {
		return nil
	}

	signature, data := parts[0], parts[1]
	if !verifySignature(data, signature) {
		return nil
	}

	decoded, err := base64.URLEncoding.DecodeString(data)
	if err != nil {
		return nil
	}

	var filter models.DiscussionFilter
	if err := json.Unmarshal(decoded, &filter); err != nil {
		return nil
	}

	return &filter
}

// SetFilterState stores the selection in a signed cookie and in the request context
func SetFilterState(c *gin.Context, filter models.DiscussionFilter) error {
	data, err := json.Marshal(filter)
	if err != nil {
		return err
	}

	encoded := base64.URLEncoding.EncodeToString(data)
	signature := createSignature(encoded)

	c.SetCookie(filterCookieName, signature+"."+encoded, int(filterCookieMaxAge.Seconds()), "/", "", false, true)
	c.Set(filterContextKey, &filter)

	return nil
}

// ClearFilterState removes the filter cookie
func ClearFilterState(c *gin.Context) {
	c.SetCookie(filterCookieName, "", -1, "/", "", false, true)
}

// GetFilterState returns the remembered selection, or nil when there is none
func GetFilterState(c *gin.Context) *models.DiscussionFilter {
	value, exists := c.Get(filterContextKey)
	if !exists {
		return nil
	}

	if filter, ok := value.(*models.DiscussionFilter); ok {
		return filter
	}

	return nil
}

func createSignature(data string) string {
	h := hmac.New(sha256.New, []byte(sessionSecret()))
	h.Write([]byte(data))
	return base64.URLEncoding.EncodeToString(h.Sum(nil))
}

func verifySignature(data, signature string) bool {
	expected := createSignature(data)
	return hmac.Equal([]byte(signature), []byte(expected))
}

func sessionSecret() string {
	if config.AppConfig == nil {
		return ""
	}
	return config.AppConfig.Session.Secret
}
