package middleware

import (
	"net/http"
	"strings"

	"github.com/SscSPs/splitledger/internal/utils"
	"github.com/gin-gonic/gin"
)

// trackedRoutes names the ledger actions worth an analytics event.
// Keys are "METHOD fullpath" as registered on the router.
var trackedRoutes = map[string]string{
	"POST /api/v1/events":                           "event_created",
	"PATCH /api/v1/events/:eventID":                 "event_updated",
	"DELETE /api/v1/events/:eventID":                "event_deleted",
	"POST /api/v1/events/:eventID/link":             "event_linked",
	"POST /api/v1/events/:eventID/close":            "event_close_requested",
	"POST /api/v1/events/:eventID/expenses":         "expense_logged",
	"POST /api/v1/expenses/:expenseID/votes":        "expense_vote_cast",
	"POST /api/v1/events/:eventID/payments":         "payment_recorded",
	"POST /api/v1/events/:eventID/payments/confirm": "payment_confirmed",
	"POST /api/v1/payments/:paymentID/confirm":      "payment_confirmed",
	"GET /api/v1/events/:eventID/settlements":       "settlements_viewed",
	"GET /api/v1/events/:eventID/balances":          "balances_viewed",
}

// trackedParams are the route parameters copied onto analytics events.
var trackedParams = []string{"eventID", "expenseID", "paymentID"}

// PosthogMiddleware reports successful ledger actions to PostHog, attributed
// to the authenticated handle. Reads and anonymous requests that are not listed
// in trackedRoutes are ignored.
func PosthogMiddleware(posthogClient *utils.PosthogClientWrapper) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !posthogClient.IsInitialized() {
			c.Next()
			return
		}

		c.Next()

		if len(c.Errors) > 0 || c.Writer.Status() >= http.StatusBadRequest {
			return
		}
		eventName, ok := trackedRoutes[c.Request.Method+" "+c.FullPath()]
		if !ok {
			return
		}
		handle, exists := GetHandleFromContext(c)
		if !exists {
			return
		}

		props := map[string]any{"status_code": c.Writer.Status()}
		for _, key := range trackedParams {
			if v := c.Param(key); v != "" {
				props[toSnake(key)] = v
			}
		}
		posthogClient.Enqueue(handle, eventName, props)
	}
}

// PosthogEvent sends a custom event attributed to the caller, e.g. a refused close.
func PosthogEvent(c *gin.Context, posthogClient *utils.PosthogClientWrapper, eventName string, properties map[string]any) {
	if !posthogClient.IsInitialized() {
		return
	}
	handle, exists := GetHandleFromContext(c)
	if !exists {
		return
	}

	if properties == nil {
		properties = make(map[string]any)
	}
	properties["method"] = c.Request.Method
	properties["route"] = c.FullPath()
	posthogClient.Enqueue(handle, eventName, properties)
}

// toSnake converts a route parameter name such as "eventID" to "event_id".
func toSnake(param string) string {
	if strings.HasSuffix(param, "ID") {
		return strings.ToLower(strings.TrimSuffix(param, "ID")) + "_id"
	}
	return strings.ToLower(param)
}
