package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error carries an HTTP status, a stable machine code and a user-facing
// message. Details is the optional developer-facing error string, never
// raw provider output.
type Error struct {
	Code    int
	ErrCode string
	Message string
	Details string
}

type HandlerFunc func(ctx *gin.Context) (any, *Error)

// ResolveEndpoint adapts a HandlerFunc to gin: the result is serialized as
// JSON, an *Error becomes a JSON error body with its status.
func ResolveEndpoint(h HandlerFunc) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		result, apiErr := h(ctx)
		if apiErr != nil {
			body := gin.H{"error": apiErr.Message}
			if apiErr.ErrCode != "" {
				body["code"] = apiErr.ErrCode
			}
			if apiErr.Details != "" {
				body["details"] = apiErr.Details
			}
			ctx.JSON(apiErr.Code, body)
			return
		}
		ctx.JSON(http.StatusOK, result)
	}
}
