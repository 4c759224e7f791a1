package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Response is the body of every API reply. Code is the HTTP status and is
// not serialized.
type Response struct {
	Code    int    `json:"-"`
	Status  string `json:"status"`
	Message string `json:"message"`
	Result  any    `json:"result"`
}

func Success(c *gin.Context, code int, msg string, result any) {
	c.JSON(code, Response{Code: code, Status: StatusSuccess, Message: msg, Result: result})
}

// AbortWithError records err on the context for the logging middleware and
// replies with msg only. err must not be nil.
func AbortWithError(c *gin.Context, code int, err error, msg string) {
	if err == nil {
		panic("AbortWithError: err cannot be nil")
	}

	resp := Response{Code: code, Status: StatusError, Message: msg}

	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(code, resp)
}

func InternalError() Response {
	return Response{Code: http.StatusInternalServerError, Status: StatusError, Message: "Internal server error"}
}
