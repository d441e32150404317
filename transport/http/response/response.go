package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kochabonline/mcstatus/errors"
)

type Response struct {
	Code     int               `json:"code"`
	Data     any               `json:"data"`
	Message  string            `json:"message"`
	Reason   string            `json:"reason,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

func NewResponse(code int, data any, message string) *Response {
	return &Response{
		Code:    code,
		Data:    data,
		Message: message,
	}
}

func GinJSON(c *gin.Context, data any) {
	c.JSON(http.StatusOK, NewResponse(http.StatusOK, data, ""))
}

// GinJSONError writes err as an envelope and aborts the chain.
// The error code doubles as HTTP status when it is a known one.
func GinJSONError(c *gin.Context, err error) {
	defer c.Abort()

	e := errors.FromError(err)
	httpCode := int(e.Code)

	if http.StatusText(httpCode) == "" {
		httpCode = http.StatusInternalServerError
	}

	_ = c.Error(err)

	resp := NewResponse(int(e.Code), nil, e.Message)
	resp.Reason = e.Reason
	resp.Metadata = e.GetMetadata()
	c.JSON(httpCode, resp)
}
