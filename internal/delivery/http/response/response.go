package response

import (
	"github.com/gin-gonic/gin"
)

// Response standardizes the API JSON response
type Response struct {
	StatusCode int         `json:"statusCode"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data,omitempty"`
	Error      interface{} `json:"error,omitempty"`
	RequestID  string      `json:"requestId,omitempty"`
}

// Paginated wraps a page of items with its total count.
type Paginated struct {
	Items    interface{} `json:"items"`
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"pageSize"`
}

func requestID(c *gin.Context) string {
	reqID, _ := c.Get("RequestID")
	idStr, _ := reqID.(string)
	return idStr
}

// Success sends a success response
func Success(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, Response{
		StatusCode: code,
		Message:    message,
		Data:       data,
		RequestID:  requestID(c),
	})
}

// Error sends an error response. err is the machine-readable kind.
func Error(c *gin.Context, code int, message string, err interface{}) {
	c.JSON(code, Response{
		StatusCode: code,
		Message:    message,
		Error:      err,
		RequestID:  requestID(c),
	})
}
