package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stayhub/errors"
)

// Response định nghĩa cấu trúc response
type Response struct {
	Code int         `json:"code"`
	Mess string      `json:"mess"`
	Data interface{} `json:"data,omitempty"`
}

// Success trả về response thành công
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code: 1,
		Mess: "Thành công",
		Data: data,
	})
}

// BadRequest trả về response lỗi bad request
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Response{
		Code: 0,
		Mess: message,
	})
}

// NotFound trả về response không tìm thấy
func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "Không tìm thấy"
	}
	c.JSON(http.StatusNotFound, Response{
		Code: 0,
		Mess: message,
	})
}

// Conflict trả về response conflict (409)
func Conflict(c *gin.Context, message string) {
	if message == "" {
		message = "Xung đột dữ liệu"
	}
	c.JSON(http.StatusConflict, Response{
		Code: 0,
		Mess: message,
	})
}

// ServerError trả về response lỗi server
func ServerError(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, Response{
		Code: 0,
		Mess: "Lỗi server",
	})
}

// Unauthorized trả về response chưa xác thực
func Unauthorized(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, Response{
		Code: 0,
		Mess: "Chưa xác thực",
	})
}

// Forbidden trả về response không có quyền
func Forbidden(c *gin.Context) {
	c.JSON(http.StatusForbidden, Response{
		Code: 0,
		Mess: "Không có quyền truy cập",
	})
}

// FromError map AppError sang HTTP status tương ứng
func FromError(c *gin.Context, err error) {
	appErr := errors.GetAppError(err)
	if appErr == nil {
		ServerError(c)
		return
	}
	switch appErr.Code {
	case errors.ErrCodeNotFound, errors.ErrCodePropertyNotFound,
		errors.ErrCodeBookingNotFound, errors.ErrCodeHostNotFound:
		NotFound(c, appErr.Message)
	case errors.ErrCodeConflict, errors.ErrCodeAlreadyConfirmed:
		Conflict(c, appErr.Message)
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidID,
		errors.ErrCodeInvalidDate, errors.ErrCodeRequiredField,
		errors.ErrCodeInvalidStatus:
		BadRequest(c, appErr.Message)
	case errors.ErrCodeUnauthorized, errors.ErrCodeInvalidToken:
		Unauthorized(c)
	default:
		ServerError(c)
	}
}
