package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"stayhub/dto"
	"stayhub/response"
	"stayhub/services"
	"stayhub/utils"
)

// BookingController là surface HTTP cho vòng đời booking
type BookingController struct {
	bookings *services.BookingService
}

// NewBookingController tạo controller mới
func NewBookingController(bookings *services.BookingService) *BookingController {
	return &BookingController{bookings: bookings}
}

// CreateQuote tạo báo giá mới cho một property và khoảng ngày
func (ctrl *BookingController) CreateQuote(c *gin.Context) {
	var req dto.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Dữ liệu không hợp lệ: "+err.Error())
		return
	}

	result, err := ctrl.bookings.CreateQuote(req)
	if err != nil {
		utils.LogError("Tạo quote thất bại: %v", err)
		response.FromError(c, err)
		return
	}
	response.Success(c, result)
}

// Chat tiếp tục hội thoại của một booking
func (ctrl *BookingController) Chat(c *gin.Context) {
	var req dto.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Dữ liệu không hợp lệ: "+err.Error())
		return
	}

	reply, err := ctrl.bookings.Chat(c.Param("id"), req.Message)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, dto.ChatResponse{Reply: reply})
}

// Confirm xác nhận booking, re-check lịch trống nguyên tử
func (ctrl *BookingController) Confirm(c *gin.Context) {
	message, err := ctrl.bookings.Confirm(c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, gin.H{"message": message})
}

// Cancel hủy booking (chỉ đổi status)
func (ctrl *BookingController) Cancel(c *gin.Context) {
	if err := ctrl.bookings.Cancel(c.Param("id")); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, gin.H{"message": "Booking cancelled"})
}

// GetBooking trả về chi tiết một booking
func (ctrl *BookingController) GetBooking(c *gin.Context) {
	booking, err := ctrl.bookings.GetBooking(c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, booking)
}

// ListBookings liệt kê booking, lọc tùy chọn theo propertyId/status
func (ctrl *BookingController) ListBookings(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	bookings, err := ctrl.bookings.ListBookings(c.Query("propertyId"), c.Query("status"), limit)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, bookings)
}

// Transcript trả về hội thoại của booking
func (ctrl *BookingController) Transcript(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	messages, err := ctrl.bookings.Transcript(c.Param("id"), limit)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, messages)
}

// CheckAvailability kiểm tra lịch trống của property theo khoảng ngày
func (ctrl *BookingController) CheckAvailability(c *gin.Context) {
	result, err := ctrl.bookings.CheckAvailability(
		c.Query("propertyId"),
		c.Query("startDate"),
		c.Query("endDate"),
		c.Query("excludeBookingId"),
	)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, result)
}
