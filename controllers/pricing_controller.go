package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"stayhub/dto"
	"stayhub/response"
	"stayhub/services"
	"stayhub/utils"
	"stayhub/validator"
)

// PricingController là surface HTTP cho pricing engine
type PricingController struct {
	pricing *services.PricingService
}

// NewPricingController tạo controller mới
func NewPricingController(pricing *services.PricingService) *PricingController {
	return &PricingController{pricing: pricing}
}

// SuggestPrice gợi ý giá đêm cho property trong path
func (ctrl *PricingController) SuggestPrice(c *gin.Context) {
	propertyID := c.Param("id")
	if err := validator.ValidateID(propertyID); err != nil {
		response.FromError(c, err)
		return
	}

	suggestion, err := ctrl.pricing.SuggestPrice(propertyID)
	if err != nil {
		utils.LogError("Gợi ý giá cho property %s thất bại: %v", propertyID, err)
		response.FromError(c, err)
		return
	}
	response.Success(c, suggestion)
}

// SuggestPriceByBody gợi ý giá với propertyId trong body
func (ctrl *PricingController) SuggestPriceByBody(c *gin.Context) {
	var req dto.SuggestPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Dữ liệu không hợp lệ: "+err.Error())
		return
	}
	if err := validator.ValidateID(req.PropertyID); err != nil {
		response.FromError(c, err)
		return
	}

	suggestion, err := ctrl.pricing.SuggestPrice(req.PropertyID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, suggestion)
}

// PriceHistory trả về các lần tính giá gần nhất của property
func (ctrl *PricingController) PriceHistory(c *gin.Context) {
	propertyID := c.Param("id")
	if err := validator.ValidateID(propertyID); err != nil {
		response.FromError(c, err)
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	history, err := ctrl.pricing.PriceHistory(propertyID, limit)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, history)
}
