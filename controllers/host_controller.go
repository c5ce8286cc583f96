package controllers

import (
	"github.com/gin-gonic/gin"

	"stayhub/dto"
	"stayhub/response"
	"stayhub/services"
	"stayhub/utils"
)

// HostController là surface HTTP cho metrics và tư vấn host
type HostController struct {
	hosts *services.HostService
}

// NewHostController tạo controller mới
func NewHostController(hosts *services.HostService) *HostController {
	return &HostController{hosts: hosts}
}

// GetAdvice trả tư vấn portfolio, hỗ trợ ?focus=<category>
func (ctrl *HostController) GetAdvice(c *gin.Context) {
	result, err := ctrl.hosts.GetHostAdvice(c.Param("id"), c.Query("focus"))
	if err != nil {
		utils.LogError("Tư vấn host %s thất bại: %v", c.Param("id"), err)
		response.FromError(c, err)
		return
	}
	response.Success(c, result)
}

// GetMetrics trả thống kê portfolio 90 ngày của host
func (ctrl *HostController) GetMetrics(c *gin.Context) {
	metrics, _, err := ctrl.hosts.AggregateMetrics(c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, metrics)
}

// Ask hỏi đáp tự do của host kèm phiên hội thoại
func (ctrl *HostController) Ask(c *gin.Context) {
	var req dto.HostAskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Dữ liệu không hợp lệ: "+err.Error())
		return
	}

	result, err := ctrl.hosts.Ask(c.Param("id"), req.Question, req.SessionID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, result)
}
