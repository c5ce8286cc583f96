package controllers

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/gin-gonic/gin"
	"github.com/lib/pq"

	"stayhub/config"
	"stayhub/dto"
	apperrors "stayhub/errors"
	"stayhub/models"
	"stayhub/repositories"
	"stayhub/response"
	"stayhub/utils"
	"stayhub/validator"
)

// PropertyController là surface HTTP quản lý property
type PropertyController struct {
	properties repositories.PropertyRepository
}

// NewPropertyController tạo controller mới
func NewPropertyController(properties repositories.PropertyRepository) *PropertyController {
	return &PropertyController{properties: properties}
}

// CreateProperty tạo property mới cho host đang đăng nhập
func (ctrl *PropertyController) CreateProperty(c *gin.Context) {
	var req dto.PropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Dữ liệu không hợp lệ: "+err.Error())
		return
	}

	hostID := c.GetString("userID")
	if hostID == "" {
		hostID = c.Query("hostId")
	}
	if err := validator.ValidateID(hostID); err != nil {
		response.FromError(c, err)
		return
	}

	prop := &models.Property{
		HostID:        hostID,
		Title:         req.Title,
		Description:   req.Description,
		Address:       req.Address,
		City:          req.City,
		Country:       req.Country,
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
		Rooms:         req.Rooms,
		Amenities:     pq.StringArray(req.Amenities),
		PricePerNight: req.PricePerNight,
		IsAvailable:   true,
	}
	if err := validator.ValidateProperty(prop); err != nil {
		response.FromError(c, err)
		return
	}

	if err := ctrl.properties.Create(prop); err != nil {
		utils.LogError("Tạo property thất bại: %v", err)
		response.ServerError(c)
		return
	}
	response.Success(c, prop)
}

// GetProperty trả về chi tiết một property
func (ctrl *PropertyController) GetProperty(c *gin.Context) {
	id := c.Param("id")
	if err := validator.ValidateID(id); err != nil {
		response.FromError(c, err)
		return
	}

	prop, err := ctrl.properties.GetByID(id)
	if err != nil {
		response.ServerError(c)
		return
	}
	if prop == nil {
		response.FromError(c, apperrors.ErrPropertyNotFound)
		return
	}
	response.Success(c, prop)
}

// ListProperties liệt kê property, lọc tùy chọn theo city/hostId
func (ctrl *PropertyController) ListProperties(c *gin.Context) {
	if hostID := c.Query("hostId"); hostID != "" {
		if err := validator.ValidateID(hostID); err != nil {
			response.FromError(c, err)
			return
		}
		props, err := ctrl.properties.FindByHost(hostID)
		if err != nil {
			response.ServerError(c)
			return
		}
		response.Success(c, toSummaries(props))
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	var props []models.Property
	var err error
	if city := c.Query("city"); city != "" {
		props, err = ctrl.properties.FindByCity(city, "", limit)
	} else {
		props, err = ctrl.properties.FindAll(limit)
	}
	if err != nil {
		response.ServerError(c)
		return
	}
	response.Success(c, toSummaries(props))
}

// UpdateProperty cập nhật thông tin property
func (ctrl *PropertyController) UpdateProperty(c *gin.Context) {
	id := c.Param("id")
	if err := validator.ValidateID(id); err != nil {
		response.FromError(c, err)
		return
	}

	prop, err := ctrl.properties.GetByID(id)
	if err != nil {
		response.ServerError(c)
		return
	}
	if prop == nil {
		response.FromError(c, apperrors.ErrPropertyNotFound)
		return
	}

	var req dto.PropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Dữ liệu không hợp lệ: "+err.Error())
		return
	}

	prop.Title = req.Title
	prop.Description = req.Description
	prop.Address = req.Address
	prop.City = req.City
	prop.Country = req.Country
	prop.Latitude = req.Latitude
	prop.Longitude = req.Longitude
	if req.Rooms != nil {
		prop.Rooms = req.Rooms
	}
	if req.Amenities != nil {
		prop.Amenities = pq.StringArray(req.Amenities)
	}
	prop.PricePerNight = req.PricePerNight
	if err := validator.ValidateProperty(prop); err != nil {
		response.FromError(c, err)
		return
	}

	if err := ctrl.properties.Update(prop); err != nil {
		utils.LogError("Cập nhật property %s thất bại: %v", id, err)
		response.ServerError(c)
		return
	}
	response.Success(c, prop)
}

// UploadImages upload ảnh property lên Cloudinary và gắn URL vào property
func (ctrl *PropertyController) UploadImages(c *gin.Context) {
	id := c.Param("id")
	if err := validator.ValidateID(id); err != nil {
		response.FromError(c, err)
		return
	}

	prop, err := ctrl.properties.GetByID(id)
	if err != nil {
		response.ServerError(c)
		return
	}
	if prop == nil {
		response.FromError(c, apperrors.ErrPropertyNotFound)
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		response.BadRequest(c, "Không đọc được form upload")
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		response.BadRequest(c, "Không có file nào được gửi lên")
		return
	}

	var urls []string
	if len(prop.Img) > 0 {
		if err := json.Unmarshal(prop.Img, &urls); err != nil {
			urls = nil
		}
	}

	for _, file := range files {
		src, err := file.Open()
		if err != nil {
			response.BadRequest(c, "Lỗi khi mở file")
			return
		}

		ctx := context.Background()
		resp, err := config.Cloudinary.Upload.Upload(ctx, src, uploader.UploadParams{Folder: "properties"})
		src.Close()
		if err != nil {
			utils.LogError("Upload ảnh cho property %s thất bại: %v", id, err)
			response.ServerError(c)
			return
		}
		urls = append(urls, resp.SecureURL)
	}

	imgJSON, err := json.Marshal(urls)
	if err != nil {
		response.ServerError(c)
		return
	}
	prop.Img = imgJSON
	if err := ctrl.properties.Update(prop); err != nil {
		response.ServerError(c)
		return
	}
	response.Success(c, gin.H{"urls": urls})
}

func toSummaries(props []models.Property) []dto.PropertySummary {
	summaries := make([]dto.PropertySummary, 0, len(props))
	for i := range props {
		p := &props[i]
		summaries = append(summaries, dto.PropertySummary{
			ID:            p.ID,
			Title:         p.Title,
			City:          p.City,
			Country:       p.Country,
			PricePerNight: p.ListedPrice(),
			Amenities:     p.Amenities,
		})
	}
	return summaries
}
