package routes

import (
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"stayhub/constants"
	"stayhub/controllers"
	middlewares "stayhub/middleware"
	"stayhub/repositories"
	"stayhub/services"
)

// SetupRoutes khởi tạo repository, service, controller và gắn route.
// Trả về PricingService để main đăng ký cho cron refresh giá hằng đêm.
func SetupRoutes(router *gin.Engine, db *gorm.DB, redisCli *redis.Client, cld *cloudinary.Cloudinary, m *melody.Melody) *services.PricingService {

	propertyRepo := repositories.NewPropertyRepository(db)
	bookingRepo := repositories.NewBookingRepository(db)
	historyRepo := repositories.NewPriceHistoryRepository(db)
	chatRepo := repositories.NewChatRepository(db)

	advisory := services.NewAdvisoryClient(services.AdvisoryOptions{})

	pricingService := services.NewPricingService(services.PricingServiceOptions{
		Properties: propertyRepo,
		History:    historyRepo,
		Advisory:   advisory,
	})
	bookingService := services.NewBookingService(services.BookingServiceOptions{
		Bookings:   bookingRepo,
		Properties: propertyRepo,
		Chats:      chatRepo,
		Pricing:    pricingService,
		Advisory:   advisory,
	})
	hostService := services.NewHostService(services.HostServiceOptions{
		Properties: propertyRepo,
		Bookings:   bookingRepo,
		Chats:      chatRepo,
		Advisory:   advisory,
		Redis:      redisCli,
	})

	bookingController := controllers.NewBookingController(bookingService)
	pricingController := controllers.NewPricingController(pricingService)
	hostController := controllers.NewHostController(hostService)
	propertyController := controllers.NewPropertyController(propertyRepo)

	v1 := router.Group("/api/v1")

	v1.POST("/bookings/quote", bookingController.CreateQuote)
	v1.GET("/bookings", bookingController.ListBookings)
	v1.GET("/bookings/:id", bookingController.GetBooking)
	v1.POST("/bookings/:id/chat", bookingController.Chat)
	v1.POST("/bookings/:id/confirm", bookingController.Confirm)
	v1.POST("/bookings/:id/cancel", bookingController.Cancel)
	v1.GET("/bookings/:id/transcript", bookingController.Transcript)
	v1.GET("/availability", bookingController.CheckAvailability)

	v1.GET("/pricing/suggest/:id", pricingController.SuggestPrice)
	v1.POST("/pricing/suggest", pricingController.SuggestPriceByBody)
	v1.GET("/pricing/history/:id", pricingController.PriceHistory)

	v1.GET("/hosts/:id/advice", middlewares.AuthMiddleware(constants.RoleHost, constants.RoleAdmin), hostController.GetAdvice)
	v1.GET("/hosts/:id/metrics", middlewares.AuthMiddleware(constants.RoleHost, constants.RoleAdmin), hostController.GetMetrics)
	v1.POST("/hosts/:id/ask", middlewares.AuthMiddleware(constants.RoleHost, constants.RoleAdmin), hostController.Ask)

	v1.GET("/properties", propertyController.ListProperties)
	v1.GET("/properties/:id", propertyController.GetProperty)
	v1.POST("/properties", middlewares.AuthMiddleware(constants.RoleHost, constants.RoleAdmin), propertyController.CreateProperty)
	v1.PUT("/properties/:id", middlewares.AuthMiddleware(constants.RoleHost, constants.RoleAdmin), propertyController.UpdateProperty)
	v1.POST("/properties/:id/images", middlewares.AuthMiddleware(constants.RoleHost, constants.RoleAdmin), propertyController.UploadImages)

	//ws
	dispatcher := services.NewChatDispatcher(bookingService, hostService, nil)
	dispatcher.HandleWS(m)

	return pricingService
}
