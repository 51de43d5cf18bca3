package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/roamly/api/internal/container"
	"github.com/roamly/api/internal/handlers"
	"github.com/roamly/api/internal/middleware"
	"github.com/roamly/api/internal/models"
)

// SetupRoutes configures all routes with the dependency container
func SetupRoutes(c *container.Container) *gin.Engine {
	if c.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(c.Logger))
	r.Use(gin.Recovery())

	auth := middleware.AuthMiddleware(c.Config.JWTSecret, c.Repo)
	adminOnly := middleware.RequireRoles(models.RoleAdmin, models.RoleSuperAdmin)
	guideOrAdmin := middleware.RequireRoles(models.RoleGuide, models.RoleAdmin, models.RoleSuperAdmin)

	cookieMaxAge := int(c.Config.JWTAccessTTL.Seconds())

	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", func(ctx *gin.Context) {
			ctx.JSON(200, gin.H{
				"status":  "OK",
				"service": "roamly-api",
			})
		})

		v1.POST("/auth/register", handlers.Register(c.UserService))
		v1.POST("/auth/login", handlers.Login(c.UserService, cookieMaxAge, c.Config.IsProduction()))
		v1.POST("/auth/logout", handlers.Logout())
	}

	userRoutes := v1.Group("/users")
	userRoutes.Use(auth)
	{
		userRoutes.GET("/me", handlers.GetMe(c.UserService))
		userRoutes.PATCH("/:id", handlers.UpdateUser(c.UserService))
		userRoutes.GET("", adminOnly, handlers.ListUsers(c.UserService))
		userRoutes.PATCH("/:id/status", adminOnly, handlers.UpdateUserStatus(c.UserService))
		userRoutes.DELETE("/:id", adminOnly, handlers.DeleteUser(c.UserService))
	}

	listingRoutes := v1.Group("/listing")
	{
		listingRoutes.GET("", handlers.ListTours(c.TourService))
		listingRoutes.GET("/search", handlers.SearchTours(c.TourService))
		listingRoutes.GET("/:key", handlers.GetTour(c.TourService))
		listingRoutes.POST("", auth, guideOrAdmin, handlers.CreateTour(c.TourService))
		listingRoutes.PATCH("/:key", auth, guideOrAdmin, handlers.UpdateTour(c.TourService))
		listingRoutes.DELETE("/:key", auth, guideOrAdmin, handlers.DeleteTour(c.TourService))
	}

	bookingRoutes := v1.Group("/booking")
	bookingRoutes.Use(auth)
	{
		bookingRoutes.POST("", handlers.CreateBooking(c.BookingService))
		bookingRoutes.GET("", handlers.ListBookings(c.BookingService))
		bookingRoutes.GET("/reserved/:authorId", handlers.GuideReservedDates(c.BookingService))
		bookingRoutes.GET("/:id", handlers.GetBooking(c.BookingService))
		bookingRoutes.PATCH("/status/:bookingId", handlers.UpdateBookingStatus(c.BookingService))
		bookingRoutes.PATCH("/cancel/:id", handlers.CancelBooking(c.BookingService))
	}

	paymentRoutes := v1.Group("/payment")
	{
		// Gateway callbacks, no auth: the gateway posts the customer back.
		paymentRoutes.POST("/success/:transactionId", handlers.SuccessPayment(c.PaymentService, c.Config.Gateway))
		paymentRoutes.POST("/fail/:transactionId", handlers.FailPayment(c.PaymentService, c.Config.Gateway))
		paymentRoutes.POST("/cancel/:transactionId", handlers.CancelPayment(c.PaymentService, c.Config.Gateway))
		paymentRoutes.POST("/validate-payment", handlers.ValidatePayment(c.PaymentService))

		paymentRoutes.POST("/init-payment/:bookingId", auth, handlers.InitPayment(c.PaymentService))
		paymentRoutes.GET("/invoice/:paymentId", auth, handlers.GetInvoiceDownloadURL(c.PaymentService))
		paymentRoutes.GET("", auth, adminOnly, handlers.ListPayments(c.PaymentService))
		paymentRoutes.GET("/:id", auth, adminOnly, handlers.GetPayment(c.PaymentService))
		paymentRoutes.PATCH("/:id", auth, adminOnly, handlers.UpdatePayment(c.PaymentService))
		paymentRoutes.DELETE("/:id", auth, adminOnly, handlers.DeletePayment(c.PaymentService))
	}

	reviewRoutes := v1.Group("/review")
	{
		reviewRoutes.GET("", handlers.ListReviews(c.ReviewService))
		reviewRoutes.GET("/me", auth, handlers.MyReviews(c.ReviewService))
		reviewRoutes.GET("/:id", handlers.GetReview(c.ReviewService))
		reviewRoutes.POST("/create", auth, handlers.CreateReview(c.ReviewService))
		reviewRoutes.PATCH("/:id", auth, handlers.UpdateReview(c.ReviewService))
		reviewRoutes.DELETE("/:id", auth, handlers.DeleteReview(c.ReviewService))
	}

	blogRoutes := v1.Group("/blog")
	{
		blogRoutes.GET("", handlers.ListBlogs(c.BlogService))
		blogRoutes.GET("/:slug", handlers.GetBlog(c.BlogService))
		blogRoutes.POST("/create", auth, adminOnly, handlers.CreateBlog(c.BlogService))
		blogRoutes.PATCH("/:id", auth, adminOnly, handlers.UpdateBlog(c.BlogService))
		blogRoutes.DELETE("/:id", auth, adminOnly, handlers.DeleteBlog(c.BlogService))
	}

	messageRoutes := v1.Group("/message")
	messageRoutes.Use(auth)
	{
		messageRoutes.POST("/create", handlers.CreateMessageRequest(c.MessageService))
		messageRoutes.GET("", handlers.GuideMessageRequests(c.MessageService))
	}

	statsRoutes := v1.Group("/stats")
	statsRoutes.Use(auth, adminOnly)
	{
		statsRoutes.GET("/users", handlers.UserStats(c.StatsService))
		statsRoutes.GET("/bookings", handlers.BookingStats(c.StatsService))
		statsRoutes.GET("/payments", handlers.PaymentStats(c.StatsService))
		statsRoutes.GET("/tours", handlers.TourStats(c.StatsService))
	}

	return r
}
