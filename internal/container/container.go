package container

import (
	"log/slog"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/roamly/api/internal/config"
	"github.com/roamly/api/internal/events"
	"github.com/roamly/api/internal/gateway"
	"github.com/roamly/api/internal/mailer"
	"github.com/roamly/api/internal/models"
	"github.com/roamly/api/internal/services"
	"go.mongodb.org/mongo-driver/mongo"
)

// Container holds all application dependencies
type Container struct {
	Config        *config.Config
	Logger        *slog.Logger
	Cloudinary    *cloudinary.Cloudinary
	MongoDBClient *mongo.Client
	Repo          *models.MongodbRepo
	Events        *events.Publisher

	UserService    *services.UserService
	TourService    *services.TourService
	BookingService *services.BookingService
	PaymentService *services.PaymentService
	ReviewService  *services.ReviewService
	StatsService   *services.StatsService
	BlogService    *services.BlogService
	MessageService *services.MessageService
}

// NewContainer wires repositories, external clients and services.
func NewContainer(
	cfg *config.Config,
	logger *slog.Logger,
	cld *cloudinary.Cloudinary,
	mongoClient *mongo.Client,
) *Container {
	repo := models.MongodbNewRepo(mongoClient)
	gw := gateway.NewClient(cfg.Gateway)
	mail := mailer.New(cfg.SMTP)
	publisher := events.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, logger)

	userService := services.NewUserService(repo, cfg.JWTSecret, cfg.JWTAccessTTL, logger)
	tourService := services.NewTourService(repo, repo, repo, cld, logger)
	bookingService := services.NewBookingService(repo, repo, repo, repo, gw, publisher, logger)
	paymentService := services.NewPaymentService(repo, repo, repo, repo, gw, cld, mail, publisher, logger)
	reviewService := services.NewReviewService(repo, repo, logger)
	statsService := services.NewStatsService(repo, logger)
	blogService := services.NewBlogService(repo, cld, logger)
	messageService := services.NewMessageService(repo, repo, logger)

	return &Container{
		Config:         cfg,
		Logger:         logger,
		Cloudinary:     cld,
		MongoDBClient:  mongoClient,
		Repo:           repo,
		Events:         publisher,
		UserService:    userService,
		TourService:    tourService,
		BookingService: bookingService,
		PaymentService: paymentService,
		ReviewService:  reviewService,
		StatsService:   statsService,
		BlogService:    blogService,
		MessageService: messageService,
	}
}
