package services

import (
	"context"
	"io"
	"log/slog"

	"github.com/roamly/api/internal/gateway"
	"github.com/roamly/api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func runTx(ctx context.Context, fn func(sc mongo.SessionContext) error) error {
	return fn(mongo.NewSessionContext(ctx, nil))
}

// Mock repositories for testing

type mockBookingRepo struct {
	insertBookingFunc       func(ctx context.Context, booking *models.Booking) (*models.Booking, error)
	setPaymentRefFunc       func(ctx context.Context, bookingID, paymentID primitive.ObjectID) (*models.Booking, error)
	getBookingByIDFunc      func(ctx context.Context, id primitive.ObjectID) (*models.Booking, error)
	getBookingDetailFunc    func(ctx context.Context, id primitive.ObjectID) (*models.BookingDetail, error)
	findOwnBookingFunc      func(ctx context.Context, id, userID primitive.ObjectID) (*models.Booking, error)
	updateBookingFieldsFunc func(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Booking, error)
	appendStatusFunc        func(ctx context.Context, id primitive.ObjectID, log models.StatusLog) (*models.Booking, error)
	listBookingsFunc        func(ctx context.Context, base bson.M, params map[string]string) ([]*models.BookingDetail, *models.Meta, error)
	guideBookingDatesFunc   func(ctx context.Context, guideID primitive.ObjectID) ([]string, error)
}

func (m *mockBookingRepo) InsertBooking(ctx context.Context, booking *models.Booking) (*models.Booking, error) {
	if m.insertBookingFunc != nil {
		return m.insertBookingFunc(ctx, booking)
	}
	if booking.ID.IsZero() {
		booking.ID = primitive.NewObjectID()
	}
	return booking, nil
}

func (m *mockBookingRepo) SetPaymentRef(ctx context.Context, bookingID, paymentID primitive.ObjectID) (*models.Booking, error) {
	if m.setPaymentRefFunc != nil {
		return m.setPaymentRefFunc(ctx, bookingID, paymentID)
	}
	return &models.Booking{ID: bookingID, Payment: paymentID}, nil
}

func (m *mockBookingRepo) GetBookingByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error) {
	if m.getBookingByIDFunc != nil {
		return m.getBookingByIDFunc(ctx, id)
	}
	return nil, mongo.ErrNoDocuments
}

func (m *mockBookingRepo) GetBookingDetail(ctx context.Context, id primitive.ObjectID) (*models.BookingDetail, error) {
	if m.getBookingDetailFunc != nil {
		return m.getBookingDetailFunc(ctx, id)
	}
	return nil, mongo.ErrNoDocuments
}

func (m *mockBookingRepo) FindOwnBooking(ctx context.Context, id, userID primitive.ObjectID) (*models.Booking, error) {
	if m.findOwnBookingFunc != nil {
		return m.findOwnBookingFunc(ctx, id, userID)
	}
	return nil, mongo.ErrNoDocuments
}

func (m *mockBookingRepo) UpdateBookingFields(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Booking, error) {
	if m.updateBookingFieldsFunc != nil {
		return m.updateBookingFieldsFunc(ctx, id, set)
	}
	return &models.Booking{ID: id}, nil
}

func (m *mockBookingRepo) AppendStatus(ctx context.Context, id primitive.ObjectID, log models.StatusLog) (*models.Booking, error) {
	if m.appendStatusFunc != nil {
		return m.appendStatusFunc(ctx, id, log)
	}
	return &models.Booking{ID: id, Status: log.Status, StatusLogs: []models.StatusLog{log}}, nil
}

func (m *mockBookingRepo) ListBookings(ctx context.Context, base bson.M, params map[string]string) ([]*models.BookingDetail, *models.Meta, error) {
	if m.listBookingsFunc != nil {
		return m.listBookingsFunc(ctx, base, params)
	}
	return []*models.BookingDetail{}, &models.Meta{Page: 1, Limit: 10}, nil
}

func (m *mockBookingRepo) GuideBookingDates(ctx context.Context, guideID primitive.ObjectID) ([]string, error) {
	if m.guideBookingDatesFunc != nil {
		return m.guideBookingDatesFunc(ctx, guideID)
	}
	return []string{}, nil
}

func (m *mockBookingRepo) WithTransaction(ctx context.Context, fn func(sc mongo.SessionContext) error) error {
	return runTx(ctx, fn)
}

type mockPaymentRepo struct {
	insertPaymentFunc               func(ctx context.Context, payment *models.Payment) (*models.Payment, error)
	getPaymentByIDFunc              func(ctx context.Context, id primitive.ObjectID) (*models.Payment, error)
	getPaymentByBookingFunc         func(ctx context.Context, bookingID primitive.ObjectID) (*models.Payment, error)
	getPaymentByTransactionIDFunc   func(ctx context.Context, transactionID string) (*models.Payment, error)
	updateStatusByTransactionIDFunc func(ctx context.Context, transactionID string, status models.PaymentStatus) (*models.Payment, error)
	updatePaymentStatusFunc         func(ctx context.Context, id primitive.ObjectID, status models.PaymentStatus) (*models.Payment, error)
	setInvoiceURLFunc               func(ctx context.Context, id primitive.ObjectID, url string) error
	listPaymentsFunc                func(ctx context.Context, params map[string]string) ([]*models.Payment, *models.Meta, error)
	deletePaymentFunc               func(ctx context.Context, id primitive.ObjectID) error
}

func (m *mockPaymentRepo) InsertPayment(ctx context.Context, payment *models.Payment) (*models.Payment, error) {
	if m.insertPaymentFunc != nil {
		return m.insertPaymentFunc(ctx, payment)
	}
	if payment.ID.IsZero() {
		payment.ID = primitive.NewObjectID()
	}
	return payment, nil
}

func (m *mockPaymentRepo) GetPaymentByID(ctx context.Context, id primitive.ObjectID) (*models.Payment, error) {
	if m.getPaymentByIDFunc != nil {
		return m.getPaymentByIDFunc(ctx, id)
	}
	return nil, mongo.ErrNoDocuments
}

func (m *mockPaymentRepo) GetPaymentByBooking(ctx context.Context, bookingID primitive.ObjectID) (*models.Payment, error) {
	if m.getPaymentByBookingFunc != nil {
		return m.getPaymentByBookingFunc(ctx, bookingID)
	}
	return nil, mongo.ErrNoDocuments
}

func (m *mockPaymentRepo) GetPaymentByTransactionID(ctx context.Context, transactionID string) (*models.Payment, error) {
	if m.getPaymentByTransactionIDFunc != nil {
		return m.getPaymentByTransactionIDFunc(ctx, transactionID)
	}
	return nil, mongo.ErrNoDocuments
}

func (m *mockPaymentRepo) UpdateStatusByTransactionID(ctx context.Context, transactionID string, status models.PaymentStatus) (*models.Payment, error) {
	if m.updateStatusByTransactionIDFunc != nil {
		return m.updateStatusByTransactionIDFunc(ctx, transactionID, status)
	}
	return nil, mongo.ErrNoDocuments
}

func (m *mockPaymentRepo) UpdatePaymentStatus(ctx context.Context, id primitive.ObjectID, status models.PaymentStatus) (*models.Payment, error) {
	if m.updatePaymentStatusFunc != nil {
		return m.updatePaymentStatusFunc(ctx, id, status)
	}
	return &models.Payment{ID: id, Status: status}, nil
}

func (m *mockPaymentRepo) SetInvoiceURL(ctx context.Context, id primitive.ObjectID, url string) error {
	if m.setInvoiceURLFunc != nil {
		return m.setInvoiceURLFunc(ctx, id, url)
	}
	return nil
}

func (m *mockPaymentRepo) ListPayments(ctx context.Context, params map[string]string) ([]*models.Payment, *models.Meta, error) {
	if m.listPaymentsFunc != nil {
		return m.listPaymentsFunc(ctx, params)
	}
	return []*models.Payment{}, &models.Meta{Page: 1, Limit: 10}, nil
}

func (m *mockPaymentRepo) DeletePayment(ctx context.Context, id primitive.ObjectID) error {
	if m.deletePaymentFunc != nil {
		return m.deletePaymentFunc(ctx, id)
	}
	return nil
}

func (m *mockPaymentRepo) WithTransaction(ctx context.Context, fn func(sc mongo.SessionContext) error) error {
	return runTx(ctx, fn)
}

type mockTourRepo struct {
	createTourFunc    func(ctx context.Context, tour *models.Tour) (*models.Tour, error)
	getTourByIDFunc   func(ctx context.Context, id primitive.ObjectID) (*models.Tour, error)
	getTourBySlugFunc func(ctx context.Context, slug string) (*models.Tour, error)
	slugTakenFunc     func(ctx context.Context, slug string, exclude primitive.ObjectID) (bool, error)
	updateTourFunc    func(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Tour, error)
	deleteTourFunc    func(ctx context.Context, id primitive.ObjectID) error
	listToursFunc     func(ctx context.Context, params map[string]string) ([]*models.Tour, *models.Meta, error)
	searchToursFunc   func(ctx context.Context, params map[string]string) ([]*models.Tour, *models.Meta, error)
}

func (m *mockTourRepo) CreateTour(ctx context.Context, tour *models.Tour) (*models.Tour, error) {
	if m.createTourFunc != nil {
		return m.createTourFunc(ctx, tour)
	}
	if tour.ID.IsZero() {
		tour.ID = primitive.NewObjectID()
	}
	return tour, nil
}

func (m *mockTourRepo) GetTourByID(ctx context.Context, id primitive.ObjectID) (*models.Tour, error) {
	if m.getTourByIDFunc != nil {
		return m.getTourByIDFunc(ctx, id)
	}
	return nil, mongo.ErrNoDocuments
}

func (m *mockTourRepo) GetTourBySlug(ctx context.Context, slug string) (*models.Tour, error) {
	if m.getTourBySlugFunc != nil {
		return m.getTourBySlugFunc(ctx, slug)
	}
	return nil, mongo.ErrNoDocuments
}

func (m *mockTourRepo) SlugTaken(ctx context.Context, slug string, exclude primitive.ObjectID) (bool, error) {
	if m.slugTakenFunc != nil {
		return m.slugTakenFunc(ctx, slug, exclude)
	}
	return false, nil
}

func (m *mockTourRepo) UpdateTour(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Tour, error) {
	if m.updateTourFunc != nil {
		return m.updateTourFunc(ctx, id, set)
	}
	return &models.Tour{ID: id}, nil
}

func (m *mockTourRepo) DeleteTour(ctx context.Context, id primitive.ObjectID) error {
	if m.deleteTourFunc != nil {
		return m.deleteTourFunc(ctx, id)
	}
	return nil
}

func (m *mockTourRepo) ListTours(ctx context.Context, params map[string]string) ([]*models.Tour, *models.Meta, error) {
	if m.listToursFunc != nil {
		return m.listToursFunc(ctx, params)
	}
	return []*models.Tour{}, &models.Meta{Page: 1, Limit: 10}, nil
}

func (m *mockTourRepo) SearchTours(ctx context.Context, params map[string]string) ([]*models.Tour, *models.Meta, error) {
	if m.searchToursFunc != nil {
		return m.searchToursFunc(ctx, params)
	}
	return []*models.Tour{}, &models.Meta{Page: 1, Limit: 10}, nil
}

type mockUserRepo struct {
	createUserFunc        func(ctx context.Context, user *models.User) (*models.User, error)
	getUserByIDFunc       func(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	getUserByEmailFunc    func(ctx context.Context, email string) (*models.User, error)
	getUsersByIDsFunc     func(ctx context.Context, ids []primitive.ObjectID) ([]*models.User, error)
	updateUserFunc        func(ctx context.Context, id primitive.ObjectID, patch models.UserPatch) (*models.User, error)
	updateActiveStateFunc func(ctx context.Context, id primitive.ObjectID, state models.ActiveState) (*models.User, error)
	softDeleteUserFunc    func(ctx context.Context, id primitive.ObjectID) error
	listUsersFunc         func(ctx context.Context, params map[string]string) ([]*models.User, *models.Meta, error)
}

func (m *mockUserRepo) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	if m.createUserFunc != nil {
		return m.createUserFunc(ctx, user)
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	return user, nil
}

func (m *mockUserRepo) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	if m.getUserByIDFunc != nil {
		return m.getUserByIDFunc(ctx, id)
	}
	return &models.User{ID: id, Name: "Test User", Email: "test@example.com", Role: models.RoleTourist, IsActive: models.StateActive}, nil
}

func (m *mockUserRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.getUserByEmailFunc != nil {
		return m.getUserByEmailFunc(ctx, email)
	}
	return nil, mongo.ErrNoDocuments
}

func (m *mockUserRepo) GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*models.User, error) {
	if m.getUsersByIDsFunc != nil {
		return m.getUsersByIDsFunc(ctx, ids)
	}
	users := make([]*models.User, 0, len(ids))
	for _, id := range ids {
		users = append(users, &models.User{ID: id, Name: "Test User"})
	}
	return users, nil
}

func (m *mockUserRepo) UpdateUser(ctx context.Context, id primitive.ObjectID, patch models.UserPatch) (*models.User, error) {
	if m.updateUserFunc != nil {
		return m.updateUserFunc(ctx, id, patch)
	}
	return &models.User{ID: id}, nil
}

func (m *mockUserRepo) UpdateActiveState(ctx context.Context, id primitive.ObjectID, state models.ActiveState) (*models.User, error) {
	if m.updateActiveStateFunc != nil {
		return m.updateActiveStateFunc(ctx, id, state)
	}
	return &models.User{ID: id, IsActive: state}, nil
}

func (m *mockUserRepo) SoftDeleteUser(ctx context.Context, id primitive.ObjectID) error {
	if m.softDeleteUserFunc != nil {
		return m.softDeleteUserFunc(ctx, id)
	}
	return nil
}

func (m *mockUserRepo) ListUsers(ctx context.Context, params map[string]string) ([]*models.User, *models.Meta, error) {
	if m.listUsersFunc != nil {
		return m.listUsersFunc(ctx, params)
	}
	return []*models.User{}, &models.Meta{Page: 1, Limit: 10}, nil
}

type mockReviewRepo struct {
	insertReviewFunc        func(ctx context.Context, review *models.Review) (*models.Review, error)
	getReviewByIDFunc       func(ctx context.Context, id primitive.ObjectID) (*models.Review, error)
	updateReviewFunc        func(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Review, error)
	deleteReviewFunc        func(ctx context.Context, id primitive.ObjectID) error
	listReviewsFunc         func(ctx context.Context, base bson.M, params map[string]string) ([]*models.ReviewDetail, *models.Meta, error)
	aggregateGuideStatsFunc func(ctx context.Context, guideIDs []primitive.ObjectID) (map[primitive.ObjectID]*models.GuideReviewStats, error)
}

func (m *mockReviewRepo) InsertReview(ctx context.Context, review *models.Review) (*models.Review, error) {
	if m.insertReviewFunc != nil {
		return m.insertReviewFunc(ctx, review)
	}
	if review.ID.IsZero() {
		review.ID = primitive.NewObjectID()
	}
	return review, nil
}

func (m *mockReviewRepo) GetReviewByID(ctx context.Context, id primitive.ObjectID) (*models.Review, error) {
	if m.getReviewByIDFunc != nil {
		return m.getReviewByIDFunc(ctx, id)
	}
	return nil, mongo.ErrNoDocuments
}

func (m *mockReviewRepo) UpdateReview(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Review, error) {
	if m.updateReviewFunc != nil {
		return m.updateReviewFunc(ctx, id, set)
	}
	return &models.Review{ID: id}, nil
}

func (m *mockReviewRepo) DeleteReview(ctx context.Context, id primitive.ObjectID) error {
	if m.deleteReviewFunc != nil {
		return m.deleteReviewFunc(ctx, id)
	}
	return nil
}

func (m *mockReviewRepo) ListReviews(ctx context.Context, base bson.M, params map[string]string) ([]*models.ReviewDetail, *models.Meta, error) {
	if m.listReviewsFunc != nil {
		return m.listReviewsFunc(ctx, base, params)
	}
	return []*models.ReviewDetail{}, &models.Meta{Page: 1, Limit: 10}, nil
}

func (m *mockReviewRepo) AggregateGuideStats(ctx context.Context, guideIDs []primitive.ObjectID) (map[primitive.ObjectID]*models.GuideReviewStats, error) {
	if m.aggregateGuideStatsFunc != nil {
		return m.aggregateGuideStatsFunc(ctx, guideIDs)
	}
	return map[primitive.ObjectID]*models.GuideReviewStats{}, nil
}

func (m *mockReviewRepo) WithTransaction(ctx context.Context, fn func(sc mongo.SessionContext) error) error {
	return runTx(ctx, fn)
}

type mockBlogRepo struct {
	insertBlogFunc     func(ctx context.Context, blog *models.Blog) (*models.Blog, error)
	getBlogByIDFunc    func(ctx context.Context, id primitive.ObjectID) (*models.Blog, error)
	readBlogBySlugFunc func(ctx context.Context, slug string) (*models.Blog, error)
	blogSlugTakenFunc  func(ctx context.Context, slug string, exclude primitive.ObjectID) (bool, error)
	updateBlogFunc     func(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Blog, error)
	deleteBlogFunc     func(ctx context.Context, id primitive.ObjectID) error
	listBlogsFunc      func(ctx context.Context, params map[string]string) ([]*models.Blog, *models.Meta, error)
}

func (m *mockBlogRepo) InsertBlog(ctx context.Context, blog *models.Blog) (*models.Blog, error) {
	if m.insertBlogFunc != nil {
		return m.insertBlogFunc(ctx, blog)
	}
	if blog.ID.IsZero() {
		blog.ID = primitive.NewObjectID()
	}
	return blog, nil
}

func (m *mockBlogRepo) GetBlogByID(ctx context.Context, id primitive.ObjectID) (*models.Blog, error) {
	if m.getBlogByIDFunc != nil {
		return m.getBlogByIDFunc(ctx, id)
	}
	return nil, mongo.ErrNoDocuments
}

func (m *mockBlogRepo) ReadBlogBySlug(ctx context.Context, slug string) (*models.Blog, error) {
	if m.readBlogBySlugFunc != nil {
		return m.readBlogBySlugFunc(ctx, slug)
	}
	return nil, mongo.ErrNoDocuments
}

func (m *mockBlogRepo) BlogSlugTaken(ctx context.Context, slug string, exclude primitive.ObjectID) (bool, error) {
	if m.blogSlugTakenFunc != nil {
		return m.blogSlugTakenFunc(ctx, slug, exclude)
	}
	return false, nil
}

func (m *mockBlogRepo) UpdateBlog(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Blog, error) {
	if m.updateBlogFunc != nil {
		return m.updateBlogFunc(ctx, id, set)
	}
	return &models.Blog{ID: id}, nil
}

func (m *mockBlogRepo) DeleteBlog(ctx context.Context, id primitive.ObjectID) error {
	if m.deleteBlogFunc != nil {
		return m.deleteBlogFunc(ctx, id)
	}
	return nil
}

func (m *mockBlogRepo) ListBlogs(ctx context.Context, params map[string]string) ([]*models.Blog, *models.Meta, error) {
	if m.listBlogsFunc != nil {
		return m.listBlogsFunc(ctx, params)
	}
	return []*models.Blog{}, &models.Meta{Page: 1, Limit: 10}, nil
}

type mockMessageRepo struct {
	insertMessageRequestFunc     func(ctx context.Context, req *models.MessageRequest) (*models.MessageRequest, error)
	listGuideMessageRequestsFunc func(ctx context.Context, guideID primitive.ObjectID) ([]*models.MessageRequest, error)
}

func (m *mockMessageRepo) InsertMessageRequest(ctx context.Context, req *models.MessageRequest) (*models.MessageRequest, error) {
	if m.insertMessageRequestFunc != nil {
		return m.insertMessageRequestFunc(ctx, req)
	}
	if req.ID.IsZero() {
		req.ID = primitive.NewObjectID()
	}
	return req, nil
}

func (m *mockMessageRepo) ListGuideMessageRequests(ctx context.Context, guideID primitive.ObjectID) ([]*models.MessageRequest, error) {
	if m.listGuideMessageRequestsFunc != nil {
		return m.listGuideMessageRequestsFunc(ctx, guideID)
	}
	return []*models.MessageRequest{}, nil
}

type mockGateway struct {
	initPaymentFunc     func(ctx context.Context, p gateway.InitPayload) (*gateway.InitResponse, error)
	validatePaymentFunc func(ctx context.Context, valID string) error
}

func (m *mockGateway) InitPayment(ctx context.Context, p gateway.InitPayload) (*gateway.InitResponse, error) {
	if m.initPaymentFunc != nil {
		return m.initPaymentFunc(ctx, p)
	}
	return &gateway.InitResponse{Status: "SUCCESS", GatewayPageURL: "https://gateway.example.com/pay"}, nil
}

func (m *mockGateway) ValidatePayment(ctx context.Context, valID string) error {
	if m.validatePaymentFunc != nil {
		return m.validatePaymentFunc(ctx, valID)
	}
	return nil
}
