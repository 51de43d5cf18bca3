package handlers

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/roamly/api/internal/apperr"
	"github.com/roamly/api/internal/config"
	"github.com/roamly/api/internal/models"
	"github.com/roamly/api/internal/services"
)

// redirectTo sends the customer back to the frontend with the outcome in
// the query string.
func redirectTo(c *gin.Context, baseURL, transactionID, message string, amount float64, status models.PaymentStatus) {
	q := url.Values{}
	q.Set("transactionId", transactionID)
	q.Set("message", message)
	q.Set("amount", fmt.Sprintf("%.2f", amount))
	q.Set("status", string(status))
	c.Redirect(http.StatusFound, baseURL+"?"+q.Encode())
}

// InitPayment reopens a checkout session for an unsettled booking.
func InitPayment(svc *services.PaymentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		paymentURL, err := svc.InitPayment(c.Request.Context(), c.Param("bookingId"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(http.StatusCreated, gin.H{"paymentUrl": paymentURL}, "payment session created"))
	}
}

// SuccessPayment is the gateway's success callback. It settles the
// payment and redirects the customer to the frontend success page.
func SuccessPayment(svc *services.PaymentService, cfg config.GatewayConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		transactionID := c.Param("transactionId")

		payment, err := svc.SuccessPayment(c.Request.Context(), transactionID)
		if err != nil {
			redirectTo(c, cfg.FailFrontendURL, transactionID, "payment could not be settled", 0, models.PaymentFailed)
			return
		}
		redirectTo(c, cfg.SuccessFrontendURL, transactionID, "payment successful", payment.Amount, payment.Status)
	}
}

func FailPayment(svc *services.PaymentService, cfg config.GatewayConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		transactionID := c.Param("transactionId")

		payment, err := svc.FailPayment(c.Request.Context(), transactionID)
		if err != nil {
			redirectTo(c, cfg.FailFrontendURL, transactionID, "payment failed", 0, models.PaymentFailed)
			return
		}
		redirectTo(c, cfg.FailFrontendURL, transactionID, "payment failed", payment.Amount, payment.Status)
	}
}

func CancelPayment(svc *services.PaymentService, cfg config.GatewayConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		transactionID := c.Param("transactionId")

		payment, err := svc.CancelPayment(c.Request.Context(), transactionID)
		if err != nil {
			redirectTo(c, cfg.CancelFrontendURL, transactionID, "payment cancelled", 0, models.PaymentCancelled)
			return
		}
		redirectTo(c, cfg.CancelFrontendURL, transactionID, "payment cancelled", payment.Amount, payment.Status)
	}
}

// ValidatePayment is the IPN hook: the gateway posts a val_id which is
// checked against the validation API.
func ValidatePayment(svc *services.PaymentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		valID := c.Query("val_id")
		if valID == "" {
			valID = c.PostForm("val_id")
		}

		if err := svc.ValidatePayment(c.Request.Context(), valID); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(http.StatusOK, nil, "payment validated"))
	}
}

// GetInvoiceDownloadURL hands out the archived invoice link.
func GetInvoiceDownloadURL(svc *services.PaymentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		invoiceURL, err := svc.GetInvoiceDownloadURL(c.Request.Context(), c.Param("paymentId"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(http.StatusOK, gin.H{"invoiceUrl": invoiceURL}, "invoice url retrieved"))
	}
}

// UpdatePayment is the admin status override.
func UpdatePayment(svc *services.PaymentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body struct {
			Status models.PaymentStatus `json:"status" binding:"required"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			respondError(c, apperr.BadRequest("status is required"))
			return
		}

		payment, changed, err := svc.UpdatePayment(c.Request.Context(), c.Param("id"), body.Status)
		if err != nil {
			respondError(c, err)
			return
		}
		msg := "payment status updated"
		if !changed {
			msg = "payment status already updated"
		}
		c.JSON(http.StatusOK, models.SuccessResponse(http.StatusOK, payment, msg))
	}
}

func GetPayment(svc *services.PaymentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		payment, err := svc.GetPayment(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(http.StatusOK, payment, ""))
	}
}

func ListPayments(svc *services.PaymentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		payments, meta, err := svc.ListPayments(c.Request.Context(), queryParams(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.PaginatedResponse(http.StatusOK, payments, meta, ""))
	}
}

func DeletePayment(svc *services.PaymentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.DeletePayment(c.Request.Context(), c.Param("id")); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(http.StatusOK, nil, "payment deleted"))
	}
}

