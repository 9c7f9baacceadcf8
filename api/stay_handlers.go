package api

import (
	"net/http"
	"time"

	"stayhub/auth"
	"stayhub/domain"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type createPropertyRequest struct {
	Title         string  `json:"title" binding:"required"`
	Description   string  `json:"description"`
	Location      string  `json:"location" binding:"required"`
	PricePerNight float64 `json:"price_per_night"`
}

type createBookingRequest struct {
	PropertyID uuid.UUID `json:"property_id" binding:"required"`
	CheckIn    string    `json:"check_in" binding:"required"`
	CheckOut   string    `json:"check_out" binding:"required"`
	TotalPrice float64   `json:"total_price"`
	Status     string    `json:"status"`
}

type createPaymentRequest struct {
	Amount float64 `json:"amount"`
	Method string  `json:"payment_method"`
}

type createReviewRequest struct {
	Rating  int    `json:"rating" binding:"required"`
	Comment string `json:"comment"`
}

func (h *Handler) createProperty(c *gin.Context) {
	userID, _ := auth.ActingUser(c)

	var req createPropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body", "kind": "invalid_input"})
		return
	}

	property, err := h.stays.CreateProperty(userID, domain.Property{
		Title:         req.Title,
		Description:   req.Description,
		Location:      req.Location,
		PricePerNight: req.PricePerNight,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, property)
}

func (h *Handler) listProperties(c *gin.Context) {
	var hostID *uuid.UUID
	if v := c.Query("host_id"); v != "" {
		parsed, err := uuid.Parse(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "malformed identifier", "kind": "invalid_input"})
			return
		}
		hostID = &parsed
	}

	properties, err := h.stays.ListProperties(hostID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": properties})
}

func (h *Handler) getProperty(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	property, err := h.stays.GetProperty(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, property)
}

func (h *Handler) deleteProperty(c *gin.Context) {
	userID, _ := auth.ActingUser(c)
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.stays.DeleteProperty(userID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) createBooking(c *gin.Context) {
	userID, _ := auth.ActingUser(c)

	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body", "kind": "invalid_input"})
		return
	}

	checkIn, err := time.Parse("2006-01-02", req.CheckIn)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "check_in must be YYYY-MM-DD", "kind": "invalid_input"})
		return
	}
	checkOut, err := time.Parse("2006-01-02", req.CheckOut)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "check_out must be YYYY-MM-DD", "kind": "invalid_input"})
		return
	}

	booking, err := h.stays.CreateBooking(userID, domain.Booking{
		PropertyID: req.PropertyID,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		TotalPrice: req.TotalPrice,
		Status:     domain.BookingStatus(req.Status),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, booking)
}

func (h *Handler) getBooking(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	booking, err := h.stays.GetBooking(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

func (h *Handler) listPropertyBookings(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	bookings, err := h.stays.ListBookingsByProperty(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": bookings})
}

func (h *Handler) deleteBooking(c *gin.Context) {
	userID, _ := auth.ActingUser(c)
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.stays.DeleteBooking(userID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) createPayment(c *gin.Context) {
	userID, _ := auth.ActingUser(c)
	bookingID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req createPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body", "kind": "invalid_input"})
		return
	}

	payment, err := h.stays.CreatePayment(userID, domain.Payment{
		BookingID: bookingID,
		Amount:    req.Amount,
		Method:    domain.PaymentMethod(req.Method),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, payment)
}

func (h *Handler) listBookingPayments(c *gin.Context) {
	bookingID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	payments, err := h.stays.ListPaymentsByBooking(bookingID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": payments})
}

func (h *Handler) createReview(c *gin.Context) {
	userID, _ := auth.ActingUser(c)
	propertyID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req createReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body", "kind": "invalid_input"})
		return
	}

	review, err := h.stays.CreateReview(userID, domain.Review{
		PropertyID: propertyID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, review)
}

func (h *Handler) listPropertyReviews(c *gin.Context) {
	propertyID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	reviews, err := h.stays.ListReviewsByProperty(propertyID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": reviews})
}
