// Package domain contains core concepts of the homestay platform.
// This file defines the flat booking entities: Property, Booking, Payment,
// Review. They carry field constraints only; cross-entity rules stop at
// referential integrity, which the store enforces.
package domain

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCanceled  BookingStatus = "canceled"
)

type PaymentMethod string

const (
	PaymentCreditCard   PaymentMethod = "credit_card"
	PaymentPaypal       PaymentMethod = "paypal"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
)

type Property struct {
	ID            uuid.UUID `json:"property_id"`
	HostID        uuid.UUID `json:"host_id"`
	Title         string    `json:"title" validate:"required,max=255"`
	Description   string    `json:"description,omitempty"`
	Location      string    `json:"location" validate:"required,max=500"`
	PricePerNight float64   `json:"price_per_night" validate:"gte=0"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Booking references a property and the booking guest. CheckOut must be
// strictly after CheckIn (validated with gtfield, mirroring the store-level
// check constraint).
type Booking struct {
	ID         uuid.UUID     `json:"booking_id"`
	PropertyID uuid.UUID     `json:"property_id"`
	UserID     uuid.UUID     `json:"user_id"`
	CheckIn    time.Time     `json:"check_in" validate:"required"`
	CheckOut   time.Time     `json:"check_out" validate:"required,gtfield=CheckIn"`
	TotalPrice float64       `json:"total_price" validate:"gte=0"`
	Status     BookingStatus `json:"status" validate:"required,oneof=pending confirmed canceled"`
	CreatedAt  time.Time     `json:"created_at"`
}

// Payment belongs to its booking; deleting the booking cascades here.
type Payment struct {
	ID        uuid.UUID     `json:"payment_id"`
	BookingID uuid.UUID     `json:"booking_id"`
	UserID    uuid.UUID     `json:"user_id"`
	Amount    float64       `json:"amount" validate:"gte=0"`
	Method    PaymentMethod `json:"payment_method" validate:"required,oneof=credit_card paypal bank_transfer"`
	PaidAt    time.Time     `json:"payment_date"`
}

type Review struct {
	ID         uuid.UUID `json:"review_id"`
	PropertyID uuid.UUID `json:"property_id"`
	UserID     uuid.UUID `json:"user_id"`
	Rating     int       `json:"rating" validate:"gte=1,lte=5"`
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
