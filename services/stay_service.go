package services

import (
	"fmt"
	"log/slog"

	"stayhub/domain"
	"stayhub/errors"
	"stayhub/repositories"

	"github.com/google/uuid"
)

type IStayService interface {
	CreateProperty(actingUserID uuid.UUID, property domain.Property) (domain.Property, error)
	GetProperty(id uuid.UUID) (domain.Property, error)
	ListProperties(hostID *uuid.UUID) ([]domain.Property, error)
	DeleteProperty(actingUserID, id uuid.UUID) error

	CreateBooking(actingUserID uuid.UUID, booking domain.Booking) (domain.Booking, error)
	GetBooking(id uuid.UUID) (domain.Booking, error)
	ListBookingsByProperty(propertyID uuid.UUID) ([]domain.Booking, error)
	DeleteBooking(actingUserID, id uuid.UUID) error

	CreatePayment(actingUserID uuid.UUID, payment domain.Payment) (domain.Payment, error)
	ListPaymentsByBooking(bookingID uuid.UUID) ([]domain.Payment, error)

	CreateReview(actingUserID uuid.UUID, review domain.Review) (domain.Review, error)
	ListReviewsByProperty(propertyID uuid.UUID) ([]domain.Review, error)
}

// StayService is plain CRUD over the flat entities: field constraints via
// the domain validator, referential integrity against the identity and stay
// stores, nothing else. Constraint violations surface as InvalidInput.
type StayService struct {
	stays repositories.IStayRepository
	users repositories.IUserRepository
	log   *slog.Logger
}

func NewStayService(stays repositories.IStayRepository, users repositories.IUserRepository, log *slog.Logger) *StayService {
	return &StayService{stays: stays, users: users, log: log}
}

func (s *StayService) CreateProperty(actingUserID uuid.UUID, property domain.Property) (domain.Property, error) {
	if actingUserID == uuid.Nil {
		return domain.Property{}, errors.ErrUnauthenticated
	}
	property.HostID = actingUserID
	if _, err := s.users.GetUserByID(property.HostID); err != nil {
		return domain.Property{}, err
	}
	if err := domain.Validate(property); err != nil {
		return domain.Property{}, err
	}
	return s.stays.CreateProperty(property)
}

func (s *StayService) GetProperty(id uuid.UUID) (domain.Property, error) {
	return s.stays.GetProperty(id)
}

func (s *StayService) ListProperties(hostID *uuid.UUID) ([]domain.Property, error) {
	if hostID != nil {
		return s.stays.ListPropertiesByHost(*hostID)
	}
	return s.stays.ListProperties()
}

// DeleteProperty is restricted to the hosting user; the cascade takes
// bookings, payments, and reviews with it.
func (s *StayService) DeleteProperty(actingUserID, id uuid.UUID) error {
	if actingUserID == uuid.Nil {
		return errors.ErrUnauthenticated
	}
	property, err := s.stays.GetProperty(id)
	if err != nil {
		return err
	}
	if property.HostID != actingUserID {
		return fmt.Errorf("%w: only the host may delete a property", errors.ErrForbidden)
	}
	return s.stays.DeleteProperty(id)
}

func (s *StayService) CreateBooking(actingUserID uuid.UUID, booking domain.Booking) (domain.Booking, error) {
	if actingUserID == uuid.Nil {
		return domain.Booking{}, errors.ErrUnauthenticated
	}
	booking.UserID = actingUserID
	if booking.Status == "" {
		booking.Status = domain.BookingPending
	}
	if _, err := s.stays.GetProperty(booking.PropertyID); err != nil {
		return domain.Booking{}, err
	}
	if err := domain.Validate(booking); err != nil {
		return domain.Booking{}, err
	}
	return s.stays.CreateBooking(booking)
}

func (s *StayService) GetBooking(id uuid.UUID) (domain.Booking, error) {
	return s.stays.GetBooking(id)
}

func (s *StayService) ListBookingsByProperty(propertyID uuid.UUID) ([]domain.Booking, error) {
	if _, err := s.stays.GetProperty(propertyID); err != nil {
		return nil, err
	}
	return s.stays.ListBookingsByProperty(propertyID)
}

func (s *StayService) DeleteBooking(actingUserID, id uuid.UUID) error {
	if actingUserID == uuid.Nil {
		return errors.ErrUnauthenticated
	}
	booking, err := s.stays.GetBooking(id)
	if err != nil {
		return err
	}
	if booking.UserID != actingUserID {
		return fmt.Errorf("%w: only the booking guest may cancel it", errors.ErrForbidden)
	}
	return s.stays.DeleteBooking(id)
}

func (s *StayService) CreatePayment(actingUserID uuid.UUID, payment domain.Payment) (domain.Payment, error) {
	if actingUserID == uuid.Nil {
		return domain.Payment{}, errors.ErrUnauthenticated
	}
	payment.UserID = actingUserID
	if payment.Method == "" {
		payment.Method = domain.PaymentCreditCard
	}
	if _, err := s.stays.GetBooking(payment.BookingID); err != nil {
		return domain.Payment{}, err
	}
	if err := domain.Validate(payment); err != nil {
		return domain.Payment{}, err
	}
	return s.stays.CreatePayment(payment)
}

func (s *StayService) ListPaymentsByBooking(bookingID uuid.UUID) ([]domain.Payment, error) {
	if _, err := s.stays.GetBooking(bookingID); err != nil {
		return nil, err
	}
	return s.stays.ListPaymentsByBooking(bookingID)
}

func (s *StayService) CreateReview(actingUserID uuid.UUID, review domain.Review) (domain.Review, error) {
	if actingUserID == uuid.Nil {
		return domain.Review{}, errors.ErrUnauthenticated
	}
	review.UserID = actingUserID
	if _, err := s.stays.GetProperty(review.PropertyID); err != nil {
		return domain.Review{}, err
	}
	if err := domain.Validate(review); err != nil {
		return domain.Review{}, err
	}
	return s.stays.CreateReview(review)
}

func (s *StayService) ListReviewsByProperty(propertyID uuid.UUID) ([]domain.Review, error) {
	if _, err := s.stays.GetProperty(propertyID); err != nil {
		return nil, err
	}
	return s.stays.ListReviewsByProperty(propertyID)
}
