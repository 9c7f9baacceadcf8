package repositories

import (
	"log/slog"
	"testing"
	"time"

	"stayhub/domain"
	"stayhub/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func Test_Property_Roundtrip_And_Host_Listing(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)

	repository := NewStayRepository(db, slog.Default())
	host, otherHost := uuid.New(), uuid.New()

	created, err := repository.CreateProperty(domain.Property{
		HostID:        host,
		Title:         "Loft near the harbor",
		Location:      "Marseille",
		PricePerNight: 95,
	})
	req.NoError(err)
	req.NotEqual(uuid.Nil, created.ID)

	_, err = repository.CreateProperty(domain.Property{
		HostID:        otherHost,
		Title:         "Mountain cabin",
		Location:      "Chamonix",
		PricePerNight: 140,
	})
	req.NoError(err)

	fetched, err := repository.GetProperty(created.ID)
	req.NoError(err)
	req.Equal("Loft near the harbor", fetched.Title)

	mine, err := repository.ListPropertiesByHost(host)
	req.NoError(err)
	req.Len(mine, 1)
	req.Equal(created.ID, mine[0].ID)

	all, err := repository.ListProperties()
	req.NoError(err)
	req.Len(all, 2)

	_, err = repository.GetProperty(uuid.New())
	req.ErrorIs(err, errors.ErrNotFound)
}

func Test_Delete_Booking_Cascades_To_Payments(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)

	repository := NewStayRepository(db, slog.Default())
	host, guest := uuid.New(), uuid.New()

	property, err := repository.CreateProperty(domain.Property{
		HostID: host, Title: "Studio", Location: "Lyon", PricePerNight: 60,
	})
	req.NoError(err)

	checkIn := time.Now().UTC().Truncate(24 * time.Hour)
	booking, err := repository.CreateBooking(domain.Booking{
		PropertyID: property.ID,
		UserID:     guest,
		CheckIn:    checkIn,
		CheckOut:   checkIn.Add(48 * time.Hour),
		TotalPrice: 120,
		Status:     domain.BookingPending,
	})
	req.NoError(err)

	_, err = repository.CreatePayment(domain.Payment{
		BookingID: booking.ID, UserID: guest, Amount: 120, Method: domain.PaymentPaypal,
	})
	req.NoError(err)

	req.NoError(repository.DeleteBooking(booking.ID))

	_, err = repository.GetBooking(booking.ID)
	req.ErrorIs(err, errors.ErrNotFound)

	payments, err := repository.ListPaymentsByBooking(booking.ID)
	req.NoError(err)
	req.Empty(payments)

	bookings, err := repository.ListBookingsByProperty(property.ID)
	req.NoError(err)
	req.Empty(bookings)
}

func Test_Delete_Property_Cascades_To_Bookings_Payments_Reviews(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)

	repository := NewStayRepository(db, slog.Default())
	host, guest := uuid.New(), uuid.New()

	property, err := repository.CreateProperty(domain.Property{
		HostID: host, Title: "Villa", Location: "Nice", PricePerNight: 300,
	})
	req.NoError(err)

	checkIn := time.Now().UTC().Truncate(24 * time.Hour)
	booking, err := repository.CreateBooking(domain.Booking{
		PropertyID: property.ID,
		UserID:     guest,
		CheckIn:    checkIn,
		CheckOut:   checkIn.Add(72 * time.Hour),
		TotalPrice: 900,
		Status:     domain.BookingConfirmed,
	})
	req.NoError(err)

	_, err = repository.CreatePayment(domain.Payment{
		BookingID: booking.ID, UserID: guest, Amount: 900, Method: domain.PaymentCreditCard,
	})
	req.NoError(err)

	_, err = repository.CreateReview(domain.Review{
		PropertyID: property.ID, UserID: guest, Rating: 5, Comment: "Perfect stay",
	})
	req.NoError(err)

	req.NoError(repository.DeleteProperty(property.ID))

	_, err = repository.GetProperty(property.ID)
	req.ErrorIs(err, errors.ErrNotFound)
	_, err = repository.GetBooking(booking.ID)
	req.ErrorIs(err, errors.ErrNotFound)

	payments, err := repository.ListPaymentsByBooking(booking.ID)
	req.NoError(err)
	req.Empty(payments)

	reviews, err := repository.ListReviewsByProperty(property.ID)
	req.NoError(err)
	req.Empty(reviews)

	hosted, err := repository.ListPropertiesByHost(host)
	req.NoError(err)
	req.Empty(hosted)
}

func Test_Reviews_Are_Listed_By_Property(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)

	repository := NewStayRepository(db, slog.Default())
	host := uuid.New()

	property, err := repository.CreateProperty(domain.Property{
		HostID: host, Title: "Farmhouse", Location: "Aix", PricePerNight: 110,
	})
	req.NoError(err)

	for rating := 3; rating <= 5; rating++ {
		_, err := repository.CreateReview(domain.Review{
			PropertyID: property.ID, UserID: uuid.New(), Rating: rating,
		})
		req.NoError(err)
	}

	reviews, err := repository.ListReviewsByProperty(property.ID)
	req.NoError(err)
	req.Len(reviews, 3)

	other, err := repository.ListReviewsByProperty(uuid.New())
	req.NoError(err)
	req.Empty(other)
}
