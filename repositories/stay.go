//go:generate go run go.uber.org/mock/mockgen -source=stay.go -destination=../mocks/mock_stay_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"stayhub/domain"
	"stayhub/errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

// IStayRepository covers the flat booking entities: properties, bookings,
// payments, reviews. Plain CRUD plus the ownership cascades; all business
// validation happens before the call.
type IStayRepository interface {
	CreateProperty(property domain.Property) (domain.Property, error)
	GetProperty(id uuid.UUID) (domain.Property, error)
	ListPropertiesByHost(hostID uuid.UUID) ([]domain.Property, error)
	ListProperties() ([]domain.Property, error)
	DeleteProperty(id uuid.UUID) error

	CreateBooking(booking domain.Booking) (domain.Booking, error)
	GetBooking(id uuid.UUID) (domain.Booking, error)
	ListBookingsByProperty(propertyID uuid.UUID) ([]domain.Booking, error)
	DeleteBooking(id uuid.UUID) error

	CreatePayment(payment domain.Payment) (domain.Payment, error)
	ListPaymentsByBooking(bookingID uuid.UUID) ([]domain.Payment, error)

	CreateReview(review domain.Review) (domain.Review, error)
	ListReviewsByProperty(propertyID uuid.UUID) ([]domain.Review, error)
}

type StayRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewStayRepository(db *badger.DB, log *slog.Logger) IStayRepository {
	return &StayRepository{db: db, log: log}
}

// Key layout:
//
//	prop:id:{uuid}                  -> property record
//	prop:host:{hostID}:{propID}     -> propID (host's listings)
//	booking:id:{uuid}               -> booking record
//	booking:prop:{propID}:{bkID}    -> bkID (property's bookings)
//	payment:{bookingID}:{payID}     -> payment record (booking owns payments)
//	review:{propID}:{reviewID}      -> review record
//
// Cascades drop whole prefixes: a booking takes its payments with it, a
// property takes its bookings (and their payments) and reviews.
func propKey(id uuid.UUID) []byte { return []byte("prop:id:" + id.String()) }

func hostPropKey(hostID, propertyID uuid.UUID) []byte {
	return []byte(fmt.Sprintf("prop:host:%s:%s", hostID, propertyID))
}

func bookingKey(id uuid.UUID) []byte { return []byte("booking:id:" + id.String()) }

func propBookingKey(propertyID, bookingID uuid.UUID) []byte {
	return []byte(fmt.Sprintf("booking:prop:%s:%s", propertyID, bookingID))
}

func paymentKey(bookingID, paymentID uuid.UUID) []byte {
	return []byte(fmt.Sprintf("payment:%s:%s", bookingID, paymentID))
}

func reviewKey(propertyID, reviewID uuid.UUID) []byte {
	return []byte(fmt.Sprintf("review:%s:%s", propertyID, reviewID))
}

func (s StayRepository) CreateProperty(property domain.Property) (domain.Property, error) {
	property.ID = uuid.New()
	now := time.Now().UTC()
	property.CreatedAt = now
	property.UpdatedAt = now

	data, err := json.Marshal(property)
	if err != nil {
		return domain.Property{}, err
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(propKey(property.ID), data); err != nil {
			return err
		}
		return txn.Set(hostPropKey(property.HostID, property.ID), []byte(property.ID.String()))
	})
	if err != nil {
		return domain.Property{}, err
	}
	return property, nil
}

func (s StayRepository) GetProperty(id uuid.UUID) (domain.Property, error) {
	var property domain.Property
	err := s.getJSON(propKey(id), &property)
	if err == badger.ErrKeyNotFound {
		return domain.Property{}, fmt.Errorf("%w: property %s", errors.ErrNotFound, id)
	}
	return property, err
}

func (s StayRepository) ListPropertiesByHost(hostID uuid.UUID) ([]domain.Property, error) {
	ids, err := s.idsByPrefix([]byte(fmt.Sprintf("prop:host:%s:", hostID)))
	if err != nil {
		return nil, err
	}
	properties := make([]domain.Property, 0, len(ids))
	for _, id := range ids {
		property, err := s.GetProperty(id)
		if err != nil {
			return nil, err
		}
		properties = append(properties, property)
	}
	return properties, nil
}

func (s StayRepository) ListProperties() ([]domain.Property, error) {
	var properties []domain.Property
	err := s.db.View(func(txn *badger.Txn) error {
		prefix := []byte("prop:id:")
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var property domain.Property
				if err := json.Unmarshal(val, &property); err != nil {
					return err
				}
				properties = append(properties, property)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return properties, err
}

// DeleteProperty cascades: bookings (with their payments), reviews, and the
// host index row all go in the same transaction.
func (s StayRepository) DeleteProperty(id uuid.UUID) error {
	property, err := s.GetProperty(id)
	if err != nil {
		return err
	}
	bookings, err := s.ListBookingsByProperty(id)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		for _, booking := range bookings {
			if err := deleteBookingInTxn(txn, booking); err != nil {
				return err
			}
		}
		if err := deletePrefixInTxn(txn, []byte(fmt.Sprintf("review:%s:", id))); err != nil {
			return err
		}
		if err := txn.Delete(hostPropKey(property.HostID, id)); err != nil {
			return err
		}
		return txn.Delete(propKey(id))
	})
}

func (s StayRepository) CreateBooking(booking domain.Booking) (domain.Booking, error) {
	booking.ID = uuid.New()
	booking.CreatedAt = time.Now().UTC()

	data, err := json.Marshal(booking)
	if err != nil {
		return domain.Booking{}, err
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(bookingKey(booking.ID), data); err != nil {
			return err
		}
		return txn.Set(propBookingKey(booking.PropertyID, booking.ID), []byte(booking.ID.String()))
	})
	if err != nil {
		return domain.Booking{}, err
	}
	return booking, nil
}

func (s StayRepository) GetBooking(id uuid.UUID) (domain.Booking, error) {
	var booking domain.Booking
	err := s.getJSON(bookingKey(id), &booking)
	if err == badger.ErrKeyNotFound {
		return domain.Booking{}, fmt.Errorf("%w: booking %s", errors.ErrNotFound, id)
	}
	return booking, err
}

func (s StayRepository) ListBookingsByProperty(propertyID uuid.UUID) ([]domain.Booking, error) {
	ids, err := s.idsByPrefix([]byte(fmt.Sprintf("booking:prop:%s:", propertyID)))
	if err != nil {
		return nil, err
	}
	bookings := make([]domain.Booking, 0, len(ids))
	for _, id := range ids {
		booking, err := s.GetBooking(id)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}
	return bookings, nil
}

// DeleteBooking cascades to the booking's payments.
func (s StayRepository) DeleteBooking(id uuid.UUID) error {
	booking, err := s.GetBooking(id)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return deleteBookingInTxn(txn, booking)
	})
}

func (s StayRepository) CreatePayment(payment domain.Payment) (domain.Payment, error) {
	payment.ID = uuid.New()
	payment.PaidAt = time.Now().UTC()

	data, err := json.Marshal(payment)
	if err != nil {
		return domain.Payment{}, err
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(paymentKey(payment.BookingID, payment.ID), data)
	})
	if err != nil {
		return domain.Payment{}, err
	}
	return payment, nil
}

func (s StayRepository) ListPaymentsByBooking(bookingID uuid.UUID) ([]domain.Payment, error) {
	var payments []domain.Payment
	err := s.listJSONByPrefix([]byte(fmt.Sprintf("payment:%s:", bookingID)), func(val []byte) error {
		var payment domain.Payment
		if err := json.Unmarshal(val, &payment); err != nil {
			return err
		}
		payments = append(payments, payment)
		return nil
	})
	return payments, err
}

func (s StayRepository) CreateReview(review domain.Review) (domain.Review, error) {
	review.ID = uuid.New()
	review.CreatedAt = time.Now().UTC()

	data, err := json.Marshal(review)
	if err != nil {
		return domain.Review{}, err
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(reviewKey(review.PropertyID, review.ID), data)
	})
	if err != nil {
		return domain.Review{}, err
	}
	return review, nil
}

func (s StayRepository) ListReviewsByProperty(propertyID uuid.UUID) ([]domain.Review, error) {
	var reviews []domain.Review
	err := s.listJSONByPrefix([]byte(fmt.Sprintf("review:%s:", propertyID)), func(val []byte) error {
		var review domain.Review
		if err := json.Unmarshal(val, &review); err != nil {
			return err
		}
		reviews = append(reviews, review)
		return nil
	})
	return reviews, err
}

func (s StayRepository) getJSON(key []byte, out any) error {
	return s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, out)
		})
	})
}

func (s StayRepository) idsByPrefix(prefix []byte) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := s.listJSONByPrefix(prefix, func(val []byte) error {
		id, err := uuid.ParseBytes(val)
		if err != nil {
			return err
		}
		ids = append(ids, id)
		return nil
	})
	return ids, err
}

func (s StayRepository) listJSONByPrefix(prefix []byte, consume func(val []byte) error) error {
	return s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := it.Item().Value(consume); err != nil {
				return err
			}
		}
		return nil
	})
}

func deleteBookingInTxn(txn *badger.Txn, booking domain.Booking) error {
	if err := deletePrefixInTxn(txn, []byte(fmt.Sprintf("payment:%s:", booking.ID))); err != nil {
		return err
	}
	if err := txn.Delete(propBookingKey(booking.PropertyID, booking.ID)); err != nil {
		return err
	}
	return txn.Delete(bookingKey(booking.ID))
}

func deletePrefixInTxn(txn *badger.Txn, prefix []byte) error {
	options := badger.DefaultIteratorOptions
	options.PrefetchValues = false
	it := txn.NewIterator(options)
	defer it.Close()

	var keys [][]byte
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		keys = append(keys, it.Item().KeyCopy(nil))
	}
	for _, key := range keys {
		if err := txn.Delete(key); err != nil {
			return err
		}
	}
	return nil
}
