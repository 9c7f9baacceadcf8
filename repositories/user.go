//go:generate go run go.uber.org/mock/mockgen -source=user.go -destination=../mocks/mock_user_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"time"

	"stayhub/domain"
	"stayhub/errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

type IUserRepository interface {
	CreateUser(user domain.User) (domain.User, error)
	GetUserByID(id uuid.UUID) (domain.User, error)
	GetUserByEmail(email string) (domain.User, error)
}

type UserRepository struct {
	db *badger.DB
}

func NewUserRepository(db *badger.DB) IUserRepository {
	return &UserRepository{db: db}
}

// Key layout:
//
//	user:id:{uuid}     -> user record (JSON)
//	user:email:{email} -> user id
//
// The email key is the uniqueness index; it is checked and written in the
// same transaction as the record, so two concurrent registrations with the
// same email cannot both commit.
func userIDKey(id uuid.UUID) []byte   { return []byte("user:id:" + id.String()) }
func userEmailKey(email string) []byte { return []byte("user:email:" + email) }

// storedUser is the on-disk shape. The domain type excludes the password
// hash from JSON so it never leaks through the API; the store still has to
// persist it, hence the shadowing field.
type storedUser struct {
	domain.User
	PasswordHash string `json:"password_hash"`
}

// CreateUser persists a new account. The identifier and creation timestamp
// are assigned here; callers must have hashed the password already.
func (u UserRepository) CreateUser(user domain.User) (domain.User, error) {
	user.ID = uuid.New()
	user.CreatedAt = time.Now().UTC()

	data, err := json.Marshal(storedUser{User: user, PasswordHash: user.PasswordHash})
	if err != nil {
		return domain.User{}, fmt.Errorf("marshal failed: %w", err)
	}

	err = u.db.Update(func(txn *badger.Txn) error {
		emailKey := userEmailKey(user.Email)
		if _, err := txn.Get(emailKey); err == nil {
			return fmt.Errorf("%w: email %s", errors.ErrDuplicateKey, user.Email)
		} else if err != badger.ErrKeyNotFound {
			return err
		}
		if err := txn.Set(emailKey, []byte(user.ID.String())); err != nil {
			return err
		}
		return txn.Set(userIDKey(user.ID), data)
	})
	if err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func (u UserRepository) GetUserByID(id uuid.UUID) (domain.User, error) {
	var stored storedUser
	err := u.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(userIDKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &stored)
		})
	})
	if err == badger.ErrKeyNotFound {
		return domain.User{}, fmt.Errorf("%w: user %s", errors.ErrNotFound, id)
	}
	if err != nil {
		return domain.User{}, err
	}
	user := stored.User
	user.PasswordHash = stored.PasswordHash
	return user, nil
}

// GetUserByEmail resolves the email index then loads the record.
func (u UserRepository) GetUserByEmail(email string) (domain.User, error) {
	var id uuid.UUID
	err := u.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(userEmailKey(email))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			parsed, err := uuid.Parse(string(val))
			if err != nil {
				return err
			}
			id = parsed
			return nil
		})
	})
	if err == badger.ErrKeyNotFound {
		return domain.User{}, fmt.Errorf("%w: email %s", errors.ErrNotFound, email)
	}
	if err != nil {
		return domain.User{}, err
	}
	return u.GetUserByID(id)
}
