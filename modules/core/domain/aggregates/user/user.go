package user

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// User is the denormalized profile row for an identity-provider user.
type User struct {
	id           uuid.UUID
	firstName    string
	lastName     string
	email        string
	phone        string
	department   string
	passwordHash string
	lastLogin    *time.Time
	createdAt    time.Time
	updatedAt    time.Time
}

type Option func(*User)

func WithID(id uuid.UUID) Option {
	return func(u *User) {
		u.id = id
	}
}

func WithPhone(phone string) Option {
	return func(u *User) {
		u.phone = phone
	}
}

func WithDepartment(department string) Option {
	return func(u *User) {
		u.department = department
	}
}

func WithPasswordHash(hash string) Option {
	return func(u *User) {
		u.passwordHash = hash
	}
}

func WithLastLogin(lastLogin *time.Time) Option {
	return func(u *User) {
		u.lastLogin = lastLogin
	}
}

func WithCreatedAt(createdAt time.Time) Option {
	return func(u *User) {
		u.createdAt = createdAt
	}
}

func WithUpdatedAt(updatedAt time.Time) Option {
	return func(u *User) {
		u.updatedAt = updatedAt
	}
}

func New(firstName, lastName, email string, opts ...Option) *User {
	u := &User{
		id:        uuid.New(),
		firstName: firstName,
		lastName:  lastName,
		email:     email,
		createdAt: time.Now(),
		updatedAt: time.Now(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

func (u *User) ID() uuid.UUID {
	return u.id
}

func (u *User) FirstName() string {
	return u.firstName
}

func (u *User) LastName() string {
	return u.lastName
}

func (u *User) Email() string {
	return u.email
}

func (u *User) Phone() string {
	return u.phone
}

func (u *User) Department() string {
	return u.department
}

func (u *User) PasswordHash() string {
	return u.passwordHash
}

func (u *User) LastLogin() *time.Time {
	return u.lastLogin
}

func (u *User) CreatedAt() time.Time {
	return u.createdAt
}

func (u *User) UpdatedAt() time.Time {
	return u.updatedAt
}

func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.passwordHash = string(hash)
	u.updatedAt = time.Now()
	return nil
}

func (u *User) CheckPassword(password string) bool {
	if u.passwordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.passwordHash), []byte(password)) == nil
}

func (u *User) SetProfile(firstName, lastName, phone, department string) {
	u.firstName = firstName
	u.lastName = lastName
	u.phone = phone
	u.department = department
	u.updatedAt = time.Now()
}
