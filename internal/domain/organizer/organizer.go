package organizer

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Organizer is an authenticated account that creates and administers
// elections. Passwords are stored as bcrypt hashes only.
type Organizer struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Email        string    `json:"email" gorm:"not null;uniqueIndex"`
	PasswordHash string    `json:"-" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName overrides the table name used by GORM
func (Organizer) TableName() string {
	return "organizers"
}

// BeforeCreate sets a UUID before creating the record
func (o *Organizer) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// NewOrganizer creates an organizer account with a hashed password.
func NewOrganizer(email, password string) (*Organizer, error) {
	o := &Organizer{
		ID:        uuid.New(),
		Email:     strings.ToLower(strings.TrimSpace(email)),
		CreatedAt: time.Now(),
	}
	if err := o.SetPassword(password); err != nil {
		return nil, err
	}
	return o, nil
}

// SetPassword replaces the stored hash with a bcrypt hash of password.
func (o *Organizer) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	o.PasswordHash = string(hash)
	return nil
}

// CheckPassword reports whether password matches the stored hash.
func (o *Organizer) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(o.PasswordHash), []byte(password)) == nil
}

// Validate checks if the organizer data is valid
func (o *Organizer) Validate() error {
	if o.Email == "" {
		return fmt.Errorf("email is required")
	}
	if o.PasswordHash == "" {
		return fmt.Errorf("password hash is required")
	}
	return nil
}
