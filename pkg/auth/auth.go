package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/arnavshah/rota-api-go/pkg/database"
)

const (
	defaultLabel = "team"
	pinCost      = bcrypt.DefaultCost
)

var (
	// ErrInvalidPIN is returned when no stored PIN matches
	ErrInvalidPIN = errors.New("invalid PIN")
	// ErrMalformedPIN is returned for PINs that are not 4 to 8 digits
	ErrMalformedPIN = errors.New("PIN must be 4 to 8 digits")

	jwtAlgorithm = jwt.SigningMethodHS256
)

// Claims represents the JWT claims
type Claims struct {
	Label string `json:"label"`
	jwt.RegisteredClaims
}

// ValidatePIN checks the PIN format
func ValidatePIN(pin string) error {
	if len(pin) < 4 || len(pin) > 8 {
		return ErrMalformedPIN
	}
	for _, r := range pin {
		if r < '0' || r > '9' {
			return ErrMalformedPIN
		}
	}
	return nil
}

// HashPIN hashes a PIN using bcrypt
func HashPIN(pin string) (string, error) {
	if err := ValidatePIN(pin); err != nil {
		return "", err
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(pin), pinCost)
	return string(bytes), err
}

// CheckPINHash compares a PIN with its hash
func CheckPINHash(pin, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin)) == nil
}

// Service issues session tokens to holders of a valid PIN
type Service struct {
	DB     *gorm.DB
	Secret []byte
	TTL    time.Duration
	Now    func() time.Time
}

// NewService creates a new auth service
func NewService(db *gorm.DB, secret string, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Service{DB: db, Secret: []byte(secret), TTL: ttl, Now: time.Now}
}

// Login exchanges a PIN for a signed token
func (s *Service) Login(ctx context.Context, pin string) (string, error) {
	if err := ValidatePIN(pin); err != nil {
		return "", ErrInvalidPIN
	}

	var pins []database.AccessPin
	if err := s.DB.WithContext(ctx).Order("id").Find(&pins).Error; err != nil {
		return "", fmt.Errorf("failed to load access pins: %w", err)
	}
	for _, p := range pins {
		if CheckPINHash(pin, p.PinHash) {
			return s.CreateToken(p.Label)
		}
	}
	return "", ErrInvalidPIN
}

// CreateToken creates a new JWT token for label
func (s *Service) CreateToken(label string) (string, error) {
	now := s.Now()
	claims := &Claims{
		Label: label,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.TTL)),
		},
	}

	token := jwt.NewWithClaims(jwtAlgorithm, claims)
	return token.SignedString(s.Secret)
}

// VerifyToken verifies a JWT token
func (s *Service) VerifyToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwtAlgorithm {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return s.Secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// EnsurePinExists seeds the access PIN when none is stored yet.
func EnsurePinExists(db *gorm.DB, pin string) (bool, error) {
	var count int64
	if err := db.Model(&database.AccessPin{}).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}
	if pin == "" {
		return false, errors.New("no access PIN stored and ACCESS_PIN is not set")
	}

	hash, err := HashPIN(pin)
	if err != nil {
		return false, err
	}
	if err := db.Create(&database.AccessPin{Label: defaultLabel, PinHash: hash}).Error; err != nil {
		return false, err
	}
	return true, nil
}
