package jwtutil

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Subject classes carried in the token.
const (
	SubjectAdmin    = "admin"
	SubjectCustomer = "customer"
)

// JWTConfig holds JWT configuration
type JWTConfig struct {
	SigningKey      string
	ExpirationHours int
}

// Claims identifies the authenticated subject. StoreID is nil for super admins.
type Claims struct {
	SubjectID   uint   `json:"sub_id"`
	SubjectType string `json:"type"`
	Email       string `json:"email,omitempty"`
	StoreID     *uint  `json:"store_id,omitempty"`
	Role        string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// JWTUtil is a utility for JWT token operations
type JWTUtil struct {
	config *JWTConfig
	now    func() time.Time
}

// NewJWTUtil creates a new JWT utility with the given configuration
func NewJWTUtil(config *JWTConfig) *JWTUtil {
	return &JWTUtil{
		config: config,
		now:    time.Now,
	}
}

// GenerateAdminToken issues a token for an admin or super admin.
func (j *JWTUtil) GenerateAdminToken(adminID uint, email string, storeID *uint, role string) (string, error) {
	return j.generate(Claims{
		SubjectID:   adminID,
		SubjectType: SubjectAdmin,
		Email:       email,
		StoreID:     storeID,
		Role:        role,
	})
}

// GenerateCustomerToken issues a token bound to the customer's store.
func (j *JWTUtil) GenerateCustomerToken(customerID uint, email string, storeID uint) (string, error) {
	return j.generate(Claims{
		SubjectID:   customerID,
		SubjectType: SubjectCustomer,
		Email:       email,
		StoreID:     &storeID,
	})
}

func (j *JWTUtil) generate(claims Claims) (string, error) {
	if j.config == nil {
		return "", errors.New("JWT configuration not provided")
	}

	now := j.now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(claims.SubjectID), 10),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(j.config.ExpirationHours) * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.config.SigningKey))
}

// ValidateToken validates and parses the JWT token
func (j *JWTUtil) ValidateToken(tokenString string) (*Claims, error) {
	if j.config == nil {
		return nil, errors.New("JWT configuration not provided")
	}

	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(j.config.SigningKey), nil
		},
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.SubjectType != SubjectAdmin && claims.SubjectType != SubjectCustomer {
		return nil, errors.New("invalid token subject type")
	}
	if claims.SubjectID == 0 {
		return nil, errors.New("invalid token subject")
	}

	return claims, nil
}
