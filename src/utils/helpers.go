package utils

import (
	"math"
	"os"
	"strconv"
	"time"
	"unicode"

	"cbs/src/config"
	"cbs/src/models"
	"cbs/src/types"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

func jwtKey() []byte {
	return []byte(os.Getenv("JWT_SECRET"))
}

// GenerateJWT issues a signed session token carrying the user's identity and
// role, valid for 24 hours.
func GenerateJWT(user *models.User) (string, error) {
	now := time.Now()
	claims := &types.Claims{
		Username: user.Name,
		Email:    user.Email,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(int(user.ID)),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(24 * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtKey())
}

func HashPassword(pw string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

const (
	STRENGTH_WEAK   = "weak"
	STRENGTH_MEDIUM = "medium"
	STRENGTH_STRONG = "strong"
)

// ValidatePassword enforces the password policy: minimum length 8 plus upper
// case, lower case, digit and punctuation classes. The returned strength grade
// is scored independently of the pass/fail decision.
func ValidatePassword(pw string) (reasons []string, strength string, valid bool) {
	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range pw {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}

	if len(pw) < 8 {
		reasons = append(reasons, "must be at least 8 characters long")
	}
	if !hasUpper {
		reasons = append(reasons, "must contain an uppercase letter")
	}
	if !hasLower {
		reasons = append(reasons, "must contain a lowercase letter")
	}
	if !hasDigit {
		reasons = append(reasons, "must contain a digit")
	}
	if !hasSpecial {
		reasons = append(reasons, "must contain a special character")
	}

	score := 0
	for _, ok := range []bool{hasUpper, hasLower, hasDigit, hasSpecial} {
		if ok {
			score++
		}
	}
	if len(pw) >= 8 {
		score++
	}
	if len(pw) >= 12 {
		score++
	}
	switch {
	case score >= 6:
		strength = STRENGTH_STRONG
	case score >= 4:
		strength = STRENGTH_MEDIUM
	default:
		strength = STRENGTH_WEAK
	}

	return reasons, strength, len(reasons) == 0
}

// AvailableSlots returns the slot universe minus the slots already booked,
// preserving the fixed slot order.
func AvailableSlots(booked []types.Slot) []types.Slot {
	taken := make(map[types.Slot]bool, len(booked))
	for _, s := range booked {
		taken[s] = true
	}
	available := []types.Slot{}
	for _, s := range types.AllSlots() {
		if !taken[s] {
			available = append(available, s)
		}
	}
	return available
}

func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// ComputeReceiptAmounts applies the fixed tax rate to a subtotal.
func ComputeReceiptAmounts(subtotal float64) (tax float64, total float64) {
	tax = RoundCents(subtotal * config.TAX_RATE)
	total = RoundCents(subtotal + tax)
	return tax, total
}

// ComputeBookingTotal sums the line items and applies an optional promo
// discount. Unit prices are the values snapshotted at booking time.
func ComputeBookingTotal(items []models.BookingItem, promo *models.PromoCode) (subtotal, discount, total float64) {
	for i := range items {
		subtotal += items[i].LineTotal()
	}
	subtotal = RoundCents(subtotal)
	if promo != nil {
		discount = RoundCents(subtotal * float64(promo.DiscountPercent) / 100)
	}
	total = RoundCents(subtotal - discount)
	return subtotal, discount, total
}
