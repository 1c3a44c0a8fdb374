package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"unicode"

	"github.com/rajivgeraev/foodshare-api/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// BcryptCost стоимость хеширования паролей
const BcryptCost = 12

// dummyHash используется, когда пользователь не найден, чтобы время ответа не выдавало
// существование учетной записи
var dummyHash []byte

func init() {
	dummyHash, _ = bcrypt.GenerateFromPassword(prehash("dummy_password_for_constant_time"), BcryptCost)
}

// prehash снимает ограничение bcrypt в 72 байта
func prehash(password string) []byte {
	h := sha256.Sum256([]byte(password))
	return []byte(hex.EncodeToString(h[:]))
}

// PasswordPolicy минимальные требования к паролю
type PasswordPolicy struct {
	MinLength int
}

// Check возвращает models.ErrWeakCredential, если пароль не удовлетворяет политике
func (p PasswordPolicy) Check(password string) error {
	if len([]rune(password)) < p.MinLength {
		return fmt.Errorf("%w: пароль должен содержать не менее %d символов", models.ErrWeakCredential, p.MinLength)
	}

	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return fmt.Errorf("%w: пароль должен содержать буквы и цифры", models.ErrWeakCredential)
	}
	return nil
}

// HashPassword возвращает соленый bcrypt-хеш пароля
func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(prehash(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword сравнивает пароль с хешем за постоянное время
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), prehash(password)) == nil
}
