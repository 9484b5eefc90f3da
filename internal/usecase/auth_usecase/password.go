package auth

import (
	"strings"

	"github.com/matthewhartstonge/argon2"
	"golang.org/x/crypto/bcrypt"
)

// bcryptハッシュ化
type BcryptPasswordHasher struct {
	cost int
}

// DI
func NewBcryptPasswordHasher(cost int) *BcryptPasswordHasher {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptPasswordHasher{cost}
}

// bcryptでハッシュ化
func (h *BcryptPasswordHasher) Hash(plain string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}

	return string(hashedBytes), nil
}

// argon2id でハッシュ化（$argon2id$... の形で保存）
type Argon2PasswordHasher struct {
	cfg argon2.Config
}

func NewArgon2PasswordHasher() *Argon2PasswordHasher {
	return &Argon2PasswordHasher{cfg: argon2.DefaultConfig()}
}

func (h *Argon2PasswordHasher) Hash(plain string) (string, error) {
	encoded, err := h.cfg.HashEncoded([]byte(plain))
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

// 保存形式を見て bcrypt / argon2 を切り替えて比較する。
// ハッシュ方式を変えても既存ユーザーはそのままログインできる。
type PasswordVerifierAny struct{}

// DI
func NewPasswordVerifier() *PasswordVerifierAny {
	return &PasswordVerifierAny{}
}

func (v *PasswordVerifierAny) Verify(plain string, hashed string) bool {
	if hashed == "" {
		return false
	}
	if strings.HasPrefix(hashed, "$argon2") {
		ok, err := argon2.VerifyEncoded([]byte(plain), []byte(hashed))
		return err == nil && ok
	}
	err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
	return err == nil
}

// PASSWORD_HASHER の値から選ぶ
func NewPasswordHasher(name string, bcryptCost int) PasswordHasher {
	if name == "argon2" {
		return NewArgon2PasswordHasher()
	}
	return NewBcryptPasswordHasher(bcryptCost)
}
