package settings

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	encryptedPrefix  = "enc:v1:"
	saltSize         = 16
	keySize          = 32
	pbkdf2Iterations = 10000
)

var ErrCiphertextTooShort = errors.New("encrypted value is too short")

// Cipher seals values with AES-GCM under a key derived from a passphrase. An
// empty passphrase turns it into a pass-through.
type Cipher struct {
	passphrase string
}

func NewCipher(passphrase string) *Cipher {
	return &Cipher{passphrase: passphrase}
}

func (c *Cipher) Enabled() bool {
	return c.passphrase != ""
}

func (c *Cipher) deriveKey(salt []byte) []byte {
	return pbkdf2.Key([]byte(c.passphrase), salt, pbkdf2Iterations, keySize, sha256.New)
}

func (c *Cipher) Encrypt(plain string) (string, error) {
	if !c.Enabled() {
		return plain, nil
	}

	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	gcm, err := c.gcm(salt)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := gcm.Seal(nonce, nonce, []byte(plain), nil)
	out := make([]byte, 0, len(salt)+len(sealed))
	out = append(out, salt...)
	out = append(out, sealed...)
	return encryptedPrefix + base64.StdEncoding.EncodeToString(out), nil
}

// Decrypt accepts values written before encryption was enabled and returns them as is.
func (c *Cipher) Decrypt(value string) (string, error) {
	if !strings.HasPrefix(value, encryptedPrefix) {
		return value, nil
	}
	if !c.Enabled() {
		return "", errors.New("value is encrypted but no secret is configured")
	}

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(value, encryptedPrefix))
	if err != nil {
		return "", fmt.Errorf("failed to decode encrypted value: %w", err)
	}
	if len(raw) < saltSize {
		return "", ErrCiphertextTooShort
	}

	gcm, err := c.gcm(raw[:saltSize])
	if err != nil {
		return "", err
	}

	sealed := raw[saltSize:]
	if len(sealed) < gcm.NonceSize() {
		return "", ErrCiphertextTooShort
	}
	nonce, ciphertext := sealed[:gcm.NonceSize()], sealed[gcm.NonceSize():]
	plain, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt value: %w", err)
	}
	return string(plain), nil
}

func (c *Cipher) gcm(salt []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(c.deriveKey(salt))
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return gcm, nil
}
