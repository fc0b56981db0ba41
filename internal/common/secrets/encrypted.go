package secrets

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

const storeFileName = "secrets.enc"

// EncryptedProvider keeps secrets in a single AES-256-GCM encrypted file
// under dataDir. The whole store is held decrypted in memory and written
// back atomically on every mutation.
type EncryptedProvider struct {
	key     []byte
	dataDir string
	mu      sync.RWMutex
	store   map[string]string
}

// NewEncryptedProvider opens (or initializes) the encrypted store.
// encryptionKey is a base64-encoded 32-byte AES-256 key.
func NewEncryptedProvider(encryptionKey, dataDir string) (*EncryptedProvider, error) {
	if encryptionKey == "" {
		return nil, fmt.Errorf("%w: encryption key is required", ErrInvalidKey)
	}

	key, err := base64.StdEncoding.DecodeString(encryptionKey)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode encryption key: %v", ErrInvalidKey, err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("%w: encryption key must be 32 bytes (256 bits), got %d", ErrInvalidKey, len(key))
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create secrets directory: %w", err)
	}

	p := &EncryptedProvider{
		key:     key,
		dataDir: dataDir,
		store:   make(map[string]string),
	}
	if err := p.load(); err != nil {
		return nil, fmt.Errorf("failed to load secrets store: %w", err)
	}
	return p, nil
}

// Get retrieves a secret by key.
func (p *EncryptedProvider) Get(ctx context.Context, key string) (string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	value, ok := p.store[key]
	if !ok {
		return "", ErrSecretNotFound
	}
	return value, nil
}

// Set stores a secret and persists the store.
func (p *EncryptedProvider) Set(ctx context.Context, key, value string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.store[key] = value
	return p.persist()
}

// Delete removes a secret and persists the store.
func (p *EncryptedProvider) Delete(ctx context.Context, key string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.store[key]; !ok {
		return ErrSecretNotFound
	}
	delete(p.store, key)
	return p.persist()
}

// Name returns the provider name.
func (p *EncryptedProvider) Name() string {
	return "encrypted"
}

func (p *EncryptedProvider) storePath() string {
	return filepath.Join(p.dataDir, storeFileName)
}

func (p *EncryptedProvider) load() error {
	data, err := os.ReadFile(p.storePath())
	if os.IsNotExist(err) {
		// First run, nothing persisted yet.
		return nil
	}
	if err != nil {
		return err
	}

	plaintext, err := p.open(data)
	if err != nil {
		return fmt.Errorf("failed to decrypt secrets: %w", err)
	}
	if err := json.Unmarshal(plaintext, &p.store); err != nil {
		return fmt.Errorf("failed to parse secrets: %w", err)
	}
	return nil
}

// persist encrypts the store and swaps it into place via a temp file.
func (p *EncryptedProvider) persist() error {
	plaintext, err := json.Marshal(p.store)
	if err != nil {
		return fmt.Errorf("failed to serialize secrets: %w", err)
	}

	ciphertext, err := p.seal(plaintext)
	if err != nil {
		return fmt.Errorf("failed to encrypt secrets: %w", err)
	}

	tmp := p.storePath() + ".tmp"
	if err := os.WriteFile(tmp, ciphertext, 0600); err != nil {
		return fmt.Errorf("failed to write secrets file: %w", err)
	}
	if err := os.Rename(tmp, p.storePath()); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to rename secrets file: %w", err)
	}
	return nil
}

// seal encrypts plaintext with AES-256-GCM, prepending the nonce.
func (p *EncryptedProvider) seal(plaintext []byte) ([]byte, error) {
	gcm, err := p.aead()
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

// open decrypts a nonce-prefixed AES-256-GCM ciphertext.
func (p *EncryptedProvider) open(ciphertext []byte) ([]byte, error) {
	gcm, err := p.aead()
	if err != nil {
		return nil, err
	}

	nonceSize := gcm.NonceSize()
	if len(ciphertext) < nonceSize {
		return nil, fmt.Errorf("ciphertext too short")
	}
	nonce, ciphertext := ciphertext[:nonceSize], ciphertext[nonceSize:]
	return gcm.Open(nil, nonce, ciphertext, nil)
}

func (p *EncryptedProvider) aead() (cipher.AEAD, error) {
	block, err := aes.NewCipher(p.key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// GenerateKey produces a fresh base64-encoded 256-bit key.
func GenerateKey() (string, error) {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(key), nil
}
