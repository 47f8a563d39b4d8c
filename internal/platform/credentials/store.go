package credentials

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/redis/go-redis/v9"
	"golang.org/x/oauth2"

	"payslips/internal/platform/crypto"
)

// Store persists the mail session token between runs. Load returns a nil
// token and no error when nothing has been cached yet.
type Store interface {
	Load(ctx context.Context) (*oauth2.Token, error)
	Save(ctx context.Context, token *oauth2.Token) error
}

// FileStore keeps the token as JSON on disk, sealed when a key is configured.
type FileStore struct {
	Path   string
	Sealer *crypto.Service
}

func NewFileStore(path string, sealer *crypto.Service) *FileStore {
	return &FileStore{Path: path, Sealer: sealer}
}

func (s *FileStore) Load(ctx context.Context) (*oauth2.Token, error) {
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeToken(data, s.Sealer)
}

func (s *FileStore) Save(ctx context.Context, token *oauth2.Token) error {
	data, err := encodeToken(token, s.Sealer)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return err
		}
	}
	return os.WriteFile(s.Path, data, 0o600)
}

// RedisStore keeps the token under a single key so several hosts can share it.
type RedisStore struct {
	Client *redis.Client
	Key    string
	Sealer *crypto.Service
}

func NewRedisStore(client *redis.Client, key string, sealer *crypto.Service) *RedisStore {
	return &RedisStore{Client: client, Key: key, Sealer: sealer}
}

func (s *RedisStore) Load(ctx context.Context) (*oauth2.Token, error) {
	data, err := s.Client.Get(ctx, s.Key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeToken(data, s.Sealer)
}

func (s *RedisStore) Save(ctx context.Context, token *oauth2.Token) error {
	data, err := encodeToken(token, s.Sealer)
	if err != nil {
		return err
	}
	return s.Client.Set(ctx, s.Key, data, 0).Err()
}

// MemoryStore is a process-local store.
type MemoryStore struct {
	mu    sync.Mutex
	token *oauth2.Token
	Saves int
}

func (s *MemoryStore) Load(ctx context.Context) (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == nil {
		return nil, nil
	}
	copied := *s.token
	return &copied, nil
}

func (s *MemoryStore) Save(ctx context.Context, token *oauth2.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *token
	s.token = &copied
	s.Saves++
	return nil
}

func encodeToken(token *oauth2.Token, sealer *crypto.Service) ([]byte, error) {
	if token == nil {
		return nil, errors.New("nil token")
	}
	data, err := json.Marshal(token)
	if err != nil {
		return nil, err
	}
	return sealer.Encrypt(data)
}

func decodeToken(data []byte, sealer *crypto.Service) (*oauth2.Token, error) {
	plain, err := sealer.Decrypt(data)
	if err != nil {
		return nil, fmt.Errorf("decrypt cached token: %w", err)
	}
	var token oauth2.Token
	if err := json.Unmarshal(plain, &token); err != nil {
		return nil, fmt.Errorf("decode cached token: %w", err)
	}
	return &token, nil
}
