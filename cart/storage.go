package cart

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// MaxCookieValue keeps the encoded cart under common per-cookie limits.
const MaxCookieValue = 3800

// ErrSnapshotTooLarge is returned by CookieStorage when the encoded cart
// would exceed MaxCookieValue.
var ErrSnapshotTooLarge = errors.New("cart snapshot too large for cookie")

func encodeState(s State) ([]byte, error) {
	if s.Items == nil {
		s.Items = []Item{}
	}
	return json.Marshal(s)
}

func decodeState(raw []byte) (State, error) {
	var s State
	if err := json.Unmarshal(raw, &s); err != nil {
		return State{}, fmt.Errorf("decode cart state: %w", err)
	}
	return s, nil
}

// MemoryStorage keeps the encoded cart in process memory.
type MemoryStorage struct {
	mu   sync.Mutex
	data []byte
}

var _ Storage = (*MemoryStorage)(nil)

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

func (m *MemoryStorage) Load() (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return State{}, nil
	}
	return decodeState(m.data)
}

func (m *MemoryStorage) Save(s State) error {
	raw, err := encodeState(s)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.data = raw
	m.mu.Unlock()
	return nil
}

// FileStorage persists the cart as <dir>/<Namespace>.json.
type FileStorage struct {
	Path string
}

var _ Storage = (*FileStorage)(nil)

func NewFileStorage(dir string) *FileStorage {
	return &FileStorage{Path: filepath.Join(dir, Namespace+".json")}
}

func (f *FileStorage) Load() (State, error) {
	raw, err := os.ReadFile(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return State{}, nil
	}
	if err != nil {
		return State{}, fmt.Errorf("read cart file: %w", err)
	}
	return decodeState(raw)
}

func (f *FileStorage) Save(s State) error {
	raw, err := encodeState(s)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o755); err != nil {
		return fmt.Errorf("create cart dir: %w", err)
	}
	tmp := f.Path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write cart file: %w", err)
	}
	return os.Rename(tmp, f.Path)
}

// CookieStorage keeps the cart in the customer's browser as a base64url
// JSON cookie, so the server never holds cart state.
type CookieStorage struct {
	Request *http.Request
	Writer  http.ResponseWriter
	Secure  bool
	MaxAge  time.Duration
}

var _ Storage = (*CookieStorage)(nil)

func NewCookieStorage(w http.ResponseWriter, r *http.Request) *CookieStorage {
	return &CookieStorage{
		Request: r,
		Writer:  w,
		Secure:  r.TLS != nil,
		MaxAge:  30 * 24 * time.Hour,
	}
}

func (c *CookieStorage) Load() (State, error) {
	cookie, err := c.Request.Cookie(Namespace)
	if errors.Is(err, http.ErrNoCookie) {
		return State{}, nil
	}
	if err != nil {
		return State{}, err
	}
	raw, err := base64.RawURLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return State{}, fmt.Errorf("decode cart cookie: %w", err)
	}
	return decodeState(raw)
}

func (c *CookieStorage) Save(s State) error {
	raw, err := encodeState(s)
	if err != nil {
		return err
	}
	value := base64.RawURLEncoding.EncodeToString(raw)
	if len(value) > MaxCookieValue {
		return fmt.Errorf("%w: %d bytes", ErrSnapshotTooLarge, len(value))
	}
	// Only the last write of a request reaches the browser.
	header := c.Writer.Header()
	var kept []string
	for _, line := range header.Values("Set-Cookie") {
		if !strings.HasPrefix(line, Namespace+"=") {
			kept = append(kept, line)
		}
	}
	header.Del("Set-Cookie")
	for _, line := range kept {
		header.Add("Set-Cookie", line)
	}
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     Namespace,
		Value:    value,
		Path:     "/",
		MaxAge:   int(c.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
