package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"gradelookup/backend/internal/report"
)

// CookieName is the well-known key under which the looked-up record travels
// from the search flow to the results flow.
const CookieName = "studentData"

const (
	// MaxChunkSize is the largest cookie value Save writes. Browsers cap a
	// cookie at 4096 bytes including its name and attributes.
	MaxChunkSize = 3800
	// MaxChunks bounds how many cookies one record may use.
	MaxChunks = 10
)

var (
	// ErrNoData means there is no record to show: the cookie is missing or
	// its token has expired.
	ErrNoData = errors.New("no student data in session")
	// ErrMalformed means the cookie exists but cannot be decoded.
	ErrMalformed = errors.New("malformed student data in session")
	// ErrTooLarge means the record does not fit in the handoff cookies.
	ErrTooLarge = errors.New("student data too large for session")
)

// handoffClaims carries the serialized record.
type handoffClaims struct {
	Record string `json:"record"`
	jwt.RegisteredClaims
}

// Store keeps one record per browser session in a signed cookie.
type Store struct {
	secret []byte
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

// NewStore returns a Store signing with secret. Tokens expire after ttl.
func NewStore(secret string, ttl time.Duration, secure bool) *Store {
	return &Store{
		secret: []byte(secret),
		ttl:    ttl,
		secure: secure,
		now:    time.Now,
	}
}

// Save serializes rec and sets the handoff cookies on w. Tokens longer than
// one cookie can hold are split across CookieName, CookieName_1, and so on.
// The cookies have no Expires attribute, so the browser drops them when the
// session ends.
func (s *Store) Save(w http.ResponseWriter, rec report.RawRecord) error {
	token, err := s.Encode(rec)
	if err != nil {
		return err
	}

	chunks := splitToken(token, MaxChunkSize)
	if len(chunks) > MaxChunks {
		return fmt.Errorf("%w: token is %d bytes", ErrTooLarge, len(token))
	}

	for i, chunk := range chunks {
		http.SetCookie(w, s.cookie(chunkName(i), chunk, 0))
	}
	// Expire chunks left over from an earlier, wider record.
	for i := len(chunks); i < MaxChunks; i++ {
		http.SetCookie(w, s.cookie(chunkName(i), "", -1))
	}
	return nil
}

// Load reads the record saved by Save.
func (s *Store) Load(r *http.Request) (report.RawRecord, error) {
	var token strings.Builder
	for i := 0; i < MaxChunks; i++ {
		c, err := r.Cookie(chunkName(i))
		if err != nil || c.Value == "" {
			break
		}
		token.WriteString(c.Value)
	}
	if token.Len() == 0 {
		return nil, ErrNoData
	}
	return s.Decode(token.String())
}

// Clear removes the handoff cookies.
func (s *Store) Clear(w http.ResponseWriter) {
	for i := 0; i < MaxChunks; i++ {
		http.SetCookie(w, s.cookie(chunkName(i), "", -1))
	}
}

func (s *Store) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func chunkName(i int) string {
	if i == 0 {
		return CookieName
	}
	return CookieName + "_" + strconv.Itoa(i)
}

func splitToken(token string, size int) []string {
	chunks := make([]string, 0, len(token)/size+1)
	for len(token) > size {
		chunks = append(chunks, token[:size])
		token = token[size:]
	}
	return append(chunks, token)
}

// Encode signs rec into a token.
func (s *Store) Encode(rec report.RawRecord) (string, error) {
	payload, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("failed to serialize record: %w", err)
	}

	now := s.now()
	claims := handoffClaims{
		Record: string(payload),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return token, nil
}

// Decode verifies a token and returns the record inside it.
func (s *Store) Decode(token string) (report.RawRecord, error) {
	claims := &handoffClaims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (interface{}, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrNoData
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	var rec report.RawRecord
	if err := json.Unmarshal([]byte(claims.Record), &rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if rec == nil {
		return nil, fmt.Errorf("%w: empty record", ErrMalformed)
	}
	return rec, nil
}
