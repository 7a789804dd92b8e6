package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type jwksServer struct {
	*httptest.Server
	hits atomic.Int32
	mu   sync.Mutex
	keys map[string]*rsa.PublicKey
	down bool
}

func newJWKSServer(t *testing.T) *jwksServer {
	s := &jwksServer{keys: map[string]*rsa.PublicKey{}}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.hits.Add(1)
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.down {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		var doc struct {
			Keys []jwk `json:"keys"`
		}
		doc.Keys = append(doc.Keys, jwk{Kty: "EC", Kid: "ignored"})
		for kid, pub := range s.keys {
			doc.Keys = append(doc.Keys, jwk{
				Kty: "RSA",
				Kid: kid,
				Use: "sig",
				N:   base64.RawURLEncoding.EncodeToString(pub.N.Bytes()),
				E:   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(pub.E)).Bytes()),
			})
		}
		_ = json.NewEncoder(w).Encode(doc)
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *jwksServer) add(t *testing.T, kid string) *rsa.PrivateKey {
	t.Helper()
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	s.mu.Lock()
	s.keys[kid] = &priv.PublicKey
	s.mu.Unlock()
	return priv
}

func TestKeySet_FetchesAndCaches(t *testing.T) {
	srv := newJWKSServer(t)
	priv := srv.add(t, "panel-2025")
	ks := NewKeySet(srv.URL, time.Minute)

	key, err := ks.Key(context.Background(), "panel-2025")
	require.NoError(t, err)
	assert.Equal(t, 0, key.N.Cmp(priv.PublicKey.N))
	assert.Equal(t, priv.PublicKey.E, key.E)

	_, err = ks.Key(context.Background(), "panel-2025")
	require.NoError(t, err)
	assert.EqualValues(t, 1, srv.hits.Load())
}

func TestKeySet_ConcurrentMissesShareOneFetch(t *testing.T) {
	srv := newJWKSServer(t)
	srv.add(t, "k1")
	ks := NewKeySet(srv.URL, time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := ks.Key(context.Background(), "k1")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.LessOrEqual(t, srv.hits.Load(), int32(3))
}

func TestKeySet_UnknownKidThrottled(t *testing.T) {
	srv := newJWKSServer(t)
	srv.add(t, "k1")
	ks := NewKeySet(srv.URL, time.Hour)
	clock := time.Date(2025, 6, 12, 9, 0, 0, 0, time.UTC)
	ks.now = func() time.Time { return clock }

	_, err := ks.Key(context.Background(), "k1")
	require.NoError(t, err)

	srv.add(t, "k2")
	_, err = ks.Key(context.Background(), "k2")
	assert.Error(t, err, "refetch suppressed right after a fetch")
	assert.EqualValues(t, 1, srv.hits.Load())

	clock = clock.Add(minJWKSRefresh + time.Second)
	_, err = ks.Key(context.Background(), "k2")
	assert.NoError(t, err, "rotated key picked up after the throttle window")
	assert.EqualValues(t, 2, srv.hits.Load())
}

func TestKeySet_StaleKeyServedWhileProviderDown(t *testing.T) {
	srv := newJWKSServer(t)
	srv.add(t, "k1")
	ks := NewKeySet(srv.URL, time.Minute)
	clock := time.Date(2025, 6, 12, 9, 0, 0, 0, time.UTC)
	ks.now = func() time.Time { return clock }

	_, err := ks.Key(context.Background(), "k1")
	require.NoError(t, err)

	srv.mu.Lock()
	srv.down = true
	srv.mu.Unlock()
	clock = clock.Add(2 * time.Minute)

	key, err := ks.Key(context.Background(), "k1")
	require.NoError(t, err)
	assert.NotNil(t, key)

	_, err = ks.Key(context.Background(), "never-seen")
	assert.Error(t, err)
}

func TestJWTMiddleware_JWKS(t *testing.T) {
	srv := newJWKSServer(t)
	priv := srv.add(t, "idp-1")

	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "staff-4",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		TenantID: "b5b0c7a6-1d7e-4bb7-9d3e-0d2f6c1f2a10",
		Roles:    []string{"staff"},
	})
	tok.Header["kid"] = "idp-1"
	signed, err := tok.SignedString(priv)
	require.NoError(t, err)

	c, called, err := runMiddleware(t, JWTMiddleware(JWTConfig{JWKSURL: srv.URL}), "Bearer "+signed)
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, "staff-4", UserIDFromContext(c.Request().Context()))

	delete(tok.Header, "kid")
	unsigned, err := tok.SignedString(priv)
	require.NoError(t, err)
	_, called, err = runMiddleware(t, JWTMiddleware(JWTConfig{JWKSURL: srv.URL}), "Bearer "+unsigned)
	assert.Error(t, err)
	assert.False(t, called)
}
