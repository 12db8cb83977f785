package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/dekho-exam/prep-engine/internal/storage"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

func signedToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "student-1",
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	})
	raw, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return raw
}

func TestAuthenticated(t *testing.T) {
	cases := map[string]struct {
		token string
		want  bool
	}{
		"NoToken":   {token: "", want: false},
		"Garbage":   {token: "not-a-jwt", want: false},
		"Expired":   {token: signedToken(t, time.Now().Add(-time.Hour)), want: false},
		"LiveToken": {token: signedToken(t, time.Now().Add(time.Hour)), want: true},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			ts := NewTokenStore(storage.NewMemStore(), zerolog.Nop())
			if tc.token != "" {
				if err := ts.SetTokens(tc.token, "refresh-1"); err != nil {
					t.Fatalf("set tokens: %v", err)
				}
			}
			if got := ts.Authenticated(); got != tc.want {
				t.Errorf("Authenticated() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestBootstrapLoadsCachedSession(t *testing.T) {
	store := storage.NewMemStore()
	store.Set("accessToken", signedToken(t, time.Now().Add(time.Hour)))
	store.Set("refreshToken", "refresh-1")
	store.Set("userProfile", `{"id":"s1","name":"Asha","phoneNumber":"+911234567890"}`)

	ts := NewTokenStore(store, zerolog.Nop())
	if err := ts.Bootstrap(); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}

	if !ts.Authenticated() {
		t.Error("cached session not recognized")
	}
	if ts.RefreshToken() != "refresh-1" {
		t.Errorf("refresh token = %q", ts.RefreshToken())
	}
	p := ts.Profile()
	if p == nil || p.Name != "Asha" {
		t.Errorf("profile = %+v", p)
	}
}

func TestBootstrapEmptyCache(t *testing.T) {
	ts := NewTokenStore(storage.NewMemStore(), zerolog.Nop())
	if err := ts.Bootstrap(); err != nil {
		t.Fatalf("bootstrap on empty cache: %v", err)
	}
	if ts.Authenticated() {
		t.Error("authenticated with no cached token")
	}
}

func TestClear(t *testing.T) {
	store := storage.NewMemStore()
	ts := NewTokenStore(store, zerolog.Nop())

	if err := ts.SetTokens(signedToken(t, time.Now().Add(time.Hour)), "refresh-1"); err != nil {
		t.Fatalf("set tokens: %v", err)
	}
	if err := ts.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}

	if ts.Authenticated() {
		t.Error("still authenticated after clear")
	}
	if _, err := store.Get("accessToken"); err != storage.ErrNotFound {
		t.Error("access token survived clear")
	}
}

func TestDeviceIDIsStable(t *testing.T) {
	ts := NewTokenStore(storage.NewMemStore(), zerolog.Nop())

	first, err := ts.DeviceID()
	if err != nil {
		t.Fatalf("device id: %v", err)
	}
	second, err := ts.DeviceID()
	if err != nil {
		t.Fatalf("device id: %v", err)
	}
	if first == "" || first != second {
		t.Errorf("device id not stable: %q vs %q", first, second)
	}
}

// brokenStore fails every read with a real I/O error, as opposed to the
// key-not-found case.
type brokenStore struct {
	storage.Store
	getErr error
}

func (b *brokenStore) Get(key string) (string, error) {
	return "", b.getErr
}

func TestDeviceIDSurvivesCacheReadFailure(t *testing.T) {
	backing := storage.NewMemStore()
	ts := NewTokenStore(&brokenStore{Store: backing, getErr: errors.New("cache unreadable")}, zerolog.Nop())

	if _, err := ts.DeviceID(); err == nil {
		t.Fatal("read failure swallowed, want error")
	}
	// The pinned identity must not be replaced behind a transient failure.
	if _, err := backing.Get("deviceId"); err != storage.ErrNotFound {
		t.Error("new device id minted despite read failure")
	}
}
