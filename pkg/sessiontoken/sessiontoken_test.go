package sessiontoken

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

var testKey = bytes.Repeat([]byte("k"), 32)

func TestNewSignerKeyLength(t *testing.T) {
	tests := []struct {
		name    string
		key     []byte
		wantErr bool
	}{
		{name: "32 byte key", key: bytes.Repeat([]byte("a"), 32)},
		{name: "longer key", key: bytes.Repeat([]byte("a"), 64)},
		{name: "31 byte key", key: bytes.Repeat([]byte("a"), 31), wantErr: true},
		{name: "empty key", key: nil, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSigner(tt.key)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewSigner() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrKeyTooShort) {
				t.Errorf("NewSigner() error = %v, want ErrKeyTooShort", err)
			}
		})
	}
}

func TestWrapUnwrap(t *testing.T) {
	signer, err := NewSigner(testKey)
	if err != nil {
		t.Fatalf("NewSigner() error = %v", err)
	}

	snapshot := []byte(`{"id":"u-1","name":"Test"}`)
	token, err := signer.Wrap(snapshot)
	if err != nil {
		t.Fatalf("Wrap() error = %v", err)
	}
	if token == "" {
		t.Fatal("Wrap() returned empty token")
	}

	got, err := signer.Unwrap(token)
	if err != nil {
		t.Fatalf("Unwrap() error = %v", err)
	}
	if !bytes.Equal(got, snapshot) {
		t.Errorf("Unwrap() = %s, want %s", got, snapshot)
	}
}

func TestUnwrapWrongKey(t *testing.T) {
	signer, _ := NewSigner(testKey)
	other, _ := NewSigner(bytes.Repeat([]byte("x"), 32))

	token, err := signer.Wrap([]byte(`{"id":"u-1"}`))
	if err != nil {
		t.Fatalf("Wrap() error = %v", err)
	}

	if _, err := other.Unwrap(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Unwrap() with wrong key error = %v, want ErrInvalidToken", err)
	}
}

func TestUnwrapTampered(t *testing.T) {
	signer, _ := NewSigner(testKey)

	token, err := signer.Wrap([]byte(`{"id":"u-1"}`))
	if err != nil {
		t.Fatalf("Wrap() error = %v", err)
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape: %q", token)
	}
	tampered := parts[0] + ".eyJzbmFwc2hvdCI6e319." + parts[2]

	if _, err := signer.Unwrap(tampered); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Unwrap() of tampered token error = %v, want ErrInvalidToken", err)
	}
}

func TestUnwrapGarbage(t *testing.T) {
	signer, _ := NewSigner(testKey)

	for _, token := range []string{"", "garbage", "a.b.c"} {
		if _, err := signer.Unwrap(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Unwrap(%q) error = %v, want ErrInvalidToken", token, err)
		}
	}
}
