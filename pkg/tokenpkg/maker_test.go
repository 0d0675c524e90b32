package tokenpkg

import (
	"strings"
	"testing"
	"time"

	"github.com/go-petr/pet-ledger/pkg/randompkg"
)

func TestNew(t *testing.T) {
	t.Parallel()

	key := randompkg.String(32)

	testCases := []struct {
		tokenType string
		wantErr   bool
	}{
		{tokenType: TypePaseto},
		{tokenType: TypeJWT},
		{tokenType: "macaroon", wantErr: true},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.tokenType, func(t *testing.T) {
			t.Parallel()

			maker, err := New(tc.tokenType, key)
			if tc.wantErr {
				if err == nil {
					t.Errorf("New(%q) returned nil error", tc.tokenType)
				}

				return
			}

			if err != nil {
				t.Fatalf("New(%q) returned error: %v", tc.tokenType, err)
			}

			userID := randompkg.OwnerID()

			token, _, err := maker.CreateToken(userID, time.Minute)
			if err != nil {
				t.Fatalf("maker.CreateToken(%v) returned error: %v", userID, err)
			}

			payload, err := maker.VerifyToken(token)
			if err != nil {
				t.Fatalf("maker.VerifyToken(%v) returned error: %v", token, err)
			}

			if payload.UserID != userID {
				t.Errorf("payload.UserID = %v, want %v", payload.UserID, userID)
			}
		})
	}
}

func TestNewPasetoMakerKeySize(t *testing.T) {
	t.Parallel()

	if _, err := NewPasetoMaker(strings.Repeat("x", 31)); err == nil {
		t.Error("NewPasetoMaker(31 chars) returned nil error")
	}
}

func TestTokenFromOtherKeyIsInvalid(t *testing.T) {
	t.Parallel()

	issuer, err := NewPasetoMaker(randompkg.String(32))
	if err != nil {
		t.Fatalf("NewPasetoMaker returned error: %v", err)
	}

	verifier, err := NewPasetoMaker(randompkg.String(32))
	if err != nil {
		t.Fatalf("NewPasetoMaker returned error: %v", err)
	}

	token, _, err := issuer.CreateToken(randompkg.OwnerID(), time.Minute)
	if err != nil {
		t.Fatalf("issuer.CreateToken returned error: %v", err)
	}

	if _, err := verifier.VerifyToken(token); err != ErrInvalidToken {
		t.Errorf("verifier.VerifyToken returned %v, want %v", err, ErrInvalidToken)
	}
}
