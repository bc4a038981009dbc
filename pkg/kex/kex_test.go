package kex

import (
	"bytes"
	"testing"

	"github.com/sara-star-quant/tls-handshake/internal/constants"
)

func TestCHKEMRoundTrip(t *testing.T) {
	server, err := GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}

	ciphertext, clientSecret, err := Encapsulate(server.PublicKeyBytes())
	if err != nil {
		t.Fatalf("Encapsulate: %v", err)
	}
	if len(ciphertext) != constants.CHKEMCiphertextSize {
		t.Fatalf("ciphertext len = %d, want %d", len(ciphertext), constants.CHKEMCiphertextSize)
	}

	serverSecret, err := server.Decapsulate(ciphertext)
	if err != nil {
		t.Fatalf("Decapsulate: %v", err)
	}

	if !bytes.Equal(clientSecret, serverSecret) {
		t.Fatal("client and server derived different shared secrets")
	}
}

func TestEncapsulateRejectsWrongSizedPublicKey(t *testing.T) {
	_, _, err := Encapsulate(make([]byte, 10))
	if err == nil {
		t.Fatal("expected an error for a malformed public key")
	}
}

func TestDecapsulateRejectsWrongSizedCiphertext(t *testing.T) {
	server, err := GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	if _, err := server.Decapsulate(make([]byte, 10)); err == nil {
		t.Fatal("expected an error for a malformed ciphertext")
	}
}

func TestAEADSealOpenRoundTrip(t *testing.T) {
	key := make([]byte, constants.AESKeySize)
	for i := range key {
		key[i] = byte(i)
	}

	for _, suite := range []constants.CipherSuite{
		constants.CipherSuiteCHKEMAES256GCM,
		constants.CipherSuiteCHKEMChaCha20Poly1305,
	} {
		aead, err := NewAEAD(suite, key)
		if err != nil {
			t.Fatalf("NewAEAD(%v): %v", suite, err)
		}
		plaintext := []byte("finished verify data goes here")
		sealed, err := aead.Seal(plaintext)
		if err != nil {
			t.Fatalf("Seal: %v", err)
		}
		opened, err := aead.Open(sealed)
		if err != nil {
			t.Fatalf("Open: %v", err)
		}
		if !bytes.Equal(opened, plaintext) {
			t.Fatalf("round trip = %q, want %q", opened, plaintext)
		}
	}
}

func TestAEADOpenRejectsTamperedCiphertext(t *testing.T) {
	key := make([]byte, constants.AESKeySize)
	aead, err := NewAEAD(constants.CipherSuiteCHKEMAES256GCM, key)
	if err != nil {
		t.Fatalf("NewAEAD: %v", err)
	}
	sealed, err := aead.Seal([]byte("message"))
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	sealed[len(sealed)-1] ^= 0xFF
	if _, err := aead.Open(sealed); err == nil {
		t.Fatal("expected tampered ciphertext to fail authentication")
	}
}

func TestDeriveHandshakeKeysAreDistinctPerDirection(t *testing.T) {
	secret := make([]byte, constants.CHKEMSharedSecretSize)
	for i := range secret {
		secret[i] = byte(i * 7)
	}
	keys, err := DeriveHandshakeKeys(secret)
	if err != nil {
		t.Fatalf("DeriveHandshakeKeys: %v", err)
	}
	if bytes.Equal(keys.ClientKey, keys.ServerKey) {
		t.Fatal("client and server keys must differ")
	}
	if bytes.Equal(keys.ClientIV, keys.ServerIV) {
		t.Fatal("client and server IVs must differ")
	}
}

func TestDeriveFinishedVerifyDataDiffersByRole(t *testing.T) {
	secret := make([]byte, constants.CHKEMSharedSecretSize)
	digest := bytes.Repeat([]byte{0x42}, 32)

	clientData, err := DeriveFinishedVerifyData(secret, digest, true)
	if err != nil {
		t.Fatalf("DeriveFinishedVerifyData(client): %v", err)
	}
	serverData, err := DeriveFinishedVerifyData(secret, digest, false)
	if err != nil {
		t.Fatalf("DeriveFinishedVerifyData(server): %v", err)
	}
	if bytes.Equal(clientData, serverData) {
		t.Fatal("client and server Finished verify_data must differ")
	}
	if len(clientData) != constants.FinishedVerifyDataLen {
		t.Fatalf("len = %d, want %d", len(clientData), constants.FinishedVerifyDataLen)
	}
}
