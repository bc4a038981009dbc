package digest

import (
	"bytes"
	"crypto/sha256"
	"testing"
)

func TestUpdateMatchesDirectHash(t *testing.T) {
	tr := New()
	tr.Update([]byte("client-hello-bytes"))
	tr.Update([]byte("server-hello-bytes"))

	want := sha256.Sum256([]byte("client-hello-bytesserver-hello-bytes"))
	got := tr.Sum(SHA256, true)
	if !bytes.Equal(got, want[:]) {
		t.Fatalf("SHA256 transcript = %x, want %x", got, want)
	}
}

func TestClientAndServerViewsAgreeOnIdenticalInput(t *testing.T) {
	tr := New()
	tr.Update([]byte("same bytes both directions see"))

	if !bytes.Equal(tr.Sum(MD5, true), tr.Sum(MD5, false)) {
		t.Fatal("client/server MD5 views diverged on identical input")
	}
	if !bytes.Equal(tr.Sum(SHA1, true), tr.Sum(SHA1, false)) {
		t.Fatal("client/server SHA1 views diverged on identical input")
	}
	if !bytes.Equal(tr.Sum(SHA256, true), tr.Sum(SHA256, false)) {
		t.Fatal("client/server SHA256 views diverged on identical input")
	}
}

func TestMD5SHA1IsConcatenationOfBothDigests(t *testing.T) {
	tr := New()
	tr.Update([]byte("transcript"))

	combined := tr.MD5SHA1(true)
	if len(combined) != 16+20 {
		t.Fatalf("len(MD5SHA1) = %d, want 36", len(combined))
	}
	if !bytes.Equal(combined[:16], tr.Sum(MD5, true)) {
		t.Fatal("MD5SHA1 prefix does not match MD5 sum")
	}
	if !bytes.Equal(combined[16:], tr.Sum(SHA1, true)) {
		t.Fatal("MD5SHA1 suffix does not match SHA1 sum")
	}
}

func TestSumDoesNotMutateRunningState(t *testing.T) {
	tr := New()
	tr.Update([]byte("partial"))
	first := tr.Sum(SHA256, true)
	second := tr.Sum(SHA256, true)
	if !bytes.Equal(first, second) {
		t.Fatal("calling Sum twice produced different digests; Sum must not consume state")
	}
	tr.Update([]byte(" more"))
	third := tr.Sum(SHA256, true)
	if bytes.Equal(first, third) {
		t.Fatal("digest did not change after absorbing more bytes")
	}
}

func TestFragmentedUpdatesEqualOneShotUpdate(t *testing.T) {
	// Mirrors the single-byte-record fragmentation boundary scenario: the
	// transcript hash must be identical whether bytes arrive in one write
	// or dribbled in one byte at a time.
	whole := New()
	whole.Update([]byte("ServerHelloBytesAndMore"))

	fragmented := New()
	for _, b := range []byte("ServerHelloBytesAndMore") {
		fragmented.Update([]byte{b})
	}

	if !bytes.Equal(whole.Sum(SHA256, true), fragmented.Sum(SHA256, true)) {
		t.Fatal("fragmented absorption diverged from one-shot absorption")
	}
}
