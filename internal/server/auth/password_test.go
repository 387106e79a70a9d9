package auth

import (
	"strings"
	"testing"
)

// fast parameters for tests only
func testHasher() *PasswordHasher {
	return NewPasswordHasher(Argon2Params{
		Time:        1,
		MemoryKB:    16 * 1024,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	})
}

func TestHashAndVerify(t *testing.T) {
	t.Parallel()
	h := testHasher()

	hash, err := h.Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$") {
		t.Fatalf("unexpected hash format: %q", hash)
	}

	ok, err := h.Verify(hash, "correct horse battery staple")
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if !ok {
		t.Fatal("correct password did not verify")
	}

	ok, err = h.Verify(hash, "wrong password")
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if ok {
		t.Fatal("wrong password verified")
	}
}

func TestHash_SaltsDiffer(t *testing.T) {
	t.Parallel()
	h := testHasher()

	h1, err := h.Hash("pw")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	h2, err := h.Hash("pw")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if h1 == h2 {
		t.Fatal("two hashes of the same password are identical")
	}
}

func TestVerify_MalformedHash(t *testing.T) {
	t.Parallel()
	h := testHasher()

	for _, bad := range []string{
		"",
		"plaintext",
		"$bcrypt$v=19$m=1,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=18$m=1,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=1,t=1$c2FsdA$aGFzaA",
	} {
		if _, err := h.Verify(bad, "pw"); err == nil {
			t.Fatalf("expected error for malformed hash %q", bad)
		}
	}
}

func TestNeedsRehash(t *testing.T) {
	t.Parallel()

	weak := NewPasswordHasher(Argon2Params{
		Time: 1, MemoryKB: 16 * 1024, Parallelism: 1, SaltLength: 16, KeyLength: 32,
	})
	strong := NewPasswordHasher(Argon2Params{
		Time: 3, MemoryKB: 64 * 1024, Parallelism: 4, SaltLength: 16, KeyLength: 32,
	})

	hash, err := weak.Hash("pw")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	rehash, err := strong.NeedsRehash(hash)
	if err != nil {
		t.Fatalf("NeedsRehash error: %v", err)
	}
	if !rehash {
		t.Fatal("expected rehash for weaker parameters")
	}

	rehash, err = weak.NeedsRehash(hash)
	if err != nil {
		t.Fatalf("NeedsRehash error: %v", err)
	}
	if rehash {
		t.Fatal("unexpected rehash for identical parameters")
	}
}
