package hash

import "testing"

func TestSHA256Hex(t *testing.T) {
	// Known SHA256 of "hello"
	want := "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
	got := SHA256Hex("hello")
	if got != want {
		t.Errorf("SHA256Hex(\"hello\") = %s, want %s", got, want)
	}
}

func TestSHA256Hex_Empty(t *testing.T) {
	// SHA256 of empty string
	want := "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	got := SHA256Hex("")
	if got != want {
		t.Errorf("SHA256Hex(\"\") = %s, want %s", got, want)
	}
}

func TestShortHex(t *testing.T) {
	full := SHA256Hex("192.0.2.1")

	if got := ShortHex("192.0.2.1", 12); got != full[:12] {
		t.Errorf("ShortHex(12) = %s, want %s", got, full[:12])
	}
	if got := ShortHex("192.0.2.1", 100); got != full {
		t.Errorf("ShortHex beyond full length = %s, want full hash", got)
	}
}

func TestShortHex_Deterministic(t *testing.T) {
	if ShortHex("10.0.0.1", 12) != ShortHex("10.0.0.1", 12) {
		t.Error("same input must produce the same prefix")
	}
	if ShortHex("10.0.0.1", 12) == ShortHex("10.0.0.2", 12) {
		t.Error("different inputs should produce different prefixes")
	}
}
