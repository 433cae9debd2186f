package cache

import (
	"strings"
	"testing"
	"time"
)

func TestMemory_RoundTrip(t *testing.T) {
	m := NewMemory(time.Minute, time.Minute)
	key := Key("https://www.statista.com/report")

	if _, found := m.Get(key); found {
		t.Fatal("unexpected hit on empty cache")
	}
	if err := m.Set(key, []byte("payload"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, found := m.Get(key)
	if !found || string(got) != "payload" {
		t.Errorf("Get = %q, %v", got, found)
	}
}

func TestKey_StableAndVersioned(t *testing.T) {
	a := Key("https://example.com/a")
	if a != Key("https://example.com/a") {
		t.Error("key not stable for identical URL")
	}
	if a == Key("https://example.com/b") {
		t.Error("distinct URLs share a key")
	}
	if !strings.HasPrefix(a, "atlas:v1:") {
		t.Errorf("key = %q, want atlas:v1: prefix", a)
	}
}
