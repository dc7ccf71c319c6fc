package ratelimit

import (
	"testing"
	"time"
)

func TestAllowConsumesCapacity(t *testing.T) {
	l := New()
	for i := 0; i < 3; i++ {
		if !l.Allow("a", 3, 0) {
			t.Fatalf("request %d should be admitted", i)
		}
	}
	if l.Allow("a", 3, 0) {
		t.Fatalf("bucket should be empty")
	}
}

func TestAllowKeysAreIndependent(t *testing.T) {
	l := New()
	if !l.Allow("a", 1, 0) {
		t.Fatalf("first key should be admitted")
	}
	if !l.Allow("b", 1, 0) {
		t.Fatalf("second key should have its own bucket")
	}
	if l.Allow("a", 1, 0) {
		t.Fatalf("first key should be exhausted")
	}
}

func TestAllowRefills(t *testing.T) {
	l := New()
	if !l.Allow("a", 1, 1000) {
		t.Fatalf("first request should be admitted")
	}
	time.Sleep(5 * time.Millisecond)
	if !l.Allow("a", 1, 1000) {
		t.Fatalf("bucket should have refilled")
	}
}

func TestPruneDropsStaleBuckets(t *testing.T) {
	l := New()
	l.Allow("old", 1, 0)
	l.m["old"].last = time.Now().Add(-staleAfter - time.Minute)

	l.prune(time.Now())
	if _, ok := l.m["old"]; ok {
		t.Fatalf("stale bucket should be pruned")
	}
}
