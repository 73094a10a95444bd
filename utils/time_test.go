package utils

import (
	"testing"
	"time"
)

func TestIsExpired(t *testing.T) {
	if IsExpired(nil) {
		t.Fatal("nil expiry must never expire")
	}
	past := time.Now().UTC().Add(-time.Minute)
	if !IsExpired(&past) {
		t.Fatal("past timestamp not reported as expired")
	}
	future := time.Now().UTC().Add(time.Minute)
	if IsExpired(&future) {
		t.Fatal("future timestamp reported as expired")
	}
}

func TestAddDays(t *testing.T) {
	got := AddDays(7)
	want := time.Now().UTC().AddDate(0, 0, 7)
	if diff := got.Sub(want); diff < -time.Minute || diff > time.Minute {
		t.Fatalf("AddDays(7) = %v, want about %v", got, want)
	}
}
