package models

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestRoomKeyIsOrderIndependent(t *testing.T) {
	for i := 0; i < 50; i++ {
		a, b := uuid.New(), uuid.New()
		k1, f1, s1 := RoomKey(a, b)
		k2, f2, s2 := RoomKey(b, a)
		if k1 != k2 || f1 != f2 || s1 != s2 {
			t.Fatalf("room key depends on order: %s vs %s", k1, k2)
		}
		if !strings.HasPrefix(k1, f1.String()+RoomSeparator) || !strings.HasSuffix(k1, s1.String()) {
			t.Fatalf("unexpected key layout %s", k1)
		}
		if f1.String() > s1.String() {
			t.Fatalf("participants not sorted in %s", k1)
		}
	}
}

func TestChatRoomPeer(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	room := ChatRoom{UserA: a, UserB: b}
	if room.PeerOf(a) != b || room.PeerOf(b) != a {
		t.Fatalf("peer mismatch")
	}
	if room.HasMember(uuid.New()) {
		t.Fatalf("stranger must not be a member")
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-01-01")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if d.String() != "2025-01-01" {
		t.Fatalf("round trip: %s", d)
	}

	for _, bad := range []string{"", "01/02/2025", "2025-13-01", "2025-02-30", "tomorrow"} {
		if _, err := ParseDate(bad); !errors.Is(err, ErrValidation) {
			t.Fatalf("expected ErrValidation for %q, got %v", bad, err)
		}
	}
}

func TestDateJSON(t *testing.T) {
	var l Listing
	if err := json.Unmarshal([]byte(`{"expiry_date":"2024-12-31","quantity":3}`), &l); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	out, err := json.Marshal(l)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(out), `"expiry_date":"2024-12-31"`) {
		t.Fatalf("expiry not serialized as date: %s", out)
	}
	if err := json.Unmarshal([]byte(`{"expiry_date":"31.12.2024"}`), &l); err == nil {
		t.Fatalf("expected error for malformed date")
	}
}

func TestListingFilterByCategory(t *testing.T) {
	if (ListingFilter{}).ByCategory() || (ListingFilter{Category: CategoryAll}).ByCategory() {
		t.Fatalf("empty and 'all' must not filter")
	}
	if !(ListingFilter{Category: "bakery"}).ByCategory() {
		t.Fatalf("explicit category must filter")
	}
}
