// Package storetest содержит общий набор проверок для реализаций store.Store.
package storetest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rajivgeraev/foodshare-api/internal/models"
	"github.com/rajivgeraev/foodshare-api/internal/store"
)

// Factory создает пустое хранилище для одного теста
type Factory func(t *testing.T) store.Store

// Run прогоняет все проверки контракта
func Run(t *testing.T, newStore Factory) {
	t.Run("Users", func(t *testing.T) { testUsers(t, newStore(t)) })
	t.Run("ListingRoundTrip", func(t *testing.T) { testListingRoundTrip(t, newStore(t)) })
	t.Run("ListingDeleteIdempotent", func(t *testing.T) { testListingDelete(t, newStore(t)) })
	t.Run("ListingFilter", func(t *testing.T) { testListingFilter(t, newStore(t)) })
	t.Run("ListingConcurrentCreate", func(t *testing.T) { testConcurrentCreate(t, newStore(t)) })
	t.Run("RoomOrderIndependent", func(t *testing.T) { testRoomOrder(t, newStore(t)) })
	t.Run("RoomConcurrentCreate", func(t *testing.T) { testRoomConcurrent(t, newStore(t)) })
	t.Run("Messages", func(t *testing.T) { testMessages(t, newStore(t)) })
	t.Run("Allergies", func(t *testing.T) { testAllergies(t, newStore(t)) })
}

// NewUser создает пользователя с уникальным email
func NewUser(t *testing.T, s store.UserRepository, name string) *models.User {
	t.Helper()
	user := &models.User{
		Email:        fmt.Sprintf("%s-%s@example.com", name, uuid.NewString()[:8]),
		DisplayName:  name,
		PasswordHash: "hash",
	}
	if err := s.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("create user %s: %v", name, err)
	}
	return user
}

func mustDate(t *testing.T, s string) models.Date {
	t.Helper()
	d, err := models.ParseDate(s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return d
}

func testUsers(t *testing.T, s store.Store) {
	ctx := context.Background()
	user := NewUser(t, s, "alice")

	dup := &models.User{Email: user.Email, PasswordHash: "other"}
	if err := s.CreateUser(ctx, dup); !errors.Is(err, models.ErrDuplicateAccount) {
		t.Fatalf("expected ErrDuplicateAccount, got %v", err)
	}

	got, err := s.GetUserByEmail(ctx, user.Email)
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if got.ID != user.ID || got.DisplayName != "alice" || got.PasswordHash != "hash" {
		t.Fatalf("unexpected user %+v", got)
	}

	if err := s.UpdateDisplayName(ctx, user.ID, "Alice B"); err != nil {
		t.Fatalf("update name: %v", err)
	}
	if err := s.UpdateAvatarURL(ctx, user.ID, "https://img/a.png"); err != nil {
		t.Fatalf("update avatar: %v", err)
	}
	got, err = s.GetUserByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if got.DisplayName != "Alice B" || got.AvatarURL != "https://img/a.png" {
		t.Fatalf("updates not persisted: %+v", got)
	}

	if _, err := s.GetUserByID(ctx, uuid.New()); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.UpdateDisplayName(ctx, uuid.New(), "x"); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on update of missing user, got %v", err)
	}
}

func newListing(owner uuid.UUID, title, category, ingredients string, expiry models.Date) *models.Listing {
	return &models.Listing{
		UserID:      owner,
		Title:       title,
		Description: title + " description",
		Category:    category,
		Other:       "tag",
		Ingredients: ingredients,
		Quantity:    2,
		ExpiryDate:  expiry,
		Location:    "Main st. 1",
	}
}

func testListingRoundTrip(t *testing.T, s store.Store) {
	ctx := context.Background()
	owner := NewUser(t, s, "owner")

	in := newListing(owner.ID, "Bread", "bakery", "wheat,yeast", mustDate(t, "2025-01-01"))
	in.Quantity = 7
	in.ImageURL = "https://img/bread.png"
	want := *in

	id, err := s.CreateListing(ctx, in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if id == uuid.Nil {
		t.Fatalf("expected generated id")
	}

	got, err := s.GetListing(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != id || got.UserID != want.UserID || got.Title != want.Title ||
		got.Description != want.Description || got.Category != want.Category ||
		got.Other != want.Other || got.Ingredients != want.Ingredients ||
		got.Quantity != 7 || got.ExpiryDate.String() != "2025-01-01" ||
		got.Location != want.Location || got.ImageURL != want.ImageURL {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}

	mine, err := s.ListByOwner(ctx, owner.ID)
	if err != nil {
		t.Fatalf("list by owner: %v", err)
	}
	if len(mine) != 1 || mine[0].ID != id {
		t.Fatalf("expected owner listing, got %+v", mine)
	}

	other := NewUser(t, s, "other")
	none, err := s.ListByOwner(ctx, other.ID)
	if err != nil {
		t.Fatalf("list by other owner: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("expected no listings for other owner, got %d", len(none))
	}
}

func testListingDelete(t *testing.T, s store.Store) {
	ctx := context.Background()
	owner := NewUser(t, s, "owner")
	id, err := s.CreateListing(ctx, newListing(owner.ID, "Soup", "meals", "carrot", mustDate(t, "2025-02-01")))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := s.DeleteListing(ctx, id); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if err := s.DeleteListing(ctx, id); err != nil {
		t.Fatalf("second delete must be a no-op, got %v", err)
	}
	if _, err := s.GetListing(ctx, id); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func ids(listings []models.Listing) map[uuid.UUID]bool {
	set := make(map[uuid.UUID]bool, len(listings))
	for _, l := range listings {
		set[l.ID] = true
	}
	return set
}

func testListingFilter(t *testing.T, s store.Store) {
	ctx := context.Background()
	owner := NewUser(t, s, "owner")
	expiry := mustDate(t, "2025-01-01")

	create := func(l *models.Listing) uuid.UUID {
		t.Helper()
		id, err := s.CreateListing(ctx, l)
		if err != nil {
			t.Fatalf("create %s: %v", l.Title, err)
		}
		return id
	}

	bread := create(newListing(owner.ID, "Bread", "bakery", "wheat,yeast", expiry))
	cookies := create(newListing(owner.ID, "Cookies", "bakery", "Flour, Peanuts, sugar", expiry))
	milk := create(newListing(owner.ID, "Cashew drink", "dairy", "cashew MILK", expiry))
	apples := create(newListing(owner.ID, "Apples", "produce", "", expiry))

	cases := []struct {
		name   string
		filter models.ListingFilter
		want   []uuid.UUID
	}{
		{"no filters", models.ListingFilter{}, []uuid.UUID{bread, cookies, milk, apples}},
		{"all sentinel", models.ListingFilter{Category: models.CategoryAll}, []uuid.UUID{bread, cookies, milk, apples}},
		{"category only", models.ListingFilter{Category: "bakery"}, []uuid.UUID{bread, cookies}},
		{"allergen excludes wheat", models.ListingFilter{Category: "bakery", Allergen: "wheat"}, []uuid.UUID{cookies}},
		{"allergen not present", models.ListingFilter{Category: "bakery", Allergen: "sesame"}, []uuid.UUID{bread, cookies}},
		{"allergen inside a longer word", models.ListingFilter{Category: "bakery", Allergen: "nuts"}, []uuid.UUID{bread}},
		{"allergen case-insensitive", models.ListingFilter{Allergen: "peanuts"}, []uuid.UUID{bread, milk, apples}},
		{"substring match", models.ListingFilter{Category: models.CategoryAll, Allergen: "milk"}, []uuid.UUID{bread, cookies, apples}},
		{"zero matches", models.ListingFilter{Category: "frozen"}, nil},
		{"all excluded", models.ListingFilter{Category: "dairy", Allergen: "cashew"}, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := s.FilterListings(ctx, tc.filter)
			if err != nil {
				t.Fatalf("filter: %v", err)
			}
			if len(got) != len(tc.want) {
				t.Fatalf("expected %d listings, got %d", len(tc.want), len(got))
			}
			set := ids(got)
			for _, id := range tc.want {
				if !set[id] {
					t.Fatalf("expected listing %s in result", id)
				}
			}
		})
	}

	all, err := s.FilterListings(ctx, models.ListingFilter{})
	if err != nil {
		t.Fatalf("filter all: %v", err)
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].CreatedAt.Before(all[i].CreatedAt) {
			t.Fatalf("expected newest first, got %v before %v", all[i-1].CreatedAt, all[i].CreatedAt)
		}
	}
}

func testConcurrentCreate(t *testing.T, s store.Store) {
	ctx := context.Background()
	owner := NewUser(t, s, "owner")
	expiry := mustDate(t, "2025-03-03")

	const n = 16
	var wg sync.WaitGroup
	results := make(chan uuid.UUID, n)
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id, err := s.CreateListing(ctx, newListing(owner.ID, fmt.Sprintf("item-%d", i), "misc", "", expiry))
			if err != nil {
				errs <- err
				return
			}
			results <- id
		}(i)
	}
	wg.Wait()
	close(results)
	close(errs)

	for err := range errs {
		t.Fatalf("concurrent create: %v", err)
	}
	seen := map[uuid.UUID]bool{}
	for id := range results {
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
	}
	if len(seen) != n {
		t.Fatalf("expected %d ids, got %d", n, len(seen))
	}
}

func testRoomOrder(t *testing.T, s store.Store) {
	ctx := context.Background()
	a := NewUser(t, s, "a")
	b := NewUser(t, s, "b")

	ab, created, err := s.GetOrCreateRoom(ctx, a.ID, b.ID)
	if err != nil {
		t.Fatalf("create room: %v", err)
	}
	if !created {
		t.Fatalf("expected first call to create the room")
	}
	ba, created, err := s.GetOrCreateRoom(ctx, b.ID, a.ID)
	if err != nil {
		t.Fatalf("get room: %v", err)
	}
	if created {
		t.Fatalf("expected second call to reuse the room")
	}
	if ab.ID != ba.ID {
		t.Fatalf("room ids differ: %s vs %s", ab.ID, ba.ID)
	}
	if !ab.HasMember(a.ID) || !ab.HasMember(b.ID) {
		t.Fatalf("room members mismatch: %+v", ab)
	}

	if _, _, err := s.GetOrCreateRoom(ctx, a.ID, a.ID); !errors.Is(err, models.ErrValidation) {
		t.Fatalf("expected ErrValidation for self chat, got %v", err)
	}

	rooms, err := s.ListRooms(ctx, b.ID)
	if err != nil {
		t.Fatalf("list rooms: %v", err)
	}
	if len(rooms) != 1 || rooms[0].ID != ab.ID {
		t.Fatalf("expected one room for b, got %+v", rooms)
	}
}

func testRoomConcurrent(t *testing.T, s store.Store) {
	ctx := context.Background()
	a := NewUser(t, s, "a")
	b := NewUser(t, s, "b")

	const n = 12
	var wg sync.WaitGroup
	var mu sync.Mutex
	roomIDs := map[string]int{}
	createdCount := 0
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			x, y := a.ID, b.ID
			if i%2 == 1 {
				x, y = y, x
			}
			room, created, err := s.GetOrCreateRoom(ctx, x, y)
			if err != nil {
				t.Errorf("get or create: %v", err)
				return
			}
			mu.Lock()
			roomIDs[room.ID]++
			if created {
				createdCount++
			}
			mu.Unlock()
		}(i)
	}
	wg.Wait()

	if len(roomIDs) != 1 {
		t.Fatalf("expected exactly one room, got %v", roomIDs)
	}
	if createdCount != 1 {
		t.Fatalf("expected exactly one creation, got %d", createdCount)
	}
	rooms, err := s.ListRooms(ctx, a.ID)
	if err != nil {
		t.Fatalf("list rooms: %v", err)
	}
	if len(rooms) != 1 {
		t.Fatalf("expected one stored room, got %d", len(rooms))
	}
}

func testMessages(t *testing.T, s store.Store) {
	ctx := context.Background()
	a := NewUser(t, s, "a")
	b := NewUser(t, s, "b")
	room, _, err := s.GetOrCreateRoom(ctx, a.ID, b.ID)
	if err != nil {
		t.Fatalf("room: %v", err)
	}

	if _, err := s.AppendMessage(ctx, room.ID, a.ID, "   "); !errors.Is(err, models.ErrValidation) {
		t.Fatalf("expected ErrValidation for empty body, got %v", err)
	}
	if _, err := s.AppendMessage(ctx, "", a.ID, "hi"); !errors.Is(err, models.ErrValidation) {
		t.Fatalf("expected ErrValidation for missing room, got %v", err)
	}
	if _, err := s.AppendMessage(ctx, room.ID, uuid.Nil, "hi"); !errors.Is(err, models.ErrValidation) {
		t.Fatalf("expected ErrValidation for missing sender, got %v", err)
	}
	if _, err := s.AppendMessage(ctx, "nope_nope", a.ID, "hi"); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown room, got %v", err)
	}

	empty, err := store.CollectMessages(s.ListMessages(ctx, room.ID))
	if err != nil {
		t.Fatalf("list empty: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected empty history, got %d", len(empty))
	}

	bodies := []string{"hello", "hi there", "is the bread still available?", "yes"}
	var last *models.Message
	for i, body := range bodies {
		sender := a.ID
		if i%2 == 1 {
			sender = b.ID
		}
		msg, err := s.AppendMessage(ctx, room.ID, sender, body)
		if err != nil {
			t.Fatalf("append %q: %v", body, err)
		}
		if last != nil && msg.CreatedAt.Before(last.CreatedAt) {
			t.Fatalf("timestamp went backwards: %v < %v", msg.CreatedAt, last.CreatedAt)
		}
		last = msg
	}

	seq := s.ListMessages(ctx, room.ID)
	for pass := 0; pass < 2; pass++ {
		msgs, err := store.CollectMessages(seq)
		if err != nil {
			t.Fatalf("list pass %d: %v", pass, err)
		}
		if len(msgs) != len(bodies) {
			t.Fatalf("pass %d: expected %d messages, got %d", pass, len(bodies), len(msgs))
		}
		for i, msg := range msgs {
			if msg.Body != bodies[i] {
				t.Fatalf("pass %d: message %d = %q, want %q", pass, i, msg.Body, bodies[i])
			}
		}
		if msgs[len(msgs)-1].ID != last.ID {
			t.Fatalf("appended message is not last")
		}
	}

	// Ранний выход из range не должен ломать последующие проходы
	for range seq {
		break
	}
	deadline, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	count := 0
	for _, err := range s.ListMessages(deadline, room.ID) {
		if err != nil {
			t.Fatalf("iterate: %v", err)
		}
		count++
	}
	if count != len(bodies) {
		t.Fatalf("expected %d messages after early break, got %d", len(bodies), count)
	}
}

func testAllergies(t *testing.T, s store.Store) {
	ctx := context.Background()
	for _, name := range []string{"peanuts", "gluten"} {
		if _, err := s.CreateAllergy(ctx, name); err != nil {
			t.Fatalf("create allergy: %v", err)
		}
	}
	all, err := s.ListAllergies(ctx)
	if err != nil {
		t.Fatalf("list allergies: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 allergies, got %d", len(all))
	}
}
