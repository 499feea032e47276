package application

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/example/meetingroom-booking/internal/persistence"
)

func fixedNow() time.Time {
	return time.Date(2024, time.January, 10, 12, 0, 0, 0, time.UTC)
}

func sequentialIDs(prefix string) func() string {
	counter := 0
	return func() string {
		counter++
		return fmt.Sprintf("%s-%d", prefix, counter)
	}
}

func newRoomService(t *testing.T) (*RoomService, *persistence.MemoryStore) {
	t.Helper()
	store := persistence.NewMemoryStore()
	return NewRoomService(store, sequentialIDs("room"), fixedNow), store
}

func TestRoomServiceCreateRoom(t *testing.T) {
	admin := Principal{UserID: "admin-1", IsAdmin: true}

	t.Run("requires admin", func(t *testing.T) {
		svc, _ := newRoomService(t)
		_, err := svc.CreateRoom(context.Background(), CreateRoomParams{
			Principal: Principal{UserID: "user-1"},
			Input:     RoomInput{Name: "Tokyo", Location: "3F", Capacity: 8},
		})
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("collects validation errors", func(t *testing.T) {
		svc, _ := newRoomService(t)
		_, err := svc.CreateRoom(context.Background(), CreateRoomParams{
			Principal: admin,
			Input:     RoomInput{Name: "  ", Capacity: 0},
		})
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if len(vErr.Fields) != 3 {
			t.Fatalf("expected 3 field errors, got %d: %v", len(vErr.Fields), vErr.Messages())
		}
		if _, ok := vErr.ErrorFor("capacity"); !ok {
			t.Fatalf("expected a capacity error, got %v", vErr.Messages())
		}
	})

	t.Run("normalizes features as a set", func(t *testing.T) {
		svc, _ := newRoomService(t)
		room, err := svc.CreateRoom(context.Background(), CreateRoomParams{
			Principal: admin,
			Input: RoomInput{
				Name:     " Tokyo ",
				Location: "3F",
				Capacity: 8,
				Features: []string{"Projector", " projector ", "", "Whiteboard"},
			},
		})
		if err != nil {
			t.Fatalf("CreateRoom returned error: %v", err)
		}
		if room.Name != "Tokyo" {
			t.Fatalf("expected trimmed name, got %q", room.Name)
		}
		if len(room.Features) != 2 || room.Features[0] != "Projector" || room.Features[1] != "Whiteboard" {
			t.Fatalf("unexpected features: %v", room.Features)
		}
	})

	t.Run("maps duplicate names", func(t *testing.T) {
		svc, _ := newRoomService(t)
		input := RoomInput{Name: "Tokyo", Location: "3F", Capacity: 8}
		if _, err := svc.CreateRoom(context.Background(), CreateRoomParams{Principal: admin, Input: input}); err != nil {
			t.Fatalf("first CreateRoom returned error: %v", err)
		}
		_, err := svc.CreateRoom(context.Background(), CreateRoomParams{Principal: admin, Input: input})
		if !errors.Is(err, ErrAlreadyExists) {
			t.Fatalf("expected ErrAlreadyExists, got %v", err)
		}
	})
}

func TestRoomServiceUpdateRoom(t *testing.T) {
	admin := Principal{UserID: "admin-1", IsAdmin: true}
	svc, _ := newRoomService(t)

	created, err := svc.CreateRoom(context.Background(), CreateRoomParams{
		Principal: admin,
		Input:     RoomInput{Name: "Tokyo", Location: "3F", Capacity: 8},
	})
	if err != nil {
		t.Fatalf("CreateRoom returned error: %v", err)
	}

	updated, err := svc.UpdateRoom(context.Background(), UpdateRoomParams{
		Principal: admin,
		RoomID:    created.ID,
		Input:     RoomInput{Name: "Osaka", Location: "4F", Capacity: 12},
	})
	if err != nil {
		t.Fatalf("UpdateRoom returned error: %v", err)
	}
	if updated.Name != "Osaka" || updated.Capacity != 12 {
		t.Fatalf("unexpected updated room: %+v", updated)
	}

	if _, err := svc.UpdateRoom(context.Background(), UpdateRoomParams{
		Principal: admin,
		RoomID:    "missing",
		Input:     RoomInput{Name: "Kyoto", Location: "1F", Capacity: 4},
	}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRoomServiceDeleteRoom(t *testing.T) {
	admin := Principal{UserID: "admin-1", IsAdmin: true}
	svc, _ := newRoomService(t)

	created, err := svc.CreateRoom(context.Background(), CreateRoomParams{
		Principal: admin,
		Input:     RoomInput{Name: "Tokyo", Location: "3F", Capacity: 8},
	})
	if err != nil {
		t.Fatalf("CreateRoom returned error: %v", err)
	}

	if err := svc.DeleteRoom(context.Background(), Principal{UserID: "user-1"}, created.ID); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if err := svc.DeleteRoom(context.Background(), admin, created.ID); err != nil {
		t.Fatalf("DeleteRoom returned error: %v", err)
	}
	if _, err := svc.GetRoom(context.Background(), admin, created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestRoomServiceListRoomsSortsByName(t *testing.T) {
	admin := Principal{UserID: "admin-1", IsAdmin: true}
	svc, _ := newRoomService(t)

	for _, name := range []string{"osaka", "Kyoto", "Tokyo"} {
		if _, err := svc.CreateRoom(context.Background(), CreateRoomParams{
			Principal: admin,
			Input:     RoomInput{Name: name, Location: "3F", Capacity: 8},
		}); err != nil {
			t.Fatalf("CreateRoom(%q) returned error: %v", name, err)
		}
	}

	rooms, err := svc.ListRooms(context.Background(), Principal{UserID: "user-1"})
	if err != nil {
		t.Fatalf("ListRooms returned error: %v", err)
	}
	got := make([]string, 0, len(rooms))
	for _, room := range rooms {
		got = append(got, room.Name)
	}
	want := []string{"Kyoto", "osaka", "Tokyo"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected order: got %v want %v", got, want)
		}
	}
}
