package entity

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func testSet(rows, cols int) []Entity {
	set := []Entity{
		{ID: BallID, Pos: mgl64.Vec2{0, 15}},
		{ID: PaddleID, Pos: mgl64.Vec2{0, 11}},
	}
	for r := range rows {
		for c := range cols {
			set = append(set, Entity{ID: BrickID(r, c), Pos: mgl64.Vec2{float64(c), float64(r)}})
		}
	}
	return set
}

func TestIDName(t *testing.T) {
	tests := []struct {
		id   ID
		want string
	}{
		{BallID, "Ball"},
		{PaddleID, "Paddle"},
		{BrickID(0, 0), "Brick_0_0"},
		{BrickID(6, 4), "Brick_6_4"},
	}
	for _, tt := range tests {
		if got := tt.id.Name(); got != tt.want {
			t.Errorf("Name() = %q, want %q", got, tt.want)
		}
	}
}

func TestRegistryGetBeforeReset(t *testing.T) {
	r := NewRegistry()
	if _, ok := r.Get(BallID); ok {
		t.Error("empty registry should not contain the ball")
	}
	if _, ok := r.Get(BrickID(0, 0)); ok {
		t.Error("empty registry should not contain bricks")
	}
	if r.All() != nil {
		t.Error("All() on empty registry should be nil")
	}
}

func TestRegistryGetAndSetPosition(t *testing.T) {
	r := NewRegistry()
	if err := r.ResetAll(testSet(2, 3)); err != nil {
		t.Fatalf("ResetAll() failed: %v", err)
	}

	if r.BrickCount() != 6 {
		t.Errorf("BrickCount() = %d, want 6", r.BrickCount())
	}

	if !r.SetPosition(BrickID(1, 2), mgl64.Vec2{5, 6}) {
		t.Fatal("SetPosition() on known brick returned false")
	}
	e, ok := r.Get(BrickID(1, 2))
	if !ok {
		t.Fatal("Get() brick (1,2) not found")
	}
	if e.Pos != (mgl64.Vec2{5, 6}) {
		t.Errorf("brick position = %v, want [5 6]", e.Pos)
	}

	if _, ok := r.Get(BrickID(2, 0)); ok {
		t.Error("Get() outside the grid should be absent")
	}
	if r.SetPosition(BrickID(9, 9), mgl64.Vec2{}) {
		t.Error("SetPosition() on unknown brick should return false")
	}
}

func TestRegistrySetDestroyedTransitionsOnce(t *testing.T) {
	r := NewRegistry()
	if err := r.ResetAll(testSet(1, 2)); err != nil {
		t.Fatalf("ResetAll() failed: %v", err)
	}

	id := BrickID(0, 1)
	if !r.SetDestroyed(id) {
		t.Fatal("first SetDestroyed() should report the transition")
	}
	for i := 0; i < 3; i++ {
		if r.SetDestroyed(id) {
			t.Errorf("repeat SetDestroyed() #%d reported a transition", i+1)
		}
	}
	if r.DestroyedCount() != 1 {
		t.Errorf("DestroyedCount() = %d, want 1", r.DestroyedCount())
	}
	if r.SetDestroyed(BrickID(3, 3)) {
		t.Error("SetDestroyed() on unknown ID should return false")
	}
}

func TestRegistryResetAllRecreates(t *testing.T) {
	r := NewRegistry()
	if err := r.ResetAll(testSet(1, 2)); err != nil {
		t.Fatalf("ResetAll() failed: %v", err)
	}
	r.SetDestroyed(BrickID(0, 0))

	if err := r.ResetAll(testSet(1, 2)); err != nil {
		t.Fatalf("second ResetAll() failed: %v", err)
	}
	e, _ := r.Get(BrickID(0, 0))
	if e.Destroyed {
		t.Error("ResetAll() should recreate bricks as not destroyed")
	}
}

func TestRegistryResetAllRejectsBadSets(t *testing.T) {
	tests := []struct {
		name string
		set  []Entity
	}{
		{"no ball", []Entity{{ID: PaddleID}}},
		{"no paddle", []Entity{{ID: BallID}}},
		{"duplicate ball", []Entity{{ID: BallID}, {ID: BallID}, {ID: PaddleID}}},
		{"duplicate brick", []Entity{{ID: BallID}, {ID: PaddleID}, {ID: BrickID(0, 0)}, {ID: BrickID(0, 0)}}},
		{"negative brick", []Entity{{ID: BallID}, {ID: PaddleID}, {ID: BrickID(-1, 0)}}},
		{"huge brick index", []Entity{{ID: BallID}, {ID: PaddleID}, {ID: BrickID(1<<20, 1<<20)}}},
		{"far column", []Entity{{ID: BallID}, {ID: PaddleID}, {ID: BrickID(0, 1<<30)}}},
		{"wide and tall", []Entity{{ID: BallID}, {ID: PaddleID}, {ID: BrickID(40, 0)}, {ID: BrickID(0, 40)}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry()
			if err := r.ResetAll(testSet(1, 1)); err != nil {
				t.Fatalf("ResetAll() failed: %v", err)
			}
			err := r.ResetAll(tt.set)
			if !errors.Is(err, ErrInvalidSet) {
				t.Fatalf("ResetAll() error = %v, want ErrInvalidSet", err)
			}
			// Old set must survive a rejected reset.
			if _, ok := r.Get(BrickID(0, 0)); !ok {
				t.Error("rejected ResetAll() modified the registry")
			}
		})
	}
}

func TestRegistryAcceptsPaddedGrid(t *testing.T) {
	r := NewRegistry()
	set := []Entity{{ID: BallID}, {ID: PaddleID}, {ID: BrickID(31, 31)}}
	if err := r.ResetAll(set); err != nil {
		t.Fatalf("ResetAll() failed: %v", err)
	}
	if r.BrickCount() != 1 {
		t.Errorf("BrickCount() = %d, want 1", r.BrickCount())
	}
}

func TestRegistrySparseGrid(t *testing.T) {
	r := NewRegistry()
	set := []Entity{
		{ID: BallID},
		{ID: PaddleID},
		{ID: BrickID(0, 2)},
		{ID: BrickID(1, 0)},
	}
	if err := r.ResetAll(set); err != nil {
		t.Fatalf("ResetAll() failed: %v", err)
	}

	want := []ID{BrickID(0, 2), BrickID(1, 0)}
	got := r.Bricks()
	if len(got) != len(want) {
		t.Fatalf("Bricks() len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Bricks()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
	if _, ok := r.Get(BrickID(0, 0)); ok {
		t.Error("gap in the grid should be absent")
	}
	if n := len(r.All()); n != 4 {
		t.Errorf("All() len = %d, want 4", n)
	}
}
