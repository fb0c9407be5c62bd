package game

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestSnapshotIsDeepCopy(t *testing.T) {
	e := newFlatEngine(t, 2, nil)
	place(e, 0, 100)
	e.Fire(45, 50)
	for i := 0; i < 10; i++ {
		e.Step(testFrame)
	}

	s := e.Snapshot()
	if s.Projectile == nil || len(s.Projectile.Trail) == 0 {
		t.Fatalf("snapshot projectile = %+v, want in flight with trail", s.Projectile)
	}

	s.Combatants[0].Inventory[WeaponNuke] = 99
	s.Combatants[0].Health = 1
	s.Terrain[0].Y = 0
	s.Projectile.Trail[0].X = -1

	if e.combatant(0).Inventory[WeaponNuke] == 99 || e.combatant(0).Health == 1 {
		t.Error("snapshot combatant shares state with engine")
	}
	if e.terrain.Points[0].Y == 0 {
		t.Error("snapshot terrain shares state with engine")
	}
	if e.projectile.Trail()[0].X == -1 {
		t.Error("snapshot trail shares state with engine")
	}
}

func TestSnapshotJSON(t *testing.T) {
	e := newFlatEngine(t, 2, []Difficulty{Human, Medium})
	data, err := json.Marshal(e.Snapshot())
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	for _, want := range []string{`"phase":"waiting"`, `"controller":"medium"`, `"missile":-1`, `"terrain":[`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("snapshot JSON missing %s", want)
		}
	}
}
