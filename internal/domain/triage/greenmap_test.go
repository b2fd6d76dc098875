package triage

import "testing"

func TestDefaultGreenMapIsACopy(t *testing.T) {
	gm := DefaultGreenMap()
	gm[1][0] = "mutated"
	gm[99] = []string{"new"}

	fresh := DefaultGreenMap()
	if fresh[1][0] != "内科" {
		t.Errorf("seed map leaked mutation: %v", fresh[1])
	}
	if _, ok := fresh[99]; ok {
		t.Error("seed map leaked added key")
	}
}

func TestGreenMapDepartments(t *testing.T) {
	gm := GreenMap{2: {"内科", "かかりつけ"}}

	deps, ok := gm.Departments(2)
	if !ok || len(deps) != 2 {
		t.Fatalf("Departments(2) = %v, %v", deps, ok)
	}
	if _, ok := gm.Departments(99); ok {
		t.Fatal("Departments(99) should miss")
	}
}
