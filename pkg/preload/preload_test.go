package preload

import "testing"

func TestBuildPlanOrdersByPriority(t *testing.T) {
	songIDs := []string{"s0", "s1", "s2", "s3", "s4"}
	plan := buildPlan(songIDs, 2)

	want := []struct {
		songID   string
		priority string
	}{
		{"s2", "current"},
		{"s3", "next"},
		{"s4", "next"},
		{"s1", "previous"},
		{"s0", "background"},
	}

	if len(plan) != len(want) {
		t.Fatalf("plan length = %d, want %d: %+v", len(plan), len(want), plan)
	}
	for i, w := range want {
		if plan[i].songID != w.songID || plan[i].priority != w.priority {
			t.Fatalf("plan[%d] = %+v, want %+v", i, plan[i], w)
		}
	}
}

func TestBuildPlanAtSetlistStartSkipsPrevious(t *testing.T) {
	songIDs := []string{"s0", "s1", "s2"}
	plan := buildPlan(songIDs, 0)

	for _, item := range plan {
		if item.priority == "previous" {
			t.Fatalf("expected no previous entry at index 0, got %+v", plan)
		}
	}
}

func TestBuildPlanNeverDuplicatesASong(t *testing.T) {
	songIDs := []string{"s0", "s1"}
	plan := buildPlan(songIDs, 0)

	seen := make(map[string]bool)
	for _, item := range plan {
		if seen[item.songID] {
			t.Fatalf("song %q scheduled twice: %+v", item.songID, plan)
		}
		seen[item.songID] = true
	}
	if len(plan) != len(songIDs) {
		t.Fatalf("plan length = %d, want %d (every song exactly once)", len(plan), len(songIDs))
	}
}
