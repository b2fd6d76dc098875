package triage

import "testing"

func TestRouteFor(t *testing.T) {
	cases := []struct {
		in   Urgency
		want Destination
	}{
		{Red, DestEmergency},
		{Yellow, DestAdvice},
		{Green, DestAdvice},
		{White, DestQuestionnaire},
	}
	for _, tc := range cases {
		if got := RouteFor(tc.in); got != tc.want {
			t.Errorf("RouteFor(%s) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestRouteForTotal(t *testing.T) {
	// Every defined urgency resolves to a destination; nothing falls through
	// empty.
	for _, u := range []Urgency{White, Green, Yellow, Red} {
		if RouteFor(u) == "" {
			t.Errorf("RouteFor(%s) returned empty destination", u)
		}
	}
}
