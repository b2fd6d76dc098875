package triage

// defaultGreenMap is the compiled-in category -> routine-care department
// table matching the seed migration. The authoritative map is assembled
// from the category table; this one serves tenants whose category table
// is still empty.
var defaultGreenMap = GreenMap{
	1: {"内科", "かかりつけ"},
	2: {"内科", "かかりつけ"},
	3: {"内科", "消化器内科"},
	6: {"皮膚科"},
	7: {"整形外科"},
	8: {"小児科"},
}

// DefaultGreenMap returns a copy of the seed green map. Callers may mutate
// the copy freely.
func DefaultGreenMap() GreenMap {
	gm := make(GreenMap, len(defaultGreenMap))
	for id, deps := range defaultGreenMap {
		cp := make([]string, len(deps))
		copy(cp, deps)
		gm[id] = cp
	}
	return gm
}
