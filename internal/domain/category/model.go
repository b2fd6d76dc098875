package category

import "time"

const (
	AudienceAdult = "adult"
	AudienceChild = "child"
	AudienceBoth  = "both"
)

// Category maps to the symptom_category table. Each triage question belongs
// to exactly one category; the per-category green departments feed the
// decision engine's green map.
type Category struct {
	ID   int    `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
	// Audience limits which consultation flow offers the category:
	// "adult", "child", or "both".
	Audience string `db:"audience" json:"audience"`
	// GreenDepartments are the routine-care departments recommended when a
	// patient answers "none of the above apply" for this category. Empty
	// means the category routes to the white path instead.
	GreenDepartments []string  `db:"green_departments" json:"green_departments,omitempty"`
	DisplayOrder     int       `db:"display_order" json:"display_order"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}
