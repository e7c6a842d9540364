package domain

// RowKind tells presentation code how to render a DisplayRow
type RowKind string

const (
	RowKindAchievement RowKind = "achievement"
	RowKindBeaten      RowKind = "beaten"
	RowKindStanding    RowKind = "standing"
	RowKindHistory     RowKind = "history"
)

// DisplayRow is one line of the "records" panel shown after logging
type DisplayRow struct {
	Kind       RowKind `json:"kind"`
	PRType     PRType  `json:"pr_type,omitempty"`
	Label      string  `json:"label"`
	Value      string  `json:"value,omitempty"`
	Comparison string  `json:"comparison,omitempty"`
	Link       string  `json:"link,omitempty"`
}
