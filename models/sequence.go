package models

// OrderCounter backs the order reference sequencer: one row per year, bumped
// atomically. The counter only ever grows; cancelled or purged orders leave
// gaps, never reused numbers.
type OrderCounter struct {
	Year int   `gorm:"primaryKey" json:"year"`
	Seq  int64 `gorm:"not null;default:0" json:"seq"`
}
