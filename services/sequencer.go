package services

import (
	"fmt"

	"github.com/aaditya09750/Agroreach-sub000/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const orderRefPrefix = "ORD"

// OrderSequencer hands out order references of the form ORD-<year>-<5-digit
// sequence>, strictly increasing within a year. The sequence lives in a
// dedicated counter row that is bumped under a row lock, not derived from a
// count of existing orders, so two concurrent checkouts can never be handed
// the same reference.
type OrderSequencer struct {
	db *gorm.DB
}

func NewOrderSequencer(db *gorm.DB) *OrderSequencer {
	return &OrderSequencer{db: db}
}

// Next allocates the next reference for year. The increment and the read-back
// run in one transaction: the UPDATE takes the row lock, serializing
// concurrent callers until commit. The counter never decrements; a cancelled
// order leaves a gap.
func (s *OrderSequencer) Next(year int) (string, error) {
	var seq int64
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "year"}},
			DoNothing: true,
		}).Create(&models.OrderCounter{Year: year}).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.OrderCounter{}).
			Where("year = ?", year).
			Update("seq", gorm.Expr("seq + 1")).Error; err != nil {
			return err
		}

		var counter models.OrderCounter
		if err := tx.First(&counter, "year = ?", year).Error; err != nil {
			return err
		}
		seq = counter.Seq
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSequencerUnavailable, err)
	}

	return FormatOrderRef(year, seq), nil
}

// FormatOrderRef renders the persisted reference format, a compatibility
// contract for downstream reporting: ORD-\d{4}-\d{5}.
func FormatOrderRef(year int, seq int64) string {
	return fmt.Sprintf("%s-%d-%05d", orderRefPrefix, year, seq)
}
