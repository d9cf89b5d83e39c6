package model

// Account is a row of the card table.
// One row per issued card; number and pin never change after insert.
type Account struct {
	ID      int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Number  string `gorm:"type:varchar(16);uniqueIndex;not null" json:"number"` // card number, checksum-valid
	PIN     string `gorm:"column:pin;type:varchar(4);not null" json:"-"`        // 4-digit PIN
	Balance int64  `gorm:"not null;default:0" json:"balance"`                   // never negative after a completed operation
}

func (Account) TableName() string {
	return "card"
}
