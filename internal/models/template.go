package models

// Template is a gallery entry: a ready-made instruction that seeds a new
// website when the user has not written a prompt of their own yet.
type Template struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:255;not null;unique" json:"name"`
	Description string `gorm:"size:512" json:"description"`
	Category    string `gorm:"size:100" json:"category"`
	Prompt      string `gorm:"type:text;not null;" json:"prompt"`
}
