package models

// NoteModel is a captured note, link or insight in the SQL store.
type NoteModel struct {
	Base
	OwnerID string  `json:"userid" gorm:"column:owner_id;size:64;index"`
	Title   string  `json:"title"  gorm:"not null"`
	Body    string  `json:"des"    gorm:"type:longtext"`
	Tags    TagList `json:"tags"   gorm:"type:text"`
	Kind    string  `json:"type"   gorm:"size:16;index;default:note"`
}

func (NoteModel) TableName() string { return "notes" }
