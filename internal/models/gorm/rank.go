package gorm

type Rank struct {
	ID                 string  `gorm:"column:id;primaryKey;type:uuid"`
	Name               string  `gorm:"column:name;uniqueIndex"`
	Order              int     `gorm:"column:rank_order;index"`
	RequirementHours   float64 `gorm:"column:requirement_hours;default:0"`
	RequirementFlights int     `gorm:"column:requirement_flights;default:0"`
	AutoPromote        bool    `gorm:"column:auto_promote;default:true"`
	ImageURL           string  `gorm:"column:image_url"`
}

func (Rank) TableName() string {
	return "ranks"
}
