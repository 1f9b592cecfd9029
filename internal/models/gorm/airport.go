package gorm

type Airport struct {
	ID        string  `gorm:"column:id;primaryKey;type:uuid"`
	ICAO      string  `gorm:"column:icao;uniqueIndex"`
	Name      string  `gorm:"column:name"`
	Latitude  float64 `gorm:"column:latitude"`
	Longitude float64 `gorm:"column:longitude"`
	Country   string  `gorm:"column:country"`
}

func (Airport) TableName() string {
	return "airports"
}
