package models

// LocationType categorizes a point of interest around the building.
type LocationType string

const (
	LocationTypeTemple     LocationType = "temple"
	LocationTypePark       LocationType = "park"
	LocationTypeGym        LocationType = "gym"
	LocationTypePool       LocationType = "pool"
	LocationTypeStore      LocationType = "store"
	LocationTypeRestaurant LocationType = "restaurant"
	LocationTypeParking    LocationType = "parking"
)

// Coordinates are plane offsets within the fixed-size map canvas.
// Stored as two scalar columns, exposed nested in JSON.
type Coordinates struct {
	X float64 `gorm:"column:coordinates_x;type:decimal(10,2);not null" json:"x"`
	Y float64 `gorm:"column:coordinates_y;type:decimal(10,2);not null" json:"y"`
}

// Location is read-only reference data for the neighborhood map.
type Location struct {
	ID          string       `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name        string       `gorm:"type:varchar(255);not null" json:"name"`
	Type        LocationType `gorm:"type:varchar(20);not null" json:"type"`
	Description string       `gorm:"type:text" json:"description"`
	Coordinates Coordinates  `gorm:"embedded" json:"coordinates"`
}

func (Location) TableName() string {
	return "locations"
}
