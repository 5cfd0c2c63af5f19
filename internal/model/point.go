package model

// DefaultPointStatus is stored when a point is created without a status.
const DefaultPointStatus = "Active"

// DropOffPoint represents a row in the `drop_off_points` table.  Status is
// free-form text; nothing beyond the creation default interprets it.
//
// AcceptedMaterials is only filled by listing queries: the names of the
// point's associated material types joined with ", ", or nil when the
// point accepts none.
type DropOffPoint struct {
	ID                uint64  `json:"id"`
	Name              string  `json:"name"`
	Address           string  `json:"address"`
	PostalCode        string  `json:"postal_code"`
	Latitude          float64 `json:"latitude"`
	Longitude         float64 `json:"longitude"`
	Status            string  `json:"status"`
	AcceptedMaterials *string `json:"accepted_materials"`
}
