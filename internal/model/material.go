package model

// MaterialType represents a row in the `recyclable_types` table.
type MaterialType struct {
	ID           uint64  `json:"id"`            // recyclable_types.id
	MaterialName string  `json:"material_name"` // recyclable_types.material_name (unique)
	IconURL      *string `json:"icon_url"`      // recyclable_types.icon_url (nullable)
}
