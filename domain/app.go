package domain

// Arm identifiers for the two embedding model variants under test.
const (
	ArmV1 = "v1"
	ArmV2 = "v2"
)

func ValidArm(arm string) bool {
	return arm == ArmV1 || arm == ArmV2
}

// AppFeatures is the caller-supplied description of a mobile app.
// All fields are optional; empty string / nil slice means absent.
type AppFeatures struct {
	Name     string   `json:"name,omitempty"`
	Category string   `json:"category,omitempty"`
	Region   string   `json:"region,omitempty"`
	Pricing  string   `json:"pricing,omitempty"`
	Features []string `json:"features,omitempty"`
}

// AppMetadata is the catalog entry for an indexed app. Missing or
// NaN-equivalent source fields are normalized to empty strings.
type AppMetadata struct {
	Name     string `json:"name,omitempty"`
	Category string `json:"category,omitempty"`
	Platform string `json:"platform,omitempty"`
}
