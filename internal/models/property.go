package models

// PropertyDimensions carries the plot measurements the generator consumes.
type PropertyDimensions struct {
	Area float64 `json:"area"`
}

// PropertyRecord is the minimal property shape required by the generator.
// Additional fields on the upstream property document are ignored.
type PropertyRecord struct {
	ID             string             `json:"id"`
	Dimensions     PropertyDimensions `json:"dimensions"`
	NumberOfFloors int                `json:"numberOfFloors,omitempty"`
	Features       []string           `json:"features,omitempty"`
}
