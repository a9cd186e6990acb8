package models

type VehicleReference struct {
	Makes  map[string][]string `json:"makes"`
	Years  []int               `json:"years"`
	Colors []string            `json:"colors"`
}
