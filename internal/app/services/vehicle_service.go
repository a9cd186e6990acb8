package services

import (
	"time"

	"github.com/safatanc/checkin-core/internal/app/models"
)

const vehicleYearSpan = 30

var vehicleMakes = map[string][]string{
	"Acura":         {"ILX", "MDX", "RDX", "TLX"},
	"BMW":           {"3 Series", "5 Series", "X3", "X5"},
	"Chevrolet":     {"Camaro", "Equinox", "Malibu", "Silverado", "Tahoe"},
	"Dodge":         {"Challenger", "Charger", "Durango", "Ram 1500"},
	"Ford":          {"Escape", "Explorer", "F-150", "Focus", "Fusion", "Mustang"},
	"GMC":           {"Acadia", "Sierra", "Terrain", "Yukon"},
	"Honda":         {"Accord", "Civic", "CR-V", "Odyssey", "Pilot"},
	"Hyundai":       {"Elantra", "Santa Fe", "Sonata", "Tucson"},
	"Jeep":          {"Cherokee", "Grand Cherokee", "Wrangler"},
	"Kia":           {"Forte", "Optima", "Sorento", "Sportage"},
	"Lexus":         {"ES", "GX", "IS", "RX"},
	"Mazda":         {"CX-5", "CX-9", "Mazda3", "Mazda6"},
	"Mercedes-Benz": {"C-Class", "E-Class", "GLC", "GLE"},
	"Nissan":        {"Altima", "Frontier", "Rogue", "Sentra"},
	"Subaru":        {"Forester", "Impreza", "Outback"},
	"Tesla":         {"Model 3", "Model S", "Model X", "Model Y"},
	"Toyota":        {"4Runner", "Camry", "Corolla", "Highlander", "RAV4", "Tacoma", "Tundra"},
	"Volkswagen":    {"Atlas", "Golf", "Jetta", "Tiguan"},
}

var vehicleColors = []string{
	"Black", "White", "Silver", "Gray", "Red", "Blue", "Green", "Brown", "Beige", "Gold", "Orange", "Yellow",
}

// VehicleService serves the static pick lists for the check-in form.
type VehicleService struct {
	now func() time.Time
}

func NewVehicleService() *VehicleService {
	return &VehicleService{now: time.Now}
}

func (s *VehicleService) GetReference() *models.VehicleReference {
	top := s.now().Year() + 1
	years := make([]int, 0, vehicleYearSpan+1)
	for year := top; year >= top-vehicleYearSpan; year-- {
		years = append(years, year)
	}

	makes := make(map[string][]string, len(vehicleMakes))
	for name, vehicleModels := range vehicleMakes {
		makes[name] = append([]string(nil), vehicleModels...)
	}

	return &models.VehicleReference{
		Makes:  makes,
		Years:  years,
		Colors: append([]string(nil), vehicleColors...),
	}
}
