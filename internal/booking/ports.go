package booking

// Port is an entry of the fixed port catalog the wizard selects from.
type Port struct {
	Code string
	Name string
	Lat  float64
	Lng  float64
}

// Ports is the enumerated Philippine port list with coordinates, in display
// order. Codes travel on the wire; names are for rendering only.
var Ports = []Port{
	{Code: "MNL", Name: "Port of Manila", Lat: 14.5995, Lng: 120.9667},
	{Code: "BTG", Name: "Port of Batangas", Lat: 13.7565, Lng: 121.0583},
	{Code: "CEB", Name: "Port of Cebu", Lat: 10.2926, Lng: 123.9058},
	{Code: "ILO", Name: "Port of Iloilo", Lat: 10.6969, Lng: 122.5644},
	{Code: "BCD", Name: "Port of Bacolod", Lat: 10.6765, Lng: 122.9509},
	{Code: "CGY", Name: "Port of Cagayan de Oro", Lat: 8.4822, Lng: 124.6472},
	{Code: "DVO", Name: "Port of Davao", Lat: 7.0731, Lng: 125.6128},
	{Code: "ZAM", Name: "Port of Zamboanga", Lat: 6.9056, Lng: 122.0761},
	{Code: "TAC", Name: "Port of Tacloban", Lat: 11.2444, Lng: 125.0039},
	{Code: "GES", Name: "Port of General Santos", Lat: 6.1053, Lng: 125.1481},
}

// PortByCode looks up a catalog entry. The second return is false for codes
// outside the catalog.
func PortByCode(code string) (Port, bool) {
	for _, p := range Ports {
		if p.Code == code {
			return p, true
		}
	}
	return Port{}, false
}

// PortLabel renders the display name for a port code, falling back to the
// raw code for values outside the catalog.
func PortLabel(code string) string {
	if p, ok := PortByCode(code); ok {
		return p.Name
	}
	return code
}
