package constants

// Vessels is the candidate pool for the synthetic vessel name.
var Vessels = []string{
	"MSC LORETO",
	"CMA CGM NEVADA",
	"APL TOKYO",
	"MAERSK OHIO",
	"ONE HAMBURG",
	"WAN HAI 528",
	"EVER GIVEN",
}

// DeliveryAgents is the candidate pool for the synthetic delivery agent.
var DeliveryAgents = []string{
	"SEA LINE LOGISTICS PTE. LTD., Singapore",
	"GULF STAR SHIPPING LLC, Dubai",
	"PACIFIC FREIGHT SERVICES, Singapore",
	"BLUE OCEAN LINES, Mumbai",
	"NORTH HARBOUR AGENCIES, Singapore",
}

// VoyageSuffixes are the letters a voyage code may end with.
const VoyageSuffixes = "ABCDE"

// KnownPorts is the last-resort whitelist used to pick ports out of free text.
// Longer names come before names they contain.
var KnownPorts = []string{
	"NHAVA SHEVA",
	"JNPT",
	"MUMBAI",
	"MUNDRA",
	"CHENNAI",
	"KOLKATA",
	"COCHIN",
	"TUTICORIN",
	"VISAKHAPATNAM",
	"KANDLA",
	"PIPAVAV",
	"HAZIRA",
	"KARACHI",
	"CHITTAGONG",
	"COLOMBO",
	"JEBEL ALI",
	"DUBAI",
	"JEDDAH",
	"SINGAPORE",
	"PORT KLANG",
	"HONG KONG",
	"SHANGHAI",
	"NINGBO",
	"BUSAN",
	"ROTTERDAM",
	"HAMBURG",
	"ANTWERP",
	"FELIXSTOWE",
	"LE HAVRE",
	"VALENCIA",
	"GENOA",
	"NEW YORK",
	"LOS ANGELES",
	"LONG BEACH",
	"HOUSTON",
	"DURBAN",
	"MOMBASA",
	"SYDNEY",
	"MELBOURNE",
}
