// Package countries maps ISO 3166-1 alpha-3 citizenship codes to
// English country names. The table covers every state whose nationals
// have held a seat in the European Parliament plus the accession
// candidates; an unknown code is a reference-data gap that callers must
// surface, not swallow.
package countries

import "fmt"

type UnknownCodeError struct {
	Code string
}

func (e UnknownCodeError) Error() string {
	return fmt.Sprintf("unknown ISO alpha-3 country code: %q", e.Code)
}

var byAlpha3 = map[string]string{
	"AUT": "Austria",
	"BEL": "Belgium",
	"BGR": "Bulgaria",
	"HRV": "Croatia",
	"CYP": "Cyprus",
	"CZE": "Czechia",
	"DNK": "Denmark",
	"EST": "Estonia",
	"FIN": "Finland",
	"FRA": "France",
	"DEU": "Germany",
	"GRC": "Greece",
	"HUN": "Hungary",
	"IRL": "Ireland",
	"ITA": "Italy",
	"LVA": "Latvia",
	"LTU": "Lithuania",
	"LUX": "Luxembourg",
	"MLT": "Malta",
	"NLD": "Netherlands",
	"POL": "Poland",
	"PRT": "Portugal",
	"ROU": "Romania",
	"SVK": "Slovakia",
	"SVN": "Slovenia",
	"ESP": "Spain",
	"SWE": "Sweden",

	// former member state, still present in historic terms
	"GBR": "United Kingdom",

	// candidates and neighbourhood, seen in observer rosters
	"ALB": "Albania",
	"BIH": "Bosnia and Herzegovina",
	"GEO": "Georgia",
	"ISL": "Iceland",
	"MDA": "Moldova",
	"MKD": "North Macedonia",
	"MNE": "Montenegro",
	"NOR": "Norway",
	"SRB": "Serbia",
	"TUR": "Turkey",
	"UKR": "Ukraine",
}

// Name resolves an alpha-3 code to its English short name.
func Name(alpha3 string) (string, error) {
	name, ok := byAlpha3[alpha3]
	if !ok {
		return "", UnknownCodeError{Code: alpha3}
	}
	return name, nil
}
