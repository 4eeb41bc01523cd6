package models

type Property struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	Group     string `json:"group"`
	Position  int    `json:"position"`
	Price     int    `json:"price"`
	Rent      int    `json:"rent"`
	HouseCost int    `json:"housecost"`
	Action    string `json:"action"`
}

// Ownable reports whether landing on the cell can surface a buy prompt.
func (p Property) Ownable() bool {
	return p.Type == "property" || p.Type == "railroad" || p.Type == "utility"
}

type Building struct {
	Houses int `json:"houses"`
	Hotels int `json:"hotels"`
}
