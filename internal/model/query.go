package model

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
)

// PlaceType is one entry from the fixed vocabulary of searchable place kinds.
type PlaceType string

const (
	TypeCafe        PlaceType = "cafe"
	TypeRestaurant  PlaceType = "restaurant"
	TypeHospital    PlaceType = "hospital"
	TypeHotel       PlaceType = "hotel"
	TypeHostel      PlaceType = "hostel"
	TypeMensPG      PlaceType = "mens_pg"
	TypeWomensPG    PlaceType = "womens_pg"
	TypePayingGuest PlaceType = "paying_guest"
	TypeGym         PlaceType = "gym"
	TypePharmacy    PlaceType = "pharmacy"
	TypeBank        PlaceType = "bank"
	TypeATM         PlaceType = "atm"
	TypeGasStation  PlaceType = "gas_station"
)

// AllPlaceTypes lists every supported place type in display order.
func AllPlaceTypes() []PlaceType {
	return []PlaceType{
		TypeCafe, TypeRestaurant, TypeHospital, TypeHotel, TypeHostel,
		TypeMensPG, TypeWomensPG, TypePayingGuest,
		TypeGym, TypePharmacy, TypeBank, TypeATM, TypeGasStation,
	}
}

// ParsePlaceType converts a request string into a PlaceType.
func ParsePlaceType(s string) (PlaceType, error) {
	t := PlaceType(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AllPlaceTypes() {
		if t == known {
			return t, nil
		}
	}
	return "", eris.Errorf("unknown place type: %q", s)
}

// SearchTerm returns the human search phrase for the type. The PG variants
// expand to full phrases since providers don't understand the short tags.
func (t PlaceType) SearchTerm() string {
	switch t {
	case TypeMensPG:
		return "men's paying guest accommodations"
	case TypeWomensPG:
		return "women's paying guest accommodations"
	case TypePayingGuest:
		return "paying guest accommodations"
	case TypeGasStation:
		return "gas station"
	default:
		return string(t)
	}
}

// SearchQuery carries one inbound request's parameters. Constructed once per
// request and read-only from then on; never persisted.
type SearchQuery struct {
	City      string
	Area      string
	PlaceType PlaceType
}

// String renders the query the way it is echoed back to API callers.
func (q SearchQuery) String() string {
	return fmt.Sprintf("%s in %s, %s", q.PlaceType.SearchTerm(), q.Area, q.City)
}
