package source

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/localscout/localscout/internal/model"
	"github.com/localscout/localscout/internal/pipeline"
	"github.com/localscout/localscout/pkg/nominatim"
)

// maxOpenMapResults caps how many records the open-map source contributes.
const maxOpenMapResults = 10

// amenityTerms maps our place-type vocabulary onto the OSM amenity
// taxonomy's search phrasing. PG accommodation has no OSM amenity of its
// own; guest house is the closest tag in practice.
var amenityTerms = map[model.PlaceType]string{
	model.TypeCafe:        "cafe",
	model.TypeRestaurant:  "restaurant",
	model.TypeHospital:    "hospital",
	model.TypeHotel:       "hotel",
	model.TypeHostel:      "hostel",
	model.TypeMensPG:      "guest house",
	model.TypeWomensPG:    "guest house",
	model.TypePayingGuest: "guest house",
	model.TypeGym:         "gym",
	model.TypePharmacy:    "pharmacy",
	model.TypeBank:        "bank",
	model.TypeATM:         "atm",
	model.TypeGasStation:  "fuel station",
}

// OpenMap is the candidate source backed by Nominatim open-data search.
// It is phone-blind: OSM rarely carries phone numbers, so its records enter
// the pipeline without one and rely on enrichment.
type OpenMap struct {
	client  nominatim.Client
	country string
}

// NewOpenMap creates the open-map candidate source. country is the ISO
// code passed as a locale hint ("in").
func NewOpenMap(client nominatim.Client, country string) *OpenMap {
	return &OpenMap{client: client, country: country}
}

// Name implements Source.
func (o *OpenMap) Name() string { return "openmap" }

// Fetch queries Nominatim and maps hits into candidate places.
func (o *OpenMap) Fetch(ctx context.Context, q model.SearchQuery) ([]model.Place, error) {
	term, ok := amenityTerms[q.PlaceType]
	if !ok {
		term = q.PlaceType.SearchTerm()
	}

	results, err := o.client.Search(ctx, nominatim.SearchRequest{
		Query:        fmt.Sprintf("%s in %s, %s", term, q.Area, q.City),
		CountryCodes: o.country,
		Limit:        maxOpenMapResults,
	})
	if err != nil {
		return nil, eris.Wrap(err, "openmap: search")
	}

	places := make([]model.Place, 0, len(results))
	for _, r := range results {
		p := model.Place{
			Name:        placeName(r),
			Address:     placeAddress(r),
			Description: fmt.Sprintf("OpenStreetMap %s/%s", r.Class, r.Type),
			Source:      o.Name(),
			URL:         osmURL(r),
		}
		if !pipeline.IsValid(p) {
			continue
		}
		places = append(places, p)
	}

	return places, nil
}

func placeName(r nominatim.Result) string {
	if r.Name != "" {
		return r.Name
	}
	if r.Address.Amenity != "" {
		return r.Address.Amenity
	}
	// Fall back to the first display-name segment.
	if idx := strings.Index(r.DisplayName, ","); idx > 0 {
		return strings.TrimSpace(r.DisplayName[:idx])
	}
	return r.DisplayName
}

// placeAddress assembles a comma-separated address from the structured
// components, falling back to the display name when they are too sparse.
func placeAddress(r nominatim.Result) string {
	locality := r.Address.City
	if locality == "" {
		locality = r.Address.Town
	}
	if locality == "" {
		locality = r.Address.Village
	}

	var parts []string
	for _, part := range []string{
		r.Address.Road, r.Address.Neighbourhood, r.Address.Suburb,
		locality, r.Address.State, r.Address.Postcode,
	} {
		if part != "" {
			parts = append(parts, part)
		}
	}

	if len(parts) < 2 {
		return r.DisplayName
	}
	return strings.Join(parts, ", ")
}

func osmURL(r nominatim.Result) string {
	if r.Lat == "" || r.Lon == "" {
		return ""
	}
	return fmt.Sprintf("https://www.openstreetmap.org/?mlat=%s&mlon=%s", r.Lat, r.Lon)
}
