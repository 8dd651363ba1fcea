package source

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/localscout/localscout/internal/model"
	"github.com/localscout/localscout/internal/pipeline"
	"github.com/localscout/localscout/pkg/serpstack"
)

// maxSerpResults caps the serp source's contribution per query.
const maxSerpResults = 6

// organicBackfillThreshold: organic results are only added when the local
// pack produced fewer results than this.
const organicBackfillThreshold = 3

// serpPhonePattern matches Indian phone numbers as they appear embedded in
// related-places free text: "092990 50505" or "9299050505".
var serpPhonePattern = regexp.MustCompile(`(\d{5}\s?\d{5}|\d{10})`)

// directoryDomains are aggregator sites whose organic hits describe
// listings pages, not the businesses themselves.
var directoryDomains = []string{
	"justdial.com",
	"sulekha.com",
	"gympik.com",
	"zomato.com",
	"magicbricks.com",
	"yellow-pages.com",
	"99acres.com",
	"indiamart.com",
	"tradeindia.com",
}

// Serp is the candidate source backed by the SerpStack SERP API. It is the
// phone-richest source: local pack entries often come with a number
// embedded in the adjacent related-places text.
type Serp struct {
	client       serpstack.Client
	googleDomain string
	country      string
	language     string
}

// NewSerp creates the search-engine-results candidate source.
func NewSerp(client serpstack.Client) *Serp {
	return &Serp{
		client:       client,
		googleDomain: "google.co.in",
		country:      "in",
		language:     "en",
	}
}

// Name implements Source.
func (s *Serp) Name() string { return "serp" }

// Fetch runs a geo-targeted search and converts local results (preferred)
// plus filtered organic results into candidate places.
func (s *Serp) Fetch(ctx context.Context, q model.SearchQuery) ([]model.Place, error) {
	resp, err := s.client.Search(ctx, serpstack.SearchRequest{
		Query:        fmt.Sprintf("%s in %s, %s", q.PlaceType.SearchTerm(), q.Area, q.City),
		Location:     fmt.Sprintf("%s, %s, India", q.Area, q.City),
		GoogleDomain: s.googleDomain,
		CountryCode:  s.country,
		Language:     s.language,
		Num:          10,
	})
	if err != nil {
		return nil, eris.Wrap(err, "serp: search")
	}

	phones := extractRelatedPhones(resp.RelatedPlaces)

	places := make([]model.Place, 0, maxSerpResults)
	for _, local := range resp.LocalResults {
		desc := "Local result from Google Maps."
		if len(local.Extensions) > 0 {
			ext := local.Extensions
			if len(ext) > 2 {
				ext = ext[:2]
			}
			desc += " " + strings.Join(ext, ", ")
		}

		places = append(places, model.Place{
			Name:        local.Title,
			Address:     local.Address,
			Phone:       phones[local.Title],
			Description: desc,
			Source:      "serp (google local)",
			Rating:      local.Rating,
			ReviewCount: local.Reviews,
			URL:         local.URL,
		})
	}

	if len(places) < organicBackfillThreshold {
		places = append(places, s.organicBackfill(resp.OrganicResults, maxSerpResults-len(places))...)
	}

	if len(places) > maxSerpResults {
		places = places[:maxSerpResults]
	}
	return places, nil
}

// extractRelatedPhones builds a title → canonical phone map from the
// free-text related-places blocks.
func extractRelatedPhones(related []serpstack.RelatedPlace) map[string]string {
	phones := make(map[string]string, len(related))
	for _, rp := range related {
		match := serpPhonePattern.FindString(rp.Places)
		if match == "" {
			continue
		}
		if phone := pipeline.NormalizePhone(strings.ReplaceAll(match, " ", "")); phone != "" {
			phones[rp.Title] = phone
		}
	}
	return phones
}

// organicBackfill converts up to limit organic results, skipping directory
// aggregators. Organic hits rarely carry a usable address; the displayed
// URL stands in and the strict area filter judges name/description instead.
func (s *Serp) organicBackfill(organic []serpstack.OrganicResult, limit int) []model.Place {
	var out []model.Place
	for _, o := range organic {
		if len(out) >= limit {
			break
		}
		if isDirectoryURL(o.URL) {
			continue
		}

		rating, reviews := richSnippetStats(o.RichSnippet)
		desc := o.Snippet
		if len(desc) > 200 {
			desc = desc[:200]
		}

		out = append(out, model.Place{
			Name:        o.Title,
			Address:     o.DisplayedURL,
			Description: desc,
			Source:      "serp (google organic)",
			Rating:      rating,
			ReviewCount: reviews,
			URL:         o.URL,
		})
	}
	return out
}

func isDirectoryURL(rawURL string) bool {
	lower := strings.ToLower(rawURL)
	for _, domain := range directoryDomains {
		if strings.Contains(lower, domain) {
			return true
		}
	}
	return false
}

func richSnippetStats(rs *serpstack.RichSnippet) (*float64, *int) {
	if rs == nil {
		return nil, nil
	}
	for _, block := range []*serpstack.RichSnippetBlock{rs.Top, rs.Bottom} {
		if block == nil {
			continue
		}
		det := block.DetectedExtensions
		reviews := det.Reviews
		if reviews == nil {
			reviews = det.Votes
		}
		if det.Rating != nil || reviews != nil {
			return det.Rating, reviews
		}
	}
	return nil, nil
}
