package source

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/localscout/localscout/pkg/serpstack"
)

type fakeSerpClient struct {
	resp *serpstack.SearchResponse
	err  error
	last serpstack.SearchRequest
}

func (f *fakeSerpClient) Search(_ context.Context, req serpstack.SearchRequest) (*serpstack.SearchResponse, error) {
	f.last = req
	return f.resp, f.err
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func TestSerpFetch_LocalResults(t *testing.T) {
	client := &fakeSerpClient{resp: &serpstack.SearchResponse{
		LocalResults: []serpstack.LocalResult{
			{
				Title:      "Gold's Gym",
				Address:    "MG Road, Benz Circle, Vijayawada",
				Rating:     floatPtr(4.5),
				Reviews:    intPtr(230),
				URL:        "https://goldsgym.in/vijayawada",
				Extensions: []string{"Open 24 hours", "Personal training", "Swimming pool"},
			},
			{
				Title:   "Talwalkars",
				Address: "PVP Square, Benz Circle, Vijayawada",
			},
		},
		RelatedPlaces: []serpstack.RelatedPlace{
			{Title: "Gold's Gym", Places: "Gym · MG Road · 092990 50505"},
		},
	}}

	s := NewSerp(client)
	places, err := s.Fetch(context.Background(), gymQuery())
	require.NoError(t, err)
	require.Len(t, places, 2)

	assert.Equal(t, "Gold's Gym", places[0].Name)
	assert.Equal(t, "+91-9299050505", places[0].Phone, "phone is lifted from the related-places text")
	assert.Equal(t, "serp (google local)", places[0].Source)
	assert.Equal(t, 4.5, *places[0].Rating)
	assert.Equal(t, 230, *places[0].ReviewCount)
	assert.Contains(t, places[0].Description, "Open 24 hours, Personal training")
	assert.NotContains(t, places[0].Description, "Swimming pool", "at most two extensions are kept")

	assert.Empty(t, places[1].Phone)

	assert.Equal(t, "gym in Benz Circle, Vijayawada", client.last.Query)
	assert.Equal(t, "Benz Circle, Vijayawada, India", client.last.Location)
	assert.Equal(t, "google.co.in", client.last.GoogleDomain)
	assert.Equal(t, "in", client.last.CountryCode)
	assert.Equal(t, 10, client.last.Num)
}

func TestSerpFetch_OrganicBackfill(t *testing.T) {
	client := &fakeSerpClient{resp: &serpstack.SearchResponse{
		LocalResults: []serpstack.LocalResult{
			{Title: "Gold's Gym", Address: "MG Road, Benz Circle, Vijayawada"},
		},
		OrganicResults: []serpstack.OrganicResult{
			{
				Title:        "Gyms in Benz Circle - Justdial",
				URL:          "https://www.justdial.com/vijayawada/gyms",
				DisplayedURL: "justdial.com",
			},
			{
				Title:        "Fitness One Benz Circle",
				URL:          "https://fitnessone.in/benz-circle",
				DisplayedURL: "fitnessone.in/benz-circle",
				Snippet:      "Premium fitness studio in Benz Circle with certified trainers.",
				RichSnippet: &serpstack.RichSnippet{
					Top: &serpstack.RichSnippetBlock{
						DetectedExtensions: serpstack.DetectedExtensions{
							Rating: floatPtr(4.2),
							Votes:  intPtr(87),
						},
					},
				},
			},
		},
	}}

	s := NewSerp(client)
	places, err := s.Fetch(context.Background(), gymQuery())
	require.NoError(t, err)
	require.Len(t, places, 2)

	assert.Equal(t, "Fitness One Benz Circle", places[1].Name)
	assert.Equal(t, "serp (google organic)", places[1].Source)
	assert.Equal(t, 4.2, *places[1].Rating)
	assert.Equal(t, 87, *places[1].ReviewCount, "votes stand in when reviews are absent")
}

func TestSerpFetch_NoBackfillWhenLocalPackFull(t *testing.T) {
	locals := make([]serpstack.LocalResult, 3)
	for i := range locals {
		locals[i] = serpstack.LocalResult{
			Title:   "Local Gym " + string(rune('A'+i)),
			Address: "Benz Circle, Vijayawada",
		}
	}
	client := &fakeSerpClient{resp: &serpstack.SearchResponse{
		LocalResults: locals,
		OrganicResults: []serpstack.OrganicResult{
			{Title: "Fitness One", URL: "https://fitnessone.in", DisplayedURL: "fitnessone.in"},
		},
	}}

	s := NewSerp(client)
	places, err := s.Fetch(context.Background(), gymQuery())
	require.NoError(t, err)
	assert.Len(t, places, 3, "three or more local results suppress organic backfill")
}

func TestSerpFetch_CapsAtSix(t *testing.T) {
	locals := make([]serpstack.LocalResult, 9)
	for i := range locals {
		locals[i] = serpstack.LocalResult{
			Title:   "Local Gym " + string(rune('A'+i)),
			Address: "Benz Circle, Vijayawada",
		}
	}
	client := &fakeSerpClient{resp: &serpstack.SearchResponse{LocalResults: locals}}

	s := NewSerp(client)
	places, err := s.Fetch(context.Background(), gymQuery())
	require.NoError(t, err)
	assert.Len(t, places, 6)
}

func TestSerpFetch_Error(t *testing.T) {
	client := &fakeSerpClient{err: assert.AnError}

	s := NewSerp(client)
	_, err := s.Fetch(context.Background(), gymQuery())
	assert.Error(t, err)
}

func TestIsDirectoryURL(t *testing.T) {
	assert.True(t, isDirectoryURL("https://www.JustDial.com/vijayawada/gyms"))
	assert.True(t, isDirectoryURL("https://www.sulekha.com/gyms"))
	assert.False(t, isDirectoryURL("https://goldsgym.in/vijayawada"))
}
