package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/localscout/localscout/internal/model"
)

func TestIsValid(t *testing.T) {
	tests := []struct {
		name  string
		place model.Place
		want  bool
	}{
		{
			name:  "real business",
			place: model.Place{Name: "Cafe Niloufer", Address: "Red Hills Road, Lakdikapul, Hyderabad"},
			want:  true,
		},
		{
			name:  "placeholder name",
			place: model.Place{Name: "Sample Gym", Address: "Road No 2, Banjara Hills, Hyderabad"},
			want:  false,
		},
		{
			name:  "placeholder word xyz",
			place: model.Place{Name: "XYZ Fitness", Address: "Road No 2, Banjara Hills, Hyderabad"},
			want:  false,
		},
		{
			name:  "test as substring of a real word is still rejected",
			place: model.Place{Name: "Test Kitchen", Address: "Road No 2, Banjara Hills, Hyderabad"},
			want:  false,
		},
		{
			name:  "generic adjective plus category",
			place: model.Place{Name: "Best Gym", Address: "Road No 2, Banjara Hills, Hyderabad"},
			want:  false,
		},
		{
			name:  "adjective with distinguishing term passes",
			place: model.Place{Name: "Best Gym Kondapur", Address: "Main Road, Kondapur, Hyderabad"},
			want:  true,
		},
		{
			name:  "numeric name",
			place: model.Place{Name: "1234567", Address: "Main Road, Kondapur, Hyderabad"},
			want:  false,
		},
		{
			name:  "name too short",
			place: model.Place{Name: "Go", Address: "Main Road, Kondapur, Hyderabad"},
			want:  false,
		},
		{
			name:  "address too short",
			place: model.Place{Name: "Cult Fitness", Address: "Hyd"},
			want:  false,
		},
		{
			name:  "placeholder address",
			place: model.Place{Name: "Cult Fitness", Address: "123 Example Street, Hyderabad"},
			want:  false,
		},
		{
			name:  "empty fields",
			place: model.Place{},
			want:  false,
		},
		{
			name:  "punctuation heavy name",
			place: model.Place{Name: "@@##!!**^^%%", Address: "Main Road, Kondapur, Hyderabad"},
			want:  false,
		},
		{
			name:  "apostrophe and ampersand are fine",
			place: model.Place{Name: "Gold's Gym & Spa (Kondapur)", Address: "Main Road, Kondapur, Hyderabad"},
			want:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValid(tt.place))
		})
	}
}

func TestFilterValid_PreservesOrder(t *testing.T) {
	in := []model.Place{
		{Name: "Cafe Niloufer", Address: "Red Hills Road, Lakdikapul, Hyderabad"},
		{Name: "Sample Cafe", Address: "Somewhere in Hyderabad"},
		{Name: "Blue Tokai", Address: "Road No 36, Jubilee Hills, Hyderabad"},
	}

	out := FilterValid(in)
	assert.Equal(t, []string{"Cafe Niloufer", "Blue Tokai"}, names(out))
}

func names(places []model.Place) []string {
	out := make([]string, len(places))
	for i, p := range places {
		out[i] = p.Name
	}
	return out
}
