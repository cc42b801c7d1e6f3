package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/waseemisle/hey-spruceapp-sub000/internal/common"
	"github.com/waseemisle/hey-spruceapp-sub000/internal/model"
	"github.com/waseemisle/hey-spruceapp-sub000/internal/testutil/locations"
)

func TestAliasMatcher(t *testing.T) {
	index := model.IndexLocations(locations.RestaurantGroup)
	aliases := []model.Alias{
		{ID: 1, Pattern: "dlh sunset", LocationID: locations.DelilahWeHo},
		{ID: 2, Pattern: `^Delilah`, LocationID: locations.DelilahMiami, IsRegex: true},
		{ID: 3, Pattern: `^Delilah`, LocationID: locations.DelilahWeHo, IsRegex: true, Priority: 5},
		{ID: 4, Pattern: "ghost", LocationID: "deleted-location"},
		{ID: 5, Pattern: `(`, LocationID: locations.NiceGuy, IsRegex: true},
	}

	m := NewAliasMatcher(aliases, index, &common.RegexCache{})
	assert.Equal(t, 3, m.Len(), "unknown locations and broken patterns are dropped")

	tests := []struct {
		name   string
		input  string
		wantID int64
		want   bool
	}{
		{name: "literal normalized", input: "  DLH   Sunset ", wantID: 1, want: true},
		{name: "priority wins", input: "Delilah Downtown", wantID: 3, want: true},
		{name: "regex sees raw case", input: "delilah downtown", want: false},
		{name: "alias to missing location ignored", input: "ghost", want: false},
		{name: "blank", input: "   ", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := m.Match(tt.input)
			assert.Equal(t, tt.want, ok)
			if tt.want {
				assert.Equal(t, tt.wantID, got.ID)
			}
		})
	}
}
