package booking

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateDailyCatalog_OrderedByHour(t *testing.T) {
	catalog := GenerateDailyCatalog()
	require.Len(t, catalog, SlotsPerDay)

	seen := make(map[int]bool)
	for i, d := range catalog {
		assert.Equal(t, i, d.Hour)
		assert.False(t, seen[d.Hour], "duplicate hour %d", d.Hour)
		seen[d.Hour] = true
		if i > 0 {
			assert.Less(t, catalog[i-1].Hour, d.Hour)
		}
	}
}

func TestGenerateDailyCatalog_Boundaries(t *testing.T) {
	catalog := GenerateDailyCatalog()

	assert.Equal(t, "12:00 AM", catalog[0].Label)
	assert.Equal(t, "12 AM to 1 AM", catalog[0].DisplayRange)
	assert.Equal(t, "12:00 PM", catalog[12].Label)
	assert.Equal(t, "12 PM to 1 PM", catalog[12].DisplayRange)
	assert.Equal(t, "3:00 PM", catalog[15].Label)
	assert.Equal(t, "3 PM to 4 PM", catalog[15].DisplayRange)
	assert.Equal(t, "11:00 PM", catalog[23].Label)
	assert.Equal(t, "11 PM to 12 AM", catalog[23].DisplayRange)
}

func TestGenerateDailyCatalog_ReturnsCopy(t *testing.T) {
	first := GenerateDailyCatalog()
	first[0].Label = "changed"

	second := GenerateDailyCatalog()
	assert.Equal(t, "12:00 AM", second[0].Label)
}

func TestGenerateDailyCatalog_HourOrderNotLabelOrder(t *testing.T) {
	catalog := GenerateDailyCatalog()

	// text order puts the last hour of the day first and 1 PM ahead of 2 AM
	byLabel := append([]TimeSlotDescriptor(nil), catalog...)
	sort.Slice(byLabel, func(i, j int) bool { return byLabel[i].Label < byLabel[j].Label })
	assert.Equal(t, "11:00 PM", byLabel[0].Label)
	assert.Less(t, indexOfLabel(byLabel, "1:00 PM"), indexOfLabel(byLabel, "2:00 AM"))

	for i := 1; i < len(catalog); i++ {
		assert.Equal(t, catalog[i-1].Hour+1, catalog[i].Hour)
	}
	assert.Greater(t, indexOfLabel(catalog, "1:00 PM"), indexOfLabel(catalog, "2:00 AM"))
}

func indexOfLabel(descriptors []TimeSlotDescriptor, label string) int {
	for i, d := range descriptors {
		if d.Label == label {
			return i
		}
	}
	return -1
}

func TestDescriptorByLabel(t *testing.T) {
	tests := []struct {
		label string
		hour  int
		ok    bool
	}{
		{"12:00 AM", 0, true},
		{"9:00 AM", 9, true},
		{"12:00 PM", 12, true},
		{"11:00 PM", 23, true},
		{"9:30 AM", 0, false},
		{"25:00", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			d, ok := DescriptorByLabel(tt.label)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.hour, d.Hour)
				assert.Equal(t, tt.label, d.Label)
			}
		})
	}
}

func TestDescriptorByHour_OutOfRange(t *testing.T) {
	_, ok := DescriptorByHour(-1)
	assert.False(t, ok)
	_, ok = DescriptorByHour(24)
	assert.False(t, ok)

	d, ok := DescriptorByHour(22)
	require.True(t, ok)
	assert.Equal(t, "10:00 PM", d.Label)
}
