package backup

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"vkbackup/pkg/vk"
)

func TestLargestSize(t *testing.T) {
	tests := []struct {
		name     string
		sizes    []vk.Size
		wantType string
		wantURL  string
	}{
		{
			name:     "single",
			sizes:    []vk.Size{{Type: "m", Width: 130, Height: 97, URL: "m"}},
			wantType: "m",
			wantURL:  "m",
		},
		{
			name: "largest area wins regardless of order",
			sizes: []vk.Size{
				{Type: "x", Width: 604, Height: 453, URL: "x"},
				{Type: "w", Width: 2560, Height: 1920, URL: "w"},
				{Type: "z", Width: 1280, Height: 960, URL: "z"},
			},
			wantType: "w",
			wantURL:  "w",
		},
		{
			name: "area beats width",
			sizes: []vk.Size{
				{Type: "a", Width: 1000, Height: 10, URL: "wide"},
				{Type: "b", Width: 200, Height: 200, URL: "square"},
			},
			wantType: "b",
			wantURL:  "square",
		},
		{
			name: "zero sized legacy renditions fall back to type rank",
			sizes: []vk.Size{
				{Type: "s", URL: "s"},
				{Type: "z", URL: "z"},
				{Type: "m", URL: "m"},
			},
			wantType: "z",
			wantURL:  "z",
		},
		{
			name: "full tie keeps the earlier element",
			sizes: []vk.Size{
				{Type: "y", Width: 807, Height: 605, URL: "first"},
				{Type: "y", Width: 807, Height: 605, URL: "second"},
			},
			wantType: "y",
			wantURL:  "first",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LargestSize(tt.sizes)
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, got.Type)
			assert.Equal(t, tt.wantURL, got.URL)
		})
	}
}

func TestLargestSizeEmpty(t *testing.T) {
	_, err := LargestSize(nil)
	assert.ErrorIs(t, err, ErrNoSizes)
}

func TestLargestSizeIsDeterministic(t *testing.T) {
	sizes := []vk.Size{
		{Type: "o", Width: 510, Height: 510},
		{Type: "p", Width: 510, Height: 510},
		{Type: "q", Width: 320, Height: 320},
	}
	first, _ := LargestSize(sizes)
	for i := 0; i < 10; i++ {
		got, _ := LargestSize(sizes)
		assert.Equal(t, first, got)
	}
	assert.Equal(t, "p", first.Type)
}

func TestNamer(t *testing.T) {
	date := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC).Unix()
	namer := NewNamer(time.UTC)

	assert.Equal(t, "12_2024-01-15.jpg", namer.Name(vk.Photo{ID: 1, Date: date, Likes: vk.Likes{Count: 12}}))
	assert.Equal(t, "12_2024-01-15_2.jpg", namer.Name(vk.Photo{ID: 2, Date: date, Likes: vk.Likes{Count: 12}}))
	assert.Equal(t, "0_2024-01-15.jpg", namer.Name(vk.Photo{ID: 3, Date: date}))
}

func TestNamerUsesLocation(t *testing.T) {
	// 2024-01-15 22:30 UTC is already the 16th in Moscow
	date := time.Date(2024, 1, 15, 22, 30, 0, 0, time.UTC).Unix()
	moscow := time.FixedZone("MSK", 3*60*60)

	assert.Equal(t, "5_2024-01-15.jpg", NewNamer(time.UTC).Name(vk.Photo{Date: date, Likes: vk.Likes{Count: 5}}))
	assert.Equal(t, "5_2024-01-16.jpg", NewNamer(moscow).Name(vk.Photo{Date: date, Likes: vk.Likes{Count: 5}}))
}
