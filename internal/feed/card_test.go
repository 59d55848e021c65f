package feed

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const animeFrame = `{
	"title": {"english": null, "romaji": "Sousou no Frieren", "native": "葬送のフリーレン"},
	"description": "<p>An elf <b>mage</b> outlives her party.</p>",
	"color": "#e4a15d",
	"season": "FALL",
	"coverImage": "https://img.example/cover.jpg",
	"type": "ANIME",
	"status": "FINISHED",
	"totalEpisodes": 28,
	"genres": ["Adventure", "Drama", "Fantasy", "Slice of Life", "Comedy"],
	"tags": ["Elf", "Magic"],
	"format": "TV",
	"averageRating": 9.1,
	"averagePopularity": 512345
}`

func fieldMap(t *testing.T, r *Record) map[string]string {
	t.Helper()
	out := make(map[string]string)
	for _, f := range Render(r).Fields {
		assert.True(t, f.Inline, f.Name)
		out[f.Name] = f.Value
	}
	return out
}

func TestRenderAnime(t *testing.T) {
	rec, err := Decode([]byte(animeFrame))
	require.NoError(t, err)

	card := Render(rec)
	assert.Equal(t, "Sousou no Frieren", card.Title)
	assert.Equal(t, "```An elf mage outlives her party.```", card.Description)
	assert.Equal(t, 0xe4a15d, card.Color)
	assert.Equal(t, "fall", card.Author.Name)
	assert.Equal(t, SiteURL, card.Author.URL)
	assert.Equal(t, "https://img.example/cover.jpg", card.Author.IconURL)
	assert.Equal(t, "https://img.example/cover.jpg", card.Image.URL)
	assert.Equal(t, SiteIcon, card.Thumbnail.URL)

	fields := fieldMap(t, rec)
	assert.Equal(t, map[string]string{
		"Season":     "fall",
		"Status":     "finished",
		"Episodes":   "28",
		"Genres":     "`Adventure, Drama, Fantasy, Slice of Life`",
		"Tags":       "`Elf, Magic`",
		"Format":     "tv",
		"Rating":     "`9.1/10`",
		"Popularity": "`512345`",
	}, fields)
}

func TestRenderMangaUsesCountryAndChapters(t *testing.T) {
	rec, err := Decode([]byte(`{"type":"MANGA","countryOfOrigin":"JP","totalChapters":120,"publisher":"Shueisha"}`))
	require.NoError(t, err)

	fields := fieldMap(t, rec)
	assert.Equal(t, "JP", fields["Country"])
	assert.Equal(t, "120", fields["Chapters"])
	assert.NotContains(t, fields, "Season")
	assert.Equal(t, "Shueisha", Render(rec).Author.Name)
}

func TestRenderDefaults(t *testing.T) {
	rec, err := Decode([]byte(`{}`))
	require.NoError(t, err)

	card := Render(rec)
	assert.Equal(t, "Unknown Title", card.Title)
	assert.Equal(t, "```No description provided.```", card.Description)
	assert.Equal(t, 0, card.Color)
	assert.Equal(t, "Anify", card.Author.Name)
	assert.Equal(t, SiteIcon, card.Image.URL)
	assert.Equal(t, SiteIcon, card.Thumbnail.URL)

	fields := fieldMap(t, rec)
	assert.Equal(t, "Unknown", fields["Country"])
	assert.Equal(t, "Unknown", fields["Status"])
	assert.Equal(t, "Unknown", fields["Chapters"])
	assert.Equal(t, "`Unknown`", fields["Genres"])
	assert.Equal(t, "`Unknown`", fields["Rating"])
	assert.Equal(t, "`Unknown`", fields["Popularity"])
}

func TestTitleChain(t *testing.T) {
	cases := []struct {
		title Title
		want  string
	}{
		{Title{English: "Frieren", Romaji: "Sousou no Frieren"}, "Frieren"},
		{Title{Romaji: "Sousou no Frieren", Native: "葬送のフリーレン"}, "Sousou no Frieren"},
		{Title{Native: "葬送のフリーレン"}, "葬送のフリーレン"},
		{Title{English: "  "}, "Unknown Title"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, TitleOf(&Record{Title: tc.title}))
	}
}

func TestDescriptionTruncated(t *testing.T) {
	rec := &Record{Description: strings.Repeat("あ", maxDescription+50)}
	desc := Render(rec).Description
	inner := strings.TrimSuffix(strings.TrimPrefix(desc, "```"), "```")
	assert.Equal(t, maxDescription, len([]rune(inner)))
}

func TestColorParsing(t *testing.T) {
	cases := map[string]int{
		`{"color": 255}`:        255,
		`{"color": "4096"}`:     4096,
		`{"color": "0xff"}`:     255,
		`{"color": "#00ff00"}`:  0x00ff00,
		`{"color": "teal"}`:     0,
		`{"color": null}`:       0,
		`{"color": [1, 2, 3]}`:  0,
		`{"color": 12.7}`:       12,
	}
	for frame, want := range cases {
		rec, err := Decode([]byte(frame))
		require.NoError(t, err, frame)
		assert.Equal(t, want, int(rec.Color), frame)
	}
}

func TestDecodeRejectsNonObjects(t *testing.T) {
	for _, frame := range []string{"", "hello", "[1,2]", `{"title":`} {
		_, err := Decode([]byte(frame))
		assert.Error(t, err, frame)
	}
}
