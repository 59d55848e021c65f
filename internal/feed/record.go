// Package feed relays new catalogue entries announced by the backend over a
// websocket into the logs channel as embed cards.
package feed

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Title holds the localized titles of an entry.
type Title struct {
	English string `json:"english"`
	Romaji  string `json:"romaji"`
	Native  string `json:"native"`
}

// Record is one entry announcement. Every field is optional.
type Record struct {
	Title             Title    `json:"title"`
	Description       string   `json:"description"`
	Color             Color    `json:"color"`
	Author            string   `json:"author"`
	Publisher         string   `json:"publisher"`
	Season            string   `json:"season"`
	CoverImage        string   `json:"coverImage"`
	BannerImage       string   `json:"bannerImage"`
	Type              string   `json:"type"`
	CountryOfOrigin   string   `json:"countryOfOrigin"`
	Status            string   `json:"status"`
	TotalEpisodes     *float64 `json:"totalEpisodes"`
	TotalChapters     *float64 `json:"totalChapters"`
	Genres            []string `json:"genres"`
	Tags              []string `json:"tags"`
	Format            string   `json:"format"`
	AverageRating     *float64 `json:"averageRating"`
	AveragePopularity *float64 `json:"averagePopularity"`
}

// IsAnime reports whether the entry is an anime rather than a manga or novel.
func (r *Record) IsAnime() bool {
	return strings.EqualFold(r.Type, "ANIME")
}

// Decode parses a frame. A frame that is not a JSON object is an error.
func Decode(data []byte) (*Record, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return nil, fmt.Errorf("decode record: not a JSON object")
	}
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return &r, nil
}

// Color accepts a number, a numeric string ("16711680", "0xff0000",
// "#ff0000") or null. Anything unparseable becomes 0.
type Color int

func (c *Color) UnmarshalJSON(b []byte) error {
	*c = 0
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		return nil
	}

	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
		*c = parseColor(s)
		return nil
	}

	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		*c = Color(int(f))
	}
	return nil
}

func parseColor(s string) Color {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(s, "#"):
		if v, err := strconv.ParseInt(s[1:], 16, 64); err == nil {
			return Color(v)
		}
		return 0
	case strings.HasPrefix(strings.ToLower(s), "0x"):
		if v, err := strconv.ParseInt(s[2:], 16, 64); err == nil {
			return Color(v)
		}
		return 0
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return Color(int(v))
	}
	return 0
}
