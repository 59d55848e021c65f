package feed

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
)

const (
	SiteURL  = "https://anify.tv"
	SiteIcon = "https://anify.tv/favicon.ico"

	unknown          = "Unknown"
	maxDescription   = 4000
	maxGenres        = 4
	maxTags          = 5
	noDescription    = "No description provided."
	unknownTitle     = "Unknown Title"
	defaultAuthor    = "Anify"
	descriptionFence = "```"
)

var htmlTag = regexp.MustCompile(`<[^>]*>?`)

// firstNonEmpty returns the first value that is not blank, or "".
func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// orDefault returns v, or def when v is blank.
func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

// Ordered-default chains. Each returns the first present value.

func TitleOf(r *Record) string {
	return orDefault(firstNonEmpty(r.Title.English, r.Title.Romaji, r.Title.Native), unknownTitle)
}

func authorOf(r *Record) string {
	return orDefault(firstNonEmpty(r.Author, r.Publisher, strings.ToLower(r.Season)), defaultAuthor)
}

func imageOf(r *Record) string {
	return orDefault(r.CoverImage, SiteIcon)
}

func thumbnailOf(r *Record) string {
	return orDefault(r.BannerImage, SiteIcon)
}

func descriptionOf(r *Record) string {
	text := strings.TrimSpace(htmlTag.ReplaceAllString(r.Description, ""))
	if text == "" {
		text = noDescription
	}
	if runes := []rune(text); len(runes) > maxDescription {
		text = string(runes[:maxDescription])
	}
	return descriptionFence + text + descriptionFence
}

// Render builds the embed card announcing r.
func Render(r *Record) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       TitleOf(r),
		Description: descriptionOf(r),
		Color:       int(r.Color),
		Author: &discordgo.MessageEmbedAuthor{
			Name:    authorOf(r),
			IconURL: imageOf(r),
			URL:     SiteURL,
		},
		Fields:    fields(r),
		Image:     &discordgo.MessageEmbedImage{URL: imageOf(r)},
		Thumbnail: &discordgo.MessageEmbedThumbnail{URL: thumbnailOf(r)},
	}
}

func fields(r *Record) []*discordgo.MessageEmbedField {
	origin := field("Country", r.CountryOfOrigin)
	count := field("Chapters", number(r.TotalChapters))
	if r.IsAnime() {
		origin = field("Season", strings.ToLower(r.Season))
		count = field("Episodes", number(r.TotalEpisodes))
	}

	rating := unknown
	if r.AverageRating != nil {
		rating = number(r.AverageRating) + "/10"
	}

	return []*discordgo.MessageEmbedField{
		origin,
		field("Status", strings.ToLower(r.Status)),
		count,
		field("Genres", code(list(r.Genres, maxGenres))),
		field("Tags", code(list(r.Tags, maxTags))),
		field("Format", strings.ToLower(r.Format)),
		field("Rating", code(rating)),
		field("Popularity", code(orDefault(number(r.AveragePopularity), unknown))),
	}
}

func field(name, value string) *discordgo.MessageEmbedField {
	return &discordgo.MessageEmbedField{Name: name, Value: orDefault(value, unknown), Inline: true}
}

func code(s string) string {
	return "`" + orDefault(s, unknown) + "`"
}

func list(items []string, limit int) string {
	if len(items) > limit {
		items = items[:limit]
	}
	return strings.Join(items, ", ")
}

func number(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
