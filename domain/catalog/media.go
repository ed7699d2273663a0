// Package catalog holds the manga payload types returned by the upstream
// catalog API and served to clients.
package catalog

// MediaTitle carries the title variants AniList exposes for a series
type MediaTitle struct {
	Romaji  string `json:"romaji,omitempty"`
	English string `json:"english,omitempty"`
	Native  string `json:"native,omitempty"`
}

// CoverImage carries cover art URLs
type CoverImage struct {
	Large  string `json:"large,omitempty"`
	Medium string `json:"medium,omitempty"`
	Color  string `json:"color,omitempty"`
}

// FuzzyDate is AniList's partial date; zero fields mean unknown
type FuzzyDate struct {
	Year  int `json:"year,omitempty"`
	Month int `json:"month,omitempty"`
	Day   int `json:"day,omitempty"`
}

// Media is one manga summary as returned by the catalog API
type Media struct {
	ID           int        `json:"id"`
	Title        MediaTitle `json:"title"`
	Description  string     `json:"description,omitempty"`
	CoverImage   CoverImage `json:"coverImage"`
	BannerImage  string     `json:"bannerImage,omitempty"`
	Genres       []string   `json:"genres,omitempty"`
	AverageScore int        `json:"averageScore"`
	Popularity   int        `json:"popularity"`
	StartDate    FuzzyDate  `json:"startDate"`
	Status       string     `json:"status,omitempty"`
	Format       string     `json:"format,omitempty"`
	Chapters     *int       `json:"chapters,omitempty"`
	CountryOfOrigin string  `json:"countryOfOrigin,omitempty"`
}

// DisplayTitle returns the best available title for logs and fallbacks
func (m Media) DisplayTitle() string {
	switch {
	case m.Title.English != "":
		return m.Title.English
	case m.Title.Romaji != "":
		return m.Title.Romaji
	default:
		return m.Title.Native
	}
}
