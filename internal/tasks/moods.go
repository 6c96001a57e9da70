package tasks

import "fmt"

// moodQueries maps well-known mood labels to curated Spotify search queries.
// Labels outside the table fall back to "<mood> music".
var moodQueries = map[string]string{
	"focused":    "instrumental focus ambient study",
	"energetic":  "upbeat electronic dance workout",
	"calm":       "acoustic chill relaxing peaceful",
	"creative":   "indie experimental atmospheric ambient",
	"productive": "lo-fi beats study concentration",
	"motivated":  "motivational uplifting energetic",
}

// SearchQuery returns the Spotify search query for a mood label.
func SearchQuery(mood string) string {
	if query, ok := moodQueries[mood]; ok {
		return query
	}
	return fmt.Sprintf("%s music", mood)
}

// moodDescription is the stored description for a mood tag created during
// playlist generation.
func moodDescription(mood string) string {
	return fmt.Sprintf("%s music for enhanced focus and productivity", mood)
}

// playlistDescription is the description attached to generated playlists,
// both upstream and in the local record.
func playlistDescription(mood string) string {
	return fmt.Sprintf("A %s playlist generated by focusfm", mood)
}
