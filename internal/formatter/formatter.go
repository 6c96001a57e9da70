// package formatter renders moods, playlists, and generation results as
// plain text for the CLI, MCP tool responses, and CSV export
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/thornwyck/focusfm/internal/models"
	"github.com/thornwyck/focusfm/internal/shared"
	"github.com/thornwyck/focusfm/internal/tasks"
)

// FormatMoods renders stored mood tags as a bulleted list.
func FormatMoods(moods []*models.Mood) string {
	if len(moods) == 0 {
		return "Available moods:\nNo moods available. Try creating a playlist first!"
	}

	var sb strings.Builder
	sb.WriteString("Available moods:\n")
	for i, mood := range moods {
		description := mood.Description()
		if description == "" {
			description = "No description"
		}
		sb.WriteString(fmt.Sprintf("- %s: %s", mood.Name(), description))
		if i < len(moods)-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// FormatPlaylists renders a user's playlists as a bulleted list with browse URLs.
func FormatPlaylists(playlists []models.PlaylistSummary) string {
	if len(playlists) == 0 {
		return "No playlists found for this user."
	}

	var sb strings.Builder
	sb.WriteString("Your Spotify playlists:\n")
	for i, playlist := range playlists {
		mood := playlist.MoodName
		if mood == "" {
			mood = "No mood"
		}
		sb.WriteString(fmt.Sprintf("- %s (%d tracks, %s) - %s", playlist.Name, playlist.TrackCount, mood, playlist.URL()))
		if i < len(playlists)-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// FormatGenerateResult renders the confirmation message for a completed
// generation run.
func FormatGenerateResult(result *tasks.GenerateResult) string {
	return fmt.Sprintf("Successfully created Spotify playlist %q with %d tracks!\nPlaylist URL: %s",
		result.Playlist.Name(), result.TrackCount, result.PlaylistURL)
}

// FormatAuthURL renders the authentication prompt for the OAuth flow.
func FormatAuthURL(url string) string {
	return fmt.Sprintf("Please visit this URL to authenticate with Spotify: %s", url)
}

// FormatAuthSuccess renders the confirmation for a completed authentication.
func FormatAuthSuccess(user *models.User) string {
	return fmt.Sprintf("Successfully authenticated! User: %s (%s)", user.DisplayName(), user.Email())
}

// PlaylistsToCSV converts playlist summaries to CSV with columns:
// ID, Name, Description, Tracks, Mood, Visibility, URL
func PlaylistsToCSV(playlists []models.PlaylistSummary) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Name", "Description", "Tracks", "Mood", "Visibility", "URL"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, playlist := range playlists {
		record := []string{
			strconv.FormatInt(playlist.ID, 10),
			playlist.Name,
			playlist.Description,
			strconv.Itoa(playlist.TrackCount),
			playlist.MoodName,
			shared.VisibilityString(playlist.IsPublic),
			playlist.URL(),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}
