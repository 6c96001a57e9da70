package tasks

import "fmt"

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
}

// Operation phase enumeration
type Phase int

const (
	ResolveUser Phase = iota
	SearchTracks
	CreatePlaylist
	AddTracks
	RecordResults
)

func (p Phase) String() string {
	switch p {
	case ResolveUser:
		return "resolve_user"
	case SearchTracks:
		return "search_tracks"
	case CreatePlaylist:
		return "create_playlist"
	case AddTracks:
		return "add_tracks"
	case RecordResults:
		return "record_results"
	default:
		return ""
	}
}

func resolvingUserUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolveUser,
		Step:    1,
		Total:   5,
		Message: "Resolving user credentials...",
	}
}

func searchingTracksUpdate(query string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SearchTracks,
		Step:    2,
		Total:   5,
		Message: "Searching Spotify for: " + query,
	}
}

func creatingPlaylistUpdate(name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreatePlaylist,
		Step:    3,
		Total:   5,
		Message: "Creating playlist: " + name,
	}
}

func addingTracksUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AddTracks,
		Step:    4,
		Total:   5,
		Message: fmt.Sprintf("Adding %d tracks to playlist...", count),
	}
}

func recordingResultsUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   RecordResults,
		Step:    5,
		Total:   5,
		Message: "Recording playlist and caching tracks...",
	}
}
