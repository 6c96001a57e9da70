package main

import (
	"context"
	"fmt"

	"github.com/thornwyck/focusfm/internal/formatter"
	"github.com/thornwyck/focusfm/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Moods lists the mood tags stored in the local database.
func (r *Runner) Moods(ctx context.Context, cmd *cli.Command) error {
	db, engine, _, err := r.connect(cmd.String("config"))
	if err != nil {
		return err
	}
	defer db.Close()

	moods, err := engine.ListMoods()
	if err != nil {
		return fmt.Errorf("failed to list moods: %w", err)
	}

	return r.writePlain("%s\n", formatter.FormatMoods(moods))
}

// Playlists lists the playlists generated for a user.
func (r *Runner) Playlists(ctx context.Context, cmd *cli.Command) error {
	db, engine, _, err := r.connect(cmd.String("config"))
	if err != nil {
		return err
	}
	defer db.Close()

	playlists, err := engine.ListUserPlaylists(cmd.String("user"))
	if err != nil {
		return fmt.Errorf("failed to list playlists: %w", err)
	}

	if cmd.Bool("csv") {
		data, err := formatter.PlaylistsToCSV(playlists)
		if err != nil {
			return fmt.Errorf("failed to render CSV: %w", err)
		}
		return r.writePlain("%s", data)
	}

	return r.writePlain("%s\n", formatter.FormatPlaylists(playlists))
}

// Generate searches Spotify for mood-matched tracks and creates the playlist
// on the user's account, logging progress as the phases advance.
func (r *Runner) Generate(ctx context.Context, cmd *cli.Command) error {
	db, engine, _, err := r.connect(cmd.String("config"))
	if err != nil {
		return err
	}
	defer db.Close()

	req := tasks.GenerateRequest{
		UserID:       cmd.String("user"),
		Mood:         cmd.String("mood"),
		PlaylistName: cmd.String("name"),
		TrackCount:   cmd.Int("count"),
		Public:       cmd.Bool("public"),
	}

	progress := make(chan tasks.ProgressUpdate, 8)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			r.logger.Info(update.Message, "phase", update.Phase.String(), "step", update.Step, "total", update.Total)
		}
	}()

	result, err := engine.Generate(ctx, progress, req)
	close(progress)
	<-done

	if err != nil {
		return fmt.Errorf("failed to generate playlist: %w", err)
	}

	return r.writePlainln("%s", formatter.FormatGenerateResult(result))
}
