package repositories

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/desertthunder/musik/internal/models"
	"github.com/desertthunder/musik/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

func mustCreateArtist(t *testing.T, repo *ArtistRepository, name, sort string) *models.Artist {
	t.Helper()
	artist := models.NewArtist(name)
	artist.NameSort = models.String(sort)
	if err := repo.Create(context.Background(), artist); err != nil {
		t.Fatalf("failed to create artist: %v", err)
	}
	return artist
}

func TestArtistRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Create And Get", func(t *testing.T) {
		repo := NewArtistRepository(setupTestDB(t))
		artist := mustCreateArtist(t, repo, "The Fall", "Fall, The")

		if artist.ID == 0 {
			t.Fatal("artist ID should be set after creation")
		}

		retrieved, err := repo.Get(ctx, artist.ID)
		if err != nil {
			t.Fatalf("failed to get artist: %v", err)
		}
		if models.Deref(retrieved.Name) != "The Fall" {
			t.Errorf("expected name The Fall, got %s", models.Deref(retrieved.Name))
		}
		if retrieved.MusicBrainzArtistID != nil {
			t.Errorf("expected nil musicbrainz id, got %v", *retrieved.MusicBrainzArtistID)
		}
	})

	t.Run("Get Missing", func(t *testing.T) {
		repo := NewArtistRepository(setupTestDB(t))
		if _, err := repo.Get(ctx, 42); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Create Invalid", func(t *testing.T) {
		repo := NewArtistRepository(setupTestDB(t))
		if err := repo.Create(ctx, &models.Artist{}); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("Update", func(t *testing.T) {
		repo := NewArtistRepository(setupTestDB(t))
		artist := mustCreateArtist(t, repo, "Can", "Can")

		artist.MusicBrainzArtistID = models.String("mbid-can")
		if err := repo.Update(ctx, artist); err != nil {
			t.Fatalf("failed to update artist: %v", err)
		}

		found, err := repo.FindByMusicBrainzID(ctx, "mbid-can")
		if err != nil {
			t.Fatalf("failed to find by musicbrainz id: %v", err)
		}
		if found.ID != artist.ID {
			t.Errorf("expected id %d, got %d", artist.ID, found.ID)
		}

		missing := models.NewArtist("Ghost")
		missing.ID = 999
		if err := repo.Update(ctx, missing); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound updating missing artist, got %v", err)
		}
	})

	t.Run("List Orders By Sort Name", func(t *testing.T) {
		repo := NewArtistRepository(setupTestDB(t))
		mustCreateArtist(t, repo, "Stereolab", "Stereolab")
		mustCreateArtist(t, repo, "The Beatles", "Beatles, The")
		mustCreateArtist(t, repo, "Neu!", "Neu!")

		list, err := repo.List(ctx, nil)
		if err != nil {
			t.Fatalf("failed to list artists: %v", err)
		}

		want := []string{"The Beatles", "Neu!", "Stereolab"}
		if len(list) != len(want) {
			t.Fatalf("expected %d artists, got %d", len(want), len(list))
		}
		for i, name := range want {
			if models.Deref(list[i].Name) != name {
				t.Errorf("position %d: expected %s, got %s", i, name, models.Deref(list[i].Name))
			}
		}
	})

	t.Run("List Filters", func(t *testing.T) {
		repo := NewArtistRepository(setupTestDB(t))
		a := mustCreateArtist(t, repo, "Broadcast", "Broadcast")
		mustCreateArtist(t, repo, "Boards of Canada", "Boards of Canada")

		list, err := repo.List(ctx, models.Filters{{Key: "name", Value: "cast"}})
		if err != nil {
			t.Fatalf("failed to list artists: %v", err)
		}
		if len(list) != 1 || list[0].ID != a.ID {
			t.Errorf("expected only Broadcast, got %v", list)
		}

		list, err = repo.List(ctx, models.Filters{{Key: "shoe_size", Value: "9"}})
		if err != nil {
			t.Fatalf("unknown filters should be ignored: %v", err)
		}
		if len(list) != 2 {
			t.Errorf("expected 2 artists with unknown filter ignored, got %d", len(list))
		}
	})

	t.Run("List Empty Returns Empty Slice", func(t *testing.T) {
		repo := NewArtistRepository(setupTestDB(t))
		list, err := repo.List(ctx, nil)
		if err != nil {
			t.Fatalf("failed to list artists: %v", err)
		}
		if list == nil || len(list) != 0 {
			t.Errorf("expected empty non-nil slice, got %#v", list)
		}
	})

	t.Run("FindByName", func(t *testing.T) {
		repo := NewArtistRepository(setupTestDB(t))
		mustCreateArtist(t, repo, "Pram", "Pram")

		if _, err := repo.FindByName(ctx, "Pram"); err != nil {
			t.Errorf("expected to find Pram: %v", err)
		}
		if _, err := repo.FindByName(ctx, "pram"); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("name lookup should be exact, got %v", err)
		}
	})
}

func TestAlbumRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("FindByTitleArtist", func(t *testing.T) {
		db := setupTestDB(t)
		artistRepo := NewArtistRepository(db)
		repo := NewAlbumRepository(db)

		artist := mustCreateArtist(t, artistRepo, "Can", "Can")
		album := models.NewAlbum("Ege Bamyasi")
		album.ArtistID = models.Int(artist.ID)
		album.Compilation = models.Bool(false)
		if err := repo.Create(ctx, album); err != nil {
			t.Fatalf("failed to create album: %v", err)
		}

		found, err := repo.FindByTitleArtist(ctx, "Ege Bamyasi", artist.ID)
		if err != nil {
			t.Fatalf("failed to find album: %v", err)
		}
		if found.Compilation == nil || *found.Compilation {
			t.Errorf("expected compilation false, got %v", found.Compilation)
		}

		if _, err := repo.FindByTitleArtist(ctx, "Ege Bamyasi", artist.ID+1); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound for other artist, got %v", err)
		}
	})

	t.Run("List By Artist", func(t *testing.T) {
		db := setupTestDB(t)
		artistRepo := NewArtistRepository(db)
		repo := NewAlbumRepository(db)

		can := mustCreateArtist(t, artistRepo, "Can", "Can")
		neu := mustCreateArtist(t, artistRepo, "Neu!", "Neu!")
		for _, tc := range []struct {
			title  string
			artist int64
		}{{"Tago Mago", can.ID}, {"Future Days", can.ID}, {"Neu! 75", neu.ID}} {
			album := models.NewAlbum(tc.title)
			album.ArtistID = models.Int(tc.artist)
			if err := repo.Create(ctx, album); err != nil {
				t.Fatalf("failed to create album: %v", err)
			}
		}

		list, err := repo.List(ctx, models.ParseFilterPath([]string{"artist_id", "1"}))
		if err != nil {
			t.Fatalf("failed to list albums: %v", err)
		}
		if len(list) != 2 {
			t.Fatalf("expected 2 albums, got %d", len(list))
		}
		if models.Deref(list[0].Title) != "Future Days" {
			t.Errorf("expected Future Days first, got %s", models.Deref(list[0].Title))
		}
	})
}

func TestDiscRepository(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	albumRepo := NewAlbumRepository(db)
	repo := NewDiscRepository(db)

	album := models.NewAlbum("The Wall")
	if err := albumRepo.Create(ctx, album); err != nil {
		t.Fatalf("failed to create album: %v", err)
	}

	unnumbered := &models.Disc{AlbumID: models.Int(album.ID)}
	second := &models.Disc{AlbumID: models.Int(album.ID), DiscNumber: models.String("2")}
	for _, d := range []*models.Disc{unnumbered, second} {
		if err := repo.Create(ctx, d); err != nil {
			t.Fatalf("failed to create disc: %v", err)
		}
	}

	t.Run("FindByAlbumNumber", func(t *testing.T) {
		found, err := repo.FindByAlbumNumber(ctx, album.ID, models.String("2"))
		if err != nil {
			t.Fatalf("failed to find disc: %v", err)
		}
		if found.ID != second.ID {
			t.Errorf("expected disc %d, got %d", second.ID, found.ID)
		}

		found, err = repo.FindByAlbumNumber(ctx, album.ID, nil)
		if err != nil {
			t.Fatalf("failed to find unnumbered disc: %v", err)
		}
		if found.ID != unnumbered.ID {
			t.Errorf("expected disc %d, got %d", unnumbered.ID, found.ID)
		}
	})

	t.Run("List Orders By ID", func(t *testing.T) {
		list, err := repo.List(ctx, models.Filters{{Key: "album_id", Value: "1"}})
		if err != nil {
			t.Fatalf("failed to list discs: %v", err)
		}
		if len(list) != 2 || list[0].ID != unnumbered.ID {
			t.Errorf("unexpected disc order: %v", list)
		}
	})
}

func TestTrackRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Save Creates Then Updates", func(t *testing.T) {
		repo := NewTrackRepository(setupTestDB(t))
		track := models.NewTrack("/music/can/tago mago/01 paperhouse.mp3")
		track.Title = models.String("Paperhouse")
		track.TrackNumber = models.Int(1)

		if err := repo.Save(ctx, track); err != nil {
			t.Fatalf("failed to create track: %v", err)
		}
		id := track.ID

		track.PlayCount = models.Int(12)
		if err := repo.Save(ctx, track); err != nil {
			t.Fatalf("failed to update track: %v", err)
		}
		if track.ID != id {
			t.Errorf("expected id to stay %d, got %d", id, track.ID)
		}

		found, err := repo.FindByURI(ctx, track.URI)
		if err != nil {
			t.Fatalf("failed to find track: %v", err)
		}
		if models.Deref(found.PlayCount) != 12 {
			t.Errorf("expected playcount 12, got %d", models.Deref(found.PlayCount))
		}
		if found.Rating != nil {
			t.Errorf("expected nil rating, got %d", *found.Rating)
		}
	})

	t.Run("Unique URI", func(t *testing.T) {
		repo := NewTrackRepository(setupTestDB(t))
		if err := repo.Create(ctx, models.NewTrack("/a.mp3")); err != nil {
			t.Fatalf("failed to create track: %v", err)
		}
		if err := repo.Create(ctx, models.NewTrack("/a.mp3")); err == nil {
			t.Error("expected unique constraint violation")
		}
	})

	t.Run("List Filters Combine With AND", func(t *testing.T) {
		repo := NewTrackRepository(setupTestDB(t))
		for i, title := range []string{"Oh Yeah", "Mushroom", "Halleluhwah"} {
			tr := models.NewTrack("/t" + title + ".mp3")
			tr.Title = models.String(title)
			tr.TitleSort = models.String(title)
			tr.Genre = models.String("krautrock")
			tr.TrackNumber = models.Int(int64(i + 1))
			if err := repo.Create(ctx, tr); err != nil {
				t.Fatalf("failed to create track: %v", err)
			}
		}

		list, err := repo.List(ctx, models.Filters{{Key: "genre", Value: "kraut"}, {Key: "tracknumber", Value: "2"}})
		if err != nil {
			t.Fatalf("failed to list tracks: %v", err)
		}
		if len(list) != 1 || models.Deref(list[0].Title) != "Mushroom" {
			t.Errorf("expected only Mushroom, got %v", list)
		}
	})
}

func TestImportTaskRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Queue Lifecycle", func(t *testing.T) {
		repo := NewImportTaskRepository(setupTestDB(t))

		first, err := repo.Enqueue(ctx, "/music/a")
		if err != nil {
			t.Fatalf("failed to enqueue: %v", err)
		}
		if _, err := repo.Enqueue(ctx, "/music/b"); err != nil {
			t.Fatalf("failed to enqueue: %v", err)
		}

		n, err := repo.PendingCount(ctx)
		if err != nil || n != 2 {
			t.Fatalf("expected 2 pending, got %d (%v)", n, err)
		}

		if _, err := repo.Current(ctx); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected idle importer, got %v", err)
		}

		next, err := repo.NextPending(ctx)
		if err != nil {
			t.Fatalf("failed to get next pending: %v", err)
		}
		if next.ID != first.ID {
			t.Errorf("expected oldest task %d, got %d", first.ID, next.ID)
		}

		if err := repo.MarkStarted(ctx, next); err != nil {
			t.Fatalf("failed to mark started: %v", err)
		}
		if err := repo.MarkStarted(ctx, next); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected second claim to fail, got %v", err)
		}

		current, err := repo.Current(ctx)
		if err != nil {
			t.Fatalf("expected a running task: %v", err)
		}
		if current.URI != "/music/a" || current.Started == nil {
			t.Errorf("unexpected current task %s", current)
		}

		if err := repo.MarkCompleted(ctx, next); err != nil {
			t.Fatalf("failed to mark completed: %v", err)
		}
		if next.Completed == nil {
			t.Error("expected completed timestamp on task")
		}

		n, _ = repo.PendingCount(ctx)
		if n != 1 {
			t.Errorf("expected 1 pending, got %d", n)
		}
	})

	t.Run("NextPending Empty Queue", func(t *testing.T) {
		repo := NewImportTaskRepository(setupTestDB(t))
		if _, err := repo.NextPending(ctx); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}
