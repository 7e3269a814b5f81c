package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/MrSnakeDoc/aquatrack/internal/domain"
	"github.com/MrSnakeDoc/aquatrack/internal/store"
)

var _ store.Persistence = (*Store)(nil)
var _ store.Pinger = (*Store)(nil)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "data", "aquatrack.db"), "")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleRecords() []domain.Aquarium {
	last := time.Date(2024, 2, 1, 18, 0, 0, 0, time.UTC)
	return []domain.Aquarium{
		{
			ID:                     "a1",
			Name:                   "Nano",
			Capacity:               20,
			FishCount:              "1-5",
			Icon:                   "fish",
			IconColor:              "#10b981",
			LastCleaning:           last,
			NextCleaning:           last.AddDate(0, 0, 14),
			LastPartialWaterChange: last,
			NextPartialWaterChange: last.AddDate(0, 0, 5),
			CleaningFrequency:      14,
			WaterChangeFrequency:   5,
			WaterChangePercentage:  30,
		},
		{ID: "a2", Name: "Community", Capacity: 120, HasPlants: true},
	}
}

func TestLoadEmpty(t *testing.T) {
	s := openTemp(t)
	got, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("Load() = %#v, want empty non-nil slice", got)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	want := sampleRecords()
	if err := s.Save(ctx, want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	// second save must upsert, not duplicate
	if err := s.Save(ctx, want); err != nil {
		t.Fatalf("Save() again error = %v", err)
	}

	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("Load() returned %d records, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].ID != want[i].ID || got[i].Name != want[i].Name || !got[i].NextCleaning.Equal(want[i].NextCleaning) {
			t.Errorf("record %d = %+v, want %+v", i, got[i], want[i])
		}
	}

	var rows int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM kv`).Scan(&rows); err != nil || rows != 1 {
		t.Errorf("kv rows = %d, %v; want 1", rows, err)
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aquatrack.db")
	s, err := Open(path, "tanks")
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Save(context.Background(), sampleRecords()); err != nil {
		t.Fatal(err)
	}
	_ = s.Close()

	s, err = Open(path, "tanks")
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	got, err := s.Load(context.Background())
	if err != nil || len(got) != 2 {
		t.Errorf("Load() after reopen = %d records, %v", len(got), err)
	}
}

func TestCorruptPayload(t *testing.T) {
	s := openTemp(t)
	if _, err := s.db.Exec(`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)`, store.DefaultKey, []byte("[{oops"), "now"); err != nil {
		t.Fatal(err)
	}

	if _, err := s.Load(context.Background()); !errors.Is(err, store.ErrCorruptState) {
		t.Errorf("Load() error = %v, want ErrCorruptState", err)
	}
}

func TestMemoryDatabase(t *testing.T) {
	s, err := Open(MemoryPath, "")
	if err != nil {
		t.Fatalf("Open(:memory:) error = %v", err)
	}
	defer s.Close()

	if err := s.Save(context.Background(), sampleRecords()); err != nil {
		t.Fatal(err)
	}
	got, err := s.Load(context.Background())
	if err != nil || len(got) != 2 {
		t.Errorf("Load() = %d records, %v", len(got), err)
	}
	if err := s.Ping(context.Background()); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
}

func TestStoreOnSQLite(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	st, err := store.Open(ctx, s)
	if err != nil {
		t.Fatal(err)
	}
	a, err := st.Add(ctx, domain.Aquarium{Name: "Shrimp", Capacity: 30})
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	reopened, err := store.Open(ctx, s)
	if err != nil {
		t.Fatal(err)
	}
	got, ok := reopened.Get(a.ID)
	if !ok || got.Name != "Shrimp" || got.IconColor != domain.DefaultIconColor {
		t.Errorf("Get() after reload = %+v, %v", got, ok)
	}
}
