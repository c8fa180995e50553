package journal

import (
	"context"
	"testing"
	"time"

	"github.com/erazemk/etiquetas/internal/db"
	"github.com/erazemk/etiquetas/internal/model"
)

func TestSettings(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	if _, ok, err := GetSetting(ctx, database, model.SettingLastStore); err != nil || ok {
		t.Fatalf("expected unset setting, got ok=%v err=%v", ok, err)
	}

	if err := SetSetting(ctx, database, model.SettingLastStore, "matriz"); err != nil {
		t.Fatalf("SetSetting: %v", err)
	}
	if err := SetSetting(ctx, database, model.SettingLastStore, "filial"); err != nil {
		t.Fatalf("SetSetting overwrite: %v", err)
	}

	v, ok, err := GetSetting(ctx, database, model.SettingLastStore)
	if err != nil || !ok {
		t.Fatalf("GetSetting: ok=%v err=%v", ok, err)
	}
	if v != "filial" {
		t.Errorf("expected filial, got %q", v)
	}
}

func TestPrintRuns(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	base := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)

	runs := []*model.PrintRun{
		{StoreID: "matriz", File: "a.pdf", Labels: 3, Pages: 1, CreatedAt: base},
		{StoreID: "filial", File: "b.pdf", Labels: 15, Pages: 2, CreatedAt: base.Add(time.Minute)},
		{StoreID: "matriz", File: "c.pdf", Labels: 1, Pages: 1, CreatedAt: base.Add(2 * time.Minute)},
	}
	for _, r := range runs {
		if err := RecordPrintRun(ctx, database, r); err != nil {
			t.Fatalf("RecordPrintRun: %v", err)
		}
		if r.ID == "" {
			t.Fatal("expected generated ID")
		}
	}

	all, err := ListPrintRuns(ctx, database, "", 0)
	if err != nil {
		t.Fatalf("ListPrintRuns: %v", err)
	}
	if len(all) != 3 || all[0].File != "c.pdf" || all[2].File != "a.pdf" {
		t.Errorf("expected newest first, got %+v", all)
	}

	matriz, _ := ListPrintRuns(ctx, database, "matriz", 0)
	if len(matriz) != 2 {
		t.Errorf("expected 2 runs for matriz, got %d", len(matriz))
	}

	limited, _ := ListPrintRuns(ctx, database, "", 1)
	if len(limited) != 1 {
		t.Errorf("expected 1 run with limit, got %d", len(limited))
	}

	got, err := GetPrintRun(ctx, database, runs[1].ID)
	if err != nil {
		t.Fatalf("GetPrintRun: %v", err)
	}
	if got == nil || got.Labels != 15 || got.Pages != 2 || !got.CreatedAt.Equal(runs[1].CreatedAt) {
		t.Errorf("unexpected run %+v", got)
	}

	missing, err := GetPrintRun(ctx, database, "nope")
	if err != nil || missing != nil {
		t.Errorf("expected nil for missing run, got %+v, %v", missing, err)
	}
}

func TestPrintRunRejectsEmpty(t *testing.T) {
	database := db.NewTestDB(t)
	err := RecordPrintRun(context.Background(), database, &model.PrintRun{StoreID: "matriz", File: "x.pdf"})
	if err == nil {
		t.Error("expected error for a run without labels")
	}
}

func TestSaves(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	base := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)

	first := &model.CatalogSave{StoreID: "matriz", Products: 10, SavedAt: base}
	second := &model.CatalogSave{StoreID: "matriz", Products: 11, PriceChanges: 2, Backup: "matriz_x.json", SavedAt: base.Add(time.Second)}
	for _, s := range []*model.CatalogSave{first, second} {
		if err := RecordSave(ctx, database, s); err != nil {
			t.Fatalf("RecordSave: %v", err)
		}
	}
	if first.ID == 0 || second.ID == first.ID {
		t.Errorf("unexpected IDs %d, %d", first.ID, second.ID)
	}

	saves, err := ListSaves(ctx, database, "matriz", 0)
	if err != nil {
		t.Fatalf("ListSaves: %v", err)
	}
	if len(saves) != 2 {
		t.Fatalf("expected 2 saves, got %d", len(saves))
	}
	if saves[0].PriceChanges != 2 || saves[0].Backup != "matriz_x.json" {
		t.Errorf("unexpected newest save %+v", saves[0])
	}
	if saves[1].Backup != "" {
		t.Errorf("expected empty backup, got %q", saves[1].Backup)
	}

	other, _ := ListSaves(ctx, database, "filial", 0)
	if len(other) != 0 {
		t.Errorf("expected no saves for filial, got %d", len(other))
	}
}
