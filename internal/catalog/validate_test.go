package catalog

import (
	"bytes"
	"errors"
	"os"
	"testing"
)

func TestValidateJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
		index   int
		field   string
	}{
		{"valid", `[{"codigo":"1","nome":"A","preco":1.5}]`, false, 0, ""},
		{"empty list", `[]`, false, 0, ""},
		{"extra fields", `[{"codigo":"1","nome":"A","preco":0,"medida":"1kg","isNew":true,"historicoPrecos":[]}]`, false, 0, ""},
		{"object instead of list", `{"codigo":"1"}`, true, -1, ""},
		{"null", `null`, true, -1, ""},
		{"garbage", `not json`, true, -1, ""},
		{"element not object", `[1]`, true, 0, ""},
		{"numeric codigo", `[{"codigo":"1","nome":"A","preco":1},{"codigo":2,"nome":"B","preco":1}]`, true, 1, "codigo"},
		{"missing nome", `[{"codigo":"1","preco":1}]`, true, 0, "nome"},
		{"null nome", `[{"codigo":"1","nome":null,"preco":1}]`, true, 0, "nome"},
		{"string preco", `[{"codigo":"1","nome":"A","preco":"1.00"}]`, true, 0, "preco"},
		{"negative preco", `[{"codigo":"1","nome":"A","preco":-3}]`, true, 0, "preco"},
		{"bad flag type", `[{"codigo":"1","nome":"A","preco":1,"isNew":"yes"}]`, true, -1, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateJSON([]byte(tt.input))
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateJSON error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr {
				return
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %T", err)
			}
			if ve.Index != tt.index {
				t.Errorf("expected index %d, got %d", tt.index, ve.Index)
			}
			if ve.Field != tt.field {
				t.Errorf("expected field %q, got %q", tt.field, ve.Field)
			}
			if Kind(err) != KindValidation {
				t.Errorf("expected kind %q, got %q", KindValidation, Kind(err))
			}
		})
	}
}

func TestSaveProductsJSONRejectsWithoutWriting(t *testing.T) {
	repo, _ := newTestRepo(t)
	if _, err := repo.SaveProducts("matriz", sampleProducts()); err != nil {
		t.Fatal(err)
	}
	path, _ := repo.StorePath("matriz")
	before, _ := os.ReadFile(path)

	_, err := repo.SaveProductsJSON("matriz", []byte(`[{"codigo":123,"nome":"X","preco":1}]`))
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	after, _ := os.ReadFile(path)
	if !bytes.Equal(before, after) {
		t.Error("catalog changed after rejected save")
	}
	backups, _ := repo.ListBackups("matriz")
	if len(backups) != 0 {
		t.Errorf("rejected save must not create backups, got %d", len(backups))
	}
}

func TestSaveProductsJSON(t *testing.T) {
	repo, _ := newTestRepo(t)
	_, err := repo.SaveProductsJSON("matriz", []byte(`[{"codigo":"7","nome":"Arroz","preco":5}]`))
	if err != nil {
		t.Fatalf("SaveProductsJSON: %v", err)
	}
	got, _ := repo.LoadProducts("matriz")
	if len(got) != 1 || got[0].Nome != "Arroz" {
		t.Errorf("unexpected catalog: %+v", got)
	}
	if got[0].HistoricoPrecos == nil {
		t.Error("expected history normalized to an empty list")
	}
}

func TestSanitizeStoreID(t *testing.T) {
	tests := map[string]string{
		"matriz":      "matriz",
		"a/b":         "ab",
		"../x":        "x",
		"São Paulo":   "SoPaulo",
		"id_with-ok9": "id_with-ok9",
		"":            "",
	}
	for in, want := range tests {
		if got := SanitizeStoreID(in); got != want {
			t.Errorf("SanitizeStoreID(%q) = %q, want %q", in, got, want)
		}
	}
}
