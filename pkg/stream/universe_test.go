package stream

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadUniverseFileParsesSymbolAndTier(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "universe.csv")
	content := "# comment\nbtcusdt,mega\nethusdt,large\nDOGEUSDT\n\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write universe file: %v", err)
	}

	u, err := LoadUniverseFile(path)
	if err != nil {
		t.Fatalf("LoadUniverseFile returned error: %v", err)
	}

	specs := u.Symbols()
	if len(specs) != 3 {
		t.Fatalf("expected 3 specs, got %d: %+v", len(specs), specs)
	}
	if specs[0].Symbol != "BTCUSDT" || specs[0].Tier != "mega" {
		t.Errorf("specs[0] = %+v, want {BTCUSDT mega}", specs[0])
	}
	if specs[2].Symbol != "DOGEUSDT" || specs[2].Tier != "mid" {
		t.Errorf("specs[2] = %+v, want {DOGEUSDT mid} (default tier)", specs[2])
	}
}

func TestLoadUniverseFileMissingFile(t *testing.T) {
	if _, err := LoadUniverseFile("/nonexistent/path/universe.csv"); err == nil {
		t.Error("expected an error for a missing universe file")
	}
}

func TestStaticUniverseReturnsConfiguredSpecs(t *testing.T) {
	specs := []SymbolSpec{{Symbol: "BTCUSDT", Tier: "mega"}}
	u := NewStaticUniverse(specs)
	if len(u.Symbols()) != 1 {
		t.Fatalf("expected 1 spec, got %d", len(u.Symbols()))
	}
}
