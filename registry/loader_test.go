package registry

import (
	"strings"
	"testing"
)

func TestLoadJSON(t *testing.T) {
	doc := `{
		"creation_date": "2025-01-15T10:00:00Z",
		"total_projects": 3,
		"projects": {
			"ETP-002": {"project_name": "Second Project", "status": "On-going", "has_original_id": true},
			"ETP-001": {"project_name": "First Project", "status": "Completed"},
			"ETP-003": {"project_name": "Third Project", "status": ""}
		}
	}`

	idx, err := LoadJSON(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("LoadJSON failed: %v", err)
	}

	if idx.Len() != 3 {
		t.Errorf("Len = %d, want 3", idx.Len())
	}

	// Порядок документа, не лексикографический
	want := []string{"ETP-002", "ETP-001", "ETP-003"}
	got := idx.IDs()
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("IDs[%d] = %s, want %s (document order)", i, got[i], want[i])
		}
	}

	second, _ := idx.Lookup("ETP-002")
	if second.ProjectName != "Second Project" || second.Status != StatusOngoing || !second.HasOriginalID {
		t.Errorf("ETP-002 = %+v", second)
	}

	// Пустой статус превращается в Unknown
	third, _ := idx.Lookup("ETP-003")
	if third.Status != StatusUnknown {
		t.Errorf("ETP-003 status = %s, want Unknown", third.Status)
	}
}

func TestLoadJSONErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"Not JSON", "not json at all"},
		{"No projects key", `{"total_projects": 5}`},
		{"Projects not object", `{"projects": [1, 2]}`},
		{"Truncated", `{"projects": {"P1": {"project_name"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadJSON(strings.NewReader(tt.doc)); err == nil {
				t.Error("LoadJSON should fail")
			}
		})
	}
}

func TestLoadCSV(t *testing.T) {
	csvData := "project_id,project_name,status\n" +
		"ETP-001,First Project,Completed\n" +
		"ETP-002,Second Project,\n" +
		",Skipped Row,Completed\n"

	idx, err := LoadCSV(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("LoadCSV failed: %v", err)
	}

	if idx.Len() != 2 {
		t.Errorf("Len = %d, want 2 (row without id skipped)", idx.Len())
	}

	first, _ := idx.Lookup("ETP-001")
	if first.ProjectName != "First Project" || first.Status != StatusCompleted {
		t.Errorf("ETP-001 = %+v", first)
	}

	second, _ := idx.Lookup("ETP-002")
	if second.Status != StatusUnknown {
		t.Errorf("ETP-002 status = %s, want Unknown on empty cell", second.Status)
	}
}

func TestLoadCSVMissingColumns(t *testing.T) {
	if _, err := LoadCSV(strings.NewReader("name,value\na,1\n")); err == nil {
		t.Error("LoadCSV should fail without project_id column")
	}
}

func TestLoadCSVWithBOM(t *testing.T) {
	csvData := "\xEF\xBB\xBFproject_id,project_name\nETP-001,BOM Project\n"

	idx, err := LoadCSV(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("LoadCSV with BOM failed: %v", err)
	}
	if _, ok := idx.Lookup("ETP-001"); !ok {
		t.Error("BOM should not break header detection")
	}
}

func TestDecodeLegacyBytes(t *testing.T) {
	// "Проект" в Windows-1251
	cp1251 := []byte{0xCF, 0xF0, 0xEE, 0xE5, 0xEA, 0xF2}

	decoded, err := decodeLegacyBytes(cp1251)
	if err != nil {
		t.Fatalf("decodeLegacyBytes failed: %v", err)
	}
	if string(decoded) != "Проект" {
		t.Errorf("decoded = %q, want %q", decoded, "Проект")
	}

	// Валидный UTF-8 проходит без изменений
	utf8Data := []byte("plain utf-8")
	decoded, err = decodeLegacyBytes(utf8Data)
	if err != nil || string(decoded) != "plain utf-8" {
		t.Errorf("utf-8 passthrough failed: %q, %v", decoded, err)
	}
}
