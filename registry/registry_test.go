package registry

import "testing"

func TestIndexAdd(t *testing.T) {
	idx := NewIndex()

	if err := idx.Add(ProjectRecord{ProjectID: "P1", ProjectName: "First"}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := idx.Add(ProjectRecord{ProjectID: "P2", ProjectName: "Second"}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	if idx.Len() != 2 {
		t.Errorf("Len = %d, want 2", idx.Len())
	}

	record, ok := idx.Lookup("P1")
	if !ok || record.ProjectName != "First" {
		t.Errorf("Lookup(P1) = %+v, %v", record, ok)
	}
	if _, ok := idx.Lookup("missing"); ok {
		t.Error("Lookup should miss on unknown id")
	}
}

func TestIndexAddEmptyID(t *testing.T) {
	idx := NewIndex()
	if err := idx.Add(ProjectRecord{ProjectName: "No ID"}); err == nil {
		t.Error("Add with empty project_id should fail")
	}
}

func TestIndexInsertionOrder(t *testing.T) {
	idx := NewIndex()
	idx.Add(ProjectRecord{ProjectID: "C", ProjectName: "third"})
	idx.Add(ProjectRecord{ProjectID: "A", ProjectName: "first"})
	idx.Add(ProjectRecord{ProjectID: "B", ProjectName: "second"})

	want := []string{"C", "A", "B"}
	got := idx.IDs()
	if len(got) != len(want) {
		t.Fatalf("IDs length = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("IDs[%d] = %s, want %s", i, got[i], want[i])
		}
	}

	all := idx.All()
	for i, record := range all {
		if record.ProjectID != want[i] {
			t.Errorf("All[%d].ProjectID = %s, want %s", i, record.ProjectID, want[i])
		}
	}
}

func TestIndexReAddKeepsPosition(t *testing.T) {
	idx := NewIndex()
	idx.Add(ProjectRecord{ProjectID: "A", ProjectName: "original"})
	idx.Add(ProjectRecord{ProjectID: "B", ProjectName: "other"})
	idx.Add(ProjectRecord{ProjectID: "A", ProjectName: "updated"})

	if idx.Len() != 2 {
		t.Errorf("Len = %d, want 2 after re-add", idx.Len())
	}

	// Данные обновлены, позиция сохранена
	record, _ := idx.Lookup("A")
	if record.ProjectName != "updated" {
		t.Errorf("ProjectName = %s, want updated", record.ProjectName)
	}
	if ids := idx.IDs(); ids[0] != "A" || ids[1] != "B" {
		t.Errorf("IDs = %v, want [A B]", ids)
	}
}
