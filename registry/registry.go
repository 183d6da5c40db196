package registry

import (
	"fmt"
)

// ProjectStatus статус проекта в реестре
type ProjectStatus string

const (
	StatusCompleted        ProjectStatus = "Completed"
	StatusCancelled        ProjectStatus = "Cancelled"
	StatusOngoing          ProjectStatus = "On-going"
	StatusApproved         ProjectStatus = "Approved"
	StatusUnderProcurement ProjectStatus = "Under procurement"
	StatusUnknown          ProjectStatus = "Unknown"
	StatusPSATAF           ProjectStatus = "PSA TAF"
	StatusOngoingEU        ProjectStatus = "On-going - EU"
)

// ProjectRecord запись канонического проекта из реестра
type ProjectRecord struct {
	ProjectID     string        `json:"project_id"`
	ProjectName   string        `json:"project_name"`
	Status        ProjectStatus `json:"status"`
	HasOriginalID bool          `json:"has_original_id"`
}

// Index индекс реестра проектов: project_id -> ProjectRecord.
// Порядок вставки сохраняется отдельным списком идентификаторов,
// чтобы итерация была детерминированной (map в Go не упорядочен).
// После загрузки индекс только читается.
type Index struct {
	records map[string]ProjectRecord
	order   []string
}

// NewIndex создает пустой индекс реестра
func NewIndex() *Index {
	return &Index{
		records: make(map[string]ProjectRecord),
	}
}

// Add добавляет запись в индекс. Повторное добавление того же
// project_id перезаписывает данные, но не меняет позицию в порядке обхода.
func (idx *Index) Add(record ProjectRecord) error {
	if record.ProjectID == "" {
		return fmt.Errorf("project record has empty project_id (name: %q)", record.ProjectName)
	}

	if _, exists := idx.records[record.ProjectID]; !exists {
		idx.order = append(idx.order, record.ProjectID)
	}
	idx.records[record.ProjectID] = record
	return nil
}

// Lookup возвращает запись по project_id
func (idx *Index) Lookup(projectID string) (ProjectRecord, bool) {
	record, ok := idx.records[projectID]
	return record, ok
}

// All возвращает все записи в порядке вставки
func (idx *Index) All() []ProjectRecord {
	result := make([]ProjectRecord, 0, len(idx.order))
	for _, id := range idx.order {
		result = append(result, idx.records[id])
	}
	return result
}

// IDs возвращает идентификаторы проектов в порядке вставки
func (idx *Index) IDs() []string {
	result := make([]string, len(idx.order))
	copy(result, idx.order)
	return result
}

// Len возвращает количество записей в индексе
func (idx *Index) Len() int {
	return len(idx.records)
}
