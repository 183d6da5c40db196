package registry

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// rawProject запись проекта в JSON-файле реестра
type rawProject struct {
	ProjectName   string `json:"project_name"`
	Status        string `json:"status"`
	HasOriginalID bool   `json:"has_original_id"`
}

// LoadJSON загружает индекс реестра из JSON вида
// {"projects": {"<project_id>": {"project_name": ..., "status": ..., "has_original_id": ...}}}.
// Порядок ключей в документе сохраняется: декодер читает объект projects
// токен за токеном, а не через map (map потерял бы порядок вставки).
func LoadJSON(r io.Reader) (*Index, error) {
	dec := json.NewDecoder(r)

	// Открывающая скобка корневого объекта
	if err := expectDelim(dec, '{'); err != nil {
		return nil, fmt.Errorf("invalid registry document: %w", err)
	}

	idx := NewIndex()
	foundProjects := false

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("invalid registry document: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("invalid registry document: unexpected token %v", keyTok)
		}

		if key != "projects" {
			// Служебные поля (total_projects, creation_date и т.п.) пропускаем
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return nil, fmt.Errorf("invalid registry field %q: %w", key, err)
			}
			continue
		}

		foundProjects = true
		if err := decodeProjects(dec, idx); err != nil {
			return nil, err
		}
	}

	if !foundProjects {
		return nil, fmt.Errorf("registry document has no \"projects\" object")
	}

	return idx, nil
}

// decodeProjects читает объект projects, сохраняя порядок ключей документа
func decodeProjects(dec *json.Decoder, idx *Index) error {
	if err := expectDelim(dec, '{'); err != nil {
		return fmt.Errorf("invalid projects object: %w", err)
	}

	for dec.More() {
		idTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("invalid projects object: %w", err)
		}
		projectID, ok := idTok.(string)
		if !ok {
			return fmt.Errorf("invalid projects object: unexpected token %v", idTok)
		}

		var raw rawProject
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("invalid project entry %q: %w", projectID, err)
		}

		status := ProjectStatus(raw.Status)
		if raw.Status == "" {
			status = StatusUnknown
		}

		if err := idx.Add(ProjectRecord{
			ProjectID:     projectID,
			ProjectName:   raw.ProjectName,
			Status:        status,
			HasOriginalID: raw.HasOriginalID,
		}); err != nil {
			return err
		}
	}

	// Закрывающая скобка объекта projects
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("invalid projects object: %w", err)
	}

	return nil
}

// LoadJSONFile загружает индекс реестра из JSON-файла
func LoadJSONFile(path string) (*Index, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open registry file: %w", err)
	}
	defer file.Close()

	idx, err := LoadJSON(file)
	if err != nil {
		return nil, fmt.Errorf("failed to load registry from %s: %w", path, err)
	}
	return idx, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	delim, ok := tok.(json.Delim)
	if !ok || delim != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}
