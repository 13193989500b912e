package memform

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"formctl/internal/model"
)

// File is the on-disk fixture layout. YAML is the canonical format; JSON
// input parses through the same decoder.
type File struct {
	FormID string         `yaml:"formId" json:"formId"`
	Info   model.FormInfo `yaml:"info" json:"info"`
	Items  []FileItem     `yaml:"items" json:"items"`
}

type FileItem struct {
	ID           string                  `yaml:"id,omitempty" json:"id,omitempty"`
	Kind         string                  `yaml:"kind" json:"kind"`
	Title        string                  `yaml:"title" json:"title"`
	Description  string                  `yaml:"description,omitempty" json:"description,omitempty"`
	Question     *model.QuestionBody     `yaml:"question,omitempty" json:"question,omitempty"`
	SectionBreak *model.SectionBreakBody `yaml:"sectionBreak,omitempty" json:"sectionBreak,omitempty"`
	OtherType    string                  `yaml:"otherType,omitempty" json:"otherType,omitempty"`
}

func (fi FileItem) item() (model.Item, error) {
	it := model.Item{ID: fi.ID, Title: fi.Title, Description: fi.Description}
	switch strings.ToLower(strings.TrimSpace(fi.Kind)) {
	case "question", "q":
		q := model.QuestionBody{Type: model.QuestionText}
		if fi.Question != nil {
			q = *fi.Question
		}
		it.Body = q
	case "section_break", "section", "break", "b":
		b := model.SectionBreakBody{}
		if fi.SectionBreak != nil {
			b = *fi.SectionBreak
		}
		it.Body = b
	case "other", "text", "image", "video", "o":
		t := fi.OtherType
		if t == "" {
			t = strings.ToLower(strings.TrimSpace(fi.Kind))
		}
		it.Body = model.OtherBody{Type: t}
	default:
		return model.Item{}, fmt.Errorf("item %q: unknown kind %q", fi.ID, fi.Kind)
	}
	return it, nil
}

func fileItem(it model.Item) FileItem {
	fi := FileItem{ID: it.ID, Kind: it.Kind().String(), Title: it.Title, Description: it.Description}
	switch b := it.Body.(type) {
	case model.QuestionBody:
		fi.Question = &b
	case model.SectionBreakBody:
		fi.SectionBreak = &b
	case model.OtherBody:
		fi.OtherType = b.Type
	}
	return fi
}

// LoadFile opens a fixture and returns a Form whose applied batches are
// written back to the same path.
func LoadFile(path string) (*Form, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc File
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	items := make([]model.Item, 0, len(doc.Items))
	for _, fi := range doc.Items {
		it, err := fi.item()
		if err != nil {
			return nil, fmt.Errorf("fixture %s: %w", path, err)
		}
		items = append(items, it)
	}

	f := New(doc.FormID, doc.Info, items)
	f.nextID = maxGeneratedID(items) + 1
	f.OnApply = func(info model.FormInfo, items []model.Item) error {
		return SaveFile(path, doc.FormID, info, items)
	}
	return f, nil
}

// SaveFile writes a fixture atomically.
func SaveFile(path, formID string, info model.FormInfo, items []model.Item) error {
	doc := File{FormID: formID, Info: info, Items: make([]FileItem, 0, len(items))}
	for _, it := range items {
		doc.Items = append(doc.Items, fileItem(it))
	}

	var (
		b   []byte
		err error
	)
	if strings.EqualFold(filepath.Ext(path), ".json") {
		b, err = json.MarshalIndent(doc, "", "  ")
		b = append(b, '\n')
	} else {
		b, err = yaml.Marshal(doc)
	}
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".fixture-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func maxGeneratedID(items []model.Item) int {
	max := len(items)
	for _, it := range items {
		var n int
		if _, err := fmt.Sscanf(it.ID, "item-%d", &n); err == nil && n > max {
			max = n
		}
	}
	return max
}
