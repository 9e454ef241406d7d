package cmd

import (
	"fmt"
	"os"

	"github.com/kvsearch/ftidx/core/ftindex"
	"gopkg.in/yaml.v3"
)

// schemaFile is the on-disk shape of a --schema YAML file: a flat list of
// field declarations naming a type and the usual per-field options.
type schemaFile struct {
	Name   string        `yaml:"name"`
	Fields []schemaField `yaml:"fields"`
}

type schemaField struct {
	Name      string `yaml:"name"`
	Type      string `yaml:"type"`
	Sortable  bool   `yaml:"sortable"`
	NoStem    bool   `yaml:"nostem"`
	Phonetics bool   `yaml:"phonetics"`
	Dynamic   bool   `yaml:"dynamic"`
	Sep       string `yaml:"sep"`
}

func loadSchema(path string) (*ftindex.IndexSpec, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading schema %q: %w", path, err)
	}

	var sf schemaFile
	if err := yaml.Unmarshal(raw, &sf); err != nil {
		return nil, fmt.Errorf("parsing schema %q: %w", path, err)
	}
	if sf.Name == "" {
		sf.Name = "ftidx"
	}

	spec := ftindex.NewIndexSpec(sf.Name)
	for _, f := range sf.Fields {
		types, err := fieldTypeFromString(f.Type)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Name, err)
		}

		var opts ftindex.FieldOptionMask
		if f.Sortable {
			opts |= ftindex.OptSortable
		}
		if f.NoStem {
			opts |= ftindex.OptNoStem
		}
		if f.Phonetics {
			opts |= ftindex.OptPhonetics
		}
		if f.Dynamic {
			opts |= ftindex.OptDynamic
		}

		fs := &ftindex.FieldSpec{Name: f.Name, Types: types, Options: opts}
		if f.Sep != "" {
			fs.TagSep = f.Sep[0]
		}
		if err := spec.AddField(fs); err != nil {
			return nil, err
		}
	}
	return spec, nil
}

func fieldTypeFromString(s string) (ftindex.FieldTypeMask, error) {
	switch s {
	case "fulltext", "text":
		return ftindex.FieldFullText, nil
	case "numeric":
		return ftindex.FieldNumeric, nil
	case "geo":
		return ftindex.FieldGeo, nil
	case "tag":
		return ftindex.FieldTag, nil
	default:
		return 0, fmt.Errorf("unknown field type %q", s)
	}
}
