package directory

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/trezcool/edutrack/core"
)

// Preset gives every listed section the same subject list on creation.
type Preset struct {
	Sections []string `yaml:"sections"`
	Subjects []string `yaml:"subjects"`
}

// Curriculum is the section naming convention.
type Curriculum struct {
	Presets []Preset          `yaml:"presets"`
	Codes   map[string]string `yaml:"codes"` // subject name -> code, used when the catalog lacks one
}

func DefaultCurriculum() Curriculum {
	return Curriculum{
		Presets: []Preset{
			{
				Sections: []string{"AI", "BI", "CI", "DI"},
				Subjects: []string{"Basic Maths", "English-I", "C Lang", "Electronics", "Computer Networking"},
			},
			{
				Sections: []string{"AIII", "BIII", "CIII", "DIII"},
				Subjects: []string{"DSA", "English-III", "Maths-III", "Artificial Intelligence", "Operating System"},
			},
			{
				Sections: []string{"AV", "BV", "CV", "DV"},
				Subjects: []string{"English-V", "Machine Learning", "Algorithm", "OOP", "Database"},
			},
		},
		Codes: map[string]string{
			"Basic Maths":             "TMA101",
			"English-I":               "TEA101",
			"C Lang":                  "TCA101",
			"Electronics":             "TEC101",
			"English-III":             "TEA301",
			"Maths-III":               "TMA301",
			"Computer Networking":     "TCN101",
			"DSA":                     "TCS101",
			"Artificial Intelligence": "TAI101",
			"Operating System":        "TOS01",
			"English-V":               "TEA501",
			"Machine Learning":        "TML101",
			"Algorithm":               "TAL101",
			"OOP":                     "TOP101",
			"Database":                "TDB101",
		},
	}
}

// LoadCurriculum reads a YAML curriculum from path. A missing file yields DefaultCurriculum.
// Sections present in the file replace the defaults; codes are merged.
func LoadCurriculum(path string) (Curriculum, error) {
	cur := DefaultCurriculum()
	if path == "" {
		return cur, nil
	}
	buf, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cur, nil
		}
		return cur, errors.Wrapf(err, "reading %s", path)
	}
	var override Curriculum
	if err := yaml.Unmarshal(buf, &override); err != nil {
		return cur, errors.Wrapf(err, "parsing %s", path)
	}
	if len(override.Presets) > 0 {
		cur.Presets = override.Presets
	}
	for name, code := range override.Codes {
		cur.Codes[name] = core.CleanLabel(code)
	}
	return cur, nil
}

// SubjectsFor returns the preset subjects of section, if its label follows the convention.
func (c Curriculum) SubjectsFor(section string) ([]string, bool) {
	for _, p := range c.Presets {
		for _, s := range p.Sections {
			if core.CleanLabel(s) == section {
				return append([]string(nil), p.Subjects...), true
			}
		}
	}
	return nil, false
}

// CodeFor returns the conventional code of a subject name.
func (c Curriculum) CodeFor(name string) (string, bool) {
	for n, code := range c.Codes {
		if core.FoldEqual(n, name) {
			return code, true
		}
	}
	return "", false
}
