// Package assignment stores the PDF assignments students submit.
package assignment

import (
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/edutrack/core"
	"github.com/trezcool/edutrack/storage/jsonstore"
)

var (
	// errors
	ErrNoSection    = errors.New("section not found for this student")
	ErrNoSections   = errors.New("no sections assigned to this teacher")
	ErrFileNotFound = errors.New("file not found")
	ErrNotPDF       = errors.New("only PDF files are allowed")
)

type Sections interface {
	SectionOf(roll string) (string, bool, error)
	TeacherSections(teacher string) ([]string, error)
}

type Submission struct {
	ID          string `json:"id"`
	Roll        string `json:"roll"`
	Section     string `json:"section"`
	File        string `json:"file"`
	SubmittedAt string `json:"submitted_at"`
}

// SectionFiles lists the PDFs found for one section.
type SectionFiles struct {
	Section string
	Files   []string
}

type Box struct {
	store    *jsonstore.Store
	file     string
	root     string
	sections Sections
}

func NewBox(store *jsonstore.Store, conf *core.Config, sections Sections) *Box {
	return &Box{
		store:    store,
		file:     conf.Files.Submissions,
		root:     conf.AssignmentsDir,
		sections: sections,
	}
}

// Submit copies the PDF at src to <root>/<section>/<roll>.pdf, replacing an earlier
// submission, and records it.
func (b *Box) Submit(roll, src string) (Submission, error) {
	roll = core.CleanString(roll)
	src = core.CleanString(src)

	section, ok, err := b.sections.SectionOf(roll)
	if err != nil {
		return Submission{}, err
	}
	if !ok {
		return Submission{}, ErrNoSection
	}
	fi, err := os.Stat(src)
	if err != nil || fi.IsDir() {
		return Submission{}, errors.Wrapf(ErrFileNotFound, "%q", src)
	}
	if !strings.EqualFold(filepath.Ext(src), ".pdf") {
		return Submission{}, ErrNotPDF
	}

	dest := filepath.Join(b.root, section, roll+".pdf")
	if err := copyFile(src, dest, fi.ModTime()); err != nil {
		return Submission{}, err
	}

	sub := Submission{
		ID:          uuid.New().String(),
		Roll:        roll,
		Section:     section,
		File:        dest,
		SubmittedAt: core.NowFunc().UTC().Format(time.RFC3339),
	}
	var subs []Submission
	if err := b.store.Load(b.file, &subs); err != nil {
		return Submission{}, err
	}
	subs = append(subs, sub)
	if err := b.store.Save(b.file, subs); err != nil {
		return Submission{}, err
	}
	return sub, nil
}

func copyFile(src, dest string, modTime time.Time) error {
	in, err := os.Open(src)
	if err != nil {
		return errors.Wrapf(err, "opening %s", src)
	}
	//goland:noinspection GoUnhandledErrorResult
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return errors.Wrapf(err, "creating %s", filepath.Dir(dest))
	}
	out, err := os.Create(dest)
	if err != nil {
		return errors.Wrapf(err, "creating %s", dest)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return errors.Wrapf(err, "copying to %s", dest)
	}
	if err := out.Close(); err != nil {
		return errors.Wrapf(err, "closing %s", dest)
	}
	return os.Chtimes(dest, modTime, modTime)
}

// History returns the submissions recorded for roll, oldest first.
func (b *Box) History(roll string) ([]Submission, error) {
	var subs []Submission
	if err := b.store.Load(b.file, &subs); err != nil {
		return nil, err
	}
	roll = core.CleanString(roll)
	var out []Submission
	for _, s := range subs {
		if s.Roll == roll {
			out = append(out, s)
		}
	}
	return out, nil
}

// ListForTeacher lists the PDFs submitted in each section held by teacher.
// Sections without any PDF are omitted.
func (b *Box) ListForTeacher(teacher string) ([]SectionFiles, error) {
	held, err := b.sections.TeacherSections(teacher)
	if err != nil {
		return nil, err
	}
	if len(held) == 0 {
		return nil, ErrNoSections
	}

	var out []SectionFiles
	for _, section := range held {
		entries, err := os.ReadDir(filepath.Join(b.root, section))
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, errors.Wrapf(err, "listing section %s", section)
		}
		var files []string
		for _, e := range entries {
			if !e.IsDir() && strings.HasSuffix(e.Name(), ".pdf") {
				files = append(files, e.Name())
			}
		}
		if len(files) == 0 {
			continue
		}
		sort.Strings(files)
		out = append(out, SectionFiles{Section: section, Files: files})
	}
	return out, nil
}
