package ddi

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/jamesainslie/go-ddi/internal/pool"
)

// Document is one parsed corpus file.
type Document struct {
	ID        string
	Path      string
	Sentences []Sentence
}

// Sentence is an annotated sentence with its entities and pairs in document order.
type Sentence struct {
	ID       string
	Text     string
	Entities []Entity
	Pairs    []Pair
}

// HasPairs reports whether the sentence carries at least one pair annotation.
func (s Sentence) HasPairs() bool {
	return len(s.Pairs) > 0
}

// Entity is a drug mention. CharOffset is kept verbatim, e.g. "0-9" or "12-15;20-24".
type Entity struct {
	ID         string
	CharOffset string
	Text       string
	Type       string
}

// Pair is an annotated relation between two entities of the same sentence.
// DDI is the raw attribute value, either "true" or "false".
// Type is empty unless the corpus sets it, which it does for true pairs.
type Pair struct {
	ID   string
	E1   string
	E2   string
	DDI  string
	Type string
}

// Interacts reports whether the pair is annotated as a drug-drug interaction.
func (p Pair) Interacts() bool {
	return p.DDI == ddiTrue
}

const (
	ddiTrue  = "true"
	ddiFalse = "false"
)

// Raw XML shapes. Attributes are pointers so an absent attribute can be told
// apart from an empty one.
type xmlDocument struct {
	ID        *string       `xml:"id,attr"`
	Sentences []xmlSentence `xml:"sentence"`
}

type xmlSentence struct {
	ID       *string     `xml:"id,attr"`
	Text     *string     `xml:"text,attr"`
	Entities []xmlEntity `xml:"entity"`
	Pairs    []xmlPair   `xml:"pair"`
}

type xmlEntity struct {
	ID         *string `xml:"id,attr"`
	CharOffset *string `xml:"charOffset,attr"`
	Text       *string `xml:"text,attr"`
	Type       *string `xml:"type,attr"`
}

type xmlPair struct {
	ID   *string `xml:"id,attr"`
	E1   *string `xml:"e1,attr"`
	E2   *string `xml:"e2,attr"`
	DDI  *string `xml:"ddi,attr"`
	Type *string `xml:"type,attr"`
}

// attrs collects required attributes of one element and remembers the first one missing.
type attrs struct {
	path string
	elem string
	err  error
}

func (a *attrs) need(name string, v *string) string {
	if v != nil {
		return *v
	}
	if a.err == nil {
		a.err = fmt.Errorf("%w: %s %q in %s", ErrMissingAttribute, a.elem, name, a.path)
	}
	return ""
}

// ParseDocument decodes one corpus document. path is used in error messages only.
func ParseDocument(data []byte, path string) (*Document, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	var raw xmlDocument
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrParse, path, err)
	}
	if err := expectEOF(dec); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrParse, path, err)
	}

	doc := &Document{Path: path}
	if raw.ID != nil {
		doc.ID = *raw.ID
	}

	doc.Sentences = make([]Sentence, 0, len(raw.Sentences))
	for _, rs := range raw.Sentences {
		a := attrs{path: path, elem: "sentence"}
		s := Sentence{
			ID:   a.need("id", rs.ID),
			Text: a.need("text", rs.Text),
		}
		if a.err != nil {
			return nil, a.err
		}

		s.Entities = make([]Entity, 0, len(rs.Entities))
		for _, re := range rs.Entities {
			a := attrs{path: path, elem: "entity in sentence " + s.ID}
			e := Entity{
				ID:         a.need("id", re.ID),
				CharOffset: a.need("charOffset", re.CharOffset),
				Text:       a.need("text", re.Text),
				Type:       a.need("type", re.Type),
			}
			if a.err != nil {
				return nil, a.err
			}
			s.Entities = append(s.Entities, e)
		}

		s.Pairs = make([]Pair, 0, len(rs.Pairs))
		for _, rp := range rs.Pairs {
			a := attrs{path: path, elem: "pair in sentence " + s.ID}
			p := Pair{
				ID:  a.need("id", rp.ID),
				E1:  a.need("e1", rp.E1),
				E2:  a.need("e2", rp.E2),
				DDI: a.need("ddi", rp.DDI),
			}
			if a.err != nil {
				return nil, a.err
			}
			if p.DDI != ddiTrue && p.DDI != ddiFalse {
				return nil, fmt.Errorf("%w: pair %s ddi=%q in %s", ErrInvalidAttribute, p.ID, p.DDI, path)
			}
			if rp.Type != nil {
				p.Type = *rp.Type
			}
			s.Pairs = append(s.Pairs, p)
		}

		doc.Sentences = append(doc.Sentences, s)
	}

	return doc, nil
}

// expectEOF consumes what follows the root element. Only whitespace, comments
// and processing instructions may appear there.
func expectEOF(dec *xml.Decoder) error {
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			return fmt.Errorf("element <%s> after document element", t.Name.Local)
		case xml.CharData:
			if len(bytes.TrimSpace(t)) > 0 {
				return errors.New("text after document element")
			}
		}
	}
}

// LoadDocument reads and parses a corpus file.
func LoadDocument(path string) (*Document, error) {
	return readDocument(path, new(bytes.Buffer))
}

func readDocument(path string, buf *bytes.Buffer) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	defer func() { _ = f.Close() }() // read-only

	if _, err := buf.ReadFrom(f); err != nil {
		return nil, fmt.Errorf("read file %s: %w", path, err)
	}
	return ParseDocument(buf.Bytes(), path)
}

// ListDocuments returns the paths of all files in dir with the given extension,
// sorted by file name.
func ListDocuments(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if filepath.Ext(entry.Name()) != ext {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}

	return paths, nil
}

// LoadCorpus loads every document of dirs, directories in the given order and
// documents in file name order. Only WithExtension, WithWorkers and WithLogger
// apply.
func LoadCorpus(ctx context.Context, dirs []string, opts ...Option) ([]*Document, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return loadCorpus(ctx, dirs, cfg)
}

// loadCorpus decodes documents on up to cfg.workers goroutines, each holding a
// read buffer from a shared pool. The result keeps listing order, and when
// several documents fail the error of the first one in that order is returned.
func loadCorpus(ctx context.Context, dirs []string, cfg config) ([]*Document, error) {
	var paths []string
	for _, dir := range dirs {
		listed, err := ListDocuments(dir, cfg.ext)
		if err != nil {
			return nil, fmt.Errorf("listing %s: %w", dir, err)
		}
		paths = append(paths, listed...)
	}

	buffers := pool.New(cfg.workers, func() *bytes.Buffer { return new(bytes.Buffer) }, (*bytes.Buffer).Reset)
	defer buffers.Close()

	workCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	docs := make([]*Document, len(paths))
	errs := make([]error, len(paths))
	var wg sync.WaitGroup

	for i, path := range paths {
		if workCtx.Err() != nil {
			break
		}
		buf, err := buffers.Acquire(workCtx)
		if err != nil {
			break
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer buffers.Release(buf)

			doc, err := readDocument(path, buf)
			if err != nil {
				errs[i] = err
				cancel()
				return
			}
			cfg.logger.Debug("loaded document",
				"path", path,
				"sentences", len(doc.Sentences))
			docs[i] = doc
		}()
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return docs, nil
}
