// Package catalog provides the ordered question catalogs that drive the assessments.
// Catalogs are stored as JSON files, validated against an embedded schema and
// embedded at compile time.
package catalog

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/jonathan/career-counselor/internal/types"
	"github.com/xeipuuv/gojsonschema"
)

// Catalog names shipped with the binary.
const (
	NameCareer = "career"
	NameQuick  = "quick"
)

const schemaFile = "catalog.schema.json"

//go:embed *.json
var catalogFiles embed.FS

var (
	cache   = make(map[string]*Catalog)
	cacheMu sync.RWMutex
)

// Catalog is an immutable, ordered list of questions.
type Catalog struct {
	name      string
	questions []types.Question
	index     map[string]int
}

type catalogFile struct {
	Name      string           `json:"name"`
	Questions []types.Question `json:"questions"`
}

// Career returns the full career assessment catalog.
func Career() *Catalog {
	return mustLoad(NameCareer)
}

// Quick returns the short structured-question catalog.
func Quick() *Catalog {
	return mustLoad(NameQuick)
}

// ByName returns the embedded catalog with the given name.
func ByName(name string) (*Catalog, error) {
	cacheMu.RLock()
	if c, ok := cache[name]; ok {
		cacheMu.RUnlock()
		return c, nil
	}
	cacheMu.RUnlock()

	if name == "" || strings.ContainsAny(name, "/\\.") || name == strings.TrimSuffix(schemaFile, ".json") {
		return nil, &LoadError{Name: name, Message: "unknown catalog"}
	}
	data, err := catalogFiles.ReadFile(name + ".json")
	if err != nil {
		return nil, &LoadError{Name: name, Message: "unknown catalog", Cause: err}
	}

	c, err := Parse(data)
	if err != nil {
		return nil, err
	}

	cacheMu.Lock()
	cache[name] = c
	cacheMu.Unlock()
	return c, nil
}

func mustLoad(name string) *Catalog {
	c, err := ByName(name)
	if err != nil {
		panic(fmt.Sprintf("failed to load catalog: %v", err))
	}
	return c
}

// Parse validates and builds a catalog from its JSON form.
func Parse(data []byte) (*Catalog, error) {
	schema, err := catalogFiles.ReadFile(schemaFile)
	if err != nil {
		return nil, &LoadError{Name: schemaFile, Message: "failed to read schema", Cause: err}
	}

	result, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(schema), gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, &LoadError{Message: "schema validation failed during load", Cause: err}
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, fmt.Sprintf("%s: %s", e.Field(), e.Description()))
		}
		return nil, &LoadError{Message: strings.Join(msgs, "; ")}
	}

	var file catalogFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, &LoadError{Message: "failed to parse catalog", Cause: err}
	}

	c := &Catalog{
		name:      file.Name,
		questions: file.Questions,
		index:     make(map[string]int, len(file.Questions)),
	}
	for i, q := range file.Questions {
		if _, dup := c.index[q.ID]; dup {
			return nil, &LoadError{Name: file.Name, Message: fmt.Sprintf("duplicate question id %q", q.ID)}
		}
		if q.MaxSelections > 0 && !q.Multiple() {
			return nil, &LoadError{Name: file.Name, Message: fmt.Sprintf("question %q: maxSelections requires multiple selection", q.ID)}
		}
		c.index[q.ID] = i
	}
	return c, nil
}

// Name returns the catalog name.
func (c *Catalog) Name() string {
	return c.name
}

// Len returns the number of questions.
func (c *Catalog) Len() int {
	return len(c.questions)
}

// Question looks up a question by id.
func (c *Catalog) Question(id string) (types.Question, bool) {
	i, ok := c.index[id]
	if !ok {
		return types.Question{}, false
	}
	return c.questions[i].Clone(), true
}

// Index returns the position of the question with the given id, or -1.
func (c *Catalog) Index(id string) int {
	if i, ok := c.index[id]; ok {
		return i
	}
	return -1
}

// At returns the question at position i.
func (c *Catalog) At(i int) types.Question {
	return c.questions[i].Clone()
}

// Questions returns a copy of the ordered question list.
func (c *Catalog) Questions() []types.Question {
	out := make([]types.Question, len(c.questions))
	for i, q := range c.questions {
		out[i] = q.Clone()
	}
	return out
}

// ClearCache clears the catalog cache. Useful for testing.
func ClearCache() {
	cacheMu.Lock()
	cache = make(map[string]*Catalog)
	cacheMu.Unlock()
}
