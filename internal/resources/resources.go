// Package resources provides the embedded learning resource catalog.
package resources

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"slices"
	"sync"
)

// Kinds of learning resources.
const (
	KindCourse  = "course"
	KindArticle = "article"
	KindVideo   = "video"
)

//go:embed catalog.json
var catalogData []byte

// Resource is a course, article or video. Fields beyond the common ones are
// populated according to Type.
type Resource struct {
	ID          string  `json:"id"`
	Type        string  `json:"type"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	URL         string  `json:"url"`
	Provider    string  `json:"provider,omitempty"`
	Duration    string  `json:"duration,omitempty"`
	Rating      float64 `json:"rating,omitempty"`
	Level       string  `json:"level,omitempty"`
	Source      string  `json:"source,omitempty"`
	ReadTime    string  `json:"readTime,omitempty"`
	Category    string  `json:"category,omitempty"`
	Channel     string  `json:"channel,omitempty"`
	Views       string  `json:"views,omitempty"`
}

// Set groups the resources recommended for one career path.
type Set struct {
	CareerPath string     `json:"careerPath"`
	Courses    []Resource `json:"courses"`
	Articles   []Resource `json:"articles"`
	Videos     []Resource `json:"videos"`
}

type index struct {
	byPath map[string]Set
	byID   map[string]Resource
}

var (
	loadOnce sync.Once
	loaded   *index
	loadErr  error
)

func load() (*index, error) {
	loadOnce.Do(func() {
		var file struct {
			Paths []Set `json:"paths"`
		}
		if err := json.Unmarshal(catalogData, &file); err != nil {
			loadErr = fmt.Errorf("failed to parse resource catalog: %w", err)
			return
		}
		idx := &index{byPath: make(map[string]Set), byID: make(map[string]Resource)}
		for _, set := range file.Paths {
			idx.byPath[set.CareerPath] = set
			for _, group := range [][]Resource{set.Courses, set.Articles, set.Videos} {
				for _, r := range group {
					idx.byID[r.ID] = r
				}
			}
		}
		if _, ok := idx.byPath[""]; !ok {
			loadErr = fmt.Errorf("resource catalog has no default set")
			return
		}
		loaded = idx
	})
	return loaded, loadErr
}

func mustLoad() *index {
	idx, err := load()
	if err != nil {
		panic(err)
	}
	return idx
}

// ForCareerPath returns the resources for careerPath, or the default set for
// unknown paths. The returned set reports the requested path.
func ForCareerPath(careerPath string) Set {
	idx := mustLoad()
	set, ok := idx.byPath[careerPath]
	if !ok {
		set = idx.byPath[""]
	}
	return Set{
		CareerPath: careerPath,
		Courses:    slices.Clone(set.Courses),
		Articles:   slices.Clone(set.Articles),
		Videos:     slices.Clone(set.Videos),
	}
}

// Lookup finds a resource by id across every path.
func Lookup(id string) (Resource, bool) {
	r, ok := mustLoad().byID[id]
	return r, ok
}

// CareerPaths lists the paths with a dedicated resource set.
func CareerPaths() []string {
	idx := mustLoad()
	paths := make([]string, 0, len(idx.byPath))
	for p := range idx.byPath {
		if p != "" {
			paths = append(paths, p)
		}
	}
	slices.Sort(paths)
	return paths
}
