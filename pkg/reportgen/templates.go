package reportgen

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// DefaultTemplateExtension is the file extension of report templates.
const DefaultTemplateExtension = ".thtml"

var commentPattern = regexp.MustCompile(`(?s)<!--.*?-->`)

// StripComments removes HTML comments, including any tokens inside them.
func StripComments(tmpl string) string {
	return commentPattern.ReplaceAllString(tmpl, "")
}

// Templates reads report templates from a directory.
type Templates struct {
	Dir       string
	Extension string
}

func (t Templates) ext() string {
	if t.Extension == "" {
		return DefaultTemplateExtension
	}
	return t.Extension
}

// TemplateInfo describes a template for report listings. Title,
// Description and Owner come from meta comments in the template:
//
//	<!-- meta-name: Open orders by region -->
//	<!-- meta-description: Orders not yet shipped -->
//	<!-- meta-owner: Sales ops -->
type TemplateInfo struct {
	Name        string `json:"name"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Owner       string `json:"owner,omitempty"`
}

var (
	metaNamePattern        = metaPattern("meta-name")
	metaDescriptionPattern = metaPattern("meta-description")
	metaOwnerPattern       = metaPattern("meta-owner")
)

func metaPattern(tag string) *regexp.Regexp {
	return regexp.MustCompile(`(?s)<!--\s*` + regexp.QuoteMeta(tag) + `:\s*(.*?)\s*-->`)
}

func metaValue(re *regexp.Regexp, tmpl string) string {
	if m := re.FindStringSubmatch(tmpl); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// ParseTemplateInfo reads the meta comments of a template. It must run on
// the raw template, before StripComments. A template without meta-name is
// titled by its name.
func ParseTemplateInfo(name, tmpl string) TemplateInfo {
	info := TemplateInfo{
		Name:        name,
		Title:       metaValue(metaNamePattern, tmpl),
		Description: metaValue(metaDescriptionPattern, tmpl),
		Owner:       metaValue(metaOwnerPattern, tmpl),
	}
	if info.Title == "" {
		info.Title = name
	}
	return info
}

// List describes every template in the directory, sorted by title and then
// by name. A missing directory lists nothing.
func (t Templates) List() ([]TemplateInfo, error) {
	entries, err := os.ReadDir(t.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var infos []TemplateInfo
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != t.ext() {
			continue
		}
		name := strings.TrimSuffix(e.Name(), t.ext())
		tmpl, err := t.Load(name)
		if err != nil {
			return nil, err
		}
		infos = append(infos, ParseTemplateInfo(name, tmpl))
	}
	sort.Slice(infos, func(i, j int) bool {
		if infos[i].Title != infos[j].Title {
			return infos[i].Title < infos[j].Title
		}
		return infos[i].Name < infos[j].Name
	})
	return infos, nil
}

// Load reads the named template. Names may not contain path elements.
func (t Templates) Load(name string) (string, error) {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
	}
	data, err := os.ReadFile(filepath.Join(t.Dir, name+t.ext()))
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
		}
		return "", err
	}
	return string(data), nil
}
