package domain

import (
	"fmt"
	"slices"
	"strings"
)

// Link is a titled bookmark inside a section.
type Link struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
	Logo  string `json:"logo,omitempty"`
}

// Section is a named, ordered group of links.
type Section struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Links []Link `json:"links"`
}

type sectionNode struct {
	id    string
	name  string
	links []*Link
}

// Tree is the in-memory form of a user's sections. It keeps the sections in
// order and maintains id indexes so sections and links are found without
// scanning. Link ids are unique across the whole tree.
//
// A Tree is not safe for concurrent use; it lives for one request.
type Tree struct {
	sections  []*sectionNode
	sectionBy map[string]*sectionNode
	linkBy    map[string]*Link
	ownerBy   map[string]*sectionNode
}

// NewTree indexes the given sections. It fails with ErrDuplicateID when a
// section id repeats or a link id appears twice anywhere in the tree.
func NewTree(sections []Section) (*Tree, error) {
	t := &Tree{
		sections:  make([]*sectionNode, 0, len(sections)),
		sectionBy: make(map[string]*sectionNode, len(sections)),
		linkBy:    make(map[string]*Link),
		ownerBy:   make(map[string]*sectionNode),
	}
	for _, s := range sections {
		if _, err := t.AddSection(s.ID, s.Name); err != nil {
			return nil, err
		}
		for _, l := range s.Links {
			if _, err := t.AddLink(s.ID, l); err != nil {
				return nil, err
			}
		}
	}
	return t, nil
}

// Sections returns a copy of the tree in order. Links is never nil.
func (t *Tree) Sections() []Section {
	out := make([]Section, len(t.sections))
	for i, n := range t.sections {
		out[i] = n.snapshot()
	}
	return out
}

// Section returns the section with the given id.
func (t *Tree) Section(id string) (Section, bool) {
	n, ok := t.sectionBy[id]
	if !ok {
		return Section{}, false
	}
	return n.snapshot(), true
}

// Link returns the link with the given id and the id of its section.
func (t *Tree) Link(id string) (Link, string, bool) {
	l, ok := t.linkBy[id]
	if !ok {
		return Link{}, "", false
	}
	return *l, t.ownerBy[id].id, true
}

// LinkCount returns the number of links across all sections.
func (t *Tree) LinkCount() int { return len(t.linkBy) }

// AddSection appends an empty section.
func (t *Tree) AddSection(id, name string) (Section, error) {
	if _, exists := t.sectionBy[id]; exists {
		return Section{}, fmt.Errorf("add section %s: %w", id, ErrDuplicateID)
	}
	n := &sectionNode{id: id, name: name}
	t.sections = append(t.sections, n)
	t.sectionBy[id] = n
	return n.snapshot(), nil
}

// RenameSection changes a section name in place.
func (t *Tree) RenameSection(id, name string) (Section, error) {
	n, ok := t.sectionBy[id]
	if !ok {
		return Section{}, ErrSectionNotFound
	}
	n.name = name
	return n.snapshot(), nil
}

// RemoveSection deletes a section together with all of its links.
func (t *Tree) RemoveSection(id string) error {
	n, ok := t.sectionBy[id]
	if !ok {
		return ErrSectionNotFound
	}
	for _, l := range n.links {
		delete(t.linkBy, l.ID)
		delete(t.ownerBy, l.ID)
	}
	delete(t.sectionBy, id)
	t.sections = slices.DeleteFunc(t.sections, func(s *sectionNode) bool { return s == n })
	return nil
}

// AddLink appends a link to the given section. The link id must not be in
// use anywhere in the tree.
func (t *Tree) AddLink(sectionID string, link Link) (Link, error) {
	n, ok := t.sectionBy[sectionID]
	if !ok {
		return Link{}, ErrSectionNotFound
	}
	if _, exists := t.linkBy[link.ID]; exists {
		return Link{}, fmt.Errorf("add link %s: %w", link.ID, ErrDuplicateID)
	}
	l := link
	n.links = append(n.links, &l)
	t.linkBy[l.ID] = &l
	t.ownerBy[l.ID] = n
	return l, nil
}

// UpdateLink replaces the title and url of a link in place.
func (t *Tree) UpdateLink(id, title, url string) (Link, error) {
	l, ok := t.linkBy[id]
	if !ok {
		return Link{}, ErrLinkNotFound
	}
	l.Title = title
	l.URL = url
	return *l, nil
}

// RemoveLink deletes a link from its section.
func (t *Tree) RemoveLink(id string) error {
	l, ok := t.linkBy[id]
	if !ok {
		return ErrLinkNotFound
	}
	owner := t.ownerBy[id]
	owner.links = slices.DeleteFunc(owner.links, func(x *Link) bool { return x == l })
	delete(t.linkBy, id)
	delete(t.ownerBy, id)
	return nil
}

// Search returns every link whose title contains query, ignoring case, in
// tree order.
func (t *Tree) Search(query string) []Link {
	q := strings.ToLower(query)
	out := make([]Link, 0)
	for _, n := range t.sections {
		for _, l := range n.links {
			if strings.Contains(strings.ToLower(l.Title), q) {
				out = append(out, *l)
			}
		}
	}
	return out
}

func (n *sectionNode) snapshot() Section {
	links := make([]Link, len(n.links))
	for i, l := range n.links {
		links[i] = *l
	}
	return Section{ID: n.id, Name: n.name, Links: links}
}
