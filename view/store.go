// Package view projects a user's file records into the listings shown by the
// dashboard: home folder contents, starred items and trash.
package view

import (
	"fmt"
	"strings"
	"sync"

	"github.com/Prince5598/Cloud-Storage/models"
)

type Name string

const (
	Home    Name = "home"
	Starred Name = "starred"
	Trash   Name = "trash"
)

type Mode string

const (
	Grid Mode = "grid"
	List Mode = "list"
)

// ParseName maps a query value to a view. Empty selects Home.
func ParseName(s string) (Name, error) {
	switch Name(strings.ToLower(strings.TrimSpace(s))) {
	case "", Home:
		return Home, nil
	case Starred:
		return Starred, nil
	case Trash:
		return Trash, nil
	}
	return "", fmt.Errorf("unknown view %q", s)
}

type Crumb struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Store struct {
	mu            sync.RWMutex
	files         []models.FileNode
	currentFolder *string
	searchQuery   string
	view          Name
	mode          Mode
}

func NewStore() *Store {
	return &Store{view: Home, mode: Grid}
}

func (s *Store) SetFiles(files []models.FileNode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files = append([]models.FileNode(nil), files...)
}

func (s *Store) AddFile(file models.FileNode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files = append(s.files, file)
}

// UpdateFile applies fn to the file with the given id and reports whether it
// was found.
func (s *Store) UpdateFile(id string, fn func(*models.FileNode)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.files {
		if s.files[i].ID == id {
			fn(&s.files[i])
			return true
		}
	}
	return false
}

func (s *Store) RemoveFile(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.files[:0]
	for _, f := range s.files {
		if f.ID != id {
			kept = append(kept, f)
		}
	}
	s.files = kept
}

func (s *Store) Files() []models.FileNode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.FileNode(nil), s.files...)
}

// SetCurrentFolder selects the folder whose children the home view lists.
// Nil or empty selects the root.
func (s *Store) SetCurrentFolder(folderID *string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if folderID == nil || *folderID == "" {
		s.currentFolder = nil
		return
	}
	id := *folderID
	s.currentFolder = &id
}

func (s *Store) CurrentFolder() *string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentFolder
}

func (s *Store) SetSearchQuery(q string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searchQuery = q
}

func (s *Store) SetView(v Name) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = v
}

func (s *Store) View() Name {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view
}

func (s *Store) SetViewMode(m Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = m
}

func (s *Store) ViewMode() Mode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode
}

// FilteredFiles returns the files visible in the current view, narrowed by
// the search query. Only the home view is scoped to the current folder.
func (s *Store) FilteredFiles() []models.FileNode {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := strings.ToLower(s.searchQuery)
	out := make([]models.FileNode, 0, len(s.files))
	for _, f := range s.files {
		switch s.view {
		case Trash:
			if !f.IsTrash {
				continue
			}
		case Starred:
			if !f.IsStarred || f.IsTrash {
				continue
			}
		default:
			if f.IsTrash || !sameParent(f.ParentID, s.currentFolder) {
				continue
			}
		}
		if query != "" && !strings.Contains(strings.ToLower(f.Name), query) {
			continue
		}
		out = append(out, f)
	}
	return out
}

// Breadcrumbs walks from the current folder up to the root. The walk stops
// at the first id that is missing or not a folder.
func (s *Store) Breadcrumbs() []Crumb {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byID := make(map[string]models.FileNode, len(s.files))
	for _, f := range s.files {
		if _, ok := byID[f.ID]; !ok {
			byID[f.ID] = f
		}
	}

	var crumbs []Crumb
	seen := map[string]struct{}{}
	current := s.currentFolder
	for current != nil {
		if _, ok := seen[*current]; ok {
			break
		}
		seen[*current] = struct{}{}

		folder, ok := byID[*current]
		if !ok || !folder.IsFolder {
			break
		}
		crumbs = append(crumbs, Crumb{ID: folder.ID, Name: folder.Name})
		current = folder.ParentID
	}

	for i, j := 0, len(crumbs)-1; i < j; i, j = i+1, j-1 {
		crumbs[i], crumbs[j] = crumbs[j], crumbs[i]
	}
	return crumbs
}

func (s *Store) StarredCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, f := range s.files {
		if f.IsStarred && !f.IsTrash {
			n++
		}
	}
	return n
}

func (s *Store) TrashCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, f := range s.files {
		if f.IsTrash {
			n++
		}
	}
	return n
}

func sameParent(parentID, folderID *string) bool {
	if parentID == nil || *parentID == "" {
		return folderID == nil
	}
	return folderID != nil && *parentID == *folderID
}
