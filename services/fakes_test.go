package services

import (
	"context"
	"errors"
	"io"
	"sort"
	"sync"

	"github.com/Prince5598/Cloud-Storage/blobstore"
	"github.com/Prince5598/Cloud-Storage/models"
	"github.com/Prince5598/Cloud-Storage/repositories"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type fakeTxManager struct{}

func (fakeTxManager) WithTransaction(_ context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type fakeUserRepo struct {
	usersByID    map[string]models.User
	usersByEmail map[string]models.User
	createErr    error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{usersByID: map[string]models.User{}, usersByEmail: map[string]models.User{}}
}

func (r *fakeUserRepo) CountByEmail(_ context.Context, email string) (int64, error) {
	if _, ok := r.usersByEmail[email]; ok {
		return 1, nil
	}
	return 0, nil
}

func (r *fakeUserRepo) Create(_ context.Context, _ *gorm.DB, user *models.User) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.usersByID[user.ID] = *user
	r.usersByEmail[user.Email] = *user
	return nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, _ *gorm.DB, email string) (models.User, error) {
	user, ok := r.usersByEmail[email]
	if !ok {
		return models.User{}, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, _ *gorm.DB, userID string) (models.User, error) {
	user, ok := r.usersByID[userID]
	if !ok {
		return models.User{}, gorm.ErrRecordNotFound
	}
	return user, nil
}

// fakeFileRepo keeps rows in insertion order so listings are deterministic.
type fakeFileRepo struct {
	mu        sync.Mutex
	rows      map[string]models.FileNode
	order     []string
	seq       int
	createErr error
	deleteErr error
	bulkErr   error
	deleted   []string
	bulkCalls int
	// failOnce fails the next single delete of each listed id.
	failOnce map[string]error
	// beforeGet runs ahead of every GetByIDAndOwner lookup.
	beforeGet func(id string)
}

func newFakeFileRepo(nodes ...models.FileNode) *fakeFileRepo {
	r := &fakeFileRepo{rows: map[string]models.FileNode{}}
	for _, n := range nodes {
		r.put(n)
	}
	return r
}

func (r *fakeFileRepo) put(n models.FileNode) {
	if _, ok := r.rows[n.ID]; !ok {
		r.order = append(r.order, n.ID)
	}
	r.seq++
	r.rows[n.ID] = n
}

func (r *fakeFileRepo) remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rows, id)
}

func (r *fakeFileRepo) bulkDeleteCalls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.bulkCalls
}

func (r *fakeFileRepo) has(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.rows[id]
	return ok
}

func (r *fakeFileRepo) list(match func(models.FileNode) bool) []models.FileNode {
	var out []models.FileNode
	for _, id := range r.order {
		n, ok := r.rows[id]
		if ok && match(n) {
			out = append(out, n)
		}
	}
	return out
}

func (r *fakeFileRepo) Find(_ context.Context, _ *gorm.DB, q repositories.FileQuery) ([]models.FileNode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.list(func(n models.FileNode) bool {
		if n.UserID != q.OwnerID || (q.ID != "" && n.ID != q.ID) {
			return false
		}
		if q.RootOnly && n.ParentID != nil {
			return false
		}
		if !q.RootOnly && q.ParentID != nil && (n.ParentID == nil || *n.ParentID != *q.ParentID) {
			return false
		}
		if q.IsFolder != nil && n.IsFolder != *q.IsFolder {
			return false
		}
		if q.IsTrash != nil && n.IsTrash != *q.IsTrash {
			return false
		}
		return q.IsStarred == nil || n.IsStarred == *q.IsStarred
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].IsFolder && !out[j].IsFolder })
	return out, nil
}

func (r *fakeFileRepo) Create(_ context.Context, _ *gorm.DB, node *models.FileNode) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.put(*node)
	return nil
}

func (r *fakeFileRepo) GetByIDAndOwner(_ context.Context, _ *gorm.DB, id string, ownerID string) (models.FileNode, error) {
	if r.beforeGet != nil {
		r.beforeGet(id)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.rows[id]
	if !ok || n.UserID != ownerID {
		return models.FileNode{}, gorm.ErrRecordNotFound
	}
	return n, nil
}

func (r *fakeFileRepo) ListChildren(_ context.Context, _ *gorm.DB, ownerID string, parentID string) ([]models.FileNode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.list(func(n models.FileNode) bool {
		return n.UserID == ownerID && n.ParentID != nil && *n.ParentID == parentID
	}), nil
}

func (r *fakeFileRepo) ListTrashed(_ context.Context, _ *gorm.DB, ownerID string) ([]models.FileNode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.list(func(n models.FileNode) bool { return n.UserID == ownerID && n.IsTrash }), nil
}

func (r *fakeFileRepo) ListByOwner(_ context.Context, _ *gorm.DB, ownerID string) ([]models.FileNode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.list(func(n models.FileNode) bool { return n.UserID == ownerID }), nil
}

func (r *fakeFileRepo) UpdateByIDAndOwner(_ context.Context, _ *gorm.DB, id string, ownerID string, updates map[string]interface{}) (models.FileNode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.rows[id]
	if !ok || n.UserID != ownerID {
		return models.FileNode{}, gorm.ErrRecordNotFound
	}
	for column, value := range updates {
		switch column {
		case "is_starred", "is_trash":
			target := &n.IsStarred
			if column == "is_trash" {
				target = &n.IsTrash
			}
			switch v := value.(type) {
			case clause.Expr:
				if v.SQL != "NOT "+column {
					return models.FileNode{}, errors.New("unexpected expression " + v.SQL)
				}
				*target = !*target
			case bool:
				*target = v
			}
		case "parent_id":
			if value == nil {
				n.ParentID = nil
			} else {
				parent := value.(string)
				n.ParentID = &parent
			}
		case "name":
			n.Name = value.(string)
		}
	}
	r.rows[id] = n
	return n, nil
}

func (r *fakeFileRepo) DeleteByIDAndOwner(_ context.Context, _ *gorm.DB, id string, ownerID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deleteErr != nil {
		return 0, r.deleteErr
	}
	if err, ok := r.failOnce[id]; ok {
		delete(r.failOnce, id)
		return 0, err
	}
	n, ok := r.rows[id]
	if !ok || n.UserID != ownerID {
		return 0, nil
	}
	delete(r.rows, id)
	r.deleted = append(r.deleted, id)
	return 1, nil
}

func (r *fakeFileRepo) DeleteByIDsAndOwner(_ context.Context, _ *gorm.DB, ids []string, ownerID string) ([]models.FileNode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bulkCalls++
	if r.bulkErr != nil {
		return nil, r.bulkErr
	}
	var removed []models.FileNode
	for _, id := range ids {
		n, ok := r.rows[id]
		if !ok || n.UserID != ownerID {
			continue
		}
		delete(r.rows, id)
		r.deleted = append(r.deleted, id)
		removed = append(removed, n)
	}
	return removed, nil
}

// recordingStore is an in-memory blob store that records every call.
type recordingStore struct {
	mu        sync.Mutex
	objects   map[string]string
	nextID    int
	uploadErr error
	searchErr error
	deleteErr error
	searches  []string
	deletes   []string
}

func newRecordingStore() *recordingStore {
	return &recordingStore{objects: map[string]string{}}
}

func (s *recordingStore) Upload(_ context.Context, r io.Reader, name string) (blobstore.Locator, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.uploadErr != nil {
		return blobstore.Locator{}, s.uploadErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return blobstore.Locator{}, err
	}
	s.nextID++
	nativeID := "native-" + name
	s.objects[name] = nativeID
	return blobstore.Locator{
		NativeID: nativeID,
		Name:     name,
		URL:      "https://cdn.example.com/droply/" + name + "?v=1",
		Path:     "/droply/" + name,
		Size:     int64(len(data)),
	}, nil
}

func (s *recordingStore) Search(_ context.Context, name string, _ int) ([]blobstore.Object, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searches = append(s.searches, name)
	if s.searchErr != nil {
		return nil, s.searchErr
	}
	if id, ok := s.objects[name]; ok {
		return []blobstore.Object{{NativeID: id, Name: name}}, nil
	}
	return nil, nil
}

func (s *recordingStore) Delete(_ context.Context, nativeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletes = append(s.deletes, nativeID)
	if s.deleteErr != nil {
		return s.deleteErr
	}
	for name, id := range s.objects {
		if id == nativeID || name == nativeID {
			delete(s.objects, name)
		}
	}
	return nil
}

func (s *recordingStore) deleteCalls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.deletes...)
}

func strPtr(s string) *string { return &s }

func fileNode(id, owner string, parent *string, name string) models.FileNode {
	return models.FileNode{
		ID:       id,
		UserID:   owner,
		ParentID: parent,
		Name:     name,
		FileURL:  "https://cdn.example.com/droply/" + name + "?tr=w-200",
		Path:     "/droply/" + name,
		Type:     "application/pdf",
	}
}

func folderNode(id, owner string, parent *string, name string) models.FileNode {
	return models.FileNode{ID: id, UserID: owner, ParentID: parent, Name: name, IsFolder: true, Type: models.FolderType}
}
