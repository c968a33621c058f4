package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Prince5598/Cloud-Storage/blobstore"
	"github.com/Prince5598/Cloud-Storage/config"
	"github.com/Prince5598/Cloud-Storage/database"
	"github.com/Prince5598/Cloud-Storage/identity"
	"github.com/Prince5598/Cloud-Storage/middleware"
	"github.com/Prince5598/Cloud-Storage/repositories"
	"github.com/Prince5598/Cloud-Storage/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	router  *gin.Engine
	blobDir string
	tokens  *identity.JWTProvider
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Default()
	cfg.Database.SQLitePath = filepath.Join(t.TempDir(), "droply.db")
	cfg.Storage.BasePath = t.TempDir()
	cfg.Storage.PublicURL = "http://localhost:8080/blobs"
	previous := config.AppConfig
	config.AppConfig = cfg
	t.Cleanup(func() { config.AppConfig = previous })

	db, err := database.Open(&cfg.Database)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	store, err := blobstore.NewLocalStore(cfg.Storage.BasePath, cfg.Storage.PublicURL, blobstore.ThumbnailOptions{})
	require.NoError(t, err)

	tokens, err := identity.NewJWTProvider("test-secret", time.Hour)
	require.NoError(t, err)

	repos := repositories.NewGormRepositories(db, nil).BuildContainer()
	previousServices := appServices
	SetServices(services.NewContainer(repos, store, tokens, cfg.Lifecycle))
	t.Cleanup(func() { SetServices(previousServices) })

	r := gin.New()
	SetupRoutes(r, RouteOptions{
		Auth:      middleware.AuthMiddleware(tokens),
		LocalAuth: true,
		BlobDir:   cfg.Storage.BasePath,
	})
	return &testServer{router: r, blobDir: cfg.Storage.BasePath, tokens: tokens}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) (int, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return s.serve(t, req)
}

func (s *testServer) upload(t *testing.T, token, parentID, name string, content []byte) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	if parentID != "" {
		require.NoError(t, mw.WriteField("parentId", parentID))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/files/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	return s.serve(t, req)
}

func (s *testServer) serve(t *testing.T, req *http.Request) (int, envelope) {
	t.Helper()
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func (s *testServer) login(t *testing.T, email string) string {
	t.Helper()
	code, _ := s.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"email": email, "password": "secret123", "passwordConfirm": "secret123",
	})
	require.Equal(t, http.StatusCreated, code)

	code, env := s.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": email, "password": "secret123"})
	require.Equal(t, http.StatusOK, code)
	var out struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &out))
	require.NotEmpty(t, out.Token)
	return out.Token
}

type nodeJSON struct {
	ID        string  `json:"id"`
	ParentID  *string `json:"parentId"`
	Name      string  `json:"name"`
	IsFolder  bool    `json:"isFolder"`
	IsTrash   bool    `json:"isTrash"`
	IsStarred bool    `json:"isStarred"`
	FileURL   string  `json:"fileUrl"`
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func countObjects(t *testing.T, dir string) int {
	t.Helper()
	entries, err := os.ReadDir(filepath.Join(dir, "objects"))
	require.NoError(t, err)
	return len(entries)
}

func TestFileLifecycleEndToEnd(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "alice@example.com")

	code, env := s.do(t, http.MethodPost, "/api/folders/create", token, gin.H{"name": "docs"})
	require.Equal(t, http.StatusOK, code, env.Error)
	folder := decode[struct {
		Folder nodeJSON `json:"folder"`
	}](t, env.Data).Folder
	assert.True(t, folder.IsFolder)

	code, env = s.upload(t, token, folder.ID, "report.txt", []byte("quarterly numbers"))
	require.Equal(t, http.StatusOK, code, env.Error)
	file := decode[nodeJSON](t, env.Data)
	require.NotNil(t, file.ParentID)
	assert.Equal(t, folder.ID, *file.ParentID)
	assert.Equal(t, 1, countObjects(t, s.blobDir))

	code, env = s.do(t, http.MethodPatch, "/api/files/"+file.ID+"/star", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.True(t, decode[nodeJSON](t, env.Data).IsStarred)

	code, env = s.do(t, http.MethodGet, "/api/files?view=starred", token, nil)
	require.Equal(t, http.StatusOK, code)
	listing := decode[struct {
		Files        []nodeJSON `json:"files"`
		StarredCount int        `json:"starredCount"`
	}](t, env.Data)
	assert.Len(t, listing.Files, 1)
	assert.Equal(t, 1, listing.StarredCount)

	code, env = s.do(t, http.MethodPatch, "/api/files/"+folder.ID+"/trash", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.True(t, decode[nodeJSON](t, env.Data).IsTrash)

	code, env = s.do(t, http.MethodDelete, "/api/files/trash", token, nil)
	require.Equal(t, http.StatusOK, code, env.Error)
	out := decode[services.EmptyTrashOutput](t, env.Data)
	assert.Equal(t, 2, out.DeletedCount)
	assert.ElementsMatch(t, []string{folder.ID, file.ID}, out.DeletedIDs)
	assert.Equal(t, 0, countObjects(t, s.blobDir))

	code, _ = s.do(t, http.MethodGet, "/api/files/"+file.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestDeleteFileTwiceReturnsNotFound(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "bob@example.com")

	code, env := s.upload(t, token, "", "a.txt", []byte("a"))
	require.Equal(t, http.StatusOK, code, env.Error)
	file := decode[nodeJSON](t, env.Data)

	code, env = s.do(t, http.MethodDelete, "/api/files/"+file.ID+"/delete", token, nil)
	require.Equal(t, http.StatusOK, code, env.Error)
	assert.Equal(t, file.ID, decode[map[string]string](t, env.Data)["deletedId"])

	code, env = s.do(t, http.MethodDelete, "/api/files/"+file.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.False(t, env.Success)
}

func TestOwnershipIsEnforced(t *testing.T) {
	s := newTestServer(t)
	alice := s.login(t, "alice@example.com")
	mallory := s.login(t, "mallory@example.com")

	code, env := s.upload(t, alice, "", "secret.txt", []byte("s"))
	require.Equal(t, http.StatusOK, code, env.Error)
	file := decode[nodeJSON](t, env.Data)

	for _, req := range []struct{ method, path string }{
		{http.MethodDelete, "/api/files/" + file.ID},
		{http.MethodPatch, "/api/files/" + file.ID + "/star"},
		{http.MethodPatch, "/api/files/" + file.ID + "/trash"},
		{http.MethodGet, "/api/files/" + file.ID},
	} {
		code, _ := s.do(t, req.method, req.path, mallory, nil)
		assert.Equal(t, http.StatusNotFound, code, req.path)
	}

	code, _ = s.do(t, http.MethodGet, "/api/files/"+file.ID, alice, nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestMissingIdentityIsUnauthorized(t *testing.T) {
	s := newTestServer(t)

	code, env := s.do(t, http.MethodDelete, "/api/files/empty-trash", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.False(t, env.Success)

	code, _ = s.do(t, http.MethodDelete, "/api/files/x", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestRegisterRejectsMalformedEmail(t *testing.T) {
	s := newTestServer(t)

	code, env := s.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"email": "not-an-email", "password": "secret123", "passwordConfirm": "secret123",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.False(t, env.Success)
}

func TestCreateFolderValidation(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "carol@example.com")

	code, _ := s.do(t, http.MethodPost, "/api/folders", token, gin.H{"name": ""})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = s.do(t, http.MethodPost, "/api/folders", token, gin.H{"name": "x", "parentId": "missing"})
	assert.Equal(t, http.StatusNotFound, code)
}

func TestMoveAndBreadcrumbs(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "dave@example.com")

	create := func(name string, parent string) nodeJSON {
		body := gin.H{"name": name}
		if parent != "" {
			body["parentId"] = parent
		}
		code, env := s.do(t, http.MethodPost, "/api/folders", token, body)
		require.Equal(t, http.StatusOK, code, env.Error)
		return decode[struct {
			Folder nodeJSON `json:"folder"`
		}](t, env.Data).Folder
	}
	a := create("A", "")
	b := create("B", a.ID)
	c := create("C", b.ID)

	code, env := s.do(t, http.MethodGet, "/api/files/"+c.ID+"/breadcrumbs", token, nil)
	require.Equal(t, http.StatusOK, code)
	crumbs := decode[[]struct {
		ID string `json:"id"`
	}](t, env.Data)
	require.Len(t, crumbs, 3)
	assert.Equal(t, []string{a.ID, b.ID, c.ID}, []string{crumbs[0].ID, crumbs[1].ID, crumbs[2].ID})

	code, _ = s.do(t, http.MethodPatch, "/api/files/"+a.ID+"/move", token, gin.H{"parentId": c.ID})
	assert.Equal(t, http.StatusBadRequest, code)

	code, env = s.do(t, http.MethodPatch, "/api/files/"+c.ID+"/move", token, gin.H{"parentId": nil})
	require.Equal(t, http.StatusOK, code, env.Error)
	assert.Nil(t, decode[nodeJSON](t, env.Data).ParentID)
}

func TestHealthCheck(t *testing.T) {
	s := newTestServer(t)
	code, env := s.do(t, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, env.Success)
}
