package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"contractor_connect/internal/config"
	"contractor_connect/internal/model"
	"contractor_connect/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clientConfig(t *testing.T, baseURL string) *config.ClientConfig {
	return &config.ClientConfig{
		APIBaseURL:        baseURL,
		APITimeoutSeconds: 5,
		SessionFile:       filepath.Join(t.TempDir(), "session"),
		SessionPassphrase: "correct horse",
	}
}

func TestNewApp_RestoresSessionFromFile(t *testing.T) {
	cfg := clientConfig(t, "http://127.0.0.1:1")
	saved := session.NewManager(session.NewFileStore(cfg.SessionFile, cfg.SessionPassphrase))
	require.NoError(t, saved.SetAuth(model.User{
		ID:          "2b1c6a52-8d7e-4c39-9f0e-0e1f4f5b7a11",
		PhoneNumber: "9876543210",
		Name:        "Green Acres Society",
		Role:        model.RoleSociety,
		IsVerified:  true,
	}, "token-abc"))

	out := &bytes.Buffer{}
	a := newApp(cfg, out)
	require.NoError(t, a.status())
	require.NoError(t, a.out.Flush())

	assert.True(t, a.session.State().Authenticated)
	assert.Equal(t, "token-abc", a.session.Token())
	assert.Contains(t, out.String(), "Green Acres Society")
}

func TestNewApp_MissingSessionFileStartsSignedOut(t *testing.T) {
	a := newApp(clientConfig(t, "http://127.0.0.1:1"), &bytes.Buffer{})

	assert.False(t, a.session.State().Authenticated)
	assert.Empty(t, a.session.Token())
}

func writeImage(t *testing.T, dir, name, content string) string {
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestOpenImages_ClosesEveryFile(t *testing.T) {
	dir := t.TempDir()
	paths := []string{writeImage(t, dir, "a.jpg", "aaa"), writeImage(t, dir, "b.png", "bbb")}

	files, closeAll, err := openImages(paths)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "a.jpg", files[0].Name)
	assert.Equal(t, "b.png", files[1].Name)

	closeAll()
	for _, f := range files {
		_, err := f.Content.Read(make([]byte, 1))
		assert.ErrorIs(t, err, os.ErrClosed)
	}
}

func TestOpenImages_MissingFileClosesOpenedOnes(t *testing.T) {
	dir := t.TempDir()
	paths := []string{writeImage(t, dir, "a.jpg", "aaa"), filepath.Join(dir, "missing.jpg")}

	files, closeAll, err := openImages(paths)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.jpg")
	assert.Nil(t, files)
	assert.Nil(t, closeAll)
}

func TestUploadImages_SendsEveryFile(t *testing.T) {
	var got []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/requests/r-1/images", r.URL.Path)
		if assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			for _, fh := range r.MultipartForm.File["images"] {
				got = append(got, fh.Filename)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"urls":["/uploads/a.jpg","/uploads/b.png"]}`))
	}))
	defer srv.Close()

	dir := t.TempDir()
	out := &bytes.Buffer{}
	a := newApp(clientConfig(t, srv.URL), out)

	err := a.uploadImages(context.Background(), "r-1", []string{
		writeImage(t, dir, "a.jpg", "aaa"),
		writeImage(t, dir, "b.png", "bbb"),
	})
	require.NoError(t, err)
	require.NoError(t, a.out.Flush())

	assert.Equal(t, []string{"a.jpg", "b.png"}, got)
	assert.Contains(t, out.String(), "/uploads/b.png")
}

func TestRun_RefreshRenewsSavedSession(t *testing.T) {
	var sent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/refresh", r.URL.Path)
		var body struct {
			RefreshToken string `json:"refresh_token"`
		}
		if assert.NoError(t, json.NewDecoder(r.Body).Decode(&body)) {
			sent = body.RefreshToken
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"token-new","refresh_token":"refresh-new","token_type":"bearer",` +
			`"user":{"id":"u-1","phone_number":"9876543210","name":"Green Acres Society","role":"society","is_verified":true}}`))
	}))
	defer srv.Close()

	cfg := clientConfig(t, srv.URL)
	saved := session.NewManager(session.NewFileStore(cfg.SessionFile, cfg.SessionPassphrase))
	require.NoError(t, saved.SetAuth(model.User{ID: "u-1", Name: "Green Acres Society", Role: model.RoleSociety}, "token-old"))
	require.NoError(t, saved.SetRefreshToken("refresh-old"))

	out := &bytes.Buffer{}
	a := newApp(cfg, out)
	require.NoError(t, a.run(context.Background(), "refresh", nil))
	require.NoError(t, a.out.Flush())

	assert.Equal(t, "refresh-old", sent)
	assert.Contains(t, out.String(), "Session renewed")
	restored := session.NewManager(session.NewFileStore(cfg.SessionFile, cfg.SessionPassphrase)).Initialize()
	assert.Equal(t, "token-new", restored.Token)
	assert.Equal(t, "refresh-new", restored.RefreshToken)
}
