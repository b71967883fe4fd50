package controllers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vnkhanh/wepodcaster-backend/services"
)

func multipartRequest(t *testing.T, path, filename, contentType string, data []byte, fields map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestFileController(t *testing.T) {
	env := newTestEnv(t)
	fc := NewFileController(env.podcastSvc)
	r := gin.New()
	r.POST("/files/upload-url", fc.GenerateUploadURL)
	r.GET("/files/url", fc.GetURL)
	r.POST("/files/image", fc.UploadImage)

	w := doJSON(r, http.MethodPost, "/files/upload-url", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var target services.UploadTarget
	decode(t, w, &target)
	assert.True(t, strings.HasPrefix(target.StorageID, "uploads/"))
	assert.Contains(t, target.UploadURL, target.StorageID)

	w = doJSON(r, http.MethodGet, "/files/url?storage_id=images/a.png", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"url":"https://cdn.test/images/a.png"}`, w.Body.String())

	assert.Equal(t, http.StatusBadRequest, doJSON(r, http.MethodGet, "/files/url", nil, "").Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, multipartRequest(t, "/files/image", "My Cover.PNG", "image/png", []byte("\x89PNG fake"), nil))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var stored services.StoredFile
	decode(t, w, &stored)
	assert.True(t, strings.HasPrefix(stored.StorageID, "images/my-cover-"), stored.StorageID)
	assert.True(t, strings.HasSuffix(stored.StorageID, ".png"))
	assert.Equal(t, "https://cdn.test/"+stored.StorageID, stored.URL)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, multipartRequest(t, "/files/image", "notes.txt", "text/plain", []byte("hello"), nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
