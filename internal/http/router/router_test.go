package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/fileconv/internal/convert"
	"github.com/dropDatabas3/fileconv/internal/keystore"
)

// ─── stubs de codecs (la corrección de los codecs reales se testea en
// internal/codec; acá solo interesa el control-flow del API) ───

type stubRaster struct{}

func (stubRaster) Decode(data []byte, formatID string) (image.Image, error) {
	if strings.HasPrefix(string(data), "corrupt") {
		return nil, fmt.Errorf("bad image data")
	}
	return image.NewRGBA(image.Rect(0, 0, 1, 1)), nil
}

func (stubRaster) Encode(img image.Image, formatID string) ([]byte, error) {
	return []byte("img:" + formatID), nil
}

type stubDoc struct{ pages int }

func (s stubDoc) PageCount(pdf []byte) (int, error) { return s.pages, nil }
func (s stubDoc) RenderPage(pdf []byte, index int, scale float64) (image.Image, error) {
	return image.NewRGBA(image.Rect(0, 0, 1, 1)), nil
}
func (s stubDoc) FromImage(img image.Image) ([]byte, error) { return []byte("%PDF-stub"), nil }

// newTestServer arma el router completo con un MemStore inyectado.
func newTestServer(t *testing.T, masterKey string) (*httptest.Server, *keystore.MemStore) {
	t.Helper()
	store := keystore.NewMemStore(masterKey)
	h := New(Deps{
		Store:            store,
		Dispatcher:       convert.NewDispatcher(stubRaster{}, stubDoc{pages: 1}),
		MasterConfigured: masterKey != "",
	})
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv, store
}

func doJSON(t *testing.T, method, url, key string, body []byte) (*http.Response, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(method, url, bytes.NewReader(body))
	require.NoError(t, err)
	if key != "" {
		req.Header.Set("X-API-Key", key)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &decoded)
	}
	return resp, decoded
}

// ─── health / formats ───

func TestHealth_AlwaysOpen(t *testing.T) {
	for _, master := range []string{"", "M"} {
		srv, _ := newTestServer(t, master)
		resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/health", "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Equal(t, "ok", body["status"])
		require.Equal(t, "fileconv", body["service"])
	}
}

func TestFormats_OpenWithoutMaster(t *testing.T) {
	srv, _ := newTestServer(t, "")
	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/formats", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, body["formats"], 7)

	aliases, ok := body["aliases"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "jpeg", aliases["jpg"])
}

func TestFormats_GatedWithMaster(t *testing.T) {
	srv, _ := newTestServer(t, "M")

	resp, _ := doJSON(t, http.MethodGet, srv.URL+"/api/formats", "", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/formats", "M", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

// ─── key admin ───

func TestKeys_NotConfiguredWithoutMaster(t *testing.T) {
	srv, _ := newTestServer(t, "")

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/keys", "", nil)
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	require.Contains(t, body["error"], "not configured")

	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/keys", "", nil)
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestKeys_CreateListLifecycle(t *testing.T) {
	srv, _ := newTestServer(t, "M")

	// Crear con nombre
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/keys", "M", []byte(`{"name":"ci-bot"}`))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	apiKey, _ := body["api_key"].(string)
	require.NotEmpty(t, apiKey)
	require.Equal(t, "ci-bot", body["name"])
	require.NotEmpty(t, body["created_at"])
	require.Contains(t, body["message"], "not be shown again")

	// Crear sin body: nombre default
	resp, body = doJSON(t, http.MethodPost, srv.URL+"/api/keys", "M", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, "consumer", body["name"])

	// El listado nunca vuelve a mostrar la key
	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/keys", nil)
	req.Header.Set("X-API-Key", "M")
	listResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer listResp.Body.Close()
	raw, _ := io.ReadAll(listResp.Body)
	require.Equal(t, http.StatusOK, listResp.StatusCode)
	require.NotContains(t, string(raw), apiKey)

	var list struct {
		Keys []map[string]any `json:"keys"`
	}
	require.NoError(t, json.Unmarshal(raw, &list))
	require.Len(t, list.Keys, 2)
	for _, k := range list.Keys {
		require.NotContains(t, k, "key")
		require.NotContains(t, k, "api_key")
	}

	// Una consumer key no puede administrar keys
	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/keys", apiKey, nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Pero sí puede convertir
	convReq, _ := http.NewRequest(http.MethodPost, srv.URL+"/api/convert?input_format=png&output_format=jpeg", bytes.NewReader([]byte("fake-png")))
	convReq.Header.Set("X-API-Key", apiKey)
	convResp, err := http.DefaultClient.Do(convReq)
	require.NoError(t, err)
	convResp.Body.Close()
	require.Equal(t, http.StatusOK, convResp.StatusCode)
}

func TestKeys_StorageFailureIs500AndNotCreated(t *testing.T) {
	srv, store := newTestServer(t, "M")
	store.FailCreate = true

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/keys", "M", []byte(`{"name":"x"}`))
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	require.Contains(t, body["error"], "persist")
	require.Empty(t, store.List(), "failed create must not register the key")
}

// ─── convert: normalización y precedencia ───

func convertURL(srv *httptest.Server, query string) string {
	u := srv.URL + "/api/convert"
	if query != "" {
		u += "?" + query
	}
	return u
}

func TestConvert_RawBodyWithQueryParams(t *testing.T) {
	srv, _ := newTestServer(t, "")

	resp, err := http.Post(convertURL(srv, "input_format=png&output_format=jpeg"), "application/octet-stream", bytes.NewReader([]byte("fake-png")))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "image/jpeg", resp.Header.Get("Content-Type"))
	require.Equal(t, "jpeg", resp.Header.Get("X-Output-Format"))
	require.True(t, strings.HasSuffix(resp.Header.Get("X-Output-Filename"), ".jpeg"))
	require.Contains(t, resp.Header.Get("Content-Disposition"), "attachment")

	out, _ := io.ReadAll(resp.Body)
	require.Equal(t, "img:jpeg", string(out))
}

func TestConvert_HeadersBeatQueryParams(t *testing.T) {
	srv, _ := newTestServer(t, "")

	req, _ := http.NewRequest(http.MethodPost, convertURL(srv, "input_format=gif&output_format=bmp"), bytes.NewReader([]byte("fake")))
	req.Header.Set("X-Input-Format", "png")
	req.Header.Set("X-Output-Format", "webp")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	// El header le gana al query param
	require.Equal(t, "webp", resp.Header.Get("X-Output-Format"))
	out, _ := io.ReadAll(resp.Body)
	require.Equal(t, "img:webp", string(out))
}

func multipartBody(t *testing.T, fields map[string]string, fileContent []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if fileContent != nil {
		fw, err := w.CreateFormFile("file", "upload.bin")
		require.NoError(t, err)
		_, err = fw.Write(fileContent)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestConvert_MultipartFileAndFields(t *testing.T) {
	srv, _ := newTestServer(t, "")

	body, ct := multipartBody(t, map[string]string{
		"input_format":  "jpg", // alias: debe normalizar a jpeg
		"output_format": "tif",
	}, []byte("fake-jpeg"))

	resp, err := http.Post(convertURL(srv, ""), ct, body)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	// Siempre sale el ID canónico, no el alias
	require.Equal(t, "tiff", resp.Header.Get("X-Output-Format"))
	require.Equal(t, "image/tiff", resp.Header.Get("Content-Type"))
}

func TestConvert_QueryBeatsMultipartField(t *testing.T) {
	srv, _ := newTestServer(t, "")

	body, ct := multipartBody(t, map[string]string{
		"input_format":  "png",
		"output_format": "gif",
	}, []byte("fake"))

	resp, err := http.Post(convertURL(srv, "output_format=bmp"), ct, body)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "bmp", resp.Header.Get("X-Output-Format"))
}

func TestConvert_MissingInputFormat(t *testing.T) {
	srv, _ := newTestServer(t, "")

	// Por query
	resp, body := doJSON(t, http.MethodPost, convertURL(srv, "output_format=png"), "", []byte("data"))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Contains(t, body["error"], "input_format")

	// Por multipart: input_format sigue faltando
	mp, ct := multipartBody(t, map[string]string{"output_format": "png"}, []byte("data"))
	mresp, err := http.Post(convertURL(srv, ""), ct, mp)
	require.NoError(t, err)
	defer mresp.Body.Close()
	require.Equal(t, http.StatusBadRequest, mresp.StatusCode)

	// Por header: solo output
	req, _ := http.NewRequest(http.MethodPost, convertURL(srv, ""), bytes.NewReader([]byte("data")))
	req.Header.Set("X-Output-Format", "png")
	hresp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	hresp.Body.Close()
	require.Equal(t, http.StatusBadRequest, hresp.StatusCode)
}

func TestConvert_EmptyPayload(t *testing.T) {
	srv, _ := newTestServer(t, "")

	resp, body := doJSON(t, http.MethodPost, convertURL(srv, "input_format=png&output_format=jpeg"), "", nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Contains(t, body["error"], "binary data")

	// Multipart sin file part
	mp, ct := multipartBody(t, map[string]string{"input_format": "png", "output_format": "jpeg"}, nil)
	mresp, err := http.Post(convertURL(srv, ""), ct, mp)
	require.NoError(t, err)
	mresp.Body.Close()
	require.Equal(t, http.StatusBadRequest, mresp.StatusCode)
}

func TestConvert_UnsupportedFormat(t *testing.T) {
	srv, _ := newTestServer(t, "")

	resp, body := doJSON(t, http.MethodPost, convertURL(srv, "input_format=svg&output_format=png"), "", []byte("data"))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Contains(t, body["error"], "svg")
}

func TestConvert_MalformedPage(t *testing.T) {
	srv, _ := newTestServer(t, "")

	for _, page := range []string{"abc", "-1", "1.5"} {
		resp, body := doJSON(t, http.MethodPost, convertURL(srv, "input_format=pdf&output_format=png&page="+page), "", []byte("%PDF"))
		require.Equal(t, http.StatusBadRequest, resp.StatusCode, "page=%s", page)
		require.Contains(t, body["error"], "page")
	}
}

func TestConvert_PageOutOfRangeIs500(t *testing.T) {
	srv, _ := newTestServer(t, "") // stubDoc: 1 página

	resp, body := doJSON(t, http.MethodPost, convertURL(srv, "input_format=pdf&output_format=png&page=5"), "", []byte("%PDF"))
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	require.Equal(t, "conversion failed", body["error"])
	require.Contains(t, body["detail"], "out of range")
}

func TestConvert_PDFToPDFIdentity(t *testing.T) {
	srv, _ := newTestServer(t, "")
	in := []byte("%PDF-1.7 payload")

	resp, err := http.Post(convertURL(srv, "input_format=pdf&output_format=pdf"), "application/pdf", bytes.NewReader(in))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	out, _ := io.ReadAll(resp.Body)
	require.Equal(t, in, out)
}

func TestConvert_FilenameDiffersAcrossIdenticalRequests(t *testing.T) {
	srv, _ := newTestServer(t, "")

	names := make(map[string]bool)
	for i := 0; i < 3; i++ {
		resp, err := http.Post(convertURL(srv, "input_format=png&output_format=png"), "application/octet-stream", bytes.NewReader([]byte("same-input")))
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		name := resp.Header.Get("X-Output-Filename")
		require.NotEmpty(t, name)
		require.False(t, names[name], "filename repeated: %s", name)
		names[name] = true
	}
}

func TestConvert_GatedWithMaster(t *testing.T) {
	srv, _ := newTestServer(t, "M")

	// Sin key: 401 con body JSON, sin binario
	resp, body := doJSON(t, http.MethodPost, convertURL(srv, "input_format=png&output_format=jpeg"), "", []byte("data"))
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Contains(t, body["error"], "API key")

	// Key desconocida: 401
	resp, _ = doJSON(t, http.MethodPost, convertURL(srv, "input_format=png&output_format=jpeg"), "random-guess", []byte("data"))
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Master: 200
	resp, _ = doJSON(t, http.MethodPost, convertURL(srv, "input_format=png&output_format=jpeg"), "M", []byte("data"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestNotFoundAndMethodNotAllowedAreJSON(t *testing.T) {
	srv, _ := newTestServer(t, "")

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/nope", "", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.NotEmpty(t, body["error"])

	resp, body = doJSON(t, http.MethodDelete, srv.URL+"/api/health", "", nil)
	require.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	require.NotEmpty(t, body["error"])
}
