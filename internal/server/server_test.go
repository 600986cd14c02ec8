package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gw "github.com/ochairo/chromium-snapshots/internal/domain-adapters/gateways"
	orchestrators "github.com/ochairo/chromium-snapshots/internal/domain-orchestrators"
	"github.com/ochairo/chromium-snapshots/internal/domain/services"
	"github.com/ochairo/chromium-snapshots/internal/external-adapters/yaml"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeUpstream serves the release history, version metadata and snapshot
// listing APIs from a single test server
type fakeUpstream struct {
	*httptest.Server
	calls atomic.Int32
}

func newFakeUpstream(t *testing.T) *fakeUpstream {
	t.Helper()
	f := &fakeUpstream{}

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/chrome/platforms/", func(w http.ResponseWriter, r *http.Request) {
		f.calls.Add(1)
		switch {
		case strings.Contains(r.URL.Path, "/win64/"):
			_, _ = w.Write([]byte(`{"releases":[
				{"name":"w1","version":"120.0.1.0"},
				{"name":"w2","version":"120.0.6099.129"},
				{"name":"w3","version":"119.0.6045.200"}]}`))
		case strings.Contains(r.URL.Path, "/mac_arm64/"):
			_, _ = w.Write([]byte(`{"releases":[
				{"name":"m1","version":"121.0.6167.85"},
				{"name":"m2","version":"122.0.6261.57"}]}`))
		default:
			w.WriteHeader(http.StatusBadGateway)
		}
	})
	mux.HandleFunc("/fetch_version", func(w http.ResponseWriter, r *http.Request) {
		f.calls.Add(1)
		switch r.URL.Query().Get("version") {
		case "120.0.6099.129":
			_, _ = w.Write([]byte(`{"chromium_main_branch_position":1181205}`))
		case "120.0.1.0":
			_, _ = w.Write([]byte(`{"chromium_main_branch_position":1181100}`))
		case "121.0.6167.85":
			_, _ = w.Write([]byte(`{"chromium_main_branch_position":1233107}`))
		case "119.0.6045.200":
			_, _ = w.Write([]byte(`{"chromium_main_branch_position":null}`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	})
	mux.HandleFunc("/snapshots/", func(w http.ResponseWriter, r *http.Request) {
		f.calls.Add(1)
		q := r.URL.Query()
		if q.Get("prefix") != "Win_x64/" {
			_, _ = w.Write([]byte(`<ListBucketResult><IsTruncated>false</IsTruncated></ListBucketResult>`))
			return
		}
		switch q.Get("marker") {
		case "Win_x64/1181205/":
			fmt.Fprint(w, `<ListBucketResult><IsTruncated>true</IsTruncated>`+
				`<CommonPrefixes><Prefix>Win_x64/1181205/</Prefix></CommonPrefixes>`+
				`<CommonPrefixes><Prefix>Win_x64/1181207/</Prefix></CommonPrefixes></ListBucketResult>`)
		case "Win_x64/1181100/":
			fmt.Fprint(w, `<ListBucketResult><IsTruncated>false</IsTruncated>`+
				`<CommonPrefixes><Prefix>Win_x64/1181150/</Prefix></CommonPrefixes></ListBucketResult>`)
		default:
			_, _ = w.Write([]byte(`<ListBucketResult><IsTruncated>false</IsTruncated></ListBucketResult>`))
		}
	})

	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Close)
	return f
}

func newTestServer(t *testing.T, upstream *fakeUpstream, staticDir string) *Server {
	t.Helper()

	platforms, err := yaml.NewDefaultPlatformRepository()
	require.NoError(t, err)

	opts := gw.ClientOptions{Timeout: 2 * time.Second}
	listing := gw.NewSnapshotBucketGateway(upstream.URL+"/snapshots", opts)
	resolver := services.NewReleaseResolver(gw.NewHTTPReleaseHistoryGateway(upstream.URL, opts), "stable", nil)
	locator := services.NewPositionLocator(gw.NewChromiumDashGateway(upstream.URL, opts), listing, 0, nil)
	orch := orchestrators.NewDownloadOrchestrator(platforms, resolver, locator, listing, nil)

	return NewServer(Config{Addr: "127.0.0.1:0", StaticDir: staticDir}, orch, nil)
}

func do(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestDownload_ExactVersionRedirects(t *testing.T) {
	upstream := newFakeUpstream(t)
	s := newTestServer(t, upstream, "")

	rec := do(t, s, "/download?platform=windows&version=120.0.6099.129")

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, upstream.URL+"/snapshots/Win_x64/1181205/chrome-win.zip", rec.Header().Get("Location"))
}

func TestDownload_MilestonePicksGreatestVersion(t *testing.T) {
	upstream := newFakeUpstream(t)
	s := newTestServer(t, upstream, "")

	rec := do(t, s, "/download?platform=windows&version=m120")

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, upstream.URL+"/snapshots/Win_x64/1181205/chrome-win.zip", rec.Header().Get("Location"))
}

func TestDownload_MovesToNextAvailablePosition(t *testing.T) {
	upstream := newFakeUpstream(t)
	s := newTestServer(t, upstream, "")

	rec := do(t, s, "/download?platform=windows&version=120.0.1.0")

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, upstream.URL+"/snapshots/Win_x64/1181150/chrome-win.zip", rec.Header().Get("Location"))
}

func TestDownload_Errors(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		wantStatus int
		wantBody   string
		wantCalls  int32
	}{
		{
			name:       "missing version",
			target:     "/download?platform=windows",
			wantStatus: http.StatusBadRequest,
			wantBody:   "Missing parameters",
		},
		{
			name:       "missing platform",
			target:     "/download?version=M120",
			wantStatus: http.StatusBadRequest,
			wantBody:   "Missing parameters",
		},
		{
			name:       "unknown platform",
			target:     "/download?platform=amiga&version=M120",
			wantStatus: http.StatusBadRequest,
			wantBody:   "Invalid platform",
		},
		{
			name:       "nonexistent milestone",
			target:     "/download?platform=macArm&version=M999",
			wantStatus: http.StatusNotFound,
			wantBody:   "No versions for this milestone or version",
			wantCalls:  1,
		},
		{
			name:       "unknown exact version",
			target:     "/download?platform=windows&version=120.0.6099.130",
			wantStatus: http.StatusNotFound,
			wantBody:   "No versions for this milestone or version",
			wantCalls:  1,
		},
		{
			name:       "no base position",
			target:     "/download?platform=windows&version=119.0.6045.200",
			wantStatus: http.StatusNotFound,
			wantBody:   "No base position was found for this version",
			wantCalls:  2,
		},
		{
			name:       "no snapshot after base position",
			target:     "/download?platform=macArm&version=M121",
			wantStatus: http.StatusNotFound,
			wantBody:   "No next base position was found for this version",
			wantCalls:  3,
		},
		{
			name:       "version metadata failure",
			target:     "/download?platform=macArm&version=M122",
			wantStatus: http.StatusInternalServerError,
			wantBody:   "Failed to fetch version",
			wantCalls:  2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			upstream := newFakeUpstream(t)
			s := newTestServer(t, upstream, "")

			rec := do(t, s, tt.target)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantBody, rec.Body.String())
			assert.Equal(t, tt.wantCalls, upstream.calls.Load())
		})
	}
}

func TestDownload_UpstreamDown(t *testing.T) {
	upstream := newFakeUpstream(t)
	s := newTestServer(t, upstream, "")
	upstream.Close()

	rec := do(t, s, "/download?platform=windows&version=M120")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to fetch releases", rec.Body.String())
}

func TestPlatforms(t *testing.T) {
	s := newTestServer(t, newFakeUpstream(t), "")

	rec := do(t, s, "/platforms")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
	assert.JSONEq(t, `{
		"windows":  {"displayName":"Windows","versionHistoryName":"win64","listingDir":"Win_x64","downloadFileName":"chrome-win.zip"},
		"macIntel": {"displayName":"Mac Intel","versionHistoryName":"mac","listingDir":"Mac","downloadFileName":"chrome-mac.zip"},
		"macArm":   {"displayName":"Mac Arm","versionHistoryName":"mac_arm64","listingDir":"Mac_Arm","downloadFileName":"chrome-mac.zip"}
	}`, rec.Body.String())
}

func TestStaticFallback(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>snapshots</h1>"), 0600))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "assets"), 0750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "assets", "app.js"), []byte("console.log(1)"), 0600))

	s := newTestServer(t, newFakeUpstream(t), dir)

	rec := do(t, s, "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<h1>snapshots</h1>")

	rec = do(t, s, "/assets/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "app.js", "directory listing")

	rec = do(t, s, "/missing.txt")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServeListener_Shutdown(t *testing.T) {
	s := newTestServer(t, newFakeUpstream(t), "")

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ServeListener(ctx, listener) }()

	client := &http.Client{
		Timeout: 2 * time.Second,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	resp, err := client.Get("http://" + listener.Addr().String() + "/platforms")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
