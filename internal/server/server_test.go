package server

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/smapshot/pkg/cache"
	"github.com/matzehuels/smapshot/pkg/osm"
	"github.com/matzehuels/smapshot/pkg/pipeline"
)

const mapXML = `<osm version="0.6">
  <node id="1" lat="0.5" lon="0.1"/>
  <node id="2" lat="0.5" lon="0.9"/>
  <way id="10"><nd ref="1"/><nd ref="2"/><tag k="highway" v="primary"/><tag k="name" v="Main St"/></way>
</osm>`

const squareJSON = `{"type":"Feature","properties":{"name":"Square"},"geometry":{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,1],[0,0]]]}}`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	overpass := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(mapXML))
	}))
	t.Cleanup(overpass.Close)

	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := pipeline.NewRunner(fc, nil, log.New(&bytes.Buffer{}))
	runner.OSM = osm.NewClient(overpass.URL, fc, runner.Keyer, nil)

	s := New(":0", runner, pipeline.Options{Width: 200, Height: 240})
	srv := httptest.NewServer(s.Routes())
	t.Cleanup(srv.Close)
	return srv
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestRenderAndJob(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/render?width=160", "application/geo+json", strings.NewReader(squareJSON))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %q", ct)
	}
	img, err := png.Decode(resp.Body)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 160 || b.Dy() != 240 {
		t.Errorf("image = %v, want 160x240", b)
	}

	id := resp.Header.Get("X-Job-ID")
	jr, err := http.Get(srv.URL + "/jobs/" + id)
	if err != nil {
		t.Fatal(err)
	}
	defer jr.Body.Close()
	var rec JobRecord
	if err := json.NewDecoder(jr.Body).Decode(&rec); err != nil {
		t.Fatalf("decode job: %v", err)
	}
	if rec.ID != id || rec.Status != StatusDone || rec.Name != "Square" || rec.Roads != 1 {
		t.Errorf("job = %+v", rec)
	}
}

func TestRenderErrors(t *testing.T) {
	srv := newTestServer(t)
	tests := []struct {
		name   string
		query  string
		body   string
		status int
	}{
		{"bad json", "", "{", http.StatusBadRequest},
		{"point", "", `{"type":"Point","coordinates":[1,2]}`, http.StatusBadRequest},
		{"bad format", "?format=gif", squareJSON, http.StatusBadRequest},
		{"bad width", "?width=wide", squareJSON, http.StatusBadRequest},
		{"huge canvas", "?width=50000", squareJSON, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(srv.URL+"/render"+tt.query, "application/json", strings.NewReader(tt.body))
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			var body errorBody
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Code == "" {
				t.Errorf("error body = %+v, err %v", body, err)
			}
		})
	}
}

func TestJobNotFound(t *testing.T) {
	srv := newTestServer(t)
	for path, want := range map[string]int{
		"/jobs/3f1a0e6c-0d7e-4c5e-9a53-0d6c1c1a2b3c": http.StatusNotFound,
		"/jobs/not-a-uuid":                           http.StatusBadRequest,
	} {
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != want {
			t.Errorf("GET %s = %d, want %d", path, resp.StatusCode, want)
		}
	}
}

func TestShutdown(t *testing.T) {
	runner := pipeline.NewRunner(nil, nil, log.New(&bytes.Buffer{}))
	s := New("127.0.0.1:0", runner, pipeline.Options{})
	if err := s.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() before Start = %v", err)
	}
}
