package speech_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/agakshita/voxhire/internal/speech"
)

func newTestDir(t *testing.T) *speech.Dir {
	t.Helper()
	dir, err := speech.NewDir(t.TempDir())
	if err != nil {
		t.Fatalf("NewDir: %v", err)
	}
	return dir
}

// ---------------------------------------------------------------------------
// Artifact directory
// ---------------------------------------------------------------------------

func TestDirWriteAndPath(t *testing.T) {
	root := t.TempDir()
	dir, err := speech.NewDir(root)
	if err != nil {
		t.Fatalf("NewDir: %v", err)
	}

	name, err := dir.Write("room-1_intro.wav", []byte("RIFF"))
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if name != "room-1_intro.wav" {
		t.Errorf("name = %q", name)
	}

	data, err := os.ReadFile(filepath.Join(root, "room-1_intro.wav"))
	if err != nil || string(data) != "RIFF" {
		t.Fatalf("artifact not written: %v %q", err, data)
	}
	if !dir.Exists("room-1_intro.wav") {
		t.Error("Exists = false for stored artifact")
	}
}

func TestDirRejectsTraversal(t *testing.T) {
	dir := newTestDir(t)
	for _, name := range []string{"../escape.wav", "a/b.wav", ".hidden", ""} {
		if _, err := dir.Path(name); err == nil {
			t.Errorf("Path(%q) accepted an unsafe name", name)
		}
	}
}

// ---------------------------------------------------------------------------
// Transcription
// ---------------------------------------------------------------------------

func TestTranscribe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audio/transcriptions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parsing multipart: %v", err)
		}
		if got := r.FormValue("model"); got != "whisper-large-v3" {
			t.Errorf("model = %q", got)
		}
		if _, _, err := r.FormFile("file"); err != nil {
			t.Errorf("missing file part: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]string{"text": "hello world"})
	}))
	defer srv.Close()

	c := speech.NewClient(srv.URL, "key", "", "", "", newTestDir(t))
	text, err := c.Transcribe(context.Background(), []byte("RIFFdata"))
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if text != "hello world" {
		t.Errorf("text = %q", text)
	}
}

func TestTranscribe_EmptyTextIsValid(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"text": ""})
	}))
	defer srv.Close()

	c := speech.NewClient(srv.URL, "key", "", "", "", newTestDir(t))
	text, err := c.Transcribe(context.Background(), []byte("silence"))
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if text != "" {
		t.Errorf("text = %q, want empty", text)
	}
}

// ---------------------------------------------------------------------------
// Synthesis
// ---------------------------------------------------------------------------

func TestSynthesize_WritesArtifact(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audio/speech" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var req struct {
			Input string `json:"input"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding: %v", err)
		}
		if req.Input != "Welcome Jordan" {
			t.Errorf("input = %q", req.Input)
		}
		w.Write([]byte("WAVBYTES"))
	}))
	defer srv.Close()

	root := t.TempDir()
	dir, _ := speech.NewDir(root)
	c := speech.NewClient(srv.URL, "key", "", "", "", dir)

	name, err := c.Synthesize(context.Background(), "Welcome Jordan", "room-1_intro.wav")
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if name != "room-1_intro.wav" {
		t.Errorf("name = %q", name)
	}
	data, err := os.ReadFile(filepath.Join(root, name))
	if err != nil || string(data) != "WAVBYTES" {
		t.Fatalf("artifact: %v %q", err, data)
	}
}

func TestSynthesize_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad voice", http.StatusBadRequest)
	}))
	defer srv.Close()

	c := speech.NewClient(srv.URL, "key", "", "", "", newTestDir(t))
	if _, err := c.Synthesize(context.Background(), "text", "x.wav"); err == nil {
		t.Fatal("expected error on non-200 response")
	}
}
