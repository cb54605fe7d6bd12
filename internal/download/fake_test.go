package download

import (
	"context"
	"os"
	"path/filepath"

	"github.com/ytget/ytpick/internal/formats"
	"github.com/ytget/ytpick/internal/model"
)

// fakeBackend serves canned probe results and writes a small file on fetch.
type fakeBackend struct {
	probe    *model.ProbeResult
	probeErr error
	fetchErr error
	ext      string
	caps     formats.Capabilities
	events   []model.ProgressEvent

	probed  int
	fetched []FetchRequest
}

func (f *fakeBackend) Name() string { return "fake" }

func (f *fakeBackend) Capabilities() formats.Capabilities { return f.caps }

func (f *fakeBackend) Probe(ctx context.Context, url string) (*model.ProbeResult, error) {
	f.probed++
	if f.probeErr != nil {
		return nil, f.probeErr
	}
	return f.probe, nil
}

func (f *fakeBackend) Fetch(ctx context.Context, req FetchRequest, onProgress model.ProgressFunc) (string, error) {
	f.fetched = append(f.fetched, req)
	for _, ev := range f.events {
		onProgress(ev)
	}
	if f.fetchErr != nil {
		return "", f.fetchErr
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	ext := f.ext
	if ext == "" {
		ext = "mp4"
	}
	path := filepath.Join(req.Dir, req.Title+"."+ext)
	if err := os.WriteFile(path, []byte("media"), 0644); err != nil {
		return "", err
	}
	return path, nil
}

// recordingRenderer keeps every event it is given.
type recordingRenderer struct {
	events []model.ProgressEvent
	breaks int
}

func (r *recordingRenderer) Handle(ev model.ProgressEvent) { r.events = append(r.events, ev) }

func (r *recordingRenderer) Break() { r.breaks++ }

// fakeRemuxer renames the input to the new container.
type fakeRemuxer struct {
	err   error
	calls int
}

func (f *fakeRemuxer) Remux(ctx context.Context, inputPath, container string, onProgress model.ProgressFunc) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	onProgress(model.ProgressEvent{Status: model.ProgressProcessing, Percent: 100, ETA: -1})
	out := inputPath[:len(inputPath)-len(filepath.Ext(inputPath))] + "." + container
	return out, os.Rename(inputPath, out)
}

// cancellingBackend reports some progress, then cancels the run.
type cancellingBackend struct {
	fakeBackend
	cancel context.CancelFunc
}

func (c *cancellingBackend) Fetch(ctx context.Context, req FetchRequest, onProgress model.ProgressFunc) (string, error) {
	onProgress(model.ProgressEvent{Status: model.ProgressDownloading, Percent: 40, ETA: -1})
	c.cancel()
	return "", ctx.Err()
}
