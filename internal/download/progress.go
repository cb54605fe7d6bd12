package download

import (
	"io"
	"time"

	"golang.org/x/time/rate"

	"github.com/ytget/ytpick/internal/model"
)

// throttle limits fn to one downloading event per interval. The first event
// and completed transfers always pass.
func throttle(interval time.Duration, fn model.ProgressFunc) model.ProgressFunc {
	if fn == nil {
		return func(model.ProgressEvent) {}
	}
	every := &rate.Sometimes{First: 1, Interval: interval}
	return func(ev model.ProgressEvent) {
		if ev.Status != model.ProgressDownloading ||
			(ev.TotalBytes > 0 && ev.DownloadedBytes >= ev.TotalBytes) {
			fn(ev)
			return
		}
		every.Do(func() { fn(ev) })
	}
}

// progressReader counts bytes read from r and reports them.
type progressReader struct {
	r       io.Reader
	total   int64
	read    int64
	started time.Time
	report  model.ProgressFunc
}

func newProgressReader(r io.Reader, total int64, interval time.Duration, fn model.ProgressFunc) *progressReader {
	return &progressReader{
		r:       r,
		total:   total,
		started: time.Now(),
		report:  throttle(interval, fn),
	}
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.read += int64(n)
		p.report(model.NewByteProgress(p.read, p.total, p.started))
	}
	return n, err
}
