// Package download implements the probe and fetch pipeline. A Backend wraps
// one extraction library (yt-dlp through github.com/lrstanley/go-ytdlp, or the
// pure-Go github.com/ytget/ytdlp/v2 and github.com/kkdai/youtube/v2 clients);
// the Service turns probe results into format options, runs the fetch,
// optionally remuxes the result and reports progress.
package download
