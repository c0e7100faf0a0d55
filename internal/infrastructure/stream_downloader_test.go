package infrastructure

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/video-downloader-go/internal/domain"
)

func payload(size int) []byte {
	return bytes.Repeat([]byte{0xAB}, size)
}

func newTestStreamDownloader(chunkSize int) *StreamDownloader {
	return NewStreamDownloader(&domain.DownloadConfig{ChunkSize: chunkSize}, nil)
}

func TestStreamDownloader_Fetch_ProgressInTenSteps(t *testing.T) {
	body := payload(1_000_000)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "video/mp4")
		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		for i := 0; i < 10; i++ {
			w.Write(body[i*100_000 : (i+1)*100_000])
			w.(http.Flusher).Flush()
		}
	}))
	defer server.Close()

	var percents []int
	result, err := newTestStreamDownloader(100_000).Fetch(context.Background(), server.URL+"/files/x.mp4", func(p domain.Progress) {
		assert.Equal(t, int64(1_000_000), p.Total)
		percents = append(percents, p.Percent)
	})

	require.NoError(t, err)
	assert.Equal(t, []int{10, 20, 30, 40, 50, 60, 70, 80, 90, 100}, percents)
	assert.Equal(t, 10, result.Chunks)
	assert.Equal(t, body, result.Data)
	assert.Equal(t, "video/mp4", result.ContentType)
}

func TestStreamDownloader_Fetch_ProgressNeverDecreases(t *testing.T) {
	body := payload(123_457)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		w.Write(body)
	}))
	defer server.Close()

	last := -1
	result, err := newTestStreamDownloader(4096).Fetch(context.Background(), server.URL, func(p domain.Progress) {
		assert.GreaterOrEqual(t, p.Percent, last)
		assert.LessOrEqual(t, p.Percent, 100)
		last = p.Percent
	})

	require.NoError(t, err)
	assert.Equal(t, 100, last)
	assert.Len(t, result.Data, len(body))
}

func TestStreamDownloader_Fetch_UnknownSize(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// flushing before the end forces chunked transfer encoding
		w.Write(payload(1000))
		w.(http.Flusher).Flush()
		w.Write(payload(1000))
	}))
	defer server.Close()

	var reports []domain.Progress
	result, err := newTestStreamDownloader(500).Fetch(context.Background(), server.URL, func(p domain.Progress) {
		reports = append(reports, p)
	})

	require.NoError(t, err)
	assert.Len(t, result.Data, 2000)
	require.NotEmpty(t, reports)
	for _, p := range reports {
		assert.False(t, p.Known())
		assert.Zero(t, p.Percent)
	}
	assert.Equal(t, int64(2000), reports[len(reports)-1].Received)
}

func TestStreamDownloader_Fetch_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	called := false
	_, err := newTestStreamDownloader(1024).Fetch(context.Background(), server.URL, func(domain.Progress) {
		called = true
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDownloadStatus)
	assert.False(t, called)
}

func TestStreamDownloader_Fetch_TruncatedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, rw, err := w.(http.Hijacker).Hijack()
		if !assert.NoError(t, err) {
			return
		}
		defer conn.Close()
		fmt.Fprintf(rw, "HTTP/1.1 200 OK\r\nContent-Length: 1000\r\nContent-Type: video/mp4\r\n\r\n")
		rw.Write(payload(500))
		rw.Flush()
	}))
	defer server.Close()

	var last domain.Progress
	_, err := newTestStreamDownloader(100).Fetch(context.Background(), server.URL, func(p domain.Progress) {
		last = p
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDownloadRead)
	assert.Equal(t, int64(500), last.Received)
	assert.Equal(t, 50, last.Percent)
}

func TestStreamDownloader_Fetch_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := newTestStreamDownloader(1024).Fetch(context.Background(), url, nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDownloadStatus)
}

func TestReadChunk(t *testing.T) {
	buf := make([]byte, 4)

	n, err := readChunk(bytes.NewReader([]byte("abcdef")), buf)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, "abcd", string(buf))

	r := bytes.NewReader([]byte("xy"))
	n, err = readChunk(r, buf)
	assert.Equal(t, 2, n)
	assert.ErrorIs(t, err, io.EOF)
}
