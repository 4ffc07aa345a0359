package news

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/fleshka4/swap-proxy/internal/config"
	"github.com/fleshka4/swap-proxy/internal/metrics"
)

const rssFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:dc="http://purl.org/dc/elements/1.1/">
<channel>
	<title>Chain Weekly</title>
	<item>
		<title>Gas fees hit &amp; stay low</title>
		<link>https://news.example.com/gas-fees/</link>
		<description><![CDATA[<p>Base fee <b>dropped</b> below 5 gwei.</p>]]></description>
		<pubDate>Tue, 10 Jun 2025 09:00:00 +0000</pubDate>
	</item>
	<item>
		<title>Older story</title>
		<link>https://news.example.com/older</link>
		<pubDate>Mon, 09 Jun 2025 09:00:00 GMT</pubDate>
	</item>
	<item>
		<title>Dublin Core date</title>
		<guid>https://news.example.com/dc</guid>
		<dc:date>2025-06-11T08:00:00Z</dc:date>
	</item>
</channel>
</rss>`

const atomFeed = `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
	<title>DeFi Digest</title>
	<entry>
		<title>New pool launched</title>
		<link rel="alternate" href="https://digest.example.org/posts/1"/>
		<link rel="self" href="https://digest.example.org/api/1"/>
		<id>urn:uuid:1</id>
		<updated>2025-06-12T10:00:00Z</updated>
		<summary>A new pool.</summary>
	</entry>
	<entry>
		<title>Gas fees hit &amp; stay low</title>
		<link href="https://NEWS.example.com/gas-fees"/>
		<published>2025-06-10T09:00:00Z</published>
	</entry>
</feed>`

const jsonFeed = `{
	"version": "https://jsonfeed.org/version/1.1",
	"items": [
		{
			"id": "https://mempool.example.net/blobs",
			"url": "https://mempool.example.net/blobs",
			"title": "Blob fees spike",
			"content_html": "<p>Blob gas <i>spiked</i> after the upgrade.</p>",
			"date_modified": "2025-06-13T07:30:00+02:00"
		},
		{
			"id": "no-title",
			"content_text": "nothing to link to"
		}
	]
}`

func TestParseFeed(t *testing.T) {
	t.Parallel()

	t.Run("rss", func(t *testing.T) {
		t.Parallel()

		items, err := parseFeed(strings.NewReader(rssFeed), "https://news.example.com/rss")
		require.NoError(t, err)
		require.Len(t, items, 3)

		require.Equal(t, "Gas fees hit & stay low", items[0].Title)
		require.Equal(t, "Chain Weekly", items[0].Source)
		require.Equal(t, "Base fee dropped below 5 gwei.", items[0].Summary)
		require.Equal(t, time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC), items[0].PublishedAt)

		require.Equal(t, "https://news.example.com/dc", items[2].Link)
		require.Equal(t, time.Date(2025, 6, 11, 8, 0, 0, 0, time.UTC), items[2].PublishedAt)
	})

	t.Run("atom", func(t *testing.T) {
		t.Parallel()

		items, err := parseFeed(strings.NewReader(atomFeed), "https://digest.example.org/atom")
		require.NoError(t, err)
		require.Len(t, items, 2)

		require.Equal(t, "https://digest.example.org/posts/1", items[0].Link)
		require.Equal(t, "DeFi Digest", items[0].Source)
		require.Equal(t, "A new pool.", items[0].Summary)
		require.Equal(t, time.Date(2025, 6, 12, 10, 0, 0, 0, time.UTC), items[0].PublishedAt)
	})

	t.Run("json feed without title", func(t *testing.T) {
		t.Parallel()

		items, err := parseFeed(strings.NewReader(jsonFeed), "https://mempool.example.net/feed.json")
		require.NoError(t, err)
		require.Len(t, items, 1)

		require.Equal(t, "Blob fees spike", items[0].Title)
		require.Equal(t, "https://mempool.example.net/blobs", items[0].Link)
		require.Equal(t, "mempool.example.net", items[0].Source)
		require.Equal(t, "Blob gas spiked after the upgrade.", items[0].Summary)
		require.Equal(t, time.Date(2025, 6, 13, 5, 30, 0, 0, time.UTC), items[0].PublishedAt)
	})

	t.Run("not a feed", func(t *testing.T) {
		t.Parallel()

		_, err := parseFeed(strings.NewReader(`<html><body>hi</body></html>`), "https://x.test")
		require.Error(t, err)
	})
}

func TestMergeItems(t *testing.T) {
	t.Parallel()

	day := func(d int) time.Time { return time.Date(2025, 6, d, 0, 0, 0, 0, time.UTC) }

	items := []Item{
		{Title: "a", Link: "https://x.test/a/", PublishedAt: day(1)},
		{Title: "b", Link: "https://x.test/b", PublishedAt: day(3)},
		{Title: "a copy", Link: "https://X.test/a", PublishedAt: day(2)},
		{Title: "B", Link: "https://y.test/b", PublishedAt: day(4)},
		{Title: "undated", Link: "https://x.test/u"},
		{Title: "c", Link: "https://x.test/c", PublishedAt: day(5)},
	}

	got := mergeItems(items, 3)
	require.Len(t, got, 3)
	require.Equal(t, "c", got[0].Title)
	require.Equal(t, "b", got[1].Title)
	require.Equal(t, "a", got[2].Title)

	all := mergeItems(items, 0)
	require.Len(t, all, 4)
	require.Equal(t, "undated", all[3].Title)
}

func newFeedServer(t *testing.T) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/rss":
			w.Header().Set("Content-Type", "application/rss+xml")
			_, _ = w.Write([]byte(rssFeed))
		case "/atom":
			w.Header().Set("Content-Type", "application/atom+xml")
			_, _ = w.Write([]byte(atomFeed))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestAggregator(t *testing.T, feeds ...string) *Aggregator {
	t.Helper()

	return NewAggregator(config.NewsConfig{
		Feeds:           feeds,
		RefreshInterval: time.Hour,
		MaxItems:        50,
		Timeout:         time.Second,
	}, zaptest.NewLogger(t), metrics.New())
}

func TestAggregator_Refresh(t *testing.T) {
	t.Parallel()

	t.Run("merges feeds and skips failures", func(t *testing.T) {
		t.Parallel()

		srv := newFeedServer(t)
		a := newTestAggregator(t, srv.URL+"/rss", srv.URL+"/atom", srv.URL+"/missing")

		require.Nil(t, a.Snapshot().UpdatedAt)
		require.NoError(t, a.Refresh(context.Background()))

		snap := a.Snapshot()
		require.NotNil(t, snap.UpdatedAt)
		// The Atom copy of the gas story duplicates the RSS link.
		require.Len(t, snap.Items, 4)
		require.Equal(t, "New pool launched", snap.Items[0].Title)
	})

	t.Run("keeps previous snapshot when every feed fails", func(t *testing.T) {
		t.Parallel()

		var broken atomic.Bool
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if broken.Load() {
				http.NotFound(w, r)
				return
			}
			_, _ = w.Write([]byte(rssFeed))
		}))
		t.Cleanup(srv.Close)

		a := newTestAggregator(t, srv.URL)
		require.NoError(t, a.Refresh(context.Background()))
		before := a.Snapshot()

		broken.Store(true)
		require.Error(t, a.Refresh(context.Background()))
		require.Equal(t, before, a.Snapshot())
	})
}

func TestAggregator_StartStop(t *testing.T) {
	t.Parallel()

	srv := newFeedServer(t)
	a := newTestAggregator(t, srv.URL+"/rss")

	require.NoError(t, a.Start(context.Background()))
	defer a.Stop()

	require.Len(t, a.Snapshot().Items, 3)
}

func TestAggregator_NoFeeds(t *testing.T) {
	t.Parallel()

	a := newTestAggregator(t)
	require.NoError(t, a.Start(context.Background()))
	a.Stop()

	require.Empty(t, a.Snapshot().Items)
}
