package research

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func searchPage(results string) string {
	return fmt.Sprintf(`<html><body><div id="links">%s</div></body></html>`, results)
}

func resultMarkup(title, href, snippet string) string {
	return fmt.Sprintf(`<div class="result">
		<a class="result__a" href="%s">%s</a>
		<a class="result__snippet">%s</a>
	</div>`, href, title, snippet)
}

func TestSearch_ParsesResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "spacex launch", r.Form.Get("q"))
		fmt.Fprint(w, searchPage(
			resultMarkup("SpaceX News", "https://example.com/spacex", "Latest launch coverage")+
				resultMarkup("Launch Schedule", "https://example.com/schedule", "Upcoming missions"),
		))
	}))
	defer srv.Close()

	r := New(srv.URL, zerolog.Nop())
	results, err := r.Search(context.Background(), "spacex launch")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "SpaceX News", results[0].Title)
	assert.Equal(t, "https://example.com/spacex", results[0].URL)
	assert.Equal(t, "Latest launch coverage", results[0].Snippet)
	assert.Equal(t, "Launch Schedule", results[1].Title)
}

func TestSearch_UnwrapsRedirectLinks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, searchPage(resultMarkup(
			"Hit", "//duckduckgo.com/l/?uddg=https%3A%2F%2Ftarget.example%2Fpage", "snippet")))
	}))
	defer srv.Close()

	r := New(srv.URL, zerolog.Nop())
	results, err := r.Search(context.Background(), "q")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "https://target.example/page", results[0].URL)
}

func TestFetchPageText_SkipsChrome(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head><style>body{}</style></head><body>
			<nav>Menu</nav>
			<script>alert(1)</script>
			<p>Useful    content here.</p>
			<footer>Copyright</footer>
		</body></html>`)
	}))
	defer srv.Close()

	r := New("", zerolog.Nop())
	text, err := r.FetchPageText(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Contains(t, text, "Useful content here.")
	assert.NotContains(t, text, "Menu")
	assert.NotContains(t, text, "alert")
	assert.NotContains(t, text, "Copyright")
}

func TestSearchAndSummarize(t *testing.T) {
	var pageSrv *httptest.Server
	pageSrv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "<html><body><p>Page body about rockets. %s</p></body></html>",
			strings.Repeat("More detail. ", 60))
	}))
	defer pageSrv.Close()

	searchSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, searchPage(resultMarkup("Rockets", pageSrv.URL, "all about rockets")))
	}))
	defer searchSrv.Close()

	r := New(searchSrv.URL, zerolog.Nop())
	summary, err := r.SearchAndSummarize(context.Background(), "rockets", 3)
	require.NoError(t, err)

	assert.Contains(t, summary, "Research results for 'rockets':")
	assert.Contains(t, summary, "Source 1: Rockets")
	assert.Contains(t, summary, "Snippet: all about rockets")
	assert.Contains(t, summary, "Page body about rockets.")
	assert.Contains(t, summary, "...", "long page content is truncated")
}

func TestSearchAndSummarize_NoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, searchPage(""))
	}))
	defer srv.Close()

	r := New(srv.URL, zerolog.Nop())
	summary, err := r.SearchAndSummarize(context.Background(), "nothing", 3)
	require.NoError(t, err)
	assert.Equal(t, "I couldn't find any results for 'nothing'.", summary)
}

func TestSearchAndSummarize_BrokenPageSkipped(t *testing.T) {
	searchSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, searchPage(resultMarkup("Dead", "http://127.0.0.1:1/nope", "gone")))
	}))
	defer searchSrv.Close()

	r := New(searchSrv.URL, zerolog.Nop())
	summary, err := r.SearchAndSummarize(context.Background(), "dead link", 1)
	require.NoError(t, err)
	assert.Contains(t, summary, "[content unavailable]")
}

func TestExtractText_Direct(t *testing.T) {
	doc, err := html.Parse(strings.NewReader("<p>one</p><p>two</p>"))
	require.NoError(t, err)
	assert.Equal(t, "one two", ExtractText(doc))
}
