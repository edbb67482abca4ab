package worldbank

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/meridianhq/meridian/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const emptyPage = `[{"page":3,"pages":2,"per_page":50,"total":3},null]`

func pageBody(records string) string {
	return fmt.Sprintf(`[{"page":1,"pages":2,"per_page":50,"total":3},%s]`, records)
}

func record(code, name, date string, value string) string {
	return fmt.Sprintf(`{
		"indicator":{"id":"SL.UEM.TOTL.ZS","value":"Unemployment, total (%% of total labor force)"},
		"country":{"id":"%s","value":"%s"},
		"countryiso3code":"%s",
		"date":"%s",
		"value":%s,
		"unit":"","obs_status":"","decimal":1
	}`, code[:2], name, code, date, value)
}

func newTestClient(t *testing.T, handler http.HandlerFunc, maxPages int) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{
		BaseURL:  srv.URL,
		MaxPages: maxPages,
		Logger:   testutil.NewTestLogger(t),
	})
}

func TestFetch_PaginatesUntilEmptyPage(t *testing.T) {
	var requestedPages []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/SL.UEM.TOTL.ZS", r.URL.Path)
		assert.Equal(t, "2019:2021", r.URL.Query().Get("date"))
		assert.Equal(t, "json", r.URL.Query().Get("format"))

		page := r.URL.Query().Get("page")
		requestedPages = append(requestedPages, page)
		switch page {
		case "1":
			fmt.Fprint(w, pageBody("["+record("DEU", "Germany", "2021", "3.6")+","+record("DEU", "Germany", "2020", "3.8")+"]"))
		case "2":
			fmt.Fprint(w, pageBody("["+record("SGP", "Singapore", "2021", "4.1")+"]"))
		default:
			fmt.Fprint(w, emptyPage)
		}
	}, 0)

	records, err := client.Fetch(context.Background(), "SL.UEM.TOTL.ZS", "2019:2021", FetchOptions{})
	require.NoError(t, err)

	require.Len(t, records, 3)
	assert.Equal(t, []string{"1", "2", "3"}, requestedPages)

	// Page arrival order is preserved.
	assert.Equal(t, "DEU", records[0].CountryISO3)
	assert.Equal(t, "2021", records[0].Date)
	assert.Equal(t, "SGP", records[2].CountryISO3)
	require.NotNil(t, records[0].Value)
	assert.InDelta(t, 3.6, *records[0].Value, 0.001)
}

func TestFetch_NullValuePassesThrough(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "1" {
			fmt.Fprint(w, pageBody("["+record("ERI", "Eritrea", "2020", "null")+"]"))
			return
		}
		fmt.Fprint(w, emptyPage)
	}, 0)

	records, err := client.Fetch(context.Background(), "SL.UEM.TOTL.ZS", "2020", FetchOptions{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Nil(t, records[0].Value)
}

func TestFetch_ShortEnvelopeTerminates(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		// Single-element envelope, as the API answers an out-of-range page.
		fmt.Fprint(w, `[{"message":[{"id":"120"}]}]`)
	}, 0)

	records, err := client.Fetch(context.Background(), "SL.UEM.TOTL.ZS", "2020", FetchOptions{})
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestFetch_HTTPErrorStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}, 0)

	_, err := client.Fetch(context.Background(), "SL.UEM.TOTL.ZS", "2020", FetchOptions{})
	require.Error(t, err)

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, http.StatusBadGateway, fetchErr.StatusCode)
	assert.Equal(t, 1, fetchErr.Page)
	assert.Equal(t, "SL.UEM.TOTL.ZS", fetchErr.Indicator)
}

func TestFetch_MalformedPayload(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html>not json</html>`)
	}, 0)

	_, err := client.Fetch(context.Background(), "SL.UEM.TOTL.ZS", "2020", FetchOptions{})
	require.Error(t, err)

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.ErrorContains(t, err, "malformed response")
}

func TestFetch_PaginationLimit(t *testing.T) {
	pages := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		pages++
		// Never yields a terminal page.
		fmt.Fprint(w, pageBody("["+record("DEU", "Germany", "2020", "3.8")+"]"))
	}, 3)

	_, err := client.Fetch(context.Background(), "SL.UEM.TOTL.ZS", "2020", FetchOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPaginationLimit)
	assert.Equal(t, 3, pages)
}

func TestFetch_StopAtYear(t *testing.T) {
	pages := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		pages++
		switch r.URL.Query().Get("page") {
		case "1":
			fmt.Fprint(w, pageBody("["+record("DEU", "Germany", "2015", "4.6")+"]"))
		case "2":
			fmt.Fprint(w, pageBody("["+record("DEU", "Germany", "2014", "5.0")+"]"))
		default:
			fmt.Fprint(w, emptyPage)
		}
	}, 0)

	records, err := client.Fetch(context.Background(), "SL.UEM.TOTL.ZS", "2010:2020", FetchOptions{StopAtYear: 2015})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 1, pages)
}

func TestDecodePage(t *testing.T) {
	t.Run("null data element", func(t *testing.T) {
		records, err := decodePage("X", 1, []byte(emptyPage))
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("malformed data element", func(t *testing.T) {
		_, err := decodePage("X", 1, []byte(`[{"page":1},{"not":"an array"}]`))
		require.Error(t, err)
		assert.ErrorContains(t, err, "malformed data page")
	})
}
