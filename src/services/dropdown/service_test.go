package dropdown

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"Backend-FormForge/src/models"

	"github.com/stretchr/testify/assert"
)

func TestLoadPageResponseShapes(t *testing.T) {
	// bare array ของ objects
	t.Run("TestBareArray", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `[{"id":1,"name":"Alpha"},{"id":2,"name":"Beta"}]`)
		}))
		defer srv.Close()

		page, err := NewLoader().LoadPage(context.Background(), srv.URL, "", "")
		assert.NoError(t, err)
		assert.False(t, page.HasMore)
		assert.Equal(t, []models.DropdownOption{
			{Value: "1", Label: "Alpha"},
			{Value: "2", Label: "Beta"},
		}, page.Options)
	})

	// {results, next} แบบ paginated
	t.Run("TestResultsWithNextCursor", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"results":[{"name":"bulbasaur","url":"u1"}],"next":"https://example.com/api?offset=20"}`)
		}))
		defer srv.Close()

		page, err := NewLoader().LoadPage(context.Background(), srv.URL, "", "")
		assert.NoError(t, err)
		assert.True(t, page.HasMore)
		assert.Equal(t, "https://example.com/api?offset=20", page.NextPageToken)
		assert.Len(t, page.Options, 1)
		assert.Equal(t, "bulbasaur", page.Options[0].Value)
	})

	// object-of-objects: แต่ละ value เป็นหนึ่งตัวเลือก เรียงตาม key
	t.Run("TestObjectOfObjects", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"b":{"id":"2","title":"Second"},"a":{"id":"1","title":"First"}}`)
		}))
		defer srv.Close()

		page, err := NewLoader().LoadPage(context.Background(), srv.URL, "", "")
		assert.NoError(t, err)
		assert.Equal(t, []models.DropdownOption{
			{Value: "1", Label: "First"},
			{Value: "2", Label: "Second"},
		}, page.Options)
	})

	t.Run("TestListOfScalars", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `["red","green"]`)
		}))
		defer srv.Close()

		page, err := NewLoader().LoadPage(context.Background(), srv.URL, "", "")
		assert.NoError(t, err)
		assert.Equal(t, []models.DropdownOption{
			{Value: "red", Label: "red"},
			{Value: "green", Label: "green"},
		}, page.Options)
	})

	t.Run("TestErrorStatus", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		_, err := NewLoader().LoadPage(context.Background(), srv.URL, "", "")
		assert.Error(t, err)
	})
}

func TestOptionFallbackChains(t *testing.T) {
	t.Run("TestValuePrefersID", func(t *testing.T) {
		o := optionFromItem(map[string]interface{}{"id": float64(7), "value": "v", "name": "n"})
		assert.Equal(t, "7", o.Value)
	})

	t.Run("TestLabelPrefersTitle", func(t *testing.T) {
		o := optionFromItem(map[string]interface{}{"title": "T", "name": "n", "id": "1"})
		assert.Equal(t, "T", o.Label)
	})

	t.Run("TestLabelFallsBackToName", func(t *testing.T) {
		o := optionFromItem(map[string]interface{}{"name": "n", "id": "1"})
		assert.Equal(t, "n", o.Label)
		assert.Equal(t, "1", o.Value)
	})

	// ไม่มี key ที่รู้จักเลย = serialize ทั้ง object
	t.Run("TestSerializedFallback", func(t *testing.T) {
		o := optionFromItem(map[string]interface{}{"code": "x"})
		assert.Equal(t, `{"code":"x"}`, o.Value)
		assert.Equal(t, `{"code":"x"}`, o.Label)
	})
}

func TestBuildURL(t *testing.T) {
	t.Run("TestQueryParams", func(t *testing.T) {
		u, err := buildURL("https://api.example.com/items", "wid", "2")
		assert.NoError(t, err)
		assert.Contains(t, u, "search=wid")
		assert.Contains(t, u, "page=2")
	})

	// next cursor ที่เป็น absolute URL ใช้แทน endpoint ทั้งก้อน
	t.Run("TestAbsoluteNextURL", func(t *testing.T) {
		u, err := buildURL("https://api.example.com/items", "ignored", "https://api.example.com/items?offset=20")
		assert.NoError(t, err)
		assert.Equal(t, "https://api.example.com/items?offset=20", u)
	})

	t.Run("TestNoParams", func(t *testing.T) {
		u, err := buildURL("https://api.example.com/items", "", "")
		assert.NoError(t, err)
		assert.Equal(t, "https://api.example.com/items", u)
	})
}

func TestLoadLatestSupersedes(t *testing.T) {
	release := make(chan struct{})
	first := make(chan struct{})
	var calls int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			close(first)
			// request แรกค้างจน context ถูก cancel โดย request ที่ใหม่กว่า
			select {
			case <-r.Context().Done():
				return
			case <-release:
			}
		}
		fmt.Fprint(w, `[{"id":1,"name":"latest"}]`)
	}))
	defer srv.Close()
	defer close(release)

	loader := NewLoader()
	errs := make(chan error, 1)
	go func() {
		_, err := loader.LoadLatest(context.Background(), "client-1", srv.URL, "a", "")
		errs <- err
	}()

	<-first
	page, err := loader.LoadLatest(context.Background(), "client-1", srv.URL, "ab", "")
	assert.NoError(t, err)
	assert.Equal(t, "latest", page.Options[0].Label)

	select {
	case err := <-errs:
		assert.ErrorIs(t, err, ErrSuperseded)
	case <-time.After(3 * time.Second):
		t.Fatal("superseded request did not return")
	}
}

func TestLoadLatestDifferentClientsDoNotInterfere(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"id":1,"name":"ok"}]`)
	}))
	defer srv.Close()

	loader := NewLoader()
	pageA, errA := loader.LoadLatest(context.Background(), "client-a", srv.URL, "", "")
	pageB, errB := loader.LoadLatest(context.Background(), "client-b", srv.URL, "", "")

	assert.NoError(t, errA)
	assert.NoError(t, errB)
	assert.Len(t, pageA.Options, 1)
	assert.Len(t, pageB.Options, 1)
}
