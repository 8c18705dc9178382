package search

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestDuckDuckGo_ParsesResultAnchors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("ParseForm: %v", err)
		}
		if q := r.PostForm.Get("q"); q != `"test query"` {
			t.Errorf("Expected quoted query in form, got %q", q)
		}
		fmt.Fprint(w, `<html><body>
			<a class="result__a" href="https://first.example/a">First</a>
			<a class="other" href="https://skip.example/x">Skip</a>
			<a class="result__a" href="https://second.example/b">Second</a>
		</body></html>`)
	}))
	defer server.Close()

	engine := NewDuckDuckGo(5*time.Second, "test-agent", 10)
	engine.endpoint = server.URL

	results := engine.Search(context.Background(), `"test query"`)

	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d: %v", len(results), results)
	}
	if results[0] != "https://first.example/a" || results[1] != "https://second.example/b" {
		t.Errorf("Unexpected results: %v", results)
	}
}

func TestDuckDuckGo_CapsResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>`)
		for i := 0; i < 10; i++ {
			fmt.Fprintf(w, `<a class="result__a" href="https://r%d.example/">r</a>`, i)
		}
		fmt.Fprint(w, `</body></html>`)
	}))
	defer server.Close()

	engine := NewDuckDuckGo(5*time.Second, "test-agent", 3)
	engine.endpoint = server.URL

	results := engine.Search(context.Background(), "query")
	if len(results) != 3 {
		t.Errorf("Expected result cap of 3, got %d", len(results))
	}
}

func TestDuckDuckGo_TransportFailureReturnsEmpty(t *testing.T) {
	engine := NewDuckDuckGo(time.Second, "test-agent", 10)
	engine.endpoint = "http://127.0.0.1:1"

	if results := engine.Search(context.Background(), "query"); len(results) != 0 {
		t.Errorf("Expected no results on transport failure, got %v", results)
	}
}

func TestGoogleCSE_ParsesItemLinks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("key") != "test-key" || q.Get("cx") != "test-cx" {
			t.Errorf("Expected credentials in query params, got key=%q cx=%q", q.Get("key"), q.Get("cx"))
		}
		if q.Get("num") != "5" {
			t.Errorf("Expected num=5, got %q", q.Get("num"))
		}
		fmt.Fprint(w, `{"items": [
			{"link": "https://first.example/a"},
			{"link": ""},
			{"link": "https://second.example/b"}
		]}`)
	}))
	defer server.Close()

	engine := NewGoogleCSE(5*time.Second, "test-key", "test-cx", 5)
	engine.endpoint = server.URL

	results := engine.Search(context.Background(), "query")

	if len(results) != 2 {
		t.Fatalf("Expected 2 results with empty links dropped, got %d: %v", len(results), results)
	}
	if results[0] != "https://first.example/a" {
		t.Errorf("Unexpected first result: %s", results[0])
	}
}

func TestGoogleCSE_ErrorStatusReturnsEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"code": 403}}`, http.StatusForbidden)
	}))
	defer server.Close()

	engine := NewGoogleCSE(5*time.Second, "bad-key", "test-cx", 5)
	engine.endpoint = server.URL

	if results := engine.Search(context.Background(), "query"); len(results) != 0 {
		t.Errorf("Expected no results on API error, got %v", results)
	}
}
