package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"masterblog/api"
	"masterblog/storage/file"
	"masterblog/storage/models"
	"masterblog/utils"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/getkin/kin-openapi/openapi3filter"
	openapi3_routers "github.com/getkin/kin-openapi/routers"
	openapi3_legacy "github.com/getkin/kin-openapi/routers/legacy"
	"github.com/motemen/go-loghttp"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap/zaptest"
)

var ctx = context.Background()

func TestAPI(t *testing.T) {
	suite.Run(t, &APISuite{})
}

type APISuite struct {
	suite.Suite

	client        http.Client
	apiSpecRouter openapi3_routers.Router
	server        *httptest.Server
	postsFile     string
}

func (s *APISuite) SetupSuite() {
	spec, err := api.Load(ctx)
	s.Require().NoError(err)
	router, err := openapi3_legacy.NewRouter(spec)
	s.Require().NoError(err)
	s.apiSpecRouter = router
	s.client.Transport = s.specValidating(&loghttp.Transport{Transport: http.DefaultTransport})
}

func (s *APISuite) SetupTest() {
	s.postsFile = filepath.Join(s.T().TempDir(), "posts.json")
	logger := zaptest.NewLogger(s.T())
	router, err := NewRouter(file.CreateFileStorage(s.postsFile, logger), logger)
	s.Require().NoError(err)
	s.server = httptest.NewServer(router)
}

func (s *APISuite) TearDownTest() {
	s.server.Close()
}

func (s *APISuite) specValidating(transport http.RoundTripper) http.RoundTripper {
	return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
		reqBody := s.readAll(req.Body)
		req.Body = io.NopCloser(bytes.NewReader(reqBody))

		// validate request
		route, params, err := s.apiSpecRouter.FindRoute(req)
		s.Require().NoError(err)
		reqDescriptor := &openapi3filter.RequestValidationInput{
			Request:     req,
			PathParams:  params,
			QueryParams: req.URL.Query(),
			Route:       route,
		}
		s.Require().NoError(openapi3filter.ValidateRequest(ctx, reqDescriptor))

		// do request
		req.Body = io.NopCloser(bytes.NewReader(reqBody))
		resp, err := transport.RoundTrip(req)
		if err != nil {
			return nil, err
		}
		respBody := s.readAll(resp.Body)
		log.Printf("Got HTTP response: %s", respBody)

		// Validate response against OpenAPI spec
		s.Require().NoError(openapi3filter.ValidateResponse(ctx, &openapi3filter.ResponseValidationInput{
			RequestValidationInput: reqDescriptor,
			Status:                 resp.StatusCode,
			Header:                 resp.Header,
			Body:                   io.NopCloser(bytes.NewReader(respBody)),
		}))

		resp.Body = io.NopCloser(bytes.NewReader(respBody))
		return resp, nil
	})
}

func (s *APISuite) readAll(in io.Reader) []byte {
	if in == nil {
		return nil
	}
	data, err := io.ReadAll(in)
	s.Require().NoError(err)
	return data
}

type RoundTripperFunc func(*http.Request) (*http.Response, error)

func (fn RoundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return fn(req)
}

func (s *APISuite) do(method, path, body string) *http.Response {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, s.server.URL+path, reader)
	s.Require().NoError(err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := s.client.Do(req)
	s.Require().NoError(err)
	s.T().Cleanup(func() { resp.Body.Close() })
	return resp
}

func (s *APISuite) decode(resp *http.Response, v interface{}) {
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(v))
}

func (s *APISuite) create(body string) models.Post {
	resp := s.do("POST", "/api/posts", body)
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	var p models.Post
	s.decode(resp, &p)
	return p
}

func (s *APISuite) list(query string) []models.Post {
	resp := s.do("GET", "/api/posts"+query, "")
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var posts []models.Post
	s.decode(resp, &posts)
	return posts
}

// --------------- // TESTS // --------------- //

func (s *APISuite) TestCreateThenList() {
	created := s.create(`{"title": "Hello", "content": "World", "author": "Ann", "date": "2024-05-01"}`)
	s.Equal(1, created.Id)

	posts := s.list("")
	s.Require().Len(posts, 1)
	s.Equal(models.Post{Id: 1, Title: "Hello", Content: "World", Author: "Ann", Date: "2024-05-01"}, posts[0])

	raw, err := os.ReadFile(s.postsFile)
	s.Require().NoError(err)
	var stored []models.Post
	s.Require().NoError(json.Unmarshal(raw, &stored))
	s.Equal(posts, stored)
}

func (s *APISuite) TestIdsIncrease() {
	first := s.create(`{"title": "a", "content": "b"}`)
	second := s.create(`{"title": "c", "content": "d"}`)
	s.Greater(second.Id, first.Id)
	s.True(models.ValidDate(first.Date))
}

func (s *APISuite) TestCreateValidation() {
	resp := s.do("POST", "/api/posts", `{"title": "a", "content": "b", "date": "2024-13-40"}`)
	s.Equal(http.StatusBadRequest, resp.StatusCode)

	resp = s.do("POST", "/api/posts", `{"author": "nobody"}`)
	s.Equal(http.StatusBadRequest, resp.StatusCode)
	var body map[string]string
	s.decode(resp, &body)
	s.Equal("Missing field title, content", body["error"])
}

func (s *APISuite) TestListSortedByDateDesc() {
	s.create(`{"title": "a", "content": "x", "date": "2023-01-01"}`)
	s.create(`{"title": "b", "content": "x", "date": "2024-06-30"}`)
	s.create(`{"title": "c", "content": "x", "date": "2024-02-10"}`)

	posts := s.list("?sort=date&direction=desc")
	s.Require().Len(posts, 3)
	s.Equal([]string{"2024-06-30", "2024-02-10", "2023-01-01"},
		[]string{posts[0].Date, posts[1].Date, posts[2].Date})
}

func (s *APISuite) TestListBogusSort() {
	resp := s.do("GET", "/api/posts?sort=bogus", "")
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *APISuite) TestSearch() {
	s.create(`{"title": "Cats", "content": "x"}`)
	s.create(`{"title": "Dogs", "content": "cat food"}`)

	resp := s.do("GET", "/api/posts/search?content=cat", "")
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var posts []models.Post
	s.decode(resp, &posts)
	s.Require().Len(posts, 1)
	s.Equal("Dogs", posts[0].Title)

	resp = s.do("GET", "/api/posts/search?title=cat&content=cat", "")
	s.decode(resp, &posts)
	s.Len(posts, 2)
}

func (s *APISuite) TestUpdate() {
	created := s.create(`{"title": "t", "content": "c", "date": "2024-01-01"}`)

	resp := s.do("PUT", "/api/posts/1", `{"author": "X"}`)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var updated models.Post
	s.decode(resp, &updated)
	created.Author = "X"
	s.Equal(created, updated)

	resp = s.do("PUT", "/api/posts/1", `{"date": "tomorrow"}`)
	s.Equal(http.StatusBadRequest, resp.StatusCode)

	resp = s.do("PUT", "/api/posts/9999", `{"author": "X"}`)
	s.Equal(http.StatusNotFound, resp.StatusCode)
}

func (s *APISuite) TestDelete() {
	s.create(`{"title": "a", "content": "b"}`)
	s.create(`{"title": "c", "content": "d"}`)

	resp := s.do("DELETE", "/api/posts/9999", "")
	s.Equal(http.StatusNotFound, resp.StatusCode)

	resp = s.do("DELETE", "/api/posts/1", "")
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	posts := s.list("")
	s.Require().Len(posts, 1)
	s.Equal(2, posts[0].Id)
}

func (s *APISuite) TestCorruptFileIsEmpty() {
	s.Require().NoError(os.WriteFile(s.postsFile, []byte("{oops"), 0o644))
	s.Empty(s.list(""))

	created := s.create(`{"title": "a", "content": "b"}`)
	s.Equal(1, created.Id)
}

func (s *APISuite) TestDocs() {
	resp, err := http.Get(s.server.URL + "/static/masterblog.json")
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var doc map[string]interface{}
	s.decode(resp, &doc)
	s.Contains(doc, "paths")

	resp, err = http.Get(s.server.URL + "/api/docs")
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)
}

func (s *APISuite) TestCORS() {
	req, err := http.NewRequest("GET", s.server.URL+"/api/posts", nil)
	s.Require().NoError(err)
	req.Header.Set("Origin", "http://example.com")
	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal("*", resp.Header.Get("Access-Control-Allow-Origin"))

	req, err = http.NewRequest("OPTIONS", s.server.URL+"/api/posts/1", nil)
	s.Require().NoError(err)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "DELETE")
	resp, err = http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal("*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestCreateStorage(t *testing.T) {
	logger := zaptest.NewLogger(t)

	s, closeStorage, err := CreateStorage(ctx, utils.Config{StorageMode: utils.File, PostsFile: filepath.Join(t.TempDir(), "p.json")}, logger)
	require.NoError(t, err)
	defer closeStorage()
	require.IsType(t, &file.FileStorage{}, s)

	s, closeStorage, err = CreateStorage(ctx, utils.Config{StorageMode: utils.InMemory}, logger)
	require.NoError(t, err)
	defer closeStorage()
	posts, err := s.Read(ctx)
	require.NoError(t, err)
	require.Empty(t, posts)

	_, _, err = CreateStorage(ctx, utils.Config{StorageMode: "bogus"}, logger)
	require.Error(t, err)
}
