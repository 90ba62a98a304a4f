//go:build integration_test || all_tests

package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/2beens/blogposts/internal/posts"
)

func (s *IntegrationTestSuite) do(ctx context.Context, method, path, body string) (int, []byte) {
	req, err := http.NewRequestWithContext(ctx, method, serverEndpoint+path, bytes.NewBufferString(body))
	s.Require().NoError(err)
	req.Header.Set("User-Agent", "test-agent")
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)

	return resp.StatusCode, respBytes
}

func (s *IntegrationTestSuite) listPosts(ctx context.Context) []posts.SerializedPost {
	status, body := s.do(ctx, http.MethodGet, "/posts", "")
	s.Require().Equal(http.StatusOK, status)

	var list []posts.SerializedPost
	s.Require().NoError(json.Unmarshal(body, &list))
	return list
}

func (s *IntegrationTestSuite) TestListPosts() {
	ctx := context.Background()

	status, body := s.do(ctx, http.MethodGet, "/posts", "")
	s.Require().Equal(http.StatusOK, status)

	var raw []map[string]any
	s.Require().NoError(json.Unmarshal(body, &raw))
	s.Len(raw, seededPostsCount)
	for _, p := range raw {
		s.Len(p, 5)
		for _, field := range []string{"id", "author", "content", "title", "created"} {
			s.Contains(p, field)
		}
		s.NotEmpty(p["author"])
		s.NotEmpty(p["title"])
	}
}

func (s *IntegrationTestSuite) TestGetPost() {
	ctx := context.Background()
	first := s.listPosts(ctx)[0]

	status, body := s.do(ctx, http.MethodGet, "/posts/"+first.ID, "")
	s.Require().Equal(http.StatusOK, status)

	var got posts.SerializedPost
	s.Require().NoError(json.Unmarshal(body, &got))
	s.Equal(first, got)

	// second read goes through the redis cache and must look the same
	status, body = s.do(ctx, http.MethodGet, "/posts/"+first.ID, "")
	s.Require().Equal(http.StatusOK, status)
	var cached posts.SerializedPost
	s.Require().NoError(json.Unmarshal(body, &cached))
	s.Equal(first, cached)
}

func (s *IntegrationTestSuite) TestCreatePost() {
	ctx := context.Background()

	status, body := s.do(ctx, http.MethodPost, "/posts",
		`{"title":"Hello","content":"World","author":{"firstName":"Ada","lastName":"Lovelace"}}`)
	s.Require().Equal(http.StatusCreated, status, string(body))

	var created posts.SerializedPost
	s.Require().NoError(json.Unmarshal(body, &created))
	s.NotEmpty(created.ID)
	s.Equal("Hello", created.Title)
	s.Equal("Ada Lovelace", created.Author)
	s.Require().NotNil(created.Content)
	s.Equal("World", *created.Content)

	s.Len(s.listPosts(ctx), seededPostsCount+1)
}

func (s *IntegrationTestSuite) TestCreatePost_validation() {
	ctx := context.Background()

	for body, expected := range map[string]string{
		`{"content":"c","author":{}}`:            "no title in request body",
		`{"title":"t","author":{}}`:              "no content in request body",
		`{"title":"t","content":"c"}`:            "no author in request body",
		`{"title":"","content":"c","author":{}}`: "title is required",
	} {
		status, resp := s.do(ctx, http.MethodPost, "/posts", body)
		s.Equal(http.StatusBadRequest, status, body)
		s.Equal(expected, strings.TrimSpace(string(resp)), body)
	}

	s.Len(s.listPosts(ctx), seededPostsCount)
}

func (s *IntegrationTestSuite) TestUpdatePost() {
	ctx := context.Background()
	target := s.listPosts(ctx)[3]

	// warm the cache so the update has something to invalidate
	status, _ := s.do(ctx, http.MethodGet, "/posts/"+target.ID, "")
	s.Require().Equal(http.StatusOK, status)

	status, _ = s.do(ctx, http.MethodPut, "/posts/"+target.ID,
		fmt.Sprintf(`{"id":%q,"title":"Updated title","content":null}`, target.ID))
	s.Require().Equal(http.StatusNoContent, status)

	status, body := s.do(ctx, http.MethodGet, "/posts/"+target.ID, "")
	s.Require().Equal(http.StatusOK, status)
	var updated posts.SerializedPost
	s.Require().NoError(json.Unmarshal(body, &updated))
	s.Equal("Updated title", updated.Title)
	s.Nil(updated.Content)
	s.Equal(target.Author, updated.Author)
	s.Equal(target.Created, updated.Created)
}

func (s *IntegrationTestSuite) TestUpdatePost_idMismatch() {
	ctx := context.Background()
	target := s.listPosts(ctx)[0]

	status, body := s.do(ctx, http.MethodPut, "/posts/"+target.ID, `{"id":"something-else","title":"x"}`)
	s.Equal(http.StatusBadRequest, status)
	s.JSONEq(`{"error":"Request Path id and request body id values must match"}`, string(body))

	status, body = s.do(ctx, http.MethodGet, "/posts/"+target.ID, "")
	s.Require().Equal(http.StatusOK, status)
	var unchanged posts.SerializedPost
	s.Require().NoError(json.Unmarshal(body, &unchanged))
	s.Equal(target.Title, unchanged.Title)
}

func (s *IntegrationTestSuite) TestDeletePost() {
	ctx := context.Background()
	target := s.listPosts(ctx)[5]

	status, _ := s.do(ctx, http.MethodGet, "/posts/"+target.ID, "")
	s.Require().Equal(http.StatusOK, status)

	status, _ = s.do(ctx, http.MethodDelete, "/posts/"+target.ID, "")
	s.Require().Equal(http.StatusNoContent, status)

	status, body := s.do(ctx, http.MethodGet, "/posts/"+target.ID, "")
	s.Equal(http.StatusNotFound, status)
	s.JSONEq(`{"error":"post not found"}`, string(body))

	status, _ = s.do(ctx, http.MethodDelete, "/posts/"+target.ID, "")
	s.Equal(http.StatusNotFound, status)

	s.Len(s.listPosts(ctx), seededPostsCount-1)
}

func (s *IntegrationTestSuite) TestAuthorReference() {
	ctx := context.Background()

	status, body := s.do(ctx, http.MethodPost, "/authors",
		`{"firstName":"Grace","lastName":"Hopper","userName":"grace"}`)
	s.Require().Equal(http.StatusCreated, status, string(body))
	var author struct {
		ID string `json:"id"`
	}
	s.Require().NoError(json.Unmarshal(body, &author))

	status, body = s.do(ctx, http.MethodPost, "/posts",
		fmt.Sprintf(`{"title":"COBOL","content":null,"author":%q}`, author.ID))
	s.Require().Equal(http.StatusCreated, status, string(body))
	var created posts.SerializedPost
	s.Require().NoError(json.Unmarshal(body, &created))
	s.Equal("Grace Hopper", created.Author)

	var found bool
	for _, p := range s.listPosts(ctx) {
		if p.ID == created.ID {
			found = true
			s.Equal("Grace Hopper", p.Author)
		}
	}
	s.True(found)
}
