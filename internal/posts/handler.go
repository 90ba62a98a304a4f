package posts

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/blogposts/pkg"
)

// keys a new post body must carry, checked in this order
var requiredFields = []string{"title", "content", "author"}

var errInvalidContent = errors.New("content must be a string, number, boolean or null")

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service: service,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router, writeMiddlewares ...mux.MiddlewareFunc) {
	router.HandleFunc("/posts", handler.handleList).Methods("GET").Name("list-posts")
	router.HandleFunc("/posts/{id}", handler.handleGet).Methods("GET").Name("get-post")

	writeRouter := router.NewRoute().Subrouter()
	writeRouter.Use(writeMiddlewares...)
	writeRouter.HandleFunc("/posts", handler.handleNew).Methods("POST").Name("new-post")
	writeRouter.HandleFunc("/posts/{id}", handler.handleUpdate).Methods("PUT").Name("update-post")
	writeRouter.HandleFunc("/posts/{id}", handler.handleDelete).Methods("DELETE").Name("delete-post")
}

func (handler *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	posts, err := handler.service.List(r.Context())
	if err != nil {
		log.Errorf("list posts: %s", err)
		pkg.WriteJSONError(w, "something went terribly wrong", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, SerializeAll(posts), http.StatusOK)
}

func (handler *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	post, err := handler.service.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, fmt.Sprintf("get post %s", id), err, "something went wrong")
		return
	}

	pkg.WriteJSON(w, post, http.StatusOK)
}

func (handler *Handler) handleNew(w http.ResponseWriter, r *http.Request) {
	var body map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		log.Debugf("new post, unmarshal json body: %s", err)
		pkg.WriteResponse(w, pkg.ContentType.Text, "invalid request body", http.StatusBadRequest)
		return
	}

	for _, field := range requiredFields {
		if _, ok := body[field]; !ok {
			pkg.WriteResponse(w, pkg.ContentType.Text, fmt.Sprintf("no %s in request body", field), http.StatusBadRequest)
			return
		}
	}

	content, err := decodeContent(body["content"])
	if err != nil {
		pkg.WriteResponse(w, pkg.ContentType.Text, err.Error(), http.StatusBadRequest)
		return
	}
	embedded, authorID := decodeAuthor(body["author"])

	post := &BlogPost{
		Title:    decodeTitle(body["title"]),
		Content:  content,
		Author:   embedded,
		AuthorID: authorID,
	}

	created, err := handler.service.Create(r.Context(), post)
	if err != nil {
		writeServiceError(w, "create post", err, "Something is wrong")
		return
	}

	log.Tracef("new post %s: [%s] added", created.ID, created.Title)
	pkg.WriteJSON(w, created.Serialize(), http.StatusCreated)
}

func (handler *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var body map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		log.Debugf("update post %s, unmarshal json body: %s", id, err)
		pkg.WriteResponse(w, pkg.ContentType.Text, "invalid request body", http.StatusBadRequest)
		return
	}

	var bodyID string
	rawID, ok := body["id"]
	if !ok || json.Unmarshal(rawID, &bodyID) != nil || bodyID != id {
		pkg.WriteJSONError(w, "Request Path id and request body id values must match", http.StatusBadRequest)
		return
	}

	upd, err := decodeUpdate(body)
	if err != nil {
		pkg.WriteResponse(w, pkg.ContentType.Text, err.Error(), http.StatusBadRequest)
		return
	}

	if err := handler.service.Update(r.Context(), id, upd); err != nil {
		writeServiceError(w, fmt.Sprintf("update post %s", id), err, "Something went wrong")
		return
	}

	pkg.WriteNoContent(w)
}

func (handler *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := handler.service.Delete(r.Context(), id); err != nil {
		writeServiceError(w, fmt.Sprintf("delete post %s", id), err, "Something went wrong")
		return
	}

	log.Tracef("post %s deleted", id)
	pkg.WriteNoContent(w)
}

// writeServiceError maps the known sentinel errors to client errors. Anything
// else is logged and answered with a generic 500 body.
func writeServiceError(w http.ResponseWriter, action string, err error, internalMessage string) {
	switch {
	case errors.Is(err, ErrPostNotFound):
		pkg.WriteJSONError(w, "post not found", http.StatusNotFound)
	case errors.Is(err, ErrTitleRequired):
		pkg.WriteResponse(w, pkg.ContentType.Text, ErrTitleRequired.Error(), http.StatusBadRequest)
	default:
		log.Errorf("%s: %s", action, err)
		pkg.WriteJSONError(w, internalMessage, http.StatusInternalServerError)
	}
}

func decodeUpdate(body map[string]json.RawMessage) (PostUpdate, error) {
	var upd PostUpdate

	if raw, ok := body["title"]; ok {
		title := decodeTitle(raw)
		upd.Title = &title
	}
	if raw, ok := body["content"]; ok {
		content, err := decodeContent(raw)
		if err != nil {
			return PostUpdate{}, err
		}
		upd.SetContent = true
		upd.Content = content
	}
	if raw, ok := body["author"]; ok {
		upd.SetAuthor = true
		upd.Author, upd.AuthorID = decodeAuthor(raw)
	}

	return upd, nil
}

// decodeTitle casts the raw title to text. Values that have no text form
// give an empty title, leaving the required check to the store.
func decodeTitle(raw json.RawMessage) string {
	title, _ := castString(raw)
	return title
}

func decodeContent(raw json.RawMessage) (*string, error) {
	if isNull(raw) {
		return nil, nil
	}
	content, ok := castString(raw)
	if !ok {
		return nil, errInvalidContent
	}
	return &content, nil
}

// castString turns JSON strings, numbers and booleans into text.
// Numbers are written in their shortest decimal form, so 5.0 becomes "5".
func castString(raw json.RawMessage) (string, bool) {
	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return "", false
	}

	switch v := value.(type) {
	case string:
		return v, true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(v), true
	default:
		return "", false
	}
}

// decodeAuthor accepts an embedded {firstName, lastName} object or a string
// author id. Any other shape becomes an empty embedded author.
func decodeAuthor(raw json.RawMessage) (*EmbeddedAuthor, string) {
	if isNull(raw) {
		return &EmbeddedAuthor{}, ""
	}

	var authorID string
	if err := json.Unmarshal(raw, &authorID); err == nil && authorID != "" {
		return nil, authorID
	}

	embedded := &EmbeddedAuthor{}
	if err := json.Unmarshal(raw, embedded); err != nil {
		return &EmbeddedAuthor{}, ""
	}
	return embedded, ""
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
