package authors

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/blogposts/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=authors_test

type authorsRepo interface {
	Create(ctx context.Context, author *Author) error
	Get(ctx context.Context, id string) (*Author, error)
	GetMany(ctx context.Context, ids []string) (map[string]*Author, error)
	All(ctx context.Context) ([]*Author, error)
}

type Handler struct {
	repo authorsRepo
}

func NewHandler(repo authorsRepo) *Handler {
	return &Handler{
		repo: repo,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router, writeMiddlewares ...mux.MiddlewareFunc) {
	router.HandleFunc("/authors", handler.handleAll).Methods("GET").Name("list-authors")
	router.HandleFunc("/authors/{id}", handler.handleGet).Methods("GET").Name("get-author")

	writeRouter := router.NewRoute().Subrouter()
	writeRouter.Use(writeMiddlewares...)
	writeRouter.HandleFunc("/authors", handler.handleNew).Methods("POST").Name("new-author")
}

func (handler *Handler) handleAll(w http.ResponseWriter, r *http.Request) {
	all, err := handler.repo.All(r.Context())
	if err != nil {
		log.Errorf("get all authors: %s", err)
		pkg.WriteJSONError(w, "something went wrong", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, all, http.StatusOK)
}

func (handler *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	author, err := handler.repo.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrAuthorNotFound) {
			pkg.WriteJSONError(w, "author not found", http.StatusNotFound)
			return
		}
		log.Errorf("get author %s: %s", id, err)
		pkg.WriteJSONError(w, "something went wrong", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, author, http.StatusOK)
}

func (handler *Handler) handleNew(w http.ResponseWriter, r *http.Request) {
	var author Author
	if err := json.NewDecoder(r.Body).Decode(&author); err != nil {
		log.Debugf("new author, unmarshal json body: %s", err)
		pkg.WriteResponse(w, pkg.ContentType.Text, "invalid request body", http.StatusBadRequest)
		return
	}
	author.ID = ""

	if err := author.Validate(); err != nil {
		pkg.WriteResponse(w, pkg.ContentType.Text, err.Error(), http.StatusBadRequest)
		return
	}

	if err := handler.repo.Create(r.Context(), &author); err != nil {
		if errors.Is(err, ErrUserNameTaken) {
			pkg.WriteJSONError(w, "userName already taken", http.StatusConflict)
			return
		}
		log.Errorf("create author [%s]: %s", author.UserName, err)
		pkg.WriteJSONError(w, "Something is wrong", http.StatusInternalServerError)
		return
	}

	log.Tracef("new author %s: [%s] added", author.ID, author.UserName)
	pkg.WriteJSON(w, author, http.StatusCreated)
}
