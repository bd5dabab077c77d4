package api

import (
	"github.com/cinfoposte/unwomen-jobs/app/feed"
	"github.com/cinfoposte/unwomen-jobs/app/tasks"
)

type Handler struct {
	store  *feed.Store
	status *tasks.StatusTracker
}

func NewHandler(store *feed.Store, status *tasks.StatusTracker) *Handler {
	return &Handler{
		store:  store,
		status: status,
	}
}
