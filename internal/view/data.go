package view

import (
	"sampleapp/internal/model"
	"sampleapp/internal/service"
)

// HomeData backs the logged-in home page.
type HomeData struct {
	User       *model.User
	Stats      service.Stats
	Feed       []model.Micropost
	Pagination service.Pagination
	Content    string
}

// LoginData backs the login form.
type LoginData struct {
	Email string
}

// UserForm backs the signup and edit forms. User is nil on signup.
type UserForm struct {
	ID    uint
	Name  string
	Email string
	User  *model.User
}

// UserShowData backs a profile page.
type UserShowData struct {
	User           *model.User
	Stats          service.Stats
	Microposts     []model.Micropost
	Pagination     service.Pagination
	Path           string
	RelationshipID uint
}

// UsersIndexData backs the user listing.
type UsersIndexData struct {
	Users      []model.User
	Pagination service.Pagination
}

// FollowData backs the following and followers pages.
type FollowData struct {
	User       *model.User
	Stats      service.Stats
	Users      []model.User
	Pagination service.Pagination
	Path       string
}

// ErrorData backs the error page.
type ErrorData struct {
	Status  int
	Message string
}

// PostList is what the micropost_list partial ranges over.
type PostList struct {
	Posts  []model.Micropost
	Viewer *model.User
	CSRF   string
}

// Pager links the neighbours of one page of a listing.
type Pager struct {
	Path string
	service.Pagination
}
