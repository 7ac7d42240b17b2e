package models

// FieldError is an expected validation failure tied to a request field. These
// travel in response bodies, never as transport faults; the UI maps field
// name to an inline message.
type FieldError struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

type UserResponse struct {
	Errors []FieldError `json:"errors,omitempty"`
	User   *User        `json:"user,omitempty"`
}

type VoteResponse struct {
	Errors       []FieldError `json:"errors,omitempty"`
	IsSuccessful bool         `json:"isSuccessful"`
}

type PostsResponse struct {
	Posts   []Post `json:"posts"`
	HasMore bool   `json:"hasMore"`
}

type CommentResponse struct {
	Errors  []FieldError `json:"errors,omitempty"`
	Comment *Comment     `json:"comment,omitempty"`
}
