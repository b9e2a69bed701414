package handlers

type ContentParam struct {
	Content string `json:"content" form:"content"`
}
