package dto

type ReindexRequest struct {
	Prefix string `json:"prefix,omitempty"`
}

type ReindexResponse struct {
	Documents int `json:"documents"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
