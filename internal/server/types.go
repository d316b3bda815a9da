package server

import (
	"github.com/ppiankov/numinfo/internal/model"
	"github.com/ppiankov/numinfo/internal/notify"
)

type lookupRequest struct {
	Number string `json:"number"`
}

type lookupResponse struct {
	Record  *model.LookupRecord `json:"record,omitempty"`
	Error   string              `json:"error,omitempty"`
	Notices []notify.Notice     `json:"notices"`
}

// batchRequest carries either explicit numbers or free-form text
type batchRequest struct {
	Numbers []string `json:"numbers"`
	Text    string   `json:"text"`
}

type batchResponse struct {
	Records []model.LookupRecord `json:"records"`
	Summary []summaryEntry       `json:"summary"`
	Failed  int                  `json:"failed"`
	Total   int                  `json:"total"`
	Notices []notify.Notice      `json:"notices"`
}

type summaryRequest struct {
	Records []model.LookupRecord `json:"records"`
}

// summaryEntry is an operator count with its rounded share of the total
type summaryEntry struct {
	Operator string `json:"operator"`
	Count    int    `json:"count"`
	Share    int    `json:"share"`
}

type summaryResponse struct {
	Summary []summaryEntry `json:"summary"`
	Total   int            `json:"total"`
}

type errorResponse struct {
	Error   string          `json:"error"`
	Notices []notify.Notice `json:"notices,omitempty"`
}
