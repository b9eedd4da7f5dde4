package tasks

import (
	"encoding/base64"
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	TypeIngest = "docqa:ingest"
	TypeQuery  = "docqa:query"
	TypeInfo   = "docqa:info"
)

type ingestTaskPayload struct {
	Name string `json:"name"`
	// Content holds the base64 encoded file bytes.
	Content string `json:"content"`
}

func NewIngestTask(name string, data []byte) (*asynq.Task, error) {
	tp := ingestTaskPayload{
		Name:    name,
		Content: base64.StdEncoding.EncodeToString(data),
	}
	payload, err := json.Marshal(tp)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeIngest, payload), nil
}

type queryTaskPayload struct {
	Query      string `json:"query"`
	DocumentID string `json:"document_id"`
	TopK       int    `json:"top_k,omitempty"`
}

func NewQueryTask(query, documentID string, topK int) (*asynq.Task, error) {
	tp := queryTaskPayload{
		Query:      query,
		DocumentID: documentID,
		TopK:       topK,
	}
	payload, err := json.Marshal(tp)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeQuery, payload), nil
}

type infoTaskPayload struct {
	DocumentID string `json:"document_id"`
}

func NewInfoTask(documentID string) (*asynq.Task, error) {
	tp := infoTaskPayload{DocumentID: documentID}
	payload, err := json.Marshal(tp)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeInfo, payload), nil
}
