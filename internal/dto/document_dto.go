package dto

type UploadDocumentResponse struct {
	Id         string `json:"id"`
	Title      string `json:"title"`
	ChunkCount int    `json:"chunk_count"`
}

type DocumentMetadata struct {
	ChunkCount int64 `json:"chunk_count"`
}

type DocumentSummary struct {
	Id       string           `json:"id"`
	Title    string           `json:"title"`
	Metadata DocumentMetadata `json:"metadata"`
}

type ListDocumentsResponse struct {
	Documents []DocumentSummary `json:"documents"`
	Count     int               `json:"count"`
}

type DeleteDocumentResponse struct {
	Id            string `json:"id"`
	ChunksDeleted int64  `json:"chunks_deleted"`
}

// DocumentIndexedMessage is published after a successful ingestion.
type DocumentIndexedMessage struct {
	ParentId   string `json:"parent_id"`
	Filename   string `json:"filename"`
	ChunkCount int    `json:"chunk_count"`
}

// DocumentDeletedMessage is published after a document's chunks are removed.
type DocumentDeletedMessage struct {
	ParentId      string `json:"parent_id"`
	ChunksDeleted int64  `json:"chunks_deleted"`
}
