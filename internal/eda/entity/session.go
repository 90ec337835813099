package entity

import "time"

// StoredRef points at one table persisted in the upload bucket.
type StoredRef struct {
	ID      int64    `json:"id"`
	Key     string   `json:"key"`
	Name    string   `json:"name"`
	Rows    int      `json:"rows"`
	Columns []string `json:"columns"`
}

// Session is what the server remembers for one browser session.
type Session struct {
	Filename   string     `json:"filename"`
	RowCount   int        `json:"row_count"`
	Columns    []string   `json:"columns"`
	UploadID   int64      `json:"upload_id"`
	UploadedAt time.Time  `json:"uploaded_at"`
	Current    string     `json:"current"`
	Cleaned    *StoredRef `json:"cleaned,omitempty"`
}
