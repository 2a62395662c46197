package models

import "time"

// BackupResult describe un respaldo subido al almacenamiento de objetos
type BackupResult struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"createdAt"`
}
