package storage

import "marketScope/internal/model"

// Storage defines a sink for result records.
type Storage interface {
	PutRecords(records []model.ResultRecord) error
}
