package storage

import "agora/internal/utils"

var (
	ErrNoRows = utils.StorageError("no rows in result set")
)
