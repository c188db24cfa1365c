package usecases_port

import "context"

// BackupPort — входящий порт для выгрузки базы в файл.
type BackupPort interface {
	// Execute возвращает путь к созданному файлу бэкапа.
	Execute(ctx context.Context) (string, error)
}
