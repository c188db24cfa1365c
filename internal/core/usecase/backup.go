package usecase

import (
	"context"
	"fmt"

	"github.com/ch1kkapo0m/scraping-auto/internal/contextkeys"
	"github.com/ch1kkapo0m/scraping-auto/internal/core/port"
)

// BackupUseCase выгружает все сохраненные записи в файл. С конвейером сбора
// он не связан ничем, кроме самого хранилища.
type BackupUseCase struct {
	storage port.CarStoragePort
	writer  port.DumpWriterPort
}

// NewBackupUseCase создает новый экземпляр use case
func NewBackupUseCase(storage port.CarStoragePort, writer port.DumpWriterPort) *BackupUseCase {
	return &BackupUseCase{
		storage: storage,
		writer:  writer,
	}
}

// Execute читает все записи и пишет их в новый файл дампа.
func (uc *BackupUseCase) Execute(ctx context.Context) (string, error) {
	baseLogger := contextkeys.LoggerFromContext(ctx)
	ucLogger := baseLogger.WithFields(port.Fields{"use_case": "Backup"})

	records, err := uc.storage.ListAll(ctx)
	if err != nil {
		ucLogger.Error("Failed to read records for backup", err, nil)
		return "", fmt.Errorf("backup: failed to read records: %w", err)
	}

	path, err := uc.writer.Write(ctx, records)
	if err != nil {
		ucLogger.Error("Failed to write backup file", err, nil)
		return "", fmt.Errorf("backup: failed to write dump: %w", err)
	}

	ucLogger.Info("Backup written", port.Fields{
		"path":    path,
		"records": len(records),
	})
	return path, nil
}
