package service

import (
	"tg-wordguard/internal/logger"
	"tg-wordguard/internal/storage"
)

var (
	banRepository     *storage.BanRepository
	warningRepository *storage.WarningRepository
)

// InitRepositories initializes the repositories if database is enabled
func InitRepositories() {
	if storage.DB == nil {
		return
	}

	banRepository = storage.NewBanRepository(storage.DB)
	if err := banRepository.MigrateTable(); err != nil {
		logger.Warningf("Error migrating BanEvent table: %v", err)
	}

	warningRepository = storage.NewWarningRepository(storage.DB)
	if err := warningRepository.MigrateTable(); err != nil {
		logger.Warningf("Error migrating WarningEvent table: %v", err)
	}
}
